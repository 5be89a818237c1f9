// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"

	"github.com/shellwallet/btccore/bitcoin/bhash"
	"github.com/shellwallet/btccore/bitcoin/compactsize"
)

func init() {
	register(CmdInv, func(p []byte, pver uint32) (Message, error) {
		m := &MsgInv{}
		return m, m.Decode(p, pver)
	})
	register(CmdGetData, func(p []byte, pver uint32) (Message, error) {
		m := &MsgGetData{}
		return m, m.Decode(p, pver)
	})
	register(CmdNotFound, func(p []byte, pver uint32) (Message, error) {
		m := &MsgNotFound{}
		return m, m.Decode(p, pver)
	})
}

// InvType identifies the kind of object an InvVect names.
type InvType uint32

const (
	InvTypeError InvType = 0
	InvTypeTx    InvType = 1
	InvTypeBlock InvType = 2

	// InvTypeWitnessFlag, or'd into InvTypeTx/InvTypeBlock, requests the
	// witness-serialized form of the object (BIP-144).
	InvTypeWitnessFlag   InvType = 1 << 30
	InvTypeWitnessTx             = InvTypeTx | InvTypeWitnessFlag
	InvTypeWitnessBlock          = InvTypeBlock | InvTypeWitnessFlag
	InvTypeFilteredBlock InvType = 3
	InvTypeCompactBlock  InvType = 4
)

func (t InvType) String() string {
	switch t {
	case InvTypeError:
		return "ERROR"
	case InvTypeTx:
		return "MSG_TX"
	case InvTypeBlock:
		return "MSG_BLOCK"
	case InvTypeFilteredBlock:
		return "MSG_FILTERED_BLOCK"
	case InvTypeCompactBlock:
		return "MSG_CMPCT_BLOCK"
	case InvTypeWitnessTx:
		return "MSG_WITNESS_TX"
	case InvTypeWitnessBlock:
		return "MSG_WITNESS_BLOCK"
	default:
		return fmt.Sprintf("UNKNOWN_INV_TYPE(%d)", uint32(t))
	}
}

// InvVect names one object by type and hash.
type InvVect struct {
	Type InvType
	Hash bhash.Hash
}

// MaxInvPerMsg bounds a single inv/getdata/notfound message.
const MaxInvPerMsg = 50000

func encodeInvList(list []InvVect) ([]byte, error) {
	w := compactsize.NewWriteBuffer(1 + len(list)*(4+bhash.Size))
	w.PutCompactSize(uint64(len(list)))
	for _, iv := range list {
		w.PutUint32LE(uint32(iv.Type))
		w.PutBytes(iv.Hash.Bytes())
	}
	return w.Bytes(), nil
}

func decodeInvList(payload []byte) ([]InvVect, error) {
	v := compactsize.NewReadView(payload)
	count, err := v.CompactSizeInt()
	if err != nil {
		return nil, err
	}
	if count > MaxInvPerMsg {
		return nil, ErrParseTooMany
	}
	list := make([]InvVect, count)
	for i := 0; i < count; i++ {
		typ, err := v.Uint32LE()
		if err != nil {
			return nil, err
		}
		raw, err := v.Take(bhash.Size)
		if err != nil {
			return nil, err
		}
		h, err := bhash.NewHash(raw)
		if err != nil {
			return nil, err
		}
		list[i] = InvVect{Type: InvType(typ), Hash: h}
	}
	return list, nil
}

// MsgInv advertises objects a peer has available.
type MsgInv struct {
	InvList []InvVect
}

func (m *MsgInv) Command() string                  { return CmdInv }
func (m *MsgInv) Encode() ([]byte, error)           { return encodeInvList(m.InvList) }
func (m *MsgInv) Decode(payload []byte, _ uint32) error {
	list, err := decodeInvList(payload)
	if err != nil {
		return err
	}
	m.InvList = list
	return nil
}

// MsgGetData requests the objects named by InvList.
type MsgGetData struct {
	InvList []InvVect
}

func (m *MsgGetData) Command() string                  { return CmdGetData }
func (m *MsgGetData) Encode() ([]byte, error)           { return encodeInvList(m.InvList) }
func (m *MsgGetData) Decode(payload []byte, _ uint32) error {
	list, err := decodeInvList(payload)
	if err != nil {
		return err
	}
	m.InvList = list
	return nil
}

// MsgNotFound responds to a MsgGetData for objects the peer could not supply.
type MsgNotFound struct {
	InvList []InvVect
}

func (m *MsgNotFound) Command() string                  { return CmdNotFound }
func (m *MsgNotFound) Encode() ([]byte, error)           { return encodeInvList(m.InvList) }
func (m *MsgNotFound) Decode(payload []byte, _ uint32) error {
	list, err := decodeInvList(payload)
	if err != nil {
		return err
	}
	m.InvList = list
	return nil
}

// Copyright (c) 2018 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// BIP-157/158 compact filter messages: requesting and serving Golomb-coded
// set filters and their header chain, out of band from full block
// download.
package wire

import (
	"github.com/shellwallet/btccore/bitcoin/bhash"
	"github.com/shellwallet/btccore/bitcoin/compactsize"
	"github.com/shellwallet/btccore/bitcoin/gcs"
)

func init() {
	register(CmdCFilter, func(p []byte, pver uint32) (Message, error) {
		m := &MsgCFilter{}
		return m, m.Decode(p, pver)
	})
	register(CmdCFHeaders, func(p []byte, pver uint32) (Message, error) {
		m := &MsgCFHeaders{}
		return m, m.Decode(p, pver)
	})
	register(CmdCFCheckpt, func(p []byte, pver uint32) (Message, error) {
		m := &MsgCFCheckpt{}
		return m, m.Decode(p, pver)
	})
	register(CmdGetCFilters, func(p []byte, pver uint32) (Message, error) {
		m := &MsgGetCFilters{}
		return m, m.Decode(p, pver)
	})
	register(CmdGetCFHeaders, func(p []byte, pver uint32) (Message, error) {
		m := &MsgGetCFHeaders{}
		return m, m.Decode(p, pver)
	})
	register(CmdGetCFCheckpt, func(p []byte, pver uint32) (Message, error) {
		m := &MsgGetCFCheckpt{}
		return m, m.Decode(p, pver)
	})
}

// FilterType identifies which compact filter variant a message concerns.
// BIP-157 defines only the basic filter (0).
type FilterType uint8

const FilterTypeBasic FilterType = 0

// MsgCFilter carries one block's compact filter.
type MsgCFilter struct {
	FilterType  FilterType
	BlockHash   bhash.Hash
	FilterBytes []byte
}

func (m *MsgCFilter) Command() string { return CmdCFilter }

func (m *MsgCFilter) Encode() ([]byte, error) {
	w := compactsize.NewWriteBuffer(1 + bhash.Size + len(m.FilterBytes) + 5)
	w.PutByte(byte(m.FilterType))
	w.PutBytes(m.BlockHash.Bytes())
	w.PutCompactBytes(m.FilterBytes)
	return w.Bytes(), nil
}

func (m *MsgCFilter) Decode(payload []byte, _ uint32) error {
	v := compactsize.NewReadView(payload)
	ft, err := v.Byte()
	if err != nil {
		return err
	}
	raw, err := v.Take(bhash.Size)
	if err != nil {
		return err
	}
	h, err := bhash.NewHash(raw)
	if err != nil {
		return err
	}
	filterBytes, err := v.CompactBytes()
	if err != nil {
		return err
	}
	m.FilterType = FilterType(ft)
	m.BlockHash = h
	m.FilterBytes = append([]byte(nil), filterBytes...)
	return nil
}

// Filter decodes this message's raw bytes into a gcs.Filter, given the
// out-of-band Golomb-Rice parameters this chain uses.
func (m *MsgCFilter) Filter(p uint8, mParam uint64) (*gcs.Filter, error) {
	return gcs.Deserialize(p, mParam, m.FilterBytes)
}

// MsgCFHeaders carries a batch of filter headers anchored by a stop hash and
// the header preceding the batch.
type MsgCFHeaders struct {
	FilterType     FilterType
	StopHash       bhash.Hash
	PreviousHeader bhash.Hash
	FilterHashes   []bhash.Hash
}

func (m *MsgCFHeaders) Command() string { return CmdCFHeaders }

func (m *MsgCFHeaders) Encode() ([]byte, error) {
	w := compactsize.NewWriteBuffer(1 + bhash.Size*2 + 1 + len(m.FilterHashes)*bhash.Size)
	w.PutByte(byte(m.FilterType))
	w.PutBytes(m.StopHash.Bytes())
	w.PutBytes(m.PreviousHeader.Bytes())
	w.PutCompactSize(uint64(len(m.FilterHashes)))
	for _, h := range m.FilterHashes {
		w.PutBytes(h.Bytes())
	}
	return w.Bytes(), nil
}

func (m *MsgCFHeaders) Decode(payload []byte, _ uint32) error {
	v := compactsize.NewReadView(payload)
	ft, err := v.Byte()
	if err != nil {
		return err
	}
	stop, err := v.Take(bhash.Size)
	if err != nil {
		return err
	}
	stopHash, err := bhash.NewHash(stop)
	if err != nil {
		return err
	}
	prev, err := v.Take(bhash.Size)
	if err != nil {
		return err
	}
	prevHeader, err := bhash.NewHash(prev)
	if err != nil {
		return err
	}
	count, err := v.CompactSizeInt()
	if err != nil {
		return err
	}
	if count > MaxHeadersPerMsg {
		return ErrParseTooMany
	}
	hashes := make([]bhash.Hash, count)
	for i := 0; i < count; i++ {
		raw, err := v.Take(bhash.Size)
		if err != nil {
			return err
		}
		h, err := bhash.NewHash(raw)
		if err != nil {
			return err
		}
		hashes[i] = h
	}
	m.FilterType = FilterType(ft)
	m.StopHash = stopHash
	m.PreviousHeader = prevHeader
	m.FilterHashes = hashes
	return nil
}

// MsgCFCheckpt carries filter headers at fixed intervals, letting a client
// detect a divergence without downloading every intermediate header.
type MsgCFCheckpt struct {
	FilterType    FilterType
	StopHash      bhash.Hash
	FilterHeaders []bhash.Hash
}

func (m *MsgCFCheckpt) Command() string { return CmdCFCheckpt }

func (m *MsgCFCheckpt) Encode() ([]byte, error) {
	w := compactsize.NewWriteBuffer(1 + bhash.Size + 1 + len(m.FilterHeaders)*bhash.Size)
	w.PutByte(byte(m.FilterType))
	w.PutBytes(m.StopHash.Bytes())
	w.PutCompactSize(uint64(len(m.FilterHeaders)))
	for _, h := range m.FilterHeaders {
		w.PutBytes(h.Bytes())
	}
	return w.Bytes(), nil
}

func (m *MsgCFCheckpt) Decode(payload []byte, _ uint32) error {
	v := compactsize.NewReadView(payload)
	ft, err := v.Byte()
	if err != nil {
		return err
	}
	stop, err := v.Take(bhash.Size)
	if err != nil {
		return err
	}
	stopHash, err := bhash.NewHash(stop)
	if err != nil {
		return err
	}
	count, err := v.CompactSizeInt()
	if err != nil {
		return err
	}
	headers := make([]bhash.Hash, count)
	for i := 0; i < count; i++ {
		raw, err := v.Take(bhash.Size)
		if err != nil {
			return err
		}
		h, err := bhash.NewHash(raw)
		if err != nil {
			return err
		}
		headers[i] = h
	}
	m.FilterType = FilterType(ft)
	m.StopHash = stopHash
	m.FilterHeaders = headers
	return nil
}

// MsgGetCFilters requests compact filters for a range of blocks by height and
// stop hash.
type MsgGetCFilters struct {
	FilterType  FilterType
	StartHeight uint32
	StopHash    bhash.Hash
}

func (m *MsgGetCFilters) Command() string { return CmdGetCFilters }

func (m *MsgGetCFilters) Encode() ([]byte, error) {
	w := compactsize.NewWriteBuffer(1 + 4 + bhash.Size)
	w.PutByte(byte(m.FilterType))
	w.PutUint32LE(m.StartHeight)
	w.PutBytes(m.StopHash.Bytes())
	return w.Bytes(), nil
}

func (m *MsgGetCFilters) Decode(payload []byte, _ uint32) error {
	v := compactsize.NewReadView(payload)
	ft, err := v.Byte()
	if err != nil {
		return err
	}
	height, err := v.Uint32LE()
	if err != nil {
		return err
	}
	raw, err := v.Take(bhash.Size)
	if err != nil {
		return err
	}
	h, err := bhash.NewHash(raw)
	if err != nil {
		return err
	}
	m.FilterType = FilterType(ft)
	m.StartHeight = height
	m.StopHash = h
	return nil
}

// MsgGetCFHeaders requests a filter header batch for a range of blocks.
type MsgGetCFHeaders struct {
	FilterType  FilterType
	StartHeight uint32
	StopHash    bhash.Hash
}

func (m *MsgGetCFHeaders) Command() string { return CmdGetCFHeaders }
func (m *MsgGetCFHeaders) Encode() ([]byte, error) {
	return (&MsgGetCFilters{m.FilterType, m.StartHeight, m.StopHash}).Encode()
}
func (m *MsgGetCFHeaders) Decode(payload []byte, pver uint32) error {
	g := &MsgGetCFilters{}
	if err := g.Decode(payload, pver); err != nil {
		return err
	}
	m.FilterType, m.StartHeight, m.StopHash = g.FilterType, g.StartHeight, g.StopHash
	return nil
}

// MsgGetCFCheckpt requests the filter-header checkpoint chain up to a stop
// hash.
type MsgGetCFCheckpt struct {
	FilterType FilterType
	StopHash   bhash.Hash
}

func (m *MsgGetCFCheckpt) Command() string { return CmdGetCFCheckpt }

func (m *MsgGetCFCheckpt) Encode() ([]byte, error) {
	w := compactsize.NewWriteBuffer(1 + bhash.Size)
	w.PutByte(byte(m.FilterType))
	w.PutBytes(m.StopHash.Bytes())
	return w.Bytes(), nil
}

func (m *MsgGetCFCheckpt) Decode(payload []byte, _ uint32) error {
	v := compactsize.NewReadView(payload)
	ft, err := v.Byte()
	if err != nil {
		return err
	}
	raw, err := v.Take(bhash.Size)
	if err != nil {
		return err
	}
	h, err := bhash.NewHash(raw)
	if err != nil {
		return err
	}
	m.FilterType = FilterType(ft)
	m.StopHash = h
	return nil
}

// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"github.com/shellwallet/btccore/bitcoin/bhash"
	"github.com/shellwallet/btccore/bitcoin/compactsize"
	"github.com/shellwallet/btccore/bitcoin/header"
)

func init() {
	register(CmdVerAck, func(p []byte, pver uint32) (Message, error) {
		m := &MsgVerAck{}
		return m, m.Decode(p, pver)
	})
	register(CmdPing, func(p []byte, pver uint32) (Message, error) {
		m := &MsgPing{}
		return m, m.Decode(p, pver)
	})
	register(CmdPong, func(p []byte, pver uint32) (Message, error) {
		m := &MsgPong{}
		return m, m.Decode(p, pver)
	})
	register(CmdGetHeaders, func(p []byte, pver uint32) (Message, error) {
		m := &MsgGetHeaders{}
		return m, m.Decode(p, pver)
	})
	register(CmdHeaders, func(p []byte, pver uint32) (Message, error) {
		m := &MsgHeaders{}
		return m, m.Decode(p, pver)
	})
	register(CmdGetBlocks, func(p []byte, pver uint32) (Message, error) {
		m := &MsgGetBlocks{}
		return m, m.Decode(p, pver)
	})
}

// MsgVerAck acknowledges a peer's version message. It carries no payload.
type MsgVerAck struct{}

func (m *MsgVerAck) Command() string                 { return CmdVerAck }
func (m *MsgVerAck) Encode() ([]byte, error)          { return nil, nil }
func (m *MsgVerAck) Decode(payload []byte, _ uint32) error { return nil }

// MsgPing carries a nonce a peer must echo back in a MsgPong.
type MsgPing struct {
	Nonce uint64
}

func (m *MsgPing) Command() string { return CmdPing }

func (m *MsgPing) Encode() ([]byte, error) {
	w := compactsize.NewWriteBuffer(8)
	w.PutUint64LE(m.Nonce)
	return w.Bytes(), nil
}

func (m *MsgPing) Decode(payload []byte, _ uint32) error {
	v := compactsize.NewReadView(payload)
	nonce, err := v.Uint64LE()
	if err != nil {
		return err
	}
	m.Nonce = nonce
	return nil
}

// MsgPong echoes a MsgPing's nonce.
type MsgPong struct {
	Nonce uint64
}

func (m *MsgPong) Command() string { return CmdPong }

func (m *MsgPong) Encode() ([]byte, error) {
	w := compactsize.NewWriteBuffer(8)
	w.PutUint64LE(m.Nonce)
	return w.Bytes(), nil
}

func (m *MsgPong) Decode(payload []byte, _ uint32) error {
	v := compactsize.NewReadView(payload)
	nonce, err := v.Uint64LE()
	if err != nil {
		return err
	}
	m.Nonce = nonce
	return nil
}

// MaxBlockLocatorHashes bounds a locator's hash list, matching the
// longest reasonable exponential-backoff chain a peer would ever send.
const MaxBlockLocatorHashes = 500

// locatorCodec is shared by MsgGetHeaders and MsgGetBlocks: both carry a
// protocol version, a block locator (most recent first), and a stop
// hash.
type locatorCodec struct {
	ProtocolVersion uint32
	BlockLocator    []bhash.Hash
	HashStop        bhash.Hash
}

func (l *locatorCodec) encode() ([]byte, error) {
	w := compactsize.NewWriteBuffer(4 + 1 + len(l.BlockLocator)*bhash.Size + bhash.Size)
	w.PutUint32LE(l.ProtocolVersion)
	w.PutCompactSize(uint64(len(l.BlockLocator)))
	for _, h := range l.BlockLocator {
		w.PutBytes(h.Bytes())
	}
	w.PutBytes(l.HashStop.Bytes())
	return w.Bytes(), nil
}

func (l *locatorCodec) decode(payload []byte) error {
	v := compactsize.NewReadView(payload)
	pver, err := v.Uint32LE()
	if err != nil {
		return err
	}
	count, err := v.CompactSizeInt()
	if err != nil {
		return err
	}
	if count > MaxBlockLocatorHashes {
		return ErrParseTooMany
	}
	l.ProtocolVersion = pver
	l.BlockLocator = make([]bhash.Hash, count)
	for i := 0; i < count; i++ {
		b, err := v.Take(bhash.Size)
		if err != nil {
			return err
		}
		h, err := bhash.NewHash(b)
		if err != nil {
			return err
		}
		l.BlockLocator[i] = h
	}
	stop, err := v.Take(bhash.Size)
	if err != nil {
		return err
	}
	h, err := bhash.NewHash(stop)
	if err != nil {
		return err
	}
	l.HashStop = h
	return nil
}

// MsgGetHeaders requests a sequence of headers starting after the first
// locator hash the remote peer recognizes.
type MsgGetHeaders struct {
	locatorCodec
}

func (m *MsgGetHeaders) Command() string                  { return CmdGetHeaders }
func (m *MsgGetHeaders) Encode() ([]byte, error)           { return m.locatorCodec.encode() }
func (m *MsgGetHeaders) Decode(payload []byte, _ uint32) error { return m.locatorCodec.decode(payload) }

// MsgGetBlocks requests a sequence of block inventory starting after the
// first locator hash the remote peer recognizes.
type MsgGetBlocks struct {
	locatorCodec
}

func (m *MsgGetBlocks) Command() string                  { return CmdGetBlocks }
func (m *MsgGetBlocks) Encode() ([]byte, error)           { return m.locatorCodec.encode() }
func (m *MsgGetBlocks) Decode(payload []byte, _ uint32) error { return m.locatorCodec.decode(payload) }

// MaxHeadersPerMsg bounds a single MsgHeaders message.
const MaxHeadersPerMsg = 2000

// MsgHeaders carries a batch of block headers, each followed by a
// CompactSize transaction count (always zero on the wire, since headers
// never carry transactions).
type MsgHeaders struct {
	Headers []header.Header
}

func (m *MsgHeaders) Command() string { return CmdHeaders }

func (m *MsgHeaders) Encode() ([]byte, error) {
	w := compactsize.NewWriteBuffer(1 + len(m.Headers)*(header.Size+1))
	w.PutCompactSize(uint64(len(m.Headers)))
	for _, h := range m.Headers {
		w.PutBytes(h.Serialize())
		w.PutCompactSize(0)
	}
	return w.Bytes(), nil
}

func (m *MsgHeaders) Decode(payload []byte, _ uint32) error {
	v := compactsize.NewReadView(payload)
	count, err := v.CompactSizeInt()
	if err != nil {
		return err
	}
	if count > MaxHeadersPerMsg {
		return ErrParseTooMany
	}
	m.Headers = make([]header.Header, count)
	for i := 0; i < count; i++ {
		raw, err := v.Take(header.Size)
		if err != nil {
			return err
		}
		h, err := header.Parse(raw)
		if err != nil {
			return err
		}
		if _, err := v.CompactSizeInt(); err != nil {
			return err
		}
		m.Headers[i] = h
	}
	return nil
}

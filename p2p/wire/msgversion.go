// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"github.com/shellwallet/btccore/bitcoin/chainparams"
	"github.com/shellwallet/btccore/bitcoin/compactsize"
)

func init() {
	register(CmdVersion, func(p []byte, pver uint32) (Message, error) {
		m := &MsgVersion{}
		return m, m.Decode(p, pver)
	})
}

// NetAddress is the abbreviated peer address carried inside a MsgVersion
// message: no timestamp field, services + a 16-byte (IPv4-mapped IPv6 or
// native IPv6) address + port.
type NetAddress struct {
	Services chainparams.ServiceFlag
	IP       [16]byte
	Port     uint16
}

func (a NetAddress) encode(w *compactsize.WriteBuffer) {
	w.PutUint64LE(uint64(a.Services))
	w.PutBytes(a.IP[:])
	w.PutUint16BE(a.Port)
}

func (a *NetAddress) decode(v *compactsize.ReadView) error {
	services, err := v.Uint64LE()
	if err != nil {
		return err
	}
	ip, err := v.Take(16)
	if err != nil {
		return err
	}
	port, err := v.Uint16BE()
	if err != nil {
		return err
	}
	a.Services = chainparams.ServiceFlag(services)
	copy(a.IP[:], ip)
	a.Port = port
	return nil
}

// MsgVersion is the first message a peer sends on connect, announcing its
// protocol version, services, and capabilities.
type MsgVersion struct {
	ProtocolVersion int32
	Services        chainparams.ServiceFlag
	Timestamp       int64
	AddrRecv        NetAddress
	AddrFrom        NetAddress
	Nonce           uint64
	UserAgent       string
	LastBlock       int32
	RelayTxes       bool
}

func (m *MsgVersion) Command() string { return CmdVersion }

func (m *MsgVersion) Encode() ([]byte, error) {
	w := compactsize.NewWriteBuffer(86 + len(m.UserAgent))
	w.PutInt32LE(m.ProtocolVersion)
	w.PutUint64LE(uint64(m.Services))
	w.PutInt64LE(m.Timestamp)
	m.AddrRecv.encode(w)
	m.AddrFrom.encode(w)
	w.PutUint64LE(m.Nonce)
	w.PutCompactBytes([]byte(m.UserAgent))
	w.PutInt32LE(m.LastBlock)
	if m.RelayTxes {
		w.PutByte(1)
	} else {
		w.PutByte(0)
	}
	return w.Bytes(), nil
}

func (m *MsgVersion) Decode(payload []byte, _ uint32) error {
	v := compactsize.NewReadView(payload)

	pver, err := v.Int32LE()
	if err != nil {
		return err
	}
	services, err := v.Uint64LE()
	if err != nil {
		return err
	}
	ts, err := v.Int64LE()
	if err != nil {
		return err
	}
	m.ProtocolVersion = pver
	m.Services = chainparams.ServiceFlag(services)
	m.Timestamp = ts
	m.RelayTxes = true

	if err := m.AddrRecv.decode(v); err != nil {
		return err
	}

	// AddrFrom and the fields after it are absent on very old handshakes;
	// treat their absence as zero values rather than an error, except
	// RelayTxes, which defaults to true.
	if v.Remaining() == 0 {
		return nil
	}
	if err := m.AddrFrom.decode(v); err != nil {
		return err
	}
	if v.Remaining() == 0 {
		return nil
	}
	nonce, err := v.Uint64LE()
	if err != nil {
		return err
	}
	m.Nonce = nonce

	if v.Remaining() == 0 {
		return nil
	}
	ua, err := v.CompactBytes()
	if err != nil {
		return err
	}
	m.UserAgent = string(ua)

	if v.Remaining() == 0 {
		return nil
	}
	lastBlock, err := v.Int32LE()
	if err != nil {
		return err
	}
	m.LastBlock = lastBlock

	if v.Remaining() == 0 {
		m.RelayTxes = true
		return nil
	}
	b, err := v.Byte()
	if err != nil {
		return err
	}
	m.RelayTxes = b != 0
	return nil
}

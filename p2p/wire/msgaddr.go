// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"time"

	"github.com/shellwallet/btccore/bitcoin/chainparams"
	"github.com/shellwallet/btccore/bitcoin/compactsize"
	"github.com/shellwallet/btccore/p2p/addrv2"
	"github.com/shellwallet/btccore/peeraddr"
)

func unixTime(sec uint64) time.Time {
	return time.Unix(int64(sec), 0).UTC()
}

func init() {
	register(CmdAddr, func(p []byte, pver uint32) (Message, error) {
		m := &MsgAddr{}
		return m, m.Decode(p, pver)
	})
	register(CmdAddrV2, func(p []byte, pver uint32) (Message, error) {
		m := &MsgAddrV2{}
		return m, m.Decode(p, pver)
	})
}

// MaxAddrPerMsg bounds a single addr/addrv2 message.
const MaxAddrPerMsg = 1000

// MsgAddr carries a batch of legacy (IPv4/IPv6-only) peer addresses, each
// timestamped with when it was last seen active.
type MsgAddr struct {
	Chain    chainparams.Net
	AddrList []*peeraddr.Address
}

func (m *MsgAddr) Command() string { return CmdAddr }

func (m *MsgAddr) Encode() ([]byte, error) {
	w := compactsize.NewWriteBuffer(1 + len(m.AddrList)*30)
	w.PutCompactSize(uint64(len(m.AddrList)))
	for _, a := range m.AddrList {
		if a.Transport() != peeraddr.TransportIPv4 && a.Transport() != peeraddr.TransportIPv6 {
			return nil, fmt.Errorf("wire: legacy addr message cannot carry transport %d", a.Transport())
		}
		w.PutUint32LE(uint32(a.LastConnected().Unix()))
		w.PutUint64LE(uint64(a.Services()))
		ip := make([]byte, 16)
		if a.Transport() == peeraddr.TransportIPv4 {
			copy(ip[10:12], []byte{0xff, 0xff})
			copy(ip[12:], a.Bytes())
		} else {
			copy(ip, a.Bytes())
		}
		w.PutBytes(ip)
		w.PutUint16BE(a.Port())
	}
	return w.Bytes(), nil
}

func (m *MsgAddr) Decode(payload []byte, pver uint32) error {
	hasTimestamp := pver >= NetAddressTimeVersion

	v := compactsize.NewReadView(payload)
	count, err := v.CompactSizeInt()
	if err != nil {
		return err
	}
	if count > MaxAddrPerMsg {
		return ErrParseTooMany
	}
	m.AddrList = make([]*peeraddr.Address, count)
	for i := 0; i < count; i++ {
		var ts uint32
		if hasTimestamp {
			ts, err = v.Uint32LE()
			if err != nil {
				return err
			}
		}
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

		transport, addrBytes := peeraddr.TransportIPv6, append([]byte(nil), ip...)
		if isIPv4Mapped(ip) {
			transport, addrBytes = peeraddr.TransportIPv4, append([]byte(nil), ip[12:]...)
		}
		a, err := peeraddr.New(peeraddr.ProtocolLegacy, transport, peeraddr.TransportInvalid,
			nil, addrBytes, port, m.Chain, chainparams.ServiceFlag(services), false, nil)
		if err != nil {
			return fmt.Errorf("wire: addr %d: %w", i, err)
		}
		if hasTimestamp {
			a.SetLastConnected(unixTime(uint64(ts)))
		}
		m.AddrList[i] = a
	}
	return nil
}

func isIPv4Mapped(ip []byte) bool {
	for i := 0; i < 10; i++ {
		if ip[i] != 0 {
			return false
		}
	}
	return ip[10] == 0xff && ip[11] == 0xff
}

// MsgAddrV2 carries a batch of BIP-155 peer addresses, each preceded by a
// network ID byte that selects the transport its address bytes belong to.
type MsgAddrV2 struct {
	Chain    chainparams.Net
	AddrList []*peeraddr.Address
}

func (m *MsgAddrV2) Command() string { return CmdAddrV2 }

func (m *MsgAddrV2) Encode() ([]byte, error) {
	w := compactsize.NewWriteBuffer(1 + len(m.AddrList)*24)
	w.PutCompactSize(uint64(len(m.AddrList)))
	for _, a := range m.AddrList {
		netID, err := addrv2.FromTransport(a.Transport())
		if err != nil {
			return nil, err
		}
		w.PutUint32LE(uint32(a.LastConnected().Unix()))
		w.PutCompactSize(uint64(a.Services()))
		w.PutByte(byte(netID))
		w.PutCompactBytes(a.Bytes())
		w.PutUint16BE(a.Port())
	}
	return w.Bytes(), nil
}

func (m *MsgAddrV2) Decode(payload []byte, _ uint32) error {
	v := compactsize.NewReadView(payload)
	count, err := v.CompactSizeInt()
	if err != nil {
		return err
	}
	if count > MaxAddrPerMsg {
		return ErrParseTooMany
	}
	m.AddrList = make([]*peeraddr.Address, 0, count)
	for i := 0; i < count; i++ {
		ts, err := v.Uint32LE()
		if err != nil {
			return err
		}
		services, err := v.CompactSize()
		if err != nil {
			return err
		}
		netIDRaw, err := v.Byte()
		if err != nil {
			return err
		}
		addrBytes, err := v.CompactBytes()
		if err != nil {
			return err
		}
		port, err := v.Uint16BE()
		if err != nil {
			return err
		}

		netID := addrv2.NetworkID(netIDRaw)
		if err := addrv2.ValidateLen(netID, addrBytes); err != nil {
			return fmt.Errorf("wire: addrv2 %d: %w", i, err)
		}
		transport, err := addrv2.ToTransport(netID)
		if err != nil {
			// An address on a network id this version does not
			// recognize is skipped, not fatal, per BIP-155.
			continue
		}
		a, err := peeraddr.New(peeraddr.ProtocolV2, transport, peeraddr.TransportInvalid,
			nil, append([]byte(nil), addrBytes...), port, m.Chain, chainparams.ServiceFlag(services), false, nil)
		if err != nil {
			return fmt.Errorf("wire: addrv2 %d: %w", i, err)
		}
		a.SetLastConnected(unixTime(uint64(ts)))
		m.AddrList = append(m.AddrList, a)
	}
	return nil
}

// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package peeraddr implements the Address value type this module uses to
// remember a peer across restarts: its transport, its network bytes, and
// the mutable bookkeeping (last-seen time, advertised services) that does
// not participate in the address's identity.
package peeraddr

import (
	"encoding/base32"
	"encoding/base64"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/shellwallet/btccore/bitcoin/bhash"
	"github.com/shellwallet/btccore/bitcoin/chainparams"
)

// Transport identifies the network an Address's bytes are drawn from. The
// numbering matches the BIP-155 network-id table so it translates
// directly onto the wire (see p2p/addrv2).
type Transport uint8

const (
	TransportInvalid Transport = 0
	TransportIPv4    Transport = 1
	TransportIPv6    Transport = 2
	TransportOnion2  Transport = 3
	TransportOnion3  Transport = 4
	TransportEep     Transport = 5 // I2P
	TransportCjdns   Transport = 6
	TransportZMQ     Transport = 90 // local extension, not part of BIP-155
)

// addressLen is the expected byte length of an address under each
// transport, mirroring the per-transport size checks every constructor in
// this family performs.
var addressLen = map[Transport]int{
	TransportIPv4:   4,
	TransportIPv6:   16,
	TransportOnion2: 10,
	TransportOnion3: 32,
	TransportEep:    32,
	TransportCjdns:  16,
}

// Protocol distinguishes the wire dialect an Address was learned over
// (legacy addr vs BIP-155 addrv2), since a legacy record can only ever
// describe an IPv4/IPv6 peer.
type Protocol uint8

const (
	ProtocolLegacy Protocol = 0
	ProtocolV2     Protocol = 1
)

// Address is an immutable-by-convention peer record: construction fixes
// its identity-bearing fields (protocol, type, subtype, key, bytes, port,
// chain), while last-connected time and advertised services remain
// mutable bookkeeping that SetLastConnected/SetServices update in place.
type Address struct {
	protocol  Protocol
	transport Transport
	subtype   Transport // only meaningful when transport == TransportZMQ
	key       []byte    // curve25519 public key, ZMQ transport only
	bytes     []byte
	port      uint16
	chain     chainparams.Net
	incoming  bool
	cookie    []byte

	lastConnected time.Time
	services      chainparams.ServiceFlag
}

// New constructs an Address, validating that bytes has the length this
// transport (and, for ZMQ, subtype) requires.
func New(protocol Protocol, transport, subtype Transport, key, addrBytes []byte, port uint16, chain chainparams.Net, services chainparams.ServiceFlag, incoming bool, cookie []byte) (*Address, error) {
	checkTransport := transport
	if transport == TransportZMQ {
		checkTransport = subtype
	}
	if want, ok := addressLen[checkTransport]; ok && len(addrBytes) != want {
		return nil, fmt.Errorf("peeraddr: transport %d requires %d address bytes, got %d",
			checkTransport, want, len(addrBytes))
	}

	a := &Address{
		protocol:      protocol,
		transport:     transport,
		subtype:       subtype,
		key:           append([]byte(nil), key...),
		bytes:         append([]byte(nil), addrBytes...),
		port:          port,
		chain:         chain,
		services:      services,
		incoming:      incoming,
		cookie:        append([]byte(nil), cookie...),
		lastConnected: time.Time{},
	}
	return a, nil
}

// FromIP builds a legacy (non-addrv2) Address from a net.IP, selecting
// TransportIPv4 or TransportIPv6 by the IP's form.
func FromIP(ip net.IP, port uint16, chain chainparams.Net, services chainparams.ServiceFlag) (*Address, error) {
	if v4 := ip.To4(); v4 != nil {
		return New(ProtocolLegacy, TransportIPv4, TransportInvalid, nil, v4, port, chain, services, false, nil)
	}
	v6 := ip.To16()
	if v6 == nil {
		return nil, fmt.Errorf("peeraddr: invalid IP %v", ip)
	}
	return New(ProtocolLegacy, TransportIPv6, TransportInvalid, nil, v6, port, chain, services, false, nil)
}

// Transport returns the address's network transport.
func (a *Address) Transport() Transport { return a.transport }

// Subtype returns the ZMQ sub-transport, meaningful only when Transport
// is TransportZMQ.
func (a *Address) Subtype() Transport { return a.subtype }

// Bytes returns the raw address bytes for this transport.
func (a *Address) Bytes() []byte {
	return append([]byte(nil), a.bytes...)
}

// Port returns the address's TCP port.
func (a *Address) Port() uint16 { return a.port }

// Chain returns the network this address was learned on.
func (a *Address) Chain() chainparams.Net { return a.chain }

// Incoming reports whether this peer connected to us, rather than us to
// it.
func (a *Address) Incoming() bool { return a.incoming }

// Services returns the peer's most recently advertised service flags.
func (a *Address) Services() chainparams.ServiceFlag { return a.services }

// SetServices updates the peer's advertised service flags. Services are
// mutable bookkeeping, not part of the address's identity.
func (a *Address) SetServices(s chainparams.ServiceFlag) { a.services = s }

// LastConnected returns the last time this peer was successfully
// connected to.
func (a *Address) LastConnected() time.Time { return a.lastConnected }

// SetLastConnected updates the last-successful-connection time. Like
// Services, this is mutable bookkeeping excluded from the address's
// identity hash.
func (a *Address) SetLastConnected(t time.Time) { a.lastConnected = t }

// ID derives a stable identity hash for this address from only its
// identity-bearing fields: protocol, transport, subtype, key, bytes,
// port, and chain. LastConnected and Services are deliberately excluded
// (zeroed out of the hashed form) so that updating either never changes
// an address's identity or its position in any map/set keyed by ID.
func (a *Address) ID() bhash.Hash {
	w := make([]byte, 0, 8+len(a.key)+len(a.bytes)+8)
	w = append(w, byte(a.protocol), byte(a.transport), byte(a.subtype))
	w = append(w, byte(len(a.key)))
	w = append(w, a.key...)
	w = append(w, byte(len(a.bytes)))
	w = append(w, a.bytes...)
	w = append(w, byte(a.port>>8), byte(a.port))
	w = append(w, byte(a.chain>>24), byte(a.chain>>16), byte(a.chain>>8), byte(a.chain))
	return bhash.Sha256D(w)
}

// Display renders the address in the conventional form for its
// transport: the IP's string form for ipv4/ipv6/cjdns (IPv6 without
// brackets), base32 .onion for onion2/onion3, base64 .i2p for eep, and
// recursively on the sub-transport for zmq, followed by ":port".
func (a *Address) Display() string {
	host := a.displayHost(a.transport, a.bytes)
	return host + ":" + strconv.Itoa(int(a.port))
}

func (a *Address) displayHost(transport Transport, b []byte) string {
	switch transport {
	case TransportIPv4, TransportIPv6, TransportCjdns:
		ip := net.IP(b)
		return ip.String()
	case TransportOnion2, TransportOnion3:
		return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(b) + ".onion"
	case TransportEep:
		return base64.StdEncoding.EncodeToString(b) + ".i2p"
	case TransportZMQ:
		return a.displayHost(a.subtype, b)
	default:
		return "invalid address"
	}
}

// Key returns the curve25519 public key recorded for the address, as
// carried by a ZMQ-transport address. New stores whatever key it is
// given, for any transport; FromIP records none.
func (a *Address) Key() []byte {
	return append([]byte(nil), a.key...)
}

// Cookie returns the out-of-band authentication cookie, if any, this
// address was recorded with.
func (a *Address) Cookie() []byte {
	return append([]byte(nil), a.cookie...)
}

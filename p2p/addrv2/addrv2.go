// Copyright (c) 2020-2021 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package addrv2 implements the BIP-155 network-id table: the byte that
// identifies which transport an addrv2 record's address bytes belong to,
// and the length that transport's address is expected to have.
package addrv2

import (
	"errors"
	"fmt"

	"github.com/shellwallet/btccore/peeraddr"
)

// NetworkID is the one-byte BIP-155 network identifier preceding an
// addrv2 record's address bytes.
type NetworkID uint8

const (
	NetworkIPv4   NetworkID = 1
	NetworkIPv6   NetworkID = 2
	NetworkOnion2 NetworkID = 3 // deprecated by BIP-155, still decodable
	NetworkOnion3 NetworkID = 4
	NetworkEep    NetworkID = 5
	NetworkCjdns  NetworkID = 6

	// NetworkZMQ is a local extension to the BIP-155 table, used between
	// peers of this module to advertise a ZMQ-reachable collaborator
	// endpoint. Nothing gates it: the addrv2 codec encodes and decodes it
	// without checking whether the remote peer supports it, and no flag
	// switches it off.
	NetworkZMQ NetworkID = 90
)

// AddressLen maps a network ID to its expected address byte length.
var AddressLen = map[NetworkID]int{
	NetworkIPv4:   4,
	NetworkIPv6:   16,
	NetworkOnion2: 10,
	NetworkOnion3: 32,
	NetworkEep:    32,
	NetworkCjdns:  16,
}

var ErrUnknownNetwork = errors.New("addrv2: unrecognized network id")

// ToTransport translates a BIP-155 network ID into this module's
// transport enumeration.
func ToTransport(id NetworkID) (peeraddr.Transport, error) {
	switch id {
	case NetworkIPv4:
		return peeraddr.TransportIPv4, nil
	case NetworkIPv6:
		return peeraddr.TransportIPv6, nil
	case NetworkOnion2:
		return peeraddr.TransportOnion2, nil
	case NetworkOnion3:
		return peeraddr.TransportOnion3, nil
	case NetworkEep:
		return peeraddr.TransportEep, nil
	case NetworkCjdns:
		return peeraddr.TransportCjdns, nil
	case NetworkZMQ:
		return peeraddr.TransportZMQ, nil
	default:
		return peeraddr.TransportInvalid, fmt.Errorf("%w: %d", ErrUnknownNetwork, id)
	}
}

// FromTransport translates this module's transport enumeration into its
// BIP-155 network ID.
func FromTransport(t peeraddr.Transport) (NetworkID, error) {
	switch t {
	case peeraddr.TransportIPv4:
		return NetworkIPv4, nil
	case peeraddr.TransportIPv6:
		return NetworkIPv6, nil
	case peeraddr.TransportOnion3:
		return NetworkOnion3, nil
	case peeraddr.TransportEep:
		return NetworkEep, nil
	case peeraddr.TransportCjdns:
		return NetworkCjdns, nil
	case peeraddr.TransportZMQ:
		return NetworkZMQ, nil
	case peeraddr.TransportOnion2:
		return NetworkOnion2, nil
	default:
		return 0, fmt.Errorf("%w: transport %d", ErrUnknownNetwork, t)
	}
}

// ValidateLen reports whether addrBytes has the length id's transport
// requires. Unrecognized network IDs (a future extension this version
// doesn't know) are always accepted — BIP-155 requires forward
// compatibility with unknown network IDs, carried opaquely rather than
// rejected.
func ValidateLen(id NetworkID, addrBytes []byte) error {
	want, ok := AddressLen[id]
	if !ok {
		return nil
	}
	if len(addrBytes) != want {
		return fmt.Errorf("addrv2: network %d requires %d bytes, got %d", id, want, len(addrBytes))
	}
	return nil
}

// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"

	"github.com/shellwallet/btccore/bitcoin/chainparams"
)

// Command strings, exactly as they travel in a frame header's command
// field (null-padded to CommandSize on the wire).
const (
	CmdVersion      = "version"
	CmdVerAck       = "verack"
	CmdAddr         = "addr"
	CmdAddrV2       = "addrv2"
	CmdPing         = "ping"
	CmdPong         = "pong"
	CmdGetHeaders   = "getheaders"
	CmdHeaders      = "headers"
	CmdInv          = "inv"
	CmdGetData      = "getdata"
	CmdNotFound     = "notfound"
	CmdGetBlocks    = "getblocks"
	CmdBlock        = "block"
	CmdTx           = "tx"
	CmdCFilter      = "cfilter"
	CmdCFHeaders    = "cfheaders"
	CmdCFCheckpt    = "cfcheckpt"
	CmdGetCFilters  = "getcfilters"
	CmdGetCFHeaders = "getcfheaders"
	CmdGetCFCheckpt = "getcfcheckpt"
)

// NetAddressTimeVersion is the protocol version which added the legacy
// addr message's per-record timestamp field (pver >= NetAddressTimeVersion
// carries it; below that, an addr record is 26 bytes with no timestamp).
const NetAddressTimeVersion uint32 = 31402

// Message is any typed payload exchanged over the wire. Encode/Decode work
// directly against byte buffers via this module's own cursor types, rather
// than io.Reader/io.Writer, consistent with every other codec in this
// module.
type Message interface {
	// Command returns the wire command string identifying this message's
	// type.
	Command() string

	// Encode returns the message's serialized payload (without the frame
	// header).
	Encode() ([]byte, error)

	// Decode populates the message from a payload previously produced by
	// Encode, under protocol version pver.
	Decode(payload []byte, pver uint32) error
}

// Decoder builds a zero-value Message for a command and decodes payload
// into it.
type Decoder func(payload []byte, pver uint32) (Message, error)

// decoders is the data-driven command-to-decoder dispatch table. Every
// known command is registered in init(); an unrecognized command is never
// fatal to a caller of Decode, which falls back to an opaque passthrough
// message.
var decoders = map[string]Decoder{}

func register(command string, d Decoder) {
	decoders[command] = d
}

// Decode looks up h.Command in the dispatch table and decodes payload
// into the corresponding typed Message, under the negotiated protocol
// version pver (used to version-gate fields such as the legacy addr
// message's timestamp). A command with no registered decoder yields an
// *MsgUnknown message carrying the raw payload rather than an error, so a
// peer speaking an extension command never breaks the connection.
func Decode(h FrameHeader, payload []byte, pver uint32) (Message, error) {
	d, ok := decoders[h.Command]
	if !ok {
		return &MsgUnknown{CommandName: h.Command, Payload: append([]byte(nil), payload...)}, nil
	}
	msg, err := d(payload, pver)
	if err != nil {
		return nil, fmt.Errorf("wire: decode %s: %w", h.Command, err)
	}
	return msg, nil
}

// Encode serializes msg and wraps it in a frame for net.
func Encode(net chainparams.Net, msg Message) ([]byte, error) {
	payload, err := msg.Encode()
	if err != nil {
		return nil, fmt.Errorf("wire: encode %s: %w", msg.Command(), err)
	}
	return EncodeFrame(net, msg.Command(), payload)
}

// MsgUnknown is a passthrough message for any command with no registered
// decoder, preserving the raw payload bytes untouched.
type MsgUnknown struct {
	CommandName string
	Payload     []byte
}

func (m *MsgUnknown) Command() string { return m.CommandName }

func (m *MsgUnknown) Encode() ([]byte, error) {
	return append([]byte(nil), m.Payload...), nil
}

func (m *MsgUnknown) Decode(payload []byte, pver uint32) error {
	m.Payload = append([]byte(nil), payload...)
	return nil
}

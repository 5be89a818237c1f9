// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package wire implements the Bitcoin peer-to-peer wire protocol: the
// 24-byte frame header, a data-driven command-to-decoder dispatch table,
// and the typed messages that make up the full command set this module
// exchanges with a peer.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/shellwallet/btccore/bitcoin/bhash"
	"github.com/shellwallet/btccore/bitcoin/chainparams"
)

// CommandSize is the fixed width of the ASCII, null-padded command field.
const CommandSize = 12

// HeaderSize is the total length of a frame header.
const HeaderSize = 4 + CommandSize + 4 + 4

// MaxPayloadLength bounds a single message's payload, guarding against a
// peer declaring an unreasonable length and exhausting memory before the
// rest of the frame arrives.
const MaxPayloadLength = 32 * 1024 * 1024

var (
	ErrHeaderShort      = errors.New("wire: frame header short")
	ErrPayloadTooLong   = errors.New("wire: declared payload length exceeds maximum")
	ErrChecksumMismatch = errors.New("wire: payload checksum mismatch")
	ErrParseTooMany     = errors.New("wire: element count exceeds message limit")
)

// FrameHeader is the 24-byte envelope preceding every message payload.
type FrameHeader struct {
	Magic    chainparams.Net
	Command  string
	Length   uint32
	Checksum [4]byte
}

// EncodeFrame builds a complete frame (header + payload) for command under
// net, computing the payload checksum.
func EncodeFrame(net chainparams.Net, command string, payload []byte) ([]byte, error) {
	if len(command) > CommandSize {
		return nil, fmt.Errorf("wire: command %q longer than %d bytes", command, CommandSize)
	}
	if len(payload) > MaxPayloadLength {
		return nil, fmt.Errorf("%w: %d > %d", ErrPayloadTooLong, len(payload), MaxPayloadLength)
	}

	buf := make([]byte, HeaderSize+len(payload))
	binary.LittleEndian.PutUint32(buf[0:4], uint32(net))
	copy(buf[4:4+CommandSize], command)
	binary.LittleEndian.PutUint32(buf[16:20], uint32(len(payload)))

	sum := bhash.Sha256D(payload)
	copy(buf[20:24], sum[:4])

	copy(buf[HeaderSize:], payload)
	return buf, nil
}

// DecodeFrameHeader parses the 24-byte header from the front of b.
func DecodeFrameHeader(b []byte) (FrameHeader, error) {
	if len(b) < HeaderSize {
		return FrameHeader{}, fmt.Errorf("%w: have %d, want %d", ErrHeaderShort, len(b), HeaderSize)
	}
	var h FrameHeader
	h.Magic = chainparams.Net(binary.LittleEndian.Uint32(b[0:4]))
	h.Command = trimCommand(b[4 : 4+CommandSize])
	h.Length = binary.LittleEndian.Uint32(b[16:20])
	copy(h.Checksum[:], b[20:24])
	return h, nil
}

func trimCommand(b []byte) string {
	i := 0
	for i < len(b) && b[i] != 0 {
		i++
	}
	return string(b[:i])
}

// VerifyChecksum reports whether payload's sha256d matches the header's
// declared checksum.
func (h FrameHeader) VerifyChecksum(payload []byte) error {
	sum := bhash.Sha256D(payload)
	if sum[0] != h.Checksum[0] || sum[1] != h.Checksum[1] || sum[2] != h.Checksum[2] || sum[3] != h.Checksum[3] {
		return ErrChecksumMismatch
	}
	return nil
}

// SplitFrame decodes the header at the front of b and, if the full
// payload has arrived, returns it along with the total bytes consumed. It
// returns (header, nil, 0, nil) when more bytes are needed.
func SplitFrame(b []byte) (FrameHeader, []byte, int, error) {
	h, err := DecodeFrameHeader(b)
	if err != nil {
		return FrameHeader{}, nil, 0, err
	}
	if h.Length > MaxPayloadLength {
		return FrameHeader{}, nil, 0, fmt.Errorf("%w: %d > %d", ErrPayloadTooLong, h.Length, MaxPayloadLength)
	}
	total := HeaderSize + int(h.Length)
	if len(b) < total {
		return h, nil, 0, nil
	}
	payload := b[HeaderSize:total]
	if err := h.VerifyChecksum(payload); err != nil {
		return h, nil, 0, err
	}
	return h, payload, total, nil
}

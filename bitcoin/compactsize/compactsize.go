// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package compactsize implements Bitcoin's variable-length unsigned integer
// encoding, plus the cursor helpers (ReadView, WriteBuffer) and the
// ByteArray wrapper used throughout the rest of this module's codecs.
package compactsize

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
)

// Discriminator bytes that introduce a multi-byte CompactSize.
const (
	Discriminator16 = 0xfd
	Discriminator32 = 0xfe
	Discriminator64 = 0xff
)

// ErrShort is returned when the view does not contain enough bytes to
// decode a CompactSize.
var ErrShort = errors.New("compactsize: not enough bytes")

// ErrBudget is returned by DecodePrefix when the declared value would
// consume more bytes than the caller's remaining budget allows.
var ErrBudget = errors.New("compactsize: value exceeds remaining budget")

// ErrOverflow is returned when a decoded value does not fit the platform's
// int (used only by callers that need a native length/count, not by Decode
// itself, which always returns the full uint64).
var ErrOverflow = errors.New("compactsize: value does not fit in platform int")

// Size returns the number of bytes Encode(v) would produce.
func Size(v uint64) int {
	switch {
	case v < Discriminator16:
		return 1
	case v <= 0xffff:
		return 3
	case v <= 0xffffffff:
		return 5
	default:
		return 9
	}
}

// Encode returns the canonical, smallest-form CompactSize encoding of v.
func Encode(v uint64) []byte {
	buf := make([]byte, Size(v))
	switch {
	case v < Discriminator16:
		buf[0] = byte(v)
	case v <= 0xffff:
		buf[0] = Discriminator16
		binary.LittleEndian.PutUint16(buf[1:], uint16(v))
	case v <= 0xffffffff:
		buf[0] = Discriminator32
		binary.LittleEndian.PutUint32(buf[1:], uint32(v))
	default:
		buf[0] = Discriminator64
		binary.LittleEndian.PutUint64(buf[1:], v)
	}
	return buf
}

// AppendTo appends the canonical encoding of v to dst and returns the
// extended slice, avoiding an intermediate allocation for callers building
// up a larger buffer.
func AppendTo(dst []byte, v uint64) []byte {
	return append(dst, Encode(v)...)
}

// Decode reads a CompactSize from the front of b. It returns the decoded
// value and the number of bytes consumed. Non-canonical (not-smallest-form)
// encodings are accepted on decode, per the wire-compatibility note in the
// spec; Encode never produces them.
func Decode(b []byte) (value uint64, consumed int, err error) {
	if len(b) == 0 {
		return 0, 0, ErrShort
	}
	switch b[0] {
	case Discriminator64:
		if len(b) < 9 {
			return 0, 0, ErrShort
		}
		return binary.LittleEndian.Uint64(b[1:9]), 9, nil
	case Discriminator32:
		if len(b) < 5 {
			return 0, 0, ErrShort
		}
		return uint64(binary.LittleEndian.Uint32(b[1:5])), 5, nil
	case Discriminator16:
		if len(b) < 3 {
			return 0, 0, ErrShort
		}
		return uint64(binary.LittleEndian.Uint16(b[1:3])), 3, nil
	default:
		return uint64(b[0]), 1, nil
	}
}

// DecodePrefix decodes a CompactSize from the front of b while tracking a
// shrinking remaining-byte budget across a larger parse (e.g. a whole
// block). It fails with ErrBudget if the CompactSize's own encoding (the
// discriminator plus any length bytes) plus the value it declares, read as
// a byte count, would exceed the budget. On success it returns the value,
// the view advanced past the CompactSize, and the budget reduced by the
// CompactSize's own length; the declared bytes are left for the caller to
// consume.
//
// Grounded on opentxs's CompactSize::Decode(budget) (original_source),
// which threads a shrinking allowance through block parsing instead of
// allocating a second pass to validate total length up front.
func DecodePrefix(b []byte, budget int) (value uint64, rest []byte, newBudget int, err error) {
	value, consumed, err := Decode(b)
	if err != nil {
		return 0, nil, 0, err
	}
	if consumed > budget {
		return 0, nil, 0, fmt.Errorf("%w: compactsize header needs %d bytes, %d remain", ErrBudget, consumed, budget)
	}
	if value > uint64(budget-consumed) {
		return 0, nil, 0, fmt.Errorf("%w: compactsize declares %d bytes, %d remain", ErrBudget, value, budget-consumed)
	}
	return value, b[consumed:], budget - consumed, nil
}

// Int safely narrows a decoded CompactSize value to an int, failing if the
// value does not fit the platform's int type. The original u64 value
// remains available to the caller out of band (it was already returned by
// Decode); this is purely a convenience for callers that need a slice
// length or loop bound.
func Int(v uint64) (int, error) {
	if v > uint64(^uint(0)>>1) {
		return 0, ErrOverflow
	}
	return int(v), nil
}

// ByteArray is a thin wrapper over a raw byte slice that standardizes hex
// encoding/decoding across the codecs in this module.
type ByteArray []byte

// Hex renders the byte array as lowercase hex.
func (b ByteArray) Hex() string {
	return hex.EncodeToString(b)
}

// String satisfies fmt.Stringer with the same rendering as Hex.
func (b ByteArray) String() string {
	return b.Hex()
}

// FromHex decodes a hex string into a ByteArray.
func FromHex(s string) (ByteArray, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("compactsize: invalid hex: %w", err)
	}
	return ByteArray(b), nil
}

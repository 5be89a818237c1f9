// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package compactsize

import (
	"encoding/binary"
	"fmt"
)

// ReadView is a bounds-checked cursor over a borrowed byte slice. It never
// allocates or copies; every accessor advances the cursor and returns a
// sub-slice of the original buffer. Callers that need to retain data past
// the lifetime of the underlying buffer must copy it themselves.
type ReadView struct {
	buf []byte
	pos int
}

// NewReadView wraps b for sequential, bounds-checked reads starting at
// offset 0. It does not copy b.
func NewReadView(b []byte) *ReadView {
	return &ReadView{buf: b}
}

// Remaining returns the number of unread bytes left in the view.
func (v *ReadView) Remaining() int {
	return len(v.buf) - v.pos
}

// Pos returns the current cursor offset into the original buffer.
func (v *ReadView) Pos() int {
	return v.pos
}

// Rest returns the unread tail of the buffer without advancing the cursor.
func (v *ReadView) Rest() []byte {
	return v.buf[v.pos:]
}

// Take advances the cursor by n bytes and returns the sub-slice skipped
// over. It fails if fewer than n bytes remain.
func (v *ReadView) Take(n int) ([]byte, error) {
	if n < 0 || v.Remaining() < n {
		return nil, fmt.Errorf("%w: need %d bytes, %d remain", ErrShort, n, v.Remaining())
	}
	b := v.buf[v.pos : v.pos+n]
	v.pos += n
	return b, nil
}

// Byte reads a single byte.
func (v *ReadView) Byte() (byte, error) {
	b, err := v.Take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// Uint16LE reads a little-endian uint16.
func (v *ReadView) Uint16LE() (uint16, error) {
	b, err := v.Take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// Uint16BE reads a big-endian uint16 (used for legacy address ports).
func (v *ReadView) Uint16BE() (uint16, error) {
	b, err := v.Take(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

// Uint32LE reads a little-endian uint32.
func (v *ReadView) Uint32LE() (uint32, error) {
	b, err := v.Take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// Uint32BE reads a big-endian uint32.
func (v *ReadView) Uint32BE() (uint32, error) {
	b, err := v.Take(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// Int32LE reads a little-endian signed int32 (block/transaction version).
func (v *ReadView) Int32LE() (int32, error) {
	u, err := v.Uint32LE()
	return int32(u), err
}

// Uint64LE reads a little-endian uint64.
func (v *ReadView) Uint64LE() (uint64, error) {
	b, err := v.Take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// Int64LE reads a little-endian signed int64 (version message timestamp).
func (v *ReadView) Int64LE() (int64, error) {
	u, err := v.Uint64LE()
	return int64(u), err
}

// CompactSize reads a CompactSize off the front of the view.
func (v *ReadView) CompactSize() (uint64, error) {
	value, consumed, err := Decode(v.buf[v.pos:])
	if err != nil {
		return 0, err
	}
	v.pos += consumed
	return value, nil
}

// CompactSizeInt reads a CompactSize and narrows it to an int, suitable for
// use as a slice length or loop bound.
func (v *ReadView) CompactSizeInt() (int, error) {
	n, err := v.CompactSize()
	if err != nil {
		return 0, err
	}
	return Int(n)
}

// CompactBytes reads a CompactSize-prefixed byte string: a length followed
// by that many bytes of data (scripts, witness items, user agent strings).
func (v *ReadView) CompactBytes() ([]byte, error) {
	n, err := v.CompactSizeInt()
	if err != nil {
		return nil, err
	}
	return v.Take(n)
}

// WriteBuffer is an append-only byte builder mirroring the field widths
// ReadView understands, used by every encoder in this module.
type WriteBuffer struct {
	buf []byte
}

// NewWriteBuffer returns an empty WriteBuffer, optionally pre-sized via
// capacity hint sizeHint (0 is fine; it just avoids a few reallocations).
func NewWriteBuffer(sizeHint int) *WriteBuffer {
	return &WriteBuffer{buf: make([]byte, 0, sizeHint)}
}

// Bytes returns the accumulated buffer. The caller must not mutate it.
func (w *WriteBuffer) Bytes() []byte {
	return w.buf
}

// Len returns the number of bytes written so far.
func (w *WriteBuffer) Len() int {
	return len(w.buf)
}

// PutBytes appends raw bytes verbatim.
func (w *WriteBuffer) PutBytes(b []byte) {
	w.buf = append(w.buf, b...)
}

// PutByte appends a single byte.
func (w *WriteBuffer) PutByte(b byte) {
	w.buf = append(w.buf, b)
}

// PutUint16LE appends a little-endian uint16.
func (w *WriteBuffer) PutUint16LE(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// PutUint16BE appends a big-endian uint16.
func (w *WriteBuffer) PutUint16BE(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// PutUint32LE appends a little-endian uint32.
func (w *WriteBuffer) PutUint32LE(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// PutUint32BE appends a big-endian uint32.
func (w *WriteBuffer) PutUint32BE(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// PutInt32LE appends a little-endian signed int32.
func (w *WriteBuffer) PutInt32LE(v int32) {
	w.PutUint32LE(uint32(v))
}

// PutUint64LE appends a little-endian uint64.
func (w *WriteBuffer) PutUint64LE(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// PutInt64LE appends a little-endian signed int64.
func (w *WriteBuffer) PutInt64LE(v int64) {
	w.PutUint64LE(uint64(v))
}

// PutCompactSize appends the canonical CompactSize encoding of v.
func (w *WriteBuffer) PutCompactSize(v uint64) {
	w.buf = AppendTo(w.buf, v)
}

// PutCompactBytes appends a CompactSize length prefix followed by b.
func (w *WriteBuffer) PutCompactBytes(b []byte) {
	w.PutCompactSize(uint64(len(b)))
	w.PutBytes(b)
}

// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package header implements the 80-byte Bitcoin block header: its
// serialization, its hash, and the NumericHash comparisons used for
// difficulty checks against a compact target.
package header

import (
	"fmt"

	"github.com/shellwallet/btccore/bitcoin/bhash"
	"github.com/shellwallet/btccore/bitcoin/compactsize"
)

// Size is the exact serialized length of a block header.
const Size = 80

// Header is the immutable record every Bitcoin-family block begins with.
type Header struct {
	Version    int32
	PrevBlock  bhash.Hash
	MerkleRoot bhash.Hash
	Timestamp  uint32
	Bits       uint32
	Nonce      uint32
}

// Serialize returns the canonical 80-byte little-endian encoding.
func (h Header) Serialize() []byte {
	w := compactsize.NewWriteBuffer(Size)
	w.PutInt32LE(h.Version)
	w.PutBytes(h.PrevBlock.Bytes())
	w.PutBytes(h.MerkleRoot.Bytes())
	w.PutUint32LE(h.Timestamp)
	w.PutUint32LE(h.Bits)
	w.PutUint32LE(h.Nonce)
	return w.Bytes()
}

// Hash returns sha256d of the header's serialization, the block hash.
func (h Header) Hash() bhash.Hash {
	return bhash.Sha256D(h.Serialize())
}

// Parse decodes an 80-byte header from the front of b.
func Parse(b []byte) (Header, error) {
	v := compactsize.NewReadView(b)
	var h Header
	var err error

	if h.Version, err = v.Int32LE(); err != nil {
		return Header{}, fmt.Errorf("header: version: %w", err)
	}
	prev, err := v.Take(bhash.Size)
	if err != nil {
		return Header{}, fmt.Errorf("header: prev block: %w", err)
	}
	if h.PrevBlock, err = bhash.NewHash(prev); err != nil {
		return Header{}, fmt.Errorf("header: prev block: %w", err)
	}
	root, err := v.Take(bhash.Size)
	if err != nil {
		return Header{}, fmt.Errorf("header: merkle root: %w", err)
	}
	if h.MerkleRoot, err = bhash.NewHash(root); err != nil {
		return Header{}, fmt.Errorf("header: merkle root: %w", err)
	}
	if h.Timestamp, err = v.Uint32LE(); err != nil {
		return Header{}, fmt.Errorf("header: timestamp: %w", err)
	}
	if h.Bits, err = v.Uint32LE(); err != nil {
		return Header{}, fmt.Errorf("header: bits: %w", err)
	}
	if h.Nonce, err = v.Uint32LE(); err != nil {
		return Header{}, fmt.Errorf("header: nonce: %w", err)
	}
	return h, nil
}

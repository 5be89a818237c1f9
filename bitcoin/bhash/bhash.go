// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package bhash implements the hash primitives shared by every codec in
// this module: double SHA-256 (sha256d), RIPEMD-160-over-SHA-256
// (hash160), and the SipHash-2-4 keying used by compact filters.
package bhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/aead/siphash"
	"golang.org/x/crypto/ripemd160"
)

// Size is the length in bytes of a sha256d digest.
const Size = 32

// Sha256D returns sha256(sha256(b)), the digest used for block hashes,
// transaction IDs, and merkle nodes throughout the Bitcoin family.
func Sha256D(b []byte) [Size]byte {
	first := sha256.Sum256(b)
	return sha256.Sum256(first[:])
}

// Hash160 returns ripemd160(sha256(b)), the digest behind P2PKH and
// P2WPKH scripts.
func Hash160(b []byte) []byte {
	sum := sha256.Sum256(b)
	h := ripemd160.New()
	h.Write(sum[:])
	return h.Sum(nil)
}

// SipHashKeySize is the key length required by SipHash24.
const SipHashKeySize = siphash.KeySize

// SipHash24 computes the keyed SipHash-2-4 of data under key, as used to
// map filter elements into the Golomb-Rice coded set's domain.
func SipHash24(key [SipHashKeySize]byte, data []byte) uint64 {
	return siphash.Sum64(data, &key)
}

// Hash is a fixed-size, display-reversed digest: the Bitcoin family
// serializes hashes little-endian internally but conventionally prints
// and accepts them big-endian (the reversed form seen in block explorers
// and RPC output).
type Hash [Size]byte

// HashFromSha256D builds a Hash directly from a Sha256D digest.
func HashFromSha256D(b []byte) Hash {
	return Sha256D(b)
}

// BlockHash identifies a block header by the sha256d of its serialized
// 80-byte form.
type BlockHash = Hash

// TransactionHash identifies a transaction (txid or wtxid, depending on
// which serialization was hashed) by the sha256d of its serialized form.
type TransactionHash = Hash

// String renders the hash in the conventional reversed (big-endian
// display) hex form used by block explorers and RPC output.
func (h Hash) String() string {
	var reversed [Size]byte
	for i := 0; i < Size; i++ {
		reversed[i] = h[Size-1-i]
	}
	return hex.EncodeToString(reversed[:])
}

// Bytes returns the hash's internal little-endian byte representation.
func (h Hash) Bytes() []byte {
	b := make([]byte, Size)
	copy(b, h[:])
	return b
}

// IsZero reports whether every byte of the hash is zero, the sentinel
// used for a coinbase's null previous-outpoint hash.
func (h Hash) IsZero() bool {
	for _, b := range h {
		if b != 0 {
			return false
		}
	}
	return true
}

// NewHashFromStr parses the conventional reversed-hex display form (as
// printed by String) back into a Hash.
func NewHashFromStr(s string) (Hash, error) {
	var h Hash
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return h, fmt.Errorf("bhash: invalid hex: %w", err)
	}
	if len(decoded) != Size {
		return h, fmt.Errorf("bhash: hash string is %d bytes, want %d", len(decoded), Size)
	}
	for i := 0; i < Size; i++ {
		h[i] = decoded[Size-1-i]
	}
	return h, nil
}

// NewHash copies b (already in internal little-endian order) into a Hash.
func NewHash(b []byte) (Hash, error) {
	var h Hash
	if len(b) != Size {
		return h, fmt.Errorf("bhash: slice is %d bytes, want %d", len(b), Size)
	}
	copy(h[:], b)
	return h, nil
}

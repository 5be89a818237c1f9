// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package header

import (
	"math/big"

	"github.com/shellwallet/btccore/bitcoin/bhash"
)

// NumericHash treats a 32-byte hash as a little-endian 256-bit unsigned
// integer, supporting total ordering against a difficulty target.
type NumericHash struct {
	n *big.Int
}

// NewNumericHash interprets h's internal little-endian bytes as a number.
func NewNumericHash(h bhash.Hash) NumericHash {
	be := make([]byte, bhash.Size)
	for i := 0; i < bhash.Size; i++ {
		be[i] = h[bhash.Size-1-i]
	}
	return NumericHash{n: new(big.Int).SetBytes(be)}
}

// CompactToTarget expands a compact nBits target (mantissa/exponent form)
// into a NumericHash: target = mantissa << (8*(exp-3)) when exp>3, else
// mantissa >> (8*(3-exp)).
func CompactToTarget(bits uint32) NumericHash {
	exp := bits >> 24
	mantissa := big.NewInt(int64(bits & 0x007fffff))

	// The sign bit (0x00800000) on the mantissa denotes a negative target
	// under Bitcoin's compact encoding; preserved for bit-exact behavior
	// even though negative targets are never valid.
	negative := bits&0x00800000 != 0

	target := new(big.Int)
	if exp <= 3 {
		shift := uint(8 * (3 - exp))
		target.Rsh(mantissa, shift)
	} else {
		shift := uint(8 * (exp - 3))
		target.Lsh(mantissa, shift)
	}
	if negative {
		target.Neg(target)
	}
	return NumericHash{n: target}
}

// Cmp compares two NumericHash values the way math/big.Int.Cmp does:
// -1 if n < other, 0 if equal, +1 if n > other.
func (n NumericHash) Cmp(other NumericHash) int {
	return n.n.Cmp(other.n)
}

// LessThan reports whether n is strictly less than target, the form used
// for "block hash meets difficulty target" checks.
func (n NumericHash) LessThan(target NumericHash) bool {
	return n.Cmp(target) < 0
}

// String renders the number in base-16, matching the conventional
// difficulty-target display.
func (n NumericHash) String() string {
	return n.n.Text(16)
}

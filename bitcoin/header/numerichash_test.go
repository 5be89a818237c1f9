// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package header

import (
	"testing"

	"github.com/shellwallet/btccore/bitcoin/bhash"
	"github.com/stretchr/testify/require"
)

func TestNewNumericHashByteOrder(t *testing.T) {
	var h bhash.Hash
	h[0] = 0x01 // least-significant byte in internal (little-endian) order
	n := NewNumericHash(h)
	require.Equal(t, "1", n.String())

	h = bhash.Hash{}
	h[bhash.Size-1] = 0x01 // most-significant byte
	n = NewNumericHash(h)
	require.Contains(t, n.String(), "1000000000000000000000000000000000000000000000000000000000000")
}

func TestCompactToTargetExpand(t *testing.T) {
	// 0x1d00ffff is Bitcoin mainnet's genesis difficulty bits.
	target := CompactToTarget(0x1d00ffff)
	require.Equal(t, "ffff0000000000000000000000000000000000000000000000000000", target.String())
	require.Len(t, target.String(), 56)
}

func TestCompactToTargetLowExponent(t *testing.T) {
	target := CompactToTarget(0x01003456)
	require.Equal(t, "0", target.String())
}

func TestCmpAndLessThan(t *testing.T) {
	a := NewNumericHash(bhash.Hash{0x01})
	b := NewNumericHash(bhash.Hash{0x02})
	require.Equal(t, -1, a.Cmp(b))
	require.Equal(t, 1, b.Cmp(a))
	require.True(t, a.LessThan(b))
	require.False(t, b.LessThan(a))

	c := NewNumericHash(bhash.Hash{0x01})
	require.Equal(t, 0, a.Cmp(c))
}

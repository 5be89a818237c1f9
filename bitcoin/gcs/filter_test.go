// Copyright (c) 2016-2017 The btcsuite developers
// Copyright (c) 2018 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package gcs

import (
	"testing"

	"github.com/shellwallet/btccore/bitcoin/bhash"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func sampleKey() [KeySize]byte {
	var key [KeySize]byte
	copy(key[:], []byte("0123456789abcdef"))
	return key
}

func TestBuildFilterRejectsEmptyData(t *testing.T) {
	_, err := BuildFilter(sampleKey(), DefaultP, DefaultM, nil)
	require.ErrorIs(t, err, ErrNoData)
}

func TestBuildFilterMembership(t *testing.T) {
	key := sampleKey()
	elements := [][]byte{
		[]byte("scriptA"),
		[]byte("scriptB"),
		[]byte("scriptC"),
	}
	f, err := BuildFilter(key, DefaultP, DefaultM, elements)
	require.NoError(t, err)
	require.Equal(t, uint32(len(elements)), f.N())

	for _, el := range elements {
		require.True(t, f.Test(key, el), "every element used to build the filter must test positive")
	}
	require.False(t, f.Test(key, []byte("definitely not in the set")))
}

func TestMatchAny(t *testing.T) {
	key := sampleKey()
	f, err := BuildFilter(key, DefaultP, DefaultM, [][]byte{[]byte("alpha"), []byte("beta")})
	require.NoError(t, err)

	require.True(t, f.MatchAny(key, [][]byte{[]byte("nope"), []byte("beta")}))
	require.False(t, f.MatchAny(key, [][]byte{[]byte("nope"), []byte("also-nope")}))
	require.False(t, f.MatchAny(key, nil))
}

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	key := sampleKey()
	f, err := BuildFilter(key, DefaultP, DefaultM, [][]byte{[]byte("x"), []byte("y"), []byte("z")})
	require.NoError(t, err)

	raw := f.Serialize()
	got, err := Deserialize(f.P(), f.M(), raw)
	require.NoError(t, err)
	require.Equal(t, f.N(), got.N())
	require.Equal(t, f.Data(), got.Data())

	require.True(t, got.Test(key, []byte("x")))
	require.False(t, got.Test(key, []byte("not-there")))
}

func TestMakeHeaderChaining(t *testing.T) {
	key := sampleKey()
	f, err := BuildFilter(key, DefaultP, DefaultM, [][]byte{[]byte("elem")})
	require.NoError(t, err)

	var genesis bhash.Hash
	h1 := MakeHeader(f, genesis)
	h2 := MakeHeader(f, genesis)
	require.Equal(t, h1, h2, "header computation is deterministic")

	other := MakeHeader(f, h1)
	require.NotEqual(t, h1, other, "chaining off a different previous header changes the result")
}

func TestBuildFilterRejectsOversizedP(t *testing.T) {
	_, err := BuildFilter(sampleKey(), 33, DefaultM, [][]byte{[]byte("x")})
	require.ErrorIs(t, err, ErrPTooBig)
}

func TestHashToRangeWithinBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		key := sampleKey()
		modulus := rapid.Uint64Range(1, 1<<40).Draw(t, "modulus")
		data := rapid.SliceOfN(rapid.Byte(), 1, 32).Draw(t, "data")

		got := hashToRange(key, data, modulus)
		require.Less(t, got, modulus)
	})
}

// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package compactsize

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestEncodeDecodeVectors(t *testing.T) {
	cases := []struct {
		value    uint64
		wantHex  string
		wantSize int
	}{
		{0, "00", 1},
		{252, "fc", 1},
		{253, "fdfd00", 3},
		{0xffff, "fdffff", 3},
		{0x10000, "fe00000100", 5},
		{0xffffffff, "feffffffff", 5},
		{0x100000000, "ff0000000001000000", 9},
	}
	for _, c := range cases {
		got := Encode(c.value)
		require.Equal(t, c.wantHex, ByteArray(got).Hex())
		require.Equal(t, c.wantSize, Size(c.value))

		value, consumed, err := Decode(got)
		require.NoError(t, err)
		require.Equal(t, c.value, value)
		require.Equal(t, len(got), consumed)
	}
}

func TestDecodeShort(t *testing.T) {
	_, _, err := Decode(nil)
	require.ErrorIs(t, err, ErrShort)

	_, _, err = Decode([]byte{Discriminator32, 0x01, 0x02})
	require.ErrorIs(t, err, ErrShort)
}

func TestDecodePrefixBudget(t *testing.T) {
	b := Encode(10)
	value, rest, budget, err := DecodePrefix(b, 11)
	require.NoError(t, err)
	require.Equal(t, uint64(10), value)
	require.Empty(t, rest)
	require.Equal(t, 10, budget)

	_, _, _, err = DecodePrefix(b, 10)
	require.ErrorIs(t, err, ErrBudget)

	_, _, _, err = DecodePrefix(Encode(300), 1)
	require.ErrorIs(t, err, ErrBudget)
}

func TestRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := rapid.Uint64().Draw(t, "v")
		enc := Encode(v)
		require.Equal(t, Size(v), len(enc))

		got, consumed, err := Decode(enc)
		require.NoError(t, err)
		require.Equal(t, v, got)
		require.Equal(t, len(enc), consumed)
	})
}

func TestFromHexRoundTrip(t *testing.T) {
	b, err := FromHex("deadbeef")
	require.NoError(t, err)
	require.Equal(t, "deadbeef", b.String())

	_, err = FromHex("not-hex")
	require.Error(t, err)
}

// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bhash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSha256DDeterministic(t *testing.T) {
	a := Sha256D([]byte("block header bytes"))
	b := Sha256D([]byte("block header bytes"))
	require.Equal(t, a, b)

	c := Sha256D([]byte("different bytes"))
	require.NotEqual(t, a, c)
}

func TestHash160NotEmpty(t *testing.T) {
	h := Hash160([]byte("test pubkey bytes"))
	require.Len(t, h, 20)
}

func TestHashStringRoundTrip(t *testing.T) {
	orig := Sha256D([]byte("round trip me"))
	h := Hash(orig)

	parsed, err := NewHashFromStr(h.String())
	require.NoError(t, err)
	require.Equal(t, h, parsed)
}

func TestHashIsZero(t *testing.T) {
	var h Hash
	require.True(t, h.IsZero())

	h[0] = 1
	require.False(t, h.IsZero())
}

func TestNewHashLengthCheck(t *testing.T) {
	_, err := NewHash([]byte{1, 2, 3})
	require.Error(t, err)

	h, err := NewHash(make([]byte, Size))
	require.NoError(t, err)
	require.True(t, h.IsZero())
}

func TestSipHash24Deterministic(t *testing.T) {
	var key [SipHashKeySize]byte
	copy(key[:], []byte("0123456789abcdef"))

	a := SipHash24(key, []byte("element"))
	b := SipHash24(key, []byte("element"))
	require.Equal(t, a, b)

	c := SipHash24(key, []byte("different"))
	require.NotEqual(t, a, c)
}

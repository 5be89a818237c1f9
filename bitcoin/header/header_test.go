// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package header

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSerializeParseRoundTrip(t *testing.T) {
	h := Header{
		Version:    1,
		PrevBlock:  [32]byte{0x01},
		MerkleRoot: [32]byte{0x02},
		Timestamp:  1231006505,
		Bits:       0x1d00ffff,
		Nonce:      2083236893,
	}
	raw := h.Serialize()
	require.Len(t, raw, Size)

	got, err := Parse(raw)
	require.NoError(t, err)
	require.Equal(t, h, got)
}

func TestHashDeterministic(t *testing.T) {
	h := Header{Version: 1, Timestamp: 1}
	require.Equal(t, h.Hash(), h.Hash())

	h2 := h
	h2.Nonce = 1
	require.NotEqual(t, h.Hash(), h2.Hash())
}

func TestParseShort(t *testing.T) {
	_, err := Parse(make([]byte, Size-1))
	require.Error(t, err)
}

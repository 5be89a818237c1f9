// Copyright (c) 2018 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"testing"

	"github.com/shellwallet/btccore/bitcoin/bhash"
	"github.com/shellwallet/btccore/bitcoin/gcs"
	"github.com/stretchr/testify/require"
)

func TestMsgCFilterRoundTripAndDecode(t *testing.T) {
	var key [gcs.KeySize]byte
	copy(key[:], "cfilter-test-key")
	f, err := gcs.BuildFilter(key, gcs.DefaultP, gcs.DefaultM, [][]byte{[]byte("element one"), []byte("element two")})
	require.NoError(t, err)
	filterBytes := f.Serialize()

	m := &MsgCFilter{FilterType: FilterTypeBasic, BlockHash: bhash.Hash{0x01}, FilterBytes: filterBytes}
	raw, err := m.Encode()
	require.NoError(t, err)

	got := &MsgCFilter{}
	require.NoError(t, got.Decode(raw, 0))
	require.Equal(t, m.BlockHash, got.BlockHash)
	require.Equal(t, m.FilterBytes, got.FilterBytes)

	decoded, err := got.Filter(gcs.DefaultP, gcs.DefaultM)
	require.NoError(t, err)
	require.True(t, decoded.Test(key, []byte("element one")))
}

func TestMsgCFHeadersRoundTrip(t *testing.T) {
	m := &MsgCFHeaders{
		FilterType:     FilterTypeBasic,
		StopHash:       bhash.Hash{0x01},
		PreviousHeader: bhash.Hash{0x02},
		FilterHashes:   []bhash.Hash{{0x03}, {0x04}},
	}
	raw, err := m.Encode()
	require.NoError(t, err)

	got := &MsgCFHeaders{}
	require.NoError(t, got.Decode(raw, 0))
	require.Equal(t, m.StopHash, got.StopHash)
	require.Equal(t, m.PreviousHeader, got.PreviousHeader)
	require.Equal(t, m.FilterHashes, got.FilterHashes)
}

func TestMsgCFCheckptRoundTrip(t *testing.T) {
	m := &MsgCFCheckpt{
		FilterType:    FilterTypeBasic,
		StopHash:      bhash.Hash{0x05},
		FilterHeaders: []bhash.Hash{{0x06}, {0x07}, {0x08}},
	}
	raw, err := m.Encode()
	require.NoError(t, err)

	got := &MsgCFCheckpt{}
	require.NoError(t, got.Decode(raw, 0))
	require.Equal(t, m.FilterHeaders, got.FilterHeaders)
}

func TestMsgGetCFiltersRoundTrip(t *testing.T) {
	m := &MsgGetCFilters{FilterType: FilterTypeBasic, StartHeight: 500000, StopHash: bhash.Hash{0x09}}
	raw, err := m.Encode()
	require.NoError(t, err)

	got := &MsgGetCFilters{}
	require.NoError(t, got.Decode(raw, 0))
	require.Equal(t, m.StartHeight, got.StartHeight)
	require.Equal(t, m.StopHash, got.StopHash)
}

func TestMsgGetCFHeadersDelegatesToGetCFilters(t *testing.T) {
	m := &MsgGetCFHeaders{FilterType: FilterTypeBasic, StartHeight: 1, StopHash: bhash.Hash{0x0a}}
	raw, err := m.Encode()
	require.NoError(t, err)

	got := &MsgGetCFHeaders{}
	require.NoError(t, got.Decode(raw, 0))
	require.Equal(t, m.StartHeight, got.StartHeight)
	require.Equal(t, m.StopHash, got.StopHash)
}

func TestMsgGetCFCheckptRoundTrip(t *testing.T) {
	m := &MsgGetCFCheckpt{FilterType: FilterTypeBasic, StopHash: bhash.Hash{0x0b}}
	raw, err := m.Encode()
	require.NoError(t, err)

	got := &MsgGetCFCheckpt{}
	require.NoError(t, got.Decode(raw, 0))
	require.Equal(t, m.StopHash, got.StopHash)
}

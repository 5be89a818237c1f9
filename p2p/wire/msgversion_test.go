// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"testing"

	"github.com/shellwallet/btccore/bitcoin/chainparams"
	"github.com/stretchr/testify/require"
)

func TestMsgVersionRoundTrip(t *testing.T) {
	m := &MsgVersion{
		ProtocolVersion: 70016,
		Services:        chainparams.ServiceNetwork | chainparams.ServiceWitness,
		Timestamp:       1700000000,
		Nonce:           0x1122334455667788,
		UserAgent:       "/shell:1.0/",
		LastBlock:       800000,
		RelayTxes:       true,
	}
	raw, err := m.Encode()
	require.NoError(t, err)

	got := &MsgVersion{}
	require.NoError(t, got.Decode(raw, 0))
	require.Equal(t, m.ProtocolVersion, got.ProtocolVersion)
	require.Equal(t, m.Services, got.Services)
	require.Equal(t, m.Timestamp, got.Timestamp)
	require.Equal(t, m.Nonce, got.Nonce)
	require.Equal(t, m.UserAgent, got.UserAgent)
	require.Equal(t, m.LastBlock, got.LastBlock)
	require.Equal(t, m.RelayTxes, got.RelayTxes)
}

func TestMsgVersionOldHandshakeMissingTrailingFields(t *testing.T) {
	// An old-style version message ends right after AddrRecv.
	m := &MsgVersion{ProtocolVersion: 100, Timestamp: 1}
	w := m
	raw, err := w.Encode()
	require.NoError(t, err)
	// Truncate everything after AddrRecv (4+8+8 + 26 bytes = AddrRecv end).
	truncated := raw[:4+8+8+26]

	got := &MsgVersion{}
	require.NoError(t, got.Decode(truncated, 0))
	require.True(t, got.RelayTxes, "a version message with no relay byte defaults to relaying")
}

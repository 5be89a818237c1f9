// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txmodel

import (
	"testing"

	"github.com/shellwallet/btccore/bitcoin/bhash"
	"github.com/stretchr/testify/require"
)

func sampleLegacyTx() *EncodedTransaction {
	return &EncodedTransaction{
		Version: 1,
		Inputs: []Input{
			{
				PreviousOutpoint: Outpoint{Hash: bhash.Hash{0x01}, Index: 0},
				SignatureScript:  []byte{0x01, 0x02},
				Sequence:         0xffffffff,
			},
		},
		Outputs: []Output{
			{Value: 5000, PkScript: []byte{0x76, 0xa9}},
		},
		LockTime: 0,
	}
}

func TestLegacySerializeParseRoundTrip(t *testing.T) {
	tx := sampleLegacyTx()
	raw := tx.Serialize()
	require.Equal(t, tx.SerializeLegacy(), raw, "a non-witness transaction serializes identically both ways")

	got, n, err := Parse(raw)
	require.NoError(t, err)
	require.Equal(t, len(raw), n)
	require.Equal(t, tx.Version, got.Version)
	require.Equal(t, tx.Inputs[0].PreviousOutpoint, got.Inputs[0].PreviousOutpoint)
	require.Equal(t, tx.Outputs[0].Value, got.Outputs[0].Value)
	require.False(t, got.IsSegwit())
}

func TestSegwitSerializeParseRoundTrip(t *testing.T) {
	tx := sampleLegacyTx()
	tx.Inputs[0].Witness = Witness{[]byte{0xde, 0xad}, []byte{0xbe, 0xef}}

	require.True(t, tx.IsSegwit())
	raw := tx.Serialize()

	got, n, err := Parse(raw)
	require.NoError(t, err)
	require.Equal(t, len(raw), n)
	require.True(t, got.IsSegwit())
	require.Equal(t, tx.Inputs[0].Witness, got.Inputs[0].Witness)
}

func TestTxIDIgnoresWitness(t *testing.T) {
	tx := sampleLegacyTx()
	plainID := tx.TxID()

	tx.Inputs[0].Witness = Witness{[]byte{0x01}}
	require.Equal(t, plainID, tx.TxID(), "txid must be stable across witness malleability")
}

func TestWTxIDDiffersWhenWitnessPresent(t *testing.T) {
	tx := sampleLegacyTx()
	noWitness := tx.WTxID(false)
	require.Equal(t, tx.TxID(), noWitness)

	tx.Inputs[0].Witness = Witness{[]byte{0x01}}
	withWitness := tx.WTxID(false)
	require.NotEqual(t, noWitness, withWitness)
}

func TestWTxIDCoinbasePinnedToZero(t *testing.T) {
	tx := sampleLegacyTx()
	tx.Inputs[0].Witness = Witness{[]byte{0x01}}
	require.True(t, tx.WTxID(true).IsZero())
}

func TestSetSegwitForcesMarkerFlag(t *testing.T) {
	tx := sampleLegacyTx()
	tx.SetSegwit(true)
	require.True(t, tx.IsSegwit())

	raw := tx.Serialize()
	// marker/flag sit right after the 4-byte version field.
	require.Equal(t, byte(0x00), raw[4])
	require.Equal(t, byte(0x01), raw[5])
}

// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"testing"

	"github.com/shellwallet/btccore/bitcoin/bhash"
	"github.com/shellwallet/btccore/bitcoin/compactsize"
	"github.com/shellwallet/btccore/bitcoin/header"
	"github.com/shellwallet/btccore/bitcoin/merkle"
	"github.com/shellwallet/btccore/bitcoin/txmodel"
	"github.com/stretchr/testify/require"
)

func sampleTx() *txmodel.EncodedTransaction {
	return &txmodel.EncodedTransaction{
		Version: 1,
		Inputs: []txmodel.Input{
			{PreviousOutpoint: txmodel.Outpoint{Index: 0xffffffff}, SignatureScript: []byte{0x01, 0x02}, Sequence: 0xffffffff},
		},
		Outputs: []txmodel.Output{
			{Value: 5000000000, PkScript: []byte{0x51}},
		},
	}
}

func TestMsgTxRoundTrip(t *testing.T) {
	tx := sampleTx()
	m := &MsgTx{Transaction: tx}
	raw, err := m.Encode()
	require.NoError(t, err)

	got := &MsgTx{}
	require.NoError(t, got.Decode(raw, 0))
	require.Equal(t, tx.TxID(), got.Transaction.TxID())
}

func TestMsgBlockRoundTrip(t *testing.T) {
	tx := sampleTx()
	txBytes := tx.SerializeLegacy()
	root := merkle.CalcRoot([]bhash.Hash{tx.TxID()})

	h := header.Header{
		Version:    1,
		MerkleRoot: root,
		Timestamp:  1231006505,
		Bits:       0x1d00ffff,
		Nonce:      1,
	}

	w := compactsize.NewWriteBuffer(header.Size + len(txBytes) + 8)
	w.PutBytes(h.Serialize())
	w.PutCompactSize(1)
	w.PutBytes(txBytes)

	m := &MsgBlock{}
	require.NoError(t, m.Decode(w.Bytes(), 0))
	require.Len(t, m.Result.Transactions, 1)
	require.Equal(t, root, m.Result.Header.MerkleRoot)

	raw, err := m.Encode()
	require.NoError(t, err)
	require.NotEmpty(t, raw)
}

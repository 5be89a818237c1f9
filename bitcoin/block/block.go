// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package block implements the immutable Block domain object: the
// typed, already-validated wrapper a caller works with after
// blockparser.Parse succeeds.
package block

import (
	"fmt"

	"github.com/shellwallet/btccore/bitcoin/bhash"
	"github.com/shellwallet/btccore/bitcoin/blockparser"
	"github.com/shellwallet/btccore/bitcoin/compactsize"
	"github.com/shellwallet/btccore/bitcoin/header"
	"github.com/shellwallet/btccore/bitcoin/txmodel"
)

// Block wraps a successfully parsed block: its header, the ordered txid
// (and, for SegWit blocks, wtxid) sequence, and the typed transactions
// keyed by txid.
type Block struct {
	header       header.Header
	blockHash    bhash.Hash
	txids        []bhash.Hash
	wtxids       []bhash.Hash
	hasWitness   bool
	transactions map[bhash.Hash]*txmodel.EncodedTransaction
	rawSize      int
}

// FromParseResult builds a Block from a constructing-mode blockparser
// result. It returns an error if the result was produced in checking-only
// mode (no typed transactions retained).
func FromParseResult(r *blockparser.Result) (*Block, error) {
	b := &Block{
		header:       r.Header,
		blockHash:    r.BlockHash,
		hasWitness:   r.HasWitness,
		transactions: make(map[bhash.Hash]*txmodel.EncodedTransaction, len(r.Transactions)),
	}
	for _, t := range r.Transactions {
		if t.Tx == nil {
			return nil, fmt.Errorf("block: parse result has no typed transaction for %s (checking mode only)", t.TxID)
		}
		b.txids = append(b.txids, t.TxID)
		b.wtxids = append(b.wtxids, t.WTxID)
		b.transactions[t.TxID] = t.Tx
		b.rawSize += t.Length
	}
	return b, nil
}

// Header returns the block's header.
func (b *Block) Header() header.Header {
	return b.header
}

// Hash returns the block's hash.
func (b *Block) Hash() bhash.Hash {
	return b.blockHash
}

// TxCount returns the number of transactions in the block.
func (b *Block) TxCount() int {
	return len(b.txids)
}

// TxIDs returns the ordered transaction IDs, coinbase first.
func (b *Block) TxIDs() []bhash.Hash {
	out := make([]bhash.Hash, len(b.txids))
	copy(out, b.txids)
	return out
}

// WTxIDs returns the ordered witness transaction IDs. Empty for blocks
// with no witness data.
func (b *Block) WTxIDs() []bhash.Hash {
	if !b.hasWitness {
		return nil
	}
	out := make([]bhash.Hash, len(b.wtxids))
	copy(out, b.wtxids)
	return out
}

// HasWitness reports whether any transaction in the block carries
// witness data.
func (b *Block) HasWitness() bool {
	return b.hasWitness
}

// Transaction looks up a transaction by its txid.
func (b *Block) Transaction(txid bhash.Hash) (*txmodel.EncodedTransaction, bool) {
	tx, ok := b.transactions[txid]
	return tx, ok
}

// Coinbase returns the block's coinbase transaction.
func (b *Block) Coinbase() (*txmodel.EncodedTransaction, bool) {
	if len(b.txids) == 0 {
		return nil, false
	}
	return b.Transaction(b.txids[0])
}

// ForEach calls fn once per transaction in block order, stopping early if
// fn returns false.
func (b *Block) ForEach(fn func(txid bhash.Hash, tx *txmodel.EncodedTransaction) bool) {
	for _, id := range b.txids {
		if !fn(id, b.transactions[id]) {
			return
		}
	}
}

// Elements returns every script/data element worth indexing for compact
// filter matching: every input's previous outpoint script bytes are not
// known to the block itself, so this returns each output's scriptPubKey
// across all transactions (the BIP-158 basic filter's element set for
// outputs) in block order.
func (b *Block) Elements() [][]byte {
	var out [][]byte
	for _, id := range b.txids {
		tx := b.transactions[id]
		for _, o := range tx.Outputs {
			if len(o.PkScript) > 0 {
				out = append(out, o.PkScript)
			}
		}
	}
	return out
}

// SerializedSize returns the total byte length of the block as it was
// originally parsed: header, transaction count, and transactions.
func (b *Block) SerializedSize() int {
	return header.Size + compactsize.Size(uint64(len(b.txids))) + b.rawSize
}

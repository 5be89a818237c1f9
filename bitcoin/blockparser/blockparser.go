// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package blockparser implements the stateful block byte-stream parser:
// header, transaction count, and every transaction, with optional typed
// construction and the hash/merkle-root/witness-commitment checks that
// prove a block is well-formed.
package blockparser

import (
	"errors"
	"fmt"

	"github.com/shellwallet/btccore/bitcoin/bhash"
	"github.com/shellwallet/btccore/bitcoin/compactsize"
	"github.com/shellwallet/btccore/bitcoin/header"
	"github.com/shellwallet/btccore/bitcoin/merkle"
	"github.com/shellwallet/btccore/bitcoin/txmodel"
)

// Error kinds surfaced by Parse, matching the taxonomy every codec in this
// module reports against.
var (
	ErrParseShort         = errors.New("blockparser: not enough bytes")
	ErrParseInvalid       = errors.New("blockparser: invalid field")
	ErrCommitmentMismatch = errors.New("blockparser: commitment mismatch")
)

// minTxSize is the smallest a well-formed transaction can be: version(4)
// + incount(1) + outcount(1) + locktime(4).
const minTxSize = 10

// segwitMarker/segwitFlag, mirrored from txmodel, are checked by peeking
// ahead rather than importing txmodel's unexported constants.
const (
	segwitMarker = 0x00
	segwitFlag   = 0x01
)

// ParsedTx is one transaction's parse result: the typed transaction, its
// derived identifiers, and the byte range it occupied in the block.
type ParsedTx struct {
	Tx     *txmodel.EncodedTransaction
	TxID   bhash.Hash
	WTxID  bhash.Hash
	Offset int
	Length int
}

// Result is the outcome of parsing an entire block.
type Result struct {
	Header            header.Header
	BlockHash         bhash.Hash
	Transactions      []ParsedTx
	HasWitness        bool
	WitnessCommitment bhash.Hash
	WitnessReserved   []byte
}

// Parse runs the full parser pipeline over a block's byte view. If
// expectedHash is non-zero, the computed block hash must match it
// (checking mode); construct selects whether typed transaction objects
// are retained in the result (constructing mode) or only their
// identifiers are computed.
//
// Parsing is a monadic pipeline: the first failure halts with a wrapped
// context string identifying the step. Excess bytes after a successful
// parse are tolerated, not rejected.
func Parse(b []byte, expectedHash bhash.Hash, construct bool) (*Result, error) {
	h, err := header.Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrParseShort, err)
	}
	blockHash := h.Hash()
	if expectedHash != (bhash.Hash{}) && blockHash != expectedHash {
		return nil, fmt.Errorf("%w: block hash %s != expected %s",
			ErrCommitmentMismatch, blockHash, expectedHash)
	}

	v := compactsize.NewReadView(b[header.Size:])
	txCount, err := v.CompactSizeInt()
	if err != nil {
		return nil, fmt.Errorf("%w: tx count: %v", ErrParseShort, err)
	}
	if txCount == 0 {
		return nil, fmt.Errorf("%w: empty block", ErrParseInvalid)
	}

	result := &Result{Header: h, BlockHash: blockHash}
	var coinbaseWitness []byte
	var coinbasePkScripts [][]byte

	for i := 0; i < txCount; i++ {
		offset := header.Size + v.Pos()
		if v.Remaining() < minTxSize {
			return nil, fmt.Errorf("%w: tx %d: fewer than %d bytes remain", ErrParseShort, i, minTxSize)
		}

		rest := v.Rest()
		isSegwit := len(rest) >= 6 && rest[4] == segwitMarker && rest[5] == segwitFlag

		tx, consumed, err := txmodel.Parse(rest)
		if err != nil {
			return nil, fmt.Errorf("%w: tx %d: %v", ErrParseInvalid, i, err)
		}
		if _, err := v.Take(consumed); err != nil {
			return nil, fmt.Errorf("%w: tx %d: advancing cursor: %v", ErrParseShort, i, err)
		}

		isCoinbase := i == 0
		txid := tx.TxID()
		wtxid := tx.WTxID(isCoinbase)

		if isCoinbase && isSegwit && len(tx.Inputs) > 0 && len(tx.Inputs[0].Witness) > 0 {
			first := tx.Inputs[0].Witness[0]
			if len(first) == merkle.CoinbaseWitnessDataLen {
				coinbaseWitness = first
			}
		}
		if isCoinbase {
			for _, out := range tx.Outputs {
				coinbasePkScripts = append(coinbasePkScripts, out.PkScript)
			}
		}
		if tx.HasWitness() {
			result.HasWitness = true
		}

		entry := ParsedTx{TxID: txid, WTxID: wtxid, Offset: offset, Length: consumed}
		if construct {
			entry.Tx = tx
		}
		result.Transactions = append(result.Transactions, entry)
	}

	txids := make([]bhash.Hash, len(result.Transactions))
	for i, t := range result.Transactions {
		txids[i] = t.TxID
	}
	computedRoot := merkle.CalcRoot(txids)
	if computedRoot != h.MerkleRoot {
		return nil, fmt.Errorf("%w: merkle root %s != header %s",
			ErrCommitmentMismatch, computedRoot, h.MerkleRoot)
	}

	if result.HasWitness {
		commitment, found := merkle.ExtractCommitment(coinbasePkScripts)
		if !found {
			return nil, fmt.Errorf("%w: block has witness data but coinbase carries no witness commitment",
				ErrCommitmentMismatch)
		}
		if coinbaseWitness == nil {
			return nil, fmt.Errorf("%w: coinbase missing %d-byte witness reserved value",
				ErrCommitmentMismatch, merkle.CoinbaseWitnessDataLen)
		}
		wtxids := make([]bhash.Hash, len(result.Transactions))
		for i, t := range result.Transactions {
			wtxids[i] = t.WTxID
		}
		witnessRoot := merkle.CalcRoot(wtxids)
		if !merkle.ValidateCommitment(witnessRoot, coinbaseWitness, commitment) {
			return nil, fmt.Errorf("%w: witness commitment does not match computed root",
				ErrCommitmentMismatch)
		}
		result.WitnessCommitment = commitment
		result.WitnessReserved = coinbaseWitness
	}

	return result, nil
}

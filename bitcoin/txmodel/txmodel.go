// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package txmodel implements the encoded (wire-level) Bitcoin-family
// transaction: outpoint, inputs, outputs, optional witnesses, and the
// txid/wtxid rules that follow from BIP-141 SegWit serialization.
package txmodel

import (
	"fmt"

	"github.com/shellwallet/btccore/bitcoin/bhash"
	"github.com/shellwallet/btccore/bitcoin/compactsize"
)

// segwitMarker and segwitFlag are the two bytes BIP-141 inserts after the
// version field to signal a witness-carrying serialization.
const (
	segwitMarker = 0x00
	segwitFlag   = 0x01
)

// Outpoint identifies the previous output an input spends.
type Outpoint struct {
	Hash  bhash.Hash
	Index uint32
}

// Witness is one input's witness stack: zero or more data items.
type Witness [][]byte

// Input is a single transaction input: the outpoint it spends, its
// signature script, its sequence number, and (SegWit only) its witness
// stack.
type Input struct {
	PreviousOutpoint Outpoint
	SignatureScript  []byte
	Sequence         uint32
	Witness          Witness
}

// HasWitness reports whether this input carries a non-empty witness
// stack.
func (in Input) HasWitness() bool {
	return len(in.Witness) > 0
}

// CashTokenData optionally extends an output with a CashTokens prefix
// (category ID, optional NFT commitment, optional fungible amount). Left
// nil on chains that do not define CashTokens.
type CashTokenData struct {
	CategoryID []byte
	Commitment []byte
	Amount     uint64
	HasNFT     bool
	HasAmount  bool
}

// Output is a single transaction output: its value in satoshis and its
// locking script, plus an optional chain-specific CashToken extension.
type Output struct {
	Value     int64
	PkScript  []byte
	CashToken *CashTokenData
}

// ExtraPayload carries a chain-specific tail appended after locktime (the
// DIP-2-style special-transaction extension used by chains that tag a
// transaction type and an opaque extra-payload blob). Left nil for chains
// that do not use it.
type ExtraPayload struct {
	Type    uint16
	Payload []byte
}

// EncodedTransaction is the wire-level transaction: every field needed to
// reproduce the exact bytes a peer sent, plus its derived identifiers.
type EncodedTransaction struct {
	Version  int32
	Inputs   []Input
	Outputs  []Output
	LockTime uint32
	Extra    *ExtraPayload

	// segwit records whether this transaction was parsed with (or should
	// be serialized with) the BIP-141 marker+flag, independent of whether
	// any individual input happens to carry a witness.
	segwit bool
}

// HasWitness reports whether any input carries a witness stack.
func (tx *EncodedTransaction) HasWitness() bool {
	for _, in := range tx.Inputs {
		if in.HasWitness() {
			return true
		}
	}
	return false
}

// IsSegwit reports whether this transaction serializes with the BIP-141
// marker+flag. It is true whenever any input has a witness, and may also
// be set explicitly (an all-empty-witness segwit transaction still round
// trips through its original encoding).
func (tx *EncodedTransaction) IsSegwit() bool {
	return tx.segwit || tx.HasWitness()
}

// SetSegwit forces the marker+flag to be emitted on serialization even if
// every witness stack happens to be empty, preserving the original wire
// form of a transaction parsed that way.
func (tx *EncodedTransaction) SetSegwit(v bool) {
	tx.segwit = v
}

func (tx *EncodedTransaction) serializeInputs(w *compactsize.WriteBuffer) {
	w.PutCompactSize(uint64(len(tx.Inputs)))
	for _, in := range tx.Inputs {
		w.PutBytes(in.PreviousOutpoint.Hash.Bytes())
		w.PutUint32LE(in.PreviousOutpoint.Index)
		w.PutCompactBytes(in.SignatureScript)
		w.PutUint32LE(in.Sequence)
	}
}

func (tx *EncodedTransaction) serializeOutputs(w *compactsize.WriteBuffer) {
	w.PutCompactSize(uint64(len(tx.Outputs)))
	for _, out := range tx.Outputs {
		w.PutInt64LE(out.Value)
		w.PutCompactBytes(out.PkScript)
	}
}

func (tx *EncodedTransaction) serializeWitnesses(w *compactsize.WriteBuffer) {
	for _, in := range tx.Inputs {
		w.PutCompactSize(uint64(len(in.Witness)))
		for _, item := range in.Witness {
			w.PutCompactBytes(item)
		}
	}
}

func (tx *EncodedTransaction) serializeExtra(w *compactsize.WriteBuffer) {
	if tx.Extra == nil {
		return
	}
	w.PutUint16LE(tx.Extra.Type)
	w.PutCompactBytes(tx.Extra.Payload)
}

// SerializeLegacy produces the non-witness serialization: the form hashed
// for txid, and the only form emitted when the transaction carries no
// witnesses.
func (tx *EncodedTransaction) SerializeLegacy() []byte {
	w := compactsize.NewWriteBuffer(256)
	w.PutInt32LE(tx.Version)
	tx.serializeInputs(w)
	tx.serializeOutputs(w)
	w.PutUint32LE(tx.LockTime)
	tx.serializeExtra(w)
	return w.Bytes()
}

// Serialize produces the transaction's canonical wire form: witness
// serialization (with marker+flag and per-input witness stacks) when
// IsSegwit is true, legacy serialization otherwise.
func (tx *EncodedTransaction) Serialize() []byte {
	if !tx.IsSegwit() {
		return tx.SerializeLegacy()
	}
	w := compactsize.NewWriteBuffer(256)
	w.PutInt32LE(tx.Version)
	w.PutByte(segwitMarker)
	w.PutByte(segwitFlag)
	tx.serializeInputs(w)
	tx.serializeOutputs(w)
	tx.serializeWitnesses(w)
	w.PutUint32LE(tx.LockTime)
	tx.serializeExtra(w)
	return w.Bytes()
}

// TxID is sha256d of the legacy (witness-stripped) serialization, stable
// across witness malleability.
func (tx *EncodedTransaction) TxID() bhash.Hash {
	return bhash.Sha256D(tx.SerializeLegacy())
}

// WTxID is the witness transaction ID: sha256d of the full witness
// serialization when any input carries a witness, or equal to TxID when
// none does. Coinbase transactions pin wtxid to the all-zero hash per
// BIP-141.
func (tx *EncodedTransaction) WTxID(isCoinbase bool) bhash.Hash {
	if isCoinbase {
		return bhash.Hash{}
	}
	if !tx.HasWitness() {
		return tx.TxID()
	}
	return bhash.Sha256D(tx.Serialize())
}

// Parse decodes an EncodedTransaction from the front of a byte view,
// detecting the SegWit marker+flag and returning any error with enough
// context to identify which field failed.
func Parse(b []byte) (*EncodedTransaction, int, error) {
	v := compactsize.NewReadView(b)
	tx := &EncodedTransaction{}

	ver, err := v.Int32LE()
	if err != nil {
		return nil, 0, fmt.Errorf("txmodel: version: %w", err)
	}
	tx.Version = ver

	if v.Remaining() >= 2 {
		rest := v.Rest()
		if rest[0] == segwitMarker && rest[1] == segwitFlag {
			tx.segwit = true
			if _, err := v.Take(2); err != nil {
				return nil, 0, fmt.Errorf("txmodel: marker/flag: %w", err)
			}
		}
	}

	inCount, err := v.CompactSizeInt()
	if err != nil {
		return nil, 0, fmt.Errorf("txmodel: input count: %w", err)
	}
	tx.Inputs = make([]Input, inCount)
	for i := range tx.Inputs {
		hashBytes, err := v.Take(bhash.Size)
		if err != nil {
			return nil, 0, fmt.Errorf("txmodel: input %d outpoint hash: %w", i, err)
		}
		h, err := bhash.NewHash(hashBytes)
		if err != nil {
			return nil, 0, fmt.Errorf("txmodel: input %d outpoint hash: %w", i, err)
		}
		index, err := v.Uint32LE()
		if err != nil {
			return nil, 0, fmt.Errorf("txmodel: input %d outpoint index: %w", i, err)
		}
		sigScript, err := v.CompactBytes()
		if err != nil {
			return nil, 0, fmt.Errorf("txmodel: input %d signature script: %w", i, err)
		}
		sequence, err := v.Uint32LE()
		if err != nil {
			return nil, 0, fmt.Errorf("txmodel: input %d sequence: %w", i, err)
		}
		tx.Inputs[i] = Input{
			PreviousOutpoint: Outpoint{Hash: h, Index: index},
			SignatureScript:  sigScript,
			Sequence:         sequence,
		}
	}

	outCount, err := v.CompactSizeInt()
	if err != nil {
		return nil, 0, fmt.Errorf("txmodel: output count: %w", err)
	}
	tx.Outputs = make([]Output, outCount)
	for i := range tx.Outputs {
		value, err := v.Int64LE()
		if err != nil {
			return nil, 0, fmt.Errorf("txmodel: output %d value: %w", i, err)
		}
		pkScript, err := v.CompactBytes()
		if err != nil {
			return nil, 0, fmt.Errorf("txmodel: output %d script: %w", i, err)
		}
		tx.Outputs[i] = Output{Value: value, PkScript: pkScript}
	}

	if tx.segwit {
		for i := range tx.Inputs {
			itemCount, err := v.CompactSizeInt()
			if err != nil {
				return nil, 0, fmt.Errorf("txmodel: input %d witness count: %w", i, err)
			}
			witness := make(Witness, itemCount)
			for j := range witness {
				item, err := v.CompactBytes()
				if err != nil {
					return nil, 0, fmt.Errorf("txmodel: input %d witness item %d: %w", i, j, err)
				}
				witness[j] = item
			}
			tx.Inputs[i].Witness = witness
		}
	}

	lockTime, err := v.Uint32LE()
	if err != nil {
		return nil, 0, fmt.Errorf("txmodel: locktime: %w", err)
	}
	tx.LockTime = lockTime

	return tx, v.Pos(), nil
}

// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package builder

import (
	"github.com/shellwallet/btccore/bitcoin/bhash"
	"github.com/shellwallet/btccore/bitcoin/compactsize"
	"github.com/shellwallet/btccore/bitcoin/txmodel"
)

// SigHashType is the one-byte (or, for BCH, one-byte-plus-FORKID) suffix
// appended to a signature, selecting which parts of the transaction it
// commits to.
type SigHashType uint32

const (
	SigHashAll          SigHashType = 0x1
	SigHashNone         SigHashType = 0x2
	SigHashSingle       SigHashType = 0x3
	SigHashAnyOneCanPay SigHashType = 0x80

	// sigHashForkID marks a BCH signature: OR'd into the low byte
	// alongside the fork-id value shifted into the upper 24 bits.
	sigHashForkID SigHashType = 0x40
)

// bip143Cache holds the three midstate hashes BIP-143 reuses across every
// input of the same transaction, computed once and shared by every
// sign_input call (mirroring the reference builder's lazy, per-transaction
// Bip143Hashes cache).
type bip143Cache struct {
	hashPrevouts bhash.Hash
	hashSequence bhash.Hash
	hashOutputs  bhash.Hash
	ready        bool
}

func newBip143Cache(tx *txmodel.EncodedTransaction) *bip143Cache {
	c := &bip143Cache{}
	c.init(tx)
	return c
}

func (c *bip143Cache) init(tx *txmodel.EncodedTransaction) {
	if c.ready {
		return
	}

	var prevouts, sequences compactsize.WriteBuffer
	for _, in := range tx.Inputs {
		prevouts.PutBytes(in.PreviousOutpoint.Hash.Bytes())
		prevouts.PutUint32LE(in.PreviousOutpoint.Index)
		sequences.PutUint32LE(in.Sequence)
	}
	c.hashPrevouts = bhash.Sha256D(prevouts.Bytes())
	c.hashSequence = bhash.Sha256D(sequences.Bytes())

	var outputs compactsize.WriteBuffer
	for _, out := range tx.Outputs {
		outputs.PutInt64LE(out.Value)
		outputs.PutCompactBytes(out.PkScript)
	}
	c.hashOutputs = bhash.Sha256D(outputs.Bytes())
	c.ready = true
}

// BIP143Preimage computes the BIP-143 (SegWit v0 and BCH) signature
// preimage for input index of tx, spending a previous output of value
// amount locked by scriptCode, under sigHashType. BCH differs from BTC
// SegWit only in carrying the FORKID bit and chain-specific fork value in
// the hash type word; the preimage layout is otherwise identical.
func (c *bip143Cache) BIP143Preimage(tx *txmodel.EncodedTransaction, index int, scriptCode []byte, amount int64, sigHashType SigHashType) []byte {
	in := tx.Inputs[index]

	var w compactsize.WriteBuffer
	w.PutInt32LE(tx.Version)
	w.PutBytes(c.hashPrevouts.Bytes())
	w.PutBytes(c.hashSequence.Bytes())
	w.PutBytes(in.PreviousOutpoint.Hash.Bytes())
	w.PutUint32LE(in.PreviousOutpoint.Index)
	w.PutCompactBytes(scriptCode)
	w.PutInt64LE(amount)
	w.PutUint32LE(in.Sequence)
	w.PutBytes(c.hashOutputs.Bytes())
	w.PutUint32LE(tx.LockTime)
	w.PutUint32LE(uint32(sigHashType))
	return w.Bytes()
}

// P2WPKHScriptCode returns the implied "scriptCode" BIP-143 hashes for a
// P2WPKH output: a legacy P2PKH script over the 20-byte key hash carried
// in the witness program.
func P2WPKHScriptCode(keyHash []byte) []byte {
	return append([]byte{0x76, 0xa9, 0x14}, append(append([]byte{}, keyHash...), 0x88, 0xac)...)
}

// legacyPreimage computes the pre-SegWit sighash preimage for input
// index: a copy of the transaction with every other input's scriptSig
// cleared and this input's scriptSig set to scriptCode, serialized and
// suffixed with the four-byte sighash type.
func legacyPreimage(tx *txmodel.EncodedTransaction, index int, scriptCode []byte, sigHashType SigHashType) []byte {
	copyTx := &txmodel.EncodedTransaction{
		Version:  tx.Version,
		LockTime: tx.LockTime,
		Inputs:   make([]txmodel.Input, len(tx.Inputs)),
		Outputs:  tx.Outputs,
	}
	for i, in := range tx.Inputs {
		sig := []byte(nil)
		if i == index {
			sig = scriptCode
		}
		copyTx.Inputs[i] = txmodel.Input{
			PreviousOutpoint: in.PreviousOutpoint,
			SignatureScript:  sig,
			Sequence:         in.Sequence,
		}
	}

	w := compactsize.NewWriteBuffer(256)
	w.PutBytes(copyTx.SerializeLegacy())
	w.PutUint32LE(uint32(sigHashType))
	return w.Bytes()
}

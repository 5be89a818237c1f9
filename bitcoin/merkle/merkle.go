// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package merkle computes merkle roots over transaction hashes and
// verifies BIP-141 witness commitments. Grounded on the pair-and-
// duplicate-last tree the Bitcoin family uses throughout.
package merkle

import "github.com/shellwallet/btccore/bitcoin/bhash"

// hashBranches returns sha256d(left || right), the interior-node hash
// used throughout the tree.
func hashBranches(left, right bhash.Hash) bhash.Hash {
	buf := make([]byte, 0, bhash.Size*2)
	buf = append(buf, left.Bytes()...)
	buf = append(buf, right.Bytes()...)
	return bhash.Sha256D(buf)
}

// CalcRoot computes the merkle root over leaves in order: pair adjacent
// hashes left-to-right, duplicating the final entry when a row has odd
// length, until one hash remains. An empty leaf set returns the zero
// hash.
func CalcRoot(leaves []bhash.Hash) bhash.Hash {
	if len(leaves) == 0 {
		return bhash.Hash{}
	}
	row := make([]bhash.Hash, len(leaves))
	copy(row, leaves)

	for len(row) > 1 {
		if len(row)%2 == 1 {
			row = append(row, row[len(row)-1])
		}
		next := make([]bhash.Hash, len(row)/2)
		for i := 0; i < len(next); i++ {
			next[i] = hashBranches(row[2*i], row[2*i+1])
		}
		row = next
	}
	return row[0]
}

// WitnessMagicBytes is the BIP-141 OP_RETURN prefix that marks a coinbase
// output as carrying the witness commitment: OP_RETURN, a 36-byte push,
// then the commitment-header magic 0xaa21a9ed.
var WitnessMagicBytes = []byte{0x6a, 0x24, 0xaa, 0x21, 0xa9, 0xed}

// CoinbaseWitnessDataLen is the required length of the coinbase's sole
// witness element when a witness commitment is present.
const CoinbaseWitnessDataLen = 32

// CoinbaseWitnessPkScriptLength is the minimum length of a witness
// commitment output's script: the magic prefix plus the 32-byte
// commitment.
const CoinbaseWitnessPkScriptLength = len(WitnessMagicBytes) + 32

// ExtractCommitment scans a coinbase's output scripts, most recent first,
// for a BIP-141 witness commitment and returns its 32 bytes.
func ExtractCommitment(coinbasePkScripts [][]byte) (bhash.Hash, bool) {
	for i := len(coinbasePkScripts) - 1; i >= 0; i-- {
		pk := coinbasePkScripts[i]
		if len(pk) < CoinbaseWitnessPkScriptLength {
			continue
		}
		match := true
		for j, b := range WitnessMagicBytes {
			if pk[j] != b {
				match = false
				break
			}
		}
		if !match {
			continue
		}
		var h bhash.Hash
		copy(h[:], pk[len(WitnessMagicBytes):len(WitnessMagicBytes)+32])
		return h, true
	}
	return bhash.Hash{}, false
}

// ValidateCommitment checks sha256d(witnessRoot || reserved) == commitment.
func ValidateCommitment(witnessRoot bhash.Hash, reserved []byte, commitment bhash.Hash) bool {
	buf := make([]byte, 0, bhash.Size+len(reserved))
	buf = append(buf, witnessRoot.Bytes()...)
	buf = append(buf, reserved...)
	computed := bhash.Sha256D(buf)
	return computed == commitment
}

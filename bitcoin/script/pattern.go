// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package script

import "bytes"

// Pattern is the recognized standard shape of a script, used for
// recipient classification and filter element extraction.
type Pattern int

const (
	PatternUnknown Pattern = iota
	PatternP2PKH
	PatternP2PK
	PatternP2WPKH
	PatternP2WSH
	PatternP2SH
	PatternP2TR
	PatternP2MS
	PatternWitnessCommitment
	PatternOpReturn
)

// witnessCommitmentPrefix is the BIP-141 OP_RETURN prefix that introduces
// a witness commitment output: OP_RETURN OP_PUSHBYTES_36 0xaa21a9ed.
var witnessCommitmentPrefix = []byte{byte(OP_RETURN), 0x24, 0xaa, 0x21, 0xa9, 0xed}

// Classify examines the element sequence and returns the standard pattern
// it matches, if any.
func (s Script) Classify() Pattern {
	if _, ok := s.WitnessCommitment(); ok {
		return PatternWitnessCommitment
	}

	switch {
	case isP2PKH(s):
		return PatternP2PKH
	case isP2PK(s):
		return PatternP2PK
	case isP2WPKH(s):
		return PatternP2WPKH
	case isP2WSH(s):
		return PatternP2WSH
	case isP2SH(s):
		return PatternP2SH
	case isP2TR(s):
		return PatternP2TR
	case isP2MS(s):
		return PatternP2MS
	}

	if len(s) > 0 && s[0].Opcode == OP_RETURN && !s[0].Pushed {
		return PatternOpReturn
	}
	return PatternUnknown
}

// isP2PKH matches DUP HASH160 <20> EQUALVERIFY CHECKSIG.
func isP2PKH(s Script) bool {
	return len(s) == 5 &&
		s[0].Opcode == OP_DUP && !s[0].Pushed &&
		s[1].Opcode == OP_HASH160 && !s[1].Pushed &&
		s[2].Pushed && len(s[2].Data) == 20 && !s[2].Invalid &&
		s[3].Opcode == OP_EQUALVERIFY && !s[3].Pushed &&
		s[4].Opcode == OP_CHECKSIG && !s[4].Pushed
}

// isP2PK matches <33|65> CHECKSIG.
func isP2PK(s Script) bool {
	return len(s) == 2 &&
		s[0].Pushed && !s[0].Invalid && (len(s[0].Data) == 33 || len(s[0].Data) == 65) &&
		s[1].Opcode == OP_CHECKSIG && !s[1].Pushed
}

// isP2WPKH matches OP_0 <20>.
func isP2WPKH(s Script) bool {
	return len(s) == 2 &&
		s[0].Opcode == OP_0 && !s[0].Pushed &&
		s[1].Pushed && !s[1].Invalid && len(s[1].Data) == 20
}

// isP2WSH matches OP_0 <32>.
func isP2WSH(s Script) bool {
	return len(s) == 2 &&
		s[0].Opcode == OP_0 && !s[0].Pushed &&
		s[1].Pushed && !s[1].Invalid && len(s[1].Data) == 32
}

// isP2SH matches HASH160 <20> EQUAL.
func isP2SH(s Script) bool {
	return len(s) == 3 &&
		s[0].Opcode == OP_HASH160 && !s[0].Pushed &&
		s[1].Pushed && !s[1].Invalid && len(s[1].Data) == 20 &&
		s[2].Opcode == OP_EQUAL && !s[2].Pushed
}

// isP2TR matches OP_1 <32>.
func isP2TR(s Script) bool {
	return len(s) == 2 &&
		s[0].Opcode == OP_1 && !s[0].Pushed &&
		s[1].Pushed && !s[1].Invalid && len(s[1].Data) == 32
}

// isP2MS matches OP_M <pub>* OP_N CHECKMULTISIG where 1 <= M <= N <= 16.
func isP2MS(s Script) bool {
	if len(s) < 4 {
		return false
	}
	last := s[len(s)-1]
	if last.Pushed || last.Opcode != OP_CHECKMULTISIG {
		return false
	}
	nEl := s[len(s)-2]
	n, ok := nEl.Opcode.IsSmallInt()
	if nEl.Pushed || !ok {
		return false
	}
	mEl := s[0]
	m, ok := mEl.Opcode.IsSmallInt()
	if mEl.Pushed || !ok {
		return false
	}
	if m < 1 || m > n || n > 16 {
		return false
	}
	pubkeys := s[1 : len(s)-2]
	if len(pubkeys) != n {
		return false
	}
	for _, pk := range pubkeys {
		if !pk.Pushed || pk.Invalid || (len(pk.Data) != 33 && len(pk.Data) != 65) {
			return false
		}
	}
	return true
}

// WitnessCommitment reports whether the script is a BIP-141 witness
// commitment output and, if so, returns the 32-byte commitment hash.
func (s Script) WitnessCommitment() ([]byte, bool) {
	raw := s.Bytes()
	if len(raw) < len(witnessCommitmentPrefix)+32 {
		return nil, false
	}
	if !bytes.Equal(raw[:len(witnessCommitmentPrefix)], witnessCommitmentPrefix) {
		return nil, false
	}
	commitment := raw[len(witnessCommitmentPrefix) : len(witnessCommitmentPrefix)+32]
	return commitment, true
}

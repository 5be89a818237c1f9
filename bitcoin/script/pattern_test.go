// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package script

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func push(b []byte) []byte {
	if len(b) <= 0x4b {
		return append([]byte{byte(len(b))}, b...)
	}
	panic("push: too long for this test helper")
}

func TestClassifyP2PKH(t *testing.T) {
	hash := bytes.Repeat([]byte{0xaa}, 20)
	var raw []byte
	raw = append(raw, byte(OP_DUP), byte(OP_HASH160))
	raw = append(raw, push(hash)...)
	raw = append(raw, byte(OP_EQUALVERIFY), byte(OP_CHECKSIG))

	require.Equal(t, PatternP2PKH, Parse(raw).Classify())
}

func TestClassifyP2WPKH(t *testing.T) {
	hash := bytes.Repeat([]byte{0xbb}, 20)
	var raw []byte
	raw = append(raw, byte(OP_0))
	raw = append(raw, push(hash)...)

	require.Equal(t, PatternP2WPKH, Parse(raw).Classify())
}

func TestClassifyP2WSH(t *testing.T) {
	hash := bytes.Repeat([]byte{0xcc}, 32)
	var raw []byte
	raw = append(raw, byte(OP_0))
	raw = append(raw, push(hash)...)

	require.Equal(t, PatternP2WSH, Parse(raw).Classify())
}

func TestClassifyP2TR(t *testing.T) {
	key := bytes.Repeat([]byte{0xdd}, 32)
	var raw []byte
	raw = append(raw, byte(OP_1))
	raw = append(raw, push(key)...)

	require.Equal(t, PatternP2TR, Parse(raw).Classify())
}

func TestClassifyP2SH(t *testing.T) {
	hash := bytes.Repeat([]byte{0xee}, 20)
	var raw []byte
	raw = append(raw, byte(OP_HASH160))
	raw = append(raw, push(hash)...)
	raw = append(raw, byte(OP_EQUAL))

	require.Equal(t, PatternP2SH, Parse(raw).Classify())
}

func TestClassifyP2PK(t *testing.T) {
	pub := bytes.Repeat([]byte{0x02}, 33)
	var raw []byte
	raw = append(raw, push(pub)...)
	raw = append(raw, byte(OP_CHECKSIG))

	require.Equal(t, PatternP2PK, Parse(raw).Classify())
}

func TestClassifyP2MS1of3(t *testing.T) {
	pub1 := bytes.Repeat([]byte{0x02}, 33)
	pub2 := bytes.Repeat([]byte{0x03}, 33)
	pub3 := bytes.Repeat([]byte{0x04}, 33)

	var raw []byte
	raw = append(raw, byte(OP_1))
	raw = append(raw, push(pub1)...)
	raw = append(raw, push(pub2)...)
	raw = append(raw, push(pub3)...)
	raw = append(raw, byte(OP_1)+2) // OP_3
	raw = append(raw, byte(OP_CHECKMULTISIG))

	s := Parse(raw)
	require.Equal(t, PatternP2MS, s.Classify())

	m, ok := s[0].Opcode.IsSmallInt()
	require.True(t, ok)
	require.Equal(t, 1, m)
}

func TestClassifyWitnessCommitment(t *testing.T) {
	commitment := bytes.Repeat([]byte{0x42}, 32)
	var raw []byte
	raw = append(raw, byte(OP_RETURN), 0x24, 0xaa, 0x21, 0xa9, 0xed)
	raw = append(raw, commitment...)

	s := Parse(raw)
	require.Equal(t, PatternWitnessCommitment, s.Classify())

	got, ok := s.WitnessCommitment()
	require.True(t, ok)
	require.Equal(t, commitment, got)
}

func TestClassifyOpReturn(t *testing.T) {
	raw := []byte{byte(OP_RETURN), 0x04, 'd', 'a', 't', 'a'}
	require.Equal(t, PatternOpReturn, Parse(raw).Classify())
}

func TestClassifyUnknown(t *testing.T) {
	raw := []byte{byte(OP_CHECKSIG), byte(OP_DUP)}
	require.Equal(t, PatternUnknown, Parse(raw).Classify())
}

func TestParseTruncatedPushIsInvalidNotFatal(t *testing.T) {
	raw := []byte{0x05, 0x01, 0x02} // declares a 5-byte push, only 2 follow
	s := Parse(raw)
	require.Len(t, s, 1)
	require.True(t, s[0].Invalid)
	require.Equal(t, []byte{0x01, 0x02}, s[0].Data)
}

func TestBytesRoundTrip(t *testing.T) {
	hash := bytes.Repeat([]byte{0x11}, 20)
	var raw []byte
	raw = append(raw, byte(OP_DUP), byte(OP_HASH160))
	raw = append(raw, push(hash)...)
	raw = append(raw, byte(OP_EQUALVERIFY), byte(OP_CHECKSIG))

	s := Parse(raw)
	require.Equal(t, raw, s.Bytes())
}

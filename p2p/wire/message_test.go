// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"testing"

	"github.com/shellwallet/btccore/bitcoin/bhash"
	"github.com/shellwallet/btccore/bitcoin/chainparams"
	"github.com/stretchr/testify/require"
)

func TestPingPongRoundTrip(t *testing.T) {
	ping := &MsgPing{Nonce: 0xdeadbeefcafebabe}
	raw, err := Encode(chainparams.MainNet.Net, ping)
	require.NoError(t, err)

	h, payload, total, err := SplitFrame(raw)
	require.NoError(t, err)
	require.Equal(t, len(raw), total)
	require.Equal(t, CmdPing, h.Command)

	msg, err := Decode(h, payload, chainparams.MainNet.ProtocolVersion)
	require.NoError(t, err)
	got, ok := msg.(*MsgPing)
	require.True(t, ok)
	require.Equal(t, ping.Nonce, got.Nonce)

	pong := &MsgPong{Nonce: got.Nonce}
	raw2, err := Encode(chainparams.MainNet.Net, pong)
	require.NoError(t, err)
	h2, payload2, _, err := SplitFrame(raw2)
	require.NoError(t, err)
	msg2, err := Decode(h2, payload2, chainparams.MainNet.ProtocolVersion)
	require.NoError(t, err)
	gotPong, ok := msg2.(*MsgPong)
	require.True(t, ok)
	require.Equal(t, ping.Nonce, gotPong.Nonce)
}

func TestVerAckNoPayload(t *testing.T) {
	msg := &MsgVerAck{}
	payload, err := msg.Encode()
	require.NoError(t, err)
	require.Empty(t, payload)
}

func TestDecodeUnknownCommandIsNotFatal(t *testing.T) {
	h := FrameHeader{Command: "totallynewcmd"}
	msg, err := Decode(h, []byte("opaque bytes"), 0)
	require.NoError(t, err)

	unknown, ok := msg.(*MsgUnknown)
	require.True(t, ok)
	require.Equal(t, "totallynewcmd", unknown.CommandName)
	require.Equal(t, []byte("opaque bytes"), unknown.Payload)
}

func TestGetHeadersEncodeDecodeRoundTrip(t *testing.T) {
	m := &MsgGetHeaders{locatorCodec{
		ProtocolVersion: 70016,
		BlockLocator:    []bhash.Hash{{0x01}, {0x02}},
		HashStop:        bhash.Hash{},
	}}
	raw, err := m.Encode()
	require.NoError(t, err)

	got := &MsgGetHeaders{}
	require.NoError(t, got.Decode(raw, 0))
	require.Equal(t, m.ProtocolVersion, got.ProtocolVersion)
	require.Equal(t, m.BlockLocator, got.BlockLocator)
}

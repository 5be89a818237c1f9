// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peeraddr

import (
	"net"
	"testing"
	"time"

	"github.com/shellwallet/btccore/bitcoin/chainparams"
	"github.com/stretchr/testify/require"
)

func TestFromIPv4(t *testing.T) {
	a, err := FromIP(net.ParseIP("192.0.2.1"), 8333, chainparams.MainNet.Net, chainparams.ServiceNetwork)
	require.NoError(t, err)
	require.Equal(t, TransportIPv4, a.Transport())
	require.Equal(t, "192.0.2.1:8333", a.Display())
}

func TestFromIPv6(t *testing.T) {
	a, err := FromIP(net.ParseIP("2001:db8::1"), 8333, chainparams.MainNet.Net, 0)
	require.NoError(t, err)
	require.Equal(t, TransportIPv6, a.Transport())
}

func TestNewRejectsWrongLength(t *testing.T) {
	_, err := New(ProtocolV2, TransportIPv4, TransportInvalid, nil, []byte{1, 2, 3}, 8333, chainparams.MainNet.Net, 0, false, nil)
	require.Error(t, err)
}

func TestOnion3Display(t *testing.T) {
	addr := make([]byte, 32)
	for i := range addr {
		addr[i] = byte(i)
	}
	a, err := New(ProtocolV2, TransportOnion3, TransportInvalid, nil, addr, 8333, chainparams.MainNet.Net, 0, false, nil)
	require.NoError(t, err)
	require.Contains(t, a.Display(), ".onion:8333")
}

func TestZMQRecursesToSubtype(t *testing.T) {
	key := make([]byte, 32)
	ip := net.ParseIP("192.0.2.1").To4()
	a, err := New(ProtocolV2, TransportZMQ, TransportIPv4, key, ip, 9000, chainparams.MainNet.Net, 0, true, []byte("cookie"))
	require.NoError(t, err)
	require.Equal(t, "192.0.2.1:9000", a.Display())
	require.Equal(t, key, a.Key())
	require.Equal(t, []byte("cookie"), a.Cookie())
	require.True(t, a.Incoming())
}

func TestIDExcludesMutableFields(t *testing.T) {
	a, err := FromIP(net.ParseIP("192.0.2.1"), 8333, chainparams.MainNet.Net, chainparams.ServiceNetwork)
	require.NoError(t, err)
	before := a.ID()

	a.SetServices(chainparams.ServiceWitness)
	a.SetLastConnected(time.Now())
	require.Equal(t, before, a.ID(), "mutable bookkeeping must not change address identity")
}

func TestIDDiffersByIdentityFields(t *testing.T) {
	a, _ := FromIP(net.ParseIP("192.0.2.1"), 8333, chainparams.MainNet.Net, 0)
	b, _ := FromIP(net.ParseIP("192.0.2.2"), 8333, chainparams.MainNet.Net, 0)
	require.NotEqual(t, a.ID(), b.ID())
}

// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package spend

import (
	"errors"
	"testing"
	"time"

	"github.com/shellwallet/btccore/bitcoin/bhash"
	"github.com/shellwallet/btccore/wallet/collab"
	"github.com/stretchr/testify/require"
)

func TestValidateNormalRequiresRecipient(t *testing.T) {
	p := &Proposal{Policy: FundingNormal}
	require.Error(t, p.Validate())

	p.Recipients = []Recipient{{Kind: RecipientAddress, Amount: 1000}}
	require.NoError(t, p.Validate())
}

func TestValidateSweepAccountRequiresScope(t *testing.T) {
	p := &Proposal{Policy: FundingSweepAccount}
	require.Error(t, p.Validate())

	p.Scope.AccountID = "acct-1"
	require.NoError(t, p.Validate())
}

func TestValidateSweepSubaccountRequiresHasSub(t *testing.T) {
	p := &Proposal{Policy: FundingSweepSubaccount, Scope: collab.Scope{AccountID: "acct-1"}}
	require.Error(t, p.Validate())

	p.Scope.HasSub = true
	require.NoError(t, p.Validate())
}

func TestValidateSweepKeyRequiresKey(t *testing.T) {
	p := &Proposal{Policy: FundingSweepKey}
	require.Error(t, p.Validate())

	k := collab.KeyID{AccountID: "acct-1"}
	p.Scope.Key = &k
	require.NoError(t, p.Validate())
}

func TestIsExpired(t *testing.T) {
	p := &Proposal{}
	require.False(t, p.IsExpired(time.Now()), "zero expiration never expires")

	p.Expiration = time.Now().Add(-time.Minute)
	require.True(t, p.IsExpired(time.Now()))
}

func TestNotificationsAndOutgoingKeysAccumulate(t *testing.T) {
	p := &Proposal{}
	p.AddNotification(bhash.Hash{0x01})
	p.AddNotification(bhash.Hash{0x02})
	require.Len(t, p.Notifications(), 2)

	k := collab.KeyID{AccountID: "acct"}
	p.AddOutgoingKey(k)
	require.Equal(t, []collab.KeyID{k}, p.OutgoingKeys())

	require.False(t, p.Sealed())
	p.Seal()
	require.True(t, p.Sealed())
}

func TestBuildErrorWrapping(t *testing.T) {
	inner := errors.New("boom")
	e := Fail(InsufficientFunds, inner)
	require.ErrorIs(t, e, inner)
	require.Contains(t, e.Error(), "InsufficientFunds")
	require.Contains(t, e.Error(), "boom")
}

func TestFailureCodeStringCoversTaxonomy(t *testing.T) {
	for code := UnspecifiedError; code <= Sent; code++ {
		require.NotContains(t, code.String(), "FailureCode(", code.String())
	}
}

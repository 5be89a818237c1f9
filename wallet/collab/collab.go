// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package collab declares the interfaces the builder consults for
// everything this module treats as an external collaborator: signing and
// hashing, persistent UTXO/proposal storage, and transaction broadcast.
// None of these are implemented here — key and address management,
// durable storage, and peer transport belong to the embedding
// application. This package exists so wallet/builder can be written,
// tested, and reasoned about against a narrow, stable boundary instead of
// a concrete wallet.
package collab

import (
	"context"

	"github.com/btcsuite/btclog"
	"github.com/shellwallet/btccore/bitcoin/bhash"
	"github.com/shellwallet/btccore/bitcoin/txmodel"
)

// log is this package's logger. The package declares interfaces only and
// logs nothing itself; production implementations belong to the
// embedding application and install their own logger (the
// Signer/UTXODatabase test doubles live in wallet/builder's tests).
var log btclog.Logger

func init() {
	log = btclog.Disabled
}

// UseLogger installs logger as this package's output sink.
func UseLogger(logger btclog.Logger) {
	log = logger
}

// SignReason identifies why a signature is being requested, so a crypto
// provider backed by a hardware signer or a password-gated keystore can
// present the right confirmation prompt.
type SignReason int

const (
	SignReasonUnspecified SignReason = iota
	SignReasonSign
	SignReasonSignAndBroadcast
)

// KeyID identifies a derived key within the crypto provider's keystore.
// Its fields are opaque to the builder; only the crypto provider
// interprets them.
type KeyID struct {
	AccountID string
	Subaccount uint32
	Index      uint32
	Internal   bool
}

// Signer is the wallet crypto provider: it holds private key material and
// produces signatures over preimages the builder computes, and releases
// derived keys the builder reserved but ultimately did not spend.
//
// Sign returns a DER-encoded ECDSA signature (Schnorr for P2TR preimages,
// selected by the caller via the preimage's shape, not by this
// interface); the SIGHASH type byte is appended by the caller, not by
// Sign, since the same signature byte string is shared across
// BIP-143/legacy/Schnorr preimages.
type Signer interface {
	Sign(ctx context.Context, key KeyID, preimage []byte, reason SignReason) ([]byte, error)

	// PubKey returns the public key corresponding to key, in the
	// compressed 33-byte (or, for a P2TR internal key, 32-byte x-only)
	// form the builder needs to build a scriptSig or witness.
	PubKey(ctx context.Context, key KeyID) ([]byte, error)

	// RedeemScript returns the witness or redeem script backing key, for
	// the script types that need one (P2WSH, P2MS). Returns nil, nil for
	// a plain single-key type.
	RedeemScript(ctx context.Context, key KeyID) ([]byte, error)

	// ReleaseKey returns a reserved-but-unused derived key to the pool.
	// Called when a build fails after a key was reserved for a change
	// output or an outgoing payment-code notification.
	ReleaseKey(ctx context.Context, key KeyID) error
}

// Hash160 and Sha256D are exposed as free functions rather than interface
// methods: hashing carries no key material and never needs a
// collaborator round trip. The builder calls bhash.Sha256D directly and
// collab.Hash160 for its change scripts; this package re-exports the
// pair so a caller can depend on one symbol set.
var (
	Hash160 = bhash.Hash160
	Sha256D = bhash.Sha256D
)

// UTXO is one spendable output as the database reports it: enough to
// build an Input and compute a signing preimage against it.
type UTXO struct {
	Outpoint   txmodel.Outpoint
	Value      int64
	PkScript   []byte
	Key        KeyID
	Confirmed  bool
	Confirmations int32
}

// ProposalID identifies a build-in-progress Spend. It is opaque to the
// builder; the database assigns and recognizes it.
type ProposalID string

// UTXODatabase is the persistent collaborator backing UTXO reservation
// and proposal bookkeeping. A reservation is exclusive: once ReserveUTXO
// returns a UTXO for a proposal, no other proposal may spend it until the
// reservation is released (by FinalizeProposal succeeding, or by the
// caller explicitly releasing it on build failure).
type UTXODatabase interface {
	// GetReserved returns every UTXO already reserved under id, e.g. from
	// a prior, interrupted build attempt being resumed.
	GetReserved(ctx context.Context, id ProposalID) ([]UTXO, error)

	// ReserveUTXO selects and reserves one more spendable UTXO for scope,
	// in database-defined order (typically largest-confirmed-first).
	// allowUnconfirmed controls whether unconfirmed incoming UTXOs are
	// eligible. When nothing more is available, it returns a zero-value
	// UTXO; the accompanying bool then distinguishes why: true means
	// unconfirmed funds exist but the policy excludes them
	// (InsufficientConfirmedFunds), false means there is nothing left at
	// all (InsufficientFunds).
	ReserveUTXO(ctx context.Context, id ProposalID, scope Scope, allowUnconfirmed bool) (UTXO, bool, error)

	// SpendableUTXOs enumerates every UTXO eligible for scope, without
	// reserving any of them, for the sweep funding policies that need the
	// full set up front rather than one at a time.
	SpendableUTXOs(ctx context.Context, scope Scope, allowUnconfirmed bool) ([]UTXO, error)

	// ReleaseUTXO undoes a reservation made for id, returning the UTXO to
	// the spendable pool. Called when a build fails after reservation.
	ReleaseUTXO(ctx context.Context, id ProposalID, outpoint txmodel.Outpoint) error

	// FinalizeProposal persists the finished transaction against id,
	// consuming the UTXOs reserved for it and recording txid for later
	// lookup. Called exactly once, at the end of a successful build.
	FinalizeProposal(ctx context.Context, id ProposalID, tx *txmodel.EncodedTransaction, txid bhash.Hash) error
}

// Scope narrows ReserveUTXO/SpendableUTXOs to the part of the wallet a
// funding policy is allowed to draw from.
type Scope struct {
	AccountID  string
	Subaccount uint32
	HasSub     bool
	Key        *KeyID
}

// Broadcaster submits a finished transaction to the network. A
// broadcaster backed by a live peer pool treats Broadcast as fire-and-
// forget once the transaction is accepted by at least one peer; it
// returns an error only when it can establish the transaction was
// rejected outright (not merely "no response yet").
type Broadcaster interface {
	Broadcast(ctx context.Context, tx *txmodel.EncodedTransaction) error
}

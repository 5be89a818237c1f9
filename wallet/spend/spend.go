// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package spend implements the Spend proposal: the mutable-until-finalize
// description of an outgoing payment the builder turns into a signed
// transaction, and the failure taxonomy a build resolves to.
package spend

import (
	"errors"
	"fmt"
	"time"

	"github.com/shellwallet/btccore/bitcoin/bhash"
	"github.com/shellwallet/btccore/wallet/collab"
)

// FundingPolicy selects how the builder sources inputs for a proposal.
// Exactly one variant applies to any given proposal.
type FundingPolicy int

const (
	// FundingNormal spends from recipients and change, pulling
	// additional UTXOs from the database as needed.
	FundingNormal FundingPolicy = iota

	// FundingSweepAccount drains every spendable UTXO in an account.
	FundingSweepAccount

	// FundingSweepSubaccount drains every spendable UTXO in one
	// subaccount of an account.
	FundingSweepSubaccount

	// FundingSweepKey drains every spendable UTXO controlled by a
	// single key.
	FundingSweepKey
)

func (p FundingPolicy) String() string {
	switch p {
	case FundingNormal:
		return "normal"
	case FundingSweepAccount:
		return "sweep-account"
	case FundingSweepSubaccount:
		return "sweep-subaccount"
	case FundingSweepKey:
		return "sweep-key"
	default:
		return fmt.Sprintf("FundingPolicy(%d)", int(p))
	}
}

// RecipientKind distinguishes a plain-address recipient from a
// payment-code notification recipient (a BIP-47-style contact the
// builder must also emit a notification output for).
type RecipientKind int

const (
	RecipientAddress RecipientKind = iota
	RecipientPaymentCode
)

// Recipient is one destination of a normal-spend proposal.
type Recipient struct {
	Kind RecipientKind

	// PkScript is the locking script to pay, for RecipientAddress.
	PkScript []byte

	// Amount is the value to send, in satoshis.
	Amount int64

	// PaymentCode identifies the contact to notify, for
	// RecipientPaymentCode; the builder derives the notification
	// output and outgoing key from it.
	PaymentCode string
}

// FailureCode is the taxonomy of terminal outcomes the builder resolves a
// proposal's completion promise to.
type FailureCode int

const (
	UnspecifiedError FailureCode = iota
	ChangeError
	InputCreationError
	OutputCreationError
	InsufficientFunds
	InsufficientConfirmedFunds
	SignatureError
	SerializationError
	DatabaseError
	SendFailed
	Sent
)

func (c FailureCode) String() string {
	switch c {
	case UnspecifiedError:
		return "UnspecifiedError"
	case ChangeError:
		return "ChangeError"
	case InputCreationError:
		return "InputCreationError"
	case OutputCreationError:
		return "OutputCreationError"
	case InsufficientFunds:
		return "InsufficientFunds"
	case InsufficientConfirmedFunds:
		return "InsufficientConfirmedFunds"
	case SignatureError:
		return "SignatureError"
	case SerializationError:
		return "SerializationError"
	case DatabaseError:
		return "DatabaseError"
	case SendFailed:
		return "SendFailed"
	case Sent:
		return "Sent"
	default:
		return fmt.Sprintf("FailureCode(%d)", int(c))
	}
}

// BuildError pairs a FailureCode with the context that produced it. The
// builder always resolves a proposal's promise to one of these, never a
// bare error.
type BuildError struct {
	Code FailureCode
	Err  error
}

func (e *BuildError) Error() string {
	if e.Err == nil {
		return e.Code.String()
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }

// Fail constructs a BuildError, wrapping err with code.
func Fail(code FailureCode, err error) *BuildError {
	return &BuildError{Code: code, Err: err}
}

var ErrExpired = errors.New("spend: proposal expired")

// Proposal is the mutable-during-build, sealed-on-finalize description of
// an outgoing payment.
type Proposal struct {
	ID     collab.ProposalID
	Policy FundingPolicy

	// Scope narrows which UTXOs a sweep (or a normal spend's
	// supplemental reservation) may draw from; unused fields are zero
	// for policies that do not need them.
	Scope collab.Scope

	// Recipients is empty for a sweep with no notifications; normal
	// spends always have at least one.
	Recipients []Recipient

	// AllowUnconfirmedIncoming permits the builder to fund from
	// unconfirmed incoming UTXOs when confirmed funds run short.
	AllowUnconfirmedIncoming bool

	SpenderNym string
	Password   string
	Expiration time.Time

	notifications []bhash.Hash
	outgoingKeys  []collab.KeyID
	finishedTx    bool
	sealed        bool
}

// IsExpired reports whether Expiration has passed.
func (p *Proposal) IsExpired(now time.Time) bool {
	return !p.Expiration.IsZero() && now.After(p.Expiration)
}

// AddNotification records a broadcast txid against the proposal. Called
// once, on a successful build.
func (p *Proposal) AddNotification(txid bhash.Hash) {
	p.notifications = append(p.notifications, txid)
}

// Notifications returns every txid recorded by AddNotification.
func (p *Proposal) Notifications() []bhash.Hash {
	return append([]bhash.Hash(nil), p.notifications...)
}

// AddOutgoingKey records a derived key the builder committed to this
// proposal (a change key or an outgoing payment-code notification key),
// so it can be released on a later failure.
func (p *Proposal) AddOutgoingKey(k collab.KeyID) {
	p.outgoingKeys = append(p.outgoingKeys, k)
}

// OutgoingKeys returns every key recorded by AddOutgoingKey.
func (p *Proposal) OutgoingKeys() []collab.KeyID {
	return append([]collab.KeyID(nil), p.outgoingKeys...)
}

// Seal marks the proposal finished. The builder calls it only after a
// successful build; a failed build leaves the proposal unsealed.
func (p *Proposal) Seal() { p.sealed = true }

// Sealed reports whether Seal has been called.
func (p *Proposal) Sealed() bool { return p.sealed }

// Validate checks the proposal's shape invariants that do not require
// touching the database: a normal spend needs at least one recipient or
// notification target; a sweep proposal's scope must match its variant.
func (p *Proposal) Validate() error {
	switch p.Policy {
	case FundingNormal:
		if len(p.Recipients) == 0 {
			return fmt.Errorf("spend: normal spend proposal has no recipients")
		}
	case FundingSweepAccount:
		if p.Scope.AccountID == "" {
			return fmt.Errorf("spend: sweep-account proposal has no account scope")
		}
	case FundingSweepSubaccount:
		if p.Scope.AccountID == "" || !p.Scope.HasSub {
			return fmt.Errorf("spend: sweep-subaccount proposal has no subaccount scope")
		}
	case FundingSweepKey:
		if p.Scope.Key == nil {
			return fmt.Errorf("spend: sweep-key proposal has no key scope")
		}
	default:
		return fmt.Errorf("spend: unknown funding policy %d", p.Policy)
	}
	return nil
}

// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package builder turns a Spend proposal into a signed, broadcast
// transaction: it reserves inputs, computes outputs and change, applies
// BIP-69 ordering, signs per script type, and persists the result.
package builder

import (
	"context"
	"errors"
	"fmt"

	"github.com/btcsuite/btclog"
	"github.com/shellwallet/btccore/bitcoin/bhash"
	"github.com/shellwallet/btccore/bitcoin/chainparams"
	"github.com/shellwallet/btccore/bitcoin/compactsize"
	"github.com/shellwallet/btccore/bitcoin/script"
	"github.com/shellwallet/btccore/bitcoin/txmodel"
	"github.com/shellwallet/btccore/wallet/collab"
	"github.com/shellwallet/btccore/wallet/spend"
)

var log btclog.Logger

func init() {
	log = btclog.Disabled
}

// UseLogger installs logger as this package's output sink.
func UseLogger(logger btclog.Logger) {
	log = logger
}

// p2pkhScriptSigLen, p2wpkhWitnessLen, etc. are conservative per-input
// byte estimates used for fee accounting before a signature exists: a
// 73-byte signature (a worst-case 72-byte DER signature plus the
// hash-type byte), plus a 33-byte compressed pubkey, plus the push
// opcodes each needs.
const (
	outpointBytes     = 36 // hash + index
	sequenceBytes     = 4
	p2pkhScriptSigLen = 1 + 73 + 1 + 33 // push-len sig push-len pubkey
	p2pkScriptSigLen  = 1 + 73
	p2wpkhWitnessLen  = 1 + 1 + 73 + 1 + 33 // item-count + two length-prefixed items
	p2trWitnessLen    = 1 + 1 + 65          // item-count + schnorr sig
)

// Build drives the full proposal → signed transaction pipeline. On
// success it returns the finished transaction's txid, after the proposal
// has been persisted via db.FinalizeProposal and submitted to bc. On
// failure it returns a *spend.BuildError identifying the taxonomy entry,
// having released any keys reserved for this attempt.
func Build(ctx context.Context, prop *spend.Proposal, params *chainparams.Params, feeRatePerKVB int64, db collab.UTXODatabase, signer collab.Signer, bc collab.Broadcaster) (bhash.Hash, *spend.BuildError) {
	if err := prop.Validate(); err != nil {
		return bhash.Hash{}, spend.Fail(spend.UnspecifiedError, err)
	}

	s := &session{
		ctx:     ctx,
		prop:    prop,
		params:  params,
		feeRate: feeRatePerKVB,
		db:      db,
		signer:  signer,
		bc:      bc,
	}

	reserved, err := db.GetReserved(ctx, prop.ID)
	if err != nil {
		return bhash.Hash{}, spend.Fail(spend.DatabaseError, err)
	}
	for _, u := range reserved {
		s.addInput(u)
	}

	var buildErr *spend.BuildError
	switch prop.Policy {
	case spend.FundingNormal:
		buildErr = s.buildNormal()
	default:
		buildErr = s.buildSweep()
	}
	if buildErr != nil {
		s.releaseKeys()
		return bhash.Hash{}, buildErr
	}

	txid, buildErr := s.finalize()
	if buildErr != nil {
		s.releaseKeys()
		return bhash.Hash{}, buildErr
	}
	return txid, nil
}

// session holds one Build call's working state: the growing input and
// output sets, running byte-size totals for fee estimation, and the
// derived keys committed so far.
type session struct {
	ctx     context.Context
	prop    *spend.Proposal
	params  *chainparams.Params
	feeRate int64
	db      collab.UTXODatabase
	signer  collab.Signer
	bc      collab.Broadcaster

	inputs     []txmodel.Input
	inputUTXOs []collab.UTXO
	outputs    []txmodel.Output
	change     []txmodel.Output
	changeKeys []collab.KeyID

	inputValue      int64
	outputValue     int64
	inputTotal      int
	outputTotal     int
	witnessTotal    int
	segwit          bool
	notificationAmt int64
}

func (s *session) addInput(u collab.UTXO) {
	s.inputs = append(s.inputs, txmodel.Input{
		PreviousOutpoint: u.Outpoint,
		Sequence:         0xfffffffd, // RBF-opt-in default sequence
	})
	s.inputUTXOs = append(s.inputUTXOs, u)
	s.inputValue += u.Value
	s.inputTotal += outpointBytes + sequenceBytes + 1 // +1 placeholder scriptSig len byte

	pattern := script.Parse(u.PkScript).Classify()
	switch pattern {
	case script.PatternP2WPKH:
		s.segwit = true
		s.witnessTotal += p2wpkhWitnessLen
	case script.PatternP2WSH:
		s.segwit = true
		s.witnessTotal += p2wpkhWitnessLen + 32 // witness script push, roughly
	case script.PatternP2TR:
		s.segwit = true
		s.witnessTotal += p2trWitnessLen
	case script.PatternP2PK:
		s.inputTotal += p2pkScriptSigLen
	default:
		s.inputTotal += p2pkhScriptSigLen
	}
}

func (s *session) dust() int64 {
	return s.params.DustRelayFeeNumerator * s.feeRate / 1000
}

func (s *session) requiredFee() int64 {
	scale := int64(s.params.SegwitWeightScale)
	if scale <= 0 {
		scale = 1
	}
	outputCount := len(s.outputs) + len(s.change)
	base := int64(10 + compactsize.Size(uint64(len(s.inputs))) + s.inputTotal +
		compactsize.Size(uint64(outputCount)) + s.outputTotal)
	total := base
	if s.segwit {
		total = base + 2 + int64(s.witnessTotal)
	}
	weight := base*(scale-1) + total
	fee := ceilDiv(weight, scale) * s.feeRate / 1000
	return fee
}

func ceilDiv(a, b int64) int64 {
	if b == 0 {
		return a
	}
	return (a + b - 1) / b
}

func (s *session) excessValue() int64 {
	return s.inputValue - (s.outputValue + s.requiredFee())
}

func (s *session) isFunded() bool {
	return s.excessValue() >= 0
}

// createOutputs builds one output per address recipient, and records
// every payment-code recipient for createNotifications.
func (s *session) createOutputs() error {
	for _, r := range s.prop.Recipients {
		if r.Kind != spend.RecipientAddress {
			continue
		}
		s.outputs = append(s.outputs, txmodel.Output{Value: r.Amount, PkScript: r.PkScript})
		s.outputValue += r.Amount
		s.outputTotal += 8 + compactsize.Size(uint64(len(r.PkScript))) + len(r.PkScript)
	}
	return nil
}

// createNotifications allocates one change-style output per payment-code
// recipient, each funded with notificationValue (twice dust for a normal
// spend, so the recipient's own change stays above dust; zero for a
// sweep, which assigns the real value later).
func (s *session) createNotifications(notificationValue int64) error {
	for _, r := range s.prop.Recipients {
		if r.Kind != spend.RecipientPaymentCode {
			continue
		}
		key, pkScript, err := s.nextChangeOutput(true)
		if err != nil {
			return err
		}
		out := txmodel.Output{Value: notificationValue, PkScript: pkScript}
		s.change = append(s.change, out)
		s.changeKeys = append(s.changeKeys, key)
		s.prop.AddOutgoingKey(key)
		s.outputValue += notificationValue
		s.outputTotal += 8 + compactsize.Size(uint64(len(pkScript))) + len(pkScript)
		s.notificationAmt += notificationValue
	}
	return nil
}

// nextChangeOutput reserves a fresh internal key from the signer and
// builds its P2WPKH (or P2PKH, if the chain has no SegWit) locking
// script.
func (s *session) nextChangeOutput(internal bool) (collab.KeyID, []byte, error) {
	key := collab.KeyID{
		AccountID:  s.prop.Scope.AccountID,
		Subaccount: s.prop.Scope.Subaccount,
		Internal:   internal,
	}
	pub, err := s.signer.PubKey(s.ctx, key)
	if err != nil {
		return collab.KeyID{}, nil, fmt.Errorf("builder: change pubkey: %w", err)
	}
	hash160 := collab.Hash160(pub)
	if s.params.SegwitWeightScale > 1 {
		return key, append([]byte{0x00, 0x14}, hash160...), nil
	}
	return key, append([]byte{0x76, 0xa9, 0x14}, append(hash160, 0x88, 0xac)...), nil
}

// addChange allocates one change output, deferred into s.change until
// finalizeOutputs decides whether to keep or drop it.
func (s *session) addChange() error {
	key, pkScript, err := s.nextChangeOutput(true)
	if err != nil {
		return err
	}
	s.change = append(s.change, txmodel.Output{Value: 0, PkScript: pkScript})
	s.changeKeys = append(s.changeKeys, key)
	s.prop.AddOutgoingKey(key)
	s.outputTotal += 8 + compactsize.Size(uint64(len(pkScript))) + len(pkScript)
	return nil
}

// dropChange releases every pending (not-yet-merged) change output's
// derived key and clears it, used when redistributing sub-dust excess.
func (s *session) dropChange() {
	for _, k := range s.changeKeys {
		if err := s.signer.ReleaseKey(s.ctx, k); err != nil {
			log.Warnf("builder: release change key: %v", err)
		}
	}
	for i := range s.change {
		s.outputTotal -= 8 + compactsize.Size(uint64(len(s.change[i].PkScript))) + len(s.change[i].PkScript)
	}
	s.change = nil
	s.changeKeys = nil
}

// finalizeOutputs distributes the excess value (input − output − fee)
// across the pending change outputs, or drops them and folds the excess
// back in as dust if there isn't enough to go around.
func (s *session) finalizeOutputs() error {
	if len(s.change) == 0 {
		return nil
	}
	excess := s.excessValue()
	if excess < s.dust() {
		s.dropChange()
		return nil
	}

	count := int64(len(s.change))
	share := excess / count
	remainder := excess % count
	for i := range s.change {
		s.change[i].Value = share
		if int64(i) < remainder {
			s.change[i].Value++
		}
		s.outputValue += s.change[i].Value
	}
	s.outputs = append(s.outputs, s.change...)
	s.change = nil
	return nil
}

func (s *session) buildNormal() *spend.BuildError {
	if err := s.createOutputs(); err != nil {
		return spend.Fail(spend.OutputCreationError, err)
	}
	if err := s.createNotifications(2 * s.dust()); err != nil {
		return spend.Fail(spend.OutputCreationError, err)
	}
	if err := s.addChange(); err != nil {
		return spend.Fail(spend.ChangeError, err)
	}

	for !s.isFunded() {
		u, haveMore, err := s.db.ReserveUTXO(s.ctx, s.prop.ID, s.prop.Scope, s.prop.AllowUnconfirmedIncoming)
		if err != nil {
			return spend.Fail(spend.DatabaseError, err)
		}
		if u.Outpoint == (txmodel.Outpoint{}) {
			if haveMore {
				return spend.Fail(spend.InsufficientConfirmedFunds, errors.New("builder: more unconfirmed funds available but policy disallows them"))
			}
			return spend.Fail(spend.InsufficientFunds, errors.New("builder: no further spendable utxos"))
		}
		s.addInput(u)
	}

	if err := s.finalizeOutputs(); err != nil {
		return spend.Fail(spend.ChangeError, err)
	}
	return nil
}

func (s *session) buildSweep() *spend.BuildError {
	scope := s.prop.Scope
	utxos, err := s.db.SpendableUTXOs(s.ctx, scope, s.prop.AllowUnconfirmedIncoming)
	if err != nil {
		return spend.Fail(spend.DatabaseError, err)
	}
	if len(utxos) == 0 {
		return spend.Fail(spend.InsufficientFunds, errors.New("builder: nothing to sweep"))
	}
	for _, u := range utxos {
		s.addInput(u)
	}

	hasNotification := false
	for _, r := range s.prop.Recipients {
		if r.Kind == spend.RecipientPaymentCode {
			hasNotification = true
			break
		}
	}

	if hasNotification {
		if err := s.createNotifications(0); err != nil {
			return spend.Fail(spend.OutputCreationError, err)
		}
		if !s.isFunded() {
			return spend.Fail(spend.InsufficientFunds, errors.New("builder: insufficient funds to cover sweep notifications"))
		}
		if err := s.finalizeOutputs(); err != nil {
			return spend.Fail(spend.ChangeError, err)
		}
		return nil
	}

	// No notifications: the sweep produces exactly one destination
	// output worth input_value − fee. An explicit address recipient
	// supplies the destination script (its stated amount is ignored —
	// a sweep always pays out everything); otherwise a fresh change
	// address is generated.
	var pkScript []byte
	for _, r := range s.prop.Recipients {
		if r.Kind == spend.RecipientAddress {
			pkScript = r.PkScript
			break
		}
	}
	if pkScript == nil {
		_, generated, err := s.nextChangeOutput(true)
		if err != nil {
			return spend.Fail(spend.ChangeError, err)
		}
		pkScript = generated
	}
	s.outputs = []txmodel.Output{{Value: 0, PkScript: pkScript}}
	s.outputTotal += 8 + compactsize.Size(uint64(len(pkScript))) + len(pkScript)

	amount := s.excessValue()
	if amount < s.dust() {
		return spend.Fail(spend.InsufficientFunds, errors.New("builder: sweep output below dust"))
	}
	s.outputs[0].Value = amount
	s.outputValue = amount
	return nil
}

// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"github.com/shellwallet/btccore/bitcoin/bhash"
	"github.com/shellwallet/btccore/bitcoin/blockparser"
	"github.com/shellwallet/btccore/bitcoin/compactsize"
	"github.com/shellwallet/btccore/bitcoin/txmodel"
)

func init() {
	register(CmdTx, func(p []byte, pver uint32) (Message, error) {
		m := &MsgTx{}
		return m, m.Decode(p, pver)
	})
	register(CmdBlock, func(p []byte, pver uint32) (Message, error) {
		m := &MsgBlock{}
		return m, m.Decode(p, pver)
	})
}

// MsgTx carries a single encoded transaction.
type MsgTx struct {
	Transaction *txmodel.EncodedTransaction
}

func (m *MsgTx) Command() string { return CmdTx }

func (m *MsgTx) Encode() ([]byte, error) {
	return m.Transaction.Serialize(), nil
}

func (m *MsgTx) Decode(payload []byte, _ uint32) error {
	tx, _, err := txmodel.Parse(payload)
	if err != nil {
		return err
	}
	m.Transaction = tx
	return nil
}

// MsgBlock carries a full block. Decode runs the complete header/merkle/
// witness-commitment pipeline (construct=true) rather than a bare
// byte-copy, so a caller never receives a block message whose contents
// have not already been checked for internal consistency.
type MsgBlock struct {
	Result *blockparser.Result
}

func (m *MsgBlock) Command() string { return CmdBlock }

func (m *MsgBlock) Encode() ([]byte, error) {
	w := m.Result.Header.Serialize()
	buf := make([]byte, 0, len(w)+len(m.Result.Transactions)*256)
	buf = append(buf, w...)
	count := 0
	for _, t := range m.Result.Transactions {
		if t.Tx != nil {
			count++
		}
	}
	buf = compactsize.AppendTo(buf, uint64(count))
	for _, t := range m.Result.Transactions {
		if t.Tx == nil {
			continue
		}
		buf = append(buf, t.Tx.Serialize()...)
	}
	return buf, nil
}

func (m *MsgBlock) Decode(payload []byte, _ uint32) error {
	result, err := blockparser.Parse(payload, bhash.Hash{}, true)
	if err != nil {
		return err
	}
	m.Result = result
	return nil
}

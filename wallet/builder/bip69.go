// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package builder

import (
	"bytes"
	"sort"

	"github.com/shellwallet/btccore/bitcoin/txmodel"
)

// bip69SortOutputs orders outputs by (value, scriptPubKey), both
// ascending. Input ordering is done in (*session).bip69, which must keep
// the parallel inputUTXOs slice in lockstep and so sorts a permutation
// index rather than the input slice directly.
func bip69SortOutputs(outputs []txmodel.Output) {
	sort.SliceStable(outputs, func(i, j int) bool {
		if outputs[i].Value != outputs[j].Value {
			return outputs[i].Value < outputs[j].Value
		}
		return bytes.Compare(outputs[i].PkScript, outputs[j].PkScript) < 0
	})
}

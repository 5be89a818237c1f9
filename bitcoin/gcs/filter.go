// Copyright (c) 2016-2017 The btcsuite developers
// Copyright (c) 2018 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package gcs implements a Golomb-coded set (BIP-158) compact filter:
// construction from a data-element set, a compressed bitstream codec, and
// membership matching against the compressed form without fully
// decompressing on every query.
package gcs

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/decred/dcrd/lru"
	"github.com/shellwallet/btccore/bitcoin/bhash"
	"github.com/shellwallet/btccore/bitcoin/compactsize"
)

// KeySize is the SipHash key length used to hash elements into a filter's
// range.
const KeySize = bhash.SipHashKeySize

// BIP-158 basic filter defaults: P is the Golomb-Rice remainder bit width,
// M is the false-positive rate divisor (1/M).
const (
	DefaultP = 19
	DefaultM = 784931
)

var (
	ErrNoData        = errors.New("gcs: no data elements provided")
	ErrNTooBig       = errors.New("gcs: element count does not fit in uint32")
	ErrPTooBig       = errors.New("gcs: P is too large")
	ErrMisserialized = errors.New("gcs: malformed serialized filter")
)

// decompressCache holds the lazily-computed, sorted hashed element set
// backing Test/MatchAny. It is keyed package-wide by filter hash so repeated
// queries against the same filter do not re-walk the bitstream.
var decompressCache = lru.NewCache[bhash.Hash, []uint64](256)

// Filter is an immutable Golomb-coded set. The SipHash key is supplied by
// the caller at construction and query time rather than serialized with
// the filter (per BIP-158, the key is derived from the block hash out of
// band).
type Filter struct {
	n         uint32
	p         uint8
	m         uint64
	modulusNP uint64
	data      []byte // compressed bitstream, without any length prefix

	decompressOnce sync.Once
	decompressed   []uint64
}

// N returns the number of elements the filter was built from.
func (f *Filter) N() uint32 { return f.n }

// P returns the filter's Golomb-Rice remainder bit width.
func (f *Filter) P() uint8 { return f.p }

// M returns the filter's false-positive rate divisor.
func (f *Filter) M() uint64 { return f.m }

// BuildFilter constructs a new filter over data, keyed by key, with
// Golomb-Rice parameter p and false-positive divisor m. Elements are
// deduplicated by their hashed range value: a value equal to the one
// before it in sorted order emits no codeword. N still counts every
// element of data.
func BuildFilter(key [KeySize]byte, p uint8, m uint64, data [][]byte) (*Filter, error) {
	if len(data) == 0 {
		return nil, ErrNoData
	}
	if len(data) > math.MaxInt32 {
		return nil, ErrNTooBig
	}
	if p > 32 {
		return nil, ErrPTooBig
	}

	n := uint32(len(data))
	modulusNP := uint64(n) * m

	values := make(uint64Slice, 0, len(data))
	for _, d := range data {
		v := hashToRange(key, d, modulusNP)
		values = append(values, v)
	}
	sort.Sort(values)

	var w bitWriter
	var lastValue, remainder uint64
	modP := uint64(1) << p
	modPMask := modP - 1
	for i, v := range values {
		if i > 0 && v == lastValue {
			continue
		}
		delta := v - lastValue
		remainder = delta & modPMask
		quotient := (delta - remainder) >> p
		for ; quotient > 0; quotient-- {
			w.writeOne()
		}
		w.writeZero()
		w.writeNBits(remainder, uint(p))
		lastValue = v
	}

	return &Filter{
		n:         n,
		p:         p,
		m:         m,
		modulusNP: modulusNP,
		data:      w.bytes,
	}, nil
}

// hashToRange maps data into [0, modulusNP) via siphash24(key, data) *
// modulusNP >> 64, the multiply-shift range reduction BIP-158 specifies
// in place of a modulo.
func hashToRange(key [KeySize]byte, data []byte, modulusNP uint64) uint64 {
	h := bhash.SipHash24(key, data)
	hi, _ := bits64Mul(h, modulusNP)
	return hi
}

// bits64Mul returns the high and low 64 bits of the 128-bit product a*b.
func bits64Mul(a, b uint64) (hi, lo uint64) {
	const mask32 = 1<<32 - 1
	aLo, aHi := a&mask32, a>>32
	bLo, bHi := b&mask32, b>>32

	t := aLo * bLo
	w0 := t & mask32
	k := t >> 32

	t = aHi*bLo + k
	w1 := t & mask32
	w2 := t >> 32

	t = aLo*bHi + w1
	k = t >> 32

	hi = aHi*bHi + w2 + k
	lo = (t << 32) + w0
	return hi, lo
}

type uint64Slice []uint64

func (s uint64Slice) Len() int           { return len(s) }
func (s uint64Slice) Less(i, j int) bool { return s[i] < s[j] }
func (s uint64Slice) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }

// Data returns the raw compressed bitstream, without any N or P prefix.
func (f *Filter) Data() []byte {
	return f.data
}

// Serialize returns the CompactSize-prefixed compressed filter, the form
// carried in a cfilter wire message (the prefix is N; P and M travel out
// of band, per BIP-158).
func (f *Filter) Serialize() []byte {
	w := compactsize.NewWriteBuffer(len(f.data) + 9)
	w.PutCompactSize(uint64(f.n))
	w.PutBytes(f.data)
	return w.Bytes()
}

// Deserialize parses a CompactSize-prefixed compressed filter as produced
// by Serialize, given the out-of-band p and m parameters.
func Deserialize(p uint8, m uint64, raw []byte) (*Filter, error) {
	v := compactsize.NewReadView(raw)
	n, err := v.CompactSize()
	if err != nil {
		return nil, fmt.Errorf("%w: element count: %v", ErrMisserialized, err)
	}
	if n > math.MaxUint32 {
		return nil, ErrNTooBig
	}
	return &Filter{
		n:         uint32(n),
		p:         p,
		m:         m,
		modulusNP: n * m,
		data:      v.Rest(),
	}, nil
}

// decompress lazily walks the bitstream into a sorted slice of range
// values, memoizing the result both on the Filter (for same-object reuse
// within a process) and in a package-wide LRU keyed by the filter's own
// hash (for reuse across independently-deserialized copies of the same
// filter, e.g. read back from storage).
func (f *Filter) decompress() []uint64 {
	f.decompressOnce.Do(func() {
		filterHash := f.Hash()
		if cached, ok := decompressCache.Get(filterHash); ok {
			f.decompressed = cached
			return
		}
		r := newBitReader(f.data)
		values := make([]uint64, 0, f.n)
		var last uint64
		for {
			quotient, err := r.readUnary()
			if err != nil {
				break
			}
			remainder, err := r.readNBits(uint(f.p))
			if err != nil {
				break
			}
			v := last + quotient<<f.p + remainder
			values = append(values, v)
			last = v
		}
		f.decompressed = values
		decompressCache.Add(filterHash, values)
	})
	return f.decompressed
}

// Test reports whether target is likely a member of the filter's element
// set under key.
func (f *Filter) Test(key [KeySize]byte, target []byte) bool {
	term := hashToRange(key, target, f.modulusNP)
	values := f.decompress()
	i := sort.Search(len(values), func(i int) bool { return values[i] >= term })
	return i < len(values) && values[i] == term
}

// MatchAny reports whether any of targets is likely a member of the
// filter's element set under key.
func (f *Filter) MatchAny(key [KeySize]byte, targets [][]byte) bool {
	if len(targets) == 0 {
		return false
	}
	values := f.decompress()
	query := make(uint64Slice, 0, len(targets))
	for _, t := range targets {
		query = append(query, hashToRange(key, t, f.modulusNP))
	}
	sort.Sort(query)

	i, j := 0, 0
	for i < len(values) && j < len(query) {
		switch {
		case values[i] == query[j]:
			return true
		case values[i] < query[j]:
			i++
		default:
			j++
		}
	}
	return false
}

// Hash returns sha256d of the filter's serialized form, the element of
// the filter header chain.
func (f *Filter) Hash() bhash.Hash {
	return bhash.Sha256D(f.Serialize())
}

// MakeHeader computes the next filter header in the chain:
// sha256d(prev_header || filter_hash).
func MakeHeader(f *Filter, prevHeader bhash.Hash) bhash.Hash {
	buf := make([]byte, 0, bhash.Size*2)
	filterHash := f.Hash()
	buf = append(buf, prevHeader.Bytes()...)
	buf = append(buf, filterHash.Bytes()...)
	return bhash.Sha256D(buf)
}

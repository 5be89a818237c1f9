// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chainparams collapses the magic-bytes/default-port/service-flag
// differences between Bitcoin-family chains into one flat table, per chain,
// rather than a class hierarchy. A single parser or wire codec driven by a
// Params value accommodates every chain registered here.
package chainparams

import "fmt"

// Net identifies which chain/network a wire message belongs to, carried as
// the 4-byte magic at the front of every P2P frame.
type Net uint32

// ServiceFlag identifies a service a peer advertises in its version
// message. Bit meaning is chain-specific; Params.ServiceBit translates
// between this abstract enumeration and the chain's wire bitmap.
type ServiceFlag uint64

// Abstract service flags understood across every registered chain. Not
// every chain's wire bitmap uses the same bit position for the same
// service; Params.ServiceBit resolves that.
const (
	ServiceNetwork ServiceFlag = 1 << iota
	ServiceGetUTXO
	ServiceBloom
	ServiceWitness
	ServiceCompactFilters
	ServiceNetworkLimited
)

// Params is the flat, per-chain constant table that replaces the
// teacher's deep Header/Block/Transaction class hierarchy with a single
// dispatch record (see the design notes this repository follows for
// collapsing chain-specific behavior).
type Params struct {
	// Name is the human-readable chain/network identifier, e.g. "mainnet".
	Name string

	// Net is the magic value at the front of every wire frame.
	Net Net

	// DefaultPort is the chain's conventional P2P listen port.
	DefaultPort string

	// ProtocolVersion is the version number this implementation reports
	// in its own version message for this chain.
	ProtocolVersion uint32

	// SegwitWeightScale is the divisor used in weight/vsize accounting
	// (4 for Bitcoin-derived chains that implement BIP-141; chains
	// without segwit set this to 1, folding weight and size together).
	SegwitWeightScale int

	// DustRelayFeeNumerator is the byte count used by the builder's dust
	// threshold heuristic (148 for the standard P2PKH input heuristic).
	DustRelayFeeNumerator int64

	// UsesForkID selects the BCH-style signature hash: BIP-143 preimage
	// unconditionally (not just for SegWit inputs), with SIGHASH_FORKID
	// set and ForkID packed into the upper 24 bits of the hash type word.
	UsesForkID bool

	// ForkID is the chain's signature-hash fork identifier, meaningful
	// only when UsesForkID is true.
	ForkID uint32

	// serviceBits maps an abstract ServiceFlag to this chain's wire bit
	// position. Chains that do not define a given service omit it from
	// the map; ServiceBit returns ok=false for it.
	serviceBits map[ServiceFlag]uint

	// genesisHash is the expected hash of this chain's genesis block, in
	// the conventional reversed display form.
	genesisHash string
}

// ServiceBit translates an abstract ServiceFlag into this chain's wire bit
// position.
func (p *Params) ServiceBit(f ServiceFlag) (uint, bool) {
	bit, ok := p.serviceBits[f]
	return bit, ok
}

// WireFlag translates this chain's wire bitmap into the set of abstract
// ServiceFlag values it represents.
func (p *Params) WireFlag(wire uint64) ServiceFlag {
	var out ServiceFlag
	for flag, bit := range p.serviceBits {
		if wire&(uint64(1)<<bit) != 0 {
			out |= flag
		}
	}
	return out
}

// GenesisHash returns the expected genesis block hash string for this
// chain, in the conventional reversed display form.
func (p *Params) GenesisHash() string {
	return p.genesisHash
}

var registry = make(map[string]*Params)

// Register adds p to the set of known chains, keyed by p.Name. It panics
// on a duplicate name, matching the teacher's init-time registration
// pattern (chain tables are read-only once the process starts).
func Register(p *Params) {
	if _, exists := registry[p.Name]; exists {
		panic(fmt.Sprintf("chainparams: duplicate registration for %q", p.Name))
	}
	registry[p.Name] = p
}

// Lookup returns the registered Params for name, if any.
func Lookup(name string) (*Params, bool) {
	p, ok := registry[name]
	return p, ok
}

// MainNet is the Bitcoin mainnet parameter table.
var MainNet = &Params{
	Name:                  "mainnet",
	Net:                   0xd9b4bef9,
	DefaultPort:           "8333",
	ProtocolVersion:       70016,
	SegwitWeightScale:     4,
	DustRelayFeeNumerator: 148,
	serviceBits: map[ServiceFlag]uint{
		ServiceNetwork:        0,
		ServiceGetUTXO:        1,
		ServiceBloom:          2,
		ServiceWitness:        3,
		ServiceCompactFilters: 6,
		ServiceNetworkLimited: 10,
	},
	genesisHash: "000000000019d6689c085ae165831e934ff763ae46a2a6c172b3f1b60a8ce26f",
}

// TestNet3 is the Bitcoin test network (version 3) parameter table.
var TestNet3 = &Params{
	Name:                  "testnet3",
	Net:                   0x0709110b,
	DefaultPort:           "18333",
	ProtocolVersion:       70016,
	SegwitWeightScale:     4,
	DustRelayFeeNumerator: 148,
	serviceBits: map[ServiceFlag]uint{
		ServiceNetwork:        0,
		ServiceGetUTXO:        1,
		ServiceBloom:          2,
		ServiceWitness:        3,
		ServiceCompactFilters: 6,
		ServiceNetworkLimited: 10,
	},
	genesisHash: "000000000933ea01ad0ee984209779baaec3ced90fa3f408719526f8d77f4943",
}

// RegTest is the Bitcoin regression-test parameter table, used for
// deterministic local networks in tests.
var RegTest = &Params{
	Name:                  "regtest",
	Net:                   0xdab5bffa,
	DefaultPort:           "18444",
	ProtocolVersion:       70016,
	SegwitWeightScale:     4,
	DustRelayFeeNumerator: 148,
	serviceBits: map[ServiceFlag]uint{
		ServiceNetwork:        0,
		ServiceGetUTXO:        1,
		ServiceBloom:          2,
		ServiceWitness:        3,
		ServiceCompactFilters: 6,
		ServiceNetworkLimited: 10,
	},
	genesisHash: "0f9188f13cb7b2c71f2a335e3a4fc328bf5beb436012afca590b1a11466e2206",
}

// BCHMainNet is the Bitcoin Cash mainnet parameter table: no SegWit, so
// the weight scale collapses to 1 and ServiceWitness has no wire bit.
var BCHMainNet = &Params{
	Name:                  "bch-mainnet",
	Net:                   0xe8f3e1e3,
	DefaultPort:           "8333",
	ProtocolVersion:       70016,
	SegwitWeightScale:     1,
	DustRelayFeeNumerator: 148,
	UsesForkID:            true,
	ForkID:                0,
	serviceBits: map[ServiceFlag]uint{
		ServiceNetwork: 0,
		ServiceGetUTXO: 1,
		ServiceBloom:   2,
	},
	genesisHash: "000000000019d6689c085ae165831e934ff763ae46a2a6c172b3f1b60a8ce26f",
}

func init() {
	Register(MainNet)
	Register(TestNet3)
	Register(RegTest)
	Register(BCHMainNet)
}

// Package registry maps chain identifiers to the parameters needed to
// configure a wallet's active chain. The table is immutable after
// construction; adding a chain is a data edit, not a logic change.
package registry

import (
	"github.com/Ariya-Dice/Liqopay/types"
)

// Registry is a static, read-only chain table.
type Registry struct {
	byChainID map[uint64]types.ChainProfile
	byNetwork map[types.Network]uint64
}

// New builds a registry from the given profiles. Later entries win on
// duplicate chain IDs. The first profile seen for a network becomes that
// network's canonical chain.
func New(profiles []types.ChainProfile) *Registry {
	r := &Registry{
		byChainID: make(map[uint64]types.ChainProfile, len(profiles)),
		byNetwork: make(map[types.Network]uint64, len(profiles)),
	}
	for _, p := range profiles {
		r.byChainID[p.ChainID] = p
		if _, ok := r.byNetwork[p.Network]; !ok {
			r.byNetwork[p.Network] = p.ChainID
		}
	}
	return r
}

// NewWithDefaults builds a registry with the built-in chain set.
func NewWithDefaults() *Registry {
	return New(DefaultChains())
}

// Lookup returns the profile for a chain identifier.
func (r *Registry) Lookup(chainID uint64) (types.ChainProfile, bool) {
	p, ok := r.byChainID[chainID]
	return p, ok
}

// CanonicalChainID returns the default chain identifier for a network, for
// payment requests that carry a network but no explicit chain ID.
func (r *Registry) CanonicalChainID(network types.Network) (uint64, bool) {
	id, ok := r.byNetwork[network]
	return id, ok
}

// Resolve finds the target chain profile for a payment request: the explicit
// chain ID when present, otherwise the network's canonical chain.
func (r *Registry) Resolve(info *types.PaymentInfo) (types.ChainProfile, bool) {
	chainID := info.ChainID
	if chainID == 0 {
		id, ok := r.byNetwork[info.Network]
		if !ok {
			return types.ChainProfile{}, false
		}
		chainID = id
	}
	return r.Lookup(chainID)
}

// DefaultChains returns the built-in chain set.
func DefaultChains() []types.ChainProfile {
	return []types.ChainProfile{
		{
			ChainID:         1,
			Network:         types.NetworkEthereum,
			DisplayName:     "Ethereum Mainnet",
			RPCURLs:         []string{"https://eth.llamarpc.com", "https://rpc.ankr.com/eth"},
			NativeSymbol:    "ETH",
			NativeDecimals:  18,
			ExplorerBaseURL: "https://etherscan.io",
		},
		{
			ChainID:         56,
			Network:         types.NetworkBSC,
			DisplayName:     "BNB Smart Chain",
			RPCURLs:         []string{"https://bsc-dataseed.bnbchain.org", "https://bsc-dataseed1.defibit.io"},
			NativeSymbol:    "BNB",
			NativeDecimals:  18,
			ExplorerBaseURL: "https://bscscan.com",
		},
		{
			ChainID:         999,
			Network:         types.NetworkHyperliquid,
			DisplayName:     "Hyperliquid L1",
			RPCURLs:         []string{"https://api.hyperliquid.xyz/evm"},
			NativeSymbol:    "HYPE",
			NativeDecimals:  18,
			ExplorerBaseURL: "https://explorer.hyperliquid.xyz",
		},
		{
			ChainID:         8453,
			Network:         types.NetworkBase,
			DisplayName:     "Base Mainnet",
			RPCURLs:         []string{"https://mainnet.base.org"},
			NativeSymbol:    "ETH",
			NativeDecimals:  18,
			ExplorerBaseURL: "https://basescan.org",
		},
	}
}

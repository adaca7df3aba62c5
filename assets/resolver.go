// Package assets resolves a (network, token symbol) pair into either the
// chain's native coin or a fungible token contract with its decimal
// precision.
package assets

import (
	"strings"

	"github.com/Ariya-Dice/Liqopay/types"
)

// TokenConfig describes one token contract on one network.
type TokenConfig struct {
	Address  string `json:"address"`
	Decimals int    `json:"decimals"`
}

// NetworkAssets is the per-network asset table: the native coin plus the
// supported token contracts keyed by uppercase symbol.
type NetworkAssets struct {
	NativeSymbol   string                 `json:"nativeSymbol"`
	NativeDecimals int                    `json:"nativeDecimals"`
	Tokens         map[string]TokenConfig `json:"tokens"`
}

// Resolver performs deterministic asset resolution over immutable tables.
type Resolver struct {
	networks map[types.Network]NetworkAssets
}

// New builds a resolver from the given per-network tables.
func New(networks map[types.Network]NetworkAssets) *Resolver {
	return &Resolver{networks: networks}
}

// NewWithDefaults builds a resolver with the built-in asset tables.
func NewWithDefaults() *Resolver {
	return New(DefaultAssets())
}

// Resolve normalizes the symbol to uppercase, checks the network's native
// coin first, then the token table. The native check must come first:
// native status never depends on token-table presence.
func (r *Resolver) Resolve(network types.Network, symbol string) (types.AssetDescriptor, *types.PaymentError) {
	sym := strings.ToUpper(strings.TrimSpace(symbol))

	na, ok := r.networks[network]
	if !ok {
		return types.AssetDescriptor{}, types.Failf(types.FailUnsupportedNetwork,
			"network %s is not supported", network)
	}

	if sym == na.NativeSymbol {
		return types.AssetDescriptor{
			Kind:     types.AssetNative,
			Symbol:   sym,
			Decimals: na.NativeDecimals,
		}, nil
	}

	tok, ok := na.Tokens[sym]
	if !ok {
		return types.AssetDescriptor{}, types.Failf(types.FailUnsupportedAsset,
			"%s is not supported on the %s network", sym, network)
	}

	return types.AssetDescriptor{
		Kind:            types.AssetToken,
		Symbol:          sym,
		ContractAddress: tok.Address,
		Decimals:        tok.Decimals,
	}, nil
}

// DefaultAssets returns the built-in asset tables.
func DefaultAssets() map[types.Network]NetworkAssets {
	return map[types.Network]NetworkAssets{
		types.NetworkEthereum: {
			NativeSymbol:   "ETH",
			NativeDecimals: 18,
			Tokens: map[string]TokenConfig{
				"USDT": {Address: "0xdAC17F958D2ee523a2206206994597C13D831ec7", Decimals: 6},
				"USDC": {Address: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", Decimals: 6},
				"DAI":  {Address: "0x6B175474E89094C44Da98b954EedeAC495271d0F", Decimals: 18},
				"LINK": {Address: "0x514910771AF9Ca656af840dff83E8264EcF986CA", Decimals: 18},
			},
		},
		types.NetworkBSC: {
			NativeSymbol:   "BNB",
			NativeDecimals: 18,
			Tokens: map[string]TokenConfig{
				"CAKE":  {Address: "0x0E09FaBB73Bd3Ade0a17ECC321fD13a19e81cE82", Decimals: 18},
				"TWT":   {Address: "0x4B0F1812e5Df2A09796481Ff14017e6005508003", Decimals: 18},
				"ALICE": {Address: "0xAC51066d7bEC65Dc4589368da368b212745d63E1", Decimals: 6},
				"BAND":  {Address: "0xAD6cAEb32CD2c308980a548bD0Bc5AA4306c6c18", Decimals: 18},
			},
		},
		types.NetworkHyperliquid: {
			NativeSymbol:   "HYPE",
			NativeDecimals: 18,
			Tokens:         map[string]TokenConfig{},
		},
		types.NetworkBase: {
			NativeSymbol:   "ETH",
			NativeDecimals: 18,
			Tokens: map[string]TokenConfig{
				"USDC": {Address: "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913", Decimals: 6},
			},
		},
	}
}

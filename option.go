package liqopay

import (
	"github.com/Ariya-Dice/Liqopay/assets"
	"github.com/Ariya-Dice/Liqopay/logger"
	"github.com/Ariya-Dice/Liqopay/metrics"
	"github.com/Ariya-Dice/Liqopay/types"
)

type Option func(*Liqopay)

func WithLogger(l logger.Logger) Option {
	return func(x *Liqopay) {
		x.log = l
	}
}

func WithMetrics(r metrics.Recorder) Option {
	return func(x *Liqopay) {
		x.metrics = r
	}
}

// WithChains replaces the built-in chain table.
func WithChains(chains []types.ChainProfile) Option {
	return func(x *Liqopay) {
		x.chains = chains
	}
}

// WithAssets replaces the built-in per-network asset tables.
func WithAssets(tables map[types.Network]assets.NetworkAssets) Option {
	return func(x *Liqopay) {
		x.assetTables = tables
	}
}

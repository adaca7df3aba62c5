// Package liqopay implements the payment core of a peer-to-peer crypto
// invoicing front-end: a seller encodes an invoice into a QR code, a buyer
// scans it, connects a wallet and submits a matching on-chain transfer.
// The package wires the chain registry, asset resolver, payment builder
// and per-session wallet controllers behind one constructor.
package liqopay

import (
	"context"

	"github.com/Ariya-Dice/Liqopay/assets"
	"github.com/Ariya-Dice/Liqopay/builder"
	"github.com/Ariya-Dice/Liqopay/logger"
	"github.com/Ariya-Dice/Liqopay/metrics"
	"github.com/Ariya-Dice/Liqopay/registry"
	"github.com/Ariya-Dice/Liqopay/session"
	"github.com/Ariya-Dice/Liqopay/types"
	"github.com/Ariya-Dice/Liqopay/wallet"
)

// Version information
const Version = "1.0.0"

// Liqopay aggregates the payment core. All configuration is injected at
// construction and immutable afterwards.
type Liqopay struct {
	log     logger.Logger
	metrics metrics.Recorder

	chains      []types.ChainProfile
	assetTables map[types.Network]assets.NetworkAssets

	registry *registry.Registry
	resolver *assets.Resolver
	builder  *builder.Builder
}

// New creates a Liqopay instance. Without options it uses the built-in
// chain and asset tables, a no-op logger and no-op metrics.
func New(opts ...Option) *Liqopay {
	l := &Liqopay{
		log:         logger.NoopLogger{},
		metrics:     metrics.NoopRecorder{},
		chains:      registry.DefaultChains(),
		assetTables: assets.DefaultAssets(),
	}

	for _, opt := range opts {
		opt(l)
	}

	l.registry = registry.New(l.chains)
	l.resolver = assets.New(l.assetTables)
	l.builder = builder.New(l.resolver, l.log, l.metrics)
	return l
}

// Registry exposes the chain table, e.g. for invoice payload mapping.
func (l *Liqopay) Registry() *registry.Registry {
	return l.registry
}

// Resolver exposes the asset resolver.
func (l *Liqopay) Resolver() *assets.Resolver {
	return l.resolver
}

// Builder exposes the payment transaction builder for callers that manage
// their own signer and session state.
func (l *Liqopay) Builder() *builder.Builder {
	return l.builder
}

// NewSession creates a wallet session controller bound to one provider.
// One controller per active UI session.
func (l *Liqopay) NewSession(provider wallet.Provider) *session.Controller {
	return session.NewController(provider, l.registry, l.builder, l.log, l.metrics)
}

// Pay is a convenience one-shot: it runs a full connect-and-pay attempt on
// a fresh session and returns the attempt result. Callers wanting to bound
// the confirmation wait pass a ctx with a deadline; expiry during the wait
// yields a pending result, not a failure.
func (l *Liqopay) Pay(ctx context.Context, provider wallet.Provider, info *types.PaymentInfo) *types.PaymentAttemptResult {
	state := l.NewSession(provider).ConnectAndPay(ctx, info)
	return state.LastResult
}

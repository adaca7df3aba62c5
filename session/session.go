// Package session drives one wallet session: provider detection,
// account and chain negotiation, and delegation to the payment builder,
// translating outcomes into UI-facing state.
//
// The state machine itself is the pure Transition function over
// (state, event); the Controller is the outer driver that executes the
// effects Transition asks for. Transitions are unit-testable without a
// wallet.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/Ariya-Dice/Liqopay/builder"
	"github.com/Ariya-Dice/Liqopay/logger"
	"github.com/Ariya-Dice/Liqopay/metrics"
	"github.com/Ariya-Dice/Liqopay/registry"
	"github.com/Ariya-Dice/Liqopay/types"
	"github.com/Ariya-Dice/Liqopay/utils"
	"github.com/Ariya-Dice/Liqopay/wallet"
)

// EventKind enumerates the inputs the state machine reacts to.
type EventKind string

const (
	// EventConnectAndPay is the user trigger starting an attempt.
	EventConnectAndPay EventKind = "connect_and_pay"
	// EventConnected reports granted account access and a resolved chain.
	EventConnected EventKind = "connected"
	// EventConnectFailed reports a terminal connection-phase failure.
	EventConnectFailed EventKind = "connect_failed"
	// EventChainReady reports the wallet's active chain matches the target.
	EventChainReady EventKind = "chain_ready"
	// EventChainFailed reports a terminal chain-negotiation failure.
	EventChainFailed EventKind = "chain_failed"
	// EventResult carries the builder's attempt outcome.
	EventResult EventKind = "result"
)

// Event is one state machine input.
type Event struct {
	Kind    EventKind
	Account string
	Err     *types.PaymentError
	Result  *types.PaymentAttemptResult
}

// Effect is the side effect the driver must execute after a transition.
type Effect int

const (
	// EffectNone asks for nothing; the machine is settled.
	EffectNone Effect = iota
	// EffectConnect detects the provider and requests account access.
	EffectConnect
	// EffectEnsureChain switches (or registers then switches) the chain.
	EffectEnsureChain
	// EffectSubmit delegates to the payment builder.
	EffectSubmit
)

// Transition is the pure state machine over SessionState. Unknown
// (phase, event) combinations leave the state unchanged with no effect;
// in particular a ConnectAndPay trigger while the phase is not IDLE is a
// no-op, which is the sole guard against double submission.
func Transition(state types.SessionState, ev Event) (types.SessionState, Effect) {
	switch ev.Kind {
	case EventConnectAndPay:
		if state.Phase != types.PhaseIdle {
			return state, EffectNone
		}
		state.Phase = types.PhaseConnecting
		return state, EffectConnect

	case EventConnected:
		if state.Phase != types.PhaseConnecting {
			return state, EffectNone
		}
		state.Phase = types.PhaseSwitchingChain
		state.Account = ev.Account
		return state, EffectEnsureChain

	case EventConnectFailed:
		if state.Phase != types.PhaseConnecting {
			return state, EffectNone
		}
		state.Phase = types.PhaseIdle
		state.LastResult = types.FailureResult(ev.Err)
		return state, EffectNone

	case EventChainReady:
		if state.Phase != types.PhaseSwitchingChain {
			return state, EffectNone
		}
		state.Phase = types.PhaseSubmitting
		return state, EffectSubmit

	case EventChainFailed:
		if state.Phase != types.PhaseSwitchingChain {
			return state, EffectNone
		}
		state.Phase = types.PhaseIdle
		state.LastResult = types.FailureResult(ev.Err)
		return state, EffectNone

	case EventResult:
		if state.Phase != types.PhaseSubmitting {
			return state, EffectNone
		}
		state.LastResult = ev.Result
		if ev.Result.Success {
			state.Phase = types.PhaseDone
		} else {
			// Account is retained so the next attempt skips provider
			// detection but still re-requests account state fresh.
			state.Phase = types.PhaseIdle
		}
		return state, EffectNone
	}

	return state, EffectNone
}

// Controller owns one SessionState and executes the machine's effects
// against a wallet provider. One controller per active UI session; it is
// not safe for concurrent use and does not need to be.
type Controller struct {
	provider wallet.Provider
	registry *registry.Registry
	builder  *builder.Builder
	log      logger.Logger
	metrics  metrics.Recorder

	state types.SessionState

	// per-attempt context
	info    *types.PaymentInfo
	profile types.ChainProfile
}

// NewController creates a session controller. The provider may be nil,
// modeling a browser without an installed wallet; the first attempt then
// fails with WalletNotDetected.
func NewController(provider wallet.Provider, reg *registry.Registry, b *builder.Builder, log logger.Logger, rec metrics.Recorder) *Controller {
	if log == nil {
		log = logger.NoopLogger{}
	}
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &Controller{
		provider: provider,
		registry: reg,
		builder:  b,
		log:      log,
		metrics:  rec,
		state:    types.SessionState{Phase: types.PhaseIdle},
	}
}

// State returns the controller's current view.
func (c *Controller) State() types.SessionState {
	return c.state
}

// ConnectAndPay runs one payment attempt to completion and returns the
// resulting state. While an attempt is in flight the trigger is ignored
// and the current state returned unchanged.
func (c *Controller) ConnectAndPay(ctx context.Context, info *types.PaymentInfo) types.SessionState {
	next, effect := Transition(c.state, Event{Kind: EventConnectAndPay})
	if effect == EffectNone {
		return c.state
	}

	start := time.Now()
	c.state = next
	c.info = info

	for effect != EffectNone {
		ev := c.execute(ctx, effect)
		c.state, effect = Transition(c.state, ev)
	}

	c.metrics.ObserveLatency("session_attempt", time.Since(start),
		map[string]string{"network": info.Network.String()})
	return c.state
}

func (c *Controller) execute(ctx context.Context, effect Effect) Event {
	switch effect {
	case EffectConnect:
		return c.connect(ctx)
	case EffectEnsureChain:
		return c.ensureChain(ctx)
	case EffectSubmit:
		return c.submit(ctx)
	}
	return Event{}
}

// connect detects the provider, requests account access and resolves the
// target chain profile.
func (c *Controller) connect(ctx context.Context) Event {
	if c.provider == nil {
		return Event{Kind: EventConnectFailed, Err: types.Failf(types.FailWalletNotDetected,
			"no wallet provider detected, please install one to proceed")}
	}

	accounts, err := c.provider.RequestAccounts(ctx)
	if err != nil {
		return Event{Kind: EventConnectFailed, Err: wallet.Classify(err, types.FailWalletNotDetected)}
	}
	if len(accounts) == 0 {
		return Event{Kind: EventConnectFailed, Err: types.Failf(types.FailUserRejected,
			"the wallet granted no accounts")}
	}

	profile, ok := c.registry.Resolve(c.info)
	if !ok {
		return Event{Kind: EventConnectFailed, Err: types.Failf(types.FailUnsupportedNetwork,
			"unsupported network %s (chain id %d)", c.info.Network, c.info.ChainID)}
	}
	c.profile = profile

	c.log.Debug("wallet connected", map[string]any{
		"account": accounts[0].Hex(),
		"chainId": profile.ChainID,
	})
	return Event{Kind: EventConnected, Account: accounts[0].Hex()}
}

// ensureChain asks the wallet to activate the target chain. An unknown
// chain is registered and the switch retried exactly once; the controller
// never loops on chain-registration failures.
func (c *Controller) ensureChain(ctx context.Context) Event {
	err := c.provider.SwitchChain(ctx, c.profile.ChainID)
	if errors.Is(err, wallet.ErrUnknownChain) {
		c.log.Warn("chain unknown to wallet, registering", map[string]any{
			"chainId": c.profile.ChainID,
		})
		if addErr := c.provider.AddChain(ctx, c.profile); addErr != nil {
			return Event{Kind: EventChainFailed, Err: wallet.Classify(addErr, types.FailChainAddFailed)}
		}
		err = c.provider.SwitchChain(ctx, c.profile.ChainID)
	}
	if err != nil {
		return Event{Kind: EventChainFailed, Err: wallet.Classify(err, types.FailChainAddFailed)}
	}
	return Event{Kind: EventChainReady}
}

// submit delegates to the builder and decorates success with an explorer
// link.
func (c *Controller) submit(ctx context.Context) Event {
	signer, err := c.provider.Signer(ctx)
	if err != nil {
		return Event{Kind: EventResult,
			Result: types.FailureResult(wallet.Classify(err, types.FailWalletNotDetected))}
	}

	result := c.builder.BuildAndSubmit(ctx, signer, c.info)
	if result.TxHash != "" {
		result.ExplorerURL = utils.ExplorerTxURL(c.profile.ExplorerBaseURL, result.TxHash)
	}
	return Event{Kind: EventResult, Result: result}
}

// Package builder turns an untrusted payment request plus a live signer
// into a correctly-parameterized, correctly-funded transfer: validation,
// asset resolution, exact unit conversion, balance precheck, buffered gas
// estimation, a single submission, and the confirmation wait.
package builder

import (
	"context"
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Ariya-Dice/Liqopay/assets"
	"github.com/Ariya-Dice/Liqopay/logger"
	"github.com/Ariya-Dice/Liqopay/metrics"
	"github.com/Ariya-Dice/Liqopay/types"
	"github.com/Ariya-Dice/Liqopay/utils"
	"github.com/Ariya-Dice/Liqopay/wallet"
)

// Builder executes single payment attempts. It holds no per-attempt state
// and never retries: retries are a caller decision expressed as new
// attempts.
type Builder struct {
	resolver *assets.Resolver
	log      logger.Logger
	metrics  metrics.Recorder
}

// New creates a Builder over the given asset resolver. Nil logger or
// recorder fall back to no-ops.
func New(resolver *assets.Resolver, log logger.Logger, rec metrics.Recorder) *Builder {
	if log == nil {
		log = logger.NoopLogger{}
	}
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &Builder{resolver: resolver, log: log, metrics: rec}
}

// BuildAndSubmit performs one payment attempt. Steps run strictly in
// order and short-circuit on the first classified failure; the balance
// precheck always precedes gas estimation, which always precedes the
// single submission. The confirmation wait has no timeout of its own —
// cancellation is the caller's responsibility via ctx.
func (b *Builder) BuildAndSubmit(ctx context.Context, signer wallet.Signer, info *types.PaymentInfo) *types.PaymentAttemptResult {
	result := b.run(ctx, signer, info)

	labels := map[string]string{"network": info.Network.String()}
	switch {
	case result.Success:
		b.metrics.IncCounter("payment_success", labels)
	case result.Pending:
		b.metrics.IncCounter("payment_pending", labels)
	default:
		b.metrics.IncCounter("payment_failure_"+string(result.FailureKind), labels)
	}
	return result
}

func (b *Builder) run(ctx context.Context, signer wallet.Signer, info *types.PaymentInfo) *types.PaymentAttemptResult {
	// Step 1: validate the request before any network call.
	if perr := info.Validate(); perr != nil {
		return types.FailureResult(perr)
	}
	if !utils.IsValidAddress(info.Network, info.Recipient) {
		return types.FailureResult(types.Failf(types.FailInvalidRecipient,
			"invalid recipient address %q for network %s", info.Recipient, info.Network))
	}

	// Step 2: resolve native coin vs token contract.
	asset, perr := b.resolver.Resolve(info.Network, info.Token)
	if perr != nil {
		return types.FailureResult(perr)
	}

	// Step 3: exact conversion into the asset's smallest unit.
	value, err := utils.ToSmallestUnit(info.Amount, asset.Decimals)
	if err != nil {
		return types.FailureResult(types.Failf(types.FailInvalidAmount, "%v", err))
	}

	req := wallet.TransferRequest{
		To:    common.HexToAddress(info.Recipient),
		Value: value,
	}
	if asset.Kind == types.AssetToken {
		token := common.HexToAddress(asset.ContractAddress)
		req.Token = &token
	}

	b.log.Debug("payment attempt started", map[string]any{
		"network":   info.Network.String(),
		"token":     asset.Symbol,
		"kind":      string(asset.Kind),
		"amount":    info.Amount.String(),
		"invoiceId": info.InvoiceID,
	})

	// Step 4: balance precheck, before any gas estimation round trip.
	if perr := b.precheckBalance(ctx, signer, info.Network, asset, req); perr != nil {
		return types.FailureResult(perr)
	}

	// Step 5: estimate gas and apply the 20% buffer.
	start := time.Now()
	estimate, err := signer.EstimateGas(ctx, req)
	b.metrics.ObserveLatency("gas_estimate", time.Since(start), map[string]string{"network": info.Network.String()})
	if err != nil {
		return types.FailureResult(wallet.Classify(err, types.FailGasEstimationFailed))
	}
	gasLimit := utils.BufferedGasLimit(estimate)

	// Step 6: the single state-mutating submission. This is the call that
	// prompts the wallet's approval UI.
	start = time.Now()
	txHash, err := signer.SendTransfer(ctx, req, gasLimit)
	b.metrics.ObserveLatency("submit", time.Since(start), map[string]string{"network": info.Network.String()})
	if err != nil {
		return types.FailureResult(wallet.Classify(err, types.FailSubmissionFailed))
	}

	b.log.Info("transfer broadcast", map[string]any{
		"txHash":   txHash.Hex(),
		"network":  info.Network.String(),
		"gasLimit": gasLimit,
	})

	// Step 7: wait for inclusion. Once broadcast, the transaction cannot
	// be cancelled by this system; a caller-side cancellation during the
	// wait yields a pending result, not a failure.
	start = time.Now()
	receipt, err := signer.WaitMined(ctx, txHash)
	b.metrics.ObserveLatency("confirm", time.Since(start), map[string]string{"network": info.Network.String()})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return types.PendingResult(txHash.Hex())
		}
		return types.FailureResult(wallet.Classify(err, types.FailSubmissionFailed))
	}

	return types.SuccessResult(receipt.TxHash.Hex())
}

// precheckBalance fails the attempt early when the signer cannot cover the
// transfer value itself, giving a precise message without spending a gas
// estimation round trip.
func (b *Builder) precheckBalance(ctx context.Context, signer wallet.Signer, network types.Network, asset types.AssetDescriptor, req wallet.TransferRequest) *types.PaymentError {
	start := time.Now()
	defer func() {
		b.metrics.ObserveLatency("balance_check", time.Since(start), map[string]string{"network": network.String()})
	}()

	if asset.Kind == types.AssetNative {
		balance, err := signer.NativeBalance(ctx)
		if err != nil {
			return wallet.Classify(err, types.FailSubmissionFailed)
		}
		if balance.Cmp(req.Value) < 0 {
			return types.Failf(types.FailInsufficientFunds,
				"insufficient %s balance for the transaction amount", asset.Symbol)
		}
		return nil
	}

	balance, err := signer.TokenBalance(ctx, *req.Token)
	if err != nil {
		return wallet.Classify(err, types.FailSubmissionFailed)
	}
	if balance.Cmp(req.Value) < 0 {
		return types.Failf(types.FailInsufficientTokenBalance,
			"insufficient %s token balance", asset.Symbol)
	}
	return nil
}

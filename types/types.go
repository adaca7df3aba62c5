// Package types holds the shared data model for the Liqopay payment core:
// payment requests, resolved assets, chain profiles, session state and the
// closed failure taxonomy.
package types

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PaymentInfo is an immutable request describing an intended payment. It is
// produced by the invoice-scanning flow and consumed exactly once per
// payment attempt; a retry constructs a new attempt against the same value.
type PaymentInfo struct {
	// Network is the chain family the invoice targets.
	Network Network `json:"network" validate:"required"`

	// ChainID is the numeric chain identifier. Zero means "use the
	// network's canonical chain".
	ChainID uint64 `json:"chainId,omitempty"`

	// Recipient is the payee address in the target chain family's syntax.
	Recipient string `json:"recipient" validate:"required"`

	// Amount is the transfer amount in the token's human units.
	Amount decimal.Decimal `json:"amount"`

	// Token is the asset symbol, case-insensitive (e.g. "ETH", "usdt").
	Token string `json:"token" validate:"required"`

	// InvoiceID is an opaque correlation string, optional.
	InvoiceID string `json:"invoiceId,omitempty"`
}

// AssetKind distinguishes a chain's intrinsic currency from a token contract.
type AssetKind string

const (
	AssetNative AssetKind = "native"
	AssetToken  AssetKind = "token"
)

// AssetDescriptor is the resolved representation of what is being
// transferred. Derived deterministically from (network, token) and
// recomputed per attempt, never persisted.
type AssetDescriptor struct {
	Kind AssetKind `json:"kind"`

	// Symbol is the normalized (uppercase) asset symbol.
	Symbol string `json:"symbol"`

	// ContractAddress is set only for token assets.
	ContractAddress string `json:"contractAddress,omitempty"`

	// Decimals is the asset's decimal precision, for native assets the
	// chain's native exponent.
	Decimals int `json:"decimals"`
}

// ChainProfile holds the parameters needed to configure a wallet's active
// chain. Static and read-only after construction.
type ChainProfile struct {
	ChainID         uint64   `json:"chainId"`
	Network         Network  `json:"network"`
	DisplayName     string   `json:"displayName"`
	RPCURLs         []string `json:"rpcUrls"`
	NativeSymbol    string   `json:"nativeSymbol"`
	NativeDecimals  int      `json:"nativeDecimals"`
	ExplorerBaseURL string   `json:"explorerBaseUrl,omitempty"`
}

// FailureKind classifies one payment attempt failure. Every failure maps to
// exactly one kind; nothing propagates unclassified to the UI layer.
type FailureKind string

const (
	FailInvalidRecipient         FailureKind = "invalid_recipient"
	FailInvalidAmount            FailureKind = "invalid_amount"
	FailUnsupportedAsset         FailureKind = "unsupported_asset"
	FailUnsupportedNetwork       FailureKind = "unsupported_network"
	FailInsufficientFunds        FailureKind = "insufficient_funds"
	FailInsufficientTokenBalance FailureKind = "insufficient_token_balance"
	FailInsufficientGas          FailureKind = "insufficient_gas"
	FailGasEstimationFailed      FailureKind = "gas_estimation_failed"
	FailUserRejected             FailureKind = "user_rejected"
	FailWalletNotDetected        FailureKind = "wallet_not_detected"
	FailProviderRequestPending   FailureKind = "provider_request_pending"
	FailChainAddFailed           FailureKind = "chain_add_failed"
	FailSubmissionFailed         FailureKind = "submission_failed"
)

// PaymentError carries a classified failure with a human-readable message.
type PaymentError struct {
	Kind    FailureKind `json:"kind"`
	Message string      `json:"message"`
}

func (e *PaymentError) Error() string {
	return e.Message
}

// Failf builds a PaymentError with a formatted message.
func Failf(kind FailureKind, format string, args ...any) *PaymentError {
	return &PaymentError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// PaymentAttemptResult is the outcome of one submission. Constructed once
// per attempt and returned to the caller. Pending marks a transfer that
// was broadcast but whose confirmation wait was cancelled by the caller:
// the transaction may still be included later and must not be presented
// as a failure.
type PaymentAttemptResult struct {
	Success     bool        `json:"success"`
	Pending     bool        `json:"pending,omitempty"`
	TxHash      string      `json:"txHash,omitempty"`
	ExplorerURL string      `json:"explorerUrl,omitempty"`
	FailureKind FailureKind `json:"failureKind,omitempty"`
	Error       string      `json:"error,omitempty"`
}

// SuccessResult builds a successful attempt result.
func SuccessResult(txHash string) *PaymentAttemptResult {
	return &PaymentAttemptResult{Success: true, TxHash: txHash}
}

// FailureResult builds a failed attempt result from a classified error.
func FailureResult(err *PaymentError) *PaymentAttemptResult {
	return &PaymentAttemptResult{
		Success:     false,
		FailureKind: err.Kind,
		Error:       err.Message,
	}
}

// PendingResult builds a broadcast-but-unconfirmed attempt result.
func PendingResult(txHash string) *PaymentAttemptResult {
	return &PaymentAttemptResult{
		Pending: true,
		TxHash:  txHash,
		Error:   "submitted but not yet confirmed",
	}
}

// Phase is the wallet session controller's lifecycle position.
type Phase string

const (
	PhaseIdle           Phase = "idle"
	PhaseConnecting     Phase = "connecting"
	PhaseSwitchingChain Phase = "switching_chain"
	PhaseSubmitting     Phase = "submitting"
	PhaseDone           Phase = "done"
)

// SessionState is the controller's view of one UI session. It is owned
// exclusively by one controller and never mutated concurrently.
type SessionState struct {
	Phase      Phase                 `json:"phase"`
	Account    string                `json:"account,omitempty"`
	LastResult *PaymentAttemptResult `json:"lastResult,omitempty"`
}

// Validate checks the invariants a PaymentInfo must satisfy before any
// network call: a positive finite amount and non-empty recipient and token.
// Address syntax is checked separately against the target chain family.
func (p *PaymentInfo) Validate() *PaymentError {
	if p.Recipient == "" {
		return Failf(FailInvalidRecipient, "recipient address is required")
	}
	if p.Token == "" {
		return Failf(FailUnsupportedAsset, "token symbol is required")
	}
	if !p.Amount.IsPositive() {
		return Failf(FailInvalidAmount, "amount must be greater than zero")
	}
	return nil
}

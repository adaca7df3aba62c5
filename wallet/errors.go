package wallet

import (
	"errors"
	"strings"

	"github.com/Ariya-Dice/Liqopay/types"
)

// EIP-1193 provider error codes.
const (
	codeUserRejected   = 4001
	codeRequestPending = -32002
	codeUnknownChain   = 4902
)

// rpcError matches go-ethereum's rpc.Error and EIP-1193 provider errors.
type rpcError interface {
	Error() string
	ErrorCode() int
}

// Classify maps a provider or node error into exactly one taxonomy entry.
// Classification happens once, here at the boundary: internal logic never
// pattern-matches on free-form message text. Errors that match no known
// pattern fall back to the given kind with the message preserved verbatim.
func Classify(err error, fallback types.FailureKind) *types.PaymentError {
	if err == nil {
		return nil
	}

	var pe *types.PaymentError
	if errors.As(err, &pe) {
		return pe
	}

	var rpcErr rpcError
	if errors.As(err, &rpcErr) {
		switch rpcErr.ErrorCode() {
		case codeUserRejected:
			return types.Failf(types.FailUserRejected, "you rejected the request")
		case codeRequestPending:
			return types.Failf(types.FailProviderRequestPending,
				"a connection request is already pending in your wallet")
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "action_rejected"),
		strings.Contains(msg, "user rejected"),
		strings.Contains(msg, "user denied"):
		return types.Failf(types.FailUserRejected, "you rejected the request")
	case strings.Contains(msg, "already pending"):
		return types.Failf(types.FailProviderRequestPending,
			"a connection request is already pending in your wallet")
	case strings.Contains(msg, "insufficient funds"):
		// The transfer value was already covered by the balance precheck,
		// so a node-side funds error means the account cannot cover fees.
		return types.Failf(types.FailInsufficientGas, "insufficient funds for gas")
	}

	return &types.PaymentError{Kind: fallback, Message: err.Error()}
}

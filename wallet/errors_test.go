package wallet

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Ariya-Dice/Liqopay/types"
)

// codedError mimics a go-ethereum rpc.Error / EIP-1193 provider error.
type codedError struct {
	code int
	msg  string
}

func (e *codedError) Error() string  { return e.msg }
func (e *codedError) ErrorCode() int { return e.code }

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want types.FailureKind
	}{
		{
			name: "eip-1193 user rejected code",
			err:  &codedError{code: 4001, msg: "User rejected the request."},
			want: types.FailUserRejected,
		},
		{
			name: "eip-1193 request pending code",
			err:  &codedError{code: -32002, msg: "Request of type 'wallet_requestPermissions' already pending"},
			want: types.FailProviderRequestPending,
		},
		{
			name: "action rejected message",
			err:  errors.New("MetaMask Tx Signature: denied (ACTION_REJECTED)"),
			want: types.FailUserRejected,
		},
		{
			name: "user denied message",
			err:  errors.New("User denied transaction signature"),
			want: types.FailUserRejected,
		},
		{
			name: "already pending message",
			err:  errors.New("request already pending, check your wallet"),
			want: types.FailProviderRequestPending,
		},
		{
			name: "node-side insufficient funds",
			err:  errors.New("insufficient funds for gas * price + value"),
			want: types.FailInsufficientGas,
		},
		{
			name: "wrapped coded error",
			err:  fmt.Errorf("eth_requestAccounts: %w", &codedError{code: 4001, msg: "rejected"}),
			want: types.FailUserRejected,
		},
		{
			name: "unrecognized error uses fallback",
			err:  errors.New("connection reset by peer"),
			want: types.FailSubmissionFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			perr := Classify(tt.err, types.FailSubmissionFailed)
			if perr.Kind != tt.want {
				t.Errorf("kind = %s, want %s", perr.Kind, tt.want)
			}
		})
	}
}

func TestClassifyNil(t *testing.T) {
	if perr := Classify(nil, types.FailSubmissionFailed); perr != nil {
		t.Errorf("Classify(nil) = %v, want nil", perr)
	}
}

func TestClassifyPassesThroughPaymentErrors(t *testing.T) {
	orig := types.Failf(types.FailInsufficientTokenBalance, "insufficient USDT token balance")

	perr := Classify(orig, types.FailSubmissionFailed)
	if perr != orig {
		t.Error("an already-classified error must pass through unchanged")
	}

	wrapped := fmt.Errorf("precheck: %w", orig)
	if perr := Classify(wrapped, types.FailSubmissionFailed); perr.Kind != types.FailInsufficientTokenBalance {
		t.Errorf("kind = %s, want %s", perr.Kind, types.FailInsufficientTokenBalance)
	}
}

func TestClassifyPreservesUnknownMessage(t *testing.T) {
	perr := Classify(errors.New("nonce too low"), types.FailSubmissionFailed)
	if perr.Message != "nonce too low" {
		t.Errorf("message = %q, want the original text", perr.Message)
	}
}

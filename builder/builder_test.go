package builder

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/Ariya-Dice/Liqopay/assets"
	"github.com/Ariya-Dice/Liqopay/types"
	"github.com/Ariya-Dice/Liqopay/wallet"
)

// fakeSigner scripts balances and errors and counts every call so tests
// can assert which pipeline steps ran.
type fakeSigner struct {
	address       common.Address
	nativeBalance *big.Int
	tokenBalance  *big.Int
	gasEstimate   uint64

	estimateErr error
	sendErr     error
	waitErr     error

	balanceCalls  int
	estimateCalls int
	sendCalls     int
	waitCalls     int

	sentGasLimit uint64
	sentRequest  wallet.TransferRequest
}

func (f *fakeSigner) Address() common.Address {
	return f.address
}

func (f *fakeSigner) NativeBalance(ctx context.Context) (*big.Int, error) {
	f.balanceCalls++
	return f.nativeBalance, nil
}

func (f *fakeSigner) TokenBalance(ctx context.Context, token common.Address) (*big.Int, error) {
	f.balanceCalls++
	return f.tokenBalance, nil
}

func (f *fakeSigner) EstimateGas(ctx context.Context, req wallet.TransferRequest) (uint64, error) {
	f.estimateCalls++
	if f.estimateErr != nil {
		return 0, f.estimateErr
	}
	return f.gasEstimate, nil
}

func (f *fakeSigner) SendTransfer(ctx context.Context, req wallet.TransferRequest, gasLimit uint64) (common.Hash, error) {
	f.sendCalls++
	if f.sendErr != nil {
		return common.Hash{}, f.sendErr
	}
	f.sentGasLimit = gasLimit
	f.sentRequest = req
	return common.HexToHash("0xabc123"), nil
}

func (f *fakeSigner) WaitMined(ctx context.Context, txHash common.Hash) (*wallet.Receipt, error) {
	f.waitCalls++
	if f.waitErr != nil {
		return nil, f.waitErr
	}
	return &wallet.Receipt{TxHash: txHash, BlockNumber: big.NewInt(100), Status: 1}, nil
}

const recipient = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"

func ethInfo(amount string) *types.PaymentInfo {
	return &types.PaymentInfo{
		Network:   types.NetworkEthereum,
		ChainID:   1,
		Recipient: recipient,
		Amount:    decimal.RequireFromString(amount),
		Token:     "ETH",
	}
}

func newBuilder() *Builder {
	return New(assets.NewWithDefaults(), nil, nil)
}

func oneEther() *big.Int {
	wei, _ := new(big.Int).SetString("1000000000000000000", 10)
	return wei
}

func TestBuildAndSubmitSuccess(t *testing.T) {
	signer := &fakeSigner{
		nativeBalance: oneEther(),
		gasEstimate:   21000,
	}

	result := newBuilder().BuildAndSubmit(context.Background(), signer, ethInfo("0.01"))

	if !result.Success {
		t.Fatalf("expected success, got kind=%s error=%q", result.FailureKind, result.Error)
	}
	if result.TxHash == "" {
		t.Error("expected non-empty tx hash")
	}
	if signer.sentGasLimit != 25200 {
		t.Errorf("gas limit = %d, want 25200 (21000 * 1.20)", signer.sentGasLimit)
	}
	if signer.sentRequest.Token != nil {
		t.Error("native transfer must not carry a token contract")
	}
	want, _ := new(big.Int).SetString("10000000000000000", 10)
	if signer.sentRequest.Value.Cmp(want) != 0 {
		t.Errorf("transfer value = %s, want %s", signer.sentRequest.Value, want)
	}
}

func TestInsufficientFundsSkipsEstimation(t *testing.T) {
	signer := &fakeSigner{
		nativeBalance: big.NewInt(0),
		gasEstimate:   21000,
	}

	result := newBuilder().BuildAndSubmit(context.Background(), signer, ethInfo("1000000"))

	if result.FailureKind != types.FailInsufficientFunds {
		t.Fatalf("kind = %s, want %s", result.FailureKind, types.FailInsufficientFunds)
	}
	if signer.estimateCalls != 0 {
		t.Errorf("estimation ran %d times, want 0: precheck must come first", signer.estimateCalls)
	}
	if signer.sendCalls != 0 {
		t.Errorf("submission ran %d times, want 0", signer.sendCalls)
	}
}

func TestUserRejectedAtSubmission(t *testing.T) {
	signer := &fakeSigner{
		nativeBalance: oneEther(),
		gasEstimate:   21000,
		sendErr:       errors.New("MetaMask Tx Signature: User denied transaction signature (ACTION_REJECTED)"),
	}

	result := newBuilder().BuildAndSubmit(context.Background(), signer, ethInfo("0.01"))

	if result.FailureKind != types.FailUserRejected {
		t.Fatalf("kind = %s, want %s", result.FailureKind, types.FailUserRejected)
	}
	if signer.waitCalls != 0 {
		t.Error("must not wait for a transaction that was never broadcast")
	}
}

func TestInsufficientGasAtEstimation(t *testing.T) {
	signer := &fakeSigner{
		nativeBalance: oneEther(),
		estimateErr:   errors.New("insufficient funds for gas * price + value"),
	}

	result := newBuilder().BuildAndSubmit(context.Background(), signer, ethInfo("0.99"))

	if result.FailureKind != types.FailInsufficientGas {
		t.Fatalf("kind = %s, want %s", result.FailureKind, types.FailInsufficientGas)
	}
}

func TestGasEstimationFailed(t *testing.T) {
	signer := &fakeSigner{
		nativeBalance: oneEther(),
		estimateErr:   errors.New("execution reverted"),
	}

	result := newBuilder().BuildAndSubmit(context.Background(), signer, ethInfo("0.01"))

	if result.FailureKind != types.FailGasEstimationFailed {
		t.Fatalf("kind = %s, want %s", result.FailureKind, types.FailGasEstimationFailed)
	}
	if result.Error == "" {
		t.Error("expected the underlying message to be preserved")
	}
}

func TestTokenTransfer(t *testing.T) {
	signer := &fakeSigner{
		tokenBalance: big.NewInt(50_000_000), // 50 USDT
		gasEstimate:  60000,
	}

	info := &types.PaymentInfo{
		Network:   types.NetworkEthereum,
		ChainID:   1,
		Recipient: recipient,
		Amount:    decimal.RequireFromString("12.34"),
		Token:     "usdt",
	}

	result := newBuilder().BuildAndSubmit(context.Background(), signer, info)

	if !result.Success {
		t.Fatalf("expected success, got kind=%s error=%q", result.FailureKind, result.Error)
	}
	if signer.sentRequest.Token == nil {
		t.Fatal("token transfer must target the token contract")
	}
	if got, want := signer.sentRequest.Token.Hex(), "0xdAC17F958D2ee523a2206206994597C13D831ec7"; got != want {
		t.Errorf("token contract = %s, want %s", got, want)
	}
	if signer.sentRequest.Value.Cmp(big.NewInt(12_340_000)) != 0 {
		t.Errorf("transfer value = %s, want 12340000 (12.34 at 6 decimals)", signer.sentRequest.Value)
	}
	if signer.sentGasLimit != 72000 {
		t.Errorf("gas limit = %d, want 72000", signer.sentGasLimit)
	}
}

func TestInsufficientTokenBalance(t *testing.T) {
	signer := &fakeSigner{
		tokenBalance: big.NewInt(1_000_000), // 1 USDT
		gasEstimate:  60000,
	}

	info := ethInfo("5")
	info.Token = "USDT"

	result := newBuilder().BuildAndSubmit(context.Background(), signer, info)

	if result.FailureKind != types.FailInsufficientTokenBalance {
		t.Fatalf("kind = %s, want %s", result.FailureKind, types.FailInsufficientTokenBalance)
	}
	if signer.estimateCalls != 0 {
		t.Error("estimation must not run after a failed token balance precheck")
	}
}

func TestInputValidation(t *testing.T) {
	tests := []struct {
		name string
		info *types.PaymentInfo
		want types.FailureKind
	}{
		{
			name: "malformed recipient",
			info: &types.PaymentInfo{
				Network: types.NetworkEthereum, Recipient: "not-an-address",
				Amount: decimal.RequireFromString("1"), Token: "ETH",
			},
			want: types.FailInvalidRecipient,
		},
		{
			name: "zero amount",
			info: &types.PaymentInfo{
				Network: types.NetworkEthereum, Recipient: recipient,
				Amount: decimal.Zero, Token: "ETH",
			},
			want: types.FailInvalidAmount,
		},
		{
			name: "negative amount",
			info: &types.PaymentInfo{
				Network: types.NetworkEthereum, Recipient: recipient,
				Amount: decimal.RequireFromString("-3"), Token: "ETH",
			},
			want: types.FailInvalidAmount,
		},
		{
			name: "unknown token",
			info: &types.PaymentInfo{
				Network: types.NetworkEthereum, Recipient: recipient,
				Amount: decimal.RequireFromString("1"), Token: "DOGE",
			},
			want: types.FailUnsupportedAsset,
		},
		{
			name: "non-evm network",
			info: &types.PaymentInfo{
				Network: types.NetworkTron, Recipient: recipient,
				Amount: decimal.RequireFromString("1"), Token: "TRX",
			},
			want: types.FailInvalidRecipient, // tron address syntax unsupported
		},
		{
			name: "too many fractional digits for the asset",
			info: &types.PaymentInfo{
				Network: types.NetworkEthereum, Recipient: recipient,
				Amount: decimal.RequireFromString("0.1234567"), Token: "USDT",
			},
			want: types.FailInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signer := &fakeSigner{nativeBalance: oneEther(), tokenBalance: oneEther(), gasEstimate: 21000}
			result := newBuilder().BuildAndSubmit(context.Background(), signer, tt.info)
			if result.FailureKind != tt.want {
				t.Errorf("kind = %s, want %s", result.FailureKind, tt.want)
			}
			if signer.sendCalls != 0 {
				t.Error("input errors must never reach submission")
			}
		})
	}
}

func TestCancelledConfirmationIsPending(t *testing.T) {
	signer := &fakeSigner{
		nativeBalance: oneEther(),
		gasEstimate:   21000,
		waitErr:       context.DeadlineExceeded,
	}

	result := newBuilder().BuildAndSubmit(context.Background(), signer, ethInfo("0.01"))

	if result.Success {
		t.Fatal("a cancelled wait is not a success")
	}
	if !result.Pending {
		t.Fatal("a cancelled wait must report pending, not failure")
	}
	if result.TxHash == "" {
		t.Error("pending result must carry the broadcast tx hash")
	}
}

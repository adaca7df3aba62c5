// Package wallet defines the capability set the payment core requires from
// a wallet provider, classifies provider failures into the payment failure
// taxonomy at the boundary, and ships an RPC-backed implementation for
// headless callers.
package wallet

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Ariya-Dice/Liqopay/types"
)

// ErrUnknownChain is returned by SwitchChain when the wallet has no
// configuration for the requested chain. The session controller reacts by
// registering the chain and retrying the switch once.
var ErrUnknownChain = errors.New("wallet: chain not configured")

// TransferRequest describes one transfer in the asset's smallest unit.
// A nil Token means a native value-transfer.
type TransferRequest struct {
	To    common.Address
	Value *big.Int
	Token *common.Address
}

// Receipt is the confirmation of a mined transfer.
type Receipt struct {
	TxHash      common.Hash
	BlockNumber *big.Int
	Status      uint64
}

// Signer is an authenticated handle capable of querying balances,
// estimating gas and broadcasting transfers on behalf of one account.
type Signer interface {
	// Address returns the account the signer acts for.
	Address() common.Address

	// NativeBalance returns the account's native-asset balance in wei.
	NativeBalance(ctx context.Context) (*big.Int, error)

	// TokenBalance returns the account's balance of a token contract.
	TokenBalance(ctx context.Context, token common.Address) (*big.Int, error)

	// EstimateGas estimates gas for the exact transfer call. Estimation
	// never prompts the wallet's approval UI.
	EstimateGas(ctx context.Context, req TransferRequest) (uint64, error)

	// SendTransfer broadcasts the transfer with the given gas limit. This
	// is the call that prompts the wallet's user-approval UI.
	SendTransfer(ctx context.Context, req TransferRequest, gasLimit uint64) (common.Hash, error)

	// WaitMined blocks until the transaction is included or ctx is done.
	WaitMined(ctx context.Context, txHash common.Hash) (*Receipt, error)
}

// Provider is the external wallet collaborator. The core depends only on
// this capability set, never on a concrete wallet implementation.
type Provider interface {
	// RequestAccounts asks the wallet for account access.
	RequestAccounts(ctx context.Context) ([]common.Address, error)

	// Signer returns a signer for the wallet's active account.
	Signer(ctx context.Context) (Signer, error)

	// SwitchChain asks the wallet to activate the given chain. Returns
	// ErrUnknownChain when the wallet has no configuration for it.
	SwitchChain(ctx context.Context, chainID uint64) error

	// AddChain registers a chain configuration with the wallet.
	AddChain(ctx context.Context, profile types.ChainProfile) error
}

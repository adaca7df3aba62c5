package wallet

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/Ariya-Dice/Liqopay/types"
)

const erc20ABIJSON = `[
	{"name":"transfer","type":"function","stateMutability":"nonpayable",
	 "inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],
	 "outputs":[{"name":"","type":"bool"}]},
	{"name":"balanceOf","type":"function","stateMutability":"view",
	 "inputs":[{"name":"owner","type":"address"}],
	 "outputs":[{"name":"","type":"uint256"}]}
]`

var erc20ABI = mustABI(erc20ABIJSON)

func mustABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(fmt.Sprintf("invalid ERC-20 ABI: %v", err))
	}
	return parsed
}

const receiptPollInterval = 2 * time.Second

// RPCWallet is a headless Provider/Signer backed by a JSON-RPC endpoint and
// a local ECDSA key. Browser-extension wallets satisfy the same interfaces
// through their own adapters; RPCWallet serves server-side and test
// integrations.
type RPCWallet struct {
	key     *ecdsa.PrivateKey
	address common.Address

	client  *ethclient.Client
	chainID *big.Int

	// endpoints holds RPC URLs per chain, grown by AddChain.
	endpoints map[uint64][]string

	pollInterval time.Duration
}

var (
	_ Provider = (*RPCWallet)(nil)
	_ Signer   = (*RPCWallet)(nil)
)

// NewRPCWallet dials the endpoint and derives the account from the hex
// private key.
func NewRPCWallet(ctx context.Context, rpcURL, signerPrivHex string) (*RPCWallet, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(signerPrivHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid signer key: %w", err)
	}

	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("rpc dial: %w", err)
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("chain id fetch: %w", err)
	}

	return &RPCWallet{
		key:          key,
		address:      crypto.PubkeyToAddress(key.PublicKey),
		client:       client,
		chainID:      chainID,
		endpoints:    map[uint64][]string{chainID.Uint64(): {rpcURL}},
		pollInterval: receiptPollInterval,
	}, nil
}

// Close releases the underlying RPC connection.
func (w *RPCWallet) Close() {
	if w.client != nil {
		w.client.Close()
	}
}

// RequestAccounts implements Provider. A headless wallet has exactly one
// account and never prompts.
func (w *RPCWallet) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	return []common.Address{w.address}, nil
}

// Signer implements Provider.
func (w *RPCWallet) Signer(ctx context.Context) (Signer, error) {
	return w, nil
}

// SwitchChain implements Provider by redialing a registered endpoint for
// the target chain. Returns ErrUnknownChain when none is registered.
func (w *RPCWallet) SwitchChain(ctx context.Context, chainID uint64) error {
	if w.chainID != nil && w.chainID.Uint64() == chainID {
		return nil
	}

	urls, ok := w.endpoints[chainID]
	if !ok {
		return ErrUnknownChain
	}

	client, actual, err := dialVerified(ctx, urls, chainID)
	if err != nil {
		return err
	}

	w.client.Close()
	w.client = client
	w.chainID = actual
	return nil
}

// AddChain implements Provider by verifying the profile's endpoints and
// registering them for later switches.
func (w *RPCWallet) AddChain(ctx context.Context, profile types.ChainProfile) error {
	if len(profile.RPCURLs) == 0 {
		return fmt.Errorf("chain %d has no rpc endpoints", profile.ChainID)
	}

	client, _, err := dialVerified(ctx, profile.RPCURLs, profile.ChainID)
	if err != nil {
		return err
	}
	client.Close()

	w.endpoints[profile.ChainID] = profile.RPCURLs
	return nil
}

// dialVerified dials the first reachable endpoint whose reported chain ID
// matches the expected one.
func dialVerified(ctx context.Context, urls []string, expected uint64) (*ethclient.Client, *big.Int, error) {
	var lastErr error
	for _, url := range urls {
		client, err := ethclient.DialContext(ctx, url)
		if err != nil {
			lastErr = err
			continue
		}
		chainID, err := client.ChainID(ctx)
		if err != nil {
			client.Close()
			lastErr = err
			continue
		}
		if chainID.Uint64() != expected {
			client.Close()
			lastErr = fmt.Errorf("endpoint %s serves chain %d, want %d", url, chainID, expected)
			continue
		}
		return client, chainID, nil
	}
	return nil, nil, fmt.Errorf("no usable endpoint for chain %d: %w", expected, lastErr)
}

// Address implements Signer.
func (w *RPCWallet) Address() common.Address {
	return w.address
}

// NativeBalance implements Signer.
func (w *RPCWallet) NativeBalance(ctx context.Context) (*big.Int, error) {
	return w.client.BalanceAt(ctx, w.address, nil)
}

// TokenBalance implements Signer via the token contract's balanceOf.
func (w *RPCWallet) TokenBalance(ctx context.Context, token common.Address) (*big.Int, error) {
	data, err := erc20ABI.Pack("balanceOf", w.address)
	if err != nil {
		return nil, err
	}

	out, err := w.client.CallContract(ctx, ethereum.CallMsg{To: &token, Data: data}, nil)
	if err != nil {
		return nil, err
	}

	results, err := erc20ABI.Unpack("balanceOf", out)
	if err != nil {
		return nil, err
	}
	balance, ok := results[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected balanceOf return type %T", results[0])
	}
	return balance, nil
}

// EstimateGas implements Signer for the exact transfer call.
func (w *RPCWallet) EstimateGas(ctx context.Context, req TransferRequest) (uint64, error) {
	msg, err := w.callMsg(req)
	if err != nil {
		return 0, err
	}
	return w.client.EstimateGas(ctx, msg)
}

// SendTransfer implements Signer: builds, signs and broadcasts the transfer
// with the given gas limit.
func (w *RPCWallet) SendTransfer(ctx context.Context, req TransferRequest, gasLimit uint64) (common.Hash, error) {
	msg, err := w.callMsg(req)
	if err != nil {
		return common.Hash{}, err
	}

	nonce, err := w.client.PendingNonceAt(ctx, w.address)
	if err != nil {
		return common.Hash{}, err
	}

	gasPrice, err := w.client.SuggestGasPrice(ctx)
	if err != nil {
		return common.Hash{}, err
	}

	tx := gethtypes.NewTx(&gethtypes.LegacyTx{
		Nonce:    nonce,
		To:       msg.To,
		Value:    msg.Value,
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     msg.Data,
	})

	signed, err := gethtypes.SignTx(tx, gethtypes.LatestSignerForChainID(w.chainID), w.key)
	if err != nil {
		return common.Hash{}, err
	}

	if err := w.client.SendTransaction(ctx, signed); err != nil {
		return common.Hash{}, err
	}
	return signed.Hash(), nil
}

// WaitMined implements Signer by polling for the receipt until inclusion or
// ctx cancellation. No timeout of its own: bounding the wait is the
// caller's responsibility.
func (w *RPCWallet) WaitMined(ctx context.Context, txHash common.Hash) (*Receipt, error) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := w.client.TransactionReceipt(ctx, txHash)
		if err == nil {
			return &Receipt{
				TxHash:      receipt.TxHash,
				BlockNumber: receipt.BlockNumber,
				Status:      receipt.Status,
			}, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			return nil, err
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// callMsg translates a TransferRequest into the call the node sees: a plain
// value transfer for native assets, a contract transfer invocation for
// tokens.
func (w *RPCWallet) callMsg(req TransferRequest) (ethereum.CallMsg, error) {
	if req.Token == nil {
		to := req.To
		return ethereum.CallMsg{From: w.address, To: &to, Value: req.Value}, nil
	}

	data, err := erc20ABI.Pack("transfer", req.To, req.Value)
	if err != nil {
		return ethereum.CallMsg{}, err
	}
	return ethereum.CallMsg{From: w.address, To: req.Token, Data: data}, nil
}

package types

// Network represents supported blockchain network families
type Network string

const (
	// EVM networks
	NetworkEthereum    Network = "ethereum"
	NetworkBSC         Network = "bsc"
	NetworkHyperliquid Network = "hyperliquid"
	NetworkBase        Network = "base"

	// Declared by the invoice format but not payable here
	NetworkTron    Network = "tron"
	NetworkSolana  Network = "solana"
	NetworkBitcoin Network = "bitcoin"
)

// IsEVM reports whether the network belongs to the EVM chain family.
func (n Network) IsEVM() bool {
	return n == NetworkEthereum || n == NetworkBSC || n == NetworkHyperliquid || n == NetworkBase
}

// Known reports whether the network identifier is part of the invoice format.
func (n Network) Known() bool {
	return n.IsEVM() || n == NetworkTron || n == NetworkSolana || n == NetworkBitcoin
}

func (n Network) String() string {
	return string(n)
}

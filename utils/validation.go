package utils

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Ariya-Dice/Liqopay/types"
)

// IsValidAddress reports whether an address is syntactically valid for the
// network's chain family. Only EVM address syntax is recognized; other
// families are unsupported and always invalid.
func IsValidAddress(network types.Network, address string) bool {
	if !network.IsEVM() {
		return false
	}
	return common.IsHexAddress(address)
}

// IsValidTxHash reports whether a string looks like an EVM transaction hash
// (0x followed by 64 hex digits).
func IsValidTxHash(hash string) bool {
	if len(hash) != 66 || !strings.HasPrefix(hash, "0x") {
		return false
	}
	for _, c := range hash[2:] {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// ExplorerTxURL joins an explorer base URL (trailing slash stripped) with
// the transaction path. Returns "" when no base URL is configured.
func ExplorerTxURL(baseURL, txHash string) string {
	if baseURL == "" {
		return ""
	}
	return strings.TrimRight(baseURL, "/") + "/tx/" + txHash
}

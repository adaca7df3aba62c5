package utils

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// ToSmallestUnit converts a human-unit amount into the asset's integer base
// unit (e.g. wei for 18-decimal assets). The conversion is exact: amounts
// carrying more fractional digits than the asset supports are rejected
// rather than rounded, since rounding would under- or over-pay.
func ToSmallestUnit(amount decimal.Decimal, decimals int) (*big.Int, error) {
	if decimals < 0 {
		return nil, fmt.Errorf("decimals must be non-negative, got %d", decimals)
	}

	shifted := amount.Shift(int32(decimals))
	if !shifted.IsInteger() {
		return nil, fmt.Errorf("amount %s has more than %d fractional digits", amount, decimals)
	}

	return shifted.BigInt(), nil
}

// FromSmallestUnit converts an integer base-unit value back into human
// units. Inverse of ToSmallestUnit.
func FromSmallestUnit(value *big.Int, decimals int) decimal.Decimal {
	return decimal.NewFromBigInt(value, -int32(decimals))
}

// gas buffer: submitted limit = estimate * 120 / 100
const (
	gasBufferNumerator   = 120
	gasBufferDenominator = 100
)

// BufferedGasLimit applies a 20% safety margin over a node's gas estimate,
// rounding down, compensating for state changes between estimation and
// inclusion.
func BufferedGasLimit(estimate uint64) uint64 {
	limit := new(big.Int).SetUint64(estimate)
	limit.Mul(limit, big.NewInt(gasBufferNumerator))
	limit.Div(limit, big.NewInt(gasBufferDenominator))
	return limit.Uint64()
}

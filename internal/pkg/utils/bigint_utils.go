package utils

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatBigInt converts an integer amount of minor units into a decimal string,
// trimming trailing zeros.
// Example: amount=1234500000000000000, decimals=18 => "1.2345"
func FormatBigInt(amount *big.Int, decimals uint8) string {
	if amount == nil {
		return "0"
	}
	return decimal.NewFromBigInt(amount, -int32(decimals)).String()
}

// ParseUnits is the inverse of FormatBigInt: "1.5" with decimals=9 => 1500000000.
// Fractional digits beyond decimals are rejected rather than rounded.
func ParseUnits(value string, decimals uint8) (*big.Int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, fmt.Errorf("empty value")
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %q: %w", value, err)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("negative value %q", value)
	}
	scaled := d.Shift(int32(decimals))
	if !scaled.Equal(scaled.Truncate(0)) {
		return nil, fmt.Errorf("%q has more than %d decimal places", value, decimals)
	}
	return scaled.BigInt(), nil
}

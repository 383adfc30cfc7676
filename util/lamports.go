package util

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

const SOL_DECIMALS = 9

// FormatSol renders lamports as a decimal SOL string, e.g. 1500000000 -> "1.5".
func FormatSol(lamports uint64) string {
	return FormatUnits(lamports, SOL_DECIMALS)
}

// FormatUnits renders a raw token amount with the given decimals.
func FormatUnits(amount uint64, decimals uint8) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(amount), -int32(decimals)).String()
}

// ParseSol converts a SOL amount such as "0.25" into lamports.
func ParseSol(s string) (uint64, error) {
	return ParseUnits(s, SOL_DECIMALS)
}

// ParseUnits converts a UI amount into raw units. Amounts must be positive and
// must not carry more precision than decimals allows.
func ParseUnits(s string, decimals uint8) (uint64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	if !d.IsPositive() {
		return 0, errors.New("amount must be positive")
	}
	raw := d.Shift(int32(decimals))
	if !raw.IsInteger() {
		return 0, fmt.Errorf("amount %s has more than %d decimals", s, decimals)
	}
	b := raw.BigInt()
	if !b.IsUint64() {
		return 0, fmt.Errorf("amount %s overflows", s)
	}
	return b.Uint64(), nil
}

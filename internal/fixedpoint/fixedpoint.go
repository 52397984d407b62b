// Package fixedpoint converts between human decimal amounts and raw integer
// amounts at a token's precision. Rounding is truncation-only: scaling never
// rounds up, so neither a user nor a pool can be credited more than entitled.
package fixedpoint

import (
	"errors"
	"math/big"

	"github.com/shopspring/decimal"
)

// MaxPrecision is the largest supported number of decimal places.
const MaxPrecision = 18

var (
	// ErrInvalidPrecision is returned for precisions outside [0, MaxPrecision].
	ErrInvalidPrecision = errors.New("invalid precision")
	// ErrInvalidAmount is returned for negative amounts.
	ErrInvalidAmount = errors.New("invalid amount")
)

// ToRaw scales a decimal amount by 10^precision and truncates toward zero.
func ToRaw(amount decimal.Decimal, precision int) (*big.Int, error) {
	if precision < 0 || precision > MaxPrecision {
		return nil, ErrInvalidPrecision
	}
	if amount.IsNegative() {
		return nil, ErrInvalidAmount
	}
	return amount.Shift(int32(precision)).Truncate(0).BigInt(), nil
}

// ToDecimal is the exact inverse scaling of ToRaw. A nil raw amount is
// treated as zero.
func ToDecimal(raw *big.Int, precision int) (decimal.Decimal, error) {
	if precision < 0 || precision > MaxPrecision {
		return decimal.Decimal{}, ErrInvalidPrecision
	}
	if raw == nil {
		return decimal.Zero, nil
	}
	return decimal.NewFromBigInt(raw, -int32(precision)), nil
}

// Floor truncates a decimal amount to the representable grid at the given
// precision, applying the same toward-zero rule as ToRaw.
func Floor(amount decimal.Decimal, precision int) (decimal.Decimal, error) {
	raw, err := ToRaw(amount, precision)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return ToDecimal(raw, precision)
}

// Package money handles monetary amounts as integer minor units (centavos).
//
// Invariants:
//   - Amounts are always stored in the smallest currency unit; display
//     precision (2 decimal places) exists only at the boundary.
//   - Boundary parsing rejects values that cannot be expressed in exactly
//     2 decimal places, so sub-cent drift can never enter the ledger.
package money

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidAmount is returned when an amount is not a finite positive
	// value expressible in exactly 2 decimal places.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrAmountExceedsMaxSafeInt is returned when an amount or a balance
	// update would overflow the int64 minor-unit representation.
	ErrAmountExceedsMaxSafeInt = errors.New("amount exceeds maximum safe integer value")
)

// Amount is a monetary value in minor units (centavos).
type Amount = int64

var hundred = decimal.NewFromInt(100)

// Parse converts a boundary-level decimal value into minor units.
// The value must be finite, strictly positive and carry at most 2 decimal
// places: Parse(10.005) and Parse(0) both fail with ErrInvalidAmount.
func Parse(value float64) (Amount, error) {
	cents, err := toCents(value)
	if err != nil {
		return 0, err
	}
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

// ParseBalance is Parse relaxed to accept zero, for opening balances.
func ParseBalance(value float64) (Amount, error) {
	cents, err := toCents(value)
	if err != nil {
		return 0, err
	}
	if cents < 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

func toCents(value float64) (Amount, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, ErrInvalidAmount
	}
	d := decimal.NewFromFloat(value)
	cents := d.Mul(hundred)
	// Sub-cent precision: value*100 must equal its own rounded self.
	if !cents.Equal(cents.Round(0)) {
		return 0, ErrInvalidAmount
	}
	if !cents.BigInt().IsInt64() {
		return 0, ErrAmountExceedsMaxSafeInt
	}
	return cents.IntPart(), nil
}

// Add returns a+b, guarding against int64 overflow.
func Add(a, b Amount) (Amount, error) {
	if b > 0 && a > math.MaxInt64-b {
		return 0, ErrAmountExceedsMaxSafeInt
	}
	if b < 0 && a < math.MinInt64-b {
		return 0, ErrAmountExceedsMaxSafeInt
	}
	return a + b, nil
}

// Float converts minor units back to a display-precision float.
// Only for API responses; never feed the result back into the ledger.
func Float(a Amount) float64 {
	f, _ := decimal.New(a, -2).Float64()
	return f
}

// Format renders minor units with exactly 2 decimal places, e.g. "1234.50".
func Format(a Amount) string {
	return decimal.New(a, -2).StringFixed(2)
}

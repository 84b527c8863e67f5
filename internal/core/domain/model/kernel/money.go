package kernel

import (
	"fmt"
	"math"
	"math/bits"

	"fooddelivery/internal/pkg/errs"
)

// Money is an amount in minor currency units (e.g. cents). Menu prices and order
// totals are non-negative integers, so no fractional arithmetic is involved.
type Money int64

// NewMoney validates that amount is not negative.
func NewMoney(amount int64) (Money, error) {
	if amount < 0 {
		return 0, errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%d is negative", amount))
	}
	return Money(amount), nil
}

// Multiply returns the amount multiplied by a quantity. Negative operands and results
// beyond the int64 range are rejected instead of wrapping.
func (m Money) Multiply(quantity int) (Money, error) {
	if m < 0 || quantity < 0 {
		return 0, errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%d * %d has a negative operand", m, quantity))
	}

	hi, lo := bits.Mul64(uint64(m), uint64(quantity))
	if hi != 0 || lo > math.MaxInt64 {
		return 0, errs.NewValueIsOutOfRangeError("amount", fmt.Sprintf("%d * %d", m, quantity), 0, int64(math.MaxInt64))
	}
	return Money(lo), nil
}

// Add returns the sum of two non-negative amounts, rejecting overflow.
func (m Money) Add(other Money) (Money, error) {
	if m < 0 || other < 0 {
		return 0, errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%d + %d has a negative operand", m, other))
	}
	if other > math.MaxInt64-m {
		return 0, errs.NewValueIsOutOfRangeError("amount", fmt.Sprintf("%d + %d", m, other), 0, int64(math.MaxInt64))
	}
	return m + other, nil
}

// Int64 returns the raw amount in minor units.
func (m Money) Int64() int64 {
	return int64(m)
}

func (m Money) String() string {
	return fmt.Sprintf("%d", int64(m))
}

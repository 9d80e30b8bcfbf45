// Package core implements the costing and inventory engine: batch-based
// FIFO inventory, expiration alerting, recipe costing and menu engineering.
package core

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Money is a signed integer count of minor currency units (cents, grosze).
// Zero value is zero money; construction below always validates non-negative
// unless explicitly noted (profit/loss figures may be negative).
type Money struct {
	cents int64
}

// ZeroMoney is the additive identity.
var ZeroMoney = Money{cents: 0}

// NewMoney constructs a non-negative Money from a minor-unit count.
func NewMoney(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, NewValidationError("money amount cannot be negative")
	}
	return Money{cents: cents}, nil
}

// NewSignedMoney constructs a Money that may be negative (used for profit/loss
// figures, never for balances that represent owned stock value).
func NewSignedMoney(cents int64) Money {
	return Money{cents: cents}
}

// Cents returns the underlying minor-unit count.
func (m Money) Cents() int64 {
	return m.cents
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m.cents == 0
}

// Add returns m+other, failing with Arithmetic on overflow.
func (m Money) Add(other Money) (Money, error) {
	sum := m.cents + other.cents
	if (other.cents > 0 && sum < m.cents) || (other.cents < 0 && sum > m.cents) {
		return Money{}, NewArithmeticError("money addition overflow")
	}
	return Money{cents: sum}, nil
}

// Sub returns m-other, failing with Arithmetic on overflow.
func (m Money) Sub(other Money) (Money, error) {
	diff := m.cents - other.cents
	if (other.cents < 0 && diff < m.cents) || (other.cents > 0 && diff > m.cents) {
		return Money{}, NewArithmeticError("money subtraction overflow")
	}
	return Money{cents: diff}, nil
}

// MulQuantity multiplies a per-unit Money price by a Quantity, rounding the
// fractional minor-unit result half-to-even (banker's rounding), per spec
// §4.1: "result = round_half_even(price_minor × quantity_decimal)".
func (m Money) MulQuantity(q Quantity) (Money, error) {
	priceDec := decimal.NewFromInt(m.cents)
	product := priceDec.Mul(q.value)
	rounded := product.RoundBank(0)
	cents := rounded.IntPart()
	if !rounded.Equal(decimal.NewFromInt(cents)) {
		return Money{}, NewArithmeticError("money multiplication overflow")
	}
	return Money{cents: cents}, nil
}

// DivInt divides total cents across n equal parts using banker's rounding,
// used for cost-per-serving (§4.6 step 5).
func (m Money) DivInt(n int64) (Money, error) {
	if n <= 0 {
		return Money{}, NewValidationError("division by non-positive count")
	}
	dividend := decimal.NewFromInt(m.cents)
	divisor := decimal.NewFromInt(n)
	quotient := dividend.Div(divisor).RoundBank(0)
	return Money{cents: quotient.IntPart()}, nil
}

// PercentOf returns 100 * m / of, or 0 if of is zero, matching the
// food-cost-percentage rule in §4.6: "zero if selling price is zero".
func (m Money) PercentOf(of Money) float64 {
	if of.cents == 0 {
		return 0
	}
	return (float64(m.cents) / float64(of.cents)) * 100
}

// Negate flips the sign, used to express a loss as negative profit.
func (m Money) Negate() Money {
	return Money{cents: -m.cents}
}

// IsNegative reports whether the amount represents a loss.
func (m Money) IsNegative() bool {
	return m.cents < 0
}

func (m Money) String() string {
	sign := ""
	cents := m.cents
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// quantityScale is the minimum fractional precision Quantity guarantees,
// per spec §4.1: "at least 12 fractional digits of precision".
const quantityScale = 12

// Quantity is a non-negative decimal with at least 12 fractional digits of
// precision, backed by github.com/shopspring/decimal rather than float64 so
// that equality and arithmetic are exact.
type Quantity struct {
	value decimal.Decimal
}

// ZeroQuantity is the additive identity.
var ZeroQuantity = Quantity{value: decimal.Zero}

// NewQuantityFromFloat normalizes a float64 boundary value by rounding to
// quantityScale fractional places, per spec §4.1: "All public APIs that
// accept floats must normalize by rounding to 12 fractional places at the
// boundary."
func NewQuantityFromFloat(f float64) (Quantity, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Quantity{}, NewValidationError("quantity must be finite")
	}
	if f < 0 {
		return Quantity{}, NewValidationError("quantity cannot be negative")
	}
	d := decimal.NewFromFloat(f).Round(quantityScale)
	return Quantity{value: d}, nil
}

// ParseQuantity parses a decimal string as read back from storage.
func ParseQuantity(s string) (Quantity, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Quantity{}, NewInternalError("failed to parse stored quantity", err)
	}
	return NewQuantityFromDecimal(d)
}

// NewQuantityFromDecimal builds a Quantity from an already-exact decimal,
// used when reading a value back out of storage.
func NewQuantityFromDecimal(d decimal.Decimal) (Quantity, error) {
	if d.IsNegative() {
		return Quantity{}, NewValidationError("quantity cannot be negative")
	}
	return Quantity{value: d.Round(quantityScale)}, nil
}

// Decimal exposes the underlying decimal value, e.g. for persistence.
func (q Quantity) Decimal() decimal.Decimal {
	return q.value
}

// IsZero reports whether the quantity is exactly zero.
func (q Quantity) IsZero() bool {
	return q.value.IsZero()
}

// Add returns q+other.
func (q Quantity) Add(other Quantity) Quantity {
	return Quantity{value: q.value.Add(other.value).Round(quantityScale)}
}

// Sub returns q-other, which must not go negative (callers are expected to
// clamp via Min before subtracting when validating has already occurred).
func (q Quantity) Sub(other Quantity) (Quantity, error) {
	result := q.value.Sub(other.value).Round(quantityScale)
	if result.IsNegative() {
		return Quantity{}, NewArithmeticError("quantity subtraction went negative")
	}
	return Quantity{value: result}, nil
}

// Cmp compares q to other: -1, 0, 1.
func (q Quantity) Cmp(other Quantity) int {
	return q.value.Cmp(other.value)
}

// GreaterThan reports whether q > other.
func (q Quantity) GreaterThan(other Quantity) bool {
	return q.value.GreaterThan(other.value)
}

// Min returns the smaller of q and other.
func (q Quantity) Min(other Quantity) Quantity {
	if q.value.LessThan(other.value) {
		return q
	}
	return other
}

func (q Quantity) String() string {
	return q.value.String()
}

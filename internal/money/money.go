package money

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Arithmetic errors.
var (
	ErrOverflow         = errors.New("arithmetic overflow")
	ErrCurrencyMismatch = errors.New("currency mismatch")
	ErrDivideByZero     = errors.New("division by zero")
	ErrInvalidPercent   = errors.New("percent must be between 0 and 100")
)

// Money is an exact monetary amount: an integer count of minor units paired
// with a currency. Negative amounts are expenses/outflows, positive amounts
// are income/inflows. The zero value is zero units of the zero Currency and
// only compares against itself; construct values with New or FromMajor.
type Money struct {
	minorUnits int64
	currency   Currency
}

// New creates a Money from a minor-unit count. Any int64 is a valid amount.
func New(minorUnits int64, currency Currency) Money {
	return Money{minorUnits: minorUnits, currency: currency}
}

// FromMajor converts a major-unit amount (e.g. 123.45) into minor units,
// rounding half to even. Fails if the result does not fit in an int64.
func FromMajor(major decimal.Decimal, currency Currency) (Money, error) {
	minor := major.Mul(decimal.NewFromInt(currency.MinorUnitsPerMajor)).RoundBank(0)
	if !minor.BigInt().IsInt64() {
		return Money{}, fmt.Errorf("%w: %s %s does not fit in minor units", ErrOverflow, major, currency.Code)
	}
	return Money{minorUnits: minor.IntPart(), currency: currency}, nil
}

// FromMajorString parses a decimal string like "123.45" into a Money.
func FromMajorString(s string, currency Currency) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return FromMajor(d, currency)
}

// MinorUnits returns the exact integer amount in minor units.
func (m Money) MinorUnits() int64 { return m.minorUnits }

// Currency returns the currency of the amount.
func (m Money) Currency() Currency { return m.currency }

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool { return m.minorUnits == 0 }

// IsNegative reports whether the amount is an outflow.
func (m Money) IsNegative() bool { return m.minorUnits < 0 }

// IsPositive reports whether the amount is an inflow.
func (m Money) IsPositive() bool { return m.minorUnits > 0 }

func (m Money) sameCurrency(other Money) error {
	if m.currency.Code != other.currency.Code {
		return fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.currency.Code, other.currency.Code)
	}
	return nil
}

// Add returns m + other. Fails on currency mismatch or int64 overflow.
func (m Money) Add(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	sum, err := checkedAdd(m.minorUnits, other.minorUnits)
	if err != nil {
		return Money{}, err
	}
	return Money{minorUnits: sum, currency: m.currency}, nil
}

// Sub returns m - other. Fails on currency mismatch or int64 overflow.
func (m Money) Sub(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	diff, err := checkedSub(m.minorUnits, other.minorUnits)
	if err != nil {
		return Money{}, err
	}
	return Money{minorUnits: diff, currency: m.currency}, nil
}

// MulInt returns m * factor as exact integer multiplication.
func (m Money) MulInt(factor int64) (Money, error) {
	product, err := checkedMul(m.minorUnits, factor)
	if err != nil {
		return Money{}, err
	}
	return Money{minorUnits: product, currency: m.currency}, nil
}

// MulDecimal returns m * factor rounded to the nearest minor unit, half to
// even, matching the FromMajor rounding policy.
func (m Money) MulDecimal(factor decimal.Decimal) (Money, error) {
	product := decimal.NewFromInt(m.minorUnits).Mul(factor).RoundBank(0)
	if !product.BigInt().IsInt64() {
		return Money{}, fmt.Errorf("%w: %d * %s", ErrOverflow, m.minorUnits, factor)
	}
	return Money{minorUnits: product.IntPart(), currency: m.currency}, nil
}

// Div returns m / divisor using integer division truncating toward zero.
func (m Money) Div(divisor int64) (Money, error) {
	if divisor == 0 {
		return Money{}, ErrDivideByZero
	}
	if m.minorUnits == math.MinInt64 && divisor == -1 {
		return Money{}, fmt.Errorf("%w: %d / %d", ErrOverflow, m.minorUnits, divisor)
	}
	return Money{minorUnits: m.minorUnits / divisor, currency: m.currency}, nil
}

// Percent returns percent% of m, multiplying before dividing so no precision
// is lost ahead of the final truncation. Percent must be within [0, 100].
func (m Money) Percent(percent int64) (Money, error) {
	if percent < 0 || percent > 100 {
		return Money{}, fmt.Errorf("%w: got %d", ErrInvalidPercent, percent)
	}
	product, err := checkedMul(m.minorUnits, percent)
	if err != nil {
		return Money{}, err
	}
	return Money{minorUnits: product / 100, currency: m.currency}, nil
}

// Abs returns the magnitude of m. Fails for MinInt64, which has no positive
// counterpart.
func (m Money) Abs() (Money, error) {
	if m.minorUnits == math.MinInt64 {
		return Money{}, fmt.Errorf("%w: abs of %d", ErrOverflow, m.minorUnits)
	}
	if m.minorUnits < 0 {
		return Money{minorUnits: -m.minorUnits, currency: m.currency}, nil
	}
	return m, nil
}

// Neg returns m with the opposite sign. Fails for MinInt64.
func (m Money) Neg() (Money, error) {
	if m.minorUnits == math.MinInt64 {
		return Money{}, fmt.Errorf("%w: negate of %d", ErrOverflow, m.minorUnits)
	}
	return Money{minorUnits: -m.minorUnits, currency: m.currency}, nil
}

// Cmp compares two amounts of the same currency, returning -1, 0, or +1.
func (m Money) Cmp(other Money) (int, error) {
	if err := m.sameCurrency(other); err != nil {
		return 0, err
	}
	switch {
	case m.minorUnits < other.minorUnits:
		return -1, nil
	case m.minorUnits > other.minorUnits:
		return 1, nil
	default:
		return 0, nil
	}
}

// Equal reports whether both amount and currency are identical.
func (m Money) Equal(other Money) bool {
	return m.minorUnits == other.minorUnits && m.currency.Code == other.currency.Code
}

func checkedAdd(a, b int64) (int64, error) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, fmt.Errorf("%w: %d + %d", ErrOverflow, a, b)
	}
	return a + b, nil
}

func checkedSub(a, b int64) (int64, error) {
	if (b < 0 && a > math.MaxInt64+b) || (b > 0 && a < math.MinInt64+b) {
		return 0, fmt.Errorf("%w: %d - %d", ErrOverflow, a, b)
	}
	return a - b, nil
}

func checkedMul(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	if (a == math.MinInt64 && b == -1) || (b == math.MinInt64 && a == -1) {
		return 0, fmt.Errorf("%w: %d * %d", ErrOverflow, a, b)
	}
	product := a * b
	if product/b != a {
		return 0, fmt.Errorf("%w: %d * %d", ErrOverflow, a, b)
	}
	return product, nil
}

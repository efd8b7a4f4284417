package money

import (
	"errors"
	"fmt"
)

// Splitting errors.
var (
	ErrInvalidSplit       = errors.New("invalid split")
	ErrInvalidPercentages = errors.New("percentages must be non-negative and sum to 100")
)

// Split divides m into parts equal shares. Any remainder from integer
// truncation is distributed one minor unit at a time to the earliest shares,
// so no two shares differ by more than one minor unit and the shares always
// sum back to m exactly.
func (m Money) Split(parts int) ([]Money, error) {
	if parts <= 0 {
		return nil, fmt.Errorf("%w: parts must be positive, got %d", ErrInvalidSplit, parts)
	}

	quotient := m.minorUnits / int64(parts)
	remainder := m.minorUnits % int64(parts)

	// The remainder carries the sign of the amount, so the unit-by-unit
	// distribution works for outflows as well.
	step := int64(1)
	if remainder < 0 {
		step = -1
		remainder = -remainder
	}

	shares := make([]Money, parts)
	for i := range shares {
		units := quotient
		if int64(i) < remainder {
			units += step
		}
		shares[i] = Money{minorUnits: units, currency: m.currency}
	}
	return shares, nil
}

// SplitByPercentages divides m according to a list of integer percentages
// that must be non-negative and sum to exactly 100. The last share absorbs
// the rounding remainder so the shares always sum back to m exactly.
func (m Money) SplitByPercentages(percentages []int64) ([]Money, error) {
	if len(percentages) == 0 {
		return nil, fmt.Errorf("%w: empty list", ErrInvalidPercentages)
	}
	var total int64
	for _, pct := range percentages {
		if pct < 0 {
			return nil, fmt.Errorf("%w: got %d", ErrInvalidPercentages, pct)
		}
		total += pct
	}
	if total != 100 {
		return nil, fmt.Errorf("%w: sum is %d", ErrInvalidPercentages, total)
	}

	shares := make([]Money, len(percentages))
	var allocated int64
	for i, pct := range percentages[:len(percentages)-1] {
		product, err := checkedMul(m.minorUnits, pct)
		if err != nil {
			return nil, err
		}
		units := product / 100
		shares[i] = Money{minorUnits: units, currency: m.currency}
		allocated += units
	}
	shares[len(shares)-1] = Money{minorUnits: m.minorUnits - allocated, currency: m.currency}
	return shares, nil
}

package money

import (
	"errors"
	"fmt"
)

// Validation errors used at entity-creation boundaries.
var (
	ErrUnbalancedTransfer = errors.New("transfer legs must net to zero")
	ErrUnbalancedSplits   = errors.New("splits must sum to the total")
)

// ValidateTransfer checks a linked transfer pair: the outgoing leg must be
// negative, the incoming leg positive, both in the same currency, and the two
// must net to exactly zero.
func ValidateTransfer(from, to Money) error {
	if err := from.sameCurrency(to); err != nil {
		return err
	}
	if !from.IsNegative() {
		return fmt.Errorf("%w: outgoing leg must be negative, got %d", ErrUnbalancedTransfer, from.minorUnits)
	}
	if !to.IsPositive() {
		return fmt.Errorf("%w: incoming leg must be positive, got %d", ErrUnbalancedTransfer, to.minorUnits)
	}
	sum, err := checkedAdd(from.minorUnits, to.minorUnits)
	if err != nil {
		return err
	}
	if sum != 0 {
		return fmt.Errorf("%w: legs sum to %d", ErrUnbalancedTransfer, sum)
	}
	return nil
}

// ValidateSplits checks that every split shares the total's currency and that
// the splits sum to the total exactly.
func ValidateSplits(total Money, splits []Money) error {
	var sum int64
	for i, s := range splits {
		if err := total.sameCurrency(s); err != nil {
			return fmt.Errorf("split %d: %w", i, err)
		}
		var err error
		sum, err = checkedAdd(sum, s.minorUnits)
		if err != nil {
			return fmt.Errorf("split %d: %w", i, err)
		}
	}
	if sum != total.minorUnits {
		return fmt.Errorf("%w: splits sum to %d, total is %d", ErrUnbalancedSplits, sum, total.minorUnits)
	}
	return nil
}

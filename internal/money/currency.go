// Package money implements exact monetary values as integer counts of minor
// currency units, with overflow-checked arithmetic, splitting, and
// cross-entity validation. No operation in this package ever computes through
// a floating-point type, and no operation formats amounts for display.
package money

import (
	"errors"
	"fmt"
)

// ErrInvalidCurrency indicates a malformed currency definition.
var ErrInvalidCurrency = errors.New("invalid currency")

// Currency describes a currency and how many minor units make up one major
// unit (100 for most currencies, 1 for currencies with no subdivision).
type Currency struct {
	Code               string
	Symbol             string
	Name               string
	MinorUnitsPerMajor int64
}

// Built-in currencies.
var (
	PHP = Currency{Code: "PHP", Symbol: "₱", Name: "Philippine Peso", MinorUnitsPerMajor: 100}
	USD = Currency{Code: "USD", Symbol: "$", Name: "US Dollar", MinorUnitsPerMajor: 100}
	EUR = Currency{Code: "EUR", Symbol: "€", Name: "Euro", MinorUnitsPerMajor: 100}
	JPY = Currency{Code: "JPY", Symbol: "¥", Name: "Japanese Yen", MinorUnitsPerMajor: 1}
)

// NewCurrency creates a currency definition.
func NewCurrency(code, symbol, name string, minorUnitsPerMajor int64) (Currency, error) {
	if len(code) != 3 {
		return Currency{}, fmt.Errorf("%w: code %q must be exactly 3 characters", ErrInvalidCurrency, code)
	}
	if minorUnitsPerMajor <= 0 {
		return Currency{}, fmt.Errorf("%w: minor units per major must be positive, got %d", ErrInvalidCurrency, minorUnitsPerMajor)
	}
	return Currency{
		Code:               code,
		Symbol:             symbol,
		Name:               name,
		MinorUnitsPerMajor: minorUnitsPerMajor,
	}, nil
}

// CurrencyByCode looks up a built-in currency by its 3-letter code.
func CurrencyByCode(code string) (Currency, error) {
	for _, c := range []Currency{PHP, USD, EUR, JPY} {
		if c.Code == code {
			return c, nil
		}
	}
	return Currency{}, fmt.Errorf("%w: unknown code %q", ErrInvalidCurrency, code)
}

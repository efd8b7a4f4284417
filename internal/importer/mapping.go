// Package importer implements the bank statement import pipeline: CSV
// parsing with configurable column mappings, merchant normalization,
// duplicate detection against persisted transactions, and selective commit
// through a preview.
package importer

import (
	"errors"
	"fmt"
)

// Mapping errors.
var (
	ErrInvalidMapping = errors.New("invalid column mapping")
	ErrNoFormatMatch  = errors.New("no built-in format matches the CSV header")
)

// ColumnMapping describes how to interpret a statement CSV's columns. Either
// AmountColumn is set, or both DebitColumn and CreditColumn are; never both
// styles at once. When HasHeader is false, column names are 0-based
// positional indices in string form.
type ColumnMapping struct {
	Name              string
	DateColumn        string
	DescriptionColumn string
	AmountColumn      string
	DebitColumn       string
	CreditColumn      string
	DateFormat        string // Go time layout, default 2006-01-02
	Delimiter         rune
	HasHeader         bool
}

// Built-in column mapping presets, in auto-detection order.
var builtinMappings = []ColumnMapping{
	{
		Name:              "simple",
		DateColumn:        "Date",
		DescriptionColumn: "Description",
		AmountColumn:      "Amount",
		DateFormat:        "2006-01-02",
		Delimiter:         ',',
		HasHeader:         true,
	},
	{
		Name:              "debit-credit",
		DateColumn:        "Date",
		DescriptionColumn: "Description",
		DebitColumn:       "Debit",
		CreditColumn:      "Credit",
		DateFormat:        "2006-01-02",
		Delimiter:         ',',
		HasHeader:         true,
	},
	{
		Name:              "bank-statement",
		DateColumn:        "Transaction Date",
		DescriptionColumn: "Details",
		DebitColumn:       "Withdrawal",
		CreditColumn:      "Deposit",
		DateFormat:        "01/02/2006",
		Delimiter:         ',',
		HasHeader:         true,
	},
}

// AvailableFormats returns the built-in mapping presets.
func AvailableFormats() []ColumnMapping {
	formats := make([]ColumnMapping, len(builtinMappings))
	copy(formats, builtinMappings)
	return formats
}

// FormatByName looks up a built-in preset by name.
func FormatByName(name string) (ColumnMapping, error) {
	for _, m := range builtinMappings {
		if m.Name == name {
			return m, nil
		}
	}
	return ColumnMapping{}, fmt.Errorf("%w: unknown format %q", ErrInvalidMapping, name)
}

// Validate checks the mapping invariants.
func (m ColumnMapping) Validate() error {
	if m.DateColumn == "" {
		return fmt.Errorf("%w: date column is required", ErrInvalidMapping)
	}
	if m.DescriptionColumn == "" {
		return fmt.Errorf("%w: description column is required", ErrInvalidMapping)
	}

	hasAmount := m.AmountColumn != ""
	hasDebit := m.DebitColumn != ""
	hasCredit := m.CreditColumn != ""

	switch {
	case hasAmount && (hasDebit || hasCredit):
		return fmt.Errorf("%w: amount column is mutually exclusive with debit/credit columns", ErrInvalidMapping)
	case !hasAmount && !hasDebit && !hasCredit:
		return fmt.Errorf("%w: either an amount column or debit/credit columns are required", ErrInvalidMapping)
	case hasDebit != hasCredit:
		return fmt.Errorf("%w: debit and credit columns must both be set", ErrInvalidMapping)
	}
	return nil
}

// usesDebitCredit reports whether the mapping splits amounts across separate
// debit and credit columns.
func (m ColumnMapping) usesDebitCredit() bool {
	return m.DebitColumn != "" && m.CreditColumn != ""
}

func (m ColumnMapping) dateFormat() string {
	if m.DateFormat == "" {
		return "2006-01-02"
	}
	return m.DateFormat
}

func (m ColumnMapping) delimiter() rune {
	if m.Delimiter == 0 {
		return ','
	}
	return m.Delimiter
}

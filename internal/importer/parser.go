package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/centavo-dev/centavo/internal/money"
)

// Row-level parse errors.
var (
	ErrMissingField     = errors.New("missing required field")
	ErrAmbiguousAmount  = errors.New("exactly one of debit and credit must be populated")
	ErrUnparsableAmount = errors.New("unparsable amount")
)

// ParsedTransaction is a candidate transaction extracted from one CSV row.
type ParsedTransaction struct {
	Date           time.Time
	Merchant       string // Normalized merchant name
	RawDescription string
	RowIndex       int // 1-based, header-inclusive
	Amount         money.Money
}

// RowError records a row that failed to parse without aborting the batch.
type RowError struct {
	Err error
	Row int // 1-based, header-inclusive
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e RowError) Unwrap() error { return e.Err }

// ParseResult holds the successfully parsed rows and the row-level errors of
// one parse pass.
type ParseResult struct {
	Transactions []ParsedTransaction
	Errors       []RowError
}

// Parser converts delimited bank-statement text into candidate transactions.
type Parser struct{}

// NewParser creates a new CSV statement parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse returns the successfully parsed transactions, silently dropping
// malformed rows. Use ParseWithErrors when row-level errors must be reported.
func (p *Parser) Parse(csvText string, mapping ColumnMapping, currency money.Currency) ([]ParsedTransaction, error) {
	result, err := p.ParseWithErrors(csvText, mapping, currency)
	if err != nil {
		return nil, err
	}
	return result.Transactions, nil
}

// ParseWithErrors parses statement text using the given column mapping. A
// malformed row never aborts the batch: it is excluded from the result and
// reported with its row index instead. Rows whose amount is exactly zero are
// skipped without an error.
func (p *Parser) ParseWithErrors(csvText string, mapping ColumnMapping, currency money.Currency) (*ParseResult, error) {
	if err := mapping.Validate(); err != nil {
		return nil, err
	}

	records, err := readRecords(csvText, mapping.delimiter())
	if err != nil {
		return nil, err
	}

	result := &ParseResult{}
	if len(records) == 0 {
		return result, nil
	}

	dataStart := 0
	var cols columnIndexes
	if mapping.HasHeader {
		cols, err = resolveHeaderColumns(records[0], mapping)
		if err != nil {
			return nil, err
		}
		dataStart = 1
	} else {
		cols, err = resolvePositionalColumns(mapping)
		if err != nil {
			return nil, err
		}
	}

	for i, record := range records[dataStart:] {
		rowIndex := dataStart + i + 1

		txn, rowErr := p.parseRow(record, cols, mapping, currency, rowIndex)
		if rowErr != nil {
			result.Errors = append(result.Errors, RowError{Row: rowIndex, Err: rowErr})
			continue
		}
		if txn.Amount.IsZero() {
			continue
		}
		result.Transactions = append(result.Transactions, txn)
	}

	return result, nil
}

// AutoDetect tries the built-in presets against the CSV header in order and
// parses with the first preset whose required columns are all present.
// Returns ErrNoFormatMatch when none apply.
func (p *Parser) AutoDetect(csvText string, currency money.Currency) (ColumnMapping, *ParseResult, error) {
	for _, mapping := range builtinMappings {
		records, err := readRecords(csvText, mapping.delimiter())
		if err != nil || len(records) == 0 {
			continue
		}
		if _, err := resolveHeaderColumns(records[0], mapping); err != nil {
			continue
		}

		result, err := p.ParseWithErrors(csvText, mapping, currency)
		if err != nil {
			continue
		}
		return mapping, result, nil
	}
	return ColumnMapping{}, nil, ErrNoFormatMatch
}

func (p *Parser) parseRow(record []string, cols columnIndexes, mapping ColumnMapping, currency money.Currency, rowIndex int) (ParsedTransaction, error) {
	dateText, err := field(record, cols.date, mapping.DateColumn)
	if err != nil {
		return ParsedTransaction{}, err
	}
	date, err := time.Parse(mapping.dateFormat(), strings.TrimSpace(dateText))
	if err != nil {
		return ParsedTransaction{}, fmt.Errorf("parsing date %q: %w", dateText, err)
	}

	description, err := field(record, cols.description, mapping.DescriptionColumn)
	if err != nil {
		return ParsedTransaction{}, err
	}

	amount, err := p.parseAmount(record, cols, mapping, currency)
	if err != nil {
		return ParsedTransaction{}, err
	}

	return ParsedTransaction{
		Date:           date,
		Amount:         amount,
		Merchant:       NormalizeMerchant(description),
		RawDescription: description,
		RowIndex:       rowIndex,
	}, nil
}

func (p *Parser) parseAmount(record []string, cols columnIndexes, mapping ColumnMapping, currency money.Currency) (money.Money, error) {
	if !mapping.usesDebitCredit() {
		text, err := field(record, cols.amount, mapping.AmountColumn)
		if err != nil {
			return money.Money{}, err
		}
		return parseSignedAmount(text, currency)
	}

	debitText := optionalField(record, cols.debit)
	creditText := optionalField(record, cols.credit)

	hasDebit := strings.TrimSpace(debitText) != ""
	hasCredit := strings.TrimSpace(creditText) != ""
	if hasDebit == hasCredit {
		return money.Money{}, ErrAmbiguousAmount
	}

	if hasDebit {
		m, err := parseSignedAmount(debitText, currency)
		if err != nil {
			return money.Money{}, err
		}
		if m.IsPositive() {
			return m.Neg()
		}
		return m, nil
	}

	m, err := parseSignedAmount(creditText, currency)
	if err != nil {
		return money.Money{}, err
	}
	if m.IsNegative() {
		return m.Neg()
	}
	return m, nil
}

// parseSignedAmount normalizes raw amount text and converts it to minor
// units. Currency symbols and thousands separators are stripped,
// parenthesized values follow the accounting convention for negatives, and a
// leading minus sign is preserved.
func parseSignedAmount(raw string, currency money.Currency) (money.Money, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return money.Money{}, fmt.Errorf("%w: empty amount", ErrUnparsableAmount)
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
		case r == '-' && b.Len() == 0:
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" || cleaned == "-" {
		return money.Money{}, fmt.Errorf("%w: %q", ErrUnparsableAmount, raw)
	}
	if negative && !strings.HasPrefix(cleaned, "-") {
		cleaned = "-" + cleaned
	}

	m, err := money.FromMajorString(cleaned, currency)
	if err != nil {
		return money.Money{}, fmt.Errorf("%w: %q", ErrUnparsableAmount, raw)
	}
	return m, nil
}

// columnIndexes maps mapped columns to record positions; -1 means unmapped.
type columnIndexes struct {
	date        int
	description int
	amount      int
	debit       int
	credit      int
}

func resolveHeaderColumns(header []string, mapping ColumnMapping) (columnIndexes, error) {
	find := func(name string) int {
		for i, h := range header {
			h = strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF"))
			if strings.EqualFold(h, name) {
				return i
			}
		}
		return -1
	}

	cols := columnIndexes{
		date:        find(mapping.DateColumn),
		description: find(mapping.DescriptionColumn),
		amount:      -1,
		debit:       -1,
		credit:      -1,
	}
	if cols.date < 0 {
		return cols, fmt.Errorf("%w: column %q not in header", ErrInvalidMapping, mapping.DateColumn)
	}
	if cols.description < 0 {
		return cols, fmt.Errorf("%w: column %q not in header", ErrInvalidMapping, mapping.DescriptionColumn)
	}

	if mapping.usesDebitCredit() {
		cols.debit = find(mapping.DebitColumn)
		cols.credit = find(mapping.CreditColumn)
		if cols.debit < 0 {
			return cols, fmt.Errorf("%w: column %q not in header", ErrInvalidMapping, mapping.DebitColumn)
		}
		if cols.credit < 0 {
			return cols, fmt.Errorf("%w: column %q not in header", ErrInvalidMapping, mapping.CreditColumn)
		}
	} else {
		cols.amount = find(mapping.AmountColumn)
		if cols.amount < 0 {
			return cols, fmt.Errorf("%w: column %q not in header", ErrInvalidMapping, mapping.AmountColumn)
		}
	}
	return cols, nil
}

// resolvePositionalColumns interprets column names as 0-based indices for
// headerless files.
func resolvePositionalColumns(mapping ColumnMapping) (columnIndexes, error) {
	parse := func(name string) (int, error) {
		idx, err := strconv.Atoi(strings.TrimSpace(name))
		if err != nil || idx < 0 {
			return -1, fmt.Errorf("%w: %q is not a column index (headerless files use 0-based indices)", ErrInvalidMapping, name)
		}
		return idx, nil
	}

	cols := columnIndexes{amount: -1, debit: -1, credit: -1}
	var err error
	if cols.date, err = parse(mapping.DateColumn); err != nil {
		return cols, err
	}
	if cols.description, err = parse(mapping.DescriptionColumn); err != nil {
		return cols, err
	}
	if mapping.usesDebitCredit() {
		if cols.debit, err = parse(mapping.DebitColumn); err != nil {
			return cols, err
		}
		if cols.credit, err = parse(mapping.CreditColumn); err != nil {
			return cols, err
		}
	} else {
		if cols.amount, err = parse(mapping.AmountColumn); err != nil {
			return cols, err
		}
	}
	return cols, nil
}

func field(record []string, idx int, name string) (string, error) {
	if idx < 0 || idx >= len(record) || strings.TrimSpace(record[idx]) == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingField, name)
	}
	return record[idx], nil
}

func optionalField(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}

func readRecords(csvText string, delimiter rune) ([][]string, error) {
	reader := csv.NewReader(strings.NewReader(csvText))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV: %w", err)
		}
		records = append(records, record)
	}
	return records, nil
}

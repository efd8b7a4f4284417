// Package ofx parses OFX/QFX bank statement exports into candidate
// transactions for the import pipeline.
package ofx

import (
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"

	"github.com/centavo-dev/centavo/internal/importer"
	"github.com/centavo-dev/centavo/internal/money"
)

// Parser implements OFX/QFX file parsing.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	// Trim any leading whitespace or blank lines before the header
	content = strings.TrimLeft(content, " \t\r\n")

	// Fix mixed-case SEVERITY values (should be INFO, WARN, or ERROR)
	severityRegex := regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// Fix missing closing angle brackets in SGML-style OFX files
	tagFixRegex := regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
	content = tagFixRegex.ReplaceAllString(content, "$1>")

	return content
}

// Parse reads an OFX/QFX statement and returns candidate transactions with
// exact minor-unit amounts. The statement's CURDEF must name a known
// currency; fallback names the currency the caller expects.
func (p *Parser) Parse(reader io.Reader, fallback money.Currency) ([]importer.ParsedTransaction, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var transactions []importer.ParsedTransaction

	for _, msg := range resp.Bank {
		stmt, ok := msg.(*ofxgo.StatementResponse)
		if ok && stmt.BankTranList != nil {
			currency := resolveCurrency(stmt.CurDef.String(), fallback)
			txns, err := p.convertTransactions(stmt.BankTranList.Transactions, currency)
			if err != nil {
				slog.Warn("Failed to process bank statement",
					"account", stmt.BankAcctFrom.AcctID,
					"error", err)
				continue
			}
			transactions = append(transactions, txns...)
		}
	}

	for _, msg := range resp.CreditCard {
		stmt, ok := msg.(*ofxgo.CCStatementResponse)
		if ok && stmt.BankTranList != nil {
			currency := resolveCurrency(stmt.CurDef.String(), fallback)
			txns, err := p.convertTransactions(stmt.BankTranList.Transactions, currency)
			if err != nil {
				slog.Warn("Failed to process credit card statement",
					"account", stmt.CCAcctFrom.AcctID,
					"error", err)
				continue
			}
			transactions = append(transactions, txns...)
		}
	}

	slog.Info("Parsed OFX file", "total_transactions", len(transactions))
	return transactions, nil
}

func (p *Parser) convertTransactions(ofxTxns []ofxgo.Transaction, currency money.Currency) ([]importer.ParsedTransaction, error) {
	var transactions []importer.ParsedTransaction
	for i, ofxTx := range ofxTxns {
		// OFX amounts are rationals; go through the decimal text form so
		// no float ever carries the value.
		amount, err := money.FromMajorString(ofxTx.TrnAmt.Rat.FloatString(6), currency)
		if err != nil {
			return nil, fmt.Errorf("transaction %s: %w", ofxTx.FiTID, err)
		}
		if amount.IsZero() {
			continue
		}

		raw := extractDescription(ofxTx)
		transactions = append(transactions, importer.ParsedTransaction{
			Date:           ofxTx.DtPosted.Time,
			Amount:         amount,
			Merchant:       importer.NormalizeMerchant(stripProcessorPrefixes(raw)),
			RawDescription: raw,
			RowIndex:       i + 1,
		})
	}
	return transactions, nil
}

func resolveCurrency(code string, fallback money.Currency) money.Currency {
	if currency, err := money.CurrencyByCode(strings.ToUpper(strings.TrimSpace(code))); err == nil {
		return currency
	}
	return fallback
}

// extractDescription prefers the payee name, falling back to the NAME field
// and then the MEMO when the name is too generic.
func extractDescription(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return string(tx.Payee.Name)
	}

	name := string(tx.Name)
	if tx.Memo != "" && isGenericDescription(name) {
		name = string(tx.Memo)
	}
	return strings.TrimSpace(name)
}

// stripProcessorPrefixes removes common card-processor noise that precedes
// the actual merchant name.
func stripProcessorPrefixes(name string) string {
	prefixes := []string{
		"POS PURCHASE ",
		"PURCHASE AUTHORIZED ON ",
		"DEBIT CARD PURCHASE ",
		"ACH DEBIT ",
		"CHECK CARD ",
		"VISA PURCHASE ",
		"MC PURCHASE ",
		"DEBIT PURCHASE ",
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// Clean up date patterns like "MM/DD " at the beginning
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}
	return name
}

// isGenericDescription checks if a transaction name is too generic.
func isGenericDescription(name string) bool {
	generic := []string{
		"DEBIT",
		"CREDIT",
		"PURCHASE",
		"PAYMENT",
		"POS TRANSACTION",
		"CARD PURCHASE",
	}
	upperName := strings.ToUpper(name)
	for _, g := range generic {
		if upperName == g {
			return true
		}
	}
	return false
}

package cli

import (
	"github.com/shopspring/decimal"

	"github.com/centavo-dev/centavo/internal/money"
)

// FormatAmount renders a monetary value for terminal display, e.g. "₱1,234.50".
// The engine itself never formats; presentation lives at this boundary.
func FormatAmount(m money.Money) string {
	cur := m.Currency()
	major := decimal.NewFromInt(m.MinorUnits()).
		Div(decimal.NewFromInt(cur.MinorUnitsPerMajor))

	places := int32(0)
	for n := cur.MinorUnitsPerMajor; n > 1; n /= 10 {
		places++
	}

	text := major.StringFixed(places)
	if m.IsNegative() {
		return "-" + cur.Symbol + text[1:]
	}
	return cur.Symbol + text
}

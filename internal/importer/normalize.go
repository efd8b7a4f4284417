package importer

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	markerRunsRegex    = regexp.MustCompile(`\*+`)
	trailingRefRegex   = regexp.MustCompile(`[\s#-]*\d{5,}\s*$`)
	parentheticalRegex = regexp.MustCompile(`\s*\([^)]*\)\s*$`)
	whitespaceRegex    = regexp.MustCompile(`\s+`)

	titleCaser = cases.Title(language.English)
)

// NormalizeMerchant cleans a raw statement description into a stable merchant
// name: marker characters and whitespace runs collapse, trailing reference
// codes and parenthetical store/location suffixes are stripped, and the
// result is title-cased.
func NormalizeMerchant(raw string) string {
	s := markerRunsRegex.ReplaceAllString(raw, " ")
	// Reference codes can trail the parenthetical suffix or the other way
	// around, so strip codes on both sides of the suffix pass.
	s = trailingRefRegex.ReplaceAllString(s, "")
	s = parentheticalRegex.ReplaceAllString(s, "")
	s = trailingRefRegex.ReplaceAllString(s, "")
	s = whitespaceRegex.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	return titleCaser.String(s)
}

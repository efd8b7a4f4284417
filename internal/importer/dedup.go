package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/centavo-dev/centavo/internal/model"
)

// Duplicate scoring calibration. The weights are empirically tuned: date
// proximity and amount each carry up to 0.4, merchant similarity up to 0.2,
// and a candidate is flagged once the aggregate crosses the threshold.
const (
	dateWeight         = 0.4
	amountWeight       = 0.4
	merchantWeight     = 0.2
	dateToleranceDays  = 3
	duplicateThreshold = 0.75
)

// Match is the outcome of classifying one candidate against the persisted
// transactions: either new, or a duplicate of MatchedID with a confidence in
// (duplicateThreshold, 1.0].
type Match struct {
	MatchedID   string
	Confidence  float64
	IsDuplicate bool
}

// Detector classifies candidate transactions as new or duplicate.
type Detector struct{}

// NewDetector creates a duplicate detector.
func NewDetector() *Detector {
	return &Detector{}
}

// CheckDuplicate classifies a single candidate against the existing
// transactions, reporting only the single best match. An exact match (same
// calendar day, identical amount, case-insensitive merchant) always wins
// with confidence 1.0; otherwise the best fuzzy score above the threshold
// flags a duplicate.
func (d *Detector) CheckDuplicate(candidate ParsedTransaction, existing []model.Transaction) Match {
	best := Match{}
	for _, txn := range existing {
		if d.exactMatch(candidate, txn) {
			return Match{IsDuplicate: true, Confidence: 1.0, MatchedID: txn.ID}
		}

		score := d.fuzzyScore(candidate, txn)
		if score > best.Confidence {
			best = Match{Confidence: score, MatchedID: txn.ID}
		}
	}

	if best.Confidence > duplicateThreshold {
		best.IsDuplicate = true
		return best
	}
	return Match{}
}

// CheckDuplicates classifies every candidate independently, preserving
// candidate order.
func (d *Detector) CheckDuplicates(candidates []ParsedTransaction, existing []model.Transaction) []Match {
	matches := make([]Match, len(candidates))
	for i, candidate := range candidates {
		matches[i] = d.CheckDuplicate(candidate, existing)
	}
	return matches
}

// FindInternalDuplicates detects exact duplicates within a batch itself,
// such as the same statement line appearing twice. It returns the row
// indices of later occurrences; the first occurrence is never flagged.
func (d *Detector) FindInternalDuplicates(candidates []ParsedTransaction) map[int]bool {
	duplicates := make(map[int]bool)
	seen := make(map[string]bool)
	for _, candidate := range candidates {
		key := fmt.Sprintf("%s:%d:%s:%s",
			candidate.Date.Format("2006-01-02"),
			candidate.Amount.MinorUnits(),
			candidate.Amount.Currency().Code,
			strings.ToLower(candidate.Merchant))
		if seen[key] {
			duplicates[candidate.RowIndex] = true
			continue
		}
		seen[key] = true
	}
	return duplicates
}

func (d *Detector) exactMatch(candidate ParsedTransaction, txn model.Transaction) bool {
	return sameDay(candidate.Date, txn.Date) &&
		candidate.Amount.Equal(txn.Amount) &&
		strings.EqualFold(candidate.Merchant, txn.MerchantName)
}

// fuzzyScore builds an additive confidence from three signals. Date
// proximity earns partial credit on a linear decay across the tolerance
// window; amounts and merchants only score on a match.
func (d *Detector) fuzzyScore(candidate ParsedTransaction, txn model.Transaction) float64 {
	score := 0.0

	days := daysApart(candidate.Date, txn.Date)
	if days <= dateToleranceDays {
		score += dateWeight * float64(dateToleranceDays+1-days) / float64(dateToleranceDays+1)
	}

	if candidate.Amount.Equal(txn.Amount) {
		score += amountWeight
	}

	if merchantsSimilar(candidate.Merchant, txn.MerchantName) {
		score += merchantWeight
	}

	return score
}

func merchantsSimilar(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	return a == b || strings.Contains(a, b) || strings.Contains(b, a)
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

func daysApart(a, b time.Time) int {
	aDay := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bDay := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	days := int(aDay.Sub(bDay).Hours() / 24)
	if days < 0 {
		days = -days
	}
	return days
}

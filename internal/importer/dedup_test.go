package importer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centavo-dev/centavo/internal/model"
	"github.com/centavo-dev/centavo/internal/money"
)

func candidate(day int, minor int64, merchant string) ParsedTransaction {
	return ParsedTransaction{
		Date:     time.Date(2025, 1, day, 0, 0, 0, 0, time.UTC),
		Amount:   money.New(minor, money.PHP),
		Merchant: merchant,
	}
}

func existing(id string, day int, minor int64, merchant string) model.Transaction {
	return model.Transaction{
		ID:           id,
		Date:         time.Date(2025, 1, day, 0, 0, 0, 0, time.UTC),
		Amount:       money.New(minor, money.PHP),
		MerchantName: merchant,
	}
}

func TestCheckDuplicate_ExactMatch(t *testing.T) {
	detector := NewDetector()

	match := detector.CheckDuplicate(
		candidate(15, -5000, "Grocery Store"),
		[]model.Transaction{existing("txn-1", 15, -5000, "GROCERY STORE")},
	)

	assert.True(t, match.IsDuplicate)
	assert.Equal(t, 1.0, match.Confidence)
	assert.Equal(t, "txn-1", match.MatchedID)
}

func TestCheckDuplicate_AmountMismatchBreaksMatch(t *testing.T) {
	detector := NewDetector()

	match := detector.CheckDuplicate(
		candidate(15, -5000, "Grocery Store"),
		[]model.Transaction{existing("txn-1", 15, -5001, "Grocery Store")},
	)

	assert.False(t, match.IsDuplicate)
}

func TestCheckDuplicate_DateTolerance(t *testing.T) {
	detector := NewDetector()

	t.Run("one day offset is still a duplicate", func(t *testing.T) {
		match := detector.CheckDuplicate(
			candidate(15, -5000, "Grocery Store"),
			[]model.Transaction{existing("txn-1", 16, -5000, "Grocery Store")},
		)
		require.True(t, match.IsDuplicate)
		assert.Greater(t, match.Confidence, duplicateThreshold)
		assert.Less(t, match.Confidence, 1.0)
	})

	t.Run("five day offset is not", func(t *testing.T) {
		match := detector.CheckDuplicate(
			candidate(15, -5000, "Grocery Store"),
			[]model.Transaction{existing("txn-1", 20, -5000, "Grocery Store")},
		)
		assert.False(t, match.IsDuplicate)
	})
}

func TestCheckDuplicate_DifferentCurrencyNeverMatches(t *testing.T) {
	detector := NewDetector()

	match := detector.CheckDuplicate(
		candidate(15, -5000, "Grocery Store"),
		[]model.Transaction{{
			ID:           "txn-usd",
			Date:         time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
			Amount:       money.New(-5000, money.USD),
			MerchantName: "Grocery Store",
		}},
	)

	assert.False(t, match.IsDuplicate)
}

func TestCheckDuplicate_BestMatchWins(t *testing.T) {
	detector := NewDetector()

	match := detector.CheckDuplicate(
		candidate(15, -5000, "Grocery Store"),
		[]model.Transaction{
			existing("txn-far", 17, -5000, "Grocery Store"),
			existing("txn-near", 16, -5000, "Grocery Store"),
			existing("txn-exact", 15, -5000, "grocery store"),
		},
	)

	require.True(t, match.IsDuplicate)
	assert.Equal(t, "txn-exact", match.MatchedID, "exact match always wins")
	assert.Equal(t, 1.0, match.Confidence)
}

func TestCheckDuplicate_NoExistingTransactions(t *testing.T) {
	match := NewDetector().CheckDuplicate(candidate(15, -5000, "Grocery Store"), nil)
	assert.False(t, match.IsDuplicate)
	assert.Zero(t, match.Confidence)
}

func TestCheckDuplicates_PreservesOrder(t *testing.T) {
	detector := NewDetector()
	candidates := []ParsedTransaction{
		candidate(15, -5000, "Grocery Store"),
		candidate(16, 500000, "Salary"),
		candidate(17, -350, "Coffee Shop"),
	}
	stored := []model.Transaction{existing("txn-1", 16, 500000, "Salary")}

	matches := detector.CheckDuplicates(candidates, stored)
	require.Len(t, matches, 3)
	assert.False(t, matches[0].IsDuplicate)
	assert.True(t, matches[1].IsDuplicate)
	assert.False(t, matches[2].IsDuplicate)
}

func TestFindInternalDuplicates(t *testing.T) {
	detector := NewDetector()

	first := candidate(15, -5000, "Grocery Store")
	first.RowIndex = 2
	middle := candidate(16, 500000, "Salary")
	middle.RowIndex = 3
	repeat := candidate(15, -5000, "Grocery Store")
	repeat.RowIndex = 4

	duplicates := detector.FindInternalDuplicates([]ParsedTransaction{first, middle, repeat})

	require.Len(t, duplicates, 1)
	assert.True(t, duplicates[4], "only the later occurrence is flagged")
}

func TestFindInternalDuplicates_CaseInsensitiveMerchant(t *testing.T) {
	detector := NewDetector()

	first := candidate(15, -5000, "Grocery Store")
	first.RowIndex = 2
	repeat := candidate(15, -5000, "GROCERY STORE")
	repeat.RowIndex = 3

	duplicates := detector.FindInternalDuplicates([]ParsedTransaction{first, repeat})
	assert.True(t, duplicates[3])
	assert.False(t, duplicates[2])
}

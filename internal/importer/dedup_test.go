package importer_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/ledgerly/ledgerly/internal/importer"
	"github.com/ledgerly/ledgerly/internal/statement"
	"github.com/ledgerly/ledgerly/internal/transaction"
)

func existing(y, m, d int, desc, amount string, txType transaction.Type) *transaction.Transaction {
	return &transaction.Transaction{
		Date:        time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC),
		Description: desc,
		Amount:      decimal.RequireFromString(amount),
		Type:        txType,
	}
}

func TestDetector_ExactMatch(t *testing.T) {
	det := importer.NewDetector("2006-01-02", importer.DetectorOptions{})

	candidates := []statement.Transaction{
		row("2024-01-05", "Coffee Shop", "42.50", transaction.TypeDebit),
		row("2024-01-05", "Coffee Shop", "43.50", transaction.TypeDebit),  // amount off
		row("2024-01-06", "Coffee Shop", "42.50", transaction.TypeDebit),  // date off
		row("2024-01-05", "Coffee Shop", "42.50", transaction.TypeCredit), // type off
		row("2024-01-05", "Tea House", "42.50", transaction.TypeDebit),    // description off
	}

	stored := []*transaction.Transaction{
		existing(2024, 1, 5, "Coffee Shop", "42.50", transaction.TypeDebit),
	}

	dups := det.Detect(candidates, stored)

	assert.True(t, dups[0])
	assert.False(t, dups[1])
	assert.False(t, dups[2])
	assert.False(t, dups[3])
	assert.False(t, dups[4])
}

func TestDetector_DescriptionCaseAndWhitespace(t *testing.T) {
	det := importer.NewDetector("2006-01-02", importer.DetectorOptions{})

	candidates := []statement.Transaction{
		row("2024-01-05", "  coffee shop  ", "42.50", transaction.TypeDebit),
	}

	stored := []*transaction.Transaction{
		existing(2024, 1, 5, "COFFEE SHOP", "42.50", transaction.TypeDebit),
	}

	assert.True(t, det.Detect(candidates, stored)[0])
}

func TestDetector_AmountTolerance(t *testing.T) {
	det := importer.NewDetector("2006-01-02", importer.DetectorOptions{})

	candidates := []statement.Transaction{
		row("2024-01-05", "Coffee Shop", "42.51", transaction.TypeDebit), // within 0.01
		row("2024-01-05", "Coffee Shop", "42.52", transaction.TypeDebit), // beyond 0.01
	}

	stored := []*transaction.Transaction{
		existing(2024, 1, 5, "Coffee Shop", "42.50", transaction.TypeDebit),
	}

	dups := det.Detect(candidates, stored)
	assert.True(t, dups[0])
	assert.False(t, dups[1])
}

func TestDetector_DateTolerance(t *testing.T) {
	det := importer.NewDetector("2006-01-02", importer.DetectorOptions{DateToleranceDays: 2})

	candidates := []statement.Transaction{
		row("2024-01-07", "Coffee Shop", "42.50", transaction.TypeDebit), // 2 days, within
		row("2024-01-08", "Coffee Shop", "42.50", transaction.TypeDebit), // 3 days, beyond
	}

	stored := []*transaction.Transaction{
		existing(2024, 1, 5, "Coffee Shop", "42.50", transaction.TypeDebit),
	}

	dups := det.Detect(candidates, stored)
	assert.True(t, dups[0])
	assert.False(t, dups[1])
}

func TestDetector_FuzzyMatch(t *testing.T) {
	det := importer.NewDetector("2006-01-02", importer.DetectorOptions{FuzzyMatch: true})

	candidates := []statement.Transaction{
		row("2024-01-05", "STARBUCKS #4821", "8.40", transaction.TypeDebit),
		row("2024-01-05", "SHELL GAS", "8.40", transaction.TypeDebit),
	}

	stored := []*transaction.Transaction{
		existing(2024, 1, 5, "starbucks main st", "8.40", transaction.TypeDebit),
	}

	dups := det.Detect(candidates, stored)
	assert.True(t, dups[0], "reference-code suffix should fuzzy-match")
	assert.False(t, dups[1], "unrelated merchant must not match")
}

func TestDetector_FuzzyRequiresOtherFields(t *testing.T) {
	det := importer.NewDetector("2006-01-02", importer.DetectorOptions{FuzzyMatch: true})

	// Same normalized description but different amount: not a duplicate.
	candidates := []statement.Transaction{
		row("2024-01-05", "STARBUCKS #4821", "12.00", transaction.TypeDebit),
	}

	stored := []*transaction.Transaction{
		existing(2024, 1, 5, "STARBUCKS MAIN ST", "8.40", transaction.TypeDebit),
	}

	assert.Empty(t, det.Detect(candidates, stored))
}

func TestDetector_NoIntraBatchDetection(t *testing.T) {
	det := importer.NewDetector("2006-01-02", importer.DetectorOptions{})

	// Two identical candidates against an empty existing set: the detector
	// only compares against persisted data, so neither is flagged.
	candidates := []statement.Transaction{
		row("2024-01-05", "Coffee Shop", "42.50", transaction.TypeDebit),
		row("2024-01-05", "Coffee Shop", "42.50", transaction.TypeDebit),
	}

	assert.Empty(t, det.Detect(candidates, nil))
}

func TestDetector_UnparseableCandidateDateNeverMatches(t *testing.T) {
	det := importer.NewDetector("2006-01-02", importer.DetectorOptions{})

	candidates := []statement.Transaction{
		row("not-a-date", "Coffee Shop", "42.50", transaction.TypeDebit),
	}

	stored := []*transaction.Transaction{
		existing(2024, 1, 5, "Coffee Shop", "42.50", transaction.TypeDebit),
	}

	assert.Empty(t, det.Detect(candidates, stored))
}

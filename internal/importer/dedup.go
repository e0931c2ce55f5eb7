package importer

import (
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/ledgerly/ledgerly/internal/statement"
	"github.com/ledgerly/ledgerly/internal/transaction"
)

// amountTolerance absorbs float/rounding noise between statement exports and
// stored values, not business-level near matches.
var amountTolerance = decimal.New(1, -2) // 0.01

// DetectorOptions tune the duplicate equality rule.
type DetectorOptions struct {
	// FuzzyMatch switches description comparison from exact
	// (case-insensitive, trimmed) to normalized substring containment.
	FuzzyMatch bool

	// DateToleranceDays is the maximum whole-day difference for two
	// transactions to count as the same event. Zero means exact date.
	DateToleranceDays int
}

// Detector flags candidate rows that already exist in previously persisted
// data for the same account. It compares candidates only against the
// existing set, never against each other: two identical rows inside one
// batch are both treated as new.
type Detector struct {
	dateLayout string
	opts       DetectorOptions
}

func NewDetector(dateLayout string, opts DetectorOptions) *Detector {
	return &Detector{dateLayout: dateLayout, opts: opts}
}

// Detect returns the set of candidate indices that duplicate some existing
// transaction. A candidate matches when date proximity, amount tolerance,
// type, and description comparison all hold against any one existing row.
func (d *Detector) Detect(candidates []statement.Transaction, existing []*transaction.Transaction) map[int]bool {
	duplicates := make(map[int]bool)

	for i, candidate := range candidates {
		candidateDate, err := time.Parse(d.dateLayout, candidate.Date)
		if err != nil {
			// Unparseable dates never match anything; validation has its
			// own say about them.
			continue
		}

		for _, ex := range existing {
			if !d.matches(candidate, candidateDate, ex) {
				continue
			}

			duplicates[i] = true

			break
		}
	}

	return duplicates
}

func (d *Detector) matches(candidate statement.Transaction, candidateDate time.Time, ex *transaction.Transaction) bool {
	if daysApart(candidateDate, ex.Date) > d.opts.DateToleranceDays {
		return false
	}

	if candidate.Amount.Sub(ex.Amount).Abs().GreaterThan(amountTolerance) {
		return false
	}

	if candidate.Type != ex.Type {
		return false
	}

	if d.opts.FuzzyMatch {
		return fuzzyDescriptionMatch(candidate.Description, ex.Description)
	}

	return strings.EqualFold(
		strings.TrimSpace(candidate.Description),
		strings.TrimSpace(ex.Description),
	)
}

// fuzzyDescriptionMatch normalizes both descriptions and tests substring
// containment either way. This absorbs reference-code suffixes: "STARBUCKS
// #4821" and "STARBUCKS MAIN ST" normalize to "starbucks" and "starbucks
// main st", and the former is contained in the latter.
func fuzzyDescriptionMatch(a, b string) bool {
	na := normalizeDescription(a)
	nb := normalizeDescription(b)

	if na == "" || nb == "" {
		return na == nb
	}

	return strings.Contains(na, nb) || strings.Contains(nb, na)
}

// normalizeDescription lowercases, strips digits and punctuation, and
// collapses runs of whitespace to single spaces.
func normalizeDescription(s string) string {
	var b strings.Builder

	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

func daysApart(a, b time.Time) int {
	a = time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	b = time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)

	days := int(a.Sub(b).Hours() / 24)
	if days < 0 {
		days = -days
	}

	return days
}

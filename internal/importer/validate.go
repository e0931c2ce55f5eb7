package importer

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerly/ledgerly/internal/statement"
)

// RowIssue is one structural problem (or warning) on one parsed row.
// Row is zero-based; callers render "Row N+1" for users.
type RowIssue struct {
	Row     int
	Field   string
	Message string
}

// ValidationResult covers every row of a parsed statement. Warnings never
// affect IsValid.
type ValidationResult struct {
	IsValid  bool
	Errors   []RowIssue
	Warnings []RowIssue
}

// Validator checks parsed rows for structural correctness. Every rule is
// applied to every row; an earlier failure on a row never suppresses later
// checks on the same row.
type Validator struct {
	dateLayout     string
	largeAmount    decimal.Decimal
	maxDescription int
}

const (
	defaultLargeAmountThreshold = 10000
	defaultMaxDescriptionLength = 255
)

type ValidatorOption func(*Validator)

func WithLargeAmountThreshold(threshold decimal.Decimal) ValidatorOption {
	return func(v *Validator) { v.largeAmount = threshold }
}

func WithMaxDescriptionLength(n int) ValidatorOption {
	return func(v *Validator) { v.maxDescription = n }
}

func NewValidator(dateLayout string, opts ...ValidatorOption) *Validator {
	v := &Validator{
		dateLayout:     dateLayout,
		largeAmount:    decimal.NewFromInt(defaultLargeAmountThreshold),
		maxDescription: defaultMaxDescriptionLength,
	}

	for _, opt := range opts {
		opt(v)
	}

	return v
}

func (v *Validator) Validate(rows []statement.Transaction) *ValidationResult {
	result := &ValidationResult{}

	for i, row := range rows {
		if _, err := time.Parse(v.dateLayout, row.Date); err != nil {
			result.Errors = append(result.Errors, RowIssue{
				Row: i, Field: "date", Message: "Invalid date format",
			})
		}

		if strings.TrimSpace(row.Description) == "" {
			result.Errors = append(result.Errors, RowIssue{
				Row: i, Field: "description", Message: "Description is required",
			})
		}

		if row.Amount.Sign() <= 0 {
			result.Errors = append(result.Errors, RowIssue{
				Row: i, Field: "amount", Message: "Amount must be greater than zero",
			})
		}

		if !row.Type.Valid() {
			result.Errors = append(result.Errors, RowIssue{
				Row: i, Field: "type", Message: "Type must be debit or credit",
			})
		}

		if row.Amount.GreaterThan(v.largeAmount) {
			result.Warnings = append(result.Warnings, RowIssue{
				Row: i, Field: "amount", Message: "Large transaction amount - please verify",
			})
		}

		if len(row.Description) > v.maxDescription {
			result.Warnings = append(result.Warnings, RowIssue{
				Row: i, Field: "description", Message: "Description is very long and may be truncated",
			})
		}
	}

	result.IsValid = len(result.Errors) == 0

	return result
}

// Package importer implements the bank-statement import pipeline: account
// check, parse, validate, categorize, duplicate detection, persistence.
//
// Account, parse, and validation failures abort the whole run with nothing
// persisted. Persistence failures are per-row: one bad row never stops its
// siblings. That asymmetry is deliberate.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerly/ledgerly/internal/account"
	"github.com/ledgerly/ledgerly/internal/statement"
	"github.com/ledgerly/ledgerly/internal/transaction"
)

type FileType string

const (
	FileTypeCSV FileType = "csv"
	FileTypePDF FileType = "pdf"
)

// Config describes one import run.
type Config struct {
	BankAccountID uuid.UUID
	FileType      FileType

	// Mapping and DateFormat are parser configuration, passed through to
	// the statement parser. An empty DateFormat uses the service default.
	Mapping    statement.Mapping
	DateFormat string

	// SkipDuplicates toggles duplicate detection for the run.
	SkipDuplicates bool

	// Detector tuning, only consulted when SkipDuplicates is set.
	FuzzyMatch        bool
	DateToleranceDays int
}

// Result is the outcome of one import run. Success is true iff no error of
// any kind accumulated; duplicates are counted, not errors.
type Result struct {
	Success           bool
	ImportedCount     int
	DuplicatesSkipped int
	Errors            []string
	Transactions      []*transaction.Transaction
}

// Summary is a read-only report derived from a completed Result.
type Summary struct {
	TotalProcessed    int
	SuccessfulImports int
	DuplicatesSkipped int
	ErrorsCount       int
	CategorizedCount  int
	DateRange         DateRange
}

// DateRange holds the earliest and latest persisted transaction dates,
// formatted as dates; both are empty when nothing was imported.
type DateRange struct {
	Earliest string
	Latest   string
}

type Service struct {
	accounts      *account.Service
	repo          transaction.Repository
	parser        statement.Parser
	categorizer   *Categorizer
	dateFormat    string
	validatorOpts []ValidatorOption
}

type ServiceOption func(*Service)

// WithDateFormat sets the default date layout used when a run's Config does
// not carry one.
func WithDateFormat(layout string) ServiceOption {
	return func(s *Service) { s.dateFormat = layout }
}

// WithValidatorOptions forwards tuning to the per-run validator.
func WithValidatorOptions(opts ...ValidatorOption) ServiceOption {
	return func(s *Service) { s.validatorOpts = opts }
}

func NewService(accounts *account.Service, repo transaction.Repository, parser statement.Parser, categorizer *Categorizer, opts ...ServiceOption) *Service {
	s := &Service{
		accounts:    accounts,
		repo:        repo,
		parser:      parser,
		categorizer: categorizer,
		dateFormat:  time.DateOnly,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Import runs one import. It never returns an error: every failure path is
// reported through the Result, and a panic anywhere in the pipeline is
// converted into a failed result rather than escaping to the caller.
func (s *Service) Import(ctx context.Context, contents string, cfg Config) (result *Result) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("import run panicked", "panic", r, "account_id", cfg.BankAccountID)
			result = &Result{Errors: []string{fmt.Sprintf("Import failed: %v", r)}}
		}
	}()

	return s.run(ctx, contents, cfg)
}

func (s *Service) run(ctx context.Context, contents string, cfg Config) *Result {
	result := &Result{}

	acct, err := s.accounts.Lookup(ctx, cfg.BankAccountID)
	switch {
	case errors.Is(err, account.ErrNotFound):
		result.Errors = append(result.Errors, "Bank account not found or inactive")
		return result
	case err != nil:
		result.Errors = append(result.Errors, fmt.Sprintf("Account lookup failed: %v", err))
		return result
	case !acct.IsActive:
		result.Errors = append(result.Errors, "Bank account not found or inactive")
		return result
	}

	if cfg.FileType != FileTypeCSV {
		result.Errors = append(result.Errors, "PDF import not yet implemented")
		return result
	}

	layout := cfg.DateFormat
	if layout == "" {
		layout = s.dateFormat
	}

	parsed, err := s.parser.Parse(strings.NewReader(contents), cfg.Mapping, layout)
	if err != nil {
		var parseErr *statement.ParseError
		if errors.As(err, &parseErr) {
			result.Errors = append(result.Errors, parseErr.Errors...)
		} else {
			result.Errors = append(result.Errors, err.Error())
		}

		return result
	}

	for _, w := range parsed.Warnings {
		slog.Warn("statement parser note", "account_id", cfg.BankAccountID, "note", w)
	}

	validation := NewValidator(layout, s.validatorOpts...).Validate(parsed.Transactions)
	if !validation.IsValid {
		for _, e := range validation.Errors {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %s - %s", e.Row+1, e.Field, e.Message))
		}

		return result
	}

	for _, w := range validation.Warnings {
		slog.Warn("statement validation warning",
			"account_id", cfg.BankAccountID, "row", w.Row+1, "field", w.Field, "message", w.Message)
	}

	rows := s.categorizer.Apply(parsed.Transactions)

	toImport := rows

	if cfg.SkipDuplicates {
		existing, err := s.repo.ListByAccount(ctx, cfg.BankAccountID, transaction.ListFilter{})
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Failed to load existing transactions: %v", err))
			return result
		}

		detector := NewDetector(layout, DetectorOptions{
			FuzzyMatch:        cfg.FuzzyMatch,
			DateToleranceDays: cfg.DateToleranceDays,
		})

		duplicates := detector.Detect(rows, existing)

		toImport = make([]statement.Transaction, 0, len(rows))

		for i, row := range rows {
			if duplicates[i] {
				result.DuplicatesSkipped++
				continue
			}

			toImport = append(toImport, row)
		}
	}

	// Best-effort persistence: a failed row is recorded and skipped, and
	// already-saved rows stay saved.
	for _, row := range toImport {
		date, err := time.Parse(layout, row.Date)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Failed to save transaction: %s - %v", row.Description, err))
			continue
		}

		tx := &transaction.Transaction{
			BankAccountID: cfg.BankAccountID,
			UserID:        acct.UserID,
			Date:          date,
			Description:   row.Description,
			Reference:     row.Reference,
			Amount:        row.Amount,
			Type:          row.Type,
			Balance:       row.Balance,
			Category:      row.Category,
			Merchant:      row.Merchant,
		}

		if err := s.repo.CreateTransaction(ctx, tx); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Failed to save transaction: %s - %v", row.Description, err))
			continue
		}

		result.Transactions = append(result.Transactions, tx)
		result.ImportedCount++
	}

	result.Success = len(result.Errors) == 0

	return result
}

// Summarize derives the report for a completed import run.
func Summarize(result *Result) Summary {
	summary := Summary{
		TotalProcessed:    result.ImportedCount + result.DuplicatesSkipped,
		SuccessfulImports: result.ImportedCount,
		DuplicatesSkipped: result.DuplicatesSkipped,
		ErrorsCount:       len(result.Errors),
	}

	for _, tx := range result.Transactions {
		if tx.Category != "" {
			summary.CategorizedCount++
		}
	}

	if len(result.Transactions) == 0 {
		return summary
	}

	earliest := result.Transactions[0].Date
	latest := result.Transactions[0].Date

	for _, tx := range result.Transactions[1:] {
		if tx.Date.Before(earliest) {
			earliest = tx.Date
		}

		if tx.Date.After(latest) {
			latest = tx.Date
		}
	}

	summary.DateRange = DateRange{
		Earliest: earliest.Format(time.DateOnly),
		Latest:   latest.Format(time.DateOnly),
	}

	return summary
}

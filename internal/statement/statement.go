// Package statement defines the parsed form of a bank statement and the
// parser contract the import engine consumes. The engine itself only depends
// on the Parser interface; CSVParser is the shipped implementation.
package statement

import (
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ledgerly/ledgerly/internal/transaction"
)

// Transaction is one candidate row produced by a statement parser. The date
// is kept as the raw string from the file; the validator is responsible for
// checking it against the configured layout.
type Transaction struct {
	Date        string
	Description string
	Reference   string
	Amount      decimal.Decimal // positive magnitude, direction in Type
	Type        transaction.Type
	Balance     *decimal.Decimal
	Category    string // empty until the categorizer runs
	Merchant    string
}

// Mapping tells the CSV parser which header names carry which fields.
// Either Amount (single signed column) or Debit/Credit (split columns) must
// be set. Type is optional; without it the direction comes from the amount
// sign or from which split column is populated.
type Mapping struct {
	Date        string
	Description string
	Amount      string
	Debit       string
	Credit      string
	Type        string
	Reference   string
	Balance     string
	Merchant    string

	// Delimiter defaults to ',' when zero.
	Delimiter rune
}

// ParseResult carries the parsed rows plus non-fatal notes about rows the
// parser skipped (footers, blanks, short rows).
type ParseResult struct {
	Transactions []Transaction
	Warnings     []string
}

// ParseError aggregates row-scoped parse failures. The import engine passes
// Errors through verbatim into its result.
type ParseError struct {
	Errors []string
}

func (e *ParseError) Error() string {
	return "parsing statement: " + strings.Join(e.Errors, "; ")
}

//go:generate mockgen -source=statement.go -destination=parser_mock.go -package=statement
type Parser interface {
	Parse(r io.Reader, mapping Mapping, dateLayout string) (*ParseResult, error)
}

package statement

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	enc "github.com/ledgerly/ledgerly/internal/encoding"
	"github.com/ledgerly/ledgerly/internal/transaction"
)

// CSVParser reads bank CSV exports using a header-name column mapping.
// Decorative rows before the header (account metadata, balances) are
// tolerated by scanning for the first row that carries the mapped columns.
type CSVParser struct{}

func NewCSVParser() *CSVParser {
	return &CSVParser{}
}

// colIndex maps trimmed header names to their position in the row.
type colIndex map[string]int

func (p *CSVParser) Parse(r io.Reader, mapping Mapping, dateLayout string) (*ParseResult, error) {
	if mapping.Date == "" || mapping.Description == "" {
		return nil, &ParseError{Errors: []string{"mapping must name date and description columns"}}
	}

	if mapping.Amount == "" && mapping.Debit == "" && mapping.Credit == "" {
		return nil, &ParseError{Errors: []string{"mapping must name an amount column or debit/credit columns"}}
	}

	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, &ParseError{Errors: []string{fmt.Sprintf("detect encoding: %v", err)}}
	}

	reader := csv.NewReader(utf8r)

	reader.Comma = ','
	if mapping.Delimiter != 0 {
		reader.Comma = mapping.Delimiter
	}

	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, &ParseError{Errors: []string{fmt.Sprintf("read csv: %v", err)}}
	}

	cols, headerIdx, ok := findHeader(rows, mapping)
	if !ok {
		return nil, &ParseError{Errors: []string{
			fmt.Sprintf("no header row found matching columns %q and %q", mapping.Date, mapping.Description),
		}}
	}

	return parseRows(rows[headerIdx+1:], headerIdx+1, cols, mapping, dateLayout)
}

// findHeader scans for the first row that contains the mapped date and
// description columns plus at least one amount-carrying column.
func findHeader(rows [][]string, mapping Mapping) (colIndex, int, bool) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.TrimSpace(cell)
			if name != "" {
				cols[name] = i
			}
		}

		_, hasDate := cols[mapping.Date]
		_, hasDesc := cols[mapping.Description]

		if hasDate && hasDesc && hasAmountColumn(cols, mapping) {
			return cols, rowIdx, true
		}
	}

	return nil, 0, false
}

func hasAmountColumn(cols colIndex, mapping Mapping) bool {
	if _, ok := cols[mapping.Amount]; ok && mapping.Amount != "" {
		return true
	}

	if _, ok := cols[mapping.Debit]; ok && mapping.Debit != "" {
		return true
	}

	if _, ok := cols[mapping.Credit]; ok && mapping.Credit != "" {
		return true
	}

	return false
}

// parseRows extracts candidate transactions from the data rows below the
// header. headerRowNum is the 0-based header index in the original file, so
// reported row numbers match what a user sees in a spreadsheet.
func parseRows(rows [][]string, headerRowNum int, cols colIndex, mapping Mapping, dateLayout string) (*ParseResult, error) {
	result := &ParseResult{}

	var parseErrs []string

	for i, row := range rows {
		rowNum := headerRowNum + i + 1 // 1-based file row

		if blankRow(row) {
			continue
		}

		date := cell(row, cols, mapping.Date)
		desc := cell(row, cols, mapping.Description)

		// Footer rows (page markers, closing balances) carry text but no
		// parseable date and no amount. Skip them with a note instead of
		// failing the whole file.
		if isFooterRow(row, cols, mapping, date, dateLayout) {
			result.Warnings = append(result.Warnings, fmt.Sprintf("row %d: not a transaction row, skipped", rowNum))
			continue
		}

		tx := Transaction{
			Date:        date,
			Description: desc,
			Reference:   cell(row, cols, mapping.Reference),
			Merchant:    cell(row, cols, mapping.Merchant),
		}

		if err := parseRowAmount(&tx, row, cols, mapping); err != nil {
			parseErrs = append(parseErrs, fmt.Sprintf("row %d: %v", rowNum, err))
			continue
		}

		if s := cell(row, cols, mapping.Balance); s != "" {
			if b, err := parseAmount(s); err == nil {
				tx.Balance = &b
			}
		}

		result.Transactions = append(result.Transactions, tx)
	}

	if len(parseErrs) > 0 {
		return nil, &ParseError{Errors: parseErrs}
	}

	return result, nil
}

// parseRowAmount fills Amount and Type from either the single signed amount
// column or the split debit/credit columns.
func parseRowAmount(tx *Transaction, row []string, cols colIndex, mapping Mapping) error {
	if mapping.Amount != "" {
		s := cell(row, cols, mapping.Amount)
		if s == "" {
			return fmt.Errorf("missing amount")
		}

		amount, err := parseAmount(s)
		if err != nil {
			return fmt.Errorf("invalid amount %q", s)
		}

		if typeCell := cell(row, cols, mapping.Type); typeCell != "" {
			// Explicit type column: keep the amount as parsed so the
			// validator can reject negative magnitudes.
			tx.Type = transaction.Type(strings.ToLower(typeCell))
			tx.Amount = amount

			return nil
		}

		// Sign carries the direction.
		if amount.Sign() < 0 {
			tx.Type = transaction.TypeDebit
			tx.Amount = amount.Neg()
		} else {
			tx.Type = transaction.TypeCredit
			tx.Amount = amount
		}

		return nil
	}

	if s := cell(row, cols, mapping.Debit); s != "" {
		amount, err := parseAmount(s)
		if err != nil {
			return fmt.Errorf("invalid debit amount %q", s)
		}

		tx.Type = transaction.TypeDebit
		tx.Amount = amount.Abs()

		return nil
	}

	if s := cell(row, cols, mapping.Credit); s != "" {
		amount, err := parseAmount(s)
		if err != nil {
			return fmt.Errorf("invalid credit amount %q", s)
		}

		tx.Type = transaction.TypeCredit
		tx.Amount = amount.Abs()

		return nil
	}

	return fmt.Errorf("missing amount")
}

// isFooterRow reports whether a non-blank row carries neither a date the
// layout accepts nor any amount value.
func isFooterRow(row []string, cols colIndex, mapping Mapping, date, dateLayout string) bool {
	if date != "" && dateLayout != "" {
		if _, err := time.Parse(dateLayout, date); err == nil {
			return false
		}
	}

	for _, name := range []string{mapping.Amount, mapping.Debit, mapping.Credit} {
		if name == "" {
			continue
		}

		if s := cell(row, cols, name); s != "" {
			return false
		}
	}

	return true
}

// parseAmount parses an amount accepting both "1,234.56" and European
// "1.234,56" styles.
func parseAmount(s string) (decimal.Decimal, error) {
	clean := strings.ReplaceAll(strings.TrimSpace(s), " ", "")

	lastDot := strings.LastIndex(clean, ".")
	lastComma := strings.LastIndex(clean, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0 && lastComma > lastDot:
		// European: dot groups thousands, comma is the decimal separator.
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	case lastComma >= 0 && lastDot < 0:
		clean = strings.ReplaceAll(clean, ",", ".")
	default:
		clean = strings.ReplaceAll(clean, ",", "")
	}

	return decimal.NewFromString(clean)
}

func cell(row []string, cols colIndex, name string) string {
	if name == "" {
		return ""
	}

	idx, ok := cols[name]
	if !ok || idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}

	return true
}

package statement_test

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerly/ledgerly/internal/statement"
	"github.com/ledgerly/ledgerly/internal/transaction"
)

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCSVParser_SignedAmountColumn(t *testing.T) {
	csv := `Date,Description,Amount,Balance
2024-01-05,COFFEE SHOP #12,-4.50,995.50
2024-01-06,PAYROLL ACME INC,2500.00,3495.50
`

	p := statement.NewCSVParser()
	result, err := p.Parse(strings.NewReader(csv), statement.Mapping{
		Date:        "Date",
		Description: "Description",
		Amount:      "Amount",
		Balance:     "Balance",
	}, "2006-01-02")
	require.NoError(t, err)
	require.Len(t, result.Transactions, 2)

	assert.Equal(t, "2024-01-05", result.Transactions[0].Date)
	assert.Equal(t, "COFFEE SHOP #12", result.Transactions[0].Description)
	assert.True(t, result.Transactions[0].Amount.Equal(amount("4.50")))
	assert.Equal(t, transaction.TypeDebit, result.Transactions[0].Type)
	require.NotNil(t, result.Transactions[0].Balance)
	assert.True(t, result.Transactions[0].Balance.Equal(amount("995.50")))

	assert.Equal(t, transaction.TypeCredit, result.Transactions[1].Type)
	assert.True(t, result.Transactions[1].Amount.Equal(amount("2500.00")))
}

func TestCSVParser_SplitDebitCredit(t *testing.T) {
	csv := `Statement for account 0000-1
Period;01-01-2024 to 31-01-2024

Date;Description;Debit;Credit
05-01-2024;SUPERMARKET;42,50;
09-01-2024;WIRE IN;;1.200,00
 ;Page 1/1; ;
`

	p := statement.NewCSVParser()
	result, err := p.Parse(strings.NewReader(csv), statement.Mapping{
		Date:        "Date",
		Description: "Description",
		Debit:       "Debit",
		Credit:      "Credit",
		Delimiter:   ';',
	}, "02-01-2006")
	require.NoError(t, err)
	require.Len(t, result.Transactions, 2)

	assert.Equal(t, transaction.TypeDebit, result.Transactions[0].Type)
	assert.True(t, result.Transactions[0].Amount.Equal(amount("42.50")))

	assert.Equal(t, transaction.TypeCredit, result.Transactions[1].Type)
	assert.True(t, result.Transactions[1].Amount.Equal(amount("1200.00")))

	// The page footer is skipped with a warning, not an error.
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "skipped")
}

func TestCSVParser_TypeColumnKeepsSign(t *testing.T) {
	// With an explicit type column the parser must not absorb a negative
	// sign into the direction; the validator rejects it later.
	csv := `Date,Description,Amount,Type
2024-01-05,REFUND GONE WRONG,-12.00,credit
`

	p := statement.NewCSVParser()
	result, err := p.Parse(strings.NewReader(csv), statement.Mapping{
		Date:        "Date",
		Description: "Description",
		Amount:      "Amount",
		Type:        "Type",
	}, "2006-01-02")
	require.NoError(t, err)
	require.Len(t, result.Transactions, 1)

	assert.Equal(t, transaction.TypeCredit, result.Transactions[0].Type)
	assert.True(t, result.Transactions[0].Amount.Equal(amount("-12.00")))
}

func TestCSVParser_InvalidAmountIsParseError(t *testing.T) {
	csv := `Date,Description,Amount
2024-01-05,COFFEE,not-a-number
2024-01-06,LUNCH,abc
`

	p := statement.NewCSVParser()
	result, err := p.Parse(strings.NewReader(csv), statement.Mapping{
		Date:        "Date",
		Description: "Description",
		Amount:      "Amount",
	}, "2006-01-02")
	require.Error(t, err)
	assert.Nil(t, result)

	var parseErr *statement.ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Len(t, parseErr.Errors, 2)
	assert.Contains(t, parseErr.Errors[0], "row 2")
	assert.Contains(t, parseErr.Errors[1], "row 3")
}

func TestCSVParser_NoHeader(t *testing.T) {
	csv := "just,some,unrelated,content\n1,2,3,4\n"

	p := statement.NewCSVParser()
	_, err := p.Parse(strings.NewReader(csv), statement.Mapping{
		Date:        "Date",
		Description: "Description",
		Amount:      "Amount",
	}, "2006-01-02")

	var parseErr *statement.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Errors[0], "no header row")
}

func TestCSVParser_MappingRequired(t *testing.T) {
	p := statement.NewCSVParser()

	_, err := p.Parse(strings.NewReader("Date,Amount\n"), statement.Mapping{Date: "Date"}, "2006-01-02")
	require.Error(t, err)

	_, err = p.Parse(strings.NewReader("Date,Description\n"), statement.Mapping{
		Date:        "Date",
		Description: "Description",
	}, "2006-01-02")
	require.Error(t, err)
}

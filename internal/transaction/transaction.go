package transaction

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("transaction not found")

// Type represents the direction of a bank transaction.
type Type string

const (
	TypeDebit  Type = "debit"
	TypeCredit Type = "credit"
)

// Valid reports whether t is one of the known transaction types.
func (t Type) Valid() bool {
	return t == TypeDebit || t == TypeCredit
}

// Transaction is a persisted bank transaction. Amounts are positive
// magnitudes; the direction is carried by Type, never by the sign.
type Transaction struct {
	ID            uuid.UUID
	BankAccountID uuid.UUID
	UserID        uuid.UUID
	Date          time.Time
	Description   string
	Reference     string
	Amount        decimal.Decimal
	Type          Type
	Balance       *decimal.Decimal // running balance as reported by the statement, if any
	Category      string           // empty means uncategorized
	Merchant      string
	IsReconciled  bool
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

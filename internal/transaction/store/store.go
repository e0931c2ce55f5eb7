package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerly/ledgerly/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectColumns = `
	id, bank_account_id, user_id, date, description, reference, amount, type,
	balance, category, merchant, is_reconciled, notes, created_at, updated_at
`

// scanTransaction reads one bank transaction row in selectColumns order.
func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var tx transaction.Transaction

	var (
		typeStr   string
		reference sql.NullString
		balance   sql.NullString
		category  sql.NullString
		merchant  sql.NullString
		notes     sql.NullString
	)

	if err := s.Scan(
		&tx.ID, &tx.BankAccountID, &tx.UserID, &tx.Date, &tx.Description,
		&reference, &tx.Amount, &typeStr, &balance, &category, &merchant,
		&tx.IsReconciled, &notes, &tx.CreatedAt, &tx.UpdatedAt,
	); err != nil {
		return nil, err
	}

	tx.Type = transaction.Type(typeStr)
	tx.Reference = reference.String
	tx.Category = category.String
	tx.Merchant = merchant.String
	tx.Notes = notes.String

	if balance.Valid {
		b, err := decimal.NewFromString(balance.String)
		if err != nil {
			return nil, fmt.Errorf("parsing balance: %w", err)
		}

		tx.Balance = &b
	}

	return &tx, nil
}

func (s *Store) CreateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	query := `
		INSERT INTO bank_transactions
			(bank_account_id, user_id, date, description, reference, amount, type,
			 balance, category, merchant, is_reconciled, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	var balance any
	if tx.Balance != nil {
		balance = tx.Balance.String()
	}

	err := s.db.QueryRowContext(ctx, query,
		tx.BankAccountID,
		tx.UserID,
		tx.Date,
		tx.Description,
		nullable(tx.Reference),
		tx.Amount,
		tx.Type,
		balance,
		nullable(tx.Category),
		nullable(tx.Merchant),
		tx.IsReconciled,
		nullable(tx.Notes),
	).Scan(&tx.ID, &tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}

	return nil
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	query := `SELECT ` + selectColumns + ` FROM bank_transactions WHERE id = $1`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return tx, nil
}

func (s *Store) ListByAccount(ctx context.Context, accountID uuid.UUID, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	query := `SELECT ` + selectColumns + ` FROM bank_transactions WHERE bank_account_id = $1`

	args := []any{accountID}
	argIdx := 2

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	query += " ORDER BY date ASC, created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transactions: %w", err)
	}

	return txs, nil
}

func (s *Store) SetReconciled(ctx context.Context, id uuid.UUID, reconciled bool) error {
	query := `UPDATE bank_transactions SET is_reconciled = $2, updated_at = NOW() WHERE id = $1`

	res, err := s.db.ExecContext(ctx, query, id, reconciled)
	if err != nil {
		return fmt.Errorf("updating reconciled flag: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}

	if affected == 0 {
		return transaction.ErrNotFound
	}

	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}

	return s
}

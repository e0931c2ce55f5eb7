package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/ledgerly/ledgerly/internal/account"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const selectColumns = `
	id, user_id, name, institution, currency, is_active, created_at, updated_at
`

func (s *Store) GetAccount(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	query := `SELECT ` + selectColumns + ` FROM bank_accounts WHERE id = $1`

	var acct account.Account

	var institution sql.NullString

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&acct.ID, &acct.UserID, &acct.Name, &institution, &acct.Currency,
		&acct.IsActive, &acct.CreatedAt, &acct.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, account.ErrNotFound
		}

		return nil, fmt.Errorf("getting account: %w", err)
	}

	acct.Institution = institution.String

	return &acct, nil
}

func (s *Store) ListAccounts(ctx context.Context) ([]*account.Account, error) {
	query := `SELECT ` + selectColumns + ` FROM bank_accounts ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*account.Account

	for rows.Next() {
		var acct account.Account

		var institution sql.NullString

		if err := rows.Scan(
			&acct.ID, &acct.UserID, &acct.Name, &institution, &acct.Currency,
			&acct.IsActive, &acct.CreatedAt, &acct.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}

		acct.Institution = institution.String
		accounts = append(accounts, &acct)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating accounts: %w", err)
	}

	return accounts, nil
}

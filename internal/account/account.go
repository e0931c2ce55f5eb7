package account

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("account not found")

// Account is a bank account that statements are imported into. Lifecycle
// management (creation, deactivation) happens outside the import engine;
// here an account only needs to exist and be active to receive imports.
type Account struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Name        string
	Institution string
	Currency    string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

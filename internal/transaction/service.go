package transaction

import (
	"context"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID, filter ListFilter) ([]*Transaction, error)
	SetReconciled(ctx context.Context, id uuid.UUID, reconciled bool) error
}

type ListFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *Service) ListByAccount(ctx context.Context, accountID uuid.UUID, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListByAccount(ctx, accountID, filter)
}

func (s *Service) SetReconciled(ctx context.Context, id uuid.UUID, reconciled bool) error {
	return s.repo.SetReconciled(ctx, id, reconciled)
}

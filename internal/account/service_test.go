package account_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ledgerly/ledgerly/internal/account"
)

func TestService_Lookup(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()
	acct := &account.Account{ID: id, Name: "Checking", IsActive: true}

	repo := account.NewMockRepository(ctrl)
	repo.EXPECT().GetAccount(gomock.Any(), id).Return(acct, nil)

	svc := account.NewService(repo)

	got, err := svc.Lookup(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, acct, got)
}

func TestService_Lookup_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()

	repo := account.NewMockRepository(ctrl)
	repo.EXPECT().GetAccount(gomock.Any(), id).Return(nil, account.ErrNotFound)

	svc := account.NewService(repo)

	_, err := svc.Lookup(context.Background(), id)
	assert.ErrorIs(t, err, account.ErrNotFound)
}

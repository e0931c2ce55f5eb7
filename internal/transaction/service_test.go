package transaction_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/ledgerly/ledgerly/internal/transaction"
)

func TestService_ListByAccount(t *testing.T) {
	type testCase struct {
		name      string
		setupMock func(m *transaction.MockRepository, accountID uuid.UUID)
		wantLen   int
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Success",
			setupMock: func(m *transaction.MockRepository, accountID uuid.UUID) {
				m.EXPECT().
					ListByAccount(gomock.Any(), accountID, transaction.ListFilter{}).
					Return([]*transaction.Transaction{
						{ID: uuid.New()},
						{ID: uuid.New()},
					}, nil)
			},
			wantLen: 2,
			wantErr: false,
		},
		{
			name: "Error",
			setupMock: func(m *transaction.MockRepository, accountID uuid.UUID) {
				m.EXPECT().
					ListByAccount(gomock.Any(), accountID, transaction.ListFilter{}).
					Return(nil, errors.New("list error"))
			},
			wantLen: 0,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			accountID := uuid.New()

			repo := transaction.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo, accountID)
			}

			svc := transaction.NewService(repo)
			got, err := svc.ListByAccount(context.Background(), accountID, transaction.ListFilter{})

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
		})
	}
}

func TestService_SetReconciled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()

	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().SetReconciled(gomock.Any(), id, true).Return(nil)

	svc := transaction.NewService(repo)
	assert.NoError(t, svc.SetReconciled(context.Background(), id, true))
}

func TestType_Valid(t *testing.T) {
	assert.True(t, transaction.TypeDebit.Valid())
	assert.True(t, transaction.TypeCredit.Valid())
	assert.False(t, transaction.Type("transfer").Valid())
	assert.False(t, transaction.Type("").Valid())
}

func TestService_Get_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()

	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().GetTransaction(gomock.Any(), id).Return(nil, transaction.ErrNotFound)

	svc := transaction.NewService(repo)

	_, err := svc.Get(context.Background(), id)
	assert.ErrorIs(t, err, transaction.ErrNotFound)
}

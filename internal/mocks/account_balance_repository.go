package mocks

import (
	"context"

	"github.com/dukasoft/shop-services/reconciler/internal/model"
	"github.com/stretchr/testify/mock"
)

type AccountBalanceRepository struct {
	mock.Mock
}

func (m *AccountBalanceRepository) Create(ctx context.Context, ab *model.AccountBalance) error {
	args := m.Called(ctx, ab)
	return args.Error(0)
}

func (m *AccountBalanceRepository) GetByAccountID(accountID string) (model.AccountBalance, error) {
	args := m.Called(accountID)
	return args.Get(0).(model.AccountBalance), args.Error(1)
}

func (m *AccountBalanceRepository) IncrementBalance(ctx context.Context, accountID string, credits int64) error {
	args := m.Called(ctx, accountID, credits)
	return args.Error(0)
}

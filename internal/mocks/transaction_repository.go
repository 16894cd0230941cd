package mocks

import (
	"context"

	"github.com/dukasoft/shop-services/reconciler/internal/model"
	"github.com/stretchr/testify/mock"
)

type TransactionRepository struct {
	mock.Mock
}

func (m *TransactionRepository) Create(ctx context.Context, tx *model.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *TransactionRepository) GetByMerchantReference(ref string) (*model.Transaction, error) {
	args := m.Called(ref)

	var tx *model.Transaction
	if args.Get(0) != nil {
		tx = args.Get(0).(*model.Transaction)
	}

	return tx, args.Error(1)
}

func (m *TransactionRepository) GetPending() ([]model.Transaction, error) {
	args := m.Called()

	var txs []model.Transaction
	if args.Get(0) != nil {
		txs = args.Get(0).([]model.Transaction)
	}

	return txs, args.Error(1)
}

func (m *TransactionRepository) TransitionStatus(ctx context.Context, id int64, from, to model.TxStatus) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}

package mocks

import (
	"context"

	"github.com/dukasoft/shop-services/reconciler/pkg/pesapal"
	"github.com/stretchr/testify/mock"
)

type PesapalClient struct {
	mock.Mock
}

func (m *PesapalClient) RequestToken(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *PesapalClient) GetTransactionStatus(ctx context.Context, orderTrackingID string) (pesapal.TransactionStatusResponse, error) {
	args := m.Called(ctx, orderTrackingID)
	return args.Get(0).(pesapal.TransactionStatusResponse), args.Error(1)
}

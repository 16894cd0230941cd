package mocks

import (
	"context"

	"github.com/dukasoft/shop-services/reconciler/internal/service"
	"github.com/stretchr/testify/mock"
)

type ReconcilerService struct {
	mock.Mock
}

func (m *ReconcilerService) Reconcile(ctx context.Context, cmd service.ReconcileCommand) (service.ReconcileResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(service.ReconcileResult), args.Error(1)
}

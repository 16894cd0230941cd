package mocks

import (
	"context"

	"github.com/dukasoft/shop-services/reconciler/internal/publishers"
	"github.com/stretchr/testify/mock"
)

type CompletedPublisher struct {
	mock.Mock
}

func (m *CompletedPublisher) PublishCompleted(ctx context.Context, event publishers.CompletedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

package publishers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dukasoft/shop-services/reconciler/pkg/mq"
	"go.uber.org/zap"
)

const CompletedQueue = "payments.completed"

type CompletedEvent struct {
	MerchantReference string    `json:"merchant_reference"`
	AccountID         string    `json:"account_id"`
	Amount            int64     `json:"amount"`
	CreditsAwarded    int64     `json:"credits_awarded"`
	CompletedAt       time.Time `json:"completed_at"`
}

type CompletedPublisher interface {
	PublishCompleted(ctx context.Context, event CompletedEvent) error
}

type completedPublisher struct {
	publisher mq.Publisher
	logger    *zap.Logger
}

func NewCompletedPublisher(publisher mq.Publisher, logger *zap.Logger) CompletedPublisher {
	return &completedPublisher{publisher: publisher, logger: logger}
}

func (p *completedPublisher) PublishCompleted(ctx context.Context, event CompletedEvent) error {
	if event.CompletedAt.IsZero() {
		event.CompletedAt = time.Now()
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if err := p.publisher.Publish(ctx, "", CompletedQueue, body); err != nil {
		return err
	}

	p.logger.Debug("Completion event published",
		zap.String("merchantReference", event.MerchantReference),
		zap.String("queue", CompletedQueue))

	return nil
}

package service

import (
	"context"
	"time"

	"github.com/dukasoft/shop-services/reconciler/internal/config"
	"github.com/dukasoft/shop-services/reconciler/internal/repository"
	"github.com/dukasoft/shop-services/reconciler/pkg/pesapal"
	"go.uber.org/zap"
)

type GatewaySyncService interface {
	GetStatus(ctx context.Context, trackingID string) (RawStatus, error)
	WaitForFinalStatus(ctx context.Context, trackingID string) (*RawStatus, error)
	SyncAllPending(ctx context.Context) (SweepReport, error)
}

type gatewaySync struct {
	gateway         pesapal.Client
	transactionRepo repository.TransactionRepository
	reconciler      ReconcilerService
	maxAttempts     int
	interval        time.Duration
	logger          *zap.Logger
}

func NewGatewaySyncService(gateway pesapal.Client, transactionRepo repository.TransactionRepository,
	reconciler ReconcilerService, cfg *config.Config, logger *zap.Logger) GatewaySyncService {
	return &gatewaySync{
		gateway:         gateway,
		transactionRepo: transactionRepo,
		reconciler:      reconciler,
		maxAttempts:     cfg.Poll.MaxAttempts,
		interval:        cfg.Poll.Interval,
		logger:          logger,
	}
}

func (g *gatewaySync) GetStatus(ctx context.Context, trackingID string) (RawStatus, error) {
	resp, err := g.gateway.GetTransactionStatus(ctx, trackingID)
	if err != nil {
		g.logger.Warn("Gateway status lookup failed",
			zap.String("trackingID", trackingID),
			zap.Error(err))
		return RawStatus{}, NewServiceError(ErrCodeGatewayError, err)
	}

	return RawStatusFromResponse(resp), nil
}

// WaitForFinalStatus polls the gateway until it reports a terminal outcome or
// the attempt budget runs out. A nil result with nil error means the payment
// is still undetermined; callers must treat that as "retry later", never as
// failure. The watchdog sweep is the backstop.
func (g *gatewaySync) WaitForFinalStatus(ctx context.Context, trackingID string) (*RawStatus, error) {
	var lastErr error
	sawStatus := false

	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		resp, err := g.gateway.GetTransactionStatus(ctx, trackingID)
		if err != nil {
			g.logger.Debug("Status poll attempt failed",
				zap.String("trackingID", trackingID),
				zap.Int("attempt", attempt),
				zap.Error(err))
			lastErr = err
		} else {
			sawStatus = true
			raw := RawStatusFromResponse(resp)
			if MapStatus(raw) != OutcomePending {
				return &raw, nil
			}
		}

		if attempt == g.maxAttempts {
			break
		}

		select {
		case <-time.After(g.interval):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if lastErr != nil && !sawStatus {
		return nil, NewServiceError(ErrCodeGatewayError, lastErr)
	}

	g.logger.Info("Payment still pending after poll budget",
		zap.String("trackingID", trackingID),
		zap.Int("maxAttempts", g.maxAttempts))

	return nil, nil
}

// SyncAllPending walks every pending transaction and reconciles it against the
// gateway's authoritative status. Failures are isolated per transaction: one
// bad record never aborts the sweep.
func (g *gatewaySync) SyncAllPending(ctx context.Context) (SweepReport, error) {
	pending, err := g.transactionRepo.GetPending()
	if err != nil {
		return SweepReport{}, NewServiceError(ErrCodeDatabase, err)
	}

	report := SweepReport{StartedAt: time.Now(), Details: make([]SweepDetail, 0, len(pending))}

	for _, tx := range pending {
		detail := SweepDetail{MerchantReference: tx.MerchantReference}

		if tx.GatewayTrackingID == nil || *tx.GatewayTrackingID == "" {
			g.logger.Warn("Pending transaction has no gateway tracking id, cannot resolve",
				zap.String("merchantReference", tx.MerchantReference))
			detail.Error = "missing gateway tracking id"
			report.Unresolvable++
			report.Details = append(report.Details, detail)
			continue
		}

		resp, err := g.gateway.GetTransactionStatus(ctx, *tx.GatewayTrackingID)
		if err != nil {
			g.logger.Warn("Sweep status lookup failed",
				zap.String("merchantReference", tx.MerchantReference),
				zap.String("trackingID", *tx.GatewayTrackingID),
				zap.Error(err))
			detail.Error = err.Error()
			report.Failed++
			report.Details = append(report.Details, detail)
			continue
		}

		cmd := ReconcileCommand{MerchantReference: tx.MerchantReference, RawStatus: RawStatusFromResponse(resp)}

		result, err := g.reconciler.Reconcile(ctx, cmd)
		if err != nil {
			g.logger.Error("Sweep reconciliation failed",
				zap.String("merchantReference", tx.MerchantReference),
				zap.Error(err))
			detail.Error = err.Error()
			report.Failed++
			report.Details = append(report.Details, detail)
			continue
		}

		detail.Status = string(result.Status)
		detail.CreditsAwarded = result.CreditsAwarded
		report.Processed++
		report.Details = append(report.Details, detail)
	}

	g.logger.Info("Pending sweep finished",
		zap.Int("pending", len(pending)),
		zap.Int("processed", report.Processed),
		zap.Int("failed", report.Failed),
		zap.Int("unresolvable", report.Unresolvable))

	return report, nil
}

package service

import (
	"context"
	"errors"

	"github.com/dukasoft/shop-services/reconciler/internal/constants"
	"github.com/dukasoft/shop-services/reconciler/internal/model"
	"github.com/dukasoft/shop-services/reconciler/internal/publishers"
	"github.com/dukasoft/shop-services/reconciler/internal/repository"
	"go.uber.org/zap"
)

// CreditConversionUnit converts a payment amount (smallest currency unit) into
// account credits by floor division. The original tariff is unverified against
// gateway docs, so the value is kept as observed in production.
const CreditConversionUnit = 100

type ReconcilerService interface {
	Reconcile(ctx context.Context, cmd ReconcileCommand) (ReconcileResult, error)
}

type reconciler struct {
	txManager       repository.TxManager
	transactionRepo repository.TransactionRepository
	balanceRepo     repository.AccountBalanceRepository
	publisher       publishers.CompletedPublisher
	logger          *zap.Logger
}

func NewReconcilerService(txManager repository.TxManager, transactionRepo repository.TransactionRepository,
	balanceRepo repository.AccountBalanceRepository, publisher publishers.CompletedPublisher,
	logger *zap.Logger) ReconcilerService {
	return &reconciler{
		txManager:       txManager,
		transactionRepo: transactionRepo,
		balanceRepo:     balanceRepo,
		publisher:       publisher,
		logger:          logger,
	}
}

// Reconcile applies a raw gateway status to the ledger. It is the single choke
// point for status mutation: all three entry points (redirect callback, push
// notification, watchdog sweep) funnel through here, and reprocessing a status
// for an already-terminal transaction is a safe no-op.
func (r *reconciler) Reconcile(ctx context.Context, cmd ReconcileCommand) (ReconcileResult, error) {
	tx, err := r.transactionRepo.GetByMerchantReference(cmd.MerchantReference)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			r.logger.Warn("No transaction for merchant reference",
				zap.String("merchantReference", cmd.MerchantReference))
			return ReconcileResult{}, NewServiceError(constants.ErrCodeTransactionNotFound, err)
		}

		return ReconcileResult{}, NewServiceError(ErrCodeDatabase, err)
	}

	result := ReconcileResult{
		MerchantReference: tx.MerchantReference,
		Status:            tx.Status,
		Outcome:           MapStatus(cmd.RawStatus),
	}

	if tx.Status == model.TxStatusCompleted {
		r.logger.Info("Transaction already completed, skipping duplicate notification",
			zap.String("merchantReference", tx.MerchantReference))
		return result, nil
	}

	switch result.Outcome {
	case OutcomeSuccess:
		return r.complete(ctx, tx, result)
	case OutcomeFailure:
		return r.fail(ctx, tx, result)
	default:
		return result, nil
	}
}

func (r *reconciler) complete(ctx context.Context, tx *model.Transaction, result ReconcileResult) (ReconcileResult, error) {
	credits := tx.Amount / CreditConversionUnit

	err := r.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := r.transactionRepo.TransitionStatus(ctx, tx.ID, model.TxStatusPending, model.TxStatusCompleted); err != nil {
			return err
		}

		if credits == 0 {
			return nil
		}

		return r.balanceRepo.IncrementBalance(ctx, tx.AccountID, credits)
	})

	if err == nil {
		result.Status = model.TxStatusCompleted
		result.CreditsAwarded = credits

		r.logger.Info("Transaction completed, credits awarded",
			zap.String("merchantReference", tx.MerchantReference),
			zap.String("accountID", tx.AccountID),
			zap.Int64("amount", tx.Amount),
			zap.Int64("credits", credits))

		r.publishCompleted(ctx, tx, credits)

		return result, nil
	}

	if errors.Is(err, repository.ErrNoRowsAffected) {
		// another entry point finished the transition first; no credit from
		// this call, report whatever state won the race
		return r.refreshStatus(tx.MerchantReference, result), nil
	}

	if errors.Is(err, repository.ErrAccountNotFound) {
		r.logger.Error("Beneficiary account missing, completion rolled back",
			zap.String("merchantReference", tx.MerchantReference),
			zap.String("accountID", tx.AccountID))
		return ReconcileResult{}, NewServiceError(constants.ErrCodeAccountNotFound, err)
	}

	r.logger.Error("Failed to complete transaction",
		zap.String("merchantReference", tx.MerchantReference),
		zap.Error(err))

	return ReconcileResult{}, NewServiceError(ErrCodeDatabase, err)
}

func (r *reconciler) fail(ctx context.Context, tx *model.Transaction, result ReconcileResult) (ReconcileResult, error) {
	err := r.transactionRepo.TransitionStatus(ctx, tx.ID, model.TxStatusPending, model.TxStatusFailed)
	if err == nil {
		result.Status = model.TxStatusFailed

		r.logger.Info("Transaction marked as failed",
			zap.String("merchantReference", tx.MerchantReference))

		return result, nil
	}

	if errors.Is(err, repository.ErrNoRowsAffected) {
		return r.refreshStatus(tx.MerchantReference, result), nil
	}

	r.logger.Error("Failed to mark transaction as failed",
		zap.String("merchantReference", tx.MerchantReference),
		zap.Error(err))

	return ReconcileResult{}, NewServiceError(ErrCodeDatabase, err)
}

// refreshStatus re-reads the transaction after a lost race so the caller sees
// the terminal state the winner wrote.
func (r *reconciler) refreshStatus(merchantReference string, result ReconcileResult) ReconcileResult {
	current, err := r.transactionRepo.GetByMerchantReference(merchantReference)
	if err != nil {
		r.logger.Warn("Could not re-read transaction after lost race",
			zap.String("merchantReference", merchantReference),
			zap.Error(err))
		return result
	}

	result.Status = current.Status
	return result
}

func (r *reconciler) publishCompleted(ctx context.Context, tx *model.Transaction, credits int64) {
	if r.publisher == nil {
		return
	}

	event := publishers.CompletedEvent{
		MerchantReference: tx.MerchantReference,
		AccountID:         tx.AccountID,
		Amount:            tx.Amount,
		CreditsAwarded:    credits,
	}

	if err := r.publisher.PublishCompleted(ctx, event); err != nil {
		// the ledger is already committed; downstream consumers catch up via
		// their own reconciliation
		r.logger.Warn("Failed to publish completion event",
			zap.String("merchantReference", tx.MerchantReference),
			zap.Error(err))
	}
}

package service

import (
	"context"
	"errors"
	"time"

	"github.com/dukasoft/shop-services/reconciler/internal/constants"
	"github.com/dukasoft/shop-services/reconciler/internal/model"
	"github.com/dukasoft/shop-services/reconciler/internal/repository"
	"go.uber.org/zap"
)

// LedgerService covers the bookkeeping around the reconciliation core: the
// checkout flow registers a pending transaction here before redirecting the
// shopper to the gateway, and beneficiary accounts are provisioned up front.
type LedgerService interface {
	RegisterPayment(ctx context.Context, cmd RegisterPaymentCommand) (RegisterPaymentResult, error)
	CreateAccount(ctx context.Context, cmd CreateAccountCommand) (model.AccountBalance, error)
	GetBalance(accountID string) (model.AccountBalance, error)
}

type ledger struct {
	transactionRepo repository.TransactionRepository
	balanceRepo     repository.AccountBalanceRepository
	logger          *zap.Logger
}

func NewLedgerService(transactionRepo repository.TransactionRepository,
	balanceRepo repository.AccountBalanceRepository, logger *zap.Logger) LedgerService {
	return &ledger{transactionRepo: transactionRepo, balanceRepo: balanceRepo, logger: logger}
}

func (l *ledger) RegisterPayment(ctx context.Context, cmd RegisterPaymentCommand) (RegisterPaymentResult, error) {
	tx := model.Transaction{
		MerchantReference: cmd.MerchantReference,
		Amount:            cmd.Amount,
		AccountID:         cmd.AccountID,
		Status:            model.TxStatusPending,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}

	if cmd.GatewayTrackingID != "" {
		trackingID := cmd.GatewayTrackingID
		tx.GatewayTrackingID = &trackingID
	}

	if err := l.transactionRepo.Create(ctx, &tx); err != nil {
		if errors.Is(err, repository.ErrTransactionExisted) {
			l.logger.Warn("Duplicate merchant reference",
				zap.String("merchantReference", cmd.MerchantReference))
			return RegisterPaymentResult{}, NewServiceError(constants.ErrCodeTransactionExisted, err)
		}

		l.logger.Error("Failed to register payment",
			zap.String("merchantReference", cmd.MerchantReference),
			zap.Error(err))
		return RegisterPaymentResult{}, NewServiceError(ErrCodeDatabase, err)
	}

	l.logger.Info("Payment registered",
		zap.Int64("transactionID", tx.ID),
		zap.String("merchantReference", tx.MerchantReference),
		zap.Int64("amount", tx.Amount))

	return RegisterPaymentResult{
		TransactionID:     tx.ID,
		MerchantReference: tx.MerchantReference,
		Status:            tx.Status,
	}, nil
}

func (l *ledger) CreateAccount(ctx context.Context, cmd CreateAccountCommand) (model.AccountBalance, error) {
	ab := model.AccountBalance{
		AccountID: cmd.AccountID,
		Balance:   cmd.InitialBalance,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := l.balanceRepo.Create(ctx, &ab); err != nil {
		if errors.Is(err, repository.ErrAccountExisted) {
			return model.AccountBalance{}, NewServiceError(constants.ErrCodeAccountExisted, err)
		}

		l.logger.Error("Failed to create account balance",
			zap.String("accountID", cmd.AccountID),
			zap.Error(err))
		return model.AccountBalance{}, NewServiceError(ErrCodeDatabase, err)
	}

	return ab, nil
}

func (l *ledger) GetBalance(accountID string) (model.AccountBalance, error) {
	ab, err := l.balanceRepo.GetByAccountID(accountID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return model.AccountBalance{}, NewServiceError(constants.ErrCodeAccountNotFound, err)
		}

		return model.AccountBalance{}, NewServiceError(ErrCodeDatabase, err)
	}

	return ab, nil
}

package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dukasoft/shop-services/reconciler/internal/constants"
	"github.com/dukasoft/shop-services/reconciler/internal/mocks"
	"github.com/dukasoft/shop-services/reconciler/internal/model"
	"github.com/dukasoft/shop-services/reconciler/internal/repository"
	"github.com/dukasoft/shop-services/reconciler/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type reconcilerFixture struct {
	txManager       *mocks.TxManager
	transactionRepo *mocks.TransactionRepository
	balanceRepo     *mocks.AccountBalanceRepository
	publisher       *mocks.CompletedPublisher
	svc             service.ReconcilerService
}

func newReconcilerFixture() *reconcilerFixture {
	f := &reconcilerFixture{
		txManager:       &mocks.TxManager{},
		transactionRepo: &mocks.TransactionRepository{},
		balanceRepo:     &mocks.AccountBalanceRepository{},
		publisher:       &mocks.CompletedPublisher{},
	}
	f.svc = service.NewReconcilerService(f.txManager, f.transactionRepo, f.balanceRepo, f.publisher, zap.NewNop())
	return f
}

func pendingTransaction(amount int64) *model.Transaction {
	return &model.Transaction{
		ID:                42,
		MerchantReference: "REF-1",
		Amount:            amount,
		AccountID:         "acct-9",
		Status:            model.TxStatusPending,
	}
}

func successPayload() service.RawStatus {
	return service.RawStatus{StatusCode: intPtr(1)}
}

func TestReconciler_Reconcile_Success(t *testing.T) {
	t.Run("completes transaction and awards credits", func(t *testing.T) {
		f := newReconcilerFixture()
		tx := pendingTransaction(2599)

		f.transactionRepo.On("GetByMerchantReference", "REF-1").Return(tx, nil)
		f.txManager.On("WithTx", mock.Anything, mock.Anything).Return(nil)
		f.transactionRepo.On("TransitionStatus", mock.Anything, int64(42),
			model.TxStatusPending, model.TxStatusCompleted).Return(nil)
		f.balanceRepo.On("IncrementBalance", mock.Anything, "acct-9", int64(25)).Return(nil)
		f.publisher.On("PublishCompleted", mock.Anything, mock.Anything).Return(nil)

		result, err := f.svc.Reconcile(context.Background(), service.ReconcileCommand{
			MerchantReference: "REF-1",
			RawStatus:         successPayload(),
		})

		assert.NoError(t, err)
		assert.Equal(t, model.TxStatusCompleted, result.Status)
		assert.Equal(t, int64(25), result.CreditsAwarded)
		assert.Equal(t, service.OutcomeSuccess, result.Outcome)
		f.balanceRepo.AssertNumberOfCalls(t, "IncrementBalance", 1)
		f.transactionRepo.AssertExpectations(t)
	})

	t.Run("amount below conversion unit awards zero credits", func(t *testing.T) {
		f := newReconcilerFixture()
		tx := pendingTransaction(99)

		f.transactionRepo.On("GetByMerchantReference", "REF-1").Return(tx, nil)
		f.txManager.On("WithTx", mock.Anything, mock.Anything).Return(nil)
		f.transactionRepo.On("TransitionStatus", mock.Anything, int64(42),
			model.TxStatusPending, model.TxStatusCompleted).Return(nil)
		f.publisher.On("PublishCompleted", mock.Anything, mock.Anything).Return(nil)

		result, err := f.svc.Reconcile(context.Background(), service.ReconcileCommand{
			MerchantReference: "REF-1",
			RawStatus:         successPayload(),
		})

		assert.NoError(t, err)
		assert.Equal(t, model.TxStatusCompleted, result.Status)
		assert.Equal(t, int64(0), result.CreditsAwarded)
		f.balanceRepo.AssertNotCalled(t, "IncrementBalance")
	})

	t.Run("duplicate notification is an idempotent no-op", func(t *testing.T) {
		f := newReconcilerFixture()
		tx := pendingTransaction(2599)
		tx.Status = model.TxStatusCompleted

		f.transactionRepo.On("GetByMerchantReference", "REF-1").Return(tx, nil)

		result, err := f.svc.Reconcile(context.Background(), service.ReconcileCommand{
			MerchantReference: "REF-1",
			RawStatus:         successPayload(),
		})

		assert.NoError(t, err)
		assert.Equal(t, model.TxStatusCompleted, result.Status)
		assert.Equal(t, int64(0), result.CreditsAwarded)
		f.txManager.AssertNotCalled(t, "WithTx")
		f.balanceRepo.AssertNotCalled(t, "IncrementBalance")
	})

	t.Run("lost race reports the winner's state without a second award", func(t *testing.T) {
		f := newReconcilerFixture()
		tx := pendingTransaction(2599)
		winner := pendingTransaction(2599)
		winner.Status = model.TxStatusCompleted

		f.transactionRepo.On("GetByMerchantReference", "REF-1").Return(tx, nil).Once()
		f.txManager.On("WithTx", mock.Anything, mock.Anything).Return(nil)
		f.transactionRepo.On("TransitionStatus", mock.Anything, int64(42),
			model.TxStatusPending, model.TxStatusCompleted).Return(repository.ErrNoRowsAffected)
		f.transactionRepo.On("GetByMerchantReference", "REF-1").Return(winner, nil).Once()

		result, err := f.svc.Reconcile(context.Background(), service.ReconcileCommand{
			MerchantReference: "REF-1",
			RawStatus:         successPayload(),
		})

		assert.NoError(t, err)
		assert.Equal(t, model.TxStatusCompleted, result.Status)
		assert.Equal(t, int64(0), result.CreditsAwarded)
		f.balanceRepo.AssertNotCalled(t, "IncrementBalance")
		f.publisher.AssertNotCalled(t, "PublishCompleted")
	})

	t.Run("missing beneficiary account rolls the completion back", func(t *testing.T) {
		f := newReconcilerFixture()
		tx := pendingTransaction(2599)

		f.transactionRepo.On("GetByMerchantReference", "REF-1").Return(tx, nil)
		f.txManager.On("WithTx", mock.Anything, mock.Anything).Return(nil)
		f.transactionRepo.On("TransitionStatus", mock.Anything, int64(42),
			model.TxStatusPending, model.TxStatusCompleted).Return(nil)
		f.balanceRepo.On("IncrementBalance", mock.Anything, "acct-9", int64(25)).
			Return(repository.ErrAccountNotFound)

		_, err := f.svc.Reconcile(context.Background(), service.ReconcileCommand{
			MerchantReference: "REF-1",
			RawStatus:         successPayload(),
		})

		assert.Error(t, err)

		var serviceErr service.Error
		assert.True(t, errors.As(err, &serviceErr))
		assert.Equal(t, constants.ErrCodeAccountNotFound, serviceErr.Code)
		f.publisher.AssertNotCalled(t, "PublishCompleted")
	})

	t.Run("publish failure does not fail the reconciliation", func(t *testing.T) {
		f := newReconcilerFixture()
		tx := pendingTransaction(5000)

		f.transactionRepo.On("GetByMerchantReference", "REF-1").Return(tx, nil)
		f.txManager.On("WithTx", mock.Anything, mock.Anything).Return(nil)
		f.transactionRepo.On("TransitionStatus", mock.Anything, int64(42),
			model.TxStatusPending, model.TxStatusCompleted).Return(nil)
		f.balanceRepo.On("IncrementBalance", mock.Anything, "acct-9", int64(50)).Return(nil)
		f.publisher.On("PublishCompleted", mock.Anything, mock.Anything).
			Return(errors.New("broker unavailable"))

		result, err := f.svc.Reconcile(context.Background(), service.ReconcileCommand{
			MerchantReference: "REF-1",
			RawStatus:         successPayload(),
		})

		assert.NoError(t, err)
		assert.Equal(t, model.TxStatusCompleted, result.Status)
		assert.Equal(t, int64(50), result.CreditsAwarded)
	})
}

func TestReconciler_Reconcile_Failure(t *testing.T) {
	t.Run("failure payload marks pending transaction failed", func(t *testing.T) {
		f := newReconcilerFixture()
		tx := pendingTransaction(2599)

		f.transactionRepo.On("GetByMerchantReference", "REF-1").Return(tx, nil)
		f.transactionRepo.On("TransitionStatus", mock.Anything, int64(42),
			model.TxStatusPending, model.TxStatusFailed).Return(nil)

		result, err := f.svc.Reconcile(context.Background(), service.ReconcileCommand{
			MerchantReference: "REF-1",
			RawStatus:         service.RawStatus{StatusCode: intPtr(2)},
		})

		assert.NoError(t, err)
		assert.Equal(t, model.TxStatusFailed, result.Status)
		assert.Equal(t, int64(0), result.CreditsAwarded)
		f.balanceRepo.AssertNotCalled(t, "IncrementBalance")
	})

	t.Run("failure payload never reverts a completed transaction", func(t *testing.T) {
		f := newReconcilerFixture()
		tx := pendingTransaction(2599)
		tx.Status = model.TxStatusCompleted

		f.transactionRepo.On("GetByMerchantReference", "REF-1").Return(tx, nil)

		result, err := f.svc.Reconcile(context.Background(), service.ReconcileCommand{
			MerchantReference: "REF-1",
			RawStatus:         service.RawStatus{StatusCode: intPtr(2)},
		})

		assert.NoError(t, err)
		assert.Equal(t, model.TxStatusCompleted, result.Status)
		f.transactionRepo.AssertNotCalled(t, "TransitionStatus")
	})

	t.Run("repeated failure notification is a no-op", func(t *testing.T) {
		f := newReconcilerFixture()
		tx := pendingTransaction(2599)
		failed := pendingTransaction(2599)
		failed.Status = model.TxStatusFailed

		f.transactionRepo.On("GetByMerchantReference", "REF-1").Return(tx, nil).Once()
		f.transactionRepo.On("TransitionStatus", mock.Anything, int64(42),
			model.TxStatusPending, model.TxStatusFailed).Return(repository.ErrNoRowsAffected)
		f.transactionRepo.On("GetByMerchantReference", "REF-1").Return(failed, nil).Once()

		result, err := f.svc.Reconcile(context.Background(), service.ReconcileCommand{
			MerchantReference: "REF-1",
			RawStatus:         service.RawStatus{StatusCode: intPtr(3)},
		})

		assert.NoError(t, err)
		assert.Equal(t, model.TxStatusFailed, result.Status)
	})
}

func TestReconciler_Reconcile_Pending(t *testing.T) {
	f := newReconcilerFixture()
	tx := pendingTransaction(2599)

	f.transactionRepo.On("GetByMerchantReference", "REF-1").Return(tx, nil)

	result, err := f.svc.Reconcile(context.Background(), service.ReconcileCommand{
		MerchantReference: "REF-1",
		RawStatus:         service.RawStatus{Description: "PENDING"},
	})

	assert.NoError(t, err)
	assert.Equal(t, model.TxStatusPending, result.Status)
	assert.Equal(t, service.OutcomePending, result.Outcome)
	f.transactionRepo.AssertNotCalled(t, "TransitionStatus")
	f.txManager.AssertNotCalled(t, "WithTx")
}

func TestReconciler_Reconcile_NotFound(t *testing.T) {
	f := newReconcilerFixture()

	f.transactionRepo.On("GetByMerchantReference", "REF-MISSING").
		Return(nil, repository.ErrTransactionNotFound)

	_, err := f.svc.Reconcile(context.Background(), service.ReconcileCommand{
		MerchantReference: "REF-MISSING",
		RawStatus:         successPayload(),
	})

	assert.Error(t, err)

	var serviceErr service.Error
	assert.True(t, errors.As(err, &serviceErr))
	assert.Equal(t, constants.ErrCodeTransactionNotFound, serviceErr.Code)
}

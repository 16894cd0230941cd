package repository

import (
	"context"
	"errors"
	"time"

	"github.com/dukasoft/shop-services/reconciler/internal/model"
	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

var ErrTransactionNotFound = errors.New("TRANSACTION_NOT_FOUND")
var ErrTransactionExisted = errors.New("TRANSACTION_EXISTED")
var ErrNoRowsAffected = errors.New("NO_ROWS_AFFECTED")

type TransactionRepository interface {
	Create(ctx context.Context, tx *model.Transaction) error
	GetByMerchantReference(ref string) (*model.Transaction, error)
	GetPending() ([]model.Transaction, error)
	TransitionStatus(ctx context.Context, id int64, from, to model.TxStatus) error
}

type transaction struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transaction{db: db}
}

func (t *transaction) Create(ctx context.Context, tx *model.Transaction) error {
	db := GetTx(ctx, t.db)
	err := db.Create(tx).Error
	if err == nil {
		return nil
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return ErrTransactionExisted
	}

	return err
}

func (t *transaction) GetByMerchantReference(ref string) (*model.Transaction, error) {
	var tx model.Transaction

	err := t.db.Where("merchant_reference = ?", ref).First(&tx).Error
	if err == nil {
		return &tx, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTransactionNotFound
	}

	return nil, err
}

func (t *transaction) GetPending() ([]model.Transaction, error) {
	var txs []model.Transaction

	err := t.db.Where("status = ?", model.TxStatusPending).
		Order("created_at ASC").
		Find(&txs).Error
	if err != nil {
		return nil, err
	}

	return txs, nil
}

// TransitionStatus moves a transaction from one status to another as a single
// conditional UPDATE. Concurrent callers race on the WHERE clause: exactly one
// wins, the rest get ErrNoRowsAffected.
func (t *transaction) TransitionStatus(ctx context.Context, id int64, from, to model.TxStatus) error {
	db := GetTx(ctx, t.db)

	result := db.Model(&model.Transaction{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{"status": to, "updated_at": time.Now()})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrNoRowsAffected
	}

	return nil
}

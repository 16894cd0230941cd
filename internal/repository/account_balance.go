package repository

import (
	"context"
	"errors"

	"github.com/dukasoft/shop-services/reconciler/internal/model"
	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

var ErrAccountNotFound = errors.New("ACCOUNT_NOT_FOUND")
var ErrAccountExisted = errors.New("ACCOUNT_EXISTED")

type AccountBalanceRepository interface {
	Create(ctx context.Context, ab *model.AccountBalance) error
	GetByAccountID(accountID string) (model.AccountBalance, error)
	IncrementBalance(ctx context.Context, accountID string, credits int64) error
}

type accountBalance struct {
	db *gorm.DB
}

func NewAccountBalanceRepository(db *gorm.DB) AccountBalanceRepository {
	return &accountBalance{db: db}
}

func (r *accountBalance) Create(ctx context.Context, ab *model.AccountBalance) error {
	db := GetTx(ctx, r.db)
	err := db.Create(ab).Error
	if err == nil {
		return nil
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return ErrAccountExisted
	}

	return err
}

func (r *accountBalance) GetByAccountID(accountID string) (model.AccountBalance, error) {
	var ab model.AccountBalance

	err := r.db.Where("account_id = ?", accountID).First(&ab).Error
	if err == nil {
		return ab, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.AccountBalance{}, ErrAccountNotFound
	}

	return model.AccountBalance{}, err
}

// IncrementBalance applies the credit as a single relative UPDATE so it stays
// atomic under concurrent reconciliations.
func (r *accountBalance) IncrementBalance(ctx context.Context, accountID string, credits int64) error {
	db := GetTx(ctx, r.db)

	result := db.Model(&model.AccountBalance{}).
		Where("account_id = ?", accountID).
		UpdateColumn("balance", gorm.Expr("balance + ?", credits))

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrAccountNotFound
	}

	return nil
}

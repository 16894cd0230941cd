package model

import "time"

type AccountBalance struct {
	AccountID string    `gorm:"column:account_id;primaryKey;type:varchar(64)"`
	Balance   int64     `gorm:"column:balance;not null;default:0"`
	UpdatedAt time.Time `gorm:"column:updated_at;default:CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP"`
	CreatedAt time.Time `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
}

func (AccountBalance) TableName() string {
	return "account_balances"
}

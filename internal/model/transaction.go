package model

import "time"

type TxStatus string

const (
	TxStatusPending   TxStatus = "pending"
	TxStatusCompleted TxStatus = "completed"
	TxStatusFailed    TxStatus = "failed"
)

// IsTerminal reports whether a status may never change again.
func (s TxStatus) IsTerminal() bool {
	return s == TxStatusCompleted || s == TxStatusFailed
}

type Transaction struct {
	ID                int64     `gorm:"primaryKey;autoIncrement;<-:create"`
	MerchantReference string    `gorm:"column:merchant_reference;type:varchar(64);uniqueIndex;not null;<-:create"`
	GatewayTrackingID *string   `gorm:"column:gateway_tracking_id;type:varchar(64)"`
	Amount            int64     `gorm:"not null;<-:create"`
	AccountID         string    `gorm:"column:account_id;type:varchar(64);not null;<-:create"`
	Status            TxStatus  `gorm:"type:enum('pending','completed','failed');default:'pending';not null"`
	CreatedAt         time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP"`
	UpdatedAt         time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP"`
}

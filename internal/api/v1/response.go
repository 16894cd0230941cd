package v1

import "github.com/dukasoft/shop-services/reconciler/internal/service"

// NotificationAck is the exact acknowledgment shape the gateway expects. It
// confirms receipt only; a 200 ack does not imply the payment succeeded.
type NotificationAck struct {
	OrderNotificationType  string `json:"orderNotificationType"`
	OrderTrackingID        string `json:"orderTrackingId"`
	OrderMerchantReference string `json:"orderMerchantReference"`
	Status                 int    `json:"status"`
}

type SweepResponse struct {
	Success   bool                  `json:"success"`
	Timestamp string                `json:"timestamp"`
	Processed int                   `json:"processed"`
	Details   []service.SweepDetail `json:"details"`
}

type BalanceResponse struct {
	AccountID string `json:"account_id"`
	Balance   int64  `json:"balance"`
}

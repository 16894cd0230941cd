package service

import (
	"time"

	"github.com/dukasoft/shop-services/reconciler/internal/model"
)

type ReconcileResult struct {
	MerchantReference string         `json:"merchant_reference"`
	Status            model.TxStatus `json:"status"`
	Outcome           Outcome        `json:"outcome"`
	CreditsAwarded    int64          `json:"credits_awarded"`
}

type SweepDetail struct {
	MerchantReference string `json:"merchant_reference"`
	Status            string `json:"status,omitempty"`
	CreditsAwarded    int64  `json:"credits_awarded,omitempty"`
	Error             string `json:"error,omitempty"`
}

type SweepReport struct {
	StartedAt    time.Time     `json:"started_at"`
	Processed    int           `json:"processed"`
	Failed       int           `json:"failed"`
	Unresolvable int           `json:"unresolvable"`
	Details      []SweepDetail `json:"details"`
}

type RegisterPaymentResult struct {
	TransactionID     int64          `json:"transaction_id"`
	MerchantReference string         `json:"merchant_reference"`
	Status            model.TxStatus `json:"status"`
}

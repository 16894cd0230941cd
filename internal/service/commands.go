package service

type ReconcileCommand struct {
	MerchantReference string
	RawStatus         RawStatus
}

type RegisterPaymentCommand struct {
	MerchantReference string
	GatewayTrackingID string
	Amount            int64
	AccountID         string
}

type CreateAccountCommand struct {
	AccountID      string
	InitialBalance int64
}

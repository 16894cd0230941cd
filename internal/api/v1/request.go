package v1

type RegisterPaymentRequest struct {
	MerchantReference string `json:"merchant_reference" validate:"required,max=64,reference"`
	GatewayTrackingID string `json:"gateway_tracking_id" validate:"omitempty,max=64"`
	Amount            int64  `json:"amount" validate:"required,min=1"`
	AccountID         string `json:"account_id" validate:"required,max=64"`
}

type CreateAccountRequest struct {
	AccountID      string `json:"account_id" validate:"required,max=64"`
	InitialBalance int64  `json:"initial_balance" validate:"min=0"`
}

// NotificationRequest carries the gateway's IPN fields. The gateway delivers
// them either as query parameters (GET) or as a JSON body (POST); both shapes
// are accepted.
type NotificationRequest struct {
	OrderTrackingID        string `json:"OrderTrackingId" query:"OrderTrackingId"`
	OrderMerchantReference string `json:"OrderMerchantReference" query:"OrderMerchantReference"`
	OrderNotificationType  string `json:"OrderNotificationType" query:"OrderNotificationType"`
}

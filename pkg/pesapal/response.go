package pesapal

// TransactionStatusResponse is the gateway's status payload. The numeric code
// is carried under status_code on newer API versions and payment_status_code on
// older ones; either may be absent.
type TransactionStatusResponse struct {
	PaymentMethod            string  `json:"payment_method,omitempty"`
	Amount                   float64 `json:"amount,omitempty"`
	PaymentStatusDescription string  `json:"payment_status_description,omitempty"`
	Description              string  `json:"description,omitempty"`
	ConfirmationCode         string  `json:"confirmation_code,omitempty"`
	StatusCode               *int    `json:"status_code,omitempty"`
	PaymentStatusCode        *int    `json:"payment_status_code,omitempty"`
	MerchantReference        string  `json:"merchant_reference,omitempty"`
	Currency                 string  `json:"currency,omitempty"`
}

type tokenResponse struct {
	Token      string `json:"token"`
	ExpiryDate string `json:"expiryDate"`
	Status     string `json:"status"`
	Message    string `json:"message,omitempty"`
}

type tokenRequest struct {
	ConsumerKey    string `json:"consumer_key"`
	ConsumerSecret string `json:"consumer_secret"`
}

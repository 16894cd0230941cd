package service

import (
	"strings"

	"github.com/dukasoft/shop-services/reconciler/pkg/pesapal"
)

type Outcome string

const (
	OutcomeSuccess Outcome = "SUCCESS"
	OutcomeFailure Outcome = "FAILURE"
	OutcomePending Outcome = "PENDING"
)

// Gateway status code space: 0=invalid, 1=success, 2=failed, 3=reversed.
const (
	gatewayCodeInvalid  = 0
	gatewayCodeSuccess  = 1
	gatewayCodeFailed   = 2
	gatewayCodeReversed = 3
)

// RawStatus is the canonical status payload shape. Entry points normalize the
// gateway's varying delivery formats into this before anything else looks at it.
type RawStatus struct {
	StatusCode        *int
	PaymentStatusCode *int
	Description       string
}

// Code returns the numeric status code, preferring status_code over the legacy
// payment_status_code field.
func (r RawStatus) Code() *int {
	if r.StatusCode != nil {
		return r.StatusCode
	}
	return r.PaymentStatusCode
}

func RawStatusFromResponse(resp pesapal.TransactionStatusResponse) RawStatus {
	description := resp.PaymentStatusDescription
	if description == "" {
		description = resp.Description
	}

	return RawStatus{
		StatusCode:        resp.StatusCode,
		PaymentStatusCode: resp.PaymentStatusCode,
		Description:       description,
	}
}

// MapStatus translates a raw gateway status into a canonical outcome. The
// numeric code is authoritative; free text is only consulted when no known
// code is present.
func MapStatus(raw RawStatus) Outcome {
	if code := raw.Code(); code != nil {
		switch *code {
		case gatewayCodeSuccess:
			return OutcomeSuccess
		case gatewayCodeInvalid, gatewayCodeFailed, gatewayCodeReversed:
			return OutcomeFailure
		}
	}

	switch strings.ToUpper(strings.TrimSpace(raw.Description)) {
	case "COMPLETED", "SUCCESS":
		return OutcomeSuccess
	case "FAILED", "INVALID":
		return OutcomeFailure
	}

	return OutcomePending
}

package service_test

import (
	"testing"

	"github.com/dukasoft/shop-services/reconciler/internal/service"
	"github.com/dukasoft/shop-services/reconciler/pkg/pesapal"
	"github.com/stretchr/testify/assert"
)

func intPtr(n int) *int { return &n }

func TestMapStatus(t *testing.T) {
	testCases := []struct {
		name     string
		raw      service.RawStatus
		expected service.Outcome
	}{
		{
			name:     "code 1 is success",
			raw:      service.RawStatus{StatusCode: intPtr(1)},
			expected: service.OutcomeSuccess,
		},
		{
			name:     "code 0 is failure",
			raw:      service.RawStatus{StatusCode: intPtr(0)},
			expected: service.OutcomeFailure,
		},
		{
			name:     "code 2 is failure",
			raw:      service.RawStatus{StatusCode: intPtr(2)},
			expected: service.OutcomeFailure,
		},
		{
			name:     "code 3 reversed is failure",
			raw:      service.RawStatus{StatusCode: intPtr(3)},
			expected: service.OutcomeFailure,
		},
		{
			name:     "legacy payment_status_code is honored",
			raw:      service.RawStatus{PaymentStatusCode: intPtr(1)},
			expected: service.OutcomeSuccess,
		},
		{
			name:     "status_code wins over legacy code",
			raw:      service.RawStatus{StatusCode: intPtr(2), PaymentStatusCode: intPtr(1)},
			expected: service.OutcomeFailure,
		},
		{
			name:     "numeric code wins over conflicting text",
			raw:      service.RawStatus{StatusCode: intPtr(1), Description: "FAILED"},
			expected: service.OutcomeSuccess,
		},
		{
			name:     "completed text is success",
			raw:      service.RawStatus{Description: "COMPLETED"},
			expected: service.OutcomeSuccess,
		},
		{
			name:     "text match is case insensitive",
			raw:      service.RawStatus{Description: "completed"},
			expected: service.OutcomeSuccess,
		},
		{
			name:     "failed text is failure",
			raw:      service.RawStatus{Description: "FAILED"},
			expected: service.OutcomeFailure,
		},
		{
			name:     "invalid text is failure",
			raw:      service.RawStatus{Description: "INVALID"},
			expected: service.OutcomeFailure,
		},
		{
			name:     "pending text stays pending",
			raw:      service.RawStatus{Description: "PENDING"},
			expected: service.OutcomePending,
		},
		{
			name:     "unknown code falls back to text",
			raw:      service.RawStatus{StatusCode: intPtr(7), Description: "COMPLETED"},
			expected: service.OutcomeSuccess,
		},
		{
			name:     "empty payload is pending",
			raw:      service.RawStatus{},
			expected: service.OutcomePending,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, service.MapStatus(tc.raw))
		})
	}
}

func TestRawStatusFromResponse(t *testing.T) {
	t.Run("prefers payment status description", func(t *testing.T) {
		resp := pesapal.TransactionStatusResponse{
			StatusCode:               intPtr(1),
			PaymentStatusDescription: "COMPLETED",
			Description:              "Transaction processed",
		}

		raw := service.RawStatusFromResponse(resp)

		assert.Equal(t, 1, *raw.StatusCode)
		assert.Equal(t, "COMPLETED", raw.Description)
	})

	t.Run("falls back to generic description", func(t *testing.T) {
		resp := pesapal.TransactionStatusResponse{Description: "FAILED"}

		raw := service.RawStatusFromResponse(resp)

		assert.Nil(t, raw.StatusCode)
		assert.Equal(t, "FAILED", raw.Description)
	})
}

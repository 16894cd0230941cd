package pesapal_test

import (
	"testing"

	"github.com/dukasoft/shop-services/reconciler/pkg/pesapal"
	"github.com/stretchr/testify/assert"
)

func TestMapStatusToError(t *testing.T) {
	testCases := []struct {
		name          string
		statusCode    int
		expectedError error
	}{
		{
			name:          "BadRequest",
			statusCode:    400,
			expectedError: pesapal.ErrInvalidRequest,
		},
		{
			name:          "Unauthorized",
			statusCode:    401,
			expectedError: pesapal.ErrUnauthorized,
		},
		{
			name:          "NotFound",
			statusCode:    404,
			expectedError: pesapal.ErrOrderNotFound,
		},
		{
			name:          "InternalServerError",
			statusCode:    500,
			expectedError: pesapal.ErrServerError,
		},
		{
			name:          "BadGateway",
			statusCode:    502,
			expectedError: pesapal.ErrServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := pesapal.MapStatusToError(tc.statusCode)

			assert.Error(t, err, "Expected an error for status code %d", tc.statusCode)
			assert.Equal(t, tc.expectedError, err)
		})
	}
}

package pesapal

import "errors"

const (
	StatusOK           = 200
	StatusBadRequest   = 400
	StatusUnauthorized = 401
	StatusNotFound     = 404
)

const (
	ErrCodeInvalidRequest = "INVALID_REQUEST"
	ErrCodeUnauthorized   = "UNAUTHORIZED"
	ErrCodeOrderNotFound  = "ORDER_NOT_FOUND"
	ErrCodeTimeout        = "TIMEOUT"
	ErrCodeServerError    = "SERVER_ERROR"
)

var (
	ErrInvalidRequest = errors.New(ErrCodeInvalidRequest)
	ErrUnauthorized   = errors.New(ErrCodeUnauthorized)
	ErrOrderNotFound  = errors.New(ErrCodeOrderNotFound)
	ErrTimeout        = errors.New(ErrCodeTimeout)
	ErrServerError    = errors.New(ErrCodeServerError)
)

var statusErrorMap = map[int]error{
	StatusBadRequest:   ErrInvalidRequest,
	StatusUnauthorized: ErrUnauthorized,
	StatusNotFound:     ErrOrderNotFound,
}

func MapStatusToError(statusCode int) error {
	if err, exists := statusErrorMap[statusCode]; exists {
		return err
	}

	return ErrServerError
}

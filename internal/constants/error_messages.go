package constants

const (
	ErrCodeTransactionNotFound = "TRANSACTION_NOT_FOUND"
	ErrCodeTransactionExisted  = "TRANSACTION_EXISTED"
	ErrCodeAccountNotFound     = "ACCOUNT_NOT_FOUND"
	ErrCodeAccountExisted      = "ACCOUNT_EXISTED"
	ErrCodeValidationFailed    = "VALIDATION_FAILED"
	ErrCodeGatewayError        = "GATEWAY_ERROR"
	ErrCodeInternalError       = "INTERNAL_ERROR"
	ErrCodeInvalidRequestBody  = "INVALID_REQUEST_BODY"
)

const (
	ErrMsgTransactionNotFound = "no transaction for the given merchant reference"
	ErrMsgTransactionExisted  = "transaction with this merchant reference already exists"
	ErrMsgAccountNotFound     = "account not found"
	ErrMsgAccountExisted      = "account already exists"
	ErrMsgValidationFailed    = "request validation failed"
	ErrMsgGatewayError        = "payment gateway is unavailable"
	ErrMsgInternalError       = "Internal server error"
	ErrMsgInvalidRequestBody  = "failed to parse request body"
)

const MessageErrorFormat = "field %s is invalid"

var errorMessages = map[string]string{
	ErrCodeTransactionNotFound: ErrMsgTransactionNotFound,
	ErrCodeTransactionExisted:  ErrMsgTransactionExisted,
	ErrCodeAccountNotFound:     ErrMsgAccountNotFound,
	ErrCodeAccountExisted:      ErrMsgAccountExisted,
	ErrCodeValidationFailed:    ErrMsgValidationFailed,
	ErrCodeGatewayError:        ErrMsgGatewayError,
	ErrCodeInternalError:       ErrMsgInternalError,
	ErrCodeInvalidRequestBody:  ErrMsgInvalidRequestBody,
}

func GetErrorMessage(code string) string {
	if msg, exists := errorMessages[code]; exists {
		return msg
	}
	return ErrMsgInternalError
}

func GetHTTPStatus(code string) int {
	switch code {
	case ErrCodeInvalidRequestBody, ErrCodeValidationFailed:
		return 400
	case ErrCodeTransactionNotFound, ErrCodeAccountNotFound:
		return 404
	case ErrCodeTransactionExisted, ErrCodeAccountExisted:
		return 409
	case ErrCodeGatewayError:
		return 502
	case ErrCodeInternalError:
		return 500
	default:
		return 500
	}
}

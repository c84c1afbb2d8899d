package apierror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jerry-enebeli/purse/model"
	"github.com/sirupsen/logrus"
)

type ErrorCode string

const (
	ErrNotFound          ErrorCode = "NOT_FOUND"
	ErrConflict          ErrorCode = "CONFLICT"
	ErrBadRequest        ErrorCode = "BAD_REQUEST"
	ErrInvalidInput      ErrorCode = "INVALID_INPUT"
	ErrInsufficientFunds ErrorCode = "INSUFFICIENT_FUNDS"
	ErrInternalServer    ErrorCode = "INTERNAL_SERVER_ERROR"
)

type APIError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func (e APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAPIError(code ErrorCode, message string, details interface{}) APIError {
	if details != nil {
		logrus.Error(details)
	}
	return APIError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// codes maps ledger error kinds to API codes. Order matters only for errors
// that wrap more than one kind, which the ledger never produces.
var codes = []struct {
	kind error
	code ErrorCode
}{
	{model.ErrAccountNotFound, ErrNotFound},
	{model.ErrLoanNotFound, ErrNotFound},
	{model.ErrTransactionNotFound, ErrNotFound},
	{model.ErrInsufficientFunds, ErrInsufficientFunds},
	{model.ErrDuplicateReference, ErrConflict},
	{model.ErrLoanAlreadyDecided, ErrConflict},
	{model.ErrInvalidAmount, ErrInvalidInput},
	{model.ErrSameAccount, ErrInvalidInput},
	{model.ErrInvalidAccountType, ErrInvalidInput},
	{model.ErrInvalidDuration, ErrInvalidInput},
	{model.ErrDuplicateAccountNumber, ErrInternalServer},
}

// FromError converts an engine error into an APIError. Errors of an unknown
// kind become internal errors and their text is not exposed.
func FromError(err error) APIError {
	var apiErr APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	for _, c := range codes {
		if errors.Is(err, c.kind) {
			return APIError{Code: c.code, Message: err.Error()}
		}
	}
	logrus.Error(err)
	return APIError{Code: ErrInternalServer, Message: "an internal error occurred"}
}

func MapErrorToHTTPStatus(err error) int {
	var apiErr APIError
	if !errors.As(err, &apiErr) {
		apiErr = FromError(err)
	}
	switch apiErr.Code {
	case ErrNotFound:
		return http.StatusNotFound
	case ErrConflict:
		return http.StatusConflict
	case ErrInvalidInput, ErrBadRequest:
		return http.StatusBadRequest
	case ErrInsufficientFunds:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

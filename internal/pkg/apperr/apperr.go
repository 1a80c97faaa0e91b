package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is the machine-readable error category surfaced in API envelopes.
type Code string

const (
	CodeValidation          Code = "validation_error"
	CodeInsufficientCredit  Code = "insufficient_credit"
	CodeAuthorization       Code = "authorization_error"
	CodeNotFound            Code = "not_found"
	CodeMessageLimitReached Code = "message_limit_reached"
	CodeAiConfig            Code = "ai_config_error"
	CodeAiRateLimit         Code = "ai_rate_limit"
	CodeAiQuota             Code = "ai_quota_exhausted"
	CodeAiOverloaded        Code = "ai_overloaded"
	CodeAiFailure           Code = "ai_failure"
	CodeStorage             Code = "storage_error"
	CodeInternal            Code = "internal_error"
)

// Error carries a category, an HTTP status, and a message safe to show users.
// The wrapped cause stays server-side (logs only).
type Error struct {
	Code    Code
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// As extracts an *Error from an error chain.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// HasCode reports whether err carries the given category.
func HasCode(err error, code Code) bool {
	if ae, ok := As(err); ok {
		return ae.Code == code
	}
	return false
}

func Validation(message string) *Error {
	return &Error{Code: CodeValidation, Status: http.StatusBadRequest, Message: message}
}

func InsufficientCredit(message string) *Error {
	return &Error{Code: CodeInsufficientCredit, Status: http.StatusForbidden, Message: message}
}

func Authorization(message string) *Error {
	return &Error{Code: CodeAuthorization, Status: http.StatusForbidden, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Status: http.StatusNotFound, Message: message}
}

func MessageLimitReached(message string) *Error {
	return &Error{Code: CodeMessageLimitReached, Status: http.StatusConflict, Message: message}
}

func AiConfig(message string, cause error) *Error {
	return &Error{Code: CodeAiConfig, Status: http.StatusInternalServerError, Message: message, Err: cause}
}

func AiRateLimit(message string, cause error) *Error {
	return &Error{Code: CodeAiRateLimit, Status: http.StatusTooManyRequests, Message: message, Err: cause}
}

func AiQuota(message string, cause error) *Error {
	return &Error{Code: CodeAiQuota, Status: http.StatusInternalServerError, Message: message, Err: cause}
}

func AiOverloaded(message string, cause error) *Error {
	return &Error{Code: CodeAiOverloaded, Status: http.StatusServiceUnavailable, Message: message, Err: cause}
}

func AiFailure(message string, cause error) *Error {
	return &Error{Code: CodeAiFailure, Status: http.StatusBadGateway, Message: message, Err: cause}
}

func Storage(message string, cause error) *Error {
	return &Error{Code: CodeStorage, Status: http.StatusInternalServerError, Message: message, Err: cause}
}

func Internal(cause error) *Error {
	return &Error{Code: CodeInternal, Status: http.StatusInternalServerError, Message: "Something went wrong. Please try again.", Err: cause}
}

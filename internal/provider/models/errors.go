package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for common provider failures.
var (
	ErrAuthentication = errors.New("authentication failed")
	ErrRateLimit      = errors.New("rate limit exceeded")
	ErrQuotaExceeded  = errors.New("quota exceeded")
	ErrInvalidModel   = errors.New("invalid model")
	ErrNetwork        = errors.New("network error")
	ErrMalformed      = errors.New("malformed provider response")
	ErrBreakerOpen    = errors.New("provider circuit breaker open")
)

// ErrorCode represents a provider error code.
type ErrorCode string

const (
	ErrorCodeAuth           ErrorCode = "authentication_failed"
	ErrorCodeRateLimit      ErrorCode = "rate_limit"
	ErrorCodeQuota          ErrorCode = "quota_exceeded"
	ErrorCodeInvalidModel   ErrorCode = "invalid_model"
	ErrorCodeNetwork        ErrorCode = "network_error"
	ErrorCodeMalformed      ErrorCode = "malformed_response"
	ErrorCodeBreakerOpen    ErrorCode = "breaker_open"
	ErrorCodeInvalidRequest ErrorCode = "invalid_request"
)

// ProviderError wraps backend failures with enough context for the agent
// loop to surface them to the user. Provider errors abort the turn and are
// never retried automatically.
type ProviderError struct {
	Provider   string
	Code       ErrorCode
	Message    string
	Underlying error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %s: %s (%v)", e.Provider, e.Code, e.Message, e.Underlying)
	}
	return fmt.Sprintf("%s: %s: %s", e.Provider, e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *ProviderError) Unwrap() error {
	return e.Underlying
}

// NewProviderError builds a ProviderError.
func NewProviderError(provider string, code ErrorCode, message string, underlying error) *ProviderError {
	return &ProviderError{
		Provider:   provider,
		Code:       code,
		Message:    message,
		Underlying: underlying,
	}
}

// IsProviderError reports whether err is (or wraps) a ProviderError.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}

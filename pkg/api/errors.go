package api

import "fmt"

// ErrorType represents the category of a query error.
type ErrorType string

const (
	ErrorTypeAPI      ErrorType = "api"
	ErrorTypeNetwork  ErrorType = "network"
	ErrorTypeTimeout  ErrorType = "timeout"
	ErrorTypeNoResult ErrorType = "no_result"
)

// QueryError is the single error shape surfaced to callers. Every failure
// mode (HTTP status, missing content, transport failure, timeout) converges
// here before leaving the package boundary. Deliberate cancellation is the
// one exception: it is reported as context.Canceled, never as a QueryError.
type QueryError struct {
	Type    ErrorType `json:"type"`
	Code    string    `json:"code,omitempty"`
	Message string    `json:"message"`
}

// Error implements the error interface.
func (e *QueryError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s (code: %s)", e.Type, e.Message, e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// NewAPIError creates a QueryError for a backend failure identified by an
// HTTP-style status code.
func NewAPIError(code, message string) *QueryError {
	return &QueryError{
		Type:    ErrorTypeAPI,
		Code:    code,
		Message: message,
	}
}

// NewNetworkError creates a QueryError for a transport-level failure.
func NewNetworkError(code, message string) *QueryError {
	return &QueryError{
		Type:    ErrorTypeNetwork,
		Code:    code,
		Message: message,
	}
}

// NewTimeoutError creates a QueryError for an exceeded request deadline.
// The message is fixed; consumers display it verbatim.
func NewTimeoutError() *QueryError {
	return &QueryError{
		Type:    ErrorTypeTimeout,
		Message: "Request timeout.",
	}
}

// NewNoResultError creates a QueryError for a response that carried no
// translated content.
func NewNoResultError(message string) *QueryError {
	return &QueryError{
		Type:    ErrorTypeNoResult,
		Message: message,
	}
}

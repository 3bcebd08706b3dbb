package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType classifies failures from the guest API and its surroundings
type ErrorType string

const (
	// ErrorTypeAuth means no bearer token or guest token could be obtained
	ErrorTypeAuth ErrorType = "auth"
	// ErrorTypeDiscovery means bootstrap scraping found nothing usable
	ErrorTypeDiscovery ErrorType = "discovery"
	// ErrorTypeRateLimit is an HTTP 429 response
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeSchemaMismatch is a missing variable/feature that the
	// adaptive retry loop could not resolve within its ceiling
	ErrorTypeSchemaMismatch ErrorType = "schema_mismatch"
	// ErrorTypeUnknownShape is an unrecognized response envelope
	ErrorTypeUnknownShape ErrorType = "unknown_shape"
	// ErrorTypeHTTP is any other non-200 response
	ErrorTypeHTTP ErrorType = "http"
	// ErrorTypeNetwork is a transport-level failure
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeParsing is a malformed or incomplete response body
	ErrorTypeParsing ErrorType = "parsing"
)

// Error represents a classified API error
type Error struct {
	Type    ErrorType
	Message string
	Code    int
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// New creates an Error of the given type
func New(errorType ErrorType, message string) *Error {
	return &Error{Type: errorType, Message: message}
}

// Newf creates an Error with a formatted message
func Newf(errorType ErrorType, format string, args ...interface{}) *Error {
	return &Error{Type: errorType, Message: fmt.Sprintf(format, args...)}
}

// NewWithCode creates an Error carrying an HTTP status code
func NewWithCode(errorType ErrorType, code int, message string) *Error {
	return &Error{Type: errorType, Message: message, Code: code}
}

// TypeOf returns the classification of err. Errors that are not *Error
// report an empty type.
func TypeOf(err error) ErrorType {
	var apiErr *Error
	if stderrors.As(err, &apiErr) {
		return apiErr.Type
	}
	return ""
}

// IsType reports whether err is an *Error of the given type
func IsType(err error, errorType ErrorType) bool {
	return TypeOf(err) == errorType
}

// IsFatal reports whether an error should abort the whole run rather than
// skip the current item. Auth and discovery failures leave no way to make
// further requests; an unknown envelope shape means the normalizer can no
// longer be trusted.
func IsFatal(err error) bool {
	switch TypeOf(err) {
	case ErrorTypeAuth, ErrorTypeDiscovery, ErrorTypeUnknownShape:
		return true
	}
	return false
}

// IsRetryableStatusCode checks if an HTTP status code indicates a retryable error
func IsRetryableStatusCode(statusCode int) bool {
	switch statusCode {
	case 0: // Network error
		return true
	case 429: // Too Many Requests
		return true
	case 500, 502, 503, 504: // Server errors
		return true
	case 401, 403, 404: // Client errors that won't change
		return false
	default:
		return statusCode >= 500
	}
}

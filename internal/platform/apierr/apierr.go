package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeProvider      = "PROVIDER_ERROR"
	CodeRateLimit     = "RATE_LIMIT_ERROR"
	CodeVectorStore   = "VECTOR_SERVICE_ERROR"
	CodeHealthCheck   = "HEALTH_CHECK_ERROR"
	CodeValidation    = "VALIDATION_ERROR"
	CodeConfiguration = "CONFIGURATION_ERROR"
	CodeNotFound      = "NOT_FOUND"
	CodeInternal      = "INTERNAL_ERROR"
)

// DefaultRetryAfter is the back-off advertised to callers that hit a rate limit, in seconds.
const DefaultRetryAfter = 60

type Error struct {
	Status int
	Code   string
	Err    error

	// RetryAfter is only meaningful for CodeRateLimit.
	RetryAfter int
	Details    map[string]string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

// Label is the short human headline written to the "error" field of the envelope.
func (e *Error) Label() string {
	switch e.Code {
	case CodeProvider:
		return "AI service temporarily unavailable"
	case CodeRateLimit:
		return "Rate limit exceeded"
	case CodeVectorStore:
		return "Vector database service unavailable"
	case CodeHealthCheck:
		return "Health check failed"
	case CodeValidation:
		return "Validation error"
	case CodeConfiguration:
		return "Configuration error"
	case CodeNotFound:
		return "Not found"
	default:
		return "Internal server error"
	}
}

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func Provider(provider string, err error) *Error {
	return New(http.StatusServiceUnavailable, CodeProvider, fmt.Errorf("%s: %w", provider, err))
}

func RateLimited(operation string, retryAfter int) *Error {
	if retryAfter <= 0 {
		retryAfter = DefaultRetryAfter
	}
	e := New(http.StatusTooManyRequests, CodeRateLimit, fmt.Errorf("rate limit exceeded for %s", operation))
	e.RetryAfter = retryAfter
	return e
}

func VectorStore(err error) *Error {
	return New(http.StatusServiceUnavailable, CodeVectorStore, err)
}

func HealthCheck(err error) *Error {
	return New(http.StatusServiceUnavailable, CodeHealthCheck, err)
}

func Configuration(err error) *Error {
	return New(http.StatusBadRequest, CodeConfiguration, err)
}

func Validation(err error, details map[string]string) *Error {
	e := New(http.StatusBadRequest, CodeValidation, err)
	e.Details = details
	return e
}

func NotFound(err error) *Error {
	return New(http.StatusNotFound, CodeNotFound, err)
}

func Internal(err error) *Error {
	return New(http.StatusInternalServerError, CodeInternal, err)
}

// As extracts an *Error from err. Anything else is reported as an internal error.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err)
}

// IsRateLimit reports whether err carries the rate-limit code.
func IsRateLimit(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == CodeRateLimit
}

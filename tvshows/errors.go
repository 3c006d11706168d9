package tvshows

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
)

// Common errors
var (
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid tvshows client configuration")
	// ErrMissingID indicates an item operation was called without a show ID
	ErrMissingID = errors.New("show ID is required")

	// ErrNetworkFailure matches reports where no response was received
	ErrNetworkFailure = errors.New("network failure")
	// ErrTimeout matches reports where the response did not arrive in time
	ErrTimeout = errors.New("request timed out")
	// ErrHTTPStatus matches reports for non-2xx responses
	ErrHTTPStatus = errors.New("unexpected HTTP status")
	// ErrUnexpectedShape matches reports for any other failure
	ErrUnexpectedShape = errors.New("unexpected failure")
)

// Kind classifies a failed request
type Kind int

const (
	KindNetworkFailure Kind = iota + 1
	KindTimeout
	KindHTTPStatus
	KindUnexpectedShape
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindNetworkFailure:
		return "NetworkFailure"
	case KindTimeout:
		return "Timeout"
	case KindHTTPStatus:
		return "HttpStatusError"
	case KindUnexpectedShape:
		return "UnexpectedShape"
	default:
		return "Unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindNetworkFailure:
		return ErrNetworkFailure
	case KindTimeout:
		return ErrTimeout
	case KindHTTPStatus:
		return ErrHTTPStatus
	default:
		return ErrUnexpectedShape
	}
}

// APIError represents a non-2xx response from the backend
type APIError struct {
	StatusCode int
	Body       []byte
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("request failed with status code %d", e.StatusCode)
}

// ErrorReport is the caller-facing description of a failed request.
// Every error returned by Client operations is an *ErrorReport.
type ErrorReport struct {
	Kind    Kind
	Message string

	// Method and URL identify the request that was attempted
	Method string
	URL    string

	// StatusCode and Body are set for KindHTTPStatus only
	StatusCode int
	Body       []byte

	Err error
}

// Error implements the error interface
func (e *ErrorReport) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s %s: %s: %s", e.Method, e.URL, e.Kind, e.Message)
}

// Unwrap returns the underlying cause
func (e *ErrorReport) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the report's kind
func (e *ErrorReport) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// IsNotFound checks if the report carries a 404 response
func (e *ErrorReport) IsNotFound() bool {
	return e.Kind == KindHTTPStatus && e.StatusCode == http.StatusNotFound
}

// IsUnauthorized checks if the report carries an authentication failure
func (e *ErrorReport) IsUnauthorized() bool {
	return e.Kind == KindHTTPStatus &&
		(e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden)
}

// BodyJSON decodes the response body as generic JSON.
// It returns nil when the body is empty or not valid JSON.
func (e *ErrorReport) BodyJSON() any {
	if len(e.Body) == 0 {
		return nil
	}
	var payload any
	if err := json.Unmarshal(e.Body, &payload); err != nil {
		return nil
	}
	return payload
}

// Classify maps a failure raised while performing method on rawURL into an
// ErrorReport. A nil error yields nil; an existing report is returned as is.
func Classify(method, rawURL string, err error) *ErrorReport {
	if err == nil {
		return nil
	}

	var report *ErrorReport
	if errors.As(err, &report) {
		return report
	}

	report = &ErrorReport{
		Method: method,
		URL:    rawURL,
		Err:    err,
	}

	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		report.Kind = KindHTTPStatus
		report.StatusCode = apiErr.StatusCode
		report.Body = apiErr.Body
		report.Message = apiErr.Error()
	case isTimeout(err):
		report.Kind = KindTimeout
		report.Message = "no response received within the configured timeout"
	case isNetworkFailure(err):
		report.Kind = KindNetworkFailure
		report.Message = "no response received: " + rootCause(err).Error()
	default:
		report.Kind = KindUnexpectedShape
		report.Message = err.Error()
	}

	return report
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isNetworkFailure(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	var (
		urlErr *url.Error
		opErr  *net.OpError
		dnsErr *net.DNSError
	)
	return errors.As(err, &urlErr) || errors.As(err, &opErr) || errors.As(err, &dnsErr)
}

// rootCause strips *url.Error so messages don't repeat the method and URL
func rootCause(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err
	}
	return err
}

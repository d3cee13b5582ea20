package shipper

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind is the closed taxonomy of carrier failures.
type ErrorKind string

const (
	KindConfig            ErrorKind = "CONFIG_ERROR"
	KindValidation        ErrorKind = "VALIDATION_ERROR"
	KindAuth              ErrorKind = "AUTH_ERROR"
	KindRateLimit         ErrorKind = "RATE_LIMIT_ERROR"
	KindUpstreamHTTP      ErrorKind = "UPSTREAM_HTTP_ERROR"
	KindMalformedResponse ErrorKind = "MALFORMED_RESPONSE"
	KindTimeout           ErrorKind = "TIMEOUT_ERROR"
	KindNetwork           ErrorKind = "NETWORK_ERROR"
)

// Metadata keys used across carriers.
const (
	MetaIssues          = "issues"
	MetaValue           = "value"
	MetaUpstreamMessage = "upstream_message"
)

// CarrierError is the only error shape returned by carrier clients.
type CarrierError struct {
	Kind         ErrorKind
	Message      string
	Carrier      string
	Operation    string
	StatusCode   int // 0 when no HTTP status is involved
	Retryable    bool
	UpstreamCode string
	Cause        error
	Metadata     map[string]any
}

// Error implements the error interface.
func (e *CarrierError) Error() string {
	var msg string
	if prefix := strings.TrimSpace(e.Carrier + " " + e.Operation); prefix != "" {
		msg = fmt.Sprintf("%s error (%s): %s", prefix, e.Kind, e.Message)
	} else {
		msg = fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" [status %d]", e.StatusCode)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *CarrierError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is for CarrierError. Two errors match when they share a kind.
func (e *CarrierError) Is(target error) bool {
	t, ok := target.(*CarrierError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// NewCarrierError creates a new CarrierError.
func NewCarrierError(kind ErrorKind, carrier, operation, message string) *CarrierError {
	return &CarrierError{
		Kind:      kind,
		Carrier:   carrier,
		Operation: operation,
		Message:   message,
	}
}

// WithCause adds a cause to the error.
func (e *CarrierError) WithCause(err error) *CarrierError {
	e.Cause = err
	return e
}

// WithStatusCode adds an HTTP status code to the error.
func (e *CarrierError) WithStatusCode(code int) *CarrierError {
	e.StatusCode = code
	return e
}

// WithRetryable marks the error as retryable.
func (e *CarrierError) WithRetryable(retryable bool) *CarrierError {
	e.Retryable = retryable
	return e
}

// WithUpstreamCode records the carrier's own error code.
func (e *CarrierError) WithUpstreamCode(code string) *CarrierError {
	e.UpstreamCode = code
	return e
}

// WithMetadata sets a metadata entry.
func (e *CarrierError) WithMetadata(key string, value any) *CarrierError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]any)
	}
	e.Metadata[key] = value
	return e
}

// Sentinel errors, one per kind, for use with errors.Is.
var (
	ErrConfig            = &CarrierError{Kind: KindConfig}
	ErrValidation        = &CarrierError{Kind: KindValidation}
	ErrAuth              = &CarrierError{Kind: KindAuth}
	ErrRateLimit         = &CarrierError{Kind: KindRateLimit}
	ErrUpstreamHTTP      = &CarrierError{Kind: KindUpstreamHTTP}
	ErrMalformedResponse = &CarrierError{Kind: KindMalformedResponse}
	ErrTimeout           = &CarrierError{Kind: KindTimeout}
	ErrNetwork           = &CarrierError{Kind: KindNetwork}
)

// ErrCarrierNotFound indicates the requested carrier is not registered.
var ErrCarrierNotFound = errors.New("carrier not found")

// IsRetryable returns true if the error is a retryable CarrierError.
func IsRetryable(err error) bool {
	var carrierErr *CarrierError
	if errors.As(err, &carrierErr) {
		return carrierErr.Retryable
	}
	return false
}

// KindOf returns the kind of the first CarrierError in the chain, or "".
func KindOf(err error) ErrorKind {
	var carrierErr *CarrierError
	if errors.As(err, &carrierErr) {
		return carrierErr.Kind
	}
	return ""
}

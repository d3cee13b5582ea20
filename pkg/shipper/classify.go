package shipper

import (
	"context"
	"encoding/json"
	"errors"
	"net"
)

// Classify converts any failure escaping a carrier operation into a
// CarrierError. It is the only place where raw errors are mapped to kinds;
// HTTP status triage happens in the carrier clients.
//
// Errors that already carry a CarrierError are returned unchanged.
func Classify(err error, message, operation, carrier string) *CarrierError {
	if err == nil {
		return nil
	}

	var carrierErr *CarrierError
	if errors.As(err, &carrierErr) {
		return carrierErr
	}

	if isTimeout(err) {
		return NewCarrierError(KindTimeout, carrier, operation, "request timed out").
			WithRetryable(true).
			WithCause(err)
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return NewCarrierError(KindMalformedResponse, carrier, operation, "upstream returned malformed JSON").
			WithRetryable(false).
			WithCause(err)
	}

	return NewCarrierError(KindNetwork, carrier, operation, message).
		WithRetryable(true).
		WithCause(err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

package cargo

import (
	"errors"
	"fmt"
)

// CarrierError represents an error raised while talking to a carrier.
// Drivers use it internally; it never crosses the Provider boundary raw,
// only folded into a typed result via FailureFromError.
type CarrierError struct {
	Carrier    string
	Code       string
	Message    string
	StatusCode int // result code taxonomy (400/404/422/503)
	Retryable  bool
	Cause      error
}

// Error implements the error interface.
func (e *CarrierError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s error (%s): %s: %v", e.Carrier, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s error (%s): %s", e.Carrier, e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *CarrierError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is for CarrierError.
func (e *CarrierError) Is(target error) bool {
	t, ok := target.(*CarrierError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewCarrierError creates a new CarrierError.
func NewCarrierError(carrier, code, message string) *CarrierError {
	return &CarrierError{
		Carrier: carrier,
		Code:    code,
		Message: message,
	}
}

// WithCause adds a cause to the error.
func (e *CarrierError) WithCause(err error) *CarrierError {
	e.Cause = err
	return e
}

// WithStatusCode sets the result code the error maps to.
func (e *CarrierError) WithStatusCode(code int) *CarrierError {
	e.StatusCode = code
	return e
}

// WithRetryable marks the error as retryable.
func (e *CarrierError) WithRetryable(retryable bool) *CarrierError {
	e.Retryable = retryable
	return e
}

// Sentinel errors for common carrier scenarios.
var (
	// ErrMissingConfig indicates credentials or an endpoint are not configured.
	ErrMissingConfig = errors.New("carrier configuration missing")

	// ErrCarrierNotFound indicates the requested carrier is not registered.
	ErrCarrierNotFound = errors.New("carrier not found")

	// ErrInvalidRequest indicates the shipment request failed validation.
	ErrInvalidRequest = errors.New("invalid shipment request")

	// ErrShipmentNotFound indicates the carrier has no record of the shipment.
	ErrShipmentNotFound = errors.New("shipment not found")

	// ErrAlreadyCancelled indicates the shipment was cancelled before.
	ErrAlreadyCancelled = errors.New("shipment already cancelled")

	// ErrLabelNotAvailable indicates the label is not yet available.
	ErrLabelNotAvailable = errors.New("label not available")

	// ErrAuthenticationFailed indicates carrier authentication failed.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrCarrierUnavailable indicates the carrier endpoint cannot be reached.
	ErrCarrierUnavailable = errors.New("carrier unavailable")
)

// IsRetryable returns true if the error is worth retrying upstream.
func IsRetryable(err error) bool {
	var carrierErr *CarrierError
	if errors.As(err, &carrierErr) {
		return carrierErr.Retryable
	}
	return errors.Is(err, ErrCarrierUnavailable)
}

// FailureFromError folds any driver-internal error into a typed shipment
// result. CarrierError keeps its own result code; everything else is a
// transport-class 503 so no raw exception ever reaches a caller.
func FailureFromError(carrier string, err error) *ShipmentResult {
	var carrierErr *CarrierError
	if errors.As(err, &carrierErr) {
		code := carrierErr.StatusCode
		if code == 0 {
			code = CodeUnavailable
		}
		return ShipmentFailure(code, fmt.Sprintf("%s: %s", carrier, carrierErr.Message))
	}
	return ShipmentFailure(CodeUnavailable, fmt.Sprintf("%s: %v", carrier, err))
}

// TrackingFailureFromError is FailureFromError's counterpart for track calls.
func TrackingFailureFromError(carrier string, err error) *TrackingResult {
	var carrierErr *CarrierError
	if errors.As(err, &carrierErr) {
		return TrackingFailure(fmt.Sprintf("%s: %s", carrier, carrierErr.Message))
	}
	return TrackingFailure(fmt.Sprintf("%s: %v", carrier, err))
}

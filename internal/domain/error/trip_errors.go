// Package error defines domain-specific errors for the FleetOps application.
package error

import (
	"errors"
	"fmt"
)

// Trip domain errors.
var (
	// ErrTripNotFound is returned when a trip is not found in the store.
	ErrTripNotFound = errors.New("trip not found")

	// ErrInvalidStatusTransition is returned when a trip status transition
	// skips a state or runs backwards.
	ErrInvalidStatusTransition = errors.New("invalid trip status transition")

	// ErrTripInvoiced is returned when an operation targets an invoiced trip.
	// Invoiced is terminal: no further mutation is permitted.
	ErrTripInvoiced = errors.New("trip is invoiced and can no longer be modified")

	// ErrTripNotActive is returned when an active-only operation targets a
	// completed or invoiced trip.
	ErrTripNotActive = errors.New("trip is not active")

	// ErrMissingTripFields is returned when required trip fields are missing.
	ErrMissingTripFields = errors.New("required trip fields missing")

	// ErrInvalidClientType is returned when the client type is not recognized.
	ErrInvalidClientType = errors.New("invalid client type")

	// ErrNegativeRevenue is returned when base revenue is negative.
	ErrNegativeRevenue = errors.New("base revenue must not be negative")

	// ErrNegativeDistance is returned when the trip distance is negative.
	ErrNegativeDistance = errors.New("distance must not be negative")

	// ErrEndBeforeStart is returned when the trip end date precedes its start date.
	ErrEndBeforeStart = errors.New("end date must not precede start date")
)

// TripErrorCode defines error codes for trip errors.
// Format: TRP-XXYYYY where XX is category and YYYY is specific error.
type TripErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeMissingTripFields TripErrorCode = "TRP-010001"
	ErrCodeInvalidClientType TripErrorCode = "TRP-010002"
	ErrCodeNegativeRevenue   TripErrorCode = "TRP-010003"
	ErrCodeNegativeDistance  TripErrorCode = "TRP-010004"
	ErrCodeEndBeforeStart    TripErrorCode = "TRP-010005"
	ErrCodeTripNotFound      TripErrorCode = "TRP-010006"

	// Lifecycle errors (02XXXX)
	ErrCodeInvalidTransition TripErrorCode = "TRP-020001"
	ErrCodeIncompleteFlags   TripErrorCode = "TRP-020002"
	ErrCodeTripInvoiced      TripErrorCode = "TRP-020003"
	ErrCodeTripNotActive     TripErrorCode = "TRP-020004"
)

// TripError represents a trip error with code and message.
type TripError struct {
	Code    TripErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *TripError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *TripError) Unwrap() error {
	return e.Err
}

// NewTripError creates a new TripError with the given code and message.
func NewTripError(code TripErrorCode, message string, err error) *TripError {
	return &TripError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IncompleteFlagsError blocks the active -> completed transition while
// flagged cost entries remain unresolved. It carries the exact count so the
// caller can report it.
type IncompleteFlagsError struct {
	UnresolvedCount int
}

// Error implements the error interface.
func (e *IncompleteFlagsError) Error() string {
	return fmt.Sprintf("trip has %d unresolved flagged cost entries", e.UnresolvedCount)
}

// NewIncompleteFlagsError creates an IncompleteFlagsError with the count of
// unresolved flagged entries.
func NewIncompleteFlagsError(unresolvedCount int) *IncompleteFlagsError {
	return &IncompleteFlagsError{UnresolvedCount: unresolvedCount}
}

package bookingflow

import (
	"errors"
	"fmt"
)

type Code string

const (
	// Bad attendee input. Local, no network call was made.
	CodeValidation Code = "validation"
	// Unknown or unloadable event. Terminal for this attempt.
	CodeNotFound Code = "not_found"
	// Provider failure, cancellation, or deadline. The user may retry
	// from the start.
	CodePayment Code = "payment"
	// Booking creation failed after the payment was captured. Terminal,
	// needs manual reconciliation.
	CodePersistence Code = "persistence"
	// Ticket generation or upload failed. The booking itself stands.
	CodeDocument Code = "document"
)

// FlowError is the single result type every collaborator failure is
// converted to at the orchestrator boundary.
type FlowError struct {
	Code    Code
	Message string
	Err     error
}

func (e *FlowError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *FlowError) Unwrap() error {
	return e.Err
}

// AsFlowError extracts a *FlowError from an error chain.
func AsFlowError(err error) (*FlowError, bool) {
	var flowErr *FlowError
	if errors.As(err, &flowErr) {
		return flowErr, true
	}
	return nil, false
}

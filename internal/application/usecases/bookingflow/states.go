package bookingflow

import "time"

// State of a single booking attempt.
type State string

const (
	StateIdle              State = "IDLE"
	StateValidating        State = "VALIDATING"
	StateAwaitingPayment   State = "AWAITING_PAYMENT"
	StatePaymentFailed     State = "PAYMENT_FAILED"
	StatePaymentSucceeded  State = "PAYMENT_SUCCEEDED"
	StatePersistingBooking State = "PERSISTING_BOOKING"
	StatePersistFailed     State = "PERSIST_FAILED"
	StateBookingConfirmed  State = "BOOKING_CONFIRMED"
	StateGeneratingTicket  State = "GENERATING_TICKET"
	StateGenerationFailed  State = "GENERATION_FAILED"
	StateTicketReady       State = "TICKET_READY"
)

// Transition is a single state change, emitted to the attempt observer for
// progress display.
type Transition struct {
	From State     `json:"from"`
	To   State     `json:"to"`
	At   time.Time `json:"at"`
}

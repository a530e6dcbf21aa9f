package entities

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrBookingNotFound = errors.New("booking not found")

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
)

// Attendee is the client-side form state for a single booking attempt.
// It carries no persistent identity.
type Attendee struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Mobile      string `json:"mobile" validate:"required"`
	TicketCount int    `json:"tickets" validate:"required,gte=1"`
}

// Booking is the record of a paid booking. Once persisted it is owned by
// the bookings store; the workflow holds only the copy returned from create.
type Booking struct {
	ID               uuid.UUID     `json:"booking_id" db:"id"`
	EventID          uuid.UUID     `json:"event_id" db:"event_id"`
	AttendeeName     string        `json:"name" db:"attendee_name"`
	AttendeeEmail    string        `json:"email" db:"attendee_email"`
	AttendeeMobile   string        `json:"mobile" db:"attendee_mobile"`
	TicketCount      int           `json:"tickets" db:"ticket_count"`
	AmountPaid       Money         `json:"amount_paid"`
	PaymentReference string        `json:"payment_reference" db:"payment_reference"`
	Status           BookingStatus `json:"status" db:"status"`
	TicketLocation   string        `json:"ticket_location" db:"ticket_location"`
	CreatedAt        time.Time     `json:"created_at" db:"created_at"`
}

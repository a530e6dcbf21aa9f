package entities

import (
	"time"

	"github.com/google/uuid"
)

type Event interface {
	IsInternal() bool
}

type BookingConfirmed_v1 struct {
	Header           EventHeader `json:"header"`
	BookingID        uuid.UUID   `json:"booking_id"`
	EventID          uuid.UUID   `json:"event_id"`
	AttendeeEmail    string      `json:"attendee_email"`
	TicketCount      int         `json:"ticket_count"`
	AmountPaid       Money       `json:"amount_paid"`
	PaymentReference string      `json:"payment_reference"`
	BookedAt         time.Time   `json:"booked_at"`
}

func (e BookingConfirmed_v1) IsInternal() bool {
	return false
}

type TicketGenerated_v1 struct {
	Header EventHeader `json:"header"`

	BookingID   uuid.UUID `json:"booking_id"`
	EventID     uuid.UUID `json:"event_id"`
	Location    string    `json:"location"`
	GeneratedAt time.Time `json:"generated_at"`
}

func (e TicketGenerated_v1) IsInternal() bool {
	return false
}

type TicketGenerationFailed_v1 struct {
	Header EventHeader `json:"header"`

	BookingID uuid.UUID `json:"booking_id"`
	EventID   uuid.UUID `json:"event_id"`
	Reason    string    `json:"reason"`
}

func (e TicketGenerationFailed_v1) IsInternal() bool {
	return false
}

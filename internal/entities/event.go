package entities

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrEventNotFound = errors.New("event not found")

// EventSummary is the bookable projection of an event. It is owned by the
// catalog; the booking workflow only reads it.
type EventSummary struct {
	ID          uuid.UUID `json:"event_id"`
	Title       string    `json:"title"`
	Venue       string    `json:"venue"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	TicketPrice Money     `json:"ticket_price"`
	ImageURL    string    `json:"image_url"`
}

package events

import (
	"context"

	"github.com/google/uuid"

	"eventhive/internal/entities"
)

type TicketsService interface {
	Regenerate(ctx context.Context, booking entities.Booking, event entities.EventSummary) (string, error)
}

type BookingsRepository interface {
	GetBooking(ctx context.Context, id uuid.UUID) (entities.Booking, error)
	SetTicketLocation(ctx context.Context, id uuid.UUID, location string) error
}

type EventCatalog interface {
	GetEvent(ctx context.Context, id uuid.UUID) (entities.EventSummary, error)
}

type Handler struct {
	ticketsService TicketsService
	bookingsRepo   BookingsRepository
	catalog        EventCatalog
}

func NewHandler(
	ticketsService TicketsService,
	bookingsRepo BookingsRepository,
	catalog EventCatalog,
) *Handler {
	return &Handler{
		ticketsService: ticketsService,
		bookingsRepo:   bookingsRepo,
		catalog:        catalog,
	}
}

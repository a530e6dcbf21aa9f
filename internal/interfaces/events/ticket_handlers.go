package events

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/components/cqrs"

	"eventhive/internal/entities"
	"eventhive/internal/pkg/log"
)

// StoreTicketLocationHandler writes the generated ticket's location back
// onto the booking record.
func (h *Handler) StoreTicketLocationHandler() cqrs.EventHandler {
	return cqrs.NewEventHandler(
		"store_ticket_location_handler",
		func(ctx context.Context, payload *entities.TicketGenerated_v1) error {
			log.FromContext(ctx).Info("Storing ticket location")

			return h.bookingsRepo.SetTicketLocation(ctx, payload.BookingID, payload.Location)
		},
	)
}

// RegenerateTicketHandler retries ticket generation for bookings whose
// inline generation failed. The router's retry middleware bounds the
// attempts with backoff.
func (h *Handler) RegenerateTicketHandler() cqrs.EventHandler {
	return cqrs.NewEventHandler(
		"regenerate_ticket_handler",
		func(ctx context.Context, payload *entities.TicketGenerationFailed_v1) error {
			log.FromContext(ctx).Info("Regenerating ticket")

			booking, err := h.bookingsRepo.GetBooking(ctx, payload.BookingID)
			if err != nil {
				return fmt.Errorf("failed to load booking: %w", err)
			}

			if booking.TicketLocation != "" {
				// Another attempt already produced the ticket.
				return nil
			}

			event, err := h.catalog.GetEvent(ctx, payload.EventID)
			if err != nil {
				return fmt.Errorf("failed to load event: %w", err)
			}

			_, err = h.ticketsService.Regenerate(ctx, booking, event)
			return err
		},
	)
}

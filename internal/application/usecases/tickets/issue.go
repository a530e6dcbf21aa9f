package tickets

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"eventhive/internal/entities"
	"eventhive/internal/infrastructure/clients"
	"eventhive/internal/pkg/log"
	"eventhive/internal/ticket"
)

type DocumentStore interface {
	Upload(ctx context.Context, req clients.UploadTicketRequest) (string, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event any) error
}

// IssueTicketUsecase renders the ticket document for a confirmed booking,
// stores it, and announces the outcome.
type IssueTicketUsecase struct {
	store     DocumentStore
	publisher EventPublisher
	clock     func() time.Time
}

func NewIssueTicketUsecase(store DocumentStore, publisher EventPublisher) *IssueTicketUsecase {
	return &IssueTicketUsecase{
		store:     store,
		publisher: publisher,
		clock:     time.Now,
	}
}

// Issue generates and uploads the ticket. On upload failure it publishes
// TicketGenerationFailed so the async path can pick the booking up again;
// the booking itself is not touched.
func (u *IssueTicketUsecase) Issue(ctx context.Context, booking entities.Booking, event entities.EventSummary) (string, error) {
	location, err := u.issue(ctx, booking, event)
	if err != nil {
		publishErr := u.publisher.Publish(ctx, entities.TicketGenerationFailed_v1{
			Header:    entities.NewEventHeader(),
			BookingID: booking.ID,
			EventID:   event.ID,
			Reason:    err.Error(),
		})
		if publishErr != nil {
			log.FromContext(ctx).
				WithField("booking_id", booking.ID).
				WithField("error", publishErr).
				Error("Failed to publish ticket generation failure")
		}

		return "", err
	}

	return location, nil
}

// Regenerate is the retry path driven by TicketGenerationFailed events. It
// does not republish the failure: the message layer owns retries here.
func (u *IssueTicketUsecase) Regenerate(ctx context.Context, booking entities.Booking, event entities.EventSummary) (string, error) {
	return u.issue(ctx, booking, event)
}

func (u *IssueTicketUsecase) issue(ctx context.Context, booking entities.Booking, event entities.EventSummary) (string, error) {
	issuedAt := u.clock()

	document, err := ticket.Render(booking, event, issuedAt)
	if err != nil {
		return "", err
	}

	location, err := u.store.Upload(ctx, clients.UploadTicketRequest{
		BookingID:     booking.ID,
		EventID:       event.ID,
		FileName:      fmt.Sprintf("%s-ticket.html", booking.ID),
		ContentBase64: base64.StdEncoding.EncodeToString(document),
		AttendeeName:  booking.AttendeeName,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload ticket: %w", err)
	}

	err = u.publisher.Publish(ctx, entities.TicketGenerated_v1{
		Header:      entities.NewEventHeader(),
		BookingID:   booking.ID,
		EventID:     event.ID,
		Location:    location,
		GeneratedAt: issuedAt,
	})
	if err != nil {
		// The ticket exists; losing the event only delays the read side.
		log.FromContext(ctx).
			WithField("booking_id", booking.ID).
			WithField("error", err).
			Error("Failed to publish ticket generated event")
	}

	return location, nil
}

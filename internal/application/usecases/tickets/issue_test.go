package tickets

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventhive/internal/entities"
	"eventhive/internal/infrastructure/clients"
)

type fakeDocumentStore struct {
	location string
	err      error

	uploads []clients.UploadTicketRequest
}

func (f *fakeDocumentStore) Upload(ctx context.Context, req clients.UploadTicketRequest) (string, error) {
	f.uploads = append(f.uploads, req)
	if f.err != nil {
		return "", f.err
	}
	return f.location, nil
}

type fakePublisher struct {
	published []any
}

func (f *fakePublisher) Publish(ctx context.Context, event any) error {
	f.published = append(f.published, event)
	return nil
}

func fixture() (entities.Booking, entities.EventSummary) {
	event := entities.EventSummary{
		ID:          uuid.New(),
		Title:       "GopherCon India",
		Venue:       "Bangalore International Centre",
		TicketPrice: entities.Money{Amount: 50000, Currency: "INR"},
	}
	booking := entities.Booking{
		ID:               uuid.New(),
		EventID:          event.ID,
		AttendeeName:     "Aman Verma",
		AttendeeEmail:    "aman@example.com",
		AttendeeMobile:   "9876543210",
		TicketCount:      2,
		AmountPaid:       entities.Money{Amount: 100000, Currency: "INR"},
		PaymentReference: "pay_123",
	}
	return booking, event
}

func TestIssue_UploadsRenderedTicket(t *testing.T) {
	store := &fakeDocumentStore{location: "/tickets/t.html"}
	publisher := &fakePublisher{}
	usecase := NewIssueTicketUsecase(store, publisher)

	booking, event := fixture()

	location, err := usecase.Issue(context.Background(), booking, event)
	require.NoError(t, err)
	assert.Equal(t, "/tickets/t.html", location)

	require.Len(t, store.uploads, 1)
	upload := store.uploads[0]
	assert.Equal(t, booking.ID, upload.BookingID)
	assert.Equal(t, booking.ID.String()+"-ticket.html", upload.FileName)

	document, err := base64.StdEncoding.DecodeString(upload.ContentBase64)
	require.NoError(t, err)
	assert.Contains(t, string(document), "GopherCon India")
	assert.Contains(t, string(document), "Total Amount: 1000 INR")

	require.Len(t, publisher.published, 1)
	generated, ok := publisher.published[0].(entities.TicketGenerated_v1)
	require.True(t, ok)
	assert.Equal(t, booking.ID, generated.BookingID)
	assert.Equal(t, "/tickets/t.html", generated.Location)
}

func TestIssue_UploadFailurePublishesFailureEvent(t *testing.T) {
	store := &fakeDocumentStore{err: errors.New("store down")}
	publisher := &fakePublisher{}
	usecase := NewIssueTicketUsecase(store, publisher)

	booking, event := fixture()

	_, err := usecase.Issue(context.Background(), booking, event)
	require.Error(t, err)

	require.Len(t, publisher.published, 1)
	failed, ok := publisher.published[0].(entities.TicketGenerationFailed_v1)
	require.True(t, ok)
	assert.Equal(t, booking.ID, failed.BookingID)
	assert.Equal(t, event.ID, failed.EventID)
	assert.NotEmpty(t, failed.Reason)
}

func TestRegenerate_FailureDoesNotRepublish(t *testing.T) {
	store := &fakeDocumentStore{err: errors.New("store down")}
	publisher := &fakePublisher{}
	usecase := NewIssueTicketUsecase(store, publisher)

	booking, event := fixture()

	_, err := usecase.Regenerate(context.Background(), booking, event)
	require.Error(t, err)

	assert.Empty(t, publisher.published, "the message layer owns retries on the regeneration path")
}

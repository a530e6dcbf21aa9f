package bookingflow_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventhive/internal/application/usecases/bookingflow"
	"eventhive/internal/entities"
	"eventhive/internal/idempotency"
)

type fakeCatalog struct {
	event entities.EventSummary
	err   error
}

func (f *fakeCatalog) GetEvent(ctx context.Context, id uuid.UUID) (entities.EventSummary, error) {
	if f.err != nil {
		return entities.EventSummary{}, f.err
	}
	return f.event, nil
}

// fakeProvider invokes the given outcome callbacks synchronously from
// OpenCheckout, before the flow starts waiting. The flow's outcome channel
// is buffered, so this is a valid provider behavior.
type fakeProvider struct {
	session bookingflow.CheckoutSession
	openErr error
	deliver func(onSuccess func(string), onFailure func(string))

	opened int
	ctx    context.Context
}

func (f *fakeProvider) OpenCheckout(
	ctx context.Context,
	req bookingflow.CheckoutRequest,
	onSuccess func(string),
	onFailure func(string),
) (bookingflow.CheckoutSession, error) {
	f.opened++
	f.ctx = ctx
	if f.openErr != nil {
		return bookingflow.CheckoutSession{}, f.openErr
	}
	if f.deliver != nil {
		f.deliver(onSuccess, onFailure)
	}
	return f.session, nil
}

type fakeStore struct {
	id  uuid.UUID
	err error

	created []entities.Booking
	keys    []string
}

func (f *fakeStore) CreateBooking(ctx context.Context, booking entities.Booking, idempotencyKey string) (uuid.UUID, error) {
	f.created = append(f.created, booking)
	f.keys = append(f.keys, idempotencyKey)
	if f.err != nil {
		return uuid.Nil, f.err
	}
	return f.id, nil
}

type fakeIssuer struct {
	location string
	err      error

	issued []entities.Booking
}

func (f *fakeIssuer) Issue(ctx context.Context, booking entities.Booking, event entities.EventSummary) (string, error) {
	f.issued = append(f.issued, booking)
	if f.err != nil {
		return "", f.err
	}
	return f.location, nil
}

type fakeRefunder struct {
	refs []string
	keys []string
}

func (f *fakeRefunder) Refund(ctx context.Context, paymentReference, idempotencyKey string) error {
	f.refs = append(f.refs, paymentReference)
	f.keys = append(f.keys, idempotencyKey)
	return nil
}

func validAttendee() entities.Attendee {
	return entities.Attendee{
		Name:        "Aman Verma",
		Email:       "aman@example.com",
		Mobile:      "9876543210",
		TicketCount: 3,
	}
}

func testEvent() entities.EventSummary {
	return entities.EventSummary{
		ID:          uuid.New(),
		Title:       "GopherCon India",
		Venue:       "Bangalore International Centre",
		StartDate:   time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 2, 12, 0, 0, 0, 0, time.UTC),
		TicketPrice: entities.Money{Amount: 50000, Currency: "INR"},
	}
}

func newTestFlow(
	catalog *fakeCatalog,
	provider *fakeProvider,
	store *fakeStore,
	issuer *fakeIssuer,
	refunder bookingflow.PaymentRefunder,
	timeout time.Duration,
) *bookingflow.Flow {
	return bookingflow.NewFlow(catalog, provider, store, issuer, refunder, timeout)
}

func TestRun_HappyPath(t *testing.T) {
	event := testEvent()
	catalog := &fakeCatalog{event: event}
	provider := &fakeProvider{
		session: bookingflow.CheckoutSession{ProviderOrderID: "order_1"},
		deliver: func(onSuccess func(string), onFailure func(string)) {
			onSuccess("pay_123")
		},
	}
	bookingID := uuid.New()
	store := &fakeStore{id: bookingID}
	issuer := &fakeIssuer{location: "/tickets/abc.html"}

	flow := newTestFlow(catalog, provider, store, issuer, nil, time.Second)

	var transitions []bookingflow.Transition
	var session *bookingflow.CheckoutSession

	result, err := flow.Run(context.Background(), event.ID, validAttendee(), bookingflow.RunOptions{
		Observe: func(t bookingflow.Transition) {
			transitions = append(transitions, t)
		},
		OnCheckoutOpened: func(s bookingflow.CheckoutSession) {
			session = &s
		},
	})
	require.NoError(t, err)

	assert.Equal(t, bookingID, result.BookingID)
	assert.Equal(t, "/tickets/abc.html", result.TicketLocation)

	require.NotNil(t, session)
	assert.Equal(t, "order_1", session.ProviderOrderID)

	require.Len(t, store.created, 1)
	booking := store.created[0]
	assert.Equal(t, event.ID, booking.EventID)
	assert.Equal(t, "pay_123", booking.PaymentReference)
	assert.Equal(t, entities.Money{Amount: 150000, Currency: "INR"}, booking.AmountPaid)
	assert.Equal(t, entities.BookingStatusConfirmed, booking.Status)
	assert.Equal(t, idempotency.KeyFromPaymentReference("pay_123"), store.keys[0])

	require.Len(t, issuer.issued, 1)
	assert.Equal(t, bookingID, issuer.issued[0].ID)

	var visited []bookingflow.State
	for _, tr := range transitions {
		visited = append(visited, tr.To)
	}
	assert.Equal(t, []bookingflow.State{
		bookingflow.StateValidating,
		bookingflow.StateAwaitingPayment,
		bookingflow.StatePaymentSucceeded,
		bookingflow.StatePersistingBooking,
		bookingflow.StateBookingConfirmed,
		bookingflow.StateGeneratingTicket,
		bookingflow.StateTicketReady,
	}, visited)
}

func TestRun_InvalidAttendee(t *testing.T) {
	provider := &fakeProvider{}
	flow := newTestFlow(&fakeCatalog{event: testEvent()}, provider, &fakeStore{}, &fakeIssuer{}, nil, time.Second)

	attendee := validAttendee()
	attendee.Email = "not-an-email"

	_, err := flow.Run(context.Background(), uuid.New(), attendee, bookingflow.RunOptions{})

	flowErr, ok := bookingflow.AsFlowError(err)
	require.True(t, ok)
	assert.Equal(t, bookingflow.CodeValidation, flowErr.Code)
	assert.Zero(t, provider.opened, "no checkout should be opened for invalid input")
}

func TestRun_EventNotFound(t *testing.T) {
	catalog := &fakeCatalog{err: entities.ErrEventNotFound}
	provider := &fakeProvider{}
	flow := newTestFlow(catalog, provider, &fakeStore{}, &fakeIssuer{}, nil, time.Second)

	_, err := flow.Run(context.Background(), uuid.New(), validAttendee(), bookingflow.RunOptions{})

	flowErr, ok := bookingflow.AsFlowError(err)
	require.True(t, ok)
	assert.Equal(t, bookingflow.CodeNotFound, flowErr.Code)
	assert.Zero(t, provider.opened)
}

func TestRun_PaymentFailed(t *testing.T) {
	event := testEvent()
	provider := &fakeProvider{
		deliver: func(onSuccess func(string), onFailure func(string)) {
			onFailure("card declined")
		},
	}
	store := &fakeStore{}
	flow := newTestFlow(&fakeCatalog{event: event}, provider, store, &fakeIssuer{}, nil, time.Second)

	var transitions []bookingflow.Transition
	_, err := flow.Run(context.Background(), event.ID, validAttendee(), bookingflow.RunOptions{
		Observe: func(t bookingflow.Transition) { transitions = append(transitions, t) },
	})

	flowErr, ok := bookingflow.AsFlowError(err)
	require.True(t, ok)
	assert.Equal(t, bookingflow.CodePayment, flowErr.Code)
	assert.Contains(t, flowErr.Message, "card declined")

	assert.Empty(t, store.created, "nothing may be persisted for a failed payment")
	assert.Equal(t, bookingflow.StatePaymentFailed, transitions[len(transitions)-1].To)
}

func TestRun_CheckoutDeadline(t *testing.T) {
	event := testEvent()
	// The provider never delivers an outcome.
	provider := &fakeProvider{}
	store := &fakeStore{}
	flow := newTestFlow(&fakeCatalog{event: event}, provider, store, &fakeIssuer{}, nil, 20*time.Millisecond)

	_, err := flow.Run(context.Background(), event.ID, validAttendee(), bookingflow.RunOptions{})

	flowErr, ok := bookingflow.AsFlowError(err)
	require.True(t, ok)
	assert.Equal(t, bookingflow.CodePayment, flowErr.Code)
	assert.Empty(t, store.created)

	// The provider's wait is cancelled with the attempt, so it can
	// deregister the checkout.
	require.NotNil(t, provider.ctx)
	assert.Error(t, provider.ctx.Err())
}

func TestRun_ContextCancelledWhileWaiting(t *testing.T) {
	event := testEvent()
	provider := &fakeProvider{}
	flow := newTestFlow(&fakeCatalog{event: event}, provider, &fakeStore{}, &fakeIssuer{}, nil, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := flow.Run(ctx, event.ID, validAttendee(), bookingflow.RunOptions{})

	flowErr, ok := bookingflow.AsFlowError(err)
	require.True(t, ok)
	assert.Equal(t, bookingflow.CodePayment, flowErr.Code)
}

func TestRun_PersistFailureRefundsPayment(t *testing.T) {
	event := testEvent()
	provider := &fakeProvider{
		deliver: func(onSuccess func(string), onFailure func(string)) {
			onSuccess("pay_456")
		},
	}
	store := &fakeStore{err: errors.New("connection refused")}
	issuer := &fakeIssuer{}
	refunder := &fakeRefunder{}
	flow := newTestFlow(&fakeCatalog{event: event}, provider, store, issuer, refunder, time.Second)

	_, err := flow.Run(context.Background(), event.ID, validAttendee(), bookingflow.RunOptions{})

	flowErr, ok := bookingflow.AsFlowError(err)
	require.True(t, ok)
	assert.Equal(t, bookingflow.CodePersistence, flowErr.Code)

	assert.Empty(t, issuer.issued, "no ticket may be issued without a persisted booking")

	require.Len(t, refunder.refs, 1)
	assert.Equal(t, "pay_456", refunder.refs[0])
	assert.Equal(t, idempotency.KeyFromPaymentReference("pay_456"), refunder.keys[0])
}

func TestRun_TicketGenerationFailureKeepsBooking(t *testing.T) {
	event := testEvent()
	provider := &fakeProvider{
		deliver: func(onSuccess func(string), onFailure func(string)) {
			onSuccess("pay_789")
		},
	}
	bookingID := uuid.New()
	store := &fakeStore{id: bookingID}
	issuer := &fakeIssuer{err: errors.New("document store unavailable")}
	refunder := &fakeRefunder{}
	flow := newTestFlow(&fakeCatalog{event: event}, provider, store, issuer, refunder, time.Second)

	result, err := flow.Run(context.Background(), event.ID, validAttendee(), bookingflow.RunOptions{})

	flowErr, ok := bookingflow.AsFlowError(err)
	require.True(t, ok)
	assert.Equal(t, bookingflow.CodeDocument, flowErr.Code)

	assert.Equal(t, bookingID, result.BookingID, "the booking stands even without a ticket")
	assert.Empty(t, refunder.refs, "a confirmed booking must not be refunded")
}

func TestRun_DuplicateSuccessCallbacksCreateOneBooking(t *testing.T) {
	event := testEvent()
	provider := &fakeProvider{
		deliver: func(onSuccess func(string), onFailure func(string)) {
			onSuccess("pay_dup")
			onSuccess("pay_dup")
		},
	}
	store := &fakeStore{id: uuid.New()}
	flow := newTestFlow(&fakeCatalog{event: event}, provider, store, &fakeIssuer{location: "/t"}, nil, time.Second)

	_, err := flow.Run(context.Background(), event.ID, validAttendee(), bookingflow.RunOptions{})
	require.NoError(t, err)

	assert.Len(t, store.created, 1)
}

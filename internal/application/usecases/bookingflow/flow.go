package bookingflow

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"eventhive/internal/entities"
	"eventhive/internal/idempotency"
	"eventhive/internal/pkg/log"
)

type EventCatalog interface {
	GetEvent(ctx context.Context, id uuid.UUID) (entities.EventSummary, error)
}

type CheckoutRequest struct {
	AttemptID uuid.UUID
	Event     entities.EventSummary
	Attendee  entities.Attendee
	Amount    entities.Money
}

// CheckoutSession is what the surrounding UI needs to open the provider's
// checkout widget.
type CheckoutSession struct {
	ProviderOrderID string         `json:"order_id"`
	KeyID           string         `json:"key_id"`
	Amount          entities.Money `json:"amount"`
}

// PaymentProvider hands control to an opaque third-party checkout. The
// outcome arrives through exactly one of the callbacks, possibly more than
// once; OpenCheckout itself returns as soon as the session is open.
type PaymentProvider interface {
	OpenCheckout(
		ctx context.Context,
		req CheckoutRequest,
		onSuccess func(paymentReference string),
		onFailure func(reason string),
	) (CheckoutSession, error)
}

// PaymentRefunder is the compensation hook used when persistence fails
// after a captured payment.
type PaymentRefunder interface {
	Refund(ctx context.Context, paymentReference, idempotencyKey string) error
}

// BookingStore must merge duplicate creates sharing an idempotency key.
type BookingStore interface {
	CreateBooking(ctx context.Context, booking entities.Booking, idempotencyKey string) (uuid.UUID, error)
}

type TicketIssuer interface {
	Issue(ctx context.Context, booking entities.Booking, event entities.EventSummary) (location string, err error)
}

type Result struct {
	BookingID      uuid.UUID `json:"booking_id"`
	TicketLocation string    `json:"ticket_location"`
}

// Flow drives one booking attempt end to end: validate, collect payment,
// persist, issue the ticket.
type Flow struct {
	catalog  EventCatalog
	provider PaymentProvider
	store    BookingStore
	issuer   TicketIssuer
	refunder PaymentRefunder

	validate        *validator.Validate
	checkoutTimeout time.Duration
	clock           func() time.Time
}

func NewFlow(
	catalog EventCatalog,
	provider PaymentProvider,
	store BookingStore,
	issuer TicketIssuer,
	refunder PaymentRefunder,
	checkoutTimeout time.Duration,
) *Flow {
	return &Flow{
		catalog:         catalog,
		provider:        provider,
		store:           store,
		issuer:          issuer,
		refunder:        refunder,
		validate:        validator.New(),
		checkoutTimeout: checkoutTimeout,
		clock:           time.Now,
	}
}

type RunOptions struct {
	AttemptID uuid.UUID
	// Observe receives every state transition. May be nil.
	Observe func(Transition)
	// OnCheckoutOpened fires once the provider session exists, so the
	// caller can surface it while the flow keeps waiting. May be nil.
	OnCheckoutOpened func(CheckoutSession)
}

type paymentOutcome struct {
	paymentReference string
	failed           bool
	reason           string
}

// Run executes the whole flow for one attempt. On a document error the
// returned Result still carries the booking id: the booking stands even
// when its ticket could not be produced.
func (f *Flow) Run(ctx context.Context, eventID uuid.UUID, attendee entities.Attendee, opts RunOptions) (Result, error) {
	observe := opts.Observe
	if observe == nil {
		observe = func(Transition) {}
	}
	attemptID := opts.AttemptID
	if attemptID == uuid.Nil {
		attemptID = uuid.New()
	}

	state := StateIdle
	move := func(to State) {
		observe(Transition{From: state, To: to, At: f.clock()})
		state = to
	}

	move(StateValidating)

	if err := f.validate.Struct(attendee); err != nil {
		return Result{}, &FlowError{Code: CodeValidation, Message: "invalid attendee details", Err: err}
	}

	event, err := f.catalog.GetEvent(ctx, eventID)
	if err != nil {
		return Result{}, &FlowError{Code: CodeNotFound, Message: "unable to load event", Err: err}
	}

	amount, err := ComputeAmount(attendee.TicketCount, event.TicketPrice)
	if err != nil {
		return Result{}, err
	}

	move(StateAwaitingPayment)

	// Cancelled when the attempt ends, whatever the reason, so the provider
	// stops waiting on the webhook and deregisters the checkout. A payment
	// captured after that must not find a stale waiter.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Buffered so a provider that fires its callback more than once can
	// never block; only the first outcome is consumed.
	outcomes := make(chan paymentOutcome, 2)
	session, err := f.provider.OpenCheckout(ctx,
		CheckoutRequest{
			AttemptID: attemptID,
			Event:     event,
			Attendee:  attendee,
			Amount:    amount,
		},
		func(paymentReference string) {
			select {
			case outcomes <- paymentOutcome{paymentReference: paymentReference}:
			default:
			}
		},
		func(reason string) {
			select {
			case outcomes <- paymentOutcome{failed: true, reason: reason}:
			default:
			}
		},
	)
	if err != nil {
		move(StatePaymentFailed)
		return Result{}, &FlowError{Code: CodePayment, Message: "unable to open checkout", Err: err}
	}

	if opts.OnCheckoutOpened != nil {
		opts.OnCheckoutOpened(session)
	}

	// The provider enforces no deadline of its own, so the wait on the
	// callback is bounded here.
	timer := time.NewTimer(f.checkoutTimeout)
	defer timer.Stop()

	var outcome paymentOutcome
	select {
	case outcome = <-outcomes:
	case <-timer.C:
		move(StatePaymentFailed)
		return Result{}, &FlowError{Code: CodePayment, Message: "payment not completed before deadline"}
	case <-ctx.Done():
		move(StatePaymentFailed)
		return Result{}, &FlowError{Code: CodePayment, Message: "booking attempt cancelled", Err: ctx.Err()}
	}

	if outcome.failed {
		move(StatePaymentFailed)
		return Result{}, &FlowError{Code: CodePayment, Message: "payment failed or cancelled: " + outcome.reason}
	}

	move(StatePaymentSucceeded)
	move(StatePersistingBooking)

	idempotencyKey := idempotency.KeyFromPaymentReference(outcome.paymentReference)
	booking := entities.Booking{
		EventID:          event.ID,
		AttendeeName:     attendee.Name,
		AttendeeEmail:    attendee.Email,
		AttendeeMobile:   attendee.Mobile,
		TicketCount:      attendee.TicketCount,
		AmountPaid:       amount,
		PaymentReference: outcome.paymentReference,
		Status:           entities.BookingStatusConfirmed,
		CreatedAt:        f.clock(),
	}

	bookingID, err := f.store.CreateBooking(ctx, booking, idempotencyKey)
	if err != nil {
		move(StatePersistFailed)
		f.tryRefund(ctx, outcome.paymentReference, idempotencyKey)
		return Result{}, &FlowError{
			Code:    CodePersistence,
			Message: "booking could not be persisted after payment",
			Err:     err,
		}
	}
	booking.ID = bookingID

	move(StateBookingConfirmed)
	move(StateGeneratingTicket)

	location, err := f.issuer.Issue(ctx, booking, event)
	if err != nil {
		move(StateGenerationFailed)
		return Result{BookingID: bookingID}, &FlowError{
			Code:    CodeDocument,
			Message: "booking confirmed but ticket generation failed",
			Err:     err,
		}
	}

	move(StateTicketReady)

	return Result{BookingID: bookingID, TicketLocation: location}, nil
}

func (f *Flow) tryRefund(ctx context.Context, paymentReference, idempotencyKey string) {
	if f.refunder == nil {
		return
	}

	if err := f.refunder.Refund(ctx, paymentReference, idempotencyKey); err != nil {
		log.FromContext(ctx).
			WithField("payment_reference", paymentReference).
			WithField("error", err).
			Warn("Compensating refund failed, payment needs manual reconciliation")
	}
}

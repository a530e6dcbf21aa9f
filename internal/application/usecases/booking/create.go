package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	trmsql "github.com/avito-tech/go-transaction-manager/drivers/sql/v2"
	trmsqlx "github.com/avito-tech/go-transaction-manager/drivers/sqlx/v2"
	trmanager "github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/avito-tech/go-transaction-manager/trm/v2/settings"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"eventhive/internal/entities"
	"eventhive/internal/interfaces/events"
	"eventhive/internal/outbox"
	"eventhive/internal/pkg/log"
)

type BookingsRepo interface {
	CreateBooking(ctx context.Context, booking entities.Booking) (uuid.UUID, error)
}

// CreateBookingUsecase persists a booking and publishes BookingConfirmed in
// the same transaction, through the outbox.
type CreateBookingUsecase struct {
	repo            BookingsRepo
	trManager       *trmanager.Manager
	trGetter        *trmsqlx.CtxGetter
	watermillLogger watermill.LoggerAdapter
}

func NewCreateBookingUsecase(
	repo BookingsRepo,
	trManager *trmanager.Manager,
	trGetter *trmsqlx.CtxGetter,
	watermillLogger watermill.LoggerAdapter,
) *CreateBookingUsecase {
	return &CreateBookingUsecase{
		repo:            repo,
		trManager:       trManager,
		trGetter:        trGetter,
		watermillLogger: watermillLogger,
	}
}

func (u *CreateBookingUsecase) CreateBooking(ctx context.Context, booking entities.Booking, idempotencyKey string) (uuid.UUID, error) {
	var id uuid.UUID

	err := withSerializationRetry(3, func() error {
		return u.trManager.DoWithSettings(
			ctx,
			trmsql.MustSettings(
				settings.Must(settings.WithCancelable(true)),
				trmsql.WithTxOptions(&sql.TxOptions{Isolation: sql.LevelSerializable}),
			),
			func(ctx context.Context) error {
				var err error
				id, err = u.repo.CreateBooking(ctx, booking)
				if err != nil {
					return fmt.Errorf("failed to create booking: %w", err)
				}

				tr := u.trGetter.DefaultTrOrDB(ctx, nil)
				if tr == nil {
					return fmt.Errorf("failed to get transaction from context")
				}

				publisher, err := outbox.NewPublisher(tr, u.watermillLogger)
				if err != nil {
					return fmt.Errorf("failed to create event publisher: %w", err)
				}

				eb, err := events.NewEventBus(publisher, u.watermillLogger)
				if err != nil {
					return fmt.Errorf("failed to create event bus: %w", err)
				}

				log.FromContext(ctx).Info("publishing booking confirmed event")

				return eb.Publish(ctx, entities.BookingConfirmed_v1{
					Header:           entities.NewEventHeaderWithIdempotencyKey(idempotencyKey),
					BookingID:        id,
					EventID:          booking.EventID,
					AttendeeEmail:    booking.AttendeeEmail,
					TicketCount:      booking.TicketCount,
					AmountPaid:       booking.AmountPaid,
					PaymentReference: booking.PaymentReference,
					BookedAt:         time.Now().UTC(),
				})
			})
	})

	return id, err
}

// withSerializationRetry retries on postgres serialization failures (40001),
// which a serializable transaction is expected to hit under contention.
func withSerializationRetry(attempts int, f func() error) error {
	var lastErr error
	for i := 0; i < attempts; i++ {
		err := f()
		if err == nil {
			return nil
		}

		pgErr := &pq.Error{}
		if errors.As(err, &pgErr) && pgErr.Code == "40001" {
			lastErr = err
			continue
		}

		return err
	}

	return lastErr
}

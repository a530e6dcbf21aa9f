package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	trmsqlx "github.com/avito-tech/go-transaction-manager/drivers/sqlx/v2"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"eventhive/internal/entities"
)

type BookingsRepo struct {
	db     *sqlx.DB
	getter *trmsqlx.CtxGetter
}

func NewBookingsRepo(db *sqlx.DB) *BookingsRepo {
	return &BookingsRepo{
		db:     db,
		getter: trmsqlx.DefaultCtxGetter,
	}
}

// CreateBooking persists a booking. payment_reference is unique: a duplicate
// create for the same payment merges into the existing row and returns its
// id, so a replayed provider callback cannot double-book.
func (r *BookingsRepo) CreateBooking(ctx context.Context, booking entities.Booking) (uuid.UUID, error) {
	var id uuid.UUID

	query := `
		INSERT INTO bookings (
			event_id, attendee_name, attendee_email, attendee_mobile,
			ticket_count, amount_paid, currency, payment_reference, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)
		ON CONFLICT (payment_reference)
		DO UPDATE SET payment_reference = EXCLUDED.payment_reference
		RETURNING id`

	err := r.getter.DefaultTrOrDB(ctx, r.db).QueryRowxContext(ctx, query,
		booking.EventID,
		booking.AttendeeName,
		booking.AttendeeEmail,
		booking.AttendeeMobile,
		booking.TicketCount,
		booking.AmountPaid.Amount,
		booking.AmountPaid.Currency,
		booking.PaymentReference,
		booking.Status,
	).Scan(&id)

	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create booking: %w", err)
	}

	return id, nil
}

func (r *BookingsRepo) GetBooking(ctx context.Context, id uuid.UUID) (entities.Booking, error) {
	query := `
		SELECT
			id, event_id, attendee_name, attendee_email, attendee_mobile,
			ticket_count, amount_paid, currency, payment_reference, status,
			ticket_location, created_at
		FROM bookings
		WHERE id = $1`

	row := r.getter.DefaultTrOrDB(ctx, r.db).QueryRowxContext(ctx, query, id)

	booking, err := scanBooking(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Booking{}, entities.ErrBookingNotFound
	}
	if err != nil {
		return entities.Booking{}, fmt.Errorf("failed to get booking: %w", err)
	}

	return booking, nil
}

func (r *BookingsRepo) ListBookings(ctx context.Context) ([]entities.Booking, error) {
	query := `
		SELECT
			id, event_id, attendee_name, attendee_email, attendee_mobile,
			ticket_count, amount_paid, currency, payment_reference, status,
			ticket_location, created_at
		FROM bookings
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []entities.Booking
	for rows.Next() {
		booking, err := scanBooking(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}

func (r *BookingsRepo) DeleteBooking(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return entities.ErrBookingNotFound
	}

	return nil
}

func (r *BookingsRepo) SetTicketLocation(ctx context.Context, id uuid.UUID, location string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET ticket_location = $2 WHERE id = $1`,
		id, location,
	)
	if err != nil {
		return fmt.Errorf("failed to set ticket location: %w", err)
	}

	return nil
}

func scanBooking(scan func(dest ...any) error) (entities.Booking, error) {
	var (
		booking        entities.Booking
		ticketLocation sql.NullString
	)

	err := scan(
		&booking.ID,
		&booking.EventID,
		&booking.AttendeeName,
		&booking.AttendeeEmail,
		&booking.AttendeeMobile,
		&booking.TicketCount,
		&booking.AmountPaid.Amount,
		&booking.AmountPaid.Currency,
		&booking.PaymentReference,
		&booking.Status,
		&ticketLocation,
		&booking.CreatedAt,
	)
	if err != nil {
		return entities.Booking{}, err
	}

	booking.TicketLocation = ticketLocation.String

	return booking, nil
}

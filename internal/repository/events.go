package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"eventhive/internal/entities"
)

type EventsRepo struct {
	db *sqlx.DB
}

func NewEventsRepo(db *sqlx.DB) *EventsRepo {
	return &EventsRepo{db: db}
}

func (r *EventsRepo) CreateEvent(ctx context.Context, event entities.EventSummary) (uuid.UUID, error) {
	var id uuid.UUID

	query := `
		INSERT INTO events (
			title, venue, start_date, end_date, price_amount, price_currency, image_url
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		) RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		event.Title,
		event.Venue,
		event.StartDate,
		event.EndDate,
		event.TicketPrice.Amount,
		event.TicketPrice.Currency,
		event.ImageURL,
	).Scan(&id)

	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create event: %w", err)
	}

	return id, nil
}

func (r *EventsRepo) GetEvent(ctx context.Context, id uuid.UUID) (entities.EventSummary, error) {
	var event entities.EventSummary

	query := `
		SELECT
			id, title, venue, start_date, end_date, price_amount, price_currency, image_url
		FROM events
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&event.ID,
		&event.Title,
		&event.Venue,
		&event.StartDate,
		&event.EndDate,
		&event.TicketPrice.Amount,
		&event.TicketPrice.Currency,
		&event.ImageURL,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.EventSummary{}, entities.ErrEventNotFound
	}
	if err != nil {
		return entities.EventSummary{}, fmt.Errorf("failed to get event: %w", err)
	}

	return event, nil
}

func (r *EventsRepo) ListEvents(ctx context.Context) ([]entities.EventSummary, error) {
	query := `
		SELECT
			id, title, venue, start_date, end_date, price_amount, price_currency, image_url
		FROM events
		ORDER BY start_date`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []entities.EventSummary
	for rows.Next() {
		var event entities.EventSummary
		err = rows.Scan(
			&event.ID,
			&event.Title,
			&event.Venue,
			&event.StartDate,
			&event.EndDate,
			&event.TicketPrice.Amount,
			&event.TicketPrice.Currency,
			&event.ImageURL,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}

	return events, rows.Err()
}

package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"eventhive/internal/entities"
)

// DatalakeRepo archives published events in postgres.
type DatalakeRepo struct {
	db *sqlx.DB
}

func NewDatalakeRepo(db *sqlx.DB) *DatalakeRepo {
	return &DatalakeRepo{db: db}
}

func (r *DatalakeRepo) SaveEvent(ctx context.Context, event entities.DatalakeEvent) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO datalake_events (event_id, published_at, event_name, event_payload)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT DO NOTHING
	`, event.Id, event.PublishedAt, event.EventName, event.Payload)

	return err
}

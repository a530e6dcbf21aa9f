package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

func InitializeDBSchema(db *sqlx.DB) error {
	_, err := db.ExecContext(context.Background(), `
CREATE TABLE IF NOT EXISTS events (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	title VARCHAR(255) NOT NULL,
	venue VARCHAR(255) NOT NULL,
	start_date TIMESTAMP WITH TIME ZONE NOT NULL,
	end_date TIMESTAMP WITH TIME ZONE NOT NULL,
	price_amount BIGINT NOT NULL,
	price_currency CHAR(3) NOT NULL,
	image_url TEXT NOT NULL DEFAULT ''
);`)
	if err != nil {
		return fmt.Errorf("failed to create events table: %w", err)
	}

	_, err = db.ExecContext(context.Background(), `
CREATE TABLE IF NOT EXISTS bookings (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	event_id UUID NOT NULL,
	attendee_name VARCHAR(255) NOT NULL,
	attendee_email VARCHAR(255) NOT NULL,
	attendee_mobile VARCHAR(32) NOT NULL,
	ticket_count INTEGER NOT NULL,
	amount_paid BIGINT NOT NULL,
	currency CHAR(3) NOT NULL,
	payment_reference VARCHAR(255) NOT NULL UNIQUE,
	status VARCHAR(32) NOT NULL,
	ticket_location TEXT,
	created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
);`)
	if err != nil {
		return fmt.Errorf("failed to create bookings table: %w", err)
	}

	_, err = db.ExecContext(context.Background(), `
CREATE TABLE IF NOT EXISTS datalake_events (
	event_id UUID PRIMARY KEY,
	published_at TIMESTAMP WITH TIME ZONE NOT NULL,
	event_name VARCHAR(255) NOT NULL,
	event_payload JSONB NOT NULL
);`)
	if err != nil {
		return fmt.Errorf("failed to create datalake_events table: %w", err)
	}

	return nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

func InitializeDBSchema(db *sqlx.DB) error {
	_, err := db.ExecContext(context.Background(), `
CREATE TABLE IF NOT EXISTS bookings (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	event_id UUID NOT NULL,
	user_id UUID NOT NULL,
	tier VARCHAR(32) NOT NULL,
	event_date VARCHAR(10) NOT NULL,
	event_time VARCHAR(64) NOT NULL,
	guest_count INTEGER NOT NULL,
	customer_name VARCHAR(255) NOT NULL,
	customer_email VARCHAR(255) NOT NULL,
	customer_phone VARCHAR(64) NOT NULL,
	payment_amount BIGINT NOT NULL,
	payment_deposit BIGINT NOT NULL,
	payment_status VARCHAR(32) NOT NULL DEFAULT 'unpaid',
	status VARCHAR(32) NOT NULL DEFAULT 'pending',
	qr_code_url TEXT,
	processing_error TEXT,
	created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
	updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
);`)
	if err != nil {
		return fmt.Errorf("failed to create bookings table: %w", err)
	}

	_, err = db.ExecContext(context.Background(), `
CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	name VARCHAR(255) NOT NULL,
	email VARCHAR(255) NOT NULL
);`)
	if err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}

	_, err = db.ExecContext(context.Background(), `
CREATE TABLE IF NOT EXISTS events (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	title VARCHAR(255) NOT NULL,
	creator_id UUID,
	start_time TIMESTAMP WITH TIME ZONE NOT NULL
);`)
	if err != nil {
		return fmt.Errorf("failed to create events table: %w", err)
	}

	_, err = db.ExecContext(context.Background(), `
CREATE TABLE IF NOT EXISTS analytics_events (
	event_id UUID PRIMARY KEY,
	event_type VARCHAR(64) NOT NULL,
	booking_id UUID NOT NULL,
	occurred_at TIMESTAMP WITH TIME ZONE NOT NULL,
	metadata JSONB NOT NULL DEFAULT '{}'
);`)
	if err != nil {
		return fmt.Errorf("failed to create analytics_events table: %w", err)
	}

	return nil
}

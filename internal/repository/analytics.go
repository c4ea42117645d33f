package repository

import (
	"context"
	"encoding/json"
	"fmt"

	trmsqlx "github.com/avito-tech/go-transaction-manager/drivers/sqlx/v2"
	"github.com/jmoiron/sqlx"

	"gigbook/internal/entities"
)

// AnalyticsRepo is an append-only sink. The primary key is the
// pipeline event id, so a redelivered message appends nothing twice.
type AnalyticsRepo struct {
	db     *sqlx.DB
	getter *trmsqlx.CtxGetter
}

func NewAnalyticsRepo(db *sqlx.DB, getter *trmsqlx.CtxGetter) *AnalyticsRepo {
	return &AnalyticsRepo{db: db, getter: getter}
}

func (r *AnalyticsRepo) Append(ctx context.Context, event entities.AnalyticsEvent) error {
	metadata, err := json.Marshal(event.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	_, err = r.getter.DefaultTrOrDB(ctx, r.db).ExecContext(ctx, `
		INSERT INTO analytics_events (event_id, event_type, booking_id, occurred_at, metadata)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT DO NOTHING`,
		event.ID, event.Type, event.BookingID, event.Timestamp, metadata)
	if err != nil {
		return fmt.Errorf("failed to append analytics event: %w", err)
	}

	return nil
}

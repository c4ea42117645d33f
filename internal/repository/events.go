package repository

import (
	"context"
	"database/sql"
	"errors"

	trmsqlx "github.com/avito-tech/go-transaction-manager/drivers/sqlx/v2"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gigbook/internal/entities"
)

type EventsRepo struct {
	db     *sqlx.DB
	getter *trmsqlx.CtxGetter
}

func NewEventsRepo(db *sqlx.DB, getter *trmsqlx.CtxGetter) *EventsRepo {
	return &EventsRepo{db: db, getter: getter}
}

// GetByID returns (nil, nil) for an unknown event, mirroring UsersRepo.
func (r *EventsRepo) GetByID(ctx context.Context, id uuid.UUID) (*entities.CommunityEvent, error) {
	var event entities.CommunityEvent

	err := r.getter.DefaultTrOrDB(ctx, r.db).GetContext(ctx, &event, `
		SELECT id, title, creator_id, start_time FROM events WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &event, nil
}

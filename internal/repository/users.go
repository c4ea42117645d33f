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

type UsersRepo struct {
	db     *sqlx.DB
	getter *trmsqlx.CtxGetter
}

func NewUsersRepo(db *sqlx.DB, getter *trmsqlx.CtxGetter) *UsersRepo {
	return &UsersRepo{db: db, getter: getter}
}

// GetByID returns (nil, nil) for an unknown user: the pipeline treats a
// missing record as "skip notification", not as a failure.
func (r *UsersRepo) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	var user entities.User

	err := r.getter.DefaultTrOrDB(ctx, r.db).GetContext(ctx, &user, `
		SELECT id, name, email FROM users WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

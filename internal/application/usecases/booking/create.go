// Package booking contains the write-side usecases. Every state change
// commits its change-feed event in the same transaction as the row
// write, so downstream handlers never miss a booking.
package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	trmsql "github.com/avito-tech/go-transaction-manager/drivers/sql/v2"
	trmsqlx "github.com/avito-tech/go-transaction-manager/drivers/sqlx/v2"
	trmanager "github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/avito-tech/go-transaction-manager/trm/v2/settings"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"gigbook/internal/entities"
	"gigbook/internal/interfaces/events"
	"gigbook/internal/outbox"
)

//go:generate mockgen -destination=mocks/mock_bookings_repo.go -package=mocks gigbook/internal/application/usecases/booking BookingsRepo
type BookingsRepo interface {
	Create(ctx context.Context, req entities.CreateBookingRequest) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.BookingStatus) error
}

type Usecase struct {
	bookingsRepo    BookingsRepo
	trManager       *trmanager.Manager
	trGetter        *trmsqlx.CtxGetter
	watermillLogger watermill.LoggerAdapter
}

func NewUsecase(
	bookingsRepo BookingsRepo,
	trManager *trmanager.Manager,
	trGetter *trmsqlx.CtxGetter,
	watermillLogger watermill.LoggerAdapter,
) *Usecase {
	return &Usecase{
		bookingsRepo:    bookingsRepo,
		trManager:       trManager,
		trGetter:        trGetter,
		watermillLogger: watermillLogger,
	}
}

// WithRetry reruns f on postgres serialization failures (code 40001).
func WithRetry(attempts int, f func(context.Context) error) func(context.Context) error {
	return func(ctx context.Context) error {
		var lastErr error
		for i := 0; i < attempts; i++ {
			err := f(ctx)
			if err == nil {
				return nil
			}

			pgErr := &pq.Error{}
			if errors.As(err, &pgErr) && pgErr.Code == "40001" {
				log.FromContext(ctx).Info("serialization failure, retrying, attempt ", i+1)
				lastErr = err
				continue
			}

			return err
		}
		return lastErr
	}
}

func (u *Usecase) serializableSettings() trmsql.Settings {
	return trmsql.MustSettings(
		settings.Must(settings.WithCancelable(true)),
		trmsql.WithTxOptions(&sql.TxOptions{Isolation: sql.LevelSerializable}),
	)
}

// eventBusInTx binds an event bus to the current transaction's outbox.
func (u *Usecase) eventBusInTx(ctx context.Context) (*cqrs.EventBus, error) {
	tr := u.trGetter.DefaultTrOrDB(ctx, nil)
	if tr == nil {
		return nil, fmt.Errorf("failed to get transaction from context")
	}

	publisher, err := outbox.NewPublisher(tr, u.watermillLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create event publisher: %w", err)
	}

	eb, err := events.NewEventBus(publisher, u.watermillLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create event bus: %w", err)
	}

	return eb, nil
}

// CreateBooking stores the wizard's submission and emits the create
// event atomically. The booking exists the moment this returns nil,
// independent of any pipeline outcome.
func (u *Usecase) CreateBooking(ctx context.Context, req entities.CreateBookingRequest) (uuid.UUID, error) {
	var id uuid.UUID

	err := u.trManager.DoWithSettings(ctx, u.serializableSettings(),
		WithRetry(3, func(ctx context.Context) error {
			var err error
			id, err = u.bookingsRepo.Create(ctx, req)
			if err != nil {
				return fmt.Errorf("failed to create booking: %w", err)
			}

			eb, err := u.eventBusInTx(ctx)
			if err != nil {
				return err
			}

			return eb.Publish(ctx, entities.BookingCreated_v1{
				Header:        entities.NewEventHeaderWithIdempotencyKey(id.String()),
				BookingID:     id,
				EventID:       req.EventID,
				UserID:        req.UserID,
				Tier:          req.Tier,
				Date:          req.Date,
				GuestCount:    req.Guests,
				Amount:        req.Total,
				DepositAmount: req.Deposit,
			})
		}),
	)

	return id, err
}

package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"gigbook/internal/entities"
)

var ErrInvalidTransition = errors.New("invalid status transition")

// UpdateStatus is the external actor surface (a creator console or
// support tooling) for moving a booking through its lifecycle. The
// transition rules are enforced here, not in the pipeline.
func (u *Usecase) UpdateStatus(ctx context.Context, id uuid.UUID, newStatus entities.BookingStatus) error {
	if !newStatus.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, newStatus)
	}

	return u.trManager.DoWithSettings(ctx, u.serializableSettings(),
		WithRetry(3, func(ctx context.Context) error {
			current, err := u.bookingsRepo.GetByID(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to get booking: %w", err)
			}

			if !current.Status.CanTransitionTo(newStatus) {
				return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, newStatus)
			}

			if err := u.bookingsRepo.UpdateStatus(ctx, id, newStatus); err != nil {
				return fmt.Errorf("failed to update status: %w", err)
			}

			eb, err := u.eventBusInTx(ctx)
			if err != nil {
				return err
			}

			return eb.Publish(ctx, entities.BookingStatusChanged_v1{
				Header:    entities.NewEventHeaderWithIdempotencyKey(id.String() + ":" + string(newStatus)),
				BookingID: id,
				UserID:    current.UserID,
				OldStatus: string(current.Status),
				NewStatus: string(newStatus),
			})
		}),
	)
}

// GetBooking proxies reads for the HTTP surface.
func (u *Usecase) GetBooking(ctx context.Context, id uuid.UUID) (*entities.Booking, error) {
	return u.bookingsRepo.GetByID(ctx, id)
}

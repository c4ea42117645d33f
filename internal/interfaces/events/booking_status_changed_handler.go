package events

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"

	"gigbook/internal/entities"
)

// BookingStatusChangedHandler notifies the customer about a status
// transition. Unlike the create handler it never writes a
// processing_error marker on failure, only logs it.
func (h *Handler) BookingStatusChangedHandler() cqrs.EventHandler {
	return cqrs.NewEventHandler(
		"booking_status_changed_handler",
		func(ctx context.Context, payload *entities.BookingStatusChanged_v1) error {
			if payload.OldStatus == payload.NewStatus {
				return nil
			}

			log.FromContext(ctx).
				WithField("booking_id", payload.BookingID).
				WithField("new_status", payload.NewStatus).
				Info("Processing booking status change")

			if err := h.processStatusChanged(ctx, payload); err != nil {
				log.FromContext(ctx).
					WithField("booking_id", payload.BookingID).
					WithField("error", err).
					Error("Status change processing failed")
			}

			return nil
		},
	)
}

func (h *Handler) processStatusChanged(ctx context.Context, payload *entities.BookingStatusChanged_v1) error {
	user, err := h.usersRepo.GetByID(ctx, payload.UserID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	// an unrecognized status selects no template; the analytics event
	// is still recorded below
	templateID := entities.TemplateForStatus(entities.BookingStatus(payload.NewStatus))

	if templateID != "" && user != nil {
		_, err = h.mailer.Send(ctx, entities.NotificationJob{
			Recipient:  user.Email,
			Subject:    "Your booking is " + payload.NewStatus,
			TemplateID: templateID,
			TemplateData: map[string]string{
				"CustomerName": user.Name,
				"BookingID":    payload.BookingID.String(),
				"Status":       payload.NewStatus,
			},
		})
		if err != nil {
			return fmt.Errorf("failed to send status notification: %w", err)
		}
	}

	err = h.analytics.Append(ctx, entities.AnalyticsEvent{
		ID:        analyticsEventID(payload.Header),
		Type:      entities.AnalyticsBookingStatusChanged,
		BookingID: payload.BookingID,
		Timestamp: time.Now().UTC(),
		Metadata: map[string]string{
			"oldStatus": payload.OldStatus,
			"newStatus": payload.NewStatus,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to append analytics event: %w", err)
	}

	return nil
}

package events

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"

	"gigbook/internal/entities"
	"gigbook/internal/qr"
)

// BookingCreatedHandler produces the admission artifact and the initial
// notifications for a new booking. The whole sequence sits in one
// failure boundary: on any error the booking gets a processing_error
// marker and the message is acked, so the booking itself is never at
// risk. Completed steps are not rolled back.
func (h *Handler) BookingCreatedHandler() cqrs.EventHandler {
	return cqrs.NewEventHandler(
		"booking_created_handler",
		func(ctx context.Context, payload *entities.BookingCreated_v1) error {
			log.FromContext(ctx).Info("Processing new booking")

			if err := h.processCreated(ctx, payload); err != nil {
				log.FromContext(ctx).
					WithField("booking_id", payload.BookingID).
					WithField("error", err).
					Error("Booking processing failed")

				// persisting the marker is the one step worth redelivering for
				return h.bookingsRepo.SetProcessingError(ctx, payload.BookingID, err.Error())
			}

			return nil
		},
	)
}

func (h *Handler) processCreated(ctx context.Context, payload *entities.BookingCreated_v1) error {
	png, err := qr.EncodePNG(qr.Payload{
		BookingID: payload.BookingID,
		EventID:   payload.EventID,
		UserID:    payload.UserID,
		Date:      payload.Date,
	})
	if err != nil {
		return fmt.Errorf("failed to render qr code: %w", err)
	}

	path := qr.ObjectPath(payload.BookingID)
	if err := h.blobStorage.Upload(ctx, path, png, "image/png"); err != nil {
		return fmt.Errorf("failed to upload qr code: %w", err)
	}

	signedURL, err := h.blobStorage.SignedURL(ctx, path, h.signedURLTTL)
	if err != nil {
		return fmt.Errorf("failed to sign qr code url: %w", err)
	}

	if err := h.bookingsRepo.SetQRCodeURL(ctx, payload.BookingID, signedURL); err != nil {
		return fmt.Errorf("failed to store qr code url: %w", err)
	}

	user, err := h.usersRepo.GetByID(ctx, payload.UserID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	event, err := h.eventsRepo.GetByID(ctx, payload.EventID)
	if err != nil {
		return fmt.Errorf("failed to get event: %w", err)
	}

	if user != nil && event != nil {
		_, err = h.mailer.Send(ctx, entities.NotificationJob{
			Recipient:  user.Email,
			Subject:    "Your booking for " + event.Title,
			TemplateID: entities.TemplateBookingConfirmation,
			TemplateData: map[string]string{
				"EventTitle": event.Title,
				"Date":       formatEventDate(payload.Date),
				"BookingID":  payload.BookingID.String(),
				"QRCodeURL":  signedURL,
			},
		})
		if err != nil {
			return fmt.Errorf("failed to send confirmation: %w", err)
		}
	}

	if event != nil && event.CreatorID != nil {
		creator, err := h.usersRepo.GetByID(ctx, *event.CreatorID)
		if err != nil {
			return fmt.Errorf("failed to get creator: %w", err)
		}

		if creator != nil {
			customerName := ""
			if user != nil {
				customerName = user.Name
			}

			_, err = h.mailer.Send(ctx, entities.NotificationJob{
				Recipient:  creator.Email,
				Subject:    "New booking for " + event.Title,
				TemplateID: entities.TemplateNewBookingCreator,
				TemplateData: map[string]string{
					"CustomerName": customerName,
					"EventTitle":   event.Title,
					"Date":         formatEventDate(payload.Date),
					"BookingID":    payload.BookingID.String(),
				},
			})
			if err != nil {
				return fmt.Errorf("failed to notify creator: %w", err)
			}
		}
	}

	err = h.analytics.Append(ctx, entities.AnalyticsEvent{
		ID:        analyticsEventID(payload.Header),
		Type:      entities.AnalyticsBookingCreated,
		BookingID: payload.BookingID,
		Timestamp: time.Now().UTC(),
		Metadata: map[string]string{
			"packageId": payload.Tier,
			"amount":    strconv.FormatInt(payload.Amount, 10),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to append analytics event: %w", err)
	}

	return nil
}

func formatEventDate(date string) string {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return parsed.Format("January 2, 2006")
}

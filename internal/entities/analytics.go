package entities

import (
	"time"

	"github.com/google/uuid"
)

type AnalyticsEventType string

const (
	AnalyticsBookingCreated       AnalyticsEventType = "booking_created"
	AnalyticsBookingStatusChanged AnalyticsEventType = "booking_status_changed"
)

// AnalyticsEvent is an append-only record; it is never mutated or
// deleted by this service.
type AnalyticsEvent struct {
	ID        uuid.UUID          `json:"id"`
	Type      AnalyticsEventType `json:"type"`
	BookingID uuid.UUID          `json:"booking_id"`
	Timestamp time.Time          `json:"timestamp"`
	Metadata  map[string]string  `json:"metadata"`
}

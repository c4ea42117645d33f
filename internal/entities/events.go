package entities

import "github.com/google/uuid"

// Event is implemented by every message published to the change feed.
type Event interface {
	IsInternal() bool
}

type BookingCreated_v1 struct {
	Header        EventHeader `json:"header"`
	BookingID     uuid.UUID   `json:"booking_id"`
	EventID       uuid.UUID   `json:"event_id"`
	UserID        uuid.UUID   `json:"user_id"`
	Tier          string      `json:"tier"`
	Date          string      `json:"date"`
	GuestCount    int         `json:"guest_count"`
	Amount        int64       `json:"amount"`
	DepositAmount int64       `json:"deposit_amount"`
}

func (b BookingCreated_v1) IsInternal() bool {
	return false
}

// BookingStatusChanged_v1 carries the before/after status snapshots of
// a single booking write.
type BookingStatusChanged_v1 struct {
	Header    EventHeader `json:"header"`
	BookingID uuid.UUID   `json:"booking_id"`
	UserID    uuid.UUID   `json:"user_id"`
	OldStatus string      `json:"old_status"`
	NewStatus string      `json:"new_status"`
}

func (b BookingStatusChanged_v1) IsInternal() bool {
	return false
}

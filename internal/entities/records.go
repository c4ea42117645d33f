package entities

import (
	"time"

	"github.com/google/uuid"
)

// User is the account record referenced by a booking.
type User struct {
	ID    uuid.UUID `json:"id" db:"id"`
	Name  string    `json:"name" db:"name"`
	Email string    `json:"email" db:"email"`
}

// CommunityEvent is a bookable event listing. CreatorID is nil for
// platform-owned events that have no creator to notify.
type CommunityEvent struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	Title     string     `json:"title" db:"title"`
	CreatorID *uuid.UUID `json:"creator_id,omitempty" db:"creator_id"`
	StartTime time.Time  `json:"start_time" db:"start_time"`
}

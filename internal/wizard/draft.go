package wizard

import (
	"gigbook/internal/entities"
	"gigbook/internal/pricing"
)

const (
	StepPackage  = 1
	StepSchedule = 2
	StepContact  = 3
	StepReview   = 4
)

// Draft is the in-progress booking configuration. It round-trips
// through the DraftStore as JSON on every mutation.
type Draft struct {
	Tier        entities.Tier     `json:"tier"`
	EventDate   string            `json:"event_date"`
	EventTime   string            `json:"event_time"`
	GuestCount  int               `json:"guest_count"`
	Customer    entities.Customer `json:"customer"`
	CurrentStep int               `json:"current_step"`
	Breakdown   pricing.Breakdown `json:"breakdown"`
}

func newDraft() Draft {
	return Draft{CurrentStep: StepPackage}
}

package entities

// Notification template identifiers. The status-changed handler picks
// from the fixed status -> template table in TemplateForStatus.
const (
	TemplateBookingConfirmation = "booking-confirmation"
	TemplateNewBookingCreator   = "new-booking-creator"
	TemplateBookingConfirmed    = "booking-confirmed"
	TemplateBookingCancelled    = "booking-cancelled"
	TemplateBookingCompleted    = "booking-completed"
)

// TemplateForStatus returns the template for a status-change
// notification, or "" when the new status has no template.
func TemplateForStatus(status BookingStatus) string {
	switch status {
	case BookingStatusConfirmed:
		return TemplateBookingConfirmed
	case BookingStatusCancelled:
		return TemplateBookingCancelled
	case BookingStatusCompleted:
		return TemplateBookingCompleted
	}
	return ""
}

// NotificationJob is built and consumed within a single pipeline
// invocation; it is never persisted.
type NotificationJob struct {
	Recipient    string
	Subject      string
	TemplateID   string
	TemplateData map[string]string
}

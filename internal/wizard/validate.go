package wizard

import (
	"regexp"
	"strings"
	"time"
)

const minGuestCount = 10

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// validators return field-keyed error messages; an empty map means the
// step is complete.
func validatePackage(d Draft) map[string]string {
	errs := map[string]string{}
	if !d.Tier.Valid() {
		errs["tier"] = "select a package"
	}
	if d.GuestCount < minGuestCount {
		errs["guest_count"] = "a minimum of 10 guests is required"
	}
	return errs
}

func validateSchedule(d Draft, now time.Time) map[string]string {
	errs := map[string]string{}
	if d.EventTime == "" {
		errs["event_time"] = "select a time slot"
	}
	if d.EventDate == "" {
		errs["event_date"] = "select a date"
		return errs
	}

	date, err := time.Parse("2006-01-02", d.EventDate)
	if err != nil {
		errs["event_date"] = "date must be in YYYY-MM-DD format"
		return errs
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if date.Before(today) {
		errs["event_date"] = "date cannot be in the past"
	}
	return errs
}

func validateContact(d Draft) map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(d.Customer.Name) == "" {
		errs["name"] = "name is required"
	}
	if !emailPattern.MatchString(d.Customer.Email) {
		errs["email"] = "enter a valid email address"
	}
	if len(digitsOnly(d.Customer.Phone)) < 10 {
		errs["phone"] = "enter a phone number with at least 10 digits"
	}
	return errs
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

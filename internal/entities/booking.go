package entities

import (
	"time"

	"github.com/google/uuid"
)

// Tier is the package level a booking is priced at.
type Tier string

const (
	TierBasic   Tier = "basic"
	TierPremium Tier = "premium"
	TierLuxe    Tier = "luxe"
)

func (t Tier) Valid() bool {
	switch t {
	case TierBasic, TierPremium, TierLuxe:
		return true
	}
	return false
}

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled, BookingStatusCompleted:
		return true
	}
	return false
}

// CanTransitionTo encodes the booking lifecycle: pending can be
// confirmed or cancelled, confirmed can be completed or cancelled,
// cancelled and completed are terminal.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case BookingStatusPending:
		return next == BookingStatusConfirmed || next == BookingStatusCancelled
	case BookingStatusConfirmed:
		return next == BookingStatusCompleted || next == BookingStatusCancelled
	}
	return false
}

type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type Payment struct {
	Amount        int64  `json:"amount"`
	DepositAmount int64  `json:"deposit_amount"`
	Status        string `json:"status"`
}

type Booking struct {
	ID         uuid.UUID     `json:"id"`
	EventID    uuid.UUID     `json:"event_id"`
	UserID     uuid.UUID     `json:"user_id"`
	Tier       Tier          `json:"tier"`
	Date       string        `json:"date"`
	Time       string        `json:"time"`
	GuestCount int           `json:"guest_count"`
	Customer   Customer      `json:"customer"`
	Payment    Payment       `json:"payment"`
	Status     BookingStatus `json:"status"`

	QRCodeURL       *string `json:"qr_code_url"`
	ProcessingError *string `json:"processing_error"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateBookingRequest is the submission payload the wizard assembles
// on the review step.
type CreateBookingRequest struct {
	EventID uuid.UUID `json:"event_id"`
	UserID  uuid.UUID `json:"user_id"`
	Tier    string    `json:"tier"`
	Date    string    `json:"date"`
	Time    string    `json:"time"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Phone   string    `json:"phone"`
	Guests  int       `json:"guests"`
	Total   int64     `json:"total"`
	Deposit int64     `json:"deposit"`
	Status  string    `json:"status"`
}

// Package wizard drives the guided booking flow: four linear steps over
// a Draft, per-step validation, draft persistence, and submission.
package wizard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gigbook/internal/entities"
	"gigbook/internal/pricing"
)

const DraftKey = "booking_draft"

//go:generate mockgen -destination=mocks/booking_creator_mock.go -package=mocks . BookingCreator
type BookingCreator interface {
	CreateBooking(ctx context.Context, req entities.CreateBookingRequest) (uuid.UUID, error)
}

//go:generate mockgen -destination=mocks/checkout_service_mock.go -package=mocks . CheckoutService
type CheckoutService interface {
	CreateSession(ctx context.Context, req entities.CheckoutSessionRequest) (string, error)
}

// Wizard is a single-session controller; it is not safe for concurrent
// use. Every mutation writes the draft back to the store so a reload
// resumes where the customer left off.
type Wizard struct {
	store    DraftStore
	bookings BookingCreator
	checkout CheckoutService
	now      func() time.Time

	eventID uuid.UUID
	userID  uuid.UUID

	draft  Draft
	errors map[string]string
}

func New(
	store DraftStore,
	bookings BookingCreator,
	checkout CheckoutService,
	eventID uuid.UUID,
	userID uuid.UUID,
) *Wizard {
	return &Wizard{
		store:    store,
		bookings: bookings,
		checkout: checkout,
		now:      time.Now,
		eventID:  eventID,
		userID:   userID,
		draft:    newDraft(),
		errors:   map[string]string{},
	}
}

// Load restores a persisted draft, if any. A missing or unreadable
// cache entry is not an error: the wizard starts fresh at step 1.
func (w *Wizard) Load(ctx context.Context) error {
	raw, ok, err := w.store.Get(ctx, DraftKey)
	if err != nil {
		return fmt.Errorf("failed to read draft: %w", err)
	}
	if !ok {
		return nil
	}

	var draft Draft
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		w.draft = newDraft()
		return nil
	}
	if draft.CurrentStep < StepPackage || draft.CurrentStep > StepReview {
		draft.CurrentStep = StepPackage
	}

	w.draft = draft
	return nil
}

func (w *Wizard) Draft() Draft {
	return w.draft
}

func (w *Wizard) CurrentStep() int {
	return w.draft.CurrentStep
}

// Errors returns the field-keyed messages from the last failed Next.
func (w *Wizard) Errors() map[string]string {
	return w.errors
}

func (w *Wizard) SetTier(ctx context.Context, tier entities.Tier) error {
	w.draft.Tier = tier
	w.draft.Breakdown = pricing.Quote(w.draft.Tier, w.draft.GuestCount)
	return w.persist(ctx)
}

func (w *Wizard) SetGuestCount(ctx context.Context, guests int) error {
	w.draft.GuestCount = guests
	w.draft.Breakdown = pricing.Quote(w.draft.Tier, w.draft.GuestCount)
	return w.persist(ctx)
}

func (w *Wizard) SetSchedule(ctx context.Context, date, timeSlot string) error {
	w.draft.EventDate = date
	w.draft.EventTime = timeSlot
	return w.persist(ctx)
}

func (w *Wizard) SetContact(ctx context.Context, customer entities.Customer) error {
	w.draft.Customer = customer
	return w.persist(ctx)
}

// Next validates the current step. On failure the step does not change
// and Errors carries the field messages; on success the step advances
// (capped at review) and the draft is persisted.
func (w *Wizard) Next(ctx context.Context) error {
	errs := w.validateStep(w.draft.CurrentStep)
	if len(errs) > 0 {
		w.errors = errs
		return nil
	}

	w.errors = map[string]string{}
	if w.draft.CurrentStep == StepPackage {
		w.draft.Breakdown = pricing.Quote(w.draft.Tier, w.draft.GuestCount)
	}
	if w.draft.CurrentStep < StepReview {
		w.draft.CurrentStep++
	}
	return w.persist(ctx)
}

// Back always succeeds and never re-validates.
func (w *Wizard) Back(ctx context.Context) error {
	if w.draft.CurrentStep > StepPackage {
		w.draft.CurrentStep--
	}
	return w.persist(ctx)
}

// Submit creates the booking, opens a checkout session for the deposit,
// and clears the persisted draft. On any error the draft and step are
// left untouched so the customer can retry without re-entering data.
func (w *Wizard) Submit(ctx context.Context) (uuid.UUID, error) {
	if w.draft.CurrentStep != StepReview {
		return uuid.Nil, fmt.Errorf("cannot submit from step %d", w.draft.CurrentStep)
	}
	for step := StepPackage; step <= StepContact; step++ {
		if errs := w.validateStep(step); len(errs) > 0 {
			w.errors = errs
			return uuid.Nil, fmt.Errorf("step %d is incomplete", step)
		}
	}

	breakdown := pricing.Quote(w.draft.Tier, w.draft.GuestCount)

	bookingID, err := w.bookings.CreateBooking(ctx, entities.CreateBookingRequest{
		EventID: w.eventID,
		UserID:  w.userID,
		Tier:    string(w.draft.Tier),
		Date:    w.draft.EventDate,
		Time:    w.draft.EventTime,
		Name:    w.draft.Customer.Name,
		Email:   w.draft.Customer.Email,
		Phone:   w.draft.Customer.Phone,
		Guests:  w.draft.GuestCount,
		Total:   breakdown.TotalAmount,
		Deposit: breakdown.DepositAmount,
		Status:  string(entities.BookingStatusPending),
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create booking: %w", err)
	}

	_, err = w.checkout.CreateSession(ctx, entities.CheckoutSessionRequest{
		Amount:   breakdown.DepositAmount,
		Currency: "usd",
		Metadata: map[string]string{"booking_id": bookingID.String()},
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	if err := w.store.Del(ctx, DraftKey); err != nil {
		return uuid.Nil, fmt.Errorf("failed to clear draft: %w", err)
	}

	w.draft = newDraft()
	return bookingID, nil
}

// Reset discards the draft and clears the cache entry.
func (w *Wizard) Reset(ctx context.Context) error {
	w.draft = newDraft()
	w.errors = map[string]string{}
	return w.store.Del(ctx, DraftKey)
}

func (w *Wizard) validateStep(step int) map[string]string {
	switch step {
	case StepPackage:
		return validatePackage(w.draft)
	case StepSchedule:
		return validateSchedule(w.draft, w.now())
	case StepContact:
		return validateContact(w.draft)
	}
	return map[string]string{}
}

func (w *Wizard) persist(ctx context.Context) error {
	raw, err := json.Marshal(w.draft)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}
	if err := w.store.Set(ctx, DraftKey, string(raw)); err != nil {
		return fmt.Errorf("failed to persist draft: %w", err)
	}
	return nil
}

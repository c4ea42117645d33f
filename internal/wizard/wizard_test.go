package wizard_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gigbook/internal/entities"
	"gigbook/internal/wizard"
)

type fakeBookings struct {
	created []entities.CreateBookingRequest
	err     error
}

func (f *fakeBookings) CreateBooking(_ context.Context, req entities.CreateBookingRequest) (uuid.UUID, error) {
	if f.err != nil {
		return uuid.Nil, f.err
	}
	f.created = append(f.created, req)
	return uuid.New(), nil
}

type fakeCheckout struct {
	sessions []entities.CheckoutSessionRequest
	err      error
}

func (f *fakeCheckout) CreateSession(_ context.Context, req entities.CheckoutSessionRequest) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sessions = append(f.sessions, req)
	return "cs_test_" + uuid.NewString(), nil
}

func futureDate() string {
	return time.Now().AddDate(0, 1, 0).Format("2006-01-02")
}

func newTestWizard(t *testing.T) (*wizard.Wizard, *wizard.MemoryDraftStore, *fakeBookings, *fakeCheckout) {
	t.Helper()
	store := wizard.NewMemoryDraftStore()
	bookings := &fakeBookings{}
	checkout := &fakeCheckout{}
	w := wizard.New(store, bookings, checkout, uuid.New(), uuid.New())
	return w, store, bookings, checkout
}

func completePackageStep(t *testing.T, w *wizard.Wizard) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, w.SetTier(ctx, entities.TierPremium))
	require.NoError(t, w.SetGuestCount(ctx, 150))
	require.NoError(t, w.Next(ctx))
	require.Equal(t, wizard.StepSchedule, w.CurrentStep())
}

func TestNextWithoutTierIsNoOp(t *testing.T) {
	ctx := context.Background()

	for _, guests := range []int{0, 9, 10, 500} {
		w, _, _, _ := newTestWizard(t)
		require.NoError(t, w.SetGuestCount(ctx, guests))

		require.NoError(t, w.Next(ctx))

		assert.Equal(t, wizard.StepPackage, w.CurrentStep(), "guests=%d", guests)
		assert.Contains(t, w.Errors(), "tier")
	}
}

func TestNextRequiresMinimumGuests(t *testing.T) {
	ctx := context.Background()
	w, _, _, _ := newTestWizard(t)

	require.NoError(t, w.SetTier(ctx, entities.TierBasic))
	require.NoError(t, w.SetGuestCount(ctx, 9))
	require.NoError(t, w.Next(ctx))

	assert.Equal(t, wizard.StepPackage, w.CurrentStep())
	assert.Contains(t, w.Errors(), "guest_count")
}

func TestNextAdvancesAndQuotes(t *testing.T) {
	w, _, _, _ := newTestWizard(t)
	completePackageStep(t, w)

	draft := w.Draft()
	assert.Equal(t, int64(81000), draft.Breakdown.TotalAmount)
	assert.Equal(t, int64(24300), draft.Breakdown.DepositAmount)
	assert.Empty(t, w.Errors())
}

func TestScheduleStepRejectsPastDate(t *testing.T) {
	ctx := context.Background()
	w, _, _, _ := newTestWizard(t)
	completePackageStep(t, w)

	require.NoError(t, w.SetSchedule(ctx, "2020-01-01", "evening"))
	require.NoError(t, w.Next(ctx))

	assert.Equal(t, wizard.StepSchedule, w.CurrentStep())
	assert.Contains(t, w.Errors(), "event_date")
}

func TestContactStepValidation(t *testing.T) {
	ctx := context.Background()
	w, _, _, _ := newTestWizard(t)
	completePackageStep(t, w)

	require.NoError(t, w.SetSchedule(ctx, futureDate(), "evening"))
	require.NoError(t, w.Next(ctx))
	require.Equal(t, wizard.StepContact, w.CurrentStep())

	require.NoError(t, w.SetContact(ctx, entities.Customer{
		Name:  "",
		Email: "not-an-email",
		Phone: "12345",
	}))
	require.NoError(t, w.Next(ctx))

	assert.Equal(t, wizard.StepContact, w.CurrentStep())
	assert.Contains(t, w.Errors(), "name")
	assert.Contains(t, w.Errors(), "email")
	assert.Contains(t, w.Errors(), "phone")

	require.NoError(t, w.SetContact(ctx, entities.Customer{
		Name:  "Ada Lovelace",
		Email: "ada@example.com",
		Phone: "+1 (555) 010-9988",
	}))
	require.NoError(t, w.Next(ctx))

	assert.Equal(t, wizard.StepReview, w.CurrentStep())
}

func TestBackAlwaysSucceeds(t *testing.T) {
	ctx := context.Background()
	w, _, _, _ := newTestWizard(t)
	completePackageStep(t, w)

	require.NoError(t, w.Back(ctx))
	assert.Equal(t, wizard.StepPackage, w.CurrentStep())

	// floored at step 1
	require.NoError(t, w.Back(ctx))
	assert.Equal(t, wizard.StepPackage, w.CurrentStep())
}

func TestDraftRoundTripsThroughStore(t *testing.T) {
	ctx := context.Background()
	w, store, _, _ := newTestWizard(t)
	completePackageStep(t, w)
	require.NoError(t, w.SetSchedule(ctx, futureDate(), "evening"))

	// a fresh wizard over the same store resumes mid-flow
	resumed := wizard.New(store, &fakeBookings{}, &fakeCheckout{}, uuid.New(), uuid.New())
	require.NoError(t, resumed.Load(ctx))

	assert.Equal(t, w.CurrentStep(), resumed.CurrentStep())
	assert.Equal(t, w.Draft(), resumed.Draft())
}

func TestLoadWithEmptyStoreStartsFresh(t *testing.T) {
	w, _, _, _ := newTestWizard(t)
	require.NoError(t, w.Load(context.Background()))

	assert.Equal(t, wizard.StepPackage, w.CurrentStep())
	assert.Equal(t, entities.Tier(""), w.Draft().Tier)
}

func TestLoadIgnoresCorruptDraft(t *testing.T) {
	ctx := context.Background()
	store := wizard.NewMemoryDraftStore()
	require.NoError(t, store.Set(ctx, wizard.DraftKey, "{not json"))

	w := wizard.New(store, &fakeBookings{}, &fakeCheckout{}, uuid.New(), uuid.New())
	require.NoError(t, w.Load(ctx))

	assert.Equal(t, wizard.StepPackage, w.CurrentStep())
}

func completeToReview(t *testing.T, w *wizard.Wizard) {
	t.Helper()
	ctx := context.Background()
	completePackageStep(t, w)
	require.NoError(t, w.SetSchedule(ctx, futureDate(), "evening"))
	require.NoError(t, w.Next(ctx))
	require.NoError(t, w.SetContact(ctx, entities.Customer{
		Name:  "Ada Lovelace",
		Email: "ada@example.com",
		Phone: "5550109988",
	}))
	require.NoError(t, w.Next(ctx))
	require.Equal(t, wizard.StepReview, w.CurrentStep())
}

func TestSubmitCreatesBookingAndClearsDraft(t *testing.T) {
	ctx := context.Background()
	w, store, bookings, checkout := newTestWizard(t)
	completeToReview(t, w)

	bookingID, err := w.Submit(ctx)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, bookingID)

	require.Len(t, bookings.created, 1)
	req := bookings.created[0]
	assert.Equal(t, "premium", req.Tier)
	assert.Equal(t, 150, req.Guests)
	assert.Equal(t, int64(81000), req.Total)
	assert.Equal(t, int64(24300), req.Deposit)
	assert.Equal(t, "pending", req.Status)

	require.Len(t, checkout.sessions, 1)
	assert.Equal(t, int64(24300), checkout.sessions[0].Amount)
	assert.Equal(t, bookingID.String(), checkout.sessions[0].Metadata["booking_id"])

	_, ok, err := store.Get(ctx, wizard.DraftKey)
	require.NoError(t, err)
	assert.False(t, ok, "draft should be cleared after submission")

	assert.Equal(t, wizard.StepPackage, w.CurrentStep())
}

func TestSubmitFailureLeavesDraftIntact(t *testing.T) {
	ctx := context.Background()
	w, store, bookings, _ := newTestWizard(t)
	completeToReview(t, w)

	bookings.err = errors.New("service unavailable")

	_, err := w.Submit(ctx)
	require.Error(t, err)

	assert.Equal(t, wizard.StepReview, w.CurrentStep())
	_, ok, storeErr := store.Get(ctx, wizard.DraftKey)
	require.NoError(t, storeErr)
	assert.True(t, ok, "draft must survive a failed submission")
}

func TestSubmitBeforeReviewFails(t *testing.T) {
	w, _, bookings, _ := newTestWizard(t)
	completePackageStep(t, w)

	_, err := w.Submit(context.Background())
	require.Error(t, err)
	assert.Empty(t, bookings.created)
}

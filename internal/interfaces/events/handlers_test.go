package events_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gigbook/internal/entities"
	"gigbook/internal/interfaces/events"
	"gigbook/internal/qr"
)

type fakeBlobStorage struct {
	uploads   map[string]int
	uploadErr error
	signErr   error
}

func newFakeBlobStorage() *fakeBlobStorage {
	return &fakeBlobStorage{uploads: map[string]int{}}
}

func (f *fakeBlobStorage) Upload(_ context.Context, path string, _ []byte, _ string) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.uploads[path]++
	return nil
}

func (f *fakeBlobStorage) SignedURL(_ context.Context, path string, _ time.Duration) (string, error) {
	if f.signErr != nil {
		return "", f.signErr
	}
	return "https://blobs/signed/" + path, nil
}

type fakeMailer struct {
	sent []entities.NotificationJob
	err  error
}

func (f *fakeMailer) Send(_ context.Context, job entities.NotificationJob) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, job)
	return "msg-" + uuid.NewString(), nil
}

type fakeBookingsRepo struct {
	qrCodeURLs       map[uuid.UUID]string
	processingErrors map[uuid.UUID]string
}

func newFakeBookingsRepo() *fakeBookingsRepo {
	return &fakeBookingsRepo{
		qrCodeURLs:       map[uuid.UUID]string{},
		processingErrors: map[uuid.UUID]string{},
	}
}

func (f *fakeBookingsRepo) SetQRCodeURL(_ context.Context, id uuid.UUID, url string) error {
	// at-most-once, like the qr_code_url IS NULL guard
	if _, ok := f.qrCodeURLs[id]; !ok {
		f.qrCodeURLs[id] = url
	}
	return nil
}

func (f *fakeBookingsRepo) SetProcessingError(_ context.Context, id uuid.UUID, message string) error {
	f.processingErrors[id] = message
	return nil
}

type fakeUsersRepo struct {
	users map[uuid.UUID]*entities.User
	err   error
}

func (f *fakeUsersRepo) GetByID(_ context.Context, id uuid.UUID) (*entities.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.users[id], nil
}

type fakeEventsRepo struct {
	events map[uuid.UUID]*entities.CommunityEvent
}

func (f *fakeEventsRepo) GetByID(_ context.Context, id uuid.UUID) (*entities.CommunityEvent, error) {
	return f.events[id], nil
}

type fakeAnalyticsRepo struct {
	appended []entities.AnalyticsEvent
}

// Append mimics the ON CONFLICT DO NOTHING primary key.
func (f *fakeAnalyticsRepo) Append(_ context.Context, event entities.AnalyticsEvent) error {
	for _, existing := range f.appended {
		if existing.ID == event.ID {
			return nil
		}
	}
	f.appended = append(f.appended, event)
	return nil
}

type fixture struct {
	blob      *fakeBlobStorage
	mailer    *fakeMailer
	bookings  *fakeBookingsRepo
	users     *fakeUsersRepo
	events    *fakeEventsRepo
	analytics *fakeAnalyticsRepo
	handler   *events.Handler

	userID    uuid.UUID
	creatorID uuid.UUID
	eventID   uuid.UUID
}

func newFixture() *fixture {
	f := &fixture{
		blob:      newFakeBlobStorage(),
		mailer:    &fakeMailer{},
		bookings:  newFakeBookingsRepo(),
		users:     &fakeUsersRepo{users: map[uuid.UUID]*entities.User{}},
		events:    &fakeEventsRepo{events: map[uuid.UUID]*entities.CommunityEvent{}},
		analytics: &fakeAnalyticsRepo{},
		userID:    uuid.New(),
		creatorID: uuid.New(),
		eventID:   uuid.New(),
	}

	f.users.users[f.userID] = &entities.User{ID: f.userID, Name: "Ada Lovelace", Email: "ada@example.com"}
	f.users.users[f.creatorID] = &entities.User{ID: f.creatorID, Name: "Grace Hopper", Email: "grace@example.com"}
	f.events.events[f.eventID] = &entities.CommunityEvent{
		ID:        f.eventID,
		Title:     "Rooftop Sessions",
		CreatorID: &f.creatorID,
	}

	f.handler = events.NewHandler(f.blob, f.mailer, f.bookings, f.users, f.events, f.analytics, 720*time.Hour)
	return f
}

func (f *fixture) createdEvent(bookingID uuid.UUID) *entities.BookingCreated_v1 {
	return &entities.BookingCreated_v1{
		Header:        entities.NewEventHeader(),
		BookingID:     bookingID,
		EventID:       f.eventID,
		UserID:        f.userID,
		Tier:          "premium",
		Date:          "2031-06-15",
		GuestCount:    150,
		Amount:        81000,
		DepositAmount: 24300,
	}
}

func TestBookingCreatedHandler(t *testing.T) {
	f := newFixture()
	bookingID := uuid.New()
	ctx := context.Background()

	err := f.handler.BookingCreatedHandler().Handle(ctx, f.createdEvent(bookingID))
	require.NoError(t, err)

	path := qr.ObjectPath(bookingID)
	assert.Equal(t, 1, f.blob.uploads[path])
	assert.Equal(t, "https://blobs/signed/"+path, f.bookings.qrCodeURLs[bookingID])

	require.Len(t, f.mailer.sent, 2)
	confirmation := f.mailer.sent[0]
	assert.Equal(t, entities.TemplateBookingConfirmation, confirmation.TemplateID)
	assert.Equal(t, "ada@example.com", confirmation.Recipient)
	assert.Equal(t, "Rooftop Sessions", confirmation.TemplateData["EventTitle"])
	assert.Equal(t, "June 15, 2031", confirmation.TemplateData["Date"])
	assert.Equal(t, bookingID.String(), confirmation.TemplateData["BookingID"])
	assert.NotEmpty(t, confirmation.TemplateData["QRCodeURL"])

	creatorNote := f.mailer.sent[1]
	assert.Equal(t, entities.TemplateNewBookingCreator, creatorNote.TemplateID)
	assert.Equal(t, "grace@example.com", creatorNote.Recipient)
	assert.Equal(t, "Ada Lovelace", creatorNote.TemplateData["CustomerName"])

	require.Len(t, f.analytics.appended, 1)
	assert.Equal(t, entities.AnalyticsBookingCreated, f.analytics.appended[0].Type)
	assert.Equal(t, "premium", f.analytics.appended[0].Metadata["packageId"])
	assert.Equal(t, "81000", f.analytics.appended[0].Metadata["amount"])

	assert.Empty(t, f.bookings.processingErrors)
}

func TestBookingCreatedHandlerRedelivery(t *testing.T) {
	f := newFixture()
	bookingID := uuid.New()
	ctx := context.Background()

	// the same logical event delivered twice
	payload := f.createdEvent(bookingID)
	require.NoError(t, f.handler.BookingCreatedHandler().Handle(ctx, payload))
	require.NoError(t, f.handler.BookingCreatedHandler().Handle(ctx, payload))

	assert.Len(t, f.blob.uploads, 1, "redelivery must hit the same deterministic path")
	assert.Equal(t, "https://blobs/signed/"+qr.ObjectPath(bookingID), f.bookings.qrCodeURLs[bookingID])
	assert.Len(t, f.analytics.appended, 1, "analytics keyed by event id must not duplicate")
}

func TestBookingCreatedHandlerFailureAfterUpload(t *testing.T) {
	f := newFixture()
	f.users.err = errors.New("user lookup failed")
	bookingID := uuid.New()
	ctx := context.Background()

	err := f.handler.BookingCreatedHandler().Handle(ctx, f.createdEvent(bookingID))
	require.NoError(t, err, "the failure boundary must not rethrow")

	// the artifact survives the failure, and the diagnostic is recorded
	assert.NotEmpty(t, f.bookings.qrCodeURLs[bookingID])
	assert.Contains(t, f.bookings.processingErrors[bookingID], "user lookup failed")

	assert.Empty(t, f.mailer.sent)
	assert.Empty(t, f.analytics.appended)
}

func TestBookingCreatedHandlerUploadFailure(t *testing.T) {
	f := newFixture()
	f.blob.uploadErr = errors.New("storage unreachable")
	bookingID := uuid.New()

	err := f.handler.BookingCreatedHandler().Handle(context.Background(), f.createdEvent(bookingID))
	require.NoError(t, err)

	assert.Empty(t, f.bookings.qrCodeURLs)
	assert.Contains(t, f.bookings.processingErrors[bookingID], "storage unreachable")
}

func TestBookingCreatedHandlerMissingUserAndEvent(t *testing.T) {
	f := newFixture()
	f.users.users = map[uuid.UUID]*entities.User{}
	f.events.events = map[uuid.UUID]*entities.CommunityEvent{}
	bookingID := uuid.New()

	err := f.handler.BookingCreatedHandler().Handle(context.Background(), f.createdEvent(bookingID))
	require.NoError(t, err)

	// artifact and analytics still happen; notifications are skipped
	assert.NotEmpty(t, f.bookings.qrCodeURLs[bookingID])
	assert.Empty(t, f.mailer.sent)
	assert.Len(t, f.analytics.appended, 1)
	assert.Empty(t, f.bookings.processingErrors)
}

func (f *fixture) statusEvent(oldStatus, newStatus string) *entities.BookingStatusChanged_v1 {
	return &entities.BookingStatusChanged_v1{
		Header:    entities.NewEventHeader(),
		BookingID: uuid.New(),
		UserID:    f.userID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
	}
}

func TestStatusChangedHandlerNoOpOnSameStatus(t *testing.T) {
	f := newFixture()

	err := f.handler.BookingStatusChangedHandler().Handle(context.Background(), f.statusEvent("confirmed", "confirmed"))
	require.NoError(t, err)

	assert.Empty(t, f.mailer.sent)
	assert.Empty(t, f.analytics.appended)
}

func TestStatusChangedHandlerConfirmed(t *testing.T) {
	f := newFixture()
	payload := f.statusEvent("pending", "confirmed")

	err := f.handler.BookingStatusChangedHandler().Handle(context.Background(), payload)
	require.NoError(t, err)

	require.Len(t, f.mailer.sent, 1)
	note := f.mailer.sent[0]
	assert.Equal(t, entities.TemplateBookingConfirmed, note.TemplateID)
	assert.Equal(t, "ada@example.com", note.Recipient)
	assert.Equal(t, "Ada Lovelace", note.TemplateData["CustomerName"])
	assert.Equal(t, payload.BookingID.String(), note.TemplateData["BookingID"])
	assert.Equal(t, "confirmed", note.TemplateData["Status"])

	require.Len(t, f.analytics.appended, 1)
	appended := f.analytics.appended[0]
	assert.Equal(t, entities.AnalyticsBookingStatusChanged, appended.Type)
	assert.Equal(t, "pending", appended.Metadata["oldStatus"])
	assert.Equal(t, "confirmed", appended.Metadata["newStatus"])
}

func TestStatusChangedHandlerUnknownStatus(t *testing.T) {
	f := newFixture()

	err := f.handler.BookingStatusChangedHandler().Handle(context.Background(), f.statusEvent("pending", "archived"))
	require.NoError(t, err)

	assert.Empty(t, f.mailer.sent, "unknown status selects no template")
	assert.Len(t, f.analytics.appended, 1, "analytics is still recorded")
}

func TestStatusChangedHandlerMissingUser(t *testing.T) {
	f := newFixture()
	f.users.users = map[uuid.UUID]*entities.User{}

	err := f.handler.BookingStatusChangedHandler().Handle(context.Background(), f.statusEvent("pending", "cancelled"))
	require.NoError(t, err)

	assert.Empty(t, f.mailer.sent)
	assert.Len(t, f.analytics.appended, 1)
}

func TestStatusChangedHandlerFailureOnlyLogs(t *testing.T) {
	f := newFixture()
	f.mailer.err = errors.New("smtp gateway down")

	err := f.handler.BookingStatusChangedHandler().Handle(context.Background(), f.statusEvent("pending", "confirmed"))
	require.NoError(t, err, "failure boundary must swallow the error")

	assert.Empty(t, f.bookings.processingErrors,
		"the status handler never writes a processing error marker")
}

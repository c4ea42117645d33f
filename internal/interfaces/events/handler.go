package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"gigbook/internal/entities"
)

//go:generate mockgen -destination=mocks/blob_storage_mock.go -package=mocks . BlobStorage
type BlobStorage interface {
	Upload(ctx context.Context, path string, content []byte, contentType string) error
	SignedURL(ctx context.Context, path string, expiry time.Duration) (string, error)
}

//go:generate mockgen -destination=mocks/mailer_mock.go -package=mocks . Mailer
type Mailer interface {
	Send(ctx context.Context, job entities.NotificationJob) (string, error)
}

//go:generate mockgen -destination=mocks/bookings_repository_mock.go -package=mocks . BookingsRepository
type BookingsRepository interface {
	SetQRCodeURL(ctx context.Context, id uuid.UUID, url string) error
	SetProcessingError(ctx context.Context, id uuid.UUID, message string) error
}

//go:generate mockgen -destination=mocks/users_repository_mock.go -package=mocks . UsersRepository
type UsersRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
}

//go:generate mockgen -destination=mocks/events_repository_mock.go -package=mocks . EventsRepository
type EventsRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entities.CommunityEvent, error)
}

//go:generate mockgen -destination=mocks/analytics_repository_mock.go -package=mocks . AnalyticsRepository
type AnalyticsRepository interface {
	Append(ctx context.Context, event entities.AnalyticsEvent) error
}

type Handler struct {
	blobStorage  BlobStorage
	mailer       Mailer
	bookingsRepo BookingsRepository
	usersRepo    UsersRepository
	eventsRepo   EventsRepository
	analytics    AnalyticsRepository
	signedURLTTL time.Duration
}

func NewHandler(
	blobStorage BlobStorage,
	mailer Mailer,
	bookingsRepo BookingsRepository,
	usersRepo UsersRepository,
	eventsRepo EventsRepository,
	analytics AnalyticsRepository,
	signedURLTTL time.Duration,
) *Handler {
	return &Handler{
		blobStorage:  blobStorage,
		mailer:       mailer,
		bookingsRepo: bookingsRepo,
		usersRepo:    usersRepo,
		eventsRepo:   eventsRepo,
		analytics:    analytics,
		signedURLTTL: signedURLTTL,
	}
}

// analyticsEventID derives the analytics row key from the message
// header, so a redelivered message appends nothing new.
func analyticsEventID(header entities.EventHeader) uuid.UUID {
	if id, err := uuid.Parse(header.Id); err == nil {
		return id
	}
	return uuid.New()
}

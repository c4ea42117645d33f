package repository_test

import (
	"context"
	"os"
	"sync"
	"testing"

	trmsqlx "github.com/avito-tech/go-transaction-manager/drivers/sqlx/v2"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gigbook/internal/entities"
	"gigbook/internal/repository"
)

var (
	db        *sqlx.DB
	getDbOnce sync.Once
)

func getDb(t *testing.T) *sqlx.DB {
	if os.Getenv("POSTGRES_URL") == "" {
		t.Skip("POSTGRES_URL is not set")
	}

	getDbOnce.Do(func() {
		var err error
		db, err = sqlx.Open("postgres", os.Getenv("POSTGRES_URL"))
		if err != nil {
			panic(err)
		}
		if err := repository.InitializeDBSchema(db); err != nil {
			panic(err)
		}
	})
	return db
}

func newBookingsRepo(t *testing.T) *repository.BookingsRepo {
	return repository.NewBookingsRepo(getDb(t), trmsqlx.DefaultCtxGetter)
}

func createTestBooking(t *testing.T, repo *repository.BookingsRepo) uuid.UUID {
	t.Helper()
	id, err := repo.Create(context.Background(), entities.CreateBookingRequest{
		EventID: uuid.New(),
		UserID:  uuid.New(),
		Tier:    "premium",
		Date:    "2031-06-15",
		Time:    "evening",
		Name:    "Ada Lovelace",
		Email:   "ada@example.com",
		Phone:   "5550109988",
		Guests:  150,
		Total:   81000,
		Deposit: 24300,
		Status:  "pending",
	})
	require.NoError(t, err)
	return id
}

func TestBookingsRepo_CreateAndGet_Integration(t *testing.T) {
	repo := newBookingsRepo(t)
	ctx := context.Background()

	id := createTestBooking(t, repo)

	booking, err := repo.GetByID(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, entities.TierPremium, booking.Tier)
	assert.Equal(t, entities.BookingStatusPending, booking.Status)
	assert.Equal(t, int64(81000), booking.Payment.Amount)
	assert.Equal(t, int64(24300), booking.Payment.DepositAmount)
	assert.Nil(t, booking.QRCodeURL)
	assert.Nil(t, booking.ProcessingError)
}

func TestBookingsRepo_SetQRCodeURL_AtMostOnce_Integration(t *testing.T) {
	repo := newBookingsRepo(t)
	ctx := context.Background()

	id := createTestBooking(t, repo)

	require.NoError(t, repo.SetQRCodeURL(ctx, id, "https://blobs/qr/first.png"))
	// redelivery must not overwrite the first write
	require.NoError(t, repo.SetQRCodeURL(ctx, id, "https://blobs/qr/second.png"))

	booking, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, booking.QRCodeURL)
	assert.Equal(t, "https://blobs/qr/first.png", *booking.QRCodeURL)
}

func TestBookingsRepo_SetProcessingError_KeepsOtherFields_Integration(t *testing.T) {
	repo := newBookingsRepo(t)
	ctx := context.Background()

	id := createTestBooking(t, repo)
	require.NoError(t, repo.SetQRCodeURL(ctx, id, "https://blobs/qr/a.png"))
	require.NoError(t, repo.SetProcessingError(ctx, id, "user lookup failed"))

	booking, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, booking.ProcessingError)
	assert.Equal(t, "user lookup failed", *booking.ProcessingError)
	require.NotNil(t, booking.QRCodeURL, "processing error must not clear the artifact")
}

func TestBookingsRepo_UpdateStatus_Integration(t *testing.T) {
	repo := newBookingsRepo(t)
	ctx := context.Background()

	id := createTestBooking(t, repo)
	require.NoError(t, repo.UpdateStatus(ctx, id, entities.BookingStatusConfirmed))

	booking, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, entities.BookingStatusConfirmed, booking.Status)

	err = repo.UpdateStatus(ctx, uuid.New(), entities.BookingStatusConfirmed)
	assert.ErrorIs(t, err, repository.ErrBookingNotFound)
}

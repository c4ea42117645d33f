package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	trmsqlx "github.com/avito-tech/go-transaction-manager/drivers/sqlx/v2"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gigbook/internal/entities"
)

var ErrBookingNotFound = errors.New("booking not found")

// bookingRow is the bookings table model.
type bookingRow struct {
	ID              uuid.UUID      `db:"id"`
	EventID         uuid.UUID      `db:"event_id"`
	UserID          uuid.UUID      `db:"user_id"`
	Tier            string         `db:"tier"`
	EventDate       string         `db:"event_date"`
	EventTime       string         `db:"event_time"`
	GuestCount      int            `db:"guest_count"`
	CustomerName    string         `db:"customer_name"`
	CustomerEmail   string         `db:"customer_email"`
	CustomerPhone   string         `db:"customer_phone"`
	PaymentAmount   int64          `db:"payment_amount"`
	PaymentDeposit  int64          `db:"payment_deposit"`
	PaymentStatus   string         `db:"payment_status"`
	Status          string         `db:"status"`
	QRCodeURL       sql.NullString `db:"qr_code_url"`
	ProcessingError sql.NullString `db:"processing_error"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

type BookingsRepo struct {
	db     *sqlx.DB
	getter *trmsqlx.CtxGetter
}

func NewBookingsRepo(db *sqlx.DB, getter *trmsqlx.CtxGetter) *BookingsRepo {
	return &BookingsRepo{db: db, getter: getter}
}

func (r *BookingsRepo) Create(ctx context.Context, req entities.CreateBookingRequest) (uuid.UUID, error) {
	var id uuid.UUID

	query := `
		INSERT INTO bookings (
			event_id, user_id, tier, event_date, event_time, guest_count,
			customer_name, customer_email, customer_phone,
			payment_amount, payment_deposit, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		) RETURNING id`

	err := r.getter.DefaultTrOrDB(ctx, r.db).QueryRowxContext(ctx, query,
		req.EventID,
		req.UserID,
		req.Tier,
		req.Date,
		req.Time,
		req.Guests,
		req.Name,
		req.Email,
		req.Phone,
		req.Total,
		req.Deposit,
		req.Status,
	).Scan(&id)

	if err != nil {
		return uuid.Nil, err
	}

	return id, nil
}

func (r *BookingsRepo) GetByID(ctx context.Context, id uuid.UUID) (*entities.Booking, error) {
	var row bookingRow

	query := `
		SELECT id, event_id, user_id, tier, event_date, event_time, guest_count,
			customer_name, customer_email, customer_phone,
			payment_amount, payment_deposit, payment_status,
			status, qr_code_url, processing_error, created_at, updated_at
		FROM bookings
		WHERE id = $1`

	err := r.getter.DefaultTrOrDB(ctx, r.db).GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}

	return rowToBooking(row), nil
}

// UpdateStatus updates only the status column. Lifecycle validation is
// the caller's job; the repo just performs the merge-semantics write.
func (r *BookingsRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.BookingStatus) error {
	res, err := r.getter.DefaultTrOrDB(ctx, r.db).ExecContext(ctx, `
		UPDATE bookings SET status = $2, updated_at = now() WHERE id = $1`,
		id, status)
	if err != nil {
		return err
	}

	return requireRow(res)
}

// SetQRCodeURL writes the artifact URL at most once: a redelivered
// create event finds qr_code_url already set and leaves it alone.
func (r *BookingsRepo) SetQRCodeURL(ctx context.Context, id uuid.UUID, url string) error {
	_, err := r.getter.DefaultTrOrDB(ctx, r.db).ExecContext(ctx, `
		UPDATE bookings SET qr_code_url = $2, updated_at = now()
		WHERE id = $1 AND qr_code_url IS NULL`,
		id, url)
	return err
}

// SetProcessingError records a non-blocking diagnostic; it never touches
// any other column.
func (r *BookingsRepo) SetProcessingError(ctx context.Context, id uuid.UUID, message string) error {
	_, err := r.getter.DefaultTrOrDB(ctx, r.db).ExecContext(ctx, `
		UPDATE bookings SET processing_error = $2, updated_at = now() WHERE id = $1`,
		id, message)
	return err
}

func requireRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func rowToBooking(row bookingRow) *entities.Booking {
	booking := &entities.Booking{
		ID:         row.ID,
		EventID:    row.EventID,
		UserID:     row.UserID,
		Tier:       entities.Tier(row.Tier),
		Date:       row.EventDate,
		Time:       row.EventTime,
		GuestCount: row.GuestCount,
		Customer: entities.Customer{
			Name:  row.CustomerName,
			Email: row.CustomerEmail,
			Phone: row.CustomerPhone,
		},
		Payment: entities.Payment{
			Amount:        row.PaymentAmount,
			DepositAmount: row.PaymentDeposit,
			Status:        row.PaymentStatus,
		},
		Status:    entities.BookingStatus(row.Status),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}

	if row.QRCodeURL.Valid {
		booking.QRCodeURL = &row.QRCodeURL.String
	}
	if row.ProcessingError.Valid {
		booking.ProcessingError = &row.ProcessingError.String
	}

	return booking
}

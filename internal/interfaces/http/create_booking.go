package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"gigbook/internal/entities"
)

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
}

type CreateBookingResponse struct {
	ID uuid.UUID `json:"booking_id"`
}

func (s *Server) CreateBookingHandler(c echo.Context) error {
	ctx := c.Request().Context()

	var request CreateBookingRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	bookingID, err := s.bookings.CreateBooking(ctx, entities.CreateBookingRequest{
		EventID: request.EventID,
		UserID:  request.UserID,
		Tier:    request.Tier,
		Date:    request.Date,
		Time:    request.Time,
		Name:    request.Name,
		Email:   request.Email,
		Phone:   request.Phone,
		Guests:  request.Guests,
		Total:   request.Total,
		Deposit: request.Deposit,
		Status:  string(entities.BookingStatusPending),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, CreateBookingResponse{ID: bookingID})
}

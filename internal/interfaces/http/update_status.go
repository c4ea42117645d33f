package http

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"gigbook/internal/application/usecases/booking"
	"gigbook/internal/entities"
	"gigbook/internal/repository"
)

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) UpdateStatusHandler(c echo.Context) error {
	id, err := uuid.Parse(c.Param("booking_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, "booking_id is not a valid UUID")
	}

	var request UpdateStatusRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	err = s.bookings.UpdateStatus(c.Request().Context(), id, entities.BookingStatus(request.Status))
	if errors.Is(err, repository.ErrBookingNotFound) {
		return c.JSON(http.StatusNotFound, "booking not found")
	}
	if errors.Is(err, booking.ErrInvalidTransition) {
		return c.JSON(http.StatusConflict, err.Error())
	}
	if err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

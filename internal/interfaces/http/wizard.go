package http

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"gigbook/internal/entities"
	"gigbook/internal/pricing"
	"gigbook/internal/wizard"
)

// WizardUpdateRequest carries partial draft edits. Nil fields are left
// untouched so the client can PATCH-style update one step at a time.
type WizardUpdateRequest struct {
	Tier   *string `json:"tier"`
	Guests *int    `json:"guests"`
	Date   *string `json:"date"`
	Time   *string `json:"time"`
	Name   *string `json:"name"`
	Email  *string `json:"email"`
	Phone  *string `json:"phone"`
}

type WizardStateResponse struct {
	Step   int               `json:"step"`
	Draft  wizard.Draft      `json:"draft"`
	Errors map[string]string `json:"errors"`
	Quote  pricing.Breakdown `json:"quote"`
}

type WizardSubmitResponse struct {
	BookingID uuid.UUID `json:"booking_id"`
}

func (s *Server) wizardForRequest(c echo.Context) (*wizard.Wizard, error) {
	eventID, err := uuid.Parse(c.Param("event_id"))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "event_id is not a valid UUID")
	}
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "user_id is not a valid UUID")
	}

	store := wizard.NewNamespacedStore(
		s.draftStore,
		fmt.Sprintf("wizard:%s:%s:", userID, eventID),
	)

	w := wizard.New(store, s.bookings, s.checkout, eventID, userID)
	if err := w.Load(c.Request().Context()); err != nil {
		return nil, err
	}
	return w, nil
}

func wizardState(w *wizard.Wizard) WizardStateResponse {
	draft := w.Draft()
	return WizardStateResponse{
		Step:   w.CurrentStep(),
		Draft:  draft,
		Errors: w.Errors(),
		Quote:  pricing.Quote(draft.Tier, draft.GuestCount),
	}
}

func (s *Server) GetWizardHandler(c echo.Context) error {
	w, err := s.wizardForRequest(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, wizardState(w))
}

func (s *Server) UpdateWizardHandler(c echo.Context) error {
	w, err := s.wizardForRequest(c)
	if err != nil {
		return err
	}

	var request WizardUpdateRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	ctx := c.Request().Context()

	if request.Tier != nil {
		if err := w.SetTier(ctx, entities.Tier(*request.Tier)); err != nil {
			return err
		}
	}
	if request.Guests != nil {
		if err := w.SetGuestCount(ctx, *request.Guests); err != nil {
			return err
		}
	}
	if request.Date != nil || request.Time != nil {
		draft := w.Draft()
		date, timeSlot := draft.EventDate, draft.EventTime
		if request.Date != nil {
			date = *request.Date
		}
		if request.Time != nil {
			timeSlot = *request.Time
		}
		if err := w.SetSchedule(ctx, date, timeSlot); err != nil {
			return err
		}
	}
	if request.Name != nil || request.Email != nil || request.Phone != nil {
		customer := w.Draft().Customer
		if request.Name != nil {
			customer.Name = *request.Name
		}
		if request.Email != nil {
			customer.Email = *request.Email
		}
		if request.Phone != nil {
			customer.Phone = *request.Phone
		}
		if err := w.SetContact(ctx, customer); err != nil {
			return err
		}
	}

	return c.JSON(http.StatusOK, wizardState(w))
}

func (s *Server) WizardNextHandler(c echo.Context) error {
	w, err := s.wizardForRequest(c)
	if err != nil {
		return err
	}
	if err := w.Next(c.Request().Context()); err != nil {
		return err
	}

	status := http.StatusOK
	if len(w.Errors()) > 0 {
		status = http.StatusUnprocessableEntity
	}
	return c.JSON(status, wizardState(w))
}

func (s *Server) WizardBackHandler(c echo.Context) error {
	w, err := s.wizardForRequest(c)
	if err != nil {
		return err
	}
	if err := w.Back(c.Request().Context()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, wizardState(w))
}

func (s *Server) WizardSubmitHandler(c echo.Context) error {
	w, err := s.wizardForRequest(c)
	if err != nil {
		return err
	}

	bookingID, err := w.Submit(c.Request().Context())
	if err != nil {
		if len(w.Errors()) > 0 {
			return c.JSON(http.StatusUnprocessableEntity, wizardState(w))
		}
		return err
	}

	return c.JSON(http.StatusCreated, WizardSubmitResponse{BookingID: bookingID})
}

func (s *Server) ResetWizardHandler(c echo.Context) error {
	w, err := s.wizardForRequest(c)
	if err != nil {
		return err
	}
	if err := w.Reset(c.Request().Context()); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gigbook/internal/application/usecases/booking"
	"gigbook/internal/wizard"
)

type Server struct {
	e    *echo.Echo
	addr string

	bookings   *booking.Usecase
	draftStore wizard.DraftStore
	checkout   wizard.CheckoutService
}

func NewServer(
	e *echo.Echo,
	addr string,
	bookings *booking.Usecase,
	draftStore wizard.DraftStore,
	checkout wizard.CheckoutService,
	routerIsRunning func() bool,
) *Server {
	srv := &Server{
		e:          e,
		addr:       addr,
		bookings:   bookings,
		draftStore: draftStore,
		checkout:   checkout,
	}

	e.POST("/bookings", srv.CreateBookingHandler)
	e.GET("/bookings/:booking_id", srv.GetBookingHandler)
	e.PUT("/bookings/:booking_id/status", srv.UpdateStatusHandler)

	e.GET("/events/:event_id/wizard/:user_id", srv.GetWizardHandler)
	e.PUT("/events/:event_id/wizard/:user_id", srv.UpdateWizardHandler)
	e.POST("/events/:event_id/wizard/:user_id/next", srv.WizardNextHandler)
	e.POST("/events/:event_id/wizard/:user_id/back", srv.WizardBackHandler)
	e.POST("/events/:event_id/wizard/:user_id/submit", srv.WizardSubmitHandler)
	e.DELETE("/events/:event_id/wizard/:user_id", srv.ResetWizardHandler)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.GET("/health", func(c echo.Context) error {
		if !routerIsRunning() {
			return c.String(http.StatusServiceUnavailable, "router is not running")
		}
		return c.String(http.StatusOK, "ok")
	})

	// logging middleware
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log.FromContext(c.Request().Context()).
				WithField("path", c.Request().URL.Path).
				Info("Handling a request")

			err := next(c)

			if err != nil {
				log.FromContext(c.Request().Context()).
					WithField("error", err).
					Error("Request handling error")
			}

			return err
		}
	})

	return srv
}

func (s *Server) Start() error {
	err := s.e.Start(s.addr)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}

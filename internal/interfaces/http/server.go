package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"eventhive/internal/application/attempts"
	"eventhive/internal/application/usecases/bookingflow"
	"eventhive/internal/entities"
	"eventhive/internal/pkg/log"
)

type EventCatalog interface {
	CreateEvent(ctx context.Context, event entities.EventSummary) (uuid.UUID, error)
	GetEvent(ctx context.Context, id uuid.UUID) (entities.EventSummary, error)
	ListEvents(ctx context.Context) ([]entities.EventSummary, error)
}

type BookingsRepository interface {
	GetBooking(ctx context.Context, id uuid.UUID) (entities.Booking, error)
	ListBookings(ctx context.Context) ([]entities.Booking, error)
	DeleteBooking(ctx context.Context, id uuid.UUID) error
}

// PaymentResolver delivers provider webhook outcomes to the flow waiting
// on them.
type PaymentResolver interface {
	ResolveSuccess(orderID, paymentReference string) bool
	ResolveFailure(orderID, reason string) bool
}

type Server struct {
	e    *echo.Echo
	addr string

	flow     *bookingflow.Flow
	registry *attempts.Registry
	resolver PaymentResolver

	webhookSecret string

	catalog      EventCatalog
	bookingsRepo BookingsRepository
}

func NewServer(
	addr string,
	flow *bookingflow.Flow,
	registry *attempts.Registry,
	resolver PaymentResolver,
	webhookSecret string,
	catalog EventCatalog,
	bookingsRepo BookingsRepository,
	routerIsRunning func() bool,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		e:             e,
		addr:          addr,
		flow:          flow,
		registry:      registry,
		resolver:      resolver,
		webhookSecret: webhookSecret,
		catalog:       catalog,
		bookingsRepo:  bookingsRepo,
	}

	e.POST("/api/events", srv.CreateEventHandler)
	e.GET("/api/events", srv.ListEventsHandler)
	e.GET("/api/events/:event_id", srv.GetEventHandler)

	e.POST("/api/bookings", srv.BookTicketsHandler)
	e.GET("/api/bookings/attempts/:attempt_id", srv.GetAttemptHandler)
	e.GET("/api/bookings/:booking_id", srv.GetBookingHandler)

	e.GET("/api/admin/bookings", srv.ListBookingsHandler)
	e.DELETE("/api/admin/bookings/:booking_id", srv.DeleteBookingHandler)

	e.POST("/api/payments/webhook", srv.PaymentWebhookHandler)

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

func flowErrorStatus(code bookingflow.Code) int {
	switch code {
	case bookingflow.CodeValidation:
		return http.StatusBadRequest
	case bookingflow.CodeNotFound:
		return http.StatusNotFound
	case bookingflow.CodePayment:
		return http.StatusPaymentRequired
	case bookingflow.CodeDocument:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

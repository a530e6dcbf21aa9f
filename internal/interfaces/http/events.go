package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"eventhive/internal/entities"
)

type CreateEventRequest struct {
	Title       string         `json:"title"`
	Venue       string         `json:"venue"`
	StartDate   time.Time      `json:"start_date"`
	EndDate     time.Time      `json:"end_date"`
	TicketPrice entities.Money `json:"ticket_price"`
	ImageURL    string         `json:"image_url"`
}

type CreateEventResponse struct {
	EventID uuid.UUID `json:"event_id"`
}

func (s *Server) CreateEventHandler(c echo.Context) error {
	ctx := c.Request().Context()

	var request CreateEventRequest
	err := c.Bind(&request)
	if err != nil {
		return err
	}

	if request.Title == "" || request.Venue == "" {
		return c.JSON(http.StatusBadRequest, "title and venue are required")
	}
	if request.TicketPrice.Amount < 0 {
		return c.JSON(http.StatusBadRequest, "ticket_price must not be negative")
	}

	eventID, err := s.catalog.CreateEvent(ctx, entities.EventSummary{
		Title:       request.Title,
		Venue:       request.Venue,
		StartDate:   request.StartDate,
		EndDate:     request.EndDate,
		TicketPrice: request.TicketPrice,
		ImageURL:    request.ImageURL,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated,
		CreateEventResponse{
			EventID: eventID,
		},
	)
}

func (s *Server) ListEventsHandler(c echo.Context) error {
	events, err := s.catalog.ListEvents(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, events)
}

func (s *Server) GetEventHandler(c echo.Context) error {
	id, err := uuid.Parse(c.Param("event_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, "event_id is not a valid UUID")
	}

	event, err := s.catalog.GetEvent(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, entities.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, "event not found")
		}
		return err
	}

	return c.JSON(http.StatusOK, event)
}

package http

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"eventhive/internal/entities"
)

func (s *Server) GetBookingHandler(c echo.Context) error {
	id, err := uuid.Parse(c.Param("booking_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, "booking_id is not a valid UUID")
	}

	booking, err := s.bookingsRepo.GetBooking(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, entities.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, "booking not found")
		}
		return err
	}

	return c.JSON(http.StatusOK, booking)
}

func (s *Server) ListBookingsHandler(c echo.Context) error {
	bookings, err := s.bookingsRepo.ListBookings(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, bookings)
}

func (s *Server) DeleteBookingHandler(c echo.Context) error {
	id, err := uuid.Parse(c.Param("booking_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, "booking_id is not a valid UUID")
	}

	err = s.bookingsRepo.DeleteBooking(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, entities.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, "booking not found")
		}
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

package http

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"eventhive/internal/application/usecases/bookingflow"
)

type TransitionView struct {
	From bookingflow.State `json:"from"`
	To   bookingflow.State `json:"to"`
	At   time.Time         `json:"at"`
}

type AttemptResponse struct {
	AttemptID   uuid.UUID                    `json:"attempt_id"`
	EventID     uuid.UUID                    `json:"event_id"`
	State       bookingflow.State            `json:"state"`
	Transitions []TransitionView             `json:"transitions"`
	Checkout    *bookingflow.CheckoutSession `json:"checkout,omitempty"`
	Result      *bookingflow.Result          `json:"result,omitempty"`
	Error       *FlowErrorResponse           `json:"error,omitempty"`
	UpdatedAt   time.Time                    `json:"updated_at"`
}

func (s *Server) GetAttemptHandler(c echo.Context) error {
	id, err := uuid.Parse(c.Param("attempt_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, "attempt_id is not a valid UUID")
	}

	attempt, ok := s.registry.Get(id)
	if !ok {
		return c.JSON(http.StatusNotFound, "booking attempt not found")
	}

	response := AttemptResponse{
		AttemptID: attempt.ID,
		EventID:   attempt.EventID,
		State:     attempt.State,
		Checkout:  attempt.Session,
		Result:    attempt.Result,
		UpdatedAt: attempt.UpdatedAt,
	}

	for _, t := range attempt.Transitions {
		response.Transitions = append(response.Transitions, TransitionView{
			From: t.From,
			To:   t.To,
			At:   t.At,
		})
	}

	if attempt.Err != nil {
		response.Error = &FlowErrorResponse{
			Code:    attempt.Err.Code,
			Message: attempt.Err.Message,
		}
	}

	return c.JSON(http.StatusOK, response)
}

package http

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"eventhive/internal/application/usecases/bookingflow"
	"eventhive/internal/entities"
)

type BookTicketsRequest struct {
	EventID uuid.UUID `json:"event_id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Mobile  string    `json:"mobile"`
	Tickets int       `json:"tickets"`
}

type BookTicketsResponse struct {
	AttemptID uuid.UUID                   `json:"attempt_id"`
	Checkout  bookingflow.CheckoutSession `json:"checkout"`
}

type FlowErrorResponse struct {
	Code    bookingflow.Code `json:"code"`
	Message string           `json:"message"`
}

// BookTicketsHandler starts a booking attempt. It responds as soon as the
// provider checkout is open; the flow keeps running until the webhook (or
// the checkout deadline) resolves it, and progress is served from the
// attempts endpoint.
func (s *Server) BookTicketsHandler(c echo.Context) error {
	var request BookTicketsRequest
	err := c.Bind(&request)
	if err != nil {
		return err
	}

	attendee := entities.Attendee{
		Name:        request.Name,
		Email:       request.Email,
		Mobile:      request.Mobile,
		TicketCount: request.Tickets,
	}

	attemptID := s.registry.Begin(request.EventID)

	sessionOpened := make(chan bookingflow.CheckoutSession, 1)
	flowDone := make(chan error, 1)

	go func() {
		// The flow outlives this request; its checkout deadline bounds
		// how long it can run.
		result, err := s.flow.Run(context.Background(), request.EventID, attendee,
			bookingflow.RunOptions{
				AttemptID: attemptID,
				Observe:   s.registry.Observer(attemptID),
				OnCheckoutOpened: func(session bookingflow.CheckoutSession) {
					s.registry.SetSession(attemptID, session)
					sessionOpened <- session
				},
			})

		s.registry.Complete(attemptID, result, err)
		flowDone <- err
	}()

	select {
	case session := <-sessionOpened:
		return c.JSON(http.StatusAccepted, BookTicketsResponse{
			AttemptID: attemptID,
			Checkout:  session,
		})
	case err := <-flowDone:
		// The flow failed before a checkout could be opened.
		if flowErr, ok := bookingflow.AsFlowError(err); ok {
			return c.JSON(flowErrorStatus(flowErr.Code), FlowErrorResponse{
				Code:    flowErr.Code,
				Message: flowErr.Message,
			})
		}

		return c.JSON(http.StatusInternalServerError, FlowErrorResponse{
			Code:    bookingflow.CodePersistence,
			Message: "booking flow failed",
		})
	}
}

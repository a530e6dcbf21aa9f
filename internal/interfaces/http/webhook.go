package http

import (
	"io"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/labstack/echo/v4"

	"eventhive/internal/infrastructure/payments"
	"eventhive/internal/pkg/log"
)

type webhookPayment struct {
	ID               string `json:"id"`
	OrderID          string `json:"order_id"`
	ErrorDescription string `json:"error_description"`
}

type webhookEnvelope struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity webhookPayment `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// PaymentWebhookHandler receives provider payment notifications and hands
// the outcome to the flow waiting on the order. Deliveries for orders no
// longer waited on are acknowledged so the provider stops redelivering.
func (s *Server) PaymentWebhookHandler(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return err
	}

	signature := c.Request().Header.Get("X-Razorpay-Signature")
	if !payments.VerifyWebhookSignature(body, signature, s.webhookSecret) {
		return c.JSON(http.StatusUnauthorized, "invalid webhook signature")
	}

	var envelope webhookEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return c.JSON(http.StatusBadRequest, "malformed webhook payload")
	}

	payment := envelope.Payload.Payment.Entity
	if payment.OrderID == "" {
		return c.JSON(http.StatusBadRequest, "webhook payload has no order id")
	}

	var delivered bool
	switch envelope.Event {
	case "payment.captured":
		delivered = s.resolver.ResolveSuccess(payment.OrderID, payment.ID)
	case "payment.failed":
		reason := payment.ErrorDescription
		if reason == "" {
			reason = "payment failed"
		}
		delivered = s.resolver.ResolveFailure(payment.OrderID, reason)
	default:
		// Not an outcome we act on; acknowledge and move on.
		return c.NoContent(http.StatusOK)
	}

	if !delivered {
		log.FromContext(c.Request().Context()).
			WithField("order_id", payment.OrderID).
			WithField("event", envelope.Event).
			Info("Webhook for an order no longer awaited, acknowledging")
	}

	return c.NoContent(http.StatusOK)
}

package payments

import (
	"context"
	"fmt"

	"eventhive/internal/application/usecases/bookingflow"
)

// Provider implements the flow's PaymentProvider on top of the orders API
// and the webhook coordinator.
type Provider struct {
	client      *Client
	coordinator *Coordinator
}

func NewProvider(client *Client, coordinator *Coordinator) *Provider {
	return &Provider{
		client:      client,
		coordinator: coordinator,
	}
}

func (p *Provider) OpenCheckout(
	ctx context.Context,
	req bookingflow.CheckoutRequest,
	onSuccess func(paymentReference string),
	onFailure func(reason string),
) (bookingflow.CheckoutSession, error) {
	order, err := p.client.CreateOrder(ctx, CreateOrderRequest{
		Amount:   req.Amount.Amount,
		Currency: req.Amount.Currency,
		Receipt:  req.AttemptID.String(),
		Notes: map[string]string{
			"event_id":    req.Event.ID.String(),
			"event_title": req.Event.Title,
			"attendee":    req.Attendee.Email,
			"tickets":     fmt.Sprintf("%d", req.Attendee.TicketCount),
		},
	})
	if err != nil {
		return bookingflow.CheckoutSession{}, err
	}

	outcomes := p.coordinator.Register(order.ID)

	go func() {
		select {
		case outcome := <-outcomes:
			if outcome.Failed {
				onFailure(outcome.Reason)
			} else {
				onSuccess(outcome.PaymentReference)
			}
		case <-ctx.Done():
			p.coordinator.Drop(order.ID)
		}
	}()

	return bookingflow.CheckoutSession{
		ProviderOrderID: order.ID,
		KeyID:           p.client.KeyID(),
		Amount:          req.Amount,
	}, nil
}

func (p *Provider) Refund(ctx context.Context, paymentReference, idempotencyKey string) error {
	return p.client.Refund(ctx, paymentReference, idempotencyKey)
}

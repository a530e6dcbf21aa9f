package payments

import "sync"

// Outcome of a checkout, delivered by the provider's webhook.
type Outcome struct {
	PaymentReference string
	Failed           bool
	Reason           string
}

// Coordinator bridges webhook deliveries to the booking flows waiting on
// them. Each provider order id has at most one pending waiter, and each
// waiter is resolved at most once: replayed webhooks find nothing to
// resolve and fall through.
type Coordinator struct {
	mu      sync.Mutex
	pending map[string]chan Outcome
}

func NewCoordinator() *Coordinator {
	return &Coordinator{
		pending: make(map[string]chan Outcome),
	}
}

func (c *Coordinator) Register(orderID string) <-chan Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan Outcome, 1)
	c.pending[orderID] = ch

	return ch
}

// Drop abandons a pending checkout, when the flow stops waiting.
func (c *Coordinator) Drop(orderID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.pending, orderID)
}

func (c *Coordinator) ResolveSuccess(orderID, paymentReference string) bool {
	return c.resolve(orderID, Outcome{PaymentReference: paymentReference})
}

func (c *Coordinator) ResolveFailure(orderID, reason string) bool {
	return c.resolve(orderID, Outcome{Failed: true, Reason: reason})
}

func (c *Coordinator) resolve(orderID string, outcome Outcome) bool {
	c.mu.Lock()
	ch, ok := c.pending[orderID]
	if ok {
		delete(c.pending, orderID)
	}
	c.mu.Unlock()

	if !ok {
		return false
	}

	ch <- outcome

	return true
}

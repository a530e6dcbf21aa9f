package attempts

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"eventhive/internal/application/usecases/bookingflow"
)

// Attempt is the observable progress of one booking flow run.
type Attempt struct {
	ID          uuid.UUID
	EventID     uuid.UUID
	State       bookingflow.State
	Transitions []bookingflow.Transition
	Session     *bookingflow.CheckoutSession
	Result      *bookingflow.Result
	Err         *bookingflow.FlowError
	UpdatedAt   time.Time
}

func (a *Attempt) Terminal() bool {
	return a.Result != nil || a.Err != nil
}

// Registry keeps in-flight and recently finished attempts for the progress
// endpoint. Finished attempts are pruned after a retention window.
type Registry struct {
	mu       sync.RWMutex
	attempts map[uuid.UUID]*Attempt
}

func NewRegistry() *Registry {
	return &Registry{
		attempts: make(map[uuid.UUID]*Attempt),
	}
}

func (r *Registry) Begin(eventID uuid.UUID) uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.New()
	r.attempts[id] = &Attempt{
		ID:        id,
		EventID:   eventID,
		State:     bookingflow.StateIdle,
		UpdatedAt: time.Now(),
	}

	return id
}

// Observer returns the transition callback wired into the flow run.
func (r *Registry) Observer(id uuid.UUID) func(bookingflow.Transition) {
	return func(t bookingflow.Transition) {
		r.mu.Lock()
		defer r.mu.Unlock()

		attempt, ok := r.attempts[id]
		if !ok {
			return
		}

		attempt.State = t.To
		attempt.Transitions = append(attempt.Transitions, t)
		attempt.UpdatedAt = time.Now()
	}
}

func (r *Registry) SetSession(id uuid.UUID, session bookingflow.CheckoutSession) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if attempt, ok := r.attempts[id]; ok {
		attempt.Session = &session
		attempt.UpdatedAt = time.Now()
	}
}

func (r *Registry) Complete(id uuid.UUID, result bookingflow.Result, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	attempt, ok := r.attempts[id]
	if !ok {
		return
	}

	if result.BookingID != uuid.Nil || err == nil {
		attempt.Result = &result
	}

	if err != nil {
		if flowErr, ok := bookingflow.AsFlowError(err); ok {
			attempt.Err = flowErr
		} else {
			attempt.Err = &bookingflow.FlowError{
				Code:    bookingflow.CodePersistence,
				Message: err.Error(),
			}
		}
	}

	attempt.UpdatedAt = time.Now()
}

// Get returns a snapshot of the attempt.
func (r *Registry) Get(id uuid.UUID) (Attempt, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	attempt, ok := r.attempts[id]
	if !ok {
		return Attempt{}, false
	}

	snapshot := *attempt
	snapshot.Transitions = append([]bookingflow.Transition(nil), attempt.Transitions...)

	return snapshot, true
}

// Prune drops terminal attempts that have not been touched for maxAge.
func (r *Registry) Prune(maxAge time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	pruned := 0
	for id, attempt := range r.attempts {
		if attempt.Terminal() && attempt.UpdatedAt.Before(cutoff) {
			delete(r.attempts, id)
			pruned++
		}
	}

	return pruned
}

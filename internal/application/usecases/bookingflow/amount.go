package bookingflow

import (
	"fmt"

	"eventhive/internal/entities"
)

// ComputeAmount is the single place the amount due is calculated. The value
// is passed immutably downstream; the ticket renderer never recomputes it.
func ComputeAmount(ticketCount int, unitPrice entities.Money) (entities.Money, error) {
	if ticketCount < 1 {
		return entities.Money{}, &FlowError{
			Code:    CodeValidation,
			Message: fmt.Sprintf("ticket count must be at least 1, got %d", ticketCount),
		}
	}

	return entities.Money{
		Amount:   unitPrice.Amount * int64(ticketCount),
		Currency: unitPrice.Currency,
	}, nil
}

package bookingflow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventhive/internal/application/usecases/bookingflow"
	"eventhive/internal/entities"
)

func TestComputeAmount(t *testing.T) {
	price := entities.Money{Amount: 50000, Currency: "INR"}

	amount, err := bookingflow.ComputeAmount(3, price)
	require.NoError(t, err)

	assert.Equal(t, int64(150000), amount.Amount)
	assert.Equal(t, "INR", amount.Currency)
	assert.Equal(t, "1500", amount.Display())
}

func TestComputeAmount_SingleTicket(t *testing.T) {
	amount, err := bookingflow.ComputeAmount(1, entities.Money{Amount: 9900, Currency: "INR"})
	require.NoError(t, err)

	assert.Equal(t, int64(9900), amount.Amount)
}

func TestComputeAmount_RejectsNonPositiveCount(t *testing.T) {
	for _, count := range []int{0, -1} {
		_, err := bookingflow.ComputeAmount(count, entities.Money{Amount: 50000, Currency: "INR"})

		flowErr, ok := bookingflow.AsFlowError(err)
		require.True(t, ok)
		assert.Equal(t, bookingflow.CodeValidation, flowErr.Code)
	}
}

package idempotency

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyFromPaymentReference_Deterministic(t *testing.T) {
	first := KeyFromPaymentReference("pay_123")
	second := KeyFromPaymentReference("pay_123")

	assert.Equal(t, first, second)
	assert.Len(t, first, 64)
}

func TestKeyFromPaymentReference_DistinctReferences(t *testing.T) {
	assert.NotEqual(t,
		KeyFromPaymentReference("pay_123"),
		KeyFromPaymentReference("pay_124"),
	)
}

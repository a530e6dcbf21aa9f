package idempotency

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
)

type ctxKey struct{}

func WithKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, ctxKey{}, key)
}

func GetKey(ctx context.Context) string {
	key, ok := ctx.Value(ctxKey{}).(string)
	if !ok {
		return uuid.NewString()
	}

	return key
}

// KeyFromPaymentReference derives a deterministic idempotency key for a
// payment reference. The provider may deliver the same success callback more
// than once; everything keyed on this value must merge such duplicates.
func KeyFromPaymentReference(paymentReference string) string {
	sum := sha256.Sum256([]byte("booking:" + paymentReference))
	return hex.EncodeToString(sum[:])
}

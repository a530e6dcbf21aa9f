package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhookSignature(t *testing.T) {
	payload := []byte(`{"event":"payment.captured"}`)
	secret := "whsec_test"

	assert.True(t, VerifyWebhookSignature(payload, sign(payload, secret), secret))
}

func TestVerifyWebhookSignature_WrongSecret(t *testing.T) {
	payload := []byte(`{"event":"payment.captured"}`)

	assert.False(t, VerifyWebhookSignature(payload, sign(payload, "other"), "whsec_test"))
}

func TestVerifyWebhookSignature_TamperedPayload(t *testing.T) {
	secret := "whsec_test"
	signature := sign([]byte(`{"amount":100}`), secret)

	assert.False(t, VerifyWebhookSignature([]byte(`{"amount":10000}`), signature, secret))
}

func TestVerifyWebhookSignature_EmptySignature(t *testing.T) {
	assert.False(t, VerifyWebhookSignature([]byte(`{}`), "", "whsec_test"))
}

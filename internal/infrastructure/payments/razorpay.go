package payments

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/AlekSi/pointer"
	json "github.com/goccy/go-json"
)

// Client is a minimal Razorpay orders API client: create an order for the
// checkout widget, refund a captured payment.
type Client struct {
	baseURL    string
	keyID      string
	keySecret  string
	httpClient *http.Client
}

func NewClient(baseURL, keyID, keySecret string) *Client {
	return &Client{
		baseURL:   baseURL,
		keyID:     keyID,
		keySecret: keySecret,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) KeyID() string {
	return c.keyID
}

type CreateOrderRequest struct {
	// Amount in minor currency units, as the provider expects.
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	var order Order
	err := c.do(ctx, http.MethodPost, "/v1/orders", req, &order)
	if err != nil {
		return nil, fmt.Errorf("error creating order: %w", err)
	}

	return &order, nil
}

type refundRequest struct {
	// Receipt doubles as the provider-side deduplication id, so a retried
	// compensation cannot refund twice.
	Receipt *string           `json:"receipt,omitempty"`
	Notes   map[string]string `json:"notes,omitempty"`
}

func (c *Client) Refund(ctx context.Context, paymentReference, idempotencyKey string) error {
	req := refundRequest{
		Receipt: pointer.To(idempotencyKey),
		Notes: map[string]string{
			"reason": "booking persistence failed after capture",
		},
	}

	err := c.do(ctx, http.MethodPost, "/v1/payments/"+paymentReference+"/refund", req, nil)
	if err != nil {
		return fmt.Errorf("error refunding payment: %w", err)
	}

	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("unexpected status code: %v", resp.StatusCode)
	}

	if out == nil {
		return nil
	}

	return json.Unmarshal(respBody, out)
}

// VerifyWebhookSignature checks the HMAC-SHA256 signature the provider
// attaches to webhook deliveries.
func VerifyWebhookSignature(payload []byte, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}

package clients

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"eventhive/internal/pkg/log"
)

// DocumentStoreClient talks to the ticket document store: it accepts an
// encoded document and returns a fetchable location. Calls go through a
// circuit breaker so a dead store fails fast instead of tying up the flow.
type DocumentStoreClient struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

func NewDocumentStoreClient(baseURL string, timeout time.Duration) *DocumentStoreClient {
	return &DocumentStoreClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "document-store",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
	}
}

type UploadTicketRequest struct {
	BookingID     uuid.UUID `json:"booking_id"`
	EventID       uuid.UUID `json:"event_id"`
	FileName      string    `json:"file_name"`
	ContentBase64 string    `json:"content"`
	AttendeeName  string    `json:"name"`
}

type uploadTicketResponse struct {
	TicketPath string `json:"ticket_path"`
}

// Upload submits an encoded ticket document and returns its location.
// A conflict means the document was already stored under this name; the
// returned location is still valid.
func (c *DocumentStoreClient) Upload(ctx context.Context, req UploadTicketRequest) (string, error) {
	location, err := c.breaker.Execute(func() (interface{}, error) {
		return c.upload(ctx, req)
	})
	if err != nil {
		return "", err
	}

	return location.(string), nil
}

func (c *DocumentStoreClient) upload(ctx context.Context, req UploadTicketRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("error marshaling upload request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/api/tickets/upload",
		bytes.NewReader(body),
	)
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("error uploading ticket: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusConflict {
		log.FromContext(ctx).Infof("ticket %s already uploaded", req.FileName)
	} else if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("unexpected status code: %v", resp.StatusCode)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var uploadResp uploadTicketResponse
	if err := json.Unmarshal(respBody, &uploadResp); err != nil {
		return "", fmt.Errorf("error decoding upload response: %w", err)
	}
	if uploadResp.TicketPath == "" {
		return "", fmt.Errorf("document store returned no ticket path")
	}

	return uploadResp.TicketPath, nil
}

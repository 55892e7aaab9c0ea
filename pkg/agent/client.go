package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

var (
	// ErrTimeout indicates the agent did not answer within the configured window.
	ErrTimeout = errors.New("agent: request timed out")
	// ErrBadStatus indicates a non-2xx reply from the agent.
	ErrBadStatus = errors.New("agent: unexpected status")
)

// Request is the canonical suggestion request sent to the agent.
type Request struct {
	City       string   `json:"city"`
	Country    string   `json:"country"`
	StartDate  string   `json:"start_date,omitempty"`
	EndDate    string   `json:"end_date,omitempty"`
	Category   string   `json:"category"`
	Interests  []string `json:"interests,omitempty"`
	BudgetMin  float64  `json:"budget_min,omitempty"`
	BudgetMax  float64  `json:"budget_max,omitempty"`
	Cuisines   []string `json:"cuisines,omitempty"`
	VenueTypes []string `json:"venue_types,omitempty"`
}

// Client calls the external itinerary agent over HTTP.
type Client struct {
	endpoint   string
	apiKey     string
	timeout    time.Duration
	limiter    *rate.Limiter
	httpClient *http.Client
}

// NewClient creates an agent client with a bounded per-call timeout.
func NewClient(endpoint, apiKey string, timeoutSeconds int) *Client {
	timeout := time.Duration(timeoutSeconds) * time.Second
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		apiKey:   apiKey,
		timeout:  timeout,
		// 에이전트 과금 보호: 초당 5회, 버스트 10회
		limiter: rate.NewLimiter(rate.Limit(5), 10),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchSuggestions posts the canonical request and returns the raw reply body.
// Shape validation is the caller's concern; only transport-level failures are
// classified here.
func (c *Client) FetchSuggestions(ctx context.Context, request Request) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return nil, err
	}

	jsonBody, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to encode agent request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/suggestions", c.endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create agent request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return nil, fmt.Errorf("agent request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return nil, fmt.Errorf("failed to read agent response: %w", err)
	}

	return body, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

package hotels

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// SearchParams narrows a hotel availability search.
type SearchParams struct {
	City     string
	Country  string
	CheckIn  string // YYYY-MM-DD
	CheckOut string // YYYY-MM-DD
	Guests   int
	PriceMin float64
	PriceMax float64
}

// Hotel is one availability result.
type Hotel struct {
	Name          string   `json:"name"`
	Address       string   `json:"address,omitempty"`
	Rating        float64  `json:"rating,omitempty"`
	PricePerNight float64  `json:"price_per_night"`
	Currency      string   `json:"currency"`
	Amenities     []string `json:"amenities,omitempty"`
}

type searchResponse struct {
	Hotels []Hotel `json:"hotels"`
}

// Client calls the hotel availability aggregator.
type Client struct {
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		// aggregator 쿼터: 초당 2회, 버스트 5회
		limiter:    rate.NewLimiter(rate.Limit(2), 5),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Search queries availability for the given destination and dates
func (c *Client) Search(ctx context.Context, params SearchParams) ([]Hotel, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	values := url.Values{}
	values.Set("city", params.City)
	if params.Country != "" {
		values.Set("country", params.Country)
	}
	values.Set("check_in", params.CheckIn)
	values.Set("check_out", params.CheckOut)
	if params.Guests > 0 {
		values.Set("guests", strconv.Itoa(params.Guests))
	}
	if params.PriceMin > 0 {
		values.Set("price_min", strconv.FormatFloat(params.PriceMin, 'f', 2, 64))
	}
	if params.PriceMax > 0 {
		values.Set("price_max", strconv.FormatFloat(params.PriceMax, 'f', 2, 64))
	}

	endpoint := fmt.Sprintf("%s/v1/hotels/search?%s", c.baseURL, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("hotels API returned status %d", resp.StatusCode)
	}

	var raw searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return raw.Hotels, nil
}

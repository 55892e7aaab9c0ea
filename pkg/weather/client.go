package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Current is the trimmed current-conditions view returned to API clients.
type Current struct {
	City        string  `json:"city"`
	Description string  `json:"description"`
	TempC       float64 `json:"temp_c"`
	FeelsLikeC  float64 `json:"feels_like_c"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"wind_speed"`
}

// ForecastEntry is one three-hour forecast bucket.
type ForecastEntry struct {
	Time        time.Time `json:"time"`
	Description string    `json:"description"`
	TempC       float64   `json:"temp_c"`
}

// openWeatherCurrent mirrors the subset of the OpenWeatherMap current
// weather payload we consume.
type openWeatherCurrent struct {
	Name    string `json:"name"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

type openWeatherForecast struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
	} `json:"list"`
}

// Client calls an OpenWeatherMap-compatible API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Current fetches current conditions for a city
func (c *Client) Current(ctx context.Context, city string) (*Current, error) {
	endpoint := fmt.Sprintf("%s/weather?q=%s&appid=%s&units=metric",
		c.baseURL, url.QueryEscape(city), c.apiKey)

	var raw openWeatherCurrent
	if err := c.getJSON(ctx, endpoint, &raw); err != nil {
		return nil, err
	}

	description := ""
	if len(raw.Weather) > 0 {
		description = raw.Weather[0].Description
	}

	return &Current{
		City:        raw.Name,
		Description: description,
		TempC:       raw.Main.Temp,
		FeelsLikeC:  raw.Main.FeelsLike,
		Humidity:    raw.Main.Humidity,
		WindSpeed:   raw.Wind.Speed,
	}, nil
}

// Forecast fetches up to count three-hour forecast buckets for a city
func (c *Client) Forecast(ctx context.Context, city string, count int) ([]ForecastEntry, error) {
	if count <= 0 || count > 40 {
		count = 8
	}
	endpoint := fmt.Sprintf("%s/forecast?q=%s&appid=%s&units=metric&cnt=%d",
		c.baseURL, url.QueryEscape(city), c.apiKey, count)

	var raw openWeatherForecast
	if err := c.getJSON(ctx, endpoint, &raw); err != nil {
		return nil, err
	}

	entries := make([]ForecastEntry, 0, len(raw.List))
	for _, item := range raw.List {
		description := ""
		if len(item.Weather) > 0 {
			description = item.Weather[0].Description
		}
		entries = append(entries, ForecastEntry{
			Time:        time.Unix(item.Dt, 0).UTC(),
			Description: description,
			TempC:       item.Main.Temp,
		})
	}
	return entries, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("weather API returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

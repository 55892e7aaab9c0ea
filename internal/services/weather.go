package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/devjkoo/wayfarer/server/internal/cache"
	"github.com/devjkoo/wayfarer/server/pkg/weather"
)

const weatherCacheTTL = 10 * time.Minute

type weatherAPI interface {
	Current(ctx context.Context, city string) (*weather.Current, error)
	Forecast(ctx context.Context, city string, count int) ([]weather.ForecastEntry, error)
}

// WeatherService proxies the weather provider with a short-lived cache.
type WeatherService struct {
	api   weatherAPI
	cache cache.Cache
}

func NewWeatherService(api weatherAPI, cacheStore cache.Cache) *WeatherService {
	return &WeatherService{api: api, cache: cacheStore}
}

// Current returns current conditions for a city
func (s *WeatherService) Current(ctx context.Context, city string) (*weather.Current, error) {
	key := "weather:current:" + strings.ToLower(strings.TrimSpace(city))

	if cached, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		var current weather.Current
		if json.Unmarshal([]byte(cached), &current) == nil {
			return &current, nil
		}
	}

	current, err := s.api.Current(ctx, city)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(current); err == nil {
		_ = s.cache.Set(ctx, key, string(payload), weatherCacheTTL)
	}

	return current, nil
}

// Forecast returns up to count forecast buckets for a city
func (s *WeatherService) Forecast(ctx context.Context, city string, count int) ([]weather.ForecastEntry, error) {
	key := fmt.Sprintf("weather:forecast:%s:%d", strings.ToLower(strings.TrimSpace(city)), count)

	if cached, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		var entries []weather.ForecastEntry
		if json.Unmarshal([]byte(cached), &entries) == nil {
			return entries, nil
		}
	}

	entries, err := s.api.Forecast(ctx, city, count)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(entries); err == nil {
		_ = s.cache.Set(ctx, key, string(payload), weatherCacheTTL)
	}

	return entries, nil
}

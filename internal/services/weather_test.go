package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/devjkoo/wayfarer/server/pkg/weather"
)

// memoryCache 테스트용 인메모리 캐시 (TTL은 기록만 한다)
type memoryCache struct {
	data    map[string]string
	lastTTL time.Duration
	getErr  error
	sets    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string]string{}}
}

func (c *memoryCache) Get(_ context.Context, key string) (string, bool, error) {
	if c.getErr != nil {
		return "", false, c.getErr
	}
	value, ok := c.data[key]
	return value, ok, nil
}

func (c *memoryCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	c.data[key] = value
	c.lastTTL = ttl
	c.sets++
	return nil
}

// fakeWeatherAPI 호출 횟수를 세는 provider 목
type fakeWeatherAPI struct {
	current      *weather.Current
	forecast     []weather.ForecastEntry
	err          error
	currentCalls int
}

func (f *fakeWeatherAPI) Current(_ context.Context, city string) (*weather.Current, error) {
	f.currentCalls++
	return f.current, f.err
}

func (f *fakeWeatherAPI) Forecast(_ context.Context, city string, count int) ([]weather.ForecastEntry, error) {
	return f.forecast, f.err
}

// TestWeatherCurrentCachesProviderResponse 첫 호출은 provider, 이후는 캐시
func TestWeatherCurrentCachesProviderResponse(t *testing.T) {
	api := &fakeWeatherAPI{current: &weather.Current{City: "Seoul", TempC: 27.5, Description: "맑음"}}
	store := newMemoryCache()
	service := NewWeatherService(api, store)

	first, err := service.Current(context.Background(), "Seoul")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if first.TempC != 27.5 {
		t.Errorf("Expected temp 27.5, got %v", first.TempC)
	}
	if store.lastTTL != weatherCacheTTL {
		t.Errorf("Expected TTL %v, got %v", weatherCacheTTL, store.lastTTL)
	}

	second, err := service.Current(context.Background(), "Seoul")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if second.City != "Seoul" || second.Description != "맑음" {
		t.Errorf("Cached response mismatch: %+v", second)
	}
	if api.currentCalls != 1 {
		t.Errorf("Expected 1 provider call, got %d", api.currentCalls)
	}
}

// TestWeatherCurrentKeyNormalizesCity 도시명 대소문자/공백은 같은 키
func TestWeatherCurrentKeyNormalizesCity(t *testing.T) {
	api := &fakeWeatherAPI{current: &weather.Current{City: "Busan", TempC: 24}}
	store := newMemoryCache()
	service := NewWeatherService(api, store)

	if _, err := service.Current(context.Background(), "  Busan "); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, err := service.Current(context.Background(), "BUSAN"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if api.currentCalls != 1 {
		t.Errorf("Expected 1 provider call across equivalent cities, got %d", api.currentCalls)
	}
	if _, ok := store.data["weather:current:busan"]; !ok {
		t.Error("Expected normalized cache key 'weather:current:busan'")
	}
}

// TestWeatherCurrentCacheFailureFallsThrough 캐시 장애 시 provider로 우회
func TestWeatherCurrentCacheFailureFallsThrough(t *testing.T) {
	api := &fakeWeatherAPI{current: &weather.Current{City: "Jeju", TempC: 29}}
	store := newMemoryCache()
	store.getErr = errors.New("redis: connection refused")
	service := NewWeatherService(api, store)

	got, err := service.Current(context.Background(), "Jeju")
	if err != nil {
		t.Fatalf("Expected fallthrough to provider, got error: %v", err)
	}
	if got.TempC != 29 {
		t.Errorf("Expected temp 29, got %v", got.TempC)
	}
}

// TestWeatherCurrentProviderError provider 오류는 그대로 전달
func TestWeatherCurrentProviderError(t *testing.T) {
	api := &fakeWeatherAPI{err: errors.New("upstream 500")}
	service := NewWeatherService(api, newMemoryCache())

	if _, err := service.Current(context.Background(), "Seoul"); err == nil {
		t.Error("Expected provider error to propagate")
	}
}

// TestWeatherForecastCacheKeyIncludesCount count가 다르면 다른 캐시 엔트리
func TestWeatherForecastCacheKeyIncludesCount(t *testing.T) {
	api := &fakeWeatherAPI{forecast: []weather.ForecastEntry{{Description: "흐림", TempC: 21}}}
	store := newMemoryCache()
	service := NewWeatherService(api, store)

	if _, err := service.Forecast(context.Background(), "Seoul", 8); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, err := service.Forecast(context.Background(), "Seoul", 16); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if store.sets != 2 {
		t.Errorf("Expected 2 distinct cache entries, got %d", store.sets)
	}
	if _, ok := store.data["weather:forecast:seoul:8"]; !ok {
		t.Error("Expected cache key 'weather:forecast:seoul:8'")
	}
	if _, ok := store.data["weather:forecast:seoul:16"]; !ok {
		t.Error("Expected cache key 'weather:forecast:seoul:16'")
	}
}

// TestWeatherCorruptCacheEntryRefetches 깨진 캐시 값은 무시하고 다시 조회
func TestWeatherCorruptCacheEntryRefetches(t *testing.T) {
	api := &fakeWeatherAPI{current: &weather.Current{City: "Seoul", TempC: 18}}
	store := newMemoryCache()
	store.data["weather:current:seoul"] = `{"temp_c":`
	service := NewWeatherService(api, store)

	got, err := service.Current(context.Background(), "Seoul")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got.TempC != 18 {
		t.Errorf("Expected fresh provider value 18, got %v", got.TempC)
	}
	if api.currentCalls != 1 {
		t.Errorf("Expected 1 provider call, got %d", api.currentCalls)
	}

	// 재조회 후 캐시는 유효한 JSON으로 교체된다
	var repaired weather.Current
	if err := json.Unmarshal([]byte(store.data["weather:current:seoul"]), &repaired); err != nil {
		t.Errorf("Expected repaired cache entry, got unmarshal error: %v", err)
	}
}

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/devjkoo/wayfarer/server/internal/cache"
	"github.com/devjkoo/wayfarer/server/pkg/hotels"
)

const hotelsCacheTTL = 15 * time.Minute

type hotelsAPI interface {
	Search(ctx context.Context, params hotels.SearchParams) ([]hotels.Hotel, error)
}

// HotelService proxies the hotel aggregator with a cache.
type HotelService struct {
	api   hotelsAPI
	cache cache.Cache
}

func NewHotelService(api hotelsAPI, cacheStore cache.Cache) *HotelService {
	return &HotelService{api: api, cache: cacheStore}
}

// Search returns hotel availability for the given stay parameters.
func (s *HotelService) Search(ctx context.Context, params hotels.SearchParams) ([]hotels.Hotel, error) {
	key := hotelCacheKey(params)

	if cached, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		var results []hotels.Hotel
		if json.Unmarshal([]byte(cached), &results) == nil {
			return results, nil
		}
	}

	results, err := s.api.Search(ctx, params)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(results); err == nil {
		_ = s.cache.Set(ctx, key, string(payload), hotelsCacheTTL)
	}

	return results, nil
}

func hotelCacheKey(params hotels.SearchParams) string {
	return fmt.Sprintf("hotels:%s:%s:%s:%s:%d:%.2f:%.2f",
		strings.ToLower(strings.TrimSpace(params.City)),
		strings.ToLower(strings.TrimSpace(params.Country)),
		params.CheckIn,
		params.CheckOut,
		params.Guests,
		params.PriceMin,
		params.PriceMax,
	)
}

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/devjkoo/wayfarer/server/internal/cache"
	"github.com/devjkoo/wayfarer/server/pkg/news"
)

const newsCacheTTL = 30 * time.Minute

type newsAPI interface {
	Search(ctx context.Context, query string, limit int) ([]news.Article, error)
}

// NewsService proxies the news provider with a cache. 뉴스는 자주 안 바뀌므로 TTL을 길게 둔다.
type NewsService struct {
	api   newsAPI
	cache cache.Cache
}

func NewNewsService(api newsAPI, cacheStore cache.Cache) *NewsService {
	return &NewsService{api: api, cache: cacheStore}
}

// Destination returns recent travel-relevant articles for a destination query.
func (s *NewsService) Destination(ctx context.Context, query string, limit int) ([]news.Article, error) {
	key := fmt.Sprintf("news:%s:%d", strings.ToLower(strings.TrimSpace(query)), limit)

	if cached, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		var articles []news.Article
		if json.Unmarshal([]byte(cached), &articles) == nil {
			return articles, nil
		}
	}

	articles, err := s.api.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(articles); err == nil {
		_ = s.cache.Set(ctx, key, string(payload), newsCacheTTL)
	}

	return articles, nil
}

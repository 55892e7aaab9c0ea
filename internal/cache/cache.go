// Package cache holds the short-lived response cache used by the external
// API proxy services. It is optional: with no Redis address configured the
// no-op implementation is used and every read is a miss.
package cache

import (
	"context"
	"time"
)

type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

type NoopCache struct{}

func (NoopCache) Get(_ context.Context, _ string) (string, bool, error) {
	return "", false, nil
}

func (NoopCache) Set(_ context.Context, _, _ string, _ time.Duration) error {
	return nil
}

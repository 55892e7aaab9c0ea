package models

import (
	"encoding/json"
	"time"
)

// SuggestionCache stores one validated agent response per request fingerprint.
// An entry is visible only while expires_at is in the future; lookups filter
// on the timestamp instead of relying on eviction.
// DB: suggestion_cache
type SuggestionCache struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Fingerprint string          `gorm:"column:fingerprint;size:64;not null;uniqueIndex:suggestion_cache_fingerprint_key" json:"fingerprint"`
	Category    string          `gorm:"column:category;size:30;not null" json:"category"`
	Payload     json.RawMessage `gorm:"column:payload;type:jsonb;not null" json:"payload" swaggertype:"object"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	ExpiresAt   time.Time       `gorm:"column:expires_at;not null;index:idx_suggestion_cache_expires" json:"expires_at"`
}

func (SuggestionCache) TableName() string {
	return "suggestion_cache"
}

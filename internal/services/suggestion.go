package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/devjkoo/wayfarer/server/internal/database"
	"github.com/devjkoo/wayfarer/server/internal/models"
	"github.com/devjkoo/wayfarer/server/internal/telemetry"
	"github.com/devjkoo/wayfarer/server/pkg/agent"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Suggestion categories accepted by the broker
const (
	CategoryPlaces     = "places"
	CategoryActivities = "activities"
	CategoryFood       = "food"
	CategoryShopping   = "shopping"
)

// Provenance tags carried on a SuggestionResponse
const (
	SourceCache = "cache"
	SourceLive  = "live"
)

// 캐시 스토어 쿼리 상한 (agent 타임아웃과 별개)
const storeTimeout = 5 * time.Second

// SuggestionItem is one open-ended suggestion record. Only "name" is
// guaranteed; the remaining fields depend on the category.
type SuggestionItem map[string]any

// SuggestionResponse is the ordered result of one broker call.
type SuggestionResponse struct {
	Category string           `json:"category"`
	Items    []SuggestionItem `json:"items"`
	Source   string           `json:"source"` // cache | live
}

// SuggestionStore persists validated agent payloads keyed by fingerprint.
type SuggestionStore interface {
	// Lookup returns the entry whose fingerprint matches and whose expiry is
	// still in the future, or nil when no such entry exists.
	Lookup(ctx context.Context, fingerprint string) (*models.SuggestionCache, error)
	// Insert writes an entry; concurrent writers for the same fingerprint
	// resolve last-write-wins.
	Insert(ctx context.Context, entry *models.SuggestionCache) error
}

// SuggestionAgent is the outbound channel to the itinerary agent.
type SuggestionAgent interface {
	FetchSuggestions(ctx context.Context, request agent.Request) (json.RawMessage, error)
}

// SuggestionService resolves suggestion requests through a fingerprint-keyed
// cache backed by the external agent. All tuning (TTL, timeouts) arrives via
// explicit configuration; the service knows nothing about HTTP or auth.
type SuggestionService struct {
	store SuggestionStore
	agent SuggestionAgent
	ttl   time.Duration
}

func NewSuggestionService(store SuggestionStore, agentClient SuggestionAgent, ttl time.Duration) *SuggestionService {
	return &SuggestionService{
		store: store,
		agent: agentClient,
		ttl:   ttl,
	}
}

// ValidCategory reports whether the broker accepts the category.
func ValidCategory(category string) bool {
	switch category {
	case CategoryPlaces, CategoryActivities, CategoryFood, CategoryShopping:
		return true
	}
	return false
}

// GetSuggestions canonicalizes the request, consults the cache, and on a
// miss fetches, validates and persists a fresh payload from the agent.
//
// 동일 fingerprint의 동시 요청이 둘 다 miss로 agent를 호출하는 것은 허용
// (single-flight 없음, 저장은 last-write-wins).
func (s *SuggestionService) GetSuggestions(ctx context.Context, req SuggestionRequest) (*SuggestionResponse, error) {
	if !ValidCategory(req.Category) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, req.Category)
	}

	canonical := canonicalize(req)
	fp := fingerprint(canonical, req.Category)

	// 스토어 조회 실패는 miss로 취급하고 agent로 진행.
	// expires_at 필터는 쿼리 조건이 담당하지만 여기서도 한 번 더 거른다.
	if entry, err := s.store.Lookup(ctx, fp); err == nil && entry != nil && entry.ExpiresAt.After(time.Now()) {
		if items, err := decodeItems(entry.Payload); err == nil {
			return &SuggestionResponse{
				Category: req.Category,
				Items:    items,
				Source:   SourceCache,
			}, nil
		}
	}

	// agent 구간만 별도 span으로 남긴다
	spanCtx, span := telemetry.StartSpan(ctx, "suggestion.agent_fetch")
	payload, items, err := s.fetchValidated(spanCtx, canonical, req.Category)
	if err != nil {
		span.RecordError(err)
		span.End()
		return nil, err
	}
	span.End()

	now := time.Now()
	// Best-effort persist: entry write and response are not coupled, so a
	// store failure does not fail the call.
	_ = s.store.Insert(ctx, &models.SuggestionCache{
		Fingerprint: fp,
		Category:    req.Category,
		Payload:     payload,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.ttl),
	})

	return &SuggestionResponse{
		Category: req.Category,
		Items:    items,
		Source:   SourceLive,
	}, nil
}

// fetchValidated calls the agent and enforces the expected payload shape.
// Exactly one retry is made on an invalid response or a transient transport
// failure; a timeout is final, and a second failure of a retryable kind is
// reported as ErrSuggestionUnavailable wrapping the last cause.
func (s *SuggestionService) fetchValidated(ctx context.Context, canonical canonicalRequest, category string) (json.RawMessage, []SuggestionItem, error) {
	request := agent.Request{
		City:       canonical.City,
		Country:    canonical.Country,
		StartDate:  canonical.StartDate,
		EndDate:    canonical.EndDate,
		Category:   category,
		Interests:  canonical.Interests,
		BudgetMin:  canonical.BudgetMin,
		BudgetMax:  canonical.BudgetMax,
		Cuisines:   canonical.Cuisines,
		VenueTypes: canonical.VenueTypes,
	}

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		payload, err := s.agent.FetchSuggestions(ctx, request)
		if err != nil {
			if errors.Is(err, agent.ErrTimeout) {
				return nil, nil, fmt.Errorf("%w: %v", ErrSuggestionTimeout, err)
			}
			if ctx.Err() != nil {
				// 호출자가 취소한 경우 재시도 없이 버린다
				return nil, nil, ctx.Err()
			}
			lastErr = err
			continue
		}

		items, err := decodeItems(payload)
		if err != nil {
			lastErr = fmt.Errorf("%w: %v", ErrUpstreamInvalidResponse, err)
			continue
		}
		return payload, items, nil
	}

	return nil, nil, fmt.Errorf("%w: %w", ErrSuggestionUnavailable, lastErr)
}

// decodeItems parses an agent payload and enforces its shape: a non-empty
// items list where every item carries a non-empty name. Partial acceptance
// of malformed payloads is deliberately not attempted.
func decodeItems(payload json.RawMessage) ([]SuggestionItem, error) {
	var body struct {
		Items []SuggestionItem `json:"items"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, fmt.Errorf("payload is not valid JSON: %w", err)
	}
	if len(body.Items) == 0 {
		return nil, errors.New("payload contains no items")
	}
	for i, item := range body.Items {
		name, _ := item["name"].(string)
		if strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("item %d has no name", i)
		}
	}
	return body.Items, nil
}

// suggestionStore is the Postgres-backed SuggestionStore.
type suggestionStore struct {
	db *database.DB
}

func NewSuggestionStore(db *database.DB) SuggestionStore {
	return &suggestionStore{db: db}
}

// Lookup treats expired rows as absent: visibility is decided by the query
// predicate, not by eviction.
func (s *suggestionStore) Lookup(ctx context.Context, fp string) (*models.SuggestionCache, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	var entry models.SuggestionCache
	err := s.db.WithContext(ctx).
		Where("fingerprint = ? AND expires_at > ?", fp, time.Now()).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (s *suggestionStore) Insert(ctx context.Context, entry *models.SuggestionCache) error {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	// 동일 fingerprint 경쟁 시 마지막 쓰기가 이긴다
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "fingerprint"}},
		DoUpdates: clause.AssignmentColumns([]string{"category", "payload", "created_at", "expires_at"}),
	}).Create(entry).Error
}

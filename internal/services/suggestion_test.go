package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/devjkoo/wayfarer/server/internal/models"
	"github.com/devjkoo/wayfarer/server/pkg/agent"
)

const testTTL = 12 * time.Hour

var validPayload = json.RawMessage(`{"items":[{"name":"경복궁","category":"landmark"},{"name":"북촌 한옥마을"}]}`)

// fakeStore 카운팅 스토어 목 (DB 없이)
type fakeStore struct {
	entry     *models.SuggestionCache
	lookupErr error
	insertErr error
	lookups   int
	inserted  []*models.SuggestionCache
}

func (s *fakeStore) Lookup(_ context.Context, fp string) (*models.SuggestionCache, error) {
	s.lookups++
	if s.lookupErr != nil {
		return nil, s.lookupErr
	}
	return s.entry, nil
}

func (s *fakeStore) Insert(_ context.Context, entry *models.SuggestionCache) error {
	s.inserted = append(s.inserted, entry)
	return s.insertErr
}

type agentReply struct {
	payload json.RawMessage
	err     error
}

// fakeAgent 호출 횟수를 세는 agent 목. replies를 순서대로 소비한다.
type fakeAgent struct {
	replies []agentReply
	calls   int
	lastReq agent.Request
}

func (a *fakeAgent) FetchSuggestions(_ context.Context, req agent.Request) (json.RawMessage, error) {
	a.calls++
	a.lastReq = req
	if len(a.replies) == 0 {
		return nil, errors.New("unexpected agent call")
	}
	reply := a.replies[len(a.replies)-1]
	if a.calls-1 < len(a.replies) {
		reply = a.replies[a.calls-1]
	}
	return reply.payload, reply.err
}

func placesRequest() SuggestionRequest {
	return SuggestionRequest{
		City:      "Seoul",
		Country:   "South Korea",
		StartDate: "2026-09-01",
		EndDate:   "2026-09-05",
		Category:  CategoryPlaces,
		Interests: []string{"history", "food"},
	}
}

// TestGetSuggestionsCacheHit 유효한 캐시 엔트리는 agent 호출 없이 응답
func TestGetSuggestionsCacheHit(t *testing.T) {
	store := &fakeStore{
		entry: &models.SuggestionCache{
			Fingerprint: "cached",
			Category:    CategoryPlaces,
			Payload:     validPayload,
			ExpiresAt:   time.Now().Add(time.Hour),
		},
	}
	upstream := &fakeAgent{}
	service := NewSuggestionService(store, upstream, testTTL)

	resp, err := service.GetSuggestions(context.Background(), placesRequest())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if resp.Source != SourceCache {
		t.Errorf("Expected source '%s', got '%s'", SourceCache, resp.Source)
	}
	if upstream.calls != 0 {
		t.Errorf("Expected 0 agent calls on cache hit, got %d", upstream.calls)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(resp.Items))
	}
	if name, _ := resp.Items[0]["name"].(string); name != "경복궁" {
		t.Errorf("Expected first item '경복궁', got '%s'", name)
	}
	if len(store.inserted) != 0 {
		t.Errorf("Cache hit must not re-persist, got %d inserts", len(store.inserted))
	}
}

// TestGetSuggestionsCacheMissFetchesAndPersists miss → agent 호출 → TTL과 함께 저장
func TestGetSuggestionsCacheMissFetchesAndPersists(t *testing.T) {
	store := &fakeStore{}
	upstream := &fakeAgent{replies: []agentReply{{payload: validPayload}}}
	service := NewSuggestionService(store, upstream, testTTL)

	resp, err := service.GetSuggestions(context.Background(), placesRequest())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if resp.Source != SourceLive {
		t.Errorf("Expected source '%s', got '%s'", SourceLive, resp.Source)
	}
	if upstream.calls != 1 {
		t.Errorf("Expected 1 agent call, got %d", upstream.calls)
	}
	if len(store.inserted) != 1 {
		t.Fatalf("Expected 1 persisted entry, got %d", len(store.inserted))
	}

	entry := store.inserted[0]
	if entry.Fingerprint == "" || len(entry.Fingerprint) != 64 {
		t.Errorf("Expected 64-char fingerprint, got '%s'", entry.Fingerprint)
	}
	if entry.Category != CategoryPlaces {
		t.Errorf("Expected category '%s', got '%s'", CategoryPlaces, entry.Category)
	}
	if string(entry.Payload) != string(validPayload) {
		t.Errorf("Persisted payload differs from agent payload")
	}
	if got := entry.ExpiresAt.Sub(entry.CreatedAt); got != testTTL {
		t.Errorf("Expected TTL %v, got %v", testTTL, got)
	}
}

// TestGetSuggestionsSendsCanonicalRequest agent는 정규화된 요청을 받는다
func TestGetSuggestionsSendsCanonicalRequest(t *testing.T) {
	store := &fakeStore{}
	upstream := &fakeAgent{replies: []agentReply{{payload: validPayload}}}
	service := NewSuggestionService(store, upstream, testTTL)

	req := placesRequest()
	req.City = "  SEOUL "
	req.Interests = []string{"food", "history"}

	if _, err := service.GetSuggestions(context.Background(), req); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if upstream.lastReq.City != "seoul" {
		t.Errorf("Expected canonical city 'seoul', got '%s'", upstream.lastReq.City)
	}
	if len(upstream.lastReq.Interests) != 2 || upstream.lastReq.Interests[0] != "food" {
		t.Errorf("Expected sorted interests, got %v", upstream.lastReq.Interests)
	}
	if upstream.lastReq.Category != CategoryPlaces {
		t.Errorf("Expected category '%s', got '%s'", CategoryPlaces, upstream.lastReq.Category)
	}
}

// TestGetSuggestionsExpiredEntryIsMiss 만료된 엔트리는 스토어에 남아 있어도 miss
func TestGetSuggestionsExpiredEntryIsMiss(t *testing.T) {
	store := &fakeStore{
		entry: &models.SuggestionCache{
			Fingerprint: "stale",
			Category:    CategoryPlaces,
			Payload:     validPayload,
			ExpiresAt:   time.Now().Add(-time.Minute),
		},
	}
	upstream := &fakeAgent{replies: []agentReply{{payload: validPayload}}}
	service := NewSuggestionService(store, upstream, testTTL)

	resp, err := service.GetSuggestions(context.Background(), placesRequest())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if resp.Source != SourceLive {
		t.Errorf("Expected source '%s' for expired entry, got '%s'", SourceLive, resp.Source)
	}
	if upstream.calls != 1 {
		t.Errorf("Expected 1 agent call, got %d", upstream.calls)
	}
	if len(store.inserted) != 1 {
		t.Errorf("Expected refreshed entry to be persisted, got %d inserts", len(store.inserted))
	}
}

// TestGetSuggestionsInvalidCategory 허용 외 카테고리는 agent까지 가지 않는다
func TestGetSuggestionsInvalidCategory(t *testing.T) {
	store := &fakeStore{}
	upstream := &fakeAgent{}
	service := NewSuggestionService(store, upstream, testTTL)

	req := placesRequest()
	req.Category = "hotels"

	_, err := service.GetSuggestions(context.Background(), req)
	if !errors.Is(err, ErrInvalidCategory) {
		t.Fatalf("Expected ErrInvalidCategory, got %v", err)
	}
	if store.lookups != 0 || upstream.calls != 0 {
		t.Errorf("Expected no store/agent access, got lookups=%d calls=%d", store.lookups, upstream.calls)
	}
}

// TestGetSuggestionsRetriesOnceOnInvalidPayload 형식 불량은 딱 한 번 재시도
func TestGetSuggestionsRetriesOnceOnInvalidPayload(t *testing.T) {
	store := &fakeStore{}
	upstream := &fakeAgent{replies: []agentReply{
		{payload: json.RawMessage(`{"items":[]}`)},
		{payload: validPayload},
	}}
	service := NewSuggestionService(store, upstream, testTTL)

	resp, err := service.GetSuggestions(context.Background(), placesRequest())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if upstream.calls != 2 {
		t.Errorf("Expected exactly 2 agent calls, got %d", upstream.calls)
	}
	if resp.Source != SourceLive {
		t.Errorf("Expected source '%s', got '%s'", SourceLive, resp.Source)
	}
}

// TestGetSuggestionsUnavailableAfterSecondFailure 재시도까지 실패하면 unavailable
func TestGetSuggestionsUnavailableAfterSecondFailure(t *testing.T) {
	testCases := []struct {
		name    string
		replies []agentReply
		cause   error
	}{
		{
			name: "invalid payload twice",
			replies: []agentReply{
				{payload: json.RawMessage(`not json`)},
				{payload: json.RawMessage(`{"items":[{"category":"no name"}]}`)},
			},
			cause: ErrUpstreamInvalidResponse,
		},
		{
			name: "transport error twice",
			replies: []agentReply{
				{err: fmt.Errorf("%w: 503", agent.ErrBadStatus)},
				{err: fmt.Errorf("%w: 503", agent.ErrBadStatus)},
			},
			cause: agent.ErrBadStatus,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store := &fakeStore{}
			upstream := &fakeAgent{replies: tc.replies}
			service := NewSuggestionService(store, upstream, testTTL)

			_, err := service.GetSuggestions(context.Background(), placesRequest())
			if !errors.Is(err, ErrSuggestionUnavailable) {
				t.Fatalf("Expected ErrSuggestionUnavailable, got %v", err)
			}
			if !errors.Is(err, tc.cause) {
				t.Errorf("Expected wrapped cause %v, got %v", tc.cause, err)
			}
			if upstream.calls != 2 {
				t.Errorf("Expected exactly 2 agent calls, got %d", upstream.calls)
			}
			if len(store.inserted) != 0 {
				t.Errorf("Failed fetch must not persist, got %d inserts", len(store.inserted))
			}
		})
	}
}

// TestGetSuggestionsTimeoutIsFinal 타임아웃은 재시도 없이 즉시 반환
func TestGetSuggestionsTimeoutIsFinal(t *testing.T) {
	store := &fakeStore{}
	upstream := &fakeAgent{replies: []agentReply{
		{err: fmt.Errorf("%w: context deadline exceeded", agent.ErrTimeout)},
	}}
	service := NewSuggestionService(store, upstream, testTTL)

	_, err := service.GetSuggestions(context.Background(), placesRequest())
	if !errors.Is(err, ErrSuggestionTimeout) {
		t.Fatalf("Expected ErrSuggestionTimeout, got %v", err)
	}
	if upstream.calls != 1 {
		t.Errorf("Expected 1 agent call (no retry on timeout), got %d", upstream.calls)
	}
	if len(store.inserted) != 0 {
		t.Errorf("Timeout must not persist, got %d inserts", len(store.inserted))
	}
}

// TestGetSuggestionsStoreLookupFailureFallsThrough 스토어 장애는 miss로 취급
func TestGetSuggestionsStoreLookupFailureFallsThrough(t *testing.T) {
	store := &fakeStore{lookupErr: errors.New("connection refused")}
	upstream := &fakeAgent{replies: []agentReply{{payload: validPayload}}}
	service := NewSuggestionService(store, upstream, testTTL)

	resp, err := service.GetSuggestions(context.Background(), placesRequest())
	if err != nil {
		t.Fatalf("Expected fallthrough to agent, got error: %v", err)
	}
	if resp.Source != SourceLive {
		t.Errorf("Expected source '%s', got '%s'", SourceLive, resp.Source)
	}
	if upstream.calls != 1 {
		t.Errorf("Expected 1 agent call, got %d", upstream.calls)
	}
}

// TestGetSuggestionsInsertFailureDoesNotFailCall 저장 실패해도 응답은 성공
func TestGetSuggestionsInsertFailureDoesNotFailCall(t *testing.T) {
	store := &fakeStore{insertErr: errors.New("disk full")}
	upstream := &fakeAgent{replies: []agentReply{{payload: validPayload}}}
	service := NewSuggestionService(store, upstream, testTTL)

	resp, err := service.GetSuggestions(context.Background(), placesRequest())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if resp.Source != SourceLive {
		t.Errorf("Expected source '%s', got '%s'", SourceLive, resp.Source)
	}
}

// TestGetSuggestionsCorruptCacheEntryRefetches 캐시 payload가 깨졌으면 다시 fetch
func TestGetSuggestionsCorruptCacheEntryRefetches(t *testing.T) {
	store := &fakeStore{
		entry: &models.SuggestionCache{
			Fingerprint: "corrupt",
			Category:    CategoryPlaces,
			Payload:     json.RawMessage(`{"items":`),
			ExpiresAt:   time.Now().Add(time.Hour),
		},
	}
	upstream := &fakeAgent{replies: []agentReply{{payload: validPayload}}}
	service := NewSuggestionService(store, upstream, testTTL)

	resp, err := service.GetSuggestions(context.Background(), placesRequest())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if resp.Source != SourceLive {
		t.Errorf("Expected live refetch for corrupt entry, got source '%s'", resp.Source)
	}
	if upstream.calls != 1 {
		t.Errorf("Expected 1 agent call, got %d", upstream.calls)
	}
}

// TestDecodeItemsShapeRules payload 형식 규칙 테스트
func TestDecodeItemsShapeRules(t *testing.T) {
	testCases := []struct {
		name    string
		payload string
		valid   bool
	}{
		{"valid two items", `{"items":[{"name":"A"},{"name":"B","extra":1}]}`, true},
		{"not json", `<html>`, false},
		{"no items key", `{"results":[{"name":"A"}]}`, false},
		{"empty items", `{"items":[]}`, false},
		{"item without name", `{"items":[{"category":"park"}]}`, false},
		{"blank name", `{"items":[{"name":"  "}]}`, false},
		{"name wrong type", `{"items":[{"name":42}]}`, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			items, err := decodeItems(json.RawMessage(tc.payload))
			if tc.valid && err != nil {
				t.Errorf("Expected valid payload, got error: %v", err)
			}
			if !tc.valid && err == nil {
				t.Errorf("Expected shape error, got %d items", len(items))
			}
		})
	}
}

package agent

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFetchSuggestionsSuccess 정상 응답은 body를 그대로 돌려준다
func TestFetchSuggestionsSuccess(t *testing.T) {
	var gotPath, gotAuth, gotRequestID string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")

		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"items":[{"name":"Trevi Fountain"}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", 5)

	payload, err := client.FetchSuggestions(context.Background(), Request{
		City:     "rome",
		Country:  "italy",
		Category: "places",
	})
	require.NoError(t, err)

	assert.JSONEq(t, `{"items":[{"name":"Trevi Fountain"}]}`, string(payload))
	assert.Equal(t, "/v1/suggestions", gotPath)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.NotEmpty(t, gotRequestID)
	assert.Equal(t, "rome", gotBody["city"])
	assert.Equal(t, "places", gotBody["category"])
	// omitempty: 빈 리스트/0 예산은 body에서 빠진다
	assert.NotContains(t, gotBody, "interests")
	assert.NotContains(t, gotBody, "budget_min")
}

// TestFetchSuggestionsBadStatus 2xx 외 상태코드는 ErrBadStatus
func TestFetchSuggestionsBadStatus(t *testing.T) {
	testCases := []int{
		http.StatusBadRequest,
		http.StatusInternalServerError,
		http.StatusBadGateway,
	}

	for _, status := range testCases {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		client := NewClient(server.URL, "test-key", 5)
		_, err := client.FetchSuggestions(context.Background(), Request{City: "rome", Category: "places"})

		assert.ErrorIs(t, err, ErrBadStatus, "status %d", status)
		server.Close()
	}
}

// TestFetchSuggestionsTimeout 응답 지연은 ErrTimeout으로 분류
func TestFetchSuggestionsTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(10 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", 1)

	start := time.Now()
	_, err := client.FetchSuggestions(context.Background(), Request{City: "rome", Category: "places"})
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Less(t, elapsed, 5*time.Second, "timeout should fire at the configured 1s window")
}

// TestFetchSuggestionsCallerCancel 호출자 취소는 타임아웃이 아니다
func TestFetchSuggestionsCallerCancel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(10 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", 30)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	_, err := client.FetchSuggestions(ctx, Request{City: "rome", Category: "places"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrTimeout)
}

// TestFetchSuggestionsUnreachableHost 연결 실패는 transport 오류로 감싼다
func TestFetchSuggestionsUnreachableHost(t *testing.T) {
	// 닫힌 서버 주소로 connection refused 유도
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := server.URL
	server.Close()

	client := NewClient(endpoint, "test-key", 2)
	_, err := client.FetchSuggestions(context.Background(), Request{City: "rome", Category: "places"})

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrBadStatus)
}

// TestNewClientTrimsTrailingSlash endpoint 뒤 슬래시 정리
func TestNewClientTrimsTrailingSlash(t *testing.T) {
	client := NewClient("https://agent.example.com/", "key", 10)
	assert.Equal(t, "https://agent.example.com", client.endpoint)
	assert.Equal(t, 10*time.Second, client.timeout)
}

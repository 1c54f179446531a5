package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/johnrirwin/yatra/internal/cache"
	"github.com/johnrirwin/yatra/internal/explore"
	"github.com/johnrirwin/yatra/internal/logging"
	"github.com/johnrirwin/yatra/internal/models"
	"github.com/johnrirwin/yatra/internal/ratelimit"
)

type mockSearcher struct {
	calls atomic.Int32
	err   error
}

func (m *mockSearcher) Search(ctx context.Context, q models.PlaceQuery) (*models.PlaceSearchResult, error) {
	m.calls.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	return &models.PlaceSearchResult{Places: []models.Place{
		{Position: 1, Title: "Hawa Mahal", Source: "curated"},
	}}, nil
}

type mockSources struct{}

func (mockSources) Sources() []models.SourceInfo {
	return []models.SourceInfo{{Name: "curated", Description: "Built-in highlights", Enabled: true}}
}

func passThrough(h http.HandlerFunc) http.HandlerFunc { return h }

func newExploreTestMux(t *testing.T, searcher explore.Searcher, capacity float64) *http.ServeMux {
	t.Helper()
	logger := logging.New(logging.LevelError)
	c := cache.New(time.Minute)
	t.Cleanup(c.Stop)

	svc := explore.NewService(
		ratelimit.NewTokenBucket(capacity, 0.0001),
		explore.NewMemoryResultCache(c, nil),
		searcher,
		time.Minute,
		nil,
		logger,
	)
	keys, err := ratelimit.NewKeyResolver(nil)
	if err != nil {
		t.Fatalf("NewKeyResolver: %v", err)
	}

	mux := http.NewServeMux()
	NewExploreAPI(svc, mockSources{}, keys, logger).RegisterRoutes(mux, passThrough)
	return mux
}

func postExplore(mux http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/explore", strings.NewReader(body))
	req.RemoteAddr = "203.0.113.7:4242"
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeErrorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return body["error"]
}

func TestExploreAPI_MissThenHit(t *testing.T) {
	searcher := &mockSearcher{}
	mux := newExploreTestMux(t, searcher, 10)

	rec := postExplore(mux, `{"query":"forts","location":"Jaipur, Rajasthan"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("x-cache"); got != "MISS" {
		t.Errorf("first x-cache = %q, want MISS", got)
	}

	var result models.PlaceSearchResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(result.Places) != 1 || result.Places[0].Title != "Hawa Mahal" {
		t.Errorf("unexpected places: %+v", result.Places)
	}

	rec = postExplore(mux, `{"query":"  FORTS ","location":"jaipur, rajasthan"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("second status = %d", rec.Code)
	}
	if got := rec.Header().Get("x-cache"); got != "HIT" {
		t.Errorf("second x-cache = %q, want HIT", got)
	}
	if n := searcher.calls.Load(); n != 1 {
		t.Errorf("searcher called %d times, want 1", n)
	}
}

func TestExploreAPI_InvalidInput(t *testing.T) {
	mux := newExploreTestMux(t, &mockSearcher{}, 100)

	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"query":`},
		{name: "short query", body: `{"query":"a","location":"Goa"}`},
		{name: "whitespace query", body: `{"query":"   ","location":"Goa"}`},
		{name: "missing location", body: `{"query":"beaches"}`},
		{name: "trailing data", body: `{"query":"beaches","location":"Goa"} {}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postExplore(mux, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if msg := decodeErrorBody(t, rec); msg != "Invalid input" {
				t.Errorf("error = %q, want Invalid input", msg)
			}
		})
	}
}

func TestExploreAPI_RateLimitedBeforeParsing(t *testing.T) {
	mux := newExploreTestMux(t, &mockSearcher{}, 2)

	for i := 0; i < 2; i++ {
		if rec := postExplore(mux, `not json`); rec.Code != http.StatusBadRequest {
			t.Fatalf("request %d: status = %d, want 400", i, rec.Code)
		}
	}

	rec := postExplore(mux, `{"query":"forts","location":"Jaipur"}`)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if msg := decodeErrorBody(t, rec); msg != "Too many requests" {
		t.Errorf("error = %q, want Too many requests", msg)
	}
	// One token at 0.0001/s takes 10000s.
	if got := rec.Header().Get("Retry-After"); got != "10000" {
		t.Errorf("Retry-After = %q, want 10000", got)
	}
}

func TestExploreAPI_SearchFailure(t *testing.T) {
	mux := newExploreTestMux(t, &mockSearcher{err: errors.New("upstream down")}, 10)

	rec := postExplore(mux, `{"query":"forts","location":"Jaipur"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if msg := decodeErrorBody(t, rec); msg != "Server error" {
		t.Errorf("error = %q, want Server error", msg)
	}
}

func TestExploreAPI_Methods(t *testing.T) {
	mux := newExploreTestMux(t, &mockSearcher{}, 10)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/explore", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("OPTIONS status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/explore", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET status = %d, want 405", rec.Code)
	}
}

func TestExploreAPI_Sources(t *testing.T) {
	mux := newExploreTestMux(t, &mockSearcher{}, 10)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/explore/sources", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body struct {
		Sources []models.SourceInfo `json:"sources"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Sources) != 1 || body.Sources[0].Name != "curated" {
		t.Errorf("unexpected sources: %+v", body.Sources)
	}
}

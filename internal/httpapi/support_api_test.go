package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/johnrirwin/yatra/internal/logging"
	"github.com/johnrirwin/yatra/internal/models"
	"github.com/johnrirwin/yatra/internal/support"
)

type mockSupportStore struct {
	created []models.CreateSupportParams
	flagged []bool
	err     error
}

func (m *mockSupportStore) Create(ctx context.Context, params models.CreateSupportParams, flagged bool) (*models.SupportRequest, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.created = append(m.created, params)
	m.flagged = append(m.flagged, flagged)
	return &models.SupportRequest{
		ID:        "req-1",
		Name:      params.Name,
		Email:     params.Email,
		Subject:   params.Subject,
		Message:   params.Message,
		Flagged:   flagged,
		CreatedAt: time.Now(),
	}, nil
}

func newSupportTestMux(store *mockSupportStore) *http.ServeMux {
	logger := logging.New(logging.LevelError)
	mux := http.NewServeMux()
	NewSupportAPI(support.NewService(store, logger), logger).RegisterRoutes(mux, passThrough)
	return mux
}

func TestSupportAPI_Submit(t *testing.T) {
	store := &mockSupportStore{}
	mux := newSupportTestMux(store)

	rec := doJSON(mux, http.MethodPost, "/api/support",
		`{"name":"Ravi","email":"ravi@example.com","subject":"Refund","message":"<b>Please</b> refund my booking."}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["id"] != "req-1" {
		t.Errorf("id = %q, want req-1", body["id"])
	}
	if len(store.created) != 1 || store.created[0].Message != "Please refund my booking." {
		t.Errorf("stored params = %+v", store.created)
	}
}

func TestSupportAPI_InvalidInput(t *testing.T) {
	store := &mockSupportStore{}
	mux := newSupportTestMux(store)

	for _, body := range []string{
		`{"name":"R","email":"ravi@example.com","subject":"Hi","message":"long enough message"}`,
		`{"name":"Ravi","email":"not-an-email","subject":"Hi","message":"long enough message"}`,
		`{"name":"Ravi","email":"ravi@example.com","subject":"Hi","message":"short"}`,
		`[]`,
	} {
		rec := doJSON(mux, http.MethodPost, "/api/support", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, rec.Code)
		}
	}
	if len(store.created) != 0 {
		t.Errorf("invalid requests were stored: %+v", store.created)
	}
}

func TestSupportAPI_StoreFailure(t *testing.T) {
	mux := newSupportTestMux(&mockSupportStore{err: errors.New("connection refused")})

	rec := doJSON(mux, http.MethodPost, "/api/support",
		`{"name":"Ravi","email":"ravi@example.com","subject":"Refund","message":"Please refund my booking."}`)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

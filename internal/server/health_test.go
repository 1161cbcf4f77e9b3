package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakeDB struct {
	err error
}

func (f *fakeDB) Health(ctx context.Context) error { return f.err }

type fakeCorpus struct {
	n int
}

func (f *fakeCorpus) Len() int { return f.n }

// TestHealthHandler_Healthy verifies the 200 response shape.
func TestHealthHandler_Healthy(t *testing.T) {
	handler := NewHealthHandler(&fakeDB{}, &fakeCorpus{n: 42})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var resp HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Decode response: %v", err)
	}
	if resp.Status != "healthy" || resp.Database != "connected" {
		t.Errorf("Response: got %+v", resp)
	}
	if resp.Chunks != 42 {
		t.Errorf("Chunks: expected 42, got %d", resp.Chunks)
	}
}

// TestHealthHandler_Unhealthy verifies database failure maps to 503.
func TestHealthHandler_Unhealthy(t *testing.T) {
	handler := NewHealthHandler(&fakeDB{err: errors.New("db down")}, &fakeCorpus{})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("Expected 503, got %d", rec.Code)
	}
	var resp HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Decode response: %v", err)
	}
	if resp.Status != "unhealthy" || resp.Database != "disconnected" {
		t.Errorf("Response: got %+v", resp)
	}
}

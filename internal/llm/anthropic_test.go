package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func anthropicTestBackend(t *testing.T, handler http.HandlerFunc) *Anthropic {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	a := NewAnthropic(Config{AnthropicKey: "test-key", AnthropicModel: "test-model"})
	a.baseURL = server.URL
	return a
}

// TestAnthropicComplete verifies the request shape and that text blocks
// are concatenated.
func TestAnthropicComplete(t *testing.T) {
	backend := anthropicTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("Path: expected /v1/messages, got %s", r.URL.Path)
		}
		if got := r.Header.Get("x-api-key"); got != "test-key" {
			t.Errorf("x-api-key: got %q", got)
		}
		if got := r.Header.Get("anthropic-version"); got != "2023-06-01" {
			t.Errorf("anthropic-version: got %q", got)
		}

		var req anthropicRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Decode request: %v", err)
		}
		if req.Model != "test-model" {
			t.Errorf("Model: got %q", req.Model)
		}
		if req.System != "be helpful" {
			t.Errorf("System: got %q", req.System)
		}
		if req.MaxTokens != 512 {
			t.Errorf("MaxTokens: expected 512, got %d", req.MaxTokens)
		}
		if len(req.Messages) != 2 || req.Messages[1].Role != "user" {
			t.Errorf("Messages: got %+v", req.Messages)
		}

		json.NewEncoder(w).Encode(anthropicResponse{
			Content: []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			}{
				{Type: "text", Text: "Hello"},
				{Type: "text", Text: " world"},
			},
		})
	})

	text, err := backend.Complete(context.Background(), Request{
		System: "be helpful",
		Messages: []Message{
			{Role: "assistant", Content: "Hi"},
			{Role: "user", Content: "Hello?"},
		},
		MaxTokens: 512,
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if text != "Hello world" {
		t.Errorf("Expected concatenated text blocks, got %q", text)
	}
}

// TestAnthropicComplete_DefaultMaxTokens verifies the required
// max_tokens field gets a default.
func TestAnthropicComplete_DefaultMaxTokens(t *testing.T) {
	backend := anthropicTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		var req anthropicRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Decode request: %v", err)
		}
		if req.MaxTokens != 1024 {
			t.Errorf("MaxTokens: expected default 1024, got %d", req.MaxTokens)
		}
		json.NewEncoder(w).Encode(anthropicResponse{
			Content: []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			}{{Type: "text", Text: "ok"}},
		})
	})

	if _, err := backend.Complete(context.Background(), Request{
		Messages: []Message{{Role: "user", Content: "hi"}},
	}); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
}

// TestAnthropicComplete_APIError verifies API errors wrap ErrProvider.
func TestAnthropicComplete_APIError(t *testing.T) {
	backend := anthropicTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"type": "rate_limit_error", "message": "quota exceeded"}}`))
	})

	_, err := backend.Complete(context.Background(), Request{
		Messages: []Message{{Role: "user", Content: "hi"}},
	})
	if !errors.Is(err, ErrProvider) {
		t.Errorf("Expected ErrProvider, got %v", err)
	}
}

// TestAnthropicComplete_Unreachable verifies transport failures wrap
// ErrProvider.
func TestAnthropicComplete_Unreachable(t *testing.T) {
	a := NewAnthropic(Config{AnthropicKey: "test-key"})
	a.baseURL = "http://127.0.0.1:1"

	_, err := a.Complete(context.Background(), Request{
		Messages: []Message{{Role: "user", Content: "hi"}},
	})
	if !errors.Is(err, ErrProvider) {
		t.Errorf("Expected ErrProvider, got %v", err)
	}
}

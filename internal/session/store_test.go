package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
)

func memoryStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(":memory:")
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// TestCreateAndExists verifies session creation yields a valid UUID.
func TestCreateAndExists(t *testing.T) {
	store := memoryStore(t)
	ctx := context.Background()

	id, err := store.Create(ctx)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("Session ID should be a UUID, got %q: %v", id, err)
	}

	exists, err := store.Exists(ctx, id)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("Created session should exist")
	}

	exists, err = store.Exists(ctx, uuid.New().String())
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("Unknown session should not exist")
	}
}

// TestAppendAndHistory verifies turns come back oldest first.
func TestAppendAndHistory(t *testing.T) {
	store := memoryStore(t)
	ctx := context.Background()

	id, err := store.Create(ctx)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	turns := []Message{
		{Role: "user", Content: "What do you build?"},
		{Role: "assistant", Content: "Chatbots and automation."},
		{Role: "user", Content: "How much?"},
	}
	for _, m := range turns {
		if err := store.Append(ctx, id, m.Role, m.Content); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	history, err := store.History(ctx, id, 20)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != len(turns) {
		t.Fatalf("Expected %d messages, got %d", len(turns), len(history))
	}
	for i, m := range history {
		if m != turns[i] {
			t.Errorf("Message %d: expected %+v, got %+v", i, turns[i], m)
		}
	}
}

// TestHistory_LimitKeepsOldest verifies truncation drops the newest
// turns, not the oldest.
func TestHistory_LimitKeepsOldest(t *testing.T) {
	store := memoryStore(t)
	ctx := context.Background()

	id, err := store.Create(ctx)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	for i := 0; i < 25; i++ {
		if err := store.Append(ctx, id, "user", fmt.Sprintf("message %d", i)); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	history, err := store.History(ctx, id, 20)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 20 {
		t.Fatalf("Expected 20 messages, got %d", len(history))
	}
	if history[0].Content != "message 0" {
		t.Errorf("First message: expected 'message 0', got %q", history[0].Content)
	}
	if history[19].Content != "message 19" {
		t.Errorf("Last message: expected 'message 19', got %q", history[19].Content)
	}
}

// TestHistory_SessionsIsolated verifies history never mixes sessions.
func TestHistory_SessionsIsolated(t *testing.T) {
	store := memoryStore(t)
	ctx := context.Background()

	a, _ := store.Create(ctx)
	b, _ := store.Create(ctx)

	if err := store.Append(ctx, a, "user", "from a"); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := store.Append(ctx, b, "user", "from b"); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	history, err := store.History(ctx, a, 20)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 1 || history[0].Content != "from a" {
		t.Errorf("Session a history: got %+v", history)
	}
}

// TestAppend_UnknownSession verifies the foreign key rejects orphan turns.
func TestAppend_UnknownSession(t *testing.T) {
	store := memoryStore(t)

	if err := store.Append(context.Background(), uuid.New().String(), "user", "hello"); err == nil {
		t.Error("Expected error appending to unknown session")
	}
}

// TestHealth verifies the connectivity check.
func TestHealth(t *testing.T) {
	store := memoryStore(t)
	if err := store.Health(context.Background()); err != nil {
		t.Errorf("Health failed: %v", err)
	}
}

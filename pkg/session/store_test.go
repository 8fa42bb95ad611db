package session_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/voicegate/voicegate/pkg/session"
)

func TestStore(t *testing.T) {
	t.Run("Create initializes empty conversation", func(t *testing.T) {
		store := session.NewStore()
		id := store.Create()

		if id == "" {
			t.Fatal("expected non-empty id")
		}
		sess, ok := store.Get(id)
		if !ok {
			t.Fatal("expected session to exist")
		}
		if len(sess.Conversation) != 0 {
			t.Errorf("expected empty conversation, got %d messages", len(sess.Conversation))
		}
		if sess.CreatedAt.IsZero() || sess.LastActivity.IsZero() {
			t.Error("expected timestamps to be set")
		}
	})

	t.Run("Create returns unique ids", func(t *testing.T) {
		store := session.NewStore()
		seen := make(map[string]bool)
		for i := 0; i < 100; i++ {
			id := store.Create()
			if seen[id] {
				t.Fatalf("duplicate id %s", id)
			}
			seen[id] = true
		}
	})

	t.Run("Get unknown id returns false", func(t *testing.T) {
		store := session.NewStore()
		if _, ok := store.Get("nope"); ok {
			t.Error("expected not found")
		}
	})

	t.Run("AppendMessage then History round-trips", func(t *testing.T) {
		store := session.NewStore()
		id := store.Create()

		if !store.AppendMessage(id, "user", "hello") {
			t.Fatal("append failed")
		}
		if !store.AppendMessage(id, "assistant", "hi there") {
			t.Fatal("append failed")
		}

		history := store.History(id)
		if len(history) != 2 {
			t.Fatalf("expected 2 messages, got %d", len(history))
		}
		last := history[len(history)-1]
		if last.Role != "assistant" || last.Content != "hi there" {
			t.Errorf("unexpected last message: %+v", last)
		}
	})

	t.Run("AppendMessage to unknown id fails", func(t *testing.T) {
		store := session.NewStore()
		if store.AppendMessage("nope", "user", "hello") {
			t.Error("expected append to fail for unknown id")
		}
	})

	t.Run("History of unknown id is empty, not an error", func(t *testing.T) {
		store := session.NewStore()
		history := store.History("nope")
		if history == nil || len(history) != 0 {
			t.Errorf("expected empty history, got %v", history)
		}
	})

	t.Run("Append refreshes last activity", func(t *testing.T) {
		store := session.NewStore()
		id := store.Create()
		before, _ := store.Get(id)

		time.Sleep(5 * time.Millisecond)
		store.AppendMessage(id, "user", "ping")

		after, _ := store.Get(id)
		if !after.LastActivity.After(before.LastActivity) {
			t.Error("expected last activity to advance")
		}
	})

	t.Run("Get returns a copy", func(t *testing.T) {
		store := session.NewStore()
		id := store.Create()
		store.AppendMessage(id, "user", "hello")

		sess, _ := store.Get(id)
		sess.Conversation[0].Content = "tampered"
		sess.Metadata["rogue"] = true

		fresh, _ := store.Get(id)
		if fresh.Conversation[0].Content != "hello" {
			t.Error("store state leaked through Get")
		}
		if _, ok := fresh.Metadata["rogue"]; ok {
			t.Error("metadata leaked through Get")
		}
	})

	t.Run("Get copies nested metadata values", func(t *testing.T) {
		store := session.NewStore()
		id := store.Create()
		store.SetMetadata(id, "client", map[string]any{
			"name": "cli",
			"tags": []any{"beta"},
		})

		sess, _ := store.Get(id)
		client := sess.Metadata["client"].(map[string]any)
		client["name"] = "tampered"
		client["tags"].([]any)[0] = "tampered"

		fresh, _ := store.Get(id)
		freshClient := fresh.Metadata["client"].(map[string]any)
		if freshClient["name"] != "cli" {
			t.Error("nested map leaked through Get")
		}
		if freshClient["tags"].([]any)[0] != "beta" {
			t.Error("nested slice leaked through Get")
		}
	})

	t.Run("SetMetadata", func(t *testing.T) {
		store := session.NewStore()
		id := store.Create()

		if !store.SetMetadata(id, "channel", "websocket") {
			t.Fatal("expected metadata set to succeed")
		}
		sess, _ := store.Get(id)
		if sess.Metadata["channel"] != "websocket" {
			t.Errorf("unexpected metadata: %v", sess.Metadata)
		}
		if store.SetMetadata("nope", "k", "v") {
			t.Error("expected metadata set to fail for unknown id")
		}
	})
}

func TestStoreConcurrentAppends(t *testing.T) {
	store := session.NewStore()
	id := store.Create()

	const writers = 20
	const perWriter = 25

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				store.AppendMessage(id, "user", fmt.Sprintf("w%d-m%d", w, i))
			}
		}(w)
	}
	wg.Wait()

	history := store.History(id)
	if len(history) != writers*perWriter {
		t.Errorf("expected %d messages, got %d (messages lost)", writers*perWriter, len(history))
	}
}

func TestStoreSweep(t *testing.T) {
	store := session.NewStore()
	idle := store.Create()
	active := store.Create()

	time.Sleep(20 * time.Millisecond)
	store.AppendMessage(active, "user", "keep me alive")

	removed := store.Sweep(10 * time.Millisecond)
	if removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}
	if _, ok := store.Get(idle); ok {
		t.Error("idle session should be gone")
	}
	if _, ok := store.Get(active); !ok {
		t.Error("active session should survive")
	}

	// Sweep is idempotent: an immediate second pass removes nothing.
	if removed := store.Sweep(10 * time.Millisecond); removed != 0 {
		t.Errorf("expected second sweep to remove 0, got %d", removed)
	}
}

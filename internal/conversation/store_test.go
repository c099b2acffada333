package conversation_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DiazJL07/Braincare/internal/conversation"
)

func TestStore_GetOrCreateIdempotent(t *testing.T) {
	s := conversation.NewStore()
	key := conversation.NewKey("s1", "u1")

	first := s.GetOrCreate(key)
	if first.SessionID != "s1" || first.UserID != "u1" {
		t.Fatalf("unexpected ids: %q %q", first.SessionID, first.UserID)
	}
	if first.History == nil || len(first.History) != 0 {
		t.Fatalf("expected empty non-nil history, got %#v", first.History)
	}

	second := s.GetOrCreate(key)
	if !first.CreatedAt.Equal(second.CreatedAt) {
		t.Errorf("expected identical created_at, got %v vs %v", first.CreatedAt, second.CreatedAt)
	}
	if s.Len() != 1 {
		t.Errorf("expected 1 record, got %d", s.Len())
	}
}

func TestStore_KeyNormalization(t *testing.T) {
	s := conversation.NewStore()

	// Empty user id resolves to the anonymous sentinel.
	rec := s.GetOrCreate(conversation.NewKey("s1", ""))
	if rec.UserID != conversation.AnonUserID {
		t.Fatalf("expected anon user id, got %q", rec.UserID)
	}

	// Explicit anon and empty user map to the same record.
	other := s.GetOrCreate(conversation.NewKey("s1", conversation.AnonUserID))
	if !rec.CreatedAt.Equal(other.CreatedAt) {
		t.Error("expected empty and anon user ids to share a record")
	}

	// Same session id under a different user is a different record.
	s.GetOrCreate(conversation.NewKey("s1", "u2"))
	if s.Len() != 2 {
		t.Errorf("expected 2 records, got %d", s.Len())
	}
}

func TestStore_AppendOrderAndTimestamps(t *testing.T) {
	s := conversation.NewStore()
	key := conversation.NewKey("s1", "u1")

	s.Append(key, conversation.RoleUser, "Hola")
	rec := s.Append(key, conversation.RoleAssistant, "Hola, ¿cómo estás?")

	if len(rec.History) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(rec.History))
	}
	if rec.History[0].Role != conversation.RoleUser || rec.History[0].Content != "Hola" {
		t.Errorf("unexpected first message: %+v", rec.History[0])
	}
	if rec.History[1].Role != conversation.RoleAssistant {
		t.Errorf("unexpected second message role: %s", rec.History[1].Role)
	}
	if rec.History[0].Timestamp.IsZero() || rec.History[1].Timestamp.IsZero() {
		t.Error("expected message timestamps to be set")
	}
	if rec.LastUpdated.Before(rec.CreatedAt) {
		t.Error("expected last_updated >= created_at")
	}
}

func TestStore_SnapshotsAreCopies(t *testing.T) {
	s := conversation.NewStore()
	key := conversation.NewKey("s1", "u1")

	rec := s.Append(key, conversation.RoleUser, "original")
	rec.History[0].Content = "mutated"

	fresh, err := s.Get(key)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if fresh.History[0].Content != "original" {
		t.Error("snapshot mutation leaked into the store")
	}
}

func TestStore_Get(t *testing.T) {
	s := conversation.NewStore()

	if _, err := s.Get(conversation.NewKey("", "u1")); !errors.Is(err, conversation.ErrNotFound) {
		t.Errorf("expected ErrNotFound for empty session id, got %v", err)
	}
	if _, err := s.Get(conversation.NewKey("missing", "u1")); !errors.Is(err, conversation.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown session, got %v", err)
	}

	s.GetOrCreate(conversation.NewKey("s1", "u1"))
	if _, err := s.Get(conversation.NewKey("s1", "u1")); err != nil {
		t.Errorf("unexpected err: %v", err)
	}

	// Get never falls back to a default user id other than the sentinel.
	if _, err := s.Get(conversation.NewKey("s1", "u2")); !errors.Is(err, conversation.ErrNotFound) {
		t.Errorf("expected ErrNotFound for other user, got %v", err)
	}
}

func TestStore_Clear(t *testing.T) {
	s := conversation.NewStore()
	key := conversation.NewKey("s1", "u1")

	s.Append(key, conversation.RoleUser, "Hola")
	before, _ := s.Get(key)

	if err := s.Clear(key); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	after, err := s.Get(key)
	if err != nil {
		t.Fatal("expected record to survive clear")
	}
	if len(after.History) != 0 {
		t.Errorf("expected empty history, got %d messages", len(after.History))
	}
	if after.History == nil {
		t.Error("expected cleared history to stay non-nil")
	}
	if !after.CreatedAt.Equal(before.CreatedAt) {
		t.Error("clear must not touch created_at")
	}
	if after.LastUpdated.Before(before.LastUpdated) {
		t.Error("expected clear to refresh last_updated")
	}
}

func TestStore_ClearUnknownSessionIsNoOp(t *testing.T) {
	s := conversation.NewStore()

	if err := s.Clear(conversation.NewKey("never-created", "u1")); err != nil {
		t.Errorf("expected silent success, got %v", err)
	}
	if s.Len() != 0 {
		t.Error("clear must not create records")
	}
}

func TestStore_ClearEmptySessionID(t *testing.T) {
	s := conversation.NewStore()

	if err := s.Clear(conversation.NewKey("", "u1")); !errors.Is(err, conversation.ErrEmptySessionID) {
		t.Errorf("expected ErrEmptySessionID, got %v", err)
	}
}

func TestStore_CleanupExpired(t *testing.T) {
	s := conversation.NewStore()

	s.Append(conversation.NewKey("old", "u1"), conversation.RoleUser, "hola")
	time.Sleep(20 * time.Millisecond)
	s.Append(conversation.NewKey("fresh", "u1"), conversation.RoleUser, "hola")

	removed := s.CleanupExpired(10 * time.Millisecond)
	if removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}
	if _, err := s.Get(conversation.NewKey("old", "u1")); !errors.Is(err, conversation.ErrNotFound) {
		t.Error("expected idle record to be removed")
	}
	if _, err := s.Get(conversation.NewKey("fresh", "u1")); err != nil {
		t.Errorf("expected fresh record to survive, got %v", err)
	}

	// Disabled TTL removes nothing.
	if removed := s.CleanupExpired(0); removed != 0 {
		t.Errorf("expected no removals with zero ttl, got %d", removed)
	}
}

func TestStore_ConcurrentAppendsSameKey(t *testing.T) {
	s := conversation.NewStore()
	key := conversation.NewKey("s1", "u1")

	const goroutines = 50
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			s.Append(key, conversation.RoleUser, "mensaje")
		}()
	}
	wg.Wait()

	rec, err := s.Get(key)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(rec.History) != goroutines {
		t.Errorf("lost appends: expected %d messages, got %d", goroutines, len(rec.History))
	}
}

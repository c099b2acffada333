package conversation

import (
	"sync"
	"time"
)

// Store owns every conversation record for the life of the process. All
// mutation happens under its lock, so concurrent requests for the same key
// can never lose or duplicate appends. Records never leave the store;
// accessors return deep-copied snapshots.
type Store struct {
	mu      sync.Mutex
	records map[Key]*Record
}

// NewStore creates an empty conversation store.
func NewStore() *Store {
	return &Store{
		records: make(map[Key]*Record),
	}
}

// GetOrCreate returns a snapshot of the record for key, creating it when
// absent. Idempotent: repeated calls for the same key observe the same
// CreatedAt.
func (s *Store) GetOrCreate(key Key) Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	return snapshot(s.getOrCreateLocked(key))
}

// Get returns a snapshot of the record for key. Returns ErrNotFound when
// the session id is empty or no record exists; absence never falls back to
// creation here.
func (s *Store) Get(key Key) (Record, error) {
	if key.SessionID == "" {
		return Record{}, ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, exists := s.records[key]
	if !exists {
		return Record{}, ErrNotFound
	}
	return snapshot(rec), nil
}

// Append adds one message to the record for key, creating the record when
// absent, and returns a snapshot of the updated record.
func (s *Store) Append(key Key, role Role, content string) Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	rec := s.getOrCreateLocked(key)
	rec.History = append(rec.History, Message{
		Role:      role,
		Content:   content,
		Timestamp: now,
	})
	rec.LastUpdated = now

	return snapshot(rec)
}

// Clear empties the history of the record for key and refreshes
// LastUpdated. The record itself is kept. Clearing a key that has no record
// is a silent no-op; only an empty session id is an error. The asymmetry is
// intentional idempotence, carried over from the original service.
func (s *Store) Clear(key Key) error {
	if key.SessionID == "" {
		return ErrEmptySessionID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, exists := s.records[key]; exists {
		rec.History = make([]Message, 0)
		rec.LastUpdated = time.Now()
	}
	return nil
}

// CleanupExpired removes records idle longer than ttl and reports how many
// were removed. A non-positive ttl removes nothing.
func (s *Store) CleanupExpired(ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	removed := 0

	for key, rec := range s.records {
		if now.Sub(rec.LastUpdated) > ttl {
			delete(s.records, key)
			removed++
		}
	}

	return removed
}

// Len returns the number of records currently held.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.records)
}

// getOrCreateLocked resolves or creates the record for key. Caller must
// hold s.mu.
func (s *Store) getOrCreateLocked(key Key) *Record {
	if rec, exists := s.records[key]; exists {
		return rec
	}

	now := time.Now()
	rec := &Record{
		SessionID:   key.SessionID,
		UserID:      key.UserID,
		History:     make([]Message, 0),
		CreatedAt:   now,
		LastUpdated: now,
	}
	s.records[key] = rec
	return rec
}

// snapshot deep-copies a record so callers can read it without holding the
// store lock. History is copied with zero capacity slack so the original
// backing array is never shared.
func snapshot(rec *Record) Record {
	out := *rec
	out.History = make([]Message, len(rec.History))
	copy(out.History, rec.History)
	return out
}

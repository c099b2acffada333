// Package conversation maintains per-user, per-session chat history in
// process memory.
package conversation

import "time"

// AnonUserID is the sentinel user id used when a request carries none.
const AnonUserID = "anon"

// Role identifies who authored a message.
type Role string

const (
	// RoleUser marks a message written by the end user.
	RoleUser Role = "user"
	// RoleAssistant marks a message written by the model.
	RoleAssistant Role = "assistant"
)

// Message is a single conversation turn. Immutable once appended.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Record is the conversation state for one key. Values handed out by the
// store are snapshots; mutating them does not affect stored state.
type Record struct {
	SessionID   string    `json:"session_id"`
	UserID      string    `json:"user_id"`
	History     []Message `json:"history"`
	CreatedAt   time.Time `json:"created_at"`
	LastUpdated time.Time `json:"last_updated"`
}

// Key uniquely identifies a Record. Using a struct key keeps user and
// session ids separate, so a user id containing a separator character can
// never collide with another key.
type Key struct {
	UserID    string
	SessionID string
}

// NewKey canonicalizes the (sessionID, userID) pair. An empty user id maps
// to the anonymous sentinel. The session id is taken as-is; callers must
// generate one before resolving records.
func NewKey(sessionID, userID string) Key {
	if userID == "" {
		userID = AnonUserID
	}
	return Key{UserID: userID, SessionID: sessionID}
}

package conversation

import "errors"

// Common errors for store operations.
var (
	// ErrNotFound indicates no record exists for the resolved key.
	ErrNotFound = errors.New("conversation not found")
	// ErrEmptySessionID indicates the caller supplied no session id where
	// one is required.
	ErrEmptySessionID = errors.New("session id is empty")
)

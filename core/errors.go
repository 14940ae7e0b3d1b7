package core

import "errors"

// Error codes carried by KindError envelopes. UNKNOWN_ACTION is the
// interoperability convention every agent must follow when a task names an
// action it does not implement.
const (
	CodeUnknownAction = "UNKNOWN_ACTION"
	CodeUnknownAgent  = "UNKNOWN_AGENT"
	CodeBadMessage    = "BAD_MESSAGE"
	CodeInternal      = "INTERNAL"
	CodeStorage       = "STORAGE"
)

// Sentinel errors for store operations. Wrap with %w so callers can match
// via errors.Is.
var (
	// ErrStorage marks an I/O failure reading or writing a MemoryStore.
	// Fatal when returned from Init; recoverable-by-caller for Get/Set.
	ErrStorage = errors.New("memory storage failure")

	// ErrNotInitialized is returned when a store is used before Init.
	ErrNotInitialized = errors.New("memory store not initialized")
)

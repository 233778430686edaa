package chat

import "errors"

// Failures raised by the registry, room directory, and router. None of them
// is fatal to the process; each is local to a single connection's event.
var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrAlreadyIdentified = errors.New("connection already identified")
	ErrNameTaken         = errors.New("display name already in use")
	ErrUnknownRoom       = errors.New("unknown room")
	ErrTargetNotFound    = errors.New("target user not found")
)

// Wire error codes sent to clients in error envelopes.
const (
	ErrCodeNameTaken         = "name_taken"
	ErrCodeAlreadyIdentified = "already_identified"
	ErrCodeUnknownRoom       = "unknown_room"
	ErrCodeTargetNotFound    = "target_not_found"
	ErrCodeInvalidMessage    = "invalid_message"
)

package model

import "context"

// SessionRepository persists per-session conversation state. Implementations
// must treat a missing session as an empty state, not an error, so a brand-new
// conversation needs no explicit initialisation step.
type SessionRepository interface {
	// SaveState stores the full conversation state for the session.
	SaveState(ctx context.Context, sessionID string, state *ConversationState) error

	// LoadState retrieves the conversation state for the session.
	LoadState(ctx context.Context, sessionID string) (*ConversationState, error)

	// ClearState removes all stored state for the session.
	ClearState(ctx context.Context, sessionID string) error

	// MessageCount returns the number of transcript messages in the session.
	MessageCount(ctx context.Context, sessionID string) (int, error)
}

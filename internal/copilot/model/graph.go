package model

// AppState stores per-invocation state for the Eino Graph.
// Concurrency model:
//   - This struct is registered as Graph Local State via compose.WithGenLocalState.
//   - All reads/writes happen only inside Eino state handlers:
//     WithStatePreHandler, WithStatePostHandler, or compose.ProcessState.
//   - Eino serializes access to state within these handlers, so no additional
//     mutex/atomic is required as long as you never touch it outside handlers.
//   - Turns for the same session are additionally serialized by the sessions
//     manager before the graph is ever invoked.
type AppState struct {
	SessionID   string
	UserMessage string
	FocusBefore string // focus field at turn start, before any merge
	WasReady    bool   // readiness at turn start; analysis fires on the false->true edge

	State            ConversationState   // working copy; committed to the repo only after a full merge
	Extraction       *ExtractionResponse // set by the parser post-handler
	Violations       []string            // contract violations recovered during parsing
	AssistantMessage string

	// Accumulated total LLM cost (USD) across model invocations for this turn
	TotalCostUSD float64
}

// TurnInput is the public input for one conversation turn.
type TurnInput struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// TurnResult is the outcome of one conversation turn. Analysis is non-nil
// only when the turn made the conversation ready and the report was produced.
type TurnResult struct {
	AssistantMessage string             `json:"assistant_message"`
	State            ConversationState  `json:"state"`
	Analysis         *AnalysisResult    `json:"analysis,omitempty"`
}

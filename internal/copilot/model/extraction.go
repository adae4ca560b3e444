package model

// ExtractionRequest is the structured payload sent to the extraction provider.
// The provider is untrusted: its response must pass the contract validator and
// the field normalizer before anything reaches ConversationState.
type ExtractionRequest struct {
	History      []ChatMessage     `json:"history"`
	CurrentState ConversationState `json:"currentState"`
}

// ExtractionResponse is the expected shape of the provider's reply after
// contract validation. Enum values inside StateUpdates may still be
// non-canonical labels at this point; canonicalization is the normalizer's job.
type ExtractionResponse struct {
	AssistantMessage string       `json:"assistant_message"`
	FilledFields     []string     `json:"filled_fields,omitempty"`
	NextFocusField   string       `json:"next_focus_field,omitempty"`
	StateUpdates     StateUpdates `json:"state_updates"`
	ReadyForAnalysis bool         `json:"ready_for_analysis"`
}

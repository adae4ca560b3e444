// Package dialogue owns the per-session conversation loop: one user message
// in, one assistant message plus updated state out. It drives the extraction
// provider, funnels the candidate through the contract validator and the
// field normalizer, and merges updates under the additive-merge invariant.
// Nothing below this boundary is allowed to propagate as an unhandled fault:
// every failure path terminates in a well-formed (message, state) pair.
package dialogue

import (
	"context"

	"github.com/nexsupply/sourcing-core/internal/copilot/contract"
	"github.com/nexsupply/sourcing-core/internal/copilot/model"
	"github.com/nexsupply/sourcing-core/internal/copilot/normalize"
	"github.com/nexsupply/sourcing-core/internal/copilot/provider"
	errx "github.com/nexsupply/sourcing-core/internal/core/error"
	logx "github.com/nexsupply/sourcing-core/pkg/logger"
)

// Degraded-mode assistant replies.
const (
	MsgConfiguration = "I'm having trouble connecting to the AI service. Please check the configuration."
	MsgTransient     = "I had trouble processing that. Let's continue - could you try again or rephrase?"
	MsgRecovered     = "I understand. Let me continue gathering information."
)

// DefaultHistoryMaxTurns bounds how much transcript is sent to the provider.
const DefaultHistoryMaxTurns = 12

// Manager drives one conversation turn at a time against an extraction
// provider. Callers must serialize turns for the same session; different
// sessions are fully independent.
type Manager struct {
	provider        ExtractionProvider
	historyMaxTurns int
}

// ExtractionProvider is re-exported here so tests and alternate backends only
// need the dialogue package.
type ExtractionProvider = provider.ExtractionProvider

// NewManager creates a Manager. historyMaxTurns <= 0 selects the default.
func NewManager(p ExtractionProvider, historyMaxTurns int) *Manager {
	if historyMaxTurns <= 0 {
		historyMaxTurns = DefaultHistoryMaxTurns
	}
	return &Manager{provider: p, historyMaxTurns: historyMaxTurns}
}

// Turn runs one conversation turn. The input state is never mutated: the
// caller receives a fresh state that is only built after the full
// validate, normalize, merge pipeline completed, so an abandoned turn cannot
// leave state half-applied.
func (m *Manager) Turn(ctx context.Context, state model.ConversationState, userMessage string) (string, model.ConversationState) {
	focusBefore := state.NextFocusField

	work := state.Clone()
	work.AppendUser(userMessage)

	raw, err := m.provider.Extract(ctx, model.ExtractionRequest{
		History:      trimTail(work.Messages, m.historyMaxTurns),
		CurrentState: work,
	})
	if err != nil {
		return m.degradedTurn(work, err)
	}

	resp, violations := contract.ValidateExtraction(raw)
	if len(violations) > 0 {
		// Best-effort recovery: keep the assistant message and any
		// individually well-formed updates, drop the rest, and continue the
		// session in a degraded but functional state.
		logx.Warn().
			Strs("violations", violations.Strings()).
			Msg("extraction contract violation; recovering partial response")
	}

	assistantMessage := MergeTurn(&work, focusBefore, userMessage, resp)
	return assistantMessage, work
}

// MergeTurn folds a validated extraction response into the working state:
// normalize updates, additive merge, answer policy for bare replies, readiness
// recompute, focus selection, transcript append. It returns the assistant
// message that goes back to the user. The working state must already contain
// the appended user message.
func MergeTurn(work *model.ConversationState, focusBefore, userMessage string, resp *model.ExtractionResponse) string {
	assistantMessage := resp.AssistantMessage
	if assistantMessage == "" {
		assistantMessage = MsgRecovered
	}

	normalize.Updates(&resp.StateUpdates)
	work.Apply(resp.StateUpdates)

	skippedEnum := applyAnswerPolicy(work, focusBefore, userMessage, resp.StateUpdates)

	work.RecomputeReadiness()
	if skippedEnum && resp.NextFocusField == "" {
		work.NextFocusField = nextUnsetFieldAfter(work, focusBefore)
	} else {
		work.NextFocusField = checkFocus(work, resp.NextFocusField)
	}
	work.AppendAssistant(assistantMessage)

	logx.Debug().
		Str("next_focus_field", work.NextFocusField).
		Bool("ready_for_analysis", work.ReadyForAnalysis).
		Msg("turn merged")

	return assistantMessage
}

// applyAnswerPolicy implements the accepted-answer rules for bare replies:
// a "no"/"not sure" on an optional free-text slot is recorded verbatim as a
// terminal answer (so the dialogue moves on instead of re-asking); on the
// optional enum slot it skips the slot entirely, reported back to the caller
// so the focus can be advanced past it. A bare affirmative while extra notes
// are on the table confirms them.
func applyAnswerPolicy(work *model.ConversationState, focusBefore, userMessage string, updates model.StateUpdates) (skippedEnum bool) {
	if focusBefore == model.FieldExtraNotes && work.ExtraNotes != "" && isAffirmative(userMessage) {
		work.NotesConfirmed = true
	}

	if !isSkipAnswer(userMessage) || !isOptionalField(focusBefore) {
		return false
	}
	if updates.Field(focusBefore) != nil {
		return false // the provider already answered the slot
	}
	if focusBefore == model.FieldMainRiskConcern {
		// enum slot: stays unset rather than polluting the vocabulary
		return true
	}
	var u model.StateUpdates
	u.SetField(focusBefore, userMessage)
	normalize.Updates(&u)
	work.Apply(u)
	return false
}

// degradedTurn handles provider failures without dropping the turn: the user
// message stays in the transcript, no slot is touched, readiness is not
// mutated, and the user gets an actionable reply.
func (m *Manager) degradedTurn(work model.ConversationState, err error) (string, model.ConversationState) {
	msg := MsgTransient
	if errx.IsKind(err, errx.KindConfiguration) {
		msg = MsgConfiguration
	}
	logx.Error().Err(err).Str("kind", string(errx.KindOf(err))).Msg("extraction provider failed")
	work.AppendAssistant(msg)
	return msg, work
}

func trimTail(messages []model.ChatMessage, max int) []model.ChatMessage {
	if len(messages) <= max {
		result := make([]model.ChatMessage, len(messages))
		copy(result, messages)
		return result
	}
	source := messages[len(messages)-max:]
	result := make([]model.ChatMessage, len(source))
	copy(result, source)
	return result
}

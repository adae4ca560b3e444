package dialogue

import (
	"strings"

	"github.com/nexsupply/sourcing-core/internal/copilot/model"
)

// NextUnsetField returns the next slot to pursue in the fixed priority order:
// required fields first, then the optional ones; "" when everything is filled.
func NextUnsetField(state *model.ConversationState) string {
	for _, name := range model.AllFields() {
		if state.Slot(name) == "" {
			return name
		}
	}
	return ""
}

// nextUnsetFieldAfter returns the first unset slot strictly after the given
// field in priority order, used to move past an optional slot the user skipped.
func nextUnsetFieldAfter(state *model.ConversationState, after string) string {
	seen := false
	for _, name := range model.AllFields() {
		if name == after {
			seen = true
			continue
		}
		if seen && state.Slot(name) == "" {
			return name
		}
	}
	return ""
}

// checkFocus sanity-checks the provider's proposed next focus field against
// the question-ordering policy: an unknown name or an already-filled slot
// falls back to the deterministic ordering.
func checkFocus(state *model.ConversationState, proposed string) string {
	if proposed != "" && isKnownField(proposed) && state.Slot(proposed) == "" {
		return proposed
	}
	return NextUnsetField(state)
}

func isKnownField(name string) bool {
	for _, f := range model.AllFields() {
		if f == name {
			return true
		}
	}
	return false
}

func isOptionalField(name string) bool {
	for _, f := range model.OptionalFields {
		if f == name {
			return true
		}
	}
	return false
}

// Bare affirmatives, negatives and uncertainty are valid terminal answers for
// any slot being asked about; they must never be rejected or re-prompted.

var affirmativeAnswers = map[string]struct{}{
	"yes": {}, "y": {}, "yeah": {}, "yep": {}, "sure": {}, "ok": {}, "okay": {}, "correct": {},
}

var skipAnswers = map[string]struct{}{
	"no": {}, "n": {}, "nope": {}, "not sure": {}, "maybe": {},
	"i don't know": {}, "i dont know": {}, "dont know": {}, "don't know": {}, "skip": {},
}

func isAffirmative(msg string) bool {
	_, ok := affirmativeAnswers[strings.ToLower(strings.TrimSpace(msg))]
	return ok
}

// isSkipAnswer reports whether the message is a bare negative/uncertain reply,
// which on an optional slot means "skip it" rather than invalid input.
func isSkipAnswer(msg string) bool {
	_, ok := skipAnswers[strings.ToLower(strings.TrimSpace(msg))]
	return ok
}

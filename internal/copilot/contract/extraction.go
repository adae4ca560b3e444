package contract

import (
	"encoding/json"
	"fmt"

	"github.com/nexsupply/sourcing-core/internal/copilot/model"
	logx "github.com/nexsupply/sourcing-core/pkg/logger"
)

// ValidateExtraction checks a raw extraction-provider response against the
// expected turn contract. It always returns a best-effort typed response:
// callers that see violations can still use the assistant message and any
// individually well-formed state updates (the recovery path), while a clean
// response comes back with an empty violation list.
//
// Enum-typed updates are only type-checked here; mapping label variants onto
// the canonical vocabulary is the normalizer's job.
func ValidateExtraction(raw []byte) (resp *model.ExtractionResponse, violations Violations) {
	// panic safety
	defer func() {
		if r := recover(); r != nil {
			logx.Error().Str("component", "contract").Msgf("panic recovered: %v", r)
			resp = &model.ExtractionResponse{}
			violations = Violations{{Reason: "validator panic"}}
		}
	}()

	resp = &model.ExtractionResponse{}

	if len(raw) > maxContentLen {
		violations.add("", "response too large")
		raw = raw[:maxContentLen]
	}

	var m map[string]any
	if err := json.Unmarshal([]byte(stripFences(string(raw))), &m); err != nil {
		violations.add("", fmt.Sprintf("not a json object: %s", safeSnippet(string(raw))))
		return resp, violations
	}

	if msg, ok := getString(m, "assistant_message"); ok && msg != "" {
		resp.AssistantMessage = msg
	} else {
		violations.add("assistant_message", "missing or not a string")
	}

	if v, present := m["filled_fields"]; present {
		if arr, ok := v.([]any); ok {
			for _, e := range arr {
				if s, ok := e.(string); ok {
					resp.FilledFields = append(resp.FilledFields, s)
				}
			}
		} else {
			violations.add("filled_fields", "not an array")
		}
	}

	if v, present := m["next_focus_field"]; present && v != nil {
		if s, ok := v.(string); ok {
			if s == "" || knownField(s) {
				resp.NextFocusField = s
			} else {
				violations.add("next_focus_field", "unknown field name")
			}
		} else {
			violations.add("next_focus_field", "not a string")
		}
	}

	if updates, ok := getObject(m, "state_updates"); ok {
		resp.StateUpdates = validateStateUpdates(updates, &violations)
	} else if _, present := m["state_updates"]; present {
		violations.add("state_updates", "not an object")
	} else {
		violations.add("state_updates", "missing")
	}

	if ready, ok := getBool(m, "ready_for_analysis"); ok {
		resp.ReadyForAnalysis = ready
	} else {
		// Non-boolean readiness degrades to false; it must never be guessed.
		violations.add("ready_for_analysis", "missing or not a boolean")
		resp.ReadyForAnalysis = false
	}

	return resp, violations
}

// validateStateUpdates pulls every individually well-formed slot update and
// rejects the rest field by field, never the whole object.
func validateStateUpdates(m map[string]any, violations *Violations) model.StateUpdates {
	var out model.StateUpdates
	for _, name := range model.AllFields() {
		v, present := m[name]
		if !present {
			continue
		}
		if v == nil {
			// null means "no update" for nullable slots
			continue
		}
		s, ok := v.(string)
		if !ok {
			violations.add("state_updates."+name, "not a string")
			continue
		}
		out.SetField(name, s)
	}
	for key := range m {
		if !knownField(key) {
			violations.add("state_updates."+key, "unknown field")
		}
	}
	return out
}

func knownField(name string) bool {
	for _, f := range model.AllFields() {
		if f == name {
			return true
		}
	}
	return false
}

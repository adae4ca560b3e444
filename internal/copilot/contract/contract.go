// Package contract validates candidate provider responses against the shapes
// the copilot expects. Validation never panics past its boundary and never
// fails an entire object for one bad field: well-formed fields are kept,
// violations are reported per field so callers can degrade gracefully.
package contract

import (
	"fmt"
	"strings"
)

// basic safety limits to avoid pathological inputs
const (
	maxContentLen = 256 * 1024 // 256KB
	maxErrSnippet = 200
)

// Violation describes one structural or type problem in a candidate response.
type Violation struct {
	Field  string
	Reason string
}

func (v Violation) String() string {
	if v.Field == "" {
		return v.Reason
	}
	return fmt.Sprintf("%s: %s", v.Field, v.Reason)
}

// Violations is the accumulated list for one candidate.
type Violations []Violation

func (vs Violations) Strings() []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.String()
	}
	return out
}

func (vs *Violations) add(field, reason string) {
	*vs = append(*vs, Violation{Field: field, Reason: reason})
}

// stripFences removes markdown code fences some providers wrap around JSON.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func safeSnippet(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxErrSnippet {
		return s
	}
	return s[:maxErrSnippet]
}

// --- loosely-typed accessors over a decoded JSON object ---

func getString(m map[string]any, key string) (string, bool) {
	v, ok := m[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func getBool(m map[string]any, key string) (bool, bool) {
	v, ok := m[key]
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

func getNumber(m map[string]any, key string) (float64, bool) {
	v, ok := m[key]
	if !ok {
		return 0, false
	}
	f, ok := v.(float64)
	return f, ok
}

func getObject(m map[string]any, key string) (map[string]any, bool) {
	v, ok := m[key]
	if !ok {
		return nil, false
	}
	o, ok := v.(map[string]any)
	return o, ok
}

func getArray(m map[string]any, key string) ([]any, bool) {
	v, ok := m[key]
	if !ok {
		return nil, false
	}
	a, ok := v.([]any)
	return a, ok
}

// Package provider defines the capability interfaces for the generative
// backends the copilot talks to. Both providers are treated as untrusted:
// they return raw bytes that must pass the contract validator before anything
// downstream sees them, so the concrete strategy (generative model, rule
// engine, human-reviewed queue) is swappable without touching the dialogue
// manager or the analysis engine.
package provider

import (
	"context"

	"github.com/nexsupply/sourcing-core/internal/copilot/model"
)

// ExtractionProvider turns conversation history plus current state into a
// candidate structured extraction response.
type ExtractionProvider interface {
	Extract(ctx context.Context, req model.ExtractionRequest) ([]byte, error)
}

// AnalysisProvider turns a rendered analysis prompt into a candidate report.
type AnalysisProvider interface {
	Analyze(ctx context.Context, prompt string) ([]byte, error)
}

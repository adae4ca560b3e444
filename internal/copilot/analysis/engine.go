// Package analysis is the cost and risk analysis engine: category and HS-code
// inference, freight-mode selection, the provider-backed report path with
// contract validation, and the deterministic estimator and fallback that keep
// a valid report coming out no matter what the provider does.
package analysis

import (
	"context"

	"github.com/nexsupply/sourcing-core/internal/copilot/contract"
	"github.com/nexsupply/sourcing-core/internal/copilot/model"
	"github.com/nexsupply/sourcing-core/internal/copilot/prompts"
	"github.com/nexsupply/sourcing-core/internal/copilot/provider"
	"github.com/nexsupply/sourcing-core/internal/copilot/refdata"
	errx "github.com/nexsupply/sourcing-core/internal/core/error"
	logx "github.com/nexsupply/sourcing-core/pkg/logger"
)

// Engine produces a complete analysis report for a user context. With a
// provider it renders the reference-data prompt, validates the provider's
// report against the output contract, and degrades to the fallback report on
// any failure. With a nil provider it computes the report deterministically
// from the reference datasets alone. Analyze never returns an error: the
// caller always gets a structurally valid report.
type Engine struct {
	provider provider.AnalysisProvider
	ref      *refdata.Dataset
}

func NewEngine(p provider.AnalysisProvider, ref *refdata.Dataset) *Engine {
	return &Engine{provider: p, ref: ref}
}

func (e *Engine) Analyze(ctx context.Context, userCtx model.UserContext) *model.AnalysisResult {
	if e.provider == nil {
		return Estimate(userCtx, e.ref)
	}

	category := InferCategory(userCtx.ProjectName, userCtx.MaterialType)
	volumeQty := ParseVolumeQty(userCtx.Volume)

	rendered, err := prompts.RenderAnalysis(ctx, userCtx, category, volumeQty, e.ref)
	if err != nil {
		logx.Error().Err(err).Str("project", userCtx.ProjectName).
			Msg("analysis prompt render failed, using fallback report")
		return Fallback(userCtx)
	}

	raw, err := e.provider.Analyze(ctx, rendered)
	if err != nil {
		// A single transient failure is enough to fall back: the user is
		// mid-conversation and a rough report now beats a precise one later.
		logx.Error().Err(err).
			Str("project", userCtx.ProjectName).
			Str("kind", string(errx.KindOf(err))).
			Msg("analysis provider failed, using fallback report")
		return Fallback(userCtx)
	}

	result, violations := contract.ValidateAnalysis(raw)
	if len(violations) == 0 {
		violations = contract.CheckResult(result)
	}
	if len(violations) > 0 {
		vErr := errx.AnalysisContract(nil, "analysis response failed contract validation")
		logx.Error().Err(vErr).
			Str("project", userCtx.ProjectName).
			Strs("violations", violations.Strings()).
			Msg("discarding analysis response, using fallback report")
		return Fallback(userCtx)
	}
	return result
}

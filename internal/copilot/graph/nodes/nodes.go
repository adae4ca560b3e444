package nodes

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/nexsupply/sourcing-core/internal/copilot/analysis"
	"github.com/nexsupply/sourcing-core/internal/copilot/contract"
	"github.com/nexsupply/sourcing-core/internal/copilot/dialogue"
	"github.com/nexsupply/sourcing-core/internal/copilot/model"
	"github.com/nexsupply/sourcing-core/internal/copilot/prompts"
	logx "github.com/nexsupply/sourcing-core/pkg/logger"
)

// Node names used across the turn graph.
const (
	NodeInputConverter      = "InputConverter"
	NodeExtractionChatModel = "ExtractionChatModel"
	NodeExtractionParser    = "ExtractionParser"
	NodeAnalysis            = "Analysis"
	NodeResultAssembler     = "ResultAssembler"
)

// NewInputConverterPreHandler creates the pre-handler for the InputConverter
// node. It seeds the per-invocation state before any node runs.
func NewInputConverterPreHandler() func(context.Context, model.TurnInput, *model.AppState) (model.TurnInput, error) {
	return func(ctx context.Context, in model.TurnInput, s *model.AppState) (model.TurnInput, error) {
		s.SessionID = in.SessionID
		s.UserMessage = in.Message
		// Reset accumulated total cost for each new turn
		s.TotalCostUSD = 0
		return in, nil
	}
}

// NewInputConverterNode loads the session state, appends the user message and
// builds the extraction model's message list: the rendered system prompt plus
// the history-and-state request payload as one user message.
func NewInputConverterNode(
	sessionRepo model.SessionRepository,
	promptCfg model.CopilotPromptConfig,
	historyMaxTurns int,
) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, input model.TurnInput) ([]*schema.Message, error) {
		loaded, err := sessionRepo.LoadState(ctx, input.SessionID)
		if err != nil {
			return nil, fmt.Errorf("load session state: %w", err)
		}

		work := loaded.Clone()
		work.AppendUser(input.Message)

		err = compose.ProcessState(ctx, func(_ context.Context, s *model.AppState) error {
			s.FocusBefore = loaded.NextFocusField
			s.WasReady = loaded.ReadyForAnalysis
			s.State = work
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to access state: %w", err)
		}

		systemPrompt, err := prompts.RenderExtractionSystem(ctx, promptCfg)
		if err != nil {
			return nil, fmt.Errorf("render extraction system prompt: %w", err)
		}

		payload, err := json.Marshal(model.ExtractionRequest{
			History:      trimTail(work.Messages, historyMaxTurns),
			CurrentState: work,
		})
		if err != nil {
			return nil, fmt.Errorf("marshal extraction request: %w", err)
		}

		return []*schema.Message{
			schema.SystemMessage(systemPrompt),
			schema.UserMessage(string(payload)),
		}, nil
	})
}

// NewExtractionChatModelPostHandler computes and logs usage cost for the
// extraction model and accumulates the running total on the turn state.
func NewExtractionChatModelPostHandler(modelName string) func(context.Context, *schema.Message, *model.AppState) (*schema.Message, error) {
	return func(ctx context.Context, out *schema.Message, state *model.AppState) (*schema.Message, error) {
		if out != nil && out.ResponseMeta != nil && out.ResponseMeta.Usage != nil {
			pricing := model.ResolvePricing(modelName)
			inC, outC, totalC := model.ComputeCost(out.ResponseMeta.Usage, pricing)
			logx.Debug().
				Str("session_id", state.SessionID).
				Str("node", NodeExtractionChatModel).
				Str("model", modelName).
				Int("prompt_tokens", out.ResponseMeta.Usage.PromptTokens).
				Int("completion_tokens", out.ResponseMeta.Usage.CompletionTokens).
				Int("total_tokens", out.ResponseMeta.Usage.TotalTokens).
				Float64("input_cost_usd", inC).
				Float64("output_cost_usd", outC).
				Float64("total_cost_usd", totalC).
				Msg("LLM usage")
			state.TotalCostUSD += totalC
		}
		return out, nil
	}
}

// NewExtractionParserNode validates the raw model reply against the output
// contract. The validator always yields a best-effort typed response, so the
// turn continues even when parts of the reply were rejected.
func NewExtractionParserNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, resp *schema.Message) (*model.ExtractionResponse, error) {
		parsed, violations := contract.ValidateExtraction([]byte(resp.Content))
		if len(violations) > 0 {
			logx.Warn().
				Strs("violations", violations.Strings()).
				Msg("extraction contract violation; recovering partial response")
			err := compose.ProcessState(ctx, func(_ context.Context, s *model.AppState) error {
				s.Violations = violations.Strings()
				return nil
			})
			if err != nil {
				return nil, fmt.Errorf("failed to access state: %w", err)
			}
		}
		return parsed, nil
	})
}

// NewExtractionParserPostHandler merges the validated response into the
// session state and commits it. A failed commit is logged but does not fail
// the turn: the user still gets the assistant reply, and the next turn
// re-extracts from the last persisted state.
func NewExtractionParserPostHandler(sessionRepo model.SessionRepository) func(context.Context, *model.ExtractionResponse, *model.AppState) (*model.ExtractionResponse, error) {
	return func(ctx context.Context, out *model.ExtractionResponse, state *model.AppState) (*model.ExtractionResponse, error) {
		state.Extraction = out
		state.AssistantMessage = dialogue.MergeTurn(&state.State, state.FocusBefore, state.UserMessage, out)

		if err := sessionRepo.SaveState(ctx, state.SessionID, &state.State); err != nil {
			logx.Error().
				Str("session_id", state.SessionID).
				Err(err).
				Msg("failed to persist conversation state")
		}
		return out, nil
	}
}

// NewAnalysisCondition routes to the analysis node exactly once, on the turn
// that flips the conversation to ready.
func NewAnalysisCondition() func(context.Context, *model.ExtractionResponse) (string, error) {
	return func(ctx context.Context, _ *model.ExtractionResponse) (string, error) {
		var ready, wasReady bool
		err := compose.ProcessState(ctx, func(_ context.Context, s *model.AppState) error {
			ready = s.State.ReadyForAnalysis
			wasReady = s.WasReady
			return nil
		})
		if err != nil {
			return "", fmt.Errorf("failed to access state: %w", err)
		}
		if ready && !wasReady {
			logx.Debug().Msg("conversation became ready - routing to analysis")
			return NodeAnalysis, nil
		}
		return NodeResultAssembler, nil
	}
}

// NewAnalysisNode runs the cost and risk analysis engine over the finished
// conversation. The engine never fails, so this node cannot break the turn.
func NewAnalysisNode(engine *analysis.Engine) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, _ *model.ExtractionResponse) (*model.TurnResult, error) {
		result := &model.TurnResult{}
		var userCtx model.UserContext
		err := compose.ProcessState(ctx, func(_ context.Context, s *model.AppState) error {
			result.AssistantMessage = s.AssistantMessage
			result.State = s.State
			userCtx = dialogue.BuildUserContext(&s.State)
			userCtx.ProjectName = dialogue.BuildAnalyzerInput(&s.State)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to access state: %w", err)
		}

		result.Analysis = engine.Analyze(ctx, userCtx)
		return result, nil
	})
}

// NewResultAssemblerNode packages the turn outcome for turns that end without
// an analysis report.
func NewResultAssemblerNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, _ *model.ExtractionResponse) (*model.TurnResult, error) {
		result := &model.TurnResult{}
		err := compose.ProcessState(ctx, func(_ context.Context, s *model.AppState) error {
			result.AssistantMessage = s.AssistantMessage
			result.State = s.State
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to access state: %w", err)
		}
		return result, nil
	})
}

// ====================== Helper function ======================
func trimTail(messages []model.ChatMessage, maxTurns int) []model.ChatMessage {
	if len(messages) <= maxTurns {
		result := make([]model.ChatMessage, len(messages))
		copy(result, messages)
		return result
	}
	source := messages[len(messages)-maxTurns:]
	result := make([]model.ChatMessage, len(source))
	copy(result, source)
	return result
}

// Package graph wires the conversation turn into an eino compose graph:
// input conversion, extraction model call, contract parsing and state merge,
// and a one-shot branch into the analysis engine on the turn that completes
// the required fields.
package graph

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	"github.com/nexsupply/sourcing-core/internal/copilot/analysis"
	"github.com/nexsupply/sourcing-core/internal/copilot/dialogue"
	"github.com/nexsupply/sourcing-core/internal/copilot/graph/nodes"
	"github.com/nexsupply/sourcing-core/internal/copilot/graph/observers"
	"github.com/nexsupply/sourcing-core/internal/copilot/model"
	"github.com/nexsupply/sourcing-core/internal/copilot/provider"
	"github.com/nexsupply/sourcing-core/internal/copilot/refdata"
	"github.com/nexsupply/sourcing-core/internal/copilot/sessions"
	errx "github.com/nexsupply/sourcing-core/internal/core/error"
	logx "github.com/nexsupply/sourcing-core/pkg/logger"
)

// Runner executes one conversation turn end to end. Turn never fails on
// provider problems: those degrade into an apologetic assistant message with
// the session state untouched.
type Runner interface {
	Turn(ctx context.Context, in model.TurnInput) (*model.TurnResult, error)
}

// Config holds everything needed to compose the full turn graph end-to-end.
type Config struct {
	APIKey          string
	BaseURL         string
	ExtractionModel model.ExtractionModelConfig
	AnalysisModel   model.AnalysisModelConfig
	Prompt          model.CopilotPromptConfig
	Conversation    model.ConversationConfig
	SessionRepo     model.SessionRepository
}

// GraphConfig holds all configuration needed to build the graph.
type GraphConfig struct {
	Providers       *provider.GeminiProviders
	Engine          *analysis.Engine
	SessionRepo     model.SessionRepository
	PromptConfig    model.CopilotPromptConfig
	HistoryMaxTurns int
}

// GraphBuilder handles the construction of the turn graph.
type GraphBuilder struct {
	config *GraphConfig
	graph  *compose.Graph[model.TurnInput, *model.TurnResult]
}

type graphRunner struct {
	runnable compose.Runnable[model.TurnInput, *model.TurnResult]
	locks    *sessions.Locker
	repo     model.SessionRepository
}

func (r *graphRunner) Turn(ctx context.Context, in model.TurnInput) (*model.TurnResult, error) {
	release := r.locks.Acquire(in.SessionID)
	defer release()

	out, err := r.runnable.Invoke(ctx, in, compose.WithCallbacks(observers.NewAllCallbacks()))
	if err != nil {
		return r.degradedTurn(ctx, in, err)
	}
	return out, nil
}

// degradedTurn keeps the session alive when the graph run failed: the user
// message and an actionable reply go into the transcript, no slot changes, no
// readiness change.
func (r *graphRunner) degradedTurn(ctx context.Context, in model.TurnInput, cause error) (*model.TurnResult, error) {
	msg := dialogue.MsgTransient
	if errx.IsKind(cause, errx.KindConfiguration) {
		msg = dialogue.MsgConfiguration
	}
	logx.Error().Err(cause).
		Str("session_id", in.SessionID).
		Str("kind", string(errx.KindOf(cause))).
		Msg("turn graph failed; degrading turn")

	state, err := r.repo.LoadState(ctx, in.SessionID)
	if err != nil {
		// State is unreadable too; reply without touching the transcript.
		return &model.TurnResult{AssistantMessage: msg}, nil
	}
	work := state.Clone()
	work.AppendUser(in.Message)
	work.AppendAssistant(msg)
	if err := r.repo.SaveState(ctx, in.SessionID, &work); err != nil {
		logx.Error().Err(err).Str("session_id", in.SessionID).Msg("failed to persist degraded turn")
	}
	return &model.TurnResult{AssistantMessage: msg, State: work}, nil
}

// BuildTurnGraph composes providers, reference data, the analysis engine and
// the graph, and returns a Runner.
func BuildTurnGraph(ctx context.Context, cfg Config) (Runner, error) {
	if cfg.SessionRepo == nil {
		return nil, fmt.Errorf("session repo is nil")
	}

	providers, err := provider.NewGeminiProviders(ctx, provider.GeminiConfig{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		Extraction: cfg.ExtractionModel,
		Analysis:   cfg.AnalysisModel,
		Prompt:     cfg.Prompt,
	})
	if err != nil {
		return nil, err
	}

	ref, err := refdata.Load()
	if err != nil {
		return nil, fmt.Errorf("load reference data: %w", err)
	}

	runnable, err := BuildGraph(ctx, &GraphConfig{
		Providers:       providers,
		Engine:          analysis.NewEngine(providers, ref),
		SessionRepo:     cfg.SessionRepo,
		PromptConfig:    cfg.Prompt,
		HistoryMaxTurns: cfg.Conversation.History.MaxTurns,
	})
	if err != nil {
		return nil, err
	}

	logx.Debug().Msg("Turn graph built successfully")
	return &graphRunner{
		runnable: runnable,
		locks:    sessions.NewLocker(),
		repo:     cfg.SessionRepo,
	}, nil
}

// BuildGraph constructs and returns the compiled turn graph.
func BuildGraph(ctx context.Context, config *GraphConfig) (compose.Runnable[model.TurnInput, *model.TurnResult], error) {
	if config == nil {
		return nil, fmt.Errorf("graph config is nil")
	}
	if config.Providers == nil || config.Providers.ExtractionModel() == nil {
		return nil, fmt.Errorf("extraction model is not properly initialized")
	}
	if config.Engine == nil {
		return nil, fmt.Errorf("analysis engine is nil")
	}
	if config.SessionRepo == nil {
		return nil, fmt.Errorf("session repo is nil")
	}
	if config.HistoryMaxTurns <= 0 {
		config.HistoryMaxTurns = dialogue.DefaultHistoryMaxTurns
	}

	builder := &GraphBuilder{
		config: config,
		graph: compose.NewGraph[model.TurnInput, *model.TurnResult](
			compose.WithGenLocalState(func(ctx context.Context) *model.AppState {
				return &model.AppState{}
			}),
		),
	}

	builder.addNodes()
	builder.addEdges()

	if err := builder.addBranches(); err != nil {
		return nil, err
	}

	return builder.compile(ctx)
}

// addNodes adds all processing nodes to the graph
func (b *GraphBuilder) addNodes() {
	b.graph.AddLambdaNode(nodes.NodeInputConverter,
		nodes.NewInputConverterNode(b.config.SessionRepo, b.config.PromptConfig, b.config.HistoryMaxTurns),
		compose.WithStatePreHandler(nodes.NewInputConverterPreHandler()),
	)

	b.graph.AddChatModelNode(nodes.NodeExtractionChatModel,
		b.config.Providers.ExtractionModel(),
		compose.WithStatePostHandler(nodes.NewExtractionChatModelPostHandler(b.config.Providers.ExtractionModelName)),
	)

	b.graph.AddLambdaNode(nodes.NodeExtractionParser,
		nodes.NewExtractionParserNode(),
		compose.WithStatePostHandler(nodes.NewExtractionParserPostHandler(b.config.SessionRepo)),
	)

	b.graph.AddLambdaNode(nodes.NodeAnalysis,
		nodes.NewAnalysisNode(b.config.Engine),
	)

	b.graph.AddLambdaNode(nodes.NodeResultAssembler,
		nodes.NewResultAssemblerNode(),
	)
}

// addEdges creates the main flow connections between nodes
func (b *GraphBuilder) addEdges() {
	edges := [][2]string{
		{compose.START, nodes.NodeInputConverter},
		{nodes.NodeInputConverter, nodes.NodeExtractionChatModel},
		{nodes.NodeExtractionChatModel, nodes.NodeExtractionParser},
		{nodes.NodeAnalysis, compose.END},
		{nodes.NodeResultAssembler, compose.END},
	}

	for _, edge := range edges {
		b.graph.AddEdge(edge[0], edge[1])
	}
}

// addBranches creates conditional routing branches
func (b *GraphBuilder) addBranches() error {
	analysisBranch := compose.NewGraphBranch(
		nodes.NewAnalysisCondition(),
		map[string]bool{
			nodes.NodeAnalysis:        true,
			nodes.NodeResultAssembler: true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeExtractionParser, analysisBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding analysis branch")
		return fmt.Errorf("error adding analysis branch: %w", err)
	}
	return nil
}

// compile finalizes and compiles the graph
func (b *GraphBuilder) compile(ctx context.Context) (compose.Runnable[model.TurnInput, *model.TurnResult], error) {
	runnable, err := b.graph.Compile(ctx, compose.WithMaxRunSteps(10))
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling graph")
		return nil, fmt.Errorf("error compiling graph: %w", err)
	}

	logx.Debug().Msg("Graph compiled successfully")
	return runnable, nil
}

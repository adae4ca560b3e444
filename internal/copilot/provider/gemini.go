package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"github.com/nexsupply/sourcing-core/internal/copilot/model"
	"github.com/nexsupply/sourcing-core/internal/copilot/prompts"
	errx "github.com/nexsupply/sourcing-core/internal/core/error"
	logx "github.com/nexsupply/sourcing-core/pkg/logger"
)

// GeminiConfig holds everything needed to construct both Gemini-backed providers.
type GeminiConfig struct {
	APIKey     string
	BaseURL    string
	Extraction model.ExtractionModelConfig
	Analysis   model.AnalysisModelConfig
	Prompt     model.CopilotPromptConfig
}

// GeminiProviders bundles the extraction and analysis chat models built on a
// shared genai client.
type GeminiProviders struct {
	extraction        *gemini.ChatModel
	analysis          *gemini.ChatModel
	extractionTimeout time.Duration
	analysisTimeout   time.Duration
	promptCfg         model.CopilotPromptConfig

	ExtractionModelName string
	AnalysisModelName   string
}

// NewGeminiProviders creates both chat models with the given configuration.
func NewGeminiProviders(ctx context.Context, cfg GeminiConfig) (*GeminiProviders, error) {
	if cfg.APIKey == "" {
		return nil, errx.Configuration(errors.New("GEMINI_API_KEY is not set"), "extraction provider is not configured")
	}

	extractionTimeout, err := time.ParseDuration(cfg.Extraction.Timeout)
	if err != nil {
		return nil, errx.Configuration(err, fmt.Sprintf("invalid extraction timeout %q", cfg.Extraction.Timeout))
	}
	analysisTimeout, err := time.ParseDuration(cfg.Analysis.Timeout)
	if err != nil {
		return nil, errx.Configuration(err, fmt.Sprintf("invalid analysis timeout %q", cfg.Analysis.Timeout))
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = cfg.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, errx.Configuration(err, "error creating Gemini client")
	}

	extractionModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       cfg.Extraction.Model,
		Temperature: &cfg.Extraction.Temperature,
		MaxTokens:   &cfg.Extraction.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating extraction model")
		return nil, errx.Configuration(err, "error creating extraction model")
	}

	analysisModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       cfg.Analysis.Model,
		Temperature: &cfg.Analysis.Temperature,
		MaxTokens:   &cfg.Analysis.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating analysis model")
		return nil, errx.Configuration(err, "error creating analysis model")
	}

	return &GeminiProviders{
		extraction:          extractionModel,
		analysis:            analysisModel,
		extractionTimeout:   extractionTimeout,
		analysisTimeout:     analysisTimeout,
		promptCfg:           cfg.Prompt,
		ExtractionModelName: cfg.Extraction.Model,
		AnalysisModelName:   cfg.Analysis.Model,
	}, nil
}

// ExtractionModel exposes the underlying chat model for graph composition.
func (g *GeminiProviders) ExtractionModel() *gemini.ChatModel {
	return g.extraction
}

// Extract sends the history and current state to the extraction model and
// returns its raw, untrusted reply. The call carries an explicit timeout; on
// expiry the error maps to the provider-transient kind so the dialogue
// manager can degrade the turn instead of dropping it.
func (g *GeminiProviders) Extract(ctx context.Context, req model.ExtractionRequest) ([]byte, error) {
	systemPrompt, err := prompts.RenderExtractionSystem(ctx, g.promptCfg)
	if err != nil {
		return nil, errx.Configuration(err, "render extraction prompt")
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, errx.Configuration(err, "marshal extraction request")
	}

	ctx, cancel := context.WithTimeout(ctx, g.extractionTimeout)
	defer cancel()

	out, err := g.extraction.Generate(ctx, []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(string(payload)),
	})
	if err != nil {
		return nil, wrapGenerateErr(err, "extraction call failed")
	}
	logUsage("extraction", g.ExtractionModelName, out)
	return []byte(out.Content), nil
}

// Analyze sends a rendered analysis prompt to the analysis model and returns
// its raw, untrusted reply.
func (g *GeminiProviders) Analyze(ctx context.Context, prompt string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, g.analysisTimeout)
	defer cancel()

	out, err := g.analysis.Generate(ctx, []*schema.Message{
		schema.UserMessage(prompt),
	})
	if err != nil {
		return nil, wrapGenerateErr(err, "analysis call failed")
	}
	logUsage("analysis", g.AnalysisModelName, out)
	return []byte(out.Content), nil
}

// wrapGenerateErr maps any Generate failure, timeout included, to the
// provider-transient kind; the caller's recovery path handles the rest.
func wrapGenerateErr(err error, message string) error {
	return errx.ProviderTransient(err, message)
}

func logUsage(node, modelName string, out *schema.Message) {
	if out == nil || out.ResponseMeta == nil || out.ResponseMeta.Usage == nil {
		return
	}
	pricing := model.ResolvePricing(modelName)
	inC, outC, totalC := model.ComputeCost(out.ResponseMeta.Usage, pricing)
	logx.Debug().
		Str("node", node).
		Str("model", modelName).
		Int("prompt_tokens", out.ResponseMeta.Usage.PromptTokens).
		Int("completion_tokens", out.ResponseMeta.Usage.CompletionTokens).
		Int("total_tokens", out.ResponseMeta.Usage.TotalTokens).
		Float64("input_cost_usd", inC).
		Float64("output_cost_usd", outC).
		Float64("total_cost_usd", totalC).
		Msg("LLM usage")
}

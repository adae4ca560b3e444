package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/nexsupply/sourcing-core/internal/copilot/graph"
	"github.com/nexsupply/sourcing-core/internal/copilot/model"
	"github.com/nexsupply/sourcing-core/internal/copilot/repo"
	"github.com/nexsupply/sourcing-core/internal/core"
	logx "github.com/nexsupply/sourcing-core/pkg/logger"
	pkgredis "github.com/nexsupply/sourcing-core/pkg/redis"
)

// AppConfig defines all configurable parameters for the copilot example,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"APP_ENV" default:"development"`

	// Infrastructure
	Redis pkgredis.Config

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Copilot configs
	Extraction   model.ExtractionModelConfig
	Analysis     model.AnalysisModelConfig
	Prompt       model.CopilotPromptConfig
	Conversation model.ConversationConfig
}

func main() {
	fmt.Println("Sourcing copilot demo...")
	ctx := context.Background()

	// Load .env file
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// Load structured config from env
	var envCfg AppConfig
	if err := envconfig.Process("", &envCfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	logx.Init(logx.LoggerOpts{Environment: core.ParseEnvironment(envCfg.Environment)})

	rdb, err := envCfg.Redis.New()
	if err != nil {
		log.Fatalf("Failed to initialise Redis client: %v", err)
	}
	defer rdb.Close()

	fmt.Println("Connected to Redis successfully")

	// ====================================================
	// Build graph config entirely from env
	ttl, err := time.ParseDuration(envCfg.Conversation.TTL)
	if err != nil {
		log.Fatalf("Invalid CONVERSATION_TTL '%s': %v", envCfg.Conversation.TTL, err)
	}

	cfg := graph.Config{
		APIKey:          envCfg.APIKey,
		BaseURL:         envCfg.BaseURL,
		ExtractionModel: envCfg.Extraction,
		AnalysisModel:   envCfg.Analysis,
		Prompt:          envCfg.Prompt,
		Conversation:    envCfg.Conversation,
		SessionRepo:     repo.NewRedisSessionRepository(rdb, ttl),
	}

	runner, err := graph.BuildTurnGraph(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to build graph: %v", err)
	}

	turns := []struct {
		description string
		message     string
	}{
		{
			description: "Product idea",
			message:     "I want to import wireless earbuds with noise cancellation",
		},
		{
			description: "Destination market",
			message:     "Selling in the US",
		},
		{
			description: "Sales channel",
			message:     "Amazon FBA",
		},
		{
			description: "Volume plan, completes the required fields",
			message:     "Starting with 500 units",
		},
	}

	sessionID := "demo-session-001"

	for i, turn := range turns {
		fmt.Printf("\nTurn %d: %s\n", i+1, turn.description)
		fmt.Printf("User: %q\n", turn.message)

		result, err := runner.Turn(ctx, model.TurnInput{
			SessionID: sessionID,
			Message:   turn.message,
		})
		if err != nil {
			log.Fatalf("Failed to run turn %d: %v", i+1, err)
		}

		fmt.Printf("Assistant: %s\n", result.AssistantMessage)
		if result.Analysis != nil {
			report, err := json.MarshalIndent(result.Analysis, "", "  ")
			if err != nil {
				log.Fatalf("Failed to render analysis report: %v", err)
			}
			fmt.Printf("\nAnalysis report:\n%s\n", report)
		}
		fmt.Println("────────────────────────────────────────────────")

		// add slight delay between turns for readability
		time.Sleep(500 * time.Millisecond)
	}

	fmt.Println("Demo completed")
}

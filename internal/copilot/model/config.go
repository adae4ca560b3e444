package model

// ================ Config ================
type ConversationConfig struct {
	TTL     string `envconfig:"CONVERSATION_TTL" default:"30m"`
	History struct {
		MaxTurns int `envconfig:"CONVERSATION_HISTORY_MAX_TURNS" default:"12"`
	}
}

type ExtractionModelConfig struct {
	Model       string  `envconfig:"EXTRACTION_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"EXTRACTION_MAX_TOKENS" default:"2000"`
	Temperature float32 `envconfig:"EXTRACTION_TEMPERATURE" default:"0.2"`
	Timeout     string  `envconfig:"EXTRACTION_TIMEOUT" default:"30s"`
}

type AnalysisModelConfig struct {
	Model       string  `envconfig:"ANALYSIS_MODEL" default:"gemini-2.5-pro"`
	MaxTokens   int     `envconfig:"ANALYSIS_MAX_TOKENS" default:"4000"`
	Temperature float32 `envconfig:"ANALYSIS_TEMPERATURE" default:"0.2"`
	Timeout     string  `envconfig:"ANALYSIS_TIMEOUT" default:"60s"`
}

type CopilotPromptConfig struct {
	BusinessName string `envconfig:"PROMPT_BUSINESS_NAME" default:"NexSupply"`
}

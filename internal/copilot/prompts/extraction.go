package prompts

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/nexsupply/sourcing-core/internal/copilot/model"
)

//go:embed template/extraction_prompt.txt
var extractionSystemPrompt string

// RenderExtractionSystem renders the extraction system prompt via the Eino
// prompt component. This triggers Prompt callbacks and returns the final
// system prompt string.
func RenderExtractionSystem(ctx context.Context, cfg model.CopilotPromptConfig) (string, error) {
	// Render known tokens with a plain replacer so the JSON braces in the
	// template cannot collide with template syntax.
	content := strings.NewReplacer(
		"{business_name}", cfg.BusinessName,
	).Replace(extractionSystemPrompt)

	// Wrap via Eino prompt component using a messages placeholder to emit callbacks
	tpl := prompt.FromMessages(
		schema.FString,
		schema.MessagesPlaceholder("system_messages", false),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"system_messages": []*schema.Message{schema.SystemMessage(content)},
	})
	if err != nil {
		return "", fmt.Errorf("extraction prompt callbacks: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("extraction prompt callbacks: empty result")
	}
	return msgs[0].Content, nil
}

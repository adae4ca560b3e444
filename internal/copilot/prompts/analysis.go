package prompts

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/nexsupply/sourcing-core/internal/copilot/model"
	"github.com/nexsupply/sourcing-core/internal/copilot/refdata"
)

//go:embed template/analysis_prompt.txt
var analysisPromptTemplate string

const notSpecified = "Not specified"

// RenderAnalysis renders the sourcing-expert analysis prompt for a project
// context, injecting the reference data fact sheet so the provider computes
// from facts instead of hallucinating rates.
func RenderAnalysis(ctx context.Context, userCtx model.UserContext, category string, volumeQty int, ref *refdata.Dataset) (string, error) {
	refJSON, err := json.MarshalIndent(ref, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal reference data: %w", err)
	}

	targetPrice := notSpecified
	if userCtx.TargetPrice > 0 {
		targetPrice = fmt.Sprintf("$%.2f", userCtx.TargetPrice)
	}
	origin := userCtx.Origin
	if origin == "" {
		origin = "China (default)"
	}

	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(analysisPromptTemplate),
	)
	vars := map[string]any{
		"ReferenceData": string(refJSON),
		"ProjectName":   userCtx.ProjectName,
		"TargetPrice":   targetPrice,
		"MaterialType":  orNotSpecified(userCtx.MaterialType),
		"SizeTier":      orNotSpecified(userCtx.SizeTier),
		"Volume":        orNotSpecified(userCtx.Volume),
		"VolumeQty":     volumeQty,
		"Timeline":      orNotSpecified(userCtx.Timeline),
		"Channel":       orNotSpecified(userCtx.Channel),
		"Market":        orNotSpecified(userCtx.Market),
		"Origin":        origin,
		"Category":      category,
		"RefLink":       userCtx.RefLink,
	}
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return "", fmt.Errorf("analysis prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("analysis prompt render: empty result")
	}
	return msgs[0].Content, nil
}

func orNotSpecified(v string) string {
	if v == "" {
		return notSpecified
	}
	return v
}

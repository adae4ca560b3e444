package prompts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexsupply/sourcing-core/internal/copilot/model"
	"github.com/nexsupply/sourcing-core/internal/copilot/refdata"
)

func TestRenderExtractionSystem(t *testing.T) {
	rendered, err := RenderExtractionSystem(context.Background(), model.CopilotPromptConfig{BusinessName: "NexSupply"})
	require.NoError(t, err)

	assert.Contains(t, rendered, "NexSupply")
	assert.NotContains(t, rendered, "{business_name}")
	// the enum vocabularies ship inside the prompt
	assert.Contains(t, rendered, "amazon_fba")
	assert.Contains(t, rendered, "main_risk_concern")
	assert.Contains(t, rendered, "ready_for_analysis")
}

func TestRenderAnalysis(t *testing.T) {
	ref := refdata.MustLoad()
	rendered, err := RenderAnalysis(context.Background(), model.UserContext{
		ProjectName: "wireless earbuds",
		TargetPrice: 49.99,
		Volume:      "500 units",
	}, "Electronics", 500, ref)
	require.NoError(t, err)

	assert.Contains(t, rendered, "wireless earbuds")
	assert.Contains(t, rendered, "$49.99")
	assert.Contains(t, rendered, "Electronics")
	// unset fields render as placeholders, origin gets the default lane
	assert.Contains(t, rendered, "Not specified")
	assert.Contains(t, rendered, "China (default)")
	// the embedded fact sheet rides along as JSON
	assert.Contains(t, rendered, "cogs_benchmarks")
	assert.Contains(t, rendered, "size_tier_multipliers")
}

func TestRenderAnalysis_RefLinkOptional(t *testing.T) {
	ref := refdata.MustLoad()

	withLink, err := RenderAnalysis(context.Background(), model.UserContext{
		ProjectName: "mug",
		RefLink:     "https://example.com/listing",
	}, "General", 100, ref)
	require.NoError(t, err)
	assert.Contains(t, withLink, "https://example.com/listing")

	withoutLink, err := RenderAnalysis(context.Background(), model.UserContext{ProjectName: "mug"}, "General", 100, ref)
	require.NoError(t, err)
	assert.NotContains(t, withoutLink, "example.com")
}

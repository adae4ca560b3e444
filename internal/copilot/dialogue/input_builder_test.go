package dialogue

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nexsupply/sourcing-core/internal/copilot/model"
)

// TestBuildAnalyzerInput_ProductIdeaOnly verifies the idempotence shortcut: a
// conversation holding nothing but the product idea yields exactly that text.
func TestBuildAnalyzerInput_ProductIdeaOnly(t *testing.T) {
	state := model.ConversationState{ProductIdea: "wireless earbuds"}
	assert.Equal(t, "wireless earbuds", BuildAnalyzerInput(&state))

	// optional extras do not break the shortcut while the other core slots stay empty
	state.Timeline = "Q3"
	assert.Equal(t, "wireless earbuds", BuildAnalyzerInput(&state))
}

func TestBuildAnalyzerInput_FullConversation(t *testing.T) {
	state := model.ConversationState{
		ProductIdea:     "wireless earbuds",
		ImportCountry:   "US",
		SalesChannel:    model.ChannelAmazonFBA,
		VolumePlan:      "500 units",
		MainRiskConcern: model.ConcernDuty,
	}
	got := BuildAnalyzerInput(&state)
	want := "Product idea: wireless earbuds. Importing to: US. Sales channel: amazon_fba. Volume plan: 500 units. Main risk concern: duty"
	assert.Equal(t, want, got)
}

func TestBuildAnalyzerInput_SkipsUnsetFields(t *testing.T) {
	state := model.ConversationState{
		ProductIdea:   "steel mug",
		ImportCountry: "Canada",
	}
	assert.Equal(t, "Product idea: steel mug. Importing to: Canada", BuildAnalyzerInput(&state))
}

func TestBuildAnalyzerInput_Empty(t *testing.T) {
	state := model.ConversationState{}
	assert.Equal(t, "No product description provided.", BuildAnalyzerInput(&state))
}

func TestBuildUserContext(t *testing.T) {
	state := model.ConversationState{
		ProductIdea:   "steel mug",
		ImportCountry: "US",
		SalesChannel:  model.ChannelAmazonFBA,
		VolumePlan:    "300 units",
		Timeline:      "Q2",
	}
	uc := BuildUserContext(&state)
	assert.Equal(t, "steel mug", uc.ProjectName)
	assert.Equal(t, "US", uc.Market)
	assert.Equal(t, model.ChannelAmazonFBA, uc.Channel)
	assert.Equal(t, "300 units", uc.Volume)
	assert.Equal(t, "Q2", uc.Timeline)
	assert.Zero(t, uc.TargetPrice)
}

package dialogue

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nexsupply/sourcing-core/internal/copilot/model"
)

func TestNextUnsetField_Order(t *testing.T) {
	state := model.ConversationState{}
	assert.Equal(t, model.FieldProductIdea, NextUnsetField(&state))

	state.ProductIdea = "mug"
	state.ImportCountry = "US"
	assert.Equal(t, model.FieldSalesChannel, NextUnsetField(&state))

	state.SalesChannel = model.ChannelShopify
	state.VolumePlan = "100"
	assert.Equal(t, model.FieldTimeline, NextUnsetField(&state), "optional fields follow the required ones")

	state.Timeline = "Q1"
	state.MainRiskConcern = model.ConcernDuty
	state.CertificationsNeeded = "none"
	state.ExtraNotes = "n/a"
	assert.Empty(t, NextUnsetField(&state))
}

func TestNextUnsetFieldAfter(t *testing.T) {
	state := model.ConversationState{
		ProductIdea:   "mug",
		ImportCountry: "US",
		SalesChannel:  model.ChannelShopify,
		VolumePlan:    "100",
		Timeline:      "Q1",
	}
	assert.Equal(t, model.FieldCertificationsNeeded, nextUnsetFieldAfter(&state, model.FieldMainRiskConcern))
	assert.Empty(t, nextUnsetFieldAfter(&state, model.FieldExtraNotes))
}

func TestCheckFocus(t *testing.T) {
	state := model.ConversationState{ProductIdea: "mug"}

	// valid proposal for an unset slot is honored
	assert.Equal(t, model.FieldVolumePlan, checkFocus(&state, model.FieldVolumePlan))
	// already-filled slot falls back to the ordering
	assert.Equal(t, model.FieldImportCountry, checkFocus(&state, model.FieldProductIdea))
	// unknown name falls back to the ordering
	assert.Equal(t, model.FieldImportCountry, checkFocus(&state, "shoe_size"))
	assert.Equal(t, model.FieldImportCountry, checkFocus(&state, ""))
}

func TestAnswerClassifiers(t *testing.T) {
	assert.True(t, isAffirmative("Yes"))
	assert.True(t, isAffirmative("  okay "))
	assert.False(t, isAffirmative("yes, 500 units"))

	assert.True(t, isSkipAnswer("Not sure"))
	assert.True(t, isSkipAnswer("no"))
	assert.True(t, isSkipAnswer("i don't know"))
	assert.False(t, isSkipAnswer("no certifications that I know of"))
}

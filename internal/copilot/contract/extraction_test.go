package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateExtraction_CleanResponse(t *testing.T) {
	raw := []byte(`{
		"assistant_message": "Got it. Where will you be importing to?",
		"filled_fields": ["product_idea"],
		"next_focus_field": "import_country",
		"state_updates": {"product_idea": "wireless earbuds"},
		"ready_for_analysis": false
	}`)

	resp, violations := ValidateExtraction(raw)
	require.Empty(t, violations)
	assert.Equal(t, "Got it. Where will you be importing to?", resp.AssistantMessage)
	assert.Equal(t, []string{"product_idea"}, resp.FilledFields)
	assert.Equal(t, "import_country", resp.NextFocusField)
	require.NotNil(t, resp.StateUpdates.ProductIdea)
	assert.Equal(t, "wireless earbuds", *resp.StateUpdates.ProductIdea)
	assert.False(t, resp.ReadyForAnalysis)
}

func TestValidateExtraction_FencedJSON(t *testing.T) {
	raw := []byte("```json\n{\"assistant_message\": \"ok\", \"state_updates\": {}, \"ready_for_analysis\": false}\n```")
	resp, violations := ValidateExtraction(raw)
	require.Empty(t, violations)
	assert.Equal(t, "ok", resp.AssistantMessage)
}

// TestValidateExtraction_NotJSON verifies malformed bodies degrade to an
// empty typed response plus violations, never an error or panic.
func TestValidateExtraction_NotJSON(t *testing.T) {
	resp, violations := ValidateExtraction([]byte("I think the product is great!"))
	require.NotNil(t, resp)
	assert.NotEmpty(t, violations)
	assert.Empty(t, resp.AssistantMessage)
	assert.False(t, resp.ReadyForAnalysis)
}

// TestValidateExtraction_PartialRecovery verifies per-field validation: the
// well-formed updates survive while the malformed ones are rejected
// individually.
func TestValidateExtraction_PartialRecovery(t *testing.T) {
	raw := []byte(`{
		"assistant_message": "Noted.",
		"state_updates": {
			"product_idea": "yoga mat",
			"volume_plan": 500,
			"favorite_color": "blue"
		},
		"ready_for_analysis": "yes"
	}`)

	resp, violations := ValidateExtraction(raw)

	require.NotNil(t, resp.StateUpdates.ProductIdea)
	assert.Equal(t, "yoga mat", *resp.StateUpdates.ProductIdea)
	assert.Nil(t, resp.StateUpdates.VolumePlan, "non-string update is rejected")
	assert.False(t, resp.ReadyForAnalysis, "non-boolean readiness degrades to false")

	fields := make([]string, 0, len(violations))
	for _, v := range violations {
		fields = append(fields, v.Field)
	}
	assert.Contains(t, fields, "state_updates.volume_plan")
	assert.Contains(t, fields, "state_updates.favorite_color")
	assert.Contains(t, fields, "ready_for_analysis")
}

func TestValidateExtraction_NullUpdateMeansNoUpdate(t *testing.T) {
	raw := []byte(`{
		"assistant_message": "ok",
		"state_updates": {"timeline": null},
		"ready_for_analysis": false
	}`)
	resp, violations := ValidateExtraction(raw)
	require.Empty(t, violations)
	assert.Nil(t, resp.StateUpdates.Timeline)
}

func TestValidateExtraction_UnknownFocusField(t *testing.T) {
	raw := []byte(`{
		"assistant_message": "ok",
		"next_focus_field": "shoe_size",
		"state_updates": {},
		"ready_for_analysis": false
	}`)
	resp, violations := ValidateExtraction(raw)
	assert.Empty(t, resp.NextFocusField)
	assert.NotEmpty(t, violations)
}

func TestValidateExtraction_MissingStateUpdates(t *testing.T) {
	raw := []byte(`{"assistant_message": "ok", "ready_for_analysis": false}`)
	resp, violations := ValidateExtraction(raw)
	require.NotNil(t, resp)
	assert.NotEmpty(t, violations)
	assert.Equal(t, "ok", resp.AssistantMessage)
}

func TestValidateExtraction_OversizedResponse(t *testing.T) {
	raw := make([]byte, maxContentLen+1)
	for i := range raw {
		raw[i] = 'a'
	}
	resp, violations := ValidateExtraction(raw)
	require.NotNil(t, resp)
	assert.NotEmpty(t, violations)
}

package dialogue

import (
	"strings"

	"github.com/nexsupply/sourcing-core/internal/copilot/model"
)

// BuildAnalyzerInput projects a finished conversation onto the free-text
// analysis input. When only the product idea is known the input degenerates
// to exactly that text, so a one-line description still yields a rough
// analysis; otherwise every set field is rendered as "Label: value" in fixed
// order, period-joined, with unset fields omitted entirely.
func BuildAnalyzerInput(state *model.ConversationState) string {
	if state.ProductIdea != "" && state.ImportCountry == "" && state.SalesChannel == "" && state.VolumePlan == "" {
		return state.ProductIdea
	}

	type labeled struct {
		label string
		value string
	}
	parts := []labeled{
		{"Product idea", state.ProductIdea},
		{"Importing to", state.ImportCountry},
		{"Sales channel", state.SalesChannel},
		{"Volume plan", state.VolumePlan},
		{"Timeline", state.Timeline},
		{"Main risk concern", state.MainRiskConcern},
		{"Certifications needed", state.CertificationsNeeded},
		{"Extra notes", state.ExtraNotes},
	}

	rendered := make([]string, 0, len(parts))
	for _, p := range parts {
		if p.value == "" {
			continue
		}
		rendered = append(rendered, p.label+": "+p.value)
	}
	if len(rendered) == 0 {
		return "No product description provided."
	}
	return strings.Join(rendered, ". ")
}

// BuildUserContext flattens the conversation into the analysis engine's
// structured input. Built once per analysis request; not persisted here.
func BuildUserContext(state *model.ConversationState) model.UserContext {
	return model.UserContext{
		ProjectName: state.ProductIdea,
		Volume:      state.VolumePlan,
		Timeline:    state.Timeline,
		Channel:     state.SalesChannel,
		Market:      state.ImportCountry,
	}
}

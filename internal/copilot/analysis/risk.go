package analysis

import (
	"fmt"

	"github.com/nexsupply/sourcing-core/internal/copilot/model"
)

// DutyRiskLevel bands a duty rate (percent) into a risk level. The reference
// bands are Low at exactly 0%, Medium at 6-10% and High at 16%+; rates
// falling between the named bands are treated as Medium, the conservative
// reading, so only a genuinely zero rate ever reads as Low.
func DutyRiskLevel(ratePct float64) model.Risk {
	switch {
	case ratePct == 0:
		return model.Risk{
			Level:  model.RiskLow,
			Reason: "Duty-free under the applicable HS classification",
		}
	case ratePct >= 16:
		return model.Risk{
			Level:  model.RiskHigh,
			Reason: fmt.Sprintf("High duty rate of %.1f%% significantly impacts landed cost", ratePct),
		}
	default:
		return model.Risk{
			Level:  model.RiskMedium,
			Reason: fmt.Sprintf("Duty rate of %.1f%% applies based on HS classification", ratePct),
		}
	}
}

// SupplierRiskLevel rates supplier risk from category complexity: electronics
// supply chains need component-level verification, everything else gets the
// standard vetting note.
func SupplierRiskLevel(category string) model.Risk {
	if category == "Electronics" {
		return model.Risk{
			Level:  model.RiskHigh,
			Reason: "Electronics supply chains require component-level supplier verification and functional QC",
		}
	}
	return model.Risk{
		Level:  model.RiskMedium,
		Reason: "Requires supplier verification and quality control",
	}
}

package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexsupply/sourcing-core/internal/copilot/model"
)

const validAnalysisJSON = `{
	"financials": {"estimated_landed_cost": 18.78, "estimated_margin_pct": 62.4, "net_profit": 31.21},
	"cost_breakdown": {"factory_exw": 12.5, "shipping": 3.5, "duty": 0.83, "packaging": 0.95, "insurance": 1.0},
	"scale_analysis": [
		{"qty": 100, "mode": "Air", "unit_cost": 18.78, "margin": 62.4},
		{"qty": 1000, "mode": "Sea", "unit_cost": 15.28, "margin": 69.4}
	],
	"risks": {
		"duty": {"level": "Low", "reason": "Standard duty rate applies"},
		"supplier": {"level": "Medium", "reason": "Requires supplier verification"},
		"compliance": {"level": "High", "reason": "FCC required", "cost": 1000}
	},
	"executive_summary": "Landed cost is $18.78 per unit."
}`

func TestValidateAnalysis_Valid(t *testing.T) {
	result, violations := ValidateAnalysis([]byte(validAnalysisJSON))
	require.Empty(t, violations)
	require.NotNil(t, result)
	assert.InDelta(t, 18.78, result.Financials.EstimatedLandedCost, 1e-9)
	assert.InDelta(t, 12.5, result.CostBreakdown.FactoryEXW, 1e-9)
	require.Len(t, result.ScaleAnalysis, 2)
	assert.Equal(t, model.ModeSea, result.ScaleAnalysis[1].Mode)
	assert.Equal(t, model.RiskHigh, result.Risks.Compliance.Level)
	assert.InDelta(t, 1000, result.Risks.Compliance.Cost, 1e-9)
}

// TestValidateAnalysis_AllOrNothing verifies a report with any violation is
// discarded entirely: the typed result is nil, not partially filled.
func TestValidateAnalysis_AllOrNothing(t *testing.T) {
	raw := []byte(`{
		"financials": {"estimated_landed_cost": "a lot", "estimated_margin_pct": 10, "net_profit": 5},
		"cost_breakdown": {"factory_exw": 1, "shipping": 1, "duty": 0, "packaging": 1, "insurance": 1},
		"scale_analysis": [
			{"qty": 100, "mode": "Air", "unit_cost": 4, "margin": 10},
			{"qty": 1000, "mode": "Sea", "unit_cost": 3, "margin": 17}
		],
		"risks": {
			"duty": {"level": "Low", "reason": "x"},
			"supplier": {"level": "Medium", "reason": "x"},
			"compliance": {"level": "Low", "reason": "x", "cost": 0}
		},
		"executive_summary": "s"
	}`)
	result, violations := ValidateAnalysis(raw)
	assert.Nil(t, result)
	assert.NotEmpty(t, violations)
}

func TestValidateAnalysis_NotJSON(t *testing.T) {
	result, violations := ValidateAnalysis([]byte("the margin looks healthy"))
	assert.Nil(t, result)
	assert.NotEmpty(t, violations)
}

func TestCheckResult(t *testing.T) {
	good, violations := ValidateAnalysis([]byte(validAnalysisJSON))
	require.Empty(t, violations)
	assert.Empty(t, CheckResult(good))

	bad := *good
	bad.ScaleAnalysis = []model.ScalePoint{{Qty: 0, Mode: "Truck", UnitCost: 1, Margin: 1}}
	vs := CheckResult(&bad)
	fields := make([]string, 0, len(vs))
	for _, v := range vs {
		fields = append(fields, v.Field)
	}
	assert.Contains(t, fields, "scale_analysis")
	assert.Contains(t, fields, "scale_analysis[0].mode")
	assert.Contains(t, fields, "scale_analysis[0].qty")

	assert.NotEmpty(t, CheckResult(nil))
}

package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexsupply/sourcing-core/internal/copilot/contract"
	"github.com/nexsupply/sourcing-core/internal/copilot/model"
)

// TestFallback_Electronics pins the fixed-assumption report for an
// electronics product at the default price point: factory cost is 25% of the
// target price, and the compliance block carries the FCC budget.
func TestFallback_Electronics(t *testing.T) {
	result := Fallback(model.UserContext{
		ProjectName:  "smart speaker",
		TargetPrice:  49.99,
		MaterialType: "Electronics / Battery",
	})
	require.NotNil(t, result)

	assert.InDelta(t, 12.50, result.CostBreakdown.FactoryEXW, 0.01)
	assert.InDelta(t, 3.50, result.CostBreakdown.Shipping, 1e-9)
	assert.InDelta(t, 0.83, result.CostBreakdown.Duty, 1e-9)
	assert.InDelta(t, 0.95, result.CostBreakdown.Packaging, 1e-9)
	assert.InDelta(t, 1.00, result.CostBreakdown.Insurance, 1e-9)
	assert.InDelta(t, 18.78, result.Financials.EstimatedLandedCost, 0.01)
	assert.InDelta(t, 31.21, result.Financials.NetProfit, 0.01)
	assert.InDelta(t, 62.43, result.Financials.EstimatedMarginPct, 0.01)

	require.Len(t, result.ScaleAnalysis, 2)
	assert.Equal(t, 100, result.ScaleAnalysis[0].Qty)
	assert.Equal(t, model.ModeAir, result.ScaleAnalysis[0].Mode)
	assert.Equal(t, 1000, result.ScaleAnalysis[1].Qty)
	assert.Equal(t, model.ModeSea, result.ScaleAnalysis[1].Mode)
	assert.InDelta(t, result.ScaleAnalysis[0].UnitCost-3.50, result.ScaleAnalysis[1].UnitCost, 1e-9)
	assert.InDelta(t, result.ScaleAnalysis[0].Margin+7, result.ScaleAnalysis[1].Margin, 1e-9)

	assert.Equal(t, model.RiskLow, result.Risks.Duty.Level)
	assert.Equal(t, model.RiskMedium, result.Risks.Supplier.Level)
	assert.Equal(t, model.RiskHigh, result.Risks.Compliance.Level)
	assert.InDelta(t, 1000, result.Risks.Compliance.Cost, 1e-9)
	assert.Contains(t, result.ExecutiveSummary, "FCC")
}

func TestFallback_NonElectronics(t *testing.T) {
	result := Fallback(model.UserContext{ProjectName: "steel mug", TargetPrice: 20})
	assert.Equal(t, model.RiskMedium, result.Risks.Compliance.Level)
	assert.InDelta(t, 500, result.Risks.Compliance.Cost, 1e-9)
	assert.InDelta(t, 5.00, result.CostBreakdown.FactoryEXW, 0.01)
}

// TestFallback_DefaultPrice covers the empty user context: the report is
// still complete and contract-clean.
func TestFallback_DefaultPrice(t *testing.T) {
	result := Fallback(model.UserContext{})
	require.NotNil(t, result)
	assert.InDelta(t, 49.99*0.25, result.CostBreakdown.FactoryEXW, 0.01)
	assert.NotEmpty(t, result.ExecutiveSummary)
	assert.Empty(t, contract.CheckResult(result))
}

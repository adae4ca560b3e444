package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexsupply/sourcing-core/internal/copilot/contract"
	"github.com/nexsupply/sourcing-core/internal/copilot/model"
	"github.com/nexsupply/sourcing-core/internal/copilot/refdata"
)

// TestEstimate_Electronics runs the deterministic path on a priced
// electronics product and checks every number against the reference data:
// COGS from the 30% benchmark with the 1.35 battery multiplier, air freight
// for 500 units at the S tier, duty-free HS 851830 from China, Amazon
// referral fees in the margin, FCC+UL in the compliance budget.
func TestEstimate_Electronics(t *testing.T) {
	ref := refdata.MustLoad()
	result := Estimate(model.UserContext{
		ProjectName:  "wireless earbuds",
		TargetPrice:  49.99,
		MaterialType: "Electronics / Battery",
		Volume:       "500 units",
		Channel:      model.ChannelAmazonFBA,
		Market:       "US",
	}, ref)
	require.NotNil(t, result)

	// 49.99 * 30% * 1.35
	assert.InDelta(t, 20.25, result.CostBreakdown.FactoryEXW, 0.01)
	// air, S tier: 5.5 per kg * 0.5 kg
	assert.InDelta(t, 2.75, result.CostBreakdown.Shipping, 0.01)
	// HS 851830 from China is duty free
	assert.InDelta(t, 0, result.CostBreakdown.Duty, 1e-9)
	assert.InDelta(t, 0.95, result.CostBreakdown.Packaging, 1e-9)
	assert.InDelta(t, 1.00, result.CostBreakdown.Insurance, 1e-9)
	assert.InDelta(t, 24.95, result.Financials.EstimatedLandedCost, 0.01)

	require.Len(t, result.ScaleAnalysis, 2)
	assert.Equal(t, 500, result.ScaleAnalysis[0].Qty)
	assert.Equal(t, model.ModeAir, result.ScaleAnalysis[0].Mode)
	assert.Equal(t, 5000, result.ScaleAnalysis[1].Qty)
	assert.Equal(t, model.ModeSea, result.ScaleAnalysis[1].Mode)
	assert.Less(t, result.ScaleAnalysis[1].UnitCost, result.ScaleAnalysis[0].UnitCost, "sea freight is cheaper at scale")

	assert.Equal(t, model.RiskLow, result.Risks.Duty.Level)
	assert.Equal(t, model.RiskHigh, result.Risks.Supplier.Level)
	assert.Equal(t, model.RiskHigh, result.Risks.Compliance.Level)
	// FCC 1000 + UL 4500
	assert.InDelta(t, 5500, result.Risks.Compliance.Cost, 1e-9)

	assert.Empty(t, contract.CheckResult(result))
}

// TestEstimate_UnpricedGeneralProduct covers the sparse-context path: no
// price, no material, unknown category. The report falls back to benchmark
// factory cost and implied retail and is still contract-clean.
func TestEstimate_UnpricedGeneralProduct(t *testing.T) {
	ref := refdata.MustLoad()
	result := Estimate(model.UserContext{ProjectName: "garden gnome"}, ref)
	require.NotNil(t, result)

	// General benchmark avg factory cost, multiplier 1.0
	assert.InDelta(t, 5.0, result.CostBreakdown.FactoryEXW, 0.01)
	// no channel, so no referral fees; margin comes from implied retail
	assert.Greater(t, result.Financials.EstimatedMarginPct, 0.0)
	assert.Equal(t, DefaultVolumeQty, result.ScaleAnalysis[0].Qty)
	assert.Empty(t, contract.CheckResult(result))
}

// TestEstimate_FashionHighDuty verifies the high-tariff path: HS 420292 at
// 17.6% from China flags duty risk High.
func TestEstimate_FashionHighDuty(t *testing.T) {
	ref := refdata.MustLoad()
	result := Estimate(model.UserContext{
		ProjectName: "travel backpack",
		TargetPrice: 60,
		Volume:      "2000 units",
	}, ref)

	assert.Equal(t, model.RiskHigh, result.Risks.Duty.Level)
	assert.Equal(t, model.ModeSea, result.ScaleAnalysis[0].Mode)
	assert.Greater(t, result.CostBreakdown.Duty, 0.0)
}

func TestRouteFor(t *testing.T) {
	assert.Equal(t, "vietnam_to_us_west_coast", routeFor("Vietnam"))
	assert.Equal(t, "korea_to_us_west_coast", routeFor("South Korea"))
	assert.Equal(t, refdata.DefaultRoute, routeFor("China"))
	assert.Equal(t, refdata.DefaultRoute, routeFor(""))
}

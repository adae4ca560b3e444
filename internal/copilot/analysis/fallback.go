package analysis

import (
	"fmt"
	"strings"

	"github.com/nexsupply/sourcing-core/internal/copilot/model"
)

// Fixed assumptions for the last-resort report. These are deliberately
// conservative round numbers, not reference-data lookups, so the fallback
// stays valid even when the datasets cannot be trusted.
const (
	fallbackTargetPrice    = 49.99
	fallbackFactoryRatio   = 0.25
	fallbackShippingAir    = 3.50
	fallbackDuty           = 0.83
	fallbackPackaging      = 0.95
	fallbackInsurance      = 1.00
	fallbackSeaSavings     = 3.50
	fallbackSeaMarginBoost = 7.0

	fallbackComplianceCostHigh = 1000.0
	fallbackComplianceCostStd  = 500.0
)

// Fallback produces a complete rough-order-of-magnitude report from the user
// context alone. It never fails and never returns a partial result, so
// callers can hand it to the user whenever the provider path breaks down.
func Fallback(userCtx model.UserContext) *model.AnalysisResult {
	price := userCtx.TargetPrice
	if price <= 0 {
		price = fallbackTargetPrice
	}

	factory := round2(price * fallbackFactoryRatio)
	landed := round2(factory + fallbackShippingAir + fallbackDuty + fallbackPackaging + fallbackInsurance)
	net := round2(price - landed)
	margin := round2(net / price * 100)

	seaLanded := round2(landed - fallbackSeaSavings)
	seaMargin := round2(margin + fallbackSeaMarginBoost)

	compliance := model.ComplianceRisk{
		Level:  model.RiskMedium,
		Reason: "Standard compliance checks needed",
		Cost:   fallbackComplianceCostStd,
	}
	if isElectronicsMaterial(userCtx.MaterialType) {
		compliance = model.ComplianceRisk{
			Level:  model.RiskHigh,
			Reason: "FCC certification required for electronics in US market",
			Cost:   fallbackComplianceCostHigh,
		}
	}

	name := userCtx.ProjectName
	if name == "" {
		name = "your product"
	}
	closing := "Proceed with standard compliance checks."
	if compliance.Level == model.RiskHigh {
		closing = "FCC certification required - budget $1,000."
	}

	return &model.AnalysisResult{
		Financials: model.Financials{
			EstimatedLandedCost: landed,
			EstimatedMarginPct:  margin,
			NetProfit:           net,
		},
		CostBreakdown: model.CostBreakdown{
			FactoryEXW: factory,
			Shipping:   fallbackShippingAir,
			Duty:       fallbackDuty,
			Packaging:  fallbackPackaging,
			Insurance:  fallbackInsurance,
		},
		ScaleAnalysis: []model.ScalePoint{
			{Qty: 100, Mode: model.ModeAir, UnitCost: landed, Margin: margin},
			{Qty: 1000, Mode: model.ModeSea, UnitCost: seaLanded, Margin: seaMargin},
		},
		Risks: model.Risks{
			Duty: model.Risk{
				Level:  model.RiskLow,
				Reason: "Standard duty rate applies based on material type",
			},
			Supplier: model.Risk{
				Level:  model.RiskMedium,
				Reason: "Requires supplier verification and quality control",
			},
			Compliance: compliance,
		},
		ExecutiveSummary: fmt.Sprintf(
			"Based on your project %q, estimated landed cost is $%.2f per unit with %.1f%% margin. %s",
			name, landed, margin, closing,
		),
	}
}

func isElectronicsMaterial(materialType string) bool {
	mt := strings.ToLower(materialType)
	return strings.Contains(mt, "electronics") || strings.Contains(mt, "battery")
}

package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/nexsupply/sourcing-core/internal/copilot/model"
	"github.com/nexsupply/sourcing-core/internal/copilot/refdata"
)

// Fixed per-unit allowances the estimator does not derive from reference data.
const (
	estPackaging = 0.95
	estInsurance = 1.00
)

// Estimate computes a landed-cost/risk report straight from the reference
// datasets, with no provider in the loop. It follows the same calculation
// logic the analysis prompt instructs the provider to follow: COGS from the
// category benchmark, freight from route and size tier, duty from the tariff
// table, compliance from the material requirements.
func Estimate(userCtx model.UserContext, ref *refdata.Dataset) *model.AnalysisResult {
	category := InferCategory(userCtx.ProjectName, userCtx.MaterialType)
	material := MaterialHint(userCtx.MaterialType, category)
	bench := ref.COGSBenchmark(category)
	multiplier := ref.MaterialMultiplier(material)

	var factory float64
	if userCtx.TargetPrice > 0 {
		factory = userCtx.TargetPrice * bench.FactoryMarginPct / 100 * multiplier
	} else {
		factory = bench.AvgFactoryCost * multiplier
	}

	route := ref.Route(routeFor(userCtx.Origin))
	tier, ok := ref.SizeTier(userCtx.SizeTier)
	if !ok {
		// shoe-box sized product when the user never said
		tier, _ = ref.SizeTier("S")
	}
	shippingFor := func(qty int) (string, float64) {
		if FreightMode(qty) == model.ModeSea {
			return model.ModeSea, route.SeaLCL.PerCBM * tier.VolumeCBM
		}
		return model.ModeAir, route.Air.PerKg * tier.WeightKg
	}

	qty := ParseVolumeQty(userCtx.Volume)
	mode, shipping := shippingFor(qty)

	dutyRate := ref.DefaultTariffRate(material)
	if hs := InferHSCode(category); hs != "" {
		if rate, found := ref.TariffRate(hs, userCtx.Origin); found {
			dutyRate = rate
		}
	}
	duty := factory * dutyRate / 100

	landed := factory + shipping + duty + estPackaging + estInsurance

	price := userCtx.TargetPrice
	if price <= 0 {
		// implied retail from the category's factory-margin benchmark
		price = factory / (bench.FactoryMarginPct / 100)
	}
	var channelFees float64
	if userCtx.Channel == model.ChannelAmazonFBA {
		channelFees = price * ref.AmazonReferralFee(category) / 100
	}
	marginFor := func(unitCost float64) (net, marginPct float64) {
		net = price - unitCost - channelFees
		return net, net / price * 100
	}
	net, margin := marginFor(landed)

	scaleQty := qty * 10
	scaleMode, scaleShipping := shippingFor(scaleQty)
	scaleLanded := factory + scaleShipping + duty + estPackaging + estInsurance
	_, scaleMargin := marginFor(scaleLanded)

	comp := ref.ComplianceFor(material)
	compliance := model.ComplianceRisk{
		Level:  comp.RiskLevel,
		Reason: "Standard compliance checks needed",
		Cost:   round2(comp.TotalCost),
	}
	if compliance.Level == "" {
		compliance.Level = model.RiskLow
	}
	if len(comp.Certifications) > 0 {
		compliance.Reason = fmt.Sprintf("%s certification required for the target market", strings.Join(comp.Certifications, " and "))
	}

	result := &model.AnalysisResult{
		Financials: model.Financials{
			EstimatedLandedCost: round2(landed),
			EstimatedMarginPct:  round2(margin),
			NetProfit:           round2(net),
		},
		CostBreakdown: model.CostBreakdown{
			FactoryEXW: round2(factory),
			Shipping:   round2(shipping),
			Duty:       round2(duty),
			Packaging:  estPackaging,
			Insurance:  estInsurance,
		},
		ScaleAnalysis: []model.ScalePoint{
			{Qty: qty, Mode: mode, UnitCost: round2(landed), Margin: round2(margin)},
			{Qty: scaleQty, Mode: scaleMode, UnitCost: round2(scaleLanded), Margin: round2(scaleMargin)},
		},
		Risks: model.Risks{
			Duty:       DutyRiskLevel(dutyRate),
			Supplier:   SupplierRiskLevel(category),
			Compliance: compliance,
		},
		ExecutiveSummary: fmt.Sprintf(
			"Estimated landed cost for %q is $%.2f per unit at %d units (%s freight) with a %.1f%% margin. Duty rate %.1f%%; compliance risk %s.",
			userCtx.ProjectName, round2(landed), qty, mode, round2(margin), dutyRate, compliance.Level,
		),
	}
	return result
}

// routeFor maps a free-form sourcing origin onto a freight route key.
func routeFor(origin string) string {
	o := strings.ToLower(origin)
	switch {
	case strings.Contains(o, "vietnam"):
		return "vietnam_to_us_west_coast"
	case strings.Contains(o, "korea"):
		return "korea_to_us_west_coast"
	default:
		return refdata.DefaultRoute
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

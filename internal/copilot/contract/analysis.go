package contract

import (
	"encoding/json"
	"fmt"

	"github.com/nexsupply/sourcing-core/internal/copilot/model"
	logx "github.com/nexsupply/sourcing-core/pkg/logger"
)

// ValidateAnalysis checks a raw analysis-provider response against the report
// schema. Unlike extraction, a financial report is all-or-nothing: any
// violation means the caller must discard the candidate and fall back to the
// deterministic analyzer rather than return a partially-validated report.
func ValidateAnalysis(raw []byte) (result *model.AnalysisResult, violations Violations) {
	defer func() {
		if r := recover(); r != nil {
			logx.Error().Str("component", "contract").Msgf("panic recovered: %v", r)
			result = nil
			violations = Violations{{Reason: "validator panic"}}
		}
	}()

	if len(raw) > maxContentLen {
		return nil, Violations{{Reason: "response too large"}}
	}

	var m map[string]any
	if err := json.Unmarshal([]byte(stripFences(string(raw))), &m); err != nil {
		return nil, Violations{{Reason: fmt.Sprintf("not a json object: %s", safeSnippet(string(raw)))}}
	}

	result = &model.AnalysisResult{}

	if fin, ok := getObject(m, "financials"); ok {
		result.Financials.EstimatedLandedCost = requireNumber(fin, "financials.estimated_landed_cost", "estimated_landed_cost", &violations)
		result.Financials.EstimatedMarginPct = requireNumber(fin, "financials.estimated_margin_pct", "estimated_margin_pct", &violations)
		result.Financials.NetProfit = requireNumber(fin, "financials.net_profit", "net_profit", &violations)
	} else {
		violations.add("financials", "missing or not an object")
	}

	if cb, ok := getObject(m, "cost_breakdown"); ok {
		result.CostBreakdown.FactoryEXW = requireNumber(cb, "cost_breakdown.factory_exw", "factory_exw", &violations)
		result.CostBreakdown.Shipping = requireNumber(cb, "cost_breakdown.shipping", "shipping", &violations)
		result.CostBreakdown.Duty = requireNumber(cb, "cost_breakdown.duty", "duty", &violations)
		result.CostBreakdown.Packaging = requireNumber(cb, "cost_breakdown.packaging", "packaging", &violations)
		result.CostBreakdown.Insurance = requireNumber(cb, "cost_breakdown.insurance", "insurance", &violations)
	} else {
		violations.add("cost_breakdown", "missing or not an object")
	}

	if arr, ok := getArray(m, "scale_analysis"); ok {
		for i, e := range arr {
			point, ok := e.(map[string]any)
			if !ok {
				violations.add(fmt.Sprintf("scale_analysis[%d]", i), "not an object")
				continue
			}
			sp := model.ScalePoint{
				Qty:      int(requireNumber(point, fmt.Sprintf("scale_analysis[%d].qty", i), "qty", &violations)),
				UnitCost: requireNumber(point, fmt.Sprintf("scale_analysis[%d].unit_cost", i), "unit_cost", &violations),
				Margin:   requireNumber(point, fmt.Sprintf("scale_analysis[%d].margin", i), "margin", &violations),
			}
			if mode, ok := getString(point, "mode"); ok && (mode == model.ModeAir || mode == model.ModeSea) {
				sp.Mode = mode
			} else {
				violations.add(fmt.Sprintf("scale_analysis[%d].mode", i), "not Air or Sea")
			}
			result.ScaleAnalysis = append(result.ScaleAnalysis, sp)
		}
	} else {
		violations.add("scale_analysis", "missing or not an array")
	}

	if risks, ok := getObject(m, "risks"); ok {
		result.Risks.Duty = requireRisk(risks, "duty", &violations)
		result.Risks.Supplier = requireRisk(risks, "supplier", &violations)
		if comp, ok := getObject(risks, "compliance"); ok {
			r := riskFields(comp, "risks.compliance", &violations)
			result.Risks.Compliance = model.ComplianceRisk{
				Level:  r.Level,
				Reason: r.Reason,
				Cost:   requireNumber(comp, "risks.compliance.cost", "cost", &violations),
			}
		} else {
			violations.add("risks.compliance", "missing or not an object")
		}
	} else {
		violations.add("risks", "missing or not an object")
	}

	if summary, ok := getString(m, "executive_summary"); ok && summary != "" {
		result.ExecutiveSummary = summary
	} else {
		violations.add("executive_summary", "missing or not a string")
	}

	violations = append(violations, CheckResult(result)...)

	if len(violations) > 0 {
		return nil, violations
	}
	return result, nil
}

// CheckResult validates an already-typed report before it leaves the engine:
// risk levels in vocabulary, scale points in Air/Sea, and at least two
// scenarios so the report always shows a scaling path.
func CheckResult(r *model.AnalysisResult) Violations {
	var violations Violations
	if r == nil {
		violations.add("", "nil result")
		return violations
	}
	if len(r.ScaleAnalysis) < 2 {
		violations.add("scale_analysis", "fewer than two scenarios")
	}
	for i, sp := range r.ScaleAnalysis {
		if sp.Mode != model.ModeAir && sp.Mode != model.ModeSea {
			violations.add(fmt.Sprintf("scale_analysis[%d].mode", i), "not Air or Sea")
		}
		if sp.Qty <= 0 {
			violations.add(fmt.Sprintf("scale_analysis[%d].qty", i), "not positive")
		}
	}
	for field, level := range map[string]string{
		"risks.duty.level":       r.Risks.Duty.Level,
		"risks.supplier.level":   r.Risks.Supplier.Level,
		"risks.compliance.level": r.Risks.Compliance.Level,
	} {
		if level != model.RiskLow && level != model.RiskMedium && level != model.RiskHigh {
			violations.add(field, "not Low/Medium/High")
		}
	}
	return violations
}

func requireNumber(m map[string]any, field, key string, violations *Violations) float64 {
	f, ok := getNumber(m, key)
	if !ok {
		violations.add(field, "missing or not a number")
		return 0
	}
	return f
}

func requireRisk(m map[string]any, key string, violations *Violations) model.Risk {
	obj, ok := getObject(m, key)
	if !ok {
		violations.add("risks."+key, "missing or not an object")
		return model.Risk{}
	}
	return riskFields(obj, "risks."+key, violations)
}

func riskFields(m map[string]any, field string, violations *Violations) model.Risk {
	var r model.Risk
	if level, ok := getString(m, "level"); ok {
		r.Level = level
	} else {
		violations.add(field+".level", "missing or not a string")
	}
	if reason, ok := getString(m, "reason"); ok && reason != "" {
		r.Reason = reason
	} else {
		violations.add(field+".reason", "missing or not a string")
	}
	return r
}

package model

// UserContext is the flattened analysis input built from a finished
// conversation (or supplied pre-structured by a caller). Immutable once built.
type UserContext struct {
	ProjectName  string  `json:"project_name"`
	TargetPrice  float64 `json:"target_price,omitempty"`
	MaterialType string  `json:"material_type,omitempty"`
	SizeTier     string  `json:"size_tier,omitempty"`
	RefLink      string  `json:"ref_link,omitempty"`
	Volume       string  `json:"volume,omitempty"`
	Timeline     string  `json:"timeline,omitempty"`
	Channel      string  `json:"channel,omitempty"`
	Market       string  `json:"market,omitempty"`
	Origin       string  `json:"origin,omitempty"`
}

// Freight modes.
const (
	ModeAir = "Air"
	ModeSea = "Sea"
)

// Risk levels.
const (
	RiskLow    = "Low"
	RiskMedium = "Medium"
	RiskHigh   = "High"
)

// Financials summarizes the per-unit economics of the sourcing plan.
type Financials struct {
	EstimatedLandedCost float64 `json:"estimated_landed_cost"`
	EstimatedMarginPct  float64 `json:"estimated_margin_pct"`
	NetProfit           float64 `json:"net_profit"`
}

// CostBreakdown itemizes the landed cost per unit.
type CostBreakdown struct {
	FactoryEXW float64 `json:"factory_exw"`
	Shipping   float64 `json:"shipping"`
	Duty       float64 `json:"duty"`
	Packaging  float64 `json:"packaging"`
	Insurance  float64 `json:"insurance"`
}

// ScalePoint is one volume scenario in the scale analysis.
type ScalePoint struct {
	Qty      int     `json:"qty"`
	Mode     string  `json:"mode"`
	UnitCost float64 `json:"unit_cost"`
	Margin   float64 `json:"margin"`
}

// Risk is a leveled risk with a human-readable reason.
type Risk struct {
	Level  string `json:"level"`
	Reason string `json:"reason"`
}

// ComplianceRisk adds the estimated certification cost to a leveled risk.
type ComplianceRisk struct {
	Level  string  `json:"level"`
	Reason string  `json:"reason"`
	Cost   float64 `json:"cost"`
}

// Risks groups the three risk dimensions of the report.
type Risks struct {
	Duty       Risk           `json:"duty"`
	Supplier   Risk           `json:"supplier"`
	Compliance ComplianceRisk `json:"compliance"`
}

// AnalysisResult is the validated landed-cost/risk report. Created fresh per
// analysis call and never mutated afterward.
type AnalysisResult struct {
	Financials       Financials    `json:"financials"`
	CostBreakdown    CostBreakdown `json:"cost_breakdown"`
	ScaleAnalysis    []ScalePoint  `json:"scale_analysis"`
	Risks            Risks         `json:"risks"`
	ExecutiveSummary string        `json:"executive_summary"`
}

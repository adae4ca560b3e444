// Package refdata is the read-only reference data store behind the cost and
// risk analysis engine: cost benchmarks by category, freight rates by
// route/size-tier/mode, tariff rates by HS code with material defaults,
// compliance certification costs, and Amazon fee tables. The documents are
// embedded, versioned by the data owner, loaded once per process and safe to
// share across all sessions without locking.
package refdata

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
)

//go:embed data/cogs_benchmarks.json
var cogsBenchmarksRaw []byte

//go:embed data/freight_rates.json
var freightRatesRaw []byte

//go:embed data/tariff_rates.json
var tariffRatesRaw []byte

//go:embed data/compliance_costs.json
var complianceCostsRaw []byte

//go:embed data/amazon_fees.json
var amazonFeesRaw []byte

// DefaultRoute is assumed when the caller gives no sourcing origin.
const DefaultRoute = "china_to_us_west_coast"

type CategoryBenchmark struct {
	FactoryMarginPct float64 `json:"factory_margin_pct"`
	AvgFactoryCost   float64 `json:"avg_factory_cost"`
}

type COGSBenchmarks struct {
	Version                 string                       `json:"version"`
	Categories              map[string]CategoryBenchmark `json:"categories"`
	MaterialCostMultipliers map[string]float64           `json:"material_cost_multipliers"`
}

type AirRate struct {
	PerKg       float64 `json:"per_kg"`
	TransitDays int     `json:"transit_days"`
}

type SeaLCLRate struct {
	PerCBM      float64 `json:"per_cbm"`
	TransitDays int     `json:"transit_days"`
}

type SeaFCLRate struct {
	PerContainer40ft float64 `json:"per_container_40ft"`
	TransitDays      int     `json:"transit_days"`
}

type RouteRates struct {
	Air    AirRate    `json:"air"`
	SeaLCL SeaLCLRate `json:"sea_lcl"`
	SeaFCL SeaFCLRate `json:"sea_fcl"`
}

type SizeTier struct {
	Label     string  `json:"label"`
	WeightKg  float64 `json:"weight_kg"`
	VolumeCBM float64 `json:"volume_cbm"`
}

type FreightRates struct {
	Version             string                `json:"version"`
	Routes              map[string]RouteRates `json:"routes"`
	SizeTierMultipliers map[string]SizeTier   `json:"size_tier_multipliers"`
}

type TariffEntry struct {
	Description string             `json:"description"`
	ByOrigin    map[string]float64 `json:"by_origin"`
}

type TariffRates struct {
	Version      string                 `json:"version"`
	Rates        map[string]TariffEntry `json:"rates"`
	DefaultRates map[string]float64     `json:"default_rates"`
}

type CostRange struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Average float64 `json:"average"`
}

type Certification struct {
	CostRange CostRange `json:"cost_range"`
	LeadWeeks int       `json:"lead_weeks"`
}

type MaterialRequirement struct {
	Certifications []string `json:"certifications"`
	RiskLevel      string   `json:"risk_level"`
}

type ComplianceCosts struct {
	Version                   string                         `json:"version"`
	Certifications            map[string]Certification       `json:"certifications"`
	MaterialBasedRequirements map[string]MaterialRequirement `json:"material_based_requirements"`
}

type AmazonFees struct {
	Version        string             `json:"version"`
	ReferralFees   map[string]float64 `json:"referral_fees"`
	FBAFulfillment map[string]float64 `json:"fba_fulfillment"`
}

// Dataset bundles all reference documents for one analysis call.
type Dataset struct {
	COGSBenchmarks  COGSBenchmarks  `json:"cogs_benchmarks"`
	FreightRates    FreightRates    `json:"freight_rates"`
	TariffRates     TariffRates     `json:"tariff_rates"`
	ComplianceCosts ComplianceCosts `json:"compliance_costs"`
	AmazonFees      AmazonFees      `json:"amazon_fees"`
}

var (
	loadOnce sync.Once
	loaded   *Dataset
	loadErr  error
)

// Load parses the embedded documents once and returns the shared dataset.
func Load() (*Dataset, error) {
	loadOnce.Do(func() {
		d := &Dataset{}
		for _, doc := range []struct {
			name string
			raw  []byte
			into any
		}{
			{"cogs_benchmarks", cogsBenchmarksRaw, &d.COGSBenchmarks},
			{"freight_rates", freightRatesRaw, &d.FreightRates},
			{"tariff_rates", tariffRatesRaw, &d.TariffRates},
			{"compliance_costs", complianceCostsRaw, &d.ComplianceCosts},
			{"amazon_fees", amazonFeesRaw, &d.AmazonFees},
		} {
			if err := json.Unmarshal(doc.raw, doc.into); err != nil {
				loadErr = fmt.Errorf("parse %s: %w", doc.name, err)
				return
			}
		}
		loaded = d
	})
	return loaded, loadErr
}

// MustLoad panics when the embedded documents are unparseable, which can only
// happen from a bad data edit, not at runtime.
func MustLoad() *Dataset {
	d, err := Load()
	if err != nil {
		panic(err)
	}
	return d
}

// COGSBenchmark returns the benchmark for a category, falling back to General.
func (d *Dataset) COGSBenchmark(category string) CategoryBenchmark {
	if b, ok := d.COGSBenchmarks.Categories[category]; ok {
		return b
	}
	return d.COGSBenchmarks.Categories["General"]
}

// MaterialMultiplier returns the cost multiplier for a material type,
// matching either side of the "A / B" document keys; 1.0 when unknown.
func (d *Dataset) MaterialMultiplier(materialType string) float64 {
	if key, ok := matchMaterialKey(materialType, keysOf(d.COGSBenchmarks.MaterialCostMultipliers)); ok {
		return d.COGSBenchmarks.MaterialCostMultipliers[key]
	}
	return 1.0
}

// Route returns the freight rates for a route, falling back to the default
// China to US west coast lane.
func (d *Dataset) Route(route string) RouteRates {
	if r, ok := d.FreightRates.Routes[route]; ok {
		return r
	}
	return d.FreightRates.Routes[DefaultRoute]
}

// SizeTier resolves a size-tier label such as "M" or "M: Microwave size" to
// its weight/volume multipliers. The second return is false when the tier is
// unknown.
func (d *Dataset) SizeTier(tier string) (SizeTier, bool) {
	key := strings.ToUpper(strings.TrimSpace(tier))
	if i := strings.Index(key, ":"); i >= 0 {
		key = strings.TrimSpace(key[:i])
	}
	t, ok := d.FreightRates.SizeTierMultipliers[key]
	return t, ok
}

// TariffRate looks up the duty rate for an HS code and origin. Dots in the
// code are ignored; a missing origin falls back to china; the second return
// is false when the code itself is unknown.
func (d *Dataset) TariffRate(hsCode, origin string) (float64, bool) {
	code := strings.ReplaceAll(strings.TrimSpace(hsCode), ".", "")
	entry, ok := d.TariffRates.Rates[code]
	if !ok {
		return 0, false
	}
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(origin)), " ", "_")
	if rate, ok := entry.ByOrigin[key]; ok {
		return rate, true
	}
	if rate, ok := entry.ByOrigin["china"]; ok {
		return rate, true
	}
	return 0, true
}

// DefaultTariffRate returns the material-type default duty rate, falling back
// to the General rate.
func (d *Dataset) DefaultTariffRate(materialType string) float64 {
	if key, ok := matchMaterialKey(materialType, keysOf(d.TariffRates.DefaultRates)); ok {
		return d.TariffRates.DefaultRates[key]
	}
	return d.TariffRates.DefaultRates["General"]
}

// ComplianceBundle aggregates that material's required certifications, their
// combined average cost and the documented risk level.
type ComplianceBundle struct {
	Certifications []string
	TotalCost      float64
	RiskLevel      string
}

// ComplianceFor resolves the compliance requirements for a material type.
// Unknown materials carry no certifications and Low risk.
func (d *Dataset) ComplianceFor(materialType string) ComplianceBundle {
	key, ok := matchMaterialKey(materialType, keysOf(d.ComplianceCosts.MaterialBasedRequirements))
	if !ok {
		return ComplianceBundle{RiskLevel: "Low"}
	}
	req := d.ComplianceCosts.MaterialBasedRequirements[key]
	bundle := ComplianceBundle{RiskLevel: req.RiskLevel}
	for _, name := range req.Certifications {
		cert, ok := d.ComplianceCosts.Certifications[name]
		if !ok {
			continue
		}
		bundle.Certifications = append(bundle.Certifications, name)
		bundle.TotalCost += cert.CostRange.Average
	}
	return bundle
}

// AmazonReferralFee returns the referral fee percentage for a category,
// falling back to the Default tier.
func (d *Dataset) AmazonReferralFee(category string) float64 {
	if fee, ok := d.AmazonFees.ReferralFees[category]; ok {
		return fee
	}
	return d.AmazonFees.ReferralFees["Default"]
}

// matchMaterialKey finds the document key whose "A / B" halves appear in the
// free-form material type the user gave.
func matchMaterialKey(materialType string, keys []string) (string, bool) {
	mt := strings.ToLower(strings.TrimSpace(materialType))
	if mt == "" {
		return "", false
	}
	for _, key := range keys {
		for _, half := range strings.Split(key, " / ") {
			half = strings.ToLower(strings.TrimSpace(half))
			if half != "" && strings.Contains(mt, half) {
				return key, true
			}
		}
	}
	return "", false
}

// keysOf returns sorted keys so material matching stays deterministic when a
// free-form value could match more than one document key.
func keysOf[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

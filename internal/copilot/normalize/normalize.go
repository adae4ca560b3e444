// Package normalize canonicalizes enumerated slot values. It is the
// deterministic safety net between the extraction provider (whose output is
// untrusted and may carry UI labels like "Shopify (DTC)") and the
// conversation state, which only ever stores vocabulary members.
package normalize

import (
	"strings"

	"github.com/nexsupply/sourcing-core/internal/copilot/model"
)

// aliasTable maps a lowercased label variant onto its canonical value.
type aliasTable map[string]string

var salesChannelAliases = aliasTable{
	"amazon_fba":        model.ChannelAmazonFBA,
	"amazon fba":        model.ChannelAmazonFBA,
	"amazon":            model.ChannelAmazonFBA,
	"fba":               model.ChannelAmazonFBA,
	"tiktok_shop":       model.ChannelTikTokShop,
	"tiktok shop":       model.ChannelTikTokShop,
	"tiktok":            model.ChannelTikTokShop,
	"shopify":           model.ChannelShopify,
	"shopify (dtc)":     model.ChannelShopify,
	"dtc":               model.ChannelShopify,
	"wholesale":         model.ChannelWholesale,
	"wholesale / retail": model.ChannelWholesale,
	"wholesale/retail":  model.ChannelWholesale,
	"retail":            model.ChannelWholesale,
	"other":             model.ChannelOther,
}

var riskConcernAliases = aliasTable{
	"duty":                        model.ConcernDuty,
	"duty / tariffs":              model.ConcernDuty,
	"duty/tariffs":                model.ConcernDuty,
	"tariffs":                     model.ConcernDuty,
	"tariff":                      model.ConcernDuty,
	"quality":                     model.ConcernQuality,
	"quality issues":              model.ConcernQuality,
	"delay":                       model.ConcernDelay,
	"delays":                      model.ConcernDelay,
	"shipping delays":             model.ConcernDelay,
	"compliance":                  model.ConcernCompliance,
	"compliance / certifications": model.ConcernCompliance,
	"compliance/certifications":   model.ConcernCompliance,
	"certifications":              model.ConcernCompliance,
	"other":                       model.ConcernOther,
}

func (t aliasTable) lookup(raw, fallback string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	if canonical, ok := t[key]; ok {
		return canonical
	}
	// Unmapped labels canonicalize to "other"; an arbitrary string must never
	// enter an enumerated slot.
	return fallback
}

// SalesChannel canonicalizes a sales_channel value.
func SalesChannel(raw string) string {
	return salesChannelAliases.lookup(raw, model.ChannelOther)
}

// RiskConcern canonicalizes a main_risk_concern value.
func RiskConcern(raw string) string {
	return riskConcernAliases.lookup(raw, model.ConcernOther)
}

// Slot normalizes a raw value for the named slot: enumerated slots are
// canonicalized against their alias table, free-text slots pass through
// trimmed and otherwise verbatim.
func Slot(name, raw string) string {
	switch name {
	case model.FieldSalesChannel:
		return SalesChannel(raw)
	case model.FieldMainRiskConcern:
		return RiskConcern(raw)
	default:
		return strings.TrimSpace(raw)
	}
}

// Updates normalizes every set field of a state-updates object in place.
func Updates(u *model.StateUpdates) {
	for _, name := range model.AllFields() {
		p := u.Field(name)
		if p == nil {
			continue
		}
		u.SetField(name, Slot(name, *p))
	}
}

package analysis

import "strings"

// categoryRule is one entry of the ordered keyword table used to infer a
// product category. Order is significant: the first matching rule wins, so
// the table must not be reordered without revisiting expected inferences.
type categoryRule struct {
	category string
	keywords []string
}

var categoryRules = []categoryRule{
	{"Electronics", []string{"headphone", "earphone", "earbud", "speaker", "charger", "cable", "electronic", "bluetooth", "battery"}},
	{"Sports & Outdoors", []string{"yoga", "mat", "fitness", "workout", "exercise", "camping", "outdoor"}},
	{"Home & Kitchen", []string{"kitchen", "cook", "utensil", "container", "storage", "mug", "bottle"}},
	{"Fashion", []string{"clothing", "apparel", "fabric", "textile", "bag", "backpack"}},
	{"Health & Beauty", []string{"beauty", "skincare", "cosmetic", "health", "supplement"}},
}

// DefaultCategory is assumed when nothing matches.
const DefaultCategory = "General"

// InferCategory maps a project name and material type onto a product
// category. A material type naming electronics or batteries dominates; after
// that the first keyword match in table order decides.
func InferCategory(projectName, materialType string) string {
	material := strings.ToLower(materialType)
	if strings.Contains(material, "electronics") || strings.Contains(material, "battery") {
		return "Electronics"
	}

	name := strings.ToLower(projectName)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(name, kw) {
				return rule.category
			}
		}
	}
	return DefaultCategory
}

// hsCodeByCategory carries the representative HS code the estimator uses when
// the user gave no more specific material signal.
var hsCodeByCategory = map[string]string{
	"Electronics":       "851830",
	"Sports & Outdoors": "950691",
	"Home & Kitchen":    "732393",
	"Fashion":           "420292",
	"Health & Beauty":   "330499",
}

// InferHSCode picks an HS code for the inferred category; "" means no exact
// code is known and the material-type default duty rate applies.
func InferHSCode(category string) string {
	return hsCodeByCategory[category]
}

// materialHintByCategory fills in a material signal for compliance and tariff
// defaults when the user never described the material itself.
var materialHintByCategory = map[string]string{
	"Electronics":     "Electronics / Battery",
	"Fashion":         "Fabric / Textile",
	"Home & Kitchen":  "Metal / Alloy",
	"Health & Beauty": "Cosmetics / Skincare",
}

// MaterialHint returns the explicit material type when present, otherwise a
// category-derived hint ("" when the category carries none).
func MaterialHint(materialType, category string) string {
	if strings.TrimSpace(materialType) != "" {
		return materialType
	}
	return materialHintByCategory[category]
}

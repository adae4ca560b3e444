package core

import "strings"

// Environment selects runtime behaviour such as log verbosity and output format.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

func (e Environment) String() string {
	return string(e)
}

// IsProduction reports whether the service runs against production traffic.
func (e Environment) IsProduction() bool {
	return e == Production
}

// ParseEnvironment maps a raw config value onto a known environment.
// Unrecognised values fall back to Development so a missing or misspelled
// APP_ENV never prevents startup.
func ParseEnvironment(v string) Environment {
	switch Environment(strings.ToLower(strings.TrimSpace(v))) {
	case Production:
		return Production
	case Staging:
		return Staging
	case Testing:
		return Testing
	default:
		return Development
	}
}

package analysis

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/nexsupply/sourcing-core/internal/copilot/model"
)

// DefaultVolumeQty is assumed when no number appears in the volume plan.
const DefaultVolumeQty = 100

// seaModeThreshold is where freight switches from Air to Sea LCL. The
// reference bands define Air under ~500 units and Sea at 1000+, leaving
// 500-999 unspecified; this implementation extends the Air band up to 999 so
// the switch happens at exactly 1000 units.
const seaModeThreshold = 1000

// ParseVolumeQty pulls the first integer out of a free-form volume plan such
// as "Standard (500-1,000 units)" or "around 2000 pcs". Thousands separators
// inside the number are tolerated.
func ParseVolumeQty(volume string) int {
	var digits strings.Builder
	seen := false
	for _, r := range volume {
		if unicode.IsDigit(r) {
			digits.WriteRune(r)
			seen = true
			continue
		}
		if seen && r == ',' {
			continue
		}
		if seen {
			break
		}
	}
	if !seen {
		return DefaultVolumeQty
	}
	n, err := strconv.Atoi(digits.String())
	if err != nil || n <= 0 {
		return DefaultVolumeQty
	}
	return n
}

// FreightMode selects Air or Sea for a unit volume.
func FreightMode(qty int) string {
	if qty >= seaModeThreshold {
		return model.ModeSea
	}
	return model.ModeAir
}

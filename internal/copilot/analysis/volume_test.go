package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nexsupply/sourcing-core/internal/copilot/model"
)

func TestParseVolumeQty(t *testing.T) {
	tests := []struct {
		volume string
		want   int
	}{
		{"500 units", 500},
		{"around 2000 pcs", 2000},
		{"1,000 units", 1000},
		{"Standard (500-1,000 units)", 500},
		{"12,500", 12500},
		{"", DefaultVolumeQty},
		{"a few boxes", DefaultVolumeQty},
		{"0 units", DefaultVolumeQty},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseVolumeQty(tt.volume), "volume=%q", tt.volume)
	}
}

// TestFreightMode_Boundary pins the Air/Sea switch at exactly 1000 units:
// the 500-999 band ships Air, 1000 and above ships Sea.
func TestFreightMode_Boundary(t *testing.T) {
	assert.Equal(t, model.ModeAir, FreightMode(100))
	assert.Equal(t, model.ModeAir, FreightMode(500))
	assert.Equal(t, model.ModeAir, FreightMode(999))
	assert.Equal(t, model.ModeSea, FreightMode(1000))
	assert.Equal(t, model.ModeSea, FreightMode(50000))
}

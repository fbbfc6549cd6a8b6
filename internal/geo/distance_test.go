package geo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistanceBetween_SamePoint(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
	}{
		{"kochi", 9.9312, 76.2673},
		{"origin", 0, 0},
		{"negative", -33.8688, 151.2093},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, "0 m", DistanceBetween(tt.lat, tt.lon, tt.lat, tt.lon))
		})
	}
}

func TestDistanceBetween_Units(t *testing.T) {
	// ~1.1 km east of Kochi: above the 1000 m threshold.
	got := DistanceBetween(9.9312, 76.2673, 9.9312, 76.2773)
	assert.True(t, strings.HasSuffix(got, " km"), "got %q", got)

	// A tiny offset stays in meters.
	got = DistanceBetween(9.9312, 76.2673, 9.9312, 76.26731)
	assert.True(t, strings.HasSuffix(got, " m"), "got %q", got)
}

func TestDistanceBetween_NoRounding(t *testing.T) {
	got := DistanceBetween(9.9312, 76.2673, 9.9312, 76.26731)
	value := strings.TrimSuffix(got, " m")
	// The raw float is concatenated; a fractional part must survive.
	assert.Contains(t, value, ".")
}

func TestMeters_KnownDistance(t *testing.T) {
	// Kochi -> Thiruvananthapuram is roughly 200 km as the crow flies.
	d := Meters(9.9312, 76.2673, 8.5241, 76.9366)
	require.InDelta(t, 170_000, d, 20_000)
}

func TestMeters_Symmetric(t *testing.T) {
	a := Meters(9.9312, 76.2673, 8.5241, 76.9366)
	b := Meters(8.5241, 76.9366, 9.9312, 76.2673)
	assert.InDelta(t, a, b, 1e-9)
}

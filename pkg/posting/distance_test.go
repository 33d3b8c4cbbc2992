package posting

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineKm(t *testing.T) {
	// San Francisco to Oakland, roughly 13.4 km.
	d := HaversineKm(37.7749, -122.4194, 37.8044, -122.2712)
	assert.InDelta(t, 13.4, d, 0.5)
}

func TestHaversineZeroDistance(t *testing.T) {
	assert.Zero(t, HaversineKm(37.7749, -122.4194, 37.7749, -122.4194))
}

func TestHaversineSymmetric(t *testing.T) {
	a := HaversineKm(40.7128, -74.0060, 51.5074, -0.1278)
	b := HaversineKm(51.5074, -0.1278, 40.7128, -74.0060)
	assert.InDelta(t, a, b, 0.0001)

	// New York to London is about 5570 km.
	assert.InDelta(t, 5570, a, 20)
}

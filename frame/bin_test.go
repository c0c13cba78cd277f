package frame

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBin(t *testing.T) {
	tests := []struct {
		name       string
		mz         float64
		resolution int
		want       int64
	}{
		{name: "exact integer", mz: 500.0, resolution: 0, want: 500},
		{name: "two decimals", mz: 500.001, resolution: 2, want: 50000},
		{name: "rounds up", mz: 500.006, resolution: 2, want: 50001},
		{name: "half away from zero", mz: 1.25, resolution: 1, want: 13},
		{name: "full resolution", mz: 1001.234567, resolution: 6, want: 1001234567},
		{name: "zero", mz: 0, resolution: 3, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Bin(tt.mz, tt.resolution))
		})
	}
}

func TestBinRoundTrip(t *testing.T) {
	values := []float64{0.0, 0.05, 57.021464, 499.9999, 500.001, 1001.23, 1700.777}

	for resolution := 0; resolution <= 6; resolution++ {
		tolerance := 0.5 * math.Pow10(-resolution)
		for _, v := range values {
			got := Unbin(Bin(v, resolution), resolution)
			assert.InDeltaf(t, v, got, tolerance, "value %g at resolution %d", v, resolution)
		}
	}
}

func TestBinDeterministic(t *testing.T) {
	for i := 0; i < 100; i++ {
		assert.Equal(t, Bin(742.336, 3), Bin(742.336, 3))
	}
}

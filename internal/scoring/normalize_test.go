package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToBand(t *testing.T) {
	assert.Equal(t, 1.0, ToBand(0))
	assert.Equal(t, 9.0, ToBand(1))
	assert.Equal(t, 5.0, ToBand(0.5))
	assert.Equal(t, 1.0, ToBand(-0.3))
	assert.Equal(t, 9.0, ToBand(1.7))
	assert.Equal(t, 1.0, ToBand(math.NaN()))
}

func TestRoundHalf(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{5.8, 6.0},
		{5.4, 5.5},
		{5.2, 5.0},
		{6.74, 6.5},
		{6.76, 7.0},
		{6.25, 6.0}, // tie rounds to even half step
		{6.75, 7.0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RoundHalf(tt.in), "RoundHalf(%v)", tt.in)
	}
}

func TestNormalize_AlwaysOnLattice(t *testing.T) {
	for raw := -2.0; raw <= 11.0; raw += 0.037 {
		band := Normalize(raw)
		assert.GreaterOrEqual(t, band, MinBand)
		assert.LessOrEqual(t, band, MaxBand)
		assert.Equal(t, band*2, math.Trunc(band*2), "band %v not a multiple of 0.5", band)
	}
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0.0, Percentage(1.0))
	assert.Equal(t, 100.0, Percentage(9.0))
	assert.Equal(t, 50.0, Percentage(5.0))
	assert.Equal(t, 62.5, Percentage(6.0))

	prev := -1.0
	for band := 1.0; band <= 9.0; band += 0.5 {
		p := Percentage(band)
		assert.Greater(t, p, prev)
		prev = p
	}
}

func TestClampBand(t *testing.T) {
	assert.Equal(t, 1.0, ClampBand(0.2))
	assert.Equal(t, 9.0, ClampBand(9.5))
	assert.Equal(t, 4.5, ClampBand(4.5))
}

package usecase

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

func fixedRand(v float64) func() float64 {
	return func() float64 { return v }
}

func TestEstimatorNotComputable(t *testing.T) {
	est := NewEstimator(fixedRand(0.5))

	cases := []struct {
		name       string
		population int64
		rate       *float64
	}{
		{name: "zero population", population: 0, rate: ptr(2.0)},
		{name: "negative population", population: -5, rate: ptr(2.0)},
		{name: "absent rate", population: 1000, rate: nil},
		{name: "zero rate", population: 1000, rate: ptr(0.0)},
		{name: "negative rate", population: 1000, rate: ptr(-1.5)},
		{name: "nan rate", population: 1000, rate: ptr(math.NaN())},
		{name: "inf rate", population: 1000, rate: ptr(math.Inf(1))},
		{name: "overflowing result", population: 1_000_000_000, rate: ptr(1e-310)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Nil(t, est.Estimate(tc.population, tc.rate))
		})
	}
}

func TestEstimatorUsesInjectedMultiplier(t *testing.T) {
	cases := []struct {
		draw float64
		want float64
	}{
		{draw: 0, want: 500_000},
		{draw: 0.5, want: 750_000},
	}

	for _, tc := range cases {
		got := NewEstimator(fixedRand(tc.draw)).Estimate(1000, ptr(2.0))
		require.NotNil(t, got)
		assert.InDelta(t, tc.want, *got, 1e-6)
	}
}

func TestEstimatorUpperBoundIsExclusive(t *testing.T) {
	got := NewEstimator(fixedRand(1)).Estimate(1000, ptr(2.0))

	require.NotNil(t, got)
	assert.Less(t, *got, 1_000_000.0)
	assert.GreaterOrEqual(t, *got, 500_000.0)
}

func TestEstimatorDefaultRandomStaysInRange(t *testing.T) {
	est := NewEstimator(nil)
	population := int64(123_456)
	rate := 3.7

	low := float64(population) * 1000 / rate
	high := float64(population) * 2000 / rate

	distinct := map[float64]struct{}{}
	for i := 0; i < 500; i++ {
		got := est.Estimate(population, &rate)
		require.NotNil(t, got)
		assert.GreaterOrEqual(t, *got, low)
		assert.Less(t, *got, high)
		distinct[*got] = struct{}{}
	}

	assert.Greater(t, len(distinct), 1, "estimate must be randomized across calls")
}

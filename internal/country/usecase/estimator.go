package usecase

import (
	"math"
	"math/rand/v2"
)

const (
	minGDPMultiplier = 1000.0
	maxGDPMultiplier = 2000.0
)

// Estimator derives an estimated GDP from population and exchange rate.
//
// The result is intentionally randomized: every call draws a fresh multiplier
// uniformly from [1000, 2000), so the same inputs give different values across
// refresh cycles. The stored value is authoritative until the next refresh and
// must not be recomputed from population and rate.
type Estimator struct {
	rand func() float64
}

// NewEstimator returns an Estimator drawing from random, which must return
// values in [0, 1). A nil random uses math/rand/v2.
func NewEstimator(random func() float64) *Estimator {
	if random == nil {
		random = rand.Float64
	}
	return &Estimator{rand: random}
}

// Estimate returns population * multiplier / rate, or nil when the value is
// not computable (population <= 0, rate absent or not positive, or a
// result too large for float64).
func (e *Estimator) Estimate(population int64, rate *float64) *float64 {
	if population <= 0 || rate == nil {
		return nil
	}
	if r := *rate; r <= 0 || math.IsNaN(r) || math.IsInf(r, 0) {
		return nil
	}

	multiplier := minGDPMultiplier + (maxGDPMultiplier-minGDPMultiplier)*e.rand()
	if multiplier >= maxGDPMultiplier {
		multiplier = math.Nextafter(maxGDPMultiplier, minGDPMultiplier)
	}
	if multiplier < minGDPMultiplier {
		multiplier = minGDPMultiplier
	}

	gdp := float64(population) * multiplier / *rate
	if math.IsInf(gdp, 0) || math.IsNaN(gdp) {
		return nil
	}
	return &gdp
}

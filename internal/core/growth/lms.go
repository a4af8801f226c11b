package growth

import (
	"fmt"
	"math"
)

// Reported percentiles are clamped to this band; the reference tails are not reliable.
const (
	MinPercentile = 0.1
	MaxPercentile = 99.9
)

// LMS holds the Box-Cox power (L), median (M) and coefficient of variation (S)
// of a reference distribution at one age.
type LMS struct {
	L float64
	M float64
	S float64
}

// ZScore standardizes a measurement against the distribution
func (p LMS) ZScore(value float64) (float64, error) {
	if value <= 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("measurement must be positive, got %v", value)
	}
	if p.M <= 0 || p.S <= 0 {
		return 0, fmt.Errorf("invalid reference parameters L=%v M=%v S=%v", p.L, p.M, p.S)
	}
	if p.L == 0 {
		return math.Log(value/p.M) / p.S, nil
	}
	return (math.Pow(value/p.M, p.L) - 1) / (p.L * p.S), nil
}

// NormalCDF is the standard normal cumulative distribution function
func NormalCDF(z float64) float64 {
	return 0.5 * math.Erfc(-z/math.Sqrt2)
}

// PercentileFromZ converts a z-score to a clamped percentile
func PercentileFromZ(z float64) float64 {
	p := NormalCDF(z) * 100
	if p < MinPercentile {
		return MinPercentile
	}
	if p > MaxPercentile {
		return MaxPercentile
	}
	return p
}

func lerp(a, b, f float64) float64 {
	return a + (b-a)*f
}

func interpolate(lo, hi LMS, f float64) LMS {
	return LMS{
		L: lerp(lo.L, hi.L, f),
		M: lerp(lo.M, hi.M, f),
		S: lerp(lo.S, hi.S, f),
	}
}

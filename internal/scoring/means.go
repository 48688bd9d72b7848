// Package scoring aggregates weighted, confidence-adjusted answers into
// per-axis maturity percentages and classifies the respondent.
package scoring

// DefaultAlpha is the production blend between arithmetic and harmonic means:
// 75% reward for incremental progress, 25% weakest-link penalty.
const DefaultAlpha = 0.75

// HarmonicMean returns the harmonic mean of values. It returns 0 if the list
// is empty or contains any value at or below zero: rather than excluding a
// true gap, the whole mean collapses, enforcing a weakest-link penalty.
func HarmonicMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		if v <= 0 {
			return 0
		}
		sum += 1 / v
	}
	return float64(len(values)) / sum
}

// WeightedArithmeticMean returns the weighted arithmetic mean of values.
// Returns 0 on empty input, mismatched lengths, or a non-positive weight sum.
func WeightedArithmeticMean(values, weights []float64) float64 {
	if len(values) == 0 || len(values) != len(weights) {
		return 0
	}
	weightSum := 0.0
	weighted := 0.0
	for i, v := range values {
		weighted += v * weights[i]
		weightSum += weights[i]
	}
	if weightSum <= 0 {
		return 0
	}
	return weighted / weightSum
}

// WeightedHarmonicMean returns the weighted harmonic mean of values.
// Returns 0 on empty input, mismatched lengths, a non-positive weight sum, or
// any positively-weighted value at or below zero (same weakest-link collapse
// as HarmonicMean).
func WeightedHarmonicMean(values, weights []float64) float64 {
	if len(values) == 0 || len(values) != len(weights) {
		return 0
	}
	weightSum := 0.0
	denominator := 0.0
	for i, v := range values {
		w := weights[i]
		if w <= 0 {
			continue
		}
		if v <= 0 {
			return 0
		}
		weightSum += w
		denominator += w / v
	}
	if weightSum <= 0 || denominator <= 0 {
		return 0
	}
	return weightSum / denominator
}

// WeightedHybridMean blends the weighted arithmetic and harmonic means:
// alpha*AM + (1-alpha)*HM. When the harmonic side collapses to zero through a
// single gap the blend is reduced by the (1-alpha) fraction instead of zeroed
// outright, softening the weakest-link penalty of pure harmonic scoring.
// At alpha=1 this is exactly the arithmetic mean; at alpha=0 the harmonic.
func WeightedHybridMean(values, weights []float64, alpha float64) float64 {
	am := WeightedArithmeticMean(values, weights)
	hm := WeightedHarmonicMean(values, weights)
	return alpha*am + (1-alpha)*hm
}

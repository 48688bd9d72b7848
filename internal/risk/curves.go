// Package risk maps per-axis maturity onto ranked scenario risk findings.
//
// Every computation here is pure: the engine holds an immutable catalog
// reference and carries no inter-call state, so concurrent use is safe.
package risk

import (
	"math"

	"github.com/calder/axial/internal/catalog"
)

// ApplyCurve maps an axis score on the 0-6 scale through a named response
// curve to a mitigation contribution in [0,1]. All curves are monotonically
// non-decreasing in the score.
//
//	threshold:   flat 0.1 below 3.0, then 0.5 + (score-3)*0.15
//	logarithmic: 1 - e^(-0.5*score), fast early gains
//	standard:    logistic 1/(1+e^(-1.2*(score-3))), midpoint at 3
func ApplyCurve(score float64, curve catalog.CurveType) float64 {
	switch curve {
	case catalog.CurveThreshold:
		if score < 3.0 {
			return 0.1
		}
		return clamp01(0.5 + (score-3.0)*0.15)
	case catalog.CurveLogarithmic:
		return clamp01(1.0 - math.Exp(-0.5*score))
	default:
		return clamp01(1.0 / (1.0 + math.Exp(-1.2*(score-3.0))))
	}
}

func clamp01(v float64) float64 {
	return math.Max(0.0, math.Min(1.0, v))
}

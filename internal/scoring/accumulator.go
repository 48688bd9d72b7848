package scoring

import (
	"math"

	"github.com/calder/axial/internal/models"
)

// internalScaleMax is the raw answer scale; axis means are mapped from 0-4
// onto 0-100 percentages.
const internalScaleMax = 4.0

// axisAccumulator collects (adjusted score, weight) pairs per axis during one
// compute pass. It is ephemeral: created, filled, reduced, discarded.
type axisAccumulator struct {
	values  [models.NumAxes][]float64
	weights [models.NumAxes][]float64
}

// add records one contribution for an axis.
func (acc *axisAccumulator) add(axis models.Axis, score, weight float64) {
	acc.values[axis] = append(acc.values[axis], score)
	acc.weights[axis] = append(acc.weights[axis], weight)
}

// reduce collapses every axis through the hybrid mean onto a 0-100
// percentage vector, rounded to one decimal. Axes with no contributions (or
// degenerate ones) floor to zero.
func (acc *axisAccumulator) reduce(alpha float64) models.AxisVector {
	var out models.AxisVector
	for axis := models.Axis(0); axis < models.NumAxes; axis++ {
		mean := WeightedHybridMean(acc.values[axis], acc.weights[axis], alpha)
		pct := mean / internalScaleMax * 100.0
		if pct < 0 {
			pct = 0
		}
		out[axis] = round1(pct)
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

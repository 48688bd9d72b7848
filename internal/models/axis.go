// Package models defines the shared domain types of the assessment engine.
package models

import "strings"

// Axis identifies one of the nine maturity axes.
type Axis int

const (
	AxisG Axis = iota // Governance
	AxisE             // Execution
	AxisT             // Technical
	AxisL             // Legal
	AxisH             // Human
	AxisV             // Visibility
	AxisR             // Resilience
	AxisF             // Friction
	AxisW             // Control Lag

	NumAxes = 9
)

var axisCodes = [NumAxes]string{"G", "E", "T", "L", "H", "V", "R", "F", "W"}

var axisNames = [NumAxes]string{
	"Governance",
	"Execution",
	"Technical",
	"Legal",
	"Human",
	"Visibility",
	"Resilience",
	"Friction",
	"Control Lag",
}

// Code returns the single-letter axis code.
func (a Axis) Code() string {
	if a < 0 || a >= NumAxes {
		return "?"
	}
	return axisCodes[a]
}

// Name returns the human-readable axis name.
func (a Axis) Name() string {
	if a < 0 || a >= NumAxes {
		return "Unknown"
	}
	return axisNames[a]
}

// AllAxes returns every axis in canonical order.
func AllAxes() []Axis {
	axes := make([]Axis, NumAxes)
	for i := range axes {
		axes[i] = Axis(i)
	}
	return axes
}

// ParseAxis resolves a single-letter code (case-insensitive) to an axis.
func ParseAxis(code string) (Axis, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for i, c := range axisCodes {
		if c == code {
			return Axis(i), true
		}
	}
	return 0, false
}

// AxisWeights holds one value per axis, indexed by Axis. Used for question
// point loadings.
type AxisWeights [NumAxes]float64

// AxisVector holds one score per axis, indexed by Axis.
type AxisVector [NumAxes]float64

package risk

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/calder/axial/internal/catalog"
	"github.com/calder/axial/internal/models"
)

// Risk level names in ascending severity.
const (
	LevelGreen  = "GREEN"
	LevelYellow = "YELLOW"
	LevelAmber  = "AMBER"
	LevelRed    = "RED"
)

// Risk score thresholds for the level bands.
const (
	redThreshold    = 39
	amberThreshold  = 24
	yellowThreshold = 12
)

// Key-gap extraction bounds: axes carrying at least this much scenario weight
// whose score sits below the bar are reported, at most maxKeyGaps per scenario.
const (
	keyGapWeightFloor = 0.15
	keyGapScoreBar    = 4.5
	maxKeyGaps        = 3
)

// TopRiskCount is how many findings the ranked slice keeps.
const TopRiskCount = 5

// Engine evaluates the scenario catalog against axis scores. The catalog is
// set at construction and never mutated.
type Engine struct {
	catalog *catalog.Catalog
}

// NewEngine creates a risk engine over a validated catalog.
func NewEngine(cat *catalog.Catalog) *Engine {
	return &Engine{catalog: cat}
}

// MitigationScore is the curve-weighted control coverage for one scenario:
// the sum over its axes of weight * ApplyCurve(score, curve), clamped to [0,1].
// Axes without an explicit curve use the standard logistic.
func MitigationScore(scenario *catalog.Scenario, scores models.AxisVector) float64 {
	total := 0.0
	for axis, weight := range scenario.Axes {
		curve := scenario.Curves[axis] // zero value falls through to standard
		total += weight * ApplyCurve(scores[axis], curve)
	}
	return clamp01(total)
}

// Likelihood converts a mitigation score into a 1-7 likelihood: higher
// mitigation means lower likelihood.
func Likelihood(mitigation float64) int {
	likelihood := int(math.Round(7.0 - mitigation*6.0))
	if likelihood < 1 {
		return 1
	}
	if likelihood > 7 {
		return 7
	}
	return likelihood
}

// Impact evaluates a scenario's impact rules against the intake tag set.
//
// The default rule seeds the running impact. Non-default rules are evaluated
// in file order; a satisfied "+1" rule bumps the running impact by one and
// evaluation continues (escalations stack), while a satisfied literal rule
// replaces the impact and evaluation stops (an override). The result is
// clamped to [1,7].
func Impact(scenario *catalog.Scenario, intakeTags []string) int {
	tags := normalizeTags(intakeTags)
	impact := scenario.DefaultImpact()

	for _, rule := range scenario.ImpactRules {
		if rule.IsDefault() {
			continue
		}
		if !conditionMatches(rule.Condition, tags) {
			continue
		}
		if rule.Bump {
			impact++
			if impact > catalog.MaxImpact {
				impact = catalog.MaxImpact
			}
			continue
		}
		impact = rule.Level
		break
	}

	if impact < catalog.MinImpact {
		return catalog.MinImpact
	}
	if impact > catalog.MaxImpact {
		return catalog.MaxImpact
	}
	return impact
}

// RiskLevel bands a likelihood/impact pair. Returns the level name and the
// underlying risk score (likelihood x impact).
func RiskLevel(likelihood, impact int) (string, int) {
	score := likelihood * impact
	switch {
	case score >= redThreshold:
		return LevelRed, score
	case score >= amberThreshold:
		return LevelAmber, score
	case score >= yellowThreshold:
		return LevelYellow, score
	default:
		return LevelGreen, score
	}
}

// ComputeRisks evaluates every catalog scenario against the axis scores
// (0-6 scale) and intake tags. It returns all findings sorted descending by
// (risk score, mitigation score) and the top slice of that ordering. The
// computation is fully deterministic.
func (e *Engine) ComputeRisks(scores models.AxisVector, intakeTags []string) (all, top []models.ScenarioRisk) {
	all = make([]models.ScenarioRisk, 0, len(e.catalog.Scenarios))

	for i := range e.catalog.Scenarios {
		scenario := &e.catalog.Scenarios[i]

		mitigation := MitigationScore(scenario, scores)
		likelihood := Likelihood(mitigation)
		impact := Impact(scenario, intakeTags)
		level, riskScore := RiskLevel(likelihood, impact)

		all = append(all, models.ScenarioRisk{
			ScenarioID: scenario.ID,
			Name:       scenario.Name,
			Category:   scenario.Category,
			Mitigation: round3(mitigation),
			Likelihood: likelihood,
			Impact:     impact,
			RiskScore:  riskScore,
			Level:      level,
			KeyGaps:    keyGaps(scenario, scores),
		})
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].RiskScore != all[j].RiskScore {
			return all[i].RiskScore > all[j].RiskScore
		}
		return all[i].Mitigation > all[j].Mitigation
	})

	top = all
	if len(top) > TopRiskCount {
		top = top[:TopRiskCount]
	}
	return all, top
}

// keyGaps lists the scenario's heavily weighted axes whose score falls below
// the gap bar, strongest weight first, capped at maxKeyGaps.
func keyGaps(scenario *catalog.Scenario, scores models.AxisVector) []string {
	type gap struct {
		axis   models.Axis
		weight float64
	}
	var candidates []gap
	for axis, weight := range scenario.Axes {
		if weight >= keyGapWeightFloor && scores[axis] < keyGapScoreBar {
			candidates = append(candidates, gap{axis: axis, weight: weight})
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].weight != candidates[j].weight {
			return candidates[i].weight > candidates[j].weight
		}
		return candidates[i].axis < candidates[j].axis
	})
	if len(candidates) > maxKeyGaps {
		candidates = candidates[:maxKeyGaps]
	}

	gaps := make([]string, 0, len(candidates))
	for _, c := range candidates {
		gaps = append(gaps, fmt.Sprintf("%s: %.1f/6", c.axis.Name(), scores[c.axis]))
	}
	return gaps
}

// conditionMatches evaluates a tag condition: a single tag, a space-delimited
// "a OR b" any-match, or a space-delimited "a AND b" all-match.
func conditionMatches(condition string, tags map[string]bool) bool {
	condition = strings.TrimSpace(strings.ToLower(condition))
	if parts := strings.Split(condition, " or "); len(parts) > 1 {
		for _, part := range parts {
			if tags[strings.TrimSpace(part)] {
				return true
			}
		}
		return false
	}
	if parts := strings.Split(condition, " and "); len(parts) > 1 {
		for _, part := range parts {
			if !tags[strings.TrimSpace(part)] {
				return false
			}
		}
		return true
	}
	return tags[condition]
}

// normalizeTags lowercases and trims the intake tags once at engine entry.
func normalizeTags(intakeTags []string) map[string]bool {
	tags := make(map[string]bool, len(intakeTags))
	for _, tag := range intakeTags {
		tag = strings.TrimSpace(strings.ToLower(tag))
		if tag != "" {
			tags[tag] = true
		}
	}
	return tags
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

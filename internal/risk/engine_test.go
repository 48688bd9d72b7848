package risk

import (
	"math"
	"reflect"
	"testing"

	"github.com/calder/axial/internal/catalog"
	"github.com/calder/axial/internal/models"
)

func uniformScores(v float64) models.AxisVector {
	var scores models.AxisVector
	for i := range scores {
		scores[i] = v
	}
	return scores
}

func singleAxisScenario(axis models.Axis, curve catalog.CurveType, defaultImpact int, extraRules ...catalog.ImpactRule) catalog.Scenario {
	rules := append([]catalog.ImpactRule{{Condition: "default", Level: defaultImpact}}, extraRules...)
	return catalog.Scenario{
		ID:          "single",
		Name:        "Single Axis",
		Category:    "testing",
		Axes:        map[models.Axis]float64{axis: 1.0},
		Curves:      map[models.Axis]catalog.CurveType{axis: curve},
		ImpactRules: rules,
	}
}

func TestApplyCurveKnownPoints(t *testing.T) {
	tests := []struct {
		name     string
		score    float64
		curve    catalog.CurveType
		expected float64
	}{
		{"threshold below bar", 2.9, catalog.CurveThreshold, 0.1},
		{"threshold at bar", 3.0, catalog.CurveThreshold, 0.5},
		{"threshold above bar", 5.0, catalog.CurveThreshold, 0.8},
		{"logarithmic at zero", 0.0, catalog.CurveLogarithmic, 0.0},
		{"logarithmic at two", 2.0, catalog.CurveLogarithmic, 1.0 - math.Exp(-1.0)},
		{"standard midpoint", 3.0, catalog.CurveStandard, 0.5},
		{"standard at two", 2.0, catalog.CurveStandard, 1.0 / (1.0 + math.Exp(1.2))},
		{"unknown curve falls back to standard", 3.0, catalog.CurveType("mystery"), 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyCurve(tt.score, tt.curve)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Expected %f, got %f", tt.expected, got)
			}
		})
	}
}

func TestApplyCurveMonotoneAndBounded(t *testing.T) {
	curves := []catalog.CurveType{catalog.CurveThreshold, catalog.CurveStandard, catalog.CurveLogarithmic}

	for _, curve := range curves {
		prev := -1.0
		for score := 0.0; score <= 6.0+1e-9; score += 0.05 {
			v := ApplyCurve(score, curve)
			if v < 0.0 || v > 1.0 {
				t.Fatalf("%s: value %f out of [0,1] at score %f", curve, v, score)
			}
			if v < prev-1e-12 {
				t.Fatalf("%s: decreased from %f to %f at score %f", curve, prev, v, score)
			}
			prev = v
		}
	}
}

func TestLikelihood(t *testing.T) {
	tests := []struct {
		mitigation float64
		expected   int
	}{
		{0.0, 7},
		{1.0, 1},
		{0.5, 4},
		{0.2315, 6}, // round(7 - 1.389) = 6
		{-0.5, 7},   // clamped
		{1.5, 1},    // clamped
	}

	for _, tt := range tests {
		if got := Likelihood(tt.mitigation); got != tt.expected {
			t.Errorf("Likelihood(%f): expected %d, got %d", tt.mitigation, tt.expected, got)
		}
	}
}

func TestRiskLevelBoundaries(t *testing.T) {
	tests := []struct {
		likelihood int
		impact     int
		wantLevel  string
		wantScore  int
	}{
		{6, 2, LevelYellow, 12},
		{6, 4, LevelAmber, 24},
		{7, 6, LevelRed, 42},
		{3, 3, LevelGreen, 9},
		{1, 1, LevelGreen, 1},
		{7, 7, LevelRed, 49},
		{5, 7, LevelAmber, 35},
		{4, 3, LevelYellow, 12},
	}

	for _, tt := range tests {
		level, score := RiskLevel(tt.likelihood, tt.impact)
		if level != tt.wantLevel || score != tt.wantScore {
			t.Errorf("RiskLevel(%d,%d): expected (%s,%d), got (%s,%d)",
				tt.likelihood, tt.impact, tt.wantLevel, tt.wantScore, level, score)
		}
	}
}

func TestRiskLevelMonotone(t *testing.T) {
	rank := map[string]int{LevelGreen: 0, LevelYellow: 1, LevelAmber: 2, LevelRed: 3}

	prevRank := 0
	for score := 1; score <= 49; score++ {
		// Factor the score as score x 1 to probe every product value.
		level, _ := RiskLevel(score, 1)
		if rank[level] < prevRank {
			t.Fatalf("Risk level rank decreased at score %d", score)
		}
		prevRank = rank[level]
	}
}

func TestImpactDefaultOnly(t *testing.T) {
	scenario := singleAxisScenario(models.AxisG, catalog.CurveStandard, 4)
	if got := Impact(&scenario, nil); got != 4 {
		t.Errorf("Expected default impact 4, got %d", got)
	}
}

func TestImpactLiteralOverrideStopsEvaluation(t *testing.T) {
	scenario := singleAxisScenario(models.AxisG, catalog.CurveStandard, 3,
		catalog.ImpactRule{Condition: "finance", Level: 6},
		catalog.ImpactRule{Condition: "cloud", Bump: true},
	)

	// The literal rule matches first and stops: the later bump never applies
	// even though its tag is present.
	got := Impact(&scenario, []string{"finance", "cloud"})
	if got != 6 {
		t.Errorf("Expected literal override 6 with no trailing bump, got %d", got)
	}
}

func TestImpactBumpsAccumulate(t *testing.T) {
	// Multiple "+1" rules stack, unlike literal rules which stop evaluation.
	scenario := singleAxisScenario(models.AxisG, catalog.CurveStandard, 3,
		catalog.ImpactRule{Condition: "cloud", Bump: true},
		catalog.ImpactRule{Condition: "remote-workforce", Bump: true},
	)

	tests := []struct {
		name     string
		tags     []string
		expected int
	}{
		{"no tags", nil, 3},
		{"one bump", []string{"cloud"}, 4},
		{"two bumps stack", []string{"cloud", "remote-workforce"}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Impact(&scenario, tt.tags); got != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestImpactBumpAfterLiteralIsSkipped(t *testing.T) {
	// Bump first, then a matching literal: the bump applies, then the
	// literal overrides and stops.
	scenario := singleAxisScenario(models.AxisG, catalog.CurveStandard, 3,
		catalog.ImpactRule{Condition: "cloud", Bump: true},
		catalog.ImpactRule{Condition: "finance", Level: 2},
	)

	if got := Impact(&scenario, []string{"cloud", "finance"}); got != 2 {
		t.Errorf("Expected literal to override accumulated bumps, got %d", got)
	}
}

func TestImpactClampedToMax(t *testing.T) {
	scenario := singleAxisScenario(models.AxisG, catalog.CurveStandard, 7,
		catalog.ImpactRule{Condition: "cloud", Bump: true},
	)

	if got := Impact(&scenario, []string{"cloud"}); got != 7 {
		t.Errorf("Expected impact clamped at 7, got %d", got)
	}
}

func TestImpactConditionForms(t *testing.T) {
	tests := []struct {
		name      string
		condition string
		tags      []string
		matches   bool
	}{
		{"single tag match", "finance", []string{"finance"}, true},
		{"single tag miss", "finance", []string{"retail"}, false},
		{"case insensitive", "Finance", []string{"FINANCE"}, true},
		{"or matches any", "pii OR healthcare", []string{"healthcare"}, true},
		{"or misses all", "pii OR healthcare", []string{"retail"}, false},
		{"and needs all", "pii AND b2c", []string{"pii", "b2c"}, true},
		{"and partial fails", "pii AND b2c", []string{"pii"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scenario := singleAxisScenario(models.AxisG, catalog.CurveStandard, 3,
				catalog.ImpactRule{Condition: tt.condition, Level: 6},
			)
			got := Impact(&scenario, tt.tags)
			if tt.matches && got != 6 {
				t.Errorf("Expected condition %q to match tags %v", tt.condition, tt.tags)
			}
			if !tt.matches && got != 3 {
				t.Errorf("Expected condition %q not to match tags %v", tt.condition, tt.tags)
			}
		})
	}
}

func TestMitigationMidScaleScenario(t *testing.T) {
	// All-2 axis vector against a single-axis standard-curve scenario:
	// apply_curve(2, standard) = 1/(1+e^1.2) ~= 0.2315, so mitigation
	// ~= 0.2315 and likelihood = round(7 - 0.2315*6) = 6.
	scenario := singleAxisScenario(models.AxisG, catalog.CurveStandard, 3)
	scores := uniformScores(2.0)

	mitigation := MitigationScore(&scenario, scores)
	if math.Abs(mitigation-0.2315) > 0.0005 {
		t.Errorf("Expected mitigation ~0.2315, got %f", mitigation)
	}
	if got := Likelihood(mitigation); got != 6 {
		t.Errorf("Expected likelihood 6, got %d", got)
	}
}

func TestComputeRisksOrderingAndTopSlice(t *testing.T) {
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("Default catalog: %v", err)
	}
	engine := NewEngine(cat)

	all, top := engine.ComputeRisks(uniformScores(1.5), []string{"finance", "cloud"})

	if len(all) != len(cat.Scenarios) {
		t.Fatalf("Expected %d findings, got %d", len(cat.Scenarios), len(all))
	}
	if want := min(TopRiskCount, len(all)); len(top) != want {
		t.Fatalf("Expected top slice of %d, got %d", want, len(top))
	}

	for i := 1; i < len(all); i++ {
		prev, cur := all[i-1], all[i]
		if cur.RiskScore > prev.RiskScore {
			t.Fatalf("Ordering violated at %d: %d after %d", i, cur.RiskScore, prev.RiskScore)
		}
		if cur.RiskScore == prev.RiskScore && cur.Mitigation > prev.Mitigation {
			t.Fatalf("Mitigation tiebreak violated at %d", i)
		}
	}
}

func TestComputeRisksDeterministic(t *testing.T) {
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("Default catalog: %v", err)
	}
	engine := NewEngine(cat)

	scores := models.AxisVector{2.5, 3.1, 1.0, 4.4, 2.2, 5.0, 0.5, 3.3, 2.8}
	tags := []string{"healthcare", "remote-workforce"}

	firstAll, firstTop := engine.ComputeRisks(scores, tags)
	for i := 0; i < 10; i++ {
		all, top := engine.ComputeRisks(scores, tags)
		if !reflect.DeepEqual(all, firstAll) || !reflect.DeepEqual(top, firstTop) {
			t.Fatal("Expected identical results on repeated calls")
		}
	}
}

func TestKeyGaps(t *testing.T) {
	scenario := catalog.Scenario{
		ID:       "gaps",
		Name:     "Gaps",
		Category: "testing",
		Axes: map[models.Axis]float64{
			models.AxisT: 0.40, // weak and heavily weighted
			models.AxisR: 0.30, // strong, above the bar
			models.AxisH: 0.20, // weak
			models.AxisV: 0.10, // weak but below the weight floor
		},
		ImpactRules: []catalog.ImpactRule{{Condition: "default", Level: 3}},
	}

	var scores models.AxisVector
	scores[models.AxisT] = 1.0
	scores[models.AxisR] = 5.5
	scores[models.AxisH] = 2.0
	scores[models.AxisV] = 0.5

	gaps := keyGaps(&scenario, scores)
	want := []string{"Technical: 1.0/6", "Human: 2.0/6"}
	if !reflect.DeepEqual(gaps, want) {
		t.Errorf("Expected gaps %v, got %v", want, gaps)
	}
}

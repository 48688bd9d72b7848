// Package catalog loads and validates the risk scenario catalog.
//
// The catalog is declarative YAML, parsed and validated once at process start
// and immutable afterwards. Validation failures are fatal at load time: the
// process must refuse to serve analysis rather than silently mis-score.
package catalog

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/calder/axial/internal/models"
)

//go:embed scenarios.yaml
var defaultCatalogYAML []byte

// CurveType names a response curve applied to an axis score.
type CurveType string

const (
	CurveThreshold   CurveType = "threshold"
	CurveStandard    CurveType = "standard"
	CurveLogarithmic CurveType = "logarithmic"
)

// weightSumTolerance is the allowed deviation of a scenario's axis weights
// from 1.0.
const weightSumTolerance = 0.01

// Impact bounds shared with the risk engine.
const (
	MinImpact = 1
	MaxImpact = 7
)

// ImpactRule is one parsed impact rule. Exactly one of the two value forms is
// set: Bump rules ("+1") increment the running impact and evaluation
// continues; literal rules set the impact and evaluation stops.
type ImpactRule struct {
	Condition string
	Bump      bool
	Level     int
}

// IsDefault reports whether this is the scenario's default rule.
func (r ImpactRule) IsDefault() bool {
	return r.Condition == "default"
}

// Scenario is one validated risk scenario.
type Scenario struct {
	ID          string
	Name        string
	Category    string
	Description string
	Axes        map[models.Axis]float64
	Curves      map[models.Axis]CurveType
	ImpactRules []ImpactRule
}

// DefaultImpact returns the level of the scenario's default impact rule.
// Validation guarantees exactly one exists.
func (s *Scenario) DefaultImpact() int {
	for _, rule := range s.ImpactRules {
		if rule.IsDefault() {
			return rule.Level
		}
	}
	return MinImpact
}

// Catalog is the full set of validated scenarios. Never mutated after load;
// safe for unbounded concurrent readers.
type Catalog struct {
	Scenarios []Scenario
}

// wire types mirror the YAML document before validation

type wireDocument struct {
	Risks []wireScenario `yaml:"risks" validate:"required,min=1,dive"`
}

type wireScenario struct {
	ID          string             `yaml:"id" validate:"required"`
	Name        string             `yaml:"name" validate:"required"`
	Category    string             `yaml:"category" validate:"required"`
	Description string             `yaml:"description"`
	Axes        map[string]float64 `yaml:"axes" validate:"required,min=1"`
	Curves      map[string]string  `yaml:"curves"`
	ImpactRules []wireImpactRule   `yaml:"impact_rules" validate:"required,min=1,dive"`
}

type wireImpactRule struct {
	Condition string     `yaml:"condition" validate:"required"`
	Value     wireImpact `yaml:"value"`
}

// wireImpact accepts either an integer impact level or the literal "+1".
type wireImpact struct {
	bump  bool
	level int
}

// UnmarshalYAML decodes an impact value node.
func (w *wireImpact) UnmarshalYAML(node *yaml.Node) error {
	var asInt int
	if err := node.Decode(&asInt); err == nil {
		w.level = asInt
		return nil
	}
	var asString string
	if err := node.Decode(&asString); err != nil {
		return fmt.Errorf("impact value must be an integer or \"+1\"")
	}
	if asString != "+1" {
		return fmt.Errorf("impact value %q must be an integer or \"+1\"", asString)
	}
	w.bump = true
	return nil
}

// Load reads and validates a catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return Parse(data)
}

// Default returns the catalog embedded in the binary.
func Default() (*Catalog, error) {
	return Parse(defaultCatalogYAML)
}

// Parse decodes and validates catalog YAML.
func Parse(data []byte) (*Catalog, error) {
	var doc wireDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	if err := validator.New().Struct(&doc); err != nil {
		return nil, fmt.Errorf("validate catalog: %w", err)
	}

	cat := &Catalog{Scenarios: make([]Scenario, 0, len(doc.Risks))}
	for _, ws := range doc.Risks {
		scenario, err := buildScenario(ws)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", ws.ID, err)
		}
		cat.Scenarios = append(cat.Scenarios, scenario)
	}
	return cat, nil
}

// buildScenario converts one wire scenario into its typed form, enforcing the
// cross-field invariants the struct tags cannot express.
func buildScenario(ws wireScenario) (Scenario, error) {
	scenario := Scenario{
		ID:          ws.ID,
		Name:        ws.Name,
		Category:    ws.Category,
		Description: ws.Description,
		Axes:        make(map[models.Axis]float64, len(ws.Axes)),
		Curves:      make(map[models.Axis]CurveType, len(ws.Curves)),
	}

	weightSum := 0.0
	for code, weight := range ws.Axes {
		axis, ok := models.ParseAxis(code)
		if !ok {
			return scenario, fmt.Errorf("unknown axis %q", code)
		}
		scenario.Axes[axis] = weight
		weightSum += weight
	}
	if math.Abs(weightSum-1.0) > weightSumTolerance {
		return scenario, fmt.Errorf("axis weights sum to %.3f, want 1.0 ±%.2f", weightSum, weightSumTolerance)
	}

	for code, curve := range ws.Curves {
		axis, ok := models.ParseAxis(code)
		if !ok {
			return scenario, fmt.Errorf("unknown curve axis %q", code)
		}
		switch CurveType(curve) {
		case CurveThreshold, CurveStandard, CurveLogarithmic:
			scenario.Curves[axis] = CurveType(curve)
		default:
			return scenario, fmt.Errorf("unknown curve type %q for axis %s", curve, code)
		}
	}

	defaults := 0
	for _, wr := range ws.ImpactRules {
		rule := ImpactRule{Condition: wr.Condition, Bump: wr.Value.bump, Level: wr.Value.level}
		if rule.IsDefault() {
			defaults++
			if rule.Bump {
				return scenario, fmt.Errorf("default impact rule cannot be \"+1\"")
			}
		}
		if !rule.Bump && (rule.Level < MinImpact || rule.Level > MaxImpact) {
			return scenario, fmt.Errorf("impact level %d out of range [%d,%d]", rule.Level, MinImpact, MaxImpact)
		}
		scenario.ImpactRules = append(scenario.ImpactRules, rule)
	}
	if defaults != 1 {
		return scenario, fmt.Errorf("need exactly one default impact rule, found %d", defaults)
	}

	return scenario, nil
}

// Package bank loads the question bank from YAML and normalizes it into the
// typed question model.
//
// Defaults for sparse historical data (missing criticality weight, missing
// alpha threshold, missing axis points) are resolved here, at the data-model
// boundary, so engine code never probes for presence. Structural
// data-quality problems in the branching graph are reported as warnings, not
// errors: traversal degrades gracefully around them.
package bank

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/calder/axial/internal/models"
)

//go:embed starter.yaml
var starterBankYAML []byte

// defaultCW is the criticality weight assumed when the bank omits one.
const defaultCW = 1.0

// wireQuestion mirrors one YAML question entry. Optional numerics are
// pointers so absence is distinguishable from zero.
type wireQuestion struct {
	ID               string             `yaml:"id"`
	Domain           string             `yaml:"domain"`
	Tier             string             `yaml:"tier"`
	BranchType       string             `yaml:"branch_type"`
	Text             string             `yaml:"text"`
	GateThreshold    *float64           `yaml:"gate_threshold"`
	NextIfLow        string             `yaml:"next_if_low"`
	NextIfHigh       string             `yaml:"next_if_high"`
	NextDefault      string             `yaml:"next_default"`
	EndFlag          bool               `yaml:"end_flag"`
	Points           map[string]float64 `yaml:"points"`
	CW               *float64           `yaml:"cw"`
	Threshold        *float64           `yaml:"th"`
	EvidencePolicyID string             `yaml:"evidence_policy_id"`
}

type wireBank struct {
	Questions []wireQuestion `yaml:"questions"`
}

// Load reads and parses a question bank file.
func Load(path string) ([]models.Question, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read question bank: %w", err)
	}
	return Parse(data)
}

// Starter returns the embedded starter bank.
func Starter() ([]models.Question, []string, error) {
	return Parse(starterBankYAML)
}

// StarterYAML returns the raw embedded starter bank, for `init` to write out.
func StarterYAML() []byte {
	out := make([]byte, len(starterBankYAML))
	copy(out, starterBankYAML)
	return out
}

// Parse decodes a question bank and returns the normalized questions along
// with data-quality warnings. Hard errors are reserved for malformed YAML,
// duplicate IDs, and unknown axis codes; branching defects only warn.
func Parse(data []byte) ([]models.Question, []string, error) {
	var wb wireBank
	if err := yaml.Unmarshal(data, &wb); err != nil {
		return nil, nil, fmt.Errorf("parse question bank: %w", err)
	}
	if len(wb.Questions) == 0 {
		return nil, nil, fmt.Errorf("question bank is empty")
	}

	questions := make([]models.Question, 0, len(wb.Questions))
	seen := make(map[string]bool, len(wb.Questions))
	for _, wq := range wb.Questions {
		if wq.ID == "" {
			return nil, nil, fmt.Errorf("question with empty id")
		}
		if seen[wq.ID] {
			return nil, nil, fmt.Errorf("duplicate question id %q", wq.ID)
		}
		seen[wq.ID] = true

		q, err := normalize(wq)
		if err != nil {
			return nil, nil, fmt.Errorf("question %q: %w", wq.ID, err)
		}
		questions = append(questions, q)
	}

	return questions, Lint(questions), nil
}

// normalize converts a wire question into the typed model, resolving
// defaults once.
func normalize(wq wireQuestion) (models.Question, error) {
	q := models.Question{
		ID:               wq.ID,
		Domain:           wq.Domain,
		Tier:             wq.Tier,
		BranchType:       models.BranchType(strings.ToLower(strings.TrimSpace(wq.BranchType))),
		Text:             wq.Text,
		NextIfLow:        wq.NextIfLow,
		NextIfHigh:       wq.NextIfHigh,
		NextDefault:      wq.NextDefault,
		EndFlag:          wq.EndFlag,
		EvidencePolicyID: wq.EvidencePolicyID,
		CW:               defaultCW,
	}
	if q.BranchType == "" {
		q.BranchType = models.BranchLinear
	}
	if wq.GateThreshold != nil {
		q.GateThreshold = *wq.GateThreshold
	}
	if wq.CW != nil {
		q.CW = *wq.CW
	}
	if wq.Threshold != nil {
		q.Threshold = *wq.Threshold
	}
	for code, pts := range wq.Points {
		axis, ok := models.ParseAxis(code)
		if !ok {
			return q, fmt.Errorf("unknown axis %q", code)
		}
		q.Weights[axis] = pts
	}
	return q, nil
}

// Lint reports branching data-quality defects: gatekeepers missing a branch
// target and edges pointing at questions that do not exist. Traversal skips
// these at runtime; Lint surfaces them to operators up front.
func Lint(questions []models.Question) []string {
	index := make(map[string]bool, len(questions))
	for i := range questions {
		index[questions[i].ID] = true
	}

	var warnings []string
	for i := range questions {
		q := &questions[i]
		if q.IsGatekeeper() {
			if q.NextIfLow == "" || q.NextIfHigh == "" {
				warnings = append(warnings, fmt.Sprintf("gatekeeper %s is missing a branch target (low=%q high=%q)", q.ID, q.NextIfLow, q.NextIfHigh))
			}
		}
		for _, target := range []string{q.NextIfLow, q.NextIfHigh, q.NextDefault} {
			if target != "" && !index[target] {
				warnings = append(warnings, fmt.Sprintf("question %s references unknown target %q", q.ID, target))
			}
		}
	}
	return warnings
}

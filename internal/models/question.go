package models

// BranchType classifies how a question routes the adaptive path.
type BranchType string

const (
	// BranchGatekeeper questions branch the path on their answer score and
	// bound lookahead while unanswered.
	BranchGatekeeper BranchType = "gatekeeper"
	// BranchDrilldown questions probe deeper into an area a gatekeeper
	// opened.
	BranchDrilldown BranchType = "drilldown"
	// BranchLinear questions link straight to their default successor.
	BranchLinear BranchType = "linear"
)

// Question is one node of the adaptive question bank.
type Question struct {
	ID         string     `json:"id"`
	Domain     string     `json:"domain"`
	Tier       string     `json:"tier"` // T1-T4
	BranchType BranchType `json:"branch_type"`
	Text       string     `json:"text"`

	// GateThreshold splits low and high branches for gatekeepers.
	GateThreshold float64 `json:"gate_threshold,omitempty"`

	NextIfLow   string `json:"next_if_low,omitempty"`
	NextIfHigh  string `json:"next_if_high,omitempty"`
	NextDefault string `json:"next_default,omitempty"`

	// EndFlag marks an explicit terminal node of its branch.
	EndFlag bool `json:"end_flag,omitempty"`

	// Weights are the per-axis point loadings of the question.
	Weights AxisWeights `json:"weights"`

	// CW is the criticality weight; values above 1 mark critical controls.
	CW float64 `json:"cw"`

	// Threshold is the score below which a critical control draws the
	// scoring penalty.
	Threshold float64 `json:"threshold,omitempty"`

	EvidencePolicyID string `json:"evidence_policy_id,omitempty"`
}

// IsGatekeeper reports whether the question gates its branch.
func (q *Question) IsGatekeeper() bool {
	return q.BranchType == BranchGatekeeper
}

package models

// AxisScore is one axis entry in a result vector, relabeled for presentation.
type AxisScore struct {
	Axis  string  `json:"axis"`  // human-readable name
	Code  string  `json:"code"`  // single-letter code
	Score float64 `json:"score"` // 0-100, one decimal
}

// CapEvent records a cross-axis cap that actually bound (the uncapped value
// exceeded the cap).
type CapEvent struct {
	Type   string  `json:"type"`   // fatigue_cap | shadow_cap
	Axis   string  `json:"axis"`   // capped axis code
	CapTo  float64 `json:"cap_to"` // value the axis was limited to
	Reason string  `json:"reason"`
}

// ScenarioRisk is the evaluated outcome of one risk scenario.
type ScenarioRisk struct {
	ScenarioID string   `json:"scenario_id"`
	Name       string   `json:"name"`
	Category   string   `json:"category"`
	Mitigation float64  `json:"mitigation_score"` // 0.0-1.0
	Likelihood int      `json:"likelihood"`       // 1-7
	Impact     int      `json:"impact"`           // 1-7
	RiskScore  int      `json:"risk_score"`       // likelihood x impact
	Level      string   `json:"level"`            // GREEN | YELLOW | AMBER | RED
	KeyGaps    []string `json:"key_gaps,omitempty"`
}

// ArchetypeDetails is the archetype classification plus its narrative.
type ArchetypeDetails struct {
	ArchetypeDefinition
	Rationale  string  `json:"rationale"`
	Confidence float64 `json:"confidence"` // answered-question coverage, 0.0-1.0
}

// AnalysisSummary carries the headline metrics of an analysis.
type AnalysisSummary struct {
	TrustIndex            float64 `json:"trust_index"`
	FrictionScore         float64 `json:"friction_score"`
	AlphaPenaltyCount     int     `json:"alpha_penalty_count"`
	EvidenceConfidenceAvg float64 `json:"evidence_confidence_avg"`
}

// AnalysisResult is the full output of a scoring run.
type AnalysisResult struct {
	Archetype        string           `json:"archetype"`
	ArchetypeDetails ArchetypeDetails `json:"archetype_details"`
	Summary          AnalysisSummary  `json:"summary"`

	Axes           []AxisScore `json:"axes"`
	DeclaredVector []AxisScore `json:"declared_vector"`
	VerifiedVector []AxisScore `json:"verified_vector"`
	GapVector      []AxisScore `json:"gap_vector"`

	CapsApplied []CapEvent     `json:"caps_applied"`
	RiskHeatmap []ScenarioRisk `json:"risk_heatmap"`
	TopRisks    []ScenarioRisk `json:"top_risks"`

	// InsufficientData marks the legitimate terminal state reached when no
	// scorable responses exist; all collections above are empty.
	InsufficientData bool `json:"insufficient_data,omitempty"`
}

// DiagnosticResult is the output of the cheap pre-analysis scoring variants
// (kickstart diagnostic and soft vector).
type DiagnosticResult struct {
	Overall   float64     `json:"overall"` // 0-100
	Axes      []AxisScore `json:"axes"`
	Questions int         `json:"questions"` // questions considered
	Answered  int         `json:"answered"`  // responses that contributed
}

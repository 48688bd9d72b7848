package models

// ResponseOrigin records how a response entered the assessment.
type ResponseOrigin string

const (
	// OriginAdaptive responses were answered along the adaptive path.
	OriginAdaptive ResponseOrigin = "adaptive"
	// OriginOverride responses were added outside the adaptive path, used by
	// callers to build expanded views.
	OriginOverride ResponseOrigin = "override"
)

// Response is a respondent's answer to one question. The (AssessmentID,
// QuestionID) pair is unique within an assessment.
type Response struct {
	AssessmentID string         `json:"assessment_id"`
	QuestionID   string         `json:"question_id"`
	Score        float64        `json:"score"` // raw answer score, 0-4
	Deferred     bool           `json:"deferred,omitempty"`
	Origin       ResponseOrigin `json:"origin,omitempty"`

	// EvidenceConfidence is the inline confidence attached at answer time
	// (0.0-1.0). Nil means "not provided"; the scoring engine then falls back
	// to the evidence table and finally to 1.0.
	EvidenceConfidence *float64 `json:"evidence_confidence,omitempty"`
}

// EvidenceResponse is a standalone confidence record for a question, used as
// the fallback confidence source when the response carries none inline.
type EvidenceResponse struct {
	AssessmentID string  `json:"assessment_id"`
	QuestionID   string  `json:"question_id"`
	Confidence   float64 `json:"confidence"` // 0.0-1.0
}

// Assessment identifies one respondent's assessment run.
type Assessment struct {
	ID         string   `json:"id"`
	Name       string   `json:"name,omitempty"`
	IntakeTags []string `json:"intake_tags,omitempty"`
	CreatedAt  string   `json:"created_at,omitempty"`
}

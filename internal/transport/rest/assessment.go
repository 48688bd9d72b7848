package rest

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/calder/axial/internal/models"
	"github.com/calder/axial/internal/risk"
	"github.com/calder/axial/internal/scoring"
	"github.com/calder/axial/internal/traversal"
)

var validate = validator.New()

// AssessmentHandler handles assessment lifecycle endpoints
type AssessmentHandler struct {
	c         *Container
	traversal *traversal.Engine
}

// NewAssessmentHandler creates a new assessment handler
func NewAssessmentHandler(c *Container) *AssessmentHandler {
	return &AssessmentHandler{
		c:         c,
		traversal: traversal.NewEngine(c.Log),
	}
}

// CreateAssessmentRequest is the request body for creating an assessment
type CreateAssessmentRequest struct {
	Name       string   `json:"name" validate:"required"`
	IntakeTags []string `json:"intake_tags"`
}

// SubmitResponseRequest is the request body for answering a question
type SubmitResponseRequest struct {
	QuestionID         string   `json:"question_id" validate:"required"`
	Score              float64  `json:"score" validate:"min=0,max=4"`
	Deferred           bool     `json:"deferred"`
	Origin             string   `json:"origin" validate:"omitempty,oneof=adaptive override"`
	EvidenceConfidence *float64 `json:"evidence_confidence" validate:"omitempty,min=0,max=1"`
}

// Create handles POST /v1/assessments
func (h *AssessmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAssessmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	assessment, err := h.c.Store.CreateAssessment(req.Name, req.IntakeTags)
	if err != nil {
		h.c.Log.Errorf("create assessment: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create assessment")
		return
	}

	writeJSON(w, http.StatusCreated, assessment)
}

// List handles GET /v1/assessments
func (h *AssessmentHandler) List(w http.ResponseWriter, r *http.Request) {
	assessments, err := h.c.Store.ListAssessments()
	if err != nil {
		h.c.Log.Errorf("list assessments: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list assessments")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"assessments": assessments})
}

// Get handles GET /v1/assessments/{id}
func (h *AssessmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	assessment, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, assessment)
}

// SubmitResponse handles POST /v1/assessments/{id}/responses
func (h *AssessmentHandler) SubmitResponse(w http.ResponseWriter, r *http.Request) {
	assessment, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req SubmitResponseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !h.knownQuestion(req.QuestionID) {
		writeError(w, http.StatusBadRequest, "unknown question id")
		return
	}

	origin := models.ResponseOrigin(req.Origin)
	if origin == "" {
		origin = models.OriginAdaptive
	}

	resp := models.Response{
		AssessmentID:       assessment.ID,
		QuestionID:         req.QuestionID,
		Score:              req.Score,
		Deferred:           req.Deferred,
		Origin:             origin,
		EvidenceConfidence: req.EvidenceConfidence,
	}
	if err := h.c.Store.SaveResponse(resp); err != nil {
		h.c.Log.Errorf("save response: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to save response")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Path handles GET /v1/assessments/{id}/path
func (h *AssessmentHandler) Path(w http.ResponseWriter, r *http.Request) {
	assessment, ok := h.lookup(w, r)
	if !ok {
		return
	}

	responses, err := h.c.Store.ListResponses(assessment.ID)
	if err != nil {
		h.c.Log.Errorf("list responses: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load responses")
		return
	}

	answered := make(map[string]float64, len(responses))
	for _, resp := range responses {
		if resp.Deferred {
			continue
		}
		answered[resp.QuestionID] = resp.Score
	}

	path := h.traversal.ReachablePath(h.c.Questions, answered)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"path":     path,
		"answered": len(answered),
	})
}

// Analyze handles POST /v1/assessments/{id}/analyze
func (h *AssessmentHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	assessment, ok := h.lookup(w, r)
	if !ok {
		return
	}

	responses, evidence, ok := h.loadScoringInputs(w, assessment.ID)
	if !ok {
		return
	}

	analyzer := scoring.NewAnalyzer(h.c.Questions, responses, evidence,
		h.c.Store, risk.NewEngine(h.c.Catalog), h.c.Log)
	if h.c.HybridAlpha > 0 {
		analyzer.SetAlpha(h.c.HybridAlpha)
	}

	writeJSON(w, http.StatusOK, analyzer.Compute(assessment.IntakeTags))
}

// Kickstart handles GET /v1/assessments/{id}/kickstart
func (h *AssessmentHandler) Kickstart(w http.ResponseWriter, r *http.Request) {
	h.diagnostic(w, r, scoring.KickstartDiagnostic)
}

// SoftVector handles GET /v1/assessments/{id}/soft-vector
func (h *AssessmentHandler) SoftVector(w http.ResponseWriter, r *http.Request) {
	h.diagnostic(w, r, scoring.SoftVector)
}

func (h *AssessmentHandler) diagnostic(w http.ResponseWriter, r *http.Request,
	fn func([]models.Question, []models.Response) *models.DiagnosticResult) {

	assessment, ok := h.lookup(w, r)
	if !ok {
		return
	}

	responses, err := h.c.Store.ListResponses(assessment.ID)
	if err != nil {
		h.c.Log.Errorf("list responses: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load responses")
		return
	}

	writeJSON(w, http.StatusOK, fn(h.c.Questions, responses))
}

func (h *AssessmentHandler) lookup(w http.ResponseWriter, r *http.Request) (models.Assessment, bool) {
	id := mux.Vars(r)["id"]
	assessment, err := h.c.Store.GetAssessment(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "assessment not found")
		return models.Assessment{}, false
	}
	return assessment, true
}

func (h *AssessmentHandler) loadScoringInputs(w http.ResponseWriter, assessmentID string) ([]models.Response, []models.EvidenceResponse, bool) {
	responses, err := h.c.Store.ListResponses(assessmentID)
	if err != nil {
		h.c.Log.Errorf("list responses: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load responses")
		return nil, nil, false
	}
	evidence, err := h.c.Store.ListEvidence(assessmentID)
	if err != nil {
		h.c.Log.Errorf("list evidence: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load evidence")
		return nil, nil, false
	}
	return responses, evidence, true
}

func (h *AssessmentHandler) knownQuestion(id string) bool {
	for i := range h.c.Questions {
		if h.c.Questions[i].ID == id {
			return true
		}
	}
	return false
}

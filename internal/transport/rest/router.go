// Package rest exposes the assessment engine over HTTP.
package rest

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/calder/axial/internal/catalog"
	"github.com/calder/axial/internal/logger"
	"github.com/calder/axial/internal/models"
	"github.com/calder/axial/internal/store"
)

// Container holds all dependencies for the router
type Container struct {
	Store     *store.Store
	Questions []models.Question
	Catalog   *catalog.Catalog

	// HybridAlpha overrides the scoring blend when non-zero.
	HybridAlpha float64

	Log logger.Logger
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	assessmentHandler := NewAssessmentHandler(c)
	catalogHandler := NewCatalogHandler(c.Catalog)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	v1 := r.PathPrefix("/v1").Subrouter()

	v1.HandleFunc("/assessments", assessmentHandler.Create).Methods("POST")
	v1.HandleFunc("/assessments", assessmentHandler.List).Methods("GET")
	v1.HandleFunc("/assessments/{id}", assessmentHandler.Get).Methods("GET")
	v1.HandleFunc("/assessments/{id}/responses", assessmentHandler.SubmitResponse).Methods("POST")
	v1.HandleFunc("/assessments/{id}/path", assessmentHandler.Path).Methods("GET")
	v1.HandleFunc("/assessments/{id}/analyze", assessmentHandler.Analyze).Methods("POST")
	v1.HandleFunc("/assessments/{id}/kickstart", assessmentHandler.Kickstart).Methods("GET")
	v1.HandleFunc("/assessments/{id}/soft-vector", assessmentHandler.SoftVector).Methods("GET")

	v1.HandleFunc("/catalog/scenarios", catalogHandler.ListScenarios).Methods("GET")

	return r
}

package rest

import (
	"net/http"

	"github.com/calder/axial/internal/catalog"
)

// CatalogHandler handles scenario catalog endpoints
type CatalogHandler struct {
	catalog *catalog.Catalog
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(cat *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: cat}
}

// ScenarioView is the wire representation of one catalog scenario
type ScenarioView struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Category    string             `json:"category"`
	Description string             `json:"description,omitempty"`
	Axes        map[string]float64 `json:"axes"`
	Curves      map[string]string  `json:"curves,omitempty"`
}

// ListScenarios handles GET /v1/catalog/scenarios
func (h *CatalogHandler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	views := make([]ScenarioView, 0, len(h.catalog.Scenarios))
	for _, s := range h.catalog.Scenarios {
		view := ScenarioView{
			ID:          s.ID,
			Name:        s.Name,
			Category:    s.Category,
			Description: s.Description,
			Axes:        make(map[string]float64, len(s.Axes)),
			Curves:      make(map[string]string, len(s.Curves)),
		}
		for axis, weight := range s.Axes {
			view.Axes[axis.Code()] = weight
		}
		for axis, curve := range s.Curves {
			view.Curves[axis.Code()] = string(curve)
		}
		views = append(views, view)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"scenarios": views})
}

package handlers

import (
	"net/http"
	"strings"

	"github.com/niramaya-health/hospital-finder/internal/application/services"
	"github.com/niramaya-health/hospital-finder/internal/catalog"
)

// ConditionHandler serves the condition taxonomy.
type ConditionHandler struct {
	catalog  *catalog.Catalog
	taxonomy *services.TaxonomyService
}

// NewConditionHandler creates a new condition handler.
func NewConditionHandler(cat *catalog.Catalog, taxonomy *services.TaxonomyService) *ConditionHandler {
	return &ConditionHandler{catalog: cat, taxonomy: taxonomy}
}

// ListConditions handles GET /api/conditions
func (h *ConditionHandler) ListConditions(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"categories": h.catalog.ConditionCategories(),
	})
}

// GetSpecialties handles GET /api/conditions/specialties?condition=...
func (h *ConditionHandler) GetSpecialties(w http.ResponseWriter, r *http.Request) {
	condition := strings.TrimSpace(r.URL.Query().Get("condition"))
	if condition == "" {
		respondWithError(w, http.StatusBadRequest, "condition parameter is required")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"condition":   condition,
		"specialties": h.taxonomy.SpecialtiesFor(condition),
	})
}

// EmergencyCheck handles GET /api/conditions/emergency-check?condition=...
func (h *ConditionHandler) EmergencyCheck(w http.ResponseWriter, r *http.Request) {
	condition := strings.TrimSpace(r.URL.Query().Get("condition"))
	if condition == "" {
		respondWithError(w, http.StatusBadRequest, "condition parameter is required")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"condition": condition,
		"emergency": h.taxonomy.IsEmergency(condition),
	})
}

package handlers

import (
	"net/http"
	"strings"

	"github.com/niramaya-health/hospital-finder/internal/catalog"
	"github.com/niramaya-health/hospital-finder/internal/domain/entities"
)

// HospitalHandler serves the static hospital catalog.
type HospitalHandler struct {
	catalog *catalog.Catalog
}

// NewHospitalHandler creates a new hospital handler.
func NewHospitalHandler(cat *catalog.Catalog) *HospitalHandler {
	return &HospitalHandler{catalog: cat}
}

// ListHospitals handles GET /api/hospitals with optional city, specialty and
// type filters.
func (h *HospitalHandler) ListHospitals(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	hospitals := h.catalog.Hospitals()
	if city := strings.TrimSpace(q.Get("city")); city != "" {
		hospitals = h.catalog.HospitalsByCity(city)
	}
	if specialty := strings.TrimSpace(q.Get("specialty")); specialty != "" {
		hospitals = filterBySpecialty(hospitals, specialty)
	}
	if typ := strings.TrimSpace(q.Get("type")); typ != "" {
		hospitals = filterByType(hospitals, entities.HospitalType(typ))
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"hospitals": hospitals,
		"count":     len(hospitals),
	})
}

// GetHospital handles GET /api/hospitals/{name}
func (h *HospitalHandler) GetHospital(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" {
		respondWithError(w, http.StatusBadRequest, "hospital name is required")
		return
	}

	hospital, ok := h.catalog.HospitalByName(name)
	if !ok {
		respondWithError(w, http.StatusNotFound, "hospital not found")
		return
	}

	respondWithJSON(w, http.StatusOK, hospital)
}

func filterBySpecialty(hospitals []entities.Hospital, specialty string) []entities.Hospital {
	needle := strings.ToLower(specialty)
	var out []entities.Hospital
	for _, h := range hospitals {
		for _, s := range h.Specialties {
			if strings.Contains(strings.ToLower(s), needle) {
				out = append(out, h)
				break
			}
		}
	}
	return out
}

func filterByType(hospitals []entities.Hospital, typ entities.HospitalType) []entities.Hospital {
	var out []entities.Hospital
	for _, h := range hospitals {
		if h.Type == typ {
			out = append(out, h)
		}
	}
	return out
}

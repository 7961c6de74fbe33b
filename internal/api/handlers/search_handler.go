package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/niramaya-health/hospital-finder/internal/application/services"
	"github.com/niramaya-health/hospital-finder/internal/domain/entities"
)

// SearchHandler serves the hospital matching endpoints.
type SearchHandler struct {
	matcher *services.MatchService

	defaultMinRating     float64
	defaultMaxDistanceKm float64
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(matcher *services.MatchService, defaultMaxDistanceKm float64) *SearchHandler {
	return &SearchHandler{
		matcher:              matcher,
		defaultMinRating:     3.0,
		defaultMaxDistanceKm: defaultMaxDistanceKm,
	}
}

// Search handles GET /api/hospitals/search?condition=&location=&types=&min_rating=&max_distance=
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.parsePreferences(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.matcher.Search(r.Context(), prefs)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"results":  result.Results,
		"degraded": result.Degraded,
		"count":    len(result.Results),
	})
}

// Recommendations handles GET /api/hospitals/recommendations?condition=&location=&limit=
func (h *SearchHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	condition := strings.TrimSpace(r.URL.Query().Get("condition"))
	if condition == "" {
		respondWithError(w, http.StatusBadRequest, "condition parameter is required")
		return
	}
	location := strings.TrimSpace(r.URL.Query().Get("location"))

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid limit parameter")
			return
		}
		limit = n
	}

	result, err := h.matcher.Recommendations(r.Context(), condition, location, limit)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"results":  result.Results,
		"degraded": result.Degraded,
		"count":    len(result.Results),
	})
}

func (h *SearchHandler) parsePreferences(r *http.Request) (*entities.SearchPreferences, error) {
	q := r.URL.Query()

	prefs := &entities.SearchPreferences{
		Condition:     strings.TrimSpace(q.Get("condition")),
		Location:      strings.TrimSpace(q.Get("location")),
		MinRating:     h.defaultMinRating,
		MaxDistanceKm: h.defaultMaxDistanceKm,
		HospitalTypes: []entities.HospitalType{
			entities.HospitalTypeGovernment,
			entities.HospitalTypePrivate,
		},
	}

	if raw := q.Get("types"); raw != "" {
		prefs.HospitalTypes = nil
		for _, t := range strings.Split(raw, ",") {
			prefs.HospitalTypes = append(prefs.HospitalTypes, entities.HospitalType(strings.TrimSpace(t)))
		}
	}
	if raw := q.Get("min_rating"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errInvalidParam("min_rating")
		}
		prefs.MinRating = v
	}
	if raw := q.Get("max_distance"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errInvalidParam("max_distance")
		}
		prefs.MaxDistanceKm = v
	}

	return prefs, nil
}

type paramError string

func (e paramError) Error() string { return string(e) }

func errInvalidParam(name string) error {
	return paramError("invalid " + name + " parameter")
}

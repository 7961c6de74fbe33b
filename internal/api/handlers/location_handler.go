package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/niramaya-health/hospital-finder/internal/application/services"
	"github.com/niramaya-health/hospital-finder/internal/catalog"
)

// LocationHandler serves city and geocoding endpoints.
type LocationHandler struct {
	catalog   *catalog.Catalog
	locations *services.LocationService
}

// NewLocationHandler creates a new location handler.
func NewLocationHandler(cat *catalog.Catalog, locations *services.LocationService) *LocationHandler {
	return &LocationHandler{catalog: cat, locations: locations}
}

// ListCities handles GET /api/cities
func (h *LocationHandler) ListCities(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"cities": h.catalog.CityNames(),
	})
}

// Geocode handles GET /api/geocode?location=...
func (h *LocationHandler) Geocode(w http.ResponseWriter, r *http.Request) {
	location := strings.TrimSpace(r.URL.Query().Get("location"))
	if location == "" {
		respondWithError(w, http.StatusBadRequest, "location parameter is required")
		return
	}

	coords, err := h.locations.Resolve(r.Context(), location)
	if err != nil {
		if errors.Is(err, services.ErrLocationNotFound) {
			respondWithError(w, http.StatusNotFound, "location could not be resolved")
			return
		}
		respondWithError(w, http.StatusBadGateway, "failed to geocode location")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"location": location,
		"lat":      coords.Latitude,
		"lon":      coords.Longitude,
	})
}

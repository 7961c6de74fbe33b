package routes

import (
	"net/http"

	"github.com/niramaya-health/hospital-finder/internal/api/handlers"
	"github.com/niramaya-health/hospital-finder/internal/api/middleware"
	"github.com/niramaya-health/hospital-finder/internal/infrastructure/observability"
)

// Router holds all route handlers.
type Router struct {
	mux *http.ServeMux

	searchHandler    *handlers.SearchHandler
	hospitalHandler  *handlers.HospitalHandler
	conditionHandler *handlers.ConditionHandler
	locationHandler  *handlers.LocationHandler

	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
}

// NewRouter creates a new router. Cache middleware and metrics may be nil.
func NewRouter(
	searchHandler *handlers.SearchHandler,
	hospitalHandler *handlers.HospitalHandler,
	conditionHandler *handlers.ConditionHandler,
	locationHandler *handlers.LocationHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux: http.NewServeMux(),

		searchHandler:    searchHandler,
		hospitalHandler:  hospitalHandler,
		conditionHandler: conditionHandler,
		locationHandler:  locationHandler,

		cacheMiddleware: cacheMiddleware,
		metrics:         metrics,
	}
}

// SetupRoutes configures all application routes.
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Search endpoints. Registered before /api/hospitals/{name} so the more
	// specific patterns win.
	r.mux.HandleFunc("GET /api/hospitals/search", r.searchHandler.Search)
	r.mux.HandleFunc("GET /api/hospitals/recommendations", r.searchHandler.Recommendations)

	// Catalog endpoints
	r.mux.HandleFunc("GET /api/hospitals", r.hospitalHandler.ListHospitals)
	r.mux.HandleFunc("GET /api/hospitals/{name}", r.hospitalHandler.GetHospital)

	// Condition taxonomy endpoints
	r.mux.HandleFunc("GET /api/conditions", r.conditionHandler.ListConditions)
	r.mux.HandleFunc("GET /api/conditions/specialties", r.conditionHandler.GetSpecialties)
	r.mux.HandleFunc("GET /api/conditions/emergency-check", r.conditionHandler.EmergencyCheck)

	// Location endpoints
	r.mux.HandleFunc("GET /api/cities", r.locationHandler.ListCities)
	r.mux.HandleFunc("GET /api/geocode", r.locationHandler.Geocode)

	// Middleware applies in reverse order: the last wrap runs first.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	if r.metrics != nil {
		handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	}

	handler = middleware.ResponseOptimization(handler)

	// CORS wraps everything so headers are set even on cache HITs.
	handler = middleware.CORSMiddleware(handler)

	return handler
}

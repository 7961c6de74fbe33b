package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/niramaya-health/hospital-finder/internal/catalog"
	"github.com/niramaya-health/hospital-finder/internal/domain/entities"
	"github.com/niramaya-health/hospital-finder/internal/infrastructure/observability"
	apperrors "github.com/niramaya-health/hospital-finder/pkg/errors"
)

const defaultMaxResults = 20

// SearchResult is the outcome of one matching pipeline run.
type SearchResult struct {
	Results []entities.ScoredHospital `json:"results"`
	// Degraded is true when the user's location could not be resolved and the
	// results carry no distances or scores.
	Degraded bool `json:"degraded"`
}

// MatchService orchestrates one hospital search: resolve the location, filter
// by distance, type and rating, score the survivors and rank them. The service
// holds no per-query state; concurrent searches are independent.
type MatchService struct {
	catalog    *catalog.Catalog
	locations  *LocationService
	proximity  *ProximityService
	scoring    *ScoringService
	analytics  *SearchAnalyticsService
	metrics    *observability.Metrics
	maxResults int
}

// NewMatchService creates the matching pipeline. Analytics and metrics may be
// nil; maxResults falls back to the default cap when not positive.
func NewMatchService(
	cat *catalog.Catalog,
	locations *LocationService,
	proximity *ProximityService,
	scoring *ScoringService,
	analytics *SearchAnalyticsService,
	metrics *observability.Metrics,
	maxResults int,
) *MatchService {
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	return &MatchService{
		catalog:    cat,
		locations:  locations,
		proximity:  proximity,
		scoring:    scoring,
		analytics:  analytics,
		metrics:    metrics,
		maxResults: maxResults,
	}
}

// Search runs the full matching pipeline for one query. The only error it
// returns is a validation error on the preferences; resolver failures degrade,
// and filters that eliminate every candidate yield an empty result.
func (s *MatchService) Search(ctx context.Context, prefs *entities.SearchPreferences) (*SearchResult, error) {
	if err := validatePreferences(prefs); err != nil {
		return nil, err
	}

	start := time.Now()
	if s.metrics != nil {
		s.metrics.SearchCount.Add(ctx, 1)
	}

	result := s.run(ctx, prefs)

	if result.Degraded && s.metrics != nil {
		s.metrics.DegradedSearches.Add(ctx, 1)
	}
	if s.analytics != nil {
		s.analytics.Record(ctx, &entities.SearchEvent{
			Condition:   prefs.Condition,
			Location:    prefs.Location,
			Degraded:    result.Degraded,
			ResultCount: len(result.Results),
			DurationMs:  time.Since(start).Milliseconds(),
		})
	}

	return result, nil
}

func (s *MatchService) run(ctx context.Context, prefs *entities.SearchPreferences) *SearchResult {
	userCoords, err := s.locations.Resolve(ctx, prefs.Location)
	if err != nil {
		if !errors.Is(err, ErrLocationNotFound) {
			observability.LoggerFromContext(ctx).Warn().Err(err).Msg("location resolution failed, degrading")
		}
		return s.runDegraded(prefs)
	}

	nearby := s.proximity.Within(ctx, *userCoords, s.catalog.Hospitals(), prefs.MaxDistanceKm)

	var scored []entities.ScoredHospital
	for _, hd := range nearby {
		if !prefs.AcceptsType(hd.Hospital.Type) || hd.Hospital.Rating < prefs.MinRating {
			continue
		}
		scored = append(scored, s.score(hd, prefs))
	}

	// Rank by AI score, rating as tie-break, name to keep the order total.
	sort.Slice(scored, func(i, j int) bool {
		if *scored[i].AIScore != *scored[j].AIScore {
			return *scored[i].AIScore > *scored[j].AIScore
		}
		if scored[i].Rating != scored[j].Rating {
			return scored[i].Rating > scored[j].Rating
		}
		return scored[i].Name < scored[j].Name
	})

	if len(scored) > s.maxResults {
		scored = scored[:s.maxResults]
	}
	return &SearchResult{Results: scored}
}

// runDegraded serves a search without a resolved location: type and rating
// filters only, catalog order, no distances and no scores.
func (s *MatchService) runDegraded(prefs *entities.SearchPreferences) *SearchResult {
	var results []entities.ScoredHospital
	for _, h := range s.catalog.Hospitals() {
		if !prefs.AcceptsType(h.Type) || h.Rating < prefs.MinRating {
			continue
		}
		results = append(results, entities.ScoredHospital{Hospital: h})
		if len(results) == s.maxResults {
			break
		}
	}
	return &SearchResult{Results: results, Degraded: true}
}

func (s *MatchService) score(hd HospitalDistance, prefs *entities.SearchPreferences) entities.ScoredHospital {
	h := hd.Hospital
	dist := hd.DistanceKm

	specialty := s.scoring.SpecialtyScore(prefs.Condition, h.Specialties)
	quality := s.scoring.QualityScore(&h)
	accessibility := s.scoring.AccessibilityScore(&h, prefs.HospitalTypes)
	distScore := s.scoring.DistanceScore(dist, prefs.MaxDistanceKm)
	aiScore := s.scoring.AIScore(prefs.Condition, &h, &dist, prefs)

	carMin := TravelTimeMinutes(dist, "car")
	pubMin := TravelTimeMinutes(dist, "public_transport")

	return entities.ScoredHospital{
		Hospital:           h,
		DistanceKm:         &dist,
		DistanceCategory:   DistanceCategory(dist),
		DistanceText:       DistanceText(dist),
		TravelTimeCarMin:   &carMin,
		TravelTimePubMin:   &pubMin,
		SpecialtyScore:     &specialty,
		QualityScore:       &quality,
		AccessibilityScore: &accessibility,
		DistanceScore:      &distScore,
		AIScore:            &aiScore,
	}
}

// Recommendations returns the top hospitals for a condition and location with
// default preferences, each annotated with a human-readable reason.
func (s *MatchService) Recommendations(ctx context.Context, condition, location string, maxResults int) (*SearchResult, error) {
	if maxResults <= 0 {
		maxResults = 10
	}
	if maxResults > s.maxResults {
		maxResults = s.maxResults
	}

	result, err := s.Search(ctx, &entities.SearchPreferences{
		Condition:     condition,
		Location:      location,
		HospitalTypes: []entities.HospitalType{entities.HospitalTypeGovernment, entities.HospitalTypePrivate},
		MinRating:     3.0,
		MaxDistanceKm: 50,
	})
	if err != nil {
		return nil, err
	}

	if len(result.Results) > maxResults {
		result.Results = result.Results[:maxResults]
	}
	for i := range result.Results {
		result.Results[i].RecommendationReason = recommendationReason(&result.Results[i])
	}
	return result, nil
}

func recommendationReason(h *entities.ScoredHospital) string {
	var parts []string

	switch {
	case h.AIScore != nil && *h.AIScore >= 80:
		parts = append(parts, "Excellent match for your condition")
	case h.AIScore != nil && *h.AIScore >= 60:
		parts = append(parts, "Good match for your condition")
	default:
		parts = append(parts, "Suitable for your condition")
	}

	if h.NABHAccredited {
		parts = append(parts, "NABH accredited facility")
	}
	if h.EmergencyServices {
		parts = append(parts, "24/7 emergency services available")
	}
	if h.Rating >= 4.5 {
		parts = append(parts, "Highly rated by patients")
	}

	reason := parts[0]
	for _, p := range parts[1:] {
		reason += " • " + p
	}
	return reason
}

func validatePreferences(prefs *entities.SearchPreferences) error {
	if prefs == nil {
		return apperrors.NewValidationError("search preferences are required")
	}
	if prefs.Condition == "" {
		return apperrors.NewValidationError("condition is required")
	}
	if len(prefs.HospitalTypes) == 0 {
		return apperrors.NewValidationError("at least one hospital type is required")
	}
	for _, t := range prefs.HospitalTypes {
		if t != entities.HospitalTypeGovernment && t != entities.HospitalTypePrivate {
			return apperrors.NewValidationError("unknown hospital type: " + string(t))
		}
	}
	if prefs.MaxDistanceKm <= 0 {
		return apperrors.NewValidationError("max distance must be positive")
	}
	if prefs.MinRating < 0 || prefs.MinRating > 5 {
		return apperrors.NewValidationError("min rating must be between 0 and 5")
	}
	return nil
}

package services

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/niramaya-health/hospital-finder/internal/domain/entities"
	"github.com/niramaya-health/hospital-finder/internal/domain/providers"
	"github.com/niramaya-health/hospital-finder/internal/infrastructure/observability"
)

const earthRadiusKm = 6371.0

// HospitalDistance pairs a hospital with its distance from the user.
type HospitalDistance struct {
	Hospital   entities.Hospital
	DistanceKm float64
}

// ProximityService computes geodesic distances and filters hospitals by a
// maximum radius.
type ProximityService struct {
	metrics *observability.Metrics
}

// NewProximityService creates a proximity service. Metrics may be nil.
func NewProximityService(metrics *observability.Metrics) *ProximityService {
	return &ProximityService{metrics: metrics}
}

// Distance returns the great-circle distance between two points in kilometers,
// rounded to two decimal places.
func (s *ProximityService) Distance(from, to providers.Coordinates) float64 {
	lat1 := toRadians(from.Latitude)
	lat2 := toRadians(to.Latitude)
	deltaLat := toRadians(to.Latitude - from.Latitude)
	deltaLon := toRadians(to.Longitude - from.Longitude)

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return roundKm(earthRadiusKm * c)
}

// Within returns the hospitals whose distance from the user does not exceed
// maxKm (inclusive), sorted ascending by distance. Hospitals with malformed
// coordinates are skipped, counted and logged, never treated as an error.
func (s *ProximityService) Within(ctx context.Context, user providers.Coordinates, hospitals []entities.Hospital, maxKm float64) []HospitalDistance {
	logger := observability.LoggerFromContext(ctx)

	var nearby []HospitalDistance
	for _, h := range hospitals {
		if !h.Location.Valid() {
			if s.metrics != nil {
				s.metrics.SkippedHospitals.Add(ctx, 1)
			}
			logger.Warn().Str("hospital", h.Name).Msg("skipping hospital with malformed coordinates")
			continue
		}

		dist := s.Distance(user, providers.Coordinates{
			Latitude:  h.Location.Latitude,
			Longitude: h.Location.Longitude,
		})
		if dist > maxKm {
			continue
		}
		nearby = append(nearby, HospitalDistance{Hospital: h, DistanceKm: dist})
	}

	sort.Slice(nearby, func(i, j int) bool {
		if nearby[i].DistanceKm != nearby[j].DistanceKm {
			return nearby[i].DistanceKm < nearby[j].DistanceKm
		}
		return nearby[i].Hospital.Name < nearby[j].Hospital.Name
	})

	return nearby
}

// Travel speeds in km/h, calibrated for Indian road conditions.
var travelSpeeds = map[string]float64{
	"car":              25,
	"bike":             20,
	"walk":             4,
	"public_transport": 15,
	"auto_rickshaw":    18,
}

// TravelTimeMinutes estimates travel time for a distance and transport mode.
// Unknown modes fall back to car speed.
func TravelTimeMinutes(distanceKm float64, mode string) int {
	speed, ok := travelSpeeds[mode]
	if !ok {
		speed = travelSpeeds["car"]
	}
	return int(math.Round(distanceKm / speed * 60))
}

// DistanceCategory buckets a distance into a coarse human-readable range.
func DistanceCategory(distanceKm float64) string {
	switch {
	case distanceKm <= 2:
		return "Very Near"
	case distanceKm <= 5:
		return "Near"
	case distanceKm <= 15:
		return "Moderate"
	case distanceKm <= 30:
		return "Far"
	default:
		return "Very Far"
	}
}

// DistanceText renders a distance as display text.
func DistanceText(distanceKm float64) string {
	if distanceKm < 1 {
		return fmt.Sprintf("%.0f meters", distanceKm*1000)
	}
	if distanceKm < 10 {
		return fmt.Sprintf("%.1f km", distanceKm)
	}
	return fmt.Sprintf("%.0f km", distanceKm)
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

func roundKm(km float64) float64 {
	return math.Round(km*100) / 100
}

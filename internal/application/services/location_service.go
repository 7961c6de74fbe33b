package services

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/niramaya-health/hospital-finder/internal/catalog"
	"github.com/niramaya-health/hospital-finder/internal/domain/entities"
	"github.com/niramaya-health/hospital-finder/internal/domain/providers"
	"github.com/niramaya-health/hospital-finder/internal/infrastructure/observability"
)

// ErrLocationNotFound indicates a location string could not be resolved to
// coordinates by either the static city table or the external geocoder. The
// match pipeline treats it as a signal to degrade, never as a hard failure.
var ErrLocationNotFound = errors.New("location could not be resolved")

// LocationService resolves free-text location descriptions to coordinates.
// The static city table is consulted first; the external geocoder is a
// fallback. Results are never cached: every call resolves fresh.
type LocationService struct {
	cities    map[string]entities.Location
	cityNames []string
	geocoder  providers.Geocoder
}

// NewLocationService creates a resolver over the catalog's city table with an
// optional geocoder fallback (nil disables the fallback).
func NewLocationService(cat *catalog.Catalog, geocoder providers.Geocoder) *LocationService {
	cities := cat.Cities()
	names := make([]string, 0, len(cities))
	for name := range cities {
		names = append(names, name)
	}
	sort.Strings(names)

	return &LocationService{
		cities:    cities,
		cityNames: names,
		geocoder:  geocoder,
	}
}

// Resolve turns a location string into coordinates, or ErrLocationNotFound.
//
// The input is normalized (lowercased, trimmed, common qualifiers stripped)
// and matched by containment in either direction against the city table.
// On a miss the geocoder is tried twice, first with an ", India" suffix for
// disambiguation, then with the raw text. No further retries.
func (s *LocationService) Resolve(ctx context.Context, locationText string) (*providers.Coordinates, error) {
	clean := normalizeLocation(locationText)
	if clean == "" {
		return nil, ErrLocationNotFound
	}

	for _, city := range s.cityNames {
		if strings.Contains(clean, city) || strings.Contains(city, clean) {
			loc := s.cities[city]
			return &providers.Coordinates{Latitude: loc.Latitude, Longitude: loc.Longitude}, nil
		}
	}

	if s.geocoder == nil {
		return nil, ErrLocationNotFound
	}

	logger := observability.LoggerFromContext(ctx)
	for _, query := range []string{locationText + ", India", locationText} {
		coords, err := s.geocoder.Geocode(ctx, query)
		if err != nil {
			logger.Debug().Err(err).Str("query", query).Msg("geocode attempt failed")
			continue
		}
		return coords, nil
	}

	return nil, ErrLocationNotFound
}

// normalizeLocation lowercases, trims and strips trailing qualifiers that
// users commonly append ("district", "city").
func normalizeLocation(location string) string {
	clean := strings.ToLower(strings.TrimSpace(location))
	clean = strings.ReplaceAll(clean, " district", "")
	clean = strings.ReplaceAll(clean, " city", "")
	return strings.TrimSpace(clean)
}

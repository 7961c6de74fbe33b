package geolocation

import (
	"context"
	"fmt"
	"strings"

	"github.com/niramaya-health/hospital-finder/internal/domain/providers"
)

// MockGeocoder implements a static geocoder for development and tests. Unknown
// locations fail, which exercises the degraded search path.
type MockGeocoder struct {
	locations map[string]providers.Coordinates
}

// NewMockGeocoder creates a mock geocoder preloaded with a few landmarks that
// the static city table does not cover.
func NewMockGeocoder() *MockGeocoder {
	return &MockGeocoder{
		locations: map[string]providers.Coordinates{
			"connaught place": {Latitude: 28.6315, Longitude: 77.2167},
			"andheri":         {Latitude: 19.1197, Longitude: 72.8464},
			"whitefield":      {Latitude: 12.9698, Longitude: 77.7500},
			"gachibowli":      {Latitude: 17.4401, Longitude: 78.3489},
			"salt lake":       {Latitude: 22.5867, Longitude: 88.4171},
		},
	}
}

// Geocode resolves known landmarks; anything else returns an error.
func (m *MockGeocoder) Geocode(ctx context.Context, location string) (*providers.Coordinates, error) {
	needle := strings.ToLower(strings.TrimSpace(location))
	for name, coords := range m.locations {
		if strings.Contains(needle, name) {
			c := coords
			return &c, nil
		}
	}
	return nil, fmt.Errorf("no results for location %q", location)
}

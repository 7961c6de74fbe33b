package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niramaya-health/hospital-finder/internal/domain/providers"
)

// stubGeocoder records queries and replays canned responses in order.
type stubGeocoder struct {
	queries []string
	coords  []*providers.Coordinates
	errs    []error
}

func (s *stubGeocoder) Geocode(ctx context.Context, location string) (*providers.Coordinates, error) {
	i := len(s.queries)
	s.queries = append(s.queries, location)
	if i < len(s.errs) && s.errs[i] != nil {
		return nil, s.errs[i]
	}
	if i < len(s.coords) {
		return s.coords[i], nil
	}
	return nil, errors.New("no response configured")
}

func TestResolve_KnownCity(t *testing.T) {
	svc := NewLocationService(testCatalog(t, nil), nil)

	coords, err := svc.Resolve(context.Background(), "Delhi")
	require.NoError(t, err)
	assert.InDelta(t, 28.6139, coords.Latitude, 0.001)
	assert.InDelta(t, 77.2090, coords.Longitude, 0.001)
}

func TestResolve_NormalizesQualifiers(t *testing.T) {
	svc := NewLocationService(testCatalog(t, nil), nil)

	for _, input := range []string{"  MUMBAI  ", "Mumbai City", "mumbai district"} {
		coords, err := svc.Resolve(context.Background(), input)
		require.NoError(t, err, "input %q", input)
		assert.InDelta(t, 19.0760, coords.Latitude, 0.001, "input %q", input)
	}
}

func TestResolve_ContainmentBothDirections(t *testing.T) {
	svc := NewLocationService(testCatalog(t, nil), nil)

	// City name inside the input text.
	coords, err := svc.Resolve(context.Background(), "somewhere in delhi")
	require.NoError(t, err)
	assert.InDelta(t, 28.6139, coords.Latitude, 0.001)

	// Input text inside a city name.
	coords, err = svc.Resolve(context.Background(), "bangal")
	require.NoError(t, err)
	assert.InDelta(t, 12.9716, coords.Latitude, 0.001)
}

func TestResolve_EmptyInput(t *testing.T) {
	geo := &stubGeocoder{}
	svc := NewLocationService(testCatalog(t, nil), geo)

	_, err := svc.Resolve(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrLocationNotFound)
	assert.Empty(t, geo.queries, "empty input must not reach the geocoder")
}

func TestResolve_GeocoderFallbackAddsCountrySuffixFirst(t *testing.T) {
	geo := &stubGeocoder{
		coords: []*providers.Coordinates{{Latitude: 26.9124, Longitude: 75.7873}},
	}
	svc := NewLocationService(testCatalog(t, nil), geo)

	coords, err := svc.Resolve(context.Background(), "Malviya Nagar Jaipur")
	require.NoError(t, err)
	assert.InDelta(t, 26.9124, coords.Latitude, 0.001)

	require.Len(t, geo.queries, 1)
	assert.Equal(t, "Malviya Nagar Jaipur, India", geo.queries[0])
}

func TestResolve_GeocoderSecondAttemptUsesRawText(t *testing.T) {
	geo := &stubGeocoder{
		errs:   []error{errors.New("no results"), nil},
		coords: []*providers.Coordinates{nil, {Latitude: 26.9124, Longitude: 75.7873}},
	}
	svc := NewLocationService(testCatalog(t, nil), geo)

	coords, err := svc.Resolve(context.Background(), "Malviya Nagar Jaipur")
	require.NoError(t, err)
	assert.InDelta(t, 26.9124, coords.Latitude, 0.001)

	require.Len(t, geo.queries, 2)
	assert.Equal(t, "Malviya Nagar Jaipur, India", geo.queries[0])
	assert.Equal(t, "Malviya Nagar Jaipur", geo.queries[1])
}

func TestResolve_ExactlyTwoGeocoderAttempts(t *testing.T) {
	geo := &stubGeocoder{
		errs: []error{errors.New("down"), errors.New("down"), errors.New("down")},
	}
	svc := NewLocationService(testCatalog(t, nil), geo)

	_, err := svc.Resolve(context.Background(), "nowhere special")
	assert.ErrorIs(t, err, ErrLocationNotFound)
	assert.Len(t, geo.queries, 2)
}

func TestResolve_NoGeocoderConfigured(t *testing.T) {
	svc := NewLocationService(testCatalog(t, nil), nil)

	_, err := svc.Resolve(context.Background(), "unknown village")
	assert.ErrorIs(t, err, ErrLocationNotFound)
}

package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niramaya-health/hospital-finder/internal/catalog"
	"github.com/niramaya-health/hospital-finder/internal/domain/entities"
	"github.com/niramaya-health/hospital-finder/internal/domain/providers"
)

func delhiHospitals() []entities.Hospital {
	return []entities.Hospital{
		{
			Name:              "Capital Heart Institute",
			City:              "Delhi",
			Location:          entities.Location{Latitude: 28.63, Longitude: 77.21},
			Type:              entities.HospitalTypePrivate,
			Rating:            4.8,
			Specialties:       []string{"Cardiology", "Emergency Medicine"},
			NABHAccredited:    true,
			EmergencyServices: true,
			InsuranceAccepted: []string{"CGHS"},
		},
		{
			Name:        "Delhi Skin Clinic",
			City:        "Delhi",
			Location:    entities.Location{Latitude: 28.64, Longitude: 77.22},
			Type:        entities.HospitalTypePrivate,
			Rating:      4.5,
			Specialties: []string{"Dermatology"},
		},
		{
			Name:              "Government General Delhi",
			City:              "Delhi",
			Location:          entities.Location{Latitude: 28.60, Longitude: 77.20},
			Type:              entities.HospitalTypeGovernment,
			Rating:            3.8,
			Specialties:       []string{"General Medicine", "Cardiology"},
			EmergencyServices: true,
		},
		{
			Name:        "Low Rated Delhi Hospital",
			City:        "Delhi",
			Location:    entities.Location{Latitude: 28.65, Longitude: 77.25},
			Type:        entities.HospitalTypePrivate,
			Rating:      2.5,
			Specialties: []string{"Cardiology"},
		},
		{
			Name:        "Mumbai Heart Centre",
			City:        "Mumbai",
			Location:    entities.Location{Latitude: 19.08, Longitude: 72.88},
			Type:        entities.HospitalTypePrivate,
			Rating:      4.9,
			Specialties: []string{"Cardiology"},
		},
	}
}

func newMatchService(t *testing.T, cat *catalog.Catalog, geocoder providers.Geocoder, maxResults int) *MatchService {
	t.Helper()

	taxonomy := NewTaxonomyService(cat)
	return NewMatchService(
		cat,
		NewLocationService(cat, geocoder),
		NewProximityService(nil),
		NewScoringService(taxonomy),
		nil,
		nil,
		maxResults,
	)
}

func defaultPrefs(condition, location string) *entities.SearchPreferences {
	return &entities.SearchPreferences{
		Condition: condition,
		Location:  location,
		HospitalTypes: []entities.HospitalType{
			entities.HospitalTypeGovernment,
			entities.HospitalTypePrivate,
		},
		MinRating:     3.0,
		MaxDistanceKm: 50,
	}
}

func TestSearch_RanksSpecialtyMatchesFirst(t *testing.T) {
	cat := testCatalog(t, delhiHospitals())
	svc := newMatchService(t, cat, nil, 20)

	result, err := svc.Search(context.Background(), defaultPrefs("heart attack", "Delhi"))
	require.NoError(t, err)
	require.False(t, result.Degraded)
	require.Len(t, result.Results, 3, "Mumbai and low-rated hospitals filtered out")

	assert.Equal(t, "Capital Heart Institute", result.Results[0].Name)

	// The dermatology clinic cannot outrank either cardiology hospital.
	assert.Equal(t, "Delhi Skin Clinic", result.Results[len(result.Results)-1].Name)

	for _, r := range result.Results {
		require.NotNil(t, r.AIScore)
		require.NotNil(t, r.DistanceKm)
		assert.GreaterOrEqual(t, *r.AIScore, 0.0)
		assert.LessOrEqual(t, *r.AIScore, 100.0)
		assert.NotEmpty(t, r.DistanceCategory)
		assert.NotNil(t, r.TravelTimeCarMin)
	}
}

func TestSearch_Deterministic(t *testing.T) {
	cat := testCatalog(t, delhiHospitals())
	svc := newMatchService(t, cat, nil, 20)

	first, err := svc.Search(context.Background(), defaultPrefs("heart attack", "Delhi"))
	require.NoError(t, err)
	second, err := svc.Search(context.Background(), defaultPrefs("heart attack", "Delhi"))
	require.NoError(t, err)

	require.Equal(t, len(first.Results), len(second.Results))
	for i := range first.Results {
		assert.Equal(t, first.Results[i].Name, second.Results[i].Name)
		assert.Equal(t, *first.Results[i].AIScore, *second.Results[i].AIScore)
	}
}

func TestSearch_DistanceFilterExcludesOtherCities(t *testing.T) {
	cat := testCatalog(t, delhiHospitals())
	svc := newMatchService(t, cat, nil, 20)

	result, err := svc.Search(context.Background(), defaultPrefs("heart attack", "Delhi"))
	require.NoError(t, err)

	for _, r := range result.Results {
		assert.NotEqual(t, "Mumbai Heart Centre", r.Name)
	}
}

func TestSearch_MinRatingFilter(t *testing.T) {
	cat := testCatalog(t, delhiHospitals())
	svc := newMatchService(t, cat, nil, 20)

	prefs := defaultPrefs("heart attack", "Delhi")
	prefs.MinRating = 4.6

	result, err := svc.Search(context.Background(), prefs)
	require.NoError(t, err)
	require.Len(t, result.Results, 1)
	assert.Equal(t, "Capital Heart Institute", result.Results[0].Name)
}

func TestSearch_TypeFilter(t *testing.T) {
	cat := testCatalog(t, delhiHospitals())
	svc := newMatchService(t, cat, nil, 20)

	prefs := defaultPrefs("heart attack", "Delhi")
	prefs.HospitalTypes = []entities.HospitalType{entities.HospitalTypeGovernment}

	result, err := svc.Search(context.Background(), prefs)
	require.NoError(t, err)
	require.Len(t, result.Results, 1)
	assert.Equal(t, "Government General Delhi", result.Results[0].Name)
}

func TestSearch_EmptyAfterFilters(t *testing.T) {
	cat := testCatalog(t, delhiHospitals())
	svc := newMatchService(t, cat, nil, 20)

	prefs := defaultPrefs("heart attack", "Delhi")
	prefs.MinRating = 5.0

	result, err := svc.Search(context.Background(), prefs)
	require.NoError(t, err)
	assert.Empty(t, result.Results)
	assert.False(t, result.Degraded)
}

func TestSearch_TruncatesToMaxResults(t *testing.T) {
	cat := testCatalog(t, delhiHospitals())
	svc := newMatchService(t, cat, nil, 2)

	result, err := svc.Search(context.Background(), defaultPrefs("heart attack", "Delhi"))
	require.NoError(t, err)
	assert.Len(t, result.Results, 2)
	assert.Equal(t, "Capital Heart Institute", result.Results[0].Name)
}

func TestSearch_DegradedWhenLocationUnresolvable(t *testing.T) {
	cat := testCatalog(t, delhiHospitals())
	svc := newMatchService(t, cat, nil, 20)

	result, err := svc.Search(context.Background(), defaultPrefs("heart attack", "an address nobody knows"))
	require.NoError(t, err)
	assert.True(t, result.Degraded)
	require.NotEmpty(t, result.Results)

	// Degraded results keep catalog order and carry no distances or scores.
	assert.Equal(t, "Capital Heart Institute", result.Results[0].Name)
	for _, r := range result.Results {
		assert.Nil(t, r.DistanceKm)
		assert.Nil(t, r.AIScore)
		assert.Nil(t, r.SpecialtyScore)
		assert.Empty(t, r.DistanceCategory)
	}
}

func TestSearch_DegradedStillAppliesFilters(t *testing.T) {
	cat := testCatalog(t, delhiHospitals())
	svc := newMatchService(t, cat, nil, 20)

	prefs := defaultPrefs("heart attack", "unknown place")
	prefs.HospitalTypes = []entities.HospitalType{entities.HospitalTypeGovernment}

	result, err := svc.Search(context.Background(), prefs)
	require.NoError(t, err)
	require.True(t, result.Degraded)
	require.Len(t, result.Results, 1)
	assert.Equal(t, "Government General Delhi", result.Results[0].Name)
}

func TestSearch_ValidationErrors(t *testing.T) {
	cat := testCatalog(t, delhiHospitals())
	svc := newMatchService(t, cat, nil, 20)

	cases := []struct {
		name  string
		prefs *entities.SearchPreferences
	}{
		{"nil preferences", nil},
		{"missing condition", &entities.SearchPreferences{
			HospitalTypes: []entities.HospitalType{entities.HospitalTypePrivate},
			MaxDistanceKm: 50,
		}},
		{"no hospital types", &entities.SearchPreferences{
			Condition:     "fever",
			MaxDistanceKm: 50,
		}},
		{"unknown hospital type", &entities.SearchPreferences{
			Condition:     "fever",
			HospitalTypes: []entities.HospitalType{"Charity"},
			MaxDistanceKm: 50,
		}},
		{"non-positive max distance", &entities.SearchPreferences{
			Condition:     "fever",
			HospitalTypes: []entities.HospitalType{entities.HospitalTypePrivate},
			MaxDistanceKm: 0,
		}},
		{"rating out of range", &entities.SearchPreferences{
			Condition:     "fever",
			HospitalTypes: []entities.HospitalType{entities.HospitalTypePrivate},
			MinRating:     6,
			MaxDistanceKm: 50,
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Search(context.Background(), tc.prefs)
			assert.Error(t, err)
		})
	}
}

func TestRecommendations_AnnotatesReasons(t *testing.T) {
	cat := testCatalog(t, delhiHospitals())
	svc := newMatchService(t, cat, nil, 20)

	result, err := svc.Recommendations(context.Background(), "heart attack", "Delhi", 5)
	require.NoError(t, err)
	require.NotEmpty(t, result.Results)

	top := result.Results[0]
	assert.Equal(t, "Capital Heart Institute", top.Name)
	assert.NotEmpty(t, top.RecommendationReason)
	assert.Contains(t, top.RecommendationReason, "NABH accredited facility")
	assert.Contains(t, top.RecommendationReason, "24/7 emergency services available")
	assert.Contains(t, top.RecommendationReason, "Highly rated by patients")
}

func TestRecommendations_LimitApplied(t *testing.T) {
	cat := testCatalog(t, delhiHospitals())
	svc := newMatchService(t, cat, nil, 20)

	result, err := svc.Recommendations(context.Background(), "heart attack", "Delhi", 1)
	require.NoError(t, err)
	assert.Len(t, result.Results, 1)
}

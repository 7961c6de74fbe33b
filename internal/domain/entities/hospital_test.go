package entities

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationValid(t *testing.T) {
	assert.True(t, Location{Latitude: 28.6, Longitude: 77.2}.Valid())
	assert.True(t, Location{Latitude: -33.9, Longitude: 151.2}.Valid())

	// The zero value means missing data.
	assert.False(t, Location{}.Valid())

	assert.False(t, Location{Latitude: 91, Longitude: 77.2}.Valid())
	assert.False(t, Location{Latitude: 28.6, Longitude: 181}.Valid())
	assert.False(t, Location{Latitude: -91, Longitude: 0.1}.Valid())
}

func TestAcceptsType(t *testing.T) {
	p := SearchPreferences{HospitalTypes: []HospitalType{HospitalTypeGovernment}}
	assert.True(t, p.AcceptsType(HospitalTypeGovernment))
	assert.False(t, p.AcceptsType(HospitalTypePrivate))

	empty := SearchPreferences{}
	assert.False(t, empty.AcceptsType(HospitalTypeGovernment))
}

func TestScoredHospital_NilScoresSerializeAsNull(t *testing.T) {
	raw, err := json.Marshal(ScoredHospital{Hospital: Hospital{Name: "X"}})
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	for _, field := range []string{"distance_km", "specialty_score", "quality_score", "accessibility_score", "distance_score", "ai_score"} {
		v, ok := decoded[field]
		require.True(t, ok, "field %s must be present", field)
		assert.Nil(t, v, "field %s must be null", field)
	}

	// Optional presentation fields disappear entirely when unset.
	_, ok := decoded["recommendation_reason"]
	assert.False(t, ok)
}

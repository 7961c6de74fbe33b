package entities

// HospitalType classifies the operating model of a hospital.
type HospitalType string

const (
	HospitalTypeGovernment HospitalType = "Government"
	HospitalTypePrivate    HospitalType = "Private"
)

// Location represents geographical coordinates
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the location holds plausible WGS84 coordinates.
// The zero value is treated as missing data, not a real position.
func (l Location) Valid() bool {
	if l.Latitude == 0 && l.Longitude == 0 {
		return false
	}
	return l.Latitude >= -90 && l.Latitude <= 90 && l.Longitude >= -180 && l.Longitude <= 180
}

// Hospital represents one entry of the static hospital catalog. Records are
// built once at startup and never mutated afterwards.
type Hospital struct {
	Name              string       `json:"name"`
	Address           string       `json:"address"`
	City              string       `json:"city"`
	State             string       `json:"state"`
	Location          Location     `json:"location"`
	Type              HospitalType `json:"type"`
	Rating            float64      `json:"rating"`
	Specialties       []string     `json:"specialties"`
	NABHAccredited    bool         `json:"nabh_accredited"`
	EmergencyServices bool         `json:"emergency_services"`
	InsuranceAccepted []string     `json:"insurance_accepted,omitempty"`
	Phone             string       `json:"phone,omitempty"`
	Email             string       `json:"email,omitempty"`
	Website           string       `json:"website,omitempty"`
}

// ScoredHospital is a Hospital augmented with the per-search distance and score
// breakdown. Score fields are nil when the search ran in degraded mode (user
// location unresolvable), which serializes as JSON null.
type ScoredHospital struct {
	Hospital

	DistanceKm       *float64 `json:"distance_km"`
	DistanceCategory string   `json:"distance_category,omitempty"`
	DistanceText     string   `json:"distance_text,omitempty"`
	TravelTimeCarMin *int     `json:"travel_time_car_min,omitempty"`
	TravelTimePubMin *int     `json:"travel_time_public_min,omitempty"`

	SpecialtyScore     *float64 `json:"specialty_score"`
	QualityScore       *float64 `json:"quality_score"`
	AccessibilityScore *float64 `json:"accessibility_score"`
	DistanceScore      *float64 `json:"distance_score"`
	AIScore            *float64 `json:"ai_score"`

	RecommendationReason string `json:"recommendation_reason,omitempty"`
}

// SearchPreferences holds the parameters of a single search query. A value is
// constructed per request and never shared across requests.
type SearchPreferences struct {
	Condition     string         `json:"condition"`
	Location      string         `json:"location"`
	HospitalTypes []HospitalType `json:"hospital_types"`
	MinRating     float64        `json:"min_rating"`
	MaxDistanceKm float64        `json:"max_distance_km"`
}

// AcceptsType reports whether the given hospital type is among the preferred types.
func (p *SearchPreferences) AcceptsType(t HospitalType) bool {
	for _, pref := range p.HospitalTypes {
		if pref == t {
			return true
		}
	}
	return false
}

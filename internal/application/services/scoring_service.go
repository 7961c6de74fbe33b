package services

import (
	"strings"

	"github.com/niramaya-health/hospital-finder/internal/domain/entities"
)

// ScoringService computes the component scores and the combined AI score for
// a hospital against a condition. All scores live on a 0-100 scale and are
// clamped, never renormalized.
type ScoringService struct {
	taxonomy *TaxonomyService

	wSpecialty     float64
	wQuality       float64
	wAccessibility float64
	wDistance      float64

	// Contribution of the weaker specialty match tiers. Heuristic constants,
	// tunable but kept stable so rankings stay comparable over time.
	partialMatchWeight float64
	relatedMatchWeight float64

	emergencyBonus float64
}

// NewScoringService creates a scoring service with the standard weights.
func NewScoringService(taxonomy *TaxonomyService) *ScoringService {
	return &ScoringService{
		taxonomy:           taxonomy,
		wSpecialty:         0.4,
		wQuality:           0.3,
		wAccessibility:     0.2,
		wDistance:          0.1,
		partialMatchWeight: 0.7,
		relatedMatchWeight: 0.5,
		emergencyBonus:     10,
	}
}

// SpecialtyScore measures how well the hospital's specialties cover the
// specialties required by the condition. Each required specialty contributes
// once, from the strongest tier it satisfies: exact match 1.0, substring
// match in either direction 0.7, affinity-group relation 0.5.
func (s *ScoringService) SpecialtyScore(condition string, hospitalSpecialties []string) float64 {
	required := s.taxonomy.SpecialtiesFor(condition)

	var matched float64
	for _, req := range required {
		matched += s.specialtyContribution(req, hospitalSpecialties)
	}

	return clampScore(matched / float64(len(required)) * 100)
}

func (s *ScoringService) specialtyContribution(required string, hospitalSpecialties []string) float64 {
	req := strings.ToLower(required)

	for _, hs := range hospitalSpecialties {
		if strings.ToLower(hs) == req {
			return 1.0
		}
	}
	for _, hs := range hospitalSpecialties {
		h := strings.ToLower(hs)
		if strings.Contains(h, req) || strings.Contains(req, h) {
			return s.partialMatchWeight
		}
	}
	for _, hs := range hospitalSpecialties {
		if s.taxonomy.IsRelated(required, hs) {
			return s.relatedMatchWeight
		}
	}
	return 0
}

// QualityScore scores a hospital on rating, accreditation, operator type and
// emergency availability. A 5.0-rated accredited government hospital with
// emergency services scores exactly 100.
func (s *ScoringService) QualityScore(h *entities.Hospital) float64 {
	score := h.Rating / 5.0 * 60
	if h.NABHAccredited {
		score += 25
	}
	if h.Type == entities.HospitalTypeGovernment {
		score += 10
	}
	if h.EmergencyServices {
		score += 5
	}
	return clampScore(score)
}

// AccessibilityScore scores how accessible a hospital is for the user:
// base 50, plus preferred type, emergency services, accreditation and
// insurance acceptance.
func (s *ScoringService) AccessibilityScore(h *entities.Hospital, typePreference []entities.HospitalType) float64 {
	score := 50.0
	for _, t := range typePreference {
		if h.Type == t {
			score += 20
			break
		}
	}
	if h.EmergencyServices {
		score += 15
	}
	if h.NABHAccredited {
		score += 10
	}
	if len(h.InsuranceAccepted) > 0 {
		score += 5
	}
	return clampScore(score)
}

// DistanceScore decays linearly from 100 at the user's position to 0 at the
// maximum search distance.
func (s *ScoringService) DistanceScore(distanceKm, maxDistanceKm float64) float64 {
	return clampScore(100 - distanceKm/maxDistanceKm*100)
}

// defaultDistanceScore is used when the user's coordinates are unavailable.
const defaultDistanceScore = 50.0

// AIScore combines the component scores into one weighted score, with a flat
// emergency bonus when an emergency condition meets a hospital that offers
// emergency services. The bonus is added after the weighting and the total is
// clamped to 100.
func (s *ScoringService) AIScore(condition string, h *entities.Hospital, distanceKm *float64, prefs *entities.SearchPreferences) float64 {
	specialty := s.SpecialtyScore(condition, h.Specialties)
	quality := s.QualityScore(h)
	accessibility := s.AccessibilityScore(h, prefs.HospitalTypes)

	distance := defaultDistanceScore
	if distanceKm != nil {
		distance = s.DistanceScore(*distanceKm, prefs.MaxDistanceKm)
	}

	score := specialty*s.wSpecialty +
		quality*s.wQuality +
		accessibility*s.wAccessibility +
		distance*s.wDistance

	if s.taxonomy.IsEmergency(condition) && h.EmergencyServices {
		score += s.emergencyBonus
	}

	return clampScore(score)
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

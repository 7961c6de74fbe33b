package services

import (
	"sort"
	"strings"

	"github.com/niramaya-health/hospital-finder/internal/catalog"
)

// defaultSpecialty is assumed when a condition matches nothing in the taxonomy.
const defaultSpecialty = "General Medicine"

// TaxonomyService maps medical conditions to relevant specialties and
// classifies emergency conditions. All lookups are against the immutable
// catalog, so the service is safe for concurrent use.
type TaxonomyService struct {
	conditionSpecialties map[string][]string
	conditionKeys        []string
	affinityGroups       [][]string
	emergencyKeywords    []string
}

// NewTaxonomyService creates a taxonomy service backed by the given catalog.
func NewTaxonomyService(cat *catalog.Catalog) *TaxonomyService {
	table := cat.ConditionSpecialties()

	// Sorted keys keep the partial-match union deterministic.
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return &TaxonomyService{
		conditionSpecialties: table,
		conditionKeys:        keys,
		affinityGroups:       cat.AffinityGroups(),
		emergencyKeywords:    cat.EmergencyKeywords(),
	}
}

// SpecialtiesFor returns the specialties relevant to a condition. Exact
// matches win; otherwise every taxonomy entry sharing a token with the
// condition text contributes its specialties. The result is never empty:
// unknown conditions default to General Medicine.
func (s *TaxonomyService) SpecialtiesFor(condition string) []string {
	cond := strings.ToLower(strings.TrimSpace(condition))

	if specs, ok := s.conditionSpecialties[cond]; ok {
		out := make([]string, len(specs))
		copy(out, specs)
		return out
	}

	var matched []string
	seen := make(map[string]struct{})
	for _, key := range s.conditionKeys {
		if !tokenOverlap(key, cond) {
			continue
		}
		for _, spec := range s.conditionSpecialties[key] {
			if _, dup := seen[strings.ToLower(spec)]; dup {
				continue
			}
			seen[strings.ToLower(spec)] = struct{}{}
			matched = append(matched, spec)
		}
	}

	if len(matched) == 0 {
		return []string{defaultSpecialty}
	}
	return matched
}

// IsRelated reports whether two specialties belong to the same affinity group.
func (s *TaxonomyService) IsRelated(specA, specB string) bool {
	a := strings.ToLower(strings.TrimSpace(specA))
	b := strings.ToLower(strings.TrimSpace(specB))

	for _, group := range s.affinityGroups {
		foundA, foundB := false, false
		for _, member := range group {
			m := strings.ToLower(member)
			if m == a {
				foundA = true
			}
			if m == b {
				foundB = true
			}
		}
		if foundA && foundB {
			return true
		}
	}
	return false
}

// IsEmergency reports whether the condition text contains an emergency keyword.
func (s *TaxonomyService) IsEmergency(condition string) bool {
	cond := strings.ToLower(condition)
	for _, keyword := range s.emergencyKeywords {
		if strings.Contains(cond, keyword) {
			return true
		}
	}
	return false
}

// tokenOverlap reports whether any whitespace-delimited token of the taxonomy
// key appears as a substring of the condition text.
func tokenOverlap(key, condition string) bool {
	for _, token := range strings.Fields(key) {
		if strings.Contains(condition, token) {
			return true
		}
	}
	return false
}

package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/niramaya-health/hospital-finder/internal/domain/entities"
)

//go:embed data/*.json
var dataFS embed.FS

// Data is the raw reference data a Catalog is built from. Load reads it from
// the embedded files; tests may construct it directly.
type Data struct {
	Hospitals            []entities.Hospital
	ConditionCategories  map[string][]string
	ConditionSpecialties map[string][]string
	AffinityGroups       [][]string
	EmergencyKeywords    []string
	Cities               map[string]entities.Location
}

// Catalog holds all static reference data: the hospital catalog, the condition
// taxonomy, specialty affinity groups, emergency keywords and the city
// coordinate table. It is built once at startup, validated, and read-only
// afterwards, so it can be shared across concurrent requests without locking.
type Catalog struct {
	hospitals            []entities.Hospital
	conditionCategories  map[string][]string
	conditionSpecialties map[string][]string
	affinityGroups       [][]string
	emergencyKeywords    []string
	cities               map[string]entities.Location
}

type taxonomyFile struct {
	ConditionCategories  map[string][]string `json:"condition_categories"`
	ConditionSpecialties map[string][]string `json:"condition_specialties"`
	AffinityGroups       [][]string          `json:"affinity_groups"`
	EmergencyKeywords    []string            `json:"emergency_keywords"`
}

// Load builds the catalog from the embedded reference data files.
func Load() (*Catalog, error) {
	var hospitals []entities.Hospital
	if err := readJSON("data/hospitals.json", &hospitals); err != nil {
		return nil, err
	}

	var taxonomy taxonomyFile
	if err := readJSON("data/taxonomy.json", &taxonomy); err != nil {
		return nil, err
	}

	var cities map[string]entities.Location
	if err := readJSON("data/cities.json", &cities); err != nil {
		return nil, err
	}

	return New(Data{
		Hospitals:            hospitals,
		ConditionCategories:  taxonomy.ConditionCategories,
		ConditionSpecialties: taxonomy.ConditionSpecialties,
		AffinityGroups:       taxonomy.AffinityGroups,
		EmergencyKeywords:    taxonomy.EmergencyKeywords,
		Cities:               cities,
	})
}

// New validates the raw data and builds an immutable catalog. Condition and
// city keys are lowercased so lookups are case-insensitive.
func New(d Data) (*Catalog, error) {
	if len(d.Hospitals) == 0 {
		return nil, fmt.Errorf("catalog: hospital list is empty")
	}

	seen := make(map[string]struct{}, len(d.Hospitals))
	for i := range d.Hospitals {
		h := &d.Hospitals[i]
		if strings.TrimSpace(h.Name) == "" {
			return nil, fmt.Errorf("catalog: hospital at index %d has no name", i)
		}
		key := strings.ToLower(h.Name)
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("catalog: duplicate hospital name %q", h.Name)
		}
		seen[key] = struct{}{}

		if len(h.Specialties) == 0 {
			return nil, fmt.Errorf("catalog: hospital %q has no specialties", h.Name)
		}
		if h.Rating < 1.0 || h.Rating > 5.0 {
			return nil, fmt.Errorf("catalog: hospital %q has rating %.1f outside [1.0, 5.0]", h.Name, h.Rating)
		}
		if h.Type != entities.HospitalTypeGovernment && h.Type != entities.HospitalTypePrivate {
			return nil, fmt.Errorf("catalog: hospital %q has unknown type %q", h.Name, h.Type)
		}
	}

	conditions := make(map[string][]string, len(d.ConditionSpecialties))
	for cond, specs := range d.ConditionSpecialties {
		if len(specs) == 0 {
			return nil, fmt.Errorf("catalog: condition %q maps to no specialties", cond)
		}
		conditions[strings.ToLower(strings.TrimSpace(cond))] = specs
	}

	cities := make(map[string]entities.Location, len(d.Cities))
	for city, loc := range d.Cities {
		if !loc.Valid() {
			return nil, fmt.Errorf("catalog: city %q has invalid coordinates", city)
		}
		cities[strings.ToLower(strings.TrimSpace(city))] = loc
	}

	return &Catalog{
		hospitals:            d.Hospitals,
		conditionCategories:  d.ConditionCategories,
		conditionSpecialties: conditions,
		affinityGroups:       d.AffinityGroups,
		emergencyKeywords:    d.EmergencyKeywords,
		cities:               cities,
	}, nil
}

// Hospitals returns the full hospital catalog. Callers must not mutate it.
func (c *Catalog) Hospitals() []entities.Hospital {
	return c.hospitals
}

// HospitalByName looks up a hospital by its exact name, case-insensitively.
func (c *Catalog) HospitalByName(name string) (*entities.Hospital, bool) {
	target := strings.ToLower(strings.TrimSpace(name))
	for i := range c.hospitals {
		if strings.ToLower(c.hospitals[i].Name) == target {
			return &c.hospitals[i], true
		}
	}
	return nil, false
}

// HospitalsByCity returns hospitals whose city contains the given name.
func (c *Catalog) HospitalsByCity(city string) []entities.Hospital {
	needle := strings.ToLower(strings.TrimSpace(city))
	var out []entities.Hospital
	for _, h := range c.hospitals {
		if strings.Contains(strings.ToLower(h.City), needle) {
			out = append(out, h)
		}
	}
	return out
}

// HospitalsBySpecialty returns hospitals offering a specialty that contains
// the given name.
func (c *Catalog) HospitalsBySpecialty(specialty string) []entities.Hospital {
	needle := strings.ToLower(strings.TrimSpace(specialty))
	var out []entities.Hospital
	for _, h := range c.hospitals {
		for _, s := range h.Specialties {
			if strings.Contains(strings.ToLower(s), needle) {
				out = append(out, h)
				break
			}
		}
	}
	return out
}

// ConditionCategories returns the condition taxonomy grouped by category.
func (c *Catalog) ConditionCategories() map[string][]string {
	return c.conditionCategories
}

// ConditionSpecialties returns the condition→specialties table keyed by
// lowercased condition name. Callers must not mutate it.
func (c *Catalog) ConditionSpecialties() map[string][]string {
	return c.conditionSpecialties
}

// AffinityGroups returns the specialty affinity groups.
func (c *Catalog) AffinityGroups() [][]string {
	return c.affinityGroups
}

// EmergencyKeywords returns the emergency keyword set.
func (c *Catalog) EmergencyKeywords() []string {
	return c.emergencyKeywords
}

// CityCoordinates looks up the coordinates of a known city by lowercased name.
func (c *Catalog) CityCoordinates(city string) (entities.Location, bool) {
	loc, ok := c.cities[strings.ToLower(strings.TrimSpace(city))]
	return loc, ok
}

// Cities returns the lowercased city coordinate table. Callers must not mutate it.
func (c *Catalog) Cities() map[string]entities.Location {
	return c.cities
}

// CityNames returns the known city names in sorted order.
func (c *Catalog) CityNames() []string {
	names := make([]string, 0, len(c.cities))
	for name := range c.cities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func readJSON(path string, v any) error {
	raw, err := dataFS.ReadFile(path)
	if err != nil {
		return fmt.Errorf("catalog: read %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("catalog: parse %s: %w", path, err)
	}
	return nil
}

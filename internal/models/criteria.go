package models

// FilterAny is the sentinel meaning "no restriction" for the charger-type
// and availability selectors.
const FilterAny = "all"

// DefaultMaxDistanceKm bounds results when the caller supplies no radius.
const DefaultMaxDistanceKm = 10

// FilterCriteria is the user's current filter configuration. Amenities is
// an ALL-of requirement: a station must carry every listed amenity.
type FilterCriteria struct {
	ChargerType   string   `json:"charger_type"`
	Availability  string   `json:"availability"`
	Amenities     []string `json:"amenities"`
	MaxDistanceKm float64  `json:"max_distance_km"`
}

// DefaultCriteria returns the well-defined default filter: no type or
// availability restriction, no amenity requirements, default radius.
func DefaultCriteria() FilterCriteria {
	return FilterCriteria{
		ChargerType:   FilterAny,
		Availability:  FilterAny,
		Amenities:     nil,
		MaxDistanceKm: DefaultMaxDistanceKm,
	}
}

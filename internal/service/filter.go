package service

import (
	"strings"

	"github.com/Sathwik84/charge-ease-find/internal/models"
)

// FilterStations reduces catalog to the stations matching every active
// criterion. The relative order of the input is preserved and neither
// catalog nor criteria are mutated.
func FilterStations(catalog []models.Station, query string, criteria models.FilterCriteria) []models.Station {
	result := make([]models.Station, 0, len(catalog))
	query = strings.ToLower(strings.TrimSpace(query))

	for _, station := range catalog {
		if !matchesQuery(station, query) {
			continue
		}
		if criteria.ChargerType != models.FilterAny && !contains(station.ChargerTypes, criteria.ChargerType) {
			continue
		}
		if criteria.Availability != models.FilterAny && station.Status != criteria.Availability {
			continue
		}
		if station.DistanceKm > criteria.MaxDistanceKm {
			continue
		}
		if !containsAll(station.Amenities, criteria.Amenities) {
			continue
		}
		result = append(result, station)
	}
	return result
}

func matchesQuery(station models.Station, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(station.Name), query) ||
		strings.Contains(strings.ToLower(station.Address), query)
}

func contains(set []string, label string) bool {
	for _, s := range set {
		if s == label {
			return true
		}
	}
	return false
}

func containsAll(set, required []string) bool {
	for _, label := range required {
		if !contains(set, label) {
			return false
		}
	}
	return true
}

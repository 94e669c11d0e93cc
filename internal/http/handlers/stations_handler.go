package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Sathwik84/charge-ease-find/internal/models"
	"github.com/Sathwik84/charge-ease-find/internal/service"
)

// NewStationsHandler returns GET /stations. Query params: q, charger_type,
// availability, amenities (csv), max_distance. Missing params fall back to
// the default criteria; an empty match list is a valid 200 response.
func NewStationsHandler(svc *service.StationsService, defaultMaxDistance float64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		criteria := models.DefaultCriteria()
		criteria.MaxDistanceKm = defaultMaxDistance

		params := r.URL.Query()
		if v := strings.TrimSpace(params.Get("charger_type")); v != "" {
			criteria.ChargerType = v
		}
		if v := strings.TrimSpace(params.Get("availability")); v != "" {
			if v != models.FilterAny && !models.ValidStatus(v) {
				writeError(w, http.StatusBadRequest, "unknown availability value")
				return
			}
			criteria.Availability = v
		}
		if v := strings.TrimSpace(params.Get("max_distance")); v != "" {
			dist, err := strconv.ParseFloat(v, 64)
			if err != nil || dist <= 0 {
				writeError(w, http.StatusBadRequest, "max_distance must be a positive number")
				return
			}
			criteria.MaxDistanceKm = dist
		}
		if v := strings.TrimSpace(params.Get("amenities")); v != "" {
			for _, amenity := range strings.Split(v, ",") {
				if amenity = strings.TrimSpace(amenity); amenity != "" {
					criteria.Amenities = append(criteria.Amenities, amenity)
				}
			}
		}

		stations := svc.Search(params.Get("q"), criteria)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"stations": stations,
			"count":    len(stations),
		})
	}
}

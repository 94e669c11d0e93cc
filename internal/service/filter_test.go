package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sathwik84/charge-ease-find/internal/models"
)

func testCatalog() []models.Station {
	return []models.Station{
		{
			ID:                "st-1",
			Name:              "Tesla Supercharger - Downtown",
			Address:           "123 Main St, San Francisco, CA",
			DistanceKm:        2.5,
			Status:            models.StatusAvailable,
			ChargerTypes:      []string{"CCS2"},
			Amenities:         []string{"Restaurant", "WiFi", "Shopping"},
			AvailableChargers: 8,
			TotalChargers:     12,
			PricePerKWh:       10.80,
		},
		{
			ID:                "st-2",
			Name:              "ChargePoint Station",
			Address:           "456 Oak Ave, San Francisco, CA",
			DistanceKm:        4.2,
			Status:            models.StatusBusy,
			ChargerTypes:      []string{"Type 2 AC"},
			Amenities:         []string{"Restaurant", "Parking"},
			AvailableChargers: 2,
			TotalChargers:     6,
			PricePerKWh:       12.40,
		},
		{
			ID:                "st-3",
			Name:              "EVgo Fast Charging",
			Address:           "789 Pine St, San Francisco, CA",
			DistanceKm:        12.3,
			Status:            models.StatusAvailable,
			ChargerTypes:      []string{"CCS2", "CHAdeMO"},
			Amenities:         []string{"WiFi", "Coffee"},
			AvailableChargers: 4,
			TotalChargers:     4,
			PricePerKWh:       14.00,
		},
	}
}

func anyCriteria() models.FilterCriteria {
	return models.FilterCriteria{
		ChargerType:   models.FilterAny,
		Availability:  models.FilterAny,
		MaxDistanceKm: 50,
	}
}

func ids(stations []models.Station) []string {
	out := make([]string, len(stations))
	for i, s := range stations {
		out[i] = s.ID
	}
	return out
}

func TestFilterStations(t *testing.T) {
	catalog := testCatalog()

	tests := []struct {
		name     string
		query    string
		criteria models.FilterCriteria
		want     []string
	}{
		{
			name:     "no restriction keeps catalog order",
			criteria: anyCriteria(),
			want:     []string{"st-1", "st-2", "st-3"},
		},
		{
			name:     "query matches name case-insensitively",
			query:    "tesla",
			criteria: anyCriteria(),
			want:     []string{"st-1"},
		},
		{
			name:     "query matches address",
			query:    "pine st",
			criteria: anyCriteria(),
			want:     []string{"st-3"},
		},
		{
			name: "charger type and distance conjunction",
			criteria: models.FilterCriteria{
				ChargerType:   "CCS2",
				Availability:  models.FilterAny,
				MaxDistanceKm: 10,
			},
			// st-2 fails the type filter, st-3 fails the distance filter
			want: []string{"st-1"},
		},
		{
			name: "availability filter",
			criteria: models.FilterCriteria{
				ChargerType:   models.FilterAny,
				Availability:  models.StatusBusy,
				MaxDistanceKm: 50,
			},
			want: []string{"st-2"},
		},
		{
			name: "amenities require all",
			criteria: models.FilterCriteria{
				ChargerType:   models.FilterAny,
				Availability:  models.FilterAny,
				Amenities:     []string{"WiFi", "Shopping"},
				MaxDistanceKm: 50,
			},
			want: []string{"st-1"},
		},
		{
			name: "distance bound is inclusive",
			criteria: models.FilterCriteria{
				ChargerType:   models.FilterAny,
				Availability:  models.FilterAny,
				MaxDistanceKm: 4.2,
			},
			want: []string{"st-1", "st-2"},
		},
		{
			name:     "no matches yields empty result",
			query:    "does-not-exist",
			criteria: anyCriteria(),
			want:     []string{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := FilterStations(catalog, tc.query, tc.criteria)
			assert.Equal(t, tc.want, ids(got))
		})
	}
}

func TestFilterStationsEmptyCatalog(t *testing.T) {
	got := FilterStations(nil, "anything", anyCriteria())
	assert.Empty(t, got)
}

func TestFilterStationsIdempotent(t *testing.T) {
	criteria := models.FilterCriteria{
		ChargerType:   "CCS2",
		Availability:  models.FilterAny,
		MaxDistanceKm: 15,
	}
	once := FilterStations(testCatalog(), "charg", criteria)
	twice := FilterStations(once, "charg", criteria)
	assert.Equal(t, once, twice)
}

func TestFilterStationsMonotonic(t *testing.T) {
	catalog := testCatalog()
	loose := anyCriteria()
	base := len(FilterStations(catalog, "", loose))

	narrower := loose
	narrower.MaxDistanceKm = 5
	assert.LessOrEqual(t, len(FilterStations(catalog, "", narrower)), base)

	withAmenity := loose
	withAmenity.Amenities = []string{"WiFi"}
	assert.LessOrEqual(t, len(FilterStations(catalog, "", withAmenity)), base)

	withType := loose
	withType.ChargerType = "CHAdeMO"
	assert.LessOrEqual(t, len(FilterStations(catalog, "", withType)), base)
}

func TestFilterStationsDoesNotMutateInputs(t *testing.T) {
	catalog := testCatalog()
	criteria := models.FilterCriteria{
		ChargerType:   models.FilterAny,
		Availability:  models.FilterAny,
		Amenities:     []string{"WiFi"},
		MaxDistanceKm: 50,
	}
	FilterStations(catalog, "tesla", criteria)
	assert.Equal(t, testCatalog(), catalog)
	assert.Equal(t, []string{"WiFi"}, criteria.Amenities)
}

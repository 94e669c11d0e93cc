package models

// Station availability statuses.
const (
	StatusAvailable = "available"
	StatusBusy      = "busy"
	StatusOffline   = "offline"
)

// Coordinates is a geographic point.
type Coordinates struct {
	Lat float64 `db:"lat" json:"lat"`
	Lng float64 `db:"lng" json:"lng"`
}

// Station describes one charging location. Distance is precomputed by the
// upstream directory service; records are treated as immutable for the
// lifetime of one filter/selection cycle.
type Station struct {
	ID                string      `db:"id" json:"id"`
	Name              string      `db:"name" json:"name"`
	Address           string      `db:"address" json:"address"`
	DistanceKm        float64     `db:"distance_km" json:"distance_km"`
	Status            string      `db:"status" json:"status"`
	ChargerTypes      []string    `db:"charger_types" json:"charger_types"`
	Amenities         []string    `db:"amenities" json:"amenities"`
	AvailableChargers int         `db:"available_chargers" json:"available_chargers"`
	TotalChargers     int         `db:"total_chargers" json:"total_chargers"`
	PricePerKWh       float64     `db:"price_per_kwh" json:"price_per_kwh"`
	Coordinates       Coordinates `json:"coordinates"`
}

// ValidStatus reports whether s is one of the known availability statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusAvailable, StatusBusy, StatusOffline:
		return true
	}
	return false
}

// Validate checks the structural invariants of a station record.
func (s Station) Validate() bool {
	if s.ID == "" || len(s.ChargerTypes) == 0 {
		return false
	}
	if s.DistanceKm < 0 || s.PricePerKWh <= 0 {
		return false
	}
	if s.AvailableChargers < 0 || s.AvailableChargers > s.TotalChargers {
		return false
	}
	return ValidStatus(s.Status)
}

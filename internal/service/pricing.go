package service

import "errors"

// DefaultUnitsPerHour is the assumed energy draw of one charging hour in
// kWh. Overridable through booking configuration.
const DefaultUnitsPerHour = 25

// Cost calculation errors.
var (
	ErrInvalidDuration = errors.New("pricing: duration must be at least one hour")
	ErrInvalidPrice    = errors.New("pricing: price per kWh must be positive")
	ErrInvalidRate     = errors.New("pricing: units per hour must be positive")
)

// EstimateCost returns the charge amount for a booking. No rounding is
// applied here; handlers round for presentation.
func EstimateCost(durationHours int, pricePerKWh, unitsPerHour float64) (float64, error) {
	if durationHours < 1 {
		return 0, ErrInvalidDuration
	}
	if pricePerKWh <= 0 {
		return 0, ErrInvalidPrice
	}
	if unitsPerHour <= 0 {
		return 0, ErrInvalidRate
	}
	return float64(durationHours) * pricePerKWh * unitsPerHour, nil
}

package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Sathwik84/charge-ease-find/internal/models"
)

// StationRepository persists directory syncs of the station catalog so the
// service can come up when the directory is unreachable.
type StationRepository struct {
	db *sql.DB
}

// NewStationRepository returns repository.
func NewStationRepository(db *sql.DB) *StationRepository {
	return &StationRepository{db: db}
}

// ReplaceAll swaps the stored catalog for the given one inside a single
// transaction, keeping the supplied order via the position column.
func (r *StationRepository) ReplaceAll(ctx context.Context, stations []models.Station) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM stations`); err != nil {
		return fmt.Errorf("repository: clear stations: %w", err)
	}

	const query = `
		INSERT INTO stations (
			id, position, name, address, distance_km, status,
			charger_types, amenities, available_chargers, total_chargers,
			price_per_kwh, lat, lng, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW())
	`
	for i, station := range stations {
		types, err := json.Marshal(station.ChargerTypes)
		if err != nil {
			return err
		}
		amenities, err := json.Marshal(station.Amenities)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query,
			station.ID,
			i,
			station.Name,
			station.Address,
			station.DistanceKm,
			station.Status,
			types,
			amenities,
			station.AvailableChargers,
			station.TotalChargers,
			station.PricePerKWh,
			station.Coordinates.Lat,
			station.Coordinates.Lng,
		); err != nil {
			return fmt.Errorf("repository: insert station %s: %w", station.ID, err)
		}
	}

	return tx.Commit()
}

// List returns the stored catalog in sync order.
func (r *StationRepository) List(ctx context.Context) ([]models.Station, error) {
	const query = `
		SELECT id, name, address, distance_km, status,
		       charger_types, amenities, available_chargers, total_chargers,
		       price_per_kwh, lat, lng
		FROM stations
		ORDER BY position ASC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stations []models.Station
	for rows.Next() {
		var (
			station   models.Station
			types     []byte
			amenities []byte
		)
		if err := rows.Scan(
			&station.ID,
			&station.Name,
			&station.Address,
			&station.DistanceKm,
			&station.Status,
			&types,
			&amenities,
			&station.AvailableChargers,
			&station.TotalChargers,
			&station.PricePerKWh,
			&station.Coordinates.Lat,
			&station.Coordinates.Lng,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(types, &station.ChargerTypes); err != nil {
			return nil, fmt.Errorf("repository: decode charger types for %s: %w", station.ID, err)
		}
		if len(amenities) > 0 {
			if err := json.Unmarshal(amenities, &station.Amenities); err != nil {
				return nil, fmt.Errorf("repository: decode amenities for %s: %w", station.ID, err)
			}
		}
		stations = append(stations, station)
	}
	return stations, rows.Err()
}

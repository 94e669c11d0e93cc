package catalog

import (
	"sync"

	"github.com/Sathwik84/charge-ease-find/internal/models"
)

// Snapshot keeps the current station catalog in memory for the filter
// path. The catalog is replaced wholesale on directory sync; individual
// records are never mutated.
type Snapshot struct {
	mu       sync.RWMutex
	stations []models.Station
	byID     map[string]models.Station
}

// NewSnapshot returns an empty catalog.
func NewSnapshot() *Snapshot {
	return &Snapshot{byID: make(map[string]models.Station)}
}

// Replace swaps in a new catalog, preserving the supplied order. Records
// failing structural validation are dropped and reported back.
func (s *Snapshot) Replace(stations []models.Station) (accepted, rejected int) {
	kept := make([]models.Station, 0, len(stations))
	byID := make(map[string]models.Station, len(stations))
	for _, station := range stations {
		if !station.Validate() {
			rejected++
			continue
		}
		kept = append(kept, station)
		byID[station.ID] = station
	}

	s.mu.Lock()
	s.stations = kept
	s.byID = byID
	s.mu.Unlock()
	return len(kept), rejected
}

// Stations returns the catalog in its supplied order.
func (s *Snapshot) Stations() []models.Station {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Station, len(s.stations))
	copy(out, s.stations)
	return out
}

// StationByID resolves one record.
func (s *Snapshot) StationByID(id string) (models.Station, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	station, ok := s.byID[id]
	return station, ok
}

// Len returns the number of catalog entries.
func (s *Snapshot) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.stations)
}

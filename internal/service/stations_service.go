package service

import (
	"go.uber.org/zap"

	"github.com/Sathwik84/charge-ease-find/internal/catalog"
	"github.com/Sathwik84/charge-ease-find/internal/metrics"
	"github.com/Sathwik84/charge-ease-find/internal/models"
)

// StationsService serves filtered views of the station catalog.
type StationsService struct {
	snapshot *catalog.Snapshot
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewStationsService builds the service.
func NewStationsService(snapshot *catalog.Snapshot, recorder *metrics.Metrics, logger *zap.Logger) *StationsService {
	return &StationsService{
		snapshot: snapshot,
		metrics:  recorder,
		logger:   logger,
	}
}

// Search applies query and criteria to the current catalog. An empty result
// is a valid answer, not an error.
func (s *StationsService) Search(query string, criteria models.FilterCriteria) []models.Station {
	result := FilterStations(s.snapshot.Stations(), query, criteria)
	s.metrics.SearchServed()
	s.logger.Debug("station search served",
		zap.String("query", query),
		zap.Int("catalog_size", s.snapshot.Len()),
		zap.Int("matches", len(result)),
	)
	return result
}

// StationByID resolves one station from the catalog.
func (s *StationsService) StationByID(id string) (models.Station, bool) {
	return s.snapshot.StationByID(id)
}

package service

import (
	"sync"

	"github.com/Sathwik84/charge-ease-find/internal/models"
)

// Toggle applies the deselect-on-reclick rule: picking the already selected
// station clears the selection, anything else replaces it.
func Toggle(current *models.Station, candidate models.Station) *models.Station {
	if current != nil && current.ID == candidate.ID {
		return nil
	}
	next := candidate
	return &next
}

// SelectionObserver is notified whenever the selected station changes.
// A nil station means the selection was cleared.
type SelectionObserver interface {
	SelectionChanged(station *models.Station)
}

// SelectionState holds at most one selected station and fans changes out to
// observers (list highlight, map markers). A selection is deliberately left
// dangling when a later filter excludes the selected station.
type SelectionState struct {
	mu        sync.RWMutex
	selected  *models.Station
	observers []SelectionObserver
}

// NewSelectionState returns an empty selection.
func NewSelectionState() *SelectionState {
	return &SelectionState{}
}

// Subscribe registers an observer for selection changes.
func (s *SelectionState) Subscribe(obs SelectionObserver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, obs)
}

// Select toggles candidate against the current selection and notifies
// observers. Returns the new selection, nil when cleared.
func (s *SelectionState) Select(candidate models.Station) *models.Station {
	s.mu.Lock()
	s.selected = Toggle(s.selected, candidate)
	next := s.selected
	observers := make([]SelectionObserver, len(s.observers))
	copy(observers, s.observers)
	s.mu.Unlock()

	for _, obs := range observers {
		obs.SelectionChanged(next)
	}
	return next
}

// Selected returns the current selection, nil when nothing is selected.
func (s *SelectionState) Selected() *models.Station {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == nil {
		return nil
	}
	copied := *s.selected
	return &copied
}

// Clear drops any selection and notifies observers.
func (s *SelectionState) Clear() {
	s.mu.Lock()
	s.selected = nil
	observers := make([]SelectionObserver, len(s.observers))
	copy(observers, s.observers)
	s.mu.Unlock()

	for _, obs := range observers {
		obs.SelectionChanged(nil)
	}
}

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Sathwik84/charge-ease-find/internal/service"
)

// SelectionHandlers exposes the selected-station state.
type SelectionHandlers struct {
	selection *service.SelectionState
	stations  *service.StationsService
}

// NewSelectionHandlers returns handler set.
func NewSelectionHandlers(selection *service.SelectionState, stations *service.StationsService) *SelectionHandlers {
	return &SelectionHandlers{selection: selection, stations: stations}
}

// Get handles GET /selection.
func (h *SelectionHandlers) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"selected": h.selection.Selected(),
	})
}

type toggleRequest struct {
	StationID string `json:"station_id"`
}

// Toggle handles POST /selection. Re-selecting the currently selected
// station clears the selection.
func (h *SelectionHandlers) Toggle(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.StationID == "" {
		writeError(w, http.StatusBadRequest, "station_id is required")
		return
	}

	station, ok := h.stations.StationByID(req.StationID)
	if !ok {
		writeError(w, http.StatusNotFound, "station not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"selected": h.selection.Select(station),
	})
}

package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

// A partially populated Routes must answer 404/405, never panic.
func TestRouterPartialRoutes(t *testing.T) {
	ok := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}
	router := NewRouter(Routes{
		SelectionGet:  ok,
		BookingActive: ok,
	}, nil)

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{"selection get wired", http.MethodGet, "/selection", http.StatusOK},
		{"selection toggle missing", http.MethodPost, "/selection", http.StatusMethodNotAllowed},
		{"booking active wired", http.MethodGet, "/bookings", http.StatusOK},
		{"booking open missing", http.MethodPost, "/bookings", http.StatusNotFound},
		{"booking slot missing", http.MethodPost, "/bookings/slot", http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}

func TestRouterMethodGuard(t *testing.T) {
	router := NewRouter(Routes{
		Stations: func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		},
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/stations", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodGet, rec.Header().Get("Allow"))
}

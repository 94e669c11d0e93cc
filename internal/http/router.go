package httpserver

import "net/http"

// Routes groups handlers.
type Routes struct {
	Stations        http.HandlerFunc
	SelectionGet    http.HandlerFunc
	SelectionToggle http.HandlerFunc
	SelectionWS     http.HandlerFunc
	BookingOpen     http.HandlerFunc
	BookingActive   http.HandlerFunc
	BookingSlot     http.HandlerFunc
	BookingDuration http.HandlerFunc
	BookingProceed  http.HandlerFunc
	BookingMethod   http.HandlerFunc
	BookingConfirm  http.HandlerFunc
	BookingBack     http.HandlerFunc
	BookingCancel   http.HandlerFunc
	Health          http.HandlerFunc
	Metrics         http.Handler
}

// NewRouter registers endpoints. Booking routes are wrapped with auth.
func NewRouter(routes Routes, auth func(http.Handler) http.Handler) http.Handler {
	mux := http.NewServeMux()

	if routes.Stations != nil {
		mux.Handle("/stations", method(http.MethodGet, routes.Stations))
	}
	if routes.SelectionGet != nil {
		mux.Handle("/selection", selectionMux(routes.SelectionGet, routes.SelectionToggle))
	}
	if routes.SelectionWS != nil {
		mux.Handle("/ws/selection", method(http.MethodGet, routes.SelectionWS))
	}

	booking := map[string]http.HandlerFunc{
		"/bookings":          bookingRoot(routes.BookingOpen, routes.BookingActive),
		"/bookings/active":   method(http.MethodGet, routes.BookingActive),
		"/bookings/slot":     method(http.MethodPost, routes.BookingSlot),
		"/bookings/duration": method(http.MethodPost, routes.BookingDuration),
		"/bookings/proceed":  method(http.MethodPost, routes.BookingProceed),
		"/bookings/method":   method(http.MethodPost, routes.BookingMethod),
		"/bookings/confirm":  method(http.MethodPost, routes.BookingConfirm),
		"/bookings/back":     method(http.MethodPost, routes.BookingBack),
		"/bookings/cancel":   method(http.MethodPost, routes.BookingCancel),
	}
	for path, handler := range booking {
		if handler == nil {
			continue
		}
		if auth != nil {
			mux.Handle(path, auth(handler))
		} else {
			mux.Handle(path, handler)
		}
	}

	if routes.Health != nil {
		mux.Handle("/health", method(http.MethodGet, routes.Health))
	}
	if routes.Metrics != nil {
		mux.Handle("/metrics", routes.Metrics)
	}
	return mux
}

func method(expected string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if handler == nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.Method != expected {
			w.Header().Set("Allow", expected)
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handler(w, r)
	}
}

func selectionMux(get, toggle http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			if get == nil {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			get(w, r)
		case http.MethodPost:
			if toggle != nil {
				toggle(w, r)
				return
			}
			w.WriteHeader(http.StatusMethodNotAllowed)
		default:
			w.Header().Set("Allow", "GET, POST")
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}
}

func bookingRoot(open, active http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			if open == nil {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			open(w, r)
		case http.MethodGet:
			if active != nil {
				active(w, r)
				return
			}
			w.WriteHeader(http.StatusMethodNotAllowed)
		default:
			w.Header().Set("Allow", "GET, POST")
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}
}

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics aggregates the service's Prometheus collectors. A nil *Metrics is
// valid and records nothing, so wiring stays optional in tests.
type Metrics struct {
	searches          prometheus.Counter
	bookingsOpened    prometheus.Counter
	bookingsConfirmed prometheus.Counter
	paymentDeclines   prometheus.Counter
	activeSessions    prometheus.Gauge
}

// New registers the collectors on reg. If reg is nil the default registerer
// is used; already-registered collectors are reused.
func New(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		searches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chargeease_station_searches_total",
			Help: "Total number of station filter queries served",
		}),
		bookingsOpened: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chargeease_bookings_opened_total",
			Help: "Total number of booking sessions opened",
		}),
		bookingsConfirmed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chargeease_bookings_confirmed_total",
			Help: "Total number of bookings that reached confirmation",
		}),
		paymentDeclines: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chargeease_payment_declines_total",
			Help: "Total number of declined charge submissions",
		}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "chargeease_active_booking_sessions",
			Help: "Number of currently open booking sessions",
		}),
	}

	collectors := []prometheus.Collector{
		m.searches, m.bookingsOpened, m.bookingsConfirmed, m.paymentDeclines, m.activeSessions,
	}
	for i, c := range collectors {
		if err := reg.Register(c); err != nil {
			are, ok := err.(prometheus.AlreadyRegisteredError)
			if !ok {
				return nil, err
			}
			switch i {
			case 0:
				m.searches = are.ExistingCollector.(prometheus.Counter)
			case 1:
				m.bookingsOpened = are.ExistingCollector.(prometheus.Counter)
			case 2:
				m.bookingsConfirmed = are.ExistingCollector.(prometheus.Counter)
			case 3:
				m.paymentDeclines = are.ExistingCollector.(prometheus.Counter)
			case 4:
				m.activeSessions = are.ExistingCollector.(prometheus.Gauge)
			}
		}
	}
	return m, nil
}

// Handler exposes the default registry in Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// SearchServed counts one filter query.
func (m *Metrics) SearchServed() {
	if m != nil {
		m.searches.Inc()
	}
}

// BookingOpened counts one opened session.
func (m *Metrics) BookingOpened() {
	if m != nil {
		m.bookingsOpened.Inc()
		m.activeSessions.Inc()
	}
}

// BookingClosed decrements the open-session gauge.
func (m *Metrics) BookingClosed() {
	if m != nil {
		m.activeSessions.Dec()
	}
}

// BookingConfirmed counts one confirmed booking.
func (m *Metrics) BookingConfirmed() {
	if m != nil {
		m.bookingsConfirmed.Inc()
	}
}

// PaymentDeclined counts one declined charge.
func (m *Metrics) PaymentDeclined() {
	if m != nil {
		m.paymentDeclines.Inc()
	}
}

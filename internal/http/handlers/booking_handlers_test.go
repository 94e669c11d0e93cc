package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httpserver "github.com/Sathwik84/charge-ease-find/internal/http"
	"github.com/Sathwik84/charge-ease-find/internal/http/middleware"
	"github.com/Sathwik84/charge-ease-find/internal/models"
	"github.com/Sathwik84/charge-ease-find/internal/payment"
	"github.com/Sathwik84/charge-ease-find/internal/service"
)

const testSecret = "booking-test-secret"

type scriptedGateway struct {
	declineReason string
}

func (g *scriptedGateway) Charge(ctx context.Context, req payment.Request) (payment.Result, error) {
	if g.declineReason != "" {
		return payment.Result{Declined: true, Reason: g.declineReason}, nil
	}
	return payment.Result{TransactionID: "tx-test"}, nil
}

func newBookingServer(t *testing.T, gw payment.Gateway) http.Handler {
	t.Helper()
	stations := newStationsService(t)
	workflow := service.NewBookingWorkflow(stations, gw, nil, nil, zap.NewNop(), 25, time.Hour)
	bookingHandlers := NewBookingHandlers(workflow, zap.NewNop())

	routes := httpserver.Routes{
		BookingOpen:     bookingHandlers.Open,
		BookingActive:   bookingHandlers.Active,
		BookingSlot:     bookingHandlers.Slot,
		BookingDuration: bookingHandlers.Duration,
		BookingProceed:  bookingHandlers.Proceed,
		BookingMethod:   bookingHandlers.Method,
		BookingConfirm:  bookingHandlers.Confirm,
		BookingBack:     bookingHandlers.Back,
		BookingCancel:   bookingHandlers.Cancel,
	}
	return httpserver.NewRouter(routes, middleware.AuthMiddleware(testSecret))
}

func bearerToken(t *testing.T, userID int64) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": float64(userID)})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func doJSON(t *testing.T, handler http.Handler, method, target, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("{}")
	}
	req := httptest.NewRequest(method, target, reader)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

type sessionEnvelope struct {
	Session       models.BookingSession `json:"session"`
	EstimatedCost float64               `json:"estimated_cost"`
}

func decodeSession(t *testing.T, rec *httptest.ResponseRecorder) sessionEnvelope {
	t.Helper()
	var parsed sessionEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &parsed))
	return parsed
}

func TestBookingEndpointsRequireAuth(t *testing.T) {
	server := newBookingServer(t, &scriptedGateway{})
	rec := doJSON(t, server, http.MethodPost, "/bookings", "", `{"station_id":"st-1"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBookingFlowOverHTTP(t *testing.T) {
	server := newBookingServer(t, &scriptedGateway{})
	token := bearerToken(t, 42)

	rec := doJSON(t, server, http.MethodPost, "/bookings", token, `{"station_id":"st-1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	opened := decodeSession(t, rec)
	assert.Equal(t, models.StateSlotSelection, opened.Session.State)
	assert.Equal(t, models.DefaultDurationHours, opened.Session.DurationHours)
	// default cost preview: 2h * 10.80 * 25
	assert.InDelta(t, 540.0, opened.EstimatedCost, 1e-9)

	// proceeding without a slot is a blocked action
	rec = doJSON(t, server, http.MethodPost, "/bookings/proceed", token, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, server, http.MethodPost, "/bookings/slot", token, `{"slot":"10:00 AM"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, server, http.MethodPost, "/bookings/duration", token, `{"delta":1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	adjusted := decodeSession(t, rec)
	assert.Equal(t, 3, adjusted.Session.DurationHours)
	assert.InDelta(t, 810.0, adjusted.EstimatedCost, 1e-9)

	rec = doJSON(t, server, http.MethodPost, "/bookings/proceed", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.StatePayment, decodeSession(t, rec).Session.State)

	rec = doJSON(t, server, http.MethodPost, "/bookings/method", token, `{"method":"upi"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, server, http.MethodPost, "/bookings/confirm", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	confirmed := decodeSession(t, rec)
	assert.Equal(t, models.StateConfirming, confirmed.Session.State)
	assert.Regexp(t, `^CE[0-9A-Z]{8}$`, confirmed.Session.BookingRef)
	assert.InDelta(t, 810.0, confirmed.Session.AmountPaid, 1e-9)

	rec = doJSON(t, server, http.MethodGet, "/bookings/active", token, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBookingOpenConflicts(t *testing.T) {
	server := newBookingServer(t, &scriptedGateway{})
	token := bearerToken(t, 7)

	rec := doJSON(t, server, http.MethodPost, "/bookings", token, `{"station_id":"st-2"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	// second open for the same user while a session exists

	rec = doJSON(t, server, http.MethodPost, "/bookings", token, `{"station_id":"st-1"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, server, http.MethodPost, "/bookings/cancel", token, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, server, http.MethodPost, "/bookings", bearerToken(t, 8), `{"station_id":"missing"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBookingConfirmDeclined(t *testing.T) {
	gw := &scriptedGateway{declineReason: "card expired"}
	server := newBookingServer(t, gw)
	token := bearerToken(t, 9)

	doJSON(t, server, http.MethodPost, "/bookings", token, `{"station_id":"st-1"}`)
	doJSON(t, server, http.MethodPost, "/bookings/slot", token, `{"slot":"09:00 AM"}`)
	doJSON(t, server, http.MethodPost, "/bookings/proceed", token, "")

	rec := doJSON(t, server, http.MethodPost, "/bookings/confirm", token,
		`{"card_number":"4111111111111111","expiry":"12/30","cvv":"123","cardholder_name":"A Driver"}`)
	require.Equal(t, http.StatusPaymentRequired, rec.Code)

	var parsed map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &parsed))
	assert.Contains(t, string(parsed["reason"]), "card expired")

	// session survives the decline in payment state
	rec = doJSON(t, server, http.MethodGet, "/bookings/active", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.StatePayment, decodeSession(t, rec).Session.State)
}

func TestBookingConfirmRequiresCardDetails(t *testing.T) {
	server := newBookingServer(t, &scriptedGateway{})
	token := bearerToken(t, 11)

	doJSON(t, server, http.MethodPost, "/bookings", token, `{"station_id":"st-1"}`)
	doJSON(t, server, http.MethodPost, "/bookings/slot", token, `{"slot":"09:00 AM"}`)
	doJSON(t, server, http.MethodPost, "/bookings/proceed", token, "")

	rec := doJSON(t, server, http.MethodPost, "/bookings/confirm", token, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBookingBackFromPayment(t *testing.T) {
	server := newBookingServer(t, &scriptedGateway{})
	token := bearerToken(t, 12)

	doJSON(t, server, http.MethodPost, "/bookings", token, `{"station_id":"st-1"}`)
	doJSON(t, server, http.MethodPost, "/bookings/slot", token, `{"slot":"11:00 AM"}`)
	doJSON(t, server, http.MethodPost, "/bookings/proceed", token, "")

	rec := doJSON(t, server, http.MethodPost, "/bookings/back", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	back := decodeSession(t, rec)
	assert.Equal(t, models.StateSlotSelection, back.Session.State)
	assert.Equal(t, "11:00 AM", back.Session.Slot)

	// back again closes the session
	rec = doJSON(t, server, http.MethodPost, "/bookings/back", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, server, http.MethodGet, "/bookings/active", token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

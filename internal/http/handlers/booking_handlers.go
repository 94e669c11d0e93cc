package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/Sathwik84/charge-ease-find/internal/http/middleware"
	"github.com/Sathwik84/charge-ease-find/internal/models"
	"github.com/Sathwik84/charge-ease-find/internal/service"
)

// BookingHandlers drives the booking workflow over HTTP. All endpoints are
// JWT-authenticated; the session is keyed by the token's user id.
type BookingHandlers struct {
	workflow *service.BookingWorkflow
	logger   *zap.Logger
}

// NewBookingHandlers builds handler set.
func NewBookingHandlers(workflow *service.BookingWorkflow, logger *zap.Logger) *BookingHandlers {
	return &BookingHandlers{workflow: workflow, logger: logger}
}

type openRequest struct {
	StationID string `json:"station_id"`
}

type slotRequest struct {
	Slot string `json:"slot"`
}

type durationRequest struct {
	Delta int `json:"delta"`
}

type methodRequest struct {
	Method string `json:"method"`
}

type confirmRequest struct {
	CardNumber     string `json:"card_number"`
	Expiry         string `json:"expiry"`
	CVV            string `json:"cvv"`
	CardholderName string `json:"cardholder_name"`
}

// Open handles POST /bookings.
func (h *BookingHandlers) Open(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	var req openRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.StationID == "" {
		writeError(w, http.StatusBadRequest, "station_id is required")
		return
	}

	session, err := h.workflow.Open(r.Context(), userID, req.StationID)
	if err != nil {
		h.writeWorkflowError(w, err)
		return
	}
	h.writeSession(w, http.StatusCreated, session)
}

// Active handles GET /bookings/active.
func (h *BookingHandlers) Active(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	session, err := h.workflow.Active(userID)
	if err != nil {
		h.writeWorkflowError(w, err)
		return
	}
	h.writeSession(w, http.StatusOK, session)
}

// Slot handles POST /bookings/slot.
func (h *BookingHandlers) Slot(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	var req slotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	session, err := h.workflow.SelectSlot(r.Context(), userID, req.Slot)
	if err != nil {
		h.writeWorkflowError(w, err)
		return
	}
	h.writeSession(w, http.StatusOK, session)
}

// Duration handles POST /bookings/duration.
func (h *BookingHandlers) Duration(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	var req durationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Delta == 0 {
		writeError(w, http.StatusBadRequest, "delta must be non-zero")
		return
	}

	session, err := h.workflow.AdjustDuration(r.Context(), userID, req.Delta)
	if err != nil {
		h.writeWorkflowError(w, err)
		return
	}
	h.writeSession(w, http.StatusOK, session)
}

// Proceed handles POST /bookings/proceed.
func (h *BookingHandlers) Proceed(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	session, err := h.workflow.Proceed(r.Context(), userID)
	if err != nil {
		h.writeWorkflowError(w, err)
		return
	}
	h.writeSession(w, http.StatusOK, session)
}

// Method handles POST /bookings/method.
func (h *BookingHandlers) Method(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	var req methodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	session, err := h.workflow.ChooseMethod(r.Context(), userID, req.Method)
	if err != nil {
		h.writeWorkflowError(w, err)
		return
	}
	h.writeSession(w, http.StatusOK, session)
}

// Confirm handles POST /bookings/confirm.
func (h *BookingHandlers) Confirm(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	session, err := h.workflow.Confirm(r.Context(), userID, models.PaymentDetails{
		CardNumber:     req.CardNumber,
		Expiry:         req.Expiry,
		CVV:            req.CVV,
		CardholderName: req.CardholderName,
	})
	if errors.Is(err, service.ErrPaymentDeclined) {
		writeJSON(w, http.StatusPaymentRequired, map[string]interface{}{
			"error":   "payment declined",
			"reason":  session.LastError,
			"session": h.sessionPayload(session),
		})
		return
	}
	if err != nil {
		h.writeWorkflowError(w, err)
		return
	}
	h.writeSession(w, http.StatusOK, session)
}

// Back handles POST /bookings/back.
func (h *BookingHandlers) Back(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	session, err := h.workflow.Back(r.Context(), userID)
	if err != nil {
		h.writeWorkflowError(w, err)
		return
	}
	if session.State == models.StateIdle {
		writeJSON(w, http.StatusOK, map[string]string{"state": models.StateIdle})
		return
	}
	h.writeSession(w, http.StatusOK, session)
}

// Cancel handles POST /bookings/cancel.
func (h *BookingHandlers) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	if err := h.workflow.Cancel(r.Context(), userID); err != nil {
		h.writeWorkflowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"state": models.StateIdle})
}

func (h *BookingHandlers) writeSession(w http.ResponseWriter, status int, session models.BookingSession) {
	writeJSON(w, status, h.sessionPayload(session))
}

func (h *BookingHandlers) sessionPayload(session models.BookingSession) map[string]interface{} {
	payload := map[string]interface{}{
		"session": session,
	}
	cost, err := service.EstimateCost(session.DurationHours, session.Station.PricePerKWh, h.workflow.UnitsPerHour())
	if err == nil {
		payload["estimated_cost"] = roundMoney(cost)
		payload["estimated_units"] = float64(session.DurationHours) * h.workflow.UnitsPerHour()
	}
	return payload
}

func (h *BookingHandlers) writeWorkflowError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNoActiveSession):
		writeError(w, http.StatusNotFound, "no active booking session")
	case errors.Is(err, service.ErrUnknownStation):
		writeError(w, http.StatusNotFound, "station not found")
	case errors.Is(err, service.ErrSessionExists):
		writeError(w, http.StatusConflict, "a booking session is already open")
	case errors.Is(err, service.ErrNoChargersFree):
		writeError(w, http.StatusConflict, "station has no free chargers")
	case errors.Is(err, service.ErrSlotRequired):
		writeError(w, http.StatusConflict, "select a time slot first")
	case errors.Is(err, service.ErrInvalidState):
		writeError(w, http.StatusConflict, "action not allowed in current state")
	case errors.Is(err, service.ErrAlreadyCommitted):
		writeError(w, http.StatusConflict, "charge already committed")
	case errors.Is(err, service.ErrUnknownSlot):
		writeError(w, http.StatusBadRequest, "slot not in catalog")
	case errors.Is(err, service.ErrUnknownMethod):
		writeError(w, http.StatusBadRequest, "unsupported payment method")
	case errors.Is(err, service.ErrCardDetailsRequired):
		writeError(w, http.StatusBadRequest, "card details required")
	case errors.Is(err, service.ErrInvalidDuration),
		errors.Is(err, service.ErrInvalidPrice),
		errors.Is(err, service.ErrInvalidRate):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("booking request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "booking request failed")
	}
}

package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Sathwik84/charge-ease-find/internal/metrics"
	"github.com/Sathwik84/charge-ease-find/internal/models"
	"github.com/Sathwik84/charge-ease-find/internal/payment"
)

// Workflow errors. Precondition violations map to blocked actions at the
// HTTP boundary, not crashes.
var (
	ErrSessionExists       = errors.New("booking: session already open")
	ErrNoActiveSession     = errors.New("booking: no active session")
	ErrUnknownStation      = errors.New("booking: unknown station")
	ErrNoChargersFree      = errors.New("booking: station has no free chargers")
	ErrInvalidState        = errors.New("booking: action not allowed in current state")
	ErrUnknownSlot         = errors.New("booking: slot not in catalog")
	ErrSlotRequired        = errors.New("booking: slot must be selected first")
	ErrUnknownMethod       = errors.New("booking: unsupported payment method")
	ErrCardDetailsRequired = errors.New("booking: card details required")
	ErrPaymentDeclined     = errors.New("booking: payment declined")
	ErrAlreadyCommitted    = errors.New("booking: charge already committed")
)

const (
	bookingRefPrefix   = "CE"
	bookingRefLen      = 8
	bookingRefAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// DefaultConfirmCloseDelay is how long a confirmed session stays visible
// before the workflow auto-returns to idle.
const DefaultConfirmCloseDelay = 3 * time.Second

// StationSource resolves a station id to its current catalog record.
type StationSource interface {
	StationByID(id string) (models.Station, bool)
}

// ActiveSessionCache mirrors open sessions to an external cache. Cache
// failures never fail the workflow.
type ActiveSessionCache interface {
	Save(ctx context.Context, session models.BookingSession) error
	Delete(ctx context.Context, userID int64) error
}

type sessionEntry struct {
	session models.BookingSession
	timer   *time.Timer
	// submitting is set while a charge is in flight at the gateway; no
	// other transition may touch the session until it clears.
	submitting bool
}

// BookingWorkflow drives the slot-selection / payment / confirmation state
// machine, one session per user. All transitions happen under one mutex;
// the only time-based transition is the cancelable confirm-close timer.
type BookingWorkflow struct {
	mu       sync.Mutex
	sessions map[int64]*sessionEntry

	stations     StationSource
	gateway      payment.Gateway
	cache        ActiveSessionCache
	metrics      *metrics.Metrics
	logger       *zap.Logger
	unitsPerHour float64
	closeDelay   time.Duration
}

// NewBookingWorkflow builds the workflow. cache and recorder may be nil.
func NewBookingWorkflow(
	stations StationSource,
	gateway payment.Gateway,
	cache ActiveSessionCache,
	recorder *metrics.Metrics,
	logger *zap.Logger,
	unitsPerHour float64,
	closeDelay time.Duration,
) *BookingWorkflow {
	if unitsPerHour <= 0 {
		unitsPerHour = DefaultUnitsPerHour
	}
	if closeDelay <= 0 {
		closeDelay = DefaultConfirmCloseDelay
	}
	return &BookingWorkflow{
		sessions:     make(map[int64]*sessionEntry),
		stations:     stations,
		gateway:      gateway,
		cache:        cache,
		metrics:      recorder,
		logger:       logger,
		unitsPerHour: unitsPerHour,
		closeDelay:   closeDelay,
	}
}

// Open creates a session for stationID and enters slot selection. Refused
// when a session is already open or the station has no free chargers.
func (w *BookingWorkflow) Open(ctx context.Context, userID int64, stationID string) (models.BookingSession, error) {
	station, ok := w.stations.StationByID(stationID)
	if !ok {
		return models.BookingSession{}, ErrUnknownStation
	}
	if station.AvailableChargers == 0 {
		return models.BookingSession{}, ErrNoChargersFree
	}

	w.mu.Lock()
	if _, exists := w.sessions[userID]; exists {
		w.mu.Unlock()
		return models.BookingSession{}, ErrSessionExists
	}

	session := models.BookingSession{
		ID:            uuid.NewString(),
		UserID:        userID,
		Station:       station,
		DurationHours: models.DefaultDurationHours,
		Method:        models.MethodCard,
		State:         models.StateSlotSelection,
	}
	w.sessions[userID] = &sessionEntry{session: session}
	w.mu.Unlock()

	w.metrics.BookingOpened()
	w.mirror(ctx, session)
	w.logger.Info("booking session opened",
		zap.Int64("user_id", userID),
		zap.String("station_id", stationID),
		zap.String("session_id", session.ID),
	)
	return session, nil
}

// Active returns the user's open session.
func (w *BookingWorkflow) Active(userID int64) (models.BookingSession, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	entry, ok := w.sessions[userID]
	if !ok {
		return models.BookingSession{}, ErrNoActiveSession
	}
	return entry.session, nil
}

// SelectSlot records the chosen time slot during slot selection.
func (w *BookingWorkflow) SelectSlot(ctx context.Context, userID int64, slot string) (models.BookingSession, error) {
	if !models.ValidSlot(slot) {
		return models.BookingSession{}, ErrUnknownSlot
	}
	return w.update(ctx, userID, models.StateSlotSelection, func(s *models.BookingSession) error {
		s.Slot = slot
		return nil
	})
}

// AdjustDuration shifts the charging duration by delta hours, clamped to
// the allowed range.
func (w *BookingWorkflow) AdjustDuration(ctx context.Context, userID int64, delta int) (models.BookingSession, error) {
	return w.update(ctx, userID, models.StateSlotSelection, func(s *models.BookingSession) error {
		hours := s.DurationHours + delta
		if hours < models.MinDurationHours {
			hours = models.MinDurationHours
		}
		if hours > models.MaxDurationHours {
			hours = models.MaxDurationHours
		}
		s.DurationHours = hours
		return nil
	})
}

// Proceed advances slot selection to payment. A non-empty slot is a
// precondition.
func (w *BookingWorkflow) Proceed(ctx context.Context, userID int64) (models.BookingSession, error) {
	return w.update(ctx, userID, models.StateSlotSelection, func(s *models.BookingSession) error {
		if s.Slot == "" {
			return ErrSlotRequired
		}
		s.State = models.StatePayment
		s.LastError = ""
		return nil
	})
}

// ChooseMethod records the payment method during payment.
func (w *BookingWorkflow) ChooseMethod(ctx context.Context, userID int64, method string) (models.BookingSession, error) {
	if !models.ValidMethod(method) {
		return models.BookingSession{}, ErrUnknownMethod
	}
	return w.update(ctx, userID, models.StatePayment, func(s *models.BookingSession) error {
		s.Method = method
		return nil
	})
}

// Back returns payment to slot selection (slot and duration preserved) or
// closes the session from slot selection.
func (w *BookingWorkflow) Back(ctx context.Context, userID int64) (models.BookingSession, error) {
	w.mu.Lock()
	entry, ok := w.sessions[userID]
	if !ok {
		w.mu.Unlock()
		return models.BookingSession{}, ErrNoActiveSession
	}

	if entry.submitting {
		w.mu.Unlock()
		return models.BookingSession{}, ErrInvalidState
	}

	switch entry.session.State {
	case models.StatePayment:
		entry.session.State = models.StateSlotSelection
		entry.session.LastError = ""
		session := entry.session
		w.mu.Unlock()
		w.mirror(ctx, session)
		return session, nil
	case models.StateSlotSelection:
		w.closeLocked(userID, entry)
		w.mu.Unlock()
		w.evict(ctx, userID)
		return models.BookingSession{State: models.StateIdle}, nil
	default:
		w.mu.Unlock()
		return models.BookingSession{}, ErrInvalidState
	}
}

// Cancel closes the session outright. Refused once the charge has been
// committed.
func (w *BookingWorkflow) Cancel(ctx context.Context, userID int64) error {
	w.mu.Lock()
	entry, ok := w.sessions[userID]
	if !ok {
		w.mu.Unlock()
		return ErrNoActiveSession
	}
	if entry.session.State == models.StateConfirming {
		w.mu.Unlock()
		return ErrAlreadyCommitted
	}
	if entry.submitting {
		w.mu.Unlock()
		return ErrInvalidState
	}
	w.closeLocked(userID, entry)
	w.mu.Unlock()
	w.evict(ctx, userID)
	w.logger.Info("booking session canceled", zap.Int64("user_id", userID))
	return nil
}

// Confirm submits the charge for the current session. A decline keeps the
// session in payment with the reason recorded; success enters confirming
// and schedules the auto-close back to idle.
func (w *BookingWorkflow) Confirm(ctx context.Context, userID int64, details models.PaymentDetails) (models.BookingSession, error) {
	w.mu.Lock()
	entry, ok := w.sessions[userID]
	if !ok {
		w.mu.Unlock()
		return models.BookingSession{}, ErrNoActiveSession
	}
	if entry.session.State != models.StatePayment {
		w.mu.Unlock()
		return models.BookingSession{}, ErrInvalidState
	}
	if entry.submitting {
		w.mu.Unlock()
		return models.BookingSession{}, ErrInvalidState
	}
	if entry.session.Method == models.MethodCard && details.CardNumber == "" {
		w.mu.Unlock()
		return models.BookingSession{}, ErrCardDetailsRequired
	}

	amount, err := EstimateCost(entry.session.DurationHours, entry.session.Station.PricePerKWh, w.unitsPerHour)
	if err != nil {
		w.mu.Unlock()
		return models.BookingSession{}, err
	}

	// Hold the session against concurrent transitions while the charge is
	// in flight; Back/Cancel/Confirm refuse until the flag clears.
	entry.submitting = true
	snapshot := entry.session
	w.mu.Unlock()

	result, err := w.gateway.Charge(ctx, payment.Request{
		Amount:  amount,
		Method:  snapshot.Method,
		Details: details,
	})

	w.mu.Lock()
	entry, ok = w.sessions[userID]
	if !ok || entry.session.ID != snapshot.ID {
		w.mu.Unlock()
		return models.BookingSession{}, ErrNoActiveSession
	}
	entry.submitting = false
	if entry.session.State != models.StatePayment {
		w.mu.Unlock()
		return models.BookingSession{}, ErrInvalidState
	}

	if err != nil {
		entry.session.LastError = "payment could not be processed"
		session := entry.session
		w.mu.Unlock()
		w.logger.Error("charge submission failed", zap.Int64("user_id", userID), zap.Error(err))
		return session, fmt.Errorf("booking: submit charge: %w", err)
	}
	if result.Declined {
		entry.session.LastError = result.Reason
		session := entry.session
		w.mu.Unlock()
		w.metrics.PaymentDeclined()
		w.logger.Warn("charge declined",
			zap.Int64("user_id", userID),
			zap.String("reason", result.Reason),
		)
		w.mirror(ctx, session)
		return session, ErrPaymentDeclined
	}

	entry.session.State = models.StateConfirming
	entry.session.LastError = ""
	entry.session.BookingRef = newBookingRef()
	entry.session.AmountPaid = amount
	sessionID := entry.session.ID
	entry.timer = time.AfterFunc(w.closeDelay, func() {
		w.autoClose(userID, sessionID)
	})
	session := entry.session
	w.mu.Unlock()

	w.metrics.BookingConfirmed()
	w.mirror(ctx, session)
	w.logger.Info("booking confirmed",
		zap.Int64("user_id", userID),
		zap.String("booking_ref", session.BookingRef),
		zap.String("transaction_id", result.TransactionID),
		zap.Float64("amount", amount),
	)
	return session, nil
}

// Close tears down any open session, canceling a pending auto-close so a
// stale timer never fires against a later session.
func (w *BookingWorkflow) Close(ctx context.Context, userID int64) {
	w.mu.Lock()
	entry, ok := w.sessions[userID]
	if ok {
		w.closeLocked(userID, entry)
	}
	w.mu.Unlock()
	if ok {
		w.evict(ctx, userID)
	}
}

// UnitsPerHour exposes the configured consumption rate for cost previews.
func (w *BookingWorkflow) UnitsPerHour() float64 {
	return w.unitsPerHour
}

func (w *BookingWorkflow) autoClose(userID int64, sessionID string) {
	w.mu.Lock()
	entry, ok := w.sessions[userID]
	if !ok || entry.session.ID != sessionID {
		w.mu.Unlock()
		return
	}
	w.closeLocked(userID, entry)
	w.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	w.evict(ctx, userID)
	w.logger.Info("booking session auto-closed", zap.Int64("user_id", userID))
}

func (w *BookingWorkflow) closeLocked(userID int64, entry *sessionEntry) {
	if entry.timer != nil {
		entry.timer.Stop()
		entry.timer = nil
	}
	delete(w.sessions, userID)
	w.metrics.BookingClosed()
}

func (w *BookingWorkflow) update(ctx context.Context, userID int64, requiredState string, mutate func(*models.BookingSession) error) (models.BookingSession, error) {
	w.mu.Lock()
	entry, ok := w.sessions[userID]
	if !ok {
		w.mu.Unlock()
		return models.BookingSession{}, ErrNoActiveSession
	}
	if entry.submitting || entry.session.State != requiredState {
		w.mu.Unlock()
		return models.BookingSession{}, ErrInvalidState
	}
	if err := mutate(&entry.session); err != nil {
		w.mu.Unlock()
		return models.BookingSession{}, err
	}
	session := entry.session
	w.mu.Unlock()

	w.mirror(ctx, session)
	return session, nil
}

func (w *BookingWorkflow) mirror(ctx context.Context, session models.BookingSession) {
	if w.cache == nil {
		return
	}
	if err := w.cache.Save(ctx, session); err != nil {
		w.logger.Warn("failed to cache booking session", zap.Error(err))
	}
}

func (w *BookingWorkflow) evict(ctx context.Context, userID int64) {
	if w.cache == nil {
		return
	}
	if err := w.cache.Delete(ctx, userID); err != nil {
		w.logger.Warn("failed to drop cached booking session", zap.Error(err))
	}
}

func newBookingRef() string {
	buf := make([]byte, bookingRefLen)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the process is in a bad way; fall back
		// to a uuid-derived suffix rather than panic.
		id := uuid.NewString()
		return bookingRefPrefix + sanitizeRef(id)
	}
	for i, b := range buf {
		buf[i] = bookingRefAlphabet[int(b)%len(bookingRefAlphabet)]
	}
	return bookingRefPrefix + string(buf)
}

func sanitizeRef(raw string) string {
	out := make([]byte, 0, bookingRefLen)
	for i := 0; i < len(raw) && len(out) < bookingRefLen; i++ {
		c := raw[i]
		switch {
		case c >= '0' && c <= '9':
			out = append(out, c)
		case c >= 'a' && c <= 'z':
			out = append(out, c-'a'+'A')
		case c >= 'A' && c <= 'Z':
			out = append(out, c)
		}
	}
	for len(out) < bookingRefLen {
		out = append(out, '0')
	}
	return string(out)
}

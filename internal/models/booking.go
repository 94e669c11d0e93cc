package models

// Booking workflow states. Confirming is terminal-with-timeout: after the
// auto-close delay the session is destroyed and the workflow returns to idle.
const (
	StateIdle          = "idle"
	StateSlotSelection = "slot_selection"
	StatePayment       = "payment"
	StateConfirming    = "confirming"
)

// Payment methods.
const (
	MethodCard   = "card"
	MethodUPI    = "upi"
	MethodWallet = "wallet"
)

// Duration bounds in whole hours.
const (
	MinDurationHours     = 1
	MaxDurationHours     = 8
	DefaultDurationHours = 2
)

// TimeSlots is the fixed ordered catalog of reservable hourly labels.
var TimeSlots = []string{
	"09:00 AM", "10:00 AM", "11:00 AM", "12:00 PM",
	"01:00 PM", "02:00 PM", "03:00 PM", "04:00 PM",
	"05:00 PM", "06:00 PM", "07:00 PM", "08:00 PM",
}

// ValidSlot reports whether slot is in the fixed catalog.
func ValidSlot(slot string) bool {
	for _, s := range TimeSlots {
		if s == slot {
			return true
		}
	}
	return false
}

// ValidMethod reports whether m is a supported payment method.
func ValidMethod(m string) bool {
	switch m {
	case MethodCard, MethodUPI, MethodWallet:
		return true
	}
	return false
}

// PaymentDetails carries captured card input. Format validation is a UI
// concern; the workflow only refuses empty card input for the card method.
type PaymentDetails struct {
	CardNumber     string `json:"card_number"`
	Expiry         string `json:"expiry"`
	CVV            string `json:"cvv"`
	CardholderName string `json:"cardholder_name"`
}

// BookingSession is one in-progress booking attempt. It captures its own
// Station copy at creation time and never tracks the live selection.
type BookingSession struct {
	ID            string  `json:"id"`
	UserID        int64   `json:"user_id"`
	Station       Station `json:"station"`
	Slot          string  `json:"slot,omitempty"`
	DurationHours int     `json:"duration_hours"`
	Method        string  `json:"method"`
	State         string  `json:"state"`
	LastError     string  `json:"last_error,omitempty"`
	BookingRef    string  `json:"booking_ref,omitempty"`
	AmountPaid    float64 `json:"amount_paid,omitempty"`
}

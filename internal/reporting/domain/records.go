package reporting

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Phase categorizes stays (hour, night) and cash-register entries (day, night).
type Phase string

const (
	PhaseHour  Phase = "hour"
	PhaseNight Phase = "night"
	PhaseDay   Phase = "day"
)

// IsStayPhase reports whether the phase is valid for a stay.
func (p Phase) IsStayPhase() bool {
	return p == PhaseHour || p == PhaseNight
}

// IsEntryPhase reports whether the phase is valid for a cash-register entry.
func (p Phase) IsEntryPhase() bool {
	return p == PhaseDay || p == PhaseNight
}

// PaymentMethod is how a stay was paid.
type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "cash"
	PaymentCard  PaymentMethod = "card"
	PaymentOther PaymentMethod = "other"
)

// NormalizePaymentMethod maps unknown or empty values to cash.
func NormalizePaymentMethod(value string) PaymentMethod {
	switch PaymentMethod(value) {
	case PaymentCard, PaymentOther:
		return PaymentMethod(value)
	default:
		return PaymentCash
	}
}

// LineItem is an expense line embedded in a stay or an entry.
type LineItem struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// SumLineItems totals the amounts of the given items.
func SumLineItems(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Amount)
	}
	return total
}

// Stay is a guest stay in a room.
type Stay struct {
	ID            string
	RoomID        string
	RoomNumber    string
	StartTime     time.Time
	EndTime       *time.Time
	Hours         int
	Phase         Phase
	Amount        decimal.Decimal
	PaymentMethod PaymentMethod
	Expenses      []LineItem
	CreatedBy     string
}

// Validate checks the stay invariants.
func (s Stay) Validate() error {
	if !s.Phase.IsStayPhase() {
		return ErrInvalidPhase
	}
	if !s.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if s.StartTime.IsZero() {
		return ErrInvalidStayTimes
	}
	if s.EndTime != nil && s.EndTime.Before(s.StartTime) {
		return ErrInvalidStayTimes
	}
	return nil
}

// IsOpen reports whether the stay has not ended yet.
func (s Stay) IsOpen() bool { return s.EndTime == nil }

// ExpenseTotal sums the embedded expense items.
func (s Stay) ExpenseTotal() decimal.Decimal { return SumLineItems(s.Expenses) }

// Clone returns a copy that shares no slices or pointers with s.
func (s Stay) Clone() Stay {
	out := s
	if s.EndTime != nil {
		end := *s.EndTime
		out.EndTime = &end
	}
	if s.Expenses != nil {
		out.Expenses = append([]LineItem(nil), s.Expenses...)
	}
	return out
}

// StayHours returns the stay duration in whole hours, rounded up.
func StayHours(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	return int(math.Ceil(end.Sub(start).Hours()))
}

// Expense is a free-standing expense, independent of any stay.
type Expense struct {
	ID          string
	Description string
	Amount      decimal.Decimal
	Date        time.Time
}

package reporting

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entry is a cash-register entry for a day or night shift.
type Entry struct {
	ID            string
	Date          time.Time
	Phase         Phase
	TotalIncome   decimal.Decimal
	TotalExpenses decimal.Decimal
	Expenses      []LineItem
	StayIDs       []string
	Notes         string
	CreatedBy     string
}

// EntryInput carries operator input for a new entry.
type EntryInput struct {
	Date        time.Time
	Phase       Phase
	TotalIncome decimal.Decimal
	LinkedStays []Stay
	Expenses    []LineItem
	Notes       string
	CreatedBy   string
}

// NewEntry builds an entry and derives its totals.
// Night entries take their income from the linked stays and ignore the operator
// value; day entries keep the operator value and carry no stay links.
func NewEntry(in EntryInput) (Entry, error) {
	if !in.Phase.IsEntryPhase() {
		return Entry{}, ErrInvalidPhase
	}
	entry := Entry{
		Date:          in.Date,
		Phase:         in.Phase,
		Expenses:      append([]LineItem(nil), in.Expenses...),
		TotalExpenses: SumLineItems(in.Expenses),
		Notes:         in.Notes,
		CreatedBy:     in.CreatedBy,
	}
	switch in.Phase {
	case PhaseNight:
		income := decimal.Zero
		for _, stay := range in.LinkedStays {
			income = income.Add(stay.Amount)
			entry.StayIDs = append(entry.StayIDs, stay.ID)
		}
		entry.TotalIncome = income
	default:
		entry.TotalIncome = in.TotalIncome
	}
	return entry, nil
}

// Clone returns a detached copy.
func (e Entry) Clone() Entry {
	out := e
	if e.Expenses != nil {
		out.Expenses = append([]LineItem(nil), e.Expenses...)
	}
	if e.StayIDs != nil {
		out.StayIDs = append([]string(nil), e.StayIDs...)
	}
	return out
}

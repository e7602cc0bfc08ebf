package reporting

import "github.com/shopspring/decimal"

// Totals is the reduction of one window of ledger records.
type Totals struct {
	HourIncome      decimal.Decimal
	NightIncome     decimal.Decimal
	EntriesIncome   decimal.Decimal
	DayIncome       decimal.Decimal
	StayExpenses    decimal.Decimal
	EntriesExpenses decimal.Decimal
	OtherExpenses   decimal.Decimal
	TotalIncome     decimal.Decimal
	TotalExpenses   decimal.Decimal
	Remaining       decimal.Decimal
	TotalStays      int
	NightStays      int
}

// Summarize reduces stays, free-standing expenses and cash entries into totals.
// It is a pure function of its inputs.
func Summarize(stays []Stay, expenses []Expense, entries []Entry) Totals {
	t := Totals{
		HourIncome:      decimal.Zero,
		NightIncome:     decimal.Zero,
		EntriesIncome:   decimal.Zero,
		DayIncome:       decimal.Zero,
		StayExpenses:    decimal.Zero,
		EntriesExpenses: decimal.Zero,
		OtherExpenses:   decimal.Zero,
	}
	for _, s := range stays {
		switch s.Phase {
		case PhaseHour:
			t.HourIncome = t.HourIncome.Add(s.Amount)
		case PhaseNight:
			t.NightIncome = t.NightIncome.Add(s.Amount)
			t.NightStays++
		}
		t.StayExpenses = t.StayExpenses.Add(s.ExpenseTotal())
		t.TotalStays++
	}
	for _, e := range entries {
		t.EntriesIncome = t.EntriesIncome.Add(e.TotalIncome)
		t.EntriesExpenses = t.EntriesExpenses.Add(e.TotalExpenses)
		if e.Phase == PhaseDay {
			t.DayIncome = t.DayIncome.Add(e.TotalIncome)
		}
	}
	for _, e := range expenses {
		t.OtherExpenses = t.OtherExpenses.Add(e.Amount)
	}

	t.TotalIncome = t.HourIncome.Add(t.NightIncome).Add(t.EntriesIncome)
	t.TotalExpenses = t.StayExpenses.Add(t.EntriesExpenses).Add(t.OtherExpenses)
	t.Remaining = t.TotalIncome.Sub(t.TotalExpenses)
	return t
}

// StayIncome is the income recorded on stays alone.
func (t Totals) StayIncome() decimal.Decimal { return t.HourIncome.Add(t.NightIncome) }

// LedgerExpenses are the free-standing expenses. Stay line items only count in
// the cash view (TotalExpenses).
func (t Totals) LedgerExpenses() decimal.Decimal { return t.OtherExpenses }

// LedgerRemaining is StayIncome minus LedgerExpenses.
func (t Totals) LedgerRemaining() decimal.Decimal { return t.StayIncome().Sub(t.LedgerExpenses()) }

// Occupation returns totalStays over roomCount as a percentage.
// A non-positive room count yields 0, which also hides "no rooms configured".
func Occupation(totalStays, roomCount int) float64 {
	if roomCount <= 0 {
		return 0
	}
	return float64(totalStays) / float64(roomCount) * 100
}

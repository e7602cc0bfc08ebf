package reporting

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func amount(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func at(day, hour int) time.Time {
	return time.Date(2025, time.January, day, hour, 0, 0, 0, time.UTC)
}

func scenarioStays() []Stay {
	return []Stay{
		{ID: "s1", RoomID: "r1", StartTime: at(10, 10), Phase: PhaseHour, Amount: amount(50000)},
		{ID: "s2", RoomID: "r2", StartTime: at(10, 21), Phase: PhaseNight, Amount: amount(100000)},
		{ID: "s3", RoomID: "r3", StartTime: at(10, 14), Phase: PhaseHour, Amount: amount(75000)},
	}
}

func TestSummarize_Scenario(t *testing.T) {
	expenses := []Expense{{ID: "e1", Description: "soap", Amount: amount(20000), Date: at(10, 12)}}
	totals := Summarize(scenarioStays(), expenses, nil)

	if !totals.HourIncome.Equal(amount(125000)) {
		t.Fatalf("hour income mismatch: %s", totals.HourIncome)
	}
	if !totals.NightIncome.Equal(amount(100000)) {
		t.Fatalf("night income mismatch: %s", totals.NightIncome)
	}
	if totals.TotalStays != 3 || totals.NightStays != 1 {
		t.Fatalf("stay counts mismatch: total=%d night=%d", totals.TotalStays, totals.NightStays)
	}
	if !totals.TotalExpenses.Equal(amount(20000)) {
		t.Fatalf("expenses mismatch: %s", totals.TotalExpenses)
	}
	if !totals.Remaining.Equal(amount(205000)) {
		t.Fatalf("remaining mismatch: %s", totals.Remaining)
	}
}

func TestSummarize_AllSources(t *testing.T) {
	stays := []Stay{{
		Phase:  PhaseHour,
		Amount: amount(30000),
		Expenses: []LineItem{
			{Description: "towels", Amount: amount(2000)},
			{Description: "water", Amount: amount(1500)},
		},
	}}
	entries := []Entry{
		{Phase: PhaseDay, TotalIncome: amount(40000), TotalExpenses: amount(5000)},
		{Phase: PhaseNight, TotalIncome: amount(60000), TotalExpenses: amount(1000)},
	}
	expenses := []Expense{{Amount: amount(7000)}}

	totals := Summarize(stays, expenses, entries)
	checks := map[string][2]decimal.Decimal{
		"stay expenses":    {totals.StayExpenses, amount(3500)},
		"entries income":   {totals.EntriesIncome, amount(100000)},
		"day income":       {totals.DayIncome, amount(40000)},
		"entries expenses": {totals.EntriesExpenses, amount(6000)},
		"other expenses":   {totals.OtherExpenses, amount(7000)},
		"total income":     {totals.TotalIncome, amount(130000)},
		"total expenses":   {totals.TotalExpenses, amount(16500)},
		"remaining":        {totals.Remaining, amount(113500)},
		"ledger remaining": {totals.LedgerRemaining(), amount(23000)},
		"ledger expenses":  {totals.LedgerExpenses(), amount(7000)},
	}
	for name, pair := range checks {
		if !pair[0].Equal(pair[1]) {
			t.Fatalf("%s: expected %s, got %s", name, pair[1], pair[0])
		}
	}
}

func TestSummarize_RemainingMayBeNegative(t *testing.T) {
	totals := Summarize(nil, []Expense{{Amount: amount(900)}}, nil)
	if !totals.Remaining.Equal(amount(-900)) {
		t.Fatalf("expected -900, got %s", totals.Remaining)
	}
}

func TestSummarize_IncomeMinusExpensesEqualsRemaining(t *testing.T) {
	stays := scenarioStays()
	stays[0].Expenses = []LineItem{{Amount: decimal.RequireFromString("1234.5")}}
	expenses := []Expense{{Amount: decimal.RequireFromString("0.1")}, {Amount: decimal.RequireFromString("0.2")}}
	entries := []Entry{{Phase: PhaseDay, TotalIncome: decimal.RequireFromString("0.3")}}
	totals := Summarize(stays, expenses, entries)
	if !totals.TotalIncome.Sub(totals.TotalExpenses).Equal(totals.Remaining) {
		t.Fatalf("income - expenses != remaining: %s - %s != %s", totals.TotalIncome, totals.TotalExpenses, totals.Remaining)
	}
}

func TestSummarize_Idempotent(t *testing.T) {
	expenses := []Expense{{Amount: amount(20000), Date: at(10, 12)}}
	first := Summarize(scenarioStays(), expenses, nil)
	second := Summarize(scenarioStays(), expenses, nil)
	if first.TotalIncome.String() != second.TotalIncome.String() ||
		first.TotalExpenses.String() != second.TotalExpenses.String() ||
		first.Remaining.String() != second.Remaining.String() ||
		first.TotalStays != second.TotalStays {
		t.Fatalf("aggregation is not idempotent: %+v vs %+v", first, second)
	}
}

func TestOccupation(t *testing.T) {
	if got := Occupation(3, 0); got != 0 {
		t.Fatalf("expected 0 with no rooms, got %v", got)
	}
	if got := Occupation(0, 0); got != 0 {
		t.Fatalf("expected 0 for 0/0, got %v", got)
	}
	if got := Occupation(3, 12); got != 25 {
		t.Fatalf("expected 25, got %v", got)
	}
}

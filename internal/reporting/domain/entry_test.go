package reporting

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestNewEntry_NightIncomeFromLinkedStays(t *testing.T) {
	entry, err := NewEntry(EntryInput{
		Date:        at(10, 23),
		Phase:       PhaseNight,
		TotalIncome: amount(1),
		LinkedStays: []Stay{
			{ID: "s1", Amount: amount(100000)},
			{ID: "s2", Amount: amount(80000)},
		},
		Expenses: []LineItem{{Description: "fuel", Amount: amount(15000)}},
	})
	if err != nil {
		t.Fatalf("new entry: %v", err)
	}
	if !entry.TotalIncome.Equal(amount(180000)) {
		t.Fatalf("night income must come from stays, got %s", entry.TotalIncome)
	}
	if !entry.TotalExpenses.Equal(amount(15000)) {
		t.Fatalf("expenses mismatch: %s", entry.TotalExpenses)
	}
	if len(entry.StayIDs) != 2 || entry.StayIDs[0] != "s1" {
		t.Fatalf("stay links mismatch: %v", entry.StayIDs)
	}
}

func TestNewEntry_DayKeepsOperatorIncome(t *testing.T) {
	entry, err := NewEntry(EntryInput{
		Date:        time.Date(2025, time.January, 10, 12, 0, 0, 0, time.UTC),
		Phase:       PhaseDay,
		TotalIncome: amount(45000),
		LinkedStays: []Stay{{ID: "s1", Amount: amount(100000)}},
	})
	if err != nil {
		t.Fatalf("new entry: %v", err)
	}
	if !entry.TotalIncome.Equal(amount(45000)) {
		t.Fatalf("day income mismatch: %s", entry.TotalIncome)
	}
	if len(entry.StayIDs) != 0 {
		t.Fatalf("day entries carry no stay links")
	}
	if !entry.TotalExpenses.Equal(decimal.Zero) {
		t.Fatalf("expected zero expenses")
	}
}

func TestNewEntry_InvalidPhase(t *testing.T) {
	if _, err := NewEntry(EntryInput{Phase: PhaseHour}); !errors.Is(err, ErrInvalidPhase) {
		t.Fatalf("expected ErrInvalidPhase, got %v", err)
	}
}

func TestStayValidateAndHours(t *testing.T) {
	start := at(10, 10)
	end := start.Add(90 * time.Minute)
	stay := Stay{StartTime: start, EndTime: &end, Phase: PhaseHour, Amount: amount(10)}
	if err := stay.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if got := StayHours(start, end); got != 2 {
		t.Fatalf("expected 2 hours, got %d", got)
	}
	stay.Amount = decimal.Zero
	if err := stay.Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	before := start.Add(-time.Hour)
	stay.Amount = amount(10)
	stay.EndTime = &before
	if err := stay.Validate(); !errors.Is(err, ErrInvalidStayTimes) {
		t.Fatalf("expected ErrInvalidStayTimes, got %v", err)
	}
}

func TestRoomCanTransition(t *testing.T) {
	room := Room{ID: "r1", Number: "101", State: RoomOccupied}
	if err := room.CanTransition(RoomFree, true); !errors.Is(err, ErrRoomHasOpenStay) {
		t.Fatalf("expected ErrRoomHasOpenStay, got %v", err)
	}
	if err := room.CanTransition(RoomCleaning, true); err != nil {
		t.Fatalf("cleaning should be allowed: %v", err)
	}
	if err := room.CanTransition("broken", false); !errors.Is(err, ErrInvalidRoomState) {
		t.Fatalf("expected ErrInvalidRoomState, got %v", err)
	}
}

func TestTariffTaxIncluded(t *testing.T) {
	tariff := DefaultTariff()
	if !tariff.TaxIncluded(amount(1000)).IsZero() {
		t.Fatalf("default tariff has no tax")
	}
	tariff.TaxPercent = amount(18)
	if got := tariff.TaxIncluded(amount(118000)); !got.Equal(amount(18000)) {
		t.Fatalf("expected 18000 tax, got %s", got)
	}
}

package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	"hotel-ledger/internal/reporting/application"
	reporting "hotel-ledger/internal/reporting/domain"
)

// LedgerRepository is an in-memory ledger for demo/testing.
type LedgerRepository struct {
	mu       sync.RWMutex
	rooms    map[string]reporting.Room
	stays    map[string]reporting.Stay
	expenses map[string]reporting.Expense
	entries  map[string]reporting.Entry
	tariff   *reporting.Tariff
}

// NewLedgerRepository constructs an empty ledger.
func NewLedgerRepository() *LedgerRepository {
	return &LedgerRepository{
		rooms:    make(map[string]reporting.Room),
		stays:    make(map[string]reporting.Stay),
		expenses: make(map[string]reporting.Expense),
		entries:  make(map[string]reporting.Entry),
	}
}

// AddRoom stores a room and returns its id.
func (r *LedgerRepository) AddRoom(room reporting.Room) (string, error) {
	if room.Number == "" {
		return "", errors.New("memory ledger: empty room number")
	}
	if room.State == "" {
		room.State = reporting.RoomFree
	}
	if !room.State.IsValid() {
		return "", reporting.ErrInvalidRoomState
	}
	if room.ID == "" {
		room.ID = uuid.NewString()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.rooms {
		if existing.Number == room.Number && existing.ID != room.ID {
			return "", errors.New("memory ledger: duplicate room number")
		}
	}
	r.rooms[room.ID] = room
	return room.ID, nil
}

// AddStay validates and stores a stay and returns its id.
func (r *LedgerRepository) AddStay(stay reporting.Stay) (string, error) {
	if err := stay.Validate(); err != nil {
		return "", err
	}
	if stay.ID == "" {
		stay.ID = uuid.NewString()
	}
	if stay.PaymentMethod == "" {
		stay.PaymentMethod = reporting.PaymentCash
	}
	if stay.EndTime != nil {
		stay.Hours = reporting.StayHours(stay.StartTime, *stay.EndTime)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stays[stay.ID] = stay.Clone()
	return stay.ID, nil
}

// AddExpense stores a free-standing expense and returns its id.
func (r *LedgerRepository) AddExpense(expense reporting.Expense) (string, error) {
	if !expense.Amount.IsPositive() {
		return "", reporting.ErrInvalidAmount
	}
	if expense.ID == "" {
		expense.ID = uuid.NewString()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.expenses[expense.ID] = expense
	return expense.ID, nil
}

// AddEntry stores a cash-register entry and returns its id.
func (r *LedgerRepository) AddEntry(entry reporting.Entry) (string, error) {
	if !entry.Phase.IsEntryPhase() {
		return "", reporting.ErrInvalidPhase
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[entry.ID] = entry.Clone()
	return entry.ID, nil
}

// SetTariff replaces the property tariff.
func (r *LedgerRepository) SetTariff(tariff reporting.Tariff) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tariff = &tariff
}

// ListStays returns stays matching the filter, ordered by start time.
func (r *LedgerRepository) ListStays(ctx context.Context, filter application.StayFilter) ([]reporting.Stay, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]reporting.Stay, 0, len(r.stays))
	for _, stay := range r.stays {
		if !filter.Window.Contains(stay.StartTime) {
			continue
		}
		if filter.RoomID != "" && stay.RoomID != filter.RoomID {
			continue
		}
		if filter.Phase != "" && stay.Phase != filter.Phase {
			continue
		}
		result = append(result, r.resolve(stay))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartTime.Before(result[j].StartTime) })
	return result, nil
}

// ListExpenses returns expenses dated in the window, ordered by date.
func (r *LedgerRepository) ListExpenses(ctx context.Context, window reporting.Window) ([]reporting.Expense, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]reporting.Expense, 0, len(r.expenses))
	for _, expense := range r.expenses {
		if window.Contains(expense.Date) {
			result = append(result, expense)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

// ListEntries returns entries matching the filter, ordered by date.
func (r *LedgerRepository) ListEntries(ctx context.Context, filter application.EntryFilter) ([]reporting.Entry, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]reporting.Entry, 0, len(r.entries))
	for _, entry := range r.entries {
		if !filter.Window.Contains(entry.Date) {
			continue
		}
		if filter.Phase != "" && entry.Phase != filter.Phase {
			continue
		}
		result = append(result, entry.Clone())
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

// CountRooms returns the number of rooms.
func (r *LedgerRepository) CountRooms(ctx context.Context) (int, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms), nil
}

// GetStay loads a stay with its room number resolved.
func (r *LedgerRepository) GetStay(ctx context.Context, id string) (*reporting.Stay, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	stay, ok := r.stays[id]
	if !ok {
		return nil, reporting.ErrStayNotFound
	}
	resolved := r.resolve(stay)
	return &resolved, nil
}

// GetTariff returns the stored tariff or the default one.
func (r *LedgerRepository) GetTariff(ctx context.Context) (reporting.Tariff, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.tariff == nil {
		return reporting.DefaultTariff(), nil
	}
	return *r.tariff, nil
}

// resolve must be called with the read lock held.
func (r *LedgerRepository) resolve(stay reporting.Stay) reporting.Stay {
	out := stay.Clone()
	if room, ok := r.rooms[stay.RoomID]; ok {
		out.RoomNumber = room.Number
	}
	return out
}

var _ application.Ledger = (*LedgerRepository)(nil)

package application

import (
	"context"

	reporting "hotel-ledger/internal/reporting/domain"
)

// StayFilter selects stays whose start time falls in Window.
type StayFilter struct {
	Window reporting.Window
	RoomID string
	Phase  reporting.Phase
}

// EntryFilter selects cash-register entries dated in Window.
type EntryFilter struct {
	Window reporting.Window
	Phase  reporting.Phase
}

// Ledger is the read side of the persistence collaborator.
// Every window bound is inclusive; a zero window means no time bound.
// Implementations wrap storage failures with reporting.ErrQueryFailed.
type Ledger interface {
	ListStays(ctx context.Context, filter StayFilter) ([]reporting.Stay, error)
	ListExpenses(ctx context.Context, window reporting.Window) ([]reporting.Expense, error)
	ListEntries(ctx context.Context, filter EntryFilter) ([]reporting.Entry, error)
	CountRooms(ctx context.Context) (int, error)
	GetStay(ctx context.Context, id string) (*reporting.Stay, error)
	GetTariff(ctx context.Context) (reporting.Tariff, error)
}

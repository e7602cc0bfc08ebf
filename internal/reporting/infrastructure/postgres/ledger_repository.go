package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"hotel-ledger/internal/reporting/application"
	reporting "hotel-ledger/internal/reporting/domain"
)

// LedgerRepository reads the hotel ledger from PostgreSQL.
type LedgerRepository struct {
	db    *sql.DB
	types *pgtype.Map
}

// NewLedgerRepository constructs a repository.
func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{db: db, types: pgtype.NewMap()}
}

func queryFailed(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", reporting.ErrQueryFailed, op, err)
}

// windowClause appends inclusive bounds on column when the window is bounded.
func windowClause(column string, w reporting.Window, conds []string, args []any) ([]string, []any) {
	if w.IsZero() {
		return conds, args
	}
	if !w.Start.IsZero() {
		args = append(args, w.Start.UTC())
		conds = append(conds, fmt.Sprintf("%s >= $%d", column, len(args)))
	}
	if !w.End.IsZero() {
		args = append(args, w.End.UTC())
		conds = append(conds, fmt.Sprintf("%s <= $%d", column, len(args)))
	}
	return conds, args
}

func where(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	return "\nWHERE " + strings.Join(conds, " AND ")
}

// ListStays returns stays matching the filter with room numbers resolved.
func (r *LedgerRepository) ListStays(ctx context.Context, filter application.StayFilter) ([]reporting.Stay, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("ledger repo: nil db")
	}
	conds, args := windowClause("s.start_time", filter.Window, nil, nil)
	if filter.RoomID != "" {
		args = append(args, filter.RoomID)
		conds = append(conds, fmt.Sprintf("s.room_id = $%d", len(args)))
	}
	if filter.Phase != "" {
		args = append(args, string(filter.Phase))
		conds = append(conds, fmt.Sprintf("s.phase = $%d", len(args)))
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT s.id, s.room_id, COALESCE(rm.number, ''), s.start_time, s.end_time, s.hours,
	s.phase, s.amount, s.payment_method, s.expenses, s.created_by
FROM stays s
LEFT JOIN rooms rm ON rm.id = s.room_id`+where(conds)+`
ORDER BY s.start_time ASC`, args...)
	if err != nil {
		return nil, queryFailed("list stays", err)
	}
	defer rows.Close()

	var result []reporting.Stay
	for rows.Next() {
		stay, err := scanStay(rows)
		if err != nil {
			return nil, queryFailed("scan stay", err)
		}
		result = append(result, stay)
	}
	if err := rows.Err(); err != nil {
		return nil, queryFailed("list stays", err)
	}
	return result, nil
}

// ListExpenses returns free-standing expenses dated in the window.
func (r *LedgerRepository) ListExpenses(ctx context.Context, window reporting.Window) ([]reporting.Expense, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("ledger repo: nil db")
	}
	conds, args := windowClause("date", window, nil, nil)
	rows, err := r.db.QueryContext(ctx, `
SELECT id, description, amount, date
FROM expenses`+where(conds)+`
ORDER BY date ASC`, args...)
	if err != nil {
		return nil, queryFailed("list expenses", err)
	}
	defer rows.Close()

	var result []reporting.Expense
	for rows.Next() {
		var e reporting.Expense
		if err := rows.Scan(&e.ID, &e.Description, &e.Amount, &e.Date); err != nil {
			return nil, queryFailed("scan expense", err)
		}
		e.Date = e.Date.UTC()
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, queryFailed("list expenses", err)
	}
	return result, nil
}

// ListEntries returns cash-register entries matching the filter.
func (r *LedgerRepository) ListEntries(ctx context.Context, filter application.EntryFilter) ([]reporting.Entry, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("ledger repo: nil db")
	}
	conds, args := windowClause("date", filter.Window, nil, nil)
	if filter.Phase != "" {
		args = append(args, string(filter.Phase))
		conds = append(conds, fmt.Sprintf("phase = $%d", len(args)))
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, date, phase, total_income, total_expenses, expenses, stay_ids, notes, created_by
FROM cash_entries`+where(conds)+`
ORDER BY date ASC`, args...)
	if err != nil {
		return nil, queryFailed("list entries", err)
	}
	defer rows.Close()

	var result []reporting.Entry
	for rows.Next() {
		var (
			e        reporting.Entry
			phase    string
			expenses []byte
		)
		if err := rows.Scan(&e.ID, &e.Date, &phase, &e.TotalIncome, &e.TotalExpenses, &expenses,
			r.types.SQLScanner(&e.StayIDs), &e.Notes, &e.CreatedBy); err != nil {
			return nil, queryFailed("scan entry", err)
		}
		e.Date = e.Date.UTC()
		e.Phase = reporting.Phase(phase)
		if e.Expenses, err = decodeLineItems(expenses); err != nil {
			return nil, queryFailed("decode entry expenses", err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, queryFailed("list entries", err)
	}
	return result, nil
}

// CountRooms returns the number of rooms.
func (r *LedgerRepository) CountRooms(ctx context.Context) (int, error) {
	if r == nil || r.db == nil {
		return 0, errors.New("ledger repo: nil db")
	}
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rooms`).Scan(&count); err != nil {
		return 0, queryFailed("count rooms", err)
	}
	return count, nil
}

// GetStay loads one stay with its room number.
func (r *LedgerRepository) GetStay(ctx context.Context, id string) (*reporting.Stay, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("ledger repo: nil db")
	}
	row := r.db.QueryRowContext(ctx, `
SELECT s.id, s.room_id, COALESCE(rm.number, ''), s.start_time, s.end_time, s.hours,
	s.phase, s.amount, s.payment_method, s.expenses, s.created_by
FROM stays s
LEFT JOIN rooms rm ON rm.id = s.room_id
WHERE s.id = $1`, id)
	stay, err := scanStay(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, reporting.ErrStayNotFound
	}
	if err != nil {
		return nil, queryFailed("get stay", err)
	}
	return &stay, nil
}

// GetTariff returns the stored tariff or the default one.
func (r *LedgerRepository) GetTariff(ctx context.Context) (reporting.Tariff, error) {
	if r == nil || r.db == nil {
		return reporting.Tariff{}, errors.New("ledger repo: nil db")
	}
	var t reporting.Tariff
	err := r.db.QueryRowContext(ctx, `
SELECT hour_rate, night_rate, tax_percent
FROM tariffs
WHERE id = 1`).Scan(&t.HourRate, &t.NightRate, &t.TaxPercent)
	if errors.Is(err, sql.ErrNoRows) {
		return reporting.DefaultTariff(), nil
	}
	if err != nil {
		return reporting.Tariff{}, queryFailed("get tariff", err)
	}
	return t, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanStay(row scanner) (reporting.Stay, error) {
	var (
		s        reporting.Stay
		end      sql.NullTime
		phase    string
		payment  string
		expenses []byte
	)
	if err := row.Scan(&s.ID, &s.RoomID, &s.RoomNumber, &s.StartTime, &end, &s.Hours,
		&phase, &s.Amount, &payment, &expenses, &s.CreatedBy); err != nil {
		return reporting.Stay{}, err
	}
	s.StartTime = s.StartTime.UTC()
	if end.Valid {
		t := end.Time.UTC()
		s.EndTime = &t
	}
	s.Phase = reporting.Phase(phase)
	s.PaymentMethod = reporting.NormalizePaymentMethod(payment)
	items, err := decodeLineItems(expenses)
	if err != nil {
		return reporting.Stay{}, err
	}
	s.Expenses = items
	return s, nil
}

func decodeLineItems(raw []byte) ([]reporting.LineItem, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var items []reporting.LineItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func encodeLineItems(items []reporting.LineItem) ([]byte, error) {
	if items == nil {
		items = []reporting.LineItem{}
	}
	return json.Marshal(items)
}

// InsertRoom stores a room.
func (r *LedgerRepository) InsertRoom(ctx context.Context, room reporting.Room) error {
	if r == nil || r.db == nil {
		return errors.New("ledger repo: nil db")
	}
	if room.State == "" {
		room.State = reporting.RoomFree
	}
	if !room.State.IsValid() {
		return reporting.ErrInvalidRoomState
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO rooms (id, number, state)
VALUES ($1,$2,$3)
ON CONFLICT (id) DO UPDATE SET number = EXCLUDED.number, state = EXCLUDED.state`,
		room.ID, room.Number, string(room.State))
	return err
}

// InsertStay validates and stores a stay.
func (r *LedgerRepository) InsertStay(ctx context.Context, stay reporting.Stay) error {
	if r == nil || r.db == nil {
		return errors.New("ledger repo: nil db")
	}
	if err := stay.Validate(); err != nil {
		return err
	}
	if stay.EndTime != nil {
		stay.Hours = reporting.StayHours(stay.StartTime, *stay.EndTime)
	}
	if stay.PaymentMethod == "" {
		stay.PaymentMethod = reporting.PaymentCash
	}
	expenses, err := encodeLineItems(stay.Expenses)
	if err != nil {
		return err
	}
	var end any
	if stay.EndTime != nil {
		end = stay.EndTime.UTC()
	}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO stays (
	id, room_id, start_time, end_time, hours, phase, amount, payment_method, expenses, created_by
) VALUES (
	$1,$2,$3,$4,$5,$6,$7,$8,$9,$10
)`, stay.ID, stay.RoomID, stay.StartTime.UTC(), end, stay.Hours, string(stay.Phase), stay.Amount,
		string(stay.PaymentMethod), expenses, stay.CreatedBy)
	return err
}

// InsertExpense stores a free-standing expense.
func (r *LedgerRepository) InsertExpense(ctx context.Context, expense reporting.Expense) error {
	if r == nil || r.db == nil {
		return errors.New("ledger repo: nil db")
	}
	if !expense.Amount.IsPositive() {
		return reporting.ErrInvalidAmount
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO expenses (id, description, amount, date)
VALUES ($1,$2,$3,$4)`, expense.ID, expense.Description, expense.Amount, expense.Date.UTC())
	return err
}

// InsertEntry stores a cash-register entry.
func (r *LedgerRepository) InsertEntry(ctx context.Context, entry reporting.Entry) error {
	if r == nil || r.db == nil {
		return errors.New("ledger repo: nil db")
	}
	if !entry.Phase.IsEntryPhase() {
		return reporting.ErrInvalidPhase
	}
	expenses, err := encodeLineItems(entry.Expenses)
	if err != nil {
		return err
	}
	stayIDs := entry.StayIDs
	if stayIDs == nil {
		stayIDs = []string{}
	}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO cash_entries (
	id, date, phase, total_income, total_expenses, expenses, stay_ids, notes, created_by
) VALUES (
	$1,$2,$3,$4,$5,$6,$7,$8,$9
)`, entry.ID, entry.Date.UTC(), string(entry.Phase), entry.TotalIncome, entry.TotalExpenses,
		expenses, stayIDs, entry.Notes, entry.CreatedBy)
	return err
}

// SaveTariff replaces the property tariff.
func (r *LedgerRepository) SaveTariff(ctx context.Context, tariff reporting.Tariff) error {
	if r == nil || r.db == nil {
		return errors.New("ledger repo: nil db")
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO tariffs (id, hour_rate, night_rate, tax_percent, updated_at)
VALUES (1,$1,$2,$3,$4)
ON CONFLICT (id) DO UPDATE SET
	hour_rate = EXCLUDED.hour_rate,
	night_rate = EXCLUDED.night_rate,
	tax_percent = EXCLUDED.tax_percent,
	updated_at = EXCLUDED.updated_at`,
		tariff.HourRate, tariff.NightRate, tariff.TaxPercent, time.Now().UTC())
	return err
}

var _ application.Ledger = (*LedgerRepository)(nil)

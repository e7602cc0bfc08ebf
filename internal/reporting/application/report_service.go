package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"hotel-ledger/internal/observability/metrics"
	reporting "hotel-ledger/internal/reporting/domain"
)

const weekDays = 7

// PeriodReport is the daily, monthly or annual report.
type PeriodReport struct {
	Range       reporting.Window
	Income      decimal.Decimal
	HourIncome  decimal.Decimal
	NightIncome decimal.Decimal
	Expenses    decimal.Decimal
	Remaining   decimal.Decimal
	TotalStays  int
	NightStays  int
	Occupation  float64
}

// DailySummary is the cash view of one workday.
type DailySummary struct {
	Range         reporting.Window
	HourIncome    decimal.Decimal
	NightIncome   decimal.Decimal
	EntriesIncome decimal.Decimal
	TotalIncome   decimal.Decimal
	TotalExpenses decimal.Decimal
	Remaining     decimal.Decimal
}

// StaffSummary extends the daily summary with the records behind it.
type StaffSummary struct {
	DailySummary
	DayIncome       decimal.Decimal
	StayExpenses    decimal.Decimal
	EntriesExpenses decimal.Decimal
	OtherExpenses   decimal.Decimal
	Stays           StayGroups
	Expenses        []reporting.Expense
	Entries         []reporting.Entry
}

// StayGroups splits the stays of a workday by phase, each in time order.
type StayGroups struct {
	Hours  []reporting.Stay
	Nights []reporting.Stay
}

func groupStays(stays []reporting.Stay) StayGroups {
	groups := StayGroups{Hours: []reporting.Stay{}, Nights: []reporting.Stay{}}
	for _, stay := range stays {
		if stay.Phase == reporting.PhaseNight {
			groups.Nights = append(groups.Nights, stay)
			continue
		}
		groups.Hours = append(groups.Hours, stay)
	}
	return groups
}

// WeeklyRow is one day of the weekly summary.
type WeeklyRow struct {
	Day   string
	Range reporting.Window
	In    decimal.Decimal
	Out   decimal.Decimal
}

// HourlyGraph is the hour-of-day breakdown of one workday.
type HourlyGraph struct {
	Range reporting.Window
	Data  []reporting.HourBucket
}

// SheetRow is a labelled sub-period of a statement.
type SheetRow struct {
	Label string
	reporting.PeriodRow
}

// PeriodSheet is the input of the statement documents.
// Total is the sum of Rows; a daily sheet has no rows.
type PeriodSheet struct {
	Title string
	Range reporting.Window
	Rows  []SheetRow
	Total reporting.PeriodRow
}

// LedgerRow is one record line of the workday spreadsheet.
type LedgerRow struct {
	Time        time.Time
	Kind        string
	Description string
	Income      decimal.Decimal
	Expenses    decimal.Decimal
}

// LedgerSheet is the input of the workday spreadsheet.
type LedgerSheet struct {
	Range   reporting.Window
	Rows    []LedgerRow
	Summary DailySummary
}

// ReceiptData is the input of the stay receipt.
type ReceiptData struct {
	Stay   reporting.Stay
	Tariff reporting.Tariff
	Tax    decimal.Decimal
}

// ReportService computes workday-aware reports over the ledger.
type ReportService struct {
	ledger    Ledger
	clock     reporting.Clock
	loc       *time.Location
	startHour int
	logger    *zap.Logger
}

// NewReportService constructs the service.
func NewReportService(ledger Ledger, clock reporting.Clock, loc *time.Location, startHour int, logger *zap.Logger) (*ReportService, error) {
	if ledger == nil {
		return nil, errors.New("report service: nil ledger")
	}
	if startHour < 0 || startHour > 23 {
		return nil, errors.New("report service: workday start hour out of range")
	}
	if clock == nil {
		clock = reporting.SystemClock{}
	}
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		ledger:    ledger,
		clock:     clock,
		loc:       loc,
		startHour: startHour,
		logger:    logger,
	}, nil
}

// Location returns the property time zone.
func (s *ReportService) Location() *time.Location { return s.loc }

type fetchPlan struct {
	entries bool
	rooms   bool
}

type windowData struct {
	stays    []reporting.Stay
	expenses []reporting.Expense
	entries  []reporting.Entry
	rooms    int
}

// fetch reads one window concurrently. Any failure aborts the fetch except the
// room count, which falls back to zero.
func (s *ReportService) fetch(ctx context.Context, w reporting.Window, plan fetchPlan) (windowData, error) {
	var data windowData
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stays, err := s.ledger.ListStays(gctx, StayFilter{Window: w})
		data.stays = stays
		return err
	})
	g.Go(func() error {
		expenses, err := s.ledger.ListExpenses(gctx, w)
		data.expenses = expenses
		return err
	})
	if plan.entries {
		g.Go(func() error {
			entries, err := s.ledger.ListEntries(gctx, EntryFilter{Window: w})
			data.entries = entries
			return err
		})
	}
	if plan.rooms {
		g.Go(func() error {
			rooms, err := s.ledger.CountRooms(gctx)
			if err != nil {
				s.logger.Warn("room count failed, occupation set to 0",
					zap.String("window", w.String()), zap.Error(err))
				metrics.IncOccupationDegraded()
				rooms = 0
			}
			data.rooms = rooms
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Error("ledger query failed", zap.String("window", w.String()), zap.Error(err))
		return windowData{}, err
	}
	return data, nil
}

func observe(report string, started time.Time, err *error) {
	metrics.ObserveReport(report, metrics.ResultOf(*err), time.Since(started))
}

// workdayOf returns the workday of the calendar date of day, read in the
// property time zone. Before the start hour on the clock it is the workday
// beginning the day before.
func (s *ReportService) workdayOf(day time.Time) (reporting.Window, error) {
	if day.IsZero() {
		return reporting.Window{}, reporting.ErrInvalidPeriod
	}
	local := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, s.loc)
	return reporting.WorkdayRange(local, s.clock.Now().In(s.loc), s.startHour)
}

func (s *ReportService) openWorkday() (reporting.Window, error) {
	return reporting.OpenWorkday(s.clock.Now().In(s.loc), s.startHour)
}

// DailyReport reports the workday beginning on date.
func (s *ReportService) DailyReport(ctx context.Context, date time.Time) (report PeriodReport, err error) {
	defer observe("daily", time.Now(), &err)
	w, err := s.workdayOf(date)
	if err != nil {
		return PeriodReport{}, err
	}
	return s.periodReport(ctx, w)
}

// MonthlyReport reports the workday-aligned calendar month.
func (s *ReportService) MonthlyReport(ctx context.Context, month, year int) (report PeriodReport, err error) {
	defer observe("monthly", time.Now(), &err)
	w, err := reporting.MonthWindow(year, month, s.loc, s.startHour)
	if err != nil {
		return PeriodReport{}, err
	}
	return s.periodReport(ctx, w)
}

// AnnualReport reports the workday-aligned calendar year.
func (s *ReportService) AnnualReport(ctx context.Context, year int) (report PeriodReport, err error) {
	defer observe("annual", time.Now(), &err)
	w, err := reporting.YearWindow(year, s.loc, s.startHour)
	if err != nil {
		return PeriodReport{}, err
	}
	return s.periodReport(ctx, w)
}

func (s *ReportService) periodReport(ctx context.Context, w reporting.Window) (PeriodReport, error) {
	data, err := s.fetch(ctx, w, fetchPlan{rooms: true})
	if err != nil {
		return PeriodReport{}, err
	}
	t := reporting.Summarize(data.stays, data.expenses, nil)
	return PeriodReport{
		Range:       w,
		Income:      t.StayIncome(),
		HourIncome:  t.HourIncome,
		NightIncome: t.NightIncome,
		Expenses:    t.LedgerExpenses(),
		Remaining:   t.LedgerRemaining(),
		TotalStays:  t.TotalStays,
		NightStays:  t.NightStays,
		Occupation:  reporting.Occupation(t.TotalStays, data.rooms),
	}, nil
}

// DailySummary returns the cash view of a workday. A nil date selects the
// workday open on the clock.
func (s *ReportService) DailySummary(ctx context.Context, date *time.Time) (summary DailySummary, err error) {
	defer observe("summary", time.Now(), &err)
	var w reporting.Window
	if date == nil {
		w, err = s.openWorkday()
	} else {
		w, err = s.workdayOf(*date)
	}
	if err != nil {
		return DailySummary{}, err
	}
	data, err := s.fetch(ctx, w, fetchPlan{entries: true})
	if err != nil {
		return DailySummary{}, err
	}
	return summaryOf(w, reporting.Summarize(data.stays, data.expenses, data.entries)), nil
}

func summaryOf(w reporting.Window, t reporting.Totals) DailySummary {
	return DailySummary{
		Range:         w,
		HourIncome:    t.HourIncome,
		NightIncome:   t.NightIncome,
		EntriesIncome: t.EntriesIncome,
		TotalIncome:   t.TotalIncome,
		TotalExpenses: t.TotalExpenses,
		Remaining:     t.Remaining,
	}
}

// StaffSummary returns the open workday with its expense breakdown and records.
func (s *ReportService) StaffSummary(ctx context.Context) (summary StaffSummary, err error) {
	defer observe("staff_summary", time.Now(), &err)
	w, err := s.openWorkday()
	if err != nil {
		return StaffSummary{}, err
	}
	data, err := s.fetch(ctx, w, fetchPlan{entries: true})
	if err != nil {
		return StaffSummary{}, err
	}
	t := reporting.Summarize(data.stays, data.expenses, data.entries)
	return StaffSummary{
		DailySummary:    summaryOf(w, t),
		DayIncome:       t.DayIncome,
		StayExpenses:    t.StayExpenses,
		EntriesExpenses: t.EntriesExpenses,
		OtherExpenses:   t.OtherExpenses,
		Stays:           groupStays(data.stays),
		Expenses:        data.expenses,
		Entries:         data.entries,
	}, nil
}

// WeeklySummary returns the open workday and the six before it, oldest first.
func (s *ReportService) WeeklySummary(ctx context.Context) (rows []WeeklyRow, err error) {
	defer observe("weekly_summary", time.Now(), &err)
	days, err := reporting.TrailingWorkdays(s.clock.Now().In(s.loc), weekDays, s.startHour)
	if err != nil {
		return nil, err
	}
	split, err := s.split(ctx, days)
	if err != nil {
		return nil, err
	}
	rows = make([]WeeklyRow, 0, len(split))
	for _, r := range split {
		rows = append(rows, WeeklyRow{
			Day:   r.Window.Start.Format("2 Jan"),
			Range: r.Window,
			In:    r.Income,
			Out:   r.Expenses,
		})
	}
	return rows, nil
}

func (s *ReportService) split(ctx context.Context, windows []reporting.Window) ([]reporting.PeriodRow, error) {
	data, err := s.fetch(ctx, reporting.Span(windows), fetchPlan{})
	if err != nil {
		return nil, err
	}
	return reporting.SplitWindows(data.stays, data.expenses, windows), nil
}

// HourlyGraph buckets the workday beginning on date by hour of day.
func (s *ReportService) HourlyGraph(ctx context.Context, date time.Time) (graph HourlyGraph, err error) {
	defer observe("graph_hourly", time.Now(), &err)
	w, err := s.workdayOf(date)
	if err != nil {
		return HourlyGraph{}, err
	}
	data, err := s.fetch(ctx, w, fetchPlan{})
	if err != nil {
		return HourlyGraph{}, err
	}
	return HourlyGraph{Range: w, Data: reporting.HourBuckets(data.stays, data.expenses, s.loc)}, nil
}

// MonthlyGraph buckets a calendar year by month.
func (s *ReportService) MonthlyGraph(ctx context.Context, year int) (rows []reporting.MonthBucket, err error) {
	defer observe("graph_monthly", time.Now(), &err)
	w, err := reporting.CalendarYear(year, s.loc)
	if err != nil {
		return nil, err
	}
	data, err := s.fetch(ctx, w, fetchPlan{})
	if err != nil {
		return nil, err
	}
	return reporting.MonthBuckets(data.stays, data.expenses, s.loc), nil
}

// AnnualGraph buckets the whole ledger by year.
func (s *ReportService) AnnualGraph(ctx context.Context) (rows []reporting.YearBucket, err error) {
	defer observe("graph_annual", time.Now(), &err)
	data, err := s.fetch(ctx, reporting.Window{}, fetchPlan{})
	if err != nil {
		return nil, err
	}
	return reporting.YearBuckets(data.stays, data.expenses, s.loc), nil
}

// DailySheet prepares the daily statement.
func (s *ReportService) DailySheet(ctx context.Context, date time.Time) (sheet PeriodSheet, err error) {
	defer observe("sheet_daily", time.Now(), &err)
	w, err := s.workdayOf(date)
	if err != nil {
		return PeriodSheet{}, err
	}
	data, err := s.fetch(ctx, w, fetchPlan{})
	if err != nil {
		return PeriodSheet{}, err
	}
	return PeriodSheet{
		Title: "Daily statement " + w.Start.Format("2006-01-02"),
		Range: w,
		Total: reporting.RowFromTotals(w, reporting.Summarize(data.stays, data.expenses, nil)),
	}, nil
}

// WeeklySheet prepares the statement of the trailing seven workdays.
func (s *ReportService) WeeklySheet(ctx context.Context) (sheet PeriodSheet, err error) {
	defer observe("sheet_weekly", time.Now(), &err)
	days, err := reporting.TrailingWorkdays(s.clock.Now().In(s.loc), weekDays, s.startHour)
	if err != nil {
		return PeriodSheet{}, err
	}
	return s.sheet(ctx, "Weekly statement", days, func(w reporting.Window) string {
		return w.Start.Format("02/01/2006")
	})
}

// MonthlySheet prepares the statement of a month, one row per workday.
func (s *ReportService) MonthlySheet(ctx context.Context, month, year int) (sheet PeriodSheet, err error) {
	defer observe("sheet_monthly", time.Now(), &err)
	days, err := reporting.MonthWorkdays(year, month, s.loc, s.startHour)
	if err != nil {
		return PeriodSheet{}, err
	}
	title := fmt.Sprintf("Monthly statement %d/%d", month, year)
	return s.sheet(ctx, title, days, func(w reporting.Window) string {
		return fmt.Sprintf("%d/%d", w.Start.Day(), int(w.Start.Month()))
	})
}

// AnnualSheet prepares the statement of a year, one row per month.
func (s *ReportService) AnnualSheet(ctx context.Context, year int) (sheet PeriodSheet, err error) {
	defer observe("sheet_annual", time.Now(), &err)
	months, err := reporting.YearMonths(year, s.loc, s.startHour)
	if err != nil {
		return PeriodSheet{}, err
	}
	title := fmt.Sprintf("Annual statement %d", year)
	return s.sheet(ctx, title, months, func(w reporting.Window) string {
		return w.Start.Month().String()
	})
}

func (s *ReportService) sheet(ctx context.Context, title string, windows []reporting.Window, label func(reporting.Window) string) (PeriodSheet, error) {
	split, err := s.split(ctx, windows)
	if err != nil {
		return PeriodSheet{}, err
	}
	rows := make([]SheetRow, 0, len(split))
	for _, r := range split {
		rows = append(rows, SheetRow{Label: label(r.Window), PeriodRow: r})
	}
	return PeriodSheet{
		Title: title,
		Range: reporting.Span(windows),
		Rows:  rows,
		Total: reporting.SumRows(split),
	}, nil
}

// Ledger row kinds.
const (
	KindHourStay   = "hour stay"
	KindNightStay  = "night stay"
	KindExpense    = "expense"
	KindDayEntry   = "day entry"
	KindNightEntry = "night entry"
)

// LedgerRows lists every record of the workday beginning on date, in time order.
func (s *ReportService) LedgerRows(ctx context.Context, date time.Time) (sheet LedgerSheet, err error) {
	defer observe("ledger_rows", time.Now(), &err)
	w, err := s.workdayOf(date)
	if err != nil {
		return LedgerSheet{}, err
	}
	data, err := s.fetch(ctx, w, fetchPlan{entries: true})
	if err != nil {
		return LedgerSheet{}, err
	}

	rows := make([]LedgerRow, 0, len(data.stays)+len(data.expenses)+len(data.entries))
	for _, stay := range data.stays {
		kind := KindHourStay
		if stay.Phase == reporting.PhaseNight {
			kind = KindNightStay
		}
		room := stay.RoomNumber
		if room == "" {
			room = "N/A"
		}
		rows = append(rows, LedgerRow{
			Time:        stay.StartTime,
			Kind:        kind,
			Description: "Room " + room,
			Income:      stay.Amount,
			Expenses:    stay.ExpenseTotal(),
		})
	}
	for _, expense := range data.expenses {
		rows = append(rows, LedgerRow{
			Time:        expense.Date,
			Kind:        KindExpense,
			Description: expense.Description,
			Income:      decimal.Zero,
			Expenses:    expense.Amount,
		})
	}
	for _, entry := range data.entries {
		kind := KindDayEntry
		if entry.Phase == reporting.PhaseNight {
			kind = KindNightEntry
		}
		rows = append(rows, LedgerRow{
			Time:        entry.Date,
			Kind:        kind,
			Description: entry.Notes,
			Income:      entry.TotalIncome,
			Expenses:    entry.TotalExpenses,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Time.Before(rows[j].Time) })

	return LedgerSheet{
		Range:   w,
		Rows:    rows,
		Summary: summaryOf(w, reporting.Summarize(data.stays, data.expenses, data.entries)),
	}, nil
}

// Receipt loads a stay and the tariff it is printed with.
func (s *ReportService) Receipt(ctx context.Context, stayID string) (receipt ReceiptData, err error) {
	defer observe("receipt", time.Now(), &err)
	if stayID == "" {
		return ReceiptData{}, reporting.ErrStayNotFound
	}
	var (
		stay   *reporting.Stay
		tariff reporting.Tariff
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stay, err = s.ledger.GetStay(gctx, stayID)
		return err
	})
	g.Go(func() error {
		var err error
		tariff, err = s.ledger.GetTariff(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return ReceiptData{}, err
	}
	if stay == nil {
		return ReceiptData{}, reporting.ErrStayNotFound
	}
	return ReceiptData{
		Stay:   *stay,
		Tariff: tariff,
		Tax:    tariff.TaxIncluded(stay.Amount),
	}, nil
}

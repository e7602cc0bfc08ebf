package reporting

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// HourBucket is one hour-of-day row of the hourly graph.
type HourBucket struct {
	Hour       int
	Income     decimal.Decimal
	TotalStays int
	Expenses   decimal.Decimal
	Remaining  decimal.Decimal
}

// MonthBucket is one month-of-year row of the monthly graph.
type MonthBucket struct {
	Month     int
	Income    decimal.Decimal
	Expenses  decimal.Decimal
	Remaining decimal.Decimal
}

// YearBucket is one year row of the annual graph.
type YearBucket struct {
	Year       int
	Income     decimal.Decimal
	Expenses   decimal.Decimal
	Remaining  decimal.Decimal
	TotalStays int
}

// PeriodRow aggregates one sub-period of a weekly, monthly or annual sheet.
type PeriodRow struct {
	Window     Window
	Income     decimal.Decimal
	Expenses   decimal.Decimal
	Remaining  decimal.Decimal
	TotalStays int
	NightStays int
}

type bucketSum struct {
	income   decimal.Decimal
	expenses decimal.Decimal
	stays    int
}

// groupBy sums stay income and free-standing expenses independently under key,
// then merges the two sides. A key present on one side only still gets a zero
// for the other.
func groupBy(stays []Stay, expenses []Expense, key func(time.Time) int) map[int]*bucketSum {
	sums := make(map[int]*bucketSum)
	get := func(k int) *bucketSum {
		b, ok := sums[k]
		if !ok {
			b = &bucketSum{income: decimal.Zero, expenses: decimal.Zero}
			sums[k] = b
		}
		return b
	}
	for _, s := range stays {
		b := get(key(s.StartTime))
		b.income = b.income.Add(s.Amount)
		b.stays++
	}
	for _, e := range expenses {
		b := get(key(e.Date))
		b.expenses = b.expenses.Add(e.Amount)
	}
	return sums
}

func lookup(sums map[int]*bucketSum, k int) bucketSum {
	if b, ok := sums[k]; ok {
		return *b
	}
	return bucketSum{income: decimal.Zero, expenses: decimal.Zero}
}

// HourBuckets groups by local hour of day and always returns 24 rows.
func HourBuckets(stays []Stay, expenses []Expense, loc *time.Location) []HourBucket {
	loc = orUTC(loc)
	sums := groupBy(stays, expenses, func(t time.Time) int { return t.In(loc).Hour() })
	rows := make([]HourBucket, 24)
	for h := 0; h < 24; h++ {
		b := lookup(sums, h)
		rows[h] = HourBucket{
			Hour:       h,
			Income:     b.income,
			TotalStays: b.stays,
			Expenses:   b.expenses,
			Remaining:  b.income.Sub(b.expenses),
		}
	}
	return rows
}

// MonthBuckets groups by local month and always returns 12 rows.
func MonthBuckets(stays []Stay, expenses []Expense, loc *time.Location) []MonthBucket {
	loc = orUTC(loc)
	sums := groupBy(stays, expenses, func(t time.Time) int { return int(t.In(loc).Month()) })
	rows := make([]MonthBucket, 12)
	for m := 1; m <= 12; m++ {
		b := lookup(sums, m)
		rows[m-1] = MonthBucket{
			Month:     m,
			Income:    b.income,
			Expenses:  b.expenses,
			Remaining: b.income.Sub(b.expenses),
		}
	}
	return rows
}

// YearBuckets groups by local year; only years present in the data are returned.
func YearBuckets(stays []Stay, expenses []Expense, loc *time.Location) []YearBucket {
	loc = orUTC(loc)
	sums := groupBy(stays, expenses, func(t time.Time) int { return t.In(loc).Year() })
	years := make([]int, 0, len(sums))
	for y := range sums {
		years = append(years, y)
	}
	sort.Ints(years)
	rows := make([]YearBucket, 0, len(years))
	for _, y := range years {
		b := sums[y]
		rows = append(rows, YearBucket{
			Year:       y,
			Income:     b.income,
			Expenses:   b.expenses,
			Remaining:  b.income.Sub(b.expenses),
			TotalStays: b.stays,
		})
	}
	return rows
}

// SplitWindows aggregates stays and expenses into one row per window.
// Records outside every window are ignored.
func SplitWindows(stays []Stay, expenses []Expense, windows []Window) []PeriodRow {
	rows := make([]PeriodRow, len(windows))
	for i, w := range windows {
		var inStays []Stay
		for _, s := range stays {
			if w.Contains(s.StartTime) {
				inStays = append(inStays, s)
			}
		}
		var inExpenses []Expense
		for _, e := range expenses {
			if w.Contains(e.Date) {
				inExpenses = append(inExpenses, e)
			}
		}
		rows[i] = RowFromTotals(w, Summarize(inStays, inExpenses, nil))
	}
	return rows
}

// RowFromTotals projects totals onto the stay ledger view of a period row.
func RowFromTotals(w Window, t Totals) PeriodRow {
	return PeriodRow{
		Window:     w,
		Income:     t.StayIncome(),
		Expenses:   t.LedgerExpenses(),
		Remaining:  t.LedgerRemaining(),
		TotalStays: t.TotalStays,
		NightStays: t.NightStays,
	}
}

// SumRows adds up period rows into a single total row spanning all of them.
func SumRows(rows []PeriodRow) PeriodRow {
	total := PeriodRow{Income: decimal.Zero, Expenses: decimal.Zero, Remaining: decimal.Zero}
	windows := make([]Window, 0, len(rows))
	for _, r := range rows {
		total.Income = total.Income.Add(r.Income)
		total.Expenses = total.Expenses.Add(r.Expenses)
		total.Remaining = total.Remaining.Add(r.Remaining)
		total.TotalStays += r.TotalStays
		total.NightStays += r.NightStays
		windows = append(windows, r.Window)
	}
	total.Window = Span(windows)
	return total
}

func orUTC(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}

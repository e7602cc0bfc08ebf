package reporting

import (
	"fmt"
	"time"
)

// DefaultWorkdayStartHour is the hour at which an accounting day begins.
const DefaultWorkdayStartHour = 8

// Window is a reporting period. End is inclusive and sits one millisecond
// before the next period boundary. The zero Window is unbounded.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// IsZero reports whether the window is unbounded.
func (w Window) IsZero() bool { return w.Start.IsZero() && w.End.IsZero() }

// Contains reports whether t falls inside the window, both ends included.
func (w Window) Contains(t time.Time) bool {
	if w.IsZero() {
		return true
	}
	return !t.Before(w.Start) && !t.After(w.End)
}

// String renders the window for logs.
func (w Window) String() string {
	if w.IsZero() {
		return "[unbounded]"
	}
	return fmt.Sprintf("[%s, %s]", w.Start.Format(time.RFC3339), w.End.Format(time.RFC3339Nano))
}

func boundaryWindow(start, next time.Time) Window {
	return Window{Start: start, End: next.Add(-time.Millisecond)}
}

// WorkdayOf returns the accounting day beginning on the calendar date of day.
func WorkdayOf(day time.Time, startHour int) (Window, error) {
	if day.IsZero() {
		return Window{}, ErrInvalidPeriod
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), startHour, 0, 0, 0, day.Location())
	return boundaryWindow(start, start.AddDate(0, 0, 1)), nil
}

// WorkdayRange returns the accounting day for ref. When the current wall-clock
// hour is before startHour, the window moves back one calendar day: the
// previous workday is still open.
func WorkdayRange(ref, now time.Time, startHour int) (Window, error) {
	w, err := WorkdayOf(ref, startHour)
	if err != nil {
		return Window{}, err
	}
	if now.In(ref.Location()).Hour() < startHour {
		start := w.Start.AddDate(0, 0, -1)
		return boundaryWindow(start, start.AddDate(0, 0, 1)), nil
	}
	return w, nil
}

// OpenWorkday returns the workday that is open at now.
func OpenWorkday(now time.Time, startHour int) (Window, error) {
	return WorkdayRange(now, now, startHour)
}

// TrailingWorkdays returns the open workday and the n-1 before it, oldest first.
func TrailingWorkdays(now time.Time, n int, startHour int) ([]Window, error) {
	if n <= 0 {
		return nil, ErrInvalidPeriod
	}
	current, err := OpenWorkday(now, startHour)
	if err != nil {
		return nil, err
	}
	windows := make([]Window, 0, n)
	for i := n - 1; i >= 0; i-- {
		start := current.Start.AddDate(0, 0, -i)
		windows = append(windows, boundaryWindow(start, start.AddDate(0, 0, 1)))
	}
	return windows, nil
}

// MonthWindow spans a calendar month shifted to workday boundaries.
func MonthWindow(year int, month int, loc *time.Location, startHour int) (Window, error) {
	if year <= 0 || month < 1 || month > 12 {
		return Window{}, ErrInvalidPeriod
	}
	if loc == nil {
		loc = time.UTC
	}
	start := time.Date(year, time.Month(month), 1, startHour, 0, 0, 0, loc)
	return boundaryWindow(start, start.AddDate(0, 1, 0)), nil
}

// YearWindow spans a calendar year shifted to workday boundaries.
func YearWindow(year int, loc *time.Location, startHour int) (Window, error) {
	if year <= 0 {
		return Window{}, ErrInvalidPeriod
	}
	if loc == nil {
		loc = time.UTC
	}
	start := time.Date(year, time.January, 1, startHour, 0, 0, 0, loc)
	return boundaryWindow(start, start.AddDate(1, 0, 0)), nil
}

// CalendarYear spans Jan 1 00:00 to Dec 31 23:59:59.999.
func CalendarYear(year int, loc *time.Location) (Window, error) {
	return YearWindow(year, loc, 0)
}

// MonthWorkdays splits a month window into its workdays.
func MonthWorkdays(year int, month int, loc *time.Location, startHour int) ([]Window, error) {
	mw, err := MonthWindow(year, month, loc, startHour)
	if err != nil {
		return nil, err
	}
	var days []Window
	for start := mw.Start; start.Before(mw.End); start = start.AddDate(0, 0, 1) {
		days = append(days, boundaryWindow(start, start.AddDate(0, 0, 1)))
	}
	return days, nil
}

// YearMonths splits a year window into its twelve month windows.
func YearMonths(year int, loc *time.Location, startHour int) ([]Window, error) {
	months := make([]Window, 0, 12)
	for m := 1; m <= 12; m++ {
		w, err := MonthWindow(year, m, loc, startHour)
		if err != nil {
			return nil, err
		}
		months = append(months, w)
	}
	return months, nil
}

// Span returns the window covering the first start to the last end.
func Span(windows []Window) Window {
	if len(windows) == 0 {
		return Window{}
	}
	return Window{Start: windows[0].Start, End: windows[len(windows)-1].End}
}

package interfaces

import (
	"time"

	"hotel-ledger/internal/reporting/application"
	reporting "hotel-ledger/internal/reporting/domain"
)

type reportDTO struct {
	Range       reporting.Window `json:"range"`
	Income      float64          `json:"income"`
	HourIncome  float64          `json:"hourIncome"`
	NightIncome float64          `json:"nightIncome"`
	Expenses    float64          `json:"expenses"`
	Remaining   float64          `json:"remaining"`
	TotalStays  int              `json:"totalStays"`
	NightStays  int              `json:"nightStays"`
	Occupation  float64          `json:"occupation"`
}

func toReportDTO(r application.PeriodReport) reportDTO {
	return reportDTO{
		Range:       r.Range,
		Income:      r.Income.InexactFloat64(),
		HourIncome:  r.HourIncome.InexactFloat64(),
		NightIncome: r.NightIncome.InexactFloat64(),
		Expenses:    r.Expenses.InexactFloat64(),
		Remaining:   r.Remaining.InexactFloat64(),
		TotalStays:  r.TotalStays,
		NightStays:  r.NightStays,
		Occupation:  r.Occupation,
	}
}

type summaryDTO struct {
	Range         reporting.Window `json:"range"`
	HourIncome    float64          `json:"hourIncome"`
	NightIncome   float64          `json:"nightIncome"`
	EntriesIncome float64          `json:"entriesIncome"`
	TotalIncome   float64          `json:"totalIncome"`
	TotalExpenses float64          `json:"totalExpenses"`
	Remaining     float64          `json:"remaining"`
}

func toSummaryDTO(s application.DailySummary) summaryDTO {
	return summaryDTO{
		Range:         s.Range,
		HourIncome:    s.HourIncome.InexactFloat64(),
		NightIncome:   s.NightIncome.InexactFloat64(),
		EntriesIncome: s.EntriesIncome.InexactFloat64(),
		TotalIncome:   s.TotalIncome.InexactFloat64(),
		TotalExpenses: s.TotalExpenses.InexactFloat64(),
		Remaining:     s.Remaining.InexactFloat64(),
	}
}

type expenseBreakdownDTO struct {
	Stays   float64 `json:"stays"`
	Entries float64 `json:"entries"`
	Other   float64 `json:"other"`
}

type stayDTO struct {
	ID            string     `json:"id"`
	RoomID        string     `json:"roomId"`
	RoomNumber    string     `json:"roomNumber,omitempty"`
	StartTime     time.Time  `json:"startTime"`
	EndTime       *time.Time `json:"endTime,omitempty"`
	Hours         int        `json:"hours"`
	Phase         string     `json:"phase"`
	Amount        float64    `json:"amount"`
	PaymentMethod string     `json:"paymentMethod"`
	Expenses      float64    `json:"expenses"`
}

type expenseDTO struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Date        time.Time `json:"date"`
}

type entryDTO struct {
	ID            string    `json:"id"`
	Date          time.Time `json:"date"`
	Phase         string    `json:"phase"`
	TotalIncome   float64   `json:"totalIncome"`
	TotalExpenses float64   `json:"totalExpenses"`
	StayIDs       []string  `json:"stayIds,omitempty"`
	Notes         string    `json:"notes,omitempty"`
}

type stayGroupsDTO struct {
	Hours  []stayDTO `json:"hours"`
	Nights []stayDTO `json:"nights"`
}

func toStayDTOs(stays []reporting.Stay) []stayDTO {
	out := make([]stayDTO, 0, len(stays))
	for _, stay := range stays {
		out = append(out, stayDTO{
			ID:            stay.ID,
			RoomID:        stay.RoomID,
			RoomNumber:    stay.RoomNumber,
			StartTime:     stay.StartTime,
			EndTime:       stay.EndTime,
			Hours:         stay.Hours,
			Phase:         string(stay.Phase),
			Amount:        stay.Amount.InexactFloat64(),
			PaymentMethod: string(stay.PaymentMethod),
			Expenses:      stay.ExpenseTotal().InexactFloat64(),
		})
	}
	return out
}

type staffSummaryDTO struct {
	summaryDTO
	DayIncome float64             `json:"dayIncome"`
	Breakdown expenseBreakdownDTO `json:"expenseBreakdown"`
	Stays     stayGroupsDTO       `json:"stays"`
	Expenses  []expenseDTO        `json:"expenses"`
	Entries   []entryDTO          `json:"entries"`
}

func toStaffSummaryDTO(s application.StaffSummary) staffSummaryDTO {
	resp := staffSummaryDTO{
		summaryDTO: toSummaryDTO(s.DailySummary),
		DayIncome:  s.DayIncome.InexactFloat64(),
		Breakdown: expenseBreakdownDTO{
			Stays:   s.StayExpenses.InexactFloat64(),
			Entries: s.EntriesExpenses.InexactFloat64(),
			Other:   s.OtherExpenses.InexactFloat64(),
		},
		Stays: stayGroupsDTO{
			Hours:  toStayDTOs(s.Stays.Hours),
			Nights: toStayDTOs(s.Stays.Nights),
		},
		Expenses: make([]expenseDTO, 0, len(s.Expenses)),
		Entries:  make([]entryDTO, 0, len(s.Entries)),
	}
	for _, e := range s.Expenses {
		resp.Expenses = append(resp.Expenses, expenseDTO{
			ID:          e.ID,
			Description: e.Description,
			Amount:      e.Amount.InexactFloat64(),
			Date:        e.Date,
		})
	}
	for _, e := range s.Entries {
		resp.Entries = append(resp.Entries, entryDTO{
			ID:            e.ID,
			Date:          e.Date,
			Phase:         string(e.Phase),
			TotalIncome:   e.TotalIncome.InexactFloat64(),
			TotalExpenses: e.TotalExpenses.InexactFloat64(),
			StayIDs:       e.StayIDs,
			Notes:         e.Notes,
		})
	}
	return resp
}

type weeklyRowDTO struct {
	Day string  `json:"day"`
	In  float64 `json:"in"`
	Out float64 `json:"out"`
}

type hourBucketDTO struct {
	Hour       int     `json:"hour"`
	Income     float64 `json:"income"`
	TotalStays int     `json:"totalStays"`
	Expenses   float64 `json:"expenses"`
	Remaining  float64 `json:"remaining"`
}

type hourlyGraphDTO struct {
	Range reporting.Window `json:"range"`
	Data  []hourBucketDTO  `json:"data"`
}

type monthBucketDTO struct {
	Month     int     `json:"month"`
	Income    float64 `json:"income"`
	Expenses  float64 `json:"expenses"`
	Remaining float64 `json:"remaining"`
}

type yearBucketDTO struct {
	Year       int     `json:"year"`
	Income     float64 `json:"income"`
	Expenses   float64 `json:"expenses"`
	Remaining  float64 `json:"remaining"`
	TotalStays int     `json:"totalStays"`
}

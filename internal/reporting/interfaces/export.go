package interfaces

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"hotel-ledger/internal/reporting/application"
)

// ExportOptions carries the presentation settings of a document.
type ExportOptions struct {
	PropertyName   string
	CurrencySuffix string
	Location       *time.Location
}

func (o ExportOptions) money(amount decimal.Decimal) string {
	return FormatMoney(amount, o.CurrencySuffix)
}

func (o ExportOptions) localTime(t time.Time) time.Time {
	if o.Location == nil {
		return t
	}
	return t.In(o.Location)
}

const pdfBottomMargin = 20.0

func newPDF() (*gofpdf.Fpdf, func(string) string) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, pdfBottomMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	return pdf, tr
}

func outputPDF(pdf *gofpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeHeader(pdf *gofpdf.Fpdf, tr func(string) string, sheet application.PeriodSheet, opts ExportOptions) {
	pdf.SetFont("Arial", "B", 12)
	if opts.PropertyName != "" {
		pdf.Cell(0, 8, tr(opts.PropertyName))
		pdf.Ln(8)
	}
	pdf.Cell(0, 8, tr(sheet.Title))
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 9)
	pdf.Cell(0, 6, fmt.Sprintf("Period: %s - %s",
		opts.localTime(sheet.Range.Start).Format("2006-01-02 15:04"),
		opts.localTime(sheet.Range.End).Format("2006-01-02 15:04:05.000")))
	pdf.Ln(8)
}

// BuildDailyPDF renders the daily statement.
func BuildDailyPDF(sheet application.PeriodSheet, opts ExportOptions) ([]byte, error) {
	pdf, tr := newPDF()
	writeHeader(pdf, tr, sheet, opts)

	pdf.SetFont("Arial", "", 10)
	lines := []string{
		"Total income: " + opts.money(sheet.Total.Income),
		"Expenses: " + opts.money(sheet.Total.Expenses),
		"Remaining: " + opts.money(sheet.Total.Remaining),
		fmt.Sprintf("Total stays: %d", sheet.Total.TotalStays),
		fmt.Sprintf("Nights: %d", sheet.Total.NightStays),
	}
	for _, line := range lines {
		pdf.Cell(0, 6, tr(line))
		pdf.Ln(6)
	}
	return outputPDF(pdf)
}

// BuildPeriodPDF renders a weekly, monthly or annual statement: one line per
// sub-period and a trailing TOTAL line.
func BuildPeriodPDF(sheet application.PeriodSheet, opts ExportOptions) ([]byte, error) {
	pdf, tr := newPDF()
	writeHeader(pdf, tr, sheet, opts)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(35, 6, "Period", "1", 0, "C", false, 0, "")
	pdf.CellFormat(45, 6, "Income", "1", 0, "C", false, 0, "")
	pdf.CellFormat(45, 6, "Expenses", "1", 0, "C", false, 0, "")
	pdf.CellFormat(45, 6, "Remaining", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 6, "Stays", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range sheet.Rows {
		pdf.CellFormat(35, 6, tr(row.Label), "1", 0, "L", false, 0, "")
		pdf.CellFormat(45, 6, opts.money(row.Income), "1", 0, "R", false, 0, "")
		pdf.CellFormat(45, 6, opts.money(row.Expenses), "1", 0, "R", false, 0, "")
		pdf.CellFormat(45, 6, opts.money(row.Remaining), "1", 0, "R", false, 0, "")
		pdf.CellFormat(20, 6, fmt.Sprintf("%d", row.TotalStays), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(35, 7, "TOTAL", "1", 0, "L", false, 0, "")
	pdf.CellFormat(45, 7, opts.money(sheet.Total.Income), "1", 0, "R", false, 0, "")
	pdf.CellFormat(45, 7, opts.money(sheet.Total.Expenses), "1", 0, "R", false, 0, "")
	pdf.CellFormat(45, 7, opts.money(sheet.Total.Remaining), "1", 0, "R", false, 0, "")
	pdf.CellFormat(20, 7, fmt.Sprintf("%d", sheet.Total.TotalStays), "1", 0, "R", false, 0, "")
	pdf.Ln(-1)

	return outputPDF(pdf)
}

// Spreadsheet sheet names.
const (
	LedgerSheetName  = "ledger"
	SummarySheetName = "summary"
)

// BuildLedgerXLSX renders the workday records and their cash summary.
func BuildLedgerXLSX(sheet application.LedgerSheet, opts ExportOptions) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	if err := f.SetSheetName("Sheet1", LedgerSheetName); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(SummarySheetName); err != nil {
		return nil, err
	}

	headers := []string{"Date", "Type", "Description", "Income", "Expenses"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(LedgerSheetName, cell, h)
	}
	for i, row := range sheet.Rows {
		r := i + 2
		_ = f.SetCellValue(LedgerSheetName, fmt.Sprintf("A%d", r), opts.localTime(row.Time).Format("2006-01-02 15:04"))
		_ = f.SetCellValue(LedgerSheetName, fmt.Sprintf("B%d", r), row.Kind)
		_ = f.SetCellValue(LedgerSheetName, fmt.Sprintf("C%d", r), row.Description)
		_ = f.SetCellValue(LedgerSheetName, fmt.Sprintf("D%d", r), row.Income.InexactFloat64())
		_ = f.SetCellValue(LedgerSheetName, fmt.Sprintf("E%d", r), row.Expenses.InexactFloat64())
	}

	summary := sheet.Summary
	_ = f.SetCellValue(SummarySheetName, "A1", "Workday statement")
	_ = f.SetCellValue(SummarySheetName, "B1", opts.PropertyName)
	pairs := []struct {
		label string
		value any
	}{
		{"Start", opts.localTime(summary.Range.Start).Format("2006-01-02 15:04")},
		{"End", opts.localTime(summary.Range.End).Format("2006-01-02 15:04:05")},
		{"Hour income", summary.HourIncome.InexactFloat64()},
		{"Night income", summary.NightIncome.InexactFloat64()},
		{"Entries income", summary.EntriesIncome.InexactFloat64()},
		{"Total income", summary.TotalIncome.InexactFloat64()},
		{"Total expenses", summary.TotalExpenses.InexactFloat64()},
		{"Remaining", summary.Remaining.InexactFloat64()},
		{"Currency", opts.CurrencySuffix},
	}
	for i, p := range pairs {
		r := i + 3
		_ = f.SetCellValue(SummarySheetName, fmt.Sprintf("A%d", r), p.label)
		_ = f.SetCellValue(SummarySheetName, fmt.Sprintf("B%d", r), p.value)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

package interfaces

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"hotel-ledger/internal/reporting/application"
	reporting "hotel-ledger/internal/reporting/domain"
)

const (
	receiptPrefix  = "RC"
	receiptCodeLen = 16
)

// NewReceiptNumber returns a time-ordered receipt code such as RC01HQ3K8J3M7ZP2WX.
func NewReceiptNumber(at time.Time) string {
	id := ulid.MustNew(ulid.Timestamp(at.UTC()), ulid.Monotonic(rand.Reader, 0))
	return receiptPrefix + id.String()[:receiptCodeLen]
}

// BuildReceiptPDF renders a single stay receipt.
func BuildReceiptPDF(receipt application.ReceiptData, number string, opts ExportOptions) ([]byte, error) {
	pdf, tr := newPDF()
	stay := receipt.Stay

	pdf.SetFont("Arial", "B", 12)
	if opts.PropertyName != "" {
		pdf.Cell(0, 8, tr(opts.PropertyName))
		pdf.Ln(8)
	}
	pdf.Cell(0, 8, "Stay receipt")
	pdf.Ln(10)

	room := stay.RoomNumber
	if room == "" {
		room = "N/A"
	}
	end := "in progress"
	if stay.EndTime != nil {
		end = opts.localTime(*stay.EndTime).Format("2006-01-02 15:04")
	}

	pdf.SetFont("Arial", "", 10)
	lines := []string{
		"Receipt: " + number,
		"Room: " + room,
		"Amount: " + opts.money(stay.Amount),
	}
	if receipt.Tariff.TaxPercent.IsPositive() {
		lines = append(lines, fmt.Sprintf("Tax included (%s%%): %s", receipt.Tariff.TaxPercent.String(), opts.money(receipt.Tax)))
	}
	lines = append(lines,
		"Phase: "+phaseLabel(stay.Phase),
		"Payment: "+string(stay.PaymentMethod),
		"Start: "+opts.localTime(stay.StartTime).Format("2006-01-02 15:04"),
		"End: "+end,
	)
	if stay.Hours > 0 {
		lines = append(lines, fmt.Sprintf("Hours: %d", stay.Hours))
	}
	for _, line := range lines {
		pdf.Cell(0, 6, tr(line))
		pdf.Ln(6)
	}
	return outputPDF(pdf)
}

func phaseLabel(p reporting.Phase) string {
	switch p {
	case reporting.PhaseNight:
		return "night"
	case reporting.PhaseHour:
		return "hourly"
	default:
		return string(p)
	}
}

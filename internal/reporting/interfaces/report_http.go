package interfaces

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"hotel-ledger/internal/audit"
	"hotel-ledger/internal/observability/metrics"
	"hotel-ledger/internal/reporting/application"
	reporting "hotel-ledger/internal/reporting/domain"
)

const (
	reportsPrefix  = "/api/v1/reports/"
	exportsPrefix  = "export/"
	receiptsPrefix = "receipts/"

	contentTypePDF  = "application/pdf"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var errBadRequest = errors.New("bad request")

// ReportHandler serves the report APIs under /api/v1/reports/.
type ReportHandler struct {
	service     *application.ReportService
	auditLogger audit.Logger
	logger      *zap.Logger
	opts        ExportOptions
}

// NewReportHandler constructs a handler.
func NewReportHandler(service *application.ReportService, auditLogger audit.Logger, logger *zap.Logger, opts ExportOptions) (*ReportHandler, error) {
	if service == nil {
		return nil, errors.New("report handler: nil service")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Location == nil {
		opts.Location = service.Location()
	}
	if opts.CurrencySuffix == "" {
		opts.CurrencySuffix = DefaultCurrencySuffix
	}
	return &ReportHandler{service: service, auditLogger: auditLogger, logger: logger, opts: opts}, nil
}

// ServeHTTP routes report requests.
func (h *ReportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, reportsPrefix)
	switch rest {
	case "daily":
		h.handleDaily(w, r)
	case "monthly":
		h.handleMonthly(w, r)
	case "annual":
		h.handleAnnual(w, r)
	case "summary":
		h.handleSummary(w, r)
	case "summary/staff":
		h.handleStaffSummary(w, r)
	case "weekly-summary":
		h.handleWeeklySummary(w, r)
	case "graph/hourly":
		h.handleHourlyGraph(w, r)
	case "graph/monthly":
		h.handleMonthlyGraph(w, r)
	case "graph/annual":
		h.handleAnnualGraph(w, r)
	case exportsPrefix + "daily.pdf":
		h.handleExportDaily(w, r)
	case exportsPrefix + "weekly.pdf":
		h.handleExportWeekly(w, r)
	case exportsPrefix + "monthly.pdf":
		h.handleExportMonthly(w, r)
	case exportsPrefix + "annual.pdf":
		h.handleExportAnnual(w, r)
	case exportsPrefix + "ledger.xlsx":
		h.handleExportLedger(w, r)
	default:
		if strings.HasPrefix(rest, receiptsPrefix) && strings.HasSuffix(rest, ".pdf") {
			id := strings.TrimSuffix(strings.TrimPrefix(rest, receiptsPrefix), ".pdf")
			if id != "" && !strings.Contains(id, "/") {
				h.handleReceipt(w, r, id)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *ReportHandler) handleDaily(w http.ResponseWriter, r *http.Request) {
	date, err := h.requiredDate(r)
	if err != nil {
		respondBadRequest(w, err)
		return
	}
	report, err := h.service.DailyReport(r.Context(), date)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	writeJSON(w, toReportDTO(report))
}

func (h *ReportHandler) handleMonthly(w http.ResponseWriter, r *http.Request) {
	month, err := intParam(r, "month")
	if err != nil {
		respondBadRequest(w, err)
		return
	}
	year, err := intParam(r, "year")
	if err != nil {
		respondBadRequest(w, err)
		return
	}
	report, err := h.service.MonthlyReport(r.Context(), month, year)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	writeJSON(w, toReportDTO(report))
}

func (h *ReportHandler) handleAnnual(w http.ResponseWriter, r *http.Request) {
	year, err := intParam(r, "year")
	if err != nil {
		respondBadRequest(w, err)
		return
	}
	report, err := h.service.AnnualReport(r.Context(), year)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	writeJSON(w, toReportDTO(report))
}

func (h *ReportHandler) handleSummary(w http.ResponseWriter, r *http.Request) {
	var date *time.Time
	if r.URL.Query().Get("date") != "" {
		parsed, err := h.requiredDate(r)
		if err != nil {
			respondBadRequest(w, err)
			return
		}
		date = &parsed
	}
	summary, err := h.service.DailySummary(r.Context(), date)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	writeJSON(w, toSummaryDTO(summary))
}

func (h *ReportHandler) handleStaffSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.StaffSummary(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	writeJSON(w, toStaffSummaryDTO(summary))
}

func (h *ReportHandler) handleWeeklySummary(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.WeeklySummary(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	resp := make([]weeklyRowDTO, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, weeklyRowDTO{Day: row.Day, In: row.In.InexactFloat64(), Out: row.Out.InexactFloat64()})
	}
	writeJSON(w, resp)
}

func (h *ReportHandler) handleHourlyGraph(w http.ResponseWriter, r *http.Request) {
	date, err := h.requiredDate(r)
	if err != nil {
		respondBadRequest(w, err)
		return
	}
	graph, err := h.service.HourlyGraph(r.Context(), date)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	resp := hourlyGraphDTO{Range: graph.Range, Data: make([]hourBucketDTO, 0, len(graph.Data))}
	for _, b := range graph.Data {
		resp.Data = append(resp.Data, hourBucketDTO{
			Hour:       b.Hour,
			Income:     b.Income.InexactFloat64(),
			TotalStays: b.TotalStays,
			Expenses:   b.Expenses.InexactFloat64(),
			Remaining:  b.Remaining.InexactFloat64(),
		})
	}
	writeJSON(w, resp)
}

func (h *ReportHandler) handleMonthlyGraph(w http.ResponseWriter, r *http.Request) {
	year, err := intParam(r, "year")
	if err != nil {
		respondBadRequest(w, err)
		return
	}
	rows, err := h.service.MonthlyGraph(r.Context(), year)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	resp := make([]monthBucketDTO, 0, len(rows))
	for _, b := range rows {
		resp = append(resp, monthBucketDTO{
			Month:     b.Month,
			Income:    b.Income.InexactFloat64(),
			Expenses:  b.Expenses.InexactFloat64(),
			Remaining: b.Remaining.InexactFloat64(),
		})
	}
	writeJSON(w, resp)
}

func (h *ReportHandler) handleAnnualGraph(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.AnnualGraph(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	resp := make([]yearBucketDTO, 0, len(rows))
	for _, b := range rows {
		resp = append(resp, yearBucketDTO{
			Year:       b.Year,
			Income:     b.Income.InexactFloat64(),
			Expenses:   b.Expenses.InexactFloat64(),
			Remaining:  b.Remaining.InexactFloat64(),
			TotalStays: b.TotalStays,
		})
	}
	writeJSON(w, resp)
}

func (h *ReportHandler) handleExportDaily(w http.ResponseWriter, r *http.Request) {
	date, err := h.requiredDate(r)
	if err != nil {
		respondBadRequest(w, err)
		return
	}
	h.export(w, r, exportJob{
		format:   "pdf",
		kind:     "daily",
		filename: "statement-" + date.Format("2006-01-02") + ".pdf",
		ctype:    contentTypePDF,
		build: func() ([]byte, error) {
			sheet, err := h.service.DailySheet(r.Context(), date)
			if err != nil {
				return nil, err
			}
			return BuildDailyPDF(sheet, h.opts)
		},
	})
}

func (h *ReportHandler) handleExportWeekly(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, exportJob{
		format:   "pdf",
		kind:     "weekly",
		filename: "statement-week.pdf",
		ctype:    contentTypePDF,
		build: func() ([]byte, error) {
			sheet, err := h.service.WeeklySheet(r.Context())
			if err != nil {
				return nil, err
			}
			return BuildPeriodPDF(sheet, h.opts)
		},
	})
}

func (h *ReportHandler) handleExportMonthly(w http.ResponseWriter, r *http.Request) {
	month, err := intParam(r, "month")
	if err != nil {
		respondBadRequest(w, err)
		return
	}
	year, err := intParam(r, "year")
	if err != nil {
		respondBadRequest(w, err)
		return
	}
	h.export(w, r, exportJob{
		format:   "pdf",
		kind:     "monthly",
		filename: fmt.Sprintf("statement-month-%d-%d.pdf", month, year),
		ctype:    contentTypePDF,
		build: func() ([]byte, error) {
			sheet, err := h.service.MonthlySheet(r.Context(), month, year)
			if err != nil {
				return nil, err
			}
			return BuildPeriodPDF(sheet, h.opts)
		},
	})
}

func (h *ReportHandler) handleExportAnnual(w http.ResponseWriter, r *http.Request) {
	year, err := intParam(r, "year")
	if err != nil {
		respondBadRequest(w, err)
		return
	}
	h.export(w, r, exportJob{
		format:   "pdf",
		kind:     "annual",
		filename: fmt.Sprintf("statement-%d.pdf", year),
		ctype:    contentTypePDF,
		build: func() ([]byte, error) {
			sheet, err := h.service.AnnualSheet(r.Context(), year)
			if err != nil {
				return nil, err
			}
			return BuildPeriodPDF(sheet, h.opts)
		},
	})
}

func (h *ReportHandler) handleExportLedger(w http.ResponseWriter, r *http.Request) {
	date, err := h.requiredDate(r)
	if err != nil {
		respondBadRequest(w, err)
		return
	}
	h.export(w, r, exportJob{
		format:   "xlsx",
		kind:     "ledger",
		filename: "ledger-" + date.Format("2006-01-02") + ".xlsx",
		ctype:    contentTypeXLSX,
		build: func() ([]byte, error) {
			sheet, err := h.service.LedgerRows(r.Context(), date)
			if err != nil {
				return nil, err
			}
			return BuildLedgerXLSX(sheet, h.opts)
		},
	})
}

func (h *ReportHandler) handleReceipt(w http.ResponseWriter, r *http.Request, stayID string) {
	number := NewReceiptNumber(time.Now())
	h.export(w, r, exportJob{
		format:   "receipt",
		kind:     stayID,
		filename: "receipt-" + number + ".pdf",
		ctype:    contentTypePDF,
		receipt:  number,
		build: func() ([]byte, error) {
			receipt, err := h.service.Receipt(r.Context(), stayID)
			if err != nil {
				return nil, err
			}
			return BuildReceiptPDF(receipt, number, h.opts)
		},
	})
}

type exportJob struct {
	format   string
	kind     string
	filename string
	ctype    string
	receipt  string
	build    func() ([]byte, error)
}

func (h *ReportHandler) export(w http.ResponseWriter, r *http.Request, job exportJob) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveExport(job.format, result, time.Since(start))
	}()

	data, err := job.build()
	if err != nil {
		result = metrics.ResultError
		h.respondServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", job.ctype)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", job.filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)

	entry := audit.ExportEntry(r, job.kind, job.format)
	if job.receipt != "" {
		entry = audit.ReceiptEntry(r, job.kind, job.receipt)
	}
	h.logAudit(r, entry)
}

func (h *ReportHandler) logAudit(r *http.Request, entry audit.Entry) {
	if h.auditLogger == nil {
		return
	}
	if err := h.auditLogger.Log(r.Context(), entry); err != nil {
		h.logger.Warn("audit log failed", zap.String("action", entry.Action), zap.Error(err))
	}
}

func (h *ReportHandler) requiredDate(r *http.Request) (time.Time, error) {
	value := r.URL.Query().Get("date")
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: missing date", errBadRequest)
	}
	date, err := time.ParseInLocation("2006-01-02", value, h.service.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q", errBadRequest, value)
	}
	return date, nil
}

func intParam(r *http.Request, name string) (int, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return 0, fmt.Errorf("%w: missing %s", errBadRequest, name)
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s %q", errBadRequest, name, value)
	}
	return n, nil
}

func respondBadRequest(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), http.StatusBadRequest)
}

func (h *ReportHandler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, reporting.ErrInvalidPeriod):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, reporting.ErrStayNotFound):
		http.Error(w, "stay not found", http.StatusNotFound)
	default:
		h.logger.Error("report request failed", zap.String("path", r.URL.Path), zap.Error(err))
		http.Error(w, "query failed", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

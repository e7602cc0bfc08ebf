package interfaces

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"hotel-ledger/internal/audit"
	"hotel-ledger/internal/auth"
	"hotel-ledger/internal/reporting/application"
	reporting "hotel-ledger/internal/reporting/domain"
	"hotel-ledger/internal/reporting/infrastructure/memory"
)

type recordingAudit struct {
	mu      sync.Mutex
	entries []audit.Entry
}

func (a *recordingAudit) Log(ctx context.Context, entry audit.Entry) error {
	_ = ctx
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, entry)
	return nil
}

type brokenLedger struct {
	*memory.LedgerRepository
}

func (brokenLedger) ListExpenses(ctx context.Context, window reporting.Window) ([]reporting.Expense, error) {
	return nil, fmt.Errorf("%w: timeout", reporting.ErrQueryFailed)
}

func seededLedger(t *testing.T) (*memory.LedgerRepository, string) {
	t.Helper()
	repo := memory.NewLedgerRepository()
	roomID, err := repo.AddRoom(reporting.Room{Number: "101"})
	if err != nil {
		t.Fatalf("add room: %v", err)
	}
	if _, err := repo.AddRoom(reporting.Room{Number: "102"}); err != nil {
		t.Fatalf("add room: %v", err)
	}
	var stayID string
	for i, s := range []struct {
		hour   int
		phase  reporting.Phase
		amount int64
	}{
		{9, reporting.PhaseHour, 50000},
		{21, reporting.PhaseNight, 100000},
		{14, reporting.PhaseHour, 75000},
	} {
		id, err := repo.AddStay(reporting.Stay{
			RoomID:    roomID,
			StartTime: time.Date(2025, 1, 10, s.hour, 0, 0, 0, time.UTC),
			Phase:     s.phase,
			Amount:    decimal.NewFromInt(s.amount),
		})
		if err != nil {
			t.Fatalf("add stay %d: %v", i, err)
		}
		if i == 0 {
			stayID = id
		}
	}
	if _, err := repo.AddExpense(reporting.Expense{
		Description: "laundry",
		Amount:      decimal.NewFromInt(20000),
		Date:        time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("add expense: %v", err)
	}
	return repo, stayID
}

func newTestHandler(t *testing.T, ledger application.Ledger, auditLogger audit.Logger) *ReportHandler {
	t.Helper()
	clock := reporting.FixedClock{At: time.Date(2025, 1, 10, 18, 0, 0, 0, time.UTC)}
	svc, err := application.NewReportService(ledger, clock, time.UTC, 8, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	h, err := NewReportHandler(svc, auditLogger, nil, ExportOptions{PropertyName: "Test"})
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	return h
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)
	return resp
}

func TestDailyReportHTTP(t *testing.T) {
	repo, _ := seededLedger(t)
	h := newTestHandler(t, repo, nil)

	resp := get(h, "/api/v1/reports/daily?date=2025-01-10")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var body struct {
		Range struct {
			Start time.Time `json:"start"`
			End   time.Time `json:"end"`
		} `json:"range"`
		Income     float64 `json:"income"`
		Expenses   float64 `json:"expenses"`
		Remaining  float64 `json:"remaining"`
		TotalStays int     `json:"totalStays"`
		NightStays int     `json:"nightStays"`
		Occupation float64 `json:"occupation"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Income != 225000 || body.Expenses != 20000 || body.Remaining != 205000 {
		t.Fatalf("unexpected totals: %+v", body)
	}
	if body.TotalStays != 3 || body.NightStays != 1 || body.Occupation != 150 {
		t.Fatalf("unexpected counts: %+v", body)
	}
	if body.Range.End.Sub(body.Range.Start) != 24*time.Hour-time.Millisecond {
		t.Fatalf("unexpected range %v - %v", body.Range.Start, body.Range.End)
	}
}

func TestReportHTTPValidation(t *testing.T) {
	repo, _ := seededLedger(t)
	h := newTestHandler(t, repo, nil)

	cases := []string{
		"/api/v1/reports/daily",
		"/api/v1/reports/daily?date=10-01-2025",
		"/api/v1/reports/monthly?month=13&year=2025",
		"/api/v1/reports/monthly?year=2025",
		"/api/v1/reports/annual?year=abc",
		"/api/v1/reports/export/monthly.pdf?month=0&year=2025",
	}
	for _, target := range cases {
		if resp := get(h, target); resp.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", target, resp.Code)
		}
	}
	if resp := get(h, "/api/v1/reports/unknown"); resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown route, got %d", resp.Code)
	}
}

func TestReportHTTPStorageFailure(t *testing.T) {
	repo, _ := seededLedger(t)
	h := newTestHandler(t, brokenLedger{repo}, nil)

	resp := get(h, "/api/v1/reports/daily?date=2025-01-10")
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	if strings.Contains(resp.Body.String(), "income") {
		t.Fatalf("expected no partial report in body: %s", resp.Body.String())
	}
}

func TestWeeklySummaryAndGraphsHTTP(t *testing.T) {
	repo, _ := seededLedger(t)
	h := newTestHandler(t, repo, nil)

	resp := get(h, "/api/v1/reports/weekly-summary")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var week []weeklyRowDTO
	if err := json.Unmarshal(resp.Body.Bytes(), &week); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(week) != 7 || week[6].In != 225000 || week[6].Out != 20000 {
		t.Fatalf("unexpected weekly summary: %+v", week)
	}

	resp = get(h, "/api/v1/reports/graph/hourly?date=2025-01-10")
	var hourly hourlyGraphDTO
	if err := json.Unmarshal(resp.Body.Bytes(), &hourly); err != nil {
		t.Fatalf("decode hourly: %v", err)
	}
	if len(hourly.Data) != 24 || hourly.Data[21].Income != 100000 {
		t.Fatalf("unexpected hourly graph: %+v", hourly.Data)
	}

	resp = get(h, "/api/v1/reports/graph/monthly?year=2025")
	var monthly []monthBucketDTO
	if err := json.Unmarshal(resp.Body.Bytes(), &monthly); err != nil {
		t.Fatalf("decode monthly: %v", err)
	}
	if len(monthly) != 12 {
		t.Fatalf("expected 12 months, got %d", len(monthly))
	}

	resp = get(h, "/api/v1/reports/graph/annual")
	var annual []yearBucketDTO
	if err := json.Unmarshal(resp.Body.Bytes(), &annual); err != nil {
		t.Fatalf("decode annual: %v", err)
	}
	if len(annual) != 1 || annual[0].Year != 2025 {
		t.Fatalf("unexpected annual graph: %+v", annual)
	}
}

func TestSummaryHTTP(t *testing.T) {
	repo, _ := seededLedger(t)
	h := newTestHandler(t, repo, nil)

	resp := get(h, "/api/v1/reports/summary")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var summary summaryDTO
	if err := json.Unmarshal(resp.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if summary.TotalIncome != 225000 || summary.Remaining != 205000 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	resp = get(h, "/api/v1/reports/summary/staff")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var staff map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &staff); err != nil {
		t.Fatalf("decode staff: %v", err)
	}
	groups, _ := staff["stays"].(map[string]any)
	hours, _ := groups["hours"].([]any)
	nights, _ := groups["nights"].([]any)
	if len(hours) != 2 || len(nights) != 1 {
		t.Fatalf("expected stays grouped as 2 hours / 1 night, got %v", staff["stays"])
	}
	if _, ok := staff["totalIncome"]; !ok {
		t.Fatalf("expected promoted summary fields, got %v", staff)
	}
}

func TestExportsHTTP(t *testing.T) {
	repo, _ := seededLedger(t)
	rec := &recordingAudit{}
	h := newTestHandler(t, repo, rec)

	cases := []struct {
		target      string
		contentType string
		filename    string
	}{
		{"/api/v1/reports/export/daily.pdf?date=2025-01-10", contentTypePDF, "statement-2025-01-10.pdf"},
		{"/api/v1/reports/export/weekly.pdf", contentTypePDF, "statement-week.pdf"},
		{"/api/v1/reports/export/monthly.pdf?month=1&year=2025", contentTypePDF, "statement-month-1-2025.pdf"},
		{"/api/v1/reports/export/annual.pdf?year=2025", contentTypePDF, "statement-2025.pdf"},
		{"/api/v1/reports/export/ledger.xlsx?date=2025-01-10", contentTypeXLSX, "ledger-2025-01-10.xlsx"},
	}
	for _, tc := range cases {
		resp := get(h, tc.target)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d: %s", tc.target, resp.Code, resp.Body.String())
		}
		if got := resp.Header().Get("Content-Type"); got != tc.contentType {
			t.Fatalf("%s: unexpected content type %q", tc.target, got)
		}
		if got := resp.Header().Get("Content-Disposition"); !strings.Contains(got, tc.filename) {
			t.Fatalf("%s: unexpected disposition %q", tc.target, got)
		}
		if tc.contentType == contentTypePDF && !bytes.HasPrefix(resp.Body.Bytes(), []byte("%PDF")) {
			t.Fatalf("%s: expected PDF body", tc.target)
		}
	}
	if len(rec.entries) != len(cases) {
		t.Fatalf("expected %d audit entries, got %d", len(cases), len(rec.entries))
	}
	if rec.entries[0].Action != "report.export" || rec.entries[0].ResourceID != "daily" {
		t.Fatalf("unexpected audit entry: %+v", rec.entries[0])
	}
}

func TestReceiptHTTP(t *testing.T) {
	repo, stayID := seededLedger(t)
	rec := &recordingAudit{}
	h := newTestHandler(t, repo, rec)

	resp := get(h, "/api/v1/reports/receipts/"+stayID+".pdf")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if !bytes.HasPrefix(resp.Body.Bytes(), []byte("%PDF")) {
		t.Fatalf("expected PDF body")
	}
	if len(rec.entries) != 1 || rec.entries[0].Action != "receipt.print" || rec.entries[0].ResourceID != stayID {
		t.Fatalf("unexpected audit entries: %+v", rec.entries)
	}

	if resp := get(h, "/api/v1/reports/receipts/missing.pdf"); resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing stay, got %d", resp.Code)
	}
}

func TestReceiptAuditNamesStaff(t *testing.T) {
	repo, stayID := seededLedger(t)
	rec := &recordingAudit{}
	secret := []byte("test-secret")
	h := auth.NewMiddleware(secret, auth.NewDefaultPolicy(nil, nil)).Wrap(newTestHandler(t, repo, rec))

	token, err := auth.IssueToken(secret, "staff-3", "night desk", auth.RoleEmployee, time.Hour)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/receipts/"+stayID+".pdf", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.RemoteAddr = "10.1.2.3:4000"
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if len(rec.entries) != 1 {
		t.Fatalf("expected one audit entry, got %d", len(rec.entries))
	}
	entry := rec.entries[0]
	if entry.Actor != "staff-3" || entry.Username != "night desk" || entry.Role != "employee" || entry.IP != "10.1.2.3" {
		t.Fatalf("unexpected audit actor: %+v", entry)
	}
}

func TestReportHTTPMethodNotAllowed(t *testing.T) {
	repo, _ := seededLedger(t)
	h := newTestHandler(t, repo, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports/daily?date=2025-01-10", nil)
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)
	if resp.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.Code)
	}
}

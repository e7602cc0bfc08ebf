package audit

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"hotel-ledger/internal/auth"
)

// Actions recorded for files leaving the reporting API.
const (
	ActionReportExport = "report.export"
	ActionReceiptPrint = "receipt.print"
)

// ExportEntry describes a report file (PDF statement or ledger workbook)
// handed to the staff member behind r.
func ExportEntry(r *http.Request, kind, format string) Entry {
	meta := map[string]any{"format": format}
	if r != nil && r.URL != nil && r.URL.RawQuery != "" {
		meta["query"] = r.URL.RawQuery
	}
	return requestEntry(r, ActionReportExport, "report", kind, meta)
}

// ReceiptEntry describes a printed stay receipt.
func ReceiptEntry(r *http.Request, stayID, receiptNumber string) Entry {
	return requestEntry(r, ActionReceiptPrint, "stay", stayID, map[string]any{
		"format":         "pdf",
		"receipt_number": receiptNumber,
	})
}

func requestEntry(r *http.Request, action, resourceType, resourceID string, meta map[string]any) Entry {
	entry := Entry{
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}
	if payload, err := json.Marshal(meta); err == nil && len(meta) > 0 {
		entry.Metadata = payload
	}
	if r == nil {
		return entry
	}
	entry.IP = ClientIP(r)
	entry.UserAgent = r.UserAgent()
	if staff, ok := auth.StaffFromContext(r.Context()); ok {
		entry.Actor = staff.ID
		entry.Username = staff.Name
		entry.Role = string(staff.Role)
	}
	return entry
}

// ClientIP returns the front-desk terminal address, preferring the first hop
// reported by the property's reverse proxy.
func ClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

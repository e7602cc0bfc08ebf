package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware_NoToken(t *testing.T) {
	secret := []byte("test-secret")
	mw := NewMiddleware(secret, NewDefaultPolicy(nil, nil))
	handler := mw.Wrap(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/daily", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
	if resp.Header().Get("WWW-Authenticate") == "" {
		t.Fatalf("expected bearer challenge header")
	}
}

func TestAuthenticateResolvesStaff(t *testing.T) {
	secret := []byte("test-secret")
	mw := NewMiddleware(secret, NewDefaultPolicy(nil, nil))

	signed, err := IssueToken(secret, "staff-7", "", RoleAdmin, time.Hour)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/daily", nil)
	req.Header.Set("Authorization", "bearer  "+signed)
	staff, err := mw.Authenticate(req)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if staff.ID != "staff-7" || staff.Name != "staff-7" || !staff.IsAdmin() {
		t.Fatalf("unexpected staff %+v", staff)
	}

	req.Header.Set("Authorization", "Basic "+signed)
	if _, err := mw.Authenticate(req); err == nil {
		t.Fatalf("expected non-bearer scheme to be rejected")
	}
}

func TestStaffFromContextEmpty(t *testing.T) {
	if _, ok := StaffFromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context()); ok {
		t.Fatalf("expected no staff on a bare request")
	}
}

func TestAuthMiddleware_EmployeeForbiddenExport(t *testing.T) {
	secret := []byte("test-secret")
	token := mustToken(t, secret, RoleEmployee)
	mw := NewMiddleware(secret, NewDefaultPolicy(nil, nil))
	handler := mw.Wrap(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/export/monthly.pdf", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}
}

func TestAuthMiddleware_EmployeeReadsReports(t *testing.T) {
	secret := []byte("test-secret")
	token := mustToken(t, secret, RoleEmployee)
	mw := NewMiddleware(secret, NewDefaultPolicy(nil, nil))
	var got Staff
	handler := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = StaffFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/summary", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	want := Staff{ID: "user-1", Name: "frontdesk", Role: RoleEmployee}
	if got != want || got.IsAdmin() {
		t.Fatalf("unexpected staff %+v", got)
	}
}

func TestAuthMiddleware_AdminExports(t *testing.T) {
	secret := []byte("test-secret")
	token := mustToken(t, secret, RoleAdmin)
	mw := NewMiddleware(secret, NewDefaultPolicy(nil, nil))
	handler := mw.Wrap(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/export/ledger.xlsx", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestAuthMiddleware_ExemptPaths(t *testing.T) {
	mw := NewMiddleware([]byte("test-secret"), NewDefaultPolicy([]string{"/healthz", "/metrics"}, nil))
	handler := mw.Wrap(okHandler())

	for _, path := range []string{"/healthz", "/metrics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, resp.Code)
		}
	}
}

func TestParseJWT_WrongSecret(t *testing.T) {
	token := mustToken(t, []byte("one"), RoleAdmin)
	if _, err := ParseJWT(token, []byte("two")); err == nil {
		t.Fatalf("expected signature error")
	}
}

func mustToken(t *testing.T, secret []byte, role Role) string {
	t.Helper()
	signed, err := IssueToken(secret, "user-1", "frontdesk", role, time.Hour)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

package auth

import (
	"errors"
	"net/http"
	"strings"
)

var errMissingToken = errors.New("missing bearer token")

// Middleware turns a staff JWT into a Staff identity on the request context
// and refuses report routes the staff role may not reach.
type Middleware struct {
	Secret []byte
	Policy Policy
}

// NewMiddleware constructs an auth middleware.
func NewMiddleware(secret []byte, policy Policy) *Middleware {
	return &Middleware{Secret: secret, Policy: policy}
}

// Wrap applies staff authentication and the route policy to next.
func (m *Middleware) Wrap(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.Policy.IsExempt(r) {
			next.ServeHTTP(w, r)
			return
		}
		required, ok := m.Policy.RequiredRole(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		staff, err := m.Authenticate(r)
		if err != nil {
			w.Header().Set("WWW-Authenticate", `Bearer realm="hotel-ledger"`)
			http.Error(w, "unauthorized: "+err.Error(), http.StatusUnauthorized)
			return
		}
		if !RoleAtLeast(staff.Role, required) {
			http.Error(w, "forbidden: "+string(required)+" role required", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithStaff(r.Context(), staff)))
	})
}

// Authenticate resolves the bearer token of r into a staff member.
func (m *Middleware) Authenticate(r *http.Request) (Staff, error) {
	token := bearerToken(r)
	if token == "" {
		return Staff{}, errMissingToken
	}
	claims, err := ParseJWT(token, m.Secret)
	if err != nil {
		return Staff{}, err
	}
	// ParseJWT has already checked subject and role.
	role, _ := NormalizeRole(claims.Role)
	name := claims.Username
	if name == "" {
		name = claims.Subject
	}
	return Staff{ID: claims.Subject, Name: name, Role: role}, nil
}

func bearerToken(r *http.Request) string {
	if r == nil {
		return ""
	}
	scheme, token, found := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

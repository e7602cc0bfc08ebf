package auth

import "context"

type staffKey struct{}

// Staff is the hotel staff member a request acts for.
type Staff struct {
	ID   string
	Name string
	Role Role
}

// IsAdmin reports whether the staff member may export documents.
func (s Staff) IsAdmin() bool { return s.Role == RoleAdmin }

// WithStaff stores the authenticated staff member in ctx.
func WithStaff(ctx context.Context, staff Staff) context.Context {
	return context.WithValue(ctx, staffKey{}, staff)
}

// StaffFromContext returns the staff member stored by the middleware.
func StaffFromContext(ctx context.Context) (Staff, bool) {
	if ctx == nil {
		return Staff{}, false
	}
	staff, ok := ctx.Value(staffKey{}).(Staff)
	return staff, ok
}

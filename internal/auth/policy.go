package auth

import "github.com/iliyamo/task-management-system/internal/model"

// Pure decision functions. No I/O happens here: callers resolve the user
// and the target resource first, then ask the policy. Every protected
// route goes through one of these instead of an ad hoc role check.

// CanViewDashboard reports whether a user may view their own dashboard.
// Any authenticated user may; what the dashboard CONTAINS is a query
// decision made by the handler (admins see all tasks, users their own),
// not an authorization outcome.
func CanViewDashboard(u model.User) bool {
	return true
}

// CanMutate reports whether a user may update or delete a task. Only the
// owner may — the role is deliberately not consulted, so an admin cannot
// edit or delete another user's task through the regular task endpoints.
func CanMutate(u model.User, t model.Task) bool {
	return u.ID == t.OwnerID
}

// CanViewAggregate reports whether a user may read cross-user listings
// (all users, all tasks) or assign tasks to other users.
func CanViewAggregate(u model.User) bool {
	return u.Role == model.RoleAdmin
}

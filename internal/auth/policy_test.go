package auth

import (
	"testing"

	"github.com/iliyamo/task-management-system/internal/model"
)

func TestCanMutate_OwnerOnly(t *testing.T) {
	t.Parallel()

	owner := model.User{ID: 1, Role: model.RoleUser}
	other := model.User{ID: 2, Role: model.RoleUser}
	admin := model.User{ID: 3, Role: model.RoleAdmin}
	task := model.Task{ID: 10, OwnerID: 1}

	if !CanMutate(owner, task) {
		t.Fatal("owner must be allowed to mutate their task")
	}
	if CanMutate(other, task) {
		t.Fatal("non-owner must not mutate someone else's task")
	}
	// Admins get aggregate visibility, not blanket mutate rights.
	if CanMutate(admin, task) {
		t.Fatal("admin must not mutate another user's task")
	}
}

func TestCanViewAggregate(t *testing.T) {
	t.Parallel()

	if CanViewAggregate(model.User{ID: 1, Role: model.RoleUser}) {
		t.Fatal("regular user must not view aggregates")
	}
	if !CanViewAggregate(model.User{ID: 2, Role: model.RoleAdmin}) {
		t.Fatal("admin must view aggregates")
	}
}

func TestCanViewDashboard(t *testing.T) {
	t.Parallel()

	for _, role := range []string{model.RoleUser, model.RoleAdmin} {
		if !CanViewDashboard(model.User{ID: 1, Role: role}) {
			t.Fatalf("role %s must be able to view own dashboard", role)
		}
	}
}

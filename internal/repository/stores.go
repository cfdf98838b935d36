package repository

import (
	"context"

	"github.com/iliyamo/task-management-system/internal/model"
)

// UserStore is the persistence boundary for user records. The MySQL
// implementation lives in user_repository.go; tests substitute in-memory
// fakes. Implementations must provide read-your-writes consistency and a
// uniqueness constraint on the (lowercased) email column.
type UserStore interface {
	// Create inserts a user and returns its new ID. A duplicate email
	// yields ErrEmailExists.
	Create(ctx context.Context, name, email, passwordHash, role string) (uint64, error)
	// GetByEmail fetches a user by normalized email; ErrNotFound when absent.
	GetByEmail(ctx context.Context, email string) (model.User, error)
	// GetByID fetches a user by id; ErrNotFound when absent.
	GetByID(ctx context.Context, id uint64) (model.User, error)
	// ListAll returns every user, ordered by id.
	ListAll(ctx context.Context) ([]model.User, error)
}

// TaskStore is the persistence boundary for task records.
type TaskStore interface {
	// Create inserts a task and returns its new ID.
	Create(ctx context.Context, t model.Task) (uint64, error)
	// GetByID fetches a task by id; ErrNotFound when absent.
	GetByID(ctx context.Context, id uint64) (model.Task, error)
	// ListByOwner returns tasks owned by the given user, newest first.
	ListByOwner(ctx context.Context, ownerID uint64) ([]model.Task, error)
	// ListAllWithOwners returns every task joined with its owner's name
	// and email, newest first. Used by the admin aggregate views.
	ListAllWithOwners(ctx context.Context) ([]model.TaskWithOwner, error)
	// Update rewrites the mutable columns of the task identified by t.ID;
	// ErrNotFound when no such row exists.
	Update(ctx context.Context, t model.Task) error
	// Delete removes a task by id; ErrNotFound when no such row exists.
	Delete(ctx context.Context, id uint64) error
}

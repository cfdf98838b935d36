package model

import "time"

// Priority values accepted for `tasks.priority`.
const (
	PriorityLow    = "LOW"
	PriorityMedium = "MEDIUM"
	PriorityHigh   = "HIGH"
)

// Task mirrors a row in the `tasks` table.  Every task belongs to exactly
// one user via OwnerID; ownership is the basis of all mutation checks.
type Task struct {
	ID          uint64    // tasks.id
	OwnerID     uint64    // tasks.user_id
	Title       string    // tasks.title
	Description string    // tasks.description
	DueDate     time.Time // tasks.due_date
	Priority    string    // tasks.priority (LOW|MEDIUM|HIGH)
	Completed   bool      // tasks.completed
	CreatedAt   time.Time // tasks.created_at
	UpdatedAt   time.Time // tasks.updated_at
}

// TaskWithOwner joins a task with its owner's public fields for the admin
// aggregate views.  The owner's password hash is never selected.
type TaskWithOwner struct {
	Task
	OwnerName  string
	OwnerEmail string
}

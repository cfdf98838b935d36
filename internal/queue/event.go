// Package queue defines message payloads exchanged over the message broker
// and the background consumer that processes them.
package queue

// TaskCompletedEvent is published whenever a task's completion flag is
// toggled. It carries enough information for downstream consumers to log
// or notify without querying the primary database.
type TaskCompletedEvent struct {
	TaskID    uint64 `json:"task_id"`
	UserID    uint64 `json:"user_id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	ChangedAt string `json:"changed_at"`
}

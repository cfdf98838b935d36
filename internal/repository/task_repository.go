package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/task-management-system/internal/model"
)

// TaskRepo is the MySQL-backed TaskStore.
type TaskRepo struct{ DB *sql.DB }

func NewTaskRepo(db *sql.DB) *TaskRepo { return &TaskRepo{DB: db} }

var _ TaskStore = (*TaskRepo)(nil)

const taskColumns = "id,user_id,title,description,due_date,priority,completed,created_at,updated_at"

func scanTask(row interface{ Scan(...any) error }) (model.Task, error) {
	var t model.Task
	err := row.Scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.DueDate,
		&t.Priority, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// Create inserts a task and returns its ID.
func (r *TaskRepo) Create(ctx context.Context, t model.Task) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO tasks (user_id, title, description, due_date, priority, completed) VALUES (?,?,?,?,?,?)",
		t.OwnerID, t.Title, t.Description, t.DueDate, t.Priority, t.Completed)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches a task by id.
func (r *TaskRepo) GetByID(ctx context.Context, id uint64) (model.Task, error) {
	t, err := scanTask(r.DB.QueryRowContext(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Task{}, ErrNotFound
	}
	return t, err
}

// ListByOwner returns the tasks owned by a single user, newest first.
func (r *TaskRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Task, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE user_id=? ORDER BY id DESC", ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ListAllWithOwners returns every task joined with its owner's name and
// email. Only public owner columns are selected.
func (r *TaskRepo) ListAllWithOwners(ctx context.Context) ([]model.TaskWithOwner, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT t.id,t.user_id,t.title,t.description,t.due_date,t.priority,t.completed,t.created_at,t.updated_at,
		        u.name,u.email
		 FROM tasks t JOIN users u ON u.id = t.user_id
		 ORDER BY t.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.TaskWithOwner
	for rows.Next() {
		var t model.TaskWithOwner
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.DueDate,
			&t.Priority, &t.Completed, &t.CreatedAt, &t.UpdatedAt,
			&t.OwnerName, &t.OwnerEmail); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Update rewrites the mutable columns of a task.
func (r *TaskRepo) Update(ctx context.Context, t model.Task) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE tasks SET title=?, description=?, due_date=?, priority=?, completed=? WHERE id=?",
		t.Title, t.Description, t.DueDate, t.Priority, t.Completed, t.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// RowsAffected is also 0 when the update was a no-op on an existing
		// row, so confirm absence before reporting not found.
		if _, err := r.GetByID(ctx, t.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a task by id.
func (r *TaskRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM tasks WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

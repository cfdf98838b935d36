package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/task-management-system/internal/auth"
	"github.com/iliyamo/task-management-system/internal/middleware"
	"github.com/iliyamo/task-management-system/internal/model"
	"github.com/iliyamo/task-management-system/internal/queue"
	"github.com/iliyamo/task-management-system/internal/repository"
	queuepublisher "github.com/iliyamo/task-management-system/internal/service"
)

// dueDateLayout is the wire format for task due dates.
const dueDateLayout = "2006-01-02"

// TaskHandler bundles the stores needed by the task endpoints. Every
// handler here runs behind the access guard, so the identity in the
// context is always the freshly re-resolved user row.
type TaskHandler struct {
	Tasks repository.TaskStore
	Users repository.UserStore // assignee lookup for admin task assignment
}

func NewTaskHandler(tasks repository.TaskStore, users repository.UserStore) *TaskHandler {
	if tasks == nil || users == nil {
		panic("nil store passed to NewTaskHandler")
	}
	return &TaskHandler{Tasks: tasks, Users: users}
}

// ----- DTOs -----

type createTaskReq struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	Priority    string `json:"priority"`
	// AssigneeEmail lets an ADMIN create a task for another user. Regular
	// users may not set it; the original system let anyone assign tasks to
	// anyone, which was a privilege hole.
	AssigneeEmail string `json:"assignee_email,omitempty"`
}

type updateTaskReq struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"`
	Priority    *string `json:"priority"`
}

type taskPart struct {
	ID          uint64 `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	Priority    string `json:"priority"`
	Completed   bool   `json:"completed"`
	OwnerID     uint64 `json:"owner_id"`
}

type taskWithOwnerPart struct {
	taskPart
	Owner userPart `json:"owner"`
}

func toTaskPart(t model.Task) taskPart {
	return taskPart{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate.Format(dueDateLayout),
		Priority:    t.Priority,
		Completed:   t.Completed,
		OwnerID:     t.OwnerID,
	}
}

// normalizePriority upper-cases and validates a priority, defaulting to
// MEDIUM for empty input. The bool is false for unknown values.
func normalizePriority(p string) (string, bool) {
	switch strings.ToUpper(strings.TrimSpace(p)) {
	case "":
		return model.PriorityMedium, true
	case model.PriorityLow:
		return model.PriorityLow, true
	case model.PriorityMedium:
		return model.PriorityMedium, true
	case model.PriorityHigh:
		return model.PriorityHigh, true
	}
	return "", false
}

func taskIDParam(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

// Dashboard returns the current user plus their task list. Admins get every
// task with owner info, regular users only their own rows — a query-shaping
// decision, not an authorization gate, so there is no failure branch here.
func (h *TaskHandler) Dashboard(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok || !auth.CanViewDashboard(u) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if auth.CanViewAggregate(u) {
		all, err := h.Tasks.ListAllWithOwners(ctx)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		out := make([]taskWithOwnerPart, 0, len(all))
		for _, t := range all {
			out = append(out, taskWithOwnerPart{
				taskPart: toTaskPart(t.Task),
				Owner:    userPart{ID: t.OwnerID, Name: t.OwnerName, Email: t.OwnerEmail},
			})
		}
		return c.JSON(http.StatusOK, echo.Map{
			"user":  userPart{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role},
			"tasks": out,
		})
	}

	own, err := h.Tasks.ListByOwner(ctx, u.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]taskPart, 0, len(own))
	for _, t := range own {
		out = append(out, toTaskPart(t))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user":  userPart{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role},
		"tasks": out,
	})
}

// Create adds a task owned by the caller. An ADMIN may instead assign the
// task to another user via assignee_email.
func (h *TaskHandler) Create(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req createTaskReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || req.DueDate == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and due_date required"})
	}
	due, err := time.Parse(dueDateLayout, req.DueDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "due_date must be YYYY-MM-DD"})
	}
	prio, ok := normalizePriority(req.Priority)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "priority must be LOW, MEDIUM or HIGH"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ownerID := u.ID
	if email := strings.ToLower(strings.TrimSpace(req.AssigneeEmail)); email != "" && email != u.Email {
		if !auth.CanViewAggregate(u) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		assignee, err := h.Users.GetByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "assignee not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		ownerID = assignee.ID
	}

	t := model.Task{
		OwnerID:     ownerID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     due,
		Priority:    prio,
	}
	id, err := h.Tasks.Create(ctx, t)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create task failed"})
	}
	t.ID = id
	return c.JSON(http.StatusCreated, echo.Map{"message": "task created", "task": toTaskPart(t)})
}

// Update applies a partial update to a task the caller owns. The row is
// loaded first so the ownership check runs before anything about the task
// is revealed or changed; a denial carries no task data.
func (h *TaskHandler) Update(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := taskIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid task id"})
	}

	var req updateTaskReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !auth.CanMutate(u, t) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "title cannot be empty"})
		}
		t.Title = title
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.DueDate != nil {
		due, err := time.Parse(dueDateLayout, *req.DueDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "due_date must be YYYY-MM-DD"})
		}
		t.DueDate = due
	}
	if req.Priority != nil {
		prio, ok := normalizePriority(*req.Priority)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "priority must be LOW, MEDIUM or HIGH"})
		}
		t.Priority = prio
	}

	if err := h.Tasks.Update(ctx, t); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update task failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "task updated", "task": toTaskPart(t)})
}

// ToggleCompleted flips the completion flag of a task the caller owns and
// publishes a task.completed event. Publish failures are logged by the
// publisher and never surfaced to the client.
func (h *TaskHandler) ToggleCompleted(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := taskIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid task id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !auth.CanMutate(u, t) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	t.Completed = !t.Completed
	if err := h.Tasks.Update(ctx, t); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update task failed"})
	}

	_ = queuepublisher.PublishTaskCompleted(ctx, queue.TaskCompletedEvent{
		TaskID:    t.ID,
		UserID:    t.OwnerID,
		Title:     t.Title,
		Completed: t.Completed,
		ChangedAt: time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusOK, echo.Map{"message": "task updated", "task": toTaskPart(t)})
}

// Delete removes a task the caller owns.
func (h *TaskHandler) Delete(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := taskIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid task id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !auth.CanMutate(u, t) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	if err := h.Tasks.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete task failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "task deleted"})
}

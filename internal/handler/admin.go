package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/task-management-system/internal/repository"
)

// AdminHandler serves the cross-user aggregate listings. Its routes are
// registered behind the access guard plus RequireRole(ADMIN) — the
// original system exposed these endpoints with no authentication at all.
type AdminHandler struct {
	Users repository.UserStore
	Tasks repository.TaskStore
}

func NewAdminHandler(users repository.UserStore, tasks repository.TaskStore) *AdminHandler {
	if users == nil || tasks == nil {
		panic("nil store passed to NewAdminHandler")
	}
	return &AdminHandler{Users: users, Tasks: tasks}
}

// ListUsers returns every registered user's public fields. Password
// hashes never leave the repository layer.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]userPart, 0, len(users))
	for _, u := range users {
		out = append(out, userPart{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role})
	}
	return c.JSON(http.StatusOK, echo.Map{"users": out})
}

// ListTasks returns every task joined with its owner's name and email.
func (h *AdminHandler) ListTasks(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tasks, err := h.Tasks.ListAllWithOwners(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]taskWithOwnerPart, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, taskWithOwnerPart{
			taskPart: toTaskPart(t.Task),
			Owner:    userPart{ID: t.OwnerID, Name: t.OwnerName, Email: t.OwnerEmail},
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"tasks": out})
}

package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/task-management-system/internal/handler"
	"github.com/iliyamo/task-management-system/internal/middleware"
	"github.com/iliyamo/task-management-system/internal/model"
)

// RegisterAdmin registers the aggregate listing endpoints under
// /v1/admin. Both the access guard and the ADMIN role gate are applied at
// the group level, so no admin route can be reached unauthenticated.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, guard echo.MiddlewareFunc) {
	g := e.Group("/v1/admin", guard, middleware.RequireRole(model.RoleAdmin))

	g.GET("/users", h.ListUsers)
	g.GET("/tasks", h.ListTasks)
}

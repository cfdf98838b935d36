package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/task-management-system/internal/handler"
)

// RegisterTasks registers the task endpoints under /v1. Every route
// requires a valid access token; ownership checks happen inside the
// handlers via the authorization policy. The dashboard GET additionally
// passes through the per-user response cache.
func RegisterTasks(e *echo.Echo, h *handler.TaskHandler, guard, cache echo.MiddlewareFunc) {
	g := e.Group("/v1", guard)

	g.GET("/dashboard", h.Dashboard, cache)
	g.POST("/tasks", h.Create)
	g.PUT("/tasks/:id", h.Update)
	g.PUT("/tasks/:id/completed", h.ToggleCompleted)
	g.DELETE("/tasks/:id", h.Delete)
}

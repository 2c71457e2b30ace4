// Package router wires handlers and middleware onto an Echo instance.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-pos/internal/handler"
	"github.com/iliyamo/restaurant-pos/internal/middleware"
)

// RegisterRoutes registers routes that need no authentication.
func RegisterRoutes(e *echo.Echo, h *handler.HealthHandler) {
	e.GET("/healthz", h.Health)
}

// RegisterOrders registers the order API under /v1. Every route requires a
// staff token; limiter runs after authentication so it can key on the
// staff id.
func RegisterOrders(e *echo.Echo, h *handler.OrderHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(middleware.RoleStaff, middleware.RoleManager, middleware.RoleAdmin),
	)
	if limiter != nil {
		g.Use(limiter)
	}

	g.POST("/orders", h.Create)
	g.GET("/orders/:id", h.Get)
	g.PATCH("/orders/:id", h.Update)
	g.DELETE("/orders/:id", h.Delete)
	g.POST("/orders/:id/fire", h.Fire)
	g.POST("/orders/:id/settle", h.Settle)
	g.GET("/orders/:id/audit", h.Audit)
}

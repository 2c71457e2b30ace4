package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// HealthHandler answers load balancer probes.
type HealthHandler struct {
	// Ping checks the backing store; nil means there is nothing to check.
	Ping func(ctx context.Context) error
}

// Health returns 200 "ok" when the store answers within two seconds and
// 503 otherwise.
func (h *HealthHandler) Health(c echo.Context) error {
	if h.Ping != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := h.Ping(ctx); err != nil {
			return c.String(http.StatusServiceUnavailable, "store unavailable")
		}
	}
	return c.String(http.StatusOK, "ok")
}

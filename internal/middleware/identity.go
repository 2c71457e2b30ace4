package middleware

import "github.com/labstack/echo/v4"

// StaffID returns the authenticated staff id, or "" for anonymous requests.
func StaffID(c echo.Context) string {
	if s, ok := c.Get(ContextStaffID).(string); ok {
		return s
	}
	return ""
}

// Role returns the authenticated role, or "".
func Role(c echo.Context) string {
	if s, ok := c.Get(ContextRole).(string); ok {
		return s
	}
	return ""
}

package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Context keys set by JWTAuth.
const (
	ContextStaffID = "user_id"
	ContextRole    = "role"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// signed with secret and stores the staff id (the "sub" claim) and role in
// the request context under ContextStaffID and ContextRole. Handlers read
// them through StaffID and Role.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}

			// sub may arrive as a number from older tokens
			switch sub := claims["sub"].(type) {
			case string:
				c.Set(ContextStaffID, sub)
			case float64:
				c.Set(ContextStaffID, fmt.Sprintf("%.0f", sub))
			}
			if role, ok := claims["role"].(string); ok {
				c.Set(ContextRole, strings.ToUpper(role))
			}
			return next(c)
		}
	}
}

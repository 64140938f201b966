package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ekarabulut/vblog/internal/model"
)

// RequireRole returns middleware that only lets through sessions whose
// role is in the allowed set. It must run after SessionAuth. Requests
// with a disallowed role get 403 Forbidden.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	allowed := make(map[model.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, ok := CurrentSession(c)
			if !ok || !allowed[sess.Role] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}

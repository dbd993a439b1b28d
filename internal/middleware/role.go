package middleware // middleware provides shared request processing for handlers

import (
    "net/http" // http package defines standard HTTP status codes

    "github.com/labstack/echo/v4" // echo provides middleware chaining and context

    "github.com/roomhive/room-rental-api/internal/service"
)

// RequireRole returns a middleware function that enforces that the
// authenticated caller holds one of the specified roles. The allowed set
// is closed at registration time. An absent caller (no role in context,
// meaning JWTAuth did not run or did not pass) is 401 Unauthorized; a
// present caller with the wrong role is 403 Forbidden. The two are never
// conflated.
func RequireRole(roles ...string) echo.MiddlewareFunc {
    // Build a set of allowed roles for constant-time lookups.
    allowed := make(map[string]bool, len(roles))
    for _, r := range roles {
        allowed[r] = true
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            role, ok := c.Get(CtxRole).(string)
            if !ok || role == "" {
                return c.JSON(http.StatusUnauthorized, echo.Map{
                    "error": echo.Map{"kind": service.KindUnauthorized, "message": "authentication required"},
                })
            }
            if !allowed[role] {
                return c.JSON(http.StatusForbidden, echo.Map{
                    "error": echo.Map{"kind": service.KindForbidden, "message": "insufficient role"},
                })
            }
            return next(c)
        }
    }
}

package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "context"  // context for the revocation lookup
    "net/http" // HTTP status codes for responses
    "strings"  // string utilities for prefix checking and trimming

    "github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

    "github.com/roomhive/room-rental-api/internal/service" // error kinds shared with the session service
    "github.com/roomhive/room-rental-api/internal/utils"   // token verification
)

// TokenRevocations is the read side of the revocation store. The session
// service satisfies it; tests plug in fakes.
type TokenRevocations interface {
    IsRevoked(ctx context.Context, token string) (bool, error)
}

// Context keys populated by JWTAuth for downstream handlers.
const (
    CtxAccountID   = "account_id"   // uint64
    CtxRole        = "role"         // string
    CtxAccessToken = "access_token" // the raw bearer token
)

// JWTAuth returns an Echo middleware that authenticates a Bearer access
// token and injects the caller's identity into the request context.
// Checks run cheapest first: header presence, then signature and expiry,
// and only then the revocation lookup, so malformed tokens never cost a
// store round-trip. Signature, expiry and revocation failures carry
// distinct kinds for diagnostics but all map to 401.
func JWTAuth(secret string, revocations TokenRevocations) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return authError(c, service.KindUnauthorized, "missing bearer token")
            }
            raw := strings.TrimPrefix(auth, "Bearer ")

            claims, err := utils.VerifyToken(secret, raw)
            if err != nil {
                if err == utils.ErrTokenExpired {
                    return authError(c, service.KindTokenExpired, "token expired")
                }
                return authError(c, service.KindInvalidToken, "invalid token")
            }

            revoked, err := revocations.IsRevoked(c.Request().Context(), raw)
            if err != nil {
                // A blind revocation store must fail closed: letting the
                // request through could honor a revoked token.
                return c.JSON(http.StatusServiceUnavailable, echo.Map{
                    "error": echo.Map{"kind": service.KindInternal, "message": "authorization unavailable"},
                })
            }
            if revoked {
                return authError(c, service.KindTokenRevoked, "token revoked")
            }

            c.Set(CtxAccountID, claims.AccountID)
            c.Set(CtxRole, claims.Role)
            c.Set(CtxAccessToken, raw)
            return next(c)
        }
    }
}

// authError writes the structured 401 body shared by all gate failures.
func authError(c echo.Context, kind service.Kind, msg string) error {
    return c.JSON(http.StatusUnauthorized, echo.Map{
        "error": echo.Map{"kind": kind, "message": msg},
    })
}

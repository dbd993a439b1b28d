package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/roomhive/room-rental-api/internal/handler"    // handlers implementing the endpoints
	"github.com/roomhive/room-rental-api/internal/middleware" // JWT authentication and role enforcement
	"github.com/roomhive/room-rental-api/internal/model"      // role constants
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance. Currently it exposes only a health check
// used by load balancers and monitoring.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication surface. Unauthenticated
// operations live under /v1/auth; logout needs a valid access token so
// it can blacklist exactly the token that authenticated the request.
// The rate limiter (rl) wraps the unauthenticated group to slow
// credential stuffing; pass nil to skip it.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, accessSecret string, revocations middleware.TokenRevocations, rl echo.MiddlewareFunc) {
	g := e.Group("/v1/auth")
	if rl != nil {
		g.Use(rl)
	}
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Rotates BOTH tokens: the response carries a new access token and a
	// new refresh token, and the presented refresh token is consumed.
	g.POST("/refresh", a.Refresh)
	// Blacklist any token the caller holds.
	g.POST("/revoke", a.Revoke)
	// Email-link endpoints.
	g.GET("/verify-email", a.VerifyEmail)
	g.POST("/forgot-password", a.ForgotPassword)
	g.POST("/reset-password", a.ResetPassword)

	// Logout sits behind the gate: the access token must still be valid
	// (signature, expiry, not yet revoked) to be blacklisted here.
	lg := e.Group("/v1/auth/logout")
	lg.Use(middleware.JWTAuth(accessSecret, revocations))
	lg.POST("", a.Logout)
}

// RegisterAccount registers the authenticated profile endpoints under
// /v1/me. Any role may access its own profile.
func RegisterAccount(e *echo.Echo, h *handler.AccountHandler, accessSecret string, revocations middleware.TokenRevocations) {
	g := e.Group("/v1/me")
	g.Use(middleware.JWTAuth(accessSecret, revocations))
	g.GET("", h.Me)
	g.PUT("", h.UpdateMe)
	g.POST("/password", h.ChangePassword)
}

// RegisterOwner registers the property management surface. Building and
// room CRUD requires the OWNER role; the room status endpoint also
// admits TECHNICIAN so field technicians can flag maintenance.
func RegisterOwner(e *echo.Echo, h *handler.OwnerHandler, accessSecret string, revocations middleware.TokenRevocations) {
	g := e.Group("/v1/owner")
	g.Use(middleware.JWTAuth(accessSecret, revocations))
	g.Use(middleware.RequireRole(model.RoleOwner))
	g.POST("/buildings", h.CreateBuilding)
	g.GET("/buildings", h.ListBuildings)
	g.PUT("/buildings/:id", h.UpdateBuilding)
	g.DELETE("/buildings/:id", h.DeleteBuilding)
	g.POST("/buildings/:id/rooms", h.CreateRoom)
	g.GET("/buildings/:id/rooms", h.ListRooms)
	g.PUT("/rooms/:id", h.UpdateRoom)
	g.DELETE("/rooms/:id", h.DeleteRoom)

	st := e.Group("/v1/rooms")
	st.Use(middleware.JWTAuth(accessSecret, revocations))
	st.Use(middleware.RequireRole(model.RoleOwner, model.RoleTechnician))
	st.PATCH("/:id/status", h.SetRoomStatus)
}

// RegisterAdmin registers administrative account operations behind the
// ADMIN role.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, accessSecret string, revocations middleware.TokenRevocations) {
	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(accessSecret, revocations))
	g.Use(middleware.RequireRole(model.RoleAdmin))
	g.POST("/accounts/:id/ban", h.Ban)
	g.POST("/accounts/:id/unban", h.Unban)
}

// RegisterPublic registers the unauthenticated browse endpoints. The
// optional cache middleware may wrap these GETs; it must never wrap any
// authenticated route, since revocation lookups cannot sit behind a
// cache.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1")
	if cache != nil {
		g.Use(cache)
	}
	g.GET("/buildings", p.ListBuildings)
	g.GET("/buildings/:id/rooms", p.ListAvailableRooms)
}

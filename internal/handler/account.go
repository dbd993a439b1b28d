package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/roomhive/room-rental-api/internal/config"
	"github.com/roomhive/room-rental-api/internal/middleware"
	"github.com/roomhive/room-rental-api/internal/model"
	"github.com/roomhive/room-rental-api/internal/service"
)

// AccountHandler serves the authenticated profile surface.
type AccountHandler struct {
	Cfg      config.Config
	Sessions *service.SessionService
}

func NewAccountHandler(cfg config.Config, s *service.SessionService) *AccountHandler {
	return &AccountHandler{Cfg: cfg, Sessions: s}
}

type updateProfileReq struct {
	FullName    string            `json:"full_name"`
	Phone       string            `json:"phone"`
	Address     model.Address     `json:"address"`
	Preferences model.Preferences `json:"preferences"`
}
type changePasswordReq struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// callerID extracts the authenticated account ID placed by JWTAuth.
func callerID(c echo.Context) (uint64, bool) {
	id, ok := c.Get(middleware.CtxAccountID).(uint64)
	return id, ok && id != 0
}

// Me returns the caller's own account, redacted.
func (h *AccountHandler) Me(c echo.Context) error {
	id, ok := callerID(c)
	if !ok {
		return serviceError(c, h.Cfg.IsDev(), service.E(service.KindUnauthorized, "authentication required"))
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	acct, err := h.Sessions.GetAccount(ctx, id)
	if err != nil {
		return serviceError(c, h.Cfg.IsDev(), err)
	}
	return c.JSON(http.StatusOK, echo.Map{"account": acct})
}

// UpdateMe updates the caller's mutable profile attributes. Email, role
// and password cannot be changed through this endpoint.
func (h *AccountHandler) UpdateMe(c echo.Context) error {
	id, ok := callerID(c)
	if !ok {
		return serviceError(c, h.Cfg.IsDev(), service.E(service.KindUnauthorized, "authentication required"))
	}
	var req updateProfileReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	acct, err := h.Sessions.UpdateProfile(ctx, id, req.FullName, req.Phone, req.Address, req.Preferences)
	if err != nil {
		return serviceError(c, h.Cfg.IsDev(), err)
	}
	return c.JSON(http.StatusOK, echo.Map{"account": acct})
}

// ChangePassword replaces the caller's password after verifying the
// current one.
func (h *AccountHandler) ChangePassword(c echo.Context) error {
	id, ok := callerID(c)
	if !ok {
		return serviceError(c, h.Cfg.IsDev(), service.E(service.KindUnauthorized, "authentication required"))
	}
	var req changePasswordReq
	if err := c.Bind(&req); err != nil || req.CurrentPassword == "" || req.NewPassword == "" {
		return badRequest(c, "current_password and new_password required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Sessions.ChangePassword(ctx, id, req.CurrentPassword, req.NewPassword); err != nil {
		return serviceError(c, h.Cfg.IsDev(), err)
	}
	return c.NoContent(http.StatusNoContent)
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/roomhive/room-rental-api/internal/config"
	"github.com/roomhive/room-rental-api/internal/service"
)

// AdminHandler exposes administrative account operations. Routes using
// it sit behind RequireRole(ADMIN).
type AdminHandler struct {
	Cfg      config.Config
	Sessions *service.SessionService
}

func NewAdminHandler(cfg config.Config, s *service.SessionService) *AdminHandler {
	return &AdminHandler{Cfg: cfg, Sessions: s}
}

// Ban sets the ban flag on an account. Existing access tokens stay valid
// until expiry or revocation; the flag takes effect on the next login or
// refresh.
func (h *AdminHandler) Ban(c echo.Context) error {
	return h.setBan(c, true)
}

// Unban clears the ban flag.
func (h *AdminHandler) Unban(c echo.Context) error {
	return h.setBan(c, false)
}

func (h *AdminHandler) setBan(c echo.Context, banned bool) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return badRequest(c, "invalid account id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Sessions.SetBan(ctx, id, banned); err != nil {
		return serviceError(c, h.Cfg.IsDev(), err)
	}
	return c.NoContent(http.StatusNoContent)
}

package handler

import (
	"context"  // provides context with cancellation for DB calls
	"net/http" // HTTP status codes and primitives
	"strings"  // string manipulation utilities
	"time"     // timeouts for DB calls

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/roomhive/room-rental-api/internal/config"
	"github.com/roomhive/room-rental-api/internal/middleware"
	"github.com/roomhive/room-rental-api/internal/model"
	"github.com/roomhive/room-rental-api/internal/service"
	"github.com/roomhive/room-rental-api/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints. All session logic
// lives in the session service; handlers only decode, delegate and shape
// the response.
type AuthHandler struct {
	Cfg      config.Config
	Sessions *service.SessionService
}

func NewAuthHandler(cfg config.Config, s *service.SessionService) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Sessions: s}
}

// ----- DTOs -----

type registerReq struct {
	FullName    string            `json:"full_name"`
	Email       string            `json:"email"`
	Phone       string            `json:"phone"`
	Password    string            `json:"password"`
	Role        string            `json:"role"` // USER | OWNER, defaults to USER
	Address     model.Address     `json:"address"`
	Preferences model.Preferences `json:"preferences"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}
type revokeReq struct {
	Token string `json:"token"`
}
type forgotPasswordReq struct {
	Email string `json:"email"`
}
type resetPasswordReq struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type authResp struct {
	Account model.PublicAccount `json:"account"`
	Access  tokenPart           `json:"access"`
	Refresh tokenPart           `json:"refresh"`
}

func toAuthResp(r service.AuthResult) authResp {
	return authResp{
		Account: r.Account,
		Access:  tokenPart{Token: r.Tokens.Access.Token, Expires: r.Tokens.Access.Exp},
		Refresh: tokenPart{Token: r.Tokens.Refresh.Token, Expires: r.Tokens.Refresh.Exp},
	}
}

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

// Register creates an account and returns tokens immediately. The
// verification email goes out asynchronously; registration never waits
// on (or fails because of) email delivery.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	res, err := h.Sessions.Register(ctx, service.RegisterRequest{
		FullName:    req.FullName,
		Email:       req.Email,
		Phone:       req.Phone,
		Password:    req.Password,
		Role:        req.Role,
		Address:     req.Address,
		Preferences: req.Preferences,
	})
	if err != nil {
		return serviceError(c, h.Cfg.IsDev(), err)
	}
	return c.JSON(http.StatusCreated, toAuthResp(res))
}

// Login verifies credentials and returns a new token pair. Outstanding
// sessions stay valid; each login is an independent session.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return badRequest(c, "email and password required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	res, err := h.Sessions.Login(ctx, req.Email, req.Password)
	if err != nil {
		return serviceError(c, h.Cfg.IsDev(), err)
	}
	return c.JSON(http.StatusOK, toAuthResp(res))
}

// Refresh exchanges a refresh token for a new access token and a new
// refresh token. The presented refresh token is consumed.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return badRequest(c, "refresh_token required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	res, err := h.Sessions.Refresh(ctx, strings.TrimSpace(req.RefreshToken))
	if err != nil {
		return serviceError(c, h.Cfg.IsDev(), err)
	}
	return c.JSON(http.StatusOK, toAuthResp(res))
}

// Logout revokes the access token that authenticated this request, plus
// the refresh token when the body carries one. Runs behind JWTAuth so
// the gate has already validated the access token.
func (h *AuthHandler) Logout(c echo.Context) error {
	access, _ := c.Get(middleware.CtxAccessToken).(string)
	if access == "" {
		return serviceError(c, h.Cfg.IsDev(), service.E(service.KindUnauthorized, "authentication required"))
	}

	var req refreshReq
	_ = c.Bind(&req) // body is optional

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Sessions.Logout(ctx, access, strings.TrimSpace(req.RefreshToken)); err != nil {
		return serviceError(c, h.Cfg.IsDev(), err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Revoke blacklists an arbitrary token supplied in the body. Possession
// of the token is the only requirement; revoking a token you hold is
// always harmless.
func (h *AuthHandler) Revoke(c echo.Context) error {
	var req revokeReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Token) == "" {
		return badRequest(c, "token required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Sessions.RevokeToken(ctx, strings.TrimSpace(req.Token)); err != nil {
		return serviceError(c, h.Cfg.IsDev(), err)
	}
	return c.NoContent(http.StatusNoContent)
}

// VerifyEmail consumes the verification token from the emailed link.
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	token := strings.TrimSpace(c.QueryParam("token"))
	if token == "" {
		return badRequest(c, "token required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	acct, err := h.Sessions.VerifyEmail(ctx, token)
	if err != nil {
		return serviceError(c, h.Cfg.IsDev(), err)
	}
	return c.JSON(http.StatusOK, echo.Map{"account": acct})
}

// ForgotPassword enqueues a reset email. The response is identical
// whether or not the address is registered.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordReq
	if err := c.Bind(&req); err != nil || !utils.ValidEmail(req.Email) {
		return badRequest(c, "valid email required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Sessions.RequestPasswordReset(ctx, req.Email); err != nil {
		return serviceError(c, h.Cfg.IsDev(), err)
	}
	return c.JSON(http.StatusAccepted, echo.Map{
		"message": "if the email is registered, a reset link has been sent",
	})
}

// ResetPassword consumes a reset token and installs the new password.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Token) == "" || req.NewPassword == "" {
		return badRequest(c, "token and new_password required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Sessions.ResetPassword(ctx, strings.TrimSpace(req.Token), req.NewPassword); err != nil {
		return serviceError(c, h.Cfg.IsDev(), err)
	}
	return c.NoContent(http.StatusNoContent)
}

package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/roomhive/room-rental-api/internal/service"
)

// statusForKind maps service error kinds onto HTTP statuses. The three
// token failure reasons (signature, expiry, revocation) stay distinct in
// the body for diagnostics but all collapse to 401 here.
func statusForKind(k service.Kind) int {
	switch k {
	case service.KindMissingFields, service.KindInvalidEmail,
		service.KindInvalidPhone, service.KindWeakPassword,
		service.KindInvalidResetToken:
		return http.StatusBadRequest
	case service.KindAccountExists:
		return http.StatusConflict
	case service.KindInvalidCredentials, service.KindUnauthorized,
		service.KindInvalidToken, service.KindTokenExpired,
		service.KindTokenRevoked, service.KindInvalidRefreshToken:
		return http.StatusUnauthorized
	case service.KindAccountBanned, service.KindForbidden:
		return http.StatusForbidden
	case service.KindAccountNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// serviceError writes a service failure as the structured error body.
// Internal detail is only attached in a development posture; production
// responses carry the stable kind and the public message, nothing else.
func serviceError(c echo.Context, dev bool, err error) error {
	kind := service.KindOf(err)
	msg := "internal error"
	var se *service.Error
	if errors.As(err, &se) {
		msg = se.Message
	}
	body := echo.Map{"kind": kind, "message": msg}
	if dev && err != nil {
		body["detail"] = err.Error()
	}
	return c.JSON(statusForKind(kind), echo.Map{"error": body})
}

// badRequest writes a transport-level validation failure (unparseable
// body, missing parameter) that never reached the service.
func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{
		"error": echo.Map{"kind": service.KindMissingFields, "message": msg},
	})
}

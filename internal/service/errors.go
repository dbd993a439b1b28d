// Package service implements the session lifecycle: registration, login,
// token refresh, revocation and password management. It is the sole
// issuer and revoker of tokens and the sole writer of password hashes.
package service

import "errors"

// Kind is the stable machine-readable discriminant of a service failure.
// Handlers map kinds onto HTTP statuses; clients key their behavior off
// the kind string, never the human-readable message.
type Kind string

const (
	KindMissingFields       Kind = "MISSING_FIELDS"
	KindInvalidEmail        Kind = "INVALID_EMAIL"
	KindInvalidPhone        Kind = "INVALID_PHONE"
	KindWeakPassword        Kind = "WEAK_PASSWORD"
	KindAccountExists       Kind = "ACCOUNT_EXISTS"
	KindAccountNotFound     Kind = "ACCOUNT_NOT_FOUND"
	KindInvalidCredentials  Kind = "INVALID_CREDENTIALS"
	KindAccountBanned       Kind = "ACCOUNT_BANNED"
	KindUnauthorized        Kind = "UNAUTHORIZED"
	KindForbidden           Kind = "FORBIDDEN"
	KindInvalidToken        Kind = "INVALID_TOKEN"
	KindTokenExpired        Kind = "TOKEN_EXPIRED"
	KindTokenRevoked        Kind = "TOKEN_REVOKED"
	KindInvalidRefreshToken Kind = "INVALID_REFRESH_TOKEN"
	KindInvalidResetToken   Kind = "INVALID_RESET_TOKEN"
	KindInternal            Kind = "INTERNAL"
)

// Error is a tagged failure. The Kind is fixed at construction and never
// derived from the message, so responses stay stable across wording
// changes.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// E builds a service error with the given kind and message.
func E(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// wrapE attaches an underlying cause for diagnostics. The cause is never
// serialized into responses outside the dev environment.
func wrapE(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, cause: cause}
}

// KindOf extracts the Kind from an error chain. Unknown errors report
// KindInternal so nothing unexpected leaks through the boundary.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}

// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// session service and handlers to distinguish between different failure
// scenarios without depending on driver-level error codes.
package repository

import "errors"

// ErrNotFound is returned when a lookup matches no row. Repositories
// translate sql.ErrNoRows into this sentinel so callers never depend on
// database/sql directly.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when an insert violates the unique index on
// accounts.email. The unique index is the source of truth for duplicate
// identities; any pre-insert existence check is only an optimization.
var ErrEmailExists = errors.New("email already exists")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers should translate this into an HTTP
// 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a delete or update cannot be performed
// because of conflicting state, such as deleting a building that still
// has rooms. Handlers should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// inspecting driver-specific errors. For example, ErrNotFound covers any
// lookup that matched no row, while ErrEmailExists signals that the
// uniqueness constraint on users.email rejected an insert.
package repository

import "errors"

// ErrNotFound is returned when a lookup matches no row. Handlers should
// translate this into an HTTP 404 response (or 401 when the missing row
// is the authenticated user itself).
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when registering with an email that is
// already taken. The check is enforced by the database's unique index on
// the email column, not by an application-level read-then-insert, so two
// concurrent registrations cannot both succeed. Handlers should translate
// this into an HTTP 409 response.
var ErrEmailExists = errors.New("email already exists")

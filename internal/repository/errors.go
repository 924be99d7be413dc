// Package repository defines the persistence interfaces consumed by the
// handlers and middleware, their MySQL implementations, and the sentinel
// errors shared between them.  Handlers match these sentinels with
// errors.Is to translate expected conditions (duplicate user, missing
// session) into client responses; any other error from a repository is a
// dependency fault and is surfaced as a generic server error.
package repository

import "errors"

// ErrUserExists is returned when an insert collides with an existing
// username or email.  Handlers should translate this into an HTTP 409
// response.
var ErrUserExists = errors.New("user already exists")

// ErrUserNotFound is returned when no user matches the lookup.  Absence
// is an expected outcome, not a fault.
var ErrUserNotFound = errors.New("user not found")

// ErrDuplicateToken is returned when a session insert collides with an
// existing token value.  Token values are globally unique; a collision
// must never be silently overwritten.
var ErrDuplicateToken = errors.New("duplicate session token")

// ErrTokenNotFound is returned when no active session matches the lookup
// or when a deactivation finds nothing left to revoke.
var ErrTokenNotFound = errors.New("session token not found")

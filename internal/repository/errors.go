// Package repository implements data access over MySQL.  Row-shaped
// failures are translated into the domain sentinels from the model
// package at this boundary; anything else bubbles up wrapped so the
// handlers report it as a persistence failure rather than a domain
// outcome.
package repository

import "errors"

// ErrEmailExists is returned when registration collides with an
// existing user's email. Handlers translate this into HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to perform an operation on a resource owned by
// someone else, while ErrConflict signals that an operation
// cannot proceed because of the target's current state (e.g.
// deleting a facility that still has live bookings, or approving
// a booking that is no longer pending).
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an update or delete cannot be
// performed because of conflicting state, such as cancelling a
// booking that has already been approved. Handlers should
// translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrFacilityNotFound is returned when a facility lookup matches no row.
var ErrFacilityNotFound = errors.New("facility not found")

// ErrBookingNotFound is returned when a booking lookup matches no row.
var ErrBookingNotFound = errors.New("booking not found")

// ErrOverlap is returned by the checked create when the requested
// window collides with an existing pending or approved booking on the
// same facility and day.
var ErrOverlap = errors.New("booking overlaps an existing booking")

// ErrEmailExists is returned when registering a user with an email
// that is already taken.
var ErrEmailExists = errors.New("email already exists")

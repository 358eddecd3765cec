// Package repository defines error types that are reused across
// multiple repositories. These sentinel values allow higher layers
// such as handlers to distinguish between different failure
// scenarios. For example, ErrForbidden indicates that the current
// user is not authorized to perform an operation on a resource owned
// by someone else, while ErrSlotUnavailable signals that a requested
// court interval is already held or confirmed by another booking.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrGroundNotFound is returned when a ground does not exist or is
// not visible to the caller. Handlers translate this into 404.
var ErrGroundNotFound = errors.New("ground not found")

// ErrBookingNotFound is returned when a booking does not exist.
// Handlers translate this into 404.
var ErrBookingNotFound = errors.New("booking not found")

// ErrSlotUnavailable is returned when at least one requested court
// conflicts with an existing pending or confirmed booking for the
// same date and overlapping hours. Handlers translate this into 409.
var ErrSlotUnavailable = errors.New("slot unavailable")

// ErrInvalidState is returned when a status transition is attempted
// that the booking lifecycle does not permit, such as cancelling an
// already expired booking. Handlers translate this into 409.
var ErrInvalidState = errors.New("invalid state")

// ErrUnknownCourt is returned when a requested court id does not
// belong to the ground being booked or is inactive.
var ErrUnknownCourt = errors.New("unknown court")

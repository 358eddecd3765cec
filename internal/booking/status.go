// Package booking holds the pure reservation rules: slot overlap
// arithmetic, request validation against a ground's operating window,
// price quoting, the booking status machine and the refund policy.
// Nothing in this package touches the database; repositories and
// handlers compose these rules inside transactions.
package booking

import "time"

// Booking lifecycle states as stored in bookings.status.
const (
    StatusPending   = "PENDING"
    StatusConfirmed = "CONFIRMED"
    StatusCancelled = "CANCELLED"
    StatusExpired   = "EXPIRED"
    StatusCompleted = "COMPLETED"
)

// transitions enumerates every legal status change.  CANCELLED,
// EXPIRED and COMPLETED are terminal; nothing leaves them.
var transitions = map[string]map[string]bool{
    StatusPending: {
        StatusConfirmed: true,
        StatusExpired:   true,
        StatusCancelled: true, // a pending booking may be cancelled before payment
    },
    StatusConfirmed: {
        StatusCancelled: true,
        StatusCompleted: true,
    },
}

// CanTransition reports whether a booking in state from may move to
// state to.  Unknown states never transition.
func CanTransition(from, to string) bool {
    return transitions[from][to]
}

// Terminal reports whether a state admits no further transitions.
func Terminal(status string) bool {
    return len(transitions[status]) == 0
}

// Cancellable reports whether a booking in the given state may be
// cancelled at all (date checks are separate).
func Cancellable(status string) bool {
    return CanTransition(status, StatusCancelled)
}

// EffectiveStatus resolves the status a booking should be reported
// as at time now.  A PENDING booking whose hold window has elapsed
// reads as EXPIRED even before the sweep has rewritten the row, so
// no stale hold is ever presented as occupying a slot.
func EffectiveStatus(status string, createdAt time.Time, holdWindow time.Duration, now time.Time) string {
    if status == StatusPending && !createdAt.Add(holdWindow).After(now) {
        return StatusExpired
    }
    return status
}

package booking

import (
    "errors"
    "fmt"
    "time"

    "github.com/playspot/ground-reservation/internal/model"
)

// DateLayout is the wire format for calendar dates in requests and
// responses.  Dates are timezone-naive; all comparisons happen in UTC.
const DateLayout = "2006-01-02"

// Sentinel validation errors.  Handlers translate these into the
// HTTP error taxonomy: ErrInvalidRequest maps to 400,
// ErrOutsideOperatingHours to 422 and conflicts (detected at the
// repository layer) to 409.
var (
    ErrInvalidRequest        = errors.New("invalid request")
    ErrOutsideOperatingHours = errors.New("outside operating hours")
)

// Slot is a half-open [StartHour, EndHour) run of whole hours on a
// single date.  EndHour is always strictly greater than StartHour.
type Slot struct {
    StartHour int
    EndHour   int
}

// Overlaps reports whether two slots share at least one hour.  Two
// half-open intervals [s1,e1) and [s2,e2) conflict iff s1 < e2 and
// s2 < e1; back-to-back slots such as [13,15) and [15,17) do not.
func (s Slot) Overlaps(o Slot) bool {
    return s.StartHour < o.EndHour && o.StartHour < s.EndHour
}

// Request carries the validated inputs of a booking attempt.  Court
// IDs are an all-or-nothing set: if any requested court conflicts,
// the whole request is rejected.
type Request struct {
    GroundID      uint64
    CourtIDs      []uint64
    Sport         string
    Date          time.Time
    StartHour     int
    DurationHours int
    Players       int
}

// Slot returns the hour interval the request asks for.
func (r Request) Slot() Slot {
    return Slot{StartHour: r.StartHour, EndHour: r.StartHour + r.DurationHours}
}

// StartsAt returns the combined date and start hour of the request.
func (r Request) StartsAt() time.Time {
    return r.Date.Add(time.Duration(r.StartHour) * time.Hour)
}

// MaxDurationHours bounds a single booking; longer blocks must be
// arranged with the ground owner directly.
const MaxDurationHours = 8

// Validate checks a request against the ground's calendar and
// operating window.  Checks run in a fixed order and fail fast:
// date not in the past, weekday worked, slot inside open hours,
// duration in range, court set non-empty.  Court membership and
// conflict checks need the database and happen later inside the
// reservation transaction.
func Validate(g model.Ground, r Request, now time.Time) error {
    today := now.UTC().Truncate(24 * time.Hour)
    if r.Date.Before(today) {
        return fmt.Errorf("%w: date %s is in the past", ErrInvalidRequest, r.Date.Format(DateLayout))
    }
    if !g.WorksOn(r.Date.Weekday()) {
        return fmt.Errorf("%w: ground does not open on %s", ErrOutsideOperatingHours, model.DayAbbrev(r.Date.Weekday()))
    }
    if r.DurationHours < 1 || r.DurationHours > MaxDurationHours {
        return fmt.Errorf("%w: duration must be between 1 and %d hours", ErrInvalidRequest, MaxDurationHours)
    }
    s := r.Slot()
    if s.StartHour < g.OpenHour || s.EndHour > g.CloseHour {
        return fmt.Errorf("%w: slot %02d:00-%02d:00 outside %02d:00-%02d:00",
            ErrOutsideOperatingHours, s.StartHour, s.EndHour, g.OpenHour, g.CloseHour)
    }
    if len(r.CourtIDs) == 0 {
        return fmt.Errorf("%w: at least one court is required", ErrInvalidRequest)
    }
    if r.Players < 1 {
        return fmt.Errorf("%w: players must be positive", ErrInvalidRequest)
    }
    return nil
}

// Quote computes the total price of a request against a ground.  The
// weekday or weekend rate is selected by the calendar day, then
// multiplied by the duration and the number of courts.  The result
// is fixed on the booking at creation and never recomputed.
func Quote(g model.Ground, r Request) uint32 {
    return g.PriceFor(r.Date) * uint32(r.DurationHours) * uint32(len(r.CourtIDs))
}

package model

import "time"

// Court represents a single bookable playing surface inside a
// ground.  Courts are the unit of exclusivity: two bookings may
// never hold the same court for overlapping hours on the same date.
//
// Fields:
//  ID        – primary key identifier.
//  GroundID  – ground this court belongs to.
//  Label     – short human label unique within the ground (e.g. "C1").
//  Sport     – sport hosted on this court (e.g. FOOTBALL, BADMINTON).
//  IsActive  – whether the court can currently be booked.
//  CreatedAt – creation timestamp.
type Court struct {
    ID        uint64    // courts.id
    GroundID  uint64    // courts.ground_id
    Label     string    // courts.label
    Sport     string    // courts.sport
    IsActive  bool      // courts.is_active
    CreatedAt time.Time // courts.created_at
}

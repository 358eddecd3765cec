package model

import "time"

// Booking records a user's reservation of one or more courts on a
// ground for a contiguous run of whole hours on a single date.  The
// courts reserved under a booking live in the booking_courts table.
// A booking starts life as PENDING, holding its interval against
// other requests, and only becomes CONFIRMED once the linked payment
// is captured.  Total amount is fixed at creation time; later price
// changes on the ground never affect an existing booking.
//
// Fields:
//  ID               – primary key identifier.
//  GroundID         – ground being booked.
//  UserID           – requesting player.
//  Sport            – sport the booking is for.
//  PlayDate         – calendar date of play (date only, no time part).
//  StartHour        – first reserved hour (24h clock).
//  DurationHours    – whole hours reserved; end hour is StartHour+DurationHours.
//  Players          – number of players declared by the requester.
//  TotalAmountCents – total price fixed at creation.
//  Currency         – ISO currency code copied from the ground.
//  Status           – lifecycle state, see the Booking* constants.
//  CancelReason     – reason recorded on cancellation (nullable).
//  CreatedAt        – creation timestamp; also the start of the hold window.
//  StatusChangedAt  – timestamp of the last status transition.
type Booking struct {
    ID               uint64     // bookings.id
    GroundID         uint64     // bookings.ground_id
    UserID           uint64     // bookings.user_id
    Sport            string     // bookings.sport
    PlayDate         time.Time  // bookings.play_date
    StartHour        int        // bookings.start_hour
    DurationHours    int        // bookings.duration_hours
    Players          int        // bookings.players
    TotalAmountCents uint32     // bookings.total_amount_cents
    Currency         string     // bookings.currency
    Status           string     // bookings.status
    CancelReason     *string    // bookings.cancel_reason (nullable)
    CreatedAt        time.Time  // bookings.created_at
    StatusChangedAt  time.Time  // bookings.status_changed_at
}

// BookingCourt links a booking to one court it reserves.  All courts
// of a booking are reserved and released together.
//
// Fields:
//  ID        – primary key identifier.
//  BookingID – owning booking.
//  CourtID   – reserved court.
type BookingCourt struct {
    ID        uint64 // booking_courts.id
    BookingID uint64 // booking_courts.booking_id
    CourtID   uint64 // booking_courts.court_id
}

package model

import (
    "strings"
    "time"
)

// Ground represents a sports venue listed by an owner.  A ground
// groups one or more courts and carries the operating window and
// pricing used when a booking is created.  Operating hours are
// timezone-naive whole hours on a 24h clock; a ground open 06:00 to
// 22:00 stores OpenHour=6 and CloseHour=22.
//
// Fields:
//  ID                – primary key identifier.
//  OwnerID           – user ID of the facility owner.
//  Name              – display name of the ground.
//  City              – city where the ground is located.
//  OpenHour          – first bookable hour of the day.
//  CloseHour         – hour at which the ground closes (exclusive).
//  WorkingDays       – comma separated day abbreviations (MON..SUN).
//  WeekdayPriceCents – per court per hour price Monday–Friday.
//  WeekendPriceCents – per court per hour price Saturday/Sunday.
//  Currency          – ISO currency code for all prices.
//  Status            – ACTIVE or INACTIVE.
//  CreatedAt         – creation timestamp.
//  UpdatedAt         – last update timestamp.
type Ground struct {
    ID                uint64    // grounds.id
    OwnerID           uint64    // grounds.owner_id
    Name              string    // grounds.name
    City              string    // grounds.city
    OpenHour          int       // grounds.open_hour
    CloseHour         int       // grounds.close_hour
    WorkingDays       string    // grounds.working_days (e.g. "MON,TUE,WED")
    WeekdayPriceCents uint32    // grounds.weekday_price_cents
    WeekendPriceCents uint32    // grounds.weekend_price_cents
    Currency          string    // grounds.currency
    Status            string    // grounds.status (ACTIVE, INACTIVE)
    CreatedAt         time.Time // grounds.created_at
    UpdatedAt         time.Time // grounds.updated_at
}

// Ground status values.
const (
    GroundActive   = "ACTIVE"
    GroundInactive = "INACTIVE"
)

// dayAbbrev maps time.Weekday to the three letter form stored in
// grounds.working_days.
var dayAbbrev = map[time.Weekday]string{
    time.Monday:    "MON",
    time.Tuesday:   "TUE",
    time.Wednesday: "WED",
    time.Thursday:  "THU",
    time.Friday:    "FRI",
    time.Saturday:  "SAT",
    time.Sunday:    "SUN",
}

// DayAbbrev returns the stored abbreviation for a weekday.
func DayAbbrev(d time.Weekday) string { return dayAbbrev[d] }

// ValidDayAbbrev reports whether s is one of the seven recognised
// day abbreviations.  Comparison is case insensitive.
func ValidDayAbbrev(s string) bool {
    s = strings.ToUpper(strings.TrimSpace(s))
    for _, v := range dayAbbrev {
        if v == s {
            return true
        }
    }
    return false
}

// WorksOn reports whether the ground operates on the given weekday.
func (g Ground) WorksOn(d time.Weekday) bool {
    want := dayAbbrev[d]
    for _, part := range strings.Split(g.WorkingDays, ",") {
        if strings.ToUpper(strings.TrimSpace(part)) == want {
            return true
        }
    }
    return false
}

// PriceFor returns the per court per hour price applicable to the
// given calendar date.  Saturday and Sunday use the weekend price,
// every other day the weekday price.
func (g Ground) PriceFor(date time.Time) uint32 {
    switch date.Weekday() {
    case time.Saturday, time.Sunday:
        return g.WeekendPriceCents
    default:
        return g.WeekdayPriceCents
    }
}

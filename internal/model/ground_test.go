package model

import (
    "testing"
    "time"
)

func TestWorksOn(t *testing.T) {
    g := Ground{WorkingDays: "MON,WED,FRI,SAT"}

    cases := []struct {
        day  time.Weekday
        want bool
    }{
        {time.Monday, true},
        {time.Tuesday, false},
        {time.Wednesday, true},
        {time.Friday, true},
        {time.Saturday, true},
        {time.Sunday, false},
    }
    for _, tc := range cases {
        if got := g.WorksOn(tc.day); got != tc.want {
            t.Errorf("WorksOn(%s) = %v, want %v", tc.day, got, tc.want)
        }
    }
}

func TestWorksOnToleratesSpacingAndCase(t *testing.T) {
    g := Ground{WorkingDays: " mon , Tue,SUN "}
    for _, day := range []time.Weekday{time.Monday, time.Tuesday, time.Sunday} {
        if !g.WorksOn(day) {
            t.Errorf("WorksOn(%s) = false, want true", day)
        }
    }
}

func TestPriceFor(t *testing.T) {
    g := Ground{WeekdayPriceCents: 600, WeekendPriceCents: 900}

    // 2026-09-04 is a Friday, 2026-09-05 a Saturday, 2026-09-06 a Sunday.
    friday := time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC)
    saturday := time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)
    sunday := time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC)

    if got := g.PriceFor(friday); got != 600 {
        t.Errorf("PriceFor(friday) = %d, want 600", got)
    }
    if got := g.PriceFor(saturday); got != 900 {
        t.Errorf("PriceFor(saturday) = %d, want 900", got)
    }
    if got := g.PriceFor(sunday); got != 900 {
        t.Errorf("PriceFor(sunday) = %d, want 900", got)
    }
}

func TestValidDayAbbrev(t *testing.T) {
    for _, ok := range []string{"MON", "sun", " Fri "} {
        if !ValidDayAbbrev(ok) {
            t.Errorf("ValidDayAbbrev(%q) = false, want true", ok)
        }
    }
    for _, bad := range []string{"", "MONDAY", "XYZ", "M"} {
        if ValidDayAbbrev(bad) {
            t.Errorf("ValidDayAbbrev(%q) = true, want false", bad)
        }
    }
}

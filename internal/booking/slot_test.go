package booking

import (
	"errors"
	"testing"
	"time"

	"github.com/playspot/ground-reservation/internal/model"
)

func testGround() model.Ground {
	return model.Ground{
		ID:                1,
		OpenHour:          6,
		CloseHour:         22,
		WorkingDays:       "MON,TUE,WED,THU,FRI,SAT,SUN",
		WeekdayPriceCents: 600,
		WeekendPriceCents: 800,
		Currency:          "INR",
		Status:            model.GroundActive,
	}
}

// nextWeekday returns the next occurrence of d strictly after now.
func nextWeekday(now time.Time, d time.Weekday) time.Time {
	t := now.UTC().Truncate(24 * time.Hour)
	for {
		t = t.Add(24 * time.Hour)
		if t.Weekday() == d {
			return t
		}
	}
}

func TestSlotOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Slot
		want bool
	}{
		{"identical", Slot{13, 15}, Slot{13, 15}, true},
		{"partial", Slot{13, 15}, Slot{14, 16}, true},
		{"contained", Slot{13, 17}, Slot{14, 15}, true},
		{"back to back", Slot{13, 15}, Slot{15, 17}, false},
		{"disjoint", Slot{6, 8}, Slot{10, 12}, false},
		{"touching before", Slot{10, 12}, Slot{8, 10}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("%v overlaps %v = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			// overlap is symmetric
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("%v overlaps %v = %v, want %v", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	g := testGround()
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC) // a Monday
	monday := nextWeekday(now, time.Monday)

	base := Request{
		GroundID:      g.ID,
		CourtIDs:      []uint64{11},
		Sport:         "FOOTBALL",
		Date:          monday,
		StartHour:     13,
		DurationHours: 2,
		Players:       10,
	}

	tests := []struct {
		name    string
		mutate  func(*Request)
		ground  func(*model.Ground)
		wantErr error
	}{
		{"valid", nil, nil, nil},
		{"yesterday", func(r *Request) { r.Date = now.Truncate(24 * time.Hour).Add(-24 * time.Hour) }, nil, ErrInvalidRequest},
		{"today is allowed", func(r *Request) { r.Date = now.Truncate(24 * time.Hour) }, nil, nil},
		{"before open", func(r *Request) { r.StartHour = 5; r.DurationHours = 1 }, nil, ErrOutsideOperatingHours},
		{"runs past close", func(r *Request) { r.StartHour = 21; r.DurationHours = 2 }, nil, ErrOutsideOperatingHours},
		{"ends exactly at close", func(r *Request) { r.StartHour = 20; r.DurationHours = 2 }, nil, nil},
		{"zero duration", func(r *Request) { r.DurationHours = 0 }, nil, ErrInvalidRequest},
		{"too long", func(r *Request) { r.StartHour = 6; r.DurationHours = MaxDurationHours + 1 }, nil, ErrInvalidRequest},
		{"no courts", func(r *Request) { r.CourtIDs = nil }, nil, ErrInvalidRequest},
		{"zero players", func(r *Request) { r.Players = 0 }, nil, ErrInvalidRequest},
		{"non working day", nil, func(g *model.Ground) { g.WorkingDays = "TUE,WED" }, ErrOutsideOperatingHours},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := base
			r.CourtIDs = append([]uint64(nil), base.CourtIDs...)
			if tt.mutate != nil {
				tt.mutate(&r)
			}
			gr := g
			if tt.ground != nil {
				tt.ground(&gr)
			}
			err := Validate(gr, r, now)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestQuote(t *testing.T) {
	g := testGround()
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	monday := nextWeekday(now, time.Monday)
	saturday := nextWeekday(now, time.Saturday)

	tests := []struct {
		name   string
		req    Request
		want   uint32
	}{
		{"weekday two hours one court", Request{Date: monday, DurationHours: 2, CourtIDs: []uint64{1}}, 1200},
		{"weekday one hour two courts", Request{Date: monday, DurationHours: 1, CourtIDs: []uint64{1, 2}}, 1200},
		{"weekend rate", Request{Date: saturday, DurationHours: 2, CourtIDs: []uint64{1}}, 1600},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Quote(g, tt.req); got != tt.want {
				t.Errorf("Quote() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRequestSlotAndStart(t *testing.T) {
	d := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	r := Request{Date: d, StartHour: 13, DurationHours: 2}
	if s := r.Slot(); s.StartHour != 13 || s.EndHour != 15 {
		t.Errorf("Slot() = %+v, want [13,15)", s)
	}
	want := time.Date(2026, 3, 9, 13, 0, 0, 0, time.UTC)
	if got := r.StartsAt(); !got.Equal(want) {
		t.Errorf("StartsAt() = %v, want %v", got, want)
	}
}

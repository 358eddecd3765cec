package booking

import (
	"testing"
	"time"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusExpired, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusExpired, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusExpired, StatusConfirmed, false},
		{StatusCompleted, StatusCancelled, false},
		{"BOGUS", StatusConfirmed, false},
	}
	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestTerminal(t *testing.T) {
	for _, s := range []string{StatusCancelled, StatusExpired, StatusCompleted} {
		if !Terminal(s) {
			t.Errorf("Terminal(%s) = false, want true", s)
		}
	}
	for _, s := range []string{StatusPending, StatusConfirmed} {
		if Terminal(s) {
			t.Errorf("Terminal(%s) = true, want false", s)
		}
	}
}

func TestEffectiveStatus(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	hold := 15 * time.Minute

	tests := []struct {
		name      string
		status    string
		createdAt time.Time
		want      string
	}{
		{"fresh pending holds", StatusPending, now.Add(-5 * time.Minute), StatusPending},
		{"stale pending reads expired", StatusPending, now.Add(-16 * time.Minute), StatusExpired},
		{"exactly at window boundary expires", StatusPending, now.Add(-hold), StatusExpired},
		{"confirmed unaffected by age", StatusConfirmed, now.Add(-24 * time.Hour), StatusConfirmed},
		{"cancelled unaffected", StatusCancelled, now.Add(-time.Hour), StatusCancelled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EffectiveStatus(tt.status, tt.createdAt, hold, now); got != tt.want {
				t.Errorf("EffectiveStatus() = %s, want %s", got, tt.want)
			}
		})
	}
}

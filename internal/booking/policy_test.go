package booking

import (
	"testing"
	"time"
)

func TestParseRefundPolicy(t *testing.T) {
	p, err := ParseRefundPolicy("6:0.5, 24:1, 0:0")
	if err != nil {
		t.Fatalf("ParseRefundPolicy: %v", err)
	}
	// rules are sorted most generous first regardless of input order
	if p[0].ThresholdHours != 24 || p[1].ThresholdHours != 6 || p[2].ThresholdHours != 0 {
		t.Fatalf("unexpected rule order: %+v", p)
	}

	bad := []string{"", "x:1", "24:1.5", "-1:0.5", "24", "24:"}
	for _, s := range bad {
		if _, err := ParseRefundPolicy(s); err == nil {
			t.Errorf("ParseRefundPolicy(%q) succeeded, want error", s)
		}
	}
}

func TestRefundFraction(t *testing.T) {
	p, err := ParseRefundPolicy("24:1,6:0.5,0:0")
	if err != nil {
		t.Fatalf("ParseRefundPolicy: %v", err)
	}
	tests := []struct {
		name       string
		untilStart time.Duration
		want       float64
	}{
		{"three days out", 72 * time.Hour, 1},
		{"exactly 24h", 24 * time.Hour, 1},
		{"12h out", 12 * time.Hour, 0.5},
		{"exactly 6h", 6 * time.Hour, 0.5},
		{"one hour out", time.Hour, 0},
		{"already started", -time.Hour, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Fraction(tt.untilStart); got != tt.want {
				t.Errorf("Fraction(%v) = %v, want %v", tt.untilStart, got, tt.want)
			}
		})
	}
}

func TestRefundAmount(t *testing.T) {
	p, _ := ParseRefundPolicy("24:1,6:0.5,0:0")
	if got := p.RefundAmount(1200, 72*time.Hour); got != 1200 {
		t.Errorf("full refund = %d, want 1200", got)
	}
	if got := p.RefundAmount(1200, 12*time.Hour); got != 600 {
		t.Errorf("half refund = %d, want 600", got)
	}
	if got := p.RefundAmount(1200, time.Minute); got != 0 {
		t.Errorf("late refund = %d, want 0", got)
	}
	// odd amounts round down to whole minor units
	if got := p.RefundAmount(1201, 12*time.Hour); got != 600 {
		t.Errorf("rounded refund = %d, want 600", got)
	}
}

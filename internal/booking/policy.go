package booking

import (
    "fmt"
    "sort"
    "strconv"
    "strings"
    "time"
)

// RefundRule grants a refund fraction when a booking is cancelled at
// least ThresholdHours before its start.
type RefundRule struct {
    ThresholdHours int
    Fraction       float64
}

// RefundPolicy is an ordered set of refund rules, most generous
// (largest threshold) first.  The policy is total: Fraction returns
// a defined value for every possible lead time, falling back to zero
// when no rule matches.
type RefundPolicy []RefundRule

// ParseRefundPolicy reads a policy from its configuration form, a
// comma separated list of "thresholdHours:fraction" pairs, e.g.
// "24:1,6:0.5,0:0".  Fractions must lie in [0,1] and thresholds must
// be non-negative.  Rules may appear in any order.
func ParseRefundPolicy(s string) (RefundPolicy, error) {
    var p RefundPolicy
    for _, part := range strings.Split(s, ",") {
        part = strings.TrimSpace(part)
        if part == "" {
            continue
        }
        kv := strings.SplitN(part, ":", 2)
        if len(kv) != 2 {
            return nil, fmt.Errorf("refund policy: malformed rule %q", part)
        }
        hours, err := strconv.Atoi(strings.TrimSpace(kv[0]))
        if err != nil || hours < 0 {
            return nil, fmt.Errorf("refund policy: bad threshold in %q", part)
        }
        frac, err := strconv.ParseFloat(strings.TrimSpace(kv[1]), 64)
        if err != nil || frac < 0 || frac > 1 {
            return nil, fmt.Errorf("refund policy: bad fraction in %q", part)
        }
        p = append(p, RefundRule{ThresholdHours: hours, Fraction: frac})
    }
    if len(p) == 0 {
        return nil, fmt.Errorf("refund policy: no rules in %q", s)
    }
    sort.Slice(p, func(i, j int) bool { return p[i].ThresholdHours > p[j].ThresholdHours })
    return p, nil
}

// Fraction returns the refund fraction applicable when cancelling
// untilStart before the booked start time.  Negative lead times
// (start already passed) refund nothing.
func (p RefundPolicy) Fraction(untilStart time.Duration) float64 {
    for _, r := range p {
        if untilStart >= time.Duration(r.ThresholdHours)*time.Hour {
            return r.Fraction
        }
    }
    return 0
}

// RefundAmount applies the policy to a captured amount, rounding
// down to whole minor units.  Nothing captured means nothing owed.
func (p RefundPolicy) RefundAmount(capturedCents uint32, untilStart time.Duration) uint32 {
    return uint32(float64(capturedCents) * p.Fraction(untilStart))
}

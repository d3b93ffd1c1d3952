package security

import (
	"math"
	"regexp"
	"strconv"
	"time"
)

var (
	bareMillis    = regexp.MustCompile(`^\d+$`)
	expiryPattern = regexp.MustCompile(`^(\d+)(ms|s|m|h|d)$`)

	expiryUnits = map[string]time.Duration{
		"ms": time.Millisecond,
		"s":  time.Second,
		"m":  time.Minute,
		"h":  time.Hour,
		"d":  24 * time.Hour,
	}
)

// ParseExpiry parses a bare integer (milliseconds) or an integer followed by
// one of ms, s, m, h, d. The boolean is false when value is empty or not in
// either form, or when the duration would overflow; callers then apply
// their own default.
func ParseExpiry(value string) (time.Duration, bool) {
	if value == "" {
		return 0, false
	}

	digits, unit := value, time.Millisecond
	if !bareMillis.MatchString(value) {
		m := expiryPattern.FindStringSubmatch(value)
		if m == nil {
			return 0, false
		}
		digits, unit = m[1], expiryUnits[m[2]]
	}

	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || n > math.MaxInt64/int64(unit) {
		return 0, false
	}
	return time.Duration(n) * unit, true
}

// ExpiryOrDefault parses value and falls back to def when it cannot.
func ExpiryOrDefault(value string, def time.Duration) time.Duration {
	if d, ok := ParseExpiry(value); ok {
		return d
	}
	return def
}

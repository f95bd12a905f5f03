package schedule

import (
	"cmp"
	"fmt"
	"regexp"
	"time"
)

// Intervals are half-open: [start, end). Touching endpoints never overlap.

func Overlaps[T cmp.Ordered](startA, endA, startB, endB T) bool {
	return startA < endB && endA > startB
}

func OverlapsTime(startA, endA, startB, endB time.Time) bool {
	return startA.Before(endB) && endA.After(startB)
}

func ValidRange[T cmp.Ordered](start, end T) bool {
	return start < end
}

var clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// ValidClock accepts zero-padded 24h "HH:MM" strings. Because of the fixed
// width, valid clocks order correctly as plain strings.
func ValidClock(s string) bool {
	return clockPattern.MatchString(s)
}

// ClockOn places an "HH:MM" clock on the calendar day of d, in loc.
func ClockOn(d time.Time, hm string, loc *time.Location) (time.Time, error) {
	if !ValidClock(hm) {
		return time.Time{}, fmt.Errorf("invalid clock %q", hm)
	}
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
}

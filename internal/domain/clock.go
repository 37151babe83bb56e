package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ClockSentinel is rendered in place of a clock string when the instant is
// missing or invalid, so display code never crashes on partial data.
const ClockSentinel = "--:--"

// ErrInvalidTimeOfDay reports a clock string that could not be parsed.
type ErrInvalidTimeOfDay struct {
	Input string
}

func (e *ErrInvalidTimeOfDay) Error() string {
	return fmt.Sprintf("invalid time of day %q (expected HH:MM, 00:00-23:59)", e.Input)
}

// ParseTimeOfDay resolves an "H:MM" or "HH:MM" clock string against now.
// The result is anchored to now's calendar date; if that instant has already
// passed, it is advanced to the same time tomorrow. The returned instant is
// therefore always present-or-future relative to now.
func ParseTimeOfDay(s string, now time.Time) (time.Time, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return time.Time{}, &ErrInvalidTimeOfDay{Input: s}
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || len(parts[0]) == 0 || len(parts[0]) > 2 {
		return time.Time{}, &ErrInvalidTimeOfDay{Input: s}
	}

	minute, err := strconv.Atoi(parts[1])
	if err != nil || len(parts[1]) != 2 {
		return time.Time{}, &ErrInvalidTimeOfDay{Input: s}
	}

	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return time.Time{}, &ErrInvalidTimeOfDay{Input: s}
	}

	t := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if t.Before(now) {
		t = t.AddDate(0, 0, 1)
	}

	return t, nil
}

// FormatClock renders an instant as a human-facing 12-hour clock string
// ("08:05 AM"). Zero-value instants format to ClockSentinel.
func FormatClock(t time.Time) string {
	if t.IsZero() {
		return ClockSentinel
	}
	return t.Format("03:04 PM")
}

// FormatClock24 renders the canonical 24-hour "HH:MM" form used for
// machine-readable round-tripping. Zero-value instants format to ClockSentinel.
func FormatClock24(t time.Time) string {
	if t.IsZero() {
		return ClockSentinel
	}
	return t.Format("15:04")
}

func AddMinutes(t time.Time, n int) time.Time {
	return t.Add(time.Duration(n) * time.Minute)
}

// MinutesBetween returns the signed number of minutes from a to b, rounded
// to the nearest whole minute.
func MinutesBetween(a, b time.Time) int {
	return int(math.Round(b.Sub(a).Minutes()))
}

// NextQuarterHour returns now rounded up to the next 15-minute boundary.
// A one-second forward buffer guarantees the result is strictly after now,
// even when now sits exactly on a boundary.
func NextQuarterHour(now time.Time) time.Time {
	buffered := now.Add(time.Second)
	rounded := buffered.Truncate(15 * time.Minute)
	if rounded.Before(buffered) {
		rounded = rounded.Add(15 * time.Minute)
	}
	return rounded
}

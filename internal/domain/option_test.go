package domain

import (
	"testing"
	"time"
)

func TestSortOptionsByDeparture(t *testing.T) {
	at := func(h, m int) time.Time {
		return time.Date(2026, 3, 10, h, m, 0, 0, time.UTC)
	}

	options := []DepartureOption{
		{DepartAt: at(8, 30), DurationSeconds: 1500},
		{DepartAt: time.Time{}, DurationSeconds: 900}, // malformed entry
		{DepartAt: at(8, 0), DurationSeconds: 1600},
		{DepartAt: at(8, 15), DurationSeconds: 1550},
	}

	SortOptionsByDeparture(options)

	wantOrder := []time.Time{at(8, 0), at(8, 15), at(8, 30), {}}
	for i, want := range wantOrder {
		if !options[i].DepartAt.Equal(want) {
			t.Fatalf("position %d: got %v, want %v", i, options[i].DepartAt, want)
		}
	}
}

func TestTrafficConditionRoundTrip(t *testing.T) {
	for _, c := range []TrafficCondition{TrafficLight, TrafficModerate, TrafficHeavy, TrafficSevere} {
		if got := ParseTrafficCondition(c.String()); got != c {
			t.Errorf("ParseTrafficCondition(%q) = %v, want %v", c.String(), got, c)
		}
	}

	// Unknown input falls back to the conservative default.
	if got := ParseTrafficCondition("gridlock"); got != TrafficModerate {
		t.Errorf("ParseTrafficCondition(unknown) = %v, want moderate", got)
	}
}

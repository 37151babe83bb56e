package domain

import (
	"sort"
	"time"
)

// TrafficCondition is a coarse ordinal classification of expected traffic
// along a route, derived from provider speed-reading data.
type TrafficCondition int

const (
	TrafficLight TrafficCondition = iota
	TrafficModerate
	TrafficHeavy
	TrafficSevere
)

func (c TrafficCondition) String() string {
	switch c {
	case TrafficLight:
		return "light"
	case TrafficModerate:
		return "moderate"
	case TrafficHeavy:
		return "heavy"
	case TrafficSevere:
		return "severe"
	default:
		return "unknown"
	}
}

// ParseTrafficCondition maps a stored condition string back to its ordinal.
// Unrecognized input maps to TrafficModerate, the conservative unknown-state
// default used throughout the service.
func ParseTrafficCondition(s string) TrafficCondition {
	switch s {
	case "light":
		return TrafficLight
	case "moderate":
		return TrafficModerate
	case "heavy":
		return TrafficHeavy
	case "severe":
		return TrafficSevere
	default:
		return TrafficModerate
	}
}

// DepartureOption is one sampled departure candidate that satisfied the
// arrival deadline. Immutable once created.
type DepartureOption struct {
	DepartAt        time.Time
	ArriveAt        time.Time
	DurationSeconds int
	DistanceMeters  int
	Condition       TrafficCondition
}

// OptimizationResult is the outcome of one departure-time search: the chosen
// optimal option plus every recorded option ordered by departure time
// ascending. It is created once per invocation and never mutated.
type OptimizationResult struct {
	Optimal DepartureOption
	Options []DepartureOption
}

// SortOptionsByDeparture orders options by departure time ascending.
// The sort is stable and tolerates malformed entries: zero-value departure
// instants sort to the end instead of panicking or misordering valid data.
func SortOptionsByDeparture(options []DepartureOption) {
	sort.SliceStable(options, func(i, j int) bool {
		a, b := options[i].DepartAt, options[j].DepartAt
		if a.IsZero() {
			return false
		}
		if b.IsZero() {
			return true
		}
		return a.Before(b)
	})
}

package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"departure-window-service/internal/domain"
	"departure-window-service/internal/platform/obs"
	"departure-window-service/internal/ports"
)

const (
	// DefaultMinWindow is the smallest effective search window accepted.
	// Observed deployments use thresholds between 15 and 30 minutes.
	DefaultMinWindow = 15 * time.Minute

	// DefaultSampleInterval is the fixed cadence between candidate departures.
	DefaultSampleInterval = 15 * time.Minute

	// DefaultMaxSamples caps estimator calls per search (<=3h of lookahead at
	// the default cadence) to bound external API cost.
	DefaultMaxSamples = 12

	// PastTolerance is how far behind "now" the earliest departure may sit
	// before the request is rejected outright.
	PastTolerance = 60 * time.Second
)

// Optimizer searches a departure window for the departure instant with the
// shortest predicted travel time.
//
// Estimator calls are issued strictly one at a time, in departure-time order.
// Sequential sampling is a deliberate bounded-load choice (the upstream
// provider enforces per-key rate limits), not a performance constraint.
type Optimizer struct {
	Provider ports.TravelTimeProvider

	// Now supplies the current time; defaults to time.Now. Injected so tests
	// can fix "now" deterministically.
	Now func() time.Time

	// MinWindow, SampleInterval and MaxSamples fall back to the package
	// defaults when left zero.
	MinWindow      time.Duration
	SampleInterval time.Duration
	MaxSamples     int
}

// OptimizeRequest carries the raw user inputs: two addresses and two
// wall-clock bounds in "HH:MM" form.
type OptimizeRequest struct {
	Origin            string
	Destination       string
	EarliestDeparture string
	LatestArrival     string
}

func (o *Optimizer) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

func (o *Optimizer) minWindow() time.Duration {
	if o.MinWindow > 0 {
		return o.MinWindow
	}
	return DefaultMinWindow
}

func (o *Optimizer) sampleInterval() time.Duration {
	if o.SampleInterval > 0 {
		return o.SampleInterval
	}
	return DefaultSampleInterval
}

func (o *Optimizer) maxSamples() int {
	if o.MaxSamples > 0 {
		return o.MaxSamples
	}
	return DefaultMaxSamples
}

// OptimizeDeparture validates the raw request, resolves its clock strings
// against the current time and delegates to OptimizeWindow. An omitted
// earliest departure means "as soon as possible" and defaults to the next
// quarter-hour boundary.
func (o *Optimizer) OptimizeDeparture(ctx context.Context, req OptimizeRequest) (*domain.OptimizationResult, error) {
	origin := strings.Join(strings.Fields(req.Origin), " ")
	destination := strings.Join(strings.Fields(req.Destination), " ")
	if origin == "" || destination == "" {
		return nil, fmt.Errorf("optimize departure: %w", ports.ErrInvalidAddress)
	}

	now := o.now()

	var earliest time.Time
	if strings.TrimSpace(req.EarliestDeparture) == "" {
		earliest = domain.NextQuarterHour(now)
	} else {
		var err error
		earliest, err = domain.ParseTimeOfDay(req.EarliestDeparture, now)
		if err != nil {
			return nil, fmt.Errorf("optimize departure: earliest departure: %w", err)
		}
	}

	latest, err := domain.ParseTimeOfDay(req.LatestArrival, now)
	if err != nil {
		return nil, fmt.Errorf("optimize departure: latest arrival: %w", err)
	}

	return o.OptimizeWindow(ctx, origin, destination, earliest, latest)
}

// OptimizeWindow runs the departure-time search over [earliest, latest].
//
// Candidates are spaced at the sample interval starting from
// max(earliest, now). Individual estimator failures are tolerated: a failed
// sample is skipped and the loop continues. The search fails only when input
// validation rejects the window or no candidate survives the loop.
func (o *Optimizer) OptimizeWindow(
	ctx context.Context,
	origin string,
	destination string,
	earliest time.Time,
	latest time.Time,
) (_ *domain.OptimizationResult, err error) {
	defer obs.Time(ctx, "optimizer.OptimizeWindow")(&err)

	now := o.now()

	if !latest.After(earliest) {
		return nil, fmt.Errorf("optimize window: %w", ErrArrivalNotAfterDeparture)
	}

	if earliest.Before(now.Add(-PastTolerance)) {
		return nil, fmt.Errorf("optimize window: %w", ErrDepartureInPast)
	}

	effectiveStart := earliest
	if now.After(effectiveStart) {
		effectiveStart = now
	}

	windowMinutes := domain.MinutesBetween(effectiveStart, latest)
	minWindowMinutes := int(o.minWindow() / time.Minute)
	if windowMinutes < minWindowMinutes {
		return nil, fmt.Errorf(
			"optimize window: %w: %d minutes remain, minimum is %d",
			ErrWindowTooShort, windowMinutes, minWindowMinutes,
		)
	}

	intervalMinutes := int(o.sampleInterval() / time.Minute)
	samples := (windowMinutes + intervalMinutes - 1) / intervalMinutes
	if samples > o.maxSamples() {
		samples = o.maxSamples()
	}

	var (
		options   []domain.DepartureOption
		succeeded int
		failed    int
		lastErr   error
	)

	for i := 0; i < samples; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("optimize window: %w", err)
		}

		candidate := domain.AddMinutes(effectiveStart, i*intervalMinutes)
		if candidate.After(latest) {
			break
		}

		estimate, err := o.Provider.EstimateTravelTime(ctx, origin, destination, candidate)
		if err != nil {
			// One bad sample must not abort the search.
			failed++
			lastErr = err
			continue
		}
		succeeded++

		arrival := candidate.Add(time.Duration(estimate.DurationSeconds) * time.Second)
		if arrival.After(latest) {
			continue
		}

		options = append(options, domain.DepartureOption{
			DepartAt:        candidate,
			ArriveAt:        arrival,
			DurationSeconds: estimate.DurationSeconds,
			DistanceMeters:  estimate.DistanceMeters,
			Condition:       estimate.Condition,
		})
	}

	if len(options) == 0 {
		if succeeded == 0 && failed > 0 {
			return nil, &AllSamplesFailedError{Count: failed, LastErr: lastErr}
		}
		return nil, ErrNoViableDeparture
	}

	// Iteration is in ascending departure order, so "first encountered" ties
	// resolve to the earliest departure among equal durations.
	best := options[0]
	for _, opt := range options[1:] {
		if opt.DurationSeconds < best.DurationSeconds {
			best = opt
		}
	}

	domain.SortOptionsByDeparture(options)

	return &domain.OptimizationResult{
		Optimal: best,
		Options: options,
	}, nil
}

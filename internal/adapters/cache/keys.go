package cache

import "time"

// departMinute buckets a departure instant to whole minutes for cache keys.
// Estimates are departure-specific, but sub-minute precision only fragments
// the cache without changing the prediction.
func departMinute(departAt time.Time) int64 {
	return departAt.Unix() / 60
}

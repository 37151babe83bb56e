package routes

import "departure-window-service/internal/domain"

// Per-segment speed classifications reported by the Routes API traffic
// advisory.
const (
	SpeedNormal     = "NORMAL"
	SpeedSlow       = "SLOW"
	SpeedTrafficJam = "TRAFFIC_JAM"
)

// SpeedReading is one road-segment speed classification from the provider's
// traffic advisory.
type SpeedReading struct {
	Speed string
}

// Classifier maps raw per-segment speed readings to an ordinal traffic
// condition. The mapping is a local policy choice, not a provider contract,
// so it is pluggable and recalibration never touches the sampling loop.
type Classifier func(readings []SpeedReading) domain.TrafficCondition

// ClassifyTraffic is the default policy: any full jam overrides to Severe;
// otherwise the fraction of non-normal segments decides (>0.5 Heavy,
// >0.2 Moderate, else Light). Absent segment data defaults to Moderate -
// a conservative unknown-state answer that avoids under-warning the user.
func ClassifyTraffic(readings []SpeedReading) domain.TrafficCondition {
	if len(readings) == 0 {
		return domain.TrafficModerate
	}

	slow := 0
	for _, r := range readings {
		switch r.Speed {
		case SpeedTrafficJam:
			return domain.TrafficSevere
		case SpeedNormal:
		default:
			slow++
		}
	}

	ratio := float64(slow) / float64(len(readings))
	switch {
	case ratio > 0.5:
		return domain.TrafficHeavy
	case ratio > 0.2:
		return domain.TrafficModerate
	default:
		return domain.TrafficLight
	}
}

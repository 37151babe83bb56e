package routes

import (
	"testing"

	"departure-window-service/internal/domain"
)

func TestClassifyTraffic(t *testing.T) {
	readings := func(speeds ...string) []SpeedReading {
		out := make([]SpeedReading, 0, len(speeds))
		for _, s := range speeds {
			out = append(out, SpeedReading{Speed: s})
		}
		return out
	}

	cases := []struct {
		name     string
		readings []SpeedReading
		want     domain.TrafficCondition
	}{
		{"no data defaults to moderate", nil, domain.TrafficModerate},
		{"all normal", readings(SpeedNormal, SpeedNormal, SpeedNormal), domain.TrafficLight},
		{"fifth slow stays light", readings(SpeedSlow, SpeedNormal, SpeedNormal, SpeedNormal, SpeedNormal), domain.TrafficLight},
		{"quarter slow is moderate", readings(SpeedSlow, SpeedNormal, SpeedNormal, SpeedNormal), domain.TrafficModerate},
		{"majority slow is heavy", readings(SpeedSlow, SpeedSlow, SpeedSlow, SpeedNormal), domain.TrafficHeavy},
		{"any jam overrides to severe", readings(SpeedNormal, SpeedNormal, SpeedTrafficJam), domain.TrafficSevere},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := ClassifyTraffic(c.readings); got != c.want {
				t.Fatalf("got %v, want %v", got, c.want)
			}
		})
	}
}

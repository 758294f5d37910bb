package teleop

import (
	"math"

	"github.com/kilianp07/matchcast/core/model"
)

const (
	// defensePerRating converts summed defense ratings into pressure.
	defensePerRating = 0.15
	// MaxDefensePressure caps the throughput an alliance can take away.
	MaxDefensePressure = 0.40
)

var (
	firstOff = model.Schedule{false, true, false, true}
	firstOn  = model.Schedule{true, false, true, false}
	allOn    = model.Schedule{true, true, true, true}
)

// Schedules returns the red and blue hub schedules implied by the
// autonomous outcome. The autonomous loser is active first.
func Schedules(o model.Outcome) (red, blue model.Schedule) {
	switch o {
	case model.RedWins:
		return firstOff, firstOn
	case model.BlueWins:
		return firstOn, firstOff
	default:
		return allOn, allOn
	}
}

// DefensePressure is the fraction of opponent throughput an alliance removes
// when it plays defense.
func DefensePressure(profiles []model.TeleopProfile) float64 {
	var sum float64
	for _, p := range profiles {
		sum += p.DefenseRating
	}
	return math.Min(sum*defensePerRating, MaxDefensePressure)
}

// Congestion is the traffic factor applied to the summed alliance rate.
func Congestion(s model.Scenario) float64 {
	switch s {
	case model.Pessimistic:
		return 0.80
	case model.Optimistic:
		return 1.0
	default:
		return 0.90
	}
}

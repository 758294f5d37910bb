// Package alliance combines team profiles into alliance level estimates.
package alliance

import (
	"math"
	"sort"

	"github.com/kilianp07/matchcast/core/diagnostics"
	"github.com/kilianp07/matchcast/core/model"
	"github.com/kilianp07/matchcast/core/profile"
)

const (
	// ClimbThreshold is the climb frequency above which a team is expected
	// to attempt the autonomous climb.
	ClimbThreshold = 0.40
	// MaxClimbers is the number of climbing positions per alliance.
	MaxClimbers = 2
)

// Stats is the combined estimate of one alliance for a phase.
type Stats = model.Range

// AllowedClimbers returns the teams keeping their autonomous climb bonus.
// Potential climbers are ranked by reliability, highest first, with ties
// resolved by TeamID order.
func AllowedClimbers(profiles []model.AutoProfile) map[model.TeamID]bool {
	var climbers []model.AutoProfile
	for _, p := range profiles {
		if p.ClimbFrequency > ClimbThreshold {
			climbers = append(climbers, p)
		}
	}
	sort.SliceStable(climbers, func(i, j int) bool {
		if climbers[i].Reliability != climbers[j].Reliability {
			return climbers[i].Reliability > climbers[j].Reliability
		}
		return climbers[i].Team.Less(climbers[j].Team)
	})
	allowed := make(map[model.TeamID]bool, MaxClimbers)
	for i, p := range climbers {
		if i >= MaxClimbers {
			break
		}
		allowed[p.Team] = true
	}
	return allowed
}

// Aggregate sums three autonomous profiles into alliance floor, likely and
// ceiling. Potential climbers beyond the allowed two lose the climb bonus on
// every figure, never going below zero.
func Aggregate(profiles []model.AutoProfile, diag diagnostics.Collector) Stats {
	diag = diagnostics.OrNop(diag)
	allowed := AllowedClimbers(profiles)

	var total model.Range
	for _, p := range profiles {
		penalty := 0.0
		if p.ClimbFrequency > ClimbThreshold && !allowed[p.Team] {
			penalty = model.AutoClimbBonus
			diag.Collect(diagnostics.Entry{
				Component: "alliance",
				Team:      string(p.Team),
				Message:   "climb bonus removed, no climbing slot left",
				Fields:    map[string]any{"climb_frequency": p.ClimbFrequency, "reliability": p.Reliability},
			})
		}
		total.Floor += clip(p.Points.Floor - penalty)
		total.Likely += clip(p.Points.Likely - penalty)
		total.Ceiling += clip(p.Points.Ceiling - penalty)
	}
	return total.Round()
}

// AutoWinner compares likely totals. Only a strictly greater total wins.
func AutoWinner(red, blue Stats) model.Outcome {
	switch {
	case red.Likely > blue.Likely:
		return model.RedWins
	case blue.Likely > red.Likely:
		return model.BlueWins
	default:
		return model.Tie
	}
}

func clip(v float64) float64 { return math.Max(0, v) }

// Spread is an uncertainty estimate expressed as a standard deviation of raw
// match totals. It is distinct from the range based sigma used for win
// probability and must not be substituted for it.
type Spread float64

// VarianceSpread returns sqrt of the summed per-team sample variances of raw
// match totals.
func VarianceSpread(teams [][]model.MatchRecord) Spread {
	var sum float64
	for _, ms := range teams {
		sum += profile.SampleVariance(profile.MatchTotals(ms))
	}
	return Spread(math.Sqrt(sum))
}

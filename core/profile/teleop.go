package profile

import (
	"github.com/kilianp07/matchcast/core/diagnostics"
	"github.com/kilianp07/matchcast/core/model"
)

// Fixed teleop phase durations in seconds.
const (
	TransitionSeconds = 10.0
	ShiftSeconds      = 25.0
	EndgameSeconds    = 30.0
)

// TeleopOptions tunes teleop profiling.
type TeleopOptions struct {
	// FactorDefense enables the defense rating. When false it stays 0.
	FactorDefense bool
}

// BuildTeleop profiles the driver-controlled phase. Matches with a fatal
// fault or flagged "did not participate" are skipped. Each remaining match
// yields a fuel rate over the seconds its hub was active.
func BuildTeleop(team model.TeamID, matches []model.MatchRecord, opts TeleopOptions, diag diagnostics.Collector) model.TeleopProfile {
	diag = diagnostics.OrNop(diag)
	prof := model.TeleopProfile{Team: team}

	var rates, endgame []float64
	defended := 0
	for _, m := range matches {
		if m.Faults.Fatal() || m.Faults.Has(model.FaultDidNotParticipate) {
			continue
		}
		if opts.FactorDefense && m.Defended() {
			defended++
		}
		activeSecs, fuel := activeFuel(m)
		if activeSecs > 0 {
			rates = append(rates, fuel/activeSecs)
		}
		endgame = append(endgame, m.EndgameClimb.Points())
	}
	if len(rates) == 0 {
		diag.Collect(diagnostics.Entry{Component: "profile.teleop", Team: string(team), Message: "no qualifying teleop matches"})
		return prof
	}

	prof.Matches = len(rates)
	prof.Rates = model.Range{Floor: minOf(rates), Likely: median(rates), Ceiling: maxOf(rates)}
	// Floor assumes the climb fails.
	prof.Endgame = model.Range{Floor: 0, Likely: mean(endgame), Ceiling: maxOf(endgame)}
	prof.DefenseRating = float64(defended) / float64(len(endgame))

	diag.Collect(diagnostics.Entry{
		Component: "profile.teleop",
		Team:      string(team),
		Message:   "teleop profile built",
		Fields: map[string]any{
			"matches":        prof.Matches,
			"rate_min":       prof.Rates.Floor,
			"rate_likely":    prof.Rates.Likely,
			"rate_max":       prof.Rates.Ceiling,
			"defense_rating": prof.DefenseRating,
		},
	})
	return prof
}

// activeFuel returns the seconds the hub was active and the fuel scored in
// them. Transition and endgame always count.
func activeFuel(m model.MatchRecord) (float64, float64) {
	secs := TransitionSeconds + EndgameSeconds
	fuel := m.TransitionFuel + m.EndgameFuel
	for _, s := range m.Shifts {
		if s.HubActive {
			secs += ShiftSeconds
			fuel += s.Fuel
		}
	}
	return secs, fuel
}

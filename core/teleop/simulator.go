package teleop

import (
	"github.com/kilianp07/matchcast/core/diagnostics"
	"github.com/kilianp07/matchcast/core/model"
	"github.com/kilianp07/matchcast/core/profile"
)

// Step records the state after one simulated interval.
type Step struct {
	Phase      string  `json:"phase"`
	Shift      int     `json:"shift,omitempty"`
	Active     bool    `json:"active"`
	Throughput float64 `json:"throughput"`
	Scored     float64 `json:"scored"`
	Banked     float64 `json:"banked"`
	Lost       float64 `json:"lost"`
}

// Side is one alliance as seen by the simulator.
type Side struct {
	Profiles []model.TeleopProfile
	Schedule model.Schedule
}

// Options tunes a simulation run.
type Options struct {
	// FactorDefense applies defense pressure in the pessimistic scenario.
	FactorDefense bool
	Diagnostics   diagnostics.Collector
}

// Result is the simulated teleop score of both alliances.
type Result struct {
	Red   model.Range
	Blue  model.Range
	Trace map[model.Alliance]map[model.Scenario][]Step
}

// Run simulates both alliances for every scenario given the autonomous
// outcome.
func Run(red, blue []model.TeleopProfile, outcome model.Outcome, opts Options) Result {
	diag := diagnostics.OrNop(opts.Diagnostics)
	redSched, blueSched := Schedules(outcome)
	sides := map[model.Alliance]Side{
		model.Red:  {Profiles: red, Schedule: redSched},
		model.Blue: {Profiles: blue, Schedule: blueSched},
	}

	res := Result{Trace: make(map[model.Alliance]map[model.Scenario][]Step, 2)}
	for _, a := range []model.Alliance{model.Red, model.Blue} {
		own, opp := sides[a], sides[a.Opponent()]
		pressure := 0.0
		if opts.FactorDefense {
			pressure = DefensePressure(opp.Profiles)
		}
		var score model.Range
		res.Trace[a] = make(map[model.Scenario][]Step, len(model.Scenarios))
		for _, s := range model.Scenarios {
			v, trace := Simulate(own, opp.Schedule, pressure, outcome == model.Tie, s)
			s.Set(&score, v)
			res.Trace[a][s] = trace
		}
		diag.Collect(diagnostics.Entry{
			Component: "teleop",
			Message:   "alliance simulated",
			Fields: map[string]any{
				"alliance":     a.String(),
				"auto_winner":  outcome.String(),
				"opp_pressure": pressure,
				"pessimistic":  score.Floor,
				"typical":      score.Likely,
				"optimistic":   score.Ceiling,
			},
		})
		if a == model.Red {
			res.Red = score
		} else {
			res.Blue = score
		}
	}
	return res
}

// Simulate plays one alliance through the teleop timeline for a scenario.
// oppPressure only bites in the pessimistic scenario, on shifts where this
// alliance is active and the opponent is not. With tie set every shift
// scores directly and nothing is banked.
func Simulate(own Side, oppSchedule model.Schedule, oppPressure float64, tie bool, s model.Scenario) (float64, []Step) {
	var rate float64
	var climb float64
	for _, p := range own.Profiles {
		rate += p.Rate(s)
		climb += p.EndgamePoints(s)
	}
	base := rate * Congestion(s)
	defense := 0.0
	if s == model.Pessimistic {
		defense = oppPressure
	}

	hopper := NewHopper(HopperCapacity)
	trace := make([]Step, 0, model.ShiftCount+2)

	score := base * profile.TransitionSeconds
	trace = append(trace, Step{Phase: "transition", Active: true, Throughput: base, Scored: score})

	for i := 0; i < model.ShiftCount; i++ {
		isActive := own.Schedule[i]
		efficiency := 1.0
		if isActive && !oppSchedule[i] {
			efficiency = 1.0 - defense
		}
		throughput := base * efficiency
		st := Step{Phase: "shift", Shift: i + 1, Active: isActive, Throughput: throughput}
		switch {
		case tie:
			st.Scored = throughput * profile.ShiftSeconds
		case isActive:
			st.Scored = throughput*profile.ShiftSeconds + hopper.Release()
		default:
			st.Lost = hopper.Bank(throughput * profile.ShiftSeconds)
		}
		score += st.Scored
		st.Banked = hopper.Level()
		trace = append(trace, st)
	}

	// Half the endgame is spent scoring, the other half climbing.
	endgame := base*(profile.EndgameSeconds/2) + hopper.Release() + climb
	score += endgame
	trace = append(trace, Step{Phase: "endgame", Active: true, Throughput: base, Scored: endgame})

	return model.Round1(score), trace
}

// Package summary condenses a dataset into per-team averages and flat rows
// for tabular viewers.
package summary

import (
	"github.com/kilianp07/matchcast/core/model"
)

// TeamAverages is the mean fuel per phase over every scouted match of a team.
// The hub columns follow the schedule each match actually had: the first
// active hub is shift 1 when it was active, shift 2 otherwise, and the second
// is shift 3 or shift 4 likewise.
type TeamAverages struct {
	Team             model.TeamID `json:"team"`
	Entries          int          `json:"entries"`
	AutoFuel         float64      `json:"avg_auto_fuel"`
	TransitionFuel   float64      `json:"avg_transition_fuel"`
	FirstActiveFuel  float64      `json:"avg_first_active_hub_fuel"`
	SecondActiveFuel float64      `json:"avg_second_active_hub_fuel"`
	EndgameFuel      float64      `json:"avg_endgame_fuel"`
	TotalFuel        float64      `json:"avg_total_fuel"`
}

// Averages computes TeamAverages for the given teams, or every team of the
// dataset in TeamID order when none are listed. Unknown teams yield a zero
// row with no entries.
func Averages(ds model.Dataset, teams ...model.TeamID) []TeamAverages {
	if len(teams) == 0 {
		teams = ds.Teams()
	}
	out := make([]TeamAverages, 0, len(teams))
	for _, t := range teams {
		out = append(out, teamAverages(t, ds.Matches(t)))
	}
	return out
}

func teamAverages(team model.TeamID, matches []model.MatchRecord) TeamAverages {
	avg := TeamAverages{Team: team, Entries: len(matches)}
	if len(matches) == 0 {
		return avg
	}
	var auto, transition, first, second, endgame, total float64
	for _, m := range matches {
		f, s := activeHubFuel(m)
		auto += m.AutoFuel
		transition += m.TransitionFuel
		first += f
		second += s
		endgame += m.EndgameFuel
		total += m.AutoFuel + m.TransitionFuel + m.EndgameFuel + f + s
	}
	n := float64(len(matches))
	avg.AutoFuel = model.Round2(auto / n)
	avg.TransitionFuel = model.Round2(transition / n)
	avg.FirstActiveFuel = model.Round2(first / n)
	avg.SecondActiveFuel = model.Round2(second / n)
	avg.EndgameFuel = model.Round2(endgame / n)
	avg.TotalFuel = model.Round2(total / n)
	return avg
}

func activeHubFuel(m model.MatchRecord) (first, second float64) {
	first = m.Shifts[1].Fuel
	if m.Shifts[0].HubActive {
		first = m.Shifts[0].Fuel
	}
	second = m.Shifts[3].Fuel
	if m.Shifts[2].HubActive {
		second = m.Shifts[2].Fuel
	}
	return first, second
}

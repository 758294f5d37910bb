package profile

import "github.com/kilianp07/matchcast/core/model"

// MatchTotals returns the raw point total of every participated match:
// autonomous points, teleop fuel and endgame climb points.
func MatchTotals(matches []model.MatchRecord) []float64 {
	totals := make([]float64, 0, len(matches))
	for _, m := range matches {
		if m.Faults.Has(model.FaultDidNotParticipate) {
			continue
		}
		t := m.AutoPoints() + m.TransitionFuel + m.EndgameFuel + m.EndgameClimb.Points()
		for _, s := range m.Shifts {
			t += s.Fuel
		}
		totals = append(totals, t)
	}
	return totals
}

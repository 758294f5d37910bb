package profile

import (
	"github.com/kilianp07/matchcast/core/diagnostics"
	"github.com/kilianp07/matchcast/core/model"
)

const (
	// successRatio is the share of a team's best autonomous score a match
	// must reach to count as a success.
	successRatio = 0.5
	// floorFallback scales likely into floor when a team never failed.
	floorFallback = 0.8
)

// BuildAuto profiles the autonomous phase. Matches flagged "did not
// participate" are skipped. A match fails when its points fall under half the
// team's best or when the robot was auto stopped.
func BuildAuto(team model.TeamID, matches []model.MatchRecord, diag diagnostics.Collector) model.AutoProfile {
	diag = diagnostics.OrNop(diag)
	prof := model.AutoProfile{Team: team}

	included := make([]model.MatchRecord, 0, len(matches))
	for _, m := range matches {
		if m.Faults.Has(model.FaultDidNotParticipate) {
			continue
		}
		included = append(included, m)
	}
	if len(included) == 0 {
		diag.Collect(diagnostics.Entry{Component: "profile.auto", Team: string(team), Message: "no qualifying autonomous matches"})
		return prof
	}

	points := make([]float64, len(included))
	climbs := 0
	for i, m := range included {
		points[i] = m.AutoPoints()
		if m.AutoClimbed {
			climbs++
		}
	}
	maxScore := maxOf(points)
	threshold := maxScore * successRatio

	var passFuel, failPoints []float64
	for i, m := range included {
		if points[i] < threshold || m.Faults.Has(model.FaultAutoStop) {
			failPoints = append(failPoints, points[i])
			continue
		}
		passFuel = append(passFuel, m.AutoFuel)
	}

	n := float64(len(included))
	prof.Matches = len(included)
	prof.MaxScore = maxScore
	prof.Reliability = float64(len(passFuel)) / n
	prof.ClimbFrequency = float64(climbs) / n
	prof.Points.Likely = median(passFuel)
	prof.Points.Ceiling = maxOf(passFuel)
	if len(failPoints) > 0 {
		prof.Points.Floor = mean(failPoints)
	} else {
		prof.Points.Floor = prof.Points.Likely * floorFallback
	}

	diag.Collect(diagnostics.Entry{
		Component: "profile.auto",
		Team:      string(team),
		Message:   "autonomous profile built",
		Fields: map[string]any{
			"matches":     prof.Matches,
			"threshold":   threshold,
			"passed":      len(passFuel),
			"failed":      len(failPoints),
			"reliability": prof.Reliability,
		},
	})
	return prof
}

package model

import "sort"

// ShiftCount is the number of timed teleop shifts in a match.
const ShiftCount = 4

// Shift holds one timed teleop shift as scouted for a single robot.
type Shift struct {
	Fuel      float64 `json:"fuel"`
	HubActive bool    `json:"hub_active"`
	Defense   bool    `json:"defense"`
}

// ClimbLevel is the endgame climb tier reached by a robot, 0 meaning none.
type ClimbLevel int

// Points returns the endgame points awarded for the climb level.
func (c ClimbLevel) Points() float64 {
	switch c {
	case 1:
		return 10
	case 2:
		return 20
	case 3:
		return 30
	default:
		return 0
	}
}

// MatchRecord is one team's scouted result in one match.
type MatchRecord struct {
	MatchID        string            `json:"match_id"`
	Team           TeamID            `json:"team"`
	AutoFuel       float64           `json:"auto_fuel"`
	AutoClimbed    bool              `json:"auto_climbed"`
	TransitionFuel float64           `json:"transition_fuel"`
	Shifts         [ShiftCount]Shift `json:"shifts"`
	EndgameFuel    float64           `json:"endgame_fuel"`
	EndgameClimb   ClimbLevel        `json:"endgame_climb"`
	Faults         FaultSet          `json:"-"`

	// Scouting metadata, carried for export only.
	EventName       string `json:"event_name,omitempty"`
	ScoutingTeam    string `json:"scouting_team,omitempty"`
	Scout           string `json:"scout,omitempty"`
	MatchNumber     int    `json:"match_number,omitempty"`
	AutoUnderTrench bool   `json:"auto_under_trench,omitempty"`
	CrossedBump     bool   `json:"crossed_bump,omitempty"`
	UnderTrench     bool   `json:"under_trench,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

// AutoPoints returns autonomous points: fuel plus the auto climb bonus.
func (m MatchRecord) AutoPoints() float64 {
	if m.AutoClimbed {
		return m.AutoFuel + AutoClimbBonus
	}
	return m.AutoFuel
}

// Defended reports whether any shift was flagged as played on defense.
func (m MatchRecord) Defended() bool {
	for _, s := range m.Shifts {
		if s.Defense {
			return true
		}
	}
	return false
}

// TotalFuel sums fuel over every phase of the match.
func (m MatchRecord) TotalFuel() float64 {
	total := m.AutoFuel + m.TransitionFuel + m.EndgameFuel
	for _, s := range m.Shifts {
		total += s.Fuel
	}
	return total
}

// Dataset is an in-memory snapshot of scouted records keyed by team.
type Dataset map[TeamID][]MatchRecord

// Matches returns the records of a team or nil when the team is unknown.
func (d Dataset) Matches(team TeamID) []MatchRecord {
	if d == nil {
		return nil
	}
	return d[team]
}

// Teams returns every team of the dataset in TeamID order.
func (d Dataset) Teams() []TeamID {
	teams := make([]TeamID, 0, len(d))
	for t := range d {
		teams = append(teams, t)
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].Less(teams[j]) })
	return teams
}

// SortMatches orders records by match identifier using TeamID ordering so
// numeric match keys sort numerically.
func SortMatches(ms []MatchRecord) {
	sort.SliceStable(ms, func(i, j int) bool {
		return TeamID(ms[i].MatchID).Less(TeamID(ms[j].MatchID))
	})
}

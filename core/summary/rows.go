package summary

import (
	"strconv"
	"strings"

	"github.com/kilianp07/matchcast/core/model"
)

// Columns is the canonical column order of a flattened row, matching the
// field names used by the scouting app.
var Columns = []string{
	"eventName", "team", "match", "name", "scoutingTeam", "teamNumber", "matchNumber",
	"autoFuel", "autoUnderTrench", "autoClimbed", "transitionFuel",
	"shift1HubActive", "shift1Fuel", "shift1Defense",
	"shift2HubActive", "shift2Fuel", "shift2Defense",
	"shift3HubActive", "shift3Fuel", "shift3Defense",
	"shift4HubActive", "shift4Fuel", "shift4Defense",
	"endgameFuel", "endgameClimbLevel", "crossedBump", "underTrench",
	"robotError", "notes",
}

// Row is one scouted match of one team.
type Row struct {
	Team   model.TeamID
	Match  string
	Record model.MatchRecord
}

// Rows flattens the dataset into one row per team and match, teams in
// TeamID order and matches in match order.
func Rows(ds model.Dataset) []Row {
	var rows []Row
	for _, t := range ds.Teams() {
		ms := append([]model.MatchRecord(nil), ds[t]...)
		model.SortMatches(ms)
		for _, m := range ms {
			rows = append(rows, Row{Team: t, Match: m.MatchID, Record: m})
		}
	}
	return rows
}

// RobotError joins the names of the set faults with ", ".
func (r Row) RobotError() string {
	return strings.Join(r.Record.Faults.Names(), ", ")
}

// Values renders the row in Columns order.
func (r Row) Values() []string {
	m := r.Record
	num := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	matchNumber := ""
	if m.MatchNumber != 0 {
		matchNumber = strconv.Itoa(m.MatchNumber)
	}
	vals := []string{
		m.EventName, string(r.Team), r.Match, m.Scout, m.ScoutingTeam, string(r.Team), matchNumber,
		num(m.AutoFuel), strconv.FormatBool(m.AutoUnderTrench), strconv.FormatBool(m.AutoClimbed), num(m.TransitionFuel),
	}
	for _, s := range m.Shifts {
		vals = append(vals, strconv.FormatBool(s.HubActive), num(s.Fuel), strconv.FormatBool(s.Defense))
	}
	return append(vals,
		num(m.EndgameFuel), strconv.Itoa(int(m.EndgameClimb)),
		strconv.FormatBool(m.CrossedBump), strconv.FormatBool(m.UnderTrench),
		r.RobotError(), m.Notes,
	)
}

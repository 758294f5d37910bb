package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/kilianp07/matchcast/core/model"
)

// ErrUnreadable is returned when a document is not a team to match map.
var ErrUnreadable = errors.New("dataset unreadable")

// Decode reads a dataset document from r.
func Decode(r io.Reader) (model.Dataset, error) {
	var doc map[string]any
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: empty document", ErrUnreadable)
	}
	if root, ok := doc["root"].(map[string]any); ok {
		doc = root
	}
	ds := make(model.Dataset, len(doc))
	for team, v := range doc {
		matches, ok := v.(map[string]any)
		if !ok {
			continue
		}
		ds[model.TeamID(team)] = DecodeTeam(model.TeamID(team), matches)
	}
	return ds, nil
}

// DecodeTeam converts the match documents of one team, sorted by match.
func DecodeTeam(team model.TeamID, matches map[string]any) []model.MatchRecord {
	out := make([]model.MatchRecord, 0, len(matches))
	for id, v := range matches {
		fields, ok := v.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, DecodeMatch(team, id, fields))
	}
	model.SortMatches(out)
	return out
}

// DecodeMatch converts one match document. Fields may be typed or plain.
func DecodeMatch(team model.TeamID, matchID string, raw map[string]any) model.MatchRecord {
	f := make(map[string]any, len(raw))
	for k, v := range raw {
		f[k] = unwrap(v)
	}
	m := model.MatchRecord{
		MatchID:         matchID,
		Team:            team,
		AutoFuel:        number(f["autoFuel"]),
		AutoClimbed:     flag(f["autoClimbed"]),
		TransitionFuel:  number(f["transitionFuel"]),
		EndgameFuel:     number(f["endgameFuel"]),
		EndgameClimb:    model.ClimbLevel(number(f["endgameClimbLevel"])),
		Faults:          model.NewFaultSet(faultFlags(f["robotError"])),
		EventName:       text(f["eventName"]),
		ScoutingTeam:    text(f["scoutingTeam"]),
		Scout:           text(f["name"]),
		MatchNumber:     int(number(f["matchNumber"])),
		AutoUnderTrench: flag(f["autoUnderTrench"]),
		CrossedBump:     flag(f["crossedBump"]),
		UnderTrench:     flag(f["underTrench"]),
		Notes:           text(f["notes"]),
	}
	for i := range m.Shifts {
		p := "shift" + strconv.Itoa(i+1)
		m.Shifts[i] = model.Shift{
			Fuel:      number(f[p+"Fuel"]),
			HubActive: flag(f[p+"HubActive"]),
			Defense:   flag(f[p+"Defense"]),
		}
	}
	return m
}

// Encode writes ds as a plain document under a "root" key, readable by Decode.
func Encode(w io.Writer, ds model.Dataset) error {
	root := make(map[string]map[string]map[string]any, len(ds))
	for _, team := range ds.Teams() {
		matches := make(map[string]map[string]any, len(ds[team]))
		for _, m := range ds[team] {
			matches[m.MatchID] = fields(m)
		}
		root[string(team)] = matches
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{"root": root})
}

func fields(m model.MatchRecord) map[string]any {
	faults := map[string]bool{}
	for _, n := range m.Faults.Names() {
		faults[n] = true
	}
	out := map[string]any{
		"teamNumber":        string(m.Team),
		"autoFuel":          m.AutoFuel,
		"autoClimbed":       m.AutoClimbed,
		"transitionFuel":    m.TransitionFuel,
		"endgameFuel":       m.EndgameFuel,
		"endgameClimbLevel": int(m.EndgameClimb),
		"robotError":        faults,
		"autoUnderTrench":   m.AutoUnderTrench,
		"crossedBump":       m.CrossedBump,
		"underTrench":       m.UnderTrench,
	}
	for k, v := range map[string]string{"eventName": m.EventName, "scoutingTeam": m.ScoutingTeam, "name": m.Scout, "notes": m.Notes} {
		if v != "" {
			out[k] = v
		}
	}
	if m.MatchNumber != 0 {
		out["matchNumber"] = m.MatchNumber
	}
	for i, s := range m.Shifts {
		p := "shift" + strconv.Itoa(i+1)
		out[p+"Fuel"] = s.Fuel
		out[p+"HubActive"] = s.HubActive
		out[p+"Defense"] = s.Defense
	}
	return out
}

// Summary counts teams and match records of ds.
func Summary(ds model.Dataset) (teams, matches int) {
	for _, ms := range ds {
		matches += len(ms)
	}
	return len(ds), matches
}

// Subset keeps only the listed teams. Teams absent from ds are skipped.
func Subset(ds model.Dataset, teams []model.TeamID) model.Dataset {
	if len(teams) == 0 {
		return ds
	}
	out := make(model.Dataset, len(teams))
	for _, t := range teams {
		if ms, ok := ds[t]; ok {
			out[t] = ms
		}
	}
	return out
}

package model

import (
	"strconv"
	"strings"
)

// TeamID identifies a team. Identifiers are usually team numbers but any
// string key found in the dataset is accepted.
type TeamID string

// Less orders identifiers numerically when both parse as integers and
// lexically otherwise. Numeric identifiers sort before non-numeric ones.
func (t TeamID) Less(o TeamID) bool {
	a, aerr := strconv.Atoi(string(t))
	b, berr := strconv.Atoi(string(o))
	switch {
	case aerr == nil && berr == nil:
		return a < b
	case aerr == nil:
		return true
	case berr == nil:
		return false
	default:
		return t < o
	}
}

func (t TeamID) String() string { return string(t) }

// ParseTeamIDs splits a comma separated list of team identifiers.
func ParseTeamIDs(s string) []TeamID {
	var ids []TeamID
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		ids = append(ids, TeamID(part))
	}
	return ids
}

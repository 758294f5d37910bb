package model

import (
	"fmt"
	"strings"
)

// Alliance is one side of a match.
type Alliance int

const (
	Red Alliance = iota
	Blue
)

func (a Alliance) String() string {
	if a == Blue {
		return "Blue"
	}
	return "Red"
}

// Opponent returns the other alliance.
func (a Alliance) Opponent() Alliance {
	if a == Red {
		return Blue
	}
	return Red
}

// AllianceSize is the number of teams per alliance.
const AllianceSize = 3

// Roster lists the three teams of an alliance.
type Roster [AllianceSize]TeamID

// NewRoster builds a Roster from exactly three identifiers.
func NewRoster(ids []TeamID) (Roster, error) {
	var r Roster
	if len(ids) != AllianceSize {
		return r, fmt.Errorf("alliance needs %d teams, got %d", AllianceSize, len(ids))
	}
	copy(r[:], ids)
	return r, nil
}

// Contains reports whether the team is part of the roster.
func (r Roster) Contains(t TeamID) bool {
	for _, id := range r {
		if id == t {
			return true
		}
	}
	return false
}

func (r Roster) String() string {
	parts := make([]string, len(r))
	for i, id := range r {
		parts[i] = string(id)
	}
	return strings.Join(parts, ",")
}

// Outcome is the predicted winner of the autonomous phase.
type Outcome int

const (
	Tie Outcome = iota
	RedWins
	BlueWins
)

func (o Outcome) String() string {
	switch o {
	case RedWins:
		return "Red"
	case BlueWins:
		return "Blue"
	default:
		return "Tie"
	}
}

// Schedule marks, per shift, whether an alliance's hub is active.
type Schedule [ShiftCount]bool

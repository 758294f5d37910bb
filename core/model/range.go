package model

import "math"

// AutoClimbBonus is the number of points awarded for an autonomous climb.
const AutoClimbBonus = 15.0

// Range is a floor/likely/ceiling estimate.
type Range struct {
	Floor   float64 `json:"min"`
	Likely  float64 `json:"likely"`
	Ceiling float64 `json:"max"`
}

// Add returns the figure-wise sum of two ranges.
func (r Range) Add(o Range) Range {
	return Range{Floor: r.Floor + o.Floor, Likely: r.Likely + o.Likely, Ceiling: r.Ceiling + o.Ceiling}
}

// Round rounds every figure to one decimal place.
func (r Range) Round() Range {
	return Range{Floor: Round1(r.Floor), Likely: Round1(r.Likely), Ceiling: Round1(r.Ceiling)}
}

// Width returns ceiling minus floor.
func (r Range) Width() float64 { return r.Ceiling - r.Floor }

// Round1 rounds v to one decimal place, halves away from zero.
func Round1(v float64) float64 { return math.Round(v*10) / 10 }

// Round2 rounds v to two decimal places, halves away from zero.
func Round2(v float64) float64 { return math.Round(v*100) / 100 }

// Scenario selects which figure of a profile drives a simulation.
type Scenario int

const (
	Pessimistic Scenario = iota
	Typical
	Optimistic
)

// Scenarios lists every scenario in floor, likely, ceiling order.
var Scenarios = [...]Scenario{Pessimistic, Typical, Optimistic}

func (s Scenario) String() string {
	switch s {
	case Pessimistic:
		return "pessimistic"
	case Typical:
		return "typical"
	case Optimistic:
		return "optimistic"
	default:
		return "unknown"
	}
}

// Pick returns the figure of r that matches the scenario.
func (s Scenario) Pick(r Range) float64 {
	switch s {
	case Pessimistic:
		return r.Floor
	case Optimistic:
		return r.Ceiling
	default:
		return r.Likely
	}
}

// Set stores v into the figure of r that matches the scenario.
func (s Scenario) Set(r *Range, v float64) {
	switch s {
	case Pessimistic:
		r.Floor = v
	case Optimistic:
		r.Ceiling = v
	default:
		r.Likely = v
	}
}

package teleop

import "math"

// HopperCapacity is the most fuel an alliance can hold while its hub is
// inactive.
const HopperCapacity = 24.0

// Hopper is an alliance scoped, capped fuel buffer.
type Hopper struct {
	level    float64
	capacity float64
}

// NewHopper returns an empty hopper holding at most capacity.
func NewHopper(capacity float64) *Hopper {
	return &Hopper{capacity: math.Max(0, capacity)}
}

// Bank adds fuel and returns the amount lost to overflow.
func (h *Hopper) Bank(fuel float64) float64 {
	if fuel <= 0 {
		return 0
	}
	h.level += fuel
	if h.level > h.capacity {
		lost := h.level - h.capacity
		h.level = h.capacity
		return lost
	}
	return 0
}

// Release empties the hopper and returns what it held.
func (h *Hopper) Release() float64 {
	v := h.level
	h.level = 0
	return v
}

// Level returns the banked amount.
func (h *Hopper) Level() float64 { return h.level }

package profile

import (
	"testing"

	"github.com/kilianp07/matchcast/core/model"
)

func TestMedian(t *testing.T) {
	cases := []struct {
		in   []float64
		want float64
	}{
		{nil, 0},
		{[]float64{3}, 3},
		{[]float64{5, 1, 3}, 3},
		{[]float64{4, 1, 3, 2}, 2.5},
	}
	for _, c := range cases {
		if got := median(c.in); got != c.want {
			t.Errorf("median(%v) = %v want %v", c.in, got, c.want)
		}
	}
	in := []float64{3, 1, 2}
	median(in)
	if in[0] != 3 || in[1] != 1 || in[2] != 2 {
		t.Fatalf("median modified its input: %v", in)
	}
}

func TestSampleVariance(t *testing.T) {
	if v := SampleVariance([]float64{5}); v != 0 {
		t.Fatalf("expected 0 got %v", v)
	}
	if v := SampleVariance([]float64{2, 4, 4, 4, 5, 5, 7, 9}); v < 4.571 || v > 4.572 {
		t.Fatalf("unexpected variance %v", v)
	}
}

func TestMatchTotals(t *testing.T) {
	ms := []model.MatchRecord{
		{AutoFuel: 5, AutoClimbed: true, TransitionFuel: 3, EndgameFuel: 2, EndgameClimb: 2,
			Shifts: [4]model.Shift{{Fuel: 1}, {Fuel: 1}, {Fuel: 1}, {Fuel: 1}}},
		{AutoFuel: 50, Faults: model.FaultsOf(model.FaultDidNotParticipate)},
	}
	got := MatchTotals(ms)
	if len(got) != 1 || got[0] != 49 {
		t.Fatalf("unexpected totals %v", got)
	}
}

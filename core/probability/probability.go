// Package probability converts alliance score ranges into win chances.
//
// Each alliance's final score is modelled as a normal distribution centred on
// its likely total whose six sigma interval covers floor to ceiling. The
// difference of the two scores is then normal as well and the chance that
// blue outscores red is read off the standard normal CDF.
package probability

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/kilianp07/matchcast/core/model"
)

// minSigma replaces degenerate spreads whose range is at most one point.
const minSigma = 1.0

// Sigma is a range derived standard deviation.
type Sigma float64

// RangeSigma returns (ceiling - floor) / 6 scaled by scale, or minSigma
// scaled when the range is at most one point. A non-positive scale counts
// as 1.
func RangeSigma(r model.Range, scale float64) Sigma {
	if scale <= 0 {
		scale = 1
	}
	width := r.Width()
	if width <= 1 {
		return Sigma(minSigma * scale)
	}
	return Sigma(width / 6 * scale)
}

// Chances holds win percentages for both alliances.
type Chances struct {
	Red  float64 `json:"red_win_pct"`
	Blue float64 `json:"blue_win_pct"`
}

// Estimate returns the win percentages of red and blue, rounded to one
// decimal. Red is derived from blue so the pair always sums to 100.
func Estimate(red, blue model.Range, scale float64) Chances {
	sr, sb := float64(RangeSigma(red, scale)), float64(RangeSigma(blue, scale))
	mu := red.Likely - blue.Likely
	sigma := math.Hypot(sr, sb)

	pBlue := distuv.UnitNormal.CDF((0 - mu) / sigma)
	blueWin := model.Round1(pBlue * 100)
	return Chances{Red: model.Round1(100 - blueWin), Blue: blueWin}
}

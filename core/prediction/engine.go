package prediction

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/matchcast/core/alliance"
	"github.com/kilianp07/matchcast/core/diagnostics"
	"github.com/kilianp07/matchcast/core/model"
	"github.com/kilianp07/matchcast/core/probability"
	"github.com/kilianp07/matchcast/core/profile"
	"github.com/kilianp07/matchcast/core/teleop"
)

var (
	// ErrNoDataset is returned when no historical dataset was supplied.
	ErrNoDataset = errors.New("no historical dataset")
	// ErrInvalidRoster is returned for empty or repeated team identifiers.
	ErrInvalidRoster = errors.New("invalid roster")
)

// Request describes one match to forecast.
type Request struct {
	Red  model.Roster
	Blue model.Roster
	// VarianceScale multiplies the range derived sigmas. Zero means 1.
	VarianceScale float64
	FactorDefense bool
	Diagnostics   diagnostics.Collector
}

// Predictor forecasts a match from a dataset snapshot.
type Predictor interface {
	Predict(ds model.Dataset, req Request) (model.Report, error)
}

// Analysis is a report together with the intermediate figures behind it.
type Analysis struct {
	Report model.Report                                        `json:"report"`
	Auto   map[model.TeamID]model.AutoProfile                  `json:"auto_profiles"`
	Teleop map[model.TeamID]model.TeleopProfile                `json:"teleop_profiles"`
	Trace  map[model.Alliance]map[model.Scenario][]teleop.Step `json:"-"`
}

// Engine is the default Predictor.
type Engine struct {
	newID func() string
	now   func() time.Time
}

// NewEngine returns an Engine stamping reports with random IDs.
func NewEngine() *Engine {
	return &Engine{newID: uuid.NewString, now: time.Now}
}

// Predict implements Predictor.
func (e *Engine) Predict(ds model.Dataset, req Request) (model.Report, error) {
	a, err := e.Analyze(ds, req)
	if err != nil {
		return model.Report{}, err
	}
	return a.Report, nil
}

// Analyze runs the full forecast and keeps every intermediate profile.
func (e *Engine) Analyze(ds model.Dataset, req Request) (Analysis, error) {
	if ds == nil {
		return Analysis{}, ErrNoDataset
	}
	if err := validateRosters(req.Red, req.Blue); err != nil {
		return Analysis{}, err
	}
	diag := diagnostics.OrNop(req.Diagnostics)

	matches := make(map[model.TeamID][]model.MatchRecord, 2*model.AllianceSize)
	for _, r := range []model.Roster{req.Red, req.Blue} {
		for _, t := range r {
			ms := ds.Matches(t)
			if _, ok := ds[t]; !ok {
				diag.Collect(diagnostics.Entry{Component: "prediction", Team: string(t), Message: "team not found in data"})
			}
			matches[t] = ms
		}
	}

	an := Analysis{
		Auto:   make(map[model.TeamID]model.AutoProfile, len(matches)),
		Teleop: make(map[model.TeamID]model.TeleopProfile, len(matches)),
	}
	autoOf := func(r model.Roster) alliance.Stats {
		ps := make([]model.AutoProfile, 0, len(r))
		for _, t := range r {
			p := profile.BuildAuto(t, matches[t], diag)
			an.Auto[t] = p
			ps = append(ps, p)
		}
		return alliance.Aggregate(ps, diag)
	}
	redAuto, blueAuto := autoOf(req.Red), autoOf(req.Blue)
	winner := alliance.AutoWinner(redAuto, blueAuto)

	opts := profile.TeleopOptions{FactorDefense: req.FactorDefense}
	teleOf := func(r model.Roster) []model.TeleopProfile {
		ps := make([]model.TeleopProfile, 0, len(r))
		for _, t := range r {
			p := profile.BuildTeleop(t, matches[t], opts, diag)
			an.Teleop[t] = p
			ps = append(ps, p)
		}
		return ps
	}
	sim := teleop.Run(teleOf(req.Red), teleOf(req.Blue), winner, teleop.Options{
		FactorDefense: req.FactorDefense,
		Diagnostics:   diag,
	})
	an.Trace = sim.Trace

	redTotal := redAuto.Add(sim.Red).Round()
	blueTotal := blueAuto.Add(sim.Blue).Round()
	chances := probability.Estimate(redTotal, blueTotal, req.VarianceScale)

	spreadOf := func(r model.Roster) float64 {
		teams := make([][]model.MatchRecord, 0, len(r))
		for _, t := range r {
			teams = append(teams, matches[t])
		}
		return model.Round1(float64(alliance.VarianceSpread(teams)))
	}

	an.Report = model.Report{
		ID:          e.newID(),
		GeneratedAt: e.now().UTC(),
		Red: model.AllianceReport{
			Teams:  req.Red,
			Auto:   redAuto,
			Teleop: sim.Red,
			Total:  redTotal,
			WinPct: chances.Red,
			Spread: spreadOf(req.Red),
		},
		Blue: model.AllianceReport{
			Teams:  req.Blue,
			Auto:   blueAuto,
			Teleop: sim.Blue,
			Total:  blueTotal,
			WinPct: chances.Blue,
			Spread: spreadOf(req.Blue),
		},
		AutoWinner: winner,
		Winner:     winner.String(),
		Schedule:   fmt.Sprintf("%s controls cycle flow.", winner),
		Note:       model.ReportNote,
	}
	diag.Collect(diagnostics.Entry{
		Component: "prediction",
		Message:   "match predicted",
		Fields: map[string]any{
			"auto_winner":  winner.String(),
			"red_likely":   redTotal.Likely,
			"blue_likely":  blueTotal.Likely,
			"red_win_pct":  chances.Red,
			"blue_win_pct": chances.Blue,
		},
	})
	return an, nil
}

// PointEstimate returns the single likely total of each alliance, the figure
// a plain point estimate predictor would report.
func PointEstimate(r model.Report) (red, blue float64) {
	return r.Red.Total.Likely, r.Blue.Total.Likely
}

func validateRosters(red, blue model.Roster) error {
	seen := make(map[model.TeamID]bool, 2*model.AllianceSize)
	for _, r := range []model.Roster{red, blue} {
		for _, t := range r {
			if t == "" {
				return fmt.Errorf("%w: empty team identifier", ErrInvalidRoster)
			}
			if seen[t] {
				return fmt.Errorf("%w: team %s listed twice", ErrInvalidRoster, t)
			}
			seen[t] = true
		}
	}
	return nil
}

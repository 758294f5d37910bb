// Package scenarios replays scripted match predictions against a dataset
// file and checks the forecasts end to end through the application service.
package scenarios

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/matchcast/config"
	"github.com/kilianp07/matchcast/core/model"
)

type RangeDef struct {
	Floor   float64 `yaml:"floor"`
	Likely  float64 `yaml:"likely"`
	Ceiling float64 `yaml:"ceiling"`
}

func (r RangeDef) ToModel() model.Range {
	return model.Range{Floor: r.Floor, Likely: r.Likely, Ceiling: r.Ceiling}
}

// Expected lists the checks of one match. Unset fields are not checked.
type Expected struct {
	AutoWinner string    `yaml:"auto_winner,omitempty"`
	Favourite  string    `yaml:"favourite,omitempty"`
	RedTotal   *RangeDef `yaml:"red_total,omitempty"`
	BlueTotal  *RangeDef `yaml:"blue_total,omitempty"`
	RedWinPct  *float64  `yaml:"red_win_pct,omitempty"`
	BlueWinPct *float64  `yaml:"blue_win_pct,omitempty"`
	Error      string    `yaml:"error,omitempty"`
}

type MatchDef struct {
	Red      []string `yaml:"red"`
	Blue     []string `yaml:"blue"`
	Expected Expected `yaml:"expected"`
}

type EngineDef struct {
	FactorDefense bool    `yaml:"factor_defense"`
	VarianceScale float64 `yaml:"variance_scale"`
}

func (e EngineDef) ToConfig() config.EngineConfig {
	c := config.EngineConfig{FactorDefense: e.FactorDefense, VarianceScale: e.VarianceScale}
	c.SetDefaults()
	return c
}

type Scenario struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description,omitempty"`
	Dataset     string     `yaml:"dataset"`
	Engine      EngineDef  `yaml:"engine"`
	Matches     []MatchDef `yaml:"matches"`
}

// Load reads a scenario file. A relative dataset path is resolved against
// the scenario's directory.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if sc.Dataset == "" {
		return nil, fmt.Errorf("scenario %s: dataset is required", path)
	}
	if len(sc.Matches) == 0 {
		return nil, fmt.Errorf("scenario %s: no matches", path)
	}
	if !filepath.IsAbs(sc.Dataset) {
		sc.Dataset = filepath.Join(filepath.Dir(path), sc.Dataset)
	}
	return &sc, nil
}

func roster(ids []string) (model.Roster, error) {
	teams := make([]model.TeamID, len(ids))
	for i, id := range ids {
		teams[i] = model.TeamID(id)
	}
	return model.NewRoster(teams)
}

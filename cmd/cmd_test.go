package cmd

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/matchcast/app"
	"github.com/kilianp07/matchcast/core/model"
	"github.com/kilianp07/matchcast/infra/dataset"
)

func writeDataset(t *testing.T) string {
	t.Helper()
	rec := func(id string, auto, s1, s3 float64, climb model.ClimbLevel) model.MatchRecord {
		m := model.MatchRecord{MatchID: id, AutoFuel: auto, EndgameClimb: climb}
		m.Shifts[0] = model.Shift{HubActive: true, Fuel: s1}
		m.Shifts[2] = model.Shift{HubActive: true, Fuel: s3}
		return m
	}
	ds := model.Dataset{
		"1": {rec("1", 10, 20, 20, 3), rec("2", 12, 22, 18, 2)},
		"2": {rec("1", 8, 15, 15, 1)},
		"3": {rec("1", 6, 10, 12, 1)},
		"4": {rec("1", 4, 8, 8, 0)},
		"5": {rec("1", 5, 9, 7, 1)},
		"6": {rec("1", 3, 6, 6, 0)},
	}
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, dataset.WriteFile(path, ds))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestPredictCommandJSON(t *testing.T) {
	data := writeDataset(t)
	out, err := run(t, "predict", "--data", data, "--red", "1,2,3", "--blue", "4,5,6", "-o", "json")
	require.NoError(t, err)

	var rep model.Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, model.Roster{"1", "2", "3"}, rep.Red.Teams)
	assert.Equal(t, "Red", rep.Winner)
	assert.InDelta(t, 100, rep.Red.WinPct+rep.Blue.WinPct, 1e-9)
	assert.Greater(t, rep.Red.Total.Likely, rep.Blue.Total.Likely)
}

func TestPredictCommandText(t *testing.T) {
	out, err := run(t, "predict", "--data", writeDataset(t), "--red", "1,2,3", "--blue", "4,5,6")
	require.NoError(t, err)
	assert.Contains(t, out, "Auto winner: Red")
	assert.Contains(t, out, "Red controls cycle flow.")
}

func TestPredictCommandErrors(t *testing.T) {
	data := writeDataset(t)
	_, err := run(t, "predict", "--data", data, "--red", "1,2", "--blue", "4,5,6")
	assert.ErrorContains(t, err, "red")

	_, err = run(t, "predict", "--data", data, "--red", "1,2,3", "--blue", "4,5,6", "--variance-scale", "-1")
	assert.ErrorContains(t, err, "variance_scale")

	_, err = run(t, "predict", "--data", data, "--red", "1,2,3", "--blue", "4,5,6", "-o", "yaml")
	assert.ErrorContains(t, err, "unknown format")

	_, err = run(t, "predict", "--data", filepath.Join(t.TempDir(), "none.json"), "--red", "1,2,3", "--blue", "4,5,6")
	assert.ErrorIs(t, err, dataset.ErrUnreadable)
}

func TestAveragesCommand(t *testing.T) {
	out, err := run(t, "averages", "--data", writeDataset(t), "1", "2,3")
	require.NoError(t, err)
	recs, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 4)
	assert.Equal(t, []string{"1", "2", "11", "0", "21", "19", "0", "51"}, recs[1])
}

func TestRowsCommand(t *testing.T) {
	out, err := run(t, "rows", "--data", writeDataset(t))
	require.NoError(t, err)
	recs, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	assert.Len(t, recs, 8)
}

func TestFetchCommand(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "copy.json")
	out, err := run(t, "fetch", "--data", writeDataset(t), "--out", dest, "1", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote 2 teams (3 matches)")

	ds, err := dataset.NewFileSource(dest).Load(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, ds, 2)
}

func TestDiagCommandWithoutStore(t *testing.T) {
	_, err := run(t, "diag", "--data", writeDataset(t))
	assert.ErrorIs(t, err, app.ErrNoDiagnosticsStore)
}

func TestDiagCommandReadsStore(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("K_DIAGNOSTICS__ENABLED", "true")
	t.Setenv("K_DIAGNOSTICS__PATH", filepath.Join(dir, "diag.jsonl"))
	data := writeDataset(t)

	_, err := run(t, "predict", "--data", data, "--red", "1,2,3", "--blue", "4,5,7")
	require.NoError(t, err)
	out, err := run(t, "diag", "--data", data, "--team", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "team not found in data")
}

func TestPluginsCommand(t *testing.T) {
	out, err := run(t, "plugins")
	require.NoError(t, err)
	assert.Contains(t, out, "publish.publishers: mqtt, nats")
	assert.Contains(t, out, "diagnostics.backend: jsonl, postgres, sqlite")
}

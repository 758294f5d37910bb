// Package export renders reports and summaries as JSON, CSV or plain text.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/kilianp07/matchcast/core/model"
	"github.com/kilianp07/matchcast/core/summary"
)

// AveragesHeader is the header row of WriteAveragesCSV.
var AveragesHeader = []string{
	"team", "entries", "avg_auto_fuel", "avg_transition_fuel",
	"avg_first_active_hub_fuel", "avg_second_active_hub_fuel",
	"avg_endgame_fuel", "avg_total_fuel",
}

// WriteJSON writes v to w as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteAveragesCSV writes one line per team average.
func WriteAveragesCSV(w io.Writer, avgs []summary.TeamAverages) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(AveragesHeader); err != nil {
		return err
	}
	for _, a := range avgs {
		rec := []string{
			string(a.Team),
			strconv.Itoa(a.Entries),
			formatFloat(a.AutoFuel),
			formatFloat(a.TransitionFuel),
			formatFloat(a.FirstActiveFuel),
			formatFloat(a.SecondActiveFuel),
			formatFloat(a.EndgameFuel),
			formatFloat(a.TotalFuel),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRowsCSV writes the flattened rows under the canonical column header.
func WriteRowsCSV(w io.Writer, rows []summary.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(summary.Columns); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(r.Values()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteText renders the report as an aligned table followed by the notes.
func WriteText(w io.Writer, r model.Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "alliance\tteams\tauto\tteleop\ttotal\twin %")
	for _, side := range []struct {
		name string
		a    model.AllianceReport
	}{{"Red", r.Red}, {"Blue", r.Blue}} {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%.1f\n",
			side.name, side.a.Teams, formatRange(side.a.Auto), formatRange(side.a.Teleop),
			formatRange(side.a.Total), side.a.WinPct)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\nAuto winner: %s\n%s\n%s\n", r.Winner, r.Schedule, r.Note)
	return err
}

func formatRange(r model.Range) string {
	return fmt.Sprintf("%s / %s / %s", formatFloat(r.Floor), formatFloat(r.Likely), formatFloat(r.Ceiling))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

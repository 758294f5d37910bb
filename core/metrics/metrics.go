package metrics

import (
	"time"

	"github.com/kilianp07/matchcast/core/model"
)

// PredictionEvent is one completed forecast.
type PredictionEvent struct {
	ReportID      string
	AutoWinner    string
	Red           model.Range
	Blue          model.Range
	RedWinPct     float64
	BlueWinPct    float64
	FactorDefense bool
	Duration      time.Duration
	Time          time.Time
}

// EventFromReport builds the event recorded after a prediction took d.
func EventFromReport(r model.Report, factorDefense bool, d time.Duration) PredictionEvent {
	return PredictionEvent{
		ReportID:      r.ID,
		AutoWinner:    r.Winner,
		Red:           r.Red.Total,
		Blue:          r.Blue.Total,
		RedWinPct:     r.Red.WinPct,
		BlueWinPct:    r.Blue.WinPct,
		FactorDefense: factorDefense,
		Duration:      d,
		Time:          r.GeneratedAt,
	}
}

// MetricsSink records predictions for observability purposes.
type MetricsSink interface {
	RecordPrediction(ev PredictionEvent) error
}

// DatasetLoadEvent describes one dataset fetch.
type DatasetLoadEvent struct {
	Source   string
	Teams    int
	Matches  int
	Duration time.Duration
	Err      string
	Time     time.Time
}

// DatasetLoadRecorder is implemented by sinks able to record dataset loads.
type DatasetLoadRecorder interface {
	RecordDatasetLoad(ev DatasetLoadEvent) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordPrediction(PredictionEvent) error   { return nil }
func (NopSink) RecordDatasetLoad(DatasetLoadEvent) error { return nil }

var _ DatasetLoadRecorder = NopSink{}

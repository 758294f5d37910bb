package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	coremetrics "github.com/kilianp07/matchcast/core/metrics"
	"github.com/kilianp07/matchcast/core/model"
)

func samplePrediction() coremetrics.PredictionEvent {
	return coremetrics.PredictionEvent{
		ReportID:   "r1",
		AutoWinner: "Red",
		Red:        model.Range{Floor: 117, Likely: 198.4, Ceiling: 215.5},
		Blue:       model.Range{Floor: 104.3, Likely: 169.5, Ceiling: 180.3},
		RedWinPct:  91.8,
		BlueWinPct: 8.2,
		Duration:   2 * time.Millisecond,
		Time:       time.Unix(1700000000, 0),
	}
}

func TestPromSink_RecordPrediction(t *testing.T) {
	reg := prometheus.NewRegistry()
	sinkIf, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}
	sink, ok := sinkIf.(*PromSink)
	if !ok {
		t.Fatalf("expected PromSink")
	}
	if err := sink.RecordPrediction(samplePrediction()); err != nil {
		t.Fatalf("record error: %v", err)
	}

	expected := `
# HELP matchcast_predictions_total Total number of match predictions by autonomous winner
# TYPE matchcast_predictions_total counter
matchcast_predictions_total{auto_winner="Red"} 1
`
	if err := testutil.CollectAndCompare(sink.predictions, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
	if c := testutil.CollectAndCount(sink.latency); c != 1 {
		t.Errorf("latency not recorded")
	}
	if v := testutil.ToFloat64(sink.scores.WithLabelValues("blue", "optimistic")); v != 180.3 {
		t.Errorf("expected blue optimistic 180.3 got %v", v)
	}
	if v := testutil.ToFloat64(sink.winPct.WithLabelValues("red")); v != 91.8 {
		t.Errorf("expected red win 91.8 got %v", v)
	}
}

func TestPromSink_RecordDatasetLoad(t *testing.T) {
	reg := prometheus.NewRegistry()
	sinkIf, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}
	sink := sinkIf.(*PromSink)
	_ = sink.RecordDatasetLoad(coremetrics.DatasetLoadEvent{Source: "file", Teams: 3, Matches: 12})
	_ = sink.RecordDatasetLoad(coremetrics.DatasetLoadEvent{Source: "firestore", Err: "timeout"})
	if v := testutil.ToFloat64(sink.matches); v != 12 {
		t.Errorf("expected 12 matches got %v", v)
	}
	if v := testutil.ToFloat64(sink.loads.WithLabelValues("firestore", "error")); v != 1 {
		t.Errorf("expected 1 failed load got %v", v)
	}
}

func TestPromSink_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("first sink: %v", err)
	}
	second, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("second sink: %v", err)
	}
	_ = first.RecordPrediction(samplePrediction())
	_ = second.RecordPrediction(samplePrediction())
	if v := testutil.ToFloat64(first.(*PromSink).predictions.WithLabelValues("Red")); v != 2 {
		t.Fatalf("expected shared counter at 2 got %v", v)
	}
}

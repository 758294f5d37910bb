package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/kilianp07/matchcast/core/model"
)

type recordSink struct {
	count int
	err   error
}

func (r *recordSink) RecordPrediction(PredictionEvent) error {
	r.count++
	return r.err
}

type loadSink struct {
	recordSink
	loads int
}

func (l *loadSink) RecordDatasetLoad(DatasetLoadEvent) error {
	l.loads++
	return nil
}

func TestMultiSink(t *testing.T) {
	s1 := &recordSink{err: errors.New("down")}
	s2 := &loadSink{}
	m := NewMultiSink(s1, s2)
	if err := m.RecordPrediction(PredictionEvent{}); err == nil {
		t.Fatal("expected joined error")
	}
	if s1.count != 1 || s2.count != 1 {
		t.Fatalf("prediction not forwarded to every sink")
	}
	if err := m.RecordDatasetLoad(DatasetLoadEvent{}); err != nil {
		t.Fatalf("record load: %v", err)
	}
	if s2.loads != 1 {
		t.Fatalf("load not forwarded")
	}
}

func TestEventFromReport(t *testing.T) {
	now := time.Now()
	r := model.Report{
		ID:          "x",
		GeneratedAt: now,
		Winner:      "Blue",
		Red:         model.AllianceReport{Total: model.Range{Likely: 10}, WinPct: 40},
		Blue:        model.AllianceReport{Total: model.Range{Likely: 12}, WinPct: 60},
	}
	ev := EventFromReport(r, true, time.Millisecond)
	if ev.ReportID != "x" || ev.AutoWinner != "Blue" || ev.Blue.Likely != 12 || ev.RedWinPct != 40 || !ev.FactorDefense || !ev.Time.Equal(now) {
		t.Fatalf("unexpected event %+v", ev)
	}
}

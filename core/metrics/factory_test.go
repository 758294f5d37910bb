package metrics_test

import (
	"errors"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/matchcast/core/factory"
	metrics "github.com/kilianp07/matchcast/core/metrics"
	_ "github.com/kilianp07/matchcast/infra/metrics"
)

// countingSink is registered as "counting" and records how it is used.
type countingSink struct {
	label  string
	events int
	closed bool
}

func (c *countingSink) RecordPrediction(metrics.PredictionEvent) error {
	c.events++
	return nil
}

func (c *countingSink) Close() error {
	c.closed = true
	return nil
}

var built []*countingSink

func init() {
	_ = metrics.RegisterMetricsSink("counting", func(conf map[string]any) (metrics.MetricsSink, error) {
		var c struct {
			Label string `json:"label"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		s := &countingSink{label: c.Label}
		built = append(built, s)
		return s, nil
	})
}

func TestSinkTypesIncludeBuiltins(t *testing.T) {
	want := map[string]bool{"nop": false, "prometheus": false, "influx": false, "counting": false}
	for _, name := range metrics.SinkTypes() {
		if _, ok := want[name]; ok {
			want[name] = true
		}
	}
	for name, seen := range want {
		if !seen {
			t.Fatalf("sink type %s not registered: %v", name, metrics.SinkTypes())
		}
	}
}

func TestNewMetricsSink_DefaultsToNop(t *testing.T) {
	s, err := metrics.NewMetricsSink(nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, ok := s.(metrics.NopSink); !ok {
		t.Fatalf("expected NopSink, got %T", s)
	}
}

func TestNewMetricsSink_SingleIsNotWrapped(t *testing.T) {
	s, err := metrics.NewMetricsSink([]factory.ModuleConfig{{Type: "counting", Conf: map[string]any{"label": "solo"}}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	c, ok := s.(*countingSink)
	if !ok || c.label != "solo" {
		t.Fatalf("expected counting sink labelled solo, got %#v", s)
	}
}

func TestNewMetricsSink_FromMetricsSection(t *testing.T) {
	data := `sinks:
  - type: counting
    conf:
      label: dashboard
  - type: nop
`
	var cfg metrics.Config
	if err := yaml.Unmarshal([]byte(data), &cfg); err != nil {
		t.Fatalf("yaml unmarshal: %v", err)
	}
	s, err := metrics.NewMetricsSink(cfg.Sinks)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	m, ok := s.(*metrics.MultiSink)
	if !ok || len(m.Sinks) != 2 {
		t.Fatalf("expected MultiSink of 2, got %#v", s)
	}
	if err := m.RecordPrediction(metrics.PredictionEvent{ReportID: "rep-1"}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if c := m.Sinks[0].(*countingSink); c.label != "dashboard" || c.events != 1 {
		t.Fatalf("counting sink %#v", c)
	}
}

func TestNewMetricsSink_FailureClosesBuiltSinks(t *testing.T) {
	built = nil
	_, err := metrics.NewMetricsSink([]factory.ModuleConfig{{Type: "counting"}, {Type: "statsd"}})
	if !errors.Is(err, factory.ErrUnknownType) {
		t.Fatalf("expected unknown type error, got %v", err)
	}
	if len(built) != 1 || !built[0].closed {
		t.Fatalf("expected the counting sink to be closed, got %#v", built)
	}
}

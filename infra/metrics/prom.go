package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/matchcast/core/metrics"
	"github.com/kilianp07/matchcast/core/model"
)

// PromSink records predictions in Prometheus metrics.
type PromSink struct {
	predictions *prometheus.CounterVec
	latency     prometheus.Histogram
	scores      *prometheus.GaugeVec
	winPct      *prometheus.GaugeVec
	loads       *prometheus.CounterVec
	matches     prometheus.Gauge
}

// NewPromSink registers prediction metrics on the default Prometheus registerer.
// The Prometheus server is started separately with StartPromServer.
func NewPromSink() (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. Collectors
// already registered by an earlier sink are reused.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "matchcast_predictions_total",
			Help: "Total number of match predictions by autonomous winner",
		}, []string{"auto_winner"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "matchcast_prediction_duration_seconds",
			Help:    "Time spent producing one prediction",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		scores: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "matchcast_predicted_score",
			Help: "Predicted alliance score of the last prediction",
		}, []string{"alliance", "scenario"}),
		winPct: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "matchcast_win_probability_percent",
			Help: "Win probability of the last prediction",
		}, []string{"alliance"}),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "matchcast_dataset_loads_total",
			Help: "Dataset loads by source and result",
		}, []string{"source", "result"}),
		matches: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "matchcast_dataset_matches",
			Help: "Match records in the last loaded dataset",
		}),
	}
	var err error
	if s.predictions, err = register(reg, s.predictions); err != nil {
		return nil, err
	}
	if s.latency, err = register(reg, s.latency); err != nil {
		return nil, err
	}
	if s.scores, err = register(reg, s.scores); err != nil {
		return nil, err
	}
	if s.winPct, err = register(reg, s.winPct); err != nil {
		return nil, err
	}
	if s.loads, err = register(reg, s.loads); err != nil {
		return nil, err
	}
	if s.matches, err = register(reg, s.matches); err != nil {
		return nil, err
	}
	return s, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordPrediction updates counters, latency and score gauges.
func (s *PromSink) RecordPrediction(ev coremetrics.PredictionEvent) error {
	s.predictions.WithLabelValues(ev.AutoWinner).Inc()
	s.latency.Observe(ev.Duration.Seconds())
	for _, sc := range model.Scenarios {
		s.scores.WithLabelValues("red", sc.String()).Set(sc.Pick(ev.Red))
		s.scores.WithLabelValues("blue", sc.String()).Set(sc.Pick(ev.Blue))
	}
	s.winPct.WithLabelValues("red").Set(ev.RedWinPct)
	s.winPct.WithLabelValues("blue").Set(ev.BlueWinPct)
	return nil
}

// RecordDatasetLoad counts the load and tracks the dataset size.
func (s *PromSink) RecordDatasetLoad(ev coremetrics.DatasetLoadEvent) error {
	result := "ok"
	if ev.Err != "" {
		result = "error"
	}
	s.loads.WithLabelValues(ev.Source, result).Inc()
	if ev.Err == "" {
		s.matches.Set(float64(ev.Matches))
	}
	return nil
}

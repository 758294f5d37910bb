package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/matchcast/config"
	"github.com/kilianp07/matchcast/core/diagnostics"
	corelogger "github.com/kilianp07/matchcast/core/logger"
	coremetrics "github.com/kilianp07/matchcast/core/metrics"
	"github.com/kilianp07/matchcast/core/model"
	"github.com/kilianp07/matchcast/core/prediction"
	"github.com/kilianp07/matchcast/core/publish"
	"github.com/kilianp07/matchcast/core/summary"
	"github.com/kilianp07/matchcast/infra/dataset"
	infradiag "github.com/kilianp07/matchcast/infra/diagnostics"
	"github.com/kilianp07/matchcast/infra/logger"
	"github.com/kilianp07/matchcast/infra/metrics"
	"github.com/kilianp07/matchcast/internal/eventbus"

	_ "github.com/kilianp07/matchcast/app/plugins"
)

// ErrNoDiagnosticsStore is returned by Diagnostics when no store is configured.
var ErrNoDiagnosticsStore = errors.New("diagnostics store disabled")

// Deps are the collaborators of a Service. Nil members fall back to no-op
// implementations, except Source which is required.
type Deps struct {
	Source         dataset.Source
	Predictor      prediction.Predictor
	Store          diagnostics.Store
	Sink           coremetrics.MetricsSink
	Publisher      publish.Publisher
	Log            logger.Logger
	Engine         config.EngineConfig
	PublishTimeout time.Duration
	// Closers are released by Close after the other dependencies.
	Closers []io.Closer
}

// Service answers prediction and summary requests against the configured
// data source and fans finished reports out to metrics, publishers and
// stream subscribers.
type Service struct {
	deps    Deps
	log     logger.Logger
	events  *eventbus.Bus[coremetrics.PredictionEvent]
	reports *eventbus.Bus[model.Report]
	cancel  context.CancelFunc
	done    <-chan struct{}
	newID   func() string
}

// New creates a Service from the configuration.
func New(ctx context.Context, cfg *config.Config) (*Service, error) {
	log := logger.New("service")
	src, closers, err := buildSource(ctx, cfg.Source, log)
	if err != nil {
		return nil, fmt.Errorf("data source: %w", err)
	}
	closeAll := func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}
	store, err := infradiag.Open(cfg.Diagnostics)
	if err != nil {
		closeAll()
		return nil, err
	}
	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		closeAll()
		if store != nil {
			_ = store.Close()
		}
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	pub, err := publish.New(cfg.Publish.Publishers)
	if err != nil {
		closeAll()
		if store != nil {
			_ = store.Close()
		}
		return nil, fmt.Errorf("publisher: %w", err)
	}
	if c, ok := sink.(io.Closer); ok {
		closers = append(closers, c)
	}
	return NewWithDeps(Deps{
		Source:         src,
		Predictor:      prediction.NewEngine(),
		Store:          store,
		Sink:           sink,
		Publisher:      pub,
		Log:            log,
		Engine:         cfg.Engine,
		PublishTimeout: cfg.Publish.Timeout(),
		Closers:        closers,
	}), nil
}

// NewWithDeps wires a Service from explicit collaborators and starts the
// metrics collector.
func NewWithDeps(d Deps) *Service {
	if d.Predictor == nil {
		d.Predictor = prediction.NewEngine()
	}
	if d.Sink == nil {
		d.Sink = coremetrics.NopSink{}
	}
	if d.Publisher == nil {
		d.Publisher = publish.Nop{}
	}
	if d.PublishTimeout <= 0 {
		d.PublishTimeout = 5 * time.Second
	}
	log := logger.OrNop(d.Log)
	ctx, cancel := context.WithCancel(context.Background())
	s := &Service{
		deps:    d,
		log:     log,
		events:  eventbus.New[coremetrics.PredictionEvent](64),
		reports: eventbus.New[model.Report](eventbus.DefaultBuffer),
		cancel:  cancel,
		newID:   uuid.NewString,
	}
	s.done = metrics.StartEventCollector(ctx, s.events, d.Sink, log)
	return s
}

// SourceName identifies the data source in logs and health output.
func (s *Service) SourceName() string { return s.deps.Source.Name() }

// LoadDataset fetches a snapshot for teams and records the load.
func (s *Service) LoadDataset(ctx context.Context, teams []model.TeamID) (model.Dataset, error) {
	start := time.Now()
	ds, err := s.deps.Source.Load(ctx, teams)
	ev := coremetrics.DatasetLoadEvent{
		Source:   s.deps.Source.Name(),
		Duration: time.Since(start),
		Time:     start,
	}
	if err != nil {
		ev.Err = err.Error()
	} else {
		ev.Teams, ev.Matches = dataset.Summary(ds)
	}
	if rec, ok := s.deps.Sink.(coremetrics.DatasetLoadRecorder); ok {
		if rerr := rec.RecordDatasetLoad(ev); rerr != nil {
			s.log.Warnf("record dataset load: %v", rerr)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("load dataset from %s: %w", ev.Source, err)
	}
	s.log.Debugf("loaded %d teams (%d matches) from %s in %s", ev.Teams, ev.Matches, ev.Source, ev.Duration)
	return ds, nil
}

// Predict forecasts red against blue. Every diagnostic raised on the way is
// logged, stored under the report's request ID when a store is configured,
// and the report is published and streamed once it is complete. Publication
// and storage failures are logged, never returned.
func (s *Service) Predict(ctx context.Context, red, blue model.Roster) (model.Report, error) {
	reqID := s.newID()
	buf := diagnostics.NewBuffer(reqID)
	collect := corelogger.Tee{buf, corelogger.DiagnosticsLogger{Log: s.log}}
	defer s.flush(ctx, buf)

	ds, err := s.LoadDataset(ctx, append(red[:], blue[:]...))
	if err != nil {
		return model.Report{}, err
	}
	start := time.Now()
	rep, err := s.deps.Predictor.Predict(ds, prediction.Request{
		Red:           red,
		Blue:          blue,
		VarianceScale: s.deps.Engine.VarianceScale,
		FactorDefense: s.deps.Engine.FactorDefense,
		Diagnostics:   collect,
	})
	if err != nil {
		return model.Report{}, err
	}
	elapsed := time.Since(start)
	if rep.ID == "" {
		rep.ID = reqID
	}
	s.log.Infof("report %s: %s %.1f%% vs %s %.1f%% (%s)", rep.ID, red, rep.Red.WinPct, blue, rep.Blue.WinPct, elapsed)

	s.events.Publish(coremetrics.EventFromReport(rep, s.deps.Engine.FactorDefense, elapsed))
	s.reports.Publish(rep)

	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.deps.PublishTimeout)
	defer cancel()
	if err := s.deps.Publisher.PublishReport(pctx, rep); err != nil {
		s.log.Errorf("publish report %s: %v", rep.ID, err)
	}
	return rep, nil
}

func (s *Service) flush(ctx context.Context, buf *diagnostics.Buffer) {
	if s.deps.Store == nil || buf.Len() == 0 {
		return
	}
	if err := buf.Flush(context.WithoutCancel(ctx), s.deps.Store); err != nil {
		s.log.Warnf("store diagnostics: %v", err)
	}
}

// Averages loads teams (every team when empty) and returns their averages.
func (s *Service) Averages(ctx context.Context, teams []model.TeamID) ([]summary.TeamAverages, error) {
	ds, err := s.LoadDataset(ctx, teams)
	if err != nil {
		return nil, err
	}
	return summary.Averages(ds, teams...), nil
}

// Rows loads teams (every team when empty) and flattens their matches.
func (s *Service) Rows(ctx context.Context, teams []model.TeamID) ([]summary.Row, error) {
	ds, err := s.LoadDataset(ctx, teams)
	if err != nil {
		return nil, err
	}
	return summary.Rows(ds), nil
}

// Diagnostics queries the diagnostics store.
func (s *Service) Diagnostics(ctx context.Context, q diagnostics.Query) ([]diagnostics.Entry, error) {
	if s.deps.Store == nil {
		return nil, ErrNoDiagnosticsStore
	}
	return s.deps.Store.Query(ctx, q)
}

// SubscribeReports streams finished reports until the returned cancel
// function is called or the service closes.
func (s *Service) SubscribeReports() (<-chan model.Report, func()) {
	ch := s.reports.Subscribe()
	return ch, func() { s.reports.Unsubscribe(ch) }
}

// Close drains pending metrics events, stops the collector and releases
// every dependency.
func (s *Service) Close() error {
	s.events.Close()
	s.reports.Close()
	<-s.done
	s.cancel()

	var errs []error
	if err := s.deps.Publisher.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close publisher: %w", err))
	}
	if s.deps.Store != nil {
		if err := s.deps.Store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close diagnostics store: %w", err))
		}
	}
	for _, c := range s.deps.Closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

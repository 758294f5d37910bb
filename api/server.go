// Package api serves predictions, team averages and diagnostics over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	diagapi "github.com/kilianp07/matchcast/api/diagnostics"
	"github.com/kilianp07/matchcast/core/model"
	"github.com/kilianp07/matchcast/core/summary"
	"github.com/kilianp07/matchcast/infra/logger"
)

// Backend answers the requests served by the router.
type Backend interface {
	Predict(ctx context.Context, red, blue model.Roster) (model.Report, error)
	Averages(ctx context.Context, teams []model.TeamID) ([]summary.TeamAverages, error)
	SubscribeReports() (<-chan model.Report, func())
	diagapi.Querier
}

// Options tunes the router.
type Options struct {
	AllowedOrigins []string
	// Token guards /api/diagnostics when non-empty.
	Token string
	// DiagnosticsUnavailable is the error Backend returns when no store is
	// configured; it is answered with 404.
	DiagnosticsUnavailable error
	// Gatherer backs /metrics. Nil uses the default registry.
	Gatherer prometheus.Gatherer
	Log      logger.Logger
}

// NewRouter builds the HTTP handler of the serve command.
func NewRouter(b Backend, opts Options) http.Handler {
	log := logger.OrNop(opts.Log)
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	h := &handler{backend: b, log: log}
	stream := newStreamer(b, log)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		h.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	r.Route("/api", func(r chi.Router) {
		r.Get("/predict", h.predict)
		r.Get("/averages", h.averages)
		r.Get("/teams/{team}/averages", h.teamAverages)
		r.Get("/stream", stream.serveWS)
		r.Method(http.MethodGet, "/diagnostics", diagapi.NewLogHandler(b, opts.Token, opts.DiagnosticsUnavailable))
	})
	return r
}

// Serve runs an HTTP server on addr until ctx is canceled.
func Serve(ctx context.Context, addr string, h http.Handler, log logger.Logger) error {
	log = logger.OrNop(log)
	srv := &http.Server{Addr: addr, Handler: h, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Errorf("api server shutdown: %v", err)
		}
		cancel()
	}()
	log.Infof("serving api on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

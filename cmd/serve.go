package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/kilianp07/matchcast/api"
	"github.com/kilianp07/matchcast/app"
	"github.com/kilianp07/matchcast/infra/logger"
	"github.com/kilianp07/matchcast/infra/metrics"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve predictions over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			svc, cfg, err := root.service(ctx)
			if err != nil {
				return err
			}
			defer closeService(svc)
			if addr != "" {
				cfg.API.Addr = addr
			}

			log := logger.New("serve")
			router := api.NewRouter(svc, api.Options{
				AllowedOrigins:         cfg.API.AllowedOrigins,
				Token:                  cfg.API.Token,
				DiagnosticsUnavailable: app.ErrNoDiagnosticsStore,
				Log:                    log,
			})
			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error { return api.Serve(ctx, cfg.API.Addr, router, log) })
			if cfg.Metrics.PrometheusAddr != "" {
				g.Go(func() error { return metrics.StartPromServer(ctx, cfg.Metrics.PrometheusAddr, log) })
			}
			log.Infof("reading scouting data from %s", svc.SourceName())
			return g.Wait()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides api.addr")
	return cmd
}

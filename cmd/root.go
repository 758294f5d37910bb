package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kilianp07/matchcast/app"
	"github.com/kilianp07/matchcast/config"
	"github.com/kilianp07/matchcast/infra/logger"
)

const defaultConfig = "config.yaml"

type rootOptions struct {
	cfgPath  string
	dataPath string
}

// NewRootCmd builds the matchcast command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "matchcast",
		Short:         "Match outcome predictions from scouting data",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.cfgPath, "config", "c", defaultConfig, "configuration file")
	root.PersistentFlags().StringVar(&opts.dataPath, "data", "", "read scouting data from this file instead of the configured source")

	root.AddCommand(
		newPredictCmd(opts),
		newAveragesCmd(opts),
		newRowsCmd(opts),
		newDiagCmd(opts),
		newServeCmd(opts),
		newFetchCmd(opts),
		newPluginsCmd(),
	)
	return root
}

// Execute runs the CLI.
func Execute() error { return NewRootCmd().Execute() }

// load reads the configuration. A missing default config file is not an
// error: defaults and K_ environment overrides apply alone.
func (o *rootOptions) load() (*config.Config, error) {
	path := o.cfgPath
	if path == defaultConfig {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			path = ""
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if o.dataPath != "" {
		cfg.Source.Type = config.SourceFile
		cfg.Source.Path = o.dataPath
	}
	logger.Configure(cfg.Logging.Level, cfg.Logging.Console)
	return cfg, nil
}

// service loads the configuration and builds the application service.
func (o *rootOptions) service(ctx context.Context) (*app.Service, *config.Config, error) {
	cfg, err := o.load()
	if err != nil {
		return nil, nil, err
	}
	svc, err := app.New(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return svc, cfg, nil
}

func closeService(svc *app.Service) {
	if err := svc.Close(); err != nil {
		logger.New("main").Errorf("service close: %v", err)
	}
}

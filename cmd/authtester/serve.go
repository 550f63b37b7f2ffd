package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vyrodovalexey/authtester/internal/exampleapp"
	"github.com/vyrodovalexey/authtester/internal/fixture"
	"github.com/vyrodovalexey/authtester/internal/observability"
)

func newServeCmd(flags *globalFlags) *cobra.Command {
	serverCfg := exampleapp.DefaultServerConfig()
	app := ""
	noMetrics := false

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a registered application over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, logger, tracer, err := flags.load(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			defer shutdownTracer(tracer, logger)

			if app == "" {
				app = cfg.App
			}
			factory, err := fixture.DefaultRegistry().Lookup(app)
			if err != nil {
				return err
			}
			env := fixture.AppEnv{Logger: logger}
			if !noMetrics {
				env.Metrics = observability.NewMetrics("authtester")
				env.Metrics.SetBuildInfo(version, gitCommit, buildTime)
			}
			handler, err := factory(env)
			if err != nil {
				return err
			}

			logger.Info("serving application",
				observability.String("app", app),
				observability.String("address", serverCfg.Address),
				observability.String("version", version),
			)
			return exampleapp.NewServer(serverCfg, handler, logger).Run(ctx)
		},
	}

	cmd.Flags().StringVar(&serverCfg.Address, "addr", serverCfg.Address, "Listen address")
	cmd.Flags().StringVar(&app, "app", "", "Registered application name, the configured one by default")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "Do not serve GET /metrics")

	return cmd
}

func shutdownTracer(tracer *observability.Tracer, logger observability.Logger) {
	if err := tracer.Shutdown(context.Background()); err != nil {
		logger.Warn("tracer shutdown failed", observability.Error(err))
	}
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vyrodovalexey/authtester/internal/config"
	"github.com/vyrodovalexey/authtester/internal/observability"
)

// globalFlags holds the persistent flags.
type globalFlags struct {
	configPath string
	logLevel   string
	logFormat  string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "authtester",
		Short: "Authenticated HTTP requests for API testing",
		Long: `authtester sends HTTP requests on behalf of logical logins, attaching
passwords, tokens or cookies according to the configured policy.

Settings are read from AUTHTESTER_* environment variables and from the
optional --config YAML file.`,
		SilenceUsage: true,
		Version:      fmt.Sprintf("%s (built %s, commit %s)", version, buildTime, gitCommit),
	}

	cmd.PersistentFlags().StringVar(&flags.configPath, "config", os.Getenv(config.EnvPrefix+"CONFIG"),
		"Path to configuration file")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "",
		"Log level (debug, info, warn, error), overrides the configuration")
	cmd.PersistentFlags().StringVar(&flags.logFormat, "log-format", "",
		"Log format (json, console), overrides the configuration")

	cmd.AddCommand(newServeCmd(flags))
	cmd.AddCommand(newRequestCmd(flags))

	return cmd
}

// load reads the configuration and builds the logger and tracer.
func (f *globalFlags) load(ctx context.Context) (*config.Config, observability.Logger, *observability.Tracer, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	if f.logFormat != "" {
		cfg.LogFormat = f.logFormat
	}

	logger, err := observability.NewLogger(cfg.LogConfig())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	tracer, err := observability.NewTracer(ctx, cfg.TracerConfig())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize tracer: %w", err)
	}

	return cfg, logger, tracer, nil
}

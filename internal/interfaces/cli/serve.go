package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/turtacn/EnviroLens/internal/config"
	"github.com/turtacn/EnviroLens/internal/infrastructure/monitoring/logging"
	httpserver "github.com/turtacn/EnviroLens/internal/interfaces/http"
)

// ServeOptions holds serve flags.
type ServeOptions struct {
	Host   string
	Port   int
	Static string
}

// NewServeCmd runs the HTTP API until SIGINT or SIGTERM.
func NewServeCmd() *cobra.Command {
	opts := &ServeOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and dashboard",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			applyServeOverrides(cmd, cliCtx.Config, opts)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return RunServer(ctx, cliCtx.Config, cliCtx.ConfigPath, cliCtx.Logger)
		},
	}
	cmd.Flags().StringVar(&opts.Host, "host", "", "listen host (overrides server.host)")
	cmd.Flags().IntVarP(&opts.Port, "port", "p", 0, "listen port (overrides server.port)")
	cmd.Flags().StringVar(&opts.Static, "static-dir", "", "serve the dashboard from this directory")
	return cmd
}

func applyServeOverrides(cmd *cobra.Command, cfg *config.Config, opts *ServeOptions) {
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = opts.Host
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = opts.Port
	}
	if cmd.Flags().Changed("static-dir") {
		cfg.Server.StaticDir = opts.Static
	}
}

// RunServer wires the application and serves until ctx is done.  When
// configPath is set, log.level edits are applied without a restart.
func RunServer(ctx context.Context, cfg *config.Config, configPath string, logger logging.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	app, err := NewApp(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("bootstrap failed: %w", err)
	}
	defer app.Close()

	handler, stopLimiter, err := app.Router()
	if err != nil {
		return fmt.Errorf("router setup failed: %w", err)
	}
	defer stopLimiter()

	if configPath != "" {
		watchLogLevel(configPath, logger)
	}

	logger.Info("starting EnviroLens API server",
		logging.String("version", Version),
		logging.String("addr", cfg.Addr()),
		logging.String("cache", cfg.Cache.Backend),
		logging.Bool("insights", cfg.Insight.Enabled),
		logging.Bool("kafka", cfg.Kafka.Enabled))

	srv := httpserver.NewServer(cfg.Addr(), handler, cfg.Server, logger)
	return srv.Run(ctx)
}

func watchLogLevel(configPath string, logger logging.Logger) {
	setter, ok := logger.(logging.LevelSetter)
	if !ok {
		return
	}
	err := config.Watch(configPath,
		func(c *config.Config) {
			setter.SetLevel(c.Log.Level)
			logger.Info("log level reloaded", logging.String("level", c.Log.Level))
		},
		func(err error) {
			logger.Warn("ignoring invalid config change", logging.Err(err))
		})
	if err != nil {
		logger.Warn("config watch disabled", logging.Err(err))
	}
}

//Personal.AI order the ending

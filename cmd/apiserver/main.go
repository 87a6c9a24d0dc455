// API server entry point for EnviroLens.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/turtacn/EnviroLens/internal/config"
	"github.com/turtacn/EnviroLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/EnviroLens/internal/interfaces/cli"
)

const defaultConfigPath = "configs/config.yaml"

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	staticDir := flag.String("static-dir", "", "serve the dashboard from this directory")
	flag.Parse()

	cli.Version, cli.GitCommit, cli.BuildDate = version, commit, buildDate

	cfg, watchPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *staticDir != "" {
		cfg.Server.StaticDir = *staticDir
	}

	logger, err := logging.NewLogger(logging.LogConfig{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		OutputPaths: cfg.Log.OutputPaths,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	logging.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.RunServer(ctx, cfg, watchPath, logger); err != nil {
		logger.Error("server exited", logging.Err(err))
		stop()
		os.Exit(1)
	}
	logger.Info("server shutdown complete")
}

// loadConfig reads path when it exists and otherwise falls back to
// environment variables and defaults.  The returned watch path is empty in the
// fallback case.
func loadConfig(path string) (*config.Config, string, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg, err := config.LoadFromEnv()
			return cfg, "", err
		}
		return nil, "", err
	}
	cfg, err := config.Load(path)
	return cfg, path, err
}

//Personal.AI order the ending

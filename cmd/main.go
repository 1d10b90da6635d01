package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/holocron/internal/shared"
	"github.com/urfave/cli/v3"
)

const (
	defaultConfigPath = "config.toml"
	defaultEnvPath    = ".env"
)

func main() {
	logger := shared.NewLogger(nil)

	config, err := shared.ResolveConfig(defaultConfigPath, defaultEnvPath)
	if err != nil {
		logger.Warn("failed to resolve config, using defaults", "error", err)
		config = shared.DefaultConfig()
	}

	if err := shared.ApplyLogLevel(logger, config.Log.Level); err != nil {
		logger.Warn("ignoring log level", "error", err)
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: defaultConfigPath,
		Logger:     logger,
	})
	defer runner.Close()

	app := &cli.Command{
		Name:     "holocron",
		Usage:    "Catalog of characters, planets and vehicles with per-user favorites",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			return
		}
		runner.Close()
		logger.Fatalf("application error: %v", err)
	}
}

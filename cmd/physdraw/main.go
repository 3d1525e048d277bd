// Package main is the entry point for the physdraw visualization harness.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/physdraw/internal/config"
	"github.com/Faultbox/physdraw/internal/harness"
	"github.com/Faultbox/physdraw/internal/logger"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}

	if path := config.WriteConfigPath(); path != "" {
		os.Exit(writeConfig(cfg, path))
	}

	os.Exit(run(cfg))
}

// writeConfig dumps the effective config, flags applied, for use as a
// starting config file.
func writeConfig(cfg *config.Config, path string) int {
	defer logger.Sync()

	if err := cfg.SaveTo(path); err != nil {
		logger.Error("failed to write config", zap.Error(err))
		return 1
	}
	logger.Info("config written", zap.String("path", path))
	return 0
}

// run returns the process exit code so deferred cleanup runs before exit.
func run(cfg *config.Config) int {
	defer logger.Sync()

	logger.Info("=== physdraw ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	h, err := harness.New(cfg)
	if err != nil {
		logger.Error("failed to create harness", zap.Error(err))
		return 1
	}
	defer h.Close()

	if err := h.Run(ctx); err != nil {
		logger.Error("harness error", zap.Error(err))
		return 1
	}

	logger.Info("harness closed normally")
	return 0
}

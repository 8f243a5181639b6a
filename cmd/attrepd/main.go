// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/edreports/attrep/internal/api"
	"github.com/edreports/attrep/internal/config"
	"github.com/edreports/attrep/internal/jobs"
	xglog "github.com/edreports/attrep/internal/log"
)

var (
	version   = "v1.0.0"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to config file (YAML)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	// Safe defaults until the real config is loaded.
	xglog.Configure(xglog.Config{
		Level:   "info",
		Service: "attrep",
		Version: version,
	})
	logger := xglog.WithComponent("daemon")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Config path: explicit via --config, otherwise ${ATTREP_DATA}/config.yaml
	// if it exists.
	effectiveConfigPath := strings.TrimSpace(*configPath)
	if effectiveConfigPath == "" {
		dataDir := strings.TrimSpace(config.ParseString("ATTREP_DATA", "./data"))
		autoPath := filepath.Join(dataDir, "config.yaml")
		if _, err := os.Stat(autoPath); err == nil {
			effectiveConfigPath = autoPath
		}
	}

	cfg, err := config.NewLoader(effectiveConfigPath, version).Load()
	if err != nil {
		logger.Fatal().
			Err(err).
			Str(xglog.FieldEvent, "config.load_failed").
			Str("config_path", effectiveConfigPath).
			Msg("failed to load configuration")
	}

	xglog.Configure(xglog.Config{
		Level:   cfg.LogLevel,
		Service: cfg.LogService,
		Version: cfg.Version,
	})

	if effectiveConfigPath != "" {
		logger.Info().
			Str(xglog.FieldEvent, "config.loaded").
			Str("source", "file").
			Str(xglog.FieldPath, effectiveConfigPath).
			Msg("loaded configuration from file")
	} else {
		logger.Info().
			Str(xglog.FieldEvent, "config.loaded").
			Str("source", "env+defaults").
			Msg("loaded configuration from environment and defaults")
	}

	for _, dir := range []string{cfg.UploadsDir(), cfg.ReportsDir()} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			logger.Fatal().
				Err(err).
				Str(xglog.FieldEvent, "startup.mkdir_failed").
				Str(xglog.FieldPath, dir).
				Msg("failed to create data directory")
		}
	}

	logger.Info().
		Str(xglog.FieldEvent, "startup").
		Str("version", version).
		Str("commit", commit).
		Str("build_date", buildDate).
		Str("addr", cfg.Listen).
		Msg("starting attrep")
	logger.Info().Msgf("→ Data dir: %s", cfg.DataDir)
	logger.Info().Msgf("→ Attendance threshold: %.0f%%", cfg.Threshold*100)
	logger.Info().Msgf("→ Upload cap: %d MB", cfg.MaxUploadBytes>>20)
	logger.Info().Msgf("→ Retention: %s (sweep every %s)", cfg.Retention, cfg.SweepInterval)

	store := jobs.NewStore(nil)
	server := api.NewServer(cfg, store)

	httpServer := &http.Server{
		Addr:              cfg.Listen,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	sweeper := &jobs.Sweeper{
		Dirs:     []string{cfg.UploadsDir(), cfg.ReportsDir()},
		MaxAge:   cfg.Retention,
		Interval: cfg.SweepInterval,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str(xglog.FieldEvent, "http.listening").Str("addr", cfg.Listen).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := sweeper.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("retention sweeper: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		logger.Info().Str(xglog.FieldEvent, "shutdown.begin").Msg("shutting down")
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal().
			Err(err).
			Str(xglog.FieldEvent, "shutdown.error").
			Msg("server exited with error")
	}
	logger.Info().Str(xglog.FieldEvent, "shutdown.complete").Msg("goodbye")
}

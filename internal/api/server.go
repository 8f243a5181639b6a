// SPDX-License-Identifier: MIT

// Package api exposes the HTTP surface: spreadsheet upload, job status
// polling, secure report downloads and operational endpoints.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/edreports/attrep/internal/config"
	"github.com/edreports/attrep/internal/health"
	"github.com/edreports/attrep/internal/jobs"
)

// Server holds the handler dependencies.
type Server struct {
	cfg       config.AppConfig
	store     *jobs.Store
	health    *health.Manager
	metrics   jobs.MetricsRecorder
	startTime time.Time

	// process runs one job; replaced in tests to run synchronously.
	process func(jobID string)
}

// NewServer wires the HTTP server to its collaborators.
func NewServer(cfg config.AppConfig, store *jobs.Store) *Server {
	s := &Server{
		cfg:       cfg,
		store:     store,
		metrics:   PipelineMetrics{},
		startTime: time.Now(),
	}

	s.health = health.NewManager(cfg.Version)
	s.health.RegisterChecker(health.NewDirWritableChecker("uploads_dir", cfg.UploadsDir()))
	s.health.RegisterChecker(health.NewDirWritableChecker("reports_dir", cfg.ReportsDir()))
	s.health.RegisterChecker(health.NewJobStoreChecker(store.Len, 0))

	deps := jobs.Deps{
		Store:      store,
		ReportsDir: cfg.ReportsDir(),
		Threshold:  cfg.Threshold,
		Metrics:    s.metrics,
	}
	s.process = func(jobID string) {
		// Background work must not die with the request context.
		go jobs.Process(context.Background(), deps, jobID)
	}

	return s
}

// Handler returns the fully routed HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.routes()
}

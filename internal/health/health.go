// SPDX-License-Identifier: MIT

// Package health provides health and readiness checks for container probes,
// with per-component status detail.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	xglog "github.com/edreports/attrep/internal/log"
)

// Status represents the overall health/readiness status.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// CheckResult is the result of one component check.
type CheckResult struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// HealthResponse is the liveness payload.
type HealthResponse struct {
	Status    Status                 `json:"status"`
	Version   string                 `json:"version,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
}

// ReadinessResponse is the readiness payload.
type ReadinessResponse struct {
	Ready     bool                   `json:"ready"`
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
}

// Checker is one component health check.
type Checker interface {
	Name() string
	Check(ctx context.Context) CheckResult
}

// Manager runs registered checkers and serves the probe endpoints.
type Manager struct {
	version  string
	checkers []Checker
}

// NewManager creates a health check manager.
func NewManager(version string) *Manager {
	return &Manager{
		version:  version,
		checkers: make([]Checker, 0),
	}
}

// RegisterChecker adds a health checker to the manager.
func (m *Manager) RegisterChecker(checker Checker) {
	m.checkers = append(m.checkers, checker)
}

// Health is the liveness probe. Always healthy for a running process; verbose
// mode includes component detail.
func (m *Manager) Health(ctx context.Context, verbose bool) HealthResponse {
	resp := HealthResponse{
		Status:    StatusHealthy,
		Version:   m.version,
		Timestamp: time.Now(),
	}

	if verbose && len(m.checkers) > 0 {
		resp.Checks = make(map[string]CheckResult)
		resp.Status = m.runChecks(ctx, resp.Checks)
	}

	return resp
}

// Ready is the readiness probe. Any unhealthy component makes the service
// not ready.
func (m *Manager) Ready(ctx context.Context) ReadinessResponse {
	resp := ReadinessResponse{
		Ready:     true,
		Status:    StatusHealthy,
		Timestamp: time.Now(),
	}

	if len(m.checkers) == 0 {
		return resp
	}

	resp.Checks = make(map[string]CheckResult)
	resp.Status = m.runChecks(ctx, resp.Checks)
	if resp.Status == StatusUnhealthy {
		resp.Ready = false
	}

	return resp
}

func (m *Manager) runChecks(ctx context.Context, out map[string]CheckResult) Status {
	status := StatusHealthy
	for _, checker := range m.checkers {
		result := checker.Check(ctx)
		out[checker.Name()] = result

		switch result.Status {
		case StatusUnhealthy:
			status = StatusUnhealthy
		case StatusDegraded:
			if status != StatusUnhealthy {
				status = StatusDegraded
			}
		}
	}
	return status
}

// ServeHealth handles liveness requests. Always 200.
func (m *Manager) ServeHealth(w http.ResponseWriter, r *http.Request) {
	logger := xglog.WithComponentFromContext(r.Context(), "health")
	verbose := r.URL.Query().Get("verbose") == "true"

	resp := m.Health(r.Context(), verbose)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Error().Err(err).Str(xglog.FieldEvent, "health.encode_error").Msg("failed to encode health response")
	}
}

// ServeReady handles readiness requests. 503 when not ready.
func (m *Manager) ServeReady(w http.ResponseWriter, r *http.Request) {
	logger := xglog.WithComponentFromContext(r.Context(), "readiness")

	resp := m.Ready(r.Context())

	w.Header().Set("Content-Type", "application/json")
	if resp.Ready {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Error().Err(err).Str(xglog.FieldEvent, "readiness.encode_error").Msg("failed to encode readiness response")
	}
}

// DirWritableChecker verifies a directory exists and accepts writes. Used for
// the uploads and reports directories the service cannot run without.
type DirWritableChecker struct {
	name string
	path string
}

// NewDirWritableChecker creates a checker for a writable directory.
func NewDirWritableChecker(name, path string) *DirWritableChecker {
	return &DirWritableChecker{name: name, path: path}
}

func (c *DirWritableChecker) Name() string {
	return c.name
}

func (c *DirWritableChecker) Check(context.Context) CheckResult {
	info, err := os.Stat(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return CheckResult{
				Status:  StatusUnhealthy,
				Error:   "directory not found",
				Message: c.path,
			}
		}
		return CheckResult{Status: StatusUnhealthy, Error: err.Error()}
	}
	if !info.IsDir() {
		return CheckResult{Status: StatusUnhealthy, Error: "expected directory, got file"}
	}

	probe := filepath.Join(c.path, fmt.Sprintf(".probe-%d", time.Now().UnixNano()))
	f, err := os.Create(probe) // #nosec G304 -- path comes from service config
	if err != nil {
		return CheckResult{Status: StatusUnhealthy, Error: "directory not writable", Message: c.path}
	}
	_ = f.Close()
	_ = os.Remove(probe)

	return CheckResult{Status: StatusHealthy, Message: "directory writable"}
}

// JobStoreChecker reports on the in-memory job store. A reachable store is
// healthy; a large backlog is degraded.
type JobStoreChecker struct {
	count func() int
	limit int
}

// NewJobStoreChecker creates a checker that flags a backlog above limit.
func NewJobStoreChecker(count func() int, limit int) *JobStoreChecker {
	if limit <= 0 {
		limit = 1000
	}
	return &JobStoreChecker{count: count, limit: limit}
}

func (c *JobStoreChecker) Name() string {
	return "job_store"
}

func (c *JobStoreChecker) Check(context.Context) CheckResult {
	n := c.count()
	if n > c.limit {
		return CheckResult{
			Status:  StatusDegraded,
			Message: fmt.Sprintf("%d jobs tracked (limit %d)", n, c.limit),
		}
	}
	return CheckResult{
		Status:  StatusHealthy,
		Message: fmt.Sprintf("%d jobs tracked", n),
	}
}

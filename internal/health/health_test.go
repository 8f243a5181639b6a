// SPDX-License-Identifier: MIT

package health

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticChecker struct {
	name   string
	result CheckResult
}

func (c staticChecker) Name() string                      { return c.name }
func (c staticChecker) Check(context.Context) CheckResult { return c.result }

func TestHealthAlwaysHealthyWithoutVerbose(t *testing.T) {
	m := NewManager("1.2.3")
	m.RegisterChecker(staticChecker{"broken", CheckResult{Status: StatusUnhealthy}})

	resp := m.Health(context.Background(), false)
	assert.Equal(t, StatusHealthy, resp.Status)
	assert.Equal(t, "1.2.3", resp.Version)
	assert.Nil(t, resp.Checks)
}

func TestHealthVerboseAggregates(t *testing.T) {
	m := NewManager("dev")
	m.RegisterChecker(staticChecker{"ok", CheckResult{Status: StatusHealthy}})
	m.RegisterChecker(staticChecker{"slow", CheckResult{Status: StatusDegraded}})

	resp := m.Health(context.Background(), true)
	assert.Equal(t, StatusDegraded, resp.Status)
	assert.Len(t, resp.Checks, 2)
}

func TestReadyFailsOnUnhealthyComponent(t *testing.T) {
	m := NewManager("dev")
	m.RegisterChecker(staticChecker{"dir", CheckResult{Status: StatusUnhealthy, Error: "gone"}})

	resp := m.Ready(context.Background())
	assert.False(t, resp.Ready)
	assert.Equal(t, StatusUnhealthy, resp.Status)
}

func TestServeReadyStatusCodes(t *testing.T) {
	m := NewManager("dev")

	rec := httptest.NewRecorder()
	m.ServeReady(rec, httptest.NewRequest("GET", "/readyz", nil))
	assert.Equal(t, 200, rec.Code)

	m.RegisterChecker(staticChecker{"dir", CheckResult{Status: StatusUnhealthy}})
	rec = httptest.NewRecorder()
	m.ServeReady(rec, httptest.NewRequest("GET", "/readyz", nil))
	assert.Equal(t, 503, rec.Code)

	var resp ReadinessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Ready)
}

func TestDirWritableChecker(t *testing.T) {
	dir := t.TempDir()

	c := NewDirWritableChecker("reports_dir", dir)
	assert.Equal(t, StatusHealthy, c.Check(context.Background()).Status)

	missing := NewDirWritableChecker("reports_dir", filepath.Join(dir, "nope"))
	res := missing.Check(context.Background())
	assert.Equal(t, StatusUnhealthy, res.Status)
	assert.Equal(t, "directory not found", res.Error)

	file := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	notDir := NewDirWritableChecker("reports_dir", file)
	assert.Equal(t, StatusUnhealthy, notDir.Check(context.Background()).Status)
}

func TestJobStoreChecker(t *testing.T) {
	c := NewJobStoreChecker(func() int { return 3 }, 10)
	assert.Equal(t, StatusHealthy, c.Check(context.Background()).Status)

	c = NewJobStoreChecker(func() int { return 11 }, 10)
	assert.Equal(t, StatusDegraded, c.Check(context.Background()).Status)
}

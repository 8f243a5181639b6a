// SPDX-License-Identifier: MIT

package api

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edreports/attrep/internal/jobs"
)

func newFileServerTest(t *testing.T) (*Server, string) {
	t.Helper()
	cfg := testConfig(t)
	s := NewServer(cfg, jobs.NewStore(nil))
	return s, cfg.ReportsDir()
}

func TestFileServerServesReport(t *testing.T) {
	s, reportsDir := newFileServerTest(t)
	require.NoError(t, os.WriteFile(filepath.Join(reportsDir, "report.pdf"), []byte("%PDF-1.4 test"), 0o644))

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/reports/report.pdf", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get("ETag"))
	assert.Contains(t, rec.Body.String(), "%PDF")
}

func TestFileServerETagRoundTrip(t *testing.T) {
	s, reportsDir := newFileServerTest(t)
	require.NoError(t, os.WriteFile(filepath.Join(reportsDir, "report.pdf"), []byte("%PDF-1.4 test"), 0o644))

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/reports/report.pdf", nil))
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)

	req := httptest.NewRequest("GET", "/reports/report.pdf", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotModified, rec.Code)
}

func TestFileServerDeniesTraversal(t *testing.T) {
	s, _ := newFileServerTest(t)

	secret := filepath.Join(s.cfg.DataDir, "secret.txt")
	require.NoError(t, os.WriteFile(secret, []byte("top secret"), 0o644))

	paths := []string{
		"/reports/../secret.txt",
		"/reports/%2e%2e/secret.txt",
		"/reports/%252e%252e/secret.txt",
		"/reports/..%2fsecret.txt",
	}
	for _, p := range paths {
		req := httptest.NewRequest("GET", p, nil)
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		assert.NotEqual(t, http.StatusOK, rec.Code, "path %s must not be served", p)
		assert.NotContains(t, rec.Body.String(), "top secret", "path %s leaked file content", p)
	}
}

func TestFileServerDeniesSymlinkEscape(t *testing.T) {
	s, reportsDir := newFileServerTest(t)

	outside := filepath.Join(s.cfg.DataDir, "outside.pdf")
	require.NoError(t, os.WriteFile(outside, []byte("%PDF outside"), 0o644))
	link := filepath.Join(reportsDir, "link.pdf")
	if err := os.Symlink(outside, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/reports/link.pdf", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestFileServerDeniesDirectoryAndMethods(t *testing.T) {
	s, _ := newFileServerTest(t)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/reports/", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("POST", "/reports/report.pdf", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestFileServerNotFound(t *testing.T) {
	s, _ := newFileServerTest(t)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/reports/missing.pdf", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestIsPathTraversal(t *testing.T) {
	cases := map[string]bool{
		"report.pdf":              false,
		"../etc/passwd":           true,
		"%2e%2e/etc/passwd":       true,
		"%252e%252e/etc/passwd":   true,
		"a\\b.pdf":                true,
		"file%00.pdf":             true,
		"attendance_report_x.pdf": false,
	}
	for input, want := range cases {
		assert.Equal(t, want, isPathTraversal(input), "input %q", input)
	}
}

// SPDX-License-Identifier: MIT

package api

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	xglog "github.com/edreports/attrep/internal/log"
)

// secureFileServer serves generated reports from the reports directory with
// checks against path traversal, symlink escapes, and directory listing.
func (s *Server) secureFileServer() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := xglog.WithComponentFromContext(r.Context(), "api")

		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			logger.Warn().Str(xglog.FieldEvent, "file_req.denied").Str(xglog.FieldPath, r.URL.Path).Str("reason", "method_not_allowed").Msg("method not allowed")
			recordFileRequestDenied("method_not_allowed")
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		name := strings.TrimPrefix(r.URL.Path, "/reports/")

		// Traversal detection with multiple URL-decode passes, Unicode
		// normalization and NUL checks.
		if isPathTraversal(name) {
			logger.Warn().Str(xglog.FieldEvent, "file_req.denied").Str(xglog.FieldPath, r.URL.Path).Str("reason", "path_escape").Msg("detected traversal sequence")
			recordFileRequestDenied("path_escape")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		if name == "" || strings.HasSuffix(name, "/") {
			logger.Warn().Str(xglog.FieldEvent, "file_req.denied").Str(xglog.FieldPath, r.URL.Path).Str("reason", "directory_listing").Msg("directory listing forbidden")
			recordFileRequestDenied("directory_listing")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		absReportsDir, err := filepath.Abs(s.cfg.ReportsDir())
		if err != nil {
			logger.Error().Err(err).Str(xglog.FieldEvent, "file_req.internal_error").Msg("could not get absolute reports dir")
			recordFileRequestDenied("internal_error")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		fullPath := filepath.Join(absReportsDir, name)

		realPath, err := filepath.EvalSymlinks(fullPath)
		if err != nil {
			if os.IsNotExist(err) {
				recordFileRequestDenied("not_found")
				http.Error(w, "Not found", http.StatusNotFound)
				return
			}
			logger.Error().Err(err).Str(xglog.FieldEvent, "file_req.internal_error").Str(xglog.FieldPath, fullPath).Msg("could not evaluate symlinks")
			recordFileRequestDenied("internal_error")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		realReportsDir, err := filepath.EvalSymlinks(absReportsDir)
		if err != nil {
			logger.Error().Err(err).Str(xglog.FieldEvent, "file_req.internal_error").Msg("could not evaluate symlinks on reports dir")
			recordFileRequestDenied("internal_error")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		// Containment check via filepath.Rel protects against symlink escapes.
		relPath, err := filepath.Rel(realReportsDir, realPath)
		if err != nil || strings.HasPrefix(relPath, "..") || filepath.IsAbs(relPath) {
			logger.Warn().
				Str(xglog.FieldEvent, "file_req.denied").
				Str(xglog.FieldPath, name).
				Str("resolved_path", realPath).
				Str("reason", "path_escape").
				Msg("path escapes reports directory")
			recordFileRequestDenied("path_escape")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		// #nosec G304 -- realPath is validated to reside inside the reports directory
		f, err := os.Open(realPath)
		if err != nil {
			logger.Error().Err(err).Str(xglog.FieldEvent, "file_req.internal_error").Str(xglog.FieldPath, realPath).Msg("could not open file for serving")
			recordFileRequestDenied("internal_error")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		defer func() {
			_ = f.Close()
		}()

		info, err := f.Stat()
		if err != nil {
			logger.Error().Err(err).Str(xglog.FieldEvent, "file_req.internal_error").Str(xglog.FieldPath, realPath).Msg("could not stat opened file")
			recordFileRequestDenied("internal_error")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if info.IsDir() {
			logger.Warn().Str(xglog.FieldEvent, "file_req.denied").Str(xglog.FieldPath, name).Str("reason", "directory_listing").Msg("resolved path is a directory")
			recordFileRequestDenied("directory_listing")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		// Weak ETag from modtime and size; reports are immutable once written.
		etag := fmt.Sprintf(`W/"%x-%x"`, info.ModTime().UnixNano(), info.Size())
		w.Header().Set("ETag", etag)
		w.Header().Set("Cache-Control", "public, max-age=3600")

		if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
			recordFileCacheHit()
			w.WriteHeader(http.StatusNotModified)
			return
		}

		if strings.HasSuffix(strings.ToLower(info.Name()), ".pdf") {
			w.Header().Set("Content-Type", "application/pdf")
			w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", info.Name()))
		}

		logger.Info().Str(xglog.FieldEvent, "file_req.allowed").Str(xglog.FieldPath, name).Msg("serving report")
		recordFileRequestAllowed()
		recordFileCacheMiss()
		http.ServeContent(w, r, info.Name(), info.ModTime(), f)
	})
}

// isPathTraversal performs robust checks against path traversal attempts.
// It decodes the input multiple times to catch double-encoding, applies
// Unicode normalization, and searches for dangerous sequences including NULs.
func isPathTraversal(p string) bool {
	decoded := p
	for i := 0; i < 3; i++ {
		prev := decoded
		if d, err := url.PathUnescape(decoded); err == nil {
			decoded = d
		} else if d2, err2 := url.QueryUnescape(decoded); err2 == nil {
			decoded = d2
		}
		if decoded == prev {
			break
		}
	}

	lower := strings.ToLower(decoded)
	dangerSubstrings := []string{
		"..",        // parent traversal
		"\\",        // windows-style separators
		"%00",       // encoded NUL
		"%c0%ae",    // overlong UTF-8 for '.'
		"%e0%80%ae", // another overlong variant
	}
	for _, pat := range dangerSubstrings {
		if strings.Contains(lower, pat) {
			return true
		}
	}
	if strings.IndexByte(decoded, 0x00) >= 0 {
		return true
	}

	normalized := strings.ToLower(norm.NFC.String(decoded))
	return strings.Contains(normalized, "..")
}

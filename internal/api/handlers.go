// SPDX-License-Identifier: MIT

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/edreports/attrep/internal/fsutil"
	xglog "github.com/edreports/attrep/internal/log"
)

// allowedUploadExts are the spreadsheet formats the parser accepts.
var allowedUploadExts = map[string]bool{
	".xlsx": true,
	".xls":  true,
}

// handleUpload accepts a multipart spreadsheet upload, stores it under a
// fresh name in the uploads directory and queues a processing job. Replies
// 202 with the job id for status polling.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	logger := xglog.WithComponentFromContext(r.Context(), "api")

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			recordUploadRejected("too_large")
			writeError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("file exceeds the %d MB upload limit", s.cfg.MaxUploadBytes>>20))
			return
		}
		recordUploadRejected("no_file")
		writeError(w, http.StatusBadRequest, "no file provided; use multipart field 'file'")
		return
	}
	defer func() {
		_ = file.Close()
	}()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedUploadExts[ext] {
		recordUploadRejected("bad_extension")
		writeError(w, http.StatusBadRequest, "unsupported file type; upload .xlsx or .xls")
		return
	}

	// Fresh server-side name: client filenames never touch the filesystem.
	uploadName := uuid.New().String() + ext
	target, err := fsutil.ConfineRelPath(s.cfg.UploadsDir(), uploadName)
	if err != nil {
		logger.Error().Err(err).Str(xglog.FieldEvent, "upload.confine_error").Msg("failed to resolve upload path")
		recordUploadRejected("internal_error")
		writeError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}

	if err := saveUpload(target, file); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			recordUploadRejected("too_large")
			writeError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("file exceeds the %d MB upload limit", s.cfg.MaxUploadBytes>>20))
			return
		}
		logger.Error().Err(err).Str(xglog.FieldEvent, "upload.store_error").Msg("failed to store upload")
		recordUploadRejected("internal_error")
		writeError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}

	job := s.store.Create(target)
	recordUploadReceived()

	logger.Info().
		Str(xglog.FieldEvent, "upload.accepted").
		Str(xglog.FieldJobID, job.ID).
		Str("filename", header.Filename).
		Int64("size", header.Size).
		Msg("upload accepted")

	s.process(job.ID)

	writeJSON(w, http.StatusAccepted, map[string]string{
		"id":      job.ID,
		"status":  string(job.State),
		"message": "file received, processing started",
	})
}

func saveUpload(target string, src io.Reader) error {
	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600) // #nosec G304 -- confined above
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, src); err != nil {
		_ = out.Close()
		_ = os.Remove(target)
		return err
	}
	return out.Close()
}

// handleStatus reports the current state of one job.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	job, ok := s.store.Get(id)
	if !ok {
		writeNotFound(w)
		return
	}

	resp := map[string]any{
		"id":         job.ID,
		"status":     job.State,
		"progress":   job.Progress,
		"message":    job.Message,
		"created_at": job.CreatedAt,
		"updated_at": job.UpdatedAt,
	}
	if job.Error != "" {
		resp["error"] = job.Error
	}
	if job.ReportFile != "" {
		resp["download_url"] = "/reports/" + job.ReportFile
	}
	if job.Stats != nil {
		resp["stats"] = job.Stats
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleDeleteJob removes a job and its report artifact.
func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	logger := xglog.WithComponentFromContext(r.Context(), "api")

	id := chi.URLParam(r, "id")
	job, ok := s.store.Delete(id)
	if !ok {
		writeNotFound(w)
		return
	}

	if job.ReportFile != "" {
		if target, err := fsutil.ConfineRelPath(s.cfg.ReportsDir(), job.ReportFile); err == nil {
			if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
				logger.Warn().Err(err).Str(xglog.FieldReportPath, target).Msg("failed to remove report file")
			}
		}
	}

	logger.Info().
		Str(xglog.FieldEvent, "job.deleted").
		Str(xglog.FieldJobID, id).
		Msg("job deleted")

	writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": "deleted"})
}

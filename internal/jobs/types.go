// SPDX-License-Identifier: MIT

// Package jobs runs uploaded workbooks through the parse -> summarize ->
// render pipeline in the background and tracks their progress.
package jobs

import (
	"time"
)

// State is the lifecycle state of a processing job.
type State string

const (
	StateQueued     State = "queued"
	StateProcessing State = "processing"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
)

// ResultStats is the headline summary attached to a completed job,
// surfaced by the status endpoint before the PDF is downloaded.
type ResultStats struct {
	TotalStudents int      `json:"total_students"`
	Subjects      int      `json:"subjects_count"`
	AvgAttendance string   `json:"avg_attendance"`
	SubjectNames  []string `json:"subjects,omitempty"` // first few subject names
}

// Job is one tracked processing run.
type Job struct {
	ID         string       `json:"id"`
	State      State        `json:"status"`
	Progress   int          `json:"progress"`
	Message    string       `json:"message"`
	Error      string       `json:"error,omitempty"`
	UploadPath string       `json:"-"`
	ReportFile string       `json:"report_file,omitempty"` // filename within the reports dir
	Stats      *ResultStats `json:"stats,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// MetricsRecorder abstracts the metrics backend for easier testing.
type MetricsRecorder interface {
	RecordReportGenerated(duration time.Duration, students int)
	IncProcessFailure(reason string)
}

// nopMetrics is used when no recorder is wired.
type nopMetrics struct{}

func (nopMetrics) RecordReportGenerated(time.Duration, int) {}
func (nopMetrics) IncProcessFailure(string)                 {}

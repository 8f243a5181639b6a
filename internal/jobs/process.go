// SPDX-License-Identifier: MIT

package jobs

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/edreports/attrep/internal/attendance"
	"github.com/edreports/attrep/internal/fsutil"
	xglog "github.com/edreports/attrep/internal/log"
	"github.com/edreports/attrep/internal/report"
)

// maxSubjectNamesInStats caps the subject list surfaced via the status
// endpoint; the full list lives in the PDF.
const maxSubjectNamesInStats = 5

// Deps wires the processing pipeline to its collaborators.
type Deps struct {
	Store      *Store
	ReportsDir string
	Threshold  float64
	Metrics    MetricsRecorder
	Clock      func() time.Time
}

func (d Deps) metrics() MetricsRecorder {
	if d.Metrics == nil {
		return nopMetrics{}
	}
	return d.Metrics
}

func (d Deps) now() time.Time {
	if d.Clock == nil {
		return time.Now()
	}
	return d.Clock()
}

// Process runs one job through parse -> summarize -> render -> write and
// records the outcome in the store. Errors are reported via the job state,
// never returned; the caller usually runs this in a goroutine.
func Process(ctx context.Context, deps Deps, jobID string) {
	ctx = xglog.ContextWithJobID(ctx, jobID)
	logger := xglog.WithComponentFromContext(ctx, "jobs")

	job, ok := deps.Store.Get(jobID)
	if !ok {
		logger.Warn().Str(xglog.FieldEvent, "job.missing").Msg("process called for unknown job")
		return
	}

	start := deps.now()
	logger.Info().
		Str(xglog.FieldEvent, "job.start").
		Str(xglog.FieldUploadPath, job.UploadPath).
		Msg("processing uploaded workbook")

	// The upload is single-use; remove it whatever the outcome.
	defer func() {
		if err := os.Remove(job.UploadPath); err != nil && !os.IsNotExist(err) {
			logger.Warn().Err(err).
				Str(xglog.FieldUploadPath, job.UploadPath).
				Msg("failed to remove uploaded file")
		}
	}()

	deps.Store.setStage(jobID, 10, "reading spreadsheet")
	sheet, err := attendance.ReadWorkbook(job.UploadPath)
	if err != nil {
		failJob(deps, logger, jobID, "parse", err)
		return
	}

	deps.Store.setStage(jobID, 40, "computing statistics")
	sum := attendance.Summarize(sheet, deps.Threshold)

	if err := ctx.Err(); err != nil {
		failJob(deps, logger, jobID, "canceled", err)
		return
	}

	deps.Store.setStage(jobID, 65, "rendering report")
	pdf, err := report.Render(sheet, sum, report.Options{GeneratedAt: deps.now()})
	if err != nil {
		failJob(deps, logger, jobID, "render", err)
		return
	}

	deps.Store.setStage(jobID, 90, "writing report file")
	filename := reportFilename(jobID, deps.now())
	target, err := fsutil.ConfineRelPath(deps.ReportsDir, filename)
	if err != nil {
		failJob(deps, logger, jobID, "confine", err)
		return
	}
	if err := fsutil.WriteAtomic(ctx, target, pdf); err != nil {
		failJob(deps, logger, jobID, "write", err)
		return
	}

	deps.Store.complete(jobID, filename, buildStats(sum, sheet))
	deps.metrics().RecordReportGenerated(deps.now().Sub(start), sum.TotalStudents)

	logger.Info().
		Str(xglog.FieldEvent, "job.completed").
		Str(xglog.FieldReportPath, target).
		Int("students", sum.TotalStudents).
		Dur("duration", deps.now().Sub(start)).
		Msg("report generated")
}

// reportFilename builds the downloadable artifact name. The short job id
// suffix keeps concurrent jobs from colliding within one second.
func reportFilename(jobID string, now time.Time) string {
	short := jobID
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("attendance_report_%s_%s.pdf", now.Format("20060102_150405"), short)
}

func buildStats(sum *attendance.Summary, sheet *attendance.Sheet) *ResultStats {
	stats := &ResultStats{
		TotalStudents: sum.TotalStudents,
		Subjects:      len(sum.Subjects),
		AvgAttendance: fmt.Sprintf("%.1f%%", sum.AvgAttendance*100),
	}
	for i, subject := range sheet.Subjects {
		if i >= maxSubjectNamesInStats {
			break
		}
		stats.SubjectNames = append(stats.SubjectNames, report.SubjectTitle(subject))
	}
	return stats
}

func failJob(deps Deps, logger zerolog.Logger, jobID, stage string, err error) {
	deps.Store.fail(jobID, err.Error())
	deps.metrics().IncProcessFailure(stage)
	logger.Error().Err(err).
		Str(xglog.FieldEvent, "job.failed").
		Str("stage", stage).
		Msg("job processing failed")
}

// SPDX-License-Identifier: MIT

package api

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	uploadsReceivedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "attrep_uploads_received_total",
		Help: "Number of spreadsheet uploads accepted for processing",
	})

	uploadsRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "attrep_uploads_rejected_total",
		Help: "Number of uploads rejected before processing",
	}, []string{"reason"})

	reportDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "attrep_report_duration_seconds",
		Help:    "Duration of report generation in seconds",
		Buckets: prometheus.ExponentialBuckets(0.1, 2.0, 10), // 0.1s .. ~51.2s
	})

	studentsProcessed = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "attrep_students_processed",
		Help: "Number of students in the last generated report",
	})

	lastReportTime = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "attrep_last_report_timestamp",
		Help: "Timestamp of the last successful report generation (Unix timestamp)",
	})

	processFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "attrep_process_failures_total",
		Help: "Number of processing pipeline failures by stage",
	}, []string{"stage"})

	fileRequestsDeniedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "attrep_file_requests_denied_total",
		Help: "Number of report file requests denied for security reasons",
	}, []string{"reason"})

	fileRequestsAllowedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "attrep_file_requests_allowed_total",
		Help: "Number of report file requests allowed",
	})

	fileCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "attrep_file_cache_hits_total",
		Help: "Number of report file requests served as 304 Not Modified",
	})

	fileCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "attrep_file_cache_misses_total",
		Help: "Number of report file requests resulting in 200 OK",
	})
)

func recordUploadReceived() {
	uploadsReceivedTotal.Inc()
}

func recordUploadRejected(reason string) {
	uploadsRejectedTotal.WithLabelValues(reason).Inc()
}

func recordFileRequestAllowed() {
	fileRequestsAllowedTotal.Inc()
}

func recordFileRequestDenied(reason string) {
	fileRequestsDeniedTotal.WithLabelValues(reason).Inc()
}

func recordFileCacheHit() {
	fileCacheHitsTotal.Inc()
}

func recordFileCacheMiss() {
	fileCacheMissesTotal.Inc()
}

// PipelineMetrics adapts the Prometheus collectors to the jobs package.
type PipelineMetrics struct{}

func (PipelineMetrics) RecordReportGenerated(duration time.Duration, students int) {
	reportDuration.Observe(duration.Seconds())
	studentsProcessed.Set(float64(students))
	lastReportTime.Set(float64(time.Now().Unix()))
}

func (PipelineMetrics) IncProcessFailure(stage string) {
	processFailuresTotal.WithLabelValues(stage).Inc()
}

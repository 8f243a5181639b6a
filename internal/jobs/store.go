// SPDX-License-Identifier: MIT

package jobs

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store is an in-memory job registry. Job history is intentionally not
// persisted; a restart forgets all runs.
type Store struct {
	mu    sync.RWMutex
	jobs  map[string]*Job
	clock func() time.Time
}

// NewStore creates a job store. clock may be nil (defaults to time.Now).
func NewStore(clock func() time.Time) *Store {
	if clock == nil {
		clock = time.Now
	}
	return &Store{
		jobs:  make(map[string]*Job),
		clock: clock,
	}
}

// Create registers a new queued job for the given uploaded file.
func (s *Store) Create(uploadPath string) Job {
	now := s.clock()
	job := &Job{
		ID:         uuid.New().String(),
		State:      StateQueued,
		Message:    "queued for processing",
		UploadPath: uploadPath,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()

	return *job
}

// Get returns a copy of the job, or false if unknown.
func (s *Store) Get(id string) (Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *job, true
}

// Delete removes a job and returns its final snapshot.
func (s *Store) Delete(id string) (Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return Job{}, false
	}
	delete(s.jobs, id)
	return *job, true
}

// Len returns the number of tracked jobs.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}

// setStage advances a job's progress within the processing state.
func (s *Store) setStage(id string, progress int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return
	}
	job.State = StateProcessing
	job.Progress = progress
	job.Message = message
	job.UpdatedAt = s.clock()
}

// complete marks a job as finished with its report artifact and stats.
func (s *Store) complete(id, reportFile string, stats *ResultStats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return
	}
	job.State = StateCompleted
	job.Progress = 100
	job.Message = "report generated successfully"
	job.ReportFile = reportFile
	job.Stats = stats
	job.UpdatedAt = s.clock()
}

// fail marks a job as failed with the given reason.
func (s *Store) fail(id string, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return
	}
	job.State = StateFailed
	job.Progress = 0
	job.Message = "processing failed"
	job.Error = reason
	job.UpdatedAt = s.clock()
}

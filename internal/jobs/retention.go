// SPDX-License-Identifier: MIT

package jobs

import (
	"context"
	"os"
	"path/filepath"
	"time"

	xglog "github.com/edreports/attrep/internal/log"
)

// Sweeper deletes uploads and reports older than MaxAge. Both directories
// hold only flat, service-written files; subdirectories are left alone.
type Sweeper struct {
	Dirs     []string
	MaxAge   time.Duration
	Interval time.Duration
	Clock    func() time.Time
}

func (s *Sweeper) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock()
}

// Run sweeps on every tick until ctx is canceled. An immediate first sweep
// clears leftovers from a previous run.
func (s *Sweeper) Run(ctx context.Context) error {
	logger := xglog.WithComponentFromContext(ctx, "sweeper")
	logger.Info().
		Dur("interval", s.Interval).
		Dur("max_age", s.MaxAge).
		Msg("retention sweeper started")

	s.SweepOnce(ctx)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("retention sweeper stopped")
			return ctx.Err()
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

// SweepOnce removes expired files from all configured directories and
// returns how many were deleted.
func (s *Sweeper) SweepOnce(ctx context.Context) int {
	logger := xglog.WithComponentFromContext(ctx, "sweeper")
	cutoff := s.now().Add(-s.MaxAge)

	removed := 0
	for _, dir := range s.Dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if !os.IsNotExist(err) {
				logger.Warn().Err(err).Str(xglog.FieldPath, dir).Msg("failed to read directory")
			}
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			if info.ModTime().After(cutoff) {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			if err := os.Remove(path); err != nil {
				logger.Warn().Err(err).Str(xglog.FieldPath, path).Msg("failed to remove expired file")
				continue
			}
			removed++
			logger.Debug().Str(xglog.FieldPath, path).Msg("removed expired file")
		}
	}

	if removed > 0 {
		logger.Info().Int("removed", removed).Msg("retention sweep completed")
	}
	return removed
}

// SPDX-License-Identifier: MIT

package jobs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touchFile(t *testing.T, path string, modTime time.Time) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	require.NoError(t, os.Chtimes(path, modTime, modTime))
}

func TestSweepOnceRemovesExpiredFiles(t *testing.T) {
	uploads := t.TempDir()
	reports := t.TempDir()

	now := time.Now()
	old := now.Add(-48 * time.Hour)

	touchFile(t, filepath.Join(uploads, "stale.xlsx"), old)
	touchFile(t, filepath.Join(uploads, "fresh.xlsx"), now)
	touchFile(t, filepath.Join(reports, "stale.pdf"), old)
	require.NoError(t, os.MkdirAll(filepath.Join(reports, "subdir"), 0o755))

	sweeper := &Sweeper{
		Dirs:     []string{uploads, reports},
		MaxAge:   24 * time.Hour,
		Interval: time.Hour,
		Clock:    func() time.Time { return now },
	}

	removed := sweeper.SweepOnce(context.Background())
	assert.Equal(t, 2, removed)

	_, err := os.Stat(filepath.Join(uploads, "fresh.xlsx"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(uploads, "stale.xlsx"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(reports, "stale.pdf"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(reports, "subdir"))
	assert.NoError(t, err, "subdirectories are left alone")
}

func TestSweepOnceToleratesMissingDir(t *testing.T) {
	sweeper := &Sweeper{
		Dirs:     []string{filepath.Join(t.TempDir(), "does-not-exist")},
		MaxAge:   time.Hour,
		Interval: time.Hour,
	}
	assert.Zero(t, sweeper.SweepOnce(context.Background()))
}

func TestSweeperRunStopsOnCancel(t *testing.T) {
	sweeper := &Sweeper{
		Dirs:     []string{t.TempDir()},
		MaxAge:   time.Hour,
		Interval: 10 * time.Millisecond,
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sweeper.Run(ctx) }()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}

// SPDX-License-Identifier: MIT

package fsutil

import (
	"context"
	"fmt"

	"github.com/google/renameio/v2"

	xglog "github.com/edreports/attrep/internal/log"
)

// WriteAtomic writes data to path with full durability guarantees using renameio.
// fsync before rename ensures the file is either fully present or absent after
// a crash, never truncated.
func WriteAtomic(ctx context.Context, path string, data []byte) error {
	logger := xglog.FromContext(ctx)

	pendingFile, err := renameio.NewPendingFile(path)
	if err != nil {
		return fmt.Errorf("create pending file: %w", err)
	}
	defer func() {
		// renameio removes the temp file if it was never committed.
		if err := pendingFile.Cleanup(); err != nil {
			logger.Debug().Err(err).Str("path", path).Msg("cleanup pending file")
		}
	}()

	if _, err := pendingFile.Write(data); err != nil {
		return fmt.Errorf("write pending file: %w", err)
	}

	// CloseAtomicallyReplace: fsync + rename (durable + atomic)
	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace file: %w", err)
	}

	return nil
}

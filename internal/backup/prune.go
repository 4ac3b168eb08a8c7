package backup

import (
	"context"
	"fmt"
	"log/slog"
)

// PruneResult contains the outcome of a prune run.
type PruneResult struct {
	Scanned int
	Kept    int
	Deleted int
}

// Prune deletes all but the newest keep snapshots. keep <= 0 keeps everything.
func Prune(ctx context.Context, archive Archive, keep int, logger *slog.Logger) (*PruneResult, error) {
	result := &PruneResult{}

	entries, err := archive.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list backups: %w", err)
	}
	result.Scanned = len(entries)

	if keep <= 0 || len(entries) <= keep {
		result.Kept = len(entries)
		return result, nil
	}

	result.Kept = keep
	for _, e := range entries[keep:] {
		if err := archive.Delete(ctx, e.Hash); err != nil {
			logger.Warn("prune: failed to delete backup", "hash", e.Hash, "error", err)
			result.Kept++
			continue
		}
		result.Deleted++
	}

	logger.Info("prune complete",
		"scanned", result.Scanned,
		"kept", result.Kept,
		"deleted", result.Deleted,
	)

	return result, nil
}

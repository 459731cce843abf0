// Package retention runs the periodic pruning of request logs and prompt
// history.
package retention

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/xiy/reflective-mcp/internal/store"
)

// Pruner removes rows older than a cutoff.
type Pruner interface {
	Prune(ctx context.Context, before time.Time) (store.PruneResult, error)
}

// Start prunes rows older than maxAge immediately and then every interval
// until ctx is done.
func Start(ctx context.Context, logger *log.Logger, interval, maxAge time.Duration, pruner Pruner) {
	RunOnce(ctx, logger, maxAge, pruner)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			RunOnce(ctx, logger, maxAge, pruner)
		}
	}
}

// RunOnce performs a single prune pass.
func RunOnce(ctx context.Context, logger *log.Logger, maxAge time.Duration, pruner Pruner) store.PruneResult {
	res, err := pruner.Prune(ctx, time.Now().UTC().Add(-maxAge))
	if err != nil {
		logger.Warn("retention prune failed", "error", err)
		return store.PruneResult{}
	}
	if res.Requests > 0 || res.Prompts > 0 {
		logger.Info("retention pruned old rows", "requests", res.Requests, "prompts", res.Prompts)
	}
	return res
}

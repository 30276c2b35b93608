package auction

import (
	"context"
	"log/slog"

	"github.com/rosterbid/auction-engine/internal/store"
)

// Watcher keeps a replica's engine converged with the shared snapshot: it
// listens for snapshot change notifications and rehydrates whenever another
// process has written a newer version. Writes by this process carry a
// version no greater than the local one and are skipped.
type Watcher struct {
	engine   *Engine
	notifier store.Notifier
}

// NewWatcher creates a watcher for the given engine and notifier.
func NewWatcher(engine *Engine, notifier store.Notifier) *Watcher {
	return &Watcher{engine: engine, notifier: notifier}
}

// Run blocks, applying remote snapshot versions until ctx is cancelled or
// the notification stream fails.
func (w *Watcher) Run(ctx context.Context) error {
	versions, err := w.notifier.Watch(ctx)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case version, ok := <-versions:
			if !ok {
				return nil
			}
			if version <= w.engine.Version() {
				continue
			}
			if _, err := w.engine.Rehydrate(ctx); err != nil {
				slog.Warn("rehydrate after remote write failed", "version", version, "err", err)
			}
		}
	}
}

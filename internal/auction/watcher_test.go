package auction

import (
	"context"
	"testing"
	"time"

	"github.com/rosterbid/auction-engine/internal/store"
)

// chanNotifier feeds versions from a plain channel.
type chanNotifier struct {
	ch chan uint64
}

func (n *chanNotifier) Watch(_ context.Context) (<-chan uint64, error) {
	return n.ch, nil
}

func TestWatcher_RehydratesOnRemoteWrite(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ms := store.NewMemorySnapshotStore()
	local := NewEngine(ctx, stubFactory{}, ms)

	// A "remote" engine shares the snapshot store and moves ahead.
	remote := NewEngine(ctx, stubFactory{}, ms)
	remote.SetCurrentPlayer(ctx, "p2")
	remote.PlaceBid(ctx, "t1", d(150))

	notifier := &chanNotifier{ch: make(chan uint64, 1)}
	w := NewWatcher(local, notifier)

	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	notifier.ch <- remote.Version()

	deadline := time.After(2 * time.Second)
	for local.Version() != remote.Version() {
		select {
		case <-deadline:
			t.Fatalf("watcher did not converge: local=%d remote=%d", local.Version(), remote.Version())
		case <-time.After(10 * time.Millisecond):
		}
	}

	st := local.State()
	if st.CurrentPlayerID != "p2" {
		t.Errorf("expected rehydrated floor p2, got %q", st.CurrentPlayerID)
	}

	cancel()
	<-done
}

func TestWatcher_SkipsStaleVersions(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ms := store.NewMemorySnapshotStore()
	local := NewEngine(ctx, stubFactory{}, ms)
	local.SetCurrentPlayer(ctx, "p1")

	notifier := &chanNotifier{ch: make(chan uint64, 1)}
	w := NewWatcher(local, notifier)

	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	before := local.Version()
	notifier.ch <- before // own write echoed back

	time.Sleep(50 * time.Millisecond)
	if local.Version() != before {
		t.Errorf("stale notification must not change the engine, version %d → %d", before, local.Version())
	}

	cancel()
	<-done
}

// Package store persists the engine's full state snapshot. Redis holds the
// authoritative slot between restarts and fans change notifications out to
// other replicas; the in-memory implementation backs tests and single-node
// development.
package store

import (
	"context"
	"errors"

	"github.com/rosterbid/auction-engine/internal/model"
)

// ErrNoSnapshot is returned by Load when no snapshot has been saved yet.
var ErrNoSnapshot = errors.New("store: no snapshot persisted")

// Document is the persisted wire shape: the full state plus a monotonic
// version counter. Readers must tolerate missing or extra fields.
type Document struct {
	State   model.Snapshot `json:"state"`
	Version uint64         `json:"version"`
}

// SnapshotStore saves and loads the engine's state document. A failed save
// never fails the mutation that produced it — the state is simply lost on
// the next reload. Concurrent writers follow last-write-wins.
type SnapshotStore interface {
	// Save persists the document, replacing any previous one.
	Save(ctx context.Context, doc *Document) error

	// Load returns the most recently saved document, or ErrNoSnapshot.
	Load(ctx context.Context) (*Document, error)
}

// Notifier is implemented by stores that can report remote snapshot writes.
// Watch delivers the version of each snapshot written by any process until
// ctx is cancelled.
type Notifier interface {
	Watch(ctx context.Context) (<-chan uint64, error)
}

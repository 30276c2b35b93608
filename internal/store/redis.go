package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const (
	// snapshotKey is the single named slot holding the JSON document.
	snapshotKey = "auction:snapshot"

	// changeChannel carries the version of every snapshot written, so other
	// replicas can rehydrate. The pub/sub analog of a storage change event.
	changeChannel = "auction:snapshot:changed"
)

// RedisSnapshotStore implements SnapshotStore on a single Redis key and
// publishes every write to a change channel. Last write wins when two
// replicas save concurrently.
type RedisSnapshotStore struct {
	rdb *redis.Client
}

// NewRedisSnapshotStore creates a Redis-backed snapshot store.
func NewRedisSnapshotStore(rdb *redis.Client) *RedisSnapshotStore {
	return &RedisSnapshotStore{rdb: rdb}
}

func (s *RedisSnapshotStore) Save(ctx context.Context, doc *Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := s.rdb.Set(ctx, snapshotKey, data, 0).Err(); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	// Best effort: a replica that misses the notification catches up on its
	// next write conflict or restart.
	if err := s.rdb.Publish(ctx, changeChannel, strconv.FormatUint(doc.Version, 10)).Err(); err != nil {
		slog.Warn("snapshot change publish failed", "err", err)
	}
	return nil
}

func (s *RedisSnapshotStore) Load(ctx context.Context) (*Document, error) {
	data, err := s.rdb.Get(ctx, snapshotKey).Bytes()
	if err == redis.Nil {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &doc, nil
}

// Watch subscribes to the change channel and delivers the version of each
// remote write until ctx is cancelled. Malformed payloads are dropped.
func (s *RedisSnapshotStore) Watch(ctx context.Context) (<-chan uint64, error) {
	sub := s.rdb.Subscribe(ctx, changeChannel)

	// Confirm the subscription before returning so callers never miss
	// writes made after Watch succeeds.
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, fmt.Errorf("subscribe snapshot channel: %w", err)
	}

	out := make(chan uint64, 16)
	go func() {
		defer close(out)
		defer sub.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-sub.Channel():
				if !ok {
					return
				}
				version, err := strconv.ParseUint(msg.Payload, 10, 64)
				if err != nil {
					continue
				}
				select {
				case out <- version:
				default:
					// Drop when the consumer lags; it will converge on the
					// next notification.
				}
			}
		}
	}()
	return out, nil
}

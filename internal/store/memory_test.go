package store

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/rosterbid/auction-engine/internal/model"
)

func TestMemoryStore_EmptyLoad(t *testing.T) {
	s := NewMemorySnapshotStore()

	_, err := s.Load(context.Background())
	if !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("expected ErrNoSnapshot, got %v", err)
	}
}

func TestMemoryStore_SaveLoad(t *testing.T) {
	s := NewMemorySnapshotStore()
	ctx := context.Background()

	doc := &Document{
		State: model.Snapshot{
			Players: []model.Player{{ID: "p1", Gamertag: "ace", BasePrice: decimal.NewFromInt(100)}},
			AuctionState: model.AuctionState{
				Status:     model.StatusBidding,
				CurrentBid: decimal.NewFromInt(150),
				Queue:      []string{"p1"},
			},
		},
		Version: 7,
	}
	if err := s.Save(ctx, doc); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Version != 7 {
		t.Errorf("expected version 7, got %d", got.Version)
	}
	if got.State.AuctionState.Status != model.StatusBidding {
		t.Errorf("expected BIDDING, got %s", got.State.AuctionState.Status)
	}
	if !got.State.AuctionState.CurrentBid.Equal(decimal.NewFromInt(150)) {
		t.Errorf("expected bid 150, got %s", got.State.AuctionState.CurrentBid)
	}
}

func TestMemoryStore_LastWriteWins(t *testing.T) {
	s := NewMemorySnapshotStore()
	ctx := context.Background()

	s.Save(ctx, &Document{Version: 1})
	s.Save(ctx, &Document{Version: 2})

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Version != 2 {
		t.Errorf("expected the later write, got version %d", got.Version)
	}
}

func TestMemoryStore_LoadReturnsCopy(t *testing.T) {
	s := NewMemorySnapshotStore()
	ctx := context.Background()

	s.Save(ctx, &Document{
		State:   model.Snapshot{Players: []model.Player{{ID: "p1"}}},
		Version: 1,
	})

	first, _ := s.Load(ctx)
	first.State.Players[0].ID = "mutated"

	second, _ := s.Load(ctx)
	if second.State.Players[0].ID != "p1" {
		t.Error("mutating a loaded document leaked into the store")
	}
}

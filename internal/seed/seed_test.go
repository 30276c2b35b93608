package seed

import (
	"testing"

	"github.com/rosterbid/auction-engine/internal/model"
)

func TestSnapshot_Shape(t *testing.T) {
	snap := NewFactory(1).Snapshot()

	if len(snap.Players) != DefaultPlayerCount {
		t.Errorf("expected %d players, got %d", DefaultPlayerCount, len(snap.Players))
	}
	if len(snap.Teams) != 4 {
		t.Errorf("expected 4 teams, got %d", len(snap.Teams))
	}
	if len(snap.Tournaments) != 1 {
		t.Fatalf("expected 1 tournament, got %d", len(snap.Tournaments))
	}
	if snap.ActiveTournamentID != snap.Tournaments[0].ID {
		t.Error("active tournament id does not match the generated tournament")
	}

	st := snap.AuctionState
	if st.Status != model.StatusIdle {
		t.Errorf("expected IDLE start, got %s", st.Status)
	}
	if st.Timer != snap.Tournaments[0].Rules.AuctionTimer {
		t.Errorf("expected timer from rules, got %d", st.Timer)
	}
	if len(st.Queue) != len(snap.Players) {
		t.Errorf("expected every player queued, got %d of %d", len(st.Queue), len(snap.Players))
	}
	if len(st.BidHistory) != 0 || len(st.Unsold) != 0 {
		t.Error("expected empty history and unsold lists")
	}
}

func TestSnapshot_QueueMatchesPlayers(t *testing.T) {
	snap := NewFactory(1).Snapshot()

	ids := make(map[string]bool, len(snap.Players))
	for _, p := range snap.Players {
		ids[p.ID] = true
	}
	for _, id := range snap.AuctionState.Queue {
		if !ids[id] {
			t.Errorf("queued id %s is not a generated player", id)
		}
	}
}

func TestPlayers_ValidFields(t *testing.T) {
	players := NewFactory(7).Players(20)

	validRoles := map[model.Role]bool{
		model.RoleIGL: true, model.RoleOG: true, model.RoleGenZ: true,
		model.RoleFlex: true, model.RoleSupport: true,
	}
	seen := make(map[string]bool)
	for _, p := range players {
		if seen[p.ID] {
			t.Errorf("duplicate player id %s", p.ID)
		}
		seen[p.ID] = true

		if p.Gamertag == "" || p.DisplayName == "" {
			t.Errorf("player %s missing names", p.ID)
		}
		if !validRoles[p.Role] {
			t.Errorf("player %s has unknown role %q", p.ID, p.Role)
		}
		if !p.BasePrice.IsPositive() {
			t.Errorf("player %s has non-positive base price %s", p.ID, p.BasePrice)
		}
		if p.Stats.KD < 0.6 || p.Stats.KD > 2.4 {
			t.Errorf("player %s k/d out of range: %f", p.ID, p.Stats.KD)
		}
	}
}

func TestTeams_FreshBudgets(t *testing.T) {
	teams := NewFactory(3).Teams()

	for _, team := range teams {
		if !team.Spent.IsZero() {
			t.Errorf("team %s starts with spend %s", team.ID, team.Spent)
		}
		if len(team.Roster) != 0 {
			t.Errorf("team %s starts with a roster", team.ID)
		}
		if !team.Remaining().Equal(team.Budget) {
			t.Errorf("team %s remaining != budget", team.ID)
		}
	}
}

func TestWithPlayerCount(t *testing.T) {
	snap := NewFactory(1).WithPlayerCount(6).Snapshot()
	if len(snap.Players) != 6 {
		t.Errorf("expected 6 players, got %d", len(snap.Players))
	}

	// Non-positive override keeps the default.
	snap = NewFactory(1).WithPlayerCount(0).Snapshot()
	if len(snap.Players) != DefaultPlayerCount {
		t.Errorf("expected default count, got %d", len(snap.Players))
	}
}

func TestFactory_Deterministic(t *testing.T) {
	a := NewFactory(42).Players(5)
	b := NewFactory(42).Players(5)

	for i := range a {
		if a[i].Gamertag != b[i].Gamertag || a[i].Role != b[i].Role {
			t.Errorf("player %d differs across identically seeded factories", i)
		}
	}
}

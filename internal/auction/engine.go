// Package auction implements the authoritative state machine for a live
// player auction: turn progression, bid acceptance, timer extension, and
// budget/roster accounting. One Engine owns the state; consoles and overlays
// are renderers issuing requests that the engine validates before committing.
package auction

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rosterbid/auction-engine/internal/metrics"
	"github.com/rosterbid/auction-engine/internal/model"
	"github.com/rosterbid/auction-engine/internal/rules"
	"github.com/rosterbid/auction-engine/internal/store"
)

const (
	// bidExtension is the anti-snipe rule: every accepted bid adds this many
	// seconds to the clock. No upper clamp.
	bidExtension = 5

	// tickDebounce drops ticks arriving too soon after the last state
	// change, so replicas sharing one snapshot cannot drain the clock
	// N times too fast.
	tickDebounce = 900 * time.Millisecond
)

// Outcome is the typed result of a mutating operation. Failed transitions
// leave the state untouched — the operation is a no-op — but the outcome
// lets callers report the rejection instead of assuming success.
type Outcome string

const (
	OutcomeOK                 Outcome = "OK"
	OutcomeInvalidState       Outcome = "INVALID_STATE"
	OutcomeBidTooLow          Outcome = "BID_TOO_LOW"
	OutcomeInsufficientBudget Outcome = "INSUFFICIENT_BUDGET"
	OutcomeRosterFull         Outcome = "ROSTER_FULL"
	OutcomeUnknownTeam        Outcome = "UNKNOWN_TEAM"
	OutcomeUnknownPlayer      Outcome = "UNKNOWN_PLAYER"
	OutcomeUnknownTournament  Outcome = "UNKNOWN_TOURNAMENT"
)

// Factory produces a fresh demo snapshot. Injected so seed content stays
// out of the state machine.
type Factory interface {
	Snapshot() *model.Snapshot
}

// Engine is the single authoritative state container. A mutex serializes
// all transitions (single-instance arbitration); cross-replica writes to
// the shared snapshot remain last-write-wins.
type Engine struct {
	mu      sync.Mutex
	snap    *model.Snapshot
	version uint64

	factory   Factory
	snapshots store.SnapshotStore

	// onChange receives a deep copy of the committed document. Wired to the
	// WebSocket hub so every committed mutation reaches all viewers.
	onChange func(store.Document)

	now func() time.Time
}

// NewEngine builds an engine from a persisted snapshot when one exists,
// otherwise from fresh factory output. A corrupt or unreadable snapshot is
// logged and discarded — the engine quietly falls back to seed defaults.
func NewEngine(ctx context.Context, factory Factory, snapshots store.SnapshotStore) *Engine {
	e := &Engine{
		factory:   factory,
		snapshots: snapshots,
		now:       time.Now,
	}

	doc, err := snapshots.Load(ctx)
	switch {
	case err == nil:
		e.snap = cloneSnapshot(&doc.State)
		e.version = doc.Version
		slog.Info("auction state rehydrated", "version", doc.Version)
	case err == store.ErrNoSnapshot:
		e.snap = factory.Snapshot()
		e.commit(ctx)
		slog.Info("auction state seeded", "players", len(e.snap.Players), "teams", len(e.snap.Teams))
	default:
		slog.Warn("snapshot load failed, seeding fresh state", "err", err)
		e.snap = factory.Snapshot()
		e.commit(ctx)
	}

	return e
}

// SetOnChange registers the hook invoked after every committed mutation.
func (e *Engine) SetOnChange(fn func(store.Document)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onChange = fn
}

// Version returns the current snapshot version.
func (e *Engine) Version() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.version
}

// Document returns a deep copy of the current document.
func (e *Engine) Document() store.Document {
	e.mu.Lock()
	defer e.mu.Unlock()
	return store.Document{State: *cloneSnapshot(e.snap), Version: e.version}
}

// State returns a copy of the live auction state.
func (e *Engine) State() model.AuctionState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return *cloneState(&e.snap.AuctionState)
}

// --- Floor operations ---

// SetAuctionStatus unconditionally overwrites the floor status. No
// transition guard — callers drive it only at valid points of the flow.
func (e *Engine) SetAuctionStatus(ctx context.Context, status model.AuctionStatus) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.snap.AuctionState.Status = status
	e.commit(ctx)
}

// SetCurrentPlayer brings a player to the floor: current bid resets to the
// player's base price, the leader clears, the timer reloads from the active
// tournament's rules, and the status returns to IDLE. An empty id clears
// the floor (auction over). This is the single entry point for starting a
// new bidding round.
func (e *Engine) SetCurrentPlayer(ctx context.Context, playerID string) Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.setCurrentPlayerLocked(ctx, playerID)
}

func (e *Engine) setCurrentPlayerLocked(ctx context.Context, playerID string) Outcome {
	st := &e.snap.AuctionState

	if playerID == "" {
		st.CurrentPlayerID = ""
		st.CurrentBid = decimal.Zero
	} else {
		p := e.snap.Player(playerID)
		if p == nil {
			return OutcomeUnknownPlayer
		}
		st.CurrentPlayerID = playerID
		st.CurrentBid = p.BasePrice
	}

	st.LeadingTeamID = ""
	st.Timer = e.activeTimerLocked()
	st.Status = model.StatusIdle

	e.commit(ctx)
	return OutcomeOK
}

// PlaceBid validates and accepts a bid. Validation is part of the action's
// own contract: floor open, team known, amount clears the increment rule,
// budget sufficient, roster capacity available. On success the bid becomes
// leading, the status forces to BIDDING, the clock extends by the
// anti-snipe amount, and an immutable BidEvent lands at the head of the
// history.
func (e *Engine) PlaceBid(ctx context.Context, teamID string, amount decimal.Decimal) Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := &e.snap.AuctionState
	if st.CurrentPlayerID == "" {
		return OutcomeInvalidState
	}
	if st.Status != model.StatusIdle && st.Status != model.StatusBidding {
		return OutcomeInvalidState
	}

	team := e.snap.Team(teamID)
	if team == nil {
		return OutcomeUnknownTeam
	}

	validator := rules.NewBidValidator(e.activeRulesLocked())
	if err := validator.Check(team, amount, st.CurrentBid, st.LeadingTeamID != ""); err != nil {
		switch err {
		case rules.ErrBidTooLow:
			return OutcomeBidTooLow
		case rules.ErrInsufficientBudget:
			return OutcomeInsufficientBudget
		case rules.ErrRosterFull:
			return OutcomeRosterFull
		default:
			return OutcomeInvalidState
		}
	}

	event := model.BidEvent{
		ID:        uuid.New().String(),
		PlayerID:  st.CurrentPlayerID,
		TeamID:    teamID,
		Amount:    amount,
		Timestamp: e.now().UTC(),
	}

	st.CurrentBid = amount
	st.LeadingTeamID = teamID
	st.Status = model.StatusBidding
	st.Timer += bidExtension
	st.BidHistory = append([]model.BidEvent{event}, st.BidHistory...)

	e.commit(ctx)

	slog.Info("bid accepted",
		"team", teamID,
		"player", st.CurrentPlayerID,
		"amount", amount.String(),
		"timer", st.Timer,
	)
	return OutcomeOK
}

// TickTimer decrements the clock by one second during IDLE or BIDDING and
// reports whether the tick was applied. Ticks arriving within the debounce
// window of the last state change are dropped; the clock floors at zero.
func (e *Engine) TickTimer(ctx context.Context) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := &e.snap.AuctionState
	if st.Status != model.StatusIdle && st.Status != model.StatusBidding {
		return false
	}
	if e.now().Sub(st.LastUpdate) < tickDebounce {
		return false
	}
	if st.Timer <= 0 {
		st.Timer = 0
		return false
	}

	st.Timer--
	e.commit(ctx)
	return true
}

// ResetTimer reloads the clock from the active tournament's rules,
// independent of any other state.
func (e *Engine) ResetTimer(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.snap.AuctionState.Timer = e.activeTimerLocked()
	e.commit(ctx)
}

// MarkSold awards the current player to the leading team: the winning bid
// moves into the team's spend, the player joins its roster and leaves the
// queue, and the status becomes SOLD. The floor does not advance — that is
// NextPlayer's job. Without a player and a leader this is a no-op, and a
// repeated call on an already-sold floor is rejected so spend and roster
// stay monotonic.
func (e *Engine) MarkSold(ctx context.Context) Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := &e.snap.AuctionState
	if st.CurrentPlayerID == "" || st.LeadingTeamID == "" {
		return OutcomeInvalidState
	}
	if st.Status == model.StatusSold {
		return OutcomeInvalidState
	}

	team := e.snap.Team(st.LeadingTeamID)
	if team == nil {
		return OutcomeUnknownTeam
	}

	team.Spent = team.Spent.Add(st.CurrentBid)
	team.Roster = append(team.Roster, st.CurrentPlayerID)
	st.Queue = remove(st.Queue, st.CurrentPlayerID)
	st.Status = model.StatusSold

	e.commit(ctx)

	slog.Info("player sold",
		"player", st.CurrentPlayerID,
		"team", team.ID,
		"amount", st.CurrentBid.String(),
		"spent", team.Spent.String(),
	)
	return OutcomeOK
}

// MarkUnsold retires the current player from the queue into the unsold
// list. Teams are never touched. Without a current player this is a no-op,
// and a repeated call on an already-unsold floor is rejected to keep the
// unsold list free of duplicates.
func (e *Engine) MarkUnsold(ctx context.Context) Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := &e.snap.AuctionState
	if st.CurrentPlayerID == "" {
		return OutcomeInvalidState
	}
	if st.Status == model.StatusUnsold {
		return OutcomeInvalidState
	}

	st.Queue = remove(st.Queue, st.CurrentPlayerID)
	st.Unsold = append(st.Unsold, st.CurrentPlayerID)
	st.Status = model.StatusUnsold

	e.commit(ctx)
	return OutcomeOK
}

// NextPlayer pops the head of the queue onto the floor. An empty queue
// clears the floor, ending the auction operationally.
func (e *Engine) NextPlayer(ctx context.Context) Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := ""
	if len(e.snap.AuctionState.Queue) > 0 {
		next = e.snap.AuctionState.Queue[0]
	}
	return e.setCurrentPlayerLocked(ctx, next)
}

// ResetDemo replaces the entire state with fresh factory output: zero
// spend, empty rosters, empty history, full queue.
func (e *Engine) ResetDemo(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.snap = e.factory.Snapshot()
	e.commit(ctx)
	slog.Info("demo state reset", "players", len(e.snap.Players))
}

// --- Profile and tournament management ---

// PlayerPatch holds the profile fields a shallow-merge update may touch.
// Nil fields are left alone.
type PlayerPatch struct {
	Gamertag    *string            `json:"gamertag,omitempty"`
	DisplayName *string            `json:"display_name,omitempty"`
	Role        *model.Role        `json:"role,omitempty"`
	Stats       *model.PlayerStats `json:"stats,omitempty"`
	BasePrice   *decimal.Decimal   `json:"base_price,omitempty"`
	ImageURL    *string            `json:"image_url,omitempty"`
	Bio         *string            `json:"bio,omitempty"`
	Socials     map[string]string  `json:"socials,omitempty"`
	Setup       map[string]string  `json:"setup,omitempty"`
}

// UpdatePlayer shallow-merges profile fields into the matching player.
// Used by the profile-editing flow, not by the auction flow.
func (e *Engine) UpdatePlayer(ctx context.Context, id string, patch PlayerPatch) Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()

	p := e.snap.Player(id)
	if p == nil {
		return OutcomeUnknownPlayer
	}

	if patch.Gamertag != nil {
		p.Gamertag = *patch.Gamertag
	}
	if patch.DisplayName != nil {
		p.DisplayName = *patch.DisplayName
	}
	if patch.Role != nil {
		p.Role = *patch.Role
	}
	if patch.Stats != nil {
		p.Stats = *patch.Stats
	}
	if patch.BasePrice != nil {
		p.BasePrice = *patch.BasePrice
	}
	if patch.ImageURL != nil {
		p.ImageURL = *patch.ImageURL
	}
	if patch.Bio != nil {
		p.Bio = *patch.Bio
	}
	if patch.Socials != nil {
		p.Socials = patch.Socials
	}
	if patch.Setup != nil {
		p.Setup = patch.Setup
	}

	e.commit(ctx)
	return OutcomeOK
}

// CreateTournament appends a tournament, generating an id when absent.
func (e *Engine) CreateTournament(ctx context.Context, t model.Tournament) model.Tournament {
	e.mu.Lock()
	defer e.mu.Unlock()

	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.Status == "" {
		t.Status = model.TournamentDraft
	}
	e.snap.Tournaments = append(e.snap.Tournaments, t)
	e.commit(ctx)
	return t
}

// UpdateTournament replaces the fields of the matching tournament.
func (e *Engine) UpdateTournament(ctx context.Context, id string, t model.Tournament) Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.snap.Tournaments {
		if e.snap.Tournaments[i].ID == id {
			t.ID = id
			e.snap.Tournaments[i] = t
			e.commit(ctx)
			return OutcomeOK
		}
	}
	return OutcomeUnknownTournament
}

// DeleteTournament removes the matching tournament. Deleting the active
// tournament leaves the auction running on its last-loaded rules until a
// new activation.
func (e *Engine) DeleteTournament(ctx context.Context, id string) Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.snap.Tournaments {
		if e.snap.Tournaments[i].ID == id {
			e.snap.Tournaments = append(e.snap.Tournaments[:i], e.snap.Tournaments[i+1:]...)
			e.commit(ctx)
			return OutcomeOK
		}
	}
	return OutcomeUnknownTournament
}

// SetActiveTournament switches the active tournament and resets the floor:
// IDLE status, cleared player and leader, fresh timer from the new rules,
// emptied bid history. The queue and unsold lists carry over.
func (e *Engine) SetActiveTournament(ctx context.Context, id string) Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()

	var target *model.Tournament
	for i := range e.snap.Tournaments {
		if e.snap.Tournaments[i].ID == id {
			target = &e.snap.Tournaments[i]
			break
		}
	}
	if target == nil {
		return OutcomeUnknownTournament
	}

	e.snap.ActiveTournamentID = id
	st := &e.snap.AuctionState
	st.TournamentID = id
	st.Status = model.StatusIdle
	st.CurrentPlayerID = ""
	st.CurrentBid = decimal.Zero
	st.LeadingTeamID = ""
	st.Timer = target.Rules.AuctionTimer
	st.BidHistory = []model.BidEvent{}

	e.commit(ctx)
	return OutcomeOK
}

// --- Sync ---

// Rehydrate replaces the in-memory state with the persisted snapshot when
// its version is ahead of the local one. Reports whether a replacement
// happened.
func (e *Engine) Rehydrate(ctx context.Context) (bool, error) {
	doc, err := e.snapshots.Load(ctx)
	if err != nil {
		return false, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if doc.Version <= e.version {
		return false, nil
	}
	e.snap = cloneSnapshot(&doc.State)
	e.version = doc.Version
	slog.Info("auction state rehydrated", "version", doc.Version)
	return true, nil
}

// RunTicker drives the floor clock once per second until ctx is cancelled.
// Every replica runs one; the debounce guard in TickTimer keeps the shared
// countdown at real time.
func (e *Engine) RunTicker(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.TickTimer(ctx)
		}
	}
}

// --- Internals (lock held) ---

// commit bumps the version, stamps LastUpdate, persists, and notifies.
// A failed save is logged and otherwise ignored: the mutation survives in
// memory and is simply lost if the process dies before the next save lands.
func (e *Engine) commit(ctx context.Context) {
	e.version++
	e.snap.AuctionState.LastUpdate = e.now().UTC()
	metrics.AuctionTimerSeconds.Set(float64(e.snap.AuctionState.Timer))

	doc := store.Document{State: *cloneSnapshot(e.snap), Version: e.version}
	if err := e.snapshots.Save(ctx, &doc); err != nil {
		metrics.SnapshotSaves.WithLabelValues("error").Inc()
		slog.Warn("snapshot save failed", "version", e.version, "err", err)
	} else {
		metrics.SnapshotSaves.WithLabelValues("ok").Inc()
	}
	if e.onChange != nil {
		e.onChange(doc)
	}
}

func (e *Engine) activeRulesLocked() model.AuctionRules {
	if t := e.snap.ActiveTournament(); t != nil {
		return t.Rules
	}
	return model.AuctionRules{}
}

func (e *Engine) activeTimerLocked() int {
	return e.activeRulesLocked().AuctionTimer
}

func remove(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

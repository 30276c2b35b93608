// Package model defines the core domain types shared across the auction engine.
// All monetary values use shopspring/decimal — never float64 for money.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role is a player's in-game role.
type Role string

const (
	RoleIGL     Role = "IGL"
	RoleOG      Role = "OG"
	RoleGenZ    Role = "GENZ"
	RoleFlex    Role = "FLEX"
	RoleSupport Role = "SUPPORT"
)

// TournamentStatus is the lifecycle state of a tournament.
type TournamentStatus string

const (
	TournamentDraft     TournamentStatus = "DRAFT"
	TournamentSetup     TournamentStatus = "SETUP"
	TournamentLive      TournamentStatus = "LIVE"
	TournamentCompleted TournamentStatus = "COMPLETED"
)

// AuctionStatus is the state of the auction floor.
type AuctionStatus string

const (
	StatusIdle    AuctionStatus = "IDLE"
	StatusBidding AuctionStatus = "BIDDING"
	StatusPaused  AuctionStatus = "PAUSED"
	StatusSold    AuctionStatus = "SOLD"
	StatusUnsold  AuctionStatus = "UNSOLD"
)

// PlayerStats holds performance numbers shown alongside a player.
type PlayerStats struct {
	KD            float64 `json:"kd"`
	WinRate       float64 `json:"win_rate"`
	MatchesPlayed int     `json:"matches_played"`
	Rank          string  `json:"rank"`
}

// GameProfile is a per-game sub-profile attached to an auction player.
// Distinct from profile.GameProfile, which is the server-persisted record
// keyed by user id; the two representations are intentionally not merged.
type GameProfile struct {
	Game     string `json:"game"`
	Handle   string `json:"handle"`
	RankName string `json:"rank_name,omitempty"`
}

// Player is a draftable player profile. Identity (ID) is immutable; the
// remaining fields are mutable via profile edits.
type Player struct {
	ID          string            `json:"id" db:"id"`
	Gamertag    string            `json:"gamertag" db:"gamertag"`
	DisplayName string            `json:"display_name" db:"display_name"`
	Role        Role              `json:"role" db:"role"`
	Stats       PlayerStats       `json:"stats"`
	BasePrice   decimal.Decimal   `json:"base_price" db:"base_price"`
	ImageURL    string            `json:"image_url,omitempty"`
	Bio         string            `json:"bio,omitempty"`
	Socials     map[string]string `json:"socials,omitempty"`
	Games       []GameProfile     `json:"games,omitempty"`
	Setup       map[string]string `json:"setup,omitempty"`
}

// Team is a franchise bidding in the auction. Spent and Roster only grow
// during a session — sold players are never returned.
type Team struct {
	ID      string          `json:"id" db:"id"`
	Name    string          `json:"name" db:"name"`
	Owner   string          `json:"owner" db:"owner"`
	Budget  decimal.Decimal `json:"budget" db:"budget"`
	Spent   decimal.Decimal `json:"spent" db:"spent"`
	Roster  []string        `json:"roster"`
	LogoURL string          `json:"logo_url,omitempty"`
}

// Remaining returns the budget still available to the team.
func (t *Team) Remaining() decimal.Decimal {
	return t.Budget.Sub(t.Spent)
}

// AuctionRules configures how a tournament's auction runs.
type AuctionRules struct {
	MinPlayers   int             `json:"min_players"`
	MaxPlayers   int             `json:"max_players"`
	AuctionTimer int             `json:"auction_timer"` // seconds per floor
	BidIncrement decimal.Decimal `json:"bid_increment"`
}

// Tournament is one competitive event; exactly one is active per engine.
type Tournament struct {
	ID        string           `json:"id" db:"id"`
	Name      string           `json:"name" db:"name"`
	Game      string           `json:"game" db:"game"`
	PrizePool decimal.Decimal  `json:"prize_pool" db:"prize_pool"`
	StartDate time.Time        `json:"start_date" db:"start_date"`
	EndDate   time.Time        `json:"end_date" db:"end_date"`
	Status    TournamentStatus `json:"status" db:"status"`
	Rules     AuctionRules     `json:"rules"`
}

// AuctionPool groups players by price band. Present in the model as an
// extension point; the state transitions do not exercise it.
type AuctionPool struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	MinBasePrice decimal.Decimal `json:"min_base_price"`
	MaxBasePrice decimal.Decimal `json:"max_base_price"`
	MinPerTeam   int             `json:"min_per_team"`
}

// BidEvent is an immutable record of an accepted bid.
// Once created, these are never modified or deleted.
type BidEvent struct {
	ID        string          `json:"id" db:"id"`
	PlayerID  string          `json:"player_id" db:"player_id"`
	TeamID    string          `json:"team_id" db:"team_id"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	Timestamp time.Time       `json:"timestamp" db:"timestamp"`
}

// AuctionState describes what is happening on the floor right now.
// LastUpdate doubles as the tick debounce guard.
type AuctionState struct {
	TournamentID    string          `json:"tournament_id"`
	Status          AuctionStatus   `json:"status"`
	CurrentPlayerID string          `json:"current_player_id,omitempty"`
	CurrentBid      decimal.Decimal `json:"current_bid"`
	LeadingTeamID   string          `json:"leading_team_id,omitempty"`
	Timer           int             `json:"timer"`
	Queue           []string        `json:"queue"`
	Unsold          []string        `json:"unsold"`
	BidHistory      []BidEvent      `json:"bid_history"` // newest first
	LastUpdate      time.Time       `json:"last_update"`
}

// Snapshot is the full persisted document: every entity plus the live
// auction state. External readers must tolerate missing or extra fields.
type Snapshot struct {
	Players            []Player     `json:"players"`
	Teams              []Team       `json:"teams"`
	Tournaments        []Tournament `json:"tournaments"`
	ActiveTournamentID string       `json:"active_tournament_id"`
	AuctionState       AuctionState `json:"auction_state"`
}

// ActiveTournament returns the active tournament, or nil if none matches.
func (s *Snapshot) ActiveTournament() *Tournament {
	for i := range s.Tournaments {
		if s.Tournaments[i].ID == s.ActiveTournamentID {
			return &s.Tournaments[i]
		}
	}
	return nil
}

// Team returns the team with the given id, or nil.
func (s *Snapshot) Team(id string) *Team {
	for i := range s.Teams {
		if s.Teams[i].ID == id {
			return &s.Teams[i]
		}
	}
	return nil
}

// Player returns the player with the given id, or nil.
func (s *Snapshot) Player(id string) *Player {
	for i := range s.Players {
		if s.Players[i].ID == id {
			return &s.Players[i]
		}
	}
	return nil
}

// Package seed produces the demo universe used to initialize the auction
// engine and to restore it on demand. Pure functions, no external inputs —
// stat values are randomized but plausible, which is acceptable because this
// data is non-authoritative demo content.
package seed

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rosterbid/auction-engine/internal/model"
)

// DefaultPlayerCount is the number of players generated per universe.
const DefaultPlayerCount = 16

// Factory generates a fresh snapshot. Injected into the engine so demo
// content stays out of the core state machine.
type Factory struct {
	faker       *gofakeit.Faker
	playerCount int
}

// NewFactory creates a factory seeded for reproducible output. Pass 0 to
// seed from the clock.
func NewFactory(seed uint64) *Factory {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Factory{
		faker:       gofakeit.New(int64(seed)),
		playerCount: DefaultPlayerCount,
	}
}

// WithPlayerCount overrides the number of generated players.
func (f *Factory) WithPlayerCount(n int) *Factory {
	if n > 0 {
		f.playerCount = n
	}
	return f
}

var roles = []model.Role{
	model.RoleIGL, model.RoleOG, model.RoleGenZ, model.RoleFlex, model.RoleSupport,
}

var ranks = []string{"Radiant", "Immortal", "Ascendant", "Diamond", "Platinum"}

var basePrices = []int64{100, 150, 200, 250, 300}

// Snapshot builds a complete starting universe: players with zero history,
// teams with zero spend, one live tournament, and an idle auction state
// whose queue holds every player.
func (f *Factory) Snapshot() *model.Snapshot {
	players := f.Players(f.playerCount)
	teams := f.Teams()
	tournament := f.Tournament()

	queue := make([]string, len(players))
	for i, p := range players {
		queue[i] = p.ID
	}

	return &model.Snapshot{
		Players:            players,
		Teams:              teams,
		Tournaments:        []model.Tournament{tournament},
		ActiveTournamentID: tournament.ID,
		AuctionState: model.AuctionState{
			TournamentID: tournament.ID,
			Status:       model.StatusIdle,
			CurrentBid:   decimal.Zero,
			Timer:        tournament.Rules.AuctionTimer,
			Queue:        queue,
			Unsold:       []string{},
			BidHistory:   []model.BidEvent{},
			LastUpdate:   time.Now().UTC(),
		},
	}
}

// Players generates n draftable players with randomized stats.
func (f *Factory) Players(n int) []model.Player {
	players := make([]model.Player, n)
	for i := 0; i < n; i++ {
		first := f.faker.FirstName()
		last := f.faker.LastName()
		tag := f.faker.Gamertag()

		players[i] = model.Player{
			ID:          uuid.New().String(),
			Gamertag:    tag,
			DisplayName: first + " " + last,
			Role:        roles[f.faker.Number(0, len(roles)-1)],
			Stats: model.PlayerStats{
				KD:            round2(f.faker.Float64Range(0.6, 2.4)),
				WinRate:       round2(f.faker.Float64Range(40, 75)),
				MatchesPlayed: f.faker.Number(120, 900),
				Rank:          ranks[f.faker.Number(0, len(ranks)-1)],
			},
			BasePrice: decimal.NewFromInt(basePrices[f.faker.Number(0, len(basePrices)-1)]),
			Bio:       f.faker.Sentence(12),
			Socials: map[string]string{
				"twitch":  "https://twitch.tv/" + tag,
				"twitter": "https://x.com/" + tag,
			},
			Games: []model.GameProfile{
				{Game: "valorant", Handle: tag, RankName: ranks[f.faker.Number(0, len(ranks)-1)]},
			},
			Setup: map[string]string{
				"mouse":    f.faker.Company(),
				"keyboard": f.faker.Company(),
			},
		}
	}
	return players
}

// Teams generates the fixed set of franchises, all with zero spend and an
// empty roster.
func (f *Factory) Teams() []model.Team {
	names := []struct{ name, owner string }{
		{"Crimson Vipers", f.faker.Name()},
		{"Night Owls", f.faker.Name()},
		{"Iron Pulse", f.faker.Name()},
		{"Storm Callers", f.faker.Name()},
	}

	teams := make([]model.Team, len(names))
	for i, n := range names {
		teams[i] = model.Team{
			ID:     fmt.Sprintf("team-%d", i+1),
			Name:   n.name,
			Owner:  n.owner,
			Budget: decimal.NewFromInt(1000),
			Spent:  decimal.Zero,
			Roster: []string{},
		}
	}
	return teams
}

// Tournament generates the single live tournament with fixed auction rules.
func (f *Factory) Tournament() model.Tournament {
	now := time.Now().UTC()
	return model.Tournament{
		ID:        uuid.New().String(),
		Name:      "Rosterbid Invitational",
		Game:      "valorant",
		PrizePool: decimal.NewFromInt(50000),
		StartDate: now,
		EndDate:   now.Add(48 * time.Hour),
		Status:    model.TournamentLive,
		Rules: model.AuctionRules{
			MinPlayers:   5,
			MaxPlayers:   8,
			AuctionTimer: 30,
			BidIncrement: decimal.NewFromInt(10),
		},
	}
}

func round2(f float64) float64 {
	return float64(int(f*100)) / 100
}

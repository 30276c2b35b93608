package rules

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/rosterbid/auction-engine/internal/model"
)

func d(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func testTeam(budget, spent float64, rosterLen int) *model.Team {
	roster := make([]string, rosterLen)
	for i := range roster {
		roster[i] = "p"
	}
	return &model.Team{
		ID:     "team-1",
		Budget: d(budget),
		Spent:  d(spent),
		Roster: roster,
	}
}

func testValidator() *BidValidator {
	return NewBidValidator(model.AuctionRules{
		MinPlayers:   5,
		MaxPlayers:   8,
		AuctionTimer: 30,
		BidIncrement: d(10),
	})
}

func TestCheck_FirstBidAtFloorAllowed(t *testing.T) {
	v := testValidator()
	err := v.Check(testTeam(1000, 0, 0), d(100), d(100), false)
	if err != nil {
		t.Errorf("first bid matching the floor should pass, got %v", err)
	}
}

func TestCheck_FirstBidBelowFloorRejected(t *testing.T) {
	v := testValidator()
	err := v.Check(testTeam(1000, 0, 0), d(90), d(100), false)
	if err != ErrBidTooLow {
		t.Errorf("expected ErrBidTooLow, got %v", err)
	}
}

func TestCheck_IncrementRequiredWithLeader(t *testing.T) {
	v := testValidator()

	// 105 does not clear 100+10.
	if err := v.Check(testTeam(1000, 0, 0), d(105), d(100), true); err != ErrBidTooLow {
		t.Errorf("expected ErrBidTooLow for sub-increment raise, got %v", err)
	}

	// Exactly current+increment is allowed.
	if err := v.Check(testTeam(1000, 0, 0), d(110), d(100), true); err != nil {
		t.Errorf("bid at exactly current+increment should pass, got %v", err)
	}
}

func TestCheck_BudgetExceeded(t *testing.T) {
	v := testValidator()
	err := v.Check(testTeam(1000, 950, 0), d(100), d(100), false)
	if err != ErrInsufficientBudget {
		t.Errorf("expected ErrInsufficientBudget, got %v", err)
	}
}

func TestCheck_BudgetExactlyExhaustedAllowed(t *testing.T) {
	v := testValidator()
	err := v.Check(testTeam(1000, 900, 0), d(100), d(100), false)
	if err != nil {
		t.Errorf("spending to exactly the budget should pass, got %v", err)
	}
}

func TestCheck_RosterFull(t *testing.T) {
	v := testValidator()
	err := v.Check(testTeam(10000, 0, 8), d(100), d(100), false)
	if err != ErrRosterFull {
		t.Errorf("expected ErrRosterFull, got %v", err)
	}
}

func TestNewBidValidator_ZeroMaxPlayersDefaultsToOne(t *testing.T) {
	v := NewBidValidator(model.AuctionRules{BidIncrement: d(10)})
	if v.MaxRoster != 1 {
		t.Errorf("expected MaxRoster=1 default, got %d", v.MaxRoster)
	}
}

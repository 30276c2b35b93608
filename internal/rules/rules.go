// Package rules enforces the bid acceptance rules for an auction floor:
// minimum increment over the current bid, remaining team budget, and roster
// capacity. Centralizing these checks in the engine's own contract means no
// caller can bypass them — the original client-side design left them to the
// bidder console UI, which made state corruption possible.
package rules

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/rosterbid/auction-engine/internal/model"
)

var (
	// ErrBidTooLow is returned when a bid does not clear the floor price
	// or the minimum increment over the current leading bid.
	ErrBidTooLow = errors.New("rules: bid below required minimum")

	// ErrInsufficientBudget is returned when accepting the bid would push
	// the team's spend past its budget.
	ErrInsufficientBudget = errors.New("rules: insufficient remaining budget")

	// ErrRosterFull is returned when the team already holds the maximum
	// number of players allowed by the tournament rules.
	ErrRosterFull = errors.New("rules: roster at capacity")
)

// BidValidator checks bids against one tournament's auction rules.
//
// MinIncrement applies only when a leading bid exists; the first bid on a
// floor only has to meet the floor price (the player's base price, already
// loaded into CurrentBid when the player came up).
type BidValidator struct {
	// MinIncrement is the smallest amount a bid must exceed the current
	// leading bid by.
	MinIncrement decimal.Decimal

	// MaxRoster is the maximum number of players one team may own.
	MaxRoster int
}

// NewBidValidator creates a validator from a tournament's rules.
func NewBidValidator(r model.AuctionRules) *BidValidator {
	maxRoster := r.MaxPlayers
	if maxRoster < 1 {
		maxRoster = 1
	}
	return &BidValidator{
		MinIncrement: r.BidIncrement,
		MaxRoster:    maxRoster,
	}
}

// Check validates whether a team may place the given bid.
//
// Parameters:
//   - team: the bidding team (budget, spend, current roster)
//   - amount: the proposed bid
//   - currentBid: the bid to beat (the floor price when no leader exists)
//   - hasLeader: whether a leading bid has already been accepted this floor
//
// Returns nil if the bid is acceptable, or an error naming the violation.
func (v *BidValidator) Check(team *model.Team, amount, currentBid decimal.Decimal, hasLeader bool) error {
	minimum := currentBid
	if hasLeader {
		minimum = currentBid.Add(v.MinIncrement)
	}
	if amount.LessThan(minimum) {
		return ErrBidTooLow
	}

	if team.Spent.Add(amount).GreaterThan(team.Budget) {
		return ErrInsufficientBudget
	}

	if len(team.Roster) >= v.MaxRoster {
		return ErrRosterFull
	}

	return nil
}

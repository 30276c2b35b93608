package auction

import "github.com/rosterbid/auction-engine/internal/model"

// Deep copies keep broadcasted documents and accessor results isolated from
// the engine's own mutable state.

func cloneSnapshot(s *model.Snapshot) *model.Snapshot {
	out := &model.Snapshot{
		Players:            make([]model.Player, len(s.Players)),
		Teams:              make([]model.Team, len(s.Teams)),
		Tournaments:        append([]model.Tournament(nil), s.Tournaments...),
		ActiveTournamentID: s.ActiveTournamentID,
		AuctionState:       *cloneState(&s.AuctionState),
	}
	for i := range s.Players {
		out.Players[i] = clonePlayer(&s.Players[i])
	}
	for i := range s.Teams {
		out.Teams[i] = s.Teams[i]
		out.Teams[i].Roster = append([]string(nil), s.Teams[i].Roster...)
	}
	return out
}

func cloneState(st *model.AuctionState) *model.AuctionState {
	out := *st
	out.Queue = append([]string(nil), st.Queue...)
	out.Unsold = append([]string(nil), st.Unsold...)
	out.BidHistory = append([]model.BidEvent(nil), st.BidHistory...)
	return &out
}

func clonePlayer(p *model.Player) model.Player {
	out := *p
	out.Games = append([]model.GameProfile(nil), p.Games...)
	out.Socials = cloneMap(p.Socials)
	out.Setup = cloneMap(p.Setup)
	return out
}

func cloneMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

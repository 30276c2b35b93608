// Package floor provides the HTTP handlers for the live auction: the host
// console drives the floor (current player, status, sold/unsold, timer),
// the bidder console places bids, and every committed change is broadcast
// to all WebSocket subscribers.
//
// All monetary values use shopspring/decimal — never float64 for money.
package floor

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/rosterbid/auction-engine/internal/auction"
	"github.com/rosterbid/auction-engine/internal/metrics"
	"github.com/rosterbid/auction-engine/internal/model"
	"github.com/rosterbid/auction-engine/internal/store"
)

// Service handles auction floor operations on top of the engine.
type Service struct {
	engine *auction.Engine
	wsHub  *WSHub // optional hub for real-time broadcasts
}

// NewService creates a floor service. Pass nil for hub if WebSocket
// broadcasting is not needed. When a hub is given, the engine's change
// hook is wired to it.
func NewService(engine *auction.Engine, hub *WSHub) *Service {
	s := &Service{engine: engine, wsHub: hub}
	if hub != nil {
		engine.SetOnChange(func(doc store.Document) {
			hub.Broadcast(WSMessage{
				Type:    "state_changed",
				Version: doc.Version,
				State:   doc.State,
			})
		})
	}
	return s
}

// Routes mounts the floor endpoints on the given router.
func (s *Service) Routes(r chi.Router) {
	if s.wsHub != nil {
		r.Get("/ws", s.wsHub.HandleWS)
	}

	r.Get("/auction", s.GetAuction)
	r.Post("/auction/status", s.SetStatus)
	r.Post("/auction/current", s.SetCurrentPlayer)
	r.Post("/auction/bid", s.PlaceBid)
	r.Post("/auction/sold", s.MarkSold)
	r.Post("/auction/unsold", s.MarkUnsold)
	r.Post("/auction/next", s.NextPlayer)
	r.Post("/auction/timer/reset", s.ResetTimer)
	r.Post("/auction/reset", s.ResetDemo)

	r.Get("/players", s.ListPlayers)
	r.Patch("/players/{playerID}", s.UpdatePlayer)
	r.Get("/teams", s.ListTeams)

	r.Get("/tournaments", s.ListTournaments)
	r.Post("/tournaments", s.CreateTournament)
	r.Put("/tournaments/{tournamentID}", s.UpdateTournament)
	r.Delete("/tournaments/{tournamentID}", s.DeleteTournament)
	r.Post("/tournaments/{tournamentID}/activate", s.ActivateTournament)
}

// --- Request types ---

// StatusRequest is the JSON body for POST /auction/status.
type StatusRequest struct {
	Status model.AuctionStatus `json:"status"`
}

// CurrentPlayerRequest is the JSON body for POST /auction/current.
// An empty player_id clears the floor.
type CurrentPlayerRequest struct {
	PlayerID string `json:"player_id"`
}

// BidRequest is the JSON body for POST /auction/bid.
type BidRequest struct {
	TeamID string          `json:"team_id"`
	Amount decimal.Decimal `json:"amount"`
}

// OutcomeResponse reports the result of a floor mutation together with the
// resulting state version.
type OutcomeResponse struct {
	Outcome auction.Outcome `json:"outcome"`
	Version uint64          `json:"version"`
}

// --- Floor handlers ---

// GetAuction handles GET /api/v1/auction
func (s *Service) GetAuction(w http.ResponseWriter, r *http.Request) {
	doc := s.engine.Document()
	writeJSON(w, http.StatusOK, doc)
}

// SetStatus handles POST /api/v1/auction/status
func (s *Service) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req StatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	switch req.Status {
	case model.StatusIdle, model.StatusBidding, model.StatusPaused, model.StatusSold, model.StatusUnsold:
	default:
		writeError(w, "unknown auction status", http.StatusBadRequest)
		return
	}

	s.engine.SetAuctionStatus(r.Context(), req.Status)
	s.writeOutcome(w, auction.OutcomeOK)
}

// SetCurrentPlayer handles POST /api/v1/auction/current
func (s *Service) SetCurrentPlayer(w http.ResponseWriter, r *http.Request) {
	var req CurrentPlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	s.writeOutcome(w, s.engine.SetCurrentPlayer(r.Context(), req.PlayerID))
}

// PlaceBid handles POST /api/v1/auction/bid
func (s *Service) PlaceBid(w http.ResponseWriter, r *http.Request) {
	var req BidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.TeamID == "" {
		writeError(w, "team_id is required", http.StatusBadRequest)
		return
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		writeError(w, "amount must be positive", http.StatusBadRequest)
		return
	}

	outcome := s.engine.PlaceBid(r.Context(), req.TeamID, req.Amount)
	metrics.BidsTotal.WithLabelValues(string(outcome)).Inc()
	s.writeOutcome(w, outcome)
}

// MarkSold handles POST /api/v1/auction/sold
func (s *Service) MarkSold(w http.ResponseWriter, r *http.Request) {
	outcome := s.engine.MarkSold(r.Context())
	if outcome == auction.OutcomeOK {
		metrics.PlayersSoldTotal.Inc()
	}
	s.writeOutcome(w, outcome)
}

// MarkUnsold handles POST /api/v1/auction/unsold
func (s *Service) MarkUnsold(w http.ResponseWriter, r *http.Request) {
	outcome := s.engine.MarkUnsold(r.Context())
	if outcome == auction.OutcomeOK {
		metrics.PlayersUnsoldTotal.Inc()
	}
	s.writeOutcome(w, outcome)
}

// NextPlayer handles POST /api/v1/auction/next
func (s *Service) NextPlayer(w http.ResponseWriter, r *http.Request) {
	s.writeOutcome(w, s.engine.NextPlayer(r.Context()))
}

// ResetTimer handles POST /api/v1/auction/timer/reset
func (s *Service) ResetTimer(w http.ResponseWriter, r *http.Request) {
	s.engine.ResetTimer(r.Context())
	s.writeOutcome(w, auction.OutcomeOK)
}

// ResetDemo handles POST /api/v1/auction/reset
func (s *Service) ResetDemo(w http.ResponseWriter, r *http.Request) {
	s.engine.ResetDemo(r.Context())
	s.writeOutcome(w, auction.OutcomeOK)
}

// --- Entity handlers ---

// ListPlayers handles GET /api/v1/players
func (s *Service) ListPlayers(w http.ResponseWriter, r *http.Request) {
	doc := s.engine.Document()
	writeJSON(w, http.StatusOK, doc.State.Players)
}

// UpdatePlayer handles PATCH /api/v1/players/{playerID}
func (s *Service) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "playerID")

	var patch auction.PlayerPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	s.writeOutcome(w, s.engine.UpdatePlayer(r.Context(), playerID, patch))
}

// ListTeams handles GET /api/v1/teams
func (s *Service) ListTeams(w http.ResponseWriter, r *http.Request) {
	doc := s.engine.Document()
	writeJSON(w, http.StatusOK, doc.State.Teams)
}

// --- Tournament handlers ---

// ListTournaments handles GET /api/v1/tournaments
func (s *Service) ListTournaments(w http.ResponseWriter, r *http.Request) {
	doc := s.engine.Document()
	writeJSON(w, http.StatusOK, doc.State.Tournaments)
}

// CreateTournament handles POST /api/v1/tournaments
func (s *Service) CreateTournament(w http.ResponseWriter, r *http.Request) {
	var t model.Tournament
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if t.Name == "" {
		writeError(w, "name is required", http.StatusBadRequest)
		return
	}

	created := s.engine.CreateTournament(r.Context(), t)
	writeJSON(w, http.StatusCreated, created)
}

// UpdateTournament handles PUT /api/v1/tournaments/{tournamentID}
func (s *Service) UpdateTournament(w http.ResponseWriter, r *http.Request) {
	tournamentID := chi.URLParam(r, "tournamentID")

	var t model.Tournament
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	s.writeOutcome(w, s.engine.UpdateTournament(r.Context(), tournamentID, t))
}

// DeleteTournament handles DELETE /api/v1/tournaments/{tournamentID}
func (s *Service) DeleteTournament(w http.ResponseWriter, r *http.Request) {
	tournamentID := chi.URLParam(r, "tournamentID")
	s.writeOutcome(w, s.engine.DeleteTournament(r.Context(), tournamentID))
}

// ActivateTournament handles POST /api/v1/tournaments/{tournamentID}/activate
func (s *Service) ActivateTournament(w http.ResponseWriter, r *http.Request) {
	tournamentID := chi.URLParam(r, "tournamentID")
	s.writeOutcome(w, s.engine.SetActiveTournament(r.Context(), tournamentID))
}

// --- Helpers ---

// writeOutcome maps an engine outcome onto an HTTP status: rejected
// transitions answer 409 so consoles can surface the reason ("insufficient
// budget" and friends), unknown entities answer 404.
func (s *Service) writeOutcome(w http.ResponseWriter, outcome auction.Outcome) {
	status := http.StatusOK
	switch outcome {
	case auction.OutcomeOK:
	case auction.OutcomeUnknownTeam, auction.OutcomeUnknownPlayer, auction.OutcomeUnknownTournament:
		status = http.StatusNotFound
	default:
		status = http.StatusConflict
	}

	writeJSON(w, status, OutcomeResponse{
		Outcome: outcome,
		Version: s.engine.Version(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

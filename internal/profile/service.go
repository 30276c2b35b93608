package profile

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rosterbid/auction-engine/internal/auth"
)

// Service exposes the profile endpoints. All routes require a bearer token;
// the token subject selects the profile, so callers can only read and write
// their own rows.
type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Routes mounts the profile endpoints. Callers wrap them with
// auth.Verifier.Middleware.
func (s *Service) Routes(r chi.Router) {
	r.Get("/profile", s.GetProfile)
	r.Put("/profile", s.PutProfile)
	r.Get("/profile/games", s.ListGameProfiles)
	r.Get("/profile/games/{gameName}", s.GetGameProfile)
	r.Put("/profile/games/{gameName}", s.PutGameProfile)
}

// GetProfile handles GET /api/v1/profile
func (s *Service) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	p, err := s.store.GetProfile(r.Context(), userID)
	if errors.Is(err, ErrNotFound) {
		writeError(w, "profile not found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("get profile failed", "user_id", userID, "err", err)
		writeError(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// PutProfile handles PUT /api/v1/profile. Creates the row on first write.
func (s *Service) PutProfile(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req struct {
		DisplayName string `json:"display_name"`
		AvatarURL   string `json:"avatar_url"`
		Region      string `json:"region"`
		Bio         string `json:"bio"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.DisplayName == "" {
		writeError(w, "display_name is required", http.StatusBadRequest)
		return
	}

	now := s.now().UTC()
	p := &Profile{
		ID:          userID,
		DisplayName: req.DisplayName,
		AvatarURL:   req.AvatarURL,
		Region:      req.Region,
		Bio:         req.Bio,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if existing, err := s.store.GetProfile(r.Context(), userID); err == nil {
		p.CreatedAt = existing.CreatedAt
	}

	if err := s.store.UpsertProfile(r.Context(), p); err != nil {
		slog.Error("upsert profile failed", "user_id", userID, "err", err)
		writeError(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// ListGameProfiles handles GET /api/v1/profile/games
func (s *Service) ListGameProfiles(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	games, err := s.store.ListGameProfiles(r.Context(), userID)
	if err != nil {
		slog.Error("list game profiles failed", "user_id", userID, "err", err)
		writeError(w, "internal error", http.StatusInternalServerError)
		return
	}
	if games == nil {
		games = []GameProfile{}
	}
	writeJSON(w, http.StatusOK, games)
}

// GetGameProfile handles GET /api/v1/profile/games/{gameName}
func (s *Service) GetGameProfile(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	gameName := chi.URLParam(r, "gameName")

	gp, err := s.store.GetGameProfile(r.Context(), userID, gameName)
	if errors.Is(err, ErrNotFound) {
		writeError(w, "game profile not found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("get game profile failed", "user_id", userID, "game", gameName, "err", err)
		writeError(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, gp)
}

// PutGameProfile handles PUT /api/v1/profile/games/{gameName}. Upserts on
// the (profile, game) key.
func (s *Service) PutGameProfile(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	gameName := chi.URLParam(r, "gameName")

	var req struct {
		InGameName  string `json:"in_game_name"`
		Rank        string `json:"rank"`
		MainRole    string `json:"main_role"`
		HoursPlayed int    `json:"hours_played"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.InGameName == "" {
		writeError(w, "in_game_name is required", http.StatusBadRequest)
		return
	}
	if req.HoursPlayed < 0 {
		writeError(w, "hours_played must not be negative", http.StatusBadRequest)
		return
	}

	gp := &GameProfile{
		ProfileID:   userID,
		GameName:    gameName,
		InGameName:  req.InGameName,
		Rank:        req.Rank,
		MainRole:    req.MainRole,
		HoursPlayed: req.HoursPlayed,
		UpdatedAt:   s.now().UTC(),
	}
	if err := s.store.UpsertGameProfile(r.Context(), gp); err != nil {
		slog.Error("upsert game profile failed", "user_id", userID, "game", gameName, "err", err)
		writeError(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, gp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

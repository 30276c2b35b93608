// Package profile is the relational side of the house: persistent user
// profiles and per-game sub-profiles keyed by the identity provider's user
// id. It is deliberately separate from the auction-domain player records,
// which live only in the auction snapshot.
package profile

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a profile or game profile does not exist.
var ErrNotFound = errors.New("profile: not found")

// Profile is a user's top-level profile, keyed by the auth subject.
type Profile struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	Region      string    `json:"region,omitempty"`
	Bio         string    `json:"bio,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// GameProfile is a per-game sub-profile. One row per (profile, game).
type GameProfile struct {
	ProfileID   string    `json:"profile_id"`
	GameName    string    `json:"game_name"`
	InGameName  string    `json:"in_game_name"`
	Rank        string    `json:"rank,omitempty"`
	MainRole    string    `json:"main_role,omitempty"`
	HoursPlayed int       `json:"hours_played,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Store persists profiles and game profiles.
type Store interface {
	GetProfile(ctx context.Context, id string) (*Profile, error)
	// UpsertProfile inserts or updates the profile row keyed by p.ID.
	UpsertProfile(ctx context.Context, p *Profile) error

	GetGameProfile(ctx context.Context, profileID, gameName string) (*GameProfile, error)
	ListGameProfiles(ctx context.Context, profileID string) ([]GameProfile, error)
	// UpsertGameProfile inserts or updates on the (profile_id, game_name) key.
	UpsertGameProfile(ctx context.Context, gp *GameProfile) error
}

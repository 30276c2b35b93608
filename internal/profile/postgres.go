package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store on PostgreSQL.
//
// Schema:
//
//	CREATE TABLE profiles (
//	    id           TEXT PRIMARY KEY,
//	    display_name TEXT NOT NULL,
//	    avatar_url   TEXT NOT NULL DEFAULT '',
//	    region       TEXT NOT NULL DEFAULT '',
//	    bio          TEXT NOT NULL DEFAULT '',
//	    created_at   TIMESTAMPTZ NOT NULL,
//	    updated_at   TIMESTAMPTZ NOT NULL
//	);
//
//	CREATE TABLE game_profiles (
//	    profile_id   TEXT NOT NULL REFERENCES profiles(id),
//	    game_name    TEXT NOT NULL,
//	    in_game_name TEXT NOT NULL,
//	    rank         TEXT NOT NULL DEFAULT '',
//	    main_role    TEXT NOT NULL DEFAULT '',
//	    hours_played INT  NOT NULL DEFAULT 0,
//	    updated_at   TIMESTAMPTZ NOT NULL,
//	    UNIQUE (profile_id, game_name)
//	);
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) GetProfile(ctx context.Context, id string) (*Profile, error) {
	var p Profile
	err := s.pool.QueryRow(ctx,
		`SELECT id, display_name, avatar_url, region, bio, created_at, updated_at
		 FROM profiles WHERE id = $1`, id).
		Scan(&p.ID, &p.DisplayName, &p.AvatarURL, &p.Region, &p.Bio,
			&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile %s: %w", id, err)
	}
	return &p, nil
}

func (s *PostgresStore) UpsertProfile(ctx context.Context, p *Profile) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO profiles (id, display_name, avatar_url, region, bio, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (id) DO UPDATE SET
		     display_name = EXCLUDED.display_name,
		     avatar_url   = EXCLUDED.avatar_url,
		     region       = EXCLUDED.region,
		     bio          = EXCLUDED.bio,
		     updated_at   = EXCLUDED.updated_at`,
		p.ID, p.DisplayName, p.AvatarURL, p.Region, p.Bio,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert profile %s: %w", p.ID, err)
	}
	return nil
}

func (s *PostgresStore) GetGameProfile(ctx context.Context, profileID, gameName string) (*GameProfile, error) {
	var gp GameProfile
	err := s.pool.QueryRow(ctx,
		`SELECT profile_id, game_name, in_game_name, rank, main_role, hours_played, updated_at
		 FROM game_profiles WHERE profile_id = $1 AND game_name = $2`,
		profileID, gameName).
		Scan(&gp.ProfileID, &gp.GameName, &gp.InGameName, &gp.Rank,
			&gp.MainRole, &gp.HoursPlayed, &gp.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get game profile %s/%s: %w", profileID, gameName, err)
	}
	return &gp, nil
}

func (s *PostgresStore) ListGameProfiles(ctx context.Context, profileID string) ([]GameProfile, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT profile_id, game_name, in_game_name, rank, main_role, hours_played, updated_at
		 FROM game_profiles WHERE profile_id = $1 ORDER BY game_name`, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []GameProfile
	for rows.Next() {
		var gp GameProfile
		if err := rows.Scan(&gp.ProfileID, &gp.GameName, &gp.InGameName, &gp.Rank,
			&gp.MainRole, &gp.HoursPlayed, &gp.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, gp)
	}
	return out, rows.Err()
}

func (s *PostgresStore) UpsertGameProfile(ctx context.Context, gp *GameProfile) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO game_profiles (profile_id, game_name, in_game_name, rank, main_role, hours_played, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (profile_id, game_name) DO UPDATE SET
		     in_game_name = EXCLUDED.in_game_name,
		     rank         = EXCLUDED.rank,
		     main_role    = EXCLUDED.main_role,
		     hours_played = EXCLUDED.hours_played,
		     updated_at   = EXCLUDED.updated_at`,
		gp.ProfileID, gp.GameName, gp.InGameName, gp.Rank,
		gp.MainRole, gp.HoursPlayed, gp.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert game profile %s/%s: %w", gp.ProfileID, gp.GameName, err)
	}
	return nil
}

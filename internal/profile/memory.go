package profile

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore implements Store with in-memory maps. Used in tests and when
// no DATABASE_URL is configured.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]Profile
	games    map[string]map[string]GameProfile // profile id -> game name -> row
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles: make(map[string]Profile),
		games:    make(map[string]map[string]GameProfile),
	}
}

func (s *MemoryStore) GetProfile(ctx context.Context, id string) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s *MemoryStore) UpsertProfile(ctx context.Context, p *Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profiles[p.ID] = *p
	return nil
}

func (s *MemoryStore) GetGameProfile(ctx context.Context, profileID, gameName string) (*GameProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	gp, ok := s.games[profileID][gameName]
	if !ok {
		return nil, ErrNotFound
	}
	return &gp, nil
}

func (s *MemoryStore) ListGameProfiles(ctx context.Context, profileID string) ([]GameProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]GameProfile, 0, len(s.games[profileID]))
	for _, gp := range s.games[profileID] {
		out = append(out, gp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GameName < out[j].GameName })
	return out, nil
}

func (s *MemoryStore) UpsertGameProfile(ctx context.Context, gp *GameProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.games[gp.ProfileID] == nil {
		s.games[gp.ProfileID] = make(map[string]GameProfile)
	}
	s.games[gp.ProfileID][gp.GameName] = *gp
	return nil
}

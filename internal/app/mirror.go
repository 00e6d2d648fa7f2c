package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"hbnb_api/internal/domain"
)

// MirrorService copies the entity graph of another HBnB API into local storage.
// MirrorState is safe to run concurrently for different states.
type MirrorService struct {
	up    domain.UpstreamClient
	store domain.Storage
	cache domain.Cache

	mu    sync.Mutex
	users map[string]bool // user id -> present locally
}

// MirrorStats counts what one MirrorState call wrote.
type MirrorStats struct {
	Cities int
	Places int
	Links  int
	Skips  int
}

func NewMirrorService(up domain.UpstreamClient, s domain.Storage, cache domain.Cache) *MirrorService {
	return &MirrorService{up: up, store: s, cache: cache, users: map[string]bool{}}
}

// MirrorAmenities must run before any MirrorState so place links resolve.
func (s *MirrorService) MirrorAmenities(ctx context.Context) (int, error) {
	raw, err := s.up.ListAmenities(ctx)
	if err != nil {
		return 0, fmt.Errorf("list amenities: %w", err)
	}
	n := 0
	for _, m := range raw {
		a := mapAmenity(m)
		if a.ID == "" {
			continue
		}
		if err := s.store.UpsertAmenity(ctx, a); err != nil {
			return n, fmt.Errorf("upsert amenity %s: %w", a.ID, err)
		}
		n++
	}
	return n, nil
}

func (s *MirrorService) ListStates(ctx context.Context) ([]domain.State, error) {
	raw, err := s.up.ListStates(ctx)
	if err != nil {
		return nil, fmt.Errorf("list states: %w", err)
	}
	out := make([]domain.State, 0, len(raw))
	for _, m := range raw {
		if st := mapState(m); st.ID != "" {
			out = append(out, st)
		}
	}
	return out, nil
}

// MirrorState writes the state, its cities, their places with owners, and the
// place amenity links. Entities the upstream reports as gone are skipped.
func (s *MirrorService) MirrorState(ctx context.Context, st domain.State) (MirrorStats, error) {
	var stats MirrorStats
	if err := s.store.UpsertState(ctx, st); err != nil {
		return stats, fmt.Errorf("upsert state %s: %w", st.ID, err)
	}

	rawCities, err := s.up.ListCities(ctx, st.ID)
	if errors.Is(err, domain.ErrNotFound) {
		stats.Skips++
		return stats, nil
	}
	if err != nil {
		return stats, err
	}

	for _, cm := range rawCities {
		c := mapCity(st.ID, cm)
		if c.ID == "" {
			continue
		}
		if err := s.store.UpsertCity(ctx, c); err != nil {
			return stats, fmt.Errorf("upsert city %s: %w", c.ID, err)
		}
		stats.Cities++

		rawPlaces, err := s.up.ListPlaces(ctx, c.ID)
		if errors.Is(err, domain.ErrNotFound) {
			stats.Skips++
			continue
		}
		if err != nil {
			return stats, err
		}
		for _, pm := range rawPlaces {
			if err := s.mirrorPlace(ctx, mapPlace(c.ID, pm), &stats); err != nil {
				return stats, err
			}
		}
	}
	return stats, nil
}

func (s *MirrorService) mirrorPlace(ctx context.Context, p domain.Place, stats *MirrorStats) error {
	if p.ID == "" {
		return nil
	}
	ok, err := s.ensureUser(ctx, p.UserID)
	if err != nil {
		return err
	}
	if !ok {
		log.Warn().Str("place_id", p.ID).Str("user_id", p.UserID).Msg("owner missing upstream, place skipped")
		stats.Skips++
		return nil
	}
	if err := s.store.UpsertPlace(ctx, p); err != nil {
		return fmt.Errorf("upsert place %s: %w", p.ID, err)
	}
	stats.Places++
	if s.cache != nil {
		_ = s.cache.Del(ctx, placeKey(p.ID))
	}

	rawAmenities, err := s.up.ListPlaceAmenities(ctx, p.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, am := range rawAmenities {
		a := mapAmenity(am)
		if a.ID == "" {
			continue
		}
		if _, err := s.store.GetAmenity(ctx, a.ID); errors.Is(err, domain.ErrNotFound) {
			if err := s.store.UpsertAmenity(ctx, a); err != nil {
				return fmt.Errorf("upsert amenity %s: %w", a.ID, err)
			}
		} else if err != nil {
			return err
		}
		if _, err := s.store.LinkAmenity(ctx, p.ID, a.ID); err != nil {
			return fmt.Errorf("link %s/%s: %w", p.ID, a.ID, err)
		}
		stats.Links++
	}
	return nil
}

// ensureUser mirrors the owner once; false means the upstream has no such user.
func (s *MirrorService) ensureUser(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, nil
	}
	s.mu.Lock()
	present, seen := s.users[id]
	s.mu.Unlock()
	if seen {
		return present, nil
	}

	m, err := s.up.GetUser(ctx, id)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		present = false
	case err != nil:
		return false, fmt.Errorf("get user %s: %w", id, err)
	default:
		if err := s.store.UpsertUser(ctx, mapUser(m)); err != nil {
			return false, fmt.Errorf("upsert user %s: %w", id, err)
		}
		present = true
	}

	s.mu.Lock()
	s.users[id] = present
	s.mu.Unlock()
	return present, nil
}

// Package memory is the file storage engine: every entity lives in maps guarded
// by one RWMutex, and, when a path is set, each write rewrites a JSON snapshot
// keyed "<Class>.<id>".
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"hbnb_api/internal/domain"
)

type Store struct {
	mu   sync.RWMutex
	path string

	states    map[string]domain.State
	cities    map[string]domain.City
	places    map[string]domain.Place
	amenities map[string]domain.Amenity
	users     map[string]domain.User
}

// New returns an empty store that never touches disk.
func New() *Store {
	return &Store{
		states:    map[string]domain.State{},
		cities:    map[string]domain.City{},
		places:    map[string]domain.Place{},
		amenities: map[string]domain.Amenity{},
		users:     map[string]domain.User{},
	}
}

// Open returns a store persisted at path, loading it when the file exists.
func Open(path string) (*Store, error) {
	s := New()
	s.path = path
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// ---- read paths ----

func (s *Store) GetState(ctx context.Context, id string) (domain.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.states[id]
	if !ok {
		return domain.State{}, domain.ErrNotFound
	}
	return st, nil
}

func (s *Store) GetCity(ctx context.Context, id string) (domain.City, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cities[id]
	if !ok {
		return domain.City{}, domain.ErrNotFound
	}
	return c, nil
}

func (s *Store) GetPlace(ctx context.Context, id string) (domain.Place, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.places[id]
	if !ok {
		return domain.Place{}, domain.ErrNotFound
	}
	return clonePlace(p), nil
}

func (s *Store) GetAmenity(ctx context.Context, id string) (domain.Amenity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.amenities[id]
	if !ok {
		return domain.Amenity{}, domain.ErrNotFound
	}
	return a, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (s *Store) ListStates(ctx context.Context) ([]domain.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.State, 0, len(s.states))
	for _, st := range s.states {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool {
		return before(out[i].CreatedAt, out[i].ID, out[j].CreatedAt, out[j].ID)
	})
	return out, nil
}

func (s *Store) ListAmenities(ctx context.Context) ([]domain.Amenity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Amenity, 0, len(s.amenities))
	for _, a := range s.amenities {
		out = append(out, a)
	}
	sortAmenities(out)
	return out, nil
}

func (s *Store) CitiesOf(ctx context.Context, stateID string) ([]domain.City, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.City
	for _, c := range s.cities {
		if c.StateID == stateID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return before(out[i].CreatedAt, out[i].ID, out[j].CreatedAt, out[j].ID)
	})
	return out, nil
}

func (s *Store) PlacesOf(ctx context.Context, cityID string) ([]domain.Place, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Place
	for _, p := range s.places {
		if p.CityID == cityID {
			out = append(out, clonePlace(p))
		}
	}
	sortPlaces(out)
	return out, nil
}

func (s *Store) AllPlaces(ctx context.Context) ([]domain.Place, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Place, 0, len(s.places))
	for _, p := range s.places {
		out = append(out, clonePlace(p))
	}
	sortPlaces(out)
	return out, nil
}

func (s *Store) AmenitiesOf(ctx context.Context, placeID string) ([]domain.Amenity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.places[placeID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := make([]domain.Amenity, 0, len(p.AmenityIDs))
	for _, id := range p.AmenityIDs {
		if a, ok := s.amenities[id]; ok {
			out = append(out, a)
		}
	}
	sortAmenities(out)
	return out, nil
}

func (s *Store) Count(ctx context.Context, kind domain.Kind) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch kind {
	case domain.KindState:
		return len(s.states), nil
	case domain.KindCity:
		return len(s.cities), nil
	case domain.KindPlace:
		return len(s.places), nil
	case domain.KindAmenity:
		return len(s.amenities), nil
	case domain.KindUser:
		return len(s.users), nil
	}
	return 0, fmt.Errorf("count: unknown kind %q", kind)
}

// ---- write paths ----

func (s *Store) UpsertState(ctx context.Context, st domain.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commitLocked(put(s.states, st.ID, st))
}

func (s *Store) UpsertCity(ctx context.Context, c domain.City) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commitLocked(put(s.cities, c.ID, c))
}

func (s *Store) UpsertAmenity(ctx context.Context, a domain.Amenity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commitLocked(put(s.amenities, a.ID, a))
}

func (s *Store) UpsertUser(ctx context.Context, u domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commitLocked(put(s.users, u.ID, u))
}

// UpsertPlace writes the place and adds any links in p.AmenityIDs; existing
// links are never removed here.
func (s *Store) UpsertPlace(ctx context.Context, p domain.Place) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	incoming := p.AmenityIDs
	p = clonePlace(p)
	if old, ok := s.places[p.ID]; ok {
		p.AmenityIDs = append([]string(nil), old.AmenityIDs...)
	} else {
		p.AmenityIDs = nil
	}
	for _, id := range incoming {
		if !contains(p.AmenityIDs, id) {
			p.AmenityIDs = append(p.AmenityIDs, id)
		}
	}
	return s.commitLocked(put(s.places, p.ID, p))
}

func (s *Store) DeletePlace(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.places[id]; !ok {
		return domain.ErrNotFound
	}
	return s.commitLocked(del(s.places, id))
}

func (s *Store) LinkAmenity(ctx context.Context, placeID, amenityID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.places[placeID]
	if !ok {
		return false, domain.ErrNotFound
	}
	if _, ok := s.amenities[amenityID]; !ok {
		return false, domain.ErrNotFound
	}
	if contains(p.AmenityIDs, amenityID) {
		return false, nil
	}
	p = clonePlace(p)
	p.AmenityIDs = append(p.AmenityIDs, amenityID)
	if err := s.commitLocked(put(s.places, placeID, p)); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) UnlinkAmenity(ctx context.Context, placeID, amenityID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.places[placeID]
	if !ok {
		return domain.ErrNotFound
	}
	p = clonePlace(p)
	for i, id := range p.AmenityIDs {
		if id == amenityID {
			p.AmenityIDs = append(p.AmenityIDs[:i], p.AmenityIDs[i+1:]...)
			return s.commitLocked(put(s.places, placeID, p))
		}
	}
	return domain.ErrNotFound
}

// ---- helpers ----

// commitLocked persists the snapshot and runs undo when that fails, so memory
// never holds a write the file does not.
func (s *Store) commitLocked(undo func()) error {
	if err := s.persistLocked(); err != nil {
		undo()
		return err
	}
	return nil
}

// put stores v under id and returns the func restoring the previous entry.
func put[V any](m map[string]V, id string, v V) func() {
	old, had := m[id]
	m[id] = v
	return func() {
		if had {
			m[id] = old
		} else {
			delete(m, id)
		}
	}
}

// del removes id and returns the func putting it back.
func del[V any](m map[string]V, id string) func() {
	old, had := m[id]
	delete(m, id)
	return func() {
		if had {
			m[id] = old
		}
	}
}

func clonePlace(p domain.Place) domain.Place {
	if p.AmenityIDs != nil {
		p.AmenityIDs = append([]string(nil), p.AmenityIDs...)
	}
	return p
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func sortPlaces(ps []domain.Place) {
	sort.Slice(ps, func(i, j int) bool {
		return before(ps[i].CreatedAt, ps[i].ID, ps[j].CreatedAt, ps[j].ID)
	})
}

func sortAmenities(as []domain.Amenity) {
	sort.Slice(as, func(i, j int) bool {
		return before(as[i].CreatedAt, as[i].ID, as[j].CreatedAt, as[j].ID)
	})
}

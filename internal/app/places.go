package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"hbnb_api/internal/domain"
)

// PlaceService owns place reads, writes and search. A nil cache disables
// caching.
type PlaceService struct {
	store    domain.Storage
	cache    domain.Cache
	cacheTTL time.Duration
	now      func() time.Time
}

func NewPlaceService(s domain.Storage, c domain.Cache, ttl time.Duration) *PlaceService {
	return &PlaceService{store: s, cache: c, cacheTTL: ttl, now: func() time.Time { return time.Now().UTC() }}
}

func placeKey(id string) string { return fmt.Sprintf("place:%s", id) }

func (s *PlaceService) GetPlace(ctx context.Context, id string) (domain.Place, error) {
	if s.cache == nil {
		return s.store.GetPlace(ctx, id)
	}
	key := placeKey(id)
	var p domain.Place
	if ok, _ := s.cache.Get(ctx, key, &p); ok {
		return p, nil
	}
	p, err := s.store.GetPlace(ctx, id)
	if err != nil {
		return domain.Place{}, err
	}
	_ = s.cache.Set(ctx, key, p, int(s.cacheTTL.Seconds()))
	return p, nil
}

func (s *PlaceService) CityPlaces(ctx context.Context, cityID string) ([]domain.Place, error) {
	if _, err := s.store.GetCity(ctx, cityID); err != nil {
		return nil, err
	}
	return s.store.PlacesOf(ctx, cityID)
}

// CreatePlace checks, in order: the city exists, user_id is given, the user
// exists, then the rest of the payload.
func (s *PlaceService) CreatePlace(ctx context.Context, cityID string, in domain.PlaceCreate) (domain.Place, error) {
	if _, err := s.store.GetCity(ctx, cityID); err != nil {
		return domain.Place{}, err
	}
	if err := in.ValidateOwner(); err != nil {
		return domain.Place{}, err
	}
	if _, err := s.store.GetUser(ctx, in.UserID); err != nil {
		return domain.Place{}, err
	}
	if err := in.Validate(); err != nil {
		return domain.Place{}, err
	}

	now := s.now()
	p := domain.Place{
		ID:              uuid.NewString(),
		CityID:          cityID,
		UserID:          in.UserID,
		Name:            in.Name,
		Description:     in.Description,
		NumberRooms:     in.NumberRooms,
		NumberBathrooms: in.NumberBathrooms,
		MaxGuest:        in.MaxGuest,
		PriceByNight:    in.PriceByNight,
		Latitude:        in.Latitude,
		Longitude:       in.Longitude,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.store.UpsertPlace(ctx, p); err != nil {
		return domain.Place{}, fmt.Errorf("insert place: %w", err)
	}
	log.Info().Str("place_id", p.ID).Str("city_id", cityID).Msg("place created")
	return p, nil
}

func (s *PlaceService) UpdatePlace(ctx context.Context, id string, u domain.PlaceUpdate) (domain.Place, error) {
	p, err := s.store.GetPlace(ctx, id)
	if err != nil {
		return domain.Place{}, err
	}
	if err := u.Validate(); err != nil {
		return domain.Place{}, err
	}
	u.Apply(&p)
	p.UpdatedAt = s.now()
	// scalar fields only; links change through Link/UnlinkAmenity
	w := p
	w.AmenityIDs = nil
	if err := s.store.UpsertPlace(ctx, w); err != nil {
		return domain.Place{}, fmt.Errorf("update place %s: %w", id, err)
	}
	s.invalidate(ctx, id)
	return p, nil
}

func (s *PlaceService) DeletePlace(ctx context.Context, id string) error {
	if err := s.store.DeletePlace(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	log.Info().Str("place_id", id).Msg("place deleted")
	return nil
}

func (s *PlaceService) PlaceAmenities(ctx context.Context, placeID string) ([]domain.Amenity, error) {
	if _, err := s.store.GetPlace(ctx, placeID); err != nil {
		return nil, err
	}
	return s.store.AmenitiesOf(ctx, placeID)
}

// LinkAmenity reports created=false when the link already existed.
func (s *PlaceService) LinkAmenity(ctx context.Context, placeID, amenityID string) (domain.Amenity, bool, error) {
	if _, err := s.store.GetPlace(ctx, placeID); err != nil {
		return domain.Amenity{}, false, err
	}
	a, err := s.store.GetAmenity(ctx, amenityID)
	if err != nil {
		return domain.Amenity{}, false, err
	}
	created, err := s.store.LinkAmenity(ctx, placeID, amenityID)
	if err != nil {
		return domain.Amenity{}, false, fmt.Errorf("link amenity: %w", err)
	}
	s.invalidate(ctx, placeID)
	return a, created, nil
}

// UnlinkAmenity returns ErrNotFound when the amenity is not linked to the place.
func (s *PlaceService) UnlinkAmenity(ctx context.Context, placeID, amenityID string) error {
	if _, err := s.store.GetPlace(ctx, placeID); err != nil {
		return err
	}
	if _, err := s.store.GetAmenity(ctx, amenityID); err != nil {
		return err
	}
	if err := s.store.UnlinkAmenity(ctx, placeID, amenityID); err != nil {
		return err
	}
	s.invalidate(ctx, placeID)
	return nil
}

// Search runs the resolver against the service's storage.
func (s *PlaceService) Search(ctx context.Context, req domain.SearchRequest) ([]domain.Place, string, error) {
	places, mode, err := Search(ctx, s.store, req)
	if err != nil {
		return nil, "", err
	}
	log.Debug().
		Int("states", len(req.States)).
		Int("cities", len(req.Cities)).
		Int("amenities", len(req.Amenities)).
		Str("mode", mode).
		Int("results", len(places)).
		Msg("places search")
	return places, mode, nil
}

func (s *PlaceService) invalidate(ctx context.Context, id string) {
	if s.cache != nil {
		_ = s.cache.Del(ctx, placeKey(id))
	}
}

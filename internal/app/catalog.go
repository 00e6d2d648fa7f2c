package app

import (
	"context"

	"hbnb_api/internal/domain"
)

// CatalogService serves the read-only state/city/amenity/user endpoints.
type CatalogService struct{ store domain.Storage }

func NewCatalogService(s domain.Storage) *CatalogService { return &CatalogService{store: s} }

func (s *CatalogService) States(ctx context.Context) ([]domain.State, error) {
	return s.store.ListStates(ctx)
}

func (s *CatalogService) State(ctx context.Context, id string) (domain.State, error) {
	return s.store.GetState(ctx, id)
}

func (s *CatalogService) StateCities(ctx context.Context, stateID string) ([]domain.City, error) {
	if _, err := s.store.GetState(ctx, stateID); err != nil {
		return nil, err
	}
	return s.store.CitiesOf(ctx, stateID)
}

func (s *CatalogService) City(ctx context.Context, id string) (domain.City, error) {
	return s.store.GetCity(ctx, id)
}

func (s *CatalogService) Amenities(ctx context.Context) ([]domain.Amenity, error) {
	return s.store.ListAmenities(ctx)
}

func (s *CatalogService) Amenity(ctx context.Context, id string) (domain.Amenity, error) {
	return s.store.GetAmenity(ctx, id)
}

func (s *CatalogService) User(ctx context.Context, id string) (domain.User, error) {
	return s.store.GetUser(ctx, id)
}

// Stats counts every kind, keyed by the plural table name used in responses.
func (s *CatalogService) Stats(ctx context.Context) (map[string]int, error) {
	names := map[domain.Kind]string{
		domain.KindAmenity: "amenities",
		domain.KindCity:    "cities",
		domain.KindPlace:   "places",
		domain.KindState:   "states",
		domain.KindUser:    "users",
	}
	out := make(map[string]int, len(domain.Kinds))
	for _, k := range domain.Kinds {
		n, err := s.store.Count(ctx, k)
		if err != nil {
			return nil, err
		}
		out[names[k]] = n
	}
	return out, nil
}

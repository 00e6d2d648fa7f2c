package domain

import "context"

// PlaceGraph is the read-only view of the entity graph the search resolver walks.
// Lookups return ErrNotFound for unknown ids; list results are in storage order
// (created_at, then id).
type PlaceGraph interface {
	GetState(ctx context.Context, id string) (State, error)
	GetCity(ctx context.Context, id string) (City, error)
	CitiesOf(ctx context.Context, stateID string) ([]City, error)
	PlacesOf(ctx context.Context, cityID string) ([]Place, error)
	AllPlaces(ctx context.Context) ([]Place, error)
}

type Storage interface {
	PlaceGraph

	// Read paths
	GetPlace(ctx context.Context, id string) (Place, error)
	GetAmenity(ctx context.Context, id string) (Amenity, error)
	GetUser(ctx context.Context, id string) (User, error)
	ListStates(ctx context.Context) ([]State, error)
	ListAmenities(ctx context.Context) ([]Amenity, error)
	AmenitiesOf(ctx context.Context, placeID string) ([]Amenity, error)
	Count(ctx context.Context, kind Kind) (int, error)

	// Write paths
	UpsertState(ctx context.Context, s State) error
	UpsertCity(ctx context.Context, c City) error
	UpsertAmenity(ctx context.Context, a Amenity) error
	UpsertUser(ctx context.Context, u User) error
	UpsertPlace(ctx context.Context, p Place) error
	DeletePlace(ctx context.Context, id string) error
	LinkAmenity(ctx context.Context, placeID, amenityID string) (bool, error)
	UnlinkAmenity(ctx context.Context, placeID, amenityID string) error
}

// UpstreamClient reads another HBnB API instance; used by the mirror.
type UpstreamClient interface {
	ListStates(ctx context.Context) ([]map[string]any, error)
	ListCities(ctx context.Context, stateID string) ([]map[string]any, error)
	ListPlaces(ctx context.Context, cityID string) ([]map[string]any, error)
	ListPlaceAmenities(ctx context.Context, placeID string) ([]map[string]any, error)
	ListAmenities(ctx context.Context) ([]map[string]any, error)
	GetUser(ctx context.Context, id string) (map[string]any, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

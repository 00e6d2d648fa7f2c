package app_test

import (
	"context"
	"testing"
	"time"

	"hbnb_api/internal/domain"
	"hbnb_api/internal/storage/memory"
)

var t0 = time.Date(2017, 3, 25, 2, 17, 6, 0, time.UTC)

// seed builds: S1 owns C1 and C3, C2 belongs to S2.
// P1 (C1) has A1, P2 (C2) has nothing, P3 (C1) has A1 and A2, P4 (C3) has A2.
func seed(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	st := memory.New()
	at := func(n int) time.Time { return t0.Add(time.Duration(n) * time.Second) }

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	must(st.UpsertState(ctx, domain.State{ID: "S1", Name: "California", CreatedAt: at(0), UpdatedAt: at(0)}))
	must(st.UpsertState(ctx, domain.State{ID: "S2", Name: "Nevada", CreatedAt: at(1), UpdatedAt: at(1)}))
	must(st.UpsertCity(ctx, domain.City{ID: "C1", StateID: "S1", Name: "San Francisco", CreatedAt: at(2), UpdatedAt: at(2)}))
	must(st.UpsertCity(ctx, domain.City{ID: "C2", StateID: "S2", Name: "Reno", CreatedAt: at(3), UpdatedAt: at(3)}))
	must(st.UpsertCity(ctx, domain.City{ID: "C3", StateID: "S1", Name: "Fremont", CreatedAt: at(4), UpdatedAt: at(4)}))
	must(st.UpsertAmenity(ctx, domain.Amenity{ID: "A1", Name: "Wifi", CreatedAt: at(5), UpdatedAt: at(5)}))
	must(st.UpsertAmenity(ctx, domain.Amenity{ID: "A2", Name: "Pool", CreatedAt: at(6), UpdatedAt: at(6)}))
	must(st.UpsertUser(ctx, domain.User{ID: "U1", Email: "a@b.c", Password: "pwd", CreatedAt: at(7), UpdatedAt: at(7)}))
	must(st.UpsertPlace(ctx, domain.Place{ID: "P1", CityID: "C1", UserID: "U1", Name: "Loft",
		AmenityIDs: []string{"A1"}, CreatedAt: at(8), UpdatedAt: at(8)}))
	must(st.UpsertPlace(ctx, domain.Place{ID: "P2", CityID: "C2", UserID: "U1", Name: "Cabin",
		CreatedAt: at(9), UpdatedAt: at(9)}))
	must(st.UpsertPlace(ctx, domain.Place{ID: "P3", CityID: "C1", UserID: "U1", Name: "Villa",
		AmenityIDs: []string{"A1", "A2"}, CreatedAt: at(10), UpdatedAt: at(10)}))
	must(st.UpsertPlace(ctx, domain.Place{ID: "P4", CityID: "C3", UserID: "U1", Name: "Studio",
		AmenityIDs: []string{"A2"}, CreatedAt: at(11), UpdatedAt: at(11)}))
	return st
}

func ids(ps []domain.Place) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

type fakeCache struct {
	store map[string]domain.Place
	sets  int
	dels  int
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	*dst.(*domain.Place) = v
	return true, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string]domain.Place{}
	}
	c.store[key] = v.(domain.Place)
	c.sets++
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	delete(c.store, key)
	c.dels++
	return nil
}

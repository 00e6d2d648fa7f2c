package memory_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hbnb_api/internal/domain"
	"hbnb_api/internal/storage/memory"
)

var t0 = time.Date(2017, 3, 25, 2, 17, 6, 123456000, time.UTC)

func TestStore_OrderingByCreatedThenID(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	require.NoError(t, st.UpsertCity(ctx, domain.City{ID: "c", StateID: "s", CreatedAt: t0}))
	require.NoError(t, st.UpsertCity(ctx, domain.City{ID: "b", StateID: "s", CreatedAt: t0}))
	require.NoError(t, st.UpsertCity(ctx, domain.City{ID: "a", StateID: "s", CreatedAt: t0.Add(time.Second)}))
	require.NoError(t, st.UpsertCity(ctx, domain.City{ID: "z", StateID: "other", CreatedAt: t0}))

	cities, err := st.CitiesOf(ctx, "s")
	require.NoError(t, err)
	got := []string{}
	for _, c := range cities {
		got = append(got, c.ID)
	}
	assert.Equal(t, []string{"b", "c", "a"}, got)
}

func TestStore_Links(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	require.NoError(t, st.UpsertAmenity(ctx, domain.Amenity{ID: "a1"}))
	require.NoError(t, st.UpsertPlace(ctx, domain.Place{ID: "p1", CityID: "c1", AmenityIDs: []string{"a1"}}))

	// upsert without links keeps the existing ones
	require.NoError(t, st.UpsertPlace(ctx, domain.Place{ID: "p1", CityID: "c1", Name: "renamed"}))
	p, err := st.GetPlace(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a1"}, p.AmenityIDs)

	// callers cannot mutate stored links through returned values
	p.AmenityIDs[0] = "mutated"
	p, _ = st.GetPlace(ctx, "p1")
	assert.Equal(t, []string{"a1"}, p.AmenityIDs)

	created, err := st.LinkAmenity(ctx, "p1", "a1")
	require.NoError(t, err)
	assert.False(t, created)
	_, err = st.LinkAmenity(ctx, "p1", "missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	require.NoError(t, st.UnlinkAmenity(ctx, "p1", "a1"))
	assert.True(t, errors.Is(st.UnlinkAmenity(ctx, "p1", "a1"), domain.ErrNotFound))

	as, err := st.AmenitiesOf(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, as)
}

func TestStore_Count(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	require.NoError(t, st.UpsertState(ctx, domain.State{ID: "s1"}))
	require.NoError(t, st.UpsertState(ctx, domain.State{ID: "s1"}))
	require.NoError(t, st.UpsertState(ctx, domain.State{ID: "s2"}))

	n, err := st.Count(ctx, domain.KindState)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	_, err = st.Count(ctx, domain.Kind("Review"))
	assert.Error(t, err)
}

func TestStore_PersistRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "file.json")
	lat := 37.77

	st, err := memory.Open(path)
	require.NoError(t, err)
	require.NoError(t, st.UpsertState(ctx, domain.State{ID: "s1", Name: "California", CreatedAt: t0, UpdatedAt: t0}))
	require.NoError(t, st.UpsertCity(ctx, domain.City{ID: "c1", StateID: "s1", Name: "SF", CreatedAt: t0, UpdatedAt: t0}))
	require.NoError(t, st.UpsertUser(ctx, domain.User{ID: "u1", Email: "a@b.c", Password: "pwd", CreatedAt: t0, UpdatedAt: t0}))
	require.NoError(t, st.UpsertAmenity(ctx, domain.Amenity{ID: "a1", Name: "Wifi", CreatedAt: t0, UpdatedAt: t0}))
	require.NoError(t, st.UpsertPlace(ctx, domain.Place{ID: "p1", CityID: "c1", UserID: "u1", Name: "Loft",
		MaxGuest: 2, Latitude: &lat, AmenityIDs: []string{"a1"}, CreatedAt: t0, UpdatedAt: t0}))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"Place.p1"`)
	assert.Contains(t, string(b), `"__class__":"Place"`)
	assert.Contains(t, string(b), `"2017-03-25T02:17:06.123456"`)

	again, err := memory.Open(path)
	require.NoError(t, err)
	p, err := again.GetPlace(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Loft", p.Name)
	assert.Equal(t, 2, p.MaxGuest)
	assert.True(t, p.CreatedAt.Equal(t0))
	require.NotNil(t, p.Latitude)
	assert.Equal(t, lat, *p.Latitude)
	assert.Equal(t, []string{"a1"}, p.AmenityIDs)

	u, err := again.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "pwd", u.Password)
	c, err := again.GetCity(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "s1", c.StateID)
}

func TestOpen_MissingFileIsEmpty(t *testing.T) {
	st, err := memory.Open(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	all, err := st.AllPlaces(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestOpen_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err := memory.Open(path)
	assert.Error(t, err)
}

func TestStore_FailedSaveLeavesMemoryUnchanged(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "data")
	require.NoError(t, os.Mkdir(dir, 0o755))
	st, err := memory.Open(filepath.Join(dir, "file.json"))
	require.NoError(t, err)

	require.NoError(t, st.UpsertState(ctx, domain.State{ID: "s1", Name: "California"}))
	require.NoError(t, st.UpsertCity(ctx, domain.City{ID: "c1", StateID: "s1", Name: "SF"}))
	require.NoError(t, st.UpsertAmenity(ctx, domain.Amenity{ID: "a1", Name: "Wifi"}))
	require.NoError(t, st.UpsertAmenity(ctx, domain.Amenity{ID: "a2", Name: "Pool"}))
	require.NoError(t, st.UpsertPlace(ctx, domain.Place{ID: "p1", CityID: "c1", Name: "Loft", AmenityIDs: []string{"a1"}}))

	// every later save fails
	require.NoError(t, os.RemoveAll(dir))

	assert.Error(t, st.UpsertState(ctx, domain.State{ID: "s2", Name: "Nevada"}))
	_, err = st.GetState(ctx, "s2")
	assert.True(t, errors.Is(err, domain.ErrNotFound), "new state kept after failed save: %v", err)

	assert.Error(t, st.UpsertState(ctx, domain.State{ID: "s1", Name: "Renamed"}))
	s1, err := st.GetState(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "California", s1.Name)

	assert.Error(t, st.UpsertPlace(ctx, domain.Place{ID: "p1", CityID: "c1", Name: "Barn"}))
	created, err := st.LinkAmenity(ctx, "p1", "a2")
	assert.Error(t, err)
	assert.False(t, created)
	assert.Error(t, st.UnlinkAmenity(ctx, "p1", "a1"))
	assert.Error(t, st.DeletePlace(ctx, "p1"))

	p, err := st.GetPlace(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Loft", p.Name)
	assert.Equal(t, []string{"a1"}, p.AmenityIDs)
}

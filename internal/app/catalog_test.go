package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hbnb_api/internal/app"
	"hbnb_api/internal/domain"
)

func TestCatalog_Stats(t *testing.T) {
	c := app.NewCatalogService(seed(t))
	got, err := c.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"amenities": 2, "cities": 3, "places": 4, "states": 2, "users": 1}, got)
}

func TestCatalog_StateCities(t *testing.T) {
	c := app.NewCatalogService(seed(t))
	ctx := context.Background()

	cities, err := c.StateCities(ctx, "S1")
	require.NoError(t, err)
	require.Len(t, cities, 2)
	assert.Equal(t, "C1", cities[0].ID)
	assert.Equal(t, "C3", cities[1].ID)

	_, err = c.StateCities(ctx, "nope")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestViews_Shape(t *testing.T) {
	st := seed(t)
	p, err := st.GetPlace(context.Background(), "P3")
	require.NoError(t, err)

	b, err := json.Marshal(app.PlaceViews([]domain.Place{p}))
	require.NoError(t, err)
	var out []map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	require.Len(t, out, 1)
	assert.NotContains(t, out[0], "amenities")
	assert.NotContains(t, out[0], "amenity_ids")
	assert.Equal(t, "Place", out[0]["__class__"])
	assert.Equal(t, "2017-03-25T02:17:16.000000", out[0]["created_at"])

	u, err := st.GetUser(context.Background(), "U1")
	require.NoError(t, err)
	b, err = json.Marshal(app.NewUserView(u))
	require.NoError(t, err)
	assert.NotContains(t, string(b), "password")

	b, err = json.Marshal(app.PlaceViews(nil))
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(b))
}

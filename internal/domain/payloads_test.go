package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldErr(t *testing.T, err error) string {
	t.Helper()
	var fe *FieldError
	require.True(t, errors.As(err, &fe), "expected FieldError, got %v", err)
	return fe.Error()
}

func TestPlaceCreate_Validate(t *testing.T) {
	lat := 120.0
	assert.Equal(t, "Missing user_id", fieldErr(t, PlaceCreate{}.ValidateOwner()))
	assert.NoError(t, PlaceCreate{UserID: "u"}.ValidateOwner())

	assert.Equal(t, "Missing name", fieldErr(t, PlaceCreate{UserID: "u"}.Validate()))
	assert.Equal(t, "Invalid price_by_night", fieldErr(t, PlaceCreate{UserID: "u", Name: "n", PriceByNight: -5}.Validate()))
	assert.Equal(t, "Invalid latitude", fieldErr(t, PlaceCreate{UserID: "u", Name: "n", Latitude: &lat}.Validate()))
	assert.NoError(t, PlaceCreate{UserID: "u", Name: "n"}.Validate())
}

func TestPlaceUpdate_Apply(t *testing.T) {
	name, rooms, lon := "New", 3, 12.5
	u := PlaceUpdate{Name: &name, NumberRooms: &rooms, Longitude: &lon}
	require.NoError(t, u.Validate())

	p := Place{ID: "p", UserID: "owner", Name: "Old", MaxGuest: 2}
	u.Apply(&p)
	assert.Equal(t, "New", p.Name)
	assert.Equal(t, 3, p.NumberRooms)
	assert.Equal(t, 2, p.MaxGuest)
	assert.Equal(t, "owner", p.UserID)
	require.NotNil(t, p.Longitude)
	assert.Equal(t, 12.5, *p.Longitude)

	lon = 0
	assert.Equal(t, 12.5, *p.Longitude, "Apply copies pointer values")

	empty := ""
	assert.Equal(t, "Invalid name", fieldErr(t, PlaceUpdate{Name: &empty}.Validate()))
}

func TestParsePlaceCreate(t *testing.T) {
	c, err := ParsePlaceCreate([]byte(` {"user_id": "U1", "name": "Loft", "max_guest": 3, "id": "ignored"} `))
	require.NoError(t, err)
	assert.Equal(t, "U1", c.UserID)
	assert.Equal(t, 3, c.MaxGuest)
	assert.NoError(t, c.ValidateOwner())
	assert.NoError(t, c.Validate())

	for _, body := range []string{``, `[]`, `null`, `{"user_id": }`} {
		_, err := ParsePlaceCreate([]byte(body))
		assert.True(t, errors.Is(err, ErrInvalidRequest), "body %q: %v", body, err)
	}
}

func TestParsePlaceCreate_OwnerNotAString(t *testing.T) {
	for _, body := range []string{`{"user_id": 5}`, `{"user_id": null}`, `{"user_id": ["U1"]}`, `{"name": 1, "user_id": {}}`} {
		c, err := ParsePlaceCreate([]byte(body))
		require.NoError(t, err, body)
		assert.True(t, errors.Is(c.ValidateOwner(), ErrNotFound), body)
	}

	c, err := ParsePlaceCreate([]byte(`{"name": "x"}`))
	require.NoError(t, err)
	assert.Equal(t, "Missing user_id", fieldErr(t, c.ValidateOwner()))
}

func TestParsePlaceCreate_TypeErrorDeferred(t *testing.T) {
	c, err := ParsePlaceCreate([]byte(`{"user_id": "U1", "max_guest": "lots", "name": "x"}`))
	require.NoError(t, err)
	assert.NoError(t, c.ValidateOwner())
	assert.Equal(t, "x", c.Name)
	assert.Equal(t, "Invalid max_guest", fieldErr(t, c.Validate()))
}

package app

import (
	"strconv"
	"strings"
	"time"

	"hbnb_api/internal/domain"
)

// Upstream payloads are the JSON objects another HBnB API serves; the helpers
// below turn them into domain entities without trusting their exact types.

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns string at path or "".
func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// getFloatFlexible: number from several paths (float64/int/string like "8,0").
func getFloatFlexible(m map[string]any, paths ...string) *float64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			f := v
			return &f
		case int:
			f := float64(v)
			return &f
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

// intFlexible: int from a path (float64/int/string), 0 when absent.
func intFlexible(m map[string]any, path string) int {
	switch v := lookupAny(m, path).(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return 0
}

// timeFlexible accepts the API timestamp layout and RFC 3339.
func timeFlexible(m map[string]any, path string) time.Time {
	s := lookupStr(m, path)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{TimeFormat, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// stamps reads created_at/updated_at; a missing created_at becomes now and a
// missing updated_at copies created_at.
func stamps(m map[string]any) (time.Time, time.Time) {
	created := timeFlexible(m, "created_at")
	if created.IsZero() {
		created = time.Now().UTC()
	}
	updated := timeFlexible(m, "updated_at")
	if updated.IsZero() {
		updated = created
	}
	return created, updated
}

func mapState(m map[string]any) domain.State {
	created, updated := stamps(m)
	return domain.State{
		ID:        lookupStr(m, "id"),
		Name:      lookupStr(m, "name"),
		CreatedAt: created,
		UpdatedAt: updated,
	}
}

func mapCity(stateID string, m map[string]any) domain.City {
	created, updated := stamps(m)
	c := domain.City{
		ID:        lookupStr(m, "id"),
		StateID:   lookupStr(m, "state_id"),
		Name:      lookupStr(m, "name"),
		CreatedAt: created,
		UpdatedAt: updated,
	}
	if c.StateID == "" {
		c.StateID = stateID
	}
	return c
}

func mapAmenity(m map[string]any) domain.Amenity {
	created, updated := stamps(m)
	return domain.Amenity{
		ID:        lookupStr(m, "id"),
		Name:      lookupStr(m, "name"),
		CreatedAt: created,
		UpdatedAt: updated,
	}
}

// mapUser leaves Password empty; the upstream API never exposes it.
func mapUser(m map[string]any) domain.User {
	created, updated := stamps(m)
	return domain.User{
		ID:        lookupStr(m, "id"),
		Email:     lookupStr(m, "email"),
		FirstName: lookupStr(m, "first_name"),
		LastName:  lookupStr(m, "last_name"),
		CreatedAt: created,
		UpdatedAt: updated,
	}
}

func mapPlace(cityID string, m map[string]any) domain.Place {
	created, updated := stamps(m)
	p := domain.Place{
		ID:              lookupStr(m, "id"),
		CityID:          lookupStr(m, "city_id"),
		UserID:          lookupStr(m, "user_id"),
		Name:            lookupStr(m, "name"),
		Description:     lookupStr(m, "description"),
		NumberRooms:     intFlexible(m, "number_rooms"),
		NumberBathrooms: intFlexible(m, "number_bathrooms"),
		MaxGuest:        intFlexible(m, "max_guest"),
		PriceByNight:    intFlexible(m, "price_by_night"),
		Latitude:        getFloatFlexible(m, "latitude", "lat"),
		Longitude:       getFloatFlexible(m, "longitude", "lon", "lng"),
		CreatedAt:       created,
		UpdatedAt:       updated,
	}
	if p.CityID == "" {
		p.CityID = cityID
	}
	return p
}

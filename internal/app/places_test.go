package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"hbnb_api/internal/app"
	"hbnb_api/internal/domain"
	"hbnb_api/internal/storage/memory"
)

func TestGetPlace_CacheMissThenHit(t *testing.T) {
	st := seed(t)
	cache := &fakeCache{}
	svc := app.NewPlaceService(st, cache, 15*time.Minute)

	p, err := svc.GetPlace(context.Background(), "P1")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if p.Name != "Loft" {
		t.Fatalf("unexpected place: %+v", p)
	}
	if cache.sets != 1 {
		t.Fatalf("expected one cache fill, got %d", cache.sets)
	}

	// second call must be served from cache even when storage is gone
	if err := st.DeletePlace(context.Background(), "P1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	p2, err := svc.GetPlace(context.Background(), "P1")
	if err != nil {
		t.Fatalf("unexpected err on hit: %v", err)
	}
	if p2.ID != "P1" || cache.sets != 1 {
		t.Fatalf("expected cache hit, got %+v (sets=%d)", p2, cache.sets)
	}
}

func TestGetPlace_NilCache(t *testing.T) {
	svc := app.NewPlaceService(seed(t), nil, time.Minute)
	if _, err := svc.GetPlace(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreatePlace_CheckOrder(t *testing.T) {
	svc := app.NewPlaceService(seed(t), nil, time.Minute)
	ctx := context.Background()

	cases := []struct {
		name   string
		city   string
		in     domain.PlaceCreate
		notFnd bool
		msg    string
	}{
		{"unknown city wins over empty body", "nope", domain.PlaceCreate{}, true, ""},
		{"missing user_id", "C1", domain.PlaceCreate{Name: "x"}, false, "Missing user_id"},
		{"unknown user before name", "C1", domain.PlaceCreate{UserID: "ghost"}, true, ""},
		{"missing name", "C1", domain.PlaceCreate{UserID: "U1"}, false, "Missing name"},
		{"negative rooms", "C1", domain.PlaceCreate{UserID: "U1", Name: "x", NumberRooms: -1}, false, "Invalid number_rooms"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreatePlace(ctx, tc.city, tc.in)
			if tc.notFnd {
				if !errors.Is(err, domain.ErrNotFound) {
					t.Fatalf("expected ErrNotFound, got %v", err)
				}
				return
			}
			var fe *domain.FieldError
			if !errors.As(err, &fe) || fe.Error() != tc.msg {
				t.Fatalf("expected %q, got %v", tc.msg, err)
			}
		})
	}
}

func TestCreateUpdateDeletePlace(t *testing.T) {
	st := seed(t)
	cache := &fakeCache{}
	svc := app.NewPlaceService(st, cache, time.Minute)
	ctx := context.Background()

	p, err := svc.CreatePlace(ctx, "C2", domain.PlaceCreate{UserID: "U1", Name: "Barn", MaxGuest: 4})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID == "" || p.CityID != "C2" || p.CreatedAt.IsZero() {
		t.Fatalf("unexpected place: %+v", p)
	}
	got, _ := svc.CityPlaces(ctx, "C2")
	if len(got) != 2 {
		t.Fatalf("expected 2 places in C2, got %d", len(got))
	}

	name := "Big Barn"
	up, err := svc.UpdatePlace(ctx, p.ID, domain.PlaceUpdate{Name: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if up.Name != name || up.UserID != "U1" || up.MaxGuest != 4 {
		t.Fatalf("update touched the wrong fields: %+v", up)
	}
	if cache.dels == 0 {
		t.Fatalf("update must invalidate the cache")
	}

	if err := svc.DeletePlace(ctx, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.DeletePlace(ctx, p.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestLinkUnlinkAmenity(t *testing.T) {
	svc := app.NewPlaceService(seed(t), nil, time.Minute)
	ctx := context.Background()

	a, created, err := svc.LinkAmenity(ctx, "P2", "A2")
	if err != nil || !created || a.Name != "Pool" {
		t.Fatalf("first link: %+v created=%v err=%v", a, created, err)
	}
	if _, created, _ = svc.LinkAmenity(ctx, "P2", "A2"); created {
		t.Fatalf("second link must report existing")
	}
	if _, _, err := svc.LinkAmenity(ctx, "P2", "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown amenity: %v", err)
	}

	as, err := svc.PlaceAmenities(ctx, "P2")
	if err != nil || len(as) != 1 || as[0].ID != "A2" {
		t.Fatalf("amenities: %+v err=%v", as, err)
	}

	if err := svc.UnlinkAmenity(ctx, "P2", "A2"); err != nil {
		t.Fatalf("unlink: %v", err)
	}
	if err := svc.UnlinkAmenity(ctx, "P2", "A2"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unlink of unlinked amenity: %v", err)
	}
}

// unlinkOnRead drops a link right after the place is read, as a concurrent
// DELETE /places/{id}/amenities/{aid} would.
type unlinkOnRead struct {
	*memory.Store
	placeID, amenityID string
}

func (s *unlinkOnRead) GetPlace(ctx context.Context, id string) (domain.Place, error) {
	p, err := s.Store.GetPlace(ctx, id)
	if err == nil && id == s.placeID {
		_ = s.Store.UnlinkAmenity(ctx, s.placeID, s.amenityID)
	}
	return p, err
}

func TestUpdatePlace_KeepsConcurrentUnlink(t *testing.T) {
	st := seed(t)
	svc := app.NewPlaceService(&unlinkOnRead{Store: st, placeID: "P1", amenityID: "A1"}, nil, time.Minute)
	ctx := context.Background()

	name := "Renamed"
	if _, err := svc.UpdatePlace(ctx, "P1", domain.PlaceUpdate{Name: &name}); err != nil {
		t.Fatalf("update: %v", err)
	}
	p, err := st.GetPlace(ctx, "P1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.Name != name {
		t.Fatalf("name not updated: %+v", p)
	}
	if len(p.AmenityIDs) != 0 {
		t.Fatalf("update re-added links: %v", p.AmenityIDs)
	}
}

package app

import (
	"context"
	"errors"
	"fmt"

	"hbnb_api/internal/domain"
)

// Search modes, reported to metrics.
const (
	ModeFull     = "full"     // no state/city filter: every place
	ModeFiltered = "filtered" // base set from states/cities
	ModeFallback = "fallback" // amenity filter over a full scan because the base set was empty
)

// Search resolves a places_search request against g.
//
// States expand to every place of every owned city, without dedup; cities add
// their places only when the id is not already collected. A non-empty amenity
// list keeps places linked to all of the ids, scanning every place when the
// state/city pass produced nothing. Unknown ids contribute nothing.
func Search(ctx context.Context, g domain.PlaceGraph, req domain.SearchRequest) ([]domain.Place, string, error) {
	if len(req.States) == 0 && len(req.Cities) == 0 {
		all, err := g.AllPlaces(ctx)
		if err != nil {
			return nil, "", fmt.Errorf("all places: %w", err)
		}
		if len(req.Amenities) == 0 {
			return all, ModeFull, nil
		}
		return filterAmenities(all, req.Amenities), ModeFull, nil
	}

	var places []domain.Place
	for _, id := range req.States {
		st, err := g.GetState(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, "", fmt.Errorf("state %s: %w", id, err)
		}
		cities, err := g.CitiesOf(ctx, st.ID)
		if err != nil {
			return nil, "", fmt.Errorf("cities of state %s: %w", st.ID, err)
		}
		for _, c := range cities {
			ps, err := g.PlacesOf(ctx, c.ID)
			if err != nil {
				return nil, "", fmt.Errorf("places of city %s: %w", c.ID, err)
			}
			places = append(places, ps...)
		}
	}

	seen := make(map[string]struct{}, len(places))
	for _, p := range places {
		seen[p.ID] = struct{}{}
	}
	for _, id := range req.Cities {
		c, err := g.GetCity(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, "", fmt.Errorf("city %s: %w", id, err)
		}
		ps, err := g.PlacesOf(ctx, c.ID)
		if err != nil {
			return nil, "", fmt.Errorf("places of city %s: %w", c.ID, err)
		}
		for _, p := range ps {
			if _, dup := seen[p.ID]; dup {
				continue
			}
			seen[p.ID] = struct{}{}
			places = append(places, p)
		}
	}

	if len(req.Amenities) == 0 {
		return places, ModeFiltered, nil
	}
	mode := ModeFiltered
	if len(places) == 0 {
		all, err := g.AllPlaces(ctx)
		if err != nil {
			return nil, "", fmt.Errorf("all places: %w", err)
		}
		places, mode = all, ModeFallback
	}
	return filterAmenities(places, req.Amenities), mode, nil
}

func filterAmenities(places []domain.Place, ids []string) []domain.Place {
	out := make([]domain.Place, 0, len(places))
	for _, p := range places {
		if p.HasAmenities(ids) {
			out = append(out, p)
		}
	}
	return out
}

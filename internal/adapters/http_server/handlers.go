// internal/adapters/http_server/handlers.go
package httpserver

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hbnb_api/internal/adapters/observability"
	"hbnb_api/internal/app"
	"hbnb_api/internal/domain"
)

const maxBody = 1 << 20

type Handlers struct {
	P *app.PlaceService
	C *app.CatalogService
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", h.status)
		r.Get("/stats", h.stats)

		r.Get("/states", h.listStates)
		r.Get("/states/{state_id}", h.getState)
		r.Get("/states/{state_id}/cities", h.stateCities)
		r.Get("/cities/{city_id}", h.getCity)
		r.Get("/cities/{city_id}/places", h.cityPlaces)
		r.Post("/cities/{city_id}/places", h.createPlace)
		r.Get("/amenities", h.listAmenities)
		r.Get("/amenities/{amenity_id}", h.getAmenity)
		r.Get("/users/{user_id}", h.getUser)

		r.Get("/places/{place_id}", h.getPlace)
		r.Put("/places/{place_id}", h.updatePlace)
		r.Delete("/places/{place_id}", h.deletePlace)
		r.Get("/places/{place_id}/amenities", h.placeAmenities)
		r.Post("/places/{place_id}/amenities/{amenity_id}", h.linkAmenity)
		r.Delete("/places/{place_id}/amenities/{amenity_id}", h.unlinkAmenity)

		r.Post("/places_search", h.placesSearch)
	})
}

// ---- response helpers ----

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// fail maps service errors onto the API's error bodies.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	var fe *domain.FieldError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, domain.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, "Not a JSON")
	case errors.As(err, &fe):
		writeError(w, http.StatusBadRequest, fe.Error())
	default:
		log.Error().Err(err).
			Str("request_id", requestID(r)).
			Str("path", r.URL.Path).
			Msg("request failed")
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

// decodeObject reads a JSON object body into dst. A body that is not an
// object is ErrInvalidRequest; a member of the wrong type is a FieldError.
func decodeObject(w http.ResponseWriter, r *http.Request, dst any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		return domain.ErrInvalidRequest
	}
	if err := json.Unmarshal(body, dst); err != nil {
		var ute *json.UnmarshalTypeError
		if errors.As(err, &ute) && ute.Field != "" {
			return &domain.FieldError{Field: ute.Field, Tag: "type"}
		}
		return fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}
	return nil
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// ---- index ----

func (h *Handlers) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

func (h *Handlers) stats(w http.ResponseWriter, r *http.Request) {
	out, err := h.C.Stats(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// ---- states, cities, amenities, users ----

func (h *Handlers) listStates(w http.ResponseWriter, r *http.Request) {
	out, err := h.C.States(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, app.StateViews(out))
}

func (h *Handlers) getState(w http.ResponseWriter, r *http.Request) {
	st, err := h.C.State(r.Context(), chi.URLParam(r, "state_id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, app.NewStateView(st))
}

func (h *Handlers) stateCities(w http.ResponseWriter, r *http.Request) {
	out, err := h.C.StateCities(r.Context(), chi.URLParam(r, "state_id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, app.CityViews(out))
}

func (h *Handlers) getCity(w http.ResponseWriter, r *http.Request) {
	c, err := h.C.City(r.Context(), chi.URLParam(r, "city_id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, app.NewCityView(c))
}

func (h *Handlers) listAmenities(w http.ResponseWriter, r *http.Request) {
	out, err := h.C.Amenities(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, app.AmenityViews(out))
}

func (h *Handlers) getAmenity(w http.ResponseWriter, r *http.Request) {
	a, err := h.C.Amenity(r.Context(), chi.URLParam(r, "amenity_id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, app.NewAmenityView(a))
}

func (h *Handlers) getUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.C.User(r.Context(), chi.URLParam(r, "user_id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, app.NewUserView(u))
}

// ---- places ----

func (h *Handlers) cityPlaces(w http.ResponseWriter, r *http.Request) {
	out, err := h.P.CityPlaces(r.Context(), chi.URLParam(r, "city_id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, app.PlaceViews(out))
}

func (h *Handlers) getPlace(w http.ResponseWriter, r *http.Request) {
	p, err := h.P.GetPlace(r.Context(), chi.URLParam(r, "place_id"))
	if err != nil {
		fail(w, r, err)
		return
	}

	etag, body := calcETagAndBody(app.NewPlaceView(p))
	// If client already has this version, short-circuit.
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write getPlace body")
	}
}

func (h *Handlers) createPlace(w http.ResponseWriter, r *http.Request) {
	cityID := chi.URLParam(r, "city_id")
	// the city is checked before the body is looked at
	if _, err := h.C.City(r.Context(), cityID); err != nil {
		fail(w, r, err)
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		fail(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err))
		return
	}
	in, err := domain.ParsePlaceCreate(body)
	if err != nil {
		fail(w, r, err)
		return
	}
	p, err := h.P.CreatePlace(r.Context(), cityID, in)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, app.NewPlaceView(p))
}

func (h *Handlers) updatePlace(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "place_id")
	if _, err := h.P.GetPlace(r.Context(), id); err != nil {
		fail(w, r, err)
		return
	}
	var u domain.PlaceUpdate
	if err := decodeObject(w, r, &u); err != nil {
		fail(w, r, err)
		return
	}
	p, err := h.P.UpdatePlace(r.Context(), id, u)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, app.NewPlaceView(p))
}

func (h *Handlers) deletePlace(w http.ResponseWriter, r *http.Request) {
	if err := h.P.DeletePlace(r.Context(), chi.URLParam(r, "place_id")); err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

func (h *Handlers) placeAmenities(w http.ResponseWriter, r *http.Request) {
	out, err := h.P.PlaceAmenities(r.Context(), chi.URLParam(r, "place_id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, app.AmenityViews(out))
}

func (h *Handlers) linkAmenity(w http.ResponseWriter, r *http.Request) {
	a, created, err := h.P.LinkAmenity(r.Context(), chi.URLParam(r, "place_id"), chi.URLParam(r, "amenity_id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, app.NewAmenityView(a))
}

func (h *Handlers) unlinkAmenity(w http.ResponseWriter, r *http.Request) {
	if err := h.P.UnlinkAmenity(r.Context(), chi.URLParam(r, "place_id"), chi.URLParam(r, "amenity_id")); err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

// placesSearch serves POST /places_search; see app.Search for the rules.
func (h *Handlers) placesSearch(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		fail(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err))
		return
	}
	req, err := domain.ParseSearchRequest(body)
	if err != nil {
		fail(w, r, err)
		return
	}
	places, mode, err := h.P.Search(r.Context(), req)
	if err != nil {
		fail(w, r, err)
		return
	}
	observability.ObserveSearch(mode, len(places))
	writeJSON(w, http.StatusOK, app.PlaceViews(places))
}

package memory

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"hbnb_api/internal/domain"
)

const timeLayout = "2006-01-02T15:04:05.000000"

// record is one snapshot value; unused members stay empty per class.
type record struct {
	Class     string `json:"__class__"`
	ID        string `json:"id"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`

	Name    string `json:"name,omitempty"`
	StateID string `json:"state_id,omitempty"`

	CityID          string   `json:"city_id,omitempty"`
	UserID          string   `json:"user_id,omitempty"`
	Description     string   `json:"description,omitempty"`
	NumberRooms     int      `json:"number_rooms,omitempty"`
	NumberBathrooms int      `json:"number_bathrooms,omitempty"`
	MaxGuest        int      `json:"max_guest,omitempty"`
	PriceByNight    int      `json:"price_by_night,omitempty"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
	AmenityIDs      []string `json:"amenity_ids,omitempty"`

	Email     string `json:"email,omitempty"`
	Password  string `json:"password,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

func before(ta time.Time, ida string, tb time.Time, idb string) bool {
	if !ta.Equal(tb) {
		return ta.Before(tb)
	}
	return ida < idb
}

func fmtTime(t time.Time) string { return t.UTC().Format(timeLayout) }

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(timeLayout, s)
}

// Save writes the snapshot to the store's path; a store without a path is a no-op.
func (s *Store) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.persistLocked()
}

// persistLocked must be called with s.mu held (read or write).
func (s *Store) persistLocked() error {
	if s.path == "" {
		return nil
	}
	snap := make(map[string]record, len(s.states)+len(s.cities)+len(s.places)+len(s.amenities)+len(s.users))
	for id, st := range s.states {
		snap["State."+id] = record{Class: "State", ID: id, Name: st.Name,
			CreatedAt: fmtTime(st.CreatedAt), UpdatedAt: fmtTime(st.UpdatedAt)}
	}
	for id, c := range s.cities {
		snap["City."+id] = record{Class: "City", ID: id, Name: c.Name, StateID: c.StateID,
			CreatedAt: fmtTime(c.CreatedAt), UpdatedAt: fmtTime(c.UpdatedAt)}
	}
	for id, a := range s.amenities {
		snap["Amenity."+id] = record{Class: "Amenity", ID: id, Name: a.Name,
			CreatedAt: fmtTime(a.CreatedAt), UpdatedAt: fmtTime(a.UpdatedAt)}
	}
	for id, u := range s.users {
		snap["User."+id] = record{Class: "User", ID: id, Email: u.Email, Password: u.Password,
			FirstName: u.FirstName, LastName: u.LastName,
			CreatedAt: fmtTime(u.CreatedAt), UpdatedAt: fmtTime(u.UpdatedAt)}
	}
	for id, p := range s.places {
		snap["Place."+id] = record{Class: "Place", ID: id, Name: p.Name, CityID: p.CityID, UserID: p.UserID,
			Description: p.Description, NumberRooms: p.NumberRooms, NumberBathrooms: p.NumberBathrooms,
			MaxGuest: p.MaxGuest, PriceByNight: p.PriceByNight, Latitude: p.Latitude, Longitude: p.Longitude,
			AmenityIDs: p.AmenityIDs, CreatedAt: fmtTime(p.CreatedAt), UpdatedAt: fmtTime(p.UpdatedAt)}
	}

	b, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	// write-then-rename so readers never see a half-written file
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

// Reload replaces the in-memory state with the snapshot at the store's path.
// A missing file leaves the store empty.
func (s *Store) Reload() error {
	if s.path == "" {
		return nil
	}
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}
	var snap map[string]record
	if err := json.Unmarshal(b, &snap); err != nil {
		return fmt.Errorf("decode snapshot %s: %w", s.path, err)
	}

	fresh := New()
	for key, r := range snap {
		created, err := parseTime(r.CreatedAt)
		if err != nil {
			return fmt.Errorf("%s created_at: %w", key, err)
		}
		updated, err := parseTime(r.UpdatedAt)
		if err != nil {
			return fmt.Errorf("%s updated_at: %w", key, err)
		}
		class := r.Class
		if class == "" {
			class, _, _ = strings.Cut(key, ".")
		}
		switch class {
		case "State":
			fresh.states[r.ID] = domain.State{ID: r.ID, Name: r.Name, CreatedAt: created, UpdatedAt: updated}
		case "City":
			fresh.cities[r.ID] = domain.City{ID: r.ID, StateID: r.StateID, Name: r.Name,
				CreatedAt: created, UpdatedAt: updated}
		case "Amenity":
			fresh.amenities[r.ID] = domain.Amenity{ID: r.ID, Name: r.Name, CreatedAt: created, UpdatedAt: updated}
		case "User":
			fresh.users[r.ID] = domain.User{ID: r.ID, Email: r.Email, Password: r.Password,
				FirstName: r.FirstName, LastName: r.LastName, CreatedAt: created, UpdatedAt: updated}
		case "Place":
			fresh.places[r.ID] = domain.Place{ID: r.ID, CityID: r.CityID, UserID: r.UserID, Name: r.Name,
				Description: r.Description, NumberRooms: r.NumberRooms, NumberBathrooms: r.NumberBathrooms,
				MaxGuest: r.MaxGuest, PriceByNight: r.PriceByNight, Latitude: r.Latitude, Longitude: r.Longitude,
				AmenityIDs: r.AmenityIDs, CreatedAt: created, UpdatedAt: updated}
		}
	}

	s.mu.Lock()
	s.states, s.cities, s.places, s.amenities, s.users = fresh.states, fresh.cities, fresh.places, fresh.amenities, fresh.users
	s.mu.Unlock()
	return nil
}

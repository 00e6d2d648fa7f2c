package app

import (
	"time"

	"hbnb_api/internal/domain"
)

// TimeFormat is the timestamp layout of every serialized entity.
const TimeFormat = "2006-01-02T15:04:05.000000"

// PlaceView is the public representation of a place. Amenity links are never
// part of it, even when a search filtered on them.
type PlaceView struct {
	Class           string   `json:"__class__"`
	ID              string   `json:"id"`
	CityID          string   `json:"city_id"`
	UserID          string   `json:"user_id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	NumberRooms     int      `json:"number_rooms"`
	NumberBathrooms int      `json:"number_bathrooms"`
	MaxGuest        int      `json:"max_guest"`
	PriceByNight    int      `json:"price_by_night"`
	Latitude        *float64 `json:"latitude"`
	Longitude       *float64 `json:"longitude"`
	CreatedAt       string   `json:"created_at"`
	UpdatedAt       string   `json:"updated_at"`
}

type StateView struct {
	Class     string `json:"__class__"`
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type CityView struct {
	Class     string `json:"__class__"`
	ID        string `json:"id"`
	StateID   string `json:"state_id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type AmenityView struct {
	Class     string `json:"__class__"`
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// UserView drops the password.
type UserView struct {
	Class     string `json:"__class__"`
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func fmtTime(t time.Time) string { return t.UTC().Format(TimeFormat) }

func NewPlaceView(p domain.Place) PlaceView {
	return PlaceView{
		Class:           string(domain.KindPlace),
		ID:              p.ID,
		CityID:          p.CityID,
		UserID:          p.UserID,
		Name:            p.Name,
		Description:     p.Description,
		NumberRooms:     p.NumberRooms,
		NumberBathrooms: p.NumberBathrooms,
		MaxGuest:        p.MaxGuest,
		PriceByNight:    p.PriceByNight,
		Latitude:        p.Latitude,
		Longitude:       p.Longitude,
		CreatedAt:       fmtTime(p.CreatedAt),
		UpdatedAt:       fmtTime(p.UpdatedAt),
	}
}

// PlaceViews never returns nil so an empty result encodes as [].
func PlaceViews(ps []domain.Place) []PlaceView {
	out := make([]PlaceView, 0, len(ps))
	for _, p := range ps {
		out = append(out, NewPlaceView(p))
	}
	return out
}

func NewStateView(s domain.State) StateView {
	return StateView{Class: string(domain.KindState), ID: s.ID, Name: s.Name,
		CreatedAt: fmtTime(s.CreatedAt), UpdatedAt: fmtTime(s.UpdatedAt)}
}

func StateViews(ss []domain.State) []StateView {
	out := make([]StateView, 0, len(ss))
	for _, s := range ss {
		out = append(out, NewStateView(s))
	}
	return out
}

func NewCityView(c domain.City) CityView {
	return CityView{Class: string(domain.KindCity), ID: c.ID, StateID: c.StateID, Name: c.Name,
		CreatedAt: fmtTime(c.CreatedAt), UpdatedAt: fmtTime(c.UpdatedAt)}
}

func CityViews(cs []domain.City) []CityView {
	out := make([]CityView, 0, len(cs))
	for _, c := range cs {
		out = append(out, NewCityView(c))
	}
	return out
}

func NewAmenityView(a domain.Amenity) AmenityView {
	return AmenityView{Class: string(domain.KindAmenity), ID: a.ID, Name: a.Name,
		CreatedAt: fmtTime(a.CreatedAt), UpdatedAt: fmtTime(a.UpdatedAt)}
}

func AmenityViews(as []domain.Amenity) []AmenityView {
	out := make([]AmenityView, 0, len(as))
	for _, a := range as {
		out = append(out, NewAmenityView(a))
	}
	return out
}

func NewUserView(u domain.User) UserView {
	return UserView{Class: string(domain.KindUser), ID: u.ID, Email: u.Email,
		FirstName: u.FirstName, LastName: u.LastName,
		CreatedAt: fmtTime(u.CreatedAt), UpdatedAt: fmtTime(u.UpdatedAt)}
}

package domain

import "time"

// Kind names an entity table; used by Count and the stats endpoint.
type Kind string

const (
	KindAmenity Kind = "Amenity"
	KindCity    Kind = "City"
	KindPlace   Kind = "Place"
	KindState   Kind = "State"
	KindUser    Kind = "User"
)

// Kinds lists every countable kind in stats order.
var Kinds = []Kind{KindAmenity, KindCity, KindPlace, KindState, KindUser}

type State struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type City struct {
	ID        string
	StateID   string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Amenity struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type User struct {
	ID        string
	Email     string
	Password  string // never serialized by the API
	FirstName string
	LastName  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Place struct {
	ID              string
	CityID          string
	UserID          string
	Name            string
	Description     string
	NumberRooms     int
	NumberBathrooms int
	MaxGuest        int
	PriceByNight    int
	Latitude        *float64
	Longitude       *float64
	AmenityIDs      []string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasAmenities reports whether every id in ids is linked to the place.
func (p Place) HasAmenities(ids []string) bool {
	if len(ids) == 0 {
		return true
	}
	linked := make(map[string]struct{}, len(p.AmenityIDs))
	for _, id := range p.AmenityIDs {
		linked[id] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := linked[id]; !ok {
			return false
		}
	}
	return true
}

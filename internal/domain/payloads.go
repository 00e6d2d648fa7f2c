package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// PlaceCreate is the body of POST /cities/{city_id}/places.
type PlaceCreate struct {
	UserID          string   `json:"user_id" validate:"required"`
	Name            string   `json:"name" validate:"required"`
	Description     string   `json:"description"`
	NumberRooms     int      `json:"number_rooms" validate:"gte=0"`
	NumberBathrooms int      `json:"number_bathrooms" validate:"gte=0"`
	MaxGuest        int      `json:"max_guest" validate:"gte=0"`
	PriceByNight    int      `json:"price_by_night" validate:"gte=0"`
	Latitude        *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude       *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`

	badOwner bool        // user_id present but not a string
	typeErr  *FieldError // first mistyped field other than user_id
}

// ParsePlaceCreate decodes a create body. Only a body that is not a JSON
// object fails here; a mistyped field is reported later by Validate so the
// owner lookup still runs first.
func ParsePlaceCreate(body []byte) (PlaceCreate, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		return PlaceCreate{}, ErrInvalidRequest
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return PlaceCreate{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	var c PlaceCreate
	if owner, ok := raw["user_id"]; ok {
		owner = bytes.TrimSpace(owner)
		c.badOwner = len(owner) == 0 || owner[0] != '"'
	}
	if err := json.Unmarshal(body, &c); err != nil {
		var ute *json.UnmarshalTypeError
		if !errors.As(err, &ute) || ute.Field == "" {
			return PlaceCreate{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		if ute.Field != "user_id" {
			c.typeErr = &FieldError{Field: ute.Field, Tag: "type"}
		}
	}
	return c, nil
}

// PlaceUpdate is the allow-list of fields PUT /places/{place_id} may change.
// Keys outside it (id, user_id, city_id, timestamps, anything unknown) are ignored.
type PlaceUpdate struct {
	Name            *string  `json:"name" validate:"omitnil,min=1"`
	Description     *string  `json:"description"`
	NumberRooms     *int     `json:"number_rooms" validate:"omitnil,gte=0"`
	NumberBathrooms *int     `json:"number_bathrooms" validate:"omitnil,gte=0"`
	MaxGuest        *int     `json:"max_guest" validate:"omitnil,gte=0"`
	PriceByNight    *int     `json:"price_by_night" validate:"omitnil,gte=0"`
	Latitude        *float64 `json:"latitude" validate:"omitnil,gte=-90,lte=90"`
	Longitude       *float64 `json:"longitude" validate:"omitnil,gte=-180,lte=180"`
}

// Apply copies every set field onto p.
func (u PlaceUpdate) Apply(p *Place) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.NumberRooms != nil {
		p.NumberRooms = *u.NumberRooms
	}
	if u.NumberBathrooms != nil {
		p.NumberBathrooms = *u.NumberBathrooms
	}
	if u.MaxGuest != nil {
		p.MaxGuest = *u.MaxGuest
	}
	if u.PriceByNight != nil {
		p.PriceByNight = *u.PriceByNight
	}
	if u.Latitude != nil {
		lat := *u.Latitude
		p.Latitude = &lat
	}
	if u.Longitude != nil {
		lon := *u.Longitude
		p.Longitude = &lon
	}
}

// FieldError names the first payload field that failed validation.
type FieldError struct {
	Field string // json name
	Tag   string // failing validator tag
}

func (e *FieldError) Error() string {
	if e.Tag == "required" {
		return "Missing " + e.Field
	}
	return "Invalid " + e.Field
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// ValidateOwner checks user_id alone; the owner lookup happens before the
// remaining fields are looked at.
func (c PlaceCreate) ValidateOwner() error {
	if c.badOwner {
		// no user can have a non-string id
		return fmt.Errorf("%w: user_id is not a string", ErrNotFound)
	}
	if err := validate.Var(c.UserID, "required"); err != nil {
		return &FieldError{Field: "user_id", Tag: "required"}
	}
	return nil
}

func (c PlaceCreate) Validate() error {
	if c.typeErr != nil {
		return c.typeErr
	}
	return firstFieldError(validate.Struct(c))
}

func (u PlaceUpdate) Validate() error { return firstFieldError(validate.Struct(u)) }

func firstFieldError(err error) error {
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		return &FieldError{Field: ve[0].Field(), Tag: ve[0].Tag()}
	}
	return err
}

package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SearchRequest carries the three optional id filters of POST /places_search.
// Absent and null members decode to nil.
type SearchRequest struct {
	States    []string
	Cities    []string
	Amenities []string
}

// ParseSearchRequest decodes a search body. Only a body that is not a JSON
// object yields ErrInvalidRequest; malformed filter members degrade to ids
// that resolve to nothing.
func ParseSearchRequest(body []byte) (SearchRequest, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		return SearchRequest{}, ErrInvalidRequest
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return SearchRequest{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return SearchRequest{
		States:    idList(raw["states"]),
		Cities:    idList(raw["cities"]),
		Amenities: idList(raw["amenities"]),
	}, nil
}

// idList returns nil for an absent or null member. Elements that are not
// strings become "", which never names an entity; a member that is not an
// array counts as one such element.
func idList(v json.RawMessage) []string {
	v = bytes.TrimSpace(v)
	if len(v) == 0 || bytes.Equal(v, []byte("null")) {
		return nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(v, &elems); err != nil {
		return []string{""}
	}
	ids := make([]string, 0, len(elems))
	for _, e := range elems {
		var id string
		if err := json.Unmarshal(e, &id); err != nil {
			id = ""
		}
		ids = append(ids, id)
	}
	return ids
}

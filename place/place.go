// Package place canonicalizes heterogeneous place records into the
// normalized form the planner works with.
package place

import (
	"fmt"

	"github.com/luowanxu/Level-4-Project/geo"
)

// Place is a raw place record as received from upstream search. Records
// keep their original shape so schedules can echo them back unchanged.
type Place map[string]interface{}

// Name returns the display name, accepting both the flat "name" field and
// the nested "displayName.text" layout.
func (p Place) Name() string {
	if s, ok := p["name"].(string); ok {
		return s
	}
	if dn, ok := p["displayName"].(map[string]interface{}); ok {
		if s, ok := dn["text"].(string); ok {
			return s
		}
	}
	return ""
}

// ID returns the stable identifier, falling back to the given default when
// the record carries none.
func (p Place) ID(fallback string) string {
	if s, ok := p["place_id"].(string); ok && s != "" {
		return s
	}
	if s, ok := p["id"].(string); ok && s != "" {
		return s
	}
	return fallback
}

// Types returns the category tags of the record.
func (p Place) Types() []string {
	switch raw := p["types"].(type) {
	case []string:
		return raw
	case []interface{}:
		out := make([]string, 0, len(raw))
		for _, v := range raw {
			if s, ok := v.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// HasType reports whether the record carries the given category tag.
func (p Place) HasType(tag string) bool {
	for _, t := range p.Types() {
		if t == tag {
			return true
		}
	}
	return false
}

// Rating returns the aggregate rating, or zero when absent.
func (p Place) Rating() float64 {
	if f, ok := toFloat(p["rating"]); ok {
		return f
	}
	return 0
}

// PriceLevel returns the price band, defaulting to mid-range.
func (p Place) PriceLevel() int {
	if f, ok := toFloat(p["price_level"]); ok {
		return int(f)
	}
	return 2
}

// Location extracts the coordinates, accepting both the nested
// geometry.location and the flat location layouts, with lat/lng or
// latitude/longitude keys. The error names the missing field path.
func (p Place) Location() (geo.Point, error) {
	if g, ok := p["geometry"].(map[string]interface{}); ok {
		loc, ok := g["location"].(map[string]interface{})
		if !ok {
			return geo.Point{}, fmt.Errorf("missing field geometry.location")
		}
		return pointFrom(loc, "geometry.location")
	}
	if loc, ok := p["location"].(map[string]interface{}); ok {
		return pointFrom(loc, "location")
	}
	return geo.Point{}, fmt.Errorf("missing field geometry.location or location")
}

func pointFrom(loc map[string]interface{}, path string) (geo.Point, error) {
	lat, ok := toFloat(loc["lat"])
	if !ok {
		lat, ok = toFloat(loc["latitude"])
	}
	if !ok {
		return geo.Point{}, fmt.Errorf("missing field %s.lat", path)
	}
	lng, ok := toFloat(loc["lng"])
	if !ok {
		lng, ok = toFloat(loc["longitude"])
	}
	if !ok {
		return geo.Point{}, fmt.Errorf("missing field %s.lng", path)
	}
	return geo.Point{Lat: lat, Lng: lng}, nil
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

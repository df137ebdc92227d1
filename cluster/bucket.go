// Package cluster partitions a trip's places into per-day buckets by
// geographic proximity, balancing day loads and guaranteeing each day a
// lunch and a dinner option.
package cluster

import (
	"github.com/luowanxu/Level-4-Project/geo"
	"github.com/luowanxu/Level-4-Project/place"
)

// DayBucket is the set of places assigned to one day, before ordering.
type DayBucket []*place.NormalizedPlace

// Restaurants returns the bucket's dining entries, real and virtual.
func (b DayBucket) Restaurants() []*place.NormalizedPlace {
	var out []*place.NormalizedPlace
	for _, p := range b {
		if p.IsRestaurant() {
			out = append(out, p)
		}
	}
	return out
}

// Attractions returns the bucket's non-restaurant entries.
func (b DayBucket) Attractions() []*place.NormalizedPlace {
	var out []*place.NormalizedPlace
	for _, p := range b {
		if !p.IsRestaurant() {
			out = append(out, p)
		}
	}
	return out
}

// AllVirtual reports whether the bucket holds nothing but synthesized meal
// slots. Empty buckets count as all-virtual.
func (b DayBucket) AllVirtual() bool {
	for _, p := range b {
		if !p.IsVirtual() {
			return false
		}
	}
	return true
}

// Centroid returns the mean coordinate of the bucket's members, or the
// zero point for an empty bucket.
func (b DayBucket) Centroid() geo.Point {
	pts := make([]geo.Point, len(b))
	for i, p := range b {
		pts[i] = p.Location
	}
	return geo.Centroid(pts)
}

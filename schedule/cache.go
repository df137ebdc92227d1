package schedule

import (
	"fmt"
	"strings"

	"github.com/maypok86/otter/v2"

	"github.com/luowanxu/Level-4-Project/geo"
	"github.com/luowanxu/Level-4-Project/place"
	"github.com/luowanxu/Level-4-Project/trip"
)

// matrixCache memoizes pairwise distance and travel-time matrices. Keys are
// the coordinate list plus the transport mode, so a key fully determines
// its matrix and entries never need invalidation.
type matrixCache struct {
	cache *otter.Cache[string, *geo.Matrix]
}

// newMatrixCache builds a cache bounded to size entries. Zero or negative
// disables caching and every lookup computes a fresh matrix.
func newMatrixCache(size int) *matrixCache {
	mc := &matrixCache{}
	if size > 0 {
		mc.cache = otter.Must(&otter.Options[string, *geo.Matrix]{
			MaximumSize:     size,
			InitialCapacity: size / 4,
		})
	}
	return mc
}

// matrixFor returns the matrix covering the lodging anchor at row 0
// followed by places in order.
func (mc *matrixCache) matrixFor(lodging *place.NormalizedPlace, places []*place.NormalizedPlace, mode trip.TransportMode) *geo.Matrix {
	pts := make([]geo.Point, 0, len(places)+1)
	pts = append(pts, lodging.Location)
	for _, p := range places {
		pts = append(pts, p.Location)
	}
	if mc.cache == nil {
		return geo.BuildMatrices(pts, mode)
	}

	key := matrixKey(pts, mode)
	if m, ok := mc.cache.GetIfPresent(key); ok {
		return m
	}
	m := geo.BuildMatrices(pts, mode)
	mc.cache.Set(key, m)
	return m
}

// size reports how many matrices the cache currently holds.
func (mc *matrixCache) size() int {
	if mc.cache == nil {
		return 0
	}
	return mc.cache.EstimatedSize()
}

func matrixKey(pts []geo.Point, mode trip.TransportMode) string {
	var sb strings.Builder
	for i, pt := range pts {
		if i > 0 {
			sb.WriteByte('|')
		}
		fmt.Fprintf(&sb, "%.7f,%.7f", pt.Lat, pt.Lng)
	}
	sb.WriteByte('#')
	sb.WriteString(string(mode))
	return sb.String()
}

// Package geo implements the great-circle distance and travel-time model
// used throughout the planner.
package geo

import (
	"math"

	"github.com/luowanxu/Level-4-Project/trip"
)

// Point is a WGS84 coordinate pair in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// EarthRadiusMeters is the mean Earth radius used by the haversine formula.
const EarthRadiusMeters = 6371000.0

// Haversine returns the great-circle distance between a and b in metres.
func Haversine(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return EarthRadiusMeters * 2 * math.Asin(math.Sqrt(h))
}

// modeParams holds the per-mode travel model: base speed, a detour factor
// converting straight-line to street distance, and the minimum leg time.
type modeParams struct {
	speedKmh float64
	factor   float64
	minTime  int
}

// MaxTravelMinutes caps every estimated leg at two hours.
const MaxTravelMinutes = 120

var transportParams = map[trip.TransportMode]modeParams{
	trip.ModeWalking: {speedKmh: 4.5, factor: 1.4, minTime: 5},
	trip.ModeTransit: {speedKmh: 20, factor: 1.3, minTime: 10},
	trip.ModeDriving: {speedKmh: 30, factor: 1.2, minTime: 5},
}

// TravelTime estimates door-to-door minutes for a straight-line distance in
// metres. Results are clamped to the mode's minimum and the two-hour cap.
// Unknown modes use walking parameters.
func TravelTime(meters float64, mode trip.TransportMode) int {
	params, ok := transportParams[mode]
	if !ok {
		params = transportParams[trip.ModeWalking]
	}
	minutes := meters / 1000 * params.factor / params.speedKmh * 60
	if minutes < float64(params.minTime) {
		minutes = float64(params.minTime)
	}
	if minutes > MaxTravelMinutes {
		minutes = MaxTravelMinutes
	}
	return int(math.Round(minutes))
}

// Matrix holds symmetric pairwise distances (metres) and travel times
// (minutes) with zero diagonals.
type Matrix struct {
	Dist [][]float64
	Time [][]int
}

// BuildMatrices computes the pairwise matrices over points for one mode.
func BuildMatrices(points []Point, mode trip.TransportMode) *Matrix {
	n := len(points)
	m := &Matrix{Dist: make([][]float64, n), Time: make([][]int, n)}
	for i := range m.Dist {
		m.Dist[i] = make([]float64, n)
		m.Time[i] = make([]int, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := Haversine(points[i], points[j])
			t := TravelTime(d, mode)
			m.Dist[i][j], m.Dist[j][i] = d, d
			m.Time[i][j], m.Time[j][i] = t, t
		}
	}
	return m
}

// Centroid returns the arithmetic mean of the given coordinates, or the
// zero point for an empty slice.
func Centroid(points []Point) Point {
	if len(points) == 0 {
		return Point{}
	}
	var lat, lng float64
	for _, p := range points {
		lat += p.Lat
		lng += p.Lng
	}
	n := float64(len(points))
	return Point{Lat: lat / n, Lng: lng / n}
}

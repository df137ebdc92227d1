package eval

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/luowanxu/Level-4-Project/geo"
	"github.com/luowanxu/Level-4-Project/place"
	"github.com/luowanxu/Level-4-Project/trip"
)

// CityCenters anchor the synthetic scenario generator on real coordinates.
var CityCenters = map[string]geo.Point{
	"paris":    {Lat: 48.8566, Lng: 2.3522},
	"london":   {Lat: 51.5074, Lng: -0.1278},
	"tokyo":    {Lat: 35.6762, Lng: 139.6503},
	"new_york": {Lat: 40.7128, Lng: -74.0060},
}

// cityOrder fixes the scenario matrix iteration order.
var cityOrder = []string{"paris", "london", "tokyo", "new_york"}

var sizeOrder = []string{"small", "medium", "large"}

// scenarioSizes maps a size class to attraction and restaurant counts.
var scenarioSizes = map[string][2]int{
	"small":  {3, 2},
	"medium": {8, 4},
	"large":  {15, 6},
}

var durationOrder = []string{"short", "medium", "long"}

// scenarioDurations maps a duration class to its day range, inclusive.
var scenarioDurations = map[string][2]int{
	"short":  {1, 2},
	"medium": {3, 5},
	"long":   {6, 8},
}

// Scatter radii in degrees around the city centre per place kind.
const (
	hotelRadius      = 0.01
	attractionRadius = 0.02
	restaurantRadius = 0.015
)

var attractionTypeSets = [][]string{
	{"tourist_attraction", "point_of_interest"},
	{"museum", "tourist_attraction", "point_of_interest"},
	{"park", "tourist_attraction", "point_of_interest"},
	{"shopping_mall", "point_of_interest"},
}

// Generator builds synthetic place sets scattered around real city centres.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator builds a test-data generator. A nil rng is seeded from the
// clock.
func NewGenerator(rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{rng: rng}
}

// jitter offsets a coordinate by a uniform draw within radius degrees,
// rounded to six decimal places.
func (g *Generator) jitter(v, radius float64) float64 {
	return math.Round((v+(g.rng.Float64()*2-1)*radius)*1e6) / 1e6
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Hotel synthesizes the scenario's lodging near the city centre.
func (g *Generator) Hotel(center geo.Point) place.Place {
	lat := g.jitter(center.Lat, hotelRadius)
	lng := g.jitter(center.Lng, hotelRadius)
	return place.Place{
		"place_id":           fmt.Sprintf("hotel_%f_%f", lat, lng),
		"name":               fmt.Sprintf("Hotel %d", 1+g.rng.Intn(99)),
		"types":              []string{"lodging", "point_of_interest"},
		"rating":             round1(3.5 + g.rng.Float64()*1.5),
		"user_ratings_total": 100 + g.rng.Intn(900),
		"vicinity":           "City Center",
		"geometry": map[string]interface{}{
			"location": map[string]interface{}{"lat": lat, "lng": lng},
		},
	}
}

// Attraction synthesizes the index-th sightseeing stop.
func (g *Generator) Attraction(center geo.Point, index int) place.Place {
	lat := g.jitter(center.Lat, attractionRadius)
	lng := g.jitter(center.Lng, attractionRadius)
	return place.Place{
		"place_id":           fmt.Sprintf("attraction_%d_%f_%f", index, lat, lng),
		"name":               fmt.Sprintf("Attraction %d", index),
		"types":              attractionTypeSets[g.rng.Intn(len(attractionTypeSets))],
		"rating":             round1(3.5 + g.rng.Float64()*1.5),
		"user_ratings_total": 50 + g.rng.Intn(4950),
		"vicinity":           "Tourist District",
		"geometry": map[string]interface{}{
			"location": map[string]interface{}{"lat": lat, "lng": lng},
		},
	}
}

// Restaurant synthesizes the index-th dining option.
func (g *Generator) Restaurant(center geo.Point, index int) place.Place {
	lat := g.jitter(center.Lat, restaurantRadius)
	lng := g.jitter(center.Lng, restaurantRadius)
	return place.Place{
		"place_id":           fmt.Sprintf("restaurant_%d_%f_%f", index, lat, lng),
		"name":               fmt.Sprintf("Restaurant %d", index),
		"types":              []string{"restaurant", "food", "point_of_interest"},
		"rating":             round1(3.0 + g.rng.Float64()*2.0),
		"user_ratings_total": 20 + g.rng.Intn(1980),
		"price_level":        1 + g.rng.Intn(4),
		"vicinity":           "Restaurant Quarter",
		"geometry": map[string]interface{}{
			"location": map[string]interface{}{"lat": lat, "lng": lng},
		},
	}
}

// ScenarioPlaces builds one lodging plus the requested number of
// attractions and restaurants around the named city.
func (g *Generator) ScenarioPlaces(city string, attractions, restaurants int) ([]place.Place, error) {
	center, ok := CityCenters[city]
	if !ok {
		return nil, fmt.Errorf("%w: unknown city %q", trip.ErrInputInvalid, city)
	}
	places := make([]place.Place, 0, attractions+restaurants+1)
	places = append(places, g.Hotel(center))
	for i := 0; i < attractions; i++ {
		places = append(places, g.Attraction(center, i+1))
	}
	for i := 0; i < restaurants; i++ {
		places = append(places, g.Restaurant(center, i+1))
	}
	return places, nil
}

// SizeCounts resolves a size class name to attraction and restaurant
// counts.
func SizeCounts(size string) (attractions, restaurants int, err error) {
	counts, ok := scenarioSizes[size]
	if !ok {
		return 0, 0, fmt.Errorf("%w: unknown size class %q", trip.ErrInputInvalid, size)
	}
	return counts[0], counts[1], nil
}

// Suite generates the full scenario matrix: four cities by three size
// classes by three duration classes by three transport modes, with the
// trip length drawn from each duration class's range.
func (g *Generator) Suite(start time.Time) []Scenario {
	scenarios := make([]Scenario, 0, len(cityOrder)*len(sizeOrder)*len(durationOrder)*len(trip.Modes))
	for _, city := range cityOrder {
		for _, size := range sizeOrder {
			counts := scenarioSizes[size]
			for _, duration := range durationOrder {
				bounds := scenarioDurations[duration]
				for _, mode := range trip.Modes {
					days := bounds[0] + g.rng.Intn(bounds[1]-bounds[0]+1)
					places, err := g.ScenarioPlaces(city, counts[0], counts[1])
					if err != nil {
						continue
					}
					scenarios = append(scenarios, Scenario{
						Name:          fmt.Sprintf("%s_%s_%s_%s", city, size, duration, mode),
						Type:          "comprehensive",
						Places:        places,
						StartDate:     start.Format("2006-01-02"),
						EndDate:       start.AddDate(0, 0, days-1).Format("2006-01-02"),
						TransportMode: string(mode),
						DurationDays:  days,
					})
				}
			}
		}
	}
	return scenarios
}

package eval

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/luowanxu/Level-4-Project/geo"
	"github.com/luowanxu/Level-4-Project/place"
	"github.com/luowanxu/Level-4-Project/schedule"
	"github.com/luowanxu/Level-4-Project/trip"
)

// baselineTransitMinutes is the fixed gap a random schedule leaves between
// consecutive visits instead of estimating real travel times.
const baselineTransitMinutes = 30

// RandomGenerator produces legal but unoptimized schedules for baseline
// comparison: attractions land on uniformly random days, every day gets
// exactly two meal slots, and visits run back to back with a fixed gap.
type RandomGenerator struct {
	normalized []*place.NormalizedPlace
	lodging    *place.NormalizedPlace
	days       int
}

// NewRandomGenerator validates and normalizes the request once up front so
// repeated draws share the same place set and visit durations.
func NewRandomGenerator(ctx context.Context, req schedule.Request, rng *rand.Rand) (*RandomGenerator, error) {
	days, _, err := schedule.ValidateRequest(req)
	if err != nil {
		return nil, err
	}
	normalized, lodging, err := place.Normalize(ctx, req.Places, rng)
	if err != nil {
		return nil, err
	}
	if lodging == nil {
		return nil, trip.ErrNoLodging
	}
	return &RandomGenerator{normalized: normalized, lodging: lodging, days: days}, nil
}

// Generate draws one random schedule from rng. Draws are independent, so
// parallel callers can pass their own seeded sources.
func (g *RandomGenerator) Generate(rng *rand.Rand) *schedule.Response {
	byDay := make([][]*place.NormalizedPlace, g.days)
	var restaurants []*place.NormalizedPlace
	for _, p := range g.normalized {
		if p.IsRestaurant() {
			restaurants = append(restaurants, p)
		} else {
			d := rng.Intn(g.days)
			byDay[d] = append(byDay[d], p)
		}
	}

	pool := append([]*place.NormalizedPlace(nil), restaurants...)
	var events []trip.Event
	for d := 0; d < g.days; d++ {
		meals := drawMeals(&pool, byDay[d], g.lodging.Location, rng)
		events = append(events, g.buildDay(d, byDay[d], meals, rng)...)
	}

	return &schedule.Response{
		Success: true,
		Events:  events,
		Status:  trip.OKStatus(),
	}
}

// drawMeals samples up to two real restaurants for the day without
// replacement, padding any missing slot with a virtual meal at the day's
// centre. The lunch slot fills first, so a single real restaurant is
// paired with a virtual dinner.
func drawMeals(pool *[]*place.NormalizedPlace, attractions []*place.NormalizedPlace, fallback geo.Point, rng *rand.Rand) [2]*place.NormalizedPlace {
	var meals []*place.NormalizedPlace
	for len(meals) < 2 && len(*pool) > 0 {
		i := rng.Intn(len(*pool))
		meals = append(meals, (*pool)[i])
		*pool = append((*pool)[:i], (*pool)[i+1:]...)
	}

	if len(meals) < 2 {
		pts := make([]geo.Point, 0, len(attractions)+len(meals))
		for _, p := range attractions {
			pts = append(pts, p.Location)
		}
		for _, p := range meals {
			pts = append(pts, p.Location)
		}
		center := fallback
		if len(pts) > 0 {
			center = geo.Centroid(pts)
		}
		if len(meals) == 0 {
			meals = append(meals, place.NewVirtualMeal(trip.MealLunch, center))
		}
		meals = append(meals, place.NewVirtualMeal(trip.MealDinner, center))
	}
	return [2]*place.NormalizedPlace{meals[0], meals[1]}
}

// buildDay shuffles the day's attractions, splits them around the meal
// slots by simulated start time, and lays everything out with fixed gaps
// between lodging anchors.
func (g *RandomGenerator) buildDay(day int, attractions []*place.NormalizedPlace, meals [2]*place.NormalizedPlace, rng *rand.Rand) []trip.Event {
	shuffled := append([]*place.NormalizedPlace(nil), attractions...)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	morning, afternoon, evening := partitionByTime(shuffled)

	ordered := make([]*place.NormalizedPlace, 0, len(shuffled)+2)
	ordered = append(ordered, morning...)
	ordered = append(ordered, meals[0])
	ordered = append(ordered, afternoon...)
	ordered = append(ordered, meals[1])
	ordered = append(ordered, evening...)

	events := make([]trip.Event, 0, len(ordered)+2)
	current := trip.DayStart
	lastEnd := trip.DayStart
	events = append(events, placeEvent(day, 0, g.lodging, current, current))
	for i, p := range ordered {
		end := current.Add(p.VisitDuration)
		events = append(events, placeEvent(day, i+1, p, current, end))
		lastEnd = end
		current = end.Add(baselineTransitMinutes)
	}
	events = append(events, placeEvent(day, len(ordered)+1, g.lodging, lastEnd, lastEnd))
	return events
}

// partitionByTime walks the attraction sequence with a simulated clock and
// bins each stop by where it would start relative to the optimal meal
// times, charging each pending meal once its optimum has passed.
func partitionByTime(attractions []*place.NormalizedPlace) (morning, afternoon, evening []*place.NormalizedPlace) {
	sim := trip.DayStart
	lunchTaken, dinnerTaken := false, false
	for _, p := range attractions {
		if !lunchTaken && sim >= trip.LunchWindow.Optimal {
			sim = sim.Add(place.VirtualMealDuration + baselineTransitMinutes)
			lunchTaken = true
		}
		if !dinnerTaken && sim >= trip.DinnerWindow.Optimal {
			sim = sim.Add(place.VirtualMealDuration + baselineTransitMinutes)
			dinnerTaken = true
		}
		switch {
		case sim < trip.LunchWindow.Optimal:
			morning = append(morning, p)
		case sim < trip.DinnerWindow.Optimal:
			afternoon = append(afternoon, p)
		default:
			evening = append(evening, p)
		}
		sim = sim.Add(p.VisitDuration + baselineTransitMinutes)
	}
	return morning, afternoon, evening
}

func placeEvent(day, index int, p *place.NormalizedPlace, start, end trip.Clock) trip.Event {
	ev := trip.Event{
		ID:        fmt.Sprintf("day%d-event%d", day, index),
		Type:      trip.EventPlace,
		Day:       day,
		StartTime: start.Format(),
		EndTime:   end.Format(),
		Title:     p.Name,
		Place:     p.Original,
		PlaceID:   p.ID,
		Virtual:   p.IsVirtual(),
	}
	if meal, ok := p.MealType(); ok {
		ev.Meal = meal
	}
	return ev
}

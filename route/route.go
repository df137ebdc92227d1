// Package route orders the places of a single day into a timed plan that
// respects the day window and the lunch and dinner windows.
package route

import (
	"context"
	"sort"

	"github.com/luowanxu/Level-4-Project/geo"
	"github.com/luowanxu/Level-4-Project/log"
	"github.com/luowanxu/Level-4-Project/place"
	"github.com/luowanxu/Level-4-Project/trip"
)

// Visit is one scheduled stop in a day plan.
type Visit struct {
	Place *place.NormalizedPlace
	Start trip.Clock
	End   trip.Clock
}

// DayPlan is a time-ordered day itinerary bracketed by lodging anchors.
type DayPlan []Visit

const (
	maxRatingPoints   = 25.0
	proximityFalloff  = 0.002
	mealBonusPoints   = 50.0
	offWindowPenalty  = 200.0
	idleAdvanceMinute = 15
)

// Score rates a candidate stop at the given time: up to 25 points for its
// rating, up to 100 for proximity to the previous stop, plus a meal-window
// bonus for restaurants inside a window and a heavy penalty outside both.
// Scores never go negative.
func Score(p *place.NormalizedPlace, now trip.Clock, distMeters float64) float64 {
	rating := p.Rating
	if rating > 5 {
		rating = 5
	}
	score := rating * 5
	if score < 0 {
		score = 0
	} else if score > maxRatingPoints {
		score = maxRatingPoints
	}

	proximity := 100 - distMeters*proximityFalloff
	if proximity < 0 {
		proximity = 0
	} else if proximity > 100 {
		proximity = 100
	}
	score += proximity

	if p.IsRestaurant() {
		switch {
		case trip.LunchWindow.Contains(now):
			score += mealBonusPoints * trip.LunchWindow.TimeFit(now)
		case trip.DinnerWindow.Contains(now):
			score += mealBonusPoints * trip.DinnerWindow.TimeFit(now)
		default:
			score -= offWindowPenalty
		}
	}

	if score < 0 {
		return 0
	}
	return score
}

// Route arranges one day bucket into a timed plan. The matrix must cover
// the lodging anchor at row 0 followed by places in order. Real restaurants
// already in consumed are skipped, and ones chosen here are added to it, so
// threading the same map across days keeps any restaurant from being
// scheduled twice in a trip. Returns the plan and the summed greedy score.
func Route(ctx context.Context, places []*place.NormalizedPlace, lodging *place.NormalizedPlace, matrix *geo.Matrix, mode trip.TransportMode, consumed map[string]bool) (DayPlan, float64) {
	if consumed == nil {
		consumed = make(map[string]bool)
	}

	var attractions, reals, virtuals []int
	bucketHasReal := false
	for i, p := range places {
		switch {
		case !p.IsRestaurant():
			attractions = append(attractions, i)
		case p.IsVirtual():
			virtuals = append(virtuals, i)
		default:
			bucketHasReal = true
			if !consumed[p.ID] {
				reals = append(reals, i)
			}
		}
	}

	// Days holding nothing but virtual meals pin them to the optimal
	// window times directly.
	if len(attractions) == 0 && !bucketHasReal {
		if plan, ok := virtualOnlyPlan(places, virtuals, lodging); ok {
			return plan, 0
		}
	}

	var (
		visits     []Visit
		totalScore float64
	)
	current := trip.DayStart
	prev := 0 // matrix row of the previous stop, starting at the lodging
	lunchDone, dinnerDone := false, false

	for current < trip.DayEnd {
		var pool []int
		wantLunch := !lunchDone && trip.LunchWindow.Contains(current)
		wantDinner := !dinnerDone && trip.DinnerWindow.Contains(current)
		mealTime := wantLunch || wantDinner

		if mealTime {
			meal := trip.MealLunch
			if wantDinner {
				meal = trip.MealDinner
			}
			pool = reals
			if len(pool) == 0 {
				pool = virtualsOf(places, virtuals, meal)
			}
		} else {
			// Hold back attractions that would run past the start of a
			// meal window still waiting to be filled.
			for _, i := range attractions {
				end := current.Add(places[i].VisitDuration)
				if !lunchDone && end > trip.LunchWindow.Start {
					continue
				}
				if !dinnerDone && end > trip.DinnerWindow.Start {
					continue
				}
				pool = append(pool, i)
			}
		}

		best := -1
		bestScore := -1.0
		for _, i := range pool {
			if s := Score(places[i], current, matrix.Dist[prev][i+1]); s > bestScore {
				bestScore = s
				best = i
			}
		}
		if best < 0 {
			current = current.Add(idleAdvanceMinute)
			continue
		}

		chosen := places[best]
		visits = append(visits, Visit{Place: chosen, Start: current, End: current.Add(chosen.VisitDuration)})
		totalScore += bestScore

		if mealTime {
			if wantLunch {
				lunchDone = true
			} else {
				dinnerDone = true
			}
			if chosen.IsVirtual() {
				virtuals = removeIndex(virtuals, best)
			} else {
				reals = removeIndex(reals, best)
				consumed[chosen.ID] = true
			}
		} else {
			attractions = removeIndex(attractions, best)
		}

		current = current.Add(chosen.VisitDuration + matrix.Time[prev][best+1])
		prev = best + 1
	}

	if !lunchDone {
		if v := forceMeal(ctx, places, &reals, &virtuals, consumed, trip.MealLunch); v != nil {
			visits = append(visits, *v)
		}
	}
	if !dinnerDone {
		if v := forceMeal(ctx, places, &reals, &virtuals, consumed, trip.MealDinner); v != nil {
			visits = append(visits, *v)
		}
	}

	sort.SliceStable(visits, func(i, j int) bool { return visits[i].Start < visits[j].Start })

	if len(attractions) > 0 {
		log.Warnf(ctx, "Route: %d attractions did not fit into the day", len(attractions))
	}

	plan := make(DayPlan, 0, len(visits)+2)
	plan = append(plan, anchorVisit(lodging, trip.DayStart))
	plan = append(plan, visits...)
	end := trip.DayStart
	for _, v := range visits {
		if v.End > end {
			end = v.End
		}
	}
	plan = append(plan, anchorVisit(lodging, end))
	return plan, totalScore
}

// forceMeal schedules a missed meal at its window's optimal time, preferring
// a virtual slot tagged for that meal, then any remaining real restaurant,
// then any virtual at all.
func forceMeal(ctx context.Context, places []*place.NormalizedPlace, reals, virtuals *[]int, consumed map[string]bool, meal trip.MealType) *Visit {
	pick := -1
	for _, i := range *virtuals {
		if m, ok := places[i].MealType(); ok && m == meal {
			pick = i
			break
		}
	}
	if pick < 0 && len(*reals) > 0 {
		pick = (*reals)[0]
	}
	if pick < 0 && len(*virtuals) > 0 {
		pick = (*virtuals)[0]
	}
	if pick < 0 {
		return nil
	}

	chosen := places[pick]
	if chosen.IsVirtual() {
		*virtuals = removeIndex(*virtuals, pick)
	} else {
		*reals = removeIndex(*reals, pick)
		consumed[chosen.ID] = true
	}

	start := trip.WindowFor(meal).Optimal
	log.Infof(ctx, "Route: forcing %s at %s with %q", meal, start.Format(), chosen.Name)
	return &Visit{Place: chosen, Start: start, End: start.Add(chosen.VisitDuration)}
}

// virtualOnlyPlan emits the fixed two-meal day used when a bucket holds
// only virtual restaurants. Requires both a lunch and a dinner slot.
func virtualOnlyPlan(places []*place.NormalizedPlace, virtuals []int, lodging *place.NormalizedPlace) (DayPlan, bool) {
	lunch, dinner := -1, -1
	for _, i := range virtuals {
		switch m, _ := places[i].MealType(); m {
		case trip.MealLunch:
			if lunch < 0 {
				lunch = i
			}
		case trip.MealDinner:
			if dinner < 0 {
				dinner = i
			}
		}
	}
	if lunch < 0 || dinner < 0 {
		return nil, false
	}

	lunchAt := trip.LunchWindow.Optimal
	dinnerAt := trip.DinnerWindow.Optimal
	plan := DayPlan{
		anchorVisit(lodging, trip.DayStart),
		{Place: places[lunch], Start: lunchAt, End: lunchAt.Add(places[lunch].VisitDuration)},
		{Place: places[dinner], Start: dinnerAt, End: dinnerAt.Add(places[dinner].VisitDuration)},
	}
	plan = append(plan, anchorVisit(lodging, dinnerAt.Add(places[dinner].VisitDuration)))
	return plan, true
}

// virtualsOf filters the virtual slots tagged for the given meal,
// keeping insertion order so score ties resolve the same way as for any
// other candidate pool.
func virtualsOf(places []*place.NormalizedPlace, virtuals []int, meal trip.MealType) []int {
	var out []int
	for _, i := range virtuals {
		if m, ok := places[i].MealType(); ok && m == meal {
			out = append(out, i)
		}
	}
	return out
}

func anchorVisit(lodging *place.NormalizedPlace, at trip.Clock) Visit {
	return Visit{Place: lodging, Start: at, End: at}
}

func removeIndex(list []int, v int) []int {
	for i, x := range list {
		if x == v {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

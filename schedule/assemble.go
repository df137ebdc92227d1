package schedule

import (
	"fmt"

	"github.com/luowanxu/Level-4-Project/geo"
	"github.com/luowanxu/Level-4-Project/place"
	"github.com/luowanxu/Level-4-Project/route"
	"github.com/luowanxu/Level-4-Project/trip"
)

// Assemble flattens per-day plans into the wire event stream, inserting
// transit legs into the gaps between consecutive visits and stamping day
// indexes. Days are renumbered consecutively over the non-empty plans.
// Transit legs are clipped to the available gap so events never overlap,
// and co-located stops get no leg at all.
func Assemble(plans []route.DayPlan, mode trip.TransportMode) []trip.Event {
	var events []trip.Event
	day := 0
	for _, plan := range plans {
		if len(plan) == 0 {
			continue
		}
		for i, v := range plan {
			ev := trip.Event{
				ID:        fmt.Sprintf("day%d-event%d", day, i),
				Type:      trip.EventPlace,
				Day:       day,
				StartTime: v.Start.Format(),
				EndTime:   v.End.Format(),
				Title:     v.Place.Name,
				Place:     v.Place.Original,
				PlaceID:   v.Place.ID,
				Virtual:   v.Place.IsVirtual(),
			}
			if meal, ok := v.Place.MealType(); ok {
				ev.Meal = meal
			}
			events = append(events, ev)

			if i == len(plan)-1 {
				continue
			}
			next := plan[i+1]
			gap := int(next.Start - v.End)
			if gap <= 0 {
				continue
			}
			dist := geo.Haversine(v.Place.Location, next.Place.Location)
			if dist == 0 {
				continue
			}
			minutes := geo.TravelTime(dist, mode)
			if minutes > gap {
				minutes = gap
			}
			events = append(events, trip.Event{
				ID:        fmt.Sprintf("day%d-transit%d", day, i),
				Type:      trip.EventTransit,
				Day:       day,
				StartTime: v.End.Format(),
				EndTime:   v.End.Add(minutes).Format(),
				Duration:  minutes,
				Mode:      mode,
			})
		}
		day++
	}
	return events
}

// Summarize tallies the headline counts of an event stream. Lodging
// anchors count toward the place total but neither category.
func Summarize(events []trip.Event) trip.SummaryMetrics {
	var m trip.SummaryMetrics
	for _, ev := range events {
		switch ev.Type {
		case trip.EventTransit:
			m.TotalTravelTime += ev.Duration
		case trip.EventPlace:
			m.TotalPlaces++
			rec := place.Place(ev.Place)
			switch {
			case rec.HasType("restaurant"):
				m.Restaurants++
			case rec.HasType("lodging"), rec.HasType("hotel"):
			default:
				m.Attractions++
			}
		}
	}
	return m
}

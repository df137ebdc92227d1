package schedule

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luowanxu/Level-4-Project/cluster"
	"github.com/luowanxu/Level-4-Project/geo"
	"github.com/luowanxu/Level-4-Project/place"
	"github.com/luowanxu/Level-4-Project/trip"
)

func rawPlace(name string, types []string, lat, lng float64) place.Place {
	return place.Place{
		"name":     name,
		"place_id": name,
		"types":    types,
		"rating":   4.3,
		"geometry": map[string]interface{}{
			"location": map[string]interface{}{
				"lat": lat,
				"lng": lng,
			},
		},
	}
}

func parisHotel() place.Place {
	return rawPlace("Hotel du Centre", []string{"lodging"}, 48.8566, 2.3522)
}

func planRequest(t *testing.T, req Request, seed int64) *Response {
	t.Helper()
	svc := NewService(16)
	resp, err := svc.GenerateSchedule(context.Background(), req, rand.New(rand.NewSource(seed)))
	require.NoError(t, err)
	require.True(t, resp.Success, "planning failed: %s", resp.Error)
	return resp
}

func placeEventsByDay(events []trip.Event) map[int][]trip.Event {
	byDay := make(map[int][]trip.Event)
	for _, ev := range events {
		if ev.Type == trip.EventPlace {
			byDay[ev.Day] = append(byDay[ev.Day], ev)
		}
	}
	return byDay
}

func TestGenerateScheduleValidation(t *testing.T) {
	svc := NewService(0)
	ctx := context.Background()

	t.Run("no places", func(t *testing.T) {
		resp, err := svc.GenerateSchedule(ctx, Request{StartDate: "2026-05-01", EndDate: "2026-05-01"}, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, trip.ErrInputInvalid)
		assert.False(t, resp.Success)
		assert.False(t, resp.Status.IsReasonable)
		assert.Equal(t, trip.SeveritySevere, resp.Status.Severity)
	})

	t.Run("missing dates", func(t *testing.T) {
		resp, err := svc.GenerateSchedule(ctx, Request{Places: []place.Place{parisHotel()}}, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, trip.ErrInputInvalid)
		assert.False(t, resp.Success)
	})

	t.Run("end before start", func(t *testing.T) {
		req := Request{
			Places:    []place.Place{parisHotel(), rawPlace("Louvre", []string{"museum"}, 48.8606, 2.3376)},
			StartDate: "2026-05-02",
			EndDate:   "2026-05-01",
		}
		_, err := svc.GenerateSchedule(ctx, req, nil)
		assert.ErrorIs(t, err, trip.ErrInputInvalid)
	})

	t.Run("unknown transport mode", func(t *testing.T) {
		req := Request{
			Places:        []place.Place{parisHotel(), rawPlace("Louvre", []string{"museum"}, 48.8606, 2.3376)},
			StartDate:     "2026-05-01",
			EndDate:       "2026-05-01",
			TransportMode: "helicopter",
		}
		_, err := svc.GenerateSchedule(ctx, req, nil)
		assert.ErrorIs(t, err, trip.ErrInputInvalid)
	})

	t.Run("no lodging", func(t *testing.T) {
		req := Request{
			Places:    []place.Place{rawPlace("Louvre", []string{"museum"}, 48.8606, 2.3376)},
			StartDate: "2026-05-01",
			EndDate:   "2026-05-01",
		}
		resp, err := svc.GenerateSchedule(ctx, req, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, trip.ErrNoLodging)
		require.Len(t, resp.Status.Warnings, 1)
		assert.Equal(t, trip.WarnNoLodging, resp.Status.Warnings[0].Type)
	})

	t.Run("too many places fails fast", func(t *testing.T) {
		places := []place.Place{parisHotel()}
		for i := 0; i < 9; i++ {
			places = append(places, rawPlace("spot", []string{"tourist_attraction"}, 48.85+float64(i)*0.001, 2.35))
		}
		req := Request{Places: places, StartDate: "2026-05-01", EndDate: "2026-05-01"}
		resp, err := svc.GenerateSchedule(ctx, req, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, trip.ErrCapacityViolation)
		require.Len(t, resp.Status.Warnings, 1)
		assert.Equal(t, trip.WarnTooManyPlaces, resp.Status.Warnings[0].Type)
		assert.Contains(t, resp.Status.Warnings[0].Message, "Too many places (9) for 1 day(s)")
	})
}

func TestGenerateScheduleSingleAttraction(t *testing.T) {
	req := Request{
		Places: []place.Place{
			parisHotel(),
			rawPlace("Louvre", []string{"museum", "tourist_attraction"}, 48.8606, 2.3376),
		},
		StartDate:     "2026-05-01",
		EndDate:       "2026-05-01",
		TransportMode: "walking",
	}
	resp := planRequest(t, req, 1)

	byDay := placeEventsByDay(resp.Events)
	require.Len(t, byDay, 1)
	day := byDay[0]

	assert.True(t, place.Place(day[0].Place).HasType("lodging"), "day must start at the lodging")
	assert.True(t, place.Place(day[len(day)-1].Place).HasType("lodging"), "day must end at the lodging")

	found := false
	for _, ev := range day {
		if ev.Title == "Louvre" {
			found = true
		}
	}
	assert.True(t, found, "the attraction must be scheduled")
	assert.True(t, Validate(resp.Events), "schedule must be chronologically valid")
}

func TestGenerateScheduleMinimalParisTrip(t *testing.T) {
	req := Request{
		Places: []place.Place{
			parisHotel(),
			rawPlace("Eiffel Tower", []string{"tourist_attraction"}, 48.8584, 2.2945),
			rawPlace("Louvre", []string{"museum", "tourist_attraction"}, 48.8606, 2.3376),
			rawPlace("Le Bistrot Vivienne", []string{"restaurant"}, 48.8667, 2.3397),
		},
		StartDate:     "2026-05-01",
		EndDate:       "2026-05-03",
		TransportMode: "walking",
	}
	resp := planRequest(t, req, 7)

	byDay := placeEventsByDay(resp.Events)
	require.Len(t, byDay, 3, "a three day trip yields three day plans")

	restaurantVisits := 0
	for day := 0; day < 3; day++ {
		events := byDay[day]
		require.GreaterOrEqual(t, len(events), 3, "day %d", day)

		first, last := events[0], events[len(events)-1]
		assert.True(t, place.Place(first.Place).HasType("lodging"), "day %d must start at the lodging", day)
		assert.True(t, place.Place(last.Place).HasType("lodging"), "day %d must end at the lodging", day)

		virtuals := 0
		for _, ev := range events {
			if ev.Virtual {
				virtuals++
			}
			if ev.Title == "Le Bistrot Vivienne" {
				restaurantVisits++
			}
		}
		assert.GreaterOrEqual(t, virtuals, 1, "day %d needs at least one virtual meal", day)
	}
	assert.Equal(t, 1, restaurantVisits, "the single restaurant is eaten at exactly once")
}

func TestGenerateScheduleSingleRestaurant(t *testing.T) {
	req := Request{
		Places: []place.Place{
			parisHotel(),
			rawPlace("Bistro", []string{"restaurant"}, 48.8590, 2.3300),
		},
		StartDate: "2026-05-01",
		EndDate:   "2026-05-01",
	}
	resp := planRequest(t, req, 2)

	var lunchStart, dinnerStart trip.Clock
	for _, ev := range resp.Events {
		if ev.Type != trip.EventPlace {
			continue
		}
		start, err := trip.ParseClock(ev.StartTime)
		require.NoError(t, err)
		if ev.Title == "Bistro" {
			lunchStart = start
		}
		if ev.Virtual && ev.Meal == trip.MealDinner {
			dinnerStart = start
		}
	}
	assert.True(t, trip.LunchWindow.Contains(lunchStart), "real restaurant expected in the lunch window, got %s", lunchStart.Format())
	assert.True(t, trip.DinnerWindow.Contains(dinnerStart), "virtual dinner expected in the dinner window, got %s", dinnerStart.Format())

	require.NotNil(t, resp.Metrics)
	assert.Equal(t, 2, resp.Metrics.Restaurants)
	assert.Equal(t, 0, resp.Metrics.Attractions)
}

func TestGenerateScheduleSpreadsRestaurantsAcrossDays(t *testing.T) {
	req := Request{
		Places: []place.Place{
			parisHotel(),
			rawPlace("Bistro A", []string{"restaurant"}, 48.8590, 2.3300),
			rawPlace("Bistro B", []string{"restaurant"}, 48.8610, 2.3400),
		},
		StartDate: "2026-05-01",
		EndDate:   "2026-05-02",
	}
	resp := planRequest(t, req, 3)

	byDay := placeEventsByDay(resp.Events)
	require.Len(t, byDay, 2)

	realByDay := make(map[int][]string)
	for day, events := range byDay {
		for _, ev := range events {
			rec := place.Place(ev.Place)
			if rec.HasType("restaurant") && !ev.Virtual {
				realByDay[day] = append(realByDay[day], ev.Title)
			}
		}
	}
	require.Len(t, realByDay[0], 1)
	require.Len(t, realByDay[1], 1)
	assert.NotEqual(t, realByDay[0][0], realByDay[1][0], "each restaurant should be eaten at exactly once")
}

func TestGenerateScheduleExtendsDaysForOverflow(t *testing.T) {
	places := []place.Place{parisHotel()}
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
	for i, n := range names {
		places = append(places, rawPlace(n, []string{"tourist_attraction"}, 48.85+float64(i)*0.002, 2.33+float64(i%3)*0.004))
	}
	req := Request{
		Places:    places,
		StartDate: "2026-05-01",
		EndDate:   "2026-05-02",
	}
	resp := planRequest(t, req, 4)

	byDay := placeEventsByDay(resp.Events)
	assert.GreaterOrEqual(t, len(byDay), 2, "ten attractions cannot fit in one day")

	// Every input place appears at most once; anything missing must be
	// reported as unscheduled.
	counts := make(map[string]int)
	for _, ev := range resp.Events {
		if ev.Type == trip.EventPlace && !ev.Virtual {
			counts[place.Place(ev.Place).ID("")]++
		}
	}
	missing := 0
	for _, n := range names {
		assert.LessOrEqual(t, counts[n], 1, "place %s scheduled more than once", n)
		if counts[n] == 0 {
			missing++
		}
	}
	if missing > 0 {
		found := false
		for _, w := range resp.Status.Warnings {
			if w.Type == trip.WarnUnscheduledPlaces {
				found = true
			}
		}
		assert.True(t, found, "%d places missing but no unscheduled warning", missing)
	}

	for day, events := range byDay {
		first, last := events[0], events[len(events)-1]
		assert.True(t, place.Place(first.Place).HasType("lodging"), "day %d must start at the lodging", day)
		assert.True(t, place.Place(last.Place).HasType("lodging"), "day %d must end at the lodging", day)
	}
}

func TestGenerateScheduleSparseTripWarnsEmptyDays(t *testing.T) {
	req := Request{
		Places: []place.Place{
			parisHotel(),
			rawPlace("Bistro", []string{"restaurant"}, 48.8590, 2.3300),
		},
		StartDate: "2026-05-01",
		EndDate:   "2026-05-03",
	}
	resp := planRequest(t, req, 5)

	var empty *trip.Warning
	for i := range resp.Status.Warnings {
		if resp.Status.Warnings[i].Type == trip.WarnEmptyDays {
			empty = &resp.Status.Warnings[i]
		}
	}
	require.NotNil(t, empty, "two virtual-only days must be flagged")
	assert.Contains(t, empty.Message, "2 day(s)")
	assert.Equal(t, trip.SeverityWarning, resp.Status.Severity)
	assert.True(t, resp.Status.IsReasonable)
}

func TestGenerateScheduleDeterministicForSeed(t *testing.T) {
	req := Request{
		Places: []place.Place{
			parisHotel(),
			rawPlace("Louvre", []string{"museum"}, 48.8606, 2.3376),
			rawPlace("Orsay", []string{"museum"}, 48.8600, 2.3266),
			rawPlace("Bistro", []string{"restaurant"}, 48.8590, 2.3300),
		},
		StartDate: "2026-05-01",
		EndDate:   "2026-05-02",
	}
	a := planRequest(t, req, 99)
	b := planRequest(t, req, 99)

	require.Equal(t, len(a.Events), len(b.Events))
	for i := range a.Events {
		assert.Equal(t, a.Events[i].ID, b.Events[i].ID)
		assert.Equal(t, a.Events[i].StartTime, b.Events[i].StartTime)
		assert.Equal(t, a.Events[i].EndTime, b.Events[i].EndTime)
		assert.Equal(t, a.Events[i].Title, b.Events[i].Title)
	}
}

func TestMatrixCacheReuse(t *testing.T) {
	lodging := &place.NormalizedPlace{ID: "h", Location: geo.Point{Lat: 48.8566, Lng: 2.3522}}
	places := []*place.NormalizedPlace{
		{ID: "a", Location: geo.Point{Lat: 48.8606, Lng: 2.3376}},
		{ID: "b", Location: geo.Point{Lat: 48.8590, Lng: 2.3300}},
	}

	mc := newMatrixCache(8)
	m1 := mc.matrixFor(lodging, places, trip.ModeWalking)
	m2 := mc.matrixFor(lodging, places, trip.ModeWalking)
	assert.Same(t, m1, m2, "second lookup must hit the cache")

	m3 := mc.matrixFor(lodging, places, trip.ModeDriving)
	assert.NotSame(t, m1, m3, "a different mode builds a different matrix")

	t.Run("disabled cache rebuilds every time", func(t *testing.T) {
		off := newMatrixCache(0)
		a := off.matrixFor(lodging, places, trip.ModeWalking)
		b := off.matrixFor(lodging, places, trip.ModeWalking)
		assert.NotSame(t, a, b)
		assert.Equal(t, a.Dist, b.Dist)
	})
}

// Raw records without any id get index-derived fallback identifiers, so
// scheduling one of them must not mark the others as scheduled too.
func TestCheckReasonabilityDistinguishesIDLessPlaces(t *testing.T) {
	a := &place.NormalizedPlace{ID: "0", Name: "A", Category: place.CategoryMuseum, Location: geo.Point{Lat: 48.85, Lng: 2.35}}
	b := &place.NormalizedPlace{ID: "1", Name: "B", Category: place.CategoryMuseum, Location: geo.Point{Lat: 48.86, Lng: 2.36}}
	buckets := []cluster.DayBucket{{a, b}}
	events := []trip.Event{
		{Type: trip.EventPlace, Day: 0, PlaceID: "0", StartTime: "10:00 AM", EndTime: "11:00 AM"},
	}

	status := CheckReasonability(context.Background(), []*place.NormalizedPlace{a, b}, buckets, events)

	var unscheduled *trip.Warning
	for i := range status.Warnings {
		if status.Warnings[i].Type == trip.WarnUnscheduledPlaces {
			unscheduled = &status.Warnings[i]
		}
	}
	require.NotNil(t, unscheduled, "the second id-less place never appears in the schedule")
	assert.Contains(t, unscheduled.Message, "1 place(s)")
	assert.False(t, status.IsReasonable)
}

func TestValidate(t *testing.T) {
	good := []trip.Event{
		{Type: trip.EventPlace, Day: 0, StartTime: "09:00 AM", EndTime: "10:00 AM"},
		{Type: trip.EventTransit, Day: 0, StartTime: "10:00 AM", EndTime: "10:15 AM"},
		{Type: trip.EventPlace, Day: 0, StartTime: "10:15 AM", EndTime: "12:00 PM"},
	}
	assert.True(t, Validate(good))

	t.Run("overlap fails", func(t *testing.T) {
		bad := []trip.Event{
			{Type: trip.EventPlace, Day: 0, StartTime: "09:00 AM", EndTime: "11:00 AM"},
			{Type: trip.EventPlace, Day: 0, StartTime: "10:30 AM", EndTime: "12:00 PM"},
		}
		assert.False(t, Validate(bad))
	})

	t.Run("before day start fails", func(t *testing.T) {
		bad := []trip.Event{{Type: trip.EventPlace, Day: 0, StartTime: "08:00 AM", EndTime: "09:30 AM"}}
		assert.False(t, Validate(bad))
	})

	t.Run("past day end fails", func(t *testing.T) {
		bad := []trip.Event{{Type: trip.EventPlace, Day: 0, StartTime: "08:00 PM", EndTime: "09:30 PM"}}
		assert.False(t, Validate(bad))
	})

	t.Run("unparseable time fails", func(t *testing.T) {
		bad := []trip.Event{{Type: trip.EventPlace, Day: 0, StartTime: "", EndTime: "10:00 AM"}}
		assert.False(t, Validate(bad))
	})
}

func TestSummarize(t *testing.T) {
	events := []trip.Event{
		{Type: trip.EventPlace, Place: map[string]interface{}{"types": []string{"lodging"}}},
		{Type: trip.EventPlace, Place: map[string]interface{}{"types": []string{"museum"}}},
		{Type: trip.EventTransit, Duration: 12},
		{Type: trip.EventPlace, Place: map[string]interface{}{"types": []string{"restaurant"}}},
		{Type: trip.EventTransit, Duration: 8},
		{Type: trip.EventPlace, Place: map[string]interface{}{"types": []string{"lodging"}}},
	}
	m := Summarize(events)
	assert.Equal(t, 4, m.TotalPlaces)
	assert.Equal(t, 20, m.TotalTravelTime)
	assert.Equal(t, 1, m.Restaurants)
	assert.Equal(t, 1, m.Attractions)
}

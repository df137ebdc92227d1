package schedule

import (
	"context"
	"fmt"
	"sort"

	"github.com/luowanxu/Level-4-Project/cluster"
	"github.com/luowanxu/Level-4-Project/log"
	"github.com/luowanxu/Level-4-Project/place"
	"github.com/luowanxu/Level-4-Project/trip"
)

// CheckReasonability inspects the final schedule for quality problems:
// days holding only virtual meals, input places that never got scheduled,
// and days running past the day window. Severe findings flip the
// reasonability flag.
func CheckReasonability(ctx context.Context, normalized []*place.NormalizedPlace, buckets []cluster.DayBucket, events []trip.Event) trip.ScheduleStatus {
	status := trip.OKStatus()

	emptyDays := 0
	for _, b := range buckets {
		if b.AllVirtual() {
			emptyDays++
		}
	}
	if emptyDays > 0 {
		log.Warnf(ctx, "CheckReasonability: %d day(s) hold only virtual restaurants", emptyDays)
		status.Add(trip.Warning{
			Type: trip.WarnEmptyDays,
			Message: fmt.Sprintf("Found %d day(s) with only virtual restaurants. "+
				"Your schedule might be too sparse.", emptyDays),
			Suggestion: "Consider reducing the number of days or adding more places to visit.",
		}, trip.SeverityWarning)
	}

	scheduled := make(map[string]bool)
	lastEnd := make(map[int]trip.Clock)
	for _, ev := range events {
		if ev.Type != trip.EventPlace {
			continue
		}
		if !ev.Virtual {
			scheduled[ev.PlaceID] = true
		}
		if end, err := trip.ParseClock(ev.EndTime); err == nil {
			if cur, ok := lastEnd[ev.Day]; !ok || end > cur {
				lastEnd[ev.Day] = end
			}
		}
	}

	unscheduled := 0
	for _, p := range normalized {
		if !scheduled[p.ID] {
			unscheduled++
		}
	}
	if unscheduled > 0 {
		log.Warnf(ctx, "CheckReasonability: %d place(s) were not scheduled", unscheduled)
		status.Add(trip.Warning{
			Type: trip.WarnUnscheduledPlaces,
			Message: fmt.Sprintf("%d place(s) could not be scheduled. "+
				"Your schedule might be too packed.", unscheduled),
			Suggestion: "Consider increasing the number of days or reducing the number of places.",
		}, trip.SeveritySevere)
	}

	overtime := 0
	for _, end := range lastEnd {
		if end > trip.DayEnd {
			overtime++
		}
	}
	if overtime > 0 {
		log.Warnf(ctx, "CheckReasonability: %d day(s) run past %s", overtime, trip.DayEnd.Format())
		status.Add(trip.Warning{
			Type: trip.WarnOvertimeDays,
			Message: fmt.Sprintf("%d day(s) exceed the recommended end time of %s.",
				overtime, trip.DayEnd.Format()),
			Suggestion: "Consider extending your trip duration or reducing the number of places per day.",
		}, trip.SeveritySevere)
	}

	if status.Severity == trip.SeveritySevere {
		status.IsReasonable = false
	}
	return status
}

// Validate reports whether the events form a legal schedule: parseable
// times, chronological and non-overlapping within each day, and inside the
// day window.
func Validate(events []trip.Event) bool {
	type span struct {
		start, end trip.Clock
	}
	byDay := make(map[int][]span)
	for _, ev := range events {
		start, err := trip.ParseClock(ev.StartTime)
		if err != nil {
			return false
		}
		end, err := trip.ParseClock(ev.EndTime)
		if err != nil {
			return false
		}
		byDay[ev.Day] = append(byDay[ev.Day], span{start: start, end: end})
	}

	for _, spans := range byDay {
		sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
		for i, s := range spans {
			if s.end < s.start {
				return false
			}
			if i > 0 && spans[i-1].end > s.start {
				return false
			}
		}
		if spans[0].start < trip.DayStart || spans[len(spans)-1].end > trip.DayEnd {
			return false
		}
	}
	return true
}

// Package eval scores generated schedules, benchmarks them against
// randomized baselines and aggregates the comparison across a scenario
// matrix of cities, trip sizes, durations and transport modes.
package eval

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/luowanxu/Level-4-Project/geo"
	"github.com/luowanxu/Level-4-Project/place"
	"github.com/luowanxu/Level-4-Project/trip"
)

// MetricNames lists the scored dimensions plus the weighted total, in
// report order.
var MetricNames = []string{"distance", "time_window", "distribution", "clustering", "total"}

var metricWeights = map[string]float64{
	"distance":     0.3,
	"time_window":  0.3,
	"distribution": 0.2,
	"clustering":   0.2,
}

// clusterRadiusMeters is the consecutive-stop distance that drives a day's
// clustering score to zero.
const clusterRadiusMeters = 5000.0

// Metrics scores the quality of one schedule. It looks only at place
// events; transit legs are implied by the visit sequence.
type Metrics struct {
	days  []int
	byDay map[int][]trip.Event
}

// NewMetrics indexes a schedule's place events by day.
func NewMetrics(events []trip.Event) *Metrics {
	byDay := make(map[int][]trip.Event)
	for _, ev := range events {
		if ev.Type == trip.EventPlace {
			byDay[ev.Day] = append(byDay[ev.Day], ev)
		}
	}
	days := make([]int, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Ints(days)
	return &Metrics{days: days, byDay: byDay}
}

// DistanceScore rewards compact days. 100 means no travel at all; 0 matches
// the worst case of hopping between the day's two farthest places at every
// step.
func (m *Metrics) DistanceScore() float64 {
	var total, worst float64
	for _, d := range m.days {
		pts := eventPoints(m.byDay[d])
		if len(pts) < 2 {
			continue
		}
		maxPair := 0.0
		for i := 0; i < len(pts); i++ {
			for j := i + 1; j < len(pts); j++ {
				if dist := geo.Haversine(pts[i], pts[j]); dist > maxPair {
					maxPair = dist
				}
			}
		}
		for i := 1; i < len(pts); i++ {
			total += geo.Haversine(pts[i-1], pts[i])
		}
		worst += maxPair * float64(len(pts)-1)
	}
	if worst == 0 {
		return 100
	}
	return 100 * (1 - total/worst)
}

// TimeWindowScore is the share of visits sitting fully inside their
// expected window: virtual meal slots in their tagged window, real
// restaurants in either meal window, everything else in the day window.
func (m *Metrics) TimeWindowScore() float64 {
	total, satisfied := 0, 0
	for _, d := range m.days {
		for _, ev := range m.byDay[d] {
			start, err := trip.ParseClock(ev.StartTime)
			if err != nil {
				continue
			}
			end, err := trip.ParseClock(ev.EndTime)
			if err != nil {
				continue
			}
			total++
			switch {
			case ev.Virtual && ev.Meal != "":
				w := trip.WindowFor(ev.Meal)
				if w.Contains(start) && w.Contains(end) {
					satisfied++
				}
			case place.Place(ev.Place).HasType("restaurant"):
				lunch := trip.LunchWindow.Contains(start) && trip.LunchWindow.Contains(end)
				dinner := trip.DinnerWindow.Contains(start) && trip.DinnerWindow.Contains(end)
				if lunch || dinner {
					satisfied++
				}
			default:
				if start >= trip.DayStart && end <= trip.DayEnd {
					satisfied++
				}
			}
		}
	}
	if total == 0 {
		return 100
	}
	return 100 * float64(satisfied) / float64(total)
}

// DistributionScore rewards evenly loaded days via the coefficient of
// variation of per-day place counts.
func (m *Metrics) DistributionScore() float64 {
	if len(m.days) == 0 {
		return 100
	}
	counts := make([]float64, 0, len(m.days))
	for _, d := range m.days {
		counts = append(counts, float64(len(m.byDay[d])))
	}
	mean := stat.Mean(counts, nil)
	if mean == 0 {
		return 100
	}
	cv := stat.PopStdDev(counts, nil) / mean
	if cv > 1 {
		cv = 1
	}
	return 100 * (1 - cv)
}

// ClusteringScore rewards days whose consecutive stops sit close together.
// Days with fewer than two located places carry no signal and are skipped.
func (m *Metrics) ClusteringScore() float64 {
	var dayScores []float64
	for _, d := range m.days {
		pts := eventPoints(m.byDay[d])
		if len(pts) < 2 {
			continue
		}
		total := 0.0
		for i := 1; i < len(pts); i++ {
			total += geo.Haversine(pts[i-1], pts[i])
		}
		frac := total / float64(len(pts)-1) / clusterRadiusMeters
		if frac > 1 {
			frac = 1
		}
		dayScores = append(dayScores, 100*(1-frac))
	}
	if len(dayScores) == 0 {
		return 100
	}
	return stat.Mean(dayScores, nil)
}

// Scores returns every metric plus the weighted total.
func (m *Metrics) Scores() map[string]float64 {
	scores := map[string]float64{
		"distance":     m.DistanceScore(),
		"time_window":  m.TimeWindowScore(),
		"distribution": m.DistributionScore(),
		"clustering":   m.ClusteringScore(),
	}
	total := 0.0
	for name, weight := range metricWeights {
		total += weight * scores[name]
	}
	scores["total"] = total
	return scores
}

// eventPoints resolves event locations in visit order, skipping records
// without coordinates.
func eventPoints(events []trip.Event) []geo.Point {
	pts := make([]geo.Point, 0, len(events))
	for _, ev := range events {
		if pt, err := place.Place(ev.Place).Location(); err == nil {
			pts = append(pts, pt)
		}
	}
	return pts
}

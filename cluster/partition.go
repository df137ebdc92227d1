package cluster

import (
	"context"
	"fmt"
	"math"

	"github.com/luowanxu/Level-4-Project/geo"
	"github.com/luowanxu/Level-4-Project/log"
	"github.com/luowanxu/Level-4-Project/place"
	"github.com/luowanxu/Level-4-Project/trip"
)

const (
	// mealReserveMinutes is held back from each day for lunch and dinner.
	mealReserveMinutes = 2 * place.VirtualMealDuration
	// avgTransitMinutes pads every visit for the hop to the next stop.
	avgTransitMinutes = 30
	// defaultVisitMinutes stands in when a trip has no attractions at all.
	defaultVisitMinutes = 120
)

// Capacity computes how many attractions fit into one day given their
// average visit duration, and how many days the trip actually needs. The
// returned day count never shrinks below the requested one.
func Capacity(attractions []*place.NormalizedPlace, days int) (maxPerDay, requiredDays int) {
	available := float64(trip.DayEnd-trip.DayStart) - mealReserveMinutes

	avgVisit := float64(defaultVisitMinutes)
	if len(attractions) > 0 {
		total := 0
		for _, p := range attractions {
			total += p.VisitDuration
		}
		avgVisit = float64(total) / float64(len(attractions))
	}

	maxPerDay = int(available / (avgVisit + avgTransitMinutes))
	if maxPerDay < 1 {
		maxPerDay = 1
	}

	requiredDays = days
	if len(attractions) > 0 {
		need := int(math.Ceil(float64(len(attractions)) / float64(maxPerDay)))
		if need > requiredDays {
			requiredDays = need
		}
	}
	return maxPerDay, requiredDays
}

// Partition assigns normalized places to day buckets. Attractions are
// grouped geographically with Ward clustering and balanced against the
// per-day capacity, restaurants are dealt out across pairs of consecutive
// days, and every bucket is topped up with virtual meals until it can seat
// both lunch and dinner. The returned day count may exceed the requested
// one when the places do not fit.
func Partition(ctx context.Context, normalized []*place.NormalizedPlace, days int, mode trip.TransportMode) ([]DayBucket, int, error) {
	if days < 1 {
		return nil, 0, fmt.Errorf("%w: day count must be at least 1", trip.ErrInputInvalid)
	}
	if len(normalized) == 0 {
		return nil, 0, fmt.Errorf("%w: no places to partition", trip.ErrInputInvalid)
	}

	var restaurants, attractions []*place.NormalizedPlace
	for _, p := range normalized {
		if p.IsRestaurant() {
			restaurants = append(restaurants, p)
		} else {
			attractions = append(attractions, p)
		}
	}

	log.Infof(ctx, "Partition: %d attractions, %d restaurants over %d days (%s)",
		len(attractions), len(restaurants), days, mode)

	// Sparse dining trips skip clustering entirely.
	if len(attractions) == 0 && len(restaurants) <= 2 {
		return sparseDiningBuckets(restaurants, days), days, nil
	}

	maxPerDay, requiredDays := Capacity(attractions, days)
	if requiredDays > days {
		log.Infof(ctx, "Partition: extending trip from %d to %d days to fit %d attractions",
			days, requiredDays, len(attractions))
		days = requiredDays
	}

	buckets := make([]DayBucket, days)

	switch {
	case len(attractions) == 1:
		buckets[0] = append(buckets[0], attractions[0])
	case len(attractions) > 1:
		coords := make([]geo.Point, len(attractions))
		for i, p := range attractions {
			coords[i] = p.Location
		}
		labels := wardCluster(coords, days)
		for i, p := range attractions {
			buckets[labels[i]] = append(buckets[labels[i]], p)
		}
		balance(buckets, maxPerDay)
	}

	assignRestaurants(buckets, restaurants, days)
	completeMeals(buckets, normalized)

	for i, b := range buckets {
		log.Debugf(ctx, "Partition: day %d holds %d places", i, len(b))
	}
	return buckets, days, nil
}

// sparseDiningBuckets handles trips with no attractions and at most two
// restaurants. Restaurants are spread one per day and every day is padded
// with virtual meals around their shared centre.
func sparseDiningBuckets(restaurants []*place.NormalizedPlace, days int) []DayBucket {
	buckets := make([]DayBucket, days)

	if days == 1 {
		buckets[0] = append(buckets[0], restaurants...)
		if len(restaurants) == 1 {
			buckets[0] = append(buckets[0], place.NewVirtualMeal(trip.MealDinner, restaurants[0].Location))
		}
		return buckets
	}

	pts := make([]geo.Point, len(restaurants))
	for i, r := range restaurants {
		pts[i] = r.Location
	}
	center := geo.Centroid(pts)

	for i, r := range restaurants {
		buckets[i] = append(buckets[i], r)
	}
	for i := range buckets {
		switch len(buckets[i]) {
		case 0:
			buckets[i] = append(buckets[i],
				place.NewVirtualMeal(trip.MealLunch, center),
				place.NewVirtualMeal(trip.MealDinner, center))
		case 1:
			buckets[i] = append(buckets[i], place.NewVirtualMeal(trip.MealDinner, center))
		}
	}
	return buckets
}

// balance moves members out of overflowing buckets until every bucket fits
// maxPerDay: the member farthest from the source centroid goes to the
// non-full bucket whose centroid is nearest. An empty destination inherits
// the source centre, so it always wins the nearest check.
func balance(buckets []DayBucket, maxPerDay int) {
	for changed := true; changed; {
		changed = false
		for i := range buckets {
			if len(buckets[i]) <= maxPerDay {
				continue
			}
			srcCenter := buckets[i].Centroid()

			target := -1
			bestDist := math.MaxFloat64
			for j := range buckets {
				if j == i || len(buckets[j]) >= maxPerDay {
					continue
				}
				center := srcCenter
				if len(buckets[j]) > 0 {
					center = buckets[j].Centroid()
				}
				if d := geo.Haversine(srcCenter, center); d < bestDist {
					bestDist = d
					target = j
				}
			}
			if target < 0 {
				continue
			}

			far := 0
			farDist := -1.0
			for k, p := range buckets[i] {
				if d := geo.Haversine(srcCenter, p.Location); d > farDist {
					farDist = d
					far = k
				}
			}
			moved := buckets[i][far]
			buckets[i] = append(buckets[i][:far], buckets[i][far+1:]...)
			buckets[target] = append(buckets[target], moved)
			changed = true
		}
	}
}

// assignRestaurants groups dining venues geographically and deals each
// group out across a pair of consecutive days. Groups larger than one are
// split in half between the pair; when the second day of the final pair
// does not exist, the remainder folds back onto the first.
func assignRestaurants(buckets []DayBucket, restaurants []*place.NormalizedPlace, days int) {
	if len(restaurants) == 0 {
		return
	}

	groupCount := (days + 1) / 2
	if groupCount < 1 {
		groupCount = 1
	}

	groups := make([][]*place.NormalizedPlace, groupCount)
	if len(restaurants) == 1 {
		groups[0] = restaurants
	} else {
		coords := make([]geo.Point, len(restaurants))
		for i, r := range restaurants {
			coords[i] = r.Location
		}
		labels := wardCluster(coords, groupCount)
		for i, r := range restaurants {
			groups[labels[i]] = append(groups[labels[i]], r)
		}
	}

	groupIdx := 0
	for day := 0; day < days && groupIdx < len(groups); day += 2 {
		group := groups[groupIdx]
		groupIdx++
		if len(group) <= 1 {
			buckets[day] = append(buckets[day], group...)
			continue
		}
		mid := len(group) / 2
		buckets[day] = append(buckets[day], group[:mid]...)
		if day+1 < days {
			buckets[day+1] = append(buckets[day+1], group[mid:]...)
		} else {
			buckets[day] = append(buckets[day], group[mid:]...)
		}
	}
}

// completeMeals tops every bucket up to two meal options, anchoring virtual
// slots at the bucket centroid, or at the centroid of the whole trip when
// the bucket is empty.
func completeMeals(buckets []DayBucket, all []*place.NormalizedPlace) {
	pts := make([]geo.Point, len(all))
	for i, p := range all {
		pts[i] = p.Location
	}
	global := geo.Centroid(pts)

	for i := range buckets {
		at := global
		if len(buckets[i]) > 0 {
			at = buckets[i].Centroid()
		}
		switch len(buckets[i].Restaurants()) {
		case 0:
			buckets[i] = append(buckets[i],
				place.NewVirtualMeal(trip.MealLunch, at),
				place.NewVirtualMeal(trip.MealDinner, at))
		case 1:
			buckets[i] = append(buckets[i], place.NewVirtualMeal(trip.MealDinner, at))
		}
	}
}

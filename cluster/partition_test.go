package cluster

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luowanxu/Level-4-Project/geo"
	"github.com/luowanxu/Level-4-Project/place"
	"github.com/luowanxu/Level-4-Project/trip"
)

func attraction(name string, lat, lng float64, visit int) *place.NormalizedPlace {
	return &place.NormalizedPlace{
		ID:            name,
		Name:          name,
		Location:      geo.Point{Lat: lat, Lng: lng},
		Category:      place.CategoryTouristAttraction,
		VisitDuration: visit,
		Rating:        4.0,
	}
}

func restaurant(name string, lat, lng float64) *place.NormalizedPlace {
	return &place.NormalizedPlace{
		ID:            name,
		Name:          name,
		Location:      geo.Point{Lat: lat, Lng: lng},
		Category:      place.CategoryRestaurant,
		VisitDuration: 75,
		Rating:        4.2,
	}
}

func TestWardCluster(t *testing.T) {
	t.Run("separates two distant groups", func(t *testing.T) {
		points := []geo.Point{
			{Lat: 48.85, Lng: 2.35},
			{Lat: 48.851, Lng: 2.351},
			{Lat: 48.852, Lng: 2.349},
			{Lat: 48.95, Lng: 2.45},
			{Lat: 48.951, Lng: 2.451},
		}
		labels := wardCluster(points, 2)
		assert.Equal(t, labels[0], labels[1])
		assert.Equal(t, labels[0], labels[2])
		assert.Equal(t, labels[3], labels[4])
		assert.NotEqual(t, labels[0], labels[3])
	})

	t.Run("more clusters than points yields singletons", func(t *testing.T) {
		points := []geo.Point{{Lat: 1}, {Lat: 2}}
		assert.Equal(t, []int{0, 1}, wardCluster(points, 5))
	})

	t.Run("single cluster", func(t *testing.T) {
		points := []geo.Point{{Lat: 1}, {Lat: 2}, {Lat: 3}}
		assert.Equal(t, []int{0, 0, 0}, wardCluster(points, 1))
	})
}

func TestCapacity(t *testing.T) {
	t.Run("default visit time with no attractions", func(t *testing.T) {
		maxPerDay, required := Capacity(nil, 3)
		// 570 available / (120 + 30) = 3 places per day.
		assert.Equal(t, 3, maxPerDay)
		assert.Equal(t, 3, required)
	})

	t.Run("extends the trip when places do not fit", func(t *testing.T) {
		var attractions []*place.NormalizedPlace
		for i := 0; i < 10; i++ {
			attractions = append(attractions, attraction("a", 48.85, 2.35, 120))
		}
		maxPerDay, required := Capacity(attractions, 2)
		assert.Equal(t, 3, maxPerDay)
		assert.Equal(t, 4, required)
	})

	t.Run("long visits shrink the per day capacity", func(t *testing.T) {
		attractions := []*place.NormalizedPlace{
			attraction("a", 48.85, 2.35, 240),
			attraction("b", 48.86, 2.36, 240),
		}
		maxPerDay, _ := Capacity(attractions, 1)
		// 570 / 270 = 2 places per day.
		assert.Equal(t, 2, maxPerDay)
	})
}

func TestPartition(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects empty input", func(t *testing.T) {
		_, _, err := Partition(ctx, nil, 2, trip.ModeWalking)
		require.Error(t, err)
		assert.ErrorIs(t, err, trip.ErrInputInvalid)
	})

	t.Run("every day can seat lunch and dinner", func(t *testing.T) {
		normalized := []*place.NormalizedPlace{
			attraction("louvre", 48.8606, 2.3376, 150),
			attraction("orsay", 48.8600, 2.3266, 120),
			attraction("eiffel", 48.8584, 2.2945, 120),
			restaurant("bistro", 48.8590, 2.3300),
		}
		buckets, days, err := Partition(ctx, normalized, 2, trip.ModeWalking)
		require.NoError(t, err)
		assert.Equal(t, 2, days)
		require.Len(t, buckets, 2)
		for i, b := range buckets {
			assert.GreaterOrEqual(t, len(b.Restaurants()), 2, "day %d", i)
		}
	})

	t.Run("extends days and balances overflow", func(t *testing.T) {
		var normalized []*place.NormalizedPlace
		for i := 0; i < 10; i++ {
			normalized = append(normalized, attraction("a", 48.85+float64(i)*0.001, 2.35, 120))
		}
		buckets, days, err := Partition(ctx, normalized, 2, trip.ModeWalking)
		require.NoError(t, err)
		// 570 / 150 = 3 per day, so ten attractions need four days.
		assert.Equal(t, 4, days)
		require.Len(t, buckets, 4)
		total := 0
		for i, b := range buckets {
			attractions := b.Attractions()
			total += len(attractions)
			assert.LessOrEqual(t, len(attractions), 3, "day %d overflows", i)
		}
		assert.Equal(t, 10, total)
	})

	t.Run("keeps every place exactly once", func(t *testing.T) {
		normalized := []*place.NormalizedPlace{
			attraction("a", 48.85, 2.35, 90),
			attraction("b", 48.87, 2.37, 90),
			attraction("c", 48.84, 2.33, 90),
			restaurant("r1", 48.86, 2.36),
			restaurant("r2", 48.85, 2.34),
		}
		buckets, _, err := Partition(ctx, normalized, 3, trip.ModeTransit)
		require.NoError(t, err)
		seen := map[string]int{}
		for _, b := range buckets {
			for _, p := range b {
				if !p.IsVirtual() {
					seen[p.ID]++
				}
			}
		}
		assert.Len(t, seen, 5)
		for id, n := range seen {
			assert.Equal(t, 1, n, "place %s assigned %d times", id, n)
		}
	})

	t.Run("nearby attractions share a day", func(t *testing.T) {
		normalized := []*place.NormalizedPlace{
			attraction("west1", 48.858, 2.294, 90),
			attraction("west2", 48.859, 2.295, 90),
			attraction("east1", 48.853, 2.369, 90),
			attraction("east2", 48.854, 2.370, 90),
		}
		buckets, _, err := Partition(ctx, normalized, 2, trip.ModeWalking)
		require.NoError(t, err)
		byID := map[string]int{}
		for day, b := range buckets {
			for _, p := range b {
				if !p.IsVirtual() {
					byID[p.ID] = day
				}
			}
		}
		assert.Equal(t, byID["west1"], byID["west2"])
		assert.Equal(t, byID["east1"], byID["east2"])
		assert.NotEqual(t, byID["west1"], byID["east1"])
	})
}

func TestPartitionSparseDining(t *testing.T) {
	ctx := context.Background()

	t.Run("single restaurant single day", func(t *testing.T) {
		r := restaurant("bistro", 48.85, 2.35)
		buckets, days, err := Partition(ctx, []*place.NormalizedPlace{r}, 1, trip.ModeWalking)
		require.NoError(t, err)
		assert.Equal(t, 1, days)
		require.Len(t, buckets, 1)
		require.Len(t, buckets[0], 2)
		assert.Equal(t, "bistro", buckets[0][0].Name)
		assert.True(t, buckets[0][1].IsVirtual())
		meal, _ := buckets[0][1].MealType()
		assert.Equal(t, trip.MealDinner, meal)
		// The virtual dinner sits at the restaurant's own location.
		assert.Equal(t, r.Location, buckets[0][1].Location)
	})

	t.Run("two restaurants two days spread one per day", func(t *testing.T) {
		normalized := []*place.NormalizedPlace{
			restaurant("r1", 48.85, 2.35),
			restaurant("r2", 48.86, 2.36),
		}
		buckets, days, err := Partition(ctx, normalized, 2, trip.ModeDriving)
		require.NoError(t, err)
		assert.Equal(t, 2, days)
		for i, b := range buckets {
			realCount := 0
			for _, p := range b.Restaurants() {
				if !p.IsVirtual() {
					realCount++
				}
			}
			assert.Equal(t, 1, realCount, "day %d", i)
			assert.GreaterOrEqual(t, len(b.Restaurants()), 2, "day %d", i)
		}
	})

	t.Run("one restaurant three days pads the rest", func(t *testing.T) {
		normalized := []*place.NormalizedPlace{restaurant("r1", 48.85, 2.35)}
		buckets, days, err := Partition(ctx, normalized, 3, trip.ModeTransit)
		require.NoError(t, err)
		assert.Equal(t, 3, days)
		for i, b := range buckets {
			assert.GreaterOrEqual(t, len(b.Restaurants()), 2, "day %d", i)
		}
		assert.False(t, buckets[0].AllVirtual())
		assert.True(t, buckets[1].AllVirtual())
		assert.True(t, buckets[2].AllVirtual())
	})
}

func TestBalance(t *testing.T) {
	over := DayBucket{
		attraction("near1", 48.850, 2.350, 90),
		attraction("near2", 48.851, 2.351, 90),
		attraction("far", 48.900, 2.400, 90),
	}
	buckets := []DayBucket{over, {}}
	balance(buckets, 2)

	require.Len(t, buckets[0], 2)
	require.Len(t, buckets[1], 1)
	// The geographically farthest member is the one that moves.
	assert.Equal(t, "far", buckets[1][0].Name)
}

func TestAssignRestaurants(t *testing.T) {
	t.Run("group splits across a day pair", func(t *testing.T) {
		buckets := make([]DayBucket, 2)
		rs := []*place.NormalizedPlace{
			restaurant("r1", 48.85, 2.35),
			restaurant("r2", 48.851, 2.351),
		}
		assignRestaurants(buckets, rs, 2)
		assert.Len(t, buckets[0].Restaurants(), 1)
		assert.Len(t, buckets[1].Restaurants(), 1)
	})

	t.Run("remainder folds onto the last day", func(t *testing.T) {
		buckets := make([]DayBucket, 1)
		rs := []*place.NormalizedPlace{
			restaurant("r1", 48.85, 2.35),
			restaurant("r2", 48.851, 2.351),
		}
		assignRestaurants(buckets, rs, 1)
		assert.Len(t, buckets[0].Restaurants(), 2)
	})
}

func TestDayBucketHelpers(t *testing.T) {
	b := DayBucket{
		attraction("a", 48.85, 2.35, 90),
		restaurant("r", 48.86, 2.36),
		place.NewVirtualMeal(trip.MealDinner, geo.Point{Lat: 48.855, Lng: 2.355}),
	}
	assert.Len(t, b.Restaurants(), 2)
	assert.Len(t, b.Attractions(), 1)
	assert.False(t, b.AllVirtual())
	assert.True(t, DayBucket{}.AllVirtual())

	c := b.Centroid()
	assert.InDelta(t, 48.855, c.Lat, 1e-6)
}

// Durations drawn by normalization feed straight into capacity, so the two
// must agree on what fits in a day.
func TestPartitionUsesDrawnDurations(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	raw := []place.Place{
		{"name": "m1", "types": []string{"museum"}, "geometry": map[string]interface{}{"location": map[string]interface{}{"lat": 48.85, "lng": 2.35}}},
		{"name": "m2", "types": []string{"museum"}, "geometry": map[string]interface{}{"location": map[string]interface{}{"lat": 48.86, "lng": 2.36}}},
		{"name": "m3", "types": []string{"museum"}, "geometry": map[string]interface{}{"location": map[string]interface{}{"lat": 48.87, "lng": 2.37}}},
		{"name": "m4", "types": []string{"museum"}, "geometry": map[string]interface{}{"location": map[string]interface{}{"lat": 48.88, "lng": 2.38}}},
		{"name": "m5", "types": []string{"museum"}, "geometry": map[string]interface{}{"location": map[string]interface{}{"lat": 48.89, "lng": 2.39}}},
		{"name": "m6", "types": []string{"museum"}, "geometry": map[string]interface{}{"location": map[string]interface{}{"lat": 48.90, "lng": 2.40}}},
	}
	normalized, _, err := place.Normalize(context.Background(), raw, rng)
	require.NoError(t, err)

	buckets, days, err := Partition(context.Background(), normalized, 1, trip.ModeWalking)
	require.NoError(t, err)
	maxPerDay, _ := Capacity(normalized, 1)
	assert.GreaterOrEqual(t, days, (len(normalized)+maxPerDay-1)/maxPerDay)
	for i, b := range buckets {
		assert.LessOrEqual(t, len(b.Attractions()), maxPerDay, "day %d", i)
	}
}

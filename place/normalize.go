package place

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"

	"github.com/luowanxu/Level-4-Project/geo"
	"github.com/luowanxu/Level-4-Project/log"
	"github.com/luowanxu/Level-4-Project/trip"
)

// Category classifies a normalized place for duration and routing purposes.
type Category string

const (
	CategoryLodging           Category = "lodging"
	CategoryRestaurant        Category = "restaurant"
	CategoryMuseum            Category = "museum"
	CategoryPark              Category = "park"
	CategoryShoppingMall      Category = "shopping_mall"
	CategoryTouristAttraction Category = "tourist_attraction"
	CategoryDefault           Category = "default"
)

// Variant distinguishes real places from synthesized meal slots.
type Variant int

const (
	Real Variant = iota
	VirtualLunch
	VirtualDinner
)

// NormalizedPlace is the canonical in-planner representation of a place.
type NormalizedPlace struct {
	ID            string
	Name          string
	Location      geo.Point
	Category      Category
	VisitDuration int
	Variant       Variant
	Rating        float64
	PriceLevel    int
	Original      Place
}

// IsLodging reports whether the place is the day anchor.
func (p *NormalizedPlace) IsLodging() bool {
	return p.Category == CategoryLodging
}

// IsRestaurant reports whether the place can serve a meal slot.
func (p *NormalizedPlace) IsRestaurant() bool {
	return p.Category == CategoryRestaurant
}

// IsVirtual reports whether the place is a synthesized meal slot.
func (p *NormalizedPlace) IsVirtual() bool {
	return p.Variant != Real
}

// MealType returns the meal window a virtual slot is tagged with.
func (p *NormalizedPlace) MealType() (trip.MealType, bool) {
	switch p.Variant {
	case VirtualLunch:
		return trip.MealLunch, true
	case VirtualDinner:
		return trip.MealDinner, true
	}
	return "", false
}

// visitDurationRange bounds the uniform duration draw per category, in
// minutes.
type visitDurationRange struct {
	min, max int
}

var visitDurations = map[Category]visitDurationRange{
	CategoryRestaurant:        {min: 60, max: 90},
	CategoryTouristAttraction: {min: 60, max: 180},
	CategoryMuseum:            {min: 120, max: 240},
	CategoryPark:              {min: 60, max: 120},
	CategoryShoppingMall:      {min: 60, max: 180},
	CategoryDefault:           {min: 60, max: 180},
}

// categorize resolves category tags by priority: restaurant, museum, park,
// shopping mall, then generic attraction.
func categorize(types []string) Category {
	has := make(map[string]bool, len(types))
	for _, t := range types {
		has[t] = true
	}
	switch {
	case has["restaurant"]:
		return CategoryRestaurant
	case has["museum"]:
		return CategoryMuseum
	case has["park"]:
		return CategoryPark
	case has["shopping_mall"]:
		return CategoryShoppingMall
	case has["tourist_attraction"], has["point_of_interest"]:
		return CategoryTouristAttraction
	}
	return CategoryDefault
}

func hasLodgingTag(types []string) bool {
	for _, t := range types {
		if t == "lodging" || t == "hotel" {
			return true
		}
	}
	return false
}

func drawVisitDuration(cat Category, rng *rand.Rand) int {
	r, ok := visitDurations[cat]
	if !ok {
		r = visitDurations[CategoryDefault]
	}
	return r.min + rng.Intn(r.max-r.min+1)
}

// Normalize canonicalizes raw place records and splits out the lodging
// anchor. The first record tagged lodging or hotel becomes the anchor and
// later lodgings are dropped. Records missing a name, category tags or a
// usable location are skipped with a warning. Visit durations are drawn
// uniformly from the category range using rng, which must not be nil.
func Normalize(ctx context.Context, places []Place, rng *rand.Rand) ([]*NormalizedPlace, *NormalizedPlace, error) {
	var (
		normalized []*NormalizedPlace
		lodging    *NormalizedPlace
	)

	for i, raw := range places {
		name := raw.Name()
		if name == "" {
			log.Warnf(ctx, "Normalize: skipping place %d: missing field name", i)
			continue
		}
		types := raw.Types()
		if len(types) == 0 {
			log.Warnf(ctx, "Normalize: skipping place %q: missing field types", name)
			continue
		}
		loc, err := raw.Location()
		if err != nil {
			log.Warnf(ctx, "Normalize: skipping place %q: %v", name, err)
			continue
		}

		if hasLodgingTag(types) {
			if lodging == nil {
				lodging = &NormalizedPlace{
					ID:       raw.ID("hotel"),
					Name:     name,
					Location: loc,
					Category: CategoryLodging,
					Rating:   raw.Rating(),
					Original: raw,
				}
			} else {
				log.Warnf(ctx, "Normalize: ignoring extra lodging %q", name)
			}
			continue
		}

		cat := categorize(types)
		normalized = append(normalized, &NormalizedPlace{
			ID:            raw.ID(strconv.Itoa(len(normalized))),
			Name:          name,
			Location:      loc,
			Category:      cat,
			VisitDuration: drawVisitDuration(cat, rng),
			Rating:        raw.Rating(),
			PriceLevel:    raw.PriceLevel(),
			Original:      raw,
		})
	}

	if len(normalized) == 0 {
		return nil, lodging, fmt.Errorf("%w: no valid places after normalization", trip.ErrInputInvalid)
	}
	return normalized, lodging, nil
}

package place

import (
	"fmt"

	"github.com/luowanxu/Level-4-Project/geo"
	"github.com/luowanxu/Level-4-Project/trip"
)

// VirtualMealDuration is the fixed length of a synthesized meal slot.
const VirtualMealDuration = 75

const virtualMealPriceLevel = 2

// NewVirtualMeal synthesizes a placeholder restaurant anchored to the given
// meal window. Virtual meals keep lunch and dinner satisfiable on days
// without enough real dining options.
func NewVirtualMeal(meal trip.MealType, at geo.Point) *NormalizedPlace {
	name := "Lunch Break"
	variant := VirtualLunch
	if meal == trip.MealDinner {
		name = "Dinner Break"
		variant = VirtualDinner
	}
	return &NormalizedPlace{
		ID:            fmt.Sprintf("virtual-%s-%.6f-%.6f", meal, at.Lat, at.Lng),
		Name:          name,
		Location:      at,
		Category:      CategoryRestaurant,
		VisitDuration: VirtualMealDuration,
		Variant:       variant,
		Rating:        0,
		PriceLevel:    virtualMealPriceLevel,
		Original: Place{
			"name":               name,
			"types":              []string{"restaurant"},
			"rating":             0.0,
			"user_ratings_total": 0,
			"price_level":        virtualMealPriceLevel,
			"location": map[string]interface{}{
				"lat": at.Lat,
				"lng": at.Lng,
			},
		},
	}
}

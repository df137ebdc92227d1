package trip

// MealType tags a restaurant slot as lunch or dinner.
type MealType string

const (
	MealLunch  MealType = "lunch"
	MealDinner MealType = "dinner"
)

// MealWindow is the interval in which a meal may be scheduled, with the
// preferred sitting time.
type MealWindow struct {
	Start   Clock
	End     Clock
	Optimal Clock
}

// Meal windows shared by the router and the metric suite.
var (
	LunchWindow  = MealWindow{Start: NewClock(11, 0), End: NewClock(14, 0), Optimal: NewClock(12, 30)}
	DinnerWindow = MealWindow{Start: NewClock(17, 0), End: NewClock(20, 0), Optimal: NewClock(18, 30)}
)

// WindowFor returns the window matching the given meal type.
func WindowFor(meal MealType) MealWindow {
	if meal == MealDinner {
		return DinnerWindow
	}
	return LunchWindow
}

// Contains reports whether t falls inside the window, bounds included.
func (w MealWindow) Contains(t Clock) bool {
	return w.Start <= t && t <= w.End
}

// TimeFit scores how close t sits to the window's optimal time: 1 at the
// optimum, falling linearly toward the window edges, 0 outside.
func (w MealWindow) TimeFit(t Clock) float64 {
	if !w.Contains(t) {
		return 0
	}
	diff := float64(t - w.Optimal)
	if diff < 0 {
		diff = -diff
	}
	fit := 1 - diff/float64(w.End-w.Start)
	if fit < 0 {
		return 0
	}
	if fit > 1 {
		return 1
	}
	return fit
}

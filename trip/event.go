package trip

// EventType distinguishes place visits from transit legs.
type EventType string

const (
	EventPlace   EventType = "place"
	EventTransit EventType = "transit"
)

// Event is a single schedule entry. Place events carry the original place
// record under Place; transit events carry a duration and mode instead.
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Day       int                    `json:"day"`
	StartTime string                 `json:"startTime"`
	EndTime   string                 `json:"endTime"`
	Title     string                 `json:"title,omitempty"`
	Place     map[string]interface{} `json:"place,omitempty"`
	Duration  int                    `json:"duration,omitempty"`
	Mode      TransportMode          `json:"mode,omitempty"`

	// PlaceID is the normalized place identifier, Virtual marks
	// synthesized meal placeholders, Meal carries their tagged window.
	// All three are in-process metadata, not wire fields. PlaceID is
	// needed because raw records may carry no id of their own.
	PlaceID string   `json:"-"`
	Virtual bool     `json:"-"`
	Meal    MealType `json:"-"`
}

// SummaryMetrics are the headline counts attached to a generated schedule.
type SummaryMetrics struct {
	TotalPlaces     int `json:"total_places"`
	TotalTravelTime int `json:"total_travel_time"`
	Restaurants     int `json:"restaurants"`
	Attractions     int `json:"attractions"`
}

package trip

import (
	"fmt"
	"strings"
)

// Clock is a time of day expressed in minutes since midnight.
type Clock int

// NewClock builds a Clock from an hour and minute.
func NewClock(hour, minute int) Clock { return Clock(hour*60 + minute) }

// Day window boundaries for place visits.
var (
	DayStart = NewClock(9, 0)
	DayEnd   = NewClock(21, 0)
)

// Hour returns the hour component, counting past 24 for times that spill
// into the next day.
func (c Clock) Hour() int { return int(c) / 60 }

// Minute returns the minute component.
func (c Clock) Minute() int { return int(c) % 60 }

// Add returns the clock advanced by the given number of minutes.
func (c Clock) Add(minutes int) Clock { return c + Clock(minutes) }

// Format renders the clock in 12-hour form, e.g. "09:00 AM". Times past
// midnight wrap into the next day.
func (c Clock) Format() string {
	h := c.Hour() % 24
	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}
	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%02d:%02d %s", h12, c.Minute(), suffix)
}

// ParseClock parses a 12-hour clock string such as "09:00 AM", inverting
// Format.
func ParseClock(s string) (Clock, error) {
	var h, m int
	var suffix string
	if _, err := fmt.Sscanf(s, "%d:%d %s", &h, &m, &suffix); err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", s, err)
	}
	if h < 1 || h > 12 || m < 0 || m > 59 {
		return 0, fmt.Errorf("parse clock %q: out of range", s)
	}
	switch strings.ToUpper(suffix) {
	case "AM":
		if h == 12 {
			h = 0
		}
	case "PM":
		if h != 12 {
			h += 12
		}
	default:
		return 0, fmt.Errorf("parse clock %q: bad meridiem %q", s, suffix)
	}
	return NewClock(h, m), nil
}

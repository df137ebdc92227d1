// Package trip defines the shared domain model for itinerary planning:
// transport modes, the trip clock, meal windows, schedule events and the
// planner's error kinds.
package trip

import (
	"errors"
	"fmt"
)

// TransportMode selects the speed, detour factor and time bounds used for
// travel-time estimates.
type TransportMode string

const (
	ModeWalking TransportMode = "walking"
	ModeTransit TransportMode = "transit"
	ModeDriving TransportMode = "driving"
)

// Modes lists every supported transport mode.
var Modes = []TransportMode{ModeWalking, ModeTransit, ModeDriving}

// ParseMode validates a transport mode string.
func ParseMode(s string) (TransportMode, error) {
	switch TransportMode(s) {
	case ModeWalking, ModeTransit, ModeDriving:
		return TransportMode(s), nil
	}
	return "", fmt.Errorf("%w: unknown transport mode %q", ErrInputInvalid, s)
}

// Planner error kinds. Wrapped errors are matched with errors.Is.
var (
	ErrInputInvalid      = errors.New("invalid input")
	ErrNoLodging         = errors.New("no lodging place found")
	ErrCapacityViolation = errors.New("too many places for the trip duration")
	ErrInternalFailure   = errors.New("internal failure")
)

// Package schedule orchestrates the full planning pipeline: input
// validation, normalization, day partitioning, per-day routing and final
// assembly with reasonability checks.
package schedule

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/luowanxu/Level-4-Project/cluster"
	"github.com/luowanxu/Level-4-Project/log"
	"github.com/luowanxu/Level-4-Project/place"
	"github.com/luowanxu/Level-4-Project/route"
	"github.com/luowanxu/Level-4-Project/trip"
)

// Request is the planner input contract.
type Request struct {
	Places        []place.Place `json:"places"`
	StartDate     string        `json:"startDate"`
	EndDate       string        `json:"endDate"`
	TransportMode string        `json:"transportMode"`
}

// Response is the planner output contract.
type Response struct {
	Success bool                 `json:"success"`
	Error   string               `json:"error,omitempty"`
	Events  []trip.Event         `json:"events,omitempty"`
	Metrics *trip.SummaryMetrics `json:"metrics,omitempty"`
	Status  trip.ScheduleStatus  `json:"scheduleStatus"`
}

// maxPlacesPerDay bounds how many attractions one day can absorb before the
// request is rejected outright.
const maxPlacesPerDay = 8

const dateLayout = "2006-01-02"

// Service turns place lists into day-by-day schedules. Safe for concurrent
// use; the matrix cache is shared across requests.
type Service struct {
	matrices *matrixCache
}

// NewService builds a planner. matrixCacheSize bounds the pairwise matrix
// cache; zero or negative disables it.
func NewService(matrixCacheSize int) *Service {
	return &Service{matrices: newMatrixCache(matrixCacheSize)}
}

// GenerateSchedule plans the trip described by req. Visit durations are
// drawn from rng, so a fixed seed yields a reproducible schedule; a nil rng
// is seeded from the clock. The returned error is non-nil exactly when the
// response reports failure, and wraps one of the trip sentinel errors.
func (s *Service) GenerateSchedule(ctx context.Context, req Request, rng *rand.Rand) (*Response, error) {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	log.Infof(ctx, "ScheduleService: planning %d places from %s to %s",
		len(req.Places), req.StartDate, req.EndDate)

	days, mode, err := ValidateRequest(req)
	if err != nil {
		log.Errorf(ctx, "ScheduleService: invalid request: %v", err)
		return failureResponse(err, trip.Warning{
			Type:       trip.WarnError,
			Message:    err.Error(),
			Suggestion: "Please check the request parameters and try again.",
		}), err
	}

	normalized, lodging, err := place.Normalize(ctx, req.Places, rng)
	if err != nil {
		log.Errorf(ctx, "ScheduleService: normalization failed: %v", err)
		return failureResponse(err, trip.Warning{
			Type:       trip.WarnError,
			Message:    err.Error(),
			Suggestion: "Please check the place records and try again.",
		}), err
	}

	if lodging == nil {
		err := trip.ErrNoLodging
		log.Errorf(ctx, "ScheduleService: %v", err)
		return failureResponse(err, trip.Warning{
			Type:       trip.WarnNoLodging,
			Message:    "No lodging place found in the request.",
			Suggestion: "Add a hotel or other lodging so each day has a start and end anchor.",
		}), err
	}

	attractions := 0
	for _, p := range normalized {
		if !p.IsRestaurant() {
			attractions++
		}
	}
	if attractions > days*maxPlacesPerDay {
		err := fmt.Errorf("%w: %d attractions for %d day(s)", trip.ErrCapacityViolation, attractions, days)
		log.Errorf(ctx, "ScheduleService: %v", err)
		return failureResponse(err, trip.Warning{
			Type:    trip.WarnTooManyPlaces,
			Message: fmt.Sprintf("Too many places (%d) for %d day(s).", attractions, days),
			Suggestion: fmt.Sprintf("Consider either increasing the number of days or reducing the number of places. "+
				"Recommended maximum is %d places per day.", maxPlacesPerDay),
		}), err
	}

	buckets, days, err := cluster.Partition(ctx, normalized, days, mode)
	if err != nil {
		err = fmt.Errorf("%w: partitioning: %v", trip.ErrInternalFailure, err)
		log.Errorf(ctx, "ScheduleService: %v", err)
		return failureResponse(err, trip.Warning{
			Type:       trip.WarnError,
			Message:    "An internal error occurred while grouping places into days.",
			Suggestion: "Please try again.",
		}), err
	}

	consumed := make(map[string]bool)
	plans := make([]route.DayPlan, 0, len(buckets))
	for i, bucket := range buckets {
		if len(bucket) == 0 {
			log.Warnf(ctx, "ScheduleService: day %d bucket is empty, skipping", i)
			continue
		}
		matrix := s.matrices.matrixFor(lodging, bucket, mode)
		plan, score := route.Route(ctx, bucket, lodging, matrix, mode, consumed)
		log.Debugf(ctx, "ScheduleService: day %d routed with score %.1f", i, score)
		plans = append(plans, plan)
	}

	events := Assemble(plans, mode)
	metrics := Summarize(events)
	status := CheckReasonability(ctx, normalized, buckets, events)

	log.Infof(ctx, "ScheduleService: built %d events over %d days (matrix cache holds %d)",
		len(events), days, s.matrices.size())

	return &Response{
		Success: true,
		Events:  events,
		Metrics: &metrics,
		Status:  status,
	}, nil
}

// ValidateRequest checks the basic request fields and resolves the trip
// length in days and the transport mode.
func ValidateRequest(req Request) (int, trip.TransportMode, error) {
	if len(req.Places) == 0 {
		return 0, "", fmt.Errorf("%w: no places provided", trip.ErrInputInvalid)
	}
	if req.StartDate == "" || req.EndDate == "" {
		return 0, "", fmt.Errorf("%w: missing start or end date", trip.ErrInputInvalid)
	}
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return 0, "", fmt.Errorf("%w: bad start date %q", trip.ErrInputInvalid, req.StartDate)
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return 0, "", fmt.Errorf("%w: bad end date %q", trip.ErrInputInvalid, req.EndDate)
	}
	days := int(end.Sub(start).Hours()/24) + 1
	if days < 1 {
		return 0, "", fmt.Errorf("%w: end date %q before start date %q", trip.ErrInputInvalid, req.EndDate, req.StartDate)
	}

	mode := trip.ModeWalking
	if req.TransportMode != "" {
		mode, err = trip.ParseMode(req.TransportMode)
		if err != nil {
			return 0, "", err
		}
	}
	return days, mode, nil
}

func failureResponse(err error, warning trip.Warning) *Response {
	return &Response{
		Success: false,
		Error:   err.Error(),
		Status:  trip.SevereStatus(warning),
	}
}

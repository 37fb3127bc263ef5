package helm

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/oars-gb/course-server/geo"
	"github.com/oars-gb/course-server/planner"
	"github.com/oars-gb/course-server/polar"
	"github.com/oars-gb/course-server/wind"
)

// PoseSource reports the boat position and heading in the world frame.
type PoseSource interface {
	Pose() (geo.Point, float64)
}

// Actuator receives the commanded heading and carries out one tick of
// actuation.
type Actuator interface {
	Steer(heading float64)
}

// ObstacleSource supplies the angular exclusion zones valid for the
// current tick.
type ObstacleSource interface {
	Obstacles() []planner.Obstacle
}

// ObstacleList is a fixed ObstacleSource.
type ObstacleList []planner.Obstacle

func (l ObstacleList) Obstacles() []planner.Obstacle {
	return l
}

const (
	EventWaypointReached   = "waypoint-reached"
	EventCourseComplete    = "course-complete"
	EventNoFeasibleHeading = "no-feasible-heading"
	EventInvalidGeometry   = "invalid-geometry"
)

type Event struct {
	Kind     string `json:"kind"`
	Waypoint int    `json:"waypoint"`
	Message  string `json:"message"`
}

// Reporter receives course events. Implementations must not block the
// tick loop.
type Reporter interface {
	Report(Event)
}

// EventLog is a Reporter keeping the events in order.
type EventLog struct {
	Events []Event
}

func (l *EventLog) Report(e Event) {
	l.Events = append(l.Events, e)
}

// MultiReporter fans events out to several reporters.
type MultiReporter []Reporter

func (m MultiReporter) Report(e Event) {
	for _, r := range m {
		r.Report(e)
	}
}

type Params struct {
	Polar         polar.Options `json:"polar"`
	Pad           float64       `json:"pad"`           // obstacle safety margin, degrees
	ArrivalRadius float64       `json:"arrivalRadius"` // distance at which a waypoint counts as reached
	Step          float64       `json:"step"`          // forward advance per tick for the simulated boat
	TickPeriod    time.Duration `json:"-"`
	MaxTicks      int           `json:"maxTicks"` // per-waypoint bound, 0 for none
}

func DefaultParams() Params {
	return Params{
		Polar:         polar.DefaultOptions(),
		Pad:           5,
		ArrivalRadius: 5,
		Step:          4,
		TickPeriod:    50 * time.Millisecond,
	}
}

// NoFeasibleHeadingError aborts a course when every candidate heading is
// dead in the water. The unreached waypoints, current one first, are kept.
type NoFeasibleHeadingError struct {
	Remaining []geo.Point
}

func (e NoFeasibleHeadingError) Error() string {
	return fmt.Sprintf("no feasible heading, %d waypoints remaining", len(e.Remaining))
}

// ErrTickBudget aborts a course that exceeds the per-waypoint tick bound.
var ErrTickBudget = errors.New("tick budget exhausted")

// RunCourse steers through the waypoints in order. Each tick senses wind
// and pose, plans a heading, and commands the actuator, then dwells for
// the tick period. Cancellation is honored between ticks; an in-flight
// tick always completes.
func RunCourse(ctx context.Context, waypoints []geo.Point, poses PoseSource, winds wind.Source, act Actuator, obstacles ObstacleSource, reporter Reporter, params Params) error {
	pparams := planner.Params{
		Pad:   params.Pad,
		Polar: polar.New(params.Polar),
	}

	for i := 0; i < len(waypoints); i++ {
		w := waypoints[i]
		ticks := 0

		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			pos, _ := poses.Pose()
			if pos.DistanceTo(w) <= params.ArrivalRadius {
				report(reporter, Event{Kind: EventWaypointReached, Waypoint: i,
					Message: fmt.Sprintf("waypoint %d reached at (%.1f, %.1f)", i, pos.X, pos.Y)})
				break
			}

			windDir, windSpeed := winds.Sample()

			decision, err := planner.SelectHeading(windDir, pos, w, obstacles.Obstacles(), pparams)
			if errors.Is(err, planner.ErrInvalidGeometry) {
				report(reporter, Event{Kind: EventInvalidGeometry, Waypoint: i, Message: err.Error()})
				break
			}
			if decision.Stalled {
				report(reporter, Event{Kind: EventNoFeasibleHeading, Waypoint: i,
					Message: fmt.Sprintf("stalled at (%.1f, %.1f), wind %.0f°", pos.X, pos.Y, windDir)})
				return NoFeasibleHeadingError{Remaining: waypoints[i:]}
			}

			log.Debugf("tick: pose (%.1f, %.1f), wind %.0f° %.1f, heading %.1f°", pos.X, pos.Y, windDir, windSpeed, decision.Heading)

			act.Steer(decision.Heading)

			ticks++
			if params.MaxTicks > 0 && ticks >= params.MaxTicks {
				return ErrTickBudget
			}

			if params.TickPeriod > 0 {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(params.TickPeriod):
				}
			}
		}
	}

	report(reporter, Event{Kind: EventCourseComplete, Message: "course complete"})
	return nil
}

func report(r Reporter, e Event) {
	if r != nil {
		r.Report(e)
	}
}

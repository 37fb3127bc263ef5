package planner

import (
	"fmt"

	"github.com/oars-gb/course-server/geo"
)

// Obstacle is an angular exclusion zone in the world frame: the oriented
// arc from Min counter-clockwise to Max. The arc must span less than 180°.
type Obstacle struct {
	Name string  `json:"name"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

func (o Obstacle) span() float64 {
	return geo.Wrap360(o.Max - o.Min)
}

func (o Obstacle) validate() error {
	s := o.span()
	if s == 0 {
		return ObstacleDataError{Obstacle: o, Reason: "empty arc"}
	}
	if s >= 180 {
		return ObstacleDataError{Obstacle: o, Reason: fmt.Sprintf("arc spans %.1f°", s)}
	}
	return nil
}

// ObstacleDataError reports a malformed obstacle, discarded for the tick.
type ObstacleDataError struct {
	Obstacle Obstacle
	Reason   string
}

func (e ObstacleDataError) Error() string {
	return fmt.Sprintf("obstacle %q (%.1f°, %.1f°): %s", e.Obstacle.Name, e.Obstacle.Min, e.Obstacle.Max, e.Reason)
}

// Interval is a forbidden angular range, an obstacle padded by the safety
// margin. Bounds keep the orientation of the obstacle and may leave [0, 360).
type Interval struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (i Interval) span() float64 {
	return geo.Wrap360(i.Max - i.Min)
}

// contains tests strict containment of an angle in the oriented arc,
// modulo 360. Boundary angles are clear.
func contains(min, span, a float64) bool {
	d := geo.Wrap360(a - min)
	return d > 0 && d < span
}

func (i Interval) contains(a float64) bool {
	return contains(i.Min, i.span(), a)
}

// forbiddenIntervals keeps the obstacles whose arc strictly contains the
// direct path angle, padded by pad on each side. Malformed obstacles are
// returned separately, discarded for this call.
func forbiddenIntervals(pathAngle float64, obstacles []Obstacle, pad float64) ([]Interval, []ObstacleDataError) {
	var intervals []Interval
	var discarded []ObstacleDataError

	for _, o := range obstacles {
		if err := o.validate(); err != nil {
			discarded = append(discarded, err.(ObstacleDataError))
			continue
		}
		if !contains(o.Min, o.span(), pathAngle) {
			continue
		}
		intervals = append(intervals, Interval{Min: o.Min - pad, Max: o.Max + pad})
	}

	return intervals, discarded
}

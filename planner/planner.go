package planner

import (
	"errors"

	log "github.com/sirupsen/logrus"

	"github.com/oars-gb/course-server/geo"
	"github.com/oars-gb/course-server/polar"
)

// ErrInvalidGeometry is returned when the pose equals the target at the
// moment of planning, leaving no path to project.
var ErrInvalidGeometry = errors.New("pose equals target")

type Params struct {
	Pad   float64 // safety margin added on each side of a blocking obstacle
	Polar polar.Polar
}

func DefaultParams() Params {
	return Params{
		Pad:   5,
		Polar: polar.New(polar.DefaultOptions()),
	}
}

// Decision is the outcome of one planning call. Heading is authoritative;
// Interim is advisory, a point on the heading ray to aim for while the
// direct path is blocked.
type Decision struct {
	Heading   float64
	Interim   geo.Point
	Direct    bool
	Stalled   bool
	Forbidden []Interval
	Discarded []ObstacleDataError
}

// SelectHeading picks the fastest feasible heading toward target.
//
// With no blocking obstacle the direct heading is returned untouched. With
// blockers, the boundaries of the padded forbidden intervals are the only
// candidates worth sailing: interior headings are forbidden and anything
// further out only lengthens the detour. Each candidate is scored with the
// polar model; ties go to the candidate closest to the direct heading, then
// to the lower angle. If every candidate is dead in the water the nearest
// one is returned with Stalled set.
func SelectHeading(windDir float64, pose, target geo.Point, obstacles []Obstacle, params Params) (Decision, error) {
	p := target.Sub(pose)
	if p.X == 0 && p.Y == 0 {
		return Decision{}, ErrInvalidGeometry
	}
	pathAngle := p.Heading()

	intervals, discarded := forbiddenIntervals(pathAngle, obstacles, params.Pad)
	for _, d := range discarded {
		log.Warnf("discarding %s", d.Error())
	}

	if len(intervals) == 0 {
		return Decision{
			Heading:   pathAngle,
			Interim:   target,
			Direct:    true,
			Discarded: discarded,
		}, nil
	}

	candidates := candidateHeadings(intervals)

	best, bestSpeed := pickBest(candidates, windDir, pathAngle, params.Polar)

	d := Decision{
		Heading:   geo.Wrap180(best),
		Stalled:   bestSpeed == 0,
		Forbidden: intervals,
		Discarded: discarded,
	}
	d.Interim = project(pose, p, d.Heading)
	return d, nil
}

// candidateHeadings collects the boundary angles of the forbidden
// intervals, dropping any boundary strictly interior to another interval.
// When overlap buries every boundary, all of them are kept so the caller
// still gets a least-bad heading.
func candidateHeadings(intervals []Interval) []float64 {
	var candidates []float64
	for _, i := range intervals {
		for _, b := range []float64{i.Min, i.Max} {
			blocked := false
			for _, o := range intervals {
				if o.contains(b) {
					blocked = true
					break
				}
			}
			if !blocked {
				candidates = append(candidates, b)
			}
		}
	}

	if len(candidates) == 0 {
		for _, i := range intervals {
			candidates = append(candidates, i.Min, i.Max)
		}
	}
	return candidates
}

func pickBest(candidates []float64, windDir, pathAngle float64, p polar.Polar) (float64, float64) {
	best := candidates[0]
	bestSpeed := -1.0
	bestDev := 0.0

	for _, c := range candidates {
		speed := p.Speed(c - windDir)
		dev := geo.AngleDiff(c, pathAngle)

		better := speed > bestSpeed ||
			(speed == bestSpeed && dev < bestDev) ||
			(speed == bestSpeed && dev == bestDev && geo.Wrap180(c) < geo.Wrap180(best))
		if better {
			best = c
			bestSpeed = speed
			bestDev = dev
		}
	}

	return best, bestSpeed
}

// project drops the direct path p onto a vector twice its length along the
// selected heading. The factor of two keeps the projected point ahead of
// the boat.
func project(pose, p geo.Point, heading float64) geo.Point {
	optimal := geo.Vector(heading, 2*p.Norm())
	f := p.Dot(optimal) / optimal.Dot(optimal)
	return pose.Add(optimal.Scale(f))
}

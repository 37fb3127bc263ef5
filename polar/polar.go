package polar

import (
	"math"

	"github.com/oars-gb/course-server/geo"
)

// Polar predicts boat speed from the true wind angle, the separation in
// degrees between the boat heading and the direction the wind blows from.
type Polar interface {
	Speed(twa float64) float64
}

type Options struct {
	NoGo     float64 `json:"nogo"`     // no-go half-angle around upwind
	Peak     float64 `json:"peak"`     // twa of maximum speed
	DeadRun  float64 `json:"deadRun"`  // speed at twa 180 as a fraction of the peak speed
	MaxSpeed float64 `json:"maxSpeed"` // speed at the peak, distance units per time unit
}

func DefaultOptions() Options {
	return Options{
		NoGo:     45,
		Peak:     100,
		DeadRun:  0.6,
		MaxSpeed: 1,
	}
}

// Stelzer is a parametric short-course polar: zero inside the no-go arc,
// a cosine-eased rise to the peak, a cosine-eased fall to the dead run.
type Stelzer struct {
	options Options
}

func New(o Options) Stelzer {
	d := DefaultOptions()
	if o.NoGo == 0 {
		o.NoGo = d.NoGo
	}
	if o.Peak == 0 {
		o.Peak = d.Peak
	}
	if o.DeadRun == 0 {
		o.DeadRun = d.DeadRun
	}
	if o.MaxSpeed == 0 {
		o.MaxSpeed = d.MaxSpeed
	}
	return Stelzer{options: o}
}

func (s Stelzer) Speed(twa float64) float64 {
	t := geo.Fold180(twa)

	if t <= s.options.NoGo {
		return 0
	}

	var m float64
	if t <= s.options.Peak {
		m = 0.5 * (1 - math.Cos(math.Pi*(t-s.options.NoGo)/(s.options.Peak-s.options.NoGo)))
	} else {
		k := s.options.DeadRun
		m = k + (1-k)*0.5*(1+math.Cos(math.Pi*(t-s.options.Peak)/(180-s.options.Peak)))
	}

	return m * s.options.MaxSpeed
}

// Velocity returns the predicted world-frame velocity for a boat sailing
// the given heading in wind blowing from windDir.
func Velocity(p Polar, windDir, heading float64) geo.Point {
	return geo.Vector(heading, p.Speed(heading-windDir))
}

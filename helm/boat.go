package helm

import (
	"github.com/oars-gb/course-server/geo"
	"github.com/oars-gb/course-server/polar"
	"github.com/oars-gb/course-server/wind"
)

// SimBoat is a kinematic stand-in for the real hull: steering turns it
// instantly and advances it one fixed step along the new heading. It
// serves as both PoseSource and Actuator for simulated course runs.
type SimBoat struct {
	Position geo.Point
	Heading  float64
	Step     float64
}

func NewSimBoat(start geo.Point, heading, step float64) *SimBoat {
	return &SimBoat{Position: start, Heading: heading, Step: step}
}

func (b *SimBoat) Pose() (geo.Point, float64) {
	return b.Position, b.Heading
}

func (b *SimBoat) Steer(heading float64) {
	b.Heading = heading
	b.Position = b.Position.Add(geo.Vector(heading, b.Step))
}

type TrackPoint struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Heading   float64 `json:"h"`
	Wind      float64 `json:"w"`
	WindSpeed float64 `json:"ws"`
	Twa       float64 `json:"t"`
	BoatSpeed float64 `json:"bs"`
}

// Recorder wraps a SimBoat and keeps the tick-by-tick track, annotated
// with the wind and the polar speed prediction for each commanded heading.
type Recorder struct {
	Boat  *SimBoat
	Winds wind.Source
	Polar polar.Polar
	Track []TrackPoint
}

func (r *Recorder) Pose() (geo.Point, float64) {
	return r.Boat.Pose()
}

func (r *Recorder) Steer(heading float64) {
	w, ws := r.Winds.Sample()
	twa := wind.Twa(heading, w)

	r.Boat.Steer(heading)

	r.Track = append(r.Track, TrackPoint{
		X:         r.Boat.Position.X,
		Y:         r.Boat.Position.Y,
		Heading:   heading,
		Wind:      w,
		WindSpeed: ws,
		Twa:       twa,
		BoatSpeed: r.Polar.Speed(twa),
	})
}

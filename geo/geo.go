package geo

import "math"

// Point is a position or displacement in the planar world frame, in meters.
// Angles over this frame are in degrees, 0° pointing east, counter-clockwise.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

func (p Point) Scale(f float64) Point {
	return Point{X: p.X * f, Y: p.Y * f}
}

func (p Point) Dot(o Point) float64 {
	return p.X*o.X + p.Y*o.Y
}

func (p Point) Norm() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y)
}

func (p Point) DistanceTo(o Point) float64 {
	return o.Sub(p).Norm()
}

func toRadians(d float64) float64 {
	return d * math.Pi / 180
}

func toDegrees(r float64) float64 {
	return r * 180 / math.Pi
}

// Wrap360 normalizes an angle into [0, 360).
func Wrap360(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}

// Wrap180 normalizes an angle into (-180, 180].
func Wrap180(a float64) float64 {
	a = Wrap360(a)
	if a > 180 {
		a -= 360
	}
	return a
}

// Fold180 folds an angle into [0, 180], the unsigned separation from 0.
func Fold180(a float64) float64 {
	return math.Abs(Wrap180(a))
}

// AngleDiff returns the unsigned separation of two angles, in [0, 180].
func AngleDiff(a, b float64) float64 {
	return Fold180(a - b)
}

// Heading returns the direction of a displacement in (-180, 180].
// A pure north displacement yields 90, pure south -90.
func (p Point) Heading() float64 {
	return Wrap180(toDegrees(math.Atan2(p.Y, p.X)))
}

// Vector builds the displacement of the given magnitude along a heading.
func Vector(heading, magnitude float64) Point {
	r := toRadians(heading)
	return Point{X: magnitude * math.Cos(r), Y: magnitude * math.Sin(r)}
}

package polar

import (
	"math"
	"testing"
)

func TestSpeedNoGo(t *testing.T) {
	p := New(DefaultOptions())

	for _, twa := range []float64{0, 10, 30, 45, -20, -45, 315, 330} {
		if s := p.Speed(twa); s != 0 {
			t.Errorf("Speed(%f) = %f; want 0", twa, s)
		}
	}

	if s := p.Speed(46); s <= 0 {
		t.Errorf("Speed(46) = %f; want > 0", s)
	}
}

func TestSpeedShape(t *testing.T) {
	p := New(DefaultOptions())

	if s := p.Speed(100); math.Abs(s-1) > 1e-9 {
		t.Errorf("Speed(100) = %f; want 1", s)
	}
	if s := p.Speed(180); math.Abs(s-0.6) > 1e-9 {
		t.Errorf("Speed(180) = %f; want 0.6", s)
	}

	// monotone rise to the peak, monotone fall after it
	for twa := 46.0; twa < 100; twa++ {
		if p.Speed(twa) >= p.Speed(twa+1) {
			t.Errorf("Speed not increasing at twa %f", twa)
		}
	}
	for twa := 100.0; twa < 180; twa++ {
		if p.Speed(twa) <= p.Speed(twa+1) {
			t.Errorf("Speed not decreasing at twa %f", twa)
		}
	}
}

func TestSpeedSymmetry(t *testing.T) {
	p := New(DefaultOptions())

	for twa := 0.0; twa <= 180; twa += 7.5 {
		up := p.Speed(twa)
		down := p.Speed(-twa)
		if up != down {
			t.Errorf("Speed(%f) = %f, Speed(%f) = %f; want equal", twa, up, -twa, down)
		}
	}
}

func TestSpeedMaxSpeed(t *testing.T) {
	p := New(Options{MaxSpeed: 4})

	if s := p.Speed(100); math.Abs(s-4) > 1e-9 {
		t.Errorf("Speed(100) = %f; want 4", s)
	}
}

func TestVelocity(t *testing.T) {
	p := New(DefaultOptions())

	// beam reach in wind from the east, sailing north
	v := Velocity(p, 0, 90)
	if math.Abs(v.X) > 1e-9 {
		t.Errorf("Velocity(0, 90).X = %f; want 0", v.X)
	}
	if v.Y <= 0 {
		t.Errorf("Velocity(0, 90).Y = %f; want > 0", v.Y)
	}
	if math.Abs(v.Norm()-p.Speed(90)) > 1e-9 {
		t.Errorf("|Velocity(0, 90)| = %f; want %f", v.Norm(), p.Speed(90))
	}

	// upwind is dead
	v = Velocity(p, 90, 90)
	if v.Norm() != 0 {
		t.Errorf("|Velocity(90, 90)| = %f; want 0", v.Norm())
	}

	// wind angles outside [0, 360) are normalized
	if Velocity(p, 720, 90) != Velocity(p, 0, 90) {
		t.Errorf("Velocity(720, 90) != Velocity(0, 90)")
	}
}

package helm

import (
	"context"
	"errors"
	"testing"

	"github.com/oars-gb/course-server/geo"
	"github.com/oars-gb/course-server/planner"
	"github.com/oars-gb/course-server/wind"
)

func simParams() Params {
	p := DefaultParams()
	p.TickPeriod = 0
	p.MaxTicks = 1000
	return p
}

func TestRunCourseArrival(t *testing.T) {
	params := simParams()
	boat := NewSimBoat(geo.Point{}, 0, params.Step)
	events := &EventLog{}

	err := RunCourse(context.Background(), []geo.Point{{X: 0, Y: 20}}, boat, wind.Constant{Direction: 0, Speed: 5}, boat, ObstacleList(nil), events, params)
	if err != nil {
		t.Fatal(err)
	}

	if d := boat.Position.DistanceTo(geo.Point{X: 0, Y: 20}); d > params.ArrivalRadius {
		t.Errorf("final distance = %f; want <= %f", d, params.ArrivalRadius)
	}
	// 20 units at 4 per tick with a 5 unit arrival radius: 4 ticks
	if boat.Position.Y != 16 {
		t.Errorf("final position = %v; want (0, 16) after 4 ticks", boat.Position)
	}
	if len(events.Events) != 2 || events.Events[0].Kind != EventWaypointReached || events.Events[1].Kind != EventCourseComplete {
		t.Errorf("events = %v; want waypoint-reached then course-complete", events.Events)
	}
}

func TestRunCourseDetour(t *testing.T) {
	params := simParams()
	boat := NewSimBoat(geo.Point{}, 0, params.Step)
	obstacles := ObstacleList{{Name: "buoy", Min: 80, Max: 110}}

	err := RunCourse(context.Background(), []geo.Point{{X: 0, Y: 120}}, boat, wind.Constant{Direction: 0, Speed: 5}, boat, obstacles, nil, params)
	if err != nil {
		t.Fatal(err)
	}

	if d := boat.Position.DistanceTo(geo.Point{X: 0, Y: 120}); d > params.ArrivalRadius {
		t.Errorf("final distance = %f; want <= %f", d, params.ArrivalRadius)
	}
}

func TestRunCourseStalled(t *testing.T) {
	params := simParams()
	boat := NewSimBoat(geo.Point{}, 0, params.Step)
	obstacles := ObstacleList{{Name: "buoy", Min: 80, Max: 100}}
	events := &EventLog{}

	waypoints := []geo.Point{{X: 0, Y: 120}, {X: 120, Y: 120}}
	err := RunCourse(context.Background(), waypoints, boat, wind.Constant{Direction: 90, Speed: 5}, boat, obstacles, events, params)

	var stalled NoFeasibleHeadingError
	if !errors.As(err, &stalled) {
		t.Fatalf("RunCourse = %v; want NoFeasibleHeadingError", err)
	}
	// the queue survives intact, current waypoint first
	if len(stalled.Remaining) != 2 || stalled.Remaining[0] != waypoints[0] {
		t.Errorf("Remaining = %v; want both waypoints", stalled.Remaining)
	}
	if len(events.Events) != 1 || events.Events[0].Kind != EventNoFeasibleHeading {
		t.Errorf("events = %v; want a single no-feasible-heading", events.Events)
	}
	// the boat does not advance on a stalled tick
	if boat.Position != (geo.Point{}) {
		t.Errorf("boat moved to %v on a stalled course", boat.Position)
	}
}

func TestRunCourseCancellation(t *testing.T) {
	params := simParams()
	boat := NewSimBoat(geo.Point{}, 0, params.Step)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RunCourse(ctx, []geo.Point{{X: 0, Y: 120}}, boat, wind.Constant{Direction: 0, Speed: 5}, boat, ObstacleList(nil), nil, params)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("RunCourse = %v; want context.Canceled", err)
	}
}

func TestRunCourseMultipleWaypoints(t *testing.T) {
	params := simParams()
	boat := NewSimBoat(geo.Point{}, 0, params.Step)
	events := &EventLog{}

	waypoints := []geo.Point{{X: 0, Y: 40}, {X: 40, Y: 40}}
	err := RunCourse(context.Background(), waypoints, boat, wind.Constant{Direction: 0, Speed: 5}, boat, ObstacleList(nil), events, params)
	if err != nil {
		t.Fatal(err)
	}

	reached := 0
	for _, e := range events.Events {
		if e.Kind == EventWaypointReached {
			reached++
		}
	}
	if reached != 2 {
		t.Errorf("reached %d waypoints; want 2", reached)
	}
}

func TestRecorder(t *testing.T) {
	params := simParams()
	boat := NewSimBoat(geo.Point{}, 0, params.Step)
	rec := &Recorder{
		Boat:  boat,
		Winds: wind.Constant{Direction: 0, Speed: 5},
		Polar: planner.DefaultParams().Polar,
	}

	err := RunCourse(context.Background(), []geo.Point{{X: 0, Y: 20}}, rec, rec.Winds, rec, ObstacleList(nil), nil, params)
	if err != nil {
		t.Fatal(err)
	}

	if len(rec.Track) != 4 {
		t.Fatalf("track has %d points; want 4", len(rec.Track))
	}
	last := rec.Track[len(rec.Track)-1]
	if last.X != 0 || last.Y != 16 || last.Heading != 90 {
		t.Errorf("last track point = %+v; want (0, 16) heading 90", last)
	}
	if last.BoatSpeed <= 0 {
		t.Errorf("BoatSpeed = %f; want > 0 on a beam reach", last.BoatSpeed)
	}
}

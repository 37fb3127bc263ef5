package model

import (
	"github.com/oars-gb/course-server/geo"
	"github.com/oars-gb/course-server/helm"
	"github.com/oars-gb/course-server/planner"
	"github.com/oars-gb/course-server/polar"
)

type Params struct {
	Polar         polar.Options `json:"polar"`
	Pad           float64       `json:"pad"`
	ArrivalRadius float64       `json:"arrivalRadius"`
	Step          float64       `json:"step"`
	MaxTicks      int           `json:"maxTicks"`
}

type Plan struct {
	Wind      float64            `json:"wind"`
	Pose      geo.Point          `json:"pose"`
	Target    geo.Point          `json:"target"`
	Obstacles []planner.Obstacle `json:"obstacles"`
	Params    Params             `json:"params"`
}

type PlanResult struct {
	Heading   float64            `json:"heading"`
	Interim   geo.Point          `json:"interim"`
	Direct    bool               `json:"direct"`
	Stalled   bool               `json:"stalled"`
	Forbidden []planner.Interval `json:"forbidden,omitempty"`
	Discarded []string           `json:"discarded,omitempty"`
}

type Course struct {
	Wind      *float64           `json:"wind"` // fixed wind; the station provider when absent
	Start     geo.Point          `json:"start"`
	Heading   float64            `json:"heading"`
	Waypoints []geo.Point        `json:"waypoints"`
	Obstacles []planner.Obstacle `json:"obstacles"`
	Params    Params             `json:"params"`
}

type CourseResult struct {
	Arrived bool              `json:"arrived"`
	Error   string            `json:"error,omitempty"`
	Track   []helm.TrackPoint `json:"track"`
	Events  []helm.Event      `json:"events"`
}

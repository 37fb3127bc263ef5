package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/profile"
	log "github.com/sirupsen/logrus"

	"github.com/oars-gb/course-server/api/model"
	"github.com/oars-gb/course-server/helm"
	"github.com/oars-gb/course-server/planner"
	"github.com/oars-gb/course-server/polar"
	"github.com/oars-gb/course-server/wind"
	"github.com/oars-gb/course-server/xmpp"
)

type server struct {
	cpuprofile bool
	winds      wind.Field
	x          *xmpp.Notifier
}

func InitServer(cpuprofile bool, winds wind.Field, x *xmpp.Notifier, feed http.Handler) *mux.Router {

	router := mux.NewRouter().StrictSlash(true)

	s := server{
		cpuprofile: cpuprofile,
		winds:      winds,
		x:          x,
	}

	api := router.PathPrefix("/helm/api/v1").Subrouter()
	api.HandleFunc("/plan", s.plan).Methods("POST")
	api.HandleFunc("/course", s.course).Methods("POST")
	api.HandleFunc("/wind/{lat}/{lon}", s.wind).Methods("GET")

	router.HandleFunc("/helm/-/healthz", s.healthz).Methods(http.MethodGet)

	if feed != nil {
		router.Handle("/camera/feed", feed)
	}

	return router
}

func (s *server) healthz(w http.ResponseWriter, r *http.Request) {
	type health struct {
		Status string `json:"status"`
	}

	json.NewEncoder(w).Encode(health{Status: "Ok"})
}

func helmParams(p model.Params) helm.Params {
	params := helm.DefaultParams()
	params.TickPeriod = 0
	params.MaxTicks = 10000
	if p.Polar != (polar.Options{}) {
		params.Polar = p.Polar
	}
	if p.Pad > 0 {
		params.Pad = p.Pad
	}
	if p.ArrivalRadius > 0 {
		params.ArrivalRadius = p.ArrivalRadius
	}
	if p.Step > 0 {
		params.Step = p.Step
	}
	if p.MaxTicks > 0 {
		params.MaxTicks = p.MaxTicks
	}
	return params
}

func (s *server) plan(w http.ResponseWriter, req *http.Request) {
	if s.cpuprofile {
		defer profile.Start().Stop()
	}

	requestLogger := s.requestLogger(req, "plan")

	var r model.Plan
	if err := json.NewDecoder(req.Body).Decode(&r); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	params := helmParams(r.Params)

	requestLogger.Infof("Plan from (%.1f, %.1f) to (%.1f, %.1f), wind %.0f°, %d obstacles",
		r.Pose.X, r.Pose.Y, r.Target.X, r.Target.Y, r.Wind, len(r.Obstacles))

	decision, err := planner.SelectHeading(r.Wind, r.Pose, r.Target, r.Obstacles, planner.Params{
		Pad:   params.Pad,
		Polar: polar.New(params.Polar),
	})
	if errors.Is(err, planner.ErrInvalidGeometry) {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	res := model.PlanResult{
		Heading:   decision.Heading,
		Interim:   decision.Interim,
		Direct:    decision.Direct,
		Stalled:   decision.Stalled,
		Forbidden: decision.Forbidden,
	}
	for _, d := range decision.Discarded {
		res.Discarded = append(res.Discarded, d.Error())
	}

	json.NewEncoder(w).Encode(res)
}

func (s *server) course(w http.ResponseWriter, req *http.Request) {
	if s.cpuprofile {
		defer profile.Start().Stop()
	}

	requestLogger := s.requestLogger(req, "course")

	var r model.Course
	if err := json.NewDecoder(req.Body).Decode(&r); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if len(r.Waypoints) == 0 {
		http.Error(w, "no waypoints", http.StatusBadRequest)
		return
	}

	params := helmParams(r.Params)

	var winds wind.Source = s.winds
	if r.Wind != nil {
		winds = wind.Constant{Direction: *r.Wind, Speed: 5}
	}

	requestLogger.Infof("Course from (%.1f, %.1f) through %d waypoints", r.Start.X, r.Start.Y, len(r.Waypoints))

	start := time.Now()

	rec := &helm.Recorder{
		Boat:  helm.NewSimBoat(r.Start, r.Heading, params.Step),
		Winds: winds,
		Polar: polar.New(params.Polar),
	}
	events := &helm.EventLog{}
	reporter := helm.MultiReporter{events}
	if s.x != nil {
		reporter = append(reporter, s.x)
	}

	err := helm.RunCourse(req.Context(), r.Waypoints, rec, winds, rec, helm.ObstacleList(r.Obstacles), reporter, params)

	res := model.CourseResult{
		Arrived: err == nil,
		Track:   rec.Track,
		Events:  events.Events,
	}
	if err != nil {
		res.Error = err.Error()
	}

	requestLogger.Infof("Course took %s (%d ticks)", time.Now().Sub(start).String(), len(rec.Track))

	json.NewEncoder(w).Encode(res)
}

func (s *server) wind(w http.ResponseWriter, r *http.Request) {
	lat, err := strconv.ParseFloat(mux.Vars(r)["lat"], 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	lon, err := strconv.ParseFloat(mux.Vars(r)["lon"], 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	type windResult struct {
		Wind  float64 `json:"wind"`
		Speed float64 `json:"speed"`
	}

	var res windResult
	res.Wind, res.Speed, err = s.winds.At(lat, lon)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	log.Infof("Wind (%f,%f) : %.1f° %.1f m/s", lat, lon, res.Wind, res.Speed)

	json.NewEncoder(w).Encode(res)
}

func (s *server) requestLogger(req *http.Request, action string) *log.Entry {
	fields := log.Fields{
		"action": action,
	}
	if ip, err := getIp(req); err == nil {
		fields["IP"] = ip
	}
	return log.WithFields(fields)
}

func getIp(r *http.Request) (string, error) {
	ip := r.Header.Get("X-REAL-IP")
	netIP := net.ParseIP(ip)
	if netIP != nil {
		return ip, nil
	}

	ips := r.Header.Get("X-FORWARDED-FOR")
	splitIps := strings.Split(ips, ",")
	for _, ip := range splitIps {
		netIP := net.ParseIP(ip)
		if netIP != nil {
			return ip, nil
		}
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return "", err
	}
	netIP = net.ParseIP(ip)
	if netIP != nil {
		return ip, nil
	}
	return "", fmt.Errorf("No valid ip found")
}

package wind

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jasonlvhit/gocron"
	log "github.com/sirupsen/logrus"
)

// Source samples the true wind for the current tick: world-frame direction
// the wind blows from, in degrees, and speed in m/s.
type Source interface {
	Sample() (float64, float64)
}

// Field is a Source that can also be sampled away from the station.
type Field interface {
	Source
	At(lat, lon float64) (float64, float64, error)
}

// Constant is a fixed wind, for tests and hosts without forecast data.
type Constant struct {
	Direction float64
	Speed     float64
}

func (c Constant) Sample() (float64, float64) {
	return c.Direction, c.Speed
}

func (c Constant) At(lat, lon float64) (float64, float64, error) {
	return c.Direction, c.Speed, nil
}

// Grib serves the wind interpolated from grib2 forecasts on disk,
// refreshed periodically as new files arrive. Forecast files are named
// by their valid hour, 2006010215 style.
type Grib struct {
	dir        string
	stationLat float64
	stationLon float64

	lock  sync.RWMutex
	winds []*Wind
}

func InitGrib(dir string, stationLat, stationLon float64) (*Grib, error) {
	g := &Grib{
		dir:        dir,
		stationLat: stationLat,
		stationLon: stationLon,
	}

	if err := g.Refresh(); err != nil {
		return nil, err
	}
	if len(g.winds) == 0 {
		return nil, fmt.Errorf("no grib files in '%s'", dir)
	}

	s := gocron.NewScheduler()
	job := s.Every(15).Seconds()
	job.Do(g.Refresh)

	go s.Start()

	return g, nil
}

// Refresh reconciles the loaded forecasts with the files on disk: gone
// files are dropped, new ones loaded.
func (g *Grib) Refresh() error {
	g.lock.Lock()
	defer g.lock.Unlock()

	loaded := make(map[string]*Wind)
	for _, w := range g.winds {
		loaded[w.File] = w
	}

	var files []string
	err := filepath.Walk(g.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			log.WithError(err).Errorf("Error walking file '%s'", path)
		} else if info.Mode().IsRegular() && !strings.HasSuffix(info.Name(), ".tmp") {
			files = append(files, info.Name())
		}
		return nil
	})
	if err != nil {
		return err
	}
	sort.Strings(files)

	onDisk := make(map[string]bool)
	var winds []*Wind

	for _, file := range files {
		onDisk[file] = true

		if w, found := loaded[file]; found {
			winds = append(winds, w)
			continue
		}

		date, err := time.Parse("2006010215", strings.Split(file, ".")[0])
		if err != nil {
			log.WithError(err).Errorf("Error parsing date from file '%s'", file)
			continue
		}

		w, err := Load(g.dir, date, file)
		if err != nil {
			log.WithError(err).Errorf("Error loading grib file '%s'", file)
			continue
		}
		log.Debugf("Load %s", file)
		winds = append(winds, &w)
	}

	for file := range loaded {
		if !onDisk[file] {
			log.Infof("Remove from winds %s", file)
		}
	}

	sort.Slice(winds, func(i, j int) bool { return winds[i].Date.Before(winds[j].Date) })
	g.winds = winds

	return nil
}

// findWinds returns the forecasts bracketing m and the blend fraction.
func (g *Grib) findWinds(m time.Time) (*Wind, *Wind, float64) {
	if len(g.winds) == 0 {
		return nil, nil, 0
	}
	if !g.winds[0].Date.Before(m) {
		return g.winds[0], nil, 0
	}
	for i := 1; i < len(g.winds); i++ {
		if g.winds[i].Date.After(m) {
			h := m.Sub(g.winds[i-1].Date).Minutes()
			delta := g.winds[i].Date.Sub(g.winds[i-1].Date).Minutes()
			return g.winds[i-1], g.winds[i], h / delta
		}
	}
	return g.winds[len(g.winds)-1], nil, 0
}

func (g *Grib) At(lat, lon float64) (float64, float64, error) {
	g.lock.RLock()
	defer g.lock.RUnlock()

	w1, w2, h := g.findWinds(time.Now())
	if w1 == nil {
		return 0, 0, fmt.Errorf("no wind data")
	}

	u, v, err := w1.interpolate(lat, lon)
	if err != nil {
		return 0, 0, err
	}
	if w2 != nil {
		u2, v2, err := w2.interpolate(lat, lon)
		if err != nil {
			return 0, 0, err
		}
		u = u2*h + u*(1-h)
		v = v2*h + v*(1-h)
	}

	return vectorToDegrees(u, v), math.Sqrt(u*u + v*v), nil
}

func (g *Grib) Sample() (float64, float64) {
	d, s, err := g.At(g.stationLat, g.stationLon)
	if err != nil {
		log.WithError(err).Error("Error sampling station wind")
		return 0, 0
	}
	return d, s
}

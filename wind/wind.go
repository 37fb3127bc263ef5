package wind

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/nilsmagnus/grib/griblib"

	"github.com/oars-gb/course-server/geo"
)

// Wind holds the 10 m U/V fields of one grib2 forecast, gridded over
// lat/lon.
type Wind struct {
	Date time.Time
	File string
	Lat0 float64
	Lon0 float64
	ΔLat float64
	ΔLon float64
	NLat uint32
	NLon uint32
	U    [][]float64
	V    [][]float64
}

func (w Wind) buildGrid(data []float64) [][]float64 {

	isContinuous := math.Floor(float64(w.NLon)*w.ΔLon) >= 360

	nLon := w.NLon
	if isContinuous {
		nLon++
	}

	grid := make([][]float64, w.NLat)

	p := 0
	for j := uint32(0); j < w.NLat; j++ {
		grid[j] = make([]float64, nLon)
		for i := uint32(0); i < w.NLon; i++ {
			grid[j][i] = data[p]
			p++
		}
		if isContinuous {
			grid[j][w.NLon] = grid[j][0]
		}
	}
	return grid
}

// Load reads the 10 m wind message of a grib2 file.
func Load(dir string, date time.Time, file string) (Wind, error) {
	w := Wind{Date: date, File: file}

	gribfile, err := os.Open(filepath.Join(dir, file))
	if err != nil {
		return w, err
	}
	defer gribfile.Close()

	messages, err := griblib.ReadMessages(gribfile)
	if err != nil {
		return w, err
	}
	for _, message := range messages {
		if message.Section0.Discipline != uint8(0) ||
			message.Section4.ProductDefinitionTemplate.ParameterCategory != uint8(2) ||
			message.Section4.ProductDefinitionTemplate.FirstSurface.Type != 103 ||
			message.Section4.ProductDefinitionTemplate.FirstSurface.Value != 10 {
			continue
		}
		grid0, ok := message.Section3.Definition.(*griblib.Grid0)
		if !ok {
			continue
		}
		w.Lat0 = float64(grid0.La1 / 1e6)
		w.Lon0 = float64(grid0.Lo1 / 1e6)
		w.ΔLat = float64(grid0.Di / 1e6)
		w.ΔLon = float64(grid0.Dj / 1e6)
		w.NLat = grid0.Nj
		w.NLon = grid0.Ni
		if message.Section4.ProductDefinitionTemplate.ParameterNumber == 2 {
			w.U = w.buildGrid(message.Section7.Data)
		} else if message.Section4.ProductDefinitionTemplate.ParameterNumber == 3 {
			w.V = w.buildGrid(message.Section7.Data)
		}
	}

	if w.U == nil || w.V == nil {
		return w, fmt.Errorf("no 10m wind message in '%s'", file)
	}
	return w, nil
}

func floorMod(a float64, n float64) float64 {
	return a - n*math.Floor(a/n)
}

func bilinearInterpolate(x float64, y float64, g00 []float64, g10 []float64, g01 []float64, g11 []float64) (float64, float64) {

	rx := (1 - x)
	ry := (1 - y)

	a := rx * ry
	b := x * ry
	c := rx * y
	d := x * y

	u := g00[0]*a + g10[0]*b + g01[0]*c + g11[0]*d
	v := g00[1]*a + g10[1]*b + g01[1]*c + g11[1]*d

	return u, v
}

// vectorToDegrees converts U/V components into the world-frame direction
// the wind blows from, 0° east, counter-clockwise.
func vectorToDegrees(u float64, v float64) float64 {
	return geo.Wrap360((geo.Point{X: -u, Y: -v}).Heading())
}

func (w Wind) interpolate(lat float64, lon float64) (float64, float64, error) {

	i := math.Abs((lat - w.Lat0) / w.ΔLat)
	j := floorMod(lon-w.Lon0, 360.0) / w.ΔLon

	fi := uint32(i)
	fj := uint32(j)

	if fi+1 >= uint32(len(w.U)) || fj+1 >= uint32(len(w.U[fi])) {
		return 0, 0, fmt.Errorf("(%f, %f) outside grid of '%s'", lat, lon, w.File)
	}

	u, v := bilinearInterpolate(j-float64(fj), i-float64(fi),
		[]float64{w.U[fi][fj], w.V[fi][fj]},
		[]float64{w.U[fi][fj+1], w.V[fi][fj+1]},
		[]float64{w.U[fi+1][fj], w.V[fi+1][fj]},
		[]float64{w.U[fi+1][fj+1], w.V[fi+1][fj+1]})

	return u, v, nil
}

package main

import (
	"context"
	"flag"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/peterbourgon/ff"
	log "github.com/sirupsen/logrus"

	"github.com/oars-gb/course-server/api"
	"github.com/oars-gb/course-server/camera"
	"github.com/oars-gb/course-server/wind"
	"github.com/oars-gb/course-server/xmpp"

	_ "net/http/pprof"
)

func main() {

	fs := flag.NewFlagSet("course-server", flag.ExitOnError)
	var (
		addr       = fs.String("addr", ":8888", "listen address")
		debug      = fs.Bool("debug", false, "debug logging")
		cpuprofile = fs.Bool("cpuprofile", false, "profile route handlers")

		gribDir    = fs.String("grib-dir", "", "directory of grib2 forecasts; fixed wind when empty")
		stationLat = fs.Float64("station-lat", 0, "station latitude for wind sampling")
		stationLon = fs.Float64("station-lon", 0, "station longitude for wind sampling")
		windDir    = fs.Float64("wind-dir", 0, "fixed wind direction, degrees")
		windSpeed  = fs.Float64("wind-speed", 5, "fixed wind speed, m/s")

		cameraDir  = fs.String("camera-dir", "", "directory of camera frames; feed disabled when empty")
		cameraRate = fs.Float64("camera-rate", 10, "camera frames per second")

		xmppHost     = fs.String("xmpp-host", "", "")
		xmppJid      = fs.String("xmpp-jid", "", "")
		xmppPassword = fs.String("xmpp-password", "", "")
		xmppTo       = fs.String("xmpp-to", "", "")
	)
	ff.Parse(fs, os.Args[1:], ff.WithEnvVarNoPrefix())

	if *debug {
		log.SetLevel(log.DebugLevel)
	}

	x := &xmpp.Notifier{Config: xmpp.Config{Host: *xmppHost, Jid: *xmppJid, Password: *xmppPassword, To: *xmppTo}}

	var winds wind.Field
	if *gribDir != "" {
		log.Infof("Load winds from %s", *gribDir)
		g, err := wind.InitGrib(*gribDir, *stationLat, *stationLon)
		if err != nil {
			log.WithError(err).Fatal("Error loading winds")
		}
		winds = g
	} else {
		log.Infof("Fixed wind %.0f° %.1f m/s", *windDir, *windSpeed)
		winds = wind.Constant{Direction: *windDir, Speed: *windSpeed}
	}

	var feed http.Handler
	if *cameraDir != "" {
		source, err := camera.NewDirSource(*cameraDir)
		if err != nil {
			log.WithError(err).Fatal("Error opening camera source")
		}
		hub := camera.NewHub()
		f := &camera.Feed{Source: source, Hub: hub, Rate: *cameraRate}
		go f.Run(context.Background())
		feed = hub
		log.Infof("Camera feed from %s at %.0f fps", *cameraDir, *cameraRate)
	}

	log.Info("Start server")

	router := api.InitServer(*cpuprofile, winds, x, feed)
	log.Fatal(http.ListenAndServe(*addr, handlers.CombinedLoggingHandler(os.Stdout, router)))
}

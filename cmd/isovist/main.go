// Command isovist measures how much of each room in a floor plan has a
// view to the outside.
//
// It reads a scene snapshot, builds an isovist from every window jamb on
// an exterior wall, unions them and reports the visible share of each room:
//
//	isovist -scene plan.yaml -csv AreasWithViews.csv -png plan.png
//
// Flags given on the command line override values from -config.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/isovist"
	"github.com/gogpu/isovist/analysis"
	"github.com/gogpu/isovist/render"
	"github.com/gogpu/isovist/report"
	"github.com/gogpu/isovist/scene"
)

func main() {
	var (
		scenePath  = flag.String("scene", "", "scene snapshot (YAML or JSON)")
		configPath = flag.String("config", "", "analysis configuration file")
		csvPath    = flag.String("csv", report.DefaultCSVName, "CSV report output, empty to skip")
		geoPath    = flag.String("geojson", "", "GeoJSON output, empty to skip")
		pngPath    = flag.String("png", "", "plan preview output, empty to skip")
		pngWidth   = flag.Int("png-width", render.DefaultOptions().Width, "plan preview width in pixels")
		rays       = flag.Int("rays", isovist.DefaultNumRays, "rays per viewpoint")
		radius     = flag.Float64("radius", isovist.DefaultRadius, "maximum viewing distance")
		eye        = flag.Float64("eye", isovist.DefaultEyeElevation, "eye elevation")
		workers    = flag.Int("workers", 0, "isovist workers, 0 for GOMAXPROCS")
		edge       = flag.String("edge", isovist.DropUnhit.String(), "unobstructed rays: drop-unhit or clamp-to-radius")
		occupied   = flag.Bool("occupied", false, "only report regularly occupied rooms")
		verbose    = flag.Bool("v", false, "debug logging")
		version    = flag.Bool("version", false, "print the version and exit")
	)
	flag.Parse()

	if *version {
		fmt.Println("isovist", isovist.Version)
		return
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	isovist.SetLogger(logger)

	if *scenePath == "" {
		fmt.Fprintln(os.Stderr, "isovist: -scene is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg := isovist.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = isovist.LoadConfig(*configPath); err != nil {
			logger.Error("load config", slog.Any("err", err))
			os.Exit(1)
		}
	}

	var opts []isovist.Option
	var policy isovist.EdgePolicy
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "rays":
			opts = append(opts, isovist.WithRays(*rays))
		case "radius":
			opts = append(opts, isovist.WithRadius(*radius))
		case "eye":
			opts = append(opts, isovist.WithEyeElevation(*eye))
		case "workers":
			opts = append(opts, isovist.WithWorkers(*workers))
		case "edge":
			if err := policy.UnmarshalText([]byte(*edge)); err != nil {
				logger.Error("bad -edge", slog.Any("err", err))
				os.Exit(2)
			}
			opts = append(opts, isovist.WithEdgePolicy(policy))
		}
	})
	for _, opt := range opts {
		opt(&cfg)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	out := outputs{csv: *csvPath, geojson: *geoPath, png: *pngPath, pngWidth: *pngWidth}
	if err := run(ctx, *scenePath, cfg, *occupied, out); err != nil {
		logger.Error("analysis failed", slog.Any("err", err))
		stop()
		os.Exit(1)
	}
}

type outputs struct {
	csv, geojson, png string
	pngWidth          int
}

func run(ctx context.Context, path string, cfg isovist.Config, occupied bool, out outputs) error {
	doc, err := scene.Load(path)
	if err != nil {
		return err
	}
	snap, err := doc.Snapshot(cfg)
	if err != nil {
		return err
	}
	rooms := snap.Rooms
	if occupied {
		rooms = scene.RegularlyOccupied(rooms)
	}

	a, err := analysis.New(snap.Faces, cfg)
	if err != nil {
		return err
	}
	res, err := a.Run(ctx, analysis.Input{Probes: snap.Probes, Rooms: rooms})
	if err != nil {
		return err
	}

	if out.csv != "" {
		if err := report.SaveCSV(out.csv, res.Records); err != nil {
			return err
		}
	}
	if out.geojson != "" {
		fc := report.FeatureCollection(a.Aggregator(), res.Coverage, rooms, res.Records)
		fc.ExtraMembers = map[string]interface{}{"run": res.RunID.String()}
		if err := report.SaveGeoJSON(out.geojson, fc); err != nil {
			return err
		}
	}
	if out.png != "" {
		img, err := render.Plan(render.Scene{
			Rooms:      rooms,
			Records:    res.Records,
			Coverage:   res.Coverage.Polygons(),
			Viewpoints: res.Viewpoints,
		}, render.Options{Width: out.pngWidth, Margin: 24, LabelSize: 12})
		if err != nil {
			return err
		}
		if err := render.SavePNG(out.png, img); err != nil {
			return err
		}
	}

	printSummary(res)
	return nil
}

func printSummary(res *analysis.Result) {
	p := message.NewPrinter(language.English)
	s := report.Summarize(res.Records)

	p.Printf("isovist %s, run %s\n", isovist.Version, res.RunID)
	p.Printf("%d viewpoints, %d isovists, %d reused, %d warnings\n",
		len(res.Viewpoints), len(res.Isovists), res.CacheHits, len(res.Warnings))
	p.Printf("%d rooms (%d with a view, %d malformed)\n", s.Rooms, s.WithView, s.Malformed)
	ratio := 0.0
	if s.Area > 0 {
		ratio = 100 * s.VisibleArea / s.Area
	}
	p.Printf("visible %.1f of %.1f (%.1f%%)\n", s.VisibleArea, s.Area, ratio)
	p.Printf("elapsed %v\n", res.Elapsed)
}

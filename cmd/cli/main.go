package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"state-gridmap/internal/data"
	"state-gridmap/internal/loader"
	"state-gridmap/internal/logger"
	"state-gridmap/internal/model"
	"state-gridmap/internal/overlay"
	"state-gridmap/internal/render"
	"state-gridmap/internal/scene"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "validate":
		cmdValidate(os.Args[2:])
	case "grid":
		cmdGrid(os.Args[2:])
	case "export":
		cmdExport(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli validate --assets ./static")
	fmt.Println("  cli grid --assets ./static --metric \"Daily New Deaths\"")
	fmt.Println("  cli export --assets ./static --state California --out results/california.csv")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - --assets is a directory or an http(s) base URL serving the four asset files")
	fmt.Println("  - metrics: " + metricNames())
}

func cmdValidate(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	assets := fs.String("assets", "./static", "Asset directory or base URL")
	timeout := fs.Duration("timeout", 30*time.Second, "Fetch timeout for HTTP sources")
	_ = fs.Parse(args)

	snap, err := load(*assets, *timeout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid assets: %v\n", err)
		var le *loader.LoadError
		if errors.As(err, &le) {
			for _, e := range unjoin(le.Err) {
				fmt.Fprintf(os.Stderr, "  - %v\n", e)
			}
		}
		os.Exit(1)
	}

	fmt.Printf("colors:       %d states\n", len(snap.Colors))
	fmt.Printf("grid entries: %d\n", len(snap.Grid))
	fmt.Printf("links:        %d\n", len(snap.Links))
	fmt.Printf("time series:  %d states\n", len(snap.Series))
	if len(snap.Links) > 0 {
		pub := snap.Links[0].Publication
		fmt.Printf("publication:  %s (%d tiles)\n", pub, len(model.FilterPublication(snap.Grid, pub)))
	}
	fmt.Println("ok")
}

func cmdGrid(args []string) {
	fs := flag.NewFlagSet("grid", flag.ExitOnError)
	assets := fs.String("assets", "./static", "Asset directory or base URL")
	metric := fs.String("metric", string(model.MetricNewCases), "Metric to chart")
	width := fs.Float64("w", 1280, "Viewport width")
	height := fs.Float64("h", 800, "Viewport height")
	_ = fs.Parse(args)

	snap, err := load(*assets, 30*time.Second)
	if err != nil {
		fail(err)
	}
	sc, err := scene.Build(inputs(snap), model.ParseMetric(*metric), scene.Viewport{Width: *width, Height: *height})
	if err != nil {
		fail(err)
	}
	fmt.Println(render.Terminal(sc))
}

func cmdExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	assets := fs.String("assets", "./static", "Asset directory or base URL")
	state := fs.String("state", "", "State name, e.g. California")
	metric := fs.String("metric", string(model.MetricNewCases), "Metric to export")
	smoothed := fs.Bool("smoothed", false, "Export the smoothed series instead of daily values")
	outPath := fs.String("out", "", "Output CSV path (default stdout)")
	_ = fs.Parse(args)

	if *state == "" {
		fmt.Println("--state is required")
		os.Exit(2)
	}

	snap, err := load(*assets, 30*time.Second)
	if err != nil {
		fail(err)
	}
	rec, err := overlay.Find(snap.Series, *state)
	if err != nil {
		fail(err)
	}
	m := model.ParseMetric(*metric)
	points := overlay.Dataset(*rec, m)
	if *smoothed {
		points = overlay.SmoothedDataset(*rec, m)
	}

	var w io.Writer = os.Stdout
	if *outPath != "" {
		// ensure output dir exists
		if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
			fail(err)
		}
		f, err := os.Create(*outPath)
		if err != nil {
			fail(err)
		}
		defer f.Close()
		w = f
	}
	if err := data.WriteDatasetCSV(w, points); err != nil {
		fail(err)
	}
	if *outPath != "" {
		fmt.Printf("Wrote %d rows to %s\n", len(points), *outPath)
	}
}

func load(base string, timeout time.Duration) (*loader.Snapshot, error) {
	log := logger.Setup(os.Getenv("LOG_LEVEL"), "text")
	ld := loader.New(data.NewSource(base, timeout, data.DefaultMaxAssetBytes), loader.DefaultAssets, loader.WithLogger(log))
	return ld.Load(context.Background())
}

func inputs(s *loader.Snapshot) scene.Inputs {
	return scene.Inputs{Colors: s.Colors, Grid: s.Grid, Links: s.Links, Series: s.Series}
}

func unjoin(err error) []error {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}
	return []error{err}
}

func metricNames() string {
	names := make([]string, 0, len(model.Metrics))
	for _, m := range model.Metrics {
		names = append(names, string(m))
	}
	return strings.Join(names, ", ")
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

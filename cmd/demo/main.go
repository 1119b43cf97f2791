package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"state-gridmap/internal/loader"
	"state-gridmap/internal/model"
)

// Demo:
// - Write a complete sample asset set (colors, grid, links, time series) to --out
// - DC has no color and Hawaii has no time series, so the page shows both fallbacks
// - Serve it with ASSETS_BASE=<out> go run ./cmd/api
func main() {
	outDir := flag.String("out", "static", "Directory to write the four assets to")
	days := flag.Int("days", 180, "Number of days of data per state")
	flag.Parse()

	if *days < 8 {
		fmt.Println("--days must be at least 8")
		os.Exit(2)
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		panic(err)
	}

	var colors, grid [][]string
	colors = append(colors, []string{"state", "color"})
	grid = append(grid, []string{"code", "state", "row", "col", "publication"})
	var series []model.TimeSeriesRecord

	for i, t := range tiles {
		grid = append(grid, []string{t.code, t.state, strconv.Itoa(t.row), strconv.Itoa(t.col), "npr"})
		if t.code != "DC" {
			colors = append(colors, []string{t.state, palette[i%len(palette)]})
		}
		if t.code != "HI" {
			series = append(series, record(t.state, i, *days))
		}
	}
	// a second, smaller publication that is never selected while npr is linked first
	for i, t := range tiles[:6] {
		grid = append(grid, []string{t.code, t.state, "1", strconv.Itoa(i + 1), "compact"})
	}

	links := [][]string{
		{"publication", "title"},
		{"npr", "State tile grid"},
		{"compact", "Compact strip"},
	}

	names := loader.DefaultAssets
	writeCSV(filepath.Join(*outDir, names.Colors), colors)
	writeCSV(filepath.Join(*outDir, names.Grid), grid)
	writeCSV(filepath.Join(*outDir, names.Links), links)

	raw, err := json.MarshalIndent(series, "", "  ")
	if err != nil {
		panic(err)
	}
	if err := os.WriteFile(filepath.Join(*outDir, names.Series), raw, 0o644); err != nil {
		panic(err)
	}

	fmt.Printf("Wrote %d tiles, %d colors, %d series (%d days) to %s\n",
		len(tiles), len(colors)-1, len(series), *days, *outDir)
}

// record builds a wave-shaped series; hospitalizations start a month after cases.
func record(state string, seed, days int) model.TimeSeriesRecord {
	start := time.Date(2020, time.March, 1, 0, 0, 0, 0, time.UTC)
	amp := 200 + float64(seed%9)*150
	phase := float64(seed%7) / 7 * math.Pi

	r := model.TimeSeriesRecord{State: state}
	for d := 0; d < days; d++ {
		day := start.AddDate(0, 0, d)
		x := float64(d) / float64(days) * 3 * math.Pi
		cases := math.Round(amp * (1.2 + math.Sin(x+phase)) * (0.85 + 0.3*float64((d*7+seed)%5)/4))
		deaths := math.Round(cases * 0.02)

		r.Dates = append(r.Dates, model.Date{Time: day})
		r.NewCases = append(r.NewCases, cases)
		r.NewDeaths = append(r.NewDeaths, deaths)
		if d >= 30 {
			r.HospDates = append(r.HospDates, model.Date{Time: day})
			r.NewHospitalizations = append(r.NewHospitalizations, math.Round(cases*0.15))
		}
	}
	r.AvgCases = trailingMean(r.NewCases, 7)
	r.AvgDeaths = trailingMean(r.NewDeaths, 7)
	r.AvgHospitalizations = trailingMean(r.NewHospitalizations, 7)
	return r
}

func trailingMean(v []float64, window int) []float64 {
	out := make([]float64, len(v))
	sum := 0.0
	for i := range v {
		sum += v[i]
		if i >= window {
			sum -= v[i-window]
		}
		n := min(i+1, window)
		out[i] = math.Round(sum/float64(n)*100) / 100
	}
	return out
}

func writeCSV(path string, rows [][]string) {
	f, err := os.Create(path)
	if err != nil {
		panic(err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		panic(err)
	}
}

type tile struct {
	code, state string
	row, col    int
}

var palette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

var tiles = []tile{
	{"AK", "Alaska", 1, 1}, {"ME", "Maine", 1, 12},
	{"WI", "Wisconsin", 2, 7}, {"VT", "Vermont", 2, 11}, {"NH", "New Hampshire", 2, 12},
	{"WA", "Washington", 3, 1}, {"ID", "Idaho", 3, 2}, {"MT", "Montana", 3, 3}, {"ND", "North Dakota", 3, 4},
	{"MN", "Minnesota", 3, 5}, {"IL", "Illinois", 3, 6}, {"MI", "Michigan", 3, 8}, {"NY", "New York", 3, 10},
	{"MA", "Massachusetts", 3, 11},
	{"OR", "Oregon", 4, 1}, {"NV", "Nevada", 4, 2}, {"WY", "Wyoming", 4, 3}, {"SD", "South Dakota", 4, 4},
	{"IA", "Iowa", 4, 5}, {"IN", "Indiana", 4, 6}, {"OH", "Ohio", 4, 7}, {"PA", "Pennsylvania", 4, 8},
	{"NJ", "New Jersey", 4, 9}, {"CT", "Connecticut", 4, 10}, {"RI", "Rhode Island", 4, 11},
	{"CA", "California", 5, 1}, {"UT", "Utah", 5, 2}, {"CO", "Colorado", 5, 3}, {"NE", "Nebraska", 5, 4},
	{"MO", "Missouri", 5, 5}, {"KY", "Kentucky", 5, 6}, {"WV", "West Virginia", 5, 7}, {"VA", "Virginia", 5, 8},
	{"MD", "Maryland", 5, 9}, {"DE", "Delaware", 5, 10},
	{"AZ", "Arizona", 6, 2}, {"NM", "New Mexico", 6, 3}, {"KS", "Kansas", 6, 4}, {"AR", "Arkansas", 6, 5},
	{"TN", "Tennessee", 6, 6}, {"NC", "North Carolina", 6, 7}, {"SC", "South Carolina", 6, 8},
	{"DC", "District of Columbia", 6, 9},
	{"OK", "Oklahoma", 7, 4}, {"LA", "Louisiana", 7, 5}, {"MS", "Mississippi", 7, 6}, {"AL", "Alabama", 7, 7},
	{"GA", "Georgia", 7, 8},
	{"HI", "Hawaii", 8, 1}, {"TX", "Texas", 8, 4}, {"FL", "Florida", 8, 9},
}

package main

import (
	"fmt"
	"image"
	_ "image/png" // register PNG decoder
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/iafilius/WeatherEDA/src/analysis"
	"github.com/iafilius/WeatherEDA/src/config"
	"github.com/iafilius/WeatherEDA/src/eda"
)

// writeWeatherFile writes one reading per day of 2012 with every expected column.
func writeWeatherFile(t *testing.T) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "weather-*.csv")
	if err != nil {
		t.Fatalf("create temp csv: %v", err)
	}
	defer f.Close()
	fmt.Fprintln(f, "Date/Time,Temp (C),Dew Point Temp (C),Rel Hum (%),Wind Spd (km/h),Visibility (km),Stn Press (kPa),Weather")
	weather := []string{"Clear", "Mostly Cloudy", "Snow", "Fog"}
	day := time.Date(2012, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; day.Year() == 2012; i++ {
		fmt.Fprintf(f, "%s,%.1f,%.1f,%d,%d,%.1f,%.2f,%s\n",
			day.Format("2006-01-02 15:04"),
			float64(day.Month())*2-10, float64(day.Month())*2-14,
			50+i%40, i%35, 5+float64(i%45), 99+float64(i%30)/10,
			weather[i%len(weather)])
		day = day.AddDate(0, 0, 1)
	}
	return f.Name()
}

func testOptions() eda.Options {
	return eda.Options{Schema: config.DefaultSchema(), GroupBy: "Weather", Aggregate: "mean", Value: "Visibility (km)"}
}

// TestScreenshotsModeWritesEveryFigure checks that all figures are written and
// decode to the sizes the renderers draw at.
func TestScreenshotsModeWritesEveryFigure(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "shots")
	if err := RunScreenshotsMode(writeWeatherFile(t), outDir, testOptions()); err != nil {
		t.Fatalf("RunScreenshotsMode: %v", err)
	}
	want := map[string][2]int{
		"line_chart.png":          {1000, 560},
		"categorical_weather.png": {1500, 1000},
		"cont_distplot.png":       {1500, 1000},
		"cont_boxplot.png":        {1500, 1000},
		"group_mean_visibility--km-_by_weather.png": {1500, 1000},
	}
	entries, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatalf("read out dir: %v", err)
	}
	if len(entries) != len(want) {
		t.Fatalf("expected %d files, got %d", len(want), len(entries))
	}
	for name, size := range want {
		f, err := os.Open(filepath.Join(outDir, name))
		if err != nil {
			t.Fatalf("open %s: %v", name, err)
		}
		cfg, _, err := image.DecodeConfig(f)
		f.Close()
		if err != nil {
			t.Fatalf("decode %s: %v", name, err)
		}
		if cfg.Width != size[0] || cfg.Height != size[1] {
			t.Fatalf("%s is %dx%d, want %dx%d", name, cfg.Width, cfg.Height, size[0], size[1])
		}
	}
}

func TestScreenshotsModeReportsBadAggregate(t *testing.T) {
	opts := testOptions()
	opts.Aggregate = "median"
	err := RunScreenshotsMode(writeWeatherFile(t), t.TempDir(), opts)
	if err == nil || !strings.Contains(err.Error(), analysis.ErrUnknownAggregate.Error()) {
		t.Fatalf("expected unknown aggregate error, got %v", err)
	}
}

func TestScreenshotsModeMissingFile(t *testing.T) {
	err := RunScreenshotsMode(filepath.Join(t.TempDir(), "missing.csv"), t.TempDir(), testOptions())
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

package eda

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iafilius/WeatherEDA/src/analysis"
	"github.com/iafilius/WeatherEDA/src/charts"
	"github.com/iafilius/WeatherEDA/src/config"
)

// writeWeatherFile writes readings at 06:00 and 18:00 on the 1st and 15th of every
// month of 2012.
func writeWeatherFile(t *testing.T) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("Date/Time,Temp (C),Dew Point Temp (C),Rel Hum (%),Wind Spd (km/h),Visibility (km),Stn Press (kPa),Weather\n")
	weather := []string{"Fog", "Clear", "Snow", "Rain"}
	row := 0
	for m := time.January; m <= time.December; m++ {
		for _, day := range []int{1, 15} {
			for _, hour := range []int{6, 18} {
				ts := time.Date(2012, m, day, hour, 0, 0, 0, time.UTC)
				fmt.Fprintf(&b, "%s,%.1f,%.1f,%d,%d,%.1f,%.2f,%s\n",
					ts.Format("2006-01-02 15:04"),
					float64(m)-6+float64(hour)/10, float64(m)-9.5,
					60+row%30, 5+row%25, 8+float64(row%20), 100.5+float64(row%7)/10,
					weather[row%len(weather)])
				row++
			}
		}
	}
	path := filepath.Join(t.TempDir(), "weather_2012.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func defaultOptions() Options {
	return Options{Schema: config.DefaultSchema(), GroupBy: "Weather", Aggregate: "mean", Value: "Visibility (km)"}
}

func TestRunEmitsEveryFigureInOrder(t *testing.T) {
	opts := defaultOptions()
	tbl, err := Load(writeWeatherFile(t), opts.Schema)
	require.NoError(t, err)
	require.Equal(t, 48, tbl.Len())

	var sink charts.MemorySink
	res, err := Run(&sink, tbl, opts)
	require.NoError(t, err)
	assert.Equal(t, 5, res.Figures)

	names := make([]string, len(sink.Figures))
	for i, f := range sink.Figures {
		names[i] = f.Name
	}
	assert.Equal(t, []string{
		"line_chart",
		"categorical_Weather",
		"cont_distplot",
		"cont_boxplot",
		"group_mean_Visibility (km)_by_Weather",
	}, names)

	require.Len(t, res.Grouped.Rows, 4)
	assert.Equal(t, "Clear", res.Grouped.Rows[0].Key)
	assert.Equal(t, analysis.AggMean, res.Grouped.Aggregate)
}

func TestRunStopsAtFirstFailure(t *testing.T) {
	opts := defaultOptions()
	opts.Aggregate = "median"
	tbl, err := Load(writeWeatherFile(t), opts.Schema)
	require.NoError(t, err)

	var sink charts.MemorySink
	res, err := Run(&sink, tbl, opts)
	require.ErrorIs(t, err, analysis.ErrUnknownAggregate)
	assert.Contains(t, err.Error(), "group_values")
	assert.Equal(t, 4, res.Figures)
	assert.Len(t, sink.Figures, 4)
}

func TestRunMissingTrendColumn(t *testing.T) {
	opts := defaultOptions()
	opts.Schema.TrendColumn = "Humidex"
	tbl, err := Load(writeWeatherFile(t), opts.Schema)
	require.NoError(t, err)

	var sink charts.MemorySink
	_, err = Run(&sink, tbl, opts)
	require.ErrorIs(t, err, analysis.ErrMissingColumn)
	assert.Empty(t, sink.Figures)
}

func TestRunWritesPNGFiles(t *testing.T) {
	opts := defaultOptions()
	tbl, err := Load(writeWeatherFile(t), opts.Schema)
	require.NoError(t, err)

	sink := charts.DirSink{Dir: filepath.Join(t.TempDir(), "figures")}
	_, err = Run(sink, tbl, opts)
	require.NoError(t, err)
	entries, err := os.ReadDir(sink.Dir)
	require.NoError(t, err)
	assert.Len(t, entries, 5)
	_, err = os.Stat(sink.Path("cont_boxplot"))
	assert.NoError(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"), config.DefaultSchema())
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestOptionsFrom(t *testing.T) {
	cfg := &config.Config{GroupBy: "Weather", Aggregate: "len", Value: "Temp (C)", Schema: config.DefaultSchema()}
	opts := OptionsFrom(cfg)
	assert.Equal(t, "len", opts.Aggregate)
	assert.Equal(t, "Temp (C)", opts.Value)
	assert.Equal(t, "Date/Time", opts.Schema.IndexColumn)
}

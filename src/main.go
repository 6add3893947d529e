// Weather EDA main entrypoint.
//
// Loads the hourly weather table and runs the full analysis: monthly temperature
// trend, weather category counts, the distplot and boxplot grids of the six numeric
// panels, and the grouped aggregate (printed and drawn as a bar chart). Figures are
// written as PNG files to --out-dir.
//
// Settings: WEATHER_* environment variables provide the defaults, flags override them.
// The column schema can be replaced with a YAML file (--schema).
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/iafilius/WeatherEDA/src/charts"
	"github.com/iafilius/WeatherEDA/src/config"
	"github.com/iafilius/WeatherEDA/src/eda"
	"github.com/iafilius/WeatherEDA/src/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("[config] %v\n", err)
		os.Exit(1)
	}

	file := flag.String("file", cfg.File, "Path to the weather CSV file (WEATHER_FILE)")
	outDir := flag.String("out-dir", cfg.OutDir, "Directory the figures are written to (WEATHER_OUT_DIR)")
	logLevel := flag.String("log-level", cfg.LogLevel, "Log level (debug|info|warn|error)")
	schemaFile := flag.String("schema", cfg.SchemaFile, "Optional YAML file overriding the column schema")
	groupBy := flag.String("group-by", cfg.GroupBy, "Column to group by for the aggregate step")
	agg := flag.String("agg", cfg.Aggregate, "Aggregate (mean|max|min|sum|len)")
	value := flag.String("value", cfg.Value, "Column to aggregate")
	flag.Parse()

	if !logging.ValidLevel(*logLevel) {
		fmt.Printf("[init] unknown log level %q\n", *logLevel)
		os.Exit(1)
	}
	logging.SetLogLevel(*logLevel)

	if *schemaFile != cfg.SchemaFile {
		s, err := config.LoadSchema(*schemaFile)
		if err != nil {
			fmt.Printf("[config] %v\n", err)
			os.Exit(1)
		}
		cfg.Schema = s
	}
	cfg.File, cfg.OutDir, cfg.GroupBy, cfg.Aggregate, cfg.Value = *file, *outDir, *groupBy, *agg, *value

	start := time.Now()
	tbl, err := eda.Load(cfg.File, cfg.Schema)
	if err != nil {
		fmt.Printf("[load] %v\n", err)
		os.Exit(1)
	}
	sink := charts.DirSink{Dir: cfg.OutDir}
	res, err := eda.Run(sink, tbl, eda.OptionsFrom(cfg))
	if err != nil {
		fmt.Printf("[eda] %v\n", err)
		os.Exit(1)
	}
	fmt.Print(res.Grouped.String())
	fmt.Printf("[eda] wrote %d figures to %s in %s\n", res.Figures, cfg.OutDir, time.Since(start).Round(time.Millisecond))
}

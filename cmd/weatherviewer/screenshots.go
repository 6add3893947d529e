package main

import (
	"fmt"
	"os"

	"github.com/iafilius/WeatherEDA/src/charts"
	"github.com/iafilius/WeatherEDA/src/eda"
	"github.com/iafilius/WeatherEDA/src/logging"
)

// RunScreenshotsMode renders every figure of a run and writes them as PNGs under outDir.
// It runs headlessly without creating a UI window.
func RunScreenshotsMode(filePath, outDir string, opts eda.Options) error {
	if filePath == "" {
		filePath = "weather_2012.csv"
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create out dir: %w", err)
	}
	tbl, err := eda.Load(filePath, opts.Schema)
	if err != nil {
		return err
	}
	res, err := eda.Run(charts.DirSink{Dir: outDir}, tbl, opts)
	if err != nil {
		return err
	}
	logging.Infof("[screenshots] wrote %d figures to %s", res.Figures, outDir)
	return nil
}

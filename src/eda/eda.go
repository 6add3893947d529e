// Package eda runs the exploratory weather analysis end to end: load the table,
// draw the monthly trend, the category counts, both distribution grids and the
// grouped aggregate.
package eda

import (
	"fmt"
	"time"

	"github.com/iafilius/WeatherEDA/src/analysis"
	"github.com/iafilius/WeatherEDA/src/charts"
	"github.com/iafilius/WeatherEDA/src/config"
	"github.com/iafilius/WeatherEDA/src/logging"
	"github.com/iafilius/WeatherEDA/src/table"
)

// Options are the arguments of one run.
type Options struct {
	Schema    config.Schema
	GroupBy   string
	Aggregate string
	Value     string
}

// OptionsFrom copies the run arguments out of cfg.
func OptionsFrom(cfg *config.Config) Options {
	return Options{
		Schema:    cfg.Schema,
		GroupBy:   cfg.GroupBy,
		Aggregate: cfg.Aggregate,
		Value:     cfg.Value,
	}
}

// Result is what a run returns besides the emitted figures.
type Result struct {
	Grouped analysis.GroupedResult
	Figures int
}

// Load reads the weather file with the index column and time layouts of schema.
func Load(path string, schema config.Schema) (*table.Table, error) {
	defer logging.TimeTrack(time.Now(), "load")
	tbl, err := table.LoadFile(path, table.LoadOptions{
		IndexColumn: schema.IndexColumn,
		TimeLayouts: schema.TimeLayouts,
	})
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	logging.Infof("[load] %s: %d rows, %d columns", path, tbl.Len(), len(tbl.Names()))
	return tbl, nil
}

// countingSink counts what passes through to the wrapped sink.
type countingSink struct {
	next charts.Sink
	n    int
}

func (s *countingSink) Emit(f charts.Figure) error {
	if err := s.next.Emit(f); err != nil {
		return err
	}
	s.n++
	logging.Debugf("[emit] %s (%s)", f.Name, f.Title)
	return nil
}

// Run draws every figure into sink in order and returns the grouped aggregate.
// The first failing step stops the run; figures emitted before it stay emitted.
func Run(sink charts.Sink, tbl *table.Table, opts Options) (Result, error) {
	defer logging.TimeTrack(time.Now(), "eda")
	cs := &countingSink{next: sink}
	var res Result
	s := opts.Schema

	steps := []struct {
		name string
		run  func() error
	}{
		{"line_chart", func() error {
			return charts.LineChart(cs, tbl, tbl.Index(), s.TrendColumn)
		}},
		{"plot_categorical_columns", func() error {
			return charts.CategoricalColumnsOf(cs, tbl, s.CategoricalColumn)
		}},
		{"plot_cont distplot", func() error {
			return charts.ContOf(cs, tbl, analysis.DistPlot, s.PanelColumns)
		}},
		{"plot_cont boxplot", func() error {
			return charts.ContOf(cs, tbl, analysis.BoxPlot, s.PanelColumns)
		}},
		{"group_values", func() error {
			g, err := analysis.GroupValues(tbl, opts.GroupBy, opts.Aggregate, opts.Value)
			if err != nil {
				return err
			}
			res.Grouped = g
			return charts.GroupedBar(cs, g)
		}},
	}
	for _, st := range steps {
		logging.Infof("[eda] %s", st.name)
		if err := st.run(); err != nil {
			res.Figures = cs.n
			return res, fmt.Errorf("%s: %w", st.name, err)
		}
	}
	res.Figures = cs.n
	logging.Infof("[eda] done: %d figures", res.Figures)
	return res, nil
}

// weatherreader prints a grouped aggregate of the weather table, for example the
// mean visibility per weather category. With --columns it lists the column kinds
// instead, and with --csv it writes the grouped result as CSV.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/iafilius/WeatherEDA/src/analysis"
	"github.com/iafilius/WeatherEDA/src/config"
	"github.com/iafilius/WeatherEDA/src/eda"
	"github.com/iafilius/WeatherEDA/src/logging"
	"github.com/iafilius/WeatherEDA/src/table"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	var file, groupBy, agg, value, logLevel string
	var columns, noColor, asCSV bool
	flag.StringVar(&file, "file", cfg.File, "Path to the weather CSV file")
	flag.StringVar(&groupBy, "group-by", cfg.GroupBy, "Column to group by")
	flag.StringVar(&agg, "agg", cfg.Aggregate, "Aggregate (mean|max|min|sum|len)")
	flag.StringVar(&value, "value", cfg.Value, "Column to aggregate")
	flag.StringVar(&logLevel, "log-level", "warn", "Log level (debug|info|warn|error)")
	flag.BoolVar(&columns, "columns", false, "List the columns and their kinds, then exit")
	flag.BoolVar(&noColor, "no-color", false, "Disable coloured output")
	flag.BoolVar(&asCSV, "csv", false, "Write the grouped result as CSV")
	flag.Parse()
	logging.SetLogLevel(logLevel)

	tbl, err := eda.Load(file, cfg.Schema)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	colorOutput := !noColor && isatty.IsTerminal(os.Stdout.Fd())
	if columns {
		printColumns(os.Stdout, tbl, colorOutput)
		return
	}
	res, err := analysis.GroupValues(tbl, groupBy, agg, value)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if asCSV {
		if err := writeGroupedCSV(os.Stdout, res); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}
	printGrouped(os.Stdout, res, colorOutput)
}

// writeGroupedCSV writes a header row named after the group and value columns,
// then one row per group.
func writeGroupedCSV(w io.Writer, res analysis.GroupedResult) error {
	return res.DataFrame().WriteCSV(w)
}

type palette struct {
	header, key, value, missing *color.Color
}

func newPalette(colorOutput bool) palette {
	p := palette{
		header:  color.New(color.FgCyan, color.Bold),
		key:     color.New(color.FgGreen),
		value:   color.New(color.FgWhite),
		missing: color.New(color.FgYellow),
	}
	for _, c := range []*color.Color{p.header, p.key, p.value, p.missing} {
		if colorOutput {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// printGrouped writes one line per group, the key padded to the widest key.
func printGrouped(w io.Writer, res analysis.GroupedResult, colorOutput bool) {
	p := newPalette(colorOutput)
	width := len(res.GroupColumn)
	for _, r := range res.Rows {
		if len(r.Key) > width {
			width = len(r.Key)
		}
	}
	fmt.Fprintln(w, p.header.Sprintf("%-*s  %s (%s)", width, res.GroupColumn, res.ValueColumn, res.Aggregate))
	for _, r := range res.Rows {
		v := res.FormatValue(r.Value)
		vc := p.value
		if v == "NaN" {
			vc = p.missing
		}
		fmt.Fprintf(w, "%s  %s\n", p.key.Sprintf("%-*s", width, r.Key), vc.Sprint(v))
	}
	fmt.Fprintf(w, "%d groups\n", len(res.Rows))
}

// printColumns lists every column with its kind, the index first.
func printColumns(w io.Writer, tbl *table.Table, colorOutput bool) {
	p := newPalette(colorOutput)
	fmt.Fprintln(w, p.header.Sprintf("%d rows", tbl.Len()))
	if tbl.IndexName() != "" {
		fmt.Fprintf(w, "%s  %s\n", p.key.Sprint(tbl.IndexName()), "index")
	}
	for _, n := range tbl.Names() {
		k, _ := tbl.Kind(n)
		fmt.Fprintf(w, "%s  %s\n", p.key.Sprint(n), p.value.Sprint(k.String()))
	}
}

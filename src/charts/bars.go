package charts

import (
	"fmt"
	"image"
	"math"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/iafilius/WeatherEDA/src/analysis"
	"github.com/iafilius/WeatherEDA/src/logging"
	"github.com/iafilius/WeatherEDA/src/table"
)

// Bar figures are 15x10 inches at 100 dpi.
const (
	barFigureWidth  = 1500
	barFigureHeight = 1000
	// room for category labels rotated 90 degrees
	barLabelPad = 180
)

var barColor = drawing.ColorFromHex("4c72b0")

type bar struct {
	label string
	value float64
}

// CategoricalColumns draws the frequency of every Weather category.
func CategoricalColumns(sink Sink, tbl *table.Table) error {
	return CategoricalColumnsOf(sink, tbl, analysis.CategoricalColumn)
}

// CategoricalColumnsOf draws the frequency of each value of a categorical column.
func CategoricalColumnsOf(sink Sink, tbl *table.Table, column string) error {
	defer logging.TimeTrack(time.Now(), "plot_categorical_columns")
	counts, err := analysis.CategoryCountsOf(tbl, column)
	if err != nil {
		return err
	}
	if len(counts) == 0 {
		return fmt.Errorf("count plot %q: %w", column, ErrNoData)
	}
	bars := make([]bar, len(counts))
	for i, c := range counts {
		bars[i] = bar{label: c.Label, value: float64(c.Count)}
	}
	logging.Debugf("[plot_categorical_columns] %s: %d categories", column, len(bars))
	return drawBars(sink, "categorical_"+column, column+" counts", barChart(column+" counts", "count", bars))
}

// GroupedBar draws a GroupValues result, one bar per group key.
func GroupedBar(sink Sink, res analysis.GroupedResult) error {
	if len(res.Rows) == 0 {
		return fmt.Errorf("grouped bar %q by %q: %w", res.ValueColumn, res.GroupColumn, ErrNoData)
	}
	bars := make([]bar, len(res.Rows))
	for i, r := range res.Rows {
		bars[i] = bar{label: r.Key, value: r.Value}
	}
	title := fmt.Sprintf("%s %s by %s", res.Aggregate, res.ValueColumn, res.GroupColumn)
	name := fmt.Sprintf("group_%s_%s_by_%s", res.Aggregate, res.ValueColumn, res.GroupColumn)
	return drawBars(sink, name, title, barChart(title, res.ValueColumn, bars))
}

func drawBars(sink Sink, name, title string, bc chart.BarChart) error {
	cv := acquire(sink, name, bc.Width, bc.Height)
	defer cv.release()
	img, err := rasterize(bc)
	if err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	cv.place(img, image.Point{})
	return cv.emit(title)
}

// barChart builds a bar chart with labels rotated 90 degrees. NaN values are
// drawn as empty bars. Negative values hang below the zero line.
func barChart(title, yName string, bars []bar) chart.BarChart {
	minV, maxV := 0.0, 0.0
	values := make([]chart.Value, len(bars))
	for i, b := range bars {
		v := b.value
		if math.IsNaN(v) {
			v = 0
		}
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
		values[i] = chart.Value{
			Label: b.label,
			Value: v,
			Style: chart.Style{FillColor: barColor, StrokeColor: barColor, StrokeWidth: 1},
		}
	}
	yMin, yMax := zeroAnchoredBounds(minV, maxV)
	return chart.BarChart{
		Title:  title,
		Width:  barFigureWidth,
		Height: barFigureHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 48, Left: 24, Right: 24, Bottom: barLabelPad},
		},
		BarWidth:     barWidthFor(len(bars)),
		UseBaseValue: true,
		BaseValue:    0,
		XAxis:        chart.Style{TextRotationDegrees: 90},
		YAxis: chart.YAxis{
			Name:  yName,
			Range: &chart.ContinuousRange{Min: yMin, Max: yMax},
			Ticks: niceTicks(yMin, yMax, 8),
		},
		Bars: values,
	}
}

// barWidthFor fills roughly 70% of the plot width.
func barWidthFor(n int) int {
	if n <= 0 {
		return 40
	}
	w := int(float64(barFigureWidth-120) * 0.7 / float64(n))
	if w < 4 {
		w = 4
	}
	if w > 120 {
		w = 120
	}
	return w
}

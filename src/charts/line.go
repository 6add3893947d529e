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

const (
	lineChartTitle  = "Temperature Trend, 2012"
	lineChartXLabel = "Months"
	lineChartYLabel = "Temp (C)"
	lineChartWidth  = 1000
	lineChartHeight = 560
)

var trendColor = drawing.ColorFromHex("1f77b4")

// LineChart plots the monthly mean of col against the twelve calendar months.
// Months without data are left as gaps. The axis labels and title are fixed.
func LineChart(sink Sink, tbl *table.Table, period []time.Time, col string) error {
	defer logging.TimeTrack(time.Now(), "line_chart")
	ms, err := analysis.MonthlyMeans(tbl, period, col)
	if err != nil {
		return err
	}
	if ms.Present() == 0 {
		return fmt.Errorf("line chart %q: %w", col, ErrNoData)
	}
	logging.Debugf("[line_chart] %s: %d of 12 months present", col, ms.Present())

	cv := acquire(sink, "line_chart", lineChartWidth, lineChartHeight)
	defer cv.release()
	img, err := rasterize(monthlyChart(ms))
	if err != nil {
		return fmt.Errorf("render line chart: %w", err)
	}
	cv.place(img, image.Point{})
	return cv.emit(lineChartTitle)
}

// monthlyChart lays the twelve months out at x=1..12. Each run of consecutive
// months with a value becomes its own series so gaps are not bridged.
func monthlyChart(ms analysis.MonthlySeries) chart.Chart {
	ticks := make([]chart.Tick, len(ms.Labels))
	for i, l := range ms.Labels {
		ticks[i] = chart.Tick{Value: float64(i + 1), Label: l}
	}
	minY, maxY := math.MaxFloat64, -math.MaxFloat64
	var series []chart.Series
	var xs, ys []float64
	flush := func() {
		if len(xs) == 0 {
			return
		}
		series = append(series, chart.ContinuousSeries{
			Name:    ms.Column,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: trendColor,
				StrokeWidth: 2,
				DotColor:    trendColor,
				DotWidth:    3,
			},
		})
		xs, ys = nil, nil
	}
	for i, v := range ms.Values {
		if math.IsNaN(v) {
			flush()
			continue
		}
		xs = append(xs, float64(i+1))
		ys = append(ys, v)
		minY = math.Min(minY, v)
		maxY = math.Max(maxY, v)
	}
	flush()

	yMin, yMax := niceAxisBounds(minY, maxY)
	return chart.Chart{
		Title:      lineChartTitle,
		Width:      lineChartWidth,
		Height:     lineChartHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 24}},
		XAxis: chart.XAxis{
			Name:      lineChartXLabel,
			Ticks:     ticks,
			Range:     &chart.ContinuousRange{Min: 0.5, Max: float64(len(ms.Labels)) + 0.5},
			TickStyle: chart.Style{TextRotationDegrees: 90},
		},
		YAxis: chart.YAxis{
			Name:  lineChartYLabel,
			Range: &chart.ContinuousRange{Min: yMin, Max: yMax},
			Ticks: niceTicks(yMin, yMax, 6),
		},
		Series: series,
	}
}

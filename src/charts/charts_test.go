package charts

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/iafilius/WeatherEDA/src/analysis"
	"github.com/iafilius/WeatherEDA/src/table"
)

var testLayouts = []string{"2006-01-02 15:04"}

func loadCSV(t *testing.T, body string) *table.Table {
	t.Helper()
	tbl, err := table.Load(strings.NewReader(body), table.LoadOptions{IndexColumn: "Date/Time", TimeLayouts: testLayouts})
	require.NoError(t, err)
	return tbl
}

// weatherCSV has one row per month of 2012 with every panel column and a Weather
// column cycling three labels. Temp (C), the first panel, equals the month number.
func weatherCSV(months ...time.Month) string {
	var b strings.Builder
	b.WriteString("Date/Time," + strings.Join(analysis.ContinuousPanels, ",") + ",Weather\n")
	labels := []string{"Fog", "Clear", "Snow"}
	for i, m := range months {
		ts := time.Date(2012, m, 10, 12, 0, 0, 0, time.UTC).Format(testLayouts[0])
		fmt.Fprintf(&b, "%s,%d", ts, int(m))
		for p := 1; p < len(analysis.ContinuousPanels); p++ {
			fmt.Fprintf(&b, ",%d", (i+1)*(p+1))
		}
		fmt.Fprintf(&b, ",%s\n", labels[i%len(labels)])
	}
	return b.String()
}

func allMonths() []time.Month {
	ms := make([]time.Month, 0, 12)
	for m := time.January; m <= time.December; m++ {
		ms = append(ms, m)
	}
	return ms
}

type failingSink struct{ err error }

func (s failingSink) Emit(Figure) error { return s.err }

func TestLineChartEmitsOneFigure(t *testing.T) {
	tbl := loadCSV(t, weatherCSV(allMonths()...))
	var sink MemorySink
	require.NoError(t, LineChart(&sink, tbl, tbl.Index(), "Temp (C)"))

	require.Len(t, sink.Figures, 1)
	f := sink.Figures[0]
	assert.Equal(t, "line_chart", f.Name)
	assert.Equal(t, "Temperature Trend, 2012", f.Title)
	assert.Equal(t, lineChartWidth, f.Image.Bounds().Dx())
	assert.Equal(t, lineChartHeight, f.Image.Bounds().Dy())
}

func TestMonthlyChartPlotsMeansInCalendarOrder(t *testing.T) {
	tbl := loadCSV(t, weatherCSV(allMonths()...))
	ms, err := analysis.MonthlyMeans(tbl, tbl.Index(), "Temp (C)")
	require.NoError(t, err)

	c := monthlyChart(ms)
	require.Len(t, c.Series, 1)
	s := c.Series[0].(chart.ContinuousSeries)
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, s.XValues)
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, s.YValues)
	assert.Equal(t, "Months", c.XAxis.Name)
	assert.Equal(t, "Temp (C)", c.YAxis.Name)
	assert.Equal(t, float64(90), c.XAxis.TickStyle.TextRotationDegrees)
	require.Len(t, c.XAxis.Ticks, 12)
	assert.Equal(t, "January", c.XAxis.Ticks[0].Label)
	assert.Equal(t, "December", c.XAxis.Ticks[11].Label)
}

func TestMonthlyChartSplitsAtMissingMonths(t *testing.T) {
	tbl := loadCSV(t, weatherCSV(time.January, time.February, time.May, time.June, time.July))
	ms, err := analysis.MonthlyMeans(tbl, tbl.Index(), "Temp (C)")
	require.NoError(t, err)

	c := monthlyChart(ms)
	require.Len(t, c.Series, 2)
	first := c.Series[0].(chart.ContinuousSeries)
	second := c.Series[1].(chart.ContinuousSeries)
	assert.Equal(t, []float64{1, 2}, first.XValues)
	assert.Equal(t, []float64{5, 6, 7}, second.XValues)
	assert.Equal(t, []float64{5, 6, 7}, second.YValues)
}

func TestLineChartNoDataEmitsNothing(t *testing.T) {
	df := dataframe.New(series.New([]float64{math.NaN(), math.NaN()}, series.Float, "Temp (C)"))
	index := []time.Time{time.Date(2012, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2012, 2, 1, 0, 0, 0, 0, time.UTC)}
	tbl, err := table.New(df, "Date/Time", index)
	require.NoError(t, err)
	var sink MemorySink
	err = LineChart(&sink, tbl, tbl.Index(), "Temp (C)")
	require.ErrorIs(t, err, ErrNoData)
	assert.Empty(t, sink.Figures)
}

func TestLineChartMissingColumn(t *testing.T) {
	tbl := loadCSV(t, weatherCSV(time.January))
	var sink MemorySink
	err := LineChart(&sink, tbl, tbl.Index(), "Humidex")
	require.ErrorIs(t, err, analysis.ErrMissingColumn)
	assert.Empty(t, sink.Figures)
}

func TestCategoricalColumnsOneBarPerCategory(t *testing.T) {
	tbl := loadCSV(t, weatherCSV(allMonths()...))
	var sink MemorySink
	require.NoError(t, CategoricalColumns(&sink, tbl))
	require.Len(t, sink.Figures, 1)
	assert.Equal(t, "categorical_Weather", sink.Figures[0].Name)
	assert.Equal(t, barFigureWidth, sink.Figures[0].Image.Bounds().Dx())
	assert.Equal(t, barFigureHeight, sink.Figures[0].Image.Bounds().Dy())

	counts, err := analysis.CategoryCounts(tbl)
	require.NoError(t, err)
	bars := make([]bar, len(counts))
	for i, c := range counts {
		bars[i] = bar{label: c.Label, value: float64(c.Count)}
	}
	bc := barChart("Weather counts", "count", bars)
	require.Len(t, bc.Bars, 3)
	assert.Equal(t, "Fog", bc.Bars[0].Label)
	assert.Equal(t, float64(4), bc.Bars[0].Value)
	assert.Equal(t, float64(90), bc.XAxis.TextRotationDegrees)
}

func TestCategoricalColumnsWithoutWeather(t *testing.T) {
	tbl := loadCSV(t, "Date/Time,Temp (C)\n2012-01-01 00:00,1\n")
	var sink MemorySink
	err := CategoricalColumns(&sink, tbl)
	require.ErrorIs(t, err, analysis.ErrMissingColumn)
	assert.Empty(t, sink.Figures)
}

func TestGroupedBar(t *testing.T) {
	tbl := loadCSV(t, weatherCSV(allMonths()...))
	res, err := analysis.GroupValues(tbl, "Weather", "max", "Temp (C)")
	require.NoError(t, err)

	var sink MemorySink
	require.NoError(t, GroupedBar(&sink, res))
	require.Len(t, sink.Figures, 1)
	assert.Equal(t, "group_max_Temp (C)_by_Weather", sink.Figures[0].Name)
	assert.Equal(t, "max Temp (C) by Weather", sink.Figures[0].Title)

	err = GroupedBar(&sink, analysis.GroupedResult{GroupColumn: "Weather", ValueColumn: "x"})
	require.ErrorIs(t, err, ErrNoData)
	assert.Len(t, sink.Figures, 1)
}

func TestBarChartNaNAndNegative(t *testing.T) {
	bc := barChart("t", "v", []bar{{"a", math.NaN()}, {"b", -3}, {"c", 7}})
	assert.Equal(t, float64(0), bc.Bars[0].Value)
	assert.True(t, bc.YAxis.Range.GetMin() <= -3)
	assert.True(t, bc.YAxis.Range.GetMax() >= 7)
	assert.True(t, bc.UseBaseValue)
}

func TestContDrawsGrid(t *testing.T) {
	tbl := loadCSV(t, weatherCSV(allMonths()...))
	for _, kind := range []analysis.PlotKind{analysis.BoxPlot, analysis.DistPlot} {
		t.Run(string(kind), func(t *testing.T) {
			var sink MemorySink
			require.NoError(t, Cont(&sink, tbl, kind))
			require.Len(t, sink.Figures, 1)
			f := sink.Figures[0]
			assert.Equal(t, "cont_"+string(kind), f.Name)
			assert.Equal(t, gridWidth, f.Image.Bounds().Dx())
			assert.Equal(t, gridHeight, f.Image.Bounds().Dy())
		})
	}
}

func TestContUnsupportedKindEmitsNothing(t *testing.T) {
	tbl := loadCSV(t, weatherCSV(allMonths()...))
	var sink MemorySink
	err := Cont(&sink, tbl, analysis.PlotKind("violin"))
	require.ErrorIs(t, err, analysis.ErrUnsupportedPlotKind)
	assert.Empty(t, sink.Figures)
}

func TestContMissingPanelColumn(t *testing.T) {
	tbl := loadCSV(t, "Date/Time,Temp (C),Weather\n2012-01-01 00:00,1,Fog\n")
	var sink MemorySink
	err := Cont(&sink, tbl, analysis.BoxPlot)
	require.ErrorIs(t, err, analysis.ErrMissingColumn)
	assert.Empty(t, sink.Figures)
}

func TestContEmptyColumnGetsNoDataPanel(t *testing.T) {
	lines := strings.Split(strings.TrimRight(weatherCSV(allMonths()...), "\n"), "\n")
	last := len(analysis.ContinuousPanels)
	for i := 1; i < len(lines); i++ {
		fields := strings.Split(lines[i], ",")
		fields[last] = "NA"
		lines[i] = strings.Join(fields, ",")
	}
	tbl := loadCSV(t, strings.Join(lines, "\n")+"\n")

	var sink MemorySink
	require.NoError(t, Cont(&sink, tbl, analysis.BoxPlot))
	require.Len(t, sink.Figures, 1)
	// the sixth panel sits bottom right; only the empty tile is grey there
	img := sink.Figures[0].Image
	r, _, _, _ := img.At(2*panelWidth-5, 2*panelHeight+5).RGBA()
	assert.Equal(t, uint32(0xf0f0), r)
}

func TestEmptyPanelCaption(t *testing.T) {
	img := emptyPanel("Wind Chill")
	assert.Equal(t, panelWidth, img.Bounds().Dx())
	assert.Equal(t, panelHeight, img.Bounds().Dy())
	// the caption box is dark left of the text, the tile is light grey
	r, _, _, _ := img.At(4, panelHeight-10).RGBA()
	assert.Less(t, r, uint32(0x8000))
	r, _, _, _ = img.At(panelWidth-5, 5).RGBA()
	assert.Greater(t, r, uint32(0xe000))
}

func TestBoxPanelGeometry(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 100}
	b := analysis.ComputeBoxStats(xs)
	c := boxPanel(analysis.Distribution{Column: "Wind Spd (km/h)", Kind: analysis.BoxPlot, N: len(xs), Box: &b})

	assert.Equal(t, "Wind Spd (km/h)", c.XAxis.Name)
	box := c.Series[0].(chart.ContinuousSeries)
	assert.Equal(t, []float64{b.Q1, b.Q1, b.Q3, b.Q3, b.Q1}, box.YValues)
	median := c.Series[1].(chart.ContinuousSeries)
	assert.Equal(t, []float64{5.5, 5.5}, median.YValues)
	outliers := c.Series[len(c.Series)-1].(chart.ContinuousSeries)
	assert.Equal(t, []float64{100}, outliers.YValues)
	assert.Equal(t, float64(chart.Disabled), outliers.Style.StrokeWidth)
	assert.True(t, c.YAxis.Range.GetMax() >= 100)
}

func TestDistPanelSeries(t *testing.T) {
	xs := []float64{1, 2, 2, 3, 3, 3, 4, 4, 5}
	h := analysis.ComputeHistogram(xs)
	kde := analysis.ComputeKDE(xs)
	c := distPanel(analysis.Distribution{Column: "Press (kPa)", Kind: analysis.DistPlot, N: len(xs), Hist: &h, KDE: kde})

	require.Len(t, c.Series, 2)
	hist := c.Series[0].(chart.ContinuousSeries)
	assert.Equal(t, 2*len(h.Density)+2, len(hist.XValues))
	assert.Equal(t, float64(0), hist.YValues[0])
	assert.Equal(t, float64(0), hist.YValues[len(hist.YValues)-1])
	assert.Equal(t, float64(0), c.YAxis.Range.GetMin())
	for _, p := range kde {
		assert.True(t, p.Y <= c.YAxis.Range.GetMax())
	}
}

func TestDirSinkWritesPNG(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "figs")
	sink := DirSink{Dir: dir}
	tbl := loadCSV(t, weatherCSV(allMonths()...))
	require.NoError(t, LineChart(sink, tbl, tbl.Index(), "Temp (C)"))

	b, err := os.ReadFile(sink.Path("line_chart"))
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG", string(b[:4]))
}

func TestSinkErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	tbl := loadCSV(t, weatherCSV(allMonths()...))
	err := CategoricalColumns(failingSink{err: boom}, tbl)
	require.ErrorIs(t, err, boom)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "line_chart.png", FileName("line_chart"))
	assert.Equal(t, "group_mean_visibility--km-_by_weather.png", FileName("group_mean_Visibility (km)_by_Weather"))
}

func TestNiceTicksInsideRange(t *testing.T) {
	ticks := niceTicks(0, 10, 6)
	require.NotEmpty(t, ticks)
	for _, tk := range ticks {
		assert.True(t, tk.Value >= 0 && tk.Value <= 10, "tick %v", tk.Value)
	}
	lo, hi := zeroAnchoredBounds(3, 7)
	assert.Equal(t, float64(0), lo)
	assert.True(t, hi >= 7)
}

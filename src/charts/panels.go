package charts

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/iafilius/WeatherEDA/src/analysis"
	"github.com/iafilius/WeatherEDA/src/logging"
	"github.com/iafilius/WeatherEDA/src/table"
)

const (
	gridRows     = 3
	gridCols     = 2
	gridWidth    = 1500
	gridHeight   = 1000
	panelWidth   = gridWidth / gridCols
	panelHeight  = gridHeight / gridRows
	boxLeft      = 0.6
	boxRight     = 1.4
	whiskerCap   = 0.2
	panelPadding = 12
)

var (
	boxColor     = drawing.ColorFromHex("4c72b0")
	medianColor  = drawing.ColorFromHex("dd8452")
	outlierColor = drawing.ColorFromHex("555555")
	histFill     = drawing.Color{R: 76, G: 114, B: 176, A: 90}
	kdeColor     = drawing.ColorFromHex("1f3f73")
)

// Cont draws a 3x2 grid of box plots or distribution plots, one per fixed
// numeric panel column. An unknown kind fails with ErrUnsupportedPlotKind and
// draws nothing.
func Cont(sink Sink, tbl *table.Table, kind analysis.PlotKind) error {
	return ContOf(sink, tbl, kind, analysis.ContinuousPanels)
}

// ContOf draws the grid for the given six columns.
func ContOf(sink Sink, tbl *table.Table, kind analysis.PlotKind, columns []string) error {
	defer logging.TimeTrack(time.Now(), "plot_cont "+string(kind))
	if len(columns) != gridRows*gridCols {
		return fmt.Errorf("plot_cont needs %d columns, got %d", gridRows*gridCols, len(columns))
	}
	ds, err := analysis.DistributionsOf(tbl, kind, columns)
	if err != nil {
		return err
	}

	cv := acquire(sink, "cont_"+string(kind), gridWidth, gridHeight)
	defer cv.release()
	for i, d := range ds {
		at := image.Pt((i%gridCols)*panelWidth, (i/gridCols)*panelHeight)
		if d.N == 0 || (d.Box == nil && d.Hist == nil) {
			logging.Warnf("[plot_cont] %s has no values", d.Column)
			cv.place(emptyPanel(d.Column), at)
			continue
		}
		var c chart.Chart
		switch d.Kind {
		case analysis.BoxPlot:
			c = boxPanel(d)
		case analysis.DistPlot:
			c = distPanel(d)
		}
		img, err := rasterize(c)
		if err != nil {
			return fmt.Errorf("render %s panel %q: %w", kind, d.Column, err)
		}
		cv.place(img, at)
	}
	return cv.emit(fmt.Sprintf("%s of numeric columns", kind))
}

func panelChart(column string, xRange, yRange *chart.ContinuousRange, xTicks, yTicks []chart.Tick, series []chart.Series) chart.Chart {
	return chart.Chart{
		Width:      panelWidth,
		Height:     panelHeight,
		Background: chart.Style{Padding: chart.Box{Top: panelPadding, Left: panelPadding, Right: panelPadding, Bottom: panelPadding}},
		XAxis:      chart.XAxis{Name: column, Range: xRange, Ticks: xTicks},
		YAxis:      chart.YAxis{Range: yRange, Ticks: yTicks},
		Series:     series,
	}
}

func segment(x0, y0, x1, y1 float64, st chart.Style) chart.ContinuousSeries {
	return chart.ContinuousSeries{XValues: []float64{x0, x1}, YValues: []float64{y0, y1}, Style: st}
}

// boxPanel draws one vertical box centred at x=1.
func boxPanel(d analysis.Distribution) chart.Chart {
	b := *d.Box
	line := chart.Style{StrokeColor: boxColor, StrokeWidth: 1.5}
	series := []chart.Series{
		chart.ContinuousSeries{
			Name:    d.Column,
			XValues: []float64{boxLeft, boxRight, boxRight, boxLeft, boxLeft},
			YValues: []float64{b.Q1, b.Q1, b.Q3, b.Q3, b.Q1},
			Style:   line,
		},
		segment(boxLeft, b.Median, boxRight, b.Median, chart.Style{StrokeColor: medianColor, StrokeWidth: 2.5}),
		segment(1, b.LowerWhisker, 1, b.Q1, line),
		segment(1, b.Q3, 1, b.UpperWhisker, line),
		segment(1-whiskerCap, b.LowerWhisker, 1+whiskerCap, b.LowerWhisker, line),
		segment(1-whiskerCap, b.UpperWhisker, 1+whiskerCap, b.UpperWhisker, line),
	}
	if len(b.Outliers) > 0 {
		xs := make([]float64, len(b.Outliers))
		for i := range xs {
			xs[i] = 1
		}
		series = append(series, chart.ContinuousSeries{
			XValues: xs,
			YValues: b.Outliers,
			Style:   chart.Style{StrokeWidth: chart.Disabled, DotWidth: 2.5, DotColor: outlierColor},
		})
	}
	yMin, yMax := niceAxisBounds(b.Min, b.Max)
	xTicks := []chart.Tick{{Value: 0, Label: ""}, {Value: 2, Label: ""}}
	return panelChart(d.Column, &chart.ContinuousRange{Min: 0, Max: 2}, &chart.ContinuousRange{Min: yMin, Max: yMax}, xTicks, niceTicks(yMin, yMax, 5), series)
}

// distPanel draws a density histogram with the KDE curve on top.
func distPanel(d analysis.Distribution) chart.Chart {
	h := *d.Hist
	xs := []float64{h.Edges[0]}
	ys := []float64{0}
	maxY := 0.0
	for i, dens := range h.Density {
		xs = append(xs, h.Edges[i], h.Edges[i+1])
		ys = append(ys, dens, dens)
		maxY = math.Max(maxY, dens)
	}
	xs = append(xs, h.Edges[len(h.Edges)-1])
	ys = append(ys, 0)
	series := []chart.Series{chart.ContinuousSeries{
		Name:    d.Column,
		XValues: xs,
		YValues: ys,
		Style:   chart.Style{StrokeColor: boxColor, StrokeWidth: 1, FillColor: histFill},
	}}

	xMin, xMax := h.Edges[0], h.Edges[len(h.Edges)-1]
	if len(d.KDE) > 0 {
		kx := make([]float64, len(d.KDE))
		ky := make([]float64, len(d.KDE))
		for i, p := range d.KDE {
			kx[i], ky[i] = p.X, p.Y
			maxY = math.Max(maxY, p.Y)
		}
		xMin = math.Min(xMin, kx[0])
		xMax = math.Max(xMax, kx[len(kx)-1])
		series = append(series, chart.ContinuousSeries{
			Name:    d.Column + " kde",
			XValues: kx,
			YValues: ky,
			Style:   chart.Style{StrokeColor: kdeColor, StrokeWidth: 2},
		})
	}
	xLo, xHi := niceAxisBounds(xMin, xMax)
	_, yHi := zeroAnchoredBounds(0, maxY)
	return panelChart(d.Column,
		&chart.ContinuousRange{Min: xLo, Max: xHi},
		&chart.ContinuousRange{Min: 0, Max: yHi},
		niceTicks(xLo, xHi, 6), niceTicks(0, yHi, 5), series)
}

// emptyPanel is a light grey tile with a caption.
func emptyPanel(column string) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, panelWidth, panelHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{R: 240, G: 240, B: 240, A: 255}), image.Point{}, draw.Src)
	return drawCaption(img, fmt.Sprintf("%s: no data", column))
}

// drawCaption draws a small text string onto img near the bottom-left.
func drawCaption(img image.Image, text string) image.Image {
	if img == nil || strings.TrimSpace(text) == "" {
		return img
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)
	pad := 6
	face := basicfont.Face7x13
	textCol := image.NewUniform(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	dr := &font.Drawer{Dst: rgba, Src: textCol, Face: face}
	tw := dr.MeasureString(text).Ceil()
	x := b.Min.X + 8
	y := b.Max.Y - 8
	bg := image.NewUniform(color.RGBA{R: 0, G: 0, B: 0, A: 200})
	rect := image.Rect(x-pad, y-face.Metrics().Ascent.Ceil()-pad, x+tw+pad, y+pad/2)
	draw.Draw(rgba, rect, bg, image.Point{}, draw.Over)
	dr.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
	dr.DrawString(text)
	return rgba
}

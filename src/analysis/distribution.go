package analysis

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/iafilius/WeatherEDA/src/table"
)

// PlotKind selects how each numeric panel is summarised.
type PlotKind string

const (
	BoxPlot  PlotKind = "boxplot"
	DistPlot PlotKind = "distplot"
)

// ParsePlotKind accepts boxplot or distplot.
func ParsePlotKind(s string) (PlotKind, error) {
	switch k := PlotKind(s); k {
	case BoxPlot, DistPlot:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q (want boxplot or distplot)", ErrUnsupportedPlotKind, s)
}

// ContinuousPanels are the six numeric columns of the 3x2 grid, in row-major order.
var ContinuousPanels = []string{
	"Temp (C)",
	"Dew Point Temp (C)",
	"Rel Hum (%)",
	"Wind Spd (km/h)",
	"Visibility (km)",
	"Stn Press (kPa)",
}

const (
	maxHistBins = 50
	kdePoints   = 128
	// kdeCut extends the KDE grid this many bandwidths past the data range.
	kdeCut = 3.0
)

// BoxStats is a Tukey box summary with 1.5·IQR whiskers.
type BoxStats struct {
	Min, Q1, Median, Q3, Max float64
	// LowerWhisker and UpperWhisker are the most extreme values inside the fences.
	LowerWhisker, UpperWhisker float64
	Outliers                   []float64
}

// Histogram holds density-normalised bins: Edges has len(Density)+1 entries.
type Histogram struct {
	Edges   []float64
	Density []float64
	Counts  []int
}

// Point is one sample of a curve.
type Point struct{ X, Y float64 }

// Distribution is the summary of one panel.
type Distribution struct {
	Column string
	Kind   PlotKind
	// N is the number of non-missing values.
	N    int
	Box  *BoxStats
	Hist *Histogram
	KDE  []Point
}

// Distributions summarises the six fixed panels of tbl.
func Distributions(tbl *table.Table, kind PlotKind) ([]Distribution, error) {
	return DistributionsOf(tbl, kind, ContinuousPanels)
}

// DistributionsOf selects the numeric columns of tbl, checks that every panel
// column is among them, and computes a box or distribution summary per panel.
func DistributionsOf(tbl *table.Table, kind PlotKind, columns []string) ([]Distribution, error) {
	if _, err := ParsePlotKind(string(kind)); err != nil {
		return nil, err
	}
	nc := tbl.Select(table.KindNumeric)
	if err := nc.Require(columns...); err != nil {
		return nil, err
	}
	out := make([]Distribution, 0, len(columns))
	for _, col := range columns {
		raw, err := nc.Floats(col)
		if err != nil {
			return nil, err
		}
		xs := sortedClean(raw)
		d := Distribution{Column: col, Kind: kind, N: len(xs)}
		if len(xs) > 0 {
			switch kind {
			case BoxPlot:
				b := ComputeBoxStats(xs)
				d.Box = &b
			case DistPlot:
				h := ComputeHistogram(xs)
				d.Hist = &h
				d.KDE = ComputeKDE(xs)
			}
		}
		out = append(out, d)
	}
	return out, nil
}

func sortedClean(raw []float64) []float64 {
	xs := make([]float64, 0, len(raw))
	for _, v := range raw {
		if !math.IsNaN(v) {
			xs = append(xs, v)
		}
	}
	sort.Float64s(xs)
	return xs
}

// Quantile interpolates linearly between the closest ranks of sorted xs
// (numpy's default method).
func Quantile(xs []float64, p float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	h := float64(len(xs)-1) * p
	lo := int(math.Floor(h))
	hi := int(math.Ceil(h))
	return xs[lo] + (h-float64(lo))*(xs[hi]-xs[lo])
}

// ComputeBoxStats expects sorted, non-empty input.
func ComputeBoxStats(xs []float64) BoxStats {
	b := BoxStats{
		Min:    xs[0],
		Max:    xs[len(xs)-1],
		Q1:     Quantile(xs, 0.25),
		Median: Quantile(xs, 0.5),
		Q3:     Quantile(xs, 0.75),
	}
	iqr := b.Q3 - b.Q1
	lo, hi := b.Q1-1.5*iqr, b.Q3+1.5*iqr
	b.LowerWhisker, b.UpperWhisker = b.Max, b.Min
	for _, v := range xs {
		if v < lo || v > hi {
			b.Outliers = append(b.Outliers, v)
			continue
		}
		if v < b.LowerWhisker {
			b.LowerWhisker = v
		}
		if v > b.UpperWhisker {
			b.UpperWhisker = v
		}
	}
	return b
}

// ComputeHistogram bins sorted, non-empty input using the Freedman–Diaconis
// rule, capped at 50 bins.
func ComputeHistogram(xs []float64) Histogram {
	n := len(xs)
	lo, hi := xs[0], xs[n-1]
	bins := histBins(xs)
	if hi <= lo {
		lo, hi = lo-0.5, hi+0.5
	}
	width := (hi - lo) / float64(bins)
	h := Histogram{Edges: make([]float64, bins+1), Density: make([]float64, bins), Counts: make([]int, bins)}
	for i := range h.Edges {
		h.Edges[i] = lo + float64(i)*width
	}
	h.Edges[bins] = hi
	for _, v := range xs {
		i := int((v - lo) / width)
		if i >= bins {
			i = bins - 1
		}
		h.Counts[i]++
	}
	for i, c := range h.Counts {
		h.Density[i] = float64(c) / (float64(n) * width)
	}
	return h
}

func histBins(xs []float64) int {
	n := len(xs)
	if n < 2 {
		return 1
	}
	iqr := Quantile(xs, 0.75) - Quantile(xs, 0.25)
	span := xs[n-1] - xs[0]
	var bins int
	if h := 2 * iqr * math.Pow(float64(n), -1.0/3.0); h > 0 && span > 0 {
		bins = int(math.Ceil(span / h))
	} else {
		bins = int(math.Ceil(math.Sqrt(float64(n))))
	}
	if bins < 1 {
		bins = 1
	}
	if bins > maxHistBins {
		bins = maxHistBins
	}
	return bins
}

// ComputeKDE returns a Gaussian kernel density estimate with Scott's bandwidth.
// It returns nil when the data has no spread.
func ComputeKDE(xs []float64) []Point {
	n := len(xs)
	if n < 2 {
		return nil
	}
	_, sd := stat.MeanStdDev(xs, nil)
	bw := sd * math.Pow(float64(n), -0.2)
	if bw <= 0 || math.IsNaN(bw) {
		return nil
	}
	kernel := distuv.Normal{Mu: 0, Sigma: bw}
	lo, hi := xs[0]-kdeCut*bw, xs[n-1]+kdeCut*bw
	step := (hi - lo) / float64(kdePoints-1)
	out := make([]Point, kdePoints)
	for i := range out {
		x := lo + float64(i)*step
		var sum float64
		for _, v := range xs {
			sum += kernel.Prob(x - v)
		}
		out[i] = Point{X: x, Y: sum / float64(n)}
	}
	return out
}

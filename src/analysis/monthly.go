package analysis

import (
	"fmt"
	"math"
	"time"

	"github.com/iafilius/WeatherEDA/src/table"
)

// MonthNames is the canonical calendar order used as the trend axis.
var MonthNames = func() [12]string {
	var out [12]string
	for m := time.January; m <= time.December; m++ {
		out[m-1] = m.String()
	}
	return out
}()

// MonthlySeries is a per-month aggregate reindexed onto all twelve months.
// Values[i] is NaN when month i has no usable rows.
type MonthlySeries struct {
	Column string
	Labels []string
	Values []float64
	// Counts holds the number of non-missing values that fed each mean.
	Counts []int
}

// Present reports how many months carry a value.
func (m MonthlySeries) Present() int {
	n := 0
	for _, v := range m.Values {
		if !math.IsNaN(v) {
			n++
		}
	}
	return n
}

// MonthlyMeans groups the rows of tbl by the month name of period and averages
// col per month. Missing cells are skipped. The result always has twelve entries
// in calendar order; months absent from the data stay NaN.
func MonthlyMeans(tbl *table.Table, period []time.Time, col string) (MonthlySeries, error) {
	if len(period) != tbl.Len() {
		return MonthlySeries{}, fmt.Errorf("%w: %d period values for %d rows", ErrLengthMismatch, len(period), tbl.Len())
	}
	vals, err := tbl.Floats(col)
	if err != nil {
		return MonthlySeries{}, err
	}
	byMonth := map[string][]float64{}
	for i, t := range period {
		label := t.Month().String()
		if math.IsNaN(vals[i]) {
			continue
		}
		byMonth[label] = append(byMonth[label], vals[i])
	}
	out := MonthlySeries{
		Column: col,
		Labels: make([]string, len(MonthNames)),
		Values: make([]float64, len(MonthNames)),
		Counts: make([]int, len(MonthNames)),
	}
	for i, name := range MonthNames {
		out.Labels[i] = name
		out.Values[i] = AggMean.Reduce(byMonth[name])
		out.Counts[i] = len(byMonth[name])
	}
	return out, nil
}

// PeriodFromColumn converts a text column into timestamps for MonthlyMeans.
func PeriodFromColumn(tbl *table.Table, name string, layouts []string) ([]time.Time, error) {
	raw, err := tbl.Strings(name)
	if err != nil {
		return nil, err
	}
	ts, err := table.ParseTimes(raw, layouts)
	if err != nil {
		return nil, fmt.Errorf("column %q: %w", name, err)
	}
	return ts, nil
}

package analysis

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/iafilius/WeatherEDA/src/table"
)

// Aggregate is a reduction applied within one group.
type Aggregate int

const (
	AggMean Aggregate = iota
	AggMax
	AggMin
	AggSum
	AggLen
)

var aggregateNames = map[string]Aggregate{
	"mean": AggMean,
	"max":  AggMax,
	"min":  AggMin,
	"sum":  AggSum,
	"len":  AggLen,
}

// ParseAggregate maps one of mean|max|min|sum|len to its Aggregate.
func ParseAggregate(name string) (Aggregate, error) {
	a, ok := aggregateNames[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q (want mean, max, min, sum or len)", ErrUnknownAggregate, name)
	}
	return a, nil
}

func (a Aggregate) String() string {
	switch a {
	case AggMean:
		return "mean"
	case AggMax:
		return "max"
	case AggMin:
		return "min"
	case AggSum:
		return "sum"
	case AggLen:
		return "len"
	}
	return "Aggregate(" + strconv.Itoa(int(a)) + ")"
}

// NeedsNumeric is false only for len, which counts rows of any column kind.
// max and min are not defined on categorical columns either; they fail with
// ErrNotNumeric rather than comparing strings.
func (a Aggregate) NeedsNumeric() bool { return a != AggLen }

// Reduce applies the aggregate. NaN values are skipped except by len, which
// counts every row. mean, max and min of no values are NaN; sum is 0.
func (a Aggregate) Reduce(values []float64) float64 {
	if a == AggLen {
		return float64(len(values))
	}
	clean := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}
	switch a {
	case AggMean:
		if len(clean) == 0 {
			return math.NaN()
		}
		return stat.Mean(clean, nil)
	case AggMax:
		if len(clean) == 0 {
			return math.NaN()
		}
		return floats.Max(clean)
	case AggMin:
		if len(clean) == 0 {
			return math.NaN()
		}
		return floats.Min(clean)
	case AggSum:
		return floats.Sum(clean)
	}
	panic("analysis: unhandled aggregate " + a.String())
}

// GroupRow is one group of a GroupedResult.
type GroupRow struct {
	Key   string
	Value float64
	Rows  int
}

// GroupedResult holds one reduced value per distinct key of the grouping column.
type GroupedResult struct {
	GroupColumn string
	ValueColumn string
	Aggregate   Aggregate
	Rows        []GroupRow
}

// Value returns the reduced value for key.
func (g GroupedResult) Value(key string) (float64, bool) {
	for _, r := range g.Rows {
		if r.Key == key {
			return r.Value, true
		}
	}
	return 0, false
}

// DataFrame converts the result into a two-column table: the group keys and the
// reduced values, named after the source columns.
func (g GroupedResult) DataFrame() dataframe.DataFrame {
	keys := make([]string, len(g.Rows))
	for i, r := range g.Rows {
		keys[i] = r.Key
	}
	var vals series.Series
	if g.Aggregate == AggLen {
		counts := make([]int, len(g.Rows))
		for i, r := range g.Rows {
			counts[i] = int(r.Value)
		}
		vals = series.New(counts, series.Int, g.ValueColumn)
	} else {
		fs := make([]float64, len(g.Rows))
		for i, r := range g.Rows {
			fs[i] = r.Value
		}
		vals = series.New(fs, series.Float, g.ValueColumn)
	}
	return dataframe.New(series.New(keys, series.String, g.GroupColumn), vals)
}

// GroupValues groups tbl by groupCol and reduces valueCol within each group
// using the aggregate named aggName. Groups are sorted by key; rows with a
// missing key are dropped.
func GroupValues(tbl *table.Table, groupCol, aggName, valueCol string) (GroupedResult, error) {
	agg, err := ParseAggregate(aggName)
	if err != nil {
		return GroupedResult{}, err
	}
	if err := tbl.Require(groupCol, valueCol); err != nil {
		return GroupedResult{}, err
	}
	var vals []float64
	if agg.NeedsNumeric() {
		if vals, err = tbl.Floats(valueCol); err != nil {
			return GroupedResult{}, err
		}
	} else {
		// len only needs the row count per group
		vals = make([]float64, tbl.Len())
	}

	keys, numericKeys, err := groupKeys(tbl, groupCol)
	if err != nil {
		return GroupedResult{}, err
	}
	groups := map[string][]float64{}
	var order []string
	for i, k := range keys {
		if k == "" {
			continue
		}
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], vals[i])
	}
	sortKeys(order, numericKeys)

	res := GroupedResult{GroupColumn: groupCol, ValueColumn: valueCol, Aggregate: agg, Rows: make([]GroupRow, 0, len(order))}
	for _, k := range order {
		res.Rows = append(res.Rows, GroupRow{Key: k, Value: agg.Reduce(groups[k]), Rows: len(groups[k])})
	}
	return res, nil
}

// groupKeys renders each row's grouping value as a label; numeric keys keep a
// compact form so they sort and print naturally.
func groupKeys(tbl *table.Table, col string) ([]string, map[string]float64, error) {
	kind, err := tbl.Kind(col)
	if err != nil {
		return nil, nil, err
	}
	if kind != table.KindNumeric {
		keys, err := tbl.Strings(col)
		return keys, nil, err
	}
	fs, err := tbl.Floats(col)
	if err != nil {
		return nil, nil, err
	}
	keys := make([]string, len(fs))
	numeric := map[string]float64{}
	for i, f := range fs {
		if math.IsNaN(f) {
			continue
		}
		keys[i] = strconv.FormatFloat(f, 'g', -1, 64)
		numeric[keys[i]] = f
	}
	return keys, numeric, nil
}

func sortKeys(keys []string, numeric map[string]float64) {
	if numeric != nil {
		sort.Slice(keys, func(i, j int) bool { return numeric[keys[i]] < numeric[keys[j]] })
		return
	}
	sort.Strings(keys)
}

// String renders the result as an aligned two-column text table.
func (g GroupedResult) String() string {
	w := len(g.GroupColumn)
	for _, r := range g.Rows {
		if len(r.Key) > w {
			w = len(r.Key)
		}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-*s  %s (%s)\n", w, g.GroupColumn, g.ValueColumn, g.Aggregate)
	for _, r := range g.Rows {
		fmt.Fprintf(&b, "%-*s  %s\n", w, r.Key, g.FormatValue(r.Value))
	}
	return b.String()
}

// FormatValue prints counts as integers and everything else with 6 significant digits.
func (g GroupedResult) FormatValue(v float64) string {
	if g.Aggregate == AggLen {
		return strconv.Itoa(int(v))
	}
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}

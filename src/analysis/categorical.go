package analysis

import (
	"github.com/iafilius/WeatherEDA/src/table"
)

// CategoricalColumn is the column counted by CategoryCounts. Only this column is
// plotted even though every categorical column is selected first.
const CategoricalColumn = "Weather"

// CategoryCount is the frequency of one category label.
type CategoryCount struct {
	Label string
	Count int
}

// CategoryCounts selects the categorical columns of tbl and counts the values of
// the Weather column among them.
func CategoryCounts(tbl *table.Table) ([]CategoryCount, error) {
	return CategoryCountsOf(tbl, CategoricalColumn)
}

// CategoryCountsOf counts the values of a categorical column in order of first
// appearance. Missing cells are not counted.
func CategoryCountsOf(tbl *table.Table, column string) ([]CategoryCount, error) {
	cat := tbl.Select(table.KindCategorical)
	if err := cat.Require(column); err != nil {
		return nil, err
	}
	vals, err := cat.Strings(column)
	if err != nil {
		return nil, err
	}
	pos := map[string]int{}
	var out []CategoryCount
	for _, v := range vals {
		if v == "" {
			continue
		}
		i, ok := pos[v]
		if !ok {
			i = len(out)
			pos[v] = i
			out = append(out, CategoryCount{Label: v})
		}
		out[i].Count++
	}
	return out, nil
}

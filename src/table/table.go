// Package table wraps a gota dataframe with the timestamp index the weather
// plots derive their periods from.
package table

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

var (
	// ErrMissingColumn is returned when a referenced column does not exist.
	ErrMissingColumn = errors.New("missing column")
	// ErrNotNumeric is returned when a numeric reduction targets a non-numeric column.
	ErrNotNumeric = errors.New("column is not numeric")
	// ErrUnparseableDate is returned when a value cannot be converted to a timestamp.
	ErrUnparseableDate = errors.New("unparseable date")
)

// Kind is the semantic type of a column.
type Kind int

const (
	KindCategorical Kind = iota
	KindNumeric
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindBool:
		return "bool"
	default:
		return "categorical"
	}
}

func kindOf(t series.Type) Kind {
	switch t {
	case series.Int, series.Float:
		return KindNumeric
	case series.Bool:
		return KindBool
	default:
		return KindCategorical
	}
}

// Table is a read-only view over a dataframe. Select narrows the visible columns
// without copying data.
type Table struct {
	df        dataframe.DataFrame
	indexName string
	index     []time.Time
	columns   []string
	kinds     map[string]Kind
}

// New builds a table from an existing dataframe. index may be nil; otherwise it
// must have one timestamp per row.
func New(df dataframe.DataFrame, indexName string, index []time.Time) (*Table, error) {
	if df.Err != nil {
		return nil, df.Err
	}
	if index != nil && len(index) != df.Nrow() {
		return nil, fmt.Errorf("index has %d timestamps for %d rows", len(index), df.Nrow())
	}
	names := df.Names()
	types := df.Types()
	kinds := make(map[string]Kind, len(names))
	for i, n := range names {
		kinds[n] = kindOf(types[i])
	}
	return &Table{df: df, indexName: indexName, index: index, columns: names, kinds: kinds}, nil
}

// Len returns the number of rows.
func (t *Table) Len() int { return t.df.Nrow() }

// Names returns the visible column names in file order.
func (t *Table) Names() []string { return append([]string(nil), t.columns...) }

// IndexName is the column the timestamp index was parsed from.
func (t *Table) IndexName() string { return t.indexName }

// Index returns the row timestamps, or nil when the table has no index.
func (t *Table) Index() []time.Time { return t.index }

// Has reports whether name is a visible column.
func (t *Table) Has(name string) bool {
	for _, c := range t.columns {
		if c == name {
			return true
		}
	}
	return false
}

// Kind returns the semantic type of a column.
func (t *Table) Kind(name string) (Kind, error) {
	if !t.Has(name) {
		return 0, fmt.Errorf("%w: %q", ErrMissingColumn, name)
	}
	return t.kinds[name], nil
}

// Require fails with one ErrMissingColumn naming every absent column.
func (t *Table) Require(names ...string) error {
	var missing []string
	for _, n := range names {
		if !t.Has(n) {
			missing = append(missing, fmt.Sprintf("%q", n))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
}

// Select returns a view restricted to the columns of the given kind.
func (t *Table) Select(kind Kind) *Table {
	var cols []string
	for _, c := range t.columns {
		if t.kinds[c] == kind {
			cols = append(cols, c)
		}
	}
	return &Table{df: t.df, indexName: t.indexName, index: t.index, columns: cols, kinds: t.kinds}
}

// Floats returns a numeric column; missing cells are NaN.
func (t *Table) Floats(name string) ([]float64, error) {
	k, err := t.Kind(name)
	if err != nil {
		return nil, err
	}
	if k != KindNumeric {
		return nil, fmt.Errorf("%w: %q is %s", ErrNotNumeric, name, k)
	}
	s := t.df.Col(name)
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Float(), nil
}

// Strings returns a column as text; missing cells are empty strings.
func (t *Table) Strings(name string) ([]string, error) {
	if !t.Has(name) {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, name)
	}
	s := t.df.Col(name)
	if s.Err != nil {
		return nil, s.Err
	}
	out := s.Records()
	for i, nan := range s.IsNaN() {
		if nan {
			out[i] = ""
		}
	}
	return out, nil
}

// DataFrame returns the visible columns as a gota dataframe.
func (t *Table) DataFrame() dataframe.DataFrame {
	if len(t.columns) == len(t.df.Names()) {
		return t.df
	}
	return t.df.Select(t.columns)
}

package table

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// LoadOptions controls CSV loading.
type LoadOptions struct {
	// IndexColumn is parsed into the timestamp index and removed from the columns.
	// Empty means no index.
	IndexColumn string
	// TimeLayouts are tried in order for every index value.
	TimeLayouts []string
	// Delimiter defaults to ','.
	Delimiter rune
}

// nanValues are the cell contents treated as missing.
var nanValues = []string{"", "NA", "NaN", "N/A", "<nil>"}

// LoadFile opens path and loads it with Load.
func LoadFile(path string, opts LoadOptions) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f, opts)
}

// Load reads a delimited file with a header row. Column types are detected from
// the data: integer and float columns are numeric, everything else categorical.
func Load(r io.Reader, opts LoadOptions) (*Table, error) {
	loadOpts := []dataframe.LoadOption{
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.WithLazyQuotes(true),
		dataframe.NaNValues(nanValues),
	}
	if opts.Delimiter != 0 {
		loadOpts = append(loadOpts, dataframe.WithDelimiter(opts.Delimiter))
	}
	if opts.IndexColumn != "" {
		loadOpts = append(loadOpts, dataframe.WithTypes(map[string]series.Type{opts.IndexColumn: series.String}))
	}
	df := dataframe.ReadCSV(r, loadOpts...)
	if df.Err != nil {
		return nil, fmt.Errorf("read csv: %w", df.Err)
	}
	df = retypeEmptyColumns(df, opts.IndexColumn)
	if df.Err != nil {
		return nil, fmt.Errorf("read csv: %w", df.Err)
	}
	if opts.IndexColumn == "" {
		return New(df, "", nil)
	}
	col := df.Col(opts.IndexColumn)
	if col.Err != nil {
		return nil, fmt.Errorf("index %w: %q", ErrMissingColumn, opts.IndexColumn)
	}
	index, err := ParseTimes(col.Records(), opts.TimeLayouts)
	if err != nil {
		return nil, fmt.Errorf("index %q: %w", opts.IndexColumn, err)
	}
	rest := df.Drop(opts.IndexColumn)
	if rest.Err != nil {
		return nil, rest.Err
	}
	return New(rest, opts.IndexColumn, index)
}

// retypeEmptyColumns turns columns with no value in any row into all-NaN
// float columns. Type detection would otherwise make them strings.
func retypeEmptyColumns(df dataframe.DataFrame, skip string) dataframe.DataFrame {
	n := df.Nrow()
	if n == 0 {
		return df
	}
	for _, name := range df.Names() {
		if name == skip {
			continue
		}
		col := df.Col(name)
		if col.Type() != series.String || !allMissing(col) {
			continue
		}
		nan := make([]string, n)
		for i := range nan {
			nan[i] = "NaN"
		}
		df = df.Mutate(series.New(nan, series.Float, name))
	}
	return df
}

func allMissing(s series.Series) bool {
	for i := 0; i < s.Len(); i++ {
		if !s.Elem(i).IsNA() {
			return false
		}
	}
	return true
}

// ParseTimes converts every value using the first matching layout. Values are
// interpreted as UTC unless they carry an offset.
func ParseTimes(values []string, layouts []string) ([]time.Time, error) {
	out := make([]time.Time, len(values))
	for i, v := range values {
		t, err := ParseTime(v, layouts)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = t
	}
	return out, nil
}

// ParseTime tries each layout in order.
func ParseTime(v string, layouts []string) (time.Time, error) {
	s := strings.TrimSpace(v)
	if s != "" && s != "NaN" {
		for _, l := range layouts {
			if t, err := time.ParseInLocation(l, s, time.UTC); err == nil {
				return t, nil
			}
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseableDate, v)
}

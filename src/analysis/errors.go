package analysis

import (
	"errors"

	"github.com/iafilius/WeatherEDA/src/table"
)

// Column and date errors come from the table layer; they are re-exported so
// callers only need this package for errors.Is checks.
var (
	ErrMissingColumn   = table.ErrMissingColumn
	ErrNotNumeric      = table.ErrNotNumeric
	ErrUnparseableDate = table.ErrUnparseableDate
)

var (
	// ErrUnknownAggregate is returned for an aggregate name outside mean|max|min|sum|len.
	ErrUnknownAggregate = errors.New("unknown aggregate")
	// ErrUnsupportedPlotKind is returned for a plot kind other than boxplot|distplot.
	ErrUnsupportedPlotKind = errors.New("unsupported plot kind")
	// ErrLengthMismatch is returned when a period sequence does not match the table rows.
	ErrLengthMismatch = errors.New("length mismatch")
)

// Package dataset provides the in-memory tabular dataset the validation
// core operates on. A Dataset is built once by a loader or generator and
// treated as read-only by every evaluator.
package dataset

import (
	"fmt"
)

// Dataset is an in-memory table with named columns and typed cell values.
// Storage is column-major so per-column rule evaluation is a single slice
// walk. Datasets are append-only during construction and read-only after.
type Dataset struct {
	names   []string
	index   map[string]int
	columns [][]Value
	rows    int
}

// New creates an empty dataset with the given column names.
// Column names must be unique and non-empty.
func New(columns []string) (*Dataset, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("dataset requires at least one column")
	}
	d := &Dataset{
		names:   make([]string, len(columns)),
		index:   make(map[string]int, len(columns)),
		columns: make([][]Value, len(columns)),
	}
	for i, name := range columns {
		if name == "" {
			return nil, fmt.Errorf("column %d: empty column name", i)
		}
		if _, dup := d.index[name]; dup {
			return nil, fmt.Errorf("duplicate column name %q", name)
		}
		d.names[i] = name
		d.index[name] = i
	}
	return d, nil
}

// AppendRow appends one row of values in column order.
func (d *Dataset) AppendRow(values ...Value) error {
	if len(values) != len(d.names) {
		return fmt.Errorf("row has %d values, dataset has %d columns", len(values), len(d.names))
	}
	for i, v := range values {
		d.columns[i] = append(d.columns[i], v)
	}
	d.rows++
	return nil
}

// Columns returns the column names in declaration order.
// The returned slice must not be modified.
func (d *Dataset) Columns() []string { return d.names }

// HasColumn reports whether the dataset contains the named column.
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.index[name]
	return ok
}

// NumRows returns the number of rows.
func (d *Dataset) NumRows() int { return d.rows }

// NumColumns returns the number of columns.
func (d *Dataset) NumColumns() int { return len(d.names) }

// Value returns the cell at (row, column). The second result is false if
// the column does not exist or the row is out of range.
func (d *Dataset) Value(row int, column string) (Value, bool) {
	ci, ok := d.index[column]
	if !ok || row < 0 || row >= d.rows {
		return Null(), false
	}
	return d.columns[ci][row], true
}

// Column returns the full column as a read-only slice. The second result
// is false if the column does not exist. Callers must not modify the
// returned slice.
func (d *Dataset) Column(name string) ([]Value, bool) {
	ci, ok := d.index[name]
	if !ok {
		return nil, false
	}
	return d.columns[ci], true
}

// Row returns a copy of the named cells of one row, keyed by column name.
func (d *Dataset) Row(row int) map[string]Value {
	out := make(map[string]Value, len(d.names))
	for i, name := range d.names {
		out[name] = d.columns[i][row]
	}
	return out
}

// WithColumn returns a copy of the dataset with one column replaced.
// The original dataset is left untouched; other columns are shared.
// Used by schema coercion to build a best-effort coerced view.
func (d *Dataset) WithColumn(name string, values []Value) (*Dataset, error) {
	ci, ok := d.index[name]
	if !ok {
		return nil, fmt.Errorf("unknown column %q", name)
	}
	if len(values) != d.rows {
		return nil, fmt.Errorf("column %q: %d values for %d rows", name, len(values), d.rows)
	}
	cols := make([][]Value, len(d.columns))
	copy(cols, d.columns)
	cols[ci] = values

	return &Dataset{
		names:   d.names,
		index:   d.index,
		columns: cols,
		rows:    d.rows,
	}, nil
}

package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/leapstack-labs/leapqa/pkg/dataset"
)

// nullTokens are cell texts read as null.
var nullTokens = map[string]bool{
	"":     true,
	"NA":   true,
	"N/A":  true,
	"null": true,
	"NULL": true,
}

// ReadCSV reads a CSV file with a header row into a dataset. Cell types
// are inferred per cell: integer, then float, then boolean, falling back
// to string. Empty and NA-like cells are null.
func ReadCSV(path string) (*dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readCSV(f)
}

func readCSV(r io.Reader) (*dataset.Dataset, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	ds, err := dataset.New(append([]string(nil), header...))
	if err != nil {
		return nil, err
	}

	row := make([]dataset.Value, len(header))
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV line %d: %w", line, err)
		}
		for i, cell := range record {
			row[i] = inferValue(cell)
		}
		if err := ds.AppendRow(row...); err != nil {
			return nil, fmt.Errorf("CSV line %d: %w", line, err)
		}
	}
	return ds, nil
}

// inferValue converts one CSV cell into a typed value.
func inferValue(cell string) dataset.Value {
	if nullTokens[cell] {
		return dataset.Null()
	}
	if i, err := strconv.ParseInt(cell, 10, 64); err == nil {
		return dataset.Int(i)
	}
	if f, err := strconv.ParseFloat(cell, 64); err == nil {
		return dataset.Float(f)
	}
	if cell == "true" || cell == "false" {
		return dataset.Bool(cell == "true")
	}
	return dataset.String(cell)
}

// WriteCSV writes a dataset as CSV with a header row. Nulls become empty
// cells. Used by the synthetic-data generator.
func WriteCSV(path string, ds *dataset.Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(ds.Columns()); err != nil {
		return err
	}
	record := make([]string, ds.NumColumns())
	for i := 0; i < ds.NumRows(); i++ {
		for j, col := range ds.Columns() {
			v, _ := ds.Value(i, col)
			record[j] = v.Format()
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/leapstack-labs/leapqa/pkg/dataset"
)

// ReadJSON reads a JSON file holding an array of flat record objects into
// a dataset. Columns are the union of keys across records, ordered
// lexically; records missing a key get null there. Numbers keep their
// integer form when they have one.
func ReadJSON(path string) (*dataset.Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var records []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("reading %s: expected an array of objects: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("reading %s: no records", path)
	}

	seen := make(map[string]bool)
	var columns []string
	for _, rec := range records {
		for key := range rec {
			if !seen[key] {
				seen[key] = true
				columns = append(columns, key)
			}
		}
	}
	sort.Strings(columns)

	ds, err := dataset.New(columns)
	if err != nil {
		return nil, err
	}

	row := make([]dataset.Value, len(columns))
	for i, rec := range records {
		for j, col := range columns {
			cell, ok := rec[col]
			if !ok {
				row[j] = dataset.Null()
				continue
			}
			v, err := jsonValue(cell)
			if err != nil {
				return nil, fmt.Errorf("record %d, field %q: %w", i, col, err)
			}
			row[j] = v
		}
		if err := ds.AppendRow(row...); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// jsonValue converts one JSON scalar into a typed cell value.
func jsonValue(raw json.RawMessage) (dataset.Value, error) {
	var v any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return dataset.Null(), err
	}

	switch val := v.(type) {
	case nil:
		return dataset.Null(), nil
	case string:
		return dataset.String(val), nil
	case bool:
		return dataset.Bool(val), nil
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return dataset.Int(i), nil
		}
		f, err := val.Float64()
		if err != nil {
			return dataset.Null(), err
		}
		return dataset.Float(f), nil
	default:
		return dataset.Null(), fmt.Errorf("unsupported JSON value %T (records must be flat)", v)
	}
}

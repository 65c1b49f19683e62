package loader

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/leapqa/pkg/dataset"
)

// ReadDataset reads a dataset file, dispatching on extension:
// .csv, .json, and .duckdb/.db (which require a table name).
func ReadDataset(ctx context.Context, path, table string) (*dataset.Dataset, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSV(path)
	case ".json":
		return ReadJSON(path)
	case ".duckdb", ".db":
		return ReadDuckDB(ctx, path, table)
	default:
		return nil, fmt.Errorf("unsupported dataset format %q (want .csv, .json, or .duckdb)", filepath.Ext(path))
	}
}

package loader

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver

	"github.com/leapstack-labs/leapqa/pkg/dataset"
)

// ReadDuckDB reads a whole table from a DuckDB database file into a
// dataset. The quoting keeps odd table names working; DuckDB doubles
// embedded quotes.
func ReadDuckDB(ctx context.Context, path, table string) (*dataset.Dataset, error) {
	if table == "" {
		return nil, fmt.Errorf("duckdb source requires a table name")
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb connection: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping duckdb: %w", err)
	}

	rows, err := db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s", quoteIdent(table)))
	if err != nil {
		return nil, fmt.Errorf("querying table %s: %w", table, err)
	}
	defer rows.Close()

	return FromRows(rows)
}

// FromRows drains a generic SQL result set into a dataset. Exported so
// callers can validate the result of an arbitrary query over any
// database/sql driver.
func FromRows(rows *sql.Rows) (*dataset.Dataset, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	ds, err := dataset.New(columns)
	if err != nil {
		return nil, err
	}

	cells := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range cells {
		ptrs[i] = &cells[i]
	}

	row := make([]dataset.Value, len(columns))
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		for i, cell := range cells {
			v, err := dataset.FromGo(cell)
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", columns[i], err)
			}
			row[i] = v
		}
		if err := ds.AppendRow(row...); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ds, nil
}

func quoteIdent(name string) string {
	out := make([]byte, 0, len(name)+2)
	out = append(out, '"')
	for i := 0; i < len(name); i++ {
		if name[i] == '"' {
			out = append(out, '"')
		}
		out = append(out, name[i])
	}
	return string(append(out, '"'))
}

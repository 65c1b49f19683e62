// Package generate produces synthetic datasets from a schema. Generated
// data is a producer of validation inputs only; it plays no part in the
// validation logic itself.
package generate

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/leapstack-labs/leapqa/pkg/dataset"
	"github.com/leapstack-labs/leapqa/pkg/schema"
)

// Sample strings for columns with no better hint.
var stringSamples = []string{
	"Great product!",
	"Awful experience",
	"meh",
	"Absolutely loved it!",
	"This was fine",
	"Could be better",
	"I want my money back",
}

// nullRate is the chance a nullable column's cell is null.
const nullRate = 0.02

// Options configures synthetic generation.
type Options struct {
	Rows int
	Seed int64
}

// Dataset generates a dataset conforming to the schema: values respect
// declared ranges and allowed-value sets, and only nullable columns
// receive nulls. The same seed always produces the same dataset.
func Dataset(sch *schema.Schema, opts Options) (*dataset.Dataset, error) {
	if opts.Rows <= 0 {
		return nil, fmt.Errorf("rows must be positive, got %d", opts.Rows)
	}
	rng := rand.New(rand.NewSource(opts.Seed))

	columns := sch.Columns()
	names := make([]string, len(columns))
	for i, col := range columns {
		names[i] = col.Name
	}
	ds, err := dataset.New(names)
	if err != nil {
		return nil, err
	}

	row := make([]dataset.Value, len(columns))
	for i := 0; i < opts.Rows; i++ {
		for j, col := range columns {
			row[j] = cell(rng, col, i)
		}
		if err := ds.AppendRow(row...); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// cell generates one value for a column definition.
func cell(rng *rand.Rand, col schema.Column, row int) dataset.Value {
	if col.Nullable && rng.Float64() < nullRate {
		return dataset.Null()
	}

	if len(col.AllowedValues) > 0 {
		return dataset.String(col.AllowedValues[rng.Intn(len(col.AllowedValues))])
	}

	switch col.Type {
	case schema.TypeInteger:
		lo, hi := int64(0), int64(1_000_000)
		if col.Min != nil {
			lo = int64(*col.Min)
		}
		if col.Max != nil {
			hi = int64(*col.Max)
		}
		if hi <= lo {
			return dataset.Int(lo)
		}
		return dataset.Int(lo + rng.Int63n(hi-lo+1))

	case schema.TypeFloat:
		if col.Min != nil && col.Max != nil {
			return dataset.Float(*col.Min + rng.Float64()*(*col.Max-*col.Min))
		}
		return dataset.Float(rng.NormFloat64())

	case schema.TypeBoolean:
		return dataset.Bool(rng.Intn(2) == 1)

	case schema.TypeDatetime:
		base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
		return dataset.Time(base.Add(time.Duration(rng.Int63n(int64(5 * 365 * 24 * time.Hour)))))

	case schema.TypeCategorical:
		// Parse guarantees categorical columns carry allowed values;
		// reachable only for hand-built schemas.
		return dataset.String(fmt.Sprintf("cat_%d", row))

	default:
		return dataset.String(stringSamples[rng.Intn(len(stringSamples))])
	}
}

package rules

import (
	"fmt"

	"github.com/leapstack-labs/leapqa/pkg/core"
	"github.com/leapstack-labs/leapqa/pkg/dataset"
)

func init() {
	Register(Definition{
		Kind:            KindRowCountMin,
		Description:     "The dataset must contain at least min rows.",
		DefaultSeverity: core.SeverityError,
		RequiredParams:  []string{"min"},
		ParseParams:     parseRowCountMinParams,
		Evaluate:        evalRowCountMin,
	})
	Register(Definition{
		Kind:            KindRowCountMax,
		Description:     "The dataset must contain at most max rows.",
		DefaultSeverity: core.SeverityError,
		RequiredParams:  []string{"max"},
		ParseParams:     parseRowCountMaxParams,
		Evaluate:        evalRowCountMax,
	})
}

type rowCountMinParams struct {
	Min *int `mapstructure:"min"`
}

type rowCountMaxParams struct {
	Max *int `mapstructure:"max"`
}

func parseRowCountMinParams(raw map[string]any) (any, error) {
	var p rowCountMinParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	if p.Min == nil {
		return nil, fmt.Errorf("missing required param \"min\"")
	}
	if *p.Min < 0 {
		return nil, fmt.Errorf("min %d is negative", *p.Min)
	}
	return &p, nil
}

func parseRowCountMaxParams(raw map[string]any) (any, error) {
	var p rowCountMaxParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	if p.Max == nil {
		return nil, fmt.Errorf("missing required param \"max\"")
	}
	if *p.Max < 0 {
		return nil, fmt.Errorf("max %d is negative", *p.Max)
	}
	return &p, nil
}

// evalRowCountMin emits a single dataset-wide violation when the dataset
// holds fewer rows than the inclusive minimum.
func evalRowCountMin(ds *dataset.Dataset, r *Rule) []core.Violation {
	p := r.Params.(*rowCountMinParams)
	if ds.NumRows() >= *p.Min {
		return nil
	}
	return []core.Violation{{
		RuleID:   r.ID,
		Severity: r.Severity,
		Row:      core.NoRow,
		Message:  fmt.Sprintf("dataset has %d rows, fewer than minimum %d", ds.NumRows(), *p.Min),
		Value:    ds.NumRows(),
	}}
}

// evalRowCountMax emits a single dataset-wide violation when the dataset
// holds more rows than the inclusive maximum.
func evalRowCountMax(ds *dataset.Dataset, r *Rule) []core.Violation {
	p := r.Params.(*rowCountMaxParams)
	if ds.NumRows() <= *p.Max {
		return nil
	}
	return []core.Violation{{
		RuleID:   r.ID,
		Severity: r.Severity,
		Row:      core.NoRow,
		Message:  fmt.Sprintf("dataset has %d rows, more than maximum %d", ds.NumRows(), *p.Max),
		Value:    ds.NumRows(),
	}}
}

package rules

import (
	"fmt"

	"github.com/leapstack-labs/leapqa/pkg/core"
	"github.com/leapstack-labs/leapqa/pkg/dataset"
)

func init() {
	Register(Definition{
		Kind:            KindNullFractionMax,
		Description:     "The fraction of nulls in the column must not exceed a threshold.",
		DefaultSeverity: core.SeverityWarning,
		MinColumns:      1,
		MaxColumns:      1,
		RequiredParams:  []string{"max_fraction"},
		ParseParams:     parseNullFractionParams,
		Evaluate:        evalNullFraction,
	})
	Register(Definition{
		Kind:            KindNonNull,
		Description:     "The column must not contain null values; one violation per null row.",
		DefaultSeverity: core.SeverityError,
		MinColumns:      1,
		MaxColumns:      1,
		ParseParams:     parseNoParams,
		Evaluate:        evalNonNull,
	})
}

type nullFractionParams struct {
	MaxFraction *float64 `mapstructure:"max_fraction"`
}

func parseNullFractionParams(raw map[string]any) (any, error) {
	var p nullFractionParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	if p.MaxFraction == nil {
		return nil, fmt.Errorf("missing required param \"max_fraction\"")
	}
	if *p.MaxFraction < 0 || *p.MaxFraction > 1 {
		return nil, fmt.Errorf("max_fraction %v is outside [0, 1]", *p.MaxFraction)
	}
	return &p, nil
}

// parseNoParams is shared by kinds that take no parameters.
func parseNoParams(raw map[string]any) (any, error) {
	if len(raw) > 0 {
		return nil, fmt.Errorf("kind takes no params")
	}
	return nil, nil
}

// evalNullFraction emits a single dataset-wide violation when the null
// fraction strictly exceeds the threshold. A fraction exactly equal to
// the threshold passes.
func evalNullFraction(ds *dataset.Dataset, r *Rule) []core.Violation {
	p := r.Params.(*nullFractionParams)
	column := r.Columns[0]
	values, ok := ds.Column(column)
	if !ok || len(values) == 0 {
		return nil
	}

	nulls := 0
	for _, v := range values {
		if v.IsNull() {
			nulls++
		}
	}
	fraction := float64(nulls) / float64(len(values))
	if fraction <= *p.MaxFraction {
		return nil
	}
	return []core.Violation{{
		RuleID:   r.ID,
		Severity: r.Severity,
		Column:   column,
		Row:      core.NoRow,
		Message: fmt.Sprintf("null fraction %s exceeds maximum %s (%d of %d rows)",
			formatFloat(fraction), formatFloat(*p.MaxFraction), nulls, len(values)),
		Value: fraction,
	}}
}

// evalNonNull emits one violation per null-valued row.
func evalNonNull(ds *dataset.Dataset, r *Rule) []core.Violation {
	column := r.Columns[0]
	values, ok := ds.Column(column)
	if !ok {
		return nil
	}

	var out []core.Violation
	for i, v := range values {
		if !v.IsNull() {
			continue
		}
		out = append(out, core.Violation{
			RuleID:   r.ID,
			Severity: r.Severity,
			Column:   column,
			Row:      i,
			Message:  fmt.Sprintf("column %q is null at row %d", column, i),
		})
	}
	return out
}

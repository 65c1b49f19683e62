package rules

import (
	"fmt"
	"strconv"

	"github.com/leapstack-labs/leapqa/pkg/core"
	"github.com/leapstack-labs/leapqa/pkg/dataset"
)

func init() {
	Register(Definition{
		Kind:            KindNumericRange,
		Description:     "Numeric values must fall inside inclusive [min, max] bounds.",
		DefaultSeverity: core.SeverityError,
		MinColumns:      1,
		MaxColumns:      1,
		OptionalParams:  []string{"min", "max"},
		ParseParams:     parseNumericRangeParams,
		Evaluate:        evalNumericRange,
	})
}

type numericRangeParams struct {
	Min *float64 `mapstructure:"min"`
	Max *float64 `mapstructure:"max"`
}

func parseNumericRangeParams(raw map[string]any) (any, error) {
	var p numericRangeParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	if p.Min == nil && p.Max == nil {
		return nil, fmt.Errorf("at least one of \"min\" and \"max\" is required")
	}
	if p.Min != nil && p.Max != nil && *p.Min > *p.Max {
		return nil, fmt.Errorf("min %v exceeds max %v", *p.Min, *p.Max)
	}
	return &p, nil
}

// evalNumericRange flags values outside the inclusive bounds. Values
// exactly equal to min or max pass. Null or non-numeric values are
// reported as type-mismatch violations rather than silently coerced.
func evalNumericRange(ds *dataset.Dataset, r *Rule) []core.Violation {
	p := r.Params.(*numericRangeParams)
	column := r.Columns[0]
	values, ok := ds.Column(column)
	if !ok {
		return nil
	}

	var out []core.Violation
	for i, v := range values {
		f, numeric := v.AsFloat()
		if !numeric {
			kind := v.Kind().String()
			if v.IsNull() {
				kind = "null"
			}
			out = append(out, core.Violation{
				RuleID:   r.ID,
				Severity: r.Severity,
				Column:   column,
				Row:      i,
				Message:  fmt.Sprintf("type mismatch: expected a numeric value, got %s", kind),
				Value:    v.Go(),
			})
			continue
		}
		switch {
		case p.Min != nil && f < *p.Min:
			out = append(out, core.Violation{
				RuleID:   r.ID,
				Severity: r.Severity,
				Column:   column,
				Row:      i,
				Message:  fmt.Sprintf("value %s is below minimum %s", formatFloat(f), formatFloat(*p.Min)),
				Value:    v.Go(),
			})
		case p.Max != nil && f > *p.Max:
			out = append(out, core.Violation{
				RuleID:   r.ID,
				Severity: r.Severity,
				Column:   column,
				Row:      i,
				Message:  fmt.Sprintf("value %s is above maximum %s", formatFloat(f), formatFloat(*p.Max)),
				Value:    v.Go(),
			})
		}
	}
	return out
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

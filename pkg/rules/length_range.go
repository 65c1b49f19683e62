package rules

import (
	"fmt"
	"unicode/utf8"

	"github.com/leapstack-labs/leapqa/pkg/core"
	"github.com/leapstack-labs/leapqa/pkg/dataset"
)

func init() {
	Register(Definition{
		Kind:            KindLengthRange,
		Description:     "String lengths (in characters) must fall inside inclusive [min_len, max_len] bounds.",
		DefaultSeverity: core.SeverityWarning,
		MinColumns:      1,
		MaxColumns:      1,
		OptionalParams:  []string{"min_len", "max_len"},
		ParseParams:     parseLengthRangeParams,
		Evaluate:        evalLengthRange,
	})
}

type lengthRangeParams struct {
	MinLen *int `mapstructure:"min_len"`
	MaxLen *int `mapstructure:"max_len"`
}

func parseLengthRangeParams(raw map[string]any) (any, error) {
	var p lengthRangeParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	if p.MinLen == nil && p.MaxLen == nil {
		return nil, fmt.Errorf("at least one of \"min_len\" and \"max_len\" is required")
	}
	if p.MinLen != nil && *p.MinLen < 0 {
		return nil, fmt.Errorf("min_len %d is negative", *p.MinLen)
	}
	if p.MinLen != nil && p.MaxLen != nil && *p.MinLen > *p.MaxLen {
		return nil, fmt.Errorf("min_len %d exceeds max_len %d", *p.MinLen, *p.MaxLen)
	}
	return &p, nil
}

// evalLengthRange flags values whose display form is shorter than min_len
// or longer than max_len, counting characters rather than bytes. Null
// values are exempt.
func evalLengthRange(ds *dataset.Dataset, r *Rule) []core.Violation {
	p := r.Params.(*lengthRangeParams)
	column := r.Columns[0]
	values, ok := ds.Column(column)
	if !ok {
		return nil
	}

	var out []core.Violation
	for i, v := range values {
		if v.IsNull() {
			continue
		}
		length := utf8.RuneCountInString(v.Format())
		switch {
		case p.MinLen != nil && length < *p.MinLen:
			out = append(out, core.Violation{
				RuleID:   r.ID,
				Severity: r.Severity,
				Column:   column,
				Row:      i,
				Message:  fmt.Sprintf("length %d is below minimum %d", length, *p.MinLen),
				Value:    v.Go(),
			})
		case p.MaxLen != nil && length > *p.MaxLen:
			out = append(out, core.Violation{
				RuleID:   r.ID,
				Severity: r.Severity,
				Column:   column,
				Row:      i,
				Message:  fmt.Sprintf("length %d is above maximum %d", length, *p.MaxLen),
				Value:    v.Go(),
			})
		}
	}
	return out
}

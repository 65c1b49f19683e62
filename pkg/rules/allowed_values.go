package rules

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapqa/pkg/core"
	"github.com/leapstack-labs/leapqa/pkg/dataset"
)

func init() {
	Register(Definition{
		Kind:            KindAllowedValues,
		Description:     "Values must belong to a declared set; comparison is exact unless case_insensitive is set.",
		DefaultSeverity: core.SeverityError,
		MinColumns:      1,
		MaxColumns:      1,
		RequiredParams:  []string{"values"},
		OptionalParams:  []string{"case_insensitive"},
		ParseParams:     parseAllowedValuesParams,
		Evaluate:        evalAllowedValues,
	})
}

type allowedValuesParams struct {
	Values          []string `mapstructure:"values"`
	CaseInsensitive bool     `mapstructure:"case_insensitive"`

	set map[string]bool
}

func parseAllowedValuesParams(raw map[string]any) (any, error) {
	var p allowedValuesParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	if len(p.Values) == 0 {
		return nil, fmt.Errorf("missing required param \"values\"")
	}
	p.set = make(map[string]bool, len(p.Values))
	for _, v := range p.Values {
		if p.CaseInsensitive {
			v = strings.ToLower(v)
		}
		p.set[v] = true
	}
	return &p, nil
}

// evalAllowedValues flags non-null values outside the declared set.
// Null values are exempt (delegated to the non-null rule).
func evalAllowedValues(ds *dataset.Dataset, r *Rule) []core.Violation {
	p := r.Params.(*allowedValuesParams)
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
		key := v.Format()
		if p.CaseInsensitive {
			key = strings.ToLower(key)
		}
		if p.set[key] {
			continue
		}
		out = append(out, core.Violation{
			RuleID:   r.ID,
			Severity: r.Severity,
			Column:   column,
			Row:      i,
			Message:  fmt.Sprintf("value %q is not in the allowed set %v", v.Format(), p.Values),
			Value:    v.Go(),
		})
	}
	return out
}

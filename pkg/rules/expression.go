package rules

import (
	"fmt"

	"github.com/leapstack-labs/leapqa/internal/starlark"
	"github.com/leapstack-labs/leapqa/pkg/core"
	"github.com/leapstack-labs/leapqa/pkg/dataset"
)

func init() {
	Register(Definition{
		Kind: KindCustomExpression,
		Description: "A Starlark boolean expression asserted per row; rows where it is false violate. " +
			"Columns are bound by name, the full row as row[\"col\"], the row index as idx.",
		DefaultSeverity: core.SeverityError,
		MaxColumns:      8,
		RequiredParams:  []string{"expression"},
		ParseParams:     parseExpressionParams,
		Evaluate:        evalExpression,
	})
}

type expressionParams struct {
	Expression string `mapstructure:"expression"`

	expr *starlark.Expr
}

// parseExpressionParams compiles the expression so syntax errors fail at
// parse time. Runtime errors (division by zero, undefined variable) are
// still possible and become per-row violations.
func parseExpressionParams(raw map[string]any) (any, error) {
	var p expressionParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	if p.Expression == "" {
		return nil, fmt.Errorf("missing required param \"expression\"")
	}
	expr, err := starlark.Compile("custom-expression", p.Expression)
	if err != nil {
		return nil, err
	}
	p.expr = expr
	return &p, nil
}

// evalExpression evaluates the assertion against every row. A row
// violates when the expression is false; a row whose evaluation fails
// produces an "expression error" violation instead of aborting the run.
func evalExpression(ds *dataset.Dataset, r *Rule) []core.Violation {
	p := r.Params.(*expressionParams)
	label := r.ColumnLabel()

	var out []core.Violation
	for i := 0; i < ds.NumRows(); i++ {
		globals := starlark.RowGlobals(ds.Row(i), i)
		holds, err := p.expr.EvalBool(globals)
		if err != nil {
			out = append(out, core.Violation{
				RuleID:   r.ID,
				Severity: r.Severity,
				Column:   label,
				Row:      i,
				Message:  fmt.Sprintf("expression error: %s", evalReason(err)),
			})
			continue
		}
		if holds {
			continue
		}
		out = append(out, core.Violation{
			RuleID:   r.ID,
			Severity: r.Severity,
			Column:   label,
			Row:      i,
			Message:  fmt.Sprintf("expression %q is false", p.Expression),
			Value:    sampleValues(ds, r.Columns, i),
		})
	}
	return out
}

// evalReason unwraps the evaluator's error message.
func evalReason(err error) string {
	if ee, ok := err.(*starlark.EvalError); ok {
		return ee.Message
	}
	return err.Error()
}

// sampleValues collects the target columns' values for one row, or nil
// when the rule names no columns.
func sampleValues(ds *dataset.Dataset, columns []string, row int) any {
	switch len(columns) {
	case 0:
		return nil
	case 1:
		v, _ := ds.Value(row, columns[0])
		return v.Go()
	default:
		out := make(map[string]any, len(columns))
		for _, col := range columns {
			v, _ := ds.Value(row, col)
			out[col] = v.Go()
		}
		return out
	}
}

package schema

import (
	"fmt"

	"github.com/leapstack-labs/leapqa/pkg/core"
	"github.com/leapstack-labs/leapqa/pkg/dataset"
)

// Pseudo-rule IDs for structural violations. Structural violations are
// schema-conformance failures, reported before any rule evaluation and
// never below severity error.
const (
	RuleMissingColumn    = "schema/missing-column"
	RuleUnexpectedColumn = "schema/unexpected-column"
	RuleTypeMismatch     = "schema/type-mismatch"
	RuleNullability      = "schema/not-null"
	RuleCoercion         = "schema/coercion"
)

// ValidateStructure checks that the dataset conforms to the schema:
// every schema column is present, column values are coercible to the
// declared logical type, and non-nullable columns hold no nulls.
//
// In strict mode, dataset columns absent from the schema are violations
// too; in lenient mode the dataset may be a superset of the schema.
func (s *Schema) ValidateStructure(ds *dataset.Dataset, strict bool) []core.Violation {
	var out []core.Violation

	for _, col := range s.columns {
		if !ds.HasColumn(col.Name) {
			out = append(out, core.Violation{
				RuleID:   RuleMissingColumn,
				Severity: core.SeverityCritical,
				Column:   col.Name,
				Row:      core.NoRow,
				Message:  fmt.Sprintf("schema column %q is missing from the dataset", col.Name),
			})
			continue
		}
		out = append(out, s.checkColumn(ds, col)...)
	}

	if strict {
		for _, name := range ds.Columns() {
			if !s.HasColumn(name) {
				out = append(out, core.Violation{
					RuleID:   RuleUnexpectedColumn,
					Severity: core.SeverityError,
					Column:   name,
					Row:      core.NoRow,
					Message:  fmt.Sprintf("dataset column %q is not declared in the schema", name),
				})
			}
		}
	}
	return out
}

// checkColumn verifies coercibility and nullability of one column.
// Type mismatches are reported once per column with the first offending
// row as the sample; nullability failures are reported per row.
func (s *Schema) checkColumn(ds *dataset.Dataset, col Column) []core.Violation {
	values, _ := ds.Column(col.Name)
	var out []core.Violation

	badRow, badCount := -1, 0
	for i, v := range values {
		if v.IsNull() {
			if !col.Nullable {
				out = append(out, core.Violation{
					RuleID:   RuleNullability,
					Severity: core.SeverityError,
					Column:   col.Name,
					Row:      i,
					Message:  fmt.Sprintf("column %q is not nullable but row %d is null", col.Name, i),
				})
			}
			continue
		}
		if _, ok := coerceValue(v, col.Type); !ok {
			if badRow < 0 {
				badRow = i
			}
			badCount++
		}
	}

	if badCount > 0 {
		sample, _ := ds.Value(badRow, col.Name)
		out = append(out, core.Violation{
			RuleID:   RuleTypeMismatch,
			Severity: core.SeverityError,
			Column:   col.Name,
			Row:      badRow,
			Message: fmt.Sprintf("column %q: %d value(s) not coercible to %s (first at row %d)",
				col.Name, badCount, col.Type, badRow),
			Value: sample.Go(),
		})
	}
	return out
}
